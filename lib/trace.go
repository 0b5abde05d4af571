package lib

import (
    "bufio"
    "fmt"
    "io"
    "regexp"
    "strconv"
    "strings"
)

/* one line of a nestest style log, the registers before the instruction at PC runs
 *   C000  4C F5 C5  JMP $C5F5    A:00 X:00 Y:00 P:24 SP:FD PPU:  0, 21 CYC:7
 */
type TraceLine struct {
    PC uint16
    Opcode byte
    A byte
    X byte
    Y byte
    P byte
    SP byte
    Cycle uint64
}

var traceStart = regexp.MustCompile(`^([0-9A-Fa-f]{4})\s+([0-9A-Fa-f]{2})\b`)
var traceRegister = regexp.MustCompile(`\b(A|X|Y|P|SP):([0-9A-Fa-f]{2})\b`)
var traceCycle = regexp.MustCompile(`\bCYC:\s*(\d+)`)

func parseHex(value string, bits int) (uint64, error) {
    return strconv.ParseUint(value, 16, bits)
}

func ParseTraceLine(line string) (TraceLine, error) {
    var out TraceLine

    start := traceStart.FindStringSubmatch(line)
    if start == nil {
        return out, fmt.Errorf("no program counter in trace line %q", line)
    }

    pc, err := parseHex(start[1], 16)
    if err != nil {
        return out, err
    }
    opcode, err := parseHex(start[2], 8)
    if err != nil {
        return out, err
    }
    out.PC = uint16(pc)
    out.Opcode = byte(opcode)

    found := make(map[string]bool)
    for _, match := range traceRegister.FindAllStringSubmatch(line, -1) {
        value, err := parseHex(match[2], 8)
        if err != nil {
            return out, err
        }
        found[match[1]] = true
        switch match[1] {
            case "A": out.A = byte(value)
            case "X": out.X = byte(value)
            case "Y": out.Y = byte(value)
            case "P": out.P = byte(value)
            case "SP": out.SP = byte(value)
        }
    }

    for _, register := range []string{"A", "X", "Y", "P", "SP"} {
        if !found[register] {
            return out, fmt.Errorf("register %v missing from trace line %q", register, line)
        }
    }

    cycle := traceCycle.FindStringSubmatch(line)
    if cycle == nil {
        return out, fmt.Errorf("no cycle count in trace line %q", line)
    }
    out.Cycle, err = strconv.ParseUint(cycle[1], 10, 64)
    if err != nil {
        return out, err
    }

    return out, nil
}

func ReadTrace(reader io.Reader) ([]TraceLine, error) {
    var out []TraceLine
    scanner := bufio.NewScanner(reader)
    number := 0
    for scanner.Scan() {
        number += 1
        line := strings.TrimSpace(scanner.Text())
        if line == "" {
            continue
        }
        parsed, err := ParseTraceLine(line)
        if err != nil {
            return out, fmt.Errorf("line %v: %w", number, err)
        }
        out = append(out, parsed)
    }

    return out, scanner.Err()
}

/* nil if the cpu state agrees with the trace, otherwise an error naming the first differing field */
func (line *TraceLine) Matches(state CPUState) error {
    if line.PC != state.PC {
        return fmt.Errorf("PC 0x%04X expected 0x%04X", state.PC, line.PC)
    }
    if line.A != state.A {
        return fmt.Errorf("A 0x%02X expected 0x%02X", state.A, line.A)
    }
    if line.X != state.X {
        return fmt.Errorf("X 0x%02X expected 0x%02X", state.X, line.X)
    }
    if line.Y != state.Y {
        return fmt.Errorf("Y 0x%02X expected 0x%02X", state.Y, line.Y)
    }
    if line.P != byte(state.Status) {
        return fmt.Errorf("P 0x%02X (%v) expected 0x%02X (%v)", byte(state.Status), state.Status, line.P, Status(line.P))
    }
    if line.SP != state.SP {
        return fmt.Errorf("SP 0x%02X expected 0x%02X", state.SP, line.SP)
    }
    if line.Cycle != state.Cycle {
        return fmt.Errorf("cycle %v expected %v", state.Cycle, line.Cycle)
    }
    return nil
}

/* render the state in the same layout nestest.log uses, minus the ppu column */
func FormatTrace(state CPUState, peek func(uint16) byte) string {
    text, _ := Disassemble(peek, state.PC)
    return fmt.Sprintf("%04X  %-9s %-31s A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%v",
        state.PC, InstructionBytes(peek, state.PC), text,
        state.A, state.X, state.Y, byte(state.Status), state.SP, state.Cycle)
}
