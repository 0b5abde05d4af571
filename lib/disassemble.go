package lib

import (
    "fmt"
    "strings"
)

/* render the instruction at pc in the usual assembler syntax, such as
 *   JMP ($30FF)
 *   LDA $0200,X
 * returns the text and the address of the next instruction.
 */
func Disassemble(peek func(uint16) byte, pc uint16) (string, uint16) {
    instruction := Lookup(peek(pc))

    name := strings.ToUpper(instruction.Name)
    if !instruction.Implemented() {
        return fmt.Sprintf(".byte $%02X", instruction.Opcode), pc + 1
    }
    if !instruction.Official {
        name = "*" + name
    }

    var low, high byte
    if instruction.Operands > 0 {
        low = peek(pc + 1)
    }
    if instruction.Operands > 1 {
        high = peek(pc + 2)
    }
    word := (uint16(high) << 8) | uint16(low)
    next := pc + instruction.Length()

    var operand string
    switch instruction.Mode {
        case Implied:
            operand = ""
        case Accumulator:
            operand = "A"
        case Immediate:
            operand = fmt.Sprintf("#$%02X", low)
        case ZeroPage:
            operand = fmt.Sprintf("$%02X", low)
        case ZeroPageX:
            operand = fmt.Sprintf("$%02X,X", low)
        case ZeroPageY:
            operand = fmt.Sprintf("$%02X,Y", low)
        case Absolute:
            operand = fmt.Sprintf("$%04X", word)
        case AbsoluteX:
            operand = fmt.Sprintf("$%04X,X", word)
        case AbsoluteY:
            operand = fmt.Sprintf("$%04X,Y", word)
        case Indirect:
            operand = fmt.Sprintf("($%04X)", word)
        case IndirectX:
            operand = fmt.Sprintf("($%02X,X)", low)
        case IndirectY:
            operand = fmt.Sprintf("($%02X),Y", low)
        case Relative:
            operand = fmt.Sprintf("$%04X", next + uint16(int16(int8(low))))
    }

    if operand == "" {
        return name, next
    }

    return name + " " + operand, next
}

/* the raw bytes of the instruction at pc, as hex separated by spaces */
func InstructionBytes(peek func(uint16) byte, pc uint16) string {
    instruction := Lookup(peek(pc))
    length := instruction.Length()
    if !instruction.Implemented() {
        length = 1
    }

    parts := make([]string, 0, length)
    for i := uint16(0); i < length; i++ {
        parts = append(parts, fmt.Sprintf("%02X", peek(pc + i)))
    }
    return strings.Join(parts, " ")
}
