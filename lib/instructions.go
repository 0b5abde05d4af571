package lib

import (
    "bytes"
    "fmt"
)

/* opcode references
 * http://wiki.nesdev.com/w/index.php/CPU_unofficial_opcodes -- nice table of opcodes
 * http://www.oxyron.de/html/opcodes02.html -- has illegal opcodes and their semantics
 * https://www.masswerk.at/6502/6502_instruction_set.html
 * http://www.obelisk.me.uk/6502/reference.html -- cycle counts
 */

/* the opcode the test harness uses to stop the cpu. 0x02 is one of the
 * KIL/JAM opcodes that lock up real hardware, so no working program uses it.
 */
const HaltOpcode byte = 0x02

type Operation int

const (
    OperationNotImplemented Operation = iota
    OperationADC
    OperationAND
    OperationASL
    OperationBCC
    OperationBCS
    OperationBEQ
    OperationBIT
    OperationBMI
    OperationBNE
    OperationBPL
    OperationBRK
    OperationBVC
    OperationBVS
    OperationCLC
    OperationCLD
    OperationCLI
    OperationCLV
    OperationCMP
    OperationCPX
    OperationCPY
    OperationDEC
    OperationDEX
    OperationDEY
    OperationEOR
    OperationINC
    OperationINX
    OperationINY
    OperationJMP
    OperationJSR
    OperationLDA
    OperationLDX
    OperationLDY
    OperationLSR
    OperationNOP
    OperationORA
    OperationPHA
    OperationPHP
    OperationPLA
    OperationPLP
    OperationROL
    OperationROR
    OperationRTI
    OperationRTS
    OperationSBC
    OperationSEC
    OperationSED
    OperationSEI
    OperationSTA
    OperationSTX
    OperationSTY
    OperationTAX
    OperationTAY
    OperationTSX
    OperationTXA
    OperationTXS
    OperationTYA

    /* unofficial, but stable enough that games and nestest use them */
    OperationLAX
    OperationSAX
    OperationDCP
    OperationISB
    OperationSLO
    OperationRLA
    OperationSRE
    OperationRRA

    /* not an operation, used to size tables indexed by Operation */
    operationCount
)

/* https://www.masswerk.at/6502/6502_instruction_set.html
 * A = accumulator
 * abs = absolute
 * n/# = immediate
 * impl = implied
 * ind = indirect
 * rel = relative
 * zpg = zeropage
 */
type AddressingMode int

const (
    Implied AddressingMode = iota
    Accumulator
    Immediate
    ZeroPage
    ZeroPageX
    ZeroPageY
    Absolute
    AbsoluteX
    AbsoluteY
    Indirect
    IndirectX // (ind,X)
    IndirectY // (ind),Y
    Relative
)

func (mode AddressingMode) String() string {
    switch mode {
        case Implied: return "implied"
        case Accumulator: return "accumulator"
        case Immediate: return "immediate"
        case ZeroPage: return "zeropage"
        case ZeroPageX: return "zeropage,x"
        case ZeroPageY: return "zeropage,y"
        case Absolute: return "absolute"
        case AbsoluteX: return "absolute,x"
        case AbsoluteY: return "absolute,y"
        case Indirect: return "indirect"
        case IndirectX: return "(indirect,x)"
        case IndirectY: return "(indirect),y"
        case Relative: return "relative"
    }
    return fmt.Sprintf("mode(%d)", int(mode))
}

/* how many bytes follow the opcode for a given addressing mode */
func OperandBytes(mode AddressingMode) byte {
    switch mode {
        case Implied, Accumulator: return 0
        case Immediate, ZeroPage, ZeroPageX, ZeroPageY, IndirectX, IndirectY, Relative: return 1
        case Absolute, AbsoluteX, AbsoluteY, Indirect: return 2
    }
    return 0
}

/* static description of an opcode. entries live in instructionTable and are never modified */
type Instruction struct {
    Name string
    Opcode byte
    Operands byte
    /* base cycle cost */
    Cycles byte
    Operation Operation
    Mode AddressingMode
    /* costs one more cycle if computing the address crosses a page */
    PageCross bool
    Official bool
}

func (instruction Instruction) Length() uint16 {
    return 1 + uint16(instruction.Operands)
}

func (instruction Instruction) Implemented() bool {
    return instruction.Operation != OperationNotImplemented
}

func (instruction Instruction) IsBranch() bool {
    switch instruction.Operation {
        case OperationBCC, OperationBCS, OperationBEQ, OperationBMI,
             OperationBNE, OperationBPL, OperationBVC, OperationBVS:
            return true
    }
    return false
}

func (instruction Instruction) String() string {
    var out bytes.Buffer
    out.WriteString(fmt.Sprintf("%02X ", instruction.Opcode))
    if !instruction.Official {
        out.WriteRune('*')
    }
    out.WriteString(instruction.Name)
    out.WriteString(fmt.Sprintf(" %v (%v cycles", instruction.Mode, instruction.Cycles))
    if instruction.PageCross {
        out.WriteString(" +1")
    }
    out.WriteRune(')')
    return out.String()
}

type opcodeEntry struct {
    opcode byte
    name string
    operation Operation
    mode AddressingMode
    /* opcode plus operand bytes */
    length byte
    cycles byte
    pageCross bool
}

var officialOpcodes = []opcodeEntry{
    {0x69, "adc", OperationADC, Immediate, 2, 2, false},
    {0x65, "adc", OperationADC, ZeroPage, 2, 3, false},
    {0x75, "adc", OperationADC, ZeroPageX, 2, 4, false},
    {0x6d, "adc", OperationADC, Absolute, 3, 4, false},
    {0x7d, "adc", OperationADC, AbsoluteX, 3, 4, true},
    {0x79, "adc", OperationADC, AbsoluteY, 3, 4, true},
    {0x61, "adc", OperationADC, IndirectX, 2, 6, false},
    {0x71, "adc", OperationADC, IndirectY, 2, 5, true},

    {0x29, "and", OperationAND, Immediate, 2, 2, false},
    {0x25, "and", OperationAND, ZeroPage, 2, 3, false},
    {0x35, "and", OperationAND, ZeroPageX, 2, 4, false},
    {0x2d, "and", OperationAND, Absolute, 3, 4, false},
    {0x3d, "and", OperationAND, AbsoluteX, 3, 4, true},
    {0x39, "and", OperationAND, AbsoluteY, 3, 4, true},
    {0x21, "and", OperationAND, IndirectX, 2, 6, false},
    {0x31, "and", OperationAND, IndirectY, 2, 5, true},

    {0x0a, "asl", OperationASL, Accumulator, 1, 2, false},
    {0x06, "asl", OperationASL, ZeroPage, 2, 5, false},
    {0x16, "asl", OperationASL, ZeroPageX, 2, 6, false},
    {0x0e, "asl", OperationASL, Absolute, 3, 6, false},
    {0x1e, "asl", OperationASL, AbsoluteX, 3, 7, false},

    {0x90, "bcc", OperationBCC, Relative, 2, 2, true},
    {0xb0, "bcs", OperationBCS, Relative, 2, 2, true},
    {0xf0, "beq", OperationBEQ, Relative, 2, 2, true},
    {0x30, "bmi", OperationBMI, Relative, 2, 2, true},
    {0xd0, "bne", OperationBNE, Relative, 2, 2, true},
    {0x10, "bpl", OperationBPL, Relative, 2, 2, true},
    {0x50, "bvc", OperationBVC, Relative, 2, 2, true},
    {0x70, "bvs", OperationBVS, Relative, 2, 2, true},

    {0x24, "bit", OperationBIT, ZeroPage, 2, 3, false},
    {0x2c, "bit", OperationBIT, Absolute, 3, 4, false},

    {0x00, "brk", OperationBRK, Implied, 1, 7, false},

    {0x18, "clc", OperationCLC, Implied, 1, 2, false},
    {0xd8, "cld", OperationCLD, Implied, 1, 2, false},
    {0x58, "cli", OperationCLI, Implied, 1, 2, false},
    {0xb8, "clv", OperationCLV, Implied, 1, 2, false},

    {0xc9, "cmp", OperationCMP, Immediate, 2, 2, false},
    {0xc5, "cmp", OperationCMP, ZeroPage, 2, 3, false},
    {0xd5, "cmp", OperationCMP, ZeroPageX, 2, 4, false},
    {0xcd, "cmp", OperationCMP, Absolute, 3, 4, false},
    {0xdd, "cmp", OperationCMP, AbsoluteX, 3, 4, true},
    {0xd9, "cmp", OperationCMP, AbsoluteY, 3, 4, true},
    {0xc1, "cmp", OperationCMP, IndirectX, 2, 6, false},
    {0xd1, "cmp", OperationCMP, IndirectY, 2, 5, true},

    {0xe0, "cpx", OperationCPX, Immediate, 2, 2, false},
    {0xe4, "cpx", OperationCPX, ZeroPage, 2, 3, false},
    {0xec, "cpx", OperationCPX, Absolute, 3, 4, false},

    {0xc0, "cpy", OperationCPY, Immediate, 2, 2, false},
    {0xc4, "cpy", OperationCPY, ZeroPage, 2, 3, false},
    {0xcc, "cpy", OperationCPY, Absolute, 3, 4, false},

    {0xc6, "dec", OperationDEC, ZeroPage, 2, 5, false},
    {0xd6, "dec", OperationDEC, ZeroPageX, 2, 6, false},
    {0xce, "dec", OperationDEC, Absolute, 3, 6, false},
    {0xde, "dec", OperationDEC, AbsoluteX, 3, 7, false},

    {0xca, "dex", OperationDEX, Implied, 1, 2, false},
    {0x88, "dey", OperationDEY, Implied, 1, 2, false},

    {0x49, "eor", OperationEOR, Immediate, 2, 2, false},
    {0x45, "eor", OperationEOR, ZeroPage, 2, 3, false},
    {0x55, "eor", OperationEOR, ZeroPageX, 2, 4, false},
    {0x4d, "eor", OperationEOR, Absolute, 3, 4, false},
    {0x5d, "eor", OperationEOR, AbsoluteX, 3, 4, true},
    {0x59, "eor", OperationEOR, AbsoluteY, 3, 4, true},
    {0x41, "eor", OperationEOR, IndirectX, 2, 6, false},
    {0x51, "eor", OperationEOR, IndirectY, 2, 5, true},

    {0xe6, "inc", OperationINC, ZeroPage, 2, 5, false},
    {0xf6, "inc", OperationINC, ZeroPageX, 2, 6, false},
    {0xee, "inc", OperationINC, Absolute, 3, 6, false},
    {0xfe, "inc", OperationINC, AbsoluteX, 3, 7, false},

    {0xe8, "inx", OperationINX, Implied, 1, 2, false},
    {0xc8, "iny", OperationINY, Implied, 1, 2, false},

    {0x4c, "jmp", OperationJMP, Absolute, 3, 3, false},
    {0x6c, "jmp", OperationJMP, Indirect, 3, 5, false},

    {0x20, "jsr", OperationJSR, Absolute, 3, 6, false},

    {0xa9, "lda", OperationLDA, Immediate, 2, 2, false},
    {0xa5, "lda", OperationLDA, ZeroPage, 2, 3, false},
    {0xb5, "lda", OperationLDA, ZeroPageX, 2, 4, false},
    {0xad, "lda", OperationLDA, Absolute, 3, 4, false},
    {0xbd, "lda", OperationLDA, AbsoluteX, 3, 4, true},
    {0xb9, "lda", OperationLDA, AbsoluteY, 3, 4, true},
    {0xa1, "lda", OperationLDA, IndirectX, 2, 6, false},
    {0xb1, "lda", OperationLDA, IndirectY, 2, 5, true},

    {0xa2, "ldx", OperationLDX, Immediate, 2, 2, false},
    {0xa6, "ldx", OperationLDX, ZeroPage, 2, 3, false},
    {0xb6, "ldx", OperationLDX, ZeroPageY, 2, 4, false},
    {0xae, "ldx", OperationLDX, Absolute, 3, 4, false},
    {0xbe, "ldx", OperationLDX, AbsoluteY, 3, 4, true},

    {0xa0, "ldy", OperationLDY, Immediate, 2, 2, false},
    {0xa4, "ldy", OperationLDY, ZeroPage, 2, 3, false},
    {0xb4, "ldy", OperationLDY, ZeroPageX, 2, 4, false},
    {0xac, "ldy", OperationLDY, Absolute, 3, 4, false},
    {0xbc, "ldy", OperationLDY, AbsoluteX, 3, 4, true},

    {0x4a, "lsr", OperationLSR, Accumulator, 1, 2, false},
    {0x46, "lsr", OperationLSR, ZeroPage, 2, 5, false},
    {0x56, "lsr", OperationLSR, ZeroPageX, 2, 6, false},
    {0x4e, "lsr", OperationLSR, Absolute, 3, 6, false},
    {0x5e, "lsr", OperationLSR, AbsoluteX, 3, 7, false},

    {0xea, "nop", OperationNOP, Implied, 1, 2, false},

    {0x09, "ora", OperationORA, Immediate, 2, 2, false},
    {0x05, "ora", OperationORA, ZeroPage, 2, 3, false},
    {0x15, "ora", OperationORA, ZeroPageX, 2, 4, false},
    {0x0d, "ora", OperationORA, Absolute, 3, 4, false},
    {0x1d, "ora", OperationORA, AbsoluteX, 3, 4, true},
    {0x19, "ora", OperationORA, AbsoluteY, 3, 4, true},
    {0x01, "ora", OperationORA, IndirectX, 2, 6, false},
    {0x11, "ora", OperationORA, IndirectY, 2, 5, true},

    {0x48, "pha", OperationPHA, Implied, 1, 3, false},
    {0x08, "php", OperationPHP, Implied, 1, 3, false},
    {0x68, "pla", OperationPLA, Implied, 1, 4, false},
    {0x28, "plp", OperationPLP, Implied, 1, 4, false},

    {0x2a, "rol", OperationROL, Accumulator, 1, 2, false},
    {0x26, "rol", OperationROL, ZeroPage, 2, 5, false},
    {0x36, "rol", OperationROL, ZeroPageX, 2, 6, false},
    {0x2e, "rol", OperationROL, Absolute, 3, 6, false},
    {0x3e, "rol", OperationROL, AbsoluteX, 3, 7, false},

    {0x6a, "ror", OperationROR, Accumulator, 1, 2, false},
    {0x66, "ror", OperationROR, ZeroPage, 2, 5, false},
    {0x76, "ror", OperationROR, ZeroPageX, 2, 6, false},
    {0x6e, "ror", OperationROR, Absolute, 3, 6, false},
    {0x7e, "ror", OperationROR, AbsoluteX, 3, 7, false},

    {0x40, "rti", OperationRTI, Implied, 1, 6, false},
    {0x60, "rts", OperationRTS, Implied, 1, 6, false},

    {0xe9, "sbc", OperationSBC, Immediate, 2, 2, false},
    {0xe5, "sbc", OperationSBC, ZeroPage, 2, 3, false},
    {0xf5, "sbc", OperationSBC, ZeroPageX, 2, 4, false},
    {0xed, "sbc", OperationSBC, Absolute, 3, 4, false},
    {0xfd, "sbc", OperationSBC, AbsoluteX, 3, 4, true},
    {0xf9, "sbc", OperationSBC, AbsoluteY, 3, 4, true},
    {0xe1, "sbc", OperationSBC, IndirectX, 2, 6, false},
    {0xf1, "sbc", OperationSBC, IndirectY, 2, 5, true},

    {0x38, "sec", OperationSEC, Implied, 1, 2, false},
    {0xf8, "sed", OperationSED, Implied, 1, 2, false},
    {0x78, "sei", OperationSEI, Implied, 1, 2, false},

    {0x85, "sta", OperationSTA, ZeroPage, 2, 3, false},
    {0x95, "sta", OperationSTA, ZeroPageX, 2, 4, false},
    {0x8d, "sta", OperationSTA, Absolute, 3, 4, false},
    {0x9d, "sta", OperationSTA, AbsoluteX, 3, 5, false},
    {0x99, "sta", OperationSTA, AbsoluteY, 3, 5, false},
    {0x81, "sta", OperationSTA, IndirectX, 2, 6, false},
    {0x91, "sta", OperationSTA, IndirectY, 2, 6, false},

    {0x86, "stx", OperationSTX, ZeroPage, 2, 3, false},
    {0x96, "stx", OperationSTX, ZeroPageY, 2, 4, false},
    {0x8e, "stx", OperationSTX, Absolute, 3, 4, false},

    {0x84, "sty", OperationSTY, ZeroPage, 2, 3, false},
    {0x94, "sty", OperationSTY, ZeroPageX, 2, 4, false},
    {0x8c, "sty", OperationSTY, Absolute, 3, 4, false},

    {0xaa, "tax", OperationTAX, Implied, 1, 2, false},
    {0xa8, "tay", OperationTAY, Implied, 1, 2, false},
    {0xba, "tsx", OperationTSX, Implied, 1, 2, false},
    {0x8a, "txa", OperationTXA, Implied, 1, 2, false},
    {0x9a, "txs", OperationTXS, Implied, 1, 2, false},
    {0x98, "tya", OperationTYA, Implied, 1, 2, false},
}

var unofficialOpcodes = []opcodeEntry{
    {0x1a, "nop", OperationNOP, Implied, 1, 2, false},
    {0x3a, "nop", OperationNOP, Implied, 1, 2, false},
    {0x5a, "nop", OperationNOP, Implied, 1, 2, false},
    {0x7a, "nop", OperationNOP, Implied, 1, 2, false},
    {0xda, "nop", OperationNOP, Implied, 1, 2, false},
    {0xfa, "nop", OperationNOP, Implied, 1, 2, false},
    {0x80, "nop", OperationNOP, Immediate, 2, 2, false},
    {0x82, "nop", OperationNOP, Immediate, 2, 2, false},
    {0x89, "nop", OperationNOP, Immediate, 2, 2, false},
    {0xc2, "nop", OperationNOP, Immediate, 2, 2, false},
    {0xe2, "nop", OperationNOP, Immediate, 2, 2, false},
    {0x04, "nop", OperationNOP, ZeroPage, 2, 3, false},
    {0x44, "nop", OperationNOP, ZeroPage, 2, 3, false},
    {0x64, "nop", OperationNOP, ZeroPage, 2, 3, false},
    {0x14, "nop", OperationNOP, ZeroPageX, 2, 4, false},
    {0x34, "nop", OperationNOP, ZeroPageX, 2, 4, false},
    {0x54, "nop", OperationNOP, ZeroPageX, 2, 4, false},
    {0x74, "nop", OperationNOP, ZeroPageX, 2, 4, false},
    {0xd4, "nop", OperationNOP, ZeroPageX, 2, 4, false},
    {0xf4, "nop", OperationNOP, ZeroPageX, 2, 4, false},
    {0x0c, "nop", OperationNOP, Absolute, 3, 4, false},
    {0x1c, "nop", OperationNOP, AbsoluteX, 3, 4, true},
    {0x3c, "nop", OperationNOP, AbsoluteX, 3, 4, true},
    {0x5c, "nop", OperationNOP, AbsoluteX, 3, 4, true},
    {0x7c, "nop", OperationNOP, AbsoluteX, 3, 4, true},
    {0xdc, "nop", OperationNOP, AbsoluteX, 3, 4, true},
    {0xfc, "nop", OperationNOP, AbsoluteX, 3, 4, true},

    {0xa7, "lax", OperationLAX, ZeroPage, 2, 3, false},
    {0xb7, "lax", OperationLAX, ZeroPageY, 2, 4, false},
    {0xaf, "lax", OperationLAX, Absolute, 3, 4, false},
    {0xbf, "lax", OperationLAX, AbsoluteY, 3, 4, true},
    {0xa3, "lax", OperationLAX, IndirectX, 2, 6, false},
    {0xb3, "lax", OperationLAX, IndirectY, 2, 5, true},

    {0x87, "sax", OperationSAX, ZeroPage, 2, 3, false},
    {0x97, "sax", OperationSAX, ZeroPageY, 2, 4, false},
    {0x8f, "sax", OperationSAX, Absolute, 3, 4, false},
    {0x83, "sax", OperationSAX, IndirectX, 2, 6, false},

    {0xeb, "sbc", OperationSBC, Immediate, 2, 2, false},

    {0xc7, "dcp", OperationDCP, ZeroPage, 2, 5, false},
    {0xd7, "dcp", OperationDCP, ZeroPageX, 2, 6, false},
    {0xcf, "dcp", OperationDCP, Absolute, 3, 6, false},
    {0xdf, "dcp", OperationDCP, AbsoluteX, 3, 7, false},
    {0xdb, "dcp", OperationDCP, AbsoluteY, 3, 7, false},
    {0xc3, "dcp", OperationDCP, IndirectX, 2, 8, false},
    {0xd3, "dcp", OperationDCP, IndirectY, 2, 8, false},

    {0xe7, "isb", OperationISB, ZeroPage, 2, 5, false},
    {0xf7, "isb", OperationISB, ZeroPageX, 2, 6, false},
    {0xef, "isb", OperationISB, Absolute, 3, 6, false},
    {0xff, "isb", OperationISB, AbsoluteX, 3, 7, false},
    {0xfb, "isb", OperationISB, AbsoluteY, 3, 7, false},
    {0xe3, "isb", OperationISB, IndirectX, 2, 8, false},
    {0xf3, "isb", OperationISB, IndirectY, 2, 8, false},

    {0x07, "slo", OperationSLO, ZeroPage, 2, 5, false},
    {0x17, "slo", OperationSLO, ZeroPageX, 2, 6, false},
    {0x0f, "slo", OperationSLO, Absolute, 3, 6, false},
    {0x1f, "slo", OperationSLO, AbsoluteX, 3, 7, false},
    {0x1b, "slo", OperationSLO, AbsoluteY, 3, 7, false},
    {0x03, "slo", OperationSLO, IndirectX, 2, 8, false},
    {0x13, "slo", OperationSLO, IndirectY, 2, 8, false},

    {0x27, "rla", OperationRLA, ZeroPage, 2, 5, false},
    {0x37, "rla", OperationRLA, ZeroPageX, 2, 6, false},
    {0x2f, "rla", OperationRLA, Absolute, 3, 6, false},
    {0x3f, "rla", OperationRLA, AbsoluteX, 3, 7, false},
    {0x3b, "rla", OperationRLA, AbsoluteY, 3, 7, false},
    {0x23, "rla", OperationRLA, IndirectX, 2, 8, false},
    {0x33, "rla", OperationRLA, IndirectY, 2, 8, false},

    {0x47, "sre", OperationSRE, ZeroPage, 2, 5, false},
    {0x57, "sre", OperationSRE, ZeroPageX, 2, 6, false},
    {0x4f, "sre", OperationSRE, Absolute, 3, 6, false},
    {0x5f, "sre", OperationSRE, AbsoluteX, 3, 7, false},
    {0x5b, "sre", OperationSRE, AbsoluteY, 3, 7, false},
    {0x43, "sre", OperationSRE, IndirectX, 2, 8, false},
    {0x53, "sre", OperationSRE, IndirectY, 2, 8, false},

    {0x67, "rra", OperationRRA, ZeroPage, 2, 5, false},
    {0x77, "rra", OperationRRA, ZeroPageX, 2, 6, false},
    {0x6f, "rra", OperationRRA, Absolute, 3, 6, false},
    {0x7f, "rra", OperationRRA, AbsoluteX, 3, 7, false},
    {0x7b, "rra", OperationRRA, AbsoluteY, 3, 7, false},
    {0x63, "rra", OperationRRA, IndirectX, 2, 8, false},
    {0x73, "rra", OperationRRA, IndirectY, 2, 8, false},
}

var instructionTable [256]Instruction

func init(){
    for i := 0; i < 256; i++ {
        instructionTable[i] = Instruction{
            Name: "NotImplemented",
            Opcode: byte(i),
            Operands: 0,
            Cycles: 0,
            Operation: OperationNotImplemented,
            Mode: Implied,
        }
    }

    install := func(entries []opcodeEntry, official bool){
        for _, entry := range entries {
            instructionTable[entry.opcode] = Instruction{
                Name: entry.name,
                Opcode: entry.opcode,
                Operands: entry.length - 1,
                Cycles: entry.cycles,
                Operation: entry.operation,
                Mode: entry.mode,
                PageCross: entry.pageCross,
                Official: official,
            }
        }
    }

    install(officialOpcodes, true)
    install(unofficialOpcodes, false)
}

/* every opcode maps to something, unknown opcodes get a NotImplemented entry.
 * the entry is returned as a copy so the table cannot be changed by callers.
 */
func Lookup(opcode byte) Instruction {
    return instructionTable[opcode]
}
