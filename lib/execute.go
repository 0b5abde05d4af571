package lib

import (
    "log"
)

/* http://www.righto.com/2012/12/the-6502-overflow-flag-explained.html
 * overflow happens when both inputs have the same sign and the result has a different one
 */
func (cpu *CPU) doAdc(value byte){
    var carry uint16
    if cpu.Status.Carry() {
        carry = 1
    }

    sum := uint16(cpu.A) + uint16(value) + carry
    result := byte(sum)

    cpu.Status.Set(FlagCarry, sum > 0xff)
    cpu.Status.Set(FlagOverflow, (value ^ result) & (cpu.A ^ result) & 0x80 != 0)
    cpu.A = result
    cpu.Status.setZN(result)
}

/* a - b - (1 - carry) is the same as a + ^b + carry */
func (cpu *CPU) doSbc(value byte){
    cpu.doAdc(^value)
}

func (cpu *CPU) compare(register byte, value byte){
    cpu.Status.Set(FlagCarry, register >= value)
    cpu.Status.setZN(register - value)
}

func (cpu *CPU) shiftLeft(value byte) byte {
    cpu.Status.Set(FlagCarry, value & 0x80 == 0x80)
    result := value << 1
    cpu.Status.setZN(result)
    return result
}

func (cpu *CPU) shiftRight(value byte) byte {
    cpu.Status.Set(FlagCarry, value & 0x1 == 0x1)
    result := value >> 1
    cpu.Status.setZN(result)
    return result
}

func (cpu *CPU) rotateLeft(value byte) byte {
    var carry byte
    if cpu.Status.Carry() {
        carry = 1
    }
    cpu.Status.Set(FlagCarry, value & 0x80 == 0x80)
    result := (value << 1) | carry
    cpu.Status.setZN(result)
    return result
}

func (cpu *CPU) rotateRight(value byte) byte {
    var carry byte
    if cpu.Status.Carry() {
        carry = 0x80
    }
    cpu.Status.Set(FlagCarry, value & 0x1 == 0x1)
    result := (value >> 1) | carry
    cpu.Status.setZN(result)
    return result
}

func (cpu *CPU) branch(condition bool, target operand) bool {
    if condition {
        cpu.PC = target.address
    }
    return condition
}

/* run the semantics of an instruction whose operand bytes were already consumed.
 * returns true if the instruction was a branch that was taken.
 */
func (cpu *CPU) execute(instruction *Instruction, value operand) bool {
    switch instruction.Operation {
        case OperationNotImplemented:
            if cpu.Options.Debug > 0 {
                log.Printf("Warning: unimplemented opcode 0x%02x at 0x%x", instruction.Opcode, cpu.PC - 1)
            }

        case OperationADC:
            cpu.doAdc(cpu.load(value))
        case OperationSBC:
            cpu.doSbc(cpu.load(value))

        case OperationAND:
            cpu.A = cpu.A & cpu.load(value)
            cpu.Status.setZN(cpu.A)
        case OperationORA:
            cpu.A = cpu.A | cpu.load(value)
            cpu.Status.setZN(cpu.A)
        case OperationEOR:
            cpu.A = cpu.A ^ cpu.load(value)
            cpu.Status.setZN(cpu.A)

        case OperationASL:
            cpu.store(instruction, value, cpu.shiftLeft(cpu.load(value)))
        case OperationLSR:
            cpu.store(instruction, value, cpu.shiftRight(cpu.load(value)))
        case OperationROL:
            cpu.store(instruction, value, cpu.rotateLeft(cpu.load(value)))
        case OperationROR:
            cpu.store(instruction, value, cpu.rotateRight(cpu.load(value)))

        case OperationBCC:
            return cpu.branch(!cpu.Status.Carry(), value)
        case OperationBCS:
            return cpu.branch(cpu.Status.Carry(), value)
        case OperationBEQ:
            return cpu.branch(cpu.Status.Zero(), value)
        case OperationBNE:
            return cpu.branch(!cpu.Status.Zero(), value)
        case OperationBMI:
            return cpu.branch(cpu.Status.Negative(), value)
        case OperationBPL:
            return cpu.branch(!cpu.Status.Negative(), value)
        case OperationBVS:
            return cpu.branch(cpu.Status.Overflow(), value)
        case OperationBVC:
            return cpu.branch(!cpu.Status.Overflow(), value)

        case OperationBIT:
            data := cpu.load(value)
            cpu.Status.Set(FlagZero, cpu.A & data == 0)
            cpu.Status.Set(FlagNegative, data & 0x80 == 0x80)
            cpu.Status.Set(FlagOverflow, data & 0x40 == 0x40)

        /* brk has a padding byte after the opcode. the interrupt itself is
         * taken by Step once the instruction is done.
         */
        case OperationBRK:
            cpu.PC += 1
            cpu.Status.Set(FlagBreak, true)

        case OperationCLC:
            cpu.Status.Set(FlagCarry, false)
        case OperationCLD:
            cpu.Status.Set(FlagDecimal, false)
        case OperationCLI:
            cpu.Status.Set(FlagInterruptDisable, false)
        case OperationCLV:
            cpu.Status.Set(FlagOverflow, false)
        case OperationSEC:
            cpu.Status.Set(FlagCarry, true)
        case OperationSED:
            cpu.Status.Set(FlagDecimal, true)
        case OperationSEI:
            cpu.Status.Set(FlagInterruptDisable, true)

        case OperationCMP:
            cpu.compare(cpu.A, cpu.load(value))
        case OperationCPX:
            cpu.compare(cpu.X, cpu.load(value))
        case OperationCPY:
            cpu.compare(cpu.Y, cpu.load(value))

        case OperationDEC:
            result := cpu.load(value) - 1
            cpu.store(instruction, value, result)
            cpu.Status.setZN(result)
        case OperationINC:
            result := cpu.load(value) + 1
            cpu.store(instruction, value, result)
            cpu.Status.setZN(result)
        case OperationDEX:
            cpu.X -= 1
            cpu.Status.setZN(cpu.X)
        case OperationDEY:
            cpu.Y -= 1
            cpu.Status.setZN(cpu.Y)
        case OperationINX:
            cpu.X += 1
            cpu.Status.setZN(cpu.X)
        case OperationINY:
            cpu.Y += 1
            cpu.Status.setZN(cpu.Y)

        case OperationJMP:
            cpu.PC = value.address
        /* jsr pushes the address of its own last byte, rts adds the 1 back */
        case OperationJSR:
            cpu.PushWord(cpu.PC - 1)
            cpu.PC = value.address
        case OperationRTS:
            cpu.PC = cpu.PopWord() + 1
        case OperationRTI:
            cpu.restoreStatus(cpu.PopStack())
            cpu.PC = cpu.PopWord()

        case OperationLDA:
            cpu.A = cpu.load(value)
            cpu.Status.setZN(cpu.A)
        case OperationLDX:
            cpu.X = cpu.load(value)
            cpu.Status.setZN(cpu.X)
        case OperationLDY:
            cpu.Y = cpu.load(value)
            cpu.Status.setZN(cpu.Y)

        case OperationSTA:
            cpu.Memory.WriteByte(value.address, cpu.A)
        case OperationSTX:
            cpu.Memory.WriteByte(value.address, cpu.X)
        case OperationSTY:
            cpu.Memory.WriteByte(value.address, cpu.Y)

        /* nops with memory operands skip their bytes but do not touch memory */
        case OperationNOP:

        case OperationPHA:
            cpu.PushStack(cpu.A)
        /* https://wiki.nesdev.com/w/index.php/Status_flags#The_B_flag */
        case OperationPHP:
            cpu.PushStack(byte(cpu.Status | FlagBreak | FlagBreak2))
        case OperationPLA:
            cpu.A = cpu.PopStack()
            cpu.Status.setZN(cpu.A)
        case OperationPLP:
            cpu.restoreStatus(cpu.PopStack())

        case OperationTAX:
            cpu.X = cpu.A
            cpu.Status.setZN(cpu.X)
        case OperationTAY:
            cpu.Y = cpu.A
            cpu.Status.setZN(cpu.Y)
        case OperationTSX:
            cpu.X = cpu.SP
            cpu.Status.setZN(cpu.X)
        case OperationTXA:
            cpu.A = cpu.X
            cpu.Status.setZN(cpu.A)
        /* txs is the only transfer that leaves the flags alone */
        case OperationTXS:
            cpu.SP = cpu.X
        case OperationTYA:
            cpu.A = cpu.Y
            cpu.Status.setZN(cpu.A)

        /* http://www.oxyron.de/html/opcodes02.html */
        case OperationLAX:
            cpu.A = cpu.load(value)
            cpu.X = cpu.A
            cpu.Status.setZN(cpu.A)
        case OperationSAX:
            cpu.Memory.WriteByte(value.address, cpu.A & cpu.X)
        case OperationDCP:
            result := cpu.load(value) - 1
            cpu.store(instruction, value, result)
            cpu.compare(cpu.A, result)
        case OperationISB:
            result := cpu.load(value) + 1
            cpu.store(instruction, value, result)
            cpu.doSbc(result)
        case OperationSLO:
            result := cpu.shiftLeft(cpu.load(value))
            cpu.store(instruction, value, result)
            cpu.A = cpu.A | result
            cpu.Status.setZN(cpu.A)
        case OperationRLA:
            result := cpu.rotateLeft(cpu.load(value))
            cpu.store(instruction, value, result)
            cpu.A = cpu.A & result
            cpu.Status.setZN(cpu.A)
        case OperationSRE:
            result := cpu.shiftRight(cpu.load(value))
            cpu.store(instruction, value, result)
            cpu.A = cpu.A ^ result
            cpu.Status.setZN(cpu.A)
        case OperationRRA:
            result := cpu.rotateRight(cpu.load(value))
            cpu.store(instruction, value, result)
            cpu.doAdc(result)

        default:
            panic(&ContractViolation{
                Kind: ViolationOperation,
                Address: cpu.PC,
                Opcode: instruction.Opcode,
                Mode: instruction.Mode,
                Message: "no semantics for this operation",
            })
    }

    return false
}
