package lib

/* the resolved operand of an instruction. for immediate and accumulator
 * modes the value is already known, everything else names a memory address.
 */
type operand struct {
    address uint16
    value byte
    loaded bool
    pageCrossed bool
}

func (cpu *CPU) fetchByte() byte {
    value := cpu.Memory.ReadByte(cpu.PC)
    cpu.PC += 1
    return value
}

func (cpu *CPU) fetchWord() uint16 {
    low := uint16(cpu.fetchByte())
    high := uint16(cpu.fetchByte())
    return (high << 8) | low
}

func crossesPage(from uint16, to uint16) bool {
    return from & 0xff00 != to & 0xff00
}

/* read a pointer out of the zero page, the high byte wraps to 0x00 instead of 0x100 */
func (cpu *CPU) zeroPageWord(pointer byte) uint16 {
    low := uint16(cpu.Memory.ReadByte(uint16(pointer)))
    high := uint16(cpu.Memory.ReadByte(uint16(pointer + 1)))
    return (high << 8) | low
}

func (cpu *CPU) addressingViolation(instruction *Instruction, message string){
    panic(&ContractViolation{
        Kind: ViolationAddressingMode,
        Address: cpu.PC,
        Opcode: instruction.Opcode,
        Mode: instruction.Mode,
        Message: message,
    })
}

/* consume the operand bytes following the opcode and compute the effective address.
 * http://www.obelisk.me.uk/6502/addressing.html
 */
func (cpu *CPU) resolve(instruction *Instruction) operand {
    switch instruction.Mode {
        case Implied:
            return operand{}
        case Accumulator:
            return operand{value: cpu.A, loaded: true}
        case Immediate:
            return operand{value: cpu.fetchByte(), loaded: true}
        case ZeroPage:
            return operand{address: uint16(cpu.fetchByte())}
        case ZeroPageX:
            return operand{address: uint16(cpu.fetchByte() + cpu.X)}
        case ZeroPageY:
            return operand{address: uint16(cpu.fetchByte() + cpu.Y)}
        case Absolute:
            return operand{address: cpu.fetchWord()}
        case AbsoluteX:
            base := cpu.fetchWord()
            address := base + uint16(cpu.X)
            return operand{address: address, pageCrossed: crossesPage(base, address)}
        case AbsoluteY:
            base := cpu.fetchWord()
            address := base + uint16(cpu.Y)
            return operand{address: address, pageCrossed: crossesPage(base, address)}
        case Indirect:
            /* the 6502 never carries into the high byte of the pointer, so
             * jmp ($30ff) reads the target from $30ff and $3000
             */
            pointer := cpu.fetchWord()
            low := uint16(cpu.Memory.ReadByte(pointer))
            high := uint16(cpu.Memory.ReadByte((pointer & 0xff00) | uint16(byte(pointer) + 1)))
            return operand{address: (high << 8) | low}
        case IndirectX:
            pointer := cpu.fetchByte() + cpu.X
            return operand{address: cpu.zeroPageWord(pointer)}
        case IndirectY:
            base := cpu.zeroPageWord(cpu.fetchByte())
            address := base + uint16(cpu.Y)
            return operand{address: address, pageCrossed: crossesPage(base, address)}
        case Relative:
            if !instruction.IsBranch() {
                cpu.addressingViolation(instruction, "relative addressing is only valid for branches")
            }
            offset := int8(cpu.fetchByte())
            target := cpu.PC + uint16(int16(offset))
            return operand{address: target, pageCrossed: crossesPage(cpu.PC, target)}
    }

    cpu.addressingViolation(instruction, "unknown addressing mode")
    return operand{}
}

func (cpu *CPU) load(value operand) byte {
    if value.loaded {
        return value.value
    }
    return cpu.Memory.ReadByte(value.address)
}

/* write back the result of a read-modify-write instruction */
func (cpu *CPU) store(instruction *Instruction, value operand, result byte){
    if instruction.Mode == Accumulator {
        cpu.A = result
        return
    }
    cpu.Memory.WriteByte(value.address, result)
}
