package lib

import (
    "encoding/json"
    "errors"
    "fmt"
    "io"
    "log"
)

const StackBase uint16 = 0x100

/* register snapshot, this is what observers see after every instruction */
type CPUState struct {
    A byte `json:"a"`
    X byte `json:"x"`
    Y byte `json:"y"`
    SP byte `json:"sp"`
    PC uint16 `json:"pc"`
    Status Status `json:"status"`

    Cycle uint64 `json:"cycle"`
}

func (cpu *CPUState) Serialize(writer io.Writer) error {
    encoder := json.NewEncoder(writer)
    return encoder.Encode(cpu)
}

func (cpu *CPUState) Equals(other CPUState) bool {
    return cpu.A == other.A &&
           cpu.X == other.X &&
           cpu.Y == other.Y &&
           cpu.SP == other.SP &&
           cpu.PC == other.PC &&
           cpu.Cycle == other.Cycle &&
           cpu.Status == other.Status
}

func (cpu *CPUState) String() string {
    return fmt.Sprintf("A:0x%X X:0x%X Y:0x%X SP:0x%X P:0x%X PC:0x%X Cycle:%v", cpu.A, cpu.X, cpu.Y, cpu.SP, byte(cpu.Status), cpu.PC, cpu.Cycle)
}

/* http://wiki.nesdev.com/w/index.php/CPU_power_up_state */
func StartupState() CPUState {
    return CPUState{
        A: 0,
        X: 0,
        Y: 0,
        SP: 0xfd,
        PC: ResetVector,
        Cycle: 0,
        Status: FlagInterruptDisable | FlagBreak2,
    }
}

type BranchTiming int

const (
    /* taken branches cost one more cycle, and another if the target is on a different page */
    BranchTimingAccurate BranchTiming = iota
    /* branches always cost their base cycles */
    BranchTimingBase
)

func (timing BranchTiming) String() string {
    switch timing {
        case BranchTimingAccurate: return "accurate"
        case BranchTimingBase: return "base"
    }
    return fmt.Sprintf("branch-timing(%d)", int(timing))
}

func ParseBranchTiming(name string) (BranchTiming, error) {
    switch name {
        case "", "accurate": return BranchTimingAccurate, nil
        case "base": return BranchTimingBase, nil
    }
    return BranchTimingAccurate, fmt.Errorf("unknown branch timing '%v', use accurate or base", name)
}

type Options struct {
    BranchTiming BranchTiming
    Debug uint
}

/* called after every instruction with the registers as they are after
 * the instruction ran, and the instruction itself
 */
type Observer func(state CPUState, instruction *Instruction)

type CPU struct {
    CPUState
    Memory Memory
    Options Options

    /* set when a contract violation stopped the cpu */
    fault error
    /* set when a bus tick finished a frame */
    frameDone bool
    /* the instruction being executed, observers get a pointer to this copy */
    current Instruction
}

/* memories that can suspend the cpu, such as during oam dma */
type stallingMemory interface {
    TakeStallCycles(instructionCycles int) int
}

func NewCPU(memory Memory, options Options) *CPU {
    return &CPU{
        CPUState: StartupState(),
        Memory: memory,
        Options: options,
    }
}

/* https://en.wikipedia.org/wiki/Interrupts_in_65xx_processors
 *
 * http://users.telenet.be/kim1-6502/6502/proman.html#90
 * reset takes 7 cycles, the last two fetch the vector
 */
func (cpu *CPU) Reset() {
    cpu.SP = 0xfd
    cpu.Status.Set(FlagInterruptDisable, true)
    cpu.PC = cpu.readWord(ResetVector)
    cpu.Cycle += 7
    cpu.tick(7)
}

func (cpu *CPU) Faulted() error {
    return cpu.fault
}

func (cpu *CPU) tick(cycles int){
    if cycles > 0 && cpu.Memory.Tick(cycles) {
        cpu.frameDone = true
    }
}

func (cpu *CPU) readWord(address uint16) uint16 {
    low := uint16(cpu.Memory.ReadByte(address))
    high := uint16(cpu.Memory.ReadByte(address + 1))
    return (high << 8) | low
}

func (cpu *CPU) PushStack(value byte) {
    cpu.Memory.WriteByte(StackBase + uint16(cpu.SP), value)
    cpu.SP -= 1
}

func (cpu *CPU) PopStack() byte {
    cpu.SP += 1
    return cpu.Memory.ReadByte(StackBase + uint16(cpu.SP))
}

/* high byte goes first so the word sits little endian in memory */
func (cpu *CPU) PushWord(value uint16) {
    cpu.PushStack(byte(value >> 8))
    cpu.PushStack(byte(value & 0xff))
}

func (cpu *CPU) PopWord() uint16 {
    low := uint16(cpu.PopStack())
    high := uint16(cpu.PopStack())
    return (high << 8) | low
}

/* php and brk push B set, nmi and irq push it clear. bit 5 is always 1 on the stack */
func (cpu *CPU) interrupt(interrupt Interrupt) {
    cpu.PushWord(cpu.PC)

    status := cpu.Status | FlagBreak2
    status.Set(FlagBreak, interrupt.BreakFlag)
    cpu.PushStack(byte(status))

    cpu.Status.Set(FlagBreak, false)
    cpu.Status.Set(FlagInterruptDisable, true)
    cpu.PC = cpu.readWord(interrupt.Vector)
    cpu.Cycle += uint64(interrupt.Cycles)

    if cpu.Options.Debug > 0 {
        log.Printf("cpu: %v interrupt, jump to 0x%x", interrupt.Kind, cpu.PC)
    }
}

/* restoring status from the stack, plp and rti. the B flag is not a real
 * bit of the register so it is always cleared, and bit 5 is always set.
 */
func (cpu *CPU) restoreStatus(value byte){
    cpu.Status = Status(value)
    cpu.Status.Set(FlagBreak, false)
    cpu.Status.Set(FlagBreak2, true)
}

/* execute one instruction, servicing a pending interrupt first.
 * returns ErrHalted if the halt opcode was fetched, or an *ExecutionError
 * if the cpu hit a contract violation. After a violation every call to
 * Step returns the same error.
 */
func (cpu *CPU) Step(observer Observer) (err error) {
    if cpu.fault != nil {
        return cpu.fault
    }

    var current *Instruction
    defer func(){
        if recovered := recover(); recovered != nil {
            violation, ok := recovered.(*ContractViolation)
            if !ok {
                panic(recovered)
            }
            if current != nil && violation.Kind != ViolationAddressingMode && violation.Kind != ViolationOperation {
                violation.Opcode = current.Opcode
                violation.Mode = current.Mode
            }
            var faulted *Instruction
            if current != nil {
                copied := *current
                faulted = &copied
            }
            cpu.fault = &ExecutionError{
                State: cpu.CPUState,
                Instruction: faulted,
                Cause: violation,
            }
            err = cpu.fault
        }
    }()

    /* interrupts are only sampled between instructions */
    interrupt, pending := cpu.Memory.PollInterrupt()
    if pending && (!interrupt.Maskable() || !cpu.Status.InterruptDisable()) {
        cpu.Memory.AcknowledgeInterrupt()
        cpu.interrupt(interrupt)
        cpu.tick(interrupt.Cycles)
    }

    opcode := cpu.Memory.ReadByte(cpu.PC)
    if opcode == HaltOpcode {
        return ErrHalted
    }

    cpu.current = Lookup(opcode)
    instruction := &cpu.current
    current = instruction

    if cpu.Options.Debug > 0 {
        log.Printf("PC: 0x%x Execute instruction %v A:%X X:%X Y:%X P:%X SP:%X CYC:%v\n", cpu.PC, instruction.String(), cpu.A, cpu.X, cpu.Y, byte(cpu.Status), cpu.SP, cpu.Cycle)
    }

    cpu.PC += 1

    operand := cpu.resolve(instruction)
    taken := cpu.execute(instruction, operand)
    cycles := cpu.cycleCost(instruction, operand, taken)
    cpu.Cycle += uint64(cycles)

    if observer != nil {
        observer(cpu.CPUState, instruction)
    }

    if cpu.Status.Break() {
        cpu.interrupt(InterruptBRK)
        cycles += InterruptBRK.Cycles
    }

    if staller, ok := cpu.Memory.(stallingMemory); ok {
        stall := staller.TakeStallCycles(cycles)
        cpu.Cycle += uint64(stall)
        cycles += stall
    }

    cpu.tick(cycles)

    return nil
}

func (cpu *CPU) cycleCost(instruction *Instruction, operand operand, taken bool) int {
    cycles := int(instruction.Cycles)

    if instruction.IsBranch() {
        /* http://wiki.nesdev.com/w/index.php/6502_cycle_times */
        if taken && cpu.Options.BranchTiming == BranchTimingAccurate {
            cycles += 1
            if operand.pageCrossed {
                cycles += 1
            }
        }
        return cycles
    }

    if instruction.PageCross && operand.pageCrossed {
        cycles += 1
    }

    return cycles
}

/* run until the halt opcode */
func (cpu *CPU) Run(observer Observer) error {
    for {
        err := cpu.Step(observer)
        if errors.Is(err, ErrHalted) {
            return nil
        }
        if err != nil {
            return err
        }
    }
}

/* run until the ppu finishes the current frame */
func (cpu *CPU) RunFrame(observer Observer) error {
    cpu.frameDone = false
    for !cpu.frameDone {
        err := cpu.Step(observer)
        if err != nil {
            return err
        }
    }
    return nil
}
