package lib

import (
    "log"
)

/* the cpu's view of the address space */
type Memory interface {
    ReadByte(address uint16) byte
    WriteByte(address uint16, value byte)
    /* advance the rest of the machine by some number of cpu cycles.
     * returns true if the ppu finished a frame
     */
    Tick(cpuCycles int) bool
    PollInterrupt() (Interrupt, bool)
    AcknowledgeInterrupt()
}

/* http://wiki.nesdev.com/w/index.php/CPU_memory_map */
const (
    RamStart uint16 = 0x0000
    RamMirrorsEnd uint16 = 0x1fff
    PPURegisters uint16 = 0x2000
    PPURegistersMirrorsEnd uint16 = 0x3fff
    ProgramRomStart uint16 = 0x8000
)

/* ppu cycles per cpu cycle */
const PPUClockRatio = 3

type Bus struct {
    Ram [0x800]byte
    Mapper Mapper
    PPU *PPUState
    /* total cpu cycles ticked through the bus */
    Cycle uint64
    /* oam dma transfers started by the instruction in flight */
    PendingDMA int
    Debug uint
}

func NewBus(cartridge Cartridge) (*Bus, error) {
    mapper, err := MakeMapper(cartridge.Mapper, cartridge.ProgramRom)
    if err != nil {
        return nil, err
    }

    return &Bus{
        Mapper: mapper,
        PPU: MakePPU(cartridge.CharacterRom, cartridge.Mirroring),
    }, nil
}

/* every 8 bytes of 0x2000-0x3fff is mirrored, so only consider the last 3-bits of the address */
func ppuPort(address uint16) uint16 {
    if address == OAMDMA {
        return OAMDMA
    }
    return PPURegisters | (address & 0x7)
}

func isPPUAddress(address uint16) bool {
    return (address >= PPURegisters && address <= PPURegistersMirrorsEnd) || address == OAMDMA
}

func (bus *Bus) ReadByte(address uint16) byte {
    switch {
        case address <= RamMirrorsEnd:
            return bus.Ram[address & 0x7ff]
        case isPPUAddress(address):
            return bus.PPU.ReadRegister(ppuPort(address))
        case address >= ProgramRomStart:
            return bus.Mapper.Read(address)
    }

    if bus.Debug > 0 {
        log.Printf("Warning: loading unmapped memory at 0x%x\n", address)
    }
    return 0
}

func (bus *Bus) WriteByte(address uint16, value byte){
    switch {
        case address <= RamMirrorsEnd:
            bus.Ram[address & 0x7ff] = value
            return
        case address == OAMDMA:
            bus.oamDMA(value)
            return
        case isPPUAddress(address):
            bus.PPU.WriteRegister(ppuPort(address), value)
            return
        case address >= ProgramRomStart:
            violate(ViolationROMWrite, address, "cannot write 0x%x to cartridge rom", value)
    }

    if bus.Debug > 0 {
        log.Printf("Warning: could not store into unmapped memory at 0x%x value 0x%x\n", address, value)
    }
}

/* read without side effects, for disassembly and debugging. ppu registers read as 0 */
func (bus *Bus) PeekByte(address uint16) byte {
    switch {
        case address <= RamMirrorsEnd:
            return bus.Ram[address & 0x7ff]
        case address >= ProgramRomStart:
            return bus.Mapper.Read(address)
    }
    return 0
}

func (bus *Bus) ReadWord(address uint16) uint16 {
    low := uint16(bus.ReadByte(address))
    high := uint16(bus.ReadByte(address + 1))
    return (high << 8) | low
}

func (bus *Bus) WriteWord(address uint16, value uint16){
    bus.WriteByte(address, byte(value & 0xff))
    bus.WriteByte(address + 1, byte(value >> 8))
}

/* http://wiki.nesdev.com/w/index.php/PPU_registers#OAMDMA
 * copies 256 bytes from page $XX00 into oam. the cpu is suspended
 * once the writing instruction completes, see TakeStallCycles.
 */
func (bus *Bus) oamDMA(page byte){
    base := uint16(page) << 8
    data := make([]byte, 256)
    for i := range data {
        data[i] = bus.ReadByte(base + uint16(i))
    }

    if bus.Debug > 0 {
        log.Printf("Setting up OAM dma with 0x%x\n", page)
    }

    bus.PPU.CopyOAM(data)
    bus.PendingDMA += 1
}

/* the cpu cycles owed for pending oam dma. the bus has not been ticked
 * for the current instruction yet, so its cost is passed in. the dma
 * starts on the cycle after the instruction and takes 513 cycles, plus
 * one if that cycle is odd.
 */
func (bus *Bus) TakeStallCycles(instructionCycles int) int {
    cycle := bus.Cycle + uint64(instructionCycles)
    total := 0
    for ; bus.PendingDMA > 0; bus.PendingDMA-- {
        stall := 513
        if cycle % 2 == 1 {
            stall += 1
        }
        cycle += uint64(stall)
        total += stall
    }
    return total
}

func (bus *Bus) Tick(cpuCycles int) bool {
    bus.Cycle += uint64(cpuCycles)
    return bus.PPU.Tick(cpuCycles * PPUClockRatio)
}

func (bus *Bus) PollInterrupt() (Interrupt, bool) {
    if bus.PPU.PollNMI() {
        return InterruptNMI, true
    }
    return Interrupt{}, false
}

func (bus *Bus) AcknowledgeInterrupt() {
    bus.PPU.AcknowledgeNMI()
}

func (bus *Bus) CharacterData() []byte {
    return bus.PPU.CharacterData()
}
