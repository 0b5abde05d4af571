package lib

import (
    "fmt"
    "log"
)

/* Special PPU memory-mapped locations */
const (
    PPUCTRL uint16 = 0x2000
    PPUMASK = 0x2001
    PPUSTATUS = 0x2002
    OAMADDR = 0x2003
    OAMDATA = 0x2004
    PPUSCROLL = 0x2005
    PPUADDR = 0x2006
    PPUDATA = 0x2007
    OAMDMA = 0x4014
)

/* http://wiki.nesdev.com/w/index.php/PPU_rendering
 * 341 ppu cycles per scanline, 262 scanlines per frame (ntsc).
 * vblank starts on scanline 241.
 */
const PPUCyclesPerScanline = 341
const PPUScanlines = 262
const VBlankScanline = 241

const (
    controlVRAMIncrement byte = 1<<2
    controlNMI byte = 1<<7

    statusSpriteOverflow byte = 1<<5
    statusSpriteZeroHit byte = 1<<6
    statusVerticalBlank byte = 1<<7
)

type PPUState struct {
    Flags byte
    Mask byte
    Status byte
    Scanline int
    Cycle int
    /* number of frames completed */
    Frame uint64

    OAMAddress byte
    OAM [256]byte

    /* vram address set through PPUADDR. addressHigh is the write toggle,
     * true when the next write is the high byte.
     */
    VideoAddress uint16
    addressHigh bool

    ScrollX byte
    ScrollY byte
    /* true when the next PPUSCROLL write is the y value */
    scrollY bool

    /* reads from PPUDATA below the palette return the previous read */
    readBuffer byte

    NameTables [0x800]byte
    Palette [0x20]byte
    CharacterRom []byte
    characterRam bool
    Mirroring Mirroring

    nmiPending bool

    Debug uint
}

func MakePPU(characterRom []byte, mirroring Mirroring) *PPUState {
    ppu := &PPUState{
        CharacterRom: characterRom,
        Mirroring: mirroring,
        addressHigh: true,
    }

    /* carts without chr rom have 8k of chr ram instead */
    if len(characterRom) == 0 {
        ppu.CharacterRom = make([]byte, 0x2000)
        ppu.characterRam = true
    }

    return ppu
}

func (ppu *PPUState) CharacterData() []byte {
    return ppu.CharacterRom
}

func (ppu *PPUState) GetNMIOutput() bool {
    return ppu.Flags & controlNMI == controlNMI
}

func (ppu *PPUState) IsVerticalBlank() bool {
    return ppu.Status & statusVerticalBlank == statusVerticalBlank
}

/* writing PPUCTRL. Turning on nmi generation while already in vblank
 * raises an nmi immediately.
 * http://wiki.nesdev.com/w/index.php/NMI
 */
func (ppu *PPUState) SetControllerFlags(value byte) {
    before := ppu.GetNMIOutput()
    ppu.Flags = value
    if !before && ppu.GetNMIOutput() && ppu.IsVerticalBlank() {
        ppu.nmiPending = true
    }
}

func (ppu *PPUState) SetMask(value byte) {
    ppu.Mask = value
}

func (ppu *PPUState) SetVerticalBlankFlag(on bool){
    if on {
        ppu.Status = ppu.Status | statusVerticalBlank
    } else {
        ppu.Status = ppu.Status & (^statusVerticalBlank)
    }
}

/* reading the status clears vblank and resets the PPUSCROLL/PPUADDR write toggle */
func (ppu *PPUState) ReadStatus() byte {
    out := ppu.Status
    ppu.SetVerticalBlankFlag(false)
    ppu.addressHigh = true
    ppu.scrollY = false
    return out
}

func (ppu *PPUState) PollNMI() bool {
    return ppu.nmiPending
}

func (ppu *PPUState) AcknowledgeNMI() {
    ppu.nmiPending = false
}

/* give a number of PPU cycles to process
 * returns true if a frame was completed
 */
func (ppu *PPUState) Tick(cycles int) bool {
    ppu.Cycle += cycles
    frame := false
    for ppu.Cycle >= PPUCyclesPerScanline {
        ppu.Cycle -= PPUCyclesPerScanline
        ppu.Scanline += 1

        if ppu.Scanline == VBlankScanline {
            ppu.SetVerticalBlankFlag(true)
            /* Only set NMI to true if the bit 7 of PPUCTRL is set */
            if ppu.GetNMIOutput() {
                ppu.nmiPending = true
            }
            if ppu.Debug > 0 {
                log.Printf("ppu: vertical blank at frame %v nmi %v", ppu.Frame, ppu.nmiPending)
            }
        }

        if ppu.Scanline >= PPUScanlines {
            ppu.Scanline = 0
            ppu.Status = ppu.Status & ^(statusVerticalBlank | statusSpriteZeroHit | statusSpriteOverflow)
            ppu.nmiPending = false
            ppu.Frame += 1
            frame = true
        }
    }

    return frame
}

func (ppu *PPUState) SetOAMAddress(value byte){
    ppu.OAMAddress = value
}

func (ppu *PPUState) WriteOAM(value byte){
    ppu.OAM[ppu.OAMAddress] = value
    ppu.OAMAddress += 1
}

func (ppu *PPUState) ReadOAM() byte {
    return ppu.OAM[ppu.OAMAddress]
}

/* oam dma, copy a whole cpu page into oam starting at OAMADDR */
func (ppu *PPUState) CopyOAM(data []byte){
    for _, value := range data {
        ppu.WriteOAM(value)
    }
}

func (ppu *PPUState) WriteScroll(value byte){
    if ppu.scrollY {
        ppu.ScrollY = value
    } else {
        ppu.ScrollX = value
    }
    ppu.scrollY = !ppu.scrollY
}

/* high byte first, then low byte */
func (ppu *PPUState) WriteAddress(value byte){
    if ppu.addressHigh {
        ppu.VideoAddress = (uint16(value) << 8) | (ppu.VideoAddress & 0xff)
    } else {
        ppu.VideoAddress = (ppu.VideoAddress & 0xff00) | uint16(value)
    }
    ppu.VideoAddress &= 0x3fff
    ppu.addressHigh = !ppu.addressHigh
}

func (ppu *PPUState) incrementAddress(){
    if ppu.Flags & controlVRAMIncrement == controlVRAMIncrement {
        ppu.VideoAddress += 32
    } else {
        ppu.VideoAddress += 1
    }
    ppu.VideoAddress &= 0x3fff
}

/* map 0x2000-0x2fff onto the 2k of internal name table memory */
func (ppu *PPUState) nameTableIndex(address uint16) uint16 {
    index := (address & 0x2fff) - 0x2000
    table := index / 0x400
    switch ppu.Mirroring {
        case VerticalMirroring:
            /* tables 0,1 are distinct, 2,3 mirror them */
            if table >= 2 {
                index -= 0x800
            }
        case HorizontalMirroring:
            switch table {
                case 1, 2: index -= 0x400
                case 3: index -= 0x800
            }
        default:
            /* four screen needs vram on the cartridge, which is not emulated */
            index = index % 0x800
    }
    return index
}

func paletteIndex(address uint16) uint16 {
    index := address & 0x1f
    /* 0x3f10/14/18/1c mirror 0x3f00/04/08/0c */
    if index >= 0x10 && index % 4 == 0 {
        index -= 0x10
    }
    return index
}

func (ppu *PPUState) ReadVideoMemory() byte {
    address := ppu.VideoAddress
    ppu.incrementAddress()

    switch {
        case address < 0x2000:
            out := ppu.readBuffer
            ppu.readBuffer = ppu.CharacterRom[int(address) % len(ppu.CharacterRom)]
            return out
        case address < 0x3f00:
            out := ppu.readBuffer
            ppu.readBuffer = ppu.NameTables[ppu.nameTableIndex(address)]
            return out
        default:
            /* palette reads are immediate, the buffer picks up the name table underneath */
            ppu.readBuffer = ppu.NameTables[ppu.nameTableIndex(address - 0x1000)]
            return ppu.Palette[paletteIndex(address)]
    }
}

func (ppu *PPUState) WriteVideoMemory(value byte){
    address := ppu.VideoAddress
    ppu.incrementAddress()

    switch {
        case address < 0x2000:
            if !ppu.characterRam {
                if ppu.Debug > 0 {
                    log.Printf("Warning: ignoring write of 0x%x to character rom at 0x%x", value, address)
                }
                return
            }
            ppu.CharacterRom[address] = value
        case address < 0x3f00:
            ppu.NameTables[ppu.nameTableIndex(address)] = value
        default:
            ppu.Palette[paletteIndex(address)] = value
    }
}

/* port is one of the PPU register addresses, already mirrored down */
func (ppu *PPUState) ReadRegister(port uint16) byte {
    switch port {
        case PPUSTATUS:
            return ppu.ReadStatus()
        case OAMDATA:
            return ppu.ReadOAM()
        case PPUDATA:
            return ppu.ReadVideoMemory()
        case PPUCTRL, PPUMASK, OAMADDR, PPUSCROLL, PPUADDR, OAMDMA:
            violate(ViolationReadWriteOnly, port, "ppu register 0x%x is write only", port)
    }

    log.Printf("Unhandled PPU read to 0x%x\n", port)
    return 0
}

func (ppu *PPUState) WriteRegister(port uint16, value byte){
    switch port {
        case PPUCTRL:
            ppu.SetControllerFlags(value)
            if ppu.Debug > 0 {
                log.Printf("Set PPUCTRL to 0x%x: %v", value, ppu.ControlString())
            }
            return
        case PPUMASK:
            ppu.SetMask(value)
            return
        case PPUSTATUS:
            violate(ViolationWriteReadOnly, port, "ppu status is read only, wrote 0x%x", value)
        case OAMADDR:
            ppu.SetOAMAddress(value)
            return
        case OAMDATA:
            ppu.WriteOAM(value)
            return
        case PPUSCROLL:
            ppu.WriteScroll(value)
            return
        case PPUADDR:
            ppu.WriteAddress(value)
            return
        case PPUDATA:
            ppu.WriteVideoMemory(value)
            return
    }

    log.Printf("Unhandled PPU write to 0x%x\n", port)
}

func (ppu *PPUState) ControlString() string {
    increment := 1
    if ppu.Flags & controlVRAMIncrement == controlVRAMIncrement {
        increment = 32
    }
    return fmt.Sprintf("nmi=%v vram-increment=%v", ppu.GetNMIOutput(), increment)
}
