package lib

import (
    "bytes"
    "fmt"
    "io"
    "log"
    "os"
)

type Mirroring int

const (
    HorizontalMirroring Mirroring = iota
    VerticalMirroring
    FourScreenMirroring
)

func (mirroring Mirroring) String() string {
    switch mirroring {
        case HorizontalMirroring: return "horizontal"
        case VerticalMirroring: return "vertical"
        case FourScreenMirroring: return "four-screen"
    }
    return "unknown"
}

/* the parts of an ines file the core needs */
type Cartridge struct {
    ProgramRom []byte
    CharacterRom []byte
    Mirroring Mirroring
    Mapper uint32
}

func isINes(check []byte) bool {
    if len(check) != 4 {
        return false
    }

    return bytes.Equal(check, []byte{'N', 'E', 'S', 0x1a})
}

func isNes2(nesHeader []byte) bool {
    if len(nesHeader) < 8 {
        return false
    }

    /* 0xc == 1100
     * 0x8 == 1000
     */

    /* this operation looks at bits 2 and 3, makes sure that bit 3 is 1
     * and bit 2 is 0
     */

    return nesHeader[7] & 0xc == 0x8
}

func readMapper(header []byte) uint32 {
    /* low nibble in byte 6, high nibble in byte 7 */
    return uint32((header[7] & 0xf0) | (header[6] >> 4))
}

func readMirroring(header []byte) Mirroring {
    if header[6] & 0x8 == 0x8 {
        return FourScreenMirroring
    }
    if header[6] & 0x1 == 0x1 {
        return VerticalMirroring
    }
    return HorizontalMirroring
}

/* https://wiki.nesdev.com/w/index.php/INES */
func ParseNes(reader io.Reader, debug bool) (Cartridge, error) {
    header := make([]byte, 16)
    _, err := io.ReadFull(reader, header)
    if err != nil {
        return Cartridge{}, err
    }

    if !isINes(header[0:4]) {
        return Cartridge{}, fmt.Errorf("not an nes file")
    }

    if isNes2(header) {
        return Cartridge{}, fmt.Errorf("nes 2.0 files are not supported")
    }

    prgRomSize := uint64(header[4]) << 14
    chrRomSize := uint64(header[5]) << 13
    mapper := readMapper(header)
    mirroring := readMirroring(header)
    hasTrainer := (header[6] & 4) == 4

    if debug {
        log.Printf("PRG-ROM %v\n", prgRomSize)
        log.Printf("CHR-ROM %v\n", chrRomSize)
        log.Printf("mapper %v\n", mapper)
        log.Printf("mirroring %v\n", mirroring)
        log.Printf("Has trainer area %v\n", hasTrainer)
    }

    if hasTrainer {
        trainer := make([]byte, 512)
        _, err = io.ReadFull(reader, trainer)
        if err != nil {
            return Cartridge{}, err
        }
    }

    programRom := make([]byte, prgRomSize)
    _, err = io.ReadFull(reader, programRom)
    if err != nil {
        return Cartridge{}, fmt.Errorf("could not read program rom: %w", err)
    }

    characterRom := make([]byte, chrRomSize)
    _, err = io.ReadFull(reader, characterRom)
    if err != nil {
        return Cartridge{}, fmt.Errorf("could not read character rom: %w", err)
    }

    return Cartridge{
        ProgramRom: programRom,
        CharacterRom: characterRom,
        Mirroring: mirroring,
        Mapper: mapper,
    }, nil
}

func ParseNesFile(path string, debug bool) (Cartridge, error) {
    file, err := os.Open(path)
    if err != nil {
        return Cartridge{}, err
    }

    defer file.Close()

    return ParseNes(file, debug)
}
