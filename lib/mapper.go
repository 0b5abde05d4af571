package lib

import (
    "fmt"
)

/* maps cpu addresses 0x8000-0xffff onto cartridge program rom */
type Mapper interface {
    Read(address uint16) byte
    ProgramRom() []byte
}

/* only nrom (mapper 0) is supported, bank switching carts are not */
func MakeMapper(mapper uint32, bankMemory []byte) (Mapper, error) {
    switch mapper {
        case 0: return MakeMapper0(bankMemory)
        default: return nil, fmt.Errorf("Unimplemented mapper %v", mapper)
    }
}

type Mapper0 struct {
    BankMemory []byte
}

/* http://wiki.nesdev.com/w/index.php/NROM
 * NROM-128 has 16k that shows up at both 0x8000 and 0xc000,
 * NROM-256 has 32k mapped linearly.
 */
func (mapper *Mapper0) Read(address uint16) byte {
    offset := address - 0x8000
    if len(mapper.BankMemory) == 0x4000 {
        offset = offset % 0x4000
    }
    return mapper.BankMemory[offset]
}

func (mapper *Mapper0) ProgramRom() []byte {
    return mapper.BankMemory
}

func MakeMapper0(bankMemory []byte) (Mapper, error) {
    if len(bankMemory) != 0x4000 && len(bankMemory) != 0x8000 {
        return nil, fmt.Errorf("mapper0 needs 16k or 32k of program rom but was given %v bytes", len(bankMemory))
    }

    return &Mapper0{
        BankMemory: bankMemory,
    }, nil
}
