package lib

import (
    "bytes"
)

/* processor status register, one bit per flag
 *   7  6  5  4  3  2  1  0
 *   N  V  -  B  D  I  Z  C
 *
 * bits 4 and 5 only exist on the stack copy pushed by php/brk/interrupts,
 * they never take part in alu computations.
 */
type Status byte

const (
    FlagCarry Status = 1<<0
    FlagZero Status = 1<<1
    FlagInterruptDisable Status = 1<<2
    FlagDecimal Status = 1<<3
    FlagBreak Status = 1<<4
    FlagBreak2 Status = 1<<5
    FlagOverflow Status = 1<<6
    FlagNegative Status = 1<<7
)

func (status Status) Get(flag Status) bool {
    return status & flag == flag
}

func (status *Status) Set(flag Status, set bool){
    if set {
        *status = *status | flag
    } else {
        *status = *status & (^flag)
    }
}

func (status Status) Carry() bool {
    return status.Get(FlagCarry)
}

func (status Status) Zero() bool {
    return status.Get(FlagZero)
}

func (status Status) InterruptDisable() bool {
    return status.Get(FlagInterruptDisable)
}

func (status Status) Decimal() bool {
    return status.Get(FlagDecimal)
}

func (status Status) Break() bool {
    return status.Get(FlagBreak)
}

func (status Status) Break2() bool {
    return status.Get(FlagBreak2)
}

func (status Status) Overflow() bool {
    return status.Get(FlagOverflow)
}

func (status Status) Negative() bool {
    return status.Get(FlagNegative)
}

/* set the zero and negative flags from a result */
func (status *Status) setZN(value byte){
    status.Set(FlagZero, value == 0)
    status.Set(FlagNegative, IsNegative(value))
}

/* upper case letter means the flag is set */
func (status Status) String() string {
    var out bytes.Buffer
    names := "nv-bdizc"
    for i := 0; i < 8; i++ {
        flag := Status(1 << (7 - i))
        letter := names[i]
        if status.Get(flag) && letter != '-' {
            letter = letter - 'a' + 'A'
        }
        out.WriteByte(letter)
    }
    return out.String()
}

func IsNegative(value byte) bool {
    return value & (1<<7) == 1<<7
}
