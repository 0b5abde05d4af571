package lib

import (
    "errors"
    "fmt"
)

/* returned by CPU.Step when the halt opcode is fetched */
var ErrHalted = errors.New("cpu halted")

type ViolationKind int

const (
    ViolationROMWrite ViolationKind = iota
    ViolationAddressingMode
    ViolationReadWriteOnly
    ViolationWriteReadOnly
    ViolationOperation
)

func (kind ViolationKind) String() string {
    switch kind {
        case ViolationROMWrite: return "rom write"
        case ViolationAddressingMode: return "addressing mode"
        case ViolationReadWriteOnly: return "read of write-only register"
        case ViolationWriteReadOnly: return "write of read-only register"
        case ViolationOperation: return "unknown operation"
    }
    return "unknown violation"
}

/* a condition real hardware has no defined behavior for. these are raised
 * with panic() from deep inside the bus/ppu and recovered by CPU.Step, which
 * stops the cpu for good.
 */
type ContractViolation struct {
    Kind ViolationKind
    Address uint16
    Opcode byte
    Mode AddressingMode
    Message string
}

func (violation *ContractViolation) Error() string {
    switch violation.Kind {
        case ViolationAddressingMode, ViolationOperation:
            return fmt.Sprintf("%v: opcode 0x%02x mode %v: %v", violation.Kind, violation.Opcode, violation.Mode, violation.Message)
    }
    return fmt.Sprintf("%v at 0x%04x: %v", violation.Kind, violation.Address, violation.Message)
}

func violate(kind ViolationKind, address uint16, format string, args ...any){
    panic(&ContractViolation{
        Kind: kind,
        Address: address,
        Message: fmt.Sprintf(format, args...),
    })
}

/* the cpu stopped because of a ContractViolation. State is the register
 * snapshot at the moment the violation happened.
 */
type ExecutionError struct {
    State CPUState
    Instruction *Instruction
    Cause *ContractViolation
}

func (err *ExecutionError) Error() string {
    if err.Instruction != nil {
        return fmt.Sprintf("cpu stopped executing %v: %v [%v]", err.Instruction.String(), err.Cause, err.State.String())
    }
    return fmt.Sprintf("cpu stopped: %v [%v]", err.Cause, err.State.String())
}

func (err *ExecutionError) Unwrap() error {
    return err.Cause
}
