package lib

import (
    "testing"
)

func TestInstructionTable(test *testing.T){
    official := 0
    for i := 0; i < 256; i++ {
        instruction := Lookup(byte(i))
        if instruction.Opcode != byte(i) {
            test.Fatalf("entry 0x%02x has opcode 0x%02x", i, instruction.Opcode)
        }

        if instruction.Operands != OperandBytes(instruction.Mode) {
            test.Fatalf("%v: %v operand bytes but mode %v needs %v", instruction.String(), instruction.Operands, instruction.Mode, OperandBytes(instruction.Mode))
        }

        if instruction.IsBranch() != (instruction.Mode == Relative) {
            test.Fatalf("%v: only branches use relative addressing", instruction.String())
        }

        if instruction.Implemented() && instruction.Cycles < 2 {
            test.Fatalf("%v: every instruction takes at least 2 cycles", instruction.String())
        }

        if instruction.Official {
            official += 1
        }
    }

    if official != 151 {
        test.Fatalf("expected 151 official opcodes but found %v", official)
    }

    if Lookup(HaltOpcode).Implemented() {
        test.Fatalf("the halt opcode must not be a real instruction")
    }
}

func TestInstructionLookup(test *testing.T){
    lda := Lookup(0xbd)
    if lda.Name != "lda" || lda.Mode != AbsoluteX || lda.Cycles != 4 || !lda.PageCross || lda.Length() != 3 {
        test.Fatalf("unexpected entry for 0xbd: %v", lda.String())
    }

    jmp := Lookup(0x6c)
    if jmp.Operation != OperationJMP || jmp.Mode != Indirect || jmp.Cycles != 5 {
        test.Fatalf("unexpected entry for 0x6c: %v", jmp.String())
    }

    brk := Lookup(0x00)
    if brk.Operation != OperationBRK || brk.Cycles != 7 {
        test.Fatalf("unexpected entry for 0x00: %v", brk.String())
    }

    unknown := Lookup(0x8b)
    if unknown.Implemented() || unknown.Name != "NotImplemented" || unknown.Length() != 1 {
        test.Fatalf("unexpected entry for 0x8b: %v", unknown.String())
    }
}

/* the declared length of every entry has to agree with what its addressing mode consumes */
func TestOpcodeLengths(test *testing.T){
    check := func(entries []opcodeEntry){
        for _, entry := range entries {
            if entry.length < 1 || entry.length > 3 {
                test.Fatalf("opcode 0x%02x: invalid length %v", entry.opcode, entry.length)
            }
            if entry.length - 1 != OperandBytes(entry.mode) {
                test.Fatalf("opcode 0x%02x %v: length %v but mode %v has %v operand bytes", entry.opcode, entry.name, entry.length, entry.mode, OperandBytes(entry.mode))
            }
        }
    }

    check(officialOpcodes)
    check(unofficialOpcodes)

    lengths := map[byte]uint16{
        0x00: 1, // brk
        0x20: 3, // jsr
        0x6c: 3, // jmp ($xxxx)
        0xd0: 2, // bne
        0xb1: 2, // lda ($xx),y
        0x0a: 1, // asl a
        0x9d: 3, // sta $xxxx,x
    }
    for opcode, length := range lengths {
        if Lookup(opcode).Length() != length {
            test.Fatalf("opcode 0x%02x: expected length %v but was %v", opcode, length, Lookup(opcode).Length())
        }
    }
}

func TestLookupReturnsCopy(test *testing.T){
    lda := Lookup(0xa9)
    lda.Cycles = 99
    lda.Name = "changed"

    if Lookup(0xa9).Cycles != 2 || Lookup(0xa9).Name != "lda" {
        test.Fatalf("changing a looked up instruction must not change the table")
    }

    /* an observer writing through its pointer only changes its own copy */
    cpu, _ := makeFlatCPU(0x400, []byte{0xa9, 0x01, 0xa9, 0x02})
    observer := func(state CPUState, instruction *Instruction){
        instruction.Cycles = 50
        instruction.Operation = OperationNOP
    }
    for i := 0; i < 2; i++ {
        err := cpu.Step(observer)
        if err != nil {
            test.Fatalf("step failed: %v", err)
        }
    }

    if cpu.A != 0x02 || cpu.Cycle != 4 {
        test.Fatalf("expected A 0x02 after 4 cycles but A was 0x%x after %v cycles", cpu.A, cpu.Cycle)
    }
    if Lookup(0xa9).Cycles != 2 || Lookup(0xa9).Operation != OperationLDA {
        test.Fatalf("observer changed the instruction table")
    }
}
