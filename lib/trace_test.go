package lib

import (
    "strings"
    "testing"
)

func TestParseTraceLine(test *testing.T){
    line, err := ParseTraceLine("C000  4C F5 C5  JMP $C5F5                       A:00 X:00 Y:00 P:24 SP:FD PPU:  0, 21 CYC:7")
    if err != nil {
        test.Fatalf("could not parse: %v", err)
    }

    expected := TraceLine{PC: 0xc000, Opcode: 0x4c, A: 0, X: 0, Y: 0, P: 0x24, SP: 0xfd, Cycle: 7}
    if line != expected {
        test.Fatalf("expected %+v but got %+v", expected, line)
    }

    line, err = ParseTraceLine("C72A  A9 33     LDA #$33                        A:40 X:00 Y:00 P:E5 SP:FB PPU:  4,  5 CYC:120")
    if err != nil {
        test.Fatalf("could not parse: %v", err)
    }
    if line.A != 0x40 || line.P != 0xe5 || line.SP != 0xfb || line.Cycle != 120 || line.Opcode != 0xa9 {
        test.Fatalf("unexpected parse %+v", line)
    }

    _, err = ParseTraceLine("C000  4C F5 C5  JMP $C5F5  A:00 X:00 Y:00 SP:FD CYC:7")
    if err == nil {
        test.Fatalf("expected an error for a line without P")
    }

    _, err = ParseTraceLine("garbage")
    if err == nil {
        test.Fatalf("expected an error for garbage")
    }
}

func TestTraceMatches(test *testing.T){
    line := TraceLine{PC: 0xc000, A: 1, X: 2, Y: 3, P: 0x24, SP: 0xfd, Cycle: 7}
    state := CPUState{PC: 0xc000, A: 1, X: 2, Y: 3, Status: 0x24, SP: 0xfd, Cycle: 7}

    if err := line.Matches(state); err != nil {
        test.Fatalf("expected a match: %v", err)
    }

    state.Status = 0x25
    err := line.Matches(state)
    if err == nil || !strings.HasPrefix(err.Error(), "P ") {
        test.Fatalf("expected a P mismatch but got %v", err)
    }

    state.Status = 0x24
    state.Cycle = 8
    if line.Matches(state) == nil {
        test.Fatalf("expected a cycle mismatch")
    }
}

func peekInto(memory []byte, base uint16) func(uint16) byte {
    return func(address uint16) byte {
        offset := int(address) - int(base)
        if offset < 0 || offset >= len(memory) {
            return 0
        }
        return memory[offset]
    }
}

func TestDisassemble(test *testing.T){
    type check struct {
        code []byte
        text string
        length uint16
    }

    checks := []check{
        {[]byte{0x6c, 0xff, 0x30}, "JMP ($30FF)", 3},
        {[]byte{0xa9, 0x05}, "LDA #$05", 2},
        {[]byte{0xbd, 0x00, 0x02}, "LDA $0200,X", 3},
        {[]byte{0xb1, 0x10}, "LDA ($10),Y", 2},
        {[]byte{0xa1, 0x10}, "LDA ($10,X)", 2},
        {[]byte{0x0a}, "ASL A", 1},
        {[]byte{0xea}, "NOP", 1},
        {[]byte{0xf0, 0xfe}, "BEQ $0400", 2},
        {[]byte{0xa7, 0x10}, "*LAX $10", 2},
        {[]byte{0x8b}, ".byte $8B", 1},
    }

    for _, check := range checks {
        text, next := Disassemble(peekInto(check.code, 0x400), 0x400)
        if text != check.text {
            test.Fatalf("expected %q but got %q", check.text, text)
        }
        if next != 0x400 + check.length {
            test.Fatalf("%v: expected next address 0x%x but was 0x%x", check.text, 0x400 + check.length, next)
        }
    }
}

func TestFormatTraceRoundTrip(test *testing.T){
    code := []byte{0x4c, 0xf5, 0xc5}
    state := CPUState{PC: 0xc000, A: 0x12, X: 0x34, Y: 0x56, Status: 0xa5, SP: 0xf0, Cycle: 1234}

    text := FormatTrace(state, peekInto(code, 0xc000))
    if !strings.HasPrefix(text, "C000  4C F5 C5  JMP $C5F5") {
        test.Fatalf("unexpected trace text %q", text)
    }

    line, err := ParseTraceLine(text)
    if err != nil {
        test.Fatalf("could not parse %q: %v", text, err)
    }
    if line.Opcode != 0x4c {
        test.Fatalf("expected opcode 0x4c but was 0x%x", line.Opcode)
    }
    if err := line.Matches(state); err != nil {
        test.Fatalf("formatted trace did not match its state: %v", err)
    }
}

/* a short program with its trace worked out by hand */
func TestProgramTrace(test *testing.T){
    golden := `
8000  A9 10     LDA #$10     A:00 X:00 Y:00 P:24 SP:FD CYC:7
8002  AA        TAX          A:10 X:00 Y:00 P:24 SP:FD CYC:9
8003  E8        INX          A:10 X:10 Y:00 P:24 SP:FD CYC:11
8004  48        PHA          A:10 X:11 Y:00 P:24 SP:FD CYC:13
8005  A9 F0     LDA #$F0     A:10 X:11 Y:00 P:24 SP:FC CYC:16
8007  68        PLA          A:F0 X:11 Y:00 P:A4 SP:FC CYC:18
8008  38        SEC          A:10 X:11 Y:00 P:24 SP:FD CYC:22
8009  E9 20     SBC #$20     A:10 X:11 Y:00 P:25 SP:FD CYC:24
800B  02        KIL          A:F0 X:11 Y:00 P:A4 SP:FD CYC:26
`

    expected, err := ReadTrace(strings.NewReader(golden))
    if err != nil {
        test.Fatalf("could not read trace: %v", err)
    }

    cpu, _ := makeBusCPU(test, []byte{
        0xa9, 0x10,
        0xaa,
        0xe8,
        0x48,
        0xa9, 0xf0,
        0x68,
        0x38,
        0xe9, 0x20,
        HaltOpcode,
    })

    states := []CPUState{cpu.CPUState}
    err = cpu.Run(func(state CPUState, instruction *Instruction){
        states = append(states, state)
    })
    if err != nil {
        test.Fatalf("run failed: %v", err)
    }

    if len(states) != len(expected) {
        test.Fatalf("expected %v states but got %v", len(expected), len(states))
    }

    for i := range expected {
        if err := expected[i].Matches(states[i]); err != nil {
            test.Fatalf("trace line %v: %v", i + 1, err)
        }
    }
}

type codeBlock struct {
    address uint16
    code []byte
}

/* a 16k rom with code placed at cpu addresses, reset at $8000 and brk/irq at irq */
func makeBlockRom(blocks []codeBlock, irq uint16) []byte {
    rom := makeProgramRom(nil)
    for _, block := range blocks {
        copy(rom[block.address - ProgramRomStart:], block.code)
    }
    rom[0x3ffe] = byte(irq)
    rom[0x3fff] = byte(irq >> 8)
    return rom
}

/* every addressing mode, the flag instructions and brk/rti, with the
 * state and cycle count checked after each instruction. the line after
 * brk shows the registers once brk has run, before the cpu jumps to the
 * handler at $8200, so the handler's ldx has no line of its own.
 */
func TestAddressingModesTrace(test *testing.T){
    golden := `
8000  A9 80     LDA #$80       A:00 X:00 Y:00 P:24 SP:FD CYC:7
8002  85 00     STA $00        A:80 X:00 Y:00 P:A4 SP:FD CYC:9
8004  A9 03     LDA #$03       A:80 X:00 Y:00 P:A4 SP:FD CYC:12
8006  85 01     STA $01        A:03 X:00 Y:00 P:24 SP:FD CYC:14
8008  A9 5A     LDA #$5A       A:03 X:00 Y:00 P:24 SP:FD CYC:17
800A  8D 80 03  STA $0380      A:5A X:00 Y:00 P:24 SP:FD CYC:19
800D  A9 C3     LDA #$C3       A:5A X:00 Y:00 P:24 SP:FD CYC:23
800F  8D 08 04  STA $0408      A:C3 X:00 Y:00 P:A4 SP:FD CYC:25
8012  A9 F8     LDA #$F8       A:C3 X:00 Y:00 P:A4 SP:FD CYC:29
8014  85 FF     STA $FF        A:F8 X:00 Y:00 P:A4 SP:FD CYC:31
8016  A9 99     LDA #$99       A:F8 X:00 Y:00 P:A4 SP:FD CYC:34
8018  85 03     STA $03        A:99 X:00 Y:00 P:A4 SP:FD CYC:36
801A  A9 21     LDA #$21       A:99 X:00 Y:00 P:A4 SP:FD CYC:39
801C  85 30     STA $30        A:21 X:00 Y:00 P:24 SP:FD CYC:41
801E  A9 40     LDA #$40       A:21 X:00 Y:00 P:24 SP:FD CYC:44
8020  8D FF 02  STA $02FF      A:40 X:00 Y:00 P:24 SP:FD CYC:46
8023  A9 81     LDA #$81       A:40 X:00 Y:00 P:24 SP:FD CYC:50
8025  8D 00 02  STA $0200      A:81 X:00 Y:00 P:A4 SP:FD CYC:52
8028  A9 22     LDA #$22       A:81 X:00 Y:00 P:A4 SP:FD CYC:56
802A  8D 00 03  STA $0300      A:22 X:00 Y:00 P:24 SP:FD CYC:58
802D  A2 05     LDX #$05       A:22 X:00 Y:00 P:24 SP:FD CYC:62
802F  A1 FB     LDA ($FB,X)    A:22 X:05 Y:00 P:24 SP:FD CYC:64
8031  A9 03     LDA #$03       A:5A X:05 Y:00 P:24 SP:FD CYC:70
8033  85 00     STA $00        A:03 X:05 Y:00 P:24 SP:FD CYC:72
8035  A0 10     LDY #$10       A:03 X:05 Y:00 P:24 SP:FD CYC:75
8037  B1 FF     LDA ($FF),Y    A:03 X:05 Y:10 P:24 SP:FD CYC:77
8039  91 FF     STA ($FF),Y    A:C3 X:05 Y:10 P:A4 SP:FD CYC:83
803B  BD 80 03  LDA $0380,X    A:C3 X:05 Y:10 P:A4 SP:FD CYC:89
803E  BD FE 03  LDA $03FE,X    A:00 X:05 Y:10 P:26 SP:FD CYC:93
8041  B9 F8 03  LDA $03F8,Y    A:00 X:05 Y:10 P:26 SP:FD CYC:98
8044  B9 70 03  LDA $0370,Y    A:C3 X:05 Y:10 P:A4 SP:FD CYC:103
8047  85 10     STA $10        A:5A X:05 Y:10 P:24 SP:FD CYC:107
8049  A9 00     LDA #$00       A:5A X:05 Y:10 P:24 SP:FD CYC:110
804B  B5 0B     LDA $0B,X      A:00 X:05 Y:10 P:26 SP:FD CYC:112
804D  B5 FE     LDA $FE,X      A:5A X:05 Y:10 P:24 SP:FD CYC:116
804F  B6 20     LDX $20,Y      A:99 X:05 Y:10 P:A4 SP:FD CYC:120
8051  96 40     STX $40,Y      A:99 X:21 Y:10 P:24 SP:FD CYC:124
8053  94 01     STY $01,X      A:99 X:21 Y:10 P:24 SP:FD CYC:128
8055  A9 81     LDA #$81       A:99 X:21 Y:10 P:24 SP:FD CYC:132
8057  0A        ASL A          A:81 X:21 Y:10 P:A4 SP:FD CYC:134
8058  2A        ROL A          A:02 X:21 Y:10 P:25 SP:FD CYC:136
8059  4A        LSR A          A:05 X:21 Y:10 P:24 SP:FD CYC:138
805A  6A        ROR A          A:02 X:21 Y:10 P:25 SP:FD CYC:140
805B  06 10     ASL $10        A:81 X:21 Y:10 P:A4 SP:FD CYC:142
805D  6E 80 03  ROR $0380      A:81 X:21 Y:10 P:A4 SP:FD CYC:147
8060  E6 10     INC $10        A:81 X:21 Y:10 P:24 SP:FD CYC:153
8062  DE 5F 03  DEC $035F,X    A:81 X:21 Y:10 P:A4 SP:FD CYC:158
8065  18        CLC            A:81 X:21 Y:10 P:24 SP:FD CYC:165
8066  A9 50     LDA #$50       A:81 X:21 Y:10 P:24 SP:FD CYC:167
8068  69 50     ADC #$50       A:50 X:21 Y:10 P:24 SP:FD CYC:169
806A  B8        CLV            A:A0 X:21 Y:10 P:E4 SP:FD CYC:171
806B  38        SEC            A:A0 X:21 Y:10 P:A4 SP:FD CYC:173
806C  A9 50     LDA #$50       A:A0 X:21 Y:10 P:A5 SP:FD CYC:175
806E  E9 B0     SBC #$B0       A:50 X:21 Y:10 P:25 SP:FD CYC:177
8070  18        CLC            A:A0 X:21 Y:10 P:E4 SP:FD CYC:179
8071  A9 FF     LDA #$FF       A:A0 X:21 Y:10 P:E4 SP:FD CYC:181
8073  69 01     ADC #$01       A:FF X:21 Y:10 P:E4 SP:FD CYC:183
8075  E9 01     SBC #$01       A:00 X:21 Y:10 P:27 SP:FD CYC:185
8077  A9 40     LDA #$40       A:FF X:21 Y:10 P:A4 SP:FD CYC:187
8079  C9 40     CMP #$40       A:40 X:21 Y:10 P:24 SP:FD CYC:189
807B  E0 30     CPX #$30       A:40 X:21 Y:10 P:27 SP:FD CYC:191
807D  C0 11     CPY #$11       A:40 X:21 Y:10 P:A4 SP:FD CYC:193
807F  A9 C0     LDA #$C0       A:40 X:21 Y:10 P:A4 SP:FD CYC:195
8081  85 20     STA $20        A:C0 X:21 Y:10 P:A4 SP:FD CYC:197
8083  A9 01     LDA #$01       A:C0 X:21 Y:10 P:A4 SP:FD CYC:200
8085  24 20     BIT $20        A:01 X:21 Y:10 P:24 SP:FD CYC:202
8087  29 0F     AND #$0F       A:01 X:21 Y:10 P:E6 SP:FD CYC:205
8089  05 20     ORA $20        A:01 X:21 Y:10 P:64 SP:FD CYC:207
808B  49 FF     EOR #$FF       A:C1 X:21 Y:10 P:E4 SP:FD CYC:210
808D  F8        SED            A:3E X:21 Y:10 P:64 SP:FD CYC:212
808E  38        SEC            A:3E X:21 Y:10 P:6C SP:FD CYC:214
808F  08        PHP            A:3E X:21 Y:10 P:6D SP:FD CYC:216
8090  D8        CLD            A:3E X:21 Y:10 P:6D SP:FC CYC:219
8091  18        CLC            A:3E X:21 Y:10 P:65 SP:FC CYC:221
8092  28        PLP            A:3E X:21 Y:10 P:64 SP:FC CYC:223
8093  48        PHA            A:3E X:21 Y:10 P:6D SP:FD CYC:227
8094  BA        TSX            A:3E X:21 Y:10 P:6D SP:FC CYC:230
8095  E8        INX            A:3E X:FC Y:10 P:ED SP:FC CYC:232
8096  9A        TXS            A:3E X:FD Y:10 P:ED SP:FC CYC:234
8097  68        PLA            A:3E X:FD Y:10 P:ED SP:FD CYC:236
8098  A8        TAY            A:00 X:FD Y:10 P:6F SP:FE CYC:240
8099  88        DEY            A:00 X:FD Y:00 P:6F SP:FE CYC:242
809A  98        TYA            A:00 X:FD Y:FF P:ED SP:FE CYC:244
809B  8A        TXA            A:FF X:FD Y:FF P:ED SP:FE CYC:246
809C  58        CLI            A:FD X:FD Y:FF P:ED SP:FE CYC:248
809D  A2 03     LDX #$03       A:FD X:FD Y:FF P:E9 SP:FE CYC:250
809F  CA        DEX            A:FD X:03 Y:FF P:69 SP:FE CYC:252
80A0  D0 FD     BNE $809F      A:FD X:02 Y:FF P:69 SP:FE CYC:254
809F  CA        DEX            A:FD X:02 Y:FF P:69 SP:FE CYC:257
80A0  D0 FD     BNE $809F      A:FD X:01 Y:FF P:69 SP:FE CYC:259
809F  CA        DEX            A:FD X:01 Y:FF P:69 SP:FE CYC:262
80A0  D0 FD     BNE $809F      A:FD X:00 Y:FF P:6B SP:FE CYC:264
80A2  F0 01     BEQ $80A5      A:FD X:00 Y:FF P:6B SP:FE CYC:266
80A5  D0 F8     BNE $809F      A:FD X:00 Y:FF P:6B SP:FE CYC:269
80A7  4C F0 80  JMP $80F0      A:FD X:00 Y:FF P:6B SP:FE CYC:271
80F0  38        SEC            A:FD X:00 Y:FF P:6B SP:FE CYC:274
80F1  B0 1D     BCS $8110      A:FD X:00 Y:FF P:6B SP:FE CYC:276
8110  18        CLC            A:FD X:00 Y:FF P:6B SP:FE CYC:280
8111  90 E5     BCC $80F8      A:FD X:00 Y:FF P:6A SP:FE CYC:282
80F8  20 80 81  JSR $8180      A:FD X:00 Y:FF P:6A SP:FE CYC:286
8180  A0 44     LDY #$44       A:FD X:00 Y:FF P:6A SP:FC CYC:292
8182  60        RTS            A:FD X:00 Y:44 P:68 SP:FC CYC:294
80FB  6C FF 02  JMP ($02FF)    A:FD X:00 Y:44 P:68 SP:FE CYC:300
8140  00        BRK            A:FD X:00 Y:44 P:68 SP:FE CYC:305
8142  A9 EE     LDA #$EE       A:FD X:00 Y:44 P:78 SP:FE CYC:312
8202  40        RTI            A:FD X:77 Y:44 P:6C SP:FB CYC:314
8142  A9 EE     LDA #$EE       A:FD X:77 Y:44 P:68 SP:FE CYC:320
8144  02        KIL            A:EE X:77 Y:44 P:E8 SP:FE CYC:322
`

    blocks := []codeBlock{
        {0x8000, []byte{
            0xa9, 0x80, // lda #$80
            0x85, 0x00, // sta $00
            0xa9, 0x03, // lda #$03
            0x85, 0x01, // sta $01
            0xa9, 0x5a, // lda #$5a
            0x8d, 0x80, 0x03, // sta $0380
            0xa9, 0xc3, // lda #$c3
            0x8d, 0x08, 0x04, // sta $0408
            0xa9, 0xf8, // lda #$f8
            0x85, 0xff, // sta $ff
            0xa9, 0x99, // lda #$99
            0x85, 0x03, // sta $03
            0xa9, 0x21, // lda #$21
            0x85, 0x30, // sta $30
            0xa9, 0x40, // lda #$40
            0x8d, 0xff, 0x02, // sta $02ff
            0xa9, 0x81, // lda #$81
            0x8d, 0x00, 0x02, // sta $0200
            0xa9, 0x22, // lda #$22
            0x8d, 0x00, 0x03, // sta $0300
            0xa2, 0x05, // ldx #$05
            0xa1, 0xfb, // lda ($fb,x)
            0xa9, 0x03, // lda #$03
            0x85, 0x00, // sta $00
            0xa0, 0x10, // ldy #$10
            0xb1, 0xff, // lda ($ff),y
            0x91, 0xff, // sta ($ff),y
            0xbd, 0x80, 0x03, // lda $0380,x
            0xbd, 0xfe, 0x03, // lda $03fe,x
            0xb9, 0xf8, 0x03, // lda $03f8,y
            0xb9, 0x70, 0x03, // lda $0370,y
            0x85, 0x10, // sta $10
            0xa9, 0x00, // lda #$00
            0xb5, 0x0b, // lda $0b,x
            0xb5, 0xfe, // lda $fe,x
            0xb6, 0x20, // ldx $20,y
            0x96, 0x40, // stx $40,y
            0x94, 0x01, // sty $01,x
            0xa9, 0x81, // lda #$81
            0x0a, // asl a
            0x2a, // rol a
            0x4a, // lsr a
            0x6a, // ror a
            0x06, 0x10, // asl $10
            0x6e, 0x80, 0x03, // ror $0380
            0xe6, 0x10, // inc $10
            0xde, 0x5f, 0x03, // dec $035f,x
            0x18, // clc
            0xa9, 0x50, // lda #$50
            0x69, 0x50, // adc #$50
            0xb8, // clv
            0x38, // sec
            0xa9, 0x50, // lda #$50
            0xe9, 0xb0, // sbc #$b0
            0x18, // clc
            0xa9, 0xff, // lda #$ff
            0x69, 0x01, // adc #$01
            0xe9, 0x01, // sbc #$01
            0xa9, 0x40, // lda #$40
            0xc9, 0x40, // cmp #$40
            0xe0, 0x30, // cpx #$30
            0xc0, 0x11, // cpy #$11
            0xa9, 0xc0, // lda #$c0
            0x85, 0x20, // sta $20
            0xa9, 0x01, // lda #$01
            0x24, 0x20, // bit $20
            0x29, 0x0f, // and #$0f
            0x05, 0x20, // ora $20
            0x49, 0xff, // eor #$ff
            0xf8, // sed
            0x38, // sec
            0x08, // php
            0xd8, // cld
            0x18, // clc
            0x28, // plp
            0x48, // pha
            0xba, // tsx
            0xe8, // inx
            0x9a, // txs
            0x68, // pla
            0xa8, // tay
            0x88, // dey
            0x98, // tya
            0x8a, // txa
            0x58, // cli
            0xa2, 0x03, // ldx #$03
            0xca, // dex
            0xd0, 0xfd, // bne $809f
            0xf0, 0x01, // beq $80a5
            0xea, // nop, skipped
            0xd0, 0xf8, // bne $809f
            0x4c, 0xf0, 0x80, // jmp $80f0
        }},
        /* taken branches that cross a page */
        {0x80f0, []byte{
            0x38, // sec
            0xb0, 0x1d, // bcs $8110
        }},
        {0x80f8, []byte{
            0x20, 0x80, 0x81, // jsr $8180
            0x6c, 0xff, 0x02, // jmp ($02ff)
        }},
        {0x8110, []byte{
            0x18, // clc
            0x90, 0xe5, // bcc $80f8
        }},
        /* jmp ($02ff) reads its high byte from $0200 */
        {0x8140, []byte{
            0x00, // brk
            0xea, // padding
            0xa9, 0xee, // lda #$ee
            HaltOpcode,
        }},
        {0x8180, []byte{
            0xa0, 0x44, // ldy #$44
            0x60, // rts
        }},
        /* brk handler */
        {0x8200, []byte{
            0xa2, 0x77, // ldx #$77
            0x40, // rti
        }},
    }

    expected, err := ReadTrace(strings.NewReader(golden))
    if err != nil {
        test.Fatalf("could not read trace: %v", err)
    }

    bus, err := NewBus(Cartridge{ProgramRom: makeBlockRom(blocks, 0x8200)})
    if err != nil {
        test.Fatalf("could not create bus: %v", err)
    }
    cpu := NewCPU(bus, Options{BranchTiming: BranchTimingAccurate})
    cpu.Reset()

    states := []CPUState{cpu.CPUState}
    err = cpu.Run(func(state CPUState, instruction *Instruction){
        states = append(states, state)
    })
    if err != nil {
        test.Fatalf("run failed: %v", err)
    }

    for i := range expected {
        if i >= len(states) {
            test.Fatalf("trace line %v: the program halted early", i + 1)
        }
        if err := expected[i].Matches(states[i]); err != nil {
            test.Fatalf("trace line %v (%04X): %v", i + 1, expected[i].PC, err)
        }
    }
    if len(states) != len(expected) {
        test.Fatalf("expected %v states but got %v", len(expected), len(states))
    }

    /* side effects that the registers alone do not show */
    checks := map[uint16]byte{
        0x0010: 0xb5, // asl then inc of $5a
        0x0022: 0x10, // sty $01,x
        0x0050: 0x21, // stx $40,y
        0x0380: 0x2c, // ror then dec
        0x0408: 0xc3, // sta ($ff),y
        /* brk pushes the address after its padding byte, then status with B */
        0x01fe: 0x81,
        0x01fd: 0x42,
        0x01fc: 0x78,
    }
    for address, value := range checks {
        if bus.Ram[address] != value {
            test.Fatalf("expected 0x%02x at 0x%04x but was 0x%02x", value, address, bus.Ram[address])
        }
    }
}
