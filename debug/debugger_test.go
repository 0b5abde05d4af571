package debug

import (
    "context"
    "strings"
    "testing"

    nes "github.com/kazzmir/nescore/lib"
)

func makeMachine(test *testing.T, code []byte) (*nes.CPU, *nes.Bus) {
    rom := make([]byte, 0x4000)
    copy(rom, code)
    rom[0x3ffc] = 0x00
    rom[0x3ffd] = 0x80

    bus, err := nes.NewBus(nes.Cartridge{ProgramRom: rom})
    if err != nil {
        test.Fatalf("could not create bus: %v", err)
    }
    cpu := nes.NewCPU(bus, nes.Options{})
    cpu.Reset()
    return cpu, bus
}

func TestBreakpointAndStep(test *testing.T){
    cpu, bus := makeMachine(test, []byte{
        0xa9, 0x01, // lda #$01
        0xaa, // tax
        0xe8, // inx
        0xe8, // inx
        nes.HaltOpcode,
    })

    quit, cancel := context.WithCancel(context.Background())
    defer cancel()

    debugger := MakeDebugger(quit, bus.PeekByte)
    debugger.ContinueUntilBreak()
    debugger.AddPCBreakpoint(0x8003)

    done := make(chan error, 1)
    go func(){
        done <- cpu.Run(debugger.Observer())
    }()

    view := <-debugger.Views
    if view.State.PC != 0x8003 || view.State.X != 1 {
        test.Fatalf("expected to stop at 0x8003 with X=1 but was 0x%x X=%v", view.State.PC, view.State.X)
    }
    if !strings.HasPrefix(view.Code[0], "8003") || !strings.Contains(view.Code[0], "INX") {
        test.Fatalf("unexpected disassembly %q", view.Code[0])
    }

    debugger.Commands <- DebugCommandStep
    view = <-debugger.Views
    if view.State.PC != 0x8004 || view.State.X != 2 {
        test.Fatalf("expected to step to 0x8004 with X=2 but was 0x%x X=%v", view.State.PC, view.State.X)
    }

    debugger.Commands <- DebugCommandContinue
    err := <-done
    if err != nil {
        test.Fatalf("run failed: %v", err)
    }
    if cpu.X != 3 {
        test.Fatalf("expected X=3 but was %v", cpu.X)
    }
}

func TestQuitReleasesCPU(test *testing.T){
    cpu, bus := makeMachine(test, []byte{0xe8, nes.HaltOpcode})

    quit, cancel := context.WithCancel(context.Background())
    debugger := MakeDebugger(quit, bus.PeekByte)
    cancel()

    err := cpu.Run(debugger.Observer())
    if err != nil {
        test.Fatalf("run failed: %v", err)
    }
    if debugger.IsStopped() {
        test.Fatalf("expected quitting to release the debugger")
    }
}

func TestRemoveBreakpoint(test *testing.T){
    debugger := MakeDebugger(context.Background(), nil)

    first := debugger.AddPCBreakpoint(0x8000)
    second := debugger.AddPCBreakpoint(0x9000)
    if first == second {
        test.Fatalf("breakpoint ids must be unique")
    }

    debugger.RemoveBreakpoint(first)
    if len(debugger.Breakpoints) != 1 || debugger.Breakpoints[0].PC != 0x9000 {
        test.Fatalf("expected only the 0x9000 breakpoint to remain: %v", debugger.Breakpoints)
    }

    state := nes.CPUState{PC: 0x8000}
    if debugger.hitBreakpoint(&state) {
        test.Fatalf("removed breakpoint should not hit")
    }

    view := debugger.MakeView(&state)
    if len(view.Code) != 0 {
        test.Fatalf("a debugger without memory access has no disassembly")
    }
}
