package debug

import (
    "context"
    "fmt"
    "log"
    "sync"

    nes "github.com/kazzmir/nescore/lib"
)

type DebugCommand interface {
    Name() string
}

type DebugCommandSimple struct {
    name string
}

func (command *DebugCommandSimple) Name() string {
    return command.name
}

func makeCommand(name string) DebugCommand {
    return &DebugCommandSimple{name: name}
}

var DebugCommandStep DebugCommand = makeCommand("step")
var DebugCommandContinue DebugCommand = makeCommand("continue")

// break when the cpu's PC is at a specific value
type Breakpoint struct {
    PC uint16
    Id uint64
}

func (breakpoint *Breakpoint) Hit(cpu *nes.CPUState) bool {
    return breakpoint.PC == cpu.PC
}

type Debugger interface {
    Handle(*nes.CPUState)
}

/* everything a front end needs to draw the machine while it is stopped */
type View struct {
    State nes.CPUState
    /* disassembly starting at State.PC */
    Code []string
    ZeroPage [0x100]byte
    Stack [0x100]byte
}

const codeLines = 12

type DefaultDebugger struct {
    Commands chan DebugCommand
    Views chan View
    Stopped bool
    Breakpoints []Breakpoint
    BreakpointId uint64
    /* side effect free memory access, used to build views */
    Peek func(uint16) byte
    Quit context.Context
    lock sync.Mutex
}

func (debugger *DefaultDebugger) IsStopped() bool {
    debugger.lock.Lock()
    defer debugger.lock.Unlock()
    return debugger.Stopped
}

func (debugger *DefaultDebugger) ContinueUntilBreak(){
    debugger.lock.Lock()
    defer debugger.lock.Unlock()
    debugger.Stopped = false
}

func (debugger *DefaultDebugger) Stop(){
    debugger.lock.Lock()
    defer debugger.lock.Unlock()
    debugger.Stopped = true
}

func (debugger *DefaultDebugger) AddPCBreakpoint(pc uint16) uint64 {
    debugger.lock.Lock()
    defer debugger.lock.Unlock()
    id := debugger.BreakpointId
    debugger.Breakpoints = append(debugger.Breakpoints, Breakpoint{
        PC: pc,
        Id: id,
    })
    debugger.BreakpointId += 1
    return id
}

func (debugger *DefaultDebugger) RemoveBreakpoint(id uint64){
    debugger.lock.Lock()
    defer debugger.lock.Unlock()
    var out []Breakpoint
    for _, breakpoint := range debugger.Breakpoints {
        if breakpoint.Id != id {
            out = append(out, breakpoint)
        }
    }
    debugger.Breakpoints = out
}

func (debugger *DefaultDebugger) hitBreakpoint(cpu *nes.CPUState) bool {
    debugger.lock.Lock()
    defer debugger.lock.Unlock()
    for _, breakpoint := range debugger.Breakpoints {
        if breakpoint.Hit(cpu) {
            return true
        }
    }
    return false
}

func (debugger *DefaultDebugger) MakeView(cpu *nes.CPUState) View {
    view := View{
        State: *cpu,
    }

    if debugger.Peek == nil {
        return view
    }

    pc := cpu.PC
    for i := 0; i < codeLines; i++ {
        text, next := nes.Disassemble(debugger.Peek, pc)
        view.Code = append(view.Code, fmt.Sprintf("%04X  %-8s  %v", pc, nes.InstructionBytes(debugger.Peek, pc), text))
        pc = next
    }

    for i := 0; i < 0x100; i++ {
        view.ZeroPage[i] = debugger.Peek(uint16(i))
        view.Stack[i] = debugger.Peek(nes.StackBase + uint16(i))
    }

    return view
}

/* publish the newest view, replacing one the front end has not picked up yet */
func (debugger *DefaultDebugger) publish(view View){
    if debugger.Views == nil {
        return
    }

    select {
        case debugger.Views <- view:
        default:
            select {
                case <-debugger.Views:
                default:
            }
            debugger.Views <- view
    }
}

/* called with the registers before the next instruction runs. blocks while stopped */
func (debugger *DefaultDebugger) Handle(cpu *nes.CPUState){
    if debugger.hitBreakpoint(cpu) {
        debugger.Stop()
    }

    if !debugger.IsStopped() {
        return
    }

    debugger.publish(debugger.MakeView(cpu))

    select {
        case command := <-debugger.Commands:
            if command == DebugCommandStep {
                log.Printf("[debug] step")
                return
            }
            if command == DebugCommandContinue {
                log.Printf("[debug] continue")
                debugger.ContinueUntilBreak()
                return
            }
        case <-debugger.Quit.Done():
            debugger.ContinueUntilBreak()
    }
}

func (debugger *DefaultDebugger) Observer() nes.Observer {
    return func(state nes.CPUState, instruction *nes.Instruction){
        debugger.Handle(&state)
    }
}

func MakeDebugger(quit context.Context, peek func(uint16) byte) *DefaultDebugger {
    return &DefaultDebugger{
        Commands: make(chan DebugCommand, 5),
        Views: make(chan View, 1),
        Stopped: true,
        BreakpointId: 1,
        Peek: peek,
        Quit: quit,
    }
}
