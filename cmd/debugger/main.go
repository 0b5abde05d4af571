package main

/* step through a rom one instruction at a time in the terminal */

import (
    "context"
    "errors"
    "fmt"
    "log"
    "os"
    "strconv"
    "strings"

    nes "github.com/kazzmir/nescore/lib"
    "github.com/kazzmir/nescore/debug"
    "github.com/kazzmir/nescore/util/thread"

    "github.com/jroimartin/gocui"
    "golang.org/x/term"
)

type Arguments struct {
    Path string
    Breakpoints []uint16
    DumpPath string
    BranchTiming nes.BranchTiming
    /* stop a non-interactive trace after this many instructions, 0 means no limit */
    MaxSteps uint64
    Debug bool
}

func setupCPU(arguments Arguments) (*nes.CPU, *nes.Bus, error) {
    cartridge, err := nes.ParseNesFile(arguments.Path, arguments.Debug)
    if err != nil {
        return nil, nil, err
    }

    bus, err := nes.NewBus(cartridge)
    if err != nil {
        return nil, nil, err
    }

    options := nes.Options{
        BranchTiming: arguments.BranchTiming,
    }
    if arguments.Debug {
        options.Debug = 1
    }

    cpu := nes.NewCPU(bus, options)
    cpu.Reset()
    return cpu, bus, nil
}

func dumpState(path string, cpu *nes.CPU) error {
    if path == "" {
        return nil
    }

    file, err := os.Create(path)
    if err != nil {
        return err
    }
    defer file.Close()
    return cpu.CPUState.Serialize(file)
}

/* print one trace line per instruction until the program halts */
func runTrace(cpu *nes.CPU, bus *nes.Bus, maxSteps uint64) error {
    var steps uint64
    fmt.Println(nes.FormatTrace(cpu.CPUState, bus.PeekByte))
    for maxSteps == 0 || steps < maxSteps {
        err := cpu.Step(func(state nes.CPUState, instruction *nes.Instruction){
            fmt.Println(nes.FormatTrace(state, bus.PeekByte))
        })
        if errors.Is(err, nes.ErrHalted) {
            return nil
        }
        if err != nil {
            return err
        }
        steps += 1
    }
    return nil
}

func writeLines(gui *gocui.Gui, name string, lines []string) error {
    view, err := gui.View(name)
    if err != nil {
        return err
    }
    view.Clear()
    for _, line := range lines {
        fmt.Fprintln(view, line)
    }
    return nil
}

func layout(gui *gocui.Gui) error {
    maxX, maxY := gui.Size()
    half := maxX / 2

    makeView := func(name string, title string, x0, y0, x1, y1 int) error {
        view, err := gui.SetView(name, x0, y0, x1, y1)
        if err != nil {
            if err != gocui.ErrUnknownView {
                return err
            }
            view.Title = title
        }
        return nil
    }

    err := makeView("registers", "registers", 0, 0, half - 1, 3)
    if err != nil {
        return err
    }
    err = makeView("code", "code (s: step, c: continue, ctrl-c: quit)", 0, 4, half - 1, maxY - 1)
    if err != nil {
        return err
    }
    err = makeView("zeropage", "zero page", half, 0, maxX - 1, maxY / 2 - 1)
    if err != nil {
        return err
    }
    return makeView("stack", "stack", half, maxY / 2, maxX - 1, maxY - 1)
}

func showView(gui *gocui.Gui, view debug.View) error {
    err := writeLines(gui, "registers", registerLines(view))
    if err != nil {
        return err
    }

    code := make([]string, 0, len(view.Code))
    for i, line := range view.Code {
        if i == 0 {
            code = append(code, "> " + line)
        } else {
            code = append(code, "  " + line)
        }
    }
    err = writeLines(gui, "code", code)
    if err != nil {
        return err
    }

    err = writeLines(gui, "zeropage", zeroPageLines(view))
    if err != nil {
        return err
    }
    return writeLines(gui, "stack", stackLines(view))
}

/* drop the key press if the cpu is not keeping up */
func sendCommand(debugger *debug.DefaultDebugger, command debug.DebugCommand){
    select {
        case debugger.Commands <- command:
        default:
    }
}

func runInteractive(cpu *nes.CPU, bus *nes.Bus, arguments Arguments) error {
    gui, err := gocui.NewGui(gocui.OutputNormal)
    if err != nil {
        return err
    }
    defer gui.Close()

    group := thread.NewThreadGroup(context.Background())
    debugger := debug.MakeDebugger(group.Context(), bus.PeekByte)
    for _, pc := range arguments.Breakpoints {
        debugger.AddPCBreakpoint(pc)
    }
    if len(arguments.Breakpoints) > 0 {
        debugger.ContinueUntilBreak()
    }

    gui.SetManagerFunc(layout)

    bindings := []struct{
        key interface{}
        handler func(*gocui.Gui, *gocui.View) error
    }{
        {gocui.KeyCtrlC, func(gui *gocui.Gui, view *gocui.View) error {
            return gocui.ErrQuit
        }},
        {'q', func(gui *gocui.Gui, view *gocui.View) error {
            return gocui.ErrQuit
        }},
        {'s', func(gui *gocui.Gui, view *gocui.View) error {
            sendCommand(debugger, debug.DebugCommandStep)
            return nil
        }},
        {'c', func(gui *gocui.Gui, view *gocui.View) error {
            sendCommand(debugger, debug.DebugCommandContinue)
            return nil
        }},
    }

    for _, binding := range bindings {
        err := gui.SetKeybinding("", binding.key, gocui.ModNone, binding.handler)
        if err != nil {
            return err
        }
    }

    group.SpawnWithError(func(quit context.Context) error {
        debugger.Handle(&cpu.CPUState)
        for quit.Err() == nil {
            err := cpu.Step(debugger.Observer())
            if errors.Is(err, nes.ErrHalted) {
                /* keep showing the final state until the user quits */
                debugger.Stop()
                debugger.Handle(&cpu.CPUState)
                continue
            }
            if err != nil {
                return err
            }
        }
        return nil
    })

    group.Spawn(func(){
        for {
            select {
                case <-group.Done():
                    gui.Update(func(gui *gocui.Gui) error {
                        return gocui.ErrQuit
                    })
                    return
                case view := <-debugger.Views:
                    gui.Update(func(gui *gocui.Gui) error {
                        return showView(gui, view)
                    })
            }
        }
    })

    err = gui.MainLoop()
    group.Cancel()
    groupErr := group.Wait()

    if err != nil && err != gocui.ErrQuit {
        return err
    }
    return groupErr
}

func parseAddress(value string) (uint16, error) {
    value = strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(value), "0x"), "$")
    out, err := strconv.ParseUint(value, 16, 16)
    return uint16(out), err
}

func parseArguments(args []string) (Arguments, error) {
    var arguments Arguments

    argIndex := 0
    next := func(name string) (string, error) {
        argIndex += 1
        if argIndex >= len(args) {
            return "", fmt.Errorf("expected an argument for %v", name)
        }
        return args[argIndex], nil
    }

    for argIndex < len(args) {
        arg := args[argIndex]
        switch arg {
            case "-debug", "--debug":
                arguments.Debug = true
            case "-break", "--break", "-b":
                value, err := next(arg)
                if err != nil {
                    return arguments, err
                }
                pc, err := parseAddress(value)
                if err != nil {
                    return arguments, fmt.Errorf("invalid breakpoint '%v': %w", value, err)
                }
                arguments.Breakpoints = append(arguments.Breakpoints, pc)
            case "-dump", "--dump":
                value, err := next(arg)
                if err != nil {
                    return arguments, err
                }
                arguments.DumpPath = value
            case "-branch-timing", "--branch-timing":
                value, err := next(arg)
                if err != nil {
                    return arguments, err
                }
                arguments.BranchTiming, err = nes.ParseBranchTiming(value)
                if err != nil {
                    return arguments, err
                }
            case "-steps", "--steps":
                value, err := next(arg)
                if err != nil {
                    return arguments, err
                }
                arguments.MaxSteps, err = strconv.ParseUint(value, 10, 64)
                if err != nil {
                    return arguments, err
                }
            default:
                arguments.Path = arg
        }
        argIndex += 1
    }

    return arguments, nil
}

func main(){
    log.SetFlags(log.Lshortfile | log.Lmicroseconds | log.Ldate)

    arguments, err := parseArguments(os.Args[1:])
    if err != nil {
        log.Fatalf("Error: %v", err)
    }

    if arguments.Path == "" {
        fmt.Printf("Give a .nes argument\n")
        return
    }

    cpu, bus, err := setupCPU(arguments)
    if err != nil {
        log.Fatalf("Error: %v", err)
    }

    if term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd())) {
        /* log output would draw over the views */
        logFile, logErr := os.Create("debugger.log")
        if logErr == nil {
            log.SetOutput(logFile)
            defer logFile.Close()
        }
        err = runInteractive(cpu, bus, arguments)
    } else {
        err = runTrace(cpu, bus, arguments.MaxSteps)
    }

    if err != nil {
        log.Printf("Error: %v", err)
    }

    err = dumpState(arguments.DumpPath, cpu)
    if err != nil {
        log.Printf("Could not write state: %v", err)
    }
}
