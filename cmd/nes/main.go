package main

import (
    "fmt"
    "log"
    "os"
    "strconv"
    "runtime/pprof"

    nes "github.com/kazzmir/nescore/lib"
    "github.com/kazzmir/nescore/cmd/nes/common"

    "github.com/hajimehoshi/ebiten/v2"
)

func setupCPU(path string, branchTiming nes.BranchTiming, debug bool) (*nes.CPU, *nes.Bus, error) {
    cartridge, err := nes.ParseNesFile(path, debug)
    if err != nil {
        return nil, nil, err
    }

    bus, err := nes.NewBus(cartridge)
    if err != nil {
        return nil, nil, err
    }

    options := nes.Options{
        BranchTiming: branchTiming,
    }

    if debug {
        options.Debug = 1
        bus.Debug = 1
        bus.PPU.Debug = 1
    }

    cpu := nes.NewCPU(bus, options)
    cpu.Reset()

    return cpu, bus, nil
}

func Run(path string, config common.ConfigData, debug bool, maxCycles uint64) error {
    branchTiming, err := nes.ParseBranchTiming(config.BranchTiming)
    if err != nil {
        return err
    }

    cpu, bus, err := setupCPU(path, branchTiming, debug)
    if err != nil {
        return err
    }

    engine := MakeEngine(cpu, bus, config)
    engine.MaxCycles = maxCycles

    ebiten.SetWindowTitle(fmt.Sprintf("nescore - %v", path))
    ebiten.SetWindowSize(PatternTablePixels * 3 * config.Scale, (PatternTablePixels + StatusHeight) * config.Scale)

    err = ebiten.RunGame(engine)
    if err != nil {
        return err
    }
    return engine.Err
}

func main(){
    log.SetFlags(log.Lshortfile | log.Lmicroseconds | log.Ldate)

    var nesPath string
    var debug bool
    var maxCycles uint64
    var doCpuProfile bool
    var saveConfig bool

    config, err := common.LoadConfigData()
    if err != nil && !os.IsNotExist(err) {
        log.Printf("Warning: could not load config: %v", err)
    }

    argIndex := 1
    for argIndex < len(os.Args) {
        arg := os.Args[argIndex]
        switch arg {
            case "-debug", "--debug":
                debug = true
            case "-profile", "--profile":
                doCpuProfile = true
            case "-scale", "--scale", "-size", "--size":
                argIndex += 1
                if argIndex >= len(os.Args) {
                    log.Fatalf("Expected an integer argument for %v", arg)
                }
                scale, err := strconv.ParseInt(os.Args[argIndex], 10, 64)
                if err != nil {
                    log.Fatalf("Error reading scale argument: %v", err)
                }
                config.Scale = int(scale)
            case "-branch-timing", "--branch-timing":
                argIndex += 1
                if argIndex >= len(os.Args) {
                    log.Fatalf("Expected accurate or base for %v", arg)
                }
                config.BranchTiming = os.Args[argIndex]
            case "-cycles", "--cycles":
                var err error
                argIndex += 1
                if argIndex >= len(os.Args) {
                    log.Fatalf("Expected a number of cycles\n")
                }
                maxCycles, err = strconv.ParseUint(os.Args[argIndex], 10, 64)
                if err != nil {
                    log.Fatalf("Error parsing cycles: %v\n", err)
                }
            case "-save-config", "--save-config":
                saveConfig = true
            default:
                nesPath = arg
        }

        argIndex += 1
    }

    if config.Scale <= 0 {
        config.Scale = 1
    }

    if saveConfig {
        err := common.SaveConfigData(config)
        if err != nil {
            log.Fatalf("Could not save config: %v", err)
        }
    }

    if nesPath == "" {
        fmt.Printf("Give a .nes argument\n")
        return
    }

    if !common.FileExists(nesPath) {
        log.Fatalf("Error: %v does not exist or is a directory", nesPath)
    }

    if doCpuProfile {
        profile, err := os.Create("profile.cpu")
        if err != nil {
            log.Fatal(err)
        }
        defer profile.Close()
        pprof.StartCPUProfile(profile)
        defer pprof.StopCPUProfile()
    }

    err = Run(nesPath, config, debug, maxCycles)
    if err != nil {
        log.Printf("Error: %v\n", err)
    }
    log.Printf("Bye")
}
