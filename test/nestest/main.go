package main

/* run only nestest, optionally against a rom and log somewhere other than test-roms */

import (
    "log"
    "os"

    "github.com/kazzmir/nescore/test/all-test/nestest"
)

func main(){
    log.SetFlags(log.Lshortfile | log.Lmicroseconds)

    rom := nestest.RomPath
    logPath := nestest.LogPath
    debug := false

    var paths []string
    for _, arg := range os.Args[1:] {
        switch arg {
            case "-debug", "--debug":
                debug = true
            default:
                paths = append(paths, arg)
        }
    }

    if len(paths) >= 1 {
        rom = paths[0]
    }
    if len(paths) >= 2 {
        logPath = paths[1]
    }

    ok, err := nestest.RunRom(rom, logPath, debug)
    if err != nil {
        log.Fatalf("Error: %v", err)
    }

    if !ok {
        log.Printf("nestest failed")
        os.Exit(1)
    }
    log.Printf("nestest passed")
}
