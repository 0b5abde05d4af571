package main

import (
    "log"
    "os"

    "github.com/kazzmir/nescore/test/all-test/nestest"
    branch "github.com/kazzmir/nescore/test/all-test/branch"
)

func main(){
    log.SetFlags(log.Lshortfile | log.Lmicroseconds)

    debug := len(os.Args) > 1 && (os.Args[1] == "-debug" || os.Args[1] == "--debug")
    failed := false

    ok, err := nestest.Run(debug)
    if err != nil {
        log.Printf("Error: nestest failed with an error: %v", err)
        failed = true
    } else if !ok {
        failed = true
    }

    ok, err = branch.Run(debug)
    if err != nil {
        log.Printf("branch failed with an error: %v", err)
        failed = true
    } else if !ok {
        log.Printf("branch tests failed")
        failed = true
    }

    if failed {
        os.Exit(1)
    }
}
