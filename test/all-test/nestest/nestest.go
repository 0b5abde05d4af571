package nestest

import (
    "fmt"
    "log"
    "os"

    nes "github.com/kazzmir/nescore/lib"
    test_utils "github.com/kazzmir/nescore/test/all-test/utils"

    "github.com/fatih/color"
)

/* Run nestest in automation mode and compare every instruction against the
 * golden log. Put nestest.nes and nestest.log into 'test-roms'.
 *   https://www.qmtpro.com/~nes/misc/nestest.txt
 * When the log is exhausted the rom has stored its official and unofficial
 * opcode results in $02 and $03, both are 0 on success.
 */

const RomPath = "test-roms/nestest.nes"
const LogPath = "test-roms/nestest.log"
const StartPC = 0xc000

func RunRom(romPath string, logPath string, debug bool) (bool, error) {
    cartridge, err := nes.ParseNesFile(romPath, debug)
    if err != nil {
        return false, err
    }

    logFile, err := os.Open(logPath)
    if err != nil {
        return false, err
    }
    defer logFile.Close()

    golden, err := nes.ReadTrace(logFile)
    if err != nil {
        return false, err
    }

    bus, err := nes.NewBus(cartridge)
    if err != nil {
        return false, err
    }

    cpu := nes.NewCPU(bus, nes.Options{})
    cpu.Reset()
    cpu.PC = StartPC

    red := color.New(color.FgRed).SprintFunc()
    green := color.New(color.FgGreen).SprintFunc()

    for i, line := range golden {
        if debug {
            log.Printf("%v", nes.FormatTrace(cpu.CPUState, bus.PeekByte))
        }

        mismatch := line.Matches(cpu.CPUState)
        if mismatch != nil {
            log.Printf("nestest line %v: %v", i + 1, mismatch)
            log.Printf("  expected %v", green(fmt.Sprintf("%04X A:%02X X:%02X Y:%02X P:%02X SP:%02X CYC:%v", line.PC, line.A, line.X, line.Y, line.P, line.SP, line.Cycle)))
            log.Printf("  actual   %v", red(nes.FormatTrace(cpu.CPUState, bus.PeekByte)))
            return false, nil
        }

        err := cpu.Step(nil)
        if err != nil {
            return false, fmt.Errorf("line %v: %w", i + 1, err)
        }
    }

    official := bus.PeekByte(0x02)
    unofficial := bus.PeekByte(0x03)
    if official != 0 || unofficial != 0 {
        log.Printf("nestest reported failure codes official=0x%02X unofficial=0x%02X", official, unofficial)
        return false, nil
    }

    return true, nil
}

func Run(debug bool) (bool, error) {
    if missing, ok := test_utils.RomsExist(RomPath, LogPath); !ok {
        log.Print(test_utils.Skipped("nestest", missing))
        return true, nil
    }

    ok, err := RunRom(RomPath, LogPath, debug)
    if err != nil {
        return false, err
    }

    log.Print(test_utils.Result("nestest", ok))
    return ok, nil
}
