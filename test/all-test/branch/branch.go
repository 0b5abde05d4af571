package branch

import (
    "errors"
    "fmt"
    "log"

    nes "github.com/kazzmir/nescore/lib"
    test_utils "github.com/kazzmir/nescore/test/all-test/utils"
)

/* Run blargg's branch timing tests. Unzip them into 'test-roms' such that 'test-roms/branch_timing_tests' exists.
 * This test will run
 *   1.Branch_Basics.nes
 *   2.Backward_Branch.nes
 *   3.Forward_Branch.nes
 * And expects a passing value (1) to be written to address 0xf8
 */

const ResultAddress = 0xf8
const MaxInstructions = 150000

/* For each test, run the rom for 150k instructions and check whats written to 0xf8 */
func doTest(rom string, debug bool) (bool, error) {
    cartridge, err := nes.ParseNesFile(rom, debug)
    if err != nil {
        return false, err
    }

    bus, err := nes.NewBus(cartridge)
    if err != nil {
        return false, err
    }

    options := nes.Options{
        BranchTiming: nes.BranchTimingAccurate,
    }
    if debug {
        options.Debug = 1
    }

    cpu := nes.NewCPU(bus, options)
    cpu.Reset()

    for i := 0; i < MaxInstructions; i++ {
        err := cpu.Step(nil)
        if errors.Is(err, nes.ErrHalted) {
            break
        }
        if err != nil {
            return false, err
        }
    }

    result := bus.PeekByte(ResultAddress)
    if debug {
        log.Printf("%v: result 0x%x after %v cycles", rom, result, cpu.Cycle)
    }

    return result == 1, nil
}

func Run(debug bool) (bool, error) {
    roms := []string{
        "test-roms/branch_timing_tests/1.Branch_Basics.nes",
        "test-roms/branch_timing_tests/2.Backward_Branch.nes",
        "test-roms/branch_timing_tests/3.Forward_Branch.nes",
    }

    all := true
    for i, rom := range roms {
        name := fmt.Sprintf("Branch test %v", i + 1)
        if missing, ok := test_utils.RomsExist(rom); !ok {
            log.Print(test_utils.Skipped(name, missing))
            continue
        }

        ok, err := doTest(rom, debug)
        if err != nil {
            return false, err
        }

        log.Print(test_utils.Result(name, ok))
        all = all && ok
    }

    return all, nil
}
