package main

import (
    "fmt"
    "strings"

    "github.com/kazzmir/nescore/debug"
)

/* 16 bytes per line, prefixed with the address of the first byte. the byte
 * at mark gets brackets around it
 */
func hexDump(base uint16, data []byte, mark int) []string {
    var out []string
    for row := 0; row < len(data); row += 16 {
        var line strings.Builder
        fmt.Fprintf(&line, "%04X:", int(base) + row)
        for column := 0; column < 16 && row + column < len(data); column++ {
            if row + column == mark {
                fmt.Fprintf(&line, "[%02X", data[row + column])
            } else if row + column == mark + 1 && column > 0 {
                fmt.Fprintf(&line, "]%02X", data[row + column])
            } else {
                fmt.Fprintf(&line, " %02X", data[row + column])
            }
        }
        if mark >= row && mark < row + 16 && (mark + 1) % 16 == 0 {
            line.WriteString("]")
        }
        out = append(out, line.String())
    }
    return out
}

func registerLines(view debug.View) []string {
    state := view.State
    return []string{
        fmt.Sprintf("PC:%04X  A:%02X  X:%02X  Y:%02X  SP:%02X", state.PC, state.A, state.X, state.Y, state.SP),
        fmt.Sprintf("P:%02X %v  cycle %v", byte(state.Status), state.Status.String(), state.Cycle),
    }
}

/* the stack page with the next free slot marked */
func stackLines(view debug.View) []string {
    return hexDump(0x100, view.Stack[:], int(view.State.SP))
}

func zeroPageLines(view debug.View) []string {
    return hexDump(0, view.ZeroPage[:], -1)
}
