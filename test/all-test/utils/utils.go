package utils

import (
    "fmt"
    "os"

    "github.com/fatih/color"
)

func Failure(message string) string {
    red := color.New(color.FgRed).SprintFunc()
    return fmt.Sprintf("%v %v", message, red("failed"))
}

func Success(message string) string {
    green := color.New(color.FgGreen).SprintFunc()
    return fmt.Sprintf("%v %v", message, green("passed"))
}

/* a test rom that is not in test-roms is reported instead of failing the run */
func Skipped(message string, path string) string {
    yellow := color.New(color.FgYellow).SprintFunc()
    return fmt.Sprintf("%v %v (%v not found)", message, yellow("skipped"), path)
}

func Result(message string, ok bool) string {
    if ok {
        return Success(message)
    }
    return Failure(message)
}

func RomsExist(paths ...string) (string, bool) {
    for _, path := range paths {
        _, err := os.Stat(path)
        if err != nil {
            return path, false
        }
    }
    return "", true
}
