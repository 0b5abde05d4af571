package common

import (
    "os"
    "io"
    "fmt"
    "strings"
    "crypto/sha256"
    "path/filepath"
)

func FileExists(path string) bool {
    info, err := os.Stat(path)
    if os.IsNotExist(err) {
        return false
    }

    // return true if exist and is not a directory
    return info != nil && !info.IsDir()
}

/* return the sha256 hash of a file given by the path */
func GetSha256(path string) (string, error){
    hash := sha256.New()
    data, err := os.Open(path)
    if err != nil {
        return "", err
    }
    defer data.Close()

    _, err = io.Copy(hash, data)
    if err != nil {
        return "", err
    }
    return fmt.Sprintf("%x", hash.Sum(nil)), nil
}

/* every .nes file below root */
func FindRoms(root string) ([]string, error) {
    var out []string

    err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
        if err != nil {
            return err
        }

        if !info.IsDir() && strings.ToLower(filepath.Ext(path)) == ".nes" {
            out = append(out, path)
        }

        return nil
    })

    return out, err
}
