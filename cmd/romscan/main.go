package main

/* CLI utility that finds .nes files and reports which ones this core can run */

import (
    "flag"
    "fmt"
    "os"

    nes "github.com/kazzmir/nescore/lib"
    "github.com/kazzmir/nescore/cmd/nes/common"

    "github.com/fatih/color"
)

type RomInfo struct {
    Path string
    Cartridge nes.Cartridge
    Sha256 string
    Supported bool
    Err error
}

func scanRom(path string) RomInfo {
    info := RomInfo{
        Path: path,
    }

    cartridge, err := nes.ParseNesFile(path, false)
    if err != nil {
        info.Err = err
        return info
    }
    info.Cartridge = cartridge

    /* the bus refuses mappers it cannot map */
    _, err = nes.NewBus(cartridge)
    info.Supported = err == nil

    hash, err := common.GetSha256(path)
    if err == nil {
        info.Sha256 = hash
    }

    return info
}

func getRoms(root string, mapper int) ([]RomInfo, error) {
    paths, err := common.FindRoms(root)
    if err != nil {
        return nil, err
    }

    var out []RomInfo
    for _, path := range paths {
        info := scanRom(path)
        if mapper != -1 && (info.Err != nil || info.Cartridge.Mapper != uint32(mapper)) {
            continue
        }
        out = append(out, info)
    }

    return out, nil
}

func formatRom(info RomInfo) string {
    red := color.New(color.FgRed).SprintFunc()
    green := color.New(color.FgGreen).SprintFunc()

    if info.Err != nil {
        return fmt.Sprintf("%v %v: %v", red("invalid  "), info.Path, info.Err)
    }

    status := red("unsupported")
    if info.Supported {
        status = green("supported  ")
    }

    sha := info.Sha256
    if len(sha) > 12 {
        sha = sha[:12]
    }

    return fmt.Sprintf("%v mapper %3d prg %3dk chr %3dk %-10v %v %v", status, info.Cartridge.Mapper,
        len(info.Cartridge.ProgramRom) / 1024, len(info.Cartridge.CharacterRom) / 1024,
        info.Cartridge.Mirroring.String(), sha, info.Path)
}

func displayRoms(root string, mapper int) error {
    roms, err := getRoms(root, mapper)
    if err != nil {
        return err
    }

    supported := 0
    for _, rom := range roms {
        fmt.Println(formatRom(rom))
        if rom.Supported {
            supported += 1
        }
    }
    fmt.Printf("Found %d ROMs, %d supported\n", len(roms), supported)
    return nil
}

func main(){
    findMapper := flag.Int("find", -1, "Only show ROMs with a specific mapper")
    root := flag.String("root", ".", "Directory to search for .nes files")

    flag.Parse()

    err := displayRoms(*root, *findMapper)
    if err != nil {
        fmt.Fprintf(os.Stderr, "Error: %v\n", err)
        os.Exit(1)
    }
}
