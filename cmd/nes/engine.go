package main

import (
    "errors"
    "fmt"
    "log"
    "math/rand/v2"

    nes "github.com/kazzmir/nescore/lib"
    "github.com/kazzmir/nescore/cmd/nes/common"

    "github.com/hajimehoshi/ebiten/v2"
    "github.com/hajimehoshi/ebiten/v2/ebitenutil"
    "github.com/hajimehoshi/ebiten/v2/inpututil"
)

/* the program reads a fresh random byte from $fe and the last key pressed from $ff */
const RandomAddress = 0xfe
const KeyAddress = 0xff

const StatusHeight = 16

type Engine struct {
    CPU *nes.CPU
    Bus *nes.Bus
    Keys map[ebiten.Key]byte
    Scale int
    MaxCycles uint64

    Halted bool
    Err error

    random *rand.Rand
    pressed []ebiten.Key
    patternTables *ebiten.Image
    patternPixels []byte
    screen *ebiten.Image
    screenPixels []byte
}

/* turn the configured key names, such as "W" or "ArrowUp", into ebiten keys */
func makeKeyMap(keys []common.ConfigKey) map[ebiten.Key]byte {
    out := make(map[ebiten.Key]byte)
    for _, configKey := range keys {
        var key ebiten.Key
        err := key.UnmarshalText([]byte(configKey.Key))
        if err != nil {
            log.Printf("Warning: unknown key '%v' in config: %v", configKey.Key, err)
            continue
        }
        out[key] = configKey.Value
    }
    return out
}

func MakeEngine(cpu *nes.CPU, bus *nes.Bus, config common.ConfigData) *Engine {
    engine := &Engine{
        CPU: cpu,
        Bus: bus,
        Keys: makeKeyMap(config.Keys),
        Scale: config.Scale,
        random: rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
        patternTables: ebiten.NewImage(PatternTablePixels * 2, PatternTablePixels),
        patternPixels: make([]byte, PatternTablePixels * 2 * PatternTablePixels * 4),
        screen: ebiten.NewImage(ScreenSize, ScreenSize),
        screenPixels: make([]byte, ScreenSize * ScreenSize * 4),
    }

    /* chr rom never changes so the tile sheet is drawn once */
    renderPatternTables(bus.CharacterData(), engine.patternPixels)
    engine.patternTables.WritePixels(engine.patternPixels)

    return engine
}

func (engine *Engine) observe(state nes.CPUState, instruction *nes.Instruction){
    engine.Bus.Ram[RandomAddress] = byte(engine.random.IntN(256))
}

func (engine *Engine) Update() error {
    if ebiten.IsKeyPressed(ebiten.KeyEscape) {
        return ebiten.Termination
    }

    engine.pressed = inpututil.AppendJustPressedKeys(engine.pressed[:0])
    for _, key := range engine.pressed {
        value, ok := engine.Keys[key]
        if ok {
            engine.Bus.Ram[KeyAddress] = value
        }
    }

    if engine.Halted || engine.Err != nil {
        return nil
    }

    err := engine.CPU.RunFrame(engine.observe)
    if errors.Is(err, nes.ErrHalted) {
        log.Printf("Program halted at 0x%x after %v cycles", engine.CPU.PC, engine.CPU.Cycle)
        engine.Halted = true
    } else if err != nil {
        log.Printf("Error: %v", err)
        engine.Err = err
    }

    if engine.MaxCycles > 0 && engine.CPU.Cycle >= engine.MaxCycles {
        log.Printf("Reached %v cycles", engine.CPU.Cycle)
        return ebiten.Termination
    }

    return nil
}

func (engine *Engine) statusLine() string {
    switch {
        case engine.Err != nil: return fmt.Sprintf("error: %v", engine.Err)
        case engine.Halted: return fmt.Sprintf("halted %v", engine.CPU.String())
    }
    return engine.CPU.String()
}

func (engine *Engine) Draw(screen *ebiten.Image) {
    renderScreen(engine.Bus.Ram[:], engine.screenPixels)
    engine.screen.WritePixels(engine.screenPixels)

    var options ebiten.DrawImageOptions
    screen.DrawImage(engine.patternTables, &options)

    /* the ram screen sits to the right of the tile sheet, scaled up to its height */
    options.GeoM.Reset()
    options.GeoM.Scale(float64(PatternTablePixels) / ScreenSize, float64(PatternTablePixels) / ScreenSize)
    options.GeoM.Translate(float64(PatternTablePixels * 2), 0)
    screen.DrawImage(engine.screen, &options)

    ebitenutil.DebugPrintAt(screen, engine.statusLine(), 0, PatternTablePixels)
}

func (engine *Engine) Layout(outsideWidth int, outsideHeight int) (int, int) {
    return PatternTablePixels * 3, PatternTablePixels + StatusHeight
}
