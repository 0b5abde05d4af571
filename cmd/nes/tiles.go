package main

import (
    "image/color"
)

/* a pattern table is 256 tiles of 8x8 pixels, 16 bytes per tile,
 * shown as a 16x16 grid of tiles
 * https://www.nesdev.org/wiki/PPU_pattern_tables
 */
const TileSize = 8
const TilesPerRow = 16
const PatternTableBytes = 0x1000
const PatternTablePixels = TileSize * TilesPerRow

var tileShades = [4]color.RGBA{
    color.RGBA{R: 0, G: 0, B: 0, A: 255},
    color.RGBA{R: 0x55, G: 0x55, B: 0x55, A: 255},
    color.RGBA{R: 0xaa, G: 0xaa, B: 0xaa, A: 255},
    color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 255},
}

/* the 2-bit color of pixel x,y of a tile. the low bits live in the first
 * 8 bytes and the high bits in the next 8, leftmost pixel is bit 7
 */
func tilePixel(tile []byte, x int, y int) byte {
    shift := 7 - x
    low := (tile[y] >> shift) & 1
    high := (tile[y + 8] >> shift) & 1
    return (high << 1) | low
}

/* draw both pattern tables side by side into an RGBA buffer of
 * width 2*PatternTablePixels and height PatternTablePixels
 */
func renderPatternTables(characterData []byte, pixels []byte) {
    width := PatternTablePixels * 2
    for table := 0; table < 2; table++ {
        for tile := 0; tile < TilesPerRow * TilesPerRow; tile++ {
            offset := table * PatternTableBytes + tile * 16
            if offset + 16 > len(characterData) {
                return
            }
            data := characterData[offset:offset + 16]

            baseX := table * PatternTablePixels + (tile % TilesPerRow) * TileSize
            baseY := (tile / TilesPerRow) * TileSize
            for y := 0; y < TileSize; y++ {
                for x := 0; x < TileSize; x++ {
                    shade := tileShades[tilePixel(data, x, y)]
                    index := ((baseY + y) * width + baseX + x) * 4
                    pixels[index + 0] = shade.R
                    pixels[index + 1] = shade.G
                    pixels[index + 2] = shade.B
                    pixels[index + 3] = shade.A
                }
            }
        }
    }
}

/* programs written for the easy6502 convention draw a 32x32 screen at
 * $0200-$05ff, one byte per pixel using the c64 palette
 */
const ScreenStart = 0x200
const ScreenSize = 32

var screenPalette = [16]color.RGBA{
    {0x00, 0x00, 0x00, 0xff},
    {0xff, 0xff, 0xff, 0xff},
    {0x88, 0x00, 0x00, 0xff},
    {0xaa, 0xff, 0xee, 0xff},
    {0xcc, 0x44, 0xcc, 0xff},
    {0x00, 0xcc, 0x55, 0xff},
    {0x00, 0x00, 0xaa, 0xff},
    {0xee, 0xee, 0x77, 0xff},
    {0xdd, 0x88, 0x55, 0xff},
    {0x66, 0x44, 0x00, 0xff},
    {0xff, 0x77, 0x77, 0xff},
    {0x33, 0x33, 0x33, 0xff},
    {0x77, 0x77, 0x77, 0xff},
    {0xaa, 0xff, 0x66, 0xff},
    {0x00, 0x88, 0xff, 0xff},
    {0xbb, 0xbb, 0xbb, 0xff},
}

func renderScreen(ram []byte, pixels []byte){
    for i := 0; i < ScreenSize * ScreenSize; i++ {
        shade := screenPalette[ram[ScreenStart + i] & 0xf]
        pixels[i * 4 + 0] = shade.R
        pixels[i * 4 + 1] = shade.G
        pixels[i * 4 + 2] = shade.B
        pixels[i * 4 + 3] = shade.A
    }
}
