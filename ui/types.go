// Package ui draws a training run with raylib. It only observes the game;
// nothing here feeds back into the simulation except tick pacing.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	Background    rl.Color
	PipeFill      rl.Color
	PipeEdge      rl.Color
	Bird          rl.Color
	EliteBird     rl.Color
	PanelBg       rl.Color
	PanelBorder   rl.Color
	SectionHeader rl.Color
	LabelColor    rl.Color
	ValueColor    rl.Color
	BarBg         rl.Color
	BarFill       rl.Color
	Padding       int32
	LineHeight    int32
	LabelWidth    int32
	BarHeight     int32
	FontSize      int32
	HeaderSize    int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		Background:    rl.Color{R: 112, G: 197, B: 206, A: 255},
		PipeFill:      rl.Color{R: 115, G: 191, B: 46, A: 255},
		PipeEdge:      rl.Color{R: 84, G: 56, B: 71, A: 255},
		Bird:          rl.Color{R: 247, G: 220, B: 111, A: 110},
		EliteBird:     rl.Color{R: 231, G: 76, B: 60, A: 220},
		PanelBg:       rl.Color{R: 20, G: 25, B: 30, A: 220},
		PanelBorder:   rl.Color{R: 60, G: 70, B: 80, A: 255},
		SectionHeader: rl.Yellow,
		LabelColor:    rl.LightGray,
		ValueColor:    rl.White,
		BarBg:         rl.Color{R: 40, G: 40, B: 40, A: 255},
		BarFill:       rl.Color{R: 100, G: 200, B: 100, A: 255},
		Padding:       10,
		LineHeight:    18,
		LabelWidth:    110,
		BarHeight:     12,
		FontSize:      14,
		HeaderSize:    16,
	}
}
