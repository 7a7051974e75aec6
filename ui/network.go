package ui

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/flappy/neural"
)

// Labels for the bird network's inputs and output.
var (
	InputLabels  = []string{"Gap dY", "Vel Y"}
	OutputLabels = []string{"Flap"}
)

// Network colors for weight visualization.
var (
	ColorNodeNeutral  = rl.Color{R: 60, G: 60, B: 60, A: 255}
	ColorEdgePositive = rl.Color{R: 200, G: 80, B: 80, A: 100}
	ColorEdgeNegative = rl.Color{R: 80, G: 80, B: 200, A: 100}
	ColorLabelDim     = rl.Color{R: 120, G: 120, B: 120, A: 255}
)

// minEdgeWeight hides near-zero connections.
const minEdgeWeight = 0.05

// NetworkPanel draws a model's layers, with edges colored by weight sign
// and nodes by bias.
type NetworkPanel struct {
	renderer      *Renderer
	x, y          int32
	width, height int32
}

// NewNetworkPanel creates a panel at the given position and size.
func NewNetworkPanel(x, y, width, height int32) *NetworkPanel {
	return &NetworkPanel{
		renderer: NewRenderer(),
		x:        x,
		y:        y,
		width:    width,
		height:   height,
	}
}

// Draw renders the model. A nil model draws a placeholder.
func (p *NetworkPanel) Draw(title string, m *neural.Model) {
	p.renderer.DrawPanel(p.x, p.y, p.width, p.height)
	top := p.renderer.DrawSectionHeader(p.x+10, p.y+8, title)

	if m == nil {
		rl.DrawText("No network data", p.x+10, top, 14, ColorLabelDim)
		return
	}

	// Leave room for labels on both sides
	left := float32(p.x) + 60
	right := float32(p.x+p.width) - 50
	bodyTop := float32(top) + 6
	bodyHeight := float32(p.y+p.height) - bodyTop - 10
	nodes := layout(m.LayerSizes(), left, right, bodyTop, bodyHeight)

	for l, w := range m.W {
		for i := 0; i < w.Rows; i++ {
			for j := 0; j < w.Cols; j++ {
				weight := w.At(i, j)
				if math.Abs(weight) < minEdgeWeight {
					continue
				}
				drawEdge(nodes[l][j], nodes[l+1][i], float32(weight))
			}
		}
	}

	nodeRadius := float32(6)
	for l, layer := range nodes {
		for i, pos := range layer {
			bias := float32(0)
			if l > 0 {
				bias = float32(m.B[l-1][i])
			}
			drawNode(pos, nodeRadius, bias)

			switch {
			case l == 0 && i < len(InputLabels):
				labelWidth := rl.MeasureText(InputLabels[i], 10)
				rl.DrawText(InputLabels[i], int32(pos.X-nodeRadius)-labelWidth-4, int32(pos.Y)-5, 10, ColorLabelDim)
			case l == len(nodes)-1 && i < len(OutputLabels):
				rl.DrawText(OutputLabels[i], int32(pos.X+nodeRadius+6), int32(pos.Y)-5, 10, ColorLabelDim)
			}
		}
	}
}

// layout spreads each layer's nodes evenly in its own column, centered vertically.
func layout(sizes []int, left, right, top, height float32) [][]rl.Vector2 {
	nodes := make([][]rl.Vector2, len(sizes))
	colWidth := (right - left) / float32(max(len(sizes)-1, 1))

	maxSize := 0
	for _, n := range sizes {
		maxSize = max(maxSize, n)
	}
	spacing := height / float32(maxSize)

	for l, n := range sizes {
		x := left + float32(l)*colWidth
		offset := (height - float32(n)*spacing) / 2
		nodes[l] = make([]rl.Vector2, n)
		for i := range nodes[l] {
			nodes[l][i] = rl.Vector2{
				X: x,
				Y: top + offset + (float32(i)+0.5)*spacing,
			}
		}
	}
	return nodes
}

// drawNode renders a single neuron node.
func drawNode(pos rl.Vector2, radius, bias float32) {
	rl.DrawCircleV(pos, radius, biasColor(bias))
	rl.DrawCircleLinesV(pos, radius, rl.Color{R: 100, G: 100, B: 100, A: 255})
}

// drawEdge renders a connection between nodes.
func drawEdge(from, to rl.Vector2, weight float32) {
	mag := float32(math.Abs(float64(weight)))
	thickness := min(max(mag*1.5, 0.5), 3)

	color := ColorEdgePositive
	if weight < 0 {
		color = ColorEdgeNegative
	}
	color.A = uint8(min(40+int(mag*40), 150))

	rl.DrawLineEx(from, to, thickness, color)
}

// biasColor returns a color for a bias value.
// Negative = blue, Zero = gray, Positive = red.
func biasColor(v float32) rl.Color {
	if v == 0 {
		return ColorNodeNeutral
	}
	t := min(float32(math.Abs(float64(v))), 1)
	if v > 0 {
		return rl.Color{R: uint8(60 + t*195), G: uint8(60 - t*30), B: uint8(60 - t*30), A: 255}
	}
	return rl.Color{R: uint8(60 - t*30), G: uint8(60 - t*30), B: uint8(60 + t*195), A: 255}
}
