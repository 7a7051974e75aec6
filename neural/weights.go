package neural

import "fmt"

// ModelWeights holds network parameters in nested form for JSON export.
type ModelWeights struct {
	LayerSizes []int         `json:"layerSizes"`
	W          [][][]float64 `json:"W"` // [layer][node][prev]
	B          [][]float64   `json:"b"` // [layer][node]
}

// MarshalWeights copies the parameters into nested slices.
func (m *Model) MarshalWeights() ModelWeights {
	mw := ModelWeights{
		LayerSizes: m.LayerSizes(),
		W:          make([][][]float64, len(m.W)),
		B:          make([][]float64, len(m.B)),
	}
	for l, w := range m.W {
		mw.W[l] = make([][]float64, w.Rows)
		for i := 0; i < w.Rows; i++ {
			mw.W[l][i] = append([]float64(nil), w.Row(i)...)
		}
		mw.B[l] = append([]float64(nil), m.B[l]...)
	}
	return mw
}

// ModelFromWeights rebuilds a model, rejecting parameters whose shape
// disagrees with LayerSizes.
func ModelFromWeights(mw ModelWeights) (*Model, error) {
	m, err := NewModel(mw.LayerSizes)
	if err != nil {
		return nil, err
	}
	if len(mw.W) != len(m.W) || len(mw.B) != len(m.B) {
		return nil, fmt.Errorf("%w: %d weight layers and %d bias layers for %d layers",
			ErrShapeMismatch, len(mw.W), len(mw.B), len(m.W))
	}

	for l, w := range m.W {
		if len(mw.W[l]) != w.Rows || len(mw.B[l]) != w.Rows {
			return nil, fmt.Errorf("%w: layer %d has %d rows", ErrShapeMismatch, l, len(mw.W[l]))
		}
		for i, row := range mw.W[l] {
			if len(row) != w.Cols {
				return nil, fmt.Errorf("%w: layer %d row %d has %d columns, want %d",
					ErrShapeMismatch, l, i, len(row), w.Cols)
			}
			copy(w.Row(i), row)
		}
		copy(m.B[l], mw.B[l])
	}
	return m, nil
}
