package embedding

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// ErrNoContrast is returned for images without any luminance variation.
var ErrNoContrast = errors.New("image has no contrast")

// PixelSource embeds an image as its mean-centred, unit-length grayscale grid.
//
// It is deterministic: the same bytes always give the same vector, and visually
// similar images give close vectors. It stands in for a face model in local
// setups and keeps the same failure behaviour for undecodable input.
type PixelSource struct {
	dim    int
	width  int
	height int
}

// NewPixelSource creates a source producing vectors of length dim.
func NewPixelSource(dim int) *PixelSource {
	if dim <= 0 {
		dim = 512
	}
	width := int(math.Ceil(math.Sqrt(float64(dim))))
	height := (dim + width - 1) / width
	return &PixelSource{dim: dim, width: width, height: height}
}

// Dimension returns the vector length.
func (p *PixelSource) Dimension() int { return p.dim }

// Embed decodes the image, scales it onto the grid and normalizes it.
func (p *PixelSource) Embed(ctx context.Context, data []byte) ([]float32, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	grid := image.NewGray(image.Rect(0, 0, p.width, p.height))
	draw.ApproxBiLinear.Scale(grid, grid.Bounds(), img, img.Bounds(), draw.Src, nil)

	vec := make([]float32, p.dim)
	var mean float64
	for i := range vec {
		vec[i] = float32(grid.Pix[i])
		mean += float64(vec[i])
	}
	mean /= float64(p.dim)

	var norm float64
	for i := range vec {
		c := float64(vec[i]) - mean
		vec[i] = float32(c)
		norm += c * c
	}
	if norm == 0 {
		return nil, ErrNoContrast
	}

	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] = float32(float64(vec[i]) / norm)
	}
	return vec, nil
}
