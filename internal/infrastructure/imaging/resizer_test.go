package imaging_test

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/carpet-shop-api/internal/domain"
	"github.com/jhoicas/carpet-shop-api/internal/infrastructure/imaging"
)

func solid(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: 150, G: 20, B: 40, A: 255})
		}
	}
	return img
}

func TestProcess_ReducePNGYConservaFormato(t *testing.T) {
	var in bytes.Buffer
	require.NoError(t, png.Encode(&in, solid(400, 200)))

	out, ct, ext, err := imaging.NewResizer(100).Process(in.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/png", ct)
	assert.Equal(t, ".png", ext)

	img, err := png.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestProcess_JPEGPequenoNoSeAmplia(t *testing.T) {
	var in bytes.Buffer
	require.NoError(t, jpeg.Encode(&in, solid(80, 60), nil))

	out, ct, ext, err := imaging.NewResizer(0).Process(in.Bytes())
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", ct)
	assert.Equal(t, ".jpg", ext)

	img, err := jpeg.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 80, img.Bounds().Dx())
}

func TestProcess_DatosInvalidos(t *testing.T) {
	_, _, _, err := imaging.NewResizer(0).Process([]byte("not an image"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
