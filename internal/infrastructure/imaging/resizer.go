// Package imaging normaliza las imágenes subidas (fotos de alfombras y firmas).
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	_ "image/gif" // registro de decodificador

	"github.com/nfnt/resize"

	"github.com/jhoicas/carpet-shop-api/internal/domain"
)

const defaultMaxWidth = 1600

// Resizer decodifica, reduce al ancho máximo y re-codifica la imagen.
// PNG se conserva como PNG (transparencia de firmas); el resto se guarda como JPEG.
type Resizer struct {
	maxWidth uint
	quality  int
}

// NewResizer construye el procesador. maxWidth <= 0 usa 1600 px.
func NewResizer(maxWidth int) *Resizer {
	if maxWidth <= 0 {
		maxWidth = defaultMaxWidth
	}
	return &Resizer{maxWidth: uint(maxWidth), quality: 85}
}

// Process implementa inventory.ImageProcessor y billing.SignatureProcessor.
func (r *Resizer) Process(data []byte) ([]byte, string, string, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", "", fmt.Errorf("unsupported or corrupt image: %w", domain.ErrInvalidInput)
	}
	if uint(img.Bounds().Dx()) > r.maxWidth {
		img = resize.Resize(r.maxWidth, 0, img, resize.Lanczos3)
	}

	var buf bytes.Buffer
	if format == "png" {
		if err := png.Encode(&buf, img); err != nil {
			return nil, "", "", fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), "image/png", ".png", nil
	}
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: r.quality}); err != nil {
		return nil, "", "", fmt.Errorf("encode jpeg: %w", err)
	}
	return buf.Bytes(), "image/jpeg", ".jpg", nil
}
