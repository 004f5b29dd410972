package assets

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	"github.com/gogpu/gg"
	_ "golang.org/x/image/bmp"  // register BMP decoder
	_ "golang.org/x/image/webp" // register WebP decoder
)

// MaxImageSide bounds the width and height DecodeImage accepts.
const MaxImageSide = 16384

// DecodeImage decodes a sprite sheet in any registered format. The header is
// checked against MaxImageSide before any pixels are decoded.
func DecodeImage(data []byte) (*gg.ImageBuf, string, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if cfg.Width > MaxImageSide || cfg.Height > MaxImageSide {
		return nil, format, fmt.Errorf("failed to decode image: %s is %dx%d, limit %d per side",
			format, cfg.Width, cfg.Height, MaxImageSide)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to decode image: %w", err)
	}
	if img.Bounds().Empty() {
		return nil, format, fmt.Errorf("failed to decode image: empty %s image", format)
	}
	return gg.ImageBufFromImage(img), format, nil
}
