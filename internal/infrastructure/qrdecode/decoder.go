package qrdecode

import (
	"fmt"
	"image"

	"github.com/MGTheTrain/record-vault/internal/domain/scanning"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

type decoder struct {
	hints map[gozxing.DecodeHintType]interface{}
}

// NewDecoder creates a scanning.Decoder for QR codes
func NewDecoder() scanning.Decoder {
	return &decoder{
		hints: map[gozxing.DecodeHintType]interface{}{
			gozxing.DecodeHintType_TRY_HARDER: true,
		},
	}
}

// Decode returns the payload of the QR code in img, or an error wrapping scanning.ErrNoCode
func (d *decoder) Decode(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", fmt.Errorf("failed to binarize frame: %w", err)
	}

	result, err := qrcode.NewQRCodeReader().Decode(bmp, d.hints)
	if err != nil {
		return "", fmt.Errorf("%w: %v", scanning.ErrNoCode, err)
	}
	return result.GetText(), nil
}
