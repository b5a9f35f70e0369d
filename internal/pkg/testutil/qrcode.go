package testutil

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/require"
)

// QRCodeImage renders payload as a QR code of size x size pixels on a white canvas
func QRCodeImage(t *testing.T, payload string, size int) image.Image {
	t.Helper()

	matrix, err := qrcode.NewQRCodeWriter().Encode(payload, gozxing.BarcodeFormat_QR_CODE, size, size, nil)
	require.NoError(t, err)

	img := image.NewGray(matrix.Bounds())
	draw.Draw(img, img.Bounds(), matrix, image.Point{}, draw.Src)
	return img
}

// BlankImage returns a white image without any code
func BlankImage(size int) image.Image {
	img := image.NewGray(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	return img
}
