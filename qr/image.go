package qr

import (
	qrcode "github.com/skip2/go-qrcode"
)

// Image renders a payload as a QR symbol PNG of size x size pixels.
func Image(text string, size int) ([]byte, error) {
	return qrcode.Encode(text, qrcode.Medium, size)
}
