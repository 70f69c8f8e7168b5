package scanner

import (
	"log"

	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// SymbolDecoder extracts QR symbol text from a luminance frame.
type SymbolDecoder interface {
	// Decode returns the symbol text and true, or ok=false when the
	// frame holds no readable symbol.
	Decode(f Frame) (string, bool)
}

type qrDecoder struct {
	reader gozxing.Reader
}

// NewQRDecoder builds the production decoder: luminance source →
// hybrid binarizer → QR reader.
func NewQRDecoder() SymbolDecoder {
	return &qrDecoder{reader: qrcode.NewQRCodeReader()}
}

func (d *qrDecoder) Decode(f Frame) (string, bool) {
	src, err := gozxing.NewPlanarYUVLuminanceSource(
		f.Y, f.Width, f.Height, 0, 0, f.Width, f.Height, false)
	if err != nil {
		log.Printf("scanner: bad frame geometry %dx%d: %v", f.Width, f.Height, err)
		return "", false
	}

	bmp, err := gozxing.NewBinaryBitmap(gozxing.NewHybridBinarizer(src))
	if err != nil {
		log.Printf("scanner: binarize failed: %v", err)
		return "", false
	}

	result, err := d.reader.Decode(bmp, nil)
	if err != nil {
		// No symbol in this frame is the normal outcome while the
		// operator lines up the code; stay silent for those.
		if _, ok := err.(gozxing.NotFoundException); !ok {
			log.Printf("scanner: frame decode error: %v", err)
		}
		return "", false
	}
	return result.GetText(), true
}
