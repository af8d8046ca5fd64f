// services/qrcode_service.go
package services

import (
	"strings"

	"github.com/juju/errors"
	"github.com/skip2/go-qrcode"
)

// QRCodeEncoder matches qrcode.Encode so tests can substitute it.
type QRCodeEncoder func(content string, level qrcode.RecoveryLevel, size int) ([]byte, error)

// GenerateQRCode renders content as a size x size PNG.
func GenerateQRCode(content string, size int, encode QRCodeEncoder) ([]byte, error) {
	if size <= 0 {
		return nil, errors.NotValidf("QR code size %d", size)
	}
	if content == "" {
		return nil, errors.NotValidf("empty QR code content")
	}

	png, err := encode(content, qrcode.Medium, size)
	if err != nil {
		return nil, errors.Annotate(err, "encoding QR code")
	}
	return png, nil
}

// StadiumShareURL is the public link encoded in a stadium's QR code.
func StadiumShareURL(applicationURL, stadiumID string) string {
	return strings.TrimRight(applicationURL, "/") + "/stadiums/" + stadiumID
}
