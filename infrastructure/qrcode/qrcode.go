// Package qrcode renders event check-in links as PNG data URLs.
package qrcode

import (
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	qr "github.com/skip2/go-qrcode"
)

// Size is the rendered image width and height in pixels.
const Size = 500

const dataURLPrefix = "data:image/png;base64,"

// CheckInURL is the frontend page a scanned code opens.
func CheckInURL(frontendURL string, eventID uint) string {
	return fmt.Sprintf("%s/attendance/register?eventId=%s",
		strings.TrimRight(frontendURL, "/"), url.QueryEscape(fmt.Sprint(eventID)))
}

// DataURL encodes content as a PNG QR code and returns it as a data URL.
func DataURL(content string) (string, error) {
	png, err := qr.Encode(content, qr.Medium, Size)
	if err != nil {
		return "", fmt.Errorf("encode qr code: %w", err)
	}
	return dataURLPrefix + base64.StdEncoding.EncodeToString(png), nil
}

// Decode returns the PNG bytes of a data URL produced by DataURL.
func Decode(dataURL string) ([]byte, error) {
	if !strings.HasPrefix(dataURL, dataURLPrefix) {
		return nil, fmt.Errorf("not a PNG data URL")
	}
	return base64.StdEncoding.DecodeString(strings.TrimPrefix(dataURL, dataURLPrefix))
}
