package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder
	"log"
	"strings"

	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
)

// StripDataURLPrefix - drop a leading "data:<mime>;base64," if present
func StripDataURLPrefix(s string) string {
	if strings.HasPrefix(s, "data:") {
		if idx := strings.Index(s, ","); idx >= 0 {
			return s[idx+1:]
		}
	}
	return s
}

// DecodeBase64Image - decode a base64 payload, tolerating a data-URL prefix.
// Only the encoding is checked; the bytes are forwarded unchanged, so the
// format stays whatever the client sent.
func DecodeBase64Image(payload string) ([]byte, error) {
	stripped := StripDataURLPrefix(payload)

	data, err := base64.StdEncoding.DecodeString(stripped)
	if err != nil {
		return nil, fmt.Errorf("invalid base64 image data: %w", err)
	}

	return data, nil
}

// EncodeBase64 - standard base64 without a data-URL prefix
func EncodeBase64(data []byte) string {
	return base64.StdEncoding.EncodeToString(data)
}

// ConvertToWebP - re-encode a PNG/JPEG image as lossy WebP
func ConvertToWebP(data []byte, quality float32) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, options); err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}

	webpData := buf.Bytes()
	log.Printf("🔄 Converted to WebP: %d bytes → %d bytes", len(data), len(webpData))

	return webpData, nil
}
