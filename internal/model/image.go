package model

import (
	"encoding/base64"

	"github.com/gabriel-vasile/mimetype"
)

// EncodedImage is a transport-safe representation of one uploaded chart
// image: the binary payload as base64 text plus its declared media type.
// It is produced once per file and consumed by a single analysis call.
type EncodedImage struct {
	Data      string
	MediaType string
}

// EncodeImage encodes raw image bytes for transport, sniffing the media type
// from the payload itself. The caller's declared type wins when provided.
func EncodeImage(raw []byte, declaredType string) EncodedImage {
	mediaType := declaredType
	if mediaType == "" {
		mediaType = mimetype.Detect(raw).String()
	}

	return EncodedImage{
		Data:      base64.StdEncoding.EncodeToString(raw),
		MediaType: mediaType,
	}
}

// Decode returns the binary payload.
func (img EncodedImage) Decode() ([]byte, error) {
	return base64.StdEncoding.DecodeString(img.Data)
}
