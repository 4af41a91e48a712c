// internal/app/system/imagedata/imagedata.go
//
// Package imagedata normalizes the image shapes clients send (a structured
// {data, contentType} object, a bare base64 string, or a data-URL string)
// into the canonical stored pair, and renders the stored pair back into a
// single data-URL for responses.
package imagedata

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/AfrozSheikh/krushivarsa/internal/domain/models"
)

// DefaultContentType is assumed when a bare base64 payload carries no
// declared type.
const DefaultContentType = "image/jpeg"

var (
	// ErrInvalidFormat marks payloads that fit none of the accepted shapes.
	ErrInvalidFormat = errors.New("invalid image format")

	dataURLPrefix = regexp.MustCompile(`^data:image/([a-zA-Z]+);base64,`)
)

// TooLargeError reports a decoded payload above the configured ceiling.
type TooLargeError struct {
	LimitMB int
}

func (e *TooLargeError) Error() string {
	return fmt.Sprintf("Image size exceeds %dMB limit", e.LimitMB)
}

// Normalize converts a raw image field into the canonical {data, contentType}
// pair. A nil/null input yields (nil, nil). maxMB bounds the decoded byte
// size of the payload.
func Normalize(raw json.RawMessage, maxMB int) (*models.Image, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}

	var img *models.Image

	var structured struct {
		Data        string `json:"data"`
		ContentType string `json:"contentType"`
	}
	if err := json.Unmarshal(raw, &structured); err == nil && structured.Data != "" {
		ct := structured.ContentType
		if ct == "" {
			ct = contentTypeFor(structured.Data)
		}
		img = &models.Image{Data: structured.Data, ContentType: ct}
	} else {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
			return nil, ErrInvalidFormat
		}
		img = &models.Image{Data: s, ContentType: contentTypeFor(s)}
	}

	if maxMB > 0 {
		if decodedSize(img.Data) > int64(maxMB)<<20 {
			return nil, &TooLargeError{LimitMB: maxMB}
		}
	}
	return img, nil
}

// DataURL renders a stored image as a single data-URL string. Payloads that
// already embed a prefix pass through unchanged; bare base64 payloads are
// synthesized into one. Returns "" for a nil image.
func DataURL(img *models.Image) string {
	if img == nil || img.Data == "" {
		return ""
	}
	if strings.HasPrefix(img.Data, "data:image/") {
		return img.Data
	}
	ct := img.ContentType
	if ct == "" {
		ct = DefaultContentType
	}
	return "data:" + ct + ";base64," + img.Data
}

// contentTypeFor infers the content type from a data-URL prefix, falling
// back to the default for bare payloads.
func contentTypeFor(data string) string {
	if m := dataURLPrefix.FindStringSubmatch(data); m != nil {
		return "image/" + m[1]
	}
	return DefaultContentType
}

// decodedSize computes the decoded byte count of the base64 payload,
// ignoring any data-URL prefix.
func decodedSize(data string) int64 {
	if idx := strings.Index(data, ";base64,"); idx >= 0 {
		data = data[idx+len(";base64,"):]
	}
	return int64(base64.StdEncoding.DecodedLen(len(data)))
}
