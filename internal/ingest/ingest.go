// Package ingest converts user-supplied chart images into data URIs
// suitable for both transmission to an inference provider and display.
package ingest

import (
	"encoding/base64"
	"net/http"
	"os"
	"strings"

	"github.com/newthinker/chartsight/internal/core"
)

// DataURI is a MIME-tagged, base64-encoded representation of image bytes.
type DataURI struct {
	MediaType string
	payload   string // base64 without the "data:...;base64," header
}

// FromFile reads an image file and encodes it as a data URI. The MIME
// type is sniffed from the content; no file-type or size validation is
// performed beyond that.
func FromFile(path string) (*DataURI, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, core.WrapError(core.ErrImageUnreadable, err)
	}
	return FromBytes(data), nil
}

// FromBytes encodes raw image bytes as a data URI.
func FromBytes(data []byte) *DataURI {
	return &DataURI{
		MediaType: http.DetectContentType(data),
		payload:   base64.StdEncoding.EncodeToString(data),
	}
}

// Parse validates an externally supplied data URI string.
func Parse(uri string) (*DataURI, error) {
	if !strings.HasPrefix(uri, "data:") {
		return nil, core.ErrDataURIMalformed
	}
	header, payload, ok := strings.Cut(uri, ",")
	if !ok || payload == "" {
		return nil, core.ErrDataURIMalformed
	}
	meta := strings.TrimPrefix(header, "data:")
	mediaType, encoding, _ := strings.Cut(meta, ";")
	if encoding != "base64" {
		return nil, core.ErrDataURIMalformed
	}
	if _, err := base64.StdEncoding.DecodeString(payload); err != nil {
		return nil, core.WrapError(core.ErrDataURIMalformed, err)
	}
	if mediaType == "" {
		mediaType = "application/octet-stream"
	}
	return &DataURI{MediaType: mediaType, payload: payload}, nil
}

// String renders the full data URI.
func (d *DataURI) String() string {
	return "data:" + d.MediaType + ";base64," + d.payload
}

// Payload returns the base64 part after the comma separator, which is
// what inference providers expect as the image payload.
func (d *DataURI) Payload() string {
	return d.payload
}

// Decode returns the raw image bytes.
func (d *DataURI) Decode() ([]byte, error) {
	data, err := base64.StdEncoding.DecodeString(d.payload)
	if err != nil {
		return nil, core.WrapError(core.ErrDataURIMalformed, err)
	}
	return data, nil
}
