package ingest

import (
	"bytes"
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/newthinker/chartsight/internal/core"
)

// Minimal valid PNG header so MIME sniffing identifies the type.
var pngBytes = []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}

func TestFromBytes_PNG(t *testing.T) {
	d := FromBytes(pngBytes)

	if d.MediaType != "image/png" {
		t.Errorf("expected image/png, got %s", d.MediaType)
	}
	if !strings.HasPrefix(d.String(), "data:image/png;base64,") {
		t.Errorf("unexpected data URI prefix: %s", d.String())
	}

	decoded, err := d.Decode()
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(decoded, pngBytes) {
		t.Error("decoded bytes differ from input")
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chart.png")
	if err := os.WriteFile(path, pngBytes, 0644); err != nil {
		t.Fatal(err)
	}

	d, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if d.Payload() != base64.StdEncoding.EncodeToString(pngBytes) {
		t.Error("payload does not match encoded file content")
	}
}

func TestFromFile_Missing(t *testing.T) {
	_, err := FromFile(filepath.Join(t.TempDir(), "nope.png"))
	if !errors.Is(err, core.ErrImageUnreadable) {
		t.Errorf("expected ErrImageUnreadable, got %v", err)
	}
}

func TestParse(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString(pngBytes)

	tests := []struct {
		name    string
		uri     string
		wantErr bool
	}{
		{"valid", "data:image/png;base64," + payload, false},
		{"no data prefix", "image/png;base64," + payload, true},
		{"no comma", "data:image/png;base64", true},
		{"not base64 encoding", "data:image/png;utf8,hello", true},
		{"invalid base64 payload", "data:image/png;base64,???", true},
		{"empty payload", "data:image/png;base64,", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Parse() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				if !errors.Is(err, core.ErrDataURIMalformed) {
					t.Errorf("expected ErrDataURIMalformed, got %v", err)
				}
				return
			}
			if d.MediaType != "image/png" {
				t.Errorf("expected image/png, got %s", d.MediaType)
			}
			if d.Payload() != payload {
				t.Error("payload mismatch")
			}
		})
	}
}

func TestParse_RoundTrip(t *testing.T) {
	orig := FromBytes(pngBytes)
	parsed, err := Parse(orig.String())
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if parsed.String() != orig.String() {
		t.Error("round-trip changed the data URI")
	}
}
