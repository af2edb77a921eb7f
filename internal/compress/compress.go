// Package compress provides the codecs used for mirrored page snapshots.
package compress

import (
	"fmt"
	"strings"
)

// Compress encodes and decodes byte payloads.
type Compress interface {
	Encode(data []byte) ([]byte, error)
	Decode(data []byte) ([]byte, error)
	// Encoding is the HTTP Content-Encoding token, empty for identity.
	Encoding() string
	// Ext is appended to object keys, empty for identity.
	Ext() string
}

// New returns the codec registered under name. An empty name selects Nop.
func New(name string) (Compress, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none", "nop":
		return NewNop(), nil
	case "gzip":
		return NewGZip(), nil
	case "brotli", "br":
		return NewBrotli(), nil
	case "lz4":
		return NewLZ4(), nil
	default:
		return nil, fmt.Errorf("unknown compression %q", name)
	}
}
