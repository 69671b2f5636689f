package converters

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
	"github.com/vmihailenco/msgpack/v5"
)

// Codec msgpack-encodes a value then streams it through a zstd encoder;
// Decode reverses both steps. A Codec is safe for concurrent use — each
// call opens and closes its own encoder/decoder rather than sharing one.
type Codec struct {
	// Level controls the zstd encoder's speed/ratio tradeoff; the zero
	// value falls back to zstd.SpeedDefault.
	Level zstd.EncoderLevel
}

// Encode msgpack-marshals v and compresses the result with zstd.
func (c Codec) Encode(v any) ([]byte, error) {
	raw, err := msgpack.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("converters: marshal: %w", err)
	}

	level := c.Level
	if level == 0 {
		level = zstd.SpeedDefault
	}

	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf, zstd.WithEncoderLevel(level))
	if err != nil {
		return nil, fmt.Errorf("converters: zstd writer: %w", err)
	}
	if _, err := enc.Write(raw); err != nil {
		_ = enc.Close()
		return nil, fmt.Errorf("converters: zstd write: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("converters: zstd close: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode: zstd-decompresses data then msgpack-unmarshals
// it into target, which must be a pointer.
func (c Codec) Decode(data []byte, target any) error {
	dec, err := zstd.NewReader(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("converters: zstd reader: %w", err)
	}
	defer dec.Close()

	raw, err := io.ReadAll(dec)
	if err != nil {
		return fmt.Errorf("converters: zstd read: %w", err)
	}
	if err := msgpack.Unmarshal(raw, target); err != nil {
		return fmt.Errorf("converters: unmarshal: %w", err)
	}
	return nil
}
