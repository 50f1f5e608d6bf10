package persist

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/pierrec/lz4"
)

// ExportSnapshot writes an lz4-compressed copy of the record set to an
// arbitrary path, for sharing a tuning set between machines.
func ExportSnapshot(path string, records []SavedRecord, codec Codec) error {
	data, err := codec.Encode(records)
	if err != nil {
		return err
	}
	compressed, err := compressLZ4(data)
	if err != nil {
		return fmt.Errorf("compress snapshot: %w", err)
	}
	if err := os.WriteFile(path, compressed, 0o644); err != nil {
		return fmt.Errorf("write snapshot %s: %w", path, err)
	}
	return nil
}

// ImportSnapshot reads a snapshot written by ExportSnapshot.
func ImportSnapshot(path string, codec Codec) ([]SavedRecord, error) {
	compressed, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", path, err)
	}
	data, err := decompressLZ4(compressed)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot %s: %w", path, err)
	}
	return codec.Decode(data)
}

// compressLZ4 compresses data using LZ4
func compressLZ4(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	writer := lz4.NewWriter(&buf)

	_, err := writer.Write(data)
	if err != nil {
		writer.Close()
		return nil, err
	}

	err = writer.Close()
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// decompressLZ4 decompresses LZ4 data
func decompressLZ4(data []byte) ([]byte, error) {
	reader := lz4.NewReader(bytes.NewReader(data))

	var buf bytes.Buffer
	_, err := io.Copy(&buf, reader)
	if err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
