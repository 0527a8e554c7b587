package testhelper

import (
	"bytes"

	"github.com/pierrec/lz4"
	"github.com/ulikunitz/xz"
)

// XZ compresses data the way .xz images are stored.
func XZ(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	w, err := xz.NewWriter(&buffer)
	if err != nil {
		return nil, err
	}
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// LZ4 compresses data the way .lz4 images are stored.
func LZ4(data []byte) ([]byte, error) {
	var buffer bytes.Buffer
	w := lz4.NewWriter(&buffer)
	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
