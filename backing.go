package fatnav

import (
	"bytes"
	"errors"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"

	"github.com/aligator/fatnav/checkpoint"
	"github.com/pierrec/lz4"
	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"
)

// Open opens the image at path from the given filesystem.
// Images ending with .xz or .lz4 are decompressed into memory first.
func Open(fs afero.Fs, path string, opts ...Option) (*Image, error) {
	reader, closer, err := openBacking(fs, path)
	if err != nil {
		return nil, err
	}

	img, err := New(reader, opts...)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, checkpoint.From(err)
	}

	img.closer = closer
	return img, nil
}

func openBacking(fs afero.Fs, path string) (io.ReadSeeker, io.Closer, error) {
	file, err := fs.Open(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil, checkpoint.Wrap(err, ErrImageNotFound)
	}
	if err != nil {
		return nil, nil, checkpoint.Wrap(err, ErrImageRead)
	}

	var decompressed io.Reader
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xz":
		xzReader, err := xz.NewReader(file)
		if err != nil {
			_ = file.Close()
			return nil, nil, checkpoint.Wrap(err, ErrImageRead)
		}
		decompressed = xzReader
	case ".lz4":
		decompressed = lz4.NewReader(file)
	default:
		return file, file, nil
	}

	// Random access is needed, so the whole image is kept in memory.
	data, err := ioutil.ReadAll(decompressed)
	_ = file.Close()
	if err != nil {
		return nil, nil, checkpoint.Wrap(err, ErrImageRead)
	}

	return bytes.NewReader(data), nil, nil
}
