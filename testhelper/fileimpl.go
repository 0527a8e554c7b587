package testhelper

import (
	"errors"
	"io"
)

type reader func(b []byte, offset int64) (int, error)

// FileImpl is an io.ReadSeeker which hands every read to Reader,
// used for testing to stub out broken images.
type FileImpl struct {
	Reader reader
	offset int64
}

// FailingAfter returns a FileImpl serving data which fails with err for every read
// that touches a byte at or behind limit.
func FailingAfter(data []byte, limit int64, err error) *FileImpl {
	return &FileImpl{
		Reader: func(b []byte, offset int64) (int, error) {
			if offset+int64(len(b)) > limit {
				return 0, err
			}
			if offset >= int64(len(data)) {
				return 0, io.EOF
			}
			n := copy(b, data[offset:])
			if n < len(b) {
				return n, io.EOF
			}
			return n, nil
		},
	}
}

func (f *FileImpl) Read(b []byte) (int, error) {
	n, err := f.Reader(b, f.offset)
	f.offset += int64(n)
	return n, err
}

// Seek only supports absolute and relative positions.
func (f *FileImpl) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset += f.offset
	default:
		return 0, errors.New("FileImpl does not implement Seek() relative to the end")
	}
	if offset < 0 {
		return 0, errors.New("negative offset")
	}
	f.offset = offset
	return offset, nil
}
