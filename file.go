package fatnav

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/aligator/fatnav/checkpoint"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// These errors may occur while processing a file.
var (
	ErrReadFile = errors.New("could not read file completely")
	ErrSeekFile = errors.New("could not seek inside of the file")
	ErrReadDir  = errors.New("could not read the directory")
)

// File is a read only afero.File of a single entry.
type File struct {
	src  chainReader
	log  logrus.FieldLogger
	name string

	entry  DirEntry
	stat   os.FileInfo
	offset int64
}

var _ afero.File = (*File)(nil)

func (f *File) Close() error {
	f.src = nil
	f.entry = DirEntry{}
	f.offset = 0
	return nil
}

func (f *File) checkOpen() error {
	if f.src == nil {
		return os.ErrClosed
	}
	return nil
}

func (f *File) size() int64 {
	return f.stat.Size()
}

func (f *File) Read(p []byte) (n int, err error) {
	if err := f.checkOpen(); err != nil {
		return 0, err
	}
	if f.entry.IsDir() {
		return 0, checkpoint.Wrap(syscall.EISDIR, ErrReadFile)
	}
	if len(p) == 0 {
		return 0, nil
	}

	// Reading a file if the size has been already reached, makes no sense.
	if f.size() <= f.offset {
		return 0, io.EOF
	}

	data, err := readFileAt(f.src, f.entry, f.offset, int64(len(p)))
	n = copy(p, data)
	f.offset += int64(n)

	if err != nil {
		return n, checkpoint.Wrap(err, ErrReadFile)
	}
	return n, nil
}

func (f *File) ReadAt(p []byte, off int64) (n int, err error) {
	if err := f.checkOpen(); err != nil {
		return 0, err
	}
	if f.entry.IsDir() {
		return 0, checkpoint.Wrap(syscall.EISDIR, ErrReadFile)
	}
	if off < 0 {
		return 0, checkpoint.Wrap(fmt.Errorf("%w, offset: %v", syscall.EINVAL, off), ErrReadFile)
	}
	if len(p) == 0 {
		return 0, nil
	}

	// Reading over the end makes no sense.
	if f.size() <= off {
		return 0, io.EOF
	}

	data, err := readFileAt(f.src, f.entry, off, int64(len(p)))
	n = copy(p, data)
	if err != nil {
		return n, checkpoint.Wrap(err, ErrReadFile)
	}

	// The file ended before p was filled.
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Seek jumps to a specific offset in the file. This affects all Read operation except ReadAt.
// May return a syscall.EINVAL error if the whence value is invalid.
// May return an afero.ErrOutOfRange error if the offset is out of range.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if err := f.checkOpen(); err != nil {
		return 0, err
	}

	switch whence {
	case io.SeekStart:
	case io.SeekCurrent:
		offset = f.offset + offset
	case io.SeekEnd:
		offset = f.size() + offset
	default:
		return 0, checkpoint.Wrap(fmt.Errorf("%w, offset: %v, whence: %v", syscall.EINVAL, offset, whence), ErrSeekFile)
	}

	if offset < 0 || offset > f.size() {
		return 0, checkpoint.Wrap(fmt.Errorf("%w, offset: %v, whence: %v", afero.ErrOutOfRange, offset, whence), ErrSeekFile)
	}

	f.offset = offset
	return offset, nil
}

func (f *File) Write(p []byte) (n int, err error) {
	return 0, f.readOnly("write")
}

func (f *File) WriteAt(p []byte, off int64) (n int, err error) {
	return 0, f.readOnly("write")
}

func (f *File) WriteString(s string) (ret int, err error) {
	return f.Write([]byte(s))
}

func (f *File) Truncate(size int64) error {
	return f.readOnly("truncate")
}

func (f *File) readOnly(op string) error {
	return &os.PathError{Op: op, Path: f.name, Err: checkpoint.Wrap(syscall.EROFS, ErrReadOnly)}
}

// Name returns the name the file was opened with.
func (f *File) Name() string {
	return f.name
}

// Readdir reads the contents of a directory.
// The dot entries, the volume label and all deleted and long name entries are skipped.
// May return syscall.ENOTDIR if the current File is no directory.
func (f *File) Readdir(count int) ([]os.FileInfo, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}
	if !f.entry.IsDir() {
		return nil, checkpoint.Wrap(syscall.ENOTDIR, ErrReadDir)
	}

	entries, err := readEntries(f.src, f.entry.Cluster, f.log)
	if err != nil {
		return nil, checkpoint.Wrap(err, ErrReadDir)
	}

	var content []os.FileInfo
	for _, entry := range entries {
		if !entry.Usable() || entry.Attr&AttrVolumeID != 0 || entry.Name == dotName || entry.Name == dotDotName {
			continue
		}
		content = append(content, entryFileInfo{entry: entry, name: entry.DisplayName()})
	}

	start := int(f.offset)
	if start > len(content) {
		start = len(content)
	}

	if count > 0 && start == len(content) {
		return nil, io.EOF
	}

	end := len(content)
	if count > 0 && start+count < end {
		end = start + count
	}

	f.offset = int64(end)
	return content[start:end], nil
}

func (f *File) Readdirnames(count int) ([]string, error) {
	content, err := f.Readdir(count)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(content))
	for i, entry := range content {
		names[i] = entry.Name()
	}

	return names, nil
}

func (f *File) Stat() (os.FileInfo, error) {
	if err := f.checkOpen(); err != nil {
		return nil, err
	}
	return f.stat, nil
}

// Sync does nothing as nothing is ever written.
func (f *File) Sync() error {
	return nil
}
