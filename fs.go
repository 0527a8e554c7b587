package fatnav

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/aligator/fatnav/checkpoint"
	"github.com/spf13/afero"
)

// Fs is a read only afero.Fs of an Image.
// Every path is resolved from the root directory and the current directory of any Session stays untouched.
// All methods which would modify the image fail with ErrReadOnly.
type Fs struct {
	img *Image
}

var _ afero.Fs = (*Fs)(nil)

// NewFs returns the afero.Fs view of img.
func NewFs(img *Image) *Fs {
	return &Fs{img: img}
}

// resolve finds the entry for the given path.
// The root directory has no entry, so a synthetic directory entry is returned for it.
func (fs *Fs) resolve(name string) (DirEntry, string, error) {
	clean := path.Clean("/" + filepath.ToSlash(name))
	if clean == "/" {
		return DirEntry{
			Name:    dotName,
			Attr:    AttrDirectory,
			Cluster: fs.img.Geometry().RootCluster,
		}, ".", nil
	}

	// Unlike the shell, io/fs paths only use "/". A backslash is part of a name and no 8.3 name contains one.
	if strings.ContainsRune(clean, '\\') {
		return DirEntry{}, "", checkpoint.Wrap(fmt.Errorf("%q", name), ErrEntryNotFound)
	}

	dir, base := path.Split(clean)

	nav := fs.img.Navigator()
	if err := nav.CdPath(dir, true); err != nil {
		return DirEntry{}, "", checkpoint.From(err)
	}

	shortName, kind := EncodeName(base)
	if kind == KindInvalid {
		return DirEntry{}, "", checkpoint.Wrap(errors.New(base), ErrInvalidName)
	}

	entry, err := nav.Lookup(shortName)
	if err != nil {
		return DirEntry{}, "", checkpoint.From(err)
	}

	return entry, entry.DisplayName(), nil
}

func (fs *Fs) pathError(op, name string, err error) error {
	if errors.Is(err, ErrEntryNotFound) || errors.Is(err, ErrPathNotFound) || errors.Is(err, ErrInvalidName) {
		err = checkpoint.Wrap(err, os.ErrNotExist)
	}
	return &os.PathError{Op: op, Path: name, Err: err}
}

func (fs *Fs) readOnly(op, name string) error {
	return &os.PathError{Op: op, Path: name, Err: checkpoint.Wrap(syscall.EROFS, ErrReadOnly)}
}

func (fs *Fs) Open(name string) (afero.File, error) {
	entry, base, err := fs.resolve(name)
	if err != nil {
		return nil, fs.pathError("open", name, err)
	}

	return &File{
		src:   fs.img,
		log:   fs.img.log,
		name:  name,
		entry: entry,
		stat:  entryFileInfo{entry: entry, name: base},
	}, nil
}

func (fs *Fs) OpenFile(name string, flag int, perm os.FileMode) (afero.File, error) {
	if flag&(os.O_WRONLY|os.O_RDWR|os.O_APPEND|os.O_CREATE|os.O_TRUNC) != 0 {
		return nil, fs.readOnly("open", name)
	}
	return fs.Open(name)
}

func (fs *Fs) Stat(name string) (os.FileInfo, error) {
	entry, base, err := fs.resolve(name)
	if err != nil {
		return nil, fs.pathError("stat", name, err)
	}
	return entryFileInfo{entry: entry, name: base}, nil
}

func (fs *Fs) Name() string {
	return "fatnav"
}

func (fs *Fs) Create(name string) (afero.File, error) {
	return nil, fs.readOnly("create", name)
}

func (fs *Fs) Mkdir(name string, perm os.FileMode) error {
	return fs.readOnly("mkdir", name)
}

func (fs *Fs) MkdirAll(path string, perm os.FileMode) error {
	return fs.readOnly("mkdir", path)
}

func (fs *Fs) Remove(name string) error {
	return fs.readOnly("remove", name)
}

func (fs *Fs) RemoveAll(path string) error {
	return fs.readOnly("remove", path)
}

func (fs *Fs) Rename(oldname, newname string) error {
	return fs.readOnly("rename", oldname)
}

func (fs *Fs) Chmod(name string, mode os.FileMode) error {
	return fs.readOnly("chmod", name)
}

func (fs *Fs) Chown(name string, uid, gid int) error {
	return fs.readOnly("chown", name)
}

func (fs *Fs) Chtimes(name string, atime time.Time, mtime time.Time) error {
	return fs.readOnly("chtimes", name)
}
