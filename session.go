package fatnav

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/aligator/fatnav/checkpoint"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// noVolumeLabel is stored as volume label if the volume has none.
const noVolumeLabel = "NO NAME    "

// Session holds at most one opened image together with its current directory.
// It provides the operations of the mfs command line: open, close, info, volume, ls, cd, stat, read and get.
// A Session must not be used concurrently.
type Session struct {
	host afero.Fs
	opts []Option
	log  logrus.FieldLogger

	img *Image
	nav *Navigator
}

// EntryInfo is the result of Stat.
type EntryInfo struct {
	// Entered is the name as it was passed to Stat.
	Entered string
	RawName ShortName
	Attr    Attr
	Cluster uint32
	// Size is always 0 for directories.
	Size    uint32
	ModTime time.Time
}

// NewSession creates a Session which opens images from and stores files to host.
func NewSession(host afero.Fs, opts ...Option) *Session {
	return &Session{
		host: host,
		opts: opts,
		log:  buildOptions(opts).log,
	}
}

// IsOpen reports whether an image is currently opened.
func (s *Session) IsOpen() bool {
	return s.img != nil
}

// Open opens the image at path and moves to its root directory.
func (s *Session) Open(path string) error {
	if s.IsOpen() {
		return checkpoint.From(ErrImageAlreadyOpen)
	}

	img, err := Open(s.host, path, s.opts...)
	if err != nil {
		return checkpoint.From(err)
	}

	s.img = img
	s.nav = img.Navigator()

	// The root directory is read right away, but a broken root directory does not prevent the image from being used.
	if _, err := s.nav.Entries(); err != nil {
		s.log.WithError(err).Warn("could not read the root directory")
	}

	return nil
}

// Close closes the current image.
func (s *Session) Close() error {
	if !s.IsOpen() {
		return checkpoint.From(ErrImageNotOpen)
	}

	err := s.img.Close()
	s.img = nil
	s.nav = nil
	return checkpoint.From(err)
}

func (s *Session) checkOpen() error {
	if !s.IsOpen() {
		return checkpoint.From(ErrImageNotOpen)
	}
	return nil
}

// Info returns the boot sector information of the image.
func (s *Session) Info() (Geometry, error) {
	if err := s.checkOpen(); err != nil {
		return Geometry{}, err
	}
	return s.img.Geometry(), nil
}

// Volume returns the volume label without padding.
func (s *Session) Volume() (string, error) {
	if err := s.checkOpen(); err != nil {
		return "", err
	}

	label := s.img.Geometry().VolumeLabel
	if label == noVolumeLabel {
		return "", checkpoint.From(ErrVolumeNameNotFound)
	}
	return strings.TrimRight(label, " \x00"), nil
}

// Prompt returns the breadcrumb of the current directory, or an empty string if no image is open.
func (s *Session) Prompt() string {
	if !s.IsOpen() {
		return ""
	}
	return s.nav.Breadcrumb()
}

// List lists the current directory.
func (s *Session) List() ([]DisplayEntry, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return s.nav.List()
}

// Cd changes the current directory, see Navigator.ChangeDir.
func (s *Session) Cd(input string) error {
	if err := s.checkOpen(); err != nil {
		return err
	}
	return s.nav.ChangeDir(input)
}

// Stat returns the information about an entry of the current directory.
func (s *Session) Stat(name string) (EntryInfo, error) {
	entry, err := s.lookup(name)
	if err != nil {
		return EntryInfo{}, err
	}

	info := EntryInfo{
		Entered: name,
		RawName: entry.Name,
		Attr:    entry.Attr,
		Cluster: entry.Cluster,
		Size:    entry.Size,
		ModTime: entry.ModTime,
	}
	if entry.IsDir() {
		info.Size = 0
	}
	return info, nil
}

// Read reads length bytes of a file in the current directory starting at offset.
// Less bytes are returned if the file ends before.
func (s *Session) Read(name string, offset, length int64) ([]byte, error) {
	entry, err := s.lookupFile(name)
	if err != nil {
		return nil, err
	}

	data, err := readFileAt(s.img, entry, offset, length)
	if err != nil {
		return nil, checkpoint.From(err)
	}
	return data, nil
}

// Get returns the whole content of a file in the current directory.
func (s *Session) Get(name string) ([]byte, error) {
	entry, err := s.lookupFile(name)
	if err != nil {
		return nil, err
	}

	var buffer bytes.Buffer
	// The size comes from the image and is not trusted.
	buffer.Grow(s.img.geometry().sizeHint(entry.Size))
	if err := extract(s.img, entry, &buffer); err != nil {
		return nil, checkpoint.From(err)
	}
	return buffer.Bytes(), nil
}

// GetTo copies a file of the current directory to dest on the host filesystem.
// dest is removed again if the file could not be copied completely.
func (s *Session) GetTo(name, dest string) error {
	entry, err := s.lookupFile(name)
	if err != nil {
		return err
	}

	out, err := s.host.Create(dest)
	if err != nil {
		return checkpoint.Wrap(err, ErrShortWrite)
	}

	err = extract(s.img, entry, out)
	if closeErr := out.Close(); err == nil && closeErr != nil {
		err = checkpoint.Wrap(closeErr, ErrShortWrite)
	}

	if err != nil {
		if removeErr := s.host.Remove(dest); removeErr != nil {
			s.log.WithError(removeErr).WithField("file", dest).Warn("could not remove the incomplete file")
		}
		return checkpoint.From(err)
	}

	s.log.WithFields(logrus.Fields{
		"file": dest,
		"size": entry.Size,
	}).Debug("file retrieved")
	return nil
}

// Fs returns a read only afero.Fs of the opened image.
func (s *Session) Fs() (afero.Fs, error) {
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	return NewFs(s.img), nil
}

func (s *Session) lookup(name string) (DirEntry, error) {
	if err := s.checkOpen(); err != nil {
		return DirEntry{}, err
	}

	shortName, kind := EncodeName(name)
	if kind == KindInvalid {
		return DirEntry{}, checkpoint.Wrap(fmt.Errorf("%q", name), ErrInvalidName)
	}

	entry, err := s.nav.Lookup(shortName)
	if err != nil {
		return DirEntry{}, checkpoint.From(err)
	}
	return entry, nil
}

// lookupFile finds a file entry. Files without an extension are found as well,
// only the attribute of the entry decides whether it is a directory.
func (s *Session) lookupFile(name string) (DirEntry, error) {
	entry, err := s.lookup(name)
	if err != nil {
		return DirEntry{}, err
	}

	if entry.IsDir() {
		return DirEntry{}, checkpoint.Wrap(fmt.Errorf("%q is a directory", name), ErrNotAFile)
	}
	return entry, nil
}
