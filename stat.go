package fatnav

import (
	"os"
	"time"
)

// entryFileInfo is the os.FileInfo of a directory entry.
type entryFileInfo struct {
	entry DirEntry
	name  string
}

func (e entryFileInfo) Name() string {
	return e.name
}

// Size is always 0 for directories.
func (e entryFileInfo) Size() int64 {
	if e.IsDir() {
		return 0
	}
	return int64(e.entry.Size)
}

// Mode never contains write permissions as the image is read only.
func (e entryFileInfo) Mode() os.FileMode {
	if e.IsDir() {
		return os.ModeDir | 0555
	}
	return 0444
}

func (e entryFileInfo) ModTime() time.Time {
	return e.entry.ModTime
}

func (e entryFileInfo) IsDir() bool {
	return e.entry.IsDir()
}

// Sys returns the DirEntry.
func (e entryFileInfo) Sys() interface{} {
	return e.entry
}
