package fatnav

import "errors"

// These errors may occur while working with an image.
// All of them are recoverable, they are usually wrapped by a checkpoint and can be checked with errors.Is.
var (
	ErrImageAlreadyOpen   = errors.New("file system image already open")
	ErrImageNotOpen       = errors.New("file system image must be opened first")
	ErrImageNotFound      = errors.New("file system image not found")
	ErrImageRead          = errors.New("could not read the file system image")
	ErrInvalidBootSector  = errors.New("invalid FAT32 boot sector")
	ErrInvalidCluster     = errors.New("invalid cluster chain")
	ErrVolumeNameNotFound = errors.New("volume name not found")

	ErrEntryNotFound = errors.New("file not found")
	ErrPathNotFound  = errors.New("path not found")
	ErrInvalidName   = errors.New("invalid 8.3 name")
	ErrNotAFile      = errors.New("not a file")
	ErrNotADirectory = errors.New("not a directory")

	ErrPositionOutOfRange = errors.New("position is outside of the file")
	ErrShortRead          = errors.New("could not read the file completely")
	ErrShortWrite         = errors.New("could not write the file completely")
	ErrByteCountMismatch  = errors.New("number of bytes written does not match the file size")

	ErrReadOnly = errors.New("the image is read only")
)
