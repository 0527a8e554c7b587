// Package fatnav reads FAT32 images without mounting them.
//
// A Session provides the commands of a small shell: open an image, walk its
// directories using 8.3 names and copy files out of it. Fs exposes the same
// image as a read only afero.Fs, which can be used with afero.IOFS as io/fs.FS.
//
// Only one sector per cluster is supported and only the lower 16 bits of each
// FAT entry are used.
package fatnav

//go:generate go run ./cmd/generate testdata
