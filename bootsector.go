package fatnav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/aligator/fatnav/checkpoint"
)

// Geometry contains the information of the boot sector which is needed to address the image.
// It does not change after the image has been opened.
type Geometry struct {
	OEMName             string
	BytesPerSector      uint16
	SectorsPerCluster   uint8
	ReservedSectorCount uint16
	NumFATs             uint8
	Media               byte
	TotalSectors        uint32
	SectorsPerFAT       uint32
	RootCluster         uint32
	VolumeID            uint32
	// VolumeLabel is the raw 11 byte label including its space padding.
	VolumeLabel    string
	FileSystemType string
}

// ReadBootSector reads the first 90 bytes of the image and decodes them into the Geometry.
// The boot sector is validated, so that images which are obviously no FAT32 images are rejected early.
func ReadBootSector(reader io.ReadSeeker) (Geometry, error) {
	return readBootSector(reader, false)
}

// ReadBootSectorSkipChecks reads the boot sector just like ReadBootSector but skips all validations
// except the ones needed to calculate any offset at all.
// Use with caution!
func ReadBootSectorSkipChecks(reader io.ReadSeeker) (Geometry, error) {
	return readBootSector(reader, true)
}

func readBootSector(reader io.ReadSeeker, skipChecks bool) (Geometry, error) {
	if _, err := reader.Seek(0, io.SeekStart); err != nil {
		return Geometry{}, checkpoint.Wrap(err, ErrImageRead)
	}

	raw := make([]byte, bootSectorSize)
	if _, err := io.ReadFull(reader, raw); err != nil {
		return Geometry{}, checkpoint.Wrap(noEOF(err), ErrImageRead)
	}

	bs := bootSector{}
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &bs); err != nil {
		return Geometry{}, checkpoint.Wrap(err, ErrImageRead)
	}

	if !skipChecks {
		if err := checkBootSector(bs); err != nil {
			return Geometry{}, checkpoint.Wrap(err, ErrInvalidBootSector)
		}
	}

	// Both are used as divisors, so even without checks they must not be 0.
	if bs.BytesPerSector == 0 {
		return Geometry{}, checkpoint.Wrap(fmt.Errorf("bytes per sector is 0"), ErrInvalidBootSector)
	}
	if bs.FATSize32 == 0 {
		return Geometry{}, checkpoint.Wrap(fmt.Errorf("sectors per FAT is 0"), ErrInvalidBootSector)
	}

	geometry := Geometry{
		OEMName:             string(bs.BSOEMName[:]),
		BytesPerSector:      bs.BytesPerSector,
		SectorsPerCluster:   bs.SectorsPerCluster,
		ReservedSectorCount: bs.ReservedSectorCount,
		NumFATs:             bs.NumFATs,
		Media:               bs.Media,
		SectorsPerFAT:       bs.FATSize32,
		RootCluster:         bs.RootCluster,
		VolumeID:            bs.BSVolumeID,
		VolumeLabel:         string(bs.BSVolumeLabel[:]),
		FileSystemType:      string(bs.BSFileSystemType[:]),
	}

	if bs.TotalSectors16 != 0 {
		geometry.TotalSectors = uint32(bs.TotalSectors16)
	} else {
		geometry.TotalSectors = bs.TotalSectors32
	}

	return geometry, nil
}

func checkBootSector(bs bootSector) error {
	// Check for valid jump instructions.
	if !(bs.BSJumpBoot[0] == 0xEB && bs.BSJumpBoot[2] == 0x90) && !(bs.BSJumpBoot[0] == 0xE9) {
		return fmt.Errorf("no valid jump instructions at the beginning")
	}

	// FAT only supports 512, 1024, 2048 and 4096.
	switch bs.BytesPerSector {
	case 512, 1024, 2048, 4096:
	default:
		return fmt.Errorf("invalid sector size %v", bs.BytesPerSector)
	}

	// Sectors per cluster has to be a power of two and greater than 0.
	if bs.SectorsPerCluster == 0 || bs.SectorsPerCluster&(bs.SectorsPerCluster-1) != 0 {
		return fmt.Errorf("invalid sectors per cluster %v", bs.SectorsPerCluster)
	}

	if bs.ReservedSectorCount == 0 {
		return fmt.Errorf("invalid reserved sector count")
	}

	if bs.NumFATs == 0 {
		return fmt.Errorf("no FAT present")
	}

	// FAT32 keeps the root directory in the data region and the FAT size in the extended part.
	if bs.RootEntryCount != 0 || bs.FATSize16 != 0 {
		return fmt.Errorf("not a FAT32 boot sector")
	}

	if bs.FATSize32 == 0 {
		return fmt.Errorf("invalid FAT size")
	}

	if bs.RootCluster < firstDataCluster {
		return fmt.Errorf("invalid root cluster %v", bs.RootCluster)
	}

	return nil
}
