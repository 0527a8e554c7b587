// File model contains the structs which match the direct structures of the FAT32 filesystem.
// They are decoded with encoding/binary in little endian byte order.

package fatnav

const (
	// bootSectorSize is the part of the boot sector holding the BPB and the FAT32 extension.
	bootSectorSize = 90

	// entrySize is the size in bytes of a single directory entry.
	entrySize = 32
)

// bootSector is the BIOS parameter block followed by the FAT32 specific part of the boot sector.
type bootSector struct {
	BSJumpBoot          [3]byte
	BSOEMName           [8]byte
	BytesPerSector      uint16
	SectorsPerCluster   byte
	ReservedSectorCount uint16
	NumFATs             byte
	RootEntryCount      uint16
	TotalSectors16      uint16
	Media               byte
	FATSize16           uint16
	SectorsPerTrack     uint16
	NumberOfHeads       uint16
	HiddenSectors       uint32
	TotalSectors32      uint32
	FATSize32           uint32
	ExtFlags            uint16
	FSVersion           uint16
	RootCluster         uint32
	FSInfo              uint16
	BkBootSector        uint16
	Reserved            [12]byte
	BSDriveNumber       byte
	BSReserved1         byte
	BSBootSignature     byte
	BSVolumeID          uint32
	BSVolumeLabel       [11]byte
	BSFileSystemType    [8]byte
}

// entryHeader is a single raw directory entry.
type entryHeader struct {
	Name           [11]byte
	Attribute      byte
	Reserved1      [8]byte
	FirstClusterHI uint16
	WriteTime      uint16
	WriteDate      uint16
	FirstClusterLO uint16
	FileSize       uint32
}
