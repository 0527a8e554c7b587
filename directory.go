package fatnav

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/aligator/fatnav/checkpoint"
	"github.com/sirupsen/logrus"
)

// Attr is the attribute bitmask of a directory entry.
type Attr uint8

const (
	AttrReadOnly  Attr = 0x01
	AttrHidden    Attr = 0x02
	AttrSystem    Attr = 0x04
	AttrVolumeID  Attr = 0x08
	AttrDirectory Attr = 0x10
	AttrArchive   Attr = 0x20
	AttrLongName       = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

const (
	entryEnd     = 0x00
	entryDeleted = 0xE5
)

// IsDir reports whether the directory bit is set.
func (a Attr) IsDir() bool {
	return a&AttrDirectory == AttrDirectory
}

// Names returns the names of all set attributes.
func (a Attr) Names() []string {
	var names []string
	for _, attr := range []struct {
		bit  Attr
		name string
	}{
		{AttrReadOnly, "ATTR_READ_ONLY"},
		{AttrHidden, "ATTR_HIDDEN"},
		{AttrSystem, "ATTR_SYSTEM"},
		{AttrVolumeID, "ATTR_VOLUME_ID"},
		{AttrDirectory, "ATTR_DIRECTORY"},
		{AttrArchive, "ATTR_ARCHIVE"},
	} {
		if a&attr.bit == attr.bit {
			names = append(names, attr.name)
		}
	}
	if a&AttrLongName == AttrLongName {
		names = append(names, "ATTR_LONG_NAME")
	}
	return names
}

// DirEntry is a single decoded directory entry.
type DirEntry struct {
	Name    ShortName
	Attr    Attr
	Cluster uint32
	Size    uint32
	ModTime time.Time
}

func decodeEntry(raw []byte) (DirEntry, error) {
	header := entryHeader{}
	if err := binary.Read(bytes.NewReader(raw), binary.LittleEndian, &header); err != nil {
		return DirEntry{}, checkpoint.Wrap(err, ErrImageRead)
	}

	return DirEntry{
		Name:    header.Name,
		Attr:    Attr(header.Attribute),
		Cluster: uint32(header.FirstClusterHI)<<16 | uint32(header.FirstClusterLO),
		Size:    header.FileSize,
		ModTime: dosTimestamp(header.WriteDate, header.WriteTime),
	}, nil
}

// IsEnd reports whether the entry marks the end of the directory.
func (e DirEntry) IsEnd() bool {
	return e.Name[0] == entryEnd
}

// IsDeleted reports whether the entry has been deleted.
func (e DirEntry) IsDeleted() bool {
	return e.Name[0] == entryDeleted
}

// IsLongName reports whether the entry is part of a long file name.
// These entries are never used.
func (e DirEntry) IsLongName() bool {
	return e.Attr == AttrLongName
}

// IsDir reports whether the entry is a directory.
func (e DirEntry) IsDir() bool {
	return e.Attr.IsDir()
}

// Usable reports whether the entry is a real short name entry.
func (e DirEntry) Usable() bool {
	return !e.IsEnd() && !e.IsDeleted() && !e.IsLongName()
}

// Visible reports whether the entry is shown in directory listings.
// Only read only files, directories and archives are shown, and only if they are not hidden,
// system files or the volume label.
func (e DirEntry) Visible() bool {
	const show = AttrReadOnly | AttrDirectory | AttrArchive
	const hide = AttrHidden | AttrSystem | AttrVolumeID

	return e.Usable() && e.Attr&show != 0 && e.Attr&hide == 0
}

// DisplayName returns the lower case name shown to the user.
func (e DirEntry) DisplayName() string {
	return e.Name.Display(e.IsDir())
}

// readEntries reads all entries of the directory starting at the given cluster.
//
// Entries are read until either the end of the cluster chain is reached or the first byte
// following an entry inside of a sector is 0. No entry is filtered, callers have to skip
// long name, deleted and end entries themselves.
func readEntries(src chainReader, start uint32, log logrus.FieldLogger) ([]DirEntry, error) {
	geo := src.geometry()
	sectorSize := int(geo.BytesPerSector)
	if sectorSize < entrySize {
		return nil, checkpoint.Wrap(fmt.Errorf("sector size %v is smaller than a directory entry", sectorSize), ErrInvalidBootSector)
	}

	var entries []DirEntry
	sector := make([]byte, sectorSize)
	cluster := start
	hops := 0
	for {
		if _, err := src.readAt(sector, geo.ClusterOffset(cluster)); err != nil {
			return nil, checkpoint.From(err)
		}

		next := 0
		for {
			entry, err := decodeEntry(sector[next : next+entrySize])
			if err != nil {
				return nil, err
			}
			entries = append(entries, entry)
			next += entrySize

			if next+entrySize > sectorSize || sector[next] == entryEnd {
				break
			}
		}

		// Only a full sector continues in the next cluster.
		if next+entrySize <= sectorSize {
			break
		}

		nextCluster, ok, err := src.nextCluster(cluster)
		if err != nil {
			return nil, checkpoint.From(err)
		}
		if !ok {
			break
		}

		hops++
		if hops >= geo.maxChainLength() {
			return nil, checkpoint.Wrap(errCyclicChain(start), ErrInvalidCluster)
		}
		cluster = nextCluster
	}

	log.WithFields(logrus.Fields{
		"cluster": start,
		"entries": len(entries),
	}).Debug("directory read")
	return entries, nil
}
