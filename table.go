package fatnav

import (
	"encoding/binary"
	"fmt"

	"github.com/aligator/fatnav/checkpoint"
	"github.com/sirupsen/logrus"
)

const (
	// firstDataCluster is the lowest cluster number which addresses data.
	firstDataCluster = 2

	// endOfChain is the value of a FAT entry which has no successor, read as signed 16 bit value.
	endOfChain int16 = -1

	fatEntrySize = 4
)

// ClusterOffset returns the byte offset of the given cluster inside of the image.
// Each cluster is addressed as one sector, clusters below 2 result in offsets before the data region.
func (g Geometry) ClusterOffset(cluster uint32) int64 {
	bytesPerSector := int64(g.BytesPerSector)
	return (int64(cluster)-firstDataCluster)*bytesPerSector +
		bytesPerSector*int64(g.ReservedSectorCount) +
		int64(g.NumFATs)*int64(g.SectorsPerFAT)*bytesPerSector
}

// FATEntryOffset returns the byte offset of the entry for the given cluster in the first FAT.
func (g Geometry) FATEntryOffset(cluster uint32) int64 {
	return int64(g.BytesPerSector)*int64(g.ReservedSectorCount) + int64(cluster)*fatEntrySize
}

// maxChainLength is the number of entries the FAT can hold.
// No valid chain can be longer.
func (g Geometry) maxChainLength() int {
	return int(int64(g.SectorsPerFAT) * int64(g.BytesPerSector) / fatEntrySize)
}

// sizeHint returns size, limited to the number of bytes the longest possible chain can hold.
func (g Geometry) sizeHint(size uint32) int {
	limit := int64(g.maxChainLength()) * int64(g.BytesPerSector)
	if int64(size) < limit {
		return int(size)
	}
	return int(limit)
}

// nextCluster looks up the successor of the given cluster in the first FAT.
// It returns false if the cluster is the last one of its chain.
//
// Only the lower 16 bits of the 32 bit entry are read.
// Images with cluster numbers above 65535 are therefore not supported.
func (img *Image) nextCluster(cluster uint32) (uint32, bool, error) {
	raw := make([]byte, 2)
	if _, err := img.readAt(raw, img.geometry().FATEntryOffset(cluster)); err != nil {
		return 0, false, checkpoint.From(err)
	}

	value := int16(binary.LittleEndian.Uint16(raw))
	if value == endOfChain {
		img.log.WithField("cluster", cluster).Debug("end of cluster chain reached")
		return 0, false, nil
	}

	next := uint32(uint16(value))
	if next < firstDataCluster {
		return 0, false, checkpoint.Wrap(fmt.Errorf("cluster %v links to cluster %v", cluster, next), ErrInvalidCluster)
	}

	img.log.WithFields(logrus.Fields{
		"cluster": cluster,
		"next":    next,
	}).Debug("following cluster chain")
	return next, true, nil
}

func errCyclicChain(start uint32) error {
	return fmt.Errorf("cluster chain starting at %v does not end", start)
}
