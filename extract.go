package fatnav

import (
	"fmt"
	"io"

	"github.com/aligator/fatnav/checkpoint"
)

// extract copies the whole content of the file entry into sink, one sector per cluster.
// On error, sink may already contain parts of the file, callers have to discard it.
func extract(src chainReader, entry DirEntry, sink io.Writer) error {
	geo := src.geometry()
	sectorSize := uint32(geo.BytesPerSector)

	// Small files are read at once. An empty file may not even have a cluster.
	if entry.Size <= sectorSize {
		if entry.Size == 0 {
			return nil
		}

		data := make([]byte, entry.Size)
		if err := readChunk(src, data, geo.ClusterOffset(entry.Cluster)); err != nil {
			return err
		}
		return writeChunk(sink, data)
	}

	buffer := make([]byte, sectorSize)
	cluster := entry.Cluster
	remaining := entry.Size
	amount := sectorSize
	var written uint32
	for {
		chunk := buffer[:amount]
		if err := readChunk(src, chunk, geo.ClusterOffset(cluster)); err != nil {
			return err
		}
		if err := writeChunk(sink, chunk); err != nil {
			return err
		}

		written += amount
		remaining -= amount
		if remaining == 0 {
			break
		}

		next, ok, err := src.nextCluster(cluster)
		if err != nil {
			return checkpoint.From(err)
		}
		if !ok {
			break
		}

		cluster = next
		if remaining < amount {
			amount = remaining
		}
	}

	if written != entry.Size {
		return checkpoint.Wrap(fmt.Errorf("wrote %v of %v bytes", written, entry.Size), ErrByteCountMismatch)
	}

	return nil
}

// readFileAt reads up to length bytes of the file entry starting at offset.
// The data read so far is returned even if an error occurs.
func readFileAt(src chainReader, entry DirEntry, offset int64, length int64) ([]byte, error) {
	fileSize := int64(entry.Size)
	if offset < 0 || offset > fileSize {
		return nil, checkpoint.Wrap(fmt.Errorf("offset %v, file size %v", offset, fileSize), ErrPositionOutOfRange)
	}

	if length < 0 {
		length = 0
	}
	if offset+length > fileSize {
		length = fileSize - offset
	}
	if length == 0 {
		return []byte{}, nil
	}

	geo := src.geometry()
	sectorSize := int64(geo.BytesPerSector)

	cluster := entry.Cluster
	for i := int64(0); i < offset/sectorSize; i++ {
		next, ok, err := src.nextCluster(cluster)
		if err != nil {
			return nil, checkpoint.From(err)
		}
		if !ok {
			return nil, checkpoint.Wrap(fmt.Errorf("cluster chain ends before offset %v", offset), ErrShortRead)
		}
		cluster = next
	}

	data := make([]byte, 0, length)
	position := offset % sectorSize
	for {
		amount := sectorSize - position
		if remaining := length - int64(len(data)); remaining < amount {
			amount = remaining
		}

		chunk := make([]byte, amount)
		if err := readChunk(src, chunk, geo.ClusterOffset(cluster)+position); err != nil {
			return data, err
		}
		data = append(data, chunk...)

		if int64(len(data)) == length {
			return data, nil
		}

		next, ok, err := src.nextCluster(cluster)
		if err != nil {
			return data, checkpoint.From(err)
		}
		if !ok {
			return data, checkpoint.Wrap(fmt.Errorf("cluster chain ends after %v bytes", offset+int64(len(data))), ErrShortRead)
		}

		cluster = next
		position = 0
	}
}

func readChunk(src chainReader, p []byte, offset int64) error {
	n, err := src.readAt(p, offset)
	if err != nil {
		return checkpoint.Wrap(err, ErrShortRead)
	}
	if n < len(p) {
		return checkpoint.Wrap(fmt.Errorf("read %v of %v bytes", n, len(p)), ErrShortRead)
	}
	return nil
}

func writeChunk(sink io.Writer, p []byte) error {
	n, err := sink.Write(p)
	if err != nil {
		return checkpoint.Wrap(err, ErrShortWrite)
	}
	if n < len(p) {
		return checkpoint.Wrap(fmt.Errorf("wrote %v of %v bytes", n, len(p)), ErrShortWrite)
	}
	return nil
}
