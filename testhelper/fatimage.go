// Package testhelper builds small FAT32 images in memory for tests.
//
// Clusters are always one sector large and are assigned explicitly by the test,
// so that non contiguous chains and broken images can be described exactly.
package testhelper

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"
)

// These attributes are used by the entries of a built image.
const (
	AttrReadOnly  byte = 0x01
	AttrHidden    byte = 0x02
	AttrSystem    byte = 0x04
	AttrVolumeID  byte = 0x08
	AttrDirectory byte = 0x10
	AttrArchive   byte = 0x20
	AttrLongName       = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeID
)

const (
	// EndOfChain is written to the FAT for the last cluster of a chain.
	EndOfChain uint32 = 0x0FFFFFFF

	// DeletedMarker is the first name byte of a deleted entry.
	DeletedMarker byte = 0xE5

	entrySize = 32
)

// Config describes the layout of an image. Zero values are replaced by defaults.
type Config struct {
	BytesPerSector  uint16
	ReservedSectors uint16
	NumFATs         uint8
	// Clusters is the number of clusters in the data region.
	Clusters uint32
	// RootCluster is the first cluster of the root directory, 2 by default.
	RootCluster uint32
	VolumeID    uint32
	// Label is padded to 11 bytes, "NO NAME" by default.
	Label string
	// ModTime is used for all entries which do not set their own time stamp.
	ModTime time.Time
}

func (c Config) withDefaults() Config {
	if c.BytesPerSector == 0 {
		c.BytesPerSector = 512
	}
	if c.ReservedSectors == 0 {
		c.ReservedSectors = 32
	}
	if c.NumFATs == 0 {
		c.NumFATs = 2
	}
	if c.Clusters == 0 {
		c.Clusters = 64
	}
	if c.RootCluster == 0 {
		c.RootCluster = 2
	}
	if c.VolumeID == 0 {
		c.VolumeID = 0x1234ABCD
	}
	if c.Label == "" {
		c.Label = "NO NAME"
	}
	if c.ModTime.IsZero() {
		c.ModTime = time.Date(2021, time.March, 4, 5, 6, 8, 0, time.UTC)
	}
	return c
}

// Entry is a raw directory entry.
type Entry struct {
	Name    [11]byte
	Attr    byte
	Cluster uint32
	Size    uint32
	Date    uint16
	Time    uint16
}

// Dir is a directory of an Image.
type Dir struct {
	img      *Image
	clusters []uint32
	entries  []Entry
}

// Image is a FAT32 image under construction.
type Image struct {
	cfg      Config
	fatSize  uint32
	fat      map[uint32]uint32
	clusters map[uint32][]byte
	dirs     []*Dir
	root     *Dir

	// Patch is applied to the final image bytes, e.g. to break the boot sector.
	Patch func(data []byte)
}

// New creates an empty image with a root directory in cfg.RootCluster.
func New(cfg Config) *Image {
	cfg = cfg.withDefaults()

	img := &Image{
		cfg:      cfg,
		fatSize:  (4*(cfg.Clusters+2) + uint32(cfg.BytesPerSector) - 1) / uint32(cfg.BytesPerSector),
		fat:      map[uint32]uint32{},
		clusters: map[uint32][]byte{},
	}

	img.root = img.newDir([]uint32{cfg.RootCluster})
	return img
}

// Root returns the root directory.
func (img *Image) Root() *Dir {
	return img.root
}

// SectorsPerFAT returns the size of a single FAT.
func (img *Image) SectorsPerFAT() uint32 {
	return img.fatSize
}

// ClusterOffset returns the byte offset of a cluster in the built image.
func (img *Image) ClusterOffset(cluster uint32) int64 {
	bps := int64(img.cfg.BytesPerSector)
	return int64(img.cfg.ReservedSectors)*bps +
		int64(img.cfg.NumFATs)*int64(img.fatSize)*bps +
		(int64(cluster)-2)*bps
}

// Chain links the given clusters in the FAT, the last one ends the chain.
func (img *Image) Chain(clusters ...uint32) {
	for i, cluster := range clusters {
		if i == len(clusters)-1 {
			img.SetFAT(cluster, EndOfChain)
		} else {
			img.SetFAT(cluster, clusters[i+1])
		}
	}
}

// SetFAT sets a single FAT entry to any value.
func (img *Image) SetFAT(cluster, value uint32) {
	img.checkCluster(cluster)
	img.fat[cluster] = value
}

// WriteCluster sets the raw content of a cluster. It is overwritten by directories using the same cluster.
func (img *Image) WriteCluster(cluster uint32, data []byte) {
	img.checkCluster(cluster)
	if len(data) > int(img.cfg.BytesPerSector) {
		panic(fmt.Sprintf("testhelper: %v bytes do not fit into cluster %v", len(data), cluster))
	}
	img.clusters[cluster] = append([]byte(nil), data...)
}

func (img *Image) checkCluster(cluster uint32) {
	if cluster < 2 || cluster >= img.cfg.Clusters+2 {
		panic(fmt.Sprintf("testhelper: cluster %v is outside of the data region", cluster))
	}
}

func (img *Image) newDir(clusters []uint32) *Dir {
	if len(clusters) == 0 {
		panic("testhelper: a directory needs at least one cluster")
	}
	img.Chain(clusters...)
	dir := &Dir{img: img, clusters: clusters}
	img.dirs = append(img.dirs, dir)
	return dir
}

// Mkdir adds a sub directory stored in the given clusters.
// The new directory starts with its "." and ".." entries.
func (d *Dir) Mkdir(name string, clusters ...uint32) *Dir {
	sub := d.img.newDir(clusters)

	parent := d.clusters[0]
	if d == d.img.root {
		parent = 0
	}

	sub.Add(Entry{Name: Name("."), Attr: AttrDirectory, Cluster: clusters[0]})
	sub.Add(Entry{Name: Name(".."), Attr: AttrDirectory, Cluster: parent})
	d.Add(Entry{Name: Name(name), Attr: AttrDirectory, Cluster: clusters[0]})
	return sub
}

// AddFile adds a file and writes its content into the given clusters, one sector each.
// An empty file may be stored without any cluster.
func (d *Dir) AddFile(name string, content []byte, clusters ...uint32) {
	d.AddFileWithAttr(name, AttrArchive, content, clusters...)
}

// AddFileWithAttr adds a file just like AddFile but with the given attributes.
func (d *Dir) AddFileWithAttr(name string, attr byte, content []byte, clusters ...uint32) {
	bps := int(d.img.cfg.BytesPerSector)
	if len(content) > len(clusters)*bps {
		panic(fmt.Sprintf("testhelper: %v bytes do not fit into %v clusters", len(content), len(clusters)))
	}

	var first uint32
	if len(clusters) > 0 {
		first = clusters[0]
		d.img.Chain(clusters...)
	}

	for i, cluster := range clusters {
		start := i * bps
		if start >= len(content) {
			d.img.WriteCluster(cluster, nil)
			continue
		}
		end := start + bps
		if end > len(content) {
			end = len(content)
		}
		d.img.WriteCluster(cluster, content[start:end])
	}

	d.Add(Entry{Name: Name(name), Attr: attr, Cluster: first, Size: uint32(len(content))})
}

// Add appends a raw entry. Entries without time stamp get the ModTime of the image.
func (d *Dir) Add(entry Entry) {
	if entry.Date == 0 && entry.Time == 0 {
		entry.Date, entry.Time = DOSTimestamp(d.img.cfg.ModTime)
	}
	d.entries = append(d.entries, entry)
}

// Cluster returns the first cluster of the directory.
func (d *Dir) Cluster() uint32 {
	return d.clusters[0]
}

// Bytes renders the whole image.
func (img *Image) Bytes() []byte {
	cfg := img.cfg
	bps := int(cfg.BytesPerSector)
	totalSectors := uint32(cfg.ReservedSectors) + uint32(cfg.NumFATs)*img.fatSize + cfg.Clusters
	data := make([]byte, int(totalSectors)*bps)

	img.writeBootSector(data, totalSectors)

	fat := make([]byte, int(img.fatSize)*bps)
	binary.LittleEndian.PutUint32(fat[0:], 0x0FFFFFF8)
	binary.LittleEndian.PutUint32(fat[4:], EndOfChain)
	for cluster, value := range img.fat {
		binary.LittleEndian.PutUint32(fat[cluster*4:], value)
	}
	for i := 0; i < int(cfg.NumFATs); i++ {
		copy(data[(int(cfg.ReservedSectors)+i*int(img.fatSize))*bps:], fat)
	}

	for cluster, content := range img.clusters {
		copy(data[img.ClusterOffset(cluster):], content)
	}

	perCluster := bps / entrySize
	for _, dir := range img.dirs {
		if len(dir.entries) > len(dir.clusters)*perCluster {
			panic(fmt.Sprintf("testhelper: %v entries do not fit into %v clusters", len(dir.entries), len(dir.clusters)))
		}

		for _, cluster := range dir.clusters {
			offset := img.ClusterOffset(cluster)
			for i := range data[offset : offset+int64(bps)] {
				data[offset+int64(i)] = 0
			}
		}

		for i, entry := range dir.entries {
			offset := img.ClusterOffset(dir.clusters[i/perCluster]) + int64(i%perCluster*entrySize)
			writeEntry(data[offset:offset+entrySize], entry)
		}
	}

	if img.Patch != nil {
		img.Patch(data)
	}

	return data
}

func (img *Image) writeBootSector(data []byte, totalSectors uint32) {
	cfg := img.cfg
	le := binary.LittleEndian

	copy(data[0:], []byte{0xEB, 0x58, 0x90})
	copy(data[3:], "MSWIN4.1")
	le.PutUint16(data[11:], cfg.BytesPerSector)
	data[13] = 1
	le.PutUint16(data[14:], cfg.ReservedSectors)
	data[16] = cfg.NumFATs
	data[21] = 0xF8
	le.PutUint16(data[24:], 32)
	le.PutUint16(data[26:], 64)
	le.PutUint32(data[32:], totalSectors)
	le.PutUint32(data[36:], img.fatSize)
	le.PutUint32(data[44:], cfg.RootCluster)
	le.PutUint16(data[48:], 1)
	le.PutUint16(data[50:], 6)
	data[64] = 0x80
	data[66] = 0x29
	le.PutUint32(data[67:], cfg.VolumeID)
	copy(data[71:82], fmt.Sprintf("%-11s", cfg.Label))
	copy(data[82:90], "FAT32   ")
	data[510] = 0x55
	data[511] = 0xAA
}

func writeEntry(raw []byte, entry Entry) {
	le := binary.LittleEndian
	copy(raw[0:11], entry.Name[:])
	raw[11] = entry.Attr
	le.PutUint16(raw[20:], uint16(entry.Cluster>>16))
	le.PutUint16(raw[22:], entry.Time)
	le.PutUint16(raw[24:], entry.Date)
	le.PutUint16(raw[26:], uint16(entry.Cluster))
	le.PutUint32(raw[28:], entry.Size)
}

// Name converts "readme.txt" into the padded upper case "README  TXT".
// It does not validate anything, so tests can create invalid names as well.
func Name(name string) [11]byte {
	var raw [11]byte
	for i := range raw {
		raw[i] = ' '
	}

	if name == "." || name == ".." {
		copy(raw[:], name)
		return raw
	}

	base, ext := strings.ToUpper(name), ""
	if i := strings.LastIndex(base, "."); i >= 0 {
		base, ext = base[:i], base[i+1:]
	}
	copy(raw[0:8], base)
	copy(raw[8:11], ext)
	return raw
}

// DOSTimestamp encodes t as the date and time stamps of a directory entry.
func DOSTimestamp(t time.Time) (date uint16, clock uint16) {
	date = uint16(t.Year()-1980)<<9 | uint16(t.Month())<<5 | uint16(t.Day())
	clock = uint16(t.Hour())<<11 | uint16(t.Minute())<<5 | uint16(t.Second()/2)
	return date, clock
}
