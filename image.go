package fatnav

import (
	"io"
	"sync"

	"github.com/aligator/fatnav/checkpoint"
	"github.com/sirupsen/logrus"
)

// Option configures an Image or a Session.
type Option func(*options)

type options struct {
	log        logrus.FieldLogger
	skipChecks bool
}

// WithLogger sets the logger used for debug output. The default is the logrus standard logger.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) {
		o.log = log
	}
}

// SkipChecks disables the boot sector validation, see ReadBootSectorSkipChecks.
func SkipChecks(skip bool) Option {
	return func(o *options) {
		o.skipChecks = skip
	}
}

func buildOptions(opts []Option) options {
	o := options{
		log: logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Image is an opened, read only FAT32 image.
// All reads share the position of the underlying reader, so every seek and the following read
// happen while holding the lock.
type Image struct {
	mu     sync.Mutex
	reader io.ReadSeeker
	closer io.Closer
	geo    Geometry
	log    logrus.FieldLogger
}

// New opens a FAT32 image from the given reader.
func New(reader io.ReadSeeker, opts ...Option) (*Image, error) {
	o := buildOptions(opts)

	var geo Geometry
	var err error
	if o.skipChecks {
		geo, err = ReadBootSectorSkipChecks(reader)
	} else {
		geo, err = ReadBootSector(reader)
	}
	if err != nil {
		return nil, checkpoint.From(err)
	}

	if geo.SectorsPerCluster != 1 {
		o.log.WithField("sectorsPerCluster", geo.SectorsPerCluster).
			Warn("clusters are addressed as single sectors, the image may not be read correctly")
	}

	o.log.WithFields(logrus.Fields{
		"bytesPerSector": geo.BytesPerSector,
		"rootCluster":    geo.RootCluster,
		"rootOffset":     geo.ClusterOffset(geo.RootCluster),
	}).Debug("image opened")

	return &Image{
		reader: reader,
		geo:    geo,
		log:    o.log,
	}, nil
}

// NewSkipChecks opens a FAT32 image just like New but skips the boot sector validations
// which may allow you to open not perfectly standard images.
// Use with caution!
func NewSkipChecks(reader io.ReadSeeker, opts ...Option) (*Image, error) {
	return New(reader, append(opts, SkipChecks(true))...)
}

// Geometry returns the decoded boot sector information.
func (img *Image) Geometry() Geometry {
	return img.geo
}

// Close releases the underlying file if the image owns one.
func (img *Image) Close() error {
	img.mu.Lock()
	defer img.mu.Unlock()

	img.reader = nil
	if img.closer == nil {
		return nil
	}

	err := img.closer.Close()
	img.closer = nil
	return checkpoint.From(err)
}

func (img *Image) geometry() Geometry {
	return img.geo
}

// readAt reads exactly len(p) bytes starting at the given offset of the image.
// If less data is available the bytes read so far are returned together with an error.
func (img *Image) readAt(p []byte, offset int64) (int, error) {
	img.mu.Lock()
	defer img.mu.Unlock()

	if img.reader == nil {
		return 0, checkpoint.From(ErrImageNotOpen)
	}

	if _, err := img.reader.Seek(offset, io.SeekStart); err != nil {
		return 0, checkpoint.Wrap(err, ErrImageRead)
	}

	n, err := io.ReadFull(img.reader, p)
	if err != nil {
		return n, checkpoint.Wrap(noEOF(err), ErrImageRead)
	}
	return n, nil
}

// noEOF converts io.EOF into io.ErrUnexpectedEOF.
// A missing byte is always unexpected when reading from the image, and io.EOF would not be decorated by checkpoints.
func noEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
