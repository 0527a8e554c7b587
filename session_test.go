package fatnav

import (
	"errors"
	"testing"

	"github.com/aligator/fatnav/testhelper"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testImagePath = "/images/fat32.img"

// newTestSession returns a session on a memory filesystem which contains the test image.
func newTestSession(t *testing.T) (*Session, afero.Fs) {
	t.Helper()

	host := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(host, testImagePath, testImage().Bytes(), 0644))

	logger, _ := nullLogger()
	return NewSession(host, WithLogger(logger)), host
}

func openTestSession(t *testing.T) (*Session, afero.Fs) {
	t.Helper()

	session, host := newTestSession(t)
	require.NoError(t, session.Open(testImagePath))
	return session, host
}

func TestSession_Open(t *testing.T) {
	session, host := newTestSession(t)
	require.NoError(t, afero.WriteFile(host, "/images/nofat.img", []byte("This is no FAT file"), 0644))

	err := session.Open("/images/missing.img")
	assert.True(t, errors.Is(err, ErrImageNotFound), "Session.Open() error = %v", err)
	assert.False(t, session.IsOpen())

	err = session.Open("/images/nofat.img")
	assert.True(t, errors.Is(err, ErrImageRead), "Session.Open() error = %v", err)
	assert.False(t, session.IsOpen())

	require.NoError(t, session.Open(testImagePath))
	assert.True(t, session.IsOpen())
	assert.Equal(t, "/", session.Prompt())

	err = session.Open(testImagePath)
	assert.True(t, errors.Is(err, ErrImageAlreadyOpen), "Session.Open() error = %v", err)

	require.NoError(t, session.Close())
	assert.False(t, session.IsOpen())
	assert.Equal(t, "", session.Prompt())

	err = session.Close()
	assert.True(t, errors.Is(err, ErrImageNotOpen), "Session.Close() error = %v", err)
}

func TestSession_Open_compressed(t *testing.T) {
	data := testImage().Bytes()
	xzData, err := testhelper.XZ(data)
	require.NoError(t, err)
	lz4Data, err := testhelper.LZ4(data)
	require.NoError(t, err)

	host := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(host, "fat32.img.xz", xzData, 0644))
	require.NoError(t, afero.WriteFile(host, "fat32.img.lz4", lz4Data, 0644))

	for _, path := range []string{"fat32.img.xz", "fat32.img.lz4"} {
		t.Run(path, func(t *testing.T) {
			logger, _ := nullLogger()
			session := NewSession(host, WithLogger(logger))
			require.NoError(t, session.Open(path))
			defer session.Close()

			got, err := session.Get("foo.txt")
			require.NoError(t, err)
			assert.Equal(t, fooContent, got)
		})
	}
}

func TestSession_notOpen(t *testing.T) {
	session, _ := newTestSession(t)

	_, err := session.Info()
	assert.True(t, errors.Is(err, ErrImageNotOpen))
	_, err = session.Volume()
	assert.True(t, errors.Is(err, ErrImageNotOpen))
	_, err = session.List()
	assert.True(t, errors.Is(err, ErrImageNotOpen))
	err = session.Cd("docs")
	assert.True(t, errors.Is(err, ErrImageNotOpen))
	_, err = session.Stat("hello.txt")
	assert.True(t, errors.Is(err, ErrImageNotOpen))
	_, err = session.Read("hello.txt", 0, 1)
	assert.True(t, errors.Is(err, ErrImageNotOpen))
	_, err = session.Get("hello.txt")
	assert.True(t, errors.Is(err, ErrImageNotOpen))
	err = session.GetTo("hello.txt", "hello.txt")
	assert.True(t, errors.Is(err, ErrImageNotOpen))
	_, err = session.Fs()
	assert.True(t, errors.Is(err, ErrImageNotOpen))
}

func TestSession_Info(t *testing.T) {
	session, _ := openTestSession(t)

	info, err := session.Info()
	require.NoError(t, err)
	assert.Equal(t, uint16(512), info.BytesPerSector)
	assert.Equal(t, uint8(1), info.SectorsPerCluster)
	assert.Equal(t, uint16(32), info.ReservedSectorCount)
	assert.Equal(t, uint8(2), info.NumFATs)
	assert.Equal(t, uint32(2), info.RootCluster)
}

func TestSession_Volume(t *testing.T) {
	session, _ := openTestSession(t)

	label, err := session.Volume()
	require.NoError(t, err)
	assert.Equal(t, "TESTVOL", label)

	host := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(host, "noname.img", testhelper.New(testhelper.Config{}).Bytes(), 0644))
	logger, _ := nullLogger()
	unnamed := NewSession(host, WithLogger(logger))
	require.NoError(t, unnamed.Open("noname.img"))

	_, err = unnamed.Volume()
	assert.True(t, errors.Is(err, ErrVolumeNameNotFound), "Session.Volume() error = %v", err)
}

func TestSession_Stat(t *testing.T) {
	session, _ := openTestSession(t)

	tests := []struct {
		name    string
		cd      string
		want    EntryInfo
		wantErr error
	}{
		{
			name: "hello.txt",
			want: EntryInfo{
				Entered: "hello.txt",
				RawName: ShortName{'H', 'E', 'L', 'L', 'O', ' ', ' ', ' ', 'T', 'X', 'T'},
				Attr:    AttrArchive,
				Cluster: 3,
				Size:    uint32(len(helloContent)),
			},
		},
		{
			name: "DOCS",
			want: EntryInfo{
				Entered: "DOCS",
				RawName: ShortName{'D', 'O', 'C', 'S', ' ', ' ', ' ', ' ', ' ', ' ', ' '},
				Attr:    AttrDirectory,
				Cluster: 8,
			},
		},
		{
			name: "..",
			cd:   "/docs/sub",
			want: EntryInfo{
				Entered: "..",
				RawName: dotDotName,
				Attr:    AttrDirectory,
				Cluster: 8,
			},
		},
		{
			name: "hidden.txt",
			want: EntryInfo{
				Entered: "hidden.txt",
				RawName: ShortName{'H', 'I', 'D', 'D', 'E', 'N', ' ', ' ', 'T', 'X', 'T'},
				Attr:    AttrHidden | AttrArchive,
				Cluster: 5,
				Size:    6,
			},
		},
		{
			name:    "NODIR",
			wantErr: ErrEntryNotFound,
		},
		{
			name:    "muchtoolongname",
			wantErr: ErrInvalidName,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cd := tt.cd
			if cd == "" {
				cd = "/"
			}
			require.NoError(t, session.Cd(cd))

			got, err := session.Stat(tt.name)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Session.Stat() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr != nil {
				return
			}

			// All entries of the test image share the same time stamp.
			assert.False(t, got.ModTime.IsZero())
			got.ModTime = tt.want.ModTime
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSession_Read(t *testing.T) {
	session, _ := openTestSession(t)

	tests := []struct {
		name    string
		file    string
		offset  int64
		length  int64
		want    []byte
		wantErr error
	}{
		{name: "whole file", file: "hello.txt", offset: 0, length: 12, want: helloContent},
		{name: "part", file: "hello.txt", offset: 6, length: 5, want: []byte("World")},
		{name: "across clusters", file: "foo.txt", offset: 505, length: 10, want: fooContent[505:515]},
		{name: "clamped", file: "hello.txt", offset: 10, length: 100, want: []byte("d\n")},
		{name: "file without extension", file: "noext", offset: 0, length: 2, want: []byte("no")},
		{name: "empty file", file: "empty.txt", offset: 0, length: 10, want: []byte{}},
		{name: "out of range", file: "hello.txt", offset: 13, length: 1, wantErr: ErrPositionOutOfRange},
		{name: "directory", file: "docs", offset: 0, length: 1, wantErr: ErrNotAFile},
		{name: "missing", file: "nofile.txt", offset: 0, length: 1, wantErr: ErrEntryNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := session.Read(tt.file, tt.offset, tt.length)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Session.Read() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSession_Get(t *testing.T) {
	session, host := openTestSession(t)

	got, err := session.Get("FOO.TXT")
	require.NoError(t, err)
	assert.Equal(t, fooContent, got)

	require.NoError(t, session.Cd("docs/sub"))
	require.NoError(t, session.GetTo("deep.txt", "/out/deep.txt"))

	written, err := afero.ReadFile(host, "/out/deep.txt")
	require.NoError(t, err)
	assert.Equal(t, deepContent, written)

	err = session.GetTo("..", "/out/parent")
	assert.True(t, errors.Is(err, ErrNotAFile), "Session.GetTo() error = %v", err)
	exists, err := afero.Exists(host, "/out/parent")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestSession_GetTo_removesIncompleteFile(t *testing.T) {
	builder := testImage()
	// broken.txt claims to be larger than its cluster chain.
	builder.Chain(16)
	builder.WriteCluster(16, fooContent[:512])
	builder.Root().Add(testhelper.Entry{Name: testhelper.Name("broken.txt"), Attr: testhelper.AttrArchive, Cluster: 16, Size: 1000})

	host := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(host, "broken.img", builder.Bytes(), 0644))

	logger, hook := nullLogger()
	session := NewSession(host, WithLogger(logger))
	require.NoError(t, session.Open("broken.img"))

	err := session.GetTo("broken.txt", "broken.txt")
	assert.True(t, errors.Is(err, ErrByteCountMismatch), "Session.GetTo() error = %v", err)

	exists, err := afero.Exists(host, "broken.txt")
	require.NoError(t, err)
	assert.False(t, exists)

	for _, entry := range hook.AllEntries() {
		assert.NotEqual(t, logrus.WarnLevel, entry.Level, entry.Message)
	}
}

func TestSession_Get_corruptSize(t *testing.T) {
	builder := testImage()
	// huge.txt claims 4 GiB but only has a single cluster.
	builder.Chain(16)
	builder.WriteCluster(16, fooContent[:512])
	builder.Root().Add(testhelper.Entry{Name: testhelper.Name("huge.txt"), Attr: testhelper.AttrArchive, Cluster: 16, Size: 0xFFFFFFFF})

	host := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(host, "huge.img", builder.Bytes(), 0644))

	logger, _ := nullLogger()
	session := NewSession(host, WithLogger(logger))
	require.NoError(t, session.Open("huge.img"))

	data, err := session.Get("huge.txt")
	assert.True(t, errors.Is(err, ErrByteCountMismatch), "Session.Get() error = %v", err)
	assert.Nil(t, data)
}

func TestSession_List(t *testing.T) {
	session, _ := openTestSession(t)

	require.NoError(t, session.Cd("big"))
	entries, err := session.List()
	require.NoError(t, err)

	// ".", ".." and 20 files.
	assert.Len(t, entries, 22)
	assert.Equal(t, "f20.txt", entries[21].Name)
	assert.Equal(t, "/big", session.Prompt())
}
