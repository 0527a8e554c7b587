package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/aligator/fatnav"
	"github.com/aligator/fatnav/testhelper"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/fatnav/config.yml", []byte(`
image: images/fat32.img.xz
skipChecks: true
logs:
  directory: /var/log/fatnav
  maxSizeMB: 10
`), 0644))
	require.NoError(t, afero.WriteFile(fs, "/etc/fatnav/empty.yml", nil, 0644))
	require.NoError(t, afero.WriteFile(fs, "/etc/fatnav/broken.yml", []byte("image: ["), 0644))

	tests := []struct {
		name     string
		path     string
		required bool
		want     config
		wantErr  bool
	}{
		{
			name: "full config",
			path: "/etc/fatnav/config.yml",
			want: config{
				Image:      "/etc/fatnav/images/fat32.img.xz",
				SkipChecks: true,
				OutputDir:  ".",
				Logs:       logConfig{Directory: "/var/log/fatnav", MaxSizeMB: 10, MaxAgeDays: 7, MaxBackups: 5},
			},
		},
		{
			name: "empty config",
			path: "/etc/fatnav/empty.yml",
			want: config{
				OutputDir: ".",
				Logs:      logConfig{MaxSizeMB: 25, MaxAgeDays: 7, MaxBackups: 5},
			},
		},
		{
			name: "missing optional config",
			path: "/home/user/.fatnav/config.yml",
			want: config{
				OutputDir: ".",
				Logs:      logConfig{MaxSizeMB: 25, MaxAgeDays: 7, MaxBackups: 5},
			},
		},
		{
			name:     "missing required config",
			path:     "/home/user/.fatnav/config.yml",
			required: true,
			wantErr:  true,
		},
		{
			name:    "broken config",
			path:    "/etc/fatnav/broken.yml",
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := loadConfig(fs, tt.path, tt.required)
			if (err != nil) != tt.wantErr {
				t.Errorf("loadConfig() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if !tt.wantErr {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestSetupLogging_logFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	defer func() {
		log.SetOutput(os.Stderr)
		log.SetFormatter(new(infoFormatter))
		log.SetLevel(log.InfoLevel)
	}()

	setupLogging(logConfig{Directory: dir, MaxSizeMB: 1, MaxAgeDays: 1, MaxBackups: 1}, true, false)

	// Nothing is created before the first line is logged.
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err), "os.Stat() error = %v", err)

	log.Error("log file test")

	content, err := os.ReadFile(filepath.Join(dir, "fatnav.log"))
	require.NoError(t, err)
	assert.Contains(t, string(content), "log file test")
}

func testHost(t *testing.T) afero.Fs {
	t.Helper()

	img := testhelper.New(testhelper.Config{Label: "CLITEST"})
	root := img.Root()
	root.AddFile("hello.txt", []byte("Hello World\n"), 3)
	docs := root.Mkdir("docs", 4)
	docs.AddFile("readme.txt", []byte("read me\n"), 5)

	host := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(host, "/fat32.img", img.Bytes(), 0644))
	return host
}

func TestCommands(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{name: "volume", args: []string{"volume"}, want: "Volume name: 'CLITEST'\n"},
		{name: "ls root", args: []string{"ls"}, want: "hello.txt\ndocs\n"},
		{name: "ls dir", args: []string{"ls", "/docs"}, want: ".\n..\nreadme.txt\n"},
		{name: "read", args: []string{"read", "docs/readme.txt", "0", "4"}, want: "read"},
		{name: "read hex", args: []string{"read", "--hex", "hello.txt", "0", "2"}, want: "0x48 0x65\n"},
		{name: "tree", args: []string{"tree"}, want: "docs/\n  readme.txt\nhello.txt\n"},
		{name: "missing file", args: []string{"stat", "nofile.txt"}, wantErr: fatnav.ErrEntryNotFound},
		{name: "missing directory", args: []string{"ls", "nodir"}, wantErr: fatnav.ErrPathNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			root := newRootCmd(testHost(t), &out)
			root.SetArgs(append([]string{"-q", "--image", "/fat32.img"}, tt.args...))

			err := root.Execute()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Execute() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if tt.wantErr == nil {
				assert.Equal(t, tt.want, out.String())
			}
		})
	}
}

func TestCommands_get(t *testing.T) {
	host := testHost(t)

	root := newRootCmd(host, &bytes.Buffer{})
	root.SetArgs([]string{"-q", "--image", "/fat32.img", "get", "docs/readme.txt", "/out/readme.txt"})
	require.NoError(t, root.Execute())

	got, err := afero.ReadFile(host, "/out/readme.txt")
	require.NoError(t, err)
	assert.Equal(t, "read me\n", string(got))
}

func TestCommands_noImage(t *testing.T) {
	root := newRootCmd(afero.NewMemMapFs(), &bytes.Buffer{})
	root.SetArgs([]string{"-q", "info"})
	assert.Error(t, root.Execute())

	root = newRootCmd(afero.NewMemMapFs(), &bytes.Buffer{})
	root.SetArgs([]string{"-q", "-v", "info"})
	assert.Error(t, root.Execute())
}
