package fatnav

import (
	"os"
	"testing"
	"time"
)

func Test_entryFileInfo(t *testing.T) {
	modTime := time.Date(2021, time.March, 4, 5, 6, 8, 0, time.UTC)

	tests := []struct {
		name     string
		info     entryFileInfo
		wantSize int64
		wantMode os.FileMode
		wantDir  bool
	}{
		{
			name: "file",
			info: entryFileInfo{
				entry: DirEntry{Attr: AttrArchive, Size: 42, ModTime: modTime},
				name:  "foo.txt",
			},
			wantSize: 42,
			wantMode: 0444,
		},
		{
			name: "directory with size",
			info: entryFileInfo{
				entry: DirEntry{Attr: AttrDirectory, Size: 42, ModTime: modTime},
				name:  "docs",
			},
			wantSize: 0,
			wantMode: os.ModeDir | 0555,
			wantDir:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.info.Name(); got != tt.info.name {
				t.Errorf("entryFileInfo.Name() = %v, want %v", got, tt.info.name)
			}
			if got := tt.info.Size(); got != tt.wantSize {
				t.Errorf("entryFileInfo.Size() = %v, want %v", got, tt.wantSize)
			}
			if got := tt.info.Mode(); got != tt.wantMode {
				t.Errorf("entryFileInfo.Mode() = %v, want %v", got, tt.wantMode)
			}
			if got := tt.info.IsDir(); got != tt.wantDir {
				t.Errorf("entryFileInfo.IsDir() = %v, want %v", got, tt.wantDir)
			}
			if got := tt.info.ModTime(); !got.Equal(modTime) {
				t.Errorf("entryFileInfo.ModTime() = %v, want %v", got, modTime)
			}
			if got, ok := tt.info.Sys().(DirEntry); !ok || got.Attr != tt.info.entry.Attr {
				t.Errorf("entryFileInfo.Sys() = %v, want %v", got, tt.info.entry)
			}
		})
	}
}
