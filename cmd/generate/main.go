package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/aligator/fatnav/testhelper"
	"github.com/spf13/afero"
)

// main for writing the sample images. Can be executed using 'go generate' from the project root.
func main() {
	dest := "testdata"
	if len(os.Args) > 1 {
		dest = os.Args[1]
	}

	if err := generate(afero.NewOsFs(), dest); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func generate(fs afero.Fs, dest string) error {
	data := sample().Bytes()

	compressed, err := testhelper.XZ(data)
	if err != nil {
		return err
	}

	if err := fs.MkdirAll(dest, 0755); err != nil {
		return err
	}
	if err := afero.WriteFile(fs, filepath.Join(dest, "sample.img"), data, 0644); err != nil {
		return err
	}
	return afero.WriteFile(fs, filepath.Join(dest, "sample.img.xz"), compressed, 0644)
}

// sample is a small image with nested directories, a file spread over
// non contiguous clusters and some entries which are never listed.
func sample() *testhelper.Image {
	img := testhelper.New(testhelper.Config{Label: "FATNAV", Clusters: 128})
	root := img.Root()

	root.Add(testhelper.Entry{Name: testhelper.Name("FATNAV"), Attr: testhelper.AttrVolumeID})
	root.AddFile("readme.txt", []byte("This image was generated by cmd/generate.\n"), 3)
	root.AddFile("numbers.txt", bytes.Repeat([]byte("0123456789\n"), 100), 10, 4, 20)
	root.AddFileWithAttr("hidden.txt", testhelper.AttrHidden|testhelper.AttrArchive, []byte("you found me\n"), 5)

	docs := root.Mkdir("docs", 6)
	docs.AddFile("notes.txt", []byte("FAT32 clusters start at 2.\n"), 7)
	archive := docs.Mkdir("archive", 8)
	archive.AddFile("old.txt", []byte("an old note\n"), 9)

	return img
}
