package fatnav

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/aligator/fatnav/testhelper"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
)

var (
	helloContent = []byte("Hello World\n")
	// fooContent spans two clusters which are not next to each other.
	fooContent    = bytes.Repeat([]byte("0123456789"), 60)
	readmeContent = []byte("read me\n")
	deepContent   = []byte("deep down\n")
	noExtContent  = []byte("no extension")
)

// testImage builds the image used by most tests:
//  /                  cluster 2
//  ├── hello.txt      cluster 3
//  ├── foo.txt        clusters 10, 12
//  ├── empty.txt      no cluster
//  ├── hidden.txt     cluster 5, hidden
//  ├── system.sys     cluster 6, system
//  ├── noext          cluster 7
//  ├── docs/          cluster 8
//  │   ├── readme.txt cluster 9
//  │   └── sub/       cluster 11
//  │       └── deep.txt cluster 13
//  └── big/           clusters 14, 15 with 20 empty files
// The root also contains the volume label, a deleted and a long name entry.
func testImage() *testhelper.Image {
	img := testhelper.New(testhelper.Config{Label: "TESTVOL"})
	root := img.Root()

	root.Add(testhelper.Entry{Name: testhelper.Name("TESTVOL"), Attr: testhelper.AttrVolumeID})
	root.AddFile("hello.txt", helloContent, 3)
	root.AddFile("foo.txt", fooContent, 10, 12)
	root.AddFile("empty.txt", nil)
	root.AddFileWithAttr("hidden.txt", testhelper.AttrHidden|testhelper.AttrArchive, []byte("secret"), 5)
	root.AddFileWithAttr("system.sys", testhelper.AttrSystem, []byte("system"), 6)

	deleted := testhelper.Name("old.txt")
	deleted[0] = testhelper.DeletedMarker
	root.Add(testhelper.Entry{Name: deleted, Attr: testhelper.AttrArchive, Cluster: 3, Size: 1})
	root.Add(testhelper.Entry{Name: testhelper.Name("hello.txt"), Attr: testhelper.AttrLongName})

	root.AddFile("noext", noExtContent, 7)

	docs := root.Mkdir("docs", 8)
	docs.AddFile("readme.txt", readmeContent, 9)
	sub := docs.Mkdir("sub", 11)
	sub.AddFile("deep.txt", deepContent, 13)

	big := root.Mkdir("big", 14, 15)
	for i := 1; i <= 20; i++ {
		big.AddFile(fmt.Sprintf("f%02d.txt", i), nil)
	}

	return img
}

func nullLogger() (logrus.FieldLogger, *test.Hook) {
	logger, hook := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return logger, hook
}

// testingNew opens the given image data and fails the test on any error.
func testingNew(t *testing.T, data []byte) *Image {
	t.Helper()
	logger, _ := nullLogger()
	img, err := New(bytes.NewReader(data), WithLogger(logger))
	if err != nil {
		t.Fatalf("could not open the test image: %v", err)
	}
	return img
}
