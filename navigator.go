package fatnav

import (
	"errors"
	"fmt"
	"strings"

	"github.com/aligator/fatnav/checkpoint"
	"github.com/sirupsen/logrus"
)

// Navigator keeps track of the current directory of an image.
// The entries of the current directory are read once and cached until the directory changes.
type Navigator struct {
	src chainReader
	log logrus.FieldLogger

	cluster uint32
	crumbs  breadcrumb
	entries []DirEntry
	cached  bool
}

// navigationState is everything needed to undo a failed directory change.
type navigationState struct {
	cluster uint32
	crumbs  breadcrumb
	entries []DirEntry
	cached  bool
}

// DisplayEntry is a directory entry as it is listed to the user.
type DisplayEntry struct {
	Name    string
	IsDir   bool
	Size    uint32
	Cluster uint32
}

// Navigator returns a new Navigator which starts in the root directory.
func (img *Image) Navigator() *Navigator {
	return newNavigator(img, img.log)
}

func newNavigator(src chainReader, log logrus.FieldLogger) *Navigator {
	n := &Navigator{
		src: src,
		log: log,
	}
	n.ResetToRoot()
	return n
}

// Cluster returns the first cluster of the current directory.
func (n *Navigator) Cluster() uint32 {
	return n.cluster
}

// Breadcrumb returns the path of the current directory, built from the names the user typed.
func (n *Navigator) Breadcrumb() string {
	return n.crumbs.String()
}

// ResetToRoot moves to the root directory.
func (n *Navigator) ResetToRoot() {
	n.moveTo(n.src.geometry().RootCluster)
	n.crumbs = nil
}

func (n *Navigator) atRoot() bool {
	return n.cluster == n.src.geometry().RootCluster
}

func (n *Navigator) moveTo(cluster uint32) {
	n.cluster = cluster
	n.entries = nil
	n.cached = false
}

func (n *Navigator) snapshot() navigationState {
	return navigationState{
		cluster: n.cluster,
		crumbs:  n.crumbs.clone(),
		entries: n.entries,
		cached:  n.cached,
	}
}

func (n *Navigator) restore(state navigationState) {
	n.cluster = state.cluster
	n.crumbs = state.crumbs
	n.entries = state.entries
	n.cached = state.cached
}

// Entries returns all raw entries of the current directory.
func (n *Navigator) Entries() ([]DirEntry, error) {
	if n.cached {
		return n.entries, nil
	}

	entries, err := readEntries(n.src, n.cluster, n.log)
	if err != nil {
		return nil, checkpoint.From(err)
	}

	n.entries = entries
	n.cached = true
	return entries, nil
}

// List returns the entries of the current directory which are shown to the user.
func (n *Navigator) List() ([]DisplayEntry, error) {
	entries, err := n.Entries()
	if err != nil {
		return nil, checkpoint.From(err)
	}

	var result []DisplayEntry
	for _, entry := range entries {
		if !entry.Visible() {
			continue
		}
		result = append(result, DisplayEntry{
			Name:    entry.DisplayName(),
			IsDir:   entry.IsDir(),
			Size:    entry.Size,
			Cluster: entry.Cluster,
		})
	}
	return result, nil
}

// Lookup returns the first entry of the current directory with the given short name.
func (n *Navigator) Lookup(name ShortName) (DirEntry, error) {
	entries, err := n.Entries()
	if err != nil {
		return DirEntry{}, checkpoint.From(err)
	}

	for _, entry := range entries {
		if entry.Usable() && entry.Name == name {
			return entry, nil
		}
	}

	return DirEntry{}, checkpoint.Wrap(fmt.Errorf("no entry %q", name.String()), ErrEntryNotFound)
}

// ChangeDir changes the directory like the cd command does.
// "/" moves to the root, a path starting with a separator is resolved from the root,
// a path containing separators is resolved step by step from the current directory.
// Both "/" and "\" are accepted as separators.
func (n *Navigator) ChangeDir(input string) error {
	switch {
	case input == "":
		return checkpoint.Wrap(fmt.Errorf("no directory given"), ErrInvalidName)
	case input == "/" || input == `\`:
		n.ResetToRoot()
		return nil
	case isSeparator(rune(input[0])):
		return n.CdPath(input, true)
	case strings.ContainsAny(input, `/\`):
		return n.CdPath(input, false)
	default:
		return n.Cd(input)
	}
}

// CdPath changes the directory one path component after another.
// If any step fails, the directory is the same as before the call.
func (n *Navigator) CdPath(path string, absolute bool) error {
	before := n.snapshot()

	if absolute {
		n.ResetToRoot()
	}

	for _, segment := range strings.FieldsFunc(path, isSeparator) {
		if err := n.Cd(segment); err != nil {
			n.log.WithFields(logrus.Fields{
				"path":    path,
				"segment": segment,
			}).Debug("restoring directory after failed change")
			n.restore(before)
			return checkpoint.Wrap(err, ErrPathNotFound)
		}
	}

	return nil
}

// Cd changes into a single directory of the current directory, "." or "..".
func (n *Navigator) Cd(token string) error {
	name, kind := EncodeName(token)
	log := n.log.WithFields(logrus.Fields{
		"name": token,
		"kind": kind,
	})

	switch kind {
	case KindInvalid:
		return checkpoint.Wrap(fmt.Errorf("%q", token), ErrInvalidName)
	case KindFile:
		return checkpoint.Wrap(fmt.Errorf("%q", token), ErrNotADirectory)
	}

	// The root directory has no dot entries.
	if (kind == KindDot || kind == KindDotDot) && n.atRoot() {
		return checkpoint.Wrap(fmt.Errorf("%q in the root directory", token), ErrInvalidName)
	}

	switch kind {
	case KindDot:
		return nil
	case KindDotDot:
		return n.cdParent(log)
	}

	entry, err := n.Lookup(name)
	if errors.Is(err, ErrEntryNotFound) {
		return checkpoint.Wrap(err, ErrPathNotFound)
	}
	if err != nil {
		return checkpoint.From(err)
	}

	if !entry.IsDir() {
		return checkpoint.Wrap(fmt.Errorf("%q", token), ErrNotADirectory)
	}

	if entry.Cluster == 0 {
		log.Debug("directory points to cluster 0, using the root directory")
		n.ResetToRoot()
		return nil
	}

	n.moveTo(entry.Cluster)
	n.crumbs = n.crumbs.push(token)
	log.WithField("cluster", n.cluster).Debug("changed directory")
	return nil
}

// cdParent uses the ".." entry, which is always the second entry of a sub directory.
func (n *Navigator) cdParent(log logrus.FieldLogger) error {
	entries, err := n.Entries()
	if err != nil {
		return checkpoint.From(err)
	}

	if len(entries) < 2 || entries[1].Name != dotDotName {
		return checkpoint.Wrap(fmt.Errorf("directory at cluster %v has no parent entry", n.cluster), ErrPathNotFound)
	}

	parent := entries[1].Cluster
	if parent == 0 || parent == n.src.geometry().RootCluster {
		log.Debug("parent is the root directory")
		n.ResetToRoot()
		return nil
	}

	n.moveTo(parent)
	n.crumbs = n.crumbs.pop()
	log.WithField("cluster", n.cluster).Debug("changed to parent directory")
	return nil
}

func isSeparator(r rune) bool {
	return r == '/' || r == '\\'
}
