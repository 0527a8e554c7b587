package fatnav

import (
	"bytes"
	"strings"
)

const (
	shortNameLength = 8
	shortExtLength  = 3

	// maxEnteredNameLength is 8 name characters, the dot and 3 extension characters.
	maxEnteredNameLength = shortNameLength + 1 + shortExtLength
)

// ShortName is the 11 byte 8.3 name as it is stored in a directory entry.
// The name and the extension are both padded with spaces.
type ShortName [shortNameLength + shortExtLength]byte

var (
	dotName    = ShortName{'.', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}
	dotDotName = ShortName{'.', '.', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' ', ' '}
)

// NameKind tells what kind of entry a name typed by the user refers to.
type NameKind int

const (
	KindInvalid NameKind = iota
	KindFile
	KindDirectory
	KindDot
	KindDotDot
)

func (k NameKind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDirectory:
		return "directory"
	case KindDot:
		return "dot"
	case KindDotDot:
		return "dotdot"
	default:
		return "invalid"
	}
}

// IsDir reports whether the name can only refer to a directory.
func (k NameKind) IsDir() bool {
	return k == KindDirectory || k == KindDot || k == KindDotDot
}

// EncodeName converts a name typed by the user into the 8.3 name stored on disk.
//
// A name without extension ("foo" or "foo.") is treated as directory, a name with an extension as file.
// "." and ".." are only valid as they are, any other name starting with a dot is invalid,
// because the first byte of the stored name would be a space.
func EncodeName(input string) (ShortName, NameKind) {
	var name ShortName
	for i := range name {
		name[i] = ' '
	}

	if len(input) == 0 || len(input) > maxEnteredNameLength {
		return name, KindInvalid
	}

	switch {
	case input == ".":
		return dotName, KindDot
	case input == "..":
		return dotDotName, KindDotDot
	case input[0] == '.':
		return name, KindInvalid
	}

	upper := strings.ToUpper(input)
	dot := strings.IndexByte(upper, '.')
	if dot == -1 {
		if len(upper) > len(name) {
			return name, KindInvalid
		}
		copy(name[:], upper)
		return name, KindDirectory
	}

	if dot > shortNameLength {
		return name, KindInvalid
	}

	ext := upper[dot+1:]
	if len(ext) > shortExtLength {
		return name, KindInvalid
	}

	copy(name[:dot], upper[:dot])

	// "foo." resolves to "FOO", which names a directory.
	if ext == "" {
		return name, KindDirectory
	}

	copy(name[shortNameLength:], ext)
	return name, KindFile
}

// DecodeName converts the raw name of an entry into the lower case name displayed to the user.
func DecodeName(raw ShortName, attr Attr) string {
	return raw.Display(attr.IsDir())
}

// Display returns the lower case display name.
// The extension is only shown for files.
func (n ShortName) Display(isDir bool) string {
	lower := bytes.ToLower(n[:])
	name := strings.TrimRight(string(lower[:shortNameLength]), " ")
	ext := strings.TrimRight(string(lower[shortNameLength:]), " ")

	if ext == "" || isDir {
		return name
	}

	return name + "." + ext
}

// String returns the raw name including the padding.
func (n ShortName) String() string {
	return string(n[:])
}
