package fatnav

import "strings"

// RootMarker is the breadcrumb of the root directory.
const RootMarker = "/"

// breadcrumb is the path of the current directory as the user typed it.
type breadcrumb []string

func (b breadcrumb) push(segment string) breadcrumb {
	return append(b, segment)
}

func (b breadcrumb) pop() breadcrumb {
	if len(b) == 0 {
		return b
	}
	return b[:len(b)-1]
}

func (b breadcrumb) clone() breadcrumb {
	return append(breadcrumb(nil), b...)
}

func (b breadcrumb) String() string {
	return RootMarker + strings.Join(b, "/")
}
