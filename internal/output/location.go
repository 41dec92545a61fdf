package output

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultSubdirectory is the directory created under the root when no other
// name has been configured.
const DefaultSubdirectory = ".screenshots"

// Location describes where screenshots are written.
//
// A Location is an immutable value: the With* methods return modified copies
// and never touch the receiver.
//
// Every path produced by Resolve lies inside Root. Malformed subdirectory
// names and file names are sanitized instead of rejected, so callers always
// get a usable path back.
type Location struct {
	root            string
	subdirectory    string
	useRootDirectly bool
}

// NewLocation creates a Location rooted at root with the given subdirectory.
// An empty root means the current working directory.
func NewLocation(root, subdirectory string) Location {
	return Location{
		root:         absRoot(root),
		subdirectory: sanitizeDirectoryName(subdirectory),
	}
}

// WithSubdirectory returns a copy using the sanitized subdirectory name.
func (l Location) WithSubdirectory(name string) Location {
	l.subdirectory = sanitizeDirectoryName(name)
	return l
}

// WithRoot returns a copy rooted at the absolute form of dir. When
// useDirectly is true the subdirectory is not appended to the root.
func (l Location) WithRoot(dir string, useDirectly bool) Location {
	l.root = absRoot(dir)
	l.useRootDirectly = useDirectly
	return l
}

// OutputPath returns the absolute directory screenshots are written to.
func (l Location) OutputPath() string {
	if l.useRootDirectly {
		return l.root
	}
	return filepath.Join(l.root, l.subdirectory)
}

// Resolve returns the output directory when filename is empty, otherwise the
// absolute path of filename inside the output directory. Only the final path
// segment of filename is kept.
func (l Location) Resolve(filename string) string {
	dir := l.OutputPath()
	if filename == "" {
		return dir
	}
	return filepath.Join(dir, sanitizeFilename(filename))
}

// Root returns the absolute root directory.
func (l Location) Root() string { return l.root }

// Subdirectory returns the sanitized subdirectory name.
func (l Location) Subdirectory() string { return l.subdirectory }

// UsingRootDirectly reports whether the subdirectory is bypassed.
func (l Location) UsingRootDirectly() bool { return l.useRootDirectly }

// sanitizeDirectoryName turns name into a single path segment. Separators
// become '-' and every ".." is replaced, so a leading dot (".screenshots")
// survives but parent references do not.
func sanitizeDirectoryName(name string) string {
	sanitized := strings.NewReplacer("/", "-", "\\", "-").Replace(name)
	return strings.ReplaceAll(sanitized, "..", "-")
}

// sanitizeFilename keeps the final segment of filename. Names that collapse
// to a directory reference are replaced with "_".
func sanitizeFilename(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	switch base {
	case ".", "..", "/":
		return "_"
	}
	if base == string(filepath.Separator) {
		return "_"
	}
	return base
}

func absRoot(dir string) string {
	if dir == "" {
		if wd, err := os.Getwd(); err == nil {
			return wd
		}
		dir = "."
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return filepath.Clean(dir)
	}
	return abs
}
