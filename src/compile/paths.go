package compile

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// ErrUnsafeName is returned for file names that would escape their root.
var ErrUnsafeName = errors.New("unsafe file name")

// ResolveName joins a wire file name onto root. Names are slash separated
// and relative; anything that cleans to a path outside root is rejected.
func ResolveName(root, name string) (string, error) {
	if name == "" || strings.HasPrefix(name, "/") || strings.Contains(name, "\\") || filepath.IsAbs(name) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	clean := filepath.Clean(filepath.FromSlash(name))
	if clean == "." || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrUnsafeName, name)
	}
	return filepath.Join(root, clean), nil
}
