//go:build unix

package screenshot

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// errnoCode returns the symbolic errno name in err ("EACCES", "ENOSPC", ...)
// or "" when err does not carry one.
func errnoCode(err error) string {
	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return ""
	}
	return unix.ErrnoName(errno)
}
