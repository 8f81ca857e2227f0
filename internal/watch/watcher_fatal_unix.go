// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package watch

import (
	"errors"
	"syscall"
)

// fatalWatchError reports inotify resource exhaustion: the watch limit
// (ENOSPC) or the per-process and system descriptor limits (EMFILE, ENFILE).
func fatalWatchError(err error) bool {
	return errors.Is(err, syscall.ENOSPC) ||
		errors.Is(err, syscall.EMFILE) ||
		errors.Is(err, syscall.ENFILE)
}
