// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package pipe

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

var (
	// ErrWouldBlock reports that a non-blocking operation could not make
	// progress. It is iox.ErrWouldBlock, so iox classifiers apply.
	ErrWouldBlock = iox.ErrWouldBlock

	// ErrOutOfMemory reports that the first Open could not allocate the
	// ring storage. No counter was modified.
	ErrOutOfMemory = errors.New("pipe: out of memory")

	// ErrInterrupted reports that a blocking wait was cancelled.
	// The returned error also wraps the context cause.
	ErrInterrupted = errors.New("pipe: interrupted")

	// ErrInvalidArgument reports a malformed request, rejected before
	// the pipe lock is taken.
	ErrInvalidArgument = errors.New("pipe: invalid argument")

	// ErrClosed reports use of a handle after Close.
	ErrClosed = errors.New("pipe: handle closed")

	// ErrBadMode reports a read on a write-only handle or a write on a
	// read-only handle.
	ErrBadMode = errors.New("pipe: operation not permitted by open mode")

	// ErrBusy reports a device that still has openers.
	ErrBusy = errors.New("pipe: device busy")

	// ErrNoDevice reports a registry lookup outside the configured devices.
	ErrNoDevice = errors.New("pipe: no such device")
)

// interrupted wraps cause so that both ErrInterrupted and cause match.
func interrupted(cause error) error {
	return fmt.Errorf("%w: %w", ErrInterrupted, cause)
}

// IsWouldBlock reports whether err is ErrWouldBlock.
// Delegates to iox for ecosystem consistency.
func IsWouldBlock(err error) bool {
	return iox.IsWouldBlock(err)
}

// IsInterrupted reports whether err is a cancelled wait.
func IsInterrupted(err error) bool {
	return errors.Is(err, ErrInterrupted)
}
