// Package portaudio binds the PortAudio host-audio library for device
// enumeration and blocking-mode stream I/O.
//
// The binding is deliberately narrow: streams are always mono, signed 16-bit
// PCM, and blocking (no callback mode). This matches the only format the
// codec layer consumes and keeps the surface flat enough to re-export over a
// foreign-function boundary. Every PortAudio error code reaches the caller
// verbatim via the Error type.
package portaudio

/*
#cgo pkg-config: portaudio-2.0
#include <portaudio.h>
*/
import "C"

import (
	"fmt"
	"sync"
	"unsafe"
)

// Error carries a PortAudio error code unchanged.
type Error int

func (err Error) Error() string {
	return fmt.Sprintf("portaudio: %v", GetErrorText(int(err)))
}

// Code returns the native PortAudio error code (negative).
func (err Error) Code() int {
	return int(err)
}

// ErrBadStreamPtr is the code PortAudio reports for an invalid stream
// handle. The FFI layer reuses it when a token fails to resolve.
const ErrBadStreamPtr Error = C.paBadStreamPtr

// ErrBadBufferPtr is the code PortAudio reports for an invalid buffer. The
// FFI layer reuses it when a caller passes a negative frame count.
const ErrBadBufferPtr Error = C.paBadBufferPtr

// ErrNotInitialized is the code PortAudio reports for calls made before
// Initialize (or after the matching Terminate).
const ErrNotInitialized Error = C.paNotInitialized

// newError converts a PortAudio result to a Go error, nil on paNoError.
func newError(code C.PaError) error {
	if code == C.paNoError {
		return nil
	}
	return Error(code)
}

// GetErrorText returns the human-readable message for a PortAudio error code.
func GetErrorText(errorCode int) string {
	return C.GoString(C.Pa_GetErrorText(C.PaError(errorCode)))
}

// RawErrorText returns PortAudio's own statically allocated, null-terminated
// message for errorCode, for re-export across an FFI boundary. The storage is
// library-owned and must not be freed.
func RawErrorText(errorCode int) unsafe.Pointer {
	return unsafe.Pointer(C.Pa_GetErrorText(C.PaError(errorCode)))
}

// VersionText returns the PortAudio version identifier.
func VersionText() string {
	return C.GoString(C.Pa_GetVersionInfo().versionText)
}

// PortAudio initialization is process-wide. The counter mirrors PortAudio's
// own reference counting so that balanced Initialize/Terminate pairs from
// independent parts of the process behave as expected.
var (
	initialized int
	initMu      sync.Mutex
)

// Initialize initializes the PortAudio library and scans for devices.
//
// Each successful call must be balanced with a call to Terminate. Nested
// pairs are fine; the library is only torn down when the last Terminate runs.
func Initialize() error {
	initMu.Lock()
	defer initMu.Unlock()

	if err := newError(C.Pa_Initialize()); err != nil {
		return err
	}
	initialized++
	return nil
}

// Terminate releases the PortAudio library, matching a prior Initialize.
//
// An unbalanced Terminate is handed to the library anyway, so the caller
// sees PortAudio's own paNotInitialized code rather than a silent success.
// Terminating with open streams aborts them; close streams first.
func Terminate() error {
	initMu.Lock()
	defer initMu.Unlock()

	if err := newError(C.Pa_Terminate()); err != nil {
		return err
	}
	if initialized > 0 {
		initialized--
	}
	return nil
}
