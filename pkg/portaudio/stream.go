package portaudio

/*
#include <portaudio.h>
*/
import "C"

import (
	"unsafe"
)

// StreamFlags carry special open-time options, combined by OR.
type StreamFlags C.PaStreamFlags

const (
	NoFlag         StreamFlags = C.paNoFlag
	ClipOff        StreamFlags = C.paClipOff
	DitherOff      StreamFlags = C.paDitherOff
	NeverDropInput StreamFlags = C.paNeverDropInput
)

// Stream is an open audio stream bound to at most one input device and at
// most one output device, transferring mono signed 16-bit PCM in blocking
// mode.
//
// A Stream moves through Opened, Active, Stopped and Closed states: Start
// makes it Active, Stop makes it Stopped (Start may follow again), Close is
// terminal. Read and Write are defined only while Active. The binding adds
// no locking; operations on one Stream must be serialized by the caller.
type Stream struct {
	stream     unsafe.Pointer
	hasInput   bool
	hasOutput  bool
	sampleRate float64
}

// OpenStream opens a blocking-mode stream on the given devices.
//
// A negative device index disables that direction entirely: the
// corresponding parameter block is not passed to PortAudio at all. For each
// enabled direction the parameters are fixed to one channel of paInt16 with
// the device's default low latency for that direction and no host-API
// specific extension.
func OpenStream(inputDevice, outputDevice int, sampleRate float64, framesPerBuffer int, flags StreamFlags) (*Stream, error) {
	var inputParams, outputParams *C.PaStreamParameters

	if inputDevice >= 0 {
		info := C.Pa_GetDeviceInfo(C.PaDeviceIndex(inputDevice))
		if info == nil {
			return nil, Error(C.paInvalidDevice)
		}
		inputParams = &C.PaStreamParameters{
			device:           C.PaDeviceIndex(inputDevice),
			channelCount:     1,
			sampleFormat:     C.paInt16,
			suggestedLatency: info.defaultLowInputLatency,
		}
	}

	if outputDevice >= 0 {
		info := C.Pa_GetDeviceInfo(C.PaDeviceIndex(outputDevice))
		if info == nil {
			return nil, Error(C.paInvalidDevice)
		}
		outputParams = &C.PaStreamParameters{
			device:           C.PaDeviceIndex(outputDevice),
			channelCount:     1,
			sampleFormat:     C.paInt16,
			suggestedLatency: info.defaultLowOutputLatency,
		}
	}

	stream := &Stream{
		hasInput:   inputDevice >= 0,
		hasOutput:  outputDevice >= 0,
		sampleRate: sampleRate,
	}

	// No callback: PortAudio runs the stream in blocking read/write mode.
	rc := C.Pa_OpenStream(
		&stream.stream,
		inputParams,
		outputParams,
		C.double(sampleRate),
		C.ulong(framesPerBuffer),
		C.PaStreamFlags(flags),
		nil,
		nil,
	)
	if err := newError(rc); err != nil {
		return nil, err
	}
	return stream, nil
}

// Start begins audio transfer.
func (s *Stream) Start() error {
	return newError(C.Pa_StartStream(s.stream))
}

// Stop halts audio transfer after pending buffers drain. The stream stays
// open and may be started again.
func (s *Stream) Stop() error {
	return newError(C.Pa_StopStream(s.stream))
}

// Close releases the stream. The Stream must not be used afterwards.
func (s *Stream) Close() error {
	return newError(C.Pa_CloseStream(s.stream))
}

// IsActive reports whether the stream is transferring audio. The error, when
// non-nil, carries the PortAudio code.
func (s *Stream) IsActive() (bool, error) {
	rc := C.Pa_IsStreamActive(s.stream)
	if rc < 0 {
		return false, Error(rc)
	}
	return rc == 1, nil
}

// Read blocks until len(buf) frames have been captured into buf.
//
// Reading from a stream opened without an input device fails with
// PortAudio's "can't read from an output only stream" error.
func (s *Stream) Read(buf []int16) error {
	return newError(C.Pa_ReadStream(s.stream, unsafe.Pointer(unsafe.SliceData(buf)), C.ulong(len(buf))))
}

// Write blocks until len(buf) frames have been queued for playback.
//
// Writing to a stream opened without an output device fails with PortAudio's
// "can't write to an input only stream" error.
func (s *Stream) Write(buf []int16) error {
	return newError(C.Pa_WriteStream(s.stream, unsafe.Pointer(unsafe.SliceData(buf)), C.ulong(len(buf))))
}

// HasInput reports whether the stream was opened with a capture direction.
func (s *Stream) HasInput() bool {
	return s.hasInput
}

// HasOutput reports whether the stream was opened with a playback direction.
func (s *Stream) HasOutput() bool {
	return s.hasOutput
}

// SampleRate returns the rate the stream was opened at, in hertz.
func (s *Stream) SampleRate() float64 {
	return s.sampleRate
}
