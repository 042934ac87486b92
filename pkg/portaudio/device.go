package portaudio

/*
#include <portaudio.h>
*/
import "C"

import (
	"errors"
	"unsafe"
)

var (
	errNoDefaultInputDevice  = errors.New("no default input device available")
	errNoDefaultOutputDevice = errors.New("no default output device available")
	errInvalidDeviceIndex    = errors.New("invalid device index")
)

// Time in seconds, as PortAudio reports latencies (maps to a C double).
type Time float64

// DeviceInfo describes one device visible to the host library.
//
// The struct is a copy; it stays valid after Terminate, unlike the
// library-owned storage it was read from.
type DeviceInfo struct {
	// Index is the PortAudio device index used when opening streams.
	Index int

	// Name is a human-readable device name from the host API.
	Name string

	MaxInputChannels  int
	MaxOutputChannels int

	DefaultLowInputLatency   Time
	DefaultLowOutputLatency  Time
	DefaultHighInputLatency  Time
	DefaultHighOutputLatency Time

	DefaultSampleRate float64
}

// DeviceCount returns the number of devices visible to the host library.
func DeviceCount() (int, error) {
	count := int(C.Pa_GetDeviceCount())
	if count < 0 {
		return 0, Error(count)
	}
	return count, nil
}

// GetDeviceInfo looks up the device at the given index.
func GetDeviceInfo(index int) (*DeviceInfo, error) {
	info := C.Pa_GetDeviceInfo(C.PaDeviceIndex(index))
	if info == nil {
		return nil, errInvalidDeviceIndex
	}

	return &DeviceInfo{
		Index:                    index,
		Name:                     C.GoString(info.name),
		MaxInputChannels:         int(info.maxInputChannels),
		MaxOutputChannels:        int(info.maxOutputChannels),
		DefaultLowInputLatency:   Time(info.defaultLowInputLatency),
		DefaultLowOutputLatency:  Time(info.defaultLowOutputLatency),
		DefaultHighInputLatency:  Time(info.defaultHighInputLatency),
		DefaultHighOutputLatency: Time(info.defaultHighOutputLatency),
		DefaultSampleRate:        float64(info.defaultSampleRate),
	}, nil
}

// RawDeviceInfo returns the library-owned PaDeviceInfo storage for the given
// index, for re-export across an FFI boundary. The pointer is valid only
// while the library remains initialized, and is nil for an invalid index.
func RawDeviceInfo(index int) unsafe.Pointer {
	return unsafe.Pointer(C.Pa_GetDeviceInfo(C.PaDeviceIndex(index)))
}

// Devices enumerates all visible devices.
func Devices() ([]*DeviceInfo, error) {
	count, err := DeviceCount()
	if err != nil {
		return nil, err
	}

	devices := make([]*DeviceInfo, count)
	for i := range count {
		devices[i], err = GetDeviceInfo(i)
		if err != nil {
			return nil, err
		}
	}
	return devices, nil
}

// DefaultInputDeviceIndex returns the default capture device index, negative
// when the host has none.
func DefaultInputDeviceIndex() int {
	return int(C.Pa_GetDefaultInputDevice())
}

// DefaultOutputDeviceIndex returns the default playback device index,
// negative when the host has none.
func DefaultOutputDeviceIndex() int {
	return int(C.Pa_GetDefaultOutputDevice())
}

// DefaultInputDevice looks up the default capture device.
func DefaultInputDevice() (*DeviceInfo, error) {
	index := DefaultInputDeviceIndex()
	if index < 0 {
		return nil, errNoDefaultInputDevice
	}
	return GetDeviceInfo(index)
}

// DefaultOutputDevice looks up the default playback device.
func DefaultOutputDevice() (*DeviceInfo, error) {
	index := DefaultOutputDeviceIndex()
	if index < 0 {
		return nil, errNoDefaultOutputDevice
	}
	return GetDeviceInfo(index)
}
