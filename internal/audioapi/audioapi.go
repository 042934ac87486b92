package audioapi

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/audiodevice"
)

var errNoDeviceWithID = errors.New("no device with the given ID")

type AudioIODevice struct {
	// The ID of the device.
	//
	// Comes from the underlying host-audio library (the PortAudio device
	// index), and is the canonical way to reference the AudioIODevice
	// (e.g. a microphone or speaker) when asking the API to open it.
	ID int

	// A human-readable name for the device, if one exists.
	// Not necessary, and not canonical.
	Name string

	// The device properties (sample rate and channels) of this device.
	DeviceProperties audiodevice.DeviceProperties
}

func (device AudioIODevice) String() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "ID:          %d\n", device.ID)
	fmt.Fprintf(&sb, "Name:        %s\n", device.Name)
	fmt.Fprintf(&sb, "SampleRate:  %d\n", device.DeviceProperties.SampleRate)
	fmt.Fprintf(&sb, "NumChannels: %d\n", device.DeviceProperties.NumChannels)
	return sb.String()
}

// Define an API to interface with hardware devices.
// Intended to be an abstract way to:
//   - Query existing devices (input and output)
//   - Initialize an input/output device as an AudioSourceDevice/AudioSinkDevice respectively
type AudioIODeviceAPI interface {
	InputDevices() []AudioIODevice
	InitInputDeviceFromID(AudioIODevice) (audiodevice.AudioSourceDevice, error)
	InitDefaultInputDevice() (audiodevice.AudioSourceDevice, error)

	OutputDevices() []AudioIODevice
	InitOutputDeviceFromID(AudioIODevice) (audiodevice.AudioSinkDevice, error)
	InitDefaultOutputDevice() (audiodevice.AudioSinkDevice, error)
}
