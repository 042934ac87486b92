package audioapi

import (
	"fmt"
	"log/slog"

	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/audiodevice"
	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/audiodevice/device"
	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/portaudio"
	"github.com/google/uuid"
)

type PortAudioApi struct {
	logger *slog.Logger

	sampleRate      int
	framesPerBuffer int
}

// Create a new PortAudioApi. All devices it initializes capture or play at
// sampleRate, delivering framesPerBuffer samples per chunk.
//
// Initializes PortAudio; the caller should Terminate when done with the API
// and every device created through it.
func NewPortAudioApi(sampleRate int, framesPerBuffer int) (*PortAudioApi, error) {
	uuid := uuid.New()
	logger := slog.Default().With(
		"portaudio api uuid", uuid,
	)

	if err := portaudio.Initialize(); err != nil {
		logger.Error("failed to initialize portaudio", "err", err)
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}

	return &PortAudioApi{
		logger:          logger,
		sampleRate:      sampleRate,
		framesPerBuffer: framesPerBuffer,
	}, nil
}

// Terminate releases the host-audio library. Call once all devices created
// through this API are closed.
func (api *PortAudioApi) Terminate() error {
	return portaudio.Terminate()
}

// Filters PortAudio devices to get only input
func (api *PortAudioApi) InputDevices() []AudioIODevice {
	devices, err := portaudio.Devices()
	if err != nil {
		api.logger.Error("failed to enumerate devices", "err", err)
		return nil
	}

	inputDevices := make([]AudioIODevice, 0)

	for _, d := range devices {
		if d.MaxInputChannels > 0 {
			inputDevices = append(inputDevices, AudioIODevice{
				ID:   d.Index,
				Name: d.Name,
				DeviceProperties: audiodevice.DeviceProperties{
					SampleRate:  int(d.DefaultSampleRate),
					NumChannels: d.MaxInputChannels,
				},
			})
		}
	}

	return inputDevices
}

// Filters PortAudio devices to get only output
func (api *PortAudioApi) OutputDevices() []AudioIODevice {
	devices, err := portaudio.Devices()
	if err != nil {
		api.logger.Error("failed to enumerate devices", "err", err)
		return nil
	}

	outputDevices := make([]AudioIODevice, 0)

	for _, d := range devices {
		if d.MaxOutputChannels > 0 {
			outputDevices = append(outputDevices, AudioIODevice{
				ID:   d.Index,
				Name: d.Name,
				DeviceProperties: audiodevice.DeviceProperties{
					SampleRate:  int(d.DefaultSampleRate),
					NumChannels: d.MaxOutputChannels,
				},
			})
		}
	}

	return outputDevices
}

// InitInputDeviceFromID opens the given device for capture.
func (api *PortAudioApi) InitInputDeviceFromID(ioDevice AudioIODevice) (audiodevice.AudioSourceDevice, error) {
	info, err := portaudio.GetDeviceInfo(ioDevice.ID)
	if err != nil {
		return nil, fmt.Errorf("device with ID %d not found: %w", ioDevice.ID, err)
	}
	if info.MaxInputChannels == 0 {
		return nil, fmt.Errorf("device with ID %d has no input channels", ioDevice.ID)
	}

	return device.NewPortAudioInputDevice(ioDevice.ID, api.sampleRate, api.framesPerBuffer)
}

// InitDefaultInputDevice opens the host's default capture device.
func (api *PortAudioApi) InitDefaultInputDevice() (audiodevice.AudioSourceDevice, error) {
	info, err := portaudio.DefaultInputDevice()
	if err != nil {
		return nil, err
	}
	return api.InitInputDeviceFromID(AudioIODevice{
		ID:   info.Index,
		Name: info.Name,
		DeviceProperties: audiodevice.DeviceProperties{
			SampleRate:  int(info.DefaultSampleRate),
			NumChannels: info.MaxInputChannels,
		},
	})
}

// InitOutputDeviceFromID opens the given device for playback.
func (api *PortAudioApi) InitOutputDeviceFromID(ioDevice AudioIODevice) (audiodevice.AudioSinkDevice, error) {
	info, err := portaudio.GetDeviceInfo(ioDevice.ID)
	if err != nil {
		return nil, fmt.Errorf("device with ID %d not found: %w", ioDevice.ID, err)
	}
	if info.MaxOutputChannels == 0 {
		return nil, fmt.Errorf("device with ID %d has no output channels", ioDevice.ID)
	}

	return device.NewPortAudioOutputDevice(ioDevice.ID, api.sampleRate, api.framesPerBuffer)
}

// InitDefaultOutputDevice opens the host's default playback device.
func (api *PortAudioApi) InitDefaultOutputDevice() (audiodevice.AudioSinkDevice, error) {
	info, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return nil, err
	}
	return api.InitOutputDeviceFromID(AudioIODevice{
		ID:   info.Index,
		Name: info.Name,
		DeviceProperties: audiodevice.DeviceProperties{
			SampleRate:  int(info.DefaultSampleRate),
			NumChannels: info.MaxOutputChannels,
		},
	})
}
