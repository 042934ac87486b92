package device

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/audiodevice"
	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/frame"
	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/portaudio"
	"github.com/google/uuid"
)

// PortAudioOutputDevice is an AudioSinkDevice that plays mono 16-bit audio
// to a PortAudio device over a blocking stream.
//
// Frames arriving on the source channel are written to the stream in order;
// the blocking write provides the pacing. When the source channel closes,
// the device stops and closes its stream.
type PortAudioOutputDevice struct {
	logger *slog.Logger
	uuid   uuid.UUID

	stream     *portaudio.Stream
	sampleRate int

	shutdownOnce sync.Once
	closed       chan struct{}
}

// NewPortAudioOutputDevice opens and starts a playback stream on the given
// PortAudio device index.
//
// The caller must have initialized PortAudio, and must keep it initialized
// until playback finishes.
func NewPortAudioOutputDevice(deviceIndex int, sampleRate int, framesPerBuffer int) (*PortAudioOutputDevice, error) {
	uuid := uuid.New()
	logger := slog.Default().With(
		"portaudio output device uuid", uuid,
	)

	stream, err := portaudio.OpenStream(-1, deviceIndex, float64(sampleRate), framesPerBuffer, portaudio.NoFlag)
	if err != nil {
		logger.Error("failed to open playback stream",
			"deviceIndex", deviceIndex,
			"sampleRate", sampleRate,
			"err", err,
		)
		return nil, fmt.Errorf("failed to open playback stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		logger.Error("failed to start playback stream", "err", err)
		return nil, fmt.Errorf("failed to start playback stream: %w", err)
	}

	logger.Debug("portaudio output device started",
		"deviceIndex", deviceIndex,
		"sampleRate", sampleRate,
		"framesPerBuffer", framesPerBuffer,
	)

	return &PortAudioOutputDevice{
		logger:     logger,
		uuid:       uuid,
		stream:     stream,
		sampleRate: sampleRate,
		closed:     make(chan struct{}),
	}, nil
}

// SetStream begins draining the given channel into the playback stream.
//
// The device closes itself once sourceChannel closes.
func (d *PortAudioOutputDevice) SetStream(sourceChannel <-chan frame.PCMFrame) {
	go func() {
		for pcmFrame := range sourceChannel {
			if err := d.stream.Write(pcmFrame); err != nil {
				d.logger.Error("error writing to playback stream", "err", err)
			}
		}
		d.close()
	}()
}

// WaitForClose blocks until the source channel has closed and the playback
// stream has been torn down.
func (d *PortAudioOutputDevice) WaitForClose() {
	<-d.closed
}

func (d *PortAudioOutputDevice) close() {
	d.shutdownOnce.Do(func() {
		if err := d.stream.Stop(); err != nil {
			d.logger.Error("error stopping playback stream", "err", err)
		}
		if err := d.stream.Close(); err != nil {
			d.logger.Error("error closing playback stream", "err", err)
		}
		close(d.closed)
		d.logger.Info("portaudio output device closed")
	})
}

// GetDeviceProperties returns the audio properties of this device.
// Playback streams are always mono.
func (d *PortAudioOutputDevice) GetDeviceProperties() audiodevice.DeviceProperties {
	return audiodevice.DeviceProperties{
		SampleRate:  d.sampleRate,
		NumChannels: 1,
	}
}
