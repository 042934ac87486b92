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

// PortAudioInputDevice is an AudioSourceDevice that captures mono 16-bit
// audio from a PortAudio device over a blocking stream.
//
// A goroutine owns the stream and performs the blocking reads, feeding
// captured frames into the channel returned by GetStream. Streams opened by
// this device are always mono; the conversion device can widen downstream
// if a pipeline needs stereo.
type PortAudioInputDevice struct {
	logger *slog.Logger
	uuid   uuid.UUID

	stream          *portaudio.Stream
	sampleRate      int
	framesPerBuffer int
	dataChannel     chan frame.PCMFrame
	done            chan struct{}

	shutdownOnce sync.Once
	readerWg     sync.WaitGroup
}

// NewPortAudioInputDevice opens and starts a capture stream on the given
// PortAudio device index. framesPerBuffer determines the size of delivered
// chunks (typically 512 or 960).
//
// The caller must have initialized PortAudio, and must keep it initialized
// until the device is closed.
func NewPortAudioInputDevice(deviceIndex int, sampleRate int, framesPerBuffer int) (*PortAudioInputDevice, error) {
	uuid := uuid.New()
	logger := slog.Default().With(
		"portaudio input device uuid", uuid,
	)

	stream, err := portaudio.OpenStream(deviceIndex, -1, float64(sampleRate), framesPerBuffer, portaudio.NoFlag)
	if err != nil {
		logger.Error("failed to open capture stream",
			"deviceIndex", deviceIndex,
			"sampleRate", sampleRate,
			"err", err,
		)
		return nil, fmt.Errorf("failed to open capture stream: %w", err)
	}

	if err := stream.Start(); err != nil {
		stream.Close()
		logger.Error("failed to start capture stream", "err", err)
		return nil, fmt.Errorf("failed to start capture stream: %w", err)
	}

	device := &PortAudioInputDevice{
		logger:          logger,
		uuid:            uuid,
		stream:          stream,
		sampleRate:      sampleRate,
		framesPerBuffer: framesPerBuffer,
		dataChannel:     make(chan frame.PCMFrame, 10), // Buffer up to 10 chunks
		done:            make(chan struct{}),
	}

	device.readerWg.Add(1)
	go device.readLoop()

	logger.Debug("portaudio input device started",
		"deviceIndex", deviceIndex,
		"sampleRate", sampleRate,
		"framesPerBuffer", framesPerBuffer,
	)

	return device, nil
}

// readLoop blocks on the capture stream and forwards each filled buffer.
func (d *PortAudioInputDevice) readLoop() {
	defer d.readerWg.Done()

	for {
		select {
		case <-d.done:
			return
		default:
		}

		pcmFrame := make(frame.PCMFrame, d.framesPerBuffer)
		if err := d.stream.Read(pcmFrame); err != nil {
			select {
			case <-d.done:
				// Close raced the blocking read; the error is expected.
			default:
				d.logger.Error("error reading from capture stream", "err", err)
			}
			return
		}

		select {
		case d.dataChannel <- pcmFrame:
		case <-d.done:
			return
		default:
			d.logger.Warn("audio input buffer full, dropping frame")
		}
	}
}

// GetStream returns the channel that receives captured PCM frames.
func (d *PortAudioInputDevice) GetStream() <-chan frame.PCMFrame {
	return d.dataChannel
}

// Close stops the capture stream and cleans up resources.
func (d *PortAudioInputDevice) Close() {
	d.logger.Debug("shutdown called")
	d.shutdownOnce.Do(func() {
		close(d.done)

		// Stopping the stream unblocks a pending Read so the reader can exit.
		if err := d.stream.Stop(); err != nil {
			d.logger.Error("error stopping capture stream", "err", err)
		}
		d.readerWg.Wait()

		if err := d.stream.Close(); err != nil {
			d.logger.Error("error closing capture stream", "err", err)
		}

		close(d.dataChannel)
		d.logger.Info("portaudio input device closed")
	})
}

// GetDeviceProperties returns the audio properties of this device.
// Capture streams are always mono.
func (d *PortAudioInputDevice) GetDeviceProperties() audiodevice.DeviceProperties {
	return audiodevice.DeviceProperties{
		SampleRate:  d.sampleRate,
		NumChannels: 1,
	}
}
