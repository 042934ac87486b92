package device

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/audiodevice"
	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/frame"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/google/uuid"
)

// --------------------------------------------------------------------------------
// FileAudioInputDevice

// Define an AudioSourceDevice that reads from a .WAV file and sends the
// resulting PCM frames in real time.
//
// The file must hold 16-bit PCM; the sample rate and channel count are taken
// from the file header.
type FileAudioInputDevice struct {
	logger *slog.Logger
	uuid   uuid.UUID

	shutdownOnce sync.Once

	decoder         *wav.Decoder
	fileHandle      *os.File
	frameDuration   time.Duration
	samplesPerFrame int
	sinkStream      chan frame.PCMFrame
}

// Make a new FileAudioInputDevice from a .WAV file (on the audioFilePath).
//
// The device will play audio from the .WAV file along the channel returned
// by GetStream. The sample rate is determined by the file, but the duration
// between frames is determined by the frameDuration parameter.
//
// Be careful choosing the frameDuration. For example, for Opus encoding,
// the frameDuration must be one of 2.5, 5, 10, 20, 40, or 60 ms. 20ms is common.
func NewFileAudioInputDevice(
	audioFilePath string,
	frameDuration time.Duration,
) (*FileAudioInputDevice, error) {
	uuid := uuid.New()
	logger := slog.Default().With(
		"file input device uuid", uuid,
	)

	f, err := os.Open(audioFilePath)
	if err != nil {
		logger.Error(
			"could not open audio file",
			"audioFile", audioFilePath,
			"err", err,
		)
		return nil, err
	}

	decoder := wav.NewDecoder(f)

	if !decoder.IsValidFile() {
		f.Close()
		logger.Error(
			"could not decode audio file",
			"audioFile", audioFilePath,
			"err", decoder.Err(),
		)
		return nil, errors.New("error while decoding audio file")
	}

	samplesPerFrame := int(float64(decoder.NumChans) * float64(decoder.SampleRate) *
		float64(frameDuration) / float64(time.Second))
	if samplesPerFrame <= 0 {
		f.Close()
		logger.Error(
			"non-positive samples per frame during opening of file audio input",
			"audioFile", audioFilePath,
			"sampleRate", decoder.SampleRate,
			"channels", decoder.NumChans,
			"samplesPerFrame", samplesPerFrame,
		)
		return nil, errors.New("non-positive samples per frame")
	}

	logger.Debug(
		"loaded audio file",
		"audioFile", audioFilePath,
		"sampleRate", decoder.SampleRate,
		"channels", decoder.NumChans,
		"samplesPerFrame", samplesPerFrame,
	)

	return &FileAudioInputDevice{
		logger:          logger,
		uuid:            uuid,
		decoder:         decoder,
		fileHandle:      f,
		frameDuration:   frameDuration,
		samplesPerFrame: samplesPerFrame,
		sinkStream:      make(chan frame.PCMFrame),
	}, nil
}

// Play the audio file loaded by this input device.
// If the context is canceled, the playback stops.
func (d *FileAudioInputDevice) Play(ctx context.Context) {
	d.logger.Debug("playing audio")
	go func() {
		buf, err := d.decoder.FullPCMBuffer()
		if err != nil {
			d.logger.Error(
				"could not get full PCM buffer from audio file",
				"err", err,
			)
			d.Close()
			return
		}
		pcmFrame := make(frame.PCMFrame, d.samplesPerFrame)

		ticker := time.NewTicker(d.frameDuration)
		defer ticker.Stop()
		for frameStart := 0; frameStart < len(buf.Data); frameStart += d.samplesPerFrame {
			frameEnd := min(frameStart+d.samplesPerFrame, len(buf.Data))
			for i := range frameEnd - frameStart {
				pcmFrame[i] = int16(buf.Data[frameStart+i])
			}

			select {
			case <-ticker.C:
				d.sinkStream <- pcmFrame[:frameEnd-frameStart]
			case <-ctx.Done():
				return
			}
		}
		d.logger.Debug("finished playing")
		d.Close()
	}()
}

func (d *FileAudioInputDevice) Close() {
	d.logger.Debug("shutdown called")
	d.shutdownOnce.Do(func() {
		close(d.sinkStream)
		d.fileHandle.Close()
	})
}

func (d *FileAudioInputDevice) GetStream() <-chan frame.PCMFrame {
	return d.sinkStream
}

func (d *FileAudioInputDevice) GetDeviceProperties() audiodevice.DeviceProperties {
	return audiodevice.DeviceProperties{
		SampleRate:  int(d.decoder.SampleRate),
		NumChannels: int(d.decoder.NumChans),
	}
}

// --------------------------------------------------------------------------------
// FileAudioOutputDevice

// Define an AudioSinkDevice that reads from a channel and writes the result
// to a .WAV file. Note the resulting file is only valid once the input
// channel is closed.
type FileAudioOutputDevice struct {
	ctx           context.Context
	ctxCancelFunc context.CancelFunc
	logger        *slog.Logger
	uuid          uuid.UUID
	encoder       *wav.Encoder
	fileHandle    *os.File
	sourceStream  <-chan frame.PCMFrame
}

// Create a new FileAudioOutputDevice that writes incoming PCM frames to a
// 16-bit .WAV file at the specified path.
func NewFileAudioOutputDevice(
	audioFilePath string,
	sampleRate int,
	numChannels int,
) (*FileAudioOutputDevice, error) {
	uuid := uuid.New()
	logger := slog.Default().With(
		"file output device uuid", uuid,
	)

	f, err := os.Create(audioFilePath)
	if err != nil {
		logger.Error(
			"could not create audio file",
			"audioFile", audioFilePath,
			"err", err,
		)
		return nil, err
	}

	encoder := wav.NewEncoder(f, sampleRate, 16, numChannels, 1)

	logger.Debug(
		"created audio file",
		"audioFile", audioFilePath,
		"sampleRate", encoder.SampleRate,
		"channels", encoder.NumChans,
	)

	ctx, ctxCancelFunc := context.WithCancel(context.Background())
	return &FileAudioOutputDevice{
		ctx:           ctx,
		ctxCancelFunc: ctxCancelFunc,
		logger:        logger,
		uuid:          uuid,
		encoder:       encoder,
		fileHandle:    f,
	}, nil
}

// Wait for this device to be closed.
// Blocks until the source channel has closed and the file is finalized.
func (d *FileAudioOutputDevice) WaitForClose() {
	<-d.ctx.Done()
}

func (d *FileAudioOutputDevice) close() {
	if err := d.encoder.Close(); err != nil {
		d.logger.Error("error finalizing wav file", "err", err)
	}
	d.fileHandle.Sync()
	d.fileHandle.Close()
	d.ctxCancelFunc()
}

// Set the source channel of this audio device, i.e. where data comes from.
//
// When this stream is closed, the wav header is finalized and the file handle
// released.
func (d *FileAudioOutputDevice) SetStream(sourceChannel <-chan frame.PCMFrame) {
	d.sourceStream = sourceChannel
	go func() {
		bufFormat := &goaudio.Format{
			SampleRate:  d.encoder.SampleRate,
			NumChannels: d.encoder.NumChans,
		}
		for pcmFrame := range sourceChannel {
			buf := &goaudio.IntBuffer{
				Format:         bufFormat,
				Data:           make([]int, len(pcmFrame)),
				SourceBitDepth: 16,
			}
			for i, sample := range pcmFrame {
				buf.Data[i] = int(sample)
			}

			if err := d.encoder.Write(buf); err != nil {
				d.logger.Error("error writing wav frame", "err", err)
			}
		}
		d.close()
	}()
}

func (d *FileAudioOutputDevice) GetDeviceProperties() audiodevice.DeviceProperties {
	return audiodevice.DeviceProperties{
		SampleRate:  d.encoder.SampleRate,
		NumChannels: d.encoder.NumChans,
	}
}
