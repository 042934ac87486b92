package device

import (
	"log/slog"
	"math"
	"sync"

	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/audiodevice"
	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/frame"
	"github.com/oov/audio/resampler"
)

const (
	// To avoid reallocating for every source frame, reuse a buffer with "enough size".
	// Since we don't know the frame duration (number of samples) beforehand, we must estimate.
	//
	// As a rough estimate, 48000Hz stereo audio with a latency of 120ms is 11520 samples,
	// so a buffer of 2**14 = 16384 should be enough for anything.
	conversionBufferSize int = 16384

	resampleQuality = 10
)

// Middle-man processing device to handle format mismatches
// between the source data format and the sink data format.
//
// e.g. if the source format is stereo, but the sink is a mono PortAudio
// stream, this device will handle the mixdown; likewise for sample rates.
//
// This device is both a sink and a source.
type AudioFormatConversionDevice struct {
	// For this device only, the naming convention for the channels is confusing.
	// We take the convention that the source channel is the *external* source,
	// i.e. the channel data arrives on, and the sink channel is where data leaves.
	//
	// GetStream returns the sink channel.
	// SetStream sets the source channel.

	sourceChannel    <-chan frame.PCMFrame
	sourceProperties audiodevice.DeviceProperties

	sinkChannel    chan frame.PCMFrame
	sinkProperties audiodevice.DeviceProperties

	// The functions to apply, in order, when processing source data to sink format.
	formatConversionFunctions []audioFormatConversionFunction

	shutdownOnce sync.Once
}

// Create a new AudioFormatConversionDevice by defining:
//   - the source properties (the properties of the audio being fed into this device)
//   - the sink properties (the properties of the audio leaving this device)
//
// Note one must still call SetStream, passing in the source channel,
// and GetStream, to receive the sink channel, to use this device, in an
// effort to remain consistent with the device interfaces.
//
// This device will only start converting once SetStream is called.
func NewAudioFormatConversionDevice(
	sourceProperties audiodevice.DeviceProperties,
	sinkProperties audiodevice.DeviceProperties,
) (*AudioFormatConversionDevice, error) {
	formatConversionFunctions := make([]audioFormatConversionFunction, 0)

	if sourceProperties.NumChannels == 1 && sinkProperties.NumChannels == 2 {
		slog.Debug("adding mono to stereo")
		formatConversionFunctions = append(formatConversionFunctions, monoToStereo())
	}
	if sourceProperties.NumChannels == 2 && sinkProperties.NumChannels == 1 {
		slog.Debug("adding stereo to mono")
		formatConversionFunctions = append(formatConversionFunctions, stereoToMono())
	}
	if sourceProperties.SampleRate != sinkProperties.SampleRate {
		slog.Debug("adding resampler")
		formatConversionFunctions = append(formatConversionFunctions,
			newResampleFunction(sourceProperties.SampleRate, sinkProperties.SampleRate, sinkProperties.NumChannels))
	}

	return &AudioFormatConversionDevice{
		sourceProperties:          sourceProperties,
		sinkProperties:            sinkProperties,
		sinkChannel:               make(chan frame.PCMFrame),
		formatConversionFunctions: formatConversionFunctions,
	}, nil
}

// --------------------------------------------------------------------------------
// AudioSourceDevice Interface

// Get the source stream of this audio device.
// Converted audio data (as PCMFrames) will arrive on the returned channel.
func (d *AudioFormatConversionDevice) GetStream() <-chan frame.PCMFrame {
	return d.sinkChannel
}

// Meaningfully close the device. Usually unnecessary: the device closes
// itself when the incoming stream closes.
func (d *AudioFormatConversionDevice) Close() {
	d.shutdownOnce.Do(func() {
		close(d.sinkChannel)
	})
}

// WARNING:
// GetDeviceProperties of the AudioFormatConversionDevice returns the
// device properties of the LEAVING data, i.e. the data that exits this device.
//
// If you need the properties of the data entering this device, call GetSourceDeviceProperties.
func (d *AudioFormatConversionDevice) GetDeviceProperties() audiodevice.DeviceProperties {
	return d.sinkProperties
}

// --------------------------------------------------------------------------------
// AudioSinkDevice Interface

// Set the source channel of this audio device, i.e. where data comes from.
//
// When this stream is closed, the sink channel is closed too, cascading the
// closure downstream.
func (d *AudioFormatConversionDevice) SetStream(sourceChannel <-chan frame.PCMFrame) {
	d.sourceChannel = sourceChannel
	go func() {
		for pcmFrame := range d.sourceChannel {
			for _, f := range d.formatConversionFunctions {
				pcmFrame = f(pcmFrame)
			}
			d.sinkChannel <- pcmFrame
		}
		// This goroutine dies when the incoming stream is closed.
		d.Close()
	}()
}

func (d *AudioFormatConversionDevice) GetSourceDeviceProperties() audiodevice.DeviceProperties {
	return d.sourceProperties
}

// --------------------------------------------------------------------------------

type audioFormatConversionFunction func(sourceFrame frame.PCMFrame) frame.PCMFrame

func monoToStereo() audioFormatConversionFunction {
	buf := make(frame.PCMFrame, conversionBufferSize)
	return func(sourceFrame frame.PCMFrame) frame.PCMFrame {
		for i, v := range sourceFrame {
			buf[2*i] = v
			buf[2*i+1] = v
		}
		return buf[:2*len(sourceFrame)]
	}
}

func stereoToMono() audioFormatConversionFunction {
	buf := make(frame.PCMFrame, conversionBufferSize)
	return func(sourceFrame frame.PCMFrame) frame.PCMFrame {
		if len(sourceFrame)%2 == 1 {
			sourceFrame = sourceFrame[:len(sourceFrame)-1]
		}

		for i := range len(sourceFrame) / 2 {
			// Average in int32 so full-scale samples cannot overflow.
			buf[i] = int16((int32(sourceFrame[2*i]) + int32(sourceFrame[2*i+1])) / 2)
		}
		return buf[:len(sourceFrame)/2]
	}
}

// The resampler operates on float32 planar data, so samples are lifted out
// of int16, processed per channel, and interleaved back.
func newResampleFunction(sourceRate, sinkRate, numChannels int) audioFormatConversionFunction {
	const maxInt16 = float32(math.MaxInt16)

	if numChannels == 1 {
		r := resampler.New(1, sourceRate, sinkRate, resampleQuality)
		sourceBuf := make([]float32, conversionBufferSize)
		sinkBuf := make([]float32, conversionBufferSize)
		buf := make(frame.PCMFrame, conversionBufferSize)
		return func(sourceFrame frame.PCMFrame) frame.PCMFrame {
			for i, sample := range sourceFrame {
				sourceBuf[i] = float32(sample) / maxInt16
			}
			_, written := r.ProcessFloat32(0, sourceBuf[:len(sourceFrame)], sinkBuf)
			for i := range written {
				buf[i] = int16(sinkBuf[i] * maxInt16)
			}
			return buf[:written]
		}
	}

	r := resampler.New(2, sourceRate, sinkRate, resampleQuality)
	leftSourceBuf := make([]float32, conversionBufferSize/2)
	rightSourceBuf := make([]float32, conversionBufferSize/2)
	leftSinkBuf := make([]float32, conversionBufferSize/2)
	rightSinkBuf := make([]float32, conversionBufferSize/2)
	buf := make(frame.PCMFrame, conversionBufferSize)
	return func(sourceFrame frame.PCMFrame) frame.PCMFrame {
		if len(sourceFrame)%2 == 1 {
			sourceFrame = sourceFrame[:len(sourceFrame)-1]
		}

		// Deinterleave to planar and normalize.
		for i := range len(sourceFrame) / 2 {
			leftSourceBuf[i] = float32(sourceFrame[2*i]) / maxInt16
			rightSourceBuf[i] = float32(sourceFrame[2*i+1]) / maxInt16
		}

		// Process both channels.
		_, written := r.ProcessFloat32(0, leftSourceBuf[:len(sourceFrame)/2], leftSinkBuf)
		r.ProcessFloat32(1, rightSourceBuf[:len(sourceFrame)/2], rightSinkBuf)

		// Interleave again.
		for i := range written {
			buf[2*i] = int16(leftSinkBuf[i] * maxInt16)
			buf[2*i+1] = int16(rightSinkBuf[i] * maxInt16)
		}
		return buf[:2*written]
	}
}
