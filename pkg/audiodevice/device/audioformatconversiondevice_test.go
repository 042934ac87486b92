package device

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/audiodevice"
	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/frame"
)

// convertOneFrame pushes a single frame through a conversion device and
// returns the converted result.
func convertOneFrame(t *testing.T, conv *AudioFormatConversionDevice, in frame.PCMFrame) frame.PCMFrame {
	t.Helper()

	source := make(chan frame.PCMFrame, 1)
	conv.SetStream(source)
	source <- in
	close(source)

	select {
	case out, ok := <-conv.GetStream():
		require.True(t, ok)
		result := make(frame.PCMFrame, len(out))
		copy(result, out)
		return result
	case <-time.After(time.Second):
		t.Fatal("conversion device produced no frame")
		return nil
	}
}

func TestMonoToStereo(t *testing.T) {
	conv, err := NewAudioFormatConversionDevice(
		audiodevice.DeviceProperties{SampleRate: 48000, NumChannels: 1},
		audiodevice.DeviceProperties{SampleRate: 48000, NumChannels: 2},
	)
	require.NoError(t, err)

	out := convertOneFrame(t, conv, frame.PCMFrame{100, -200, 300})
	assert.Equal(t, frame.PCMFrame{100, 100, -200, -200, 300, 300}, out)
}

func TestStereoToMono(t *testing.T) {
	conv, err := NewAudioFormatConversionDevice(
		audiodevice.DeviceProperties{SampleRate: 48000, NumChannels: 2},
		audiodevice.DeviceProperties{SampleRate: 48000, NumChannels: 1},
	)
	require.NoError(t, err)

	out := convertOneFrame(t, conv, frame.PCMFrame{100, 200, -100, -300})
	assert.Equal(t, frame.PCMFrame{150, -200}, out)
}

func TestStereoToMonoFullScaleDoesNotOverflow(t *testing.T) {
	conv, err := NewAudioFormatConversionDevice(
		audiodevice.DeviceProperties{SampleRate: 48000, NumChannels: 2},
		audiodevice.DeviceProperties{SampleRate: 48000, NumChannels: 1},
	)
	require.NoError(t, err)

	out := convertOneFrame(t, conv, frame.PCMFrame{32767, 32767, -32768, -32768})
	assert.Equal(t, frame.PCMFrame{32767, -32768}, out)
}

func TestResampleHalvesRate(t *testing.T) {
	conv, err := NewAudioFormatConversionDevice(
		audiodevice.DeviceProperties{SampleRate: 48000, NumChannels: 1},
		audiodevice.DeviceProperties{SampleRate: 24000, NumChannels: 1},
	)
	require.NoError(t, err)

	in := make(frame.PCMFrame, 960)
	for i := range in {
		in[i] = int16(i % 100)
	}
	out := convertOneFrame(t, conv, in)

	// The polyphase filter may hold back a few samples of priming delay;
	// the output should still be close to half the input length.
	assert.InDelta(t, len(in)/2, len(out), 64)
}

func TestPassthroughWhenFormatsMatch(t *testing.T) {
	properties := audiodevice.DeviceProperties{SampleRate: 48000, NumChannels: 1}
	conv, err := NewAudioFormatConversionDevice(properties, properties)
	require.NoError(t, err)

	in := frame.PCMFrame{1, 2, 3, 4}
	out := convertOneFrame(t, conv, in)
	assert.Equal(t, in, out)
}

func TestConversionDeviceCascadesClosure(t *testing.T) {
	properties := audiodevice.DeviceProperties{SampleRate: 48000, NumChannels: 1}
	conv, err := NewAudioFormatConversionDevice(properties, properties)
	require.NoError(t, err)

	upstream := NewDummyAudioSourceDevice(properties)
	conv.SetStream(upstream.GetStream())
	upstream.Close()

	select {
	case _, ok := <-conv.GetStream():
		assert.False(t, ok, "sink channel should close, not deliver")
	case <-time.After(time.Second):
		t.Fatal("closing the source did not cascade to the conversion device")
	}
}
