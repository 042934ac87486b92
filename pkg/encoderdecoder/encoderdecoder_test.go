package encoderdecoder

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/frame"
)

func TestFactoryRejectsUnknownType(t *testing.T) {
	_, err := NewEncoderDecoder("flac", 48000, 1)
	assert.Error(t, err)
}

func TestNullEncoderDecoderRoundTrip(t *testing.T) {
	encdec, err := NewEncoderDecoder(EncoderDecoderTypeNull, 48000, 1)
	require.NoError(t, err)

	pcm := frame.PCMFrame{0, 1, -1, 32767, -32768, 12345}
	encoded, err := encdec.Encode(pcm)
	require.NoError(t, err)
	assert.Len(t, encoded, 2*len(pcm))

	decoded, err := encdec.Decode(encoded)
	require.NoError(t, err)
	assert.Equal(t, pcm, decoded)
}

func TestOpusEncoderDecoderRoundTrip(t *testing.T) {
	encdec, err := NewEncoderDecoder(EncoderDecoderTypeOpus, 48000, 1)
	require.NoError(t, err)

	frameSize := OPUS_FRAME_DURATION_20_MS.SamplesPerChannel(48000)
	require.Equal(t, 960, frameSize)

	pcm := make(frame.PCMFrame, frameSize)
	for i := range pcm {
		pcm[i] = int16(0.5 * math.MaxInt16 * math.Sin(2*math.Pi*440*float64(i)/48000))
	}

	encoded, err := encdec.Encode(pcm)
	require.NoError(t, err)
	assert.NotEmpty(t, encoded)
	assert.Less(t, len(encoded), 2*len(pcm), "opus should compress the sine")

	decoded, err := encdec.Decode(encoded)
	require.NoError(t, err)
	assert.Len(t, decoded, frameSize)
}

func TestOpusEncoderDecoderRejectsBadRate(t *testing.T) {
	encdec, err := NewEncoderDecoder(EncoderDecoderTypeOpus, 44100, 1)
	assert.Error(t, err)
	assert.Nil(t, encdec)
}

func TestOpusEncoderDecoderRejectsBadChannels(t *testing.T) {
	// Both native sessions reject the channel count; construction must clean
	// up and report the codec's error.
	encdec, err := NewEncoderDecoder(EncoderDecoderTypeOpus, 48000, 3)
	assert.Error(t, err)
	assert.Nil(t, encdec)
}

func TestFrameDurationSamples(t *testing.T) {
	assert.Equal(t, 120, OPUS_FRAME_DURATION_2_POINT_5_MS.SamplesPerChannel(48000))
	assert.Equal(t, 480, OPUS_FRAME_DURATION_10_MS.SamplesPerChannel(48000))
	assert.Equal(t, 2880, OPUS_FRAME_DURATION_60_MS.SamplesPerChannel(48000))
	assert.Equal(t, 160, OPUS_FRAME_DURATION_20_MS.SamplesPerChannel(8000))
}
