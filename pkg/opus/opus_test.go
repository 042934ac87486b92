package opus

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSampleRate = 48000
	testFrameSize  = 960 // 20ms at 48kHz
	testToneHz     = 440.0
)

// sineFrame generates one mono frame of a sine tone at the given frequency.
func sineFrame(frequency float64, frameSize int) []int16 {
	pcm := make([]int16, frameSize)
	for i := range pcm {
		pcm[i] = int16(0.5 * math.MaxInt16 * math.Sin(2*math.Pi*frequency*float64(i)/testSampleRate))
	}
	return pcm
}

// goertzelPower measures the signal power at the given frequency.
func goertzelPower(pcm []int16, frequency float64) float64 {
	omega := 2 * math.Pi * frequency / testSampleRate
	coeff := 2 * math.Cos(omega)
	var sPrev, sPrev2 float64
	for _, sample := range pcm {
		s := float64(sample) + coeff*sPrev - sPrev2
		sPrev2 = sPrev
		sPrev = s
	}
	return sPrev2*sPrev2 + sPrev*sPrev - coeff*sPrev*sPrev2
}

func TestVersion(t *testing.T) {
	version := Version()
	assert.NotEmpty(t, version)
	assert.Contains(t, version, "libopus")
}

func TestNewEncoderInvalidSampleRate(t *testing.T) {
	_, err := NewEncoder(44100, 1, AppVoIP)
	require.Error(t, err)

	var opusErr Error
	require.ErrorAs(t, err, &opusErr)
	assert.Negative(t, opusErr.Code())
}

func TestNewDecoderInvalidChannels(t *testing.T) {
	_, err := NewDecoder(testSampleRate, 3)
	require.Error(t, err)
}

// Creating and destroying many sessions must not leak or collide.
func TestEncoderCreateDestroyCycling(t *testing.T) {
	for _i := 0; _i < 100; _i++ {
		encoder, err := NewEncoder(testSampleRate, 1, AppVoIP)
		require.NoError(t, err)
		encoder.Destroy()
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	encoder, err := NewEncoder(testSampleRate, 1, AppVoIP)
	require.NoError(t, err)
	defer encoder.Destroy()

	decoder, err := NewDecoder(testSampleRate, 1)
	require.NoError(t, err)
	defer decoder.Destroy()

	pcm := sineFrame(testToneHz, testFrameSize)
	data := make([]byte, 4000)

	encodedBytes, err := encoder.Encode(pcm, data)
	require.NoError(t, err)
	assert.Positive(t, encodedBytes)
	assert.LessOrEqual(t, encodedBytes, len(data))

	decoded := make([]int16, testFrameSize)
	decodedSamples, err := decoder.Decode(data[:encodedBytes], decoded, false)
	require.NoError(t, err)
	assert.Equal(t, testFrameSize, decodedSamples)

	// The codec is lossy, so compare dominant frequency rather than samples.
	// The 440Hz tone must carry far more energy than a probe away from it.
	tonePower := goertzelPower(decoded, testToneHz)
	offTonePower := goertzelPower(decoded, 1315.0)
	assert.Greater(t, tonePower, 100*offTonePower,
		"decoded signal should still be dominated by the %vHz tone", testToneHz)
}

func TestEncoderSettings(t *testing.T) {
	encoder, err := NewEncoder(testSampleRate, 1, AppVoIP)
	require.NoError(t, err)
	defer encoder.Destroy()

	assert.NoError(t, encoder.SetBitrate(16000))
	assert.NoError(t, encoder.SetComplexity(10))
	assert.Error(t, encoder.SetComplexity(42))
	assert.NoError(t, encoder.Reset())
}

func TestDecodeFECRecoversLostFrame(t *testing.T) {
	encoder, err := NewEncoder(testSampleRate, 1, AppVoIP)
	require.NoError(t, err)
	defer encoder.Destroy()

	decoder, err := NewDecoder(testSampleRate, 1)
	require.NoError(t, err)
	defer decoder.Destroy()

	// Feed a few frames, drop one, then ask the following packet for its
	// embedded redundancy. libopus only guarantees a full frame back.
	data := make([]byte, 4000)
	decoded := make([]int16, testFrameSize)
	var lastPacket []byte
	for i := 0; i < 4; i++ {
		pcm := sineFrame(testToneHz, testFrameSize)
		n, err := encoder.Encode(pcm, data)
		require.NoError(t, err)
		lastPacket = append(lastPacket[:0], data[:n]...)
		if i == 2 {
			continue // simulated loss
		}
		_, err = decoder.Decode(lastPacket, decoded, false)
		require.NoError(t, err)
	}

	decodedSamples, err := decoder.Decode(lastPacket, decoded, true)
	require.NoError(t, err)
	assert.Equal(t, testFrameSize, decodedSamples)
}

func TestStereoRoundTrip(t *testing.T) {
	encoder, err := NewEncoder(testSampleRate, 2, AppAudio)
	require.NoError(t, err)
	defer encoder.Destroy()

	decoder, err := NewDecoder(testSampleRate, 2)
	require.NoError(t, err)
	defer decoder.Destroy()

	mono := sineFrame(testToneHz, testFrameSize)
	pcm := make([]int16, 2*testFrameSize)
	for i, sample := range mono {
		pcm[2*i] = sample
		pcm[2*i+1] = sample
	}

	data := make([]byte, 4000)
	n, err := encoder.Encode(pcm, data)
	require.NoError(t, err)

	decoded := make([]int16, 2*testFrameSize)
	decodedSamples, err := decoder.Decode(data[:n], decoded, false)
	require.NoError(t, err)
	assert.Equal(t, testFrameSize, decodedSamples)
}
