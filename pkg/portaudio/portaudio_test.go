package portaudio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initForTest initializes PortAudio or skips the test on hosts without a
// usable audio backend.
func initForTest(t *testing.T) {
	t.Helper()
	if err := Initialize(); err != nil {
		t.Skipf("portaudio unavailable on this host: %v", err)
	}
	t.Cleanup(func() {
		require.NoError(t, Terminate())
	})
}

func TestVersionText(t *testing.T) {
	assert.NotEmpty(t, VersionText())
}

func TestErrorText(t *testing.T) {
	// paNoError is 0; any code yields a printable message.
	assert.NotEmpty(t, GetErrorText(0))
	assert.NotNil(t, RawErrorText(0))
}

func TestInitializeTerminateBalanced(t *testing.T) {
	for _i := 0; _i < 3; _i++ {
		if err := Initialize(); err != nil {
			t.Skipf("portaudio unavailable on this host: %v", err)
		}
		require.NoError(t, Terminate())
	}
}

func TestInitializeNests(t *testing.T) {
	initForTest(t)

	// A nested init/terminate pair must not tear the library down under the
	// outer pair.
	require.NoError(t, Initialize())
	require.NoError(t, Terminate())

	_, err := DeviceCount()
	assert.NoError(t, err)
}

func TestTerminateWithoutInitialize(t *testing.T) {
	// The library's own code must reach the caller untouched.
	err := Terminate()
	require.Error(t, err)
	var paErr Error
	require.ErrorAs(t, err, &paErr)
	assert.Equal(t, ErrNotInitialized, paErr)
}

func TestDeviceEnumeration(t *testing.T) {
	initForTest(t)

	count, err := DeviceCount()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, count, 0)

	devices, err := Devices()
	require.NoError(t, err)
	require.Len(t, devices, count)

	for _, device := range devices {
		assert.Positive(t, device.DefaultSampleRate)
		assert.True(t, device.MaxInputChannels > 0 || device.MaxOutputChannels > 0,
			"device %q supports neither input nor output", device.Name)
	}

	_, err = GetDeviceInfo(count + 100)
	assert.Error(t, err)
}

func TestOpenStreamNeedsADirection(t *testing.T) {
	initForTest(t)

	_, err := OpenStream(-1, -1, 48000, 960, NoFlag)
	assert.Error(t, err)
}

func TestCaptureOnlyStream(t *testing.T) {
	initForTest(t)

	device, err := DefaultInputDevice()
	if err != nil {
		t.Skip("no default input device on this host")
	}

	stream, err := OpenStream(device.Index, -1, 48000, 960, NoFlag)
	require.NoError(t, err)
	defer stream.Close()

	assert.True(t, stream.HasInput())
	assert.False(t, stream.HasOutput())

	active, err := stream.IsActive()
	require.NoError(t, err)
	assert.False(t, active)

	require.NoError(t, stream.Start())
	active, err = stream.IsActive()
	require.NoError(t, err)
	assert.True(t, active)

	buf := make([]int16, 960)
	require.NoError(t, stream.Read(buf))

	// A zero-length read still goes to the library, which accepts it.
	require.NoError(t, stream.Read(buf[:0]))

	// A capture-only stream must reject writes with the library's own code.
	err = stream.Write(buf)
	require.Error(t, err)
	var paErr Error
	require.ErrorAs(t, err, &paErr)
	assert.Negative(t, paErr.Code())

	require.NoError(t, stream.Stop())

	// Stop then Start again is legal.
	require.NoError(t, stream.Start())
	require.NoError(t, stream.Stop())
}

func TestPlaybackOnlyStream(t *testing.T) {
	initForTest(t)

	device, err := DefaultOutputDevice()
	if err != nil {
		t.Skip("no default output device on this host")
	}

	stream, err := OpenStream(-1, device.Index, 48000, 960, NoFlag)
	require.NoError(t, err)
	defer stream.Close()

	require.NoError(t, stream.Start())

	silence := make([]int16, 960)
	require.NoError(t, stream.Write(silence))

	// A zero-length write still goes to the library, which accepts it.
	require.NoError(t, stream.Write(silence[:0]))

	// A playback-only stream must reject reads with the library's own code.
	err = stream.Read(silence)
	require.Error(t, err)

	require.NoError(t, stream.Stop())
}
