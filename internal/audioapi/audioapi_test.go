package audioapi

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/audiodevice"
)

var testProperties = audiodevice.DeviceProperties{
	SampleRate:  48000,
	NumChannels: 1,
}

func TestDummyAPIListsOneDeviceEachWay(t *testing.T) {
	api := NewDummyAudioIODeviceAPI(testProperties)

	inputs := api.InputDevices()
	require.Len(t, inputs, 1)
	assert.Equal(t, "DummyInput", inputs[0].Name)
	assert.Equal(t, testProperties, inputs[0].DeviceProperties)

	outputs := api.OutputDevices()
	require.Len(t, outputs, 1)
	assert.Equal(t, "DummyOutput", outputs[0].Name)
}

func TestDummyAPIInitFromID(t *testing.T) {
	api := NewDummyAudioIODeviceAPI(testProperties)

	source, err := api.InitInputDeviceFromID(api.InputDevices()[0])
	require.NoError(t, err)
	assert.Equal(t, testProperties, source.GetDeviceProperties())
	source.Close()

	sink, err := api.InitOutputDeviceFromID(api.OutputDevices()[0])
	require.NoError(t, err)
	assert.Equal(t, testProperties, sink.GetDeviceProperties())
}

func TestDummyAPIRejectsUnknownID(t *testing.T) {
	api := NewDummyAudioIODeviceAPI(testProperties)

	_, err := api.InitInputDeviceFromID(AudioIODevice{ID: 42})
	assert.ErrorIs(t, err, errNoDeviceWithID)

	_, err = api.InitOutputDeviceFromID(AudioIODevice{ID: 42})
	assert.ErrorIs(t, err, errNoDeviceWithID)
}

func TestAudioIODeviceString(t *testing.T) {
	d := AudioIODevice{
		ID:               3,
		Name:             "Loopback",
		DeviceProperties: testProperties,
	}

	s := d.String()
	assert.True(t, strings.Contains(s, "Loopback"))
	assert.True(t, strings.Contains(s, "48000"))
}

func TestAPIImplementations(t *testing.T) {
	var _ AudioIODeviceAPI = DummyAudioIODeviceAPI{}
	var _ AudioIODeviceAPI = (*PortAudioApi)(nil)
}
