package main

import (
	"flag"
	"fmt"
	"log/slog"

	"github.com/Honorable-Knights-of-the-Roundtable/portopus/internal/audioapi"
	"github.com/Honorable-Knights-of-the-Roundtable/portopus/internal/utils"
	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/opus"
	"github.com/Honorable-Knights-of-the-Roundtable/portopus/pkg/portaudio"
	"github.com/spf13/viper"
)

// List every device the host audio library can see, split into capture and
// playback, along with the codec and host library versions.
func main() {
	configFilePath := flag.String("configFilePath", "config.yaml", "Set the file path to the config file.")
	flag.Parse()

	utils.LoadConfig(*configFilePath)
	logFilePointer, err := utils.ConfigureDefaultLogger(
		viper.GetString("loglevel"),
		viper.GetString("logfile"),
		slog.HandlerOptions{},
	)
	if err != nil {
		slog.Error("error while configuring default logger", "err", err)
		panic(err)
	}
	if logFilePointer != nil {
		defer logFilePointer.Close()
	}

	// --------------------------------------------------------------------------------

	fmt.Printf("Codec:      %s\n", opus.Version())
	fmt.Printf("Host audio: %s\n", portaudio.VersionText())

	api, err := audioapi.NewPortAudioApi(
		viper.GetInt("samplerate"),
		viper.GetInt("framesperbuffer"),
	)
	if err != nil {
		slog.Error("error while initializing host audio library", "err", err)
		panic(err)
	}
	defer api.Terminate()

	count, err := portaudio.DeviceCount()
	if err != nil {
		slog.Error("error while counting devices", "err", err)
		panic(err)
	}
	fmt.Printf("\n%d devices found\n", count)

	fmt.Printf("\nInput devices:\n")
	for _, d := range api.InputDevices() {
		fmt.Println(d)
	}

	fmt.Printf("Output devices:\n")
	for _, d := range api.OutputDevices() {
		fmt.Println(d)
	}

	fmt.Printf("Default input device index:  %d\n", portaudio.DefaultInputDeviceIndex())
	fmt.Printf("Default output device index: %d\n", portaudio.DefaultOutputDeviceIndex())
}
