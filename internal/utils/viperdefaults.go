package utils

import "github.com/spf13/viper"

// Set the viper defaults for the audio tools.
// For use in cmd/audioinfo, as well as the examples.
func SetViperDefaults() {
	viper.SetDefault("loglevel", "info")
	viper.SetDefault("logfile", "")
	viper.SetDefault("samplerate", 48000)
	viper.SetDefault("framesperbuffer", 960)
	viper.SetDefault("inputdevice", -1)
	viper.SetDefault("outputdevice", -1)
}
