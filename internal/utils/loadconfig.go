package utils

import (
	"log/slog"

	"github.com/spf13/viper"
)

// Load the config file at the given path into viper, applying defaults first.
//
// A missing config file is not an error; the defaults stand. Any other read
// error is fatal.
func LoadConfig(configFilePath string) {
	SetViperDefaults()

	viper.SetConfigFile(configFilePath)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			slog.Info("no config file found", "configFilePath", configFilePath)
		} else {
			slog.Error("error during config read", "err", err)
			panic(err)
		}
	}
}
