package cmd

import (
	"os"

	"github.com/fatih/color"
	"github.com/naveego/anb/pkg/config"
	"github.com/spf13/cobra"
)

var colorError = color.New(color.FgRed)

// loadConfig builds the config for cmd from the config file, the environment
// and any flags the user set.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	file, _ := cmd.Flags().GetString(ArgGlobalConfigFile)
	if file == "" {
		file = os.Getenv("ANB_CONFIG")
	}

	return config.Load(config.LoadOptions{
		File:  file,
		Flags: cmd.Flags(),
	})
}
