// Copyright © 2018 NAME HERE <EMAIL ADDRESS>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/naveego/anb/pkg/config"
	"github.com/naveego/anb/pkg/core"
	"github.com/naveego/anb/pkg/git"
	"github.com/spf13/cobra"
)

const (
	ArgGlobalVerbose    = "verbose"
	ArgGlobalConfigFile = "config-file"
	ArgGlobalNoColor    = "no-color"
	ArgGlobalDir        = "dir"
	ArgStatus           = config.KeyStatus
	ArgStrict           = config.KeyStrict
	ArgConcurrency      = config.KeyConcurrency
	ArgTimeout          = config.KeyTimeout
	ArgOutput           = config.KeyOutput
)

// rootCtx is cancelled when the process receives an interrupt.
var rootCtx = context.Background()

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:           "anb",
	Short:         "Displays git branch list with corresponding JIRA task names.",
	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,
	Version: fmt.Sprintf(`Version: %s
Timestamp: %s
Commit: %s
`, core.Version, core.Timestamp, core.Commit),
	Long: `Lists local git branches, finds the issue key in each branch name (like ABC-123),
and prints the issue's summary and status from JIRA.

Settings are read from anb.toml in your preferences directory and can be
overridden with ANB_ environment variables:

  prefix   = "ABC"               # ANB_PREFIX, the project key in branch names
  server   = "jira.example.com"  # ANB_SERVER
  username = "me"                # ANB_USERNAME
  password = "api-token"         # ANB_PASSWORD
`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool(ArgGlobalVerbose)
		core.ConfigureLogging(os.Stderr, verbose)

		if noColor, _ := cmd.Flags().GetBool(ArgGlobalNoColor); noColor {
			color.NoColor = true
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		dir, _ := cmd.Flags().GetString(ArgGlobalDir)

		return runAnnotate(rootCtx, c, git.NewGitWrapper(dir), cmd.OutOrStdout(), os.Stderr)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-signals
		core.Log.Debug("Interrupted, cancelling.")
		cancel()
	}()

	rootCtx = ctx

	if err := rootCmd.Execute(); err != nil {
		colorError.Fprintln(os.Stderr, err)
		cancel()
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().Bool(ArgGlobalVerbose, false, "Enable verbose logging.")
	rootCmd.PersistentFlags().Bool(ArgGlobalNoColor, false, "Disable colored output.")
	rootCmd.PersistentFlags().String(ArgGlobalConfigFile, "", fmt.Sprintf("Config file (default is %s in your preferences directory). You can also set ANB_CONFIG.", config.FileName))
	rootCmd.PersistentFlags().String(ArgGlobalDir, "", "Directory of the git repository (default is the current directory).")

	rootCmd.PersistentFlags().StringP(ArgStatus, "s", "", "Display only tasks with the specified status.")
	rootCmd.PersistentFlags().Bool(ArgStrict, false, "Stop at the first issue that cannot be fetched and print nothing.")
	rootCmd.PersistentFlags().Int(ArgConcurrency, 1, "Maximum number of issues to fetch at once.")
	rootCmd.PersistentFlags().Duration(ArgTimeout, config.DefaultTimeout, "Timeout for each request to the tracker (0 for none).")
	rootCmd.PersistentFlags().StringP(ArgOutput, "o", "line", "Output format. Options are `line`, `table`, `json` or `yaml`.")
}
