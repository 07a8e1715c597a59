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
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = addCommand(rootCmd, &cobra.Command{
	Use:   "config",
	Args:  cobra.NoArgs,
	Short: "Prints the merged configuration, with the password hidden.",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, loadErr := loadConfig(cmd)

		out := cmd.OutOrStdout()
		if c.File != "" {
			fmt.Fprintf(out, "# read from %s\n", c.File)
		}

		enc := yaml.NewEncoder(out)
		if err := enc.Encode(c.Redacted()); err != nil {
			return err
		}
		if err := enc.Close(); err != nil {
			return err
		}

		return loadErr
	},
})
