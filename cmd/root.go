/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/valpere/seltran/internal/config"
)

var version = "0.1.0"

var (
	cfgFile string

	v      = config.NewViper()
	logger = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "seltran",
	Short: "Translate selected text into Simplified Chinese",
	Long: `A CLI application that translates text into Simplified Chinese using Youdao.

Single English words are looked up in the dictionary first. Sentences go
through the signed OpenAPI (when credentials are configured), the web
endpoint, the dictionary endpoint and finally a segmented web translation.

Use "seltran translate --help" for translation options.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.ReadFile(v, cfgFile); err != nil {
			return err
		}
		return setupLogger(v.GetString("log_level"))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupLogger(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	logger.SetOutput(os.Stderr)
	logger.SetLevel(lvl)
	return nil
}

func bindFlag(key string, cmd *cobra.Command, name string, persistent bool) {
	flags := cmd.Flags()
	if persistent {
		flags = cmd.PersistentFlags()
	}
	if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
		panic(fmt.Sprintf("failed to bind flag %s: %v", name, err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./seltran.yaml)")
	rootCmd.PersistentFlags().String("db", config.DefaultDBPath, "Settings database path")
	rootCmd.PersistentFlags().String("log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Duration("timeout", config.DefaultTimeout, "Overall deadline for one translation")

	bindFlag("db", rootCmd, "db", true)
	bindFlag("log_level", rootCmd, "log-level", true)
	bindFlag("timeout", rootCmd, "timeout", true)
}
