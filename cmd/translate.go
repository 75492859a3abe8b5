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
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/valpere/seltran/internal/config"
	"github.com/valpere/seltran/internal/orchestrator"
)

var (
	inputFile string
	verbose   bool
)

var translateCmd = &cobra.Command{
	Use:   "translate [text...]",
	Short: "Translate text into Simplified Chinese",
	Long: `Translate text into Simplified Chinese.

The text is taken from the arguments, from --input, or from stdin when
neither is given. Files may be UTF-8 or UTF-16 with a byte order mark.

OpenAPI credentials are read from --app-key/--app-secret, then
SELTRAN_APP_KEY/SELTRAN_APP_SECRET, then the settings database
(see "seltran config set").`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(v)
		if err != nil {
			return err
		}

		text, err := readInput(args)
		if err != nil {
			return err
		}

		db, err := openStore(cfg.DBPath)
		if err != nil {
			logger.WithError(err).Warn("settings database unavailable, stored credentials ignored")
			db = nil
		} else {
			defer db.Close()
		}

		orch := buildOrchestrator(cfg, db)

		result, err := orch.Execute(context.Background(), text)
		if verbose && result != nil {
			printAttempts(result)
		}
		if err != nil {
			return fmt.Errorf("translation failed: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), result.Text)
		return nil
	},
}

func readInput(args []string) (string, error) {
	if len(args) > 0 {
		if inputFile != "" {
			return "", errors.New("pass text as arguments or --input, not both")
		}
		return strings.Join(args, " "), nil
	}

	var r io.Reader = os.Stdin
	if inputFile != "" {
		f, err := os.Open(inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		defer f.Close()
		r = f
	}

	data, err := io.ReadAll(transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder())))
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return string(data), nil
}

func printAttempts(result *orchestrator.OrchestratorResult) {
	fmt.Fprintf(os.Stderr, "Request: %s (%s)\n", result.RequestID, result.Latency.Round(time.Millisecond))
	for _, a := range result.Attempts {
		fmt.Fprintf(os.Stderr, "  failed  %-22s %s\n", a.Stage, a.Message)
	}
	if result.Text != "" {
		fmt.Fprintf(os.Stderr, "  ok      %-22s via %s\n", result.Stage, result.ServiceName)
	}
}

func init() {
	rootCmd.AddCommand(translateCmd)

	translateCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input file to translate")
	translateCmd.Flags().BoolVar(&verbose, "verbose", false, "Print the stages tried to stderr")
	translateCmd.Flags().String("app-key", "", "Youdao OpenAPI app key")
	translateCmd.Flags().String("app-secret", "", "Youdao OpenAPI app secret")

	bindFlag("app_key", translateCmd, "app-key", false)
	bindFlag("app_secret", translateCmd, "app-secret", false)
}
