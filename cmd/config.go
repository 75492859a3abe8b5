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
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/valpere/seltran/internal/config"
	"github.com/valpere/seltran/internal/settings"
	"github.com/valpere/seltran/internal/store"
)

var (
	setAppKey    string
	setAppSecret string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage stored OpenAPI credentials",
	Long:  `Store, inspect, and clear the Youdao OpenAPI credentials kept in the settings database.`,
}

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store the OpenAPI app key and secret",
	RunE: func(cmd *cobra.Command, args []string) error {
		creds := settings.Credentials{
			AppKey:    strings.TrimSpace(setAppKey),
			AppSecret: strings.TrimSpace(setAppSecret),
		}
		if !creds.Complete() {
			return fmt.Errorf("both --app-key and --app-secret are required")
		}

		db, err := openConfiguredStore()
		if err != nil {
			return err
		}
		defer db.Close()

		if err := settings.NewStored(db).Save(context.Background(), creds); err != nil {
			return err
		}
		fmt.Println("Credentials saved.")
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective credentials (masked) and the stored settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openConfiguredStore()
		if err != nil {
			return err
		}
		defer db.Close()

		return writeSettingsReport(context.Background(), cmd.OutOrStdout(), db)
	},
}

var configClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete the stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openConfiguredStore()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := settings.NewStored(db).Clear(context.Background())
		if err != nil {
			return fmt.Errorf("failed to clear credentials: %w", err)
		}
		fmt.Printf("Cleared %d stored values.\n", n)
		return nil
	},
}

// writeSettingsReport prints the masked credentials from each source,
// followed by the keys held in the settings database. Values are never
// printed unmasked.
func writeSettingsReport(ctx context.Context, out io.Writer, db *store.Store) error {
	sources := []struct {
		name     string
		provider settings.Provider
	}{
		{"environment/config", settings.NewViper(v)},
		{"settings database", settings.NewStored(db)},
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tAPP KEY\tAPP SECRET\tCOMPLETE")
	for _, src := range sources {
		creds, err := src.provider.GetCredentials(ctx)
		if err != nil {
			fmt.Fprintf(w, "%s\t-\t-\terror: %v\n", src.name, err)
			continue
		}
		m := creds.Masked()
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", src.name, orDash(m.AppKey), orDash(m.AppSecret), creds.Complete())
	}
	if err := w.Flush(); err != nil {
		return err
	}

	entries, err := db.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list settings: %w", err)
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "\nNo stored settings.")
		return nil
	}

	fmt.Fprintln(out)
	w = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tUPDATED")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\n", e.Key, e.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return w.Flush()
}

func openConfiguredStore() (*store.Store, error) {
	cfg, err := config.Load(v)
	if err != nil {
		return nil, err
	}
	return openStore(cfg.DBPath)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	rootCmd.AddCommand(configCmd)

	configSetCmd.Flags().StringVar(&setAppKey, "app-key", "", "Youdao OpenAPI app key (required)")
	configSetCmd.Flags().StringVar(&setAppSecret, "app-secret", "", "Youdao OpenAPI app secret (required)")
	for _, name := range []string{"app-key", "app-secret"} {
		if err := configSetCmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Sprintf("failed to mark flag %s required: %v", name, err))
		}
	}

	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configClearCmd)
}
