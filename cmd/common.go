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
	"path/filepath"

	"github.com/valpere/seltran/internal/config"
	"github.com/valpere/seltran/internal/endpoint"
	"github.com/valpere/seltran/internal/orchestrator"
	"github.com/valpere/seltran/internal/settings"
	"github.com/valpere/seltran/internal/store"
	"github.com/valpere/seltran/internal/translator"
)

// openStore opens the settings database, creating its directory if needed.
func openStore(dbPath string) (*store.Store, error) {
	if dir := filepath.Dir(dbPath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := store.New(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// buildOrchestrator wires the Youdao backends and the credential chain
// (flags and environment first, then the settings store) from cfg.
func buildOrchestrator(cfg *config.Config, db *store.Store) *orchestrator.Orchestrator {
	client := endpoint.New(cfg.RequestTimeout, logger)

	backends := orchestrator.Backends{
		OpenAPI: translator.NewOpenAPIService(cfg.OpenAPIURL, client),
		Web:     translator.NewWebService(cfg.WebURL, client),
		Dict:    translator.NewDictService(cfg.DictURL, client),
	}

	creds := settings.Chain{settings.NewViper(v)}
	if db != nil {
		creds = append(creds, settings.NewStored(db))
	}

	return orchestrator.New(backends, creds, orchestrator.OrchestratorConfig{
		Timeout: cfg.Timeout,
		Logger:  logger,
	})
}
