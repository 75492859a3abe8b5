// Package settings supplies the OpenAPI credentials to the translation
// pipeline.
//
// Lookup order for credentials:
//  1. --app-key / --app-secret flags
//  2. SELTRAN_APP_KEY / SELTRAN_APP_SECRET environment variables
//  3. The persisted settings store
//
// Providers never cache: every GetCredentials call re-reads its source so
// that a changed key takes effect on the next translation.
package settings

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"go.uber.org/multierr"
)

const (
	KeyAppKey    = "youdao_app_key"
	KeyAppSecret = "youdao_app_secret"
)

type Credentials struct {
	AppKey    string
	AppSecret string
}

// Complete reports whether both fields are non-blank.
func (c Credentials) Complete() bool {
	return strings.TrimSpace(c.AppKey) != "" && strings.TrimSpace(c.AppSecret) != ""
}

// Masked returns the credentials with all but the last four characters of
// each field replaced, for display.
func (c Credentials) Masked() Credentials {
	return Credentials{AppKey: mask(c.AppKey), AppSecret: mask(c.AppSecret)}
}

func mask(s string) string {
	r := []rune(s)
	if len(r) <= 4 {
		return strings.Repeat("*", len(r))
	}
	return strings.Repeat("*", len(r)-4) + string(r[len(r)-4:])
}

type Provider interface {
	GetCredentials(ctx context.Context) (Credentials, error)
}

// Static always returns the same credentials.
type Static Credentials

func (s Static) GetCredentials(ctx context.Context) (Credentials, error) {
	return Credentials(s), nil
}

// Viper reads app_key and app_secret from a viper instance, which covers
// bound flags, environment variables and config files.
type Viper struct {
	v *viper.Viper
}

func NewViper(v *viper.Viper) *Viper {
	return &Viper{v: v}
}

func (p *Viper) GetCredentials(ctx context.Context) (Credentials, error) {
	return Credentials{
		AppKey:    strings.TrimSpace(p.v.GetString("app_key")),
		AppSecret: strings.TrimSpace(p.v.GetString("app_secret")),
	}, nil
}

// KV is the subset of the settings store used for credentials.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, keys ...string) (int64, error)
}

// Stored reads credentials from the persisted settings store.
type Stored struct {
	kv KV
}

func NewStored(kv KV) *Stored {
	return &Stored{kv: kv}
}

func (p *Stored) GetCredentials(ctx context.Context) (Credentials, error) {
	key, _, err := p.kv.Get(ctx, KeyAppKey)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read %s: %w", KeyAppKey, err)
	}
	secret, _, err := p.kv.Get(ctx, KeyAppSecret)
	if err != nil {
		return Credentials{}, fmt.Errorf("failed to read %s: %w", KeyAppSecret, err)
	}
	return Credentials{AppKey: strings.TrimSpace(key), AppSecret: strings.TrimSpace(secret)}, nil
}

// Save persists both credential fields.
func (p *Stored) Save(ctx context.Context, c Credentials) error {
	if err := p.kv.Set(ctx, KeyAppKey, c.AppKey); err != nil {
		return fmt.Errorf("failed to save %s: %w", KeyAppKey, err)
	}
	if err := p.kv.Set(ctx, KeyAppSecret, c.AppSecret); err != nil {
		return fmt.Errorf("failed to save %s: %w", KeyAppSecret, err)
	}
	return nil
}

// Clear removes both credential fields and returns how many were present.
func (p *Stored) Clear(ctx context.Context) (int64, error) {
	return p.kv.Delete(ctx, KeyAppKey, KeyAppSecret)
}

// Chain asks each provider in order and returns the first complete pair.
// Provider errors are only reported when no provider had a complete pair.
type Chain []Provider

func (c Chain) GetCredentials(ctx context.Context) (Credentials, error) {
	var errs error
	for _, p := range c {
		creds, err := p.GetCredentials(ctx)
		if err != nil {
			errs = multierr.Append(errs, err)
			continue
		}
		if creds.Complete() {
			return creds, nil
		}
	}
	return Credentials{}, errs
}
