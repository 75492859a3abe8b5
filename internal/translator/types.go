package translator

import (
	"context"
	"strings"
	"time"
)

type ServiceConfig struct {
	AppKey    string `mapstructure:"app_key" json:"app_key"`
	AppSecret string `mapstructure:"app_secret" json:"-"`
}

// HasCredentials reports whether both OpenAPI credentials are non-blank.
func (c ServiceConfig) HasCredentials() bool {
	return strings.TrimSpace(c.AppKey) != "" && strings.TrimSpace(c.AppSecret) != ""
}

type TranslateRequest struct {
	Text string `json:"text"`
}

type ServiceResult struct {
	ServiceName    string            `json:"service_name"`
	TranslatedText string            `json:"translated_text"`
	Meanings       []string          `json:"meanings,omitempty"`
	Metadata       map[string]string `json:"metadata"`
	Latency        time.Duration     `json:"latency"`
	Error          string            `json:"error,omitempty"`
}

type TranslationService interface {
	Name() string
	Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error)
	IsAvailable(cfg ServiceConfig) error
}
