package translator

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/valpere/seltran/internal/endpoint"
	"github.com/valpere/seltran/internal/extract"
	"github.com/valpere/seltran/internal/signer"
)

const DefaultOpenAPIURL = "https://openapi.youdao.com/api"

// OpenAPIService is the authenticated Youdao text translation API.
type OpenAPIService struct {
	url    string
	client Fetcher
	now    func() time.Time
}

func NewOpenAPIService(apiURL string, client Fetcher) *OpenAPIService {
	if apiURL == "" {
		apiURL = DefaultOpenAPIURL
	}
	return &OpenAPIService{url: apiURL, client: client, now: time.Now}
}

func (s *OpenAPIService) Name() string {
	return "openapi"
}

func (s *OpenAPIService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if err := s.IsAvailable(cfg); err != nil {
		result.Error = err.Error()
		return result, err
	}

	signed := signer.Build(req.Text, strings.TrimSpace(cfg.AppKey), strings.TrimSpace(cfg.AppSecret), s.now())
	result.Metadata = map[string]string{"salt": signed.Salt, "curtime": signed.Curtime}

	data, err := s.client.FetchJSON(ctx, endpoint.Request{
		Method: http.MethodPost,
		URL:    s.url,
		Form:   signed.Form,
	})
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, err
	}

	text, hasTranslation, code := extract.OpenAPI(data)
	switch {
	case text != "":
		result.TranslatedText = text
		return result, nil
	case !hasTranslation && code != "":
		apiErr := &APIError{Code: code}
		result.Error = apiErr.Error()
		return result, apiErr
	default:
		result.Error = ErrEmptyResult.Error()
		return result, ErrEmptyResult
	}
}

func (s *OpenAPIService) IsAvailable(cfg ServiceConfig) error {
	if !cfg.HasCredentials() {
		return ErrMissingCredentials
	}
	return nil
}
