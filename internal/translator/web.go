package translator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/valpere/seltran/internal/endpoint"
	"github.com/valpere/seltran/internal/extract"
)

const DefaultWebURL = "https://fanyi.youdao.com/translate"

// WebService is the unauthenticated fanyi.youdao.com sentence endpoint.
type WebService struct {
	url    string
	client Fetcher
}

func NewWebService(apiURL string, client Fetcher) *WebService {
	if apiURL == "" {
		apiURL = DefaultWebURL
	}
	return &WebService{url: apiURL, client: client}
}

func (s *WebService) Name() string {
	return "web"
}

func (s *WebService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	data, err := s.client.FetchJSON(ctx, endpoint.Request{
		Method: http.MethodPost,
		URL:    s.url,
		Form: url.Values{
			"doctype": {"json"},
			"type":    {"AUTO"},
			"i":       {req.Text},
		},
	})
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, err
	}

	result.TranslatedText = extract.Primary(data)
	if result.TranslatedText == "" {
		result.Error = ErrEmptyResult.Error()
		return result, ErrEmptyResult
	}

	return result, nil
}

func (s *WebService) IsAvailable(cfg ServiceConfig) error {
	return nil
}
