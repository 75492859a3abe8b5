package translator

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/tidwall/gjson"

	"github.com/valpere/seltran/internal/endpoint"
	"github.com/valpere/seltran/internal/extract"
)

const DefaultDictURL = "https://dict.youdao.com/jsonapi"

// DictService is the dict.youdao.com JSON API. It serves both as the
// sentence fallback and as the single-word dictionary.
type DictService struct {
	url    string
	client Fetcher
}

func NewDictService(apiURL string, client Fetcher) *DictService {
	if apiURL == "" {
		apiURL = DefaultDictURL
	}
	return &DictService{url: apiURL, client: client}
}

func (s *DictService) Name() string {
	return "dict"
}

func (s *DictService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	data, err := s.fetch(ctx, req.Text)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, err
	}

	result.TranslatedText = extract.Fallback(data)
	if result.TranslatedText == "" {
		result.Error = ErrEmptyResult.Error()
		return result, ErrEmptyResult
	}

	return result, nil
}

// LookupWord returns the dictionary senses of word. TranslatedText holds
// them as a numbered list.
func (s *DictService) LookupWord(ctx context.Context, word string) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name(), Metadata: map[string]string{"mode": "word"}}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	data, err := s.fetch(ctx, word)
	if err != nil {
		result.Error = fmt.Sprintf("request failed: %v", err)
		return result, err
	}

	result.Meanings = extract.WordMeanings(data)
	if len(result.Meanings) == 0 {
		result.Error = "no dictionary entry"
		return result, ErrEmptyResult
	}

	result.TranslatedText = extract.FormatMeanings(result.Meanings)
	result.Metadata["meanings"] = strconv.Itoa(len(result.Meanings))
	return result, nil
}

func (s *DictService) IsAvailable(cfg ServiceConfig) error {
	return nil
}

func (s *DictService) fetch(ctx context.Context, q string) (gjson.Result, error) {
	return s.client.FetchJSON(ctx, endpoint.Request{
		Method: http.MethodGet,
		URL:    s.url,
		Query:  url.Values{"q": {q}},
	})
}
