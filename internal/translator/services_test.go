package translator

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/valpere/seltran/internal"
	"github.com/valpere/seltran/internal/endpoint"
	"github.com/valpere/seltran/internal/signer"
)

func testClient(server *httptest.Server) *endpoint.Client {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return endpoint.NewWithHTTPClient(server.Client(), logger)
}

func jsonServer(t *testing.T, status int, body string, inspect func(r *http.Request)) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if inspect != nil {
			inspect(r)
		}
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestWebService_Translate_Success(t *testing.T) {
	server := jsonServer(t, http.StatusOK, `{"translateResult":[[{"tgt":"你好"}],[{"tgt":"世界"}]]}`, func(r *http.Request) {
		r.ParseForm()
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.PostForm.Get("doctype") != "json" || r.PostForm.Get("type") != "AUTO" {
			t.Errorf("unexpected form: %v", r.PostForm)
		}
		if r.PostForm.Get("i") != "Hello world" {
			t.Errorf("expected i='Hello world', got %q", r.PostForm.Get("i"))
		}
	})

	svc := NewWebService(server.URL, testClient(server))

	result, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{Text: "Hello world"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslatedText != "你好世界" {
		t.Errorf("expected '你好世界', got %q", result.TranslatedText)
	}
	if result.ServiceName != "web" {
		t.Errorf("expected service name 'web', got %q", result.ServiceName)
	}
	if result.Latency <= 0 {
		t.Error("expected positive latency")
	}
}

func TestWebService_Translate_Empty(t *testing.T) {
	server := jsonServer(t, http.StatusOK, `{"translateResult":[]}`, nil)
	svc := NewWebService(server.URL, testClient(server))

	result, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{Text: "Hello"})
	if !errors.Is(err, ErrEmptyResult) {
		t.Errorf("expected ErrEmptyResult, got %v", err)
	}
	if result == nil || result.Error == "" {
		t.Error("expected error message in result")
	}
}

func TestWebService_Translate_HTTPError(t *testing.T) {
	server := jsonServer(t, http.StatusInternalServerError, ``, nil)
	svc := NewWebService(server.URL, testClient(server))

	_, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{Text: "Hello"})
	var httpErr *endpoint.HTTPError
	if !errors.As(err, &httpErr) || httpErr.StatusCode != 500 {
		t.Errorf("expected HTTP 500 error, got %v", err)
	}
}

func TestWebService_Defaults(t *testing.T) {
	svc := NewWebService("", nil)
	if svc.url != DefaultWebURL {
		t.Errorf("expected default URL, got %q", svc.url)
	}
	if svc.IsAvailable(ServiceConfig{}) != nil {
		t.Error("web service should always be available")
	}
}

func TestDictService_Translate_Fanyi(t *testing.T) {
	server := jsonServer(t, http.StatusOK, `{"fanyi":{"tran":"你好，世界"}}`, func(r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Query().Get("q") != "Hello, world" {
			t.Errorf("expected q='Hello, world', got %q", r.URL.Query().Get("q"))
		}
	})
	svc := NewDictService(server.URL, testClient(server))

	result, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{Text: "Hello, world"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslatedText != "你好，世界" {
		t.Errorf("expected '你好，世界', got %q", result.TranslatedText)
	}
}

func TestDictService_Translate_Empty(t *testing.T) {
	server := jsonServer(t, http.StatusOK, `{}`, nil)
	svc := NewDictService(server.URL, testClient(server))

	_, err := svc.Translate(context.Background(), ServiceConfig{}, TranslateRequest{Text: "Hello"})
	if !errors.Is(err, ErrEmptyResult) {
		t.Errorf("expected ErrEmptyResult, got %v", err)
	}
}

func TestDictService_LookupWord(t *testing.T) {
	body := `{"ec":{"word":[{"trs":[
		{"pos":"n.","tr":[{"l":{"i":["简历"]}}]},
		{"pos":"v.","tr":[{"l":{"i":["重新开始","继续"]}}]}
	]}]}}`
	server := jsonServer(t, http.StatusOK, body, nil)
	svc := NewDictService(server.URL, testClient(server))

	result, err := svc.LookupWord(context.Background(), "resume")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Meanings) != 2 {
		t.Fatalf("expected 2 meanings, got %d", len(result.Meanings))
	}
	want := "1. n. 简历\n2. v. 重新开始；继续"
	if result.TranslatedText != want {
		t.Errorf("expected %q, got %q", want, result.TranslatedText)
	}
	if result.Metadata["meanings"] != "2" {
		t.Errorf("expected meanings metadata '2', got %v", result.Metadata)
	}
}

func TestDictService_LookupWord_NoEntry(t *testing.T) {
	server := jsonServer(t, http.StatusOK, `{"ec":{"word":[]}}`, nil)
	svc := NewDictService(server.URL, testClient(server))

	result, err := svc.LookupWord(context.Background(), "zzyzx")
	if !errors.Is(err, ErrEmptyResult) {
		t.Errorf("expected ErrEmptyResult, got %v", err)
	}
	if result.TranslatedText != "" {
		t.Errorf("expected no text, got %q", result.TranslatedText)
	}
}

func TestOpenAPIService_Translate_Success(t *testing.T) {
	now := time.UnixMilli(1700000000123)
	server := jsonServer(t, http.StatusOK, `{"errorCode":"0","translation":["你好"]}`, func(r *http.Request) {
		r.ParseForm()
		f := r.PostForm
		if f.Get("appKey") != "key" || f.Get("signType") != "v3" || f.Get("to") != internal.TargetLang {
			t.Errorf("unexpected form: %v", f)
		}
		want := signer.Sign("key", "Hello", f.Get("salt"), f.Get("curtime"), "secret")
		if f.Get("sign") != want {
			t.Errorf("expected sign %s, got %s", want, f.Get("sign"))
		}
		if f.Get("salt") != "1700000000123" || f.Get("curtime") != "1700000000" {
			t.Errorf("unexpected salt/curtime: %s/%s", f.Get("salt"), f.Get("curtime"))
		}
	})
	svc := NewOpenAPIService(server.URL, testClient(server))
	svc.now = func() time.Time { return now }

	result, err := svc.Translate(context.Background(), ServiceConfig{AppKey: " key ", AppSecret: "secret"}, TranslateRequest{Text: "Hello"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TranslatedText != "你好" {
		t.Errorf("expected '你好', got %q", result.TranslatedText)
	}
	if result.Metadata["salt"] != "1700000000123" {
		t.Errorf("expected salt metadata, got %v", result.Metadata)
	}
}

func TestOpenAPIService_Translate_APIError(t *testing.T) {
	server := jsonServer(t, http.StatusOK, `{"errorCode":"108"}`, nil)
	svc := NewOpenAPIService(server.URL, testClient(server))

	_, err := svc.Translate(context.Background(), ServiceConfig{AppKey: "k", AppSecret: "s"}, TranslateRequest{Text: "Hello"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Code != "108" {
		t.Errorf("expected code 108, got %q", apiErr.Code)
	}
	if err.Error() != "openapi error: 108" {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestOpenAPIService_Translate_EmptyTranslation(t *testing.T) {
	server := jsonServer(t, http.StatusOK, `{"errorCode":"0","translation":["  "]}`, nil)
	svc := NewOpenAPIService(server.URL, testClient(server))

	_, err := svc.Translate(context.Background(), ServiceConfig{AppKey: "k", AppSecret: "s"}, TranslateRequest{Text: "Hello"})
	if !errors.Is(err, ErrEmptyResult) {
		t.Errorf("expected ErrEmptyResult, got %v", err)
	}
}

func TestOpenAPIService_Translate_NoCredentials(t *testing.T) {
	svc := NewOpenAPIService("http://127.0.0.1:1", nil)

	result, err := svc.Translate(context.Background(), ServiceConfig{AppKey: "k", AppSecret: "  "}, TranslateRequest{Text: "Hello"})
	if !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
	if result == nil || result.Error == "" {
		t.Error("expected error message in result")
	}
}

func TestOpenAPIService_IsAvailable(t *testing.T) {
	svc := NewOpenAPIService("", nil)

	if err := svc.IsAvailable(ServiceConfig{}); !errors.Is(err, ErrMissingCredentials) {
		t.Errorf("expected ErrMissingCredentials, got %v", err)
	}
	if err := svc.IsAvailable(ServiceConfig{AppKey: "k", AppSecret: "s"}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
	if svc.Name() != "openapi" {
		t.Errorf("expected 'openapi', got %q", svc.Name())
	}
}
