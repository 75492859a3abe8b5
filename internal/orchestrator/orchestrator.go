// Package orchestrator resolves a piece of text into a translation by trying
// Youdao backends one after another until one produces text.
//
// Order: dictionary lookup (single words only, failures are silent), the
// signed OpenAPI (when credentials exist), the web endpoint, the dictionary
// endpoint, and finally the web endpoint again, one segment at a time.
// Calls for one request never overlap, so an early success costs no
// requests to later backends.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/valpere/seltran/internal"
	"github.com/valpere/seltran/internal/chunker"
	"github.com/valpere/seltran/internal/settings"
	"github.com/valpere/seltran/internal/translator"
)

const DefaultTimeout = 30 * time.Second

// Dictionary is a backend that can also look up single words.
type Dictionary interface {
	translator.TranslationService
	LookupWord(ctx context.Context, word string) (*translator.ServiceResult, error)
}

// Backends are the services the pipeline walks through. All are required.
type Backends struct {
	OpenAPI translator.TranslationService
	Web     translator.TranslationService
	Dict    Dictionary
}

type OrchestratorConfig struct {
	// Timeout bounds one whole Translate call, across every stage.
	Timeout time.Duration
	Logger  *logrus.Logger
}

type OrchestratorResult struct {
	RequestID   string
	Text        string
	Stage       Stage
	ServiceName string
	// Attempts holds the stages that failed before Stage succeeded, or all
	// of them when nothing succeeded.
	Attempts []*AttemptError
	Latency  time.Duration
}

type Orchestrator struct {
	backends    Backends
	credentials settings.Provider
	config      OrchestratorConfig
	logger      *logrus.Logger
}

func New(backends Backends, credentials settings.Provider, config OrchestratorConfig) *Orchestrator {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	logger := config.Logger
	if logger == nil {
		logger = logrus.New()
	}
	if credentials == nil {
		credentials = settings.Static{}
	}
	return &Orchestrator{
		backends:    backends,
		credentials: credentials,
		config:      config,
		logger:      logger,
	}
}

// Translate returns the translation of text, or an *AggregatedError listing
// why every stage failed.
func (o *Orchestrator) Translate(ctx context.Context, text string) (string, error) {
	result, err := o.Execute(ctx, text)
	if err != nil {
		return "", err
	}
	return result.Text, nil
}

type strategy struct {
	stage Stage
	run   func(ctx context.Context) (*translator.ServiceResult, error)
}

// Execute runs the pipeline and reports which stage answered. On failure
// the returned result is still non-nil (except for blank input) and carries
// the attempts.
func (o *Orchestrator) Execute(ctx context.Context, text string) (*OrchestratorResult, error) {
	req, err := internal.NewTranslationRequest(text)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &OrchestratorResult{RequestID: req.ID}
	defer func() { result.Latency = time.Since(start) }()

	ctx, cancel := context.WithTimeout(ctx, o.config.Timeout)
	defer cancel()

	log := o.logger.WithFields(logrus.Fields{
		"request_id":  req.ID,
		"chars":       len([]rune(req.Text)),
		"single_word": req.IsSingleWord,
	})
	log.Debug("translation started")

	if req.IsSingleWord {
		if res, ok := o.lookupWord(ctx, log, req.Text); ok {
			o.succeed(result, log, DictionaryLookup, res, start)
			return result, nil
		}
	}

	creds := o.loadCredentials(ctx, log)
	cfg := translator.ServiceConfig{AppKey: creds.AppKey, AppSecret: creds.AppSecret}
	tr := translator.TranslateRequest{Text: req.Text}

	var strategies []strategy
	if o.backends.OpenAPI.IsAvailable(cfg) == nil {
		strategies = append(strategies, strategy{AuthenticatedAPI, func(ctx context.Context) (*translator.ServiceResult, error) {
			return o.backends.OpenAPI.Translate(ctx, cfg, tr)
		}})
	}
	strategies = append(strategies,
		strategy{PrimaryEndpoint, func(ctx context.Context) (*translator.ServiceResult, error) {
			return o.backends.Web.Translate(ctx, cfg, tr)
		}},
		strategy{FallbackEndpoint, func(ctx context.Context) (*translator.ServiceResult, error) {
			return o.backends.Dict.Translate(ctx, cfg, tr)
		}},
		strategy{SegmentedTranslation, func(ctx context.Context) (*translator.ServiceResult, error) {
			return o.translateSegments(ctx, cfg, req.Text)
		}},
	)

	var errs error
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			// Record the deadline once, against the first stage it prevented.
			if !errors.Is(errs, err) {
				attempt := newAttemptError(s.stage, err)
				errs = multierr.Append(errs, attempt)
				result.Attempts = append(result.Attempts, attempt)
			}
			log.WithField("stage", s.stage.String()).WithError(err).Debug("context done, skipping remaining stages")
			break
		}

		stageStart := time.Now()
		res, err := s.run(ctx)
		if err == nil && (res == nil || res.TranslatedText == "") {
			err = translator.ErrEmptyResult
		}
		if err == nil {
			o.succeed(result, log, s.stage, res, start)
			return result, nil
		}

		attempt := newAttemptError(s.stage, err)
		errs = multierr.Append(errs, attempt)
		result.Attempts = append(result.Attempts, attempt)
		log.WithFields(logrus.Fields{
			"stage":   s.stage.String(),
			"latency": time.Since(stageStart),
		}).WithError(err).Debug("stage failed")
	}

	if !creds.Complete() {
		attempt := &AttemptError{Stage: MissingCredentials, Message: translator.ErrMissingCredentials.Error(), Err: translator.ErrMissingCredentials}
		errs = multierr.Append(errs, attempt)
		result.Attempts = append(result.Attempts, attempt)
	}

	aggregated := &AggregatedError{err: errs}
	log.WithField("attempts", len(result.Attempts)).WithError(aggregated).Info("translation failed")
	return result, aggregated
}

// lookupWord is the single-word shortcut. Any failure is logged and
// swallowed so the sentence stages run unaffected.
func (o *Orchestrator) lookupWord(ctx context.Context, log *logrus.Entry, word string) (*translator.ServiceResult, bool) {
	res, err := o.backends.Dict.LookupWord(ctx, word)
	if err != nil || res == nil || res.TranslatedText == "" {
		entry := log.WithField("stage", DictionaryLookup.String())
		if err != nil {
			entry = entry.WithError(err)
		}
		entry.Debug("no dictionary entry, falling through")
		return nil, false
	}
	return res, true
}

func (o *Orchestrator) loadCredentials(ctx context.Context, log *logrus.Entry) settings.Credentials {
	creds, err := o.credentials.GetCredentials(ctx)
	if err != nil {
		log.WithError(err).Warn("failed to load OpenAPI credentials")
		return settings.Credentials{}
	}
	return creds
}

// translateSegments translates each segment through the web endpoint in
// order. It gives up on the first segment that fails or comes back empty:
// a partial translation is never returned.
func (o *Orchestrator) translateSegments(ctx context.Context, cfg translator.ServiceConfig, text string) (*translator.ServiceResult, error) {
	segments := chunker.Segment(text)
	if len(segments) < 2 {
		return nil, translator.ErrEmptyResult
	}

	var sb strings.Builder
	for i, seg := range segments {
		res, err := o.backends.Web.Translate(ctx, cfg, translator.TranslateRequest{Text: seg})
		if errors.Is(err, translator.ErrEmptyResult) || (err == nil && (res == nil || res.TranslatedText == "")) {
			return nil, &segmentError{index: i + 1, total: len(segments)}
		}
		if err != nil {
			return nil, fmt.Errorf("segment %d of %d: %w", i+1, len(segments), err)
		}
		sb.WriteString(res.TranslatedText)
	}

	return &translator.ServiceResult{
		ServiceName:    o.backends.Web.Name(),
		TranslatedText: sb.String(),
		Metadata:       map[string]string{"segments": strconv.Itoa(len(segments))},
	}, nil
}

type segmentError struct {
	index int
	total int
}

func (e *segmentError) Error() string {
	return fmt.Sprintf("segment %d of %d returned empty translation", e.index, e.total)
}

func (o *Orchestrator) succeed(result *OrchestratorResult, log *logrus.Entry, stage Stage, res *translator.ServiceResult, start time.Time) {
	result.Text = res.TranslatedText
	result.Stage = stage
	result.ServiceName = res.ServiceName
	log.WithFields(logrus.Fields{
		"stage":   stage.String(),
		"service": res.ServiceName,
		"latency": time.Since(start),
	}).Info("translation resolved")
}
