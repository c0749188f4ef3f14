// Package analyzer turns one encoded chart image into one typed analysis
// record via a single round trip to the remote model.
package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/common"
	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/credential"
	"github.com/FormulaOfDalal/ai-chart-analyzer/internal/model"
)

// excerptLimit bounds how much raw model output a MalformedAnalysis error may
// carry.
const excerptLimit = 200

// fenceRE matches a reply wrapped in a fenced code block, with an optional
// language tag, capturing the inner region.
var fenceRE = regexp.MustCompile("(?s)^```(?:[a-zA-Z0-9]+)?[ \\t]*\\r?\\n?(.*?)\\r?\\n?```$")

// Analyzer orchestrates analysis calls against the credential manager's live
// client handle.
type Analyzer struct {
	creds    *credential.Manager
	logger   *slog.Logger
	timeout  time.Duration
	inFlight atomic.Bool
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithTimeout bounds each analysis round trip. Zero leaves the transport's
// own limits as the effective bound.
func WithTimeout(d time.Duration) Option {
	return func(a *Analyzer) {
		a.timeout = d
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		a.logger = logger
	}
}

// New creates an Analyzer bound to the given credential manager.
func New(creds *credential.Manager, opts ...Option) *Analyzer {
	a := &Analyzer{
		creds:  creds,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze sends the encoded image to the remote model and decodes the reply
// into an AnalysisRecord. It is a single best-effort round trip: no retries,
// and a second call while one is pending fails with ErrAnalysisInFlight.
func (a *Analyzer) Analyze(ctx context.Context, img model.EncodedImage) (*model.AnalysisRecord, error) {
	if !a.inFlight.CompareAndSwap(false, true) {
		return nil, common.ErrAnalysisInFlight
	}
	defer a.inFlight.Store(false)

	client := a.creds.Client()
	if client == nil {
		// The handle may simply never have been initialized this
		// session; try the persisted secret once before giving up.
		if _, err := a.creds.LoadFromStorage(ctx); err != nil {
			a.logger.Debug("implicit credential reload failed", "error", err)
		}
		client = a.creds.Client()
		if client == nil {
			return nil, common.ErrNotAuthenticated
		}
	}

	data, err := img.Decode()
	if err != nil {
		return nil, fmt.Errorf("%w: image payload is not valid base64: %v", common.ErrInvalidInput, err)
	}

	if a.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := client.GenerateAnalysis(ctx, img.MediaType, data, analysisPrompt)
	if err != nil {
		return nil, a.classifyRemoteError(err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.ErrEmptyResponse
	}

	if inner, ok := stripCodeFence(text); ok {
		text = inner
	}

	var record model.AnalysisRecord
	if err := json.Unmarshal([]byte(text), &record); err != nil {
		return nil, fmt.Errorf("%w: %s", common.ErrMalformedAnalysis, excerpt(text))
	}

	a.logger.Info("chart analyzed",
		"media_type", img.MediaType,
		"sections", len(record.Sections()),
		"extra_keys", len(record.Extra),
		"duration", time.Since(start))

	return &record, nil
}

// classifyRemoteError maps a transport/service failure onto the error
// taxonomy. This is a best-effort substring heuristic over the provider's
// message text; the service exposes no structured code to match instead.
func (a *Analyzer) classifyRemoteError(err error) error {
	msg := strings.ToLower(err.Error())

	switch {
	case strings.Contains(msg, "api key not valid"), strings.Contains(msg, "invalid api key"):
		// The key itself was rejected: tear down the handle so the
		// caller is forced back into credential entry.
		a.creds.Invalidate()
		return fmt.Errorf("%w: %v", common.ErrRemoteAuthRejected, err)
	case strings.Contains(msg, "quota"):
		return fmt.Errorf("%w: %v", common.ErrQuotaExceeded, err)
	default:
		return fmt.Errorf("%w: %v", common.ErrTransport, err)
	}
}

// stripCodeFence extracts the inner region of a fenced code block, if the
// whole text is one. Models decorate otherwise-valid JSON this way despite
// instructions.
func stripCodeFence(text string) (string, bool) {
	m := fenceRE.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return strings.TrimSpace(m[1]), true
}

// excerpt truncates raw model output for error messages.
func excerpt(text string) string {
	if len(text) <= excerptLimit {
		return text
	}
	return text[:excerptLimit] + "..."
}
