package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/go-playground/validator/v10"
	"golang.org/x/time/rate"

	"github.com/testplatform/probe/internal/config"
	"github.com/testplatform/probe/internal/platform/logger"
)

// Global validator instance for reuse
var validate = validator.New()

// TestSuitePayload is the body sent to create a test suite.
type TestSuitePayload struct {
	Name        string `json:"name"        validate:"required"`
	Description string `json:"description"`
	Type        string `json:"type"        validate:"required,oneof=API UI BUSINESS"`
}

// SuiteRun holds the two exchanges of one create-then-list sequence.
type SuiteRun struct {
	Create *Response
	List   *Response
}

// SuiteProbe creates a test suite and then lists the collection.
type SuiteProbe struct {
	client  *Client
	path    string
	payload TestSuitePayload
	repeat  int
	limiter *rate.Limiter
}

// NewSuiteProbe validates the configured payload and creates a SuiteProbe.
func NewSuiteProbe(client *Client, cfg config.SuiteConfig) (*SuiteProbe, error) {
	payload := TestSuitePayload{
		Name:        cfg.Name,
		Description: cfg.Description,
		Type:        cfg.Type,
	}
	if err := validate.Struct(payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	limit := rate.Inf
	if cfg.Rate > 0 {
		limit = rate.Limit(cfg.Rate)
	}

	repeat := cfg.Repeat
	if repeat < 1 {
		repeat = 1
	}

	return &SuiteProbe{
		client:  client,
		path:    cfg.Path,
		payload: payload,
		repeat:  repeat,
		limiter: rate.NewLimiter(limit, 1),
	}, nil
}

// Run executes the create-then-list sequence the configured number of times.
// The list request is sent whatever the create status was. A create body that
// is not JSON aborts the run.
func (p *SuiteProbe) Run(ctx context.Context, w io.Writer) ([]SuiteRun, error) {
	log := logger.FromContext(ctx).With("probe", "suites")
	runs := make([]SuiteRun, 0, p.repeat)

	for n := 1; n <= p.repeat; n++ {
		if err := p.limiter.Wait(ctx); err != nil {
			return runs, err
		}
		if p.repeat > 1 {
			fmt.Fprintf(w, "Run %d of %d\n", n, p.repeat)
		}

		run, err := p.runOnce(ctx, w)
		runs = append(runs, run)
		if err != nil {
			return runs, err
		}

		log.Debug("suite probe run finished",
			"run", n,
			"create_status", run.Create.StatusCode,
			"list_status", run.List.StatusCode)
	}

	return runs, nil
}

func (p *SuiteProbe) runOnce(ctx context.Context, w io.Writer) (SuiteRun, error) {
	var run SuiteRun

	created, err := p.client.Do(ctx, http.MethodPost, p.path, p.payload, nil)
	if err != nil {
		return run, fmt.Errorf("create test suite: %w", err)
	}
	run.Create = created

	fmt.Fprintf(w, "Status Code: %d\n", created.StatusCode)
	body, err := created.JSON()
	if err != nil {
		return run, fmt.Errorf("create test suite: %w", err)
	}
	fmt.Fprintf(w, "Response: %s\n", body)

	listed, err := p.client.Do(ctx, http.MethodGet, p.path, nil, nil)
	if err != nil {
		return run, fmt.Errorf("list test suites: %w", err)
	}
	run.List = listed

	fmt.Fprintf(w, "Get all test suites Status Code: %d\n", listed.StatusCode)
	body, err = listed.JSON()
	if err != nil {
		return run, fmt.Errorf("list test suites: %w", err)
	}
	fmt.Fprintf(w, "Get all test suites Response: %s\n", body)

	return run, nil
}
