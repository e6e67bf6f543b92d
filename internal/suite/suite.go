package suite

import (
	"context"
	"errors"
	"fmt"
	"siteqa/internal/assert"
	"siteqa/internal/chrono"
	"siteqa/internal/fixtures"
	"siteqa/internal/report"
	"siteqa/lib/telemetry"
	"siteqa/lib/textutil"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("siteqa/internal/suite")

const (
	report_runner_check  = "runner.check"
	report_runner_failed = "runner.failed"
)

// ErrSkip is returned (wrapped) by a check that cannot run in the current
// environment.
var ErrSkip = errors.New("skipped")

// Groups a check can belong to.
const (
	GroupForm   = "form"
	GroupVisual = "visual"
	GroupSEO    = "seo"
	GroupLinks  = "links"
)

type CheckFunc func(ctx context.Context, env *fixtures.Env, attach report.Attacher) error

// Check is a single verification against the site under test.
type Check struct {
	ID    string
	Name  string
	Group string
	// the check cannot run without a browser
	Browser bool
	Run     CheckFunc
}

// Result is the outcome of running a Check.
type Result = report.Entry

// Select returns the checks whose group or id matches any of only, an
// empty only selects every check.
func Select(checks []Check, only []string) []Check {
	if len(only) == 0 {
		return checks
	}
	var out []Check
	for _, c := range checks {
		for _, o := range only {
			if textutil.NormalizeName(c.Group) == textutil.NormalizeName(o) ||
				textutil.MatchName(c.ID, []string{o}) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}

type Runner struct {
	env   *fixtures.Env
	clock chrono.TimeAPI
	tel   telemetry.API
}

func NewRunner(env *fixtures.Env, clock chrono.TimeAPI, tel telemetry.API) Runner {
	assert.NotNil(env)
	assert.NotNil(clock)
	assert.NotNil(tel)
	return Runner{
		env:   env,
		clock: clock,
		tel:   telemetry.NewScopedAPI("suite", tel),
	}
}

// RunCheck runs a single check within the test timeout, a panicking check
// fails instead of taking the suite down.
func (r Runner) RunCheck(ctx context.Context, check Check) (result Result) {
	ctx, span := tracer.Start(ctx, check.ID)
	span.SetAttributes(
		attribute.String("name", check.Name),
		attribute.String("group", check.Group),
	)
	defer span.End()

	result = Result{
		ID:   check.ID,
		Name: check.Name,
	}
	if check.Browser && !r.env.BrowserAvailable() {
		result.Status = report.StatusSkipped
		result.Message = "no browser available"
		return result
	}

	timeout := r.env.Config.Timeouts.TestTimeout()
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var attachments report.Attachments
	start := r.clock.Now()
	var err error
	func() {
		defer func() {
			if rec := recover(); rec != nil {
				err = fmt.Errorf("panic: %v", rec)
			}
		}()
		err = check.Run(ctx, r.env, &attachments)
	}()
	result.Duration = r.clock.Now().Sub(start)
	result.Attachments = attachments.List()

	switch {
	case err == nil:
		result.Status = report.StatusPassed
	case errors.Is(err, ErrSkip):
		result.Status = report.StatusSkipped
		result.Message = err.Error()
	default:
		result.Status = report.StatusFailed
		result.Message = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, "check failed")
		r.tel.ReportWarning(report_runner_failed, check.ID, err)
	}
	r.tel.ReportDebug(report_runner_check, check.ID, string(result.Status), result.Duration.String())
	return result
}

// Run runs every check one after another, a failing check does not stop
// the ones after it.
func (r Runner) Run(ctx context.Context, checks []Check) report.Report {
	out := report.Report{
		BaseUrl: r.env.Config.BaseUrl,
		Started: r.clock.Now(),
	}
	for _, check := range checks {
		if ctx.Err() != nil {
			out.Entries = append(out.Entries, Result{
				ID:      check.ID,
				Name:    check.Name,
				Status:  report.StatusSkipped,
				Message: ctx.Err().Error(),
			})
			continue
		}
		out.Entries = append(out.Entries, r.RunCheck(ctx, check))
	}
	out.Finished = r.clock.Now()
	return out
}
