// Package service contains the matching core of the ride-sharing API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here: services depend on repo interfaces, not implementations.
//
// Every mutation runs inside repo.Store.InTx, so a trip change and the
// notification change that caused it are applied together or not at all.
package service

import (
	"html"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ravitejamarri/zypool/internal/metrics"
)

const tracerName = "github.com/ravitejamarri/zypool/internal/service"

// Deps are the collaborators shared by every service.
// Zero-valued fields are replaced with working defaults.
type Deps struct {
	Logger  *slog.Logger
	Metrics metrics.Recorder
	Tracer  trace.Tracer
	Now     func() time.Time
	NewID   func() string
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	if d.Metrics == nil {
		d.Metrics = metrics.Noop{}
	}
	if d.Tracer == nil {
		d.Tracer = otel.Tracer(tracerName)
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return d
}

// endSpan records err on span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

var strictPolicy = bluemonday.StrictPolicy()

// NormalizeText strips markup from user-supplied free text and trims it.
// Cities are stored and looked up in this form, so callers that keep a city
// outside the store (the session token) normalize it the same way.
// StrictPolicy escapes what it keeps, so the result is unescaped again for
// storage; output encoding is the renderer's job.
func NormalizeText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(strings.TrimSpace(s))))
}
