package service

import (
	"io"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/shanismunderi/ahsas-studentsunion-sub000/app/model"
)

const tracerName = "github.com/shanismunderi/ahsas-studentsunion-sub000/app/service"

// Deps are the ambient collaborators shared by the workflow services.
// Nil fields fall back to no-op implementations.
type Deps struct {
	Logger  *slog.Logger
	Metrics Metrics
	Tracer  trace.Tracer
	Clock   func() time.Time
}

func (d Deps) withDefaults() Deps {
	if d.Logger == nil {
		d.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if d.Metrics == nil {
		d.Metrics = NoOpMetrics{}
	}
	if d.Tracer == nil {
		d.Tracer = otel.Tracer(tracerName)
	}
	if d.Clock == nil {
		d.Clock = func() time.Time { return time.Now().UTC() }
	}
	return d
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func parseDate(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := time.Parse(model.DateLayout, strings.TrimSpace(*s))
	if err != nil {
		return nil, invalid("achievement_date", "must be a date in YYYY-MM-DD format")
	}
	return &t, nil
}
