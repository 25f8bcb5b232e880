package match

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/agentjobs/internal/metrics"
)

// InstrumentedExtractor wraps a SkillExtractor with metrics, logging and an optional fallback.
// When the primary extractor fails and a fallback is set, the fallback result is returned.
type InstrumentedExtractor struct {
	primary  SkillExtractor
	name     string
	fallback SkillExtractor
	logger   *zap.Logger
}

// NewInstrumentedExtractor wraps primary. fallback can be nil.
func NewInstrumentedExtractor(
	primary SkillExtractor, name string, fallback SkillExtractor, logger *zap.Logger,
) *InstrumentedExtractor {
	return &InstrumentedExtractor{primary: primary, name: name, fallback: fallback, logger: logger}
}

// Extract delegates to the primary extractor, falling back on error.
func (e *InstrumentedExtractor) Extract(ctx context.Context, text string) ([]string, error) {
	start := time.Now()
	skills, err := e.primary.Extract(ctx, text)
	duration := time.Since(start)

	if err == nil {
		metrics.SkillExtractionsTotal.WithLabelValues(e.name, "ok").Inc()
		e.logger.Debug("Skill extraction completed",
			zap.String("extractor", e.name),
			zap.Duration("duration", duration),
			zap.Int("skills", len(skills)),
		)
		return skills, nil
	}

	if errors.Is(err, context.Canceled) || e.fallback == nil {
		metrics.SkillExtractionsTotal.WithLabelValues(e.name, "error").Inc()
		e.logger.Error("Skill extraction failed",
			zap.String("extractor", e.name),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, fmt.Errorf("extract skills: %w", err)
	}

	metrics.SkillExtractionsTotal.WithLabelValues(e.name, "fallback").Inc()
	e.logger.Warn("Skill extraction failed, using fallback",
		zap.String("extractor", e.name),
		zap.Duration("duration", duration),
		zap.Error(err),
	)
	skills, err = e.fallback.Extract(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("fallback extract skills: %w", err)
	}
	return skills, nil
}
