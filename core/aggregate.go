package core

import (
	"strings"
	"time"
)

// AggregateOption configures Aggregate.
type AggregateOption func(*aggregateConfig)

type aggregateConfig struct {
	estimator Estimator
	now       func() time.Time
}

// WithAggregateEstimator sets the estimator used for the final usage.
func WithAggregateEstimator(e Estimator) AggregateOption {
	return func(c *aggregateConfig) {
		c.estimator = e
	}
}

// WithClock sets the clock used for the Created timestamp.
func WithClock(now func() time.Time) AggregateOption {
	return func(c *aggregateConfig) {
		if now != nil {
			c.now = now
		}
	}
}

// Aggregate consumes s to exhaustion and folds it into a single Response.
//
// Created is captured once before the first pull. Deltas of the first choice
// are concatenated in arrival order and usage is estimated over the prompt and
// the full completion. An empty stream yields empty content and zero usage.
// A stream failure is returned as-is; no partial response is produced.
// The stream is always closed.
func Aggregate(s *Stream, model ModelID, prompt string, opts ...AggregateOption) (*Response, error) {
	cfg := aggregateConfig{
		estimator: NewEstimator(DefaultCharsPerToken),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	created := cfg.now().Unix()
	defer s.Close()

	var content strings.Builder
	finish := FinishReason("")
	chunks := 0

	for s.Next() {
		chunk := s.Chunk()
		chunks++
		if len(chunk.Choices) == 0 {
			continue
		}
		choice := chunk.Choices[0]
		content.WriteString(choice.Delta.Content)
		if choice.FinishReason != "" {
			finish = choice.FinishReason
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}

	var usage Usage
	if chunks > 0 {
		usage = cfg.estimator.Estimate(prompt, content.String())
	}
	if finish == "" {
		finish = FinishReasonStop
	}

	return &Response{
		Model:   model,
		Created: created,
		Usage:   usage,
		Choices: []Choice{{
			Index:        0,
			Message:      ResponseMessage{Content: content.String(), Role: RoleAssistant},
			FinishReason: finish,
		}},
	}, nil
}
