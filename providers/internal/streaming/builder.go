package streaming

import (
	"time"
	"unicode/utf8"

	"github.com/petal-labs/unify/core"
)

// ChunkBuilder fills in the fields providers leave out of their stream records:
// the canonical model, a creation timestamp and cumulative usage.
// One builder belongs to one in-flight stream.
type ChunkBuilder struct {
	Model     core.ModelID
	Estimator core.Estimator
	Now       func() time.Time

	promptTokens    int
	completionRunes int
}

// NewChunkBuilder creates a builder for a stream answering prompt.
func NewChunkBuilder(model core.ModelID, prompt string, est core.Estimator) *ChunkBuilder {
	return &ChunkBuilder{
		Model:        model,
		Estimator:    est,
		Now:          time.Now,
		promptTokens: est.Count(prompt),
	}
}

// Build records delta as part of the completion and returns a chunk for it.
// When native is non-nil it is used as the chunk's usage; otherwise usage is
// estimated over the prompt and the completion so far.
func (b *ChunkBuilder) Build(delta string, finish core.FinishReason, native *core.Usage) core.StreamingChunk {
	b.completionRunes += utf8.RuneCountInString(delta)

	usage := core.NewUsage(b.promptTokens, b.Estimator.CountRunes(b.completionRunes))
	if native != nil {
		usage = core.NewUsage(native.PromptTokens, native.CompletionTokens)
	}

	now := b.Now
	if now == nil {
		now = time.Now
	}

	return core.StreamingChunk{
		Model:   b.Model,
		Created: now().Unix(),
		Usage:   usage,
		Choices: []core.StreamChoice{{
			Index:        0,
			Delta:        core.Delta{Content: delta, Role: core.RoleAssistant},
			FinishReason: finish,
		}},
	}
}
