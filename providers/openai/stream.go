package openai

import (
	"context"
	"strings"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers/internal/normalize"
	"github.com/petal-labs/unify/providers/internal/streaming"
	"github.com/petal-labs/unify/transport"
)

// doCompletions sends a chat completions request and wraps the SSE body in a stream.
func (p *OpenAI) doCompletions(ctx context.Context, req *core.Request) (*core.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	url := strings.TrimRight(p.config.BaseURL, "/") + "/chat/completions"
	httpReq, err := transport.NewJSONRequest(url, p.buildHeaders(), buildRequest(req))
	if err != nil {
		return nil, err
	}

	resp, err := p.config.Transport.Send(ctx, httpReq)
	if err != nil {
		return nil, normalize.NetworkError(p.config.ID, err)
	}

	if !resp.OK() {
		defer resp.Body.Close()
		return nil, p.normalizeError(resp)
	}

	// Messages are sent natively; the combined prompt only feeds the estimator.
	prompt := core.CombinePrompts(req.Messages)
	builder := streaming.NewChunkBuilder(req.Model, prompt, p.config.Estimator)
	dec := streaming.NewDecoder(p.config.ID, streaming.NewEventReader(resp.Body), p.chunkMapper(builder))

	return core.Finish(req, core.NewStream(dec, resp.Body), prompt,
		core.WithAggregateEstimator(p.config.Estimator))
}
