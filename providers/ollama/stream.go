package ollama

import (
	"context"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers/internal/normalize"
	"github.com/petal-labs/unify/providers/internal/streaming"
	"github.com/petal-labs/unify/transport"
)

// doCompletions sends a generate request and wraps the NDJSON body in a stream.
func (p *Ollama) doCompletions(ctx context.Context, req *core.Request) (*core.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prompt := core.CombinePrompts(req.Messages)
	body := mapRequest(req, prompt, p.config.KeepAlive)

	httpReq, err := transport.NewJSONRequest(p.config.BaseURL+"/api/generate", p.buildHeaders(), body)
	if err != nil {
		return nil, err
	}

	resp, err := p.config.Transport.Send(ctx, httpReq)
	if err != nil {
		return nil, normalize.NetworkError(providerID, err)
	}

	// Check for errors
	if !resp.OK() {
		defer resp.Body.Close()
		return nil, parseErrorResponse(resp)
	}

	builder := streaming.NewChunkBuilder(req.Model, prompt, p.config.Estimator)
	dec := streaming.NewDecoder(providerID, streaming.NewLineReader(resp.Body), chunkMapper(builder))

	return core.Finish(req, core.NewStream(dec, resp.Body), prompt,
		core.WithAggregateEstimator(p.config.Estimator))
}
