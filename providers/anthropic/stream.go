package anthropic

import (
	"context"
	"strings"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers/internal/normalize"
	"github.com/petal-labs/unify/providers/internal/streaming"
	"github.com/petal-labs/unify/transport"
)

// doCompletions sends a streaming Messages request and wraps the SSE body in a stream.
func (p *Anthropic) doCompletions(ctx context.Context, req *core.Request) (*core.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	url := strings.TrimRight(p.config.BaseURL, "/") + messagesPath
	httpReq, err := transport.NewJSONRequest(url, p.buildHeaders(), p.buildRequest(req))
	if err != nil {
		return nil, err
	}

	resp, err := p.config.Transport.Send(ctx, httpReq)
	if err != nil {
		return nil, normalize.NetworkError(providerID, err)
	}

	// Check for error status
	if !resp.OK() {
		defer resp.Body.Close()
		return nil, readError(resp.Status, resp.Body, resp.Header.Get(requestIDHeader))
	}

	prompt := core.CombinePrompts(req.Messages)
	builder := streaming.NewChunkBuilder(req.Model, prompt, p.config.Estimator)
	dec := streaming.NewDecoder(providerID, streaming.NewEventReader(resp.Body), eventMapper(builder))

	return core.Finish(req, core.NewStream(dec, resp.Body), prompt,
		core.WithAggregateEstimator(p.config.Estimator))
}
