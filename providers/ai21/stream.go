package ai21

import (
	"context"
	"strings"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers/internal/normalize"
	"github.com/petal-labs/unify/providers/internal/streaming"
	"github.com/petal-labs/unify/transport"
)

// doCompletions sends a complete request and wraps the reply document in a stream.
func (p *AI21) doCompletions(ctx context.Context, req *core.Request) (*core.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prompt := core.CombinePrompts(req.Messages)
	url := strings.TrimRight(p.config.BaseURL, "/") + completePath(req.Model)

	httpReq, err := transport.NewJSONRequest(url, p.buildHeaders(), mapRequest(req, prompt))
	if err != nil {
		return nil, err
	}

	resp, err := p.config.Transport.Send(ctx, httpReq)
	if err != nil {
		return nil, normalize.NetworkError(providerID, err)
	}

	if !resp.OK() {
		defer resp.Body.Close()
		return nil, normalize.StatusError(providerID, resp.Status, resp.Body, resp.Header.Get("request-id"))
	}

	builder := streaming.NewChunkBuilder(req.Model, prompt, p.config.Estimator)
	dec := streaming.NewDecoder(providerID, streaming.NewBodyReader(resp.Body), documentMapper(builder))

	return core.Finish(req, core.NewStream(dec, resp.Body), prompt,
		core.WithAggregateEstimator(p.config.Estimator))
}
