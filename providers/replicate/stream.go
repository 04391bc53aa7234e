package replicate

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers/internal/normalize"
	"github.com/petal-labs/unify/providers/internal/streaming"
	"github.com/petal-labs/unify/transport"
)

// maxPredictionBody bounds how much of the create-prediction reply is read.
const maxPredictionBody = 1 << 20

// doCompletions creates a prediction, then opens its event stream.
func (p *Replicate) doCompletions(ctx context.Context, req *core.Request) (*core.Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	prompt := core.CombinePrompts(req.Messages)
	pred, err := p.createPrediction(ctx, req, prompt)
	if err != nil {
		return nil, err
	}

	header := p.buildHeaders()
	header.Set("Accept", "text/event-stream")
	header.Set("Cache-Control", "no-store")

	resp, err := p.config.Transport.Send(ctx, &transport.Request{
		Method: http.MethodGet,
		URL:    pred.URLs.Stream,
		Header: header,
	})
	if err != nil {
		return nil, normalize.NetworkError(providerID, err)
	}

	if !resp.OK() {
		defer resp.Body.Close()
		return nil, normalize.StatusError(providerID, resp.Status, resp.Body, pred.ID)
	}

	builder := streaming.NewChunkBuilder(req.Model, prompt, p.config.Estimator)
	dec := streaming.NewDecoder(providerID, streaming.NewEventReader(resp.Body), eventMapper(builder))

	return core.Finish(req, core.NewStream(dec, resp.Body), prompt,
		core.WithAggregateEstimator(p.config.Estimator))
}

// createPrediction starts a streaming prediction and returns it.
func (p *Replicate) createPrediction(ctx context.Context, req *core.Request, prompt string) (*prediction, error) {
	path, version := predictionPath(req.Model)
	url := strings.TrimRight(p.config.BaseURL, "/") + path

	httpReq, err := transport.NewJSONRequest(url, p.buildHeaders(), mapRequest(req, prompt, version))
	if err != nil {
		return nil, err
	}

	resp, err := p.config.Transport.Send(ctx, httpReq)
	if err != nil {
		return nil, normalize.NetworkError(providerID, err)
	}
	defer resp.Body.Close()

	if !resp.OK() {
		return nil, normalize.StatusError(providerID, resp.Status, resp.Body, "")
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPredictionBody))
	if err != nil {
		return nil, normalize.NetworkError(providerID, err)
	}
	pred, err := streaming.DecodeJSON[prediction](providerID, body)
	if err != nil {
		return nil, err
	}
	if pred.URLs.Stream == "" {
		return nil, normalize.ProviderError(providerID, resp.Status, pred.ID, "streaming_unsupported",
			"model "+string(req.Model)+" does not support streaming", core.ErrBadRequest)
	}
	return &pred, nil
}
