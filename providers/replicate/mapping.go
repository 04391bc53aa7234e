package replicate

import (
	"bytes"
	"strings"

	"github.com/petal-labs/unify/core"
	"github.com/petal-labs/unify/providers/internal/normalize"
	"github.com/petal-labs/unify/providers/internal/streaming"
)

// predictionPath returns the create-prediction path and the version to send
// for model.
func predictionPath(model core.ModelID) (path, version string) {
	name, version, found := strings.Cut(string(model), ":")
	if found {
		return "/predictions", version
	}
	return "/models/" + name + "/predictions", ""
}

func mapRequest(req *core.Request, prompt, version string) *predictionRequest {
	return &predictionRequest{
		Version: version,
		Input: predictionInput{
			Prompt:       prompt,
			MaxNewTokens: req.MaxTokens,
			Temperature:  req.Temperature,
		},
		Stream: true,
	}
}

// mapDoneReason converts the reason carried by the "done" event.
func mapDoneReason(reason string) core.FinishReason {
	switch reason {
	case "":
		return core.FinishReasonStop
	case "canceled", "error":
		return core.FinishReasonError
	default:
		return core.FinishReason(reason)
	}
}

// eventMapper maps prediction stream events to canonical chunks.
// "output" events carry raw text; "done" ends the stream; "error" carries
// the failure message.
func eventMapper(b *streaming.ChunkBuilder) streaming.MapFunc[streaming.Event] {
	return func(ev streaming.Event) (streaming.Step, error) {
		switch ev.Name {
		case "output":
			if len(ev.Data) == 0 {
				return streaming.Step{}, nil
			}
			return streaming.Step{Chunk: b.Build(string(ev.Data), "", nil), Emit: true}, nil

		case "done":
			var done doneEvent
			if len(bytes.TrimSpace(ev.Data)) > 0 {
				var err error
				done, err = streaming.DecodeJSON[doneEvent](providerID, ev.Data)
				if err != nil {
					return streaming.Step{}, err
				}
			}
			return streaming.Step{
				Chunk: b.Build("", mapDoneReason(done.Reason), nil),
				Emit:  true,
				Done:  true,
			}, nil

		case "error":
			message, code := normalize.ParseErrorBody(ev.Data)
			return streaming.Step{}, normalize.StreamError(providerID, code, message)

		default:
			return streaming.Step{}, nil
		}
	}
}
