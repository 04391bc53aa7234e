package commands

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/petal-labs/unify/core"
)

// schemaReflector inlines definitions so each schema is self-contained.
var schemaReflector = &jsonschema.Reflector{
	DoNotReference: true,
}

var schemaTypes = map[string]func() any{
	"request":  func() any { return &core.Request{} },
	"response": func() any { return &core.Response{} },
	"chunk":    func() any { return &core.StreamingChunk{} },
}

func schemaNames() []string {
	names := make([]string, 0, len(schemaTypes))
	for name := range schemaTypes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (a *App) newSchemaCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "schema [request|response|chunk]",
		Short: "Print the JSON Schema of the canonical formats",
		Long: `Print the JSON Schema of the canonical request, response and streaming
chunk. Without an argument all three are printed, keyed by name.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out any
			if len(args) == 1 {
				newValue, ok := schemaTypes[args[0]]
				if !ok {
					return a.handleError(fmt.Errorf("unknown schema %q (available: %v)", args[0], schemaNames()), ExitValidation)
				}
				out = schemaReflector.Reflect(newValue())
			} else {
				all := make(map[string]*jsonschema.Schema, len(schemaTypes))
				for name, newValue := range schemaTypes {
					all[name] = schemaReflector.Reflect(newValue())
				}
				out = all
			}

			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(a.stdout, string(data))
			return err
		},
	}
}
