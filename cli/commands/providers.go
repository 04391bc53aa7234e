package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"

	"github.com/petal-labs/unify/providers"
)

type providerInfo struct {
	ID        string `json:"id"`
	APIKeyEnv string `json:"api_key_env,omitempty"`
	KeySet    bool   `json:"key_set"`
	Default   bool   `json:"default,omitempty"`
}

func (a *App) newProvidersCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "providers",
		Short: "List available providers",
		Long:  `List every provider identifier accepted by --provider, including aliases from the config file. Key values are never shown.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := a.cfg.Registry(a.catalog, providers.Settings{Transport: a.transport})
			if err != nil {
				return a.handleError(err, ExitValidation)
			}

			var infos []providerInfo
			for _, id := range registry.IDs() {
				env := a.catalog.APIKeyEnv(id)
				if pc := a.cfg.GetProvider(id); pc != nil && pc.APIKeyEnv != "" {
					env = pc.APIKeyEnv
				}
				infos = append(infos, providerInfo{
					ID:        id,
					APIKeyEnv: env,
					KeySet:    env != "" && os.Getenv(env) != "",
					Default:   id == a.provider,
				})
			}

			if a.jsonOutput {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			table := uitable.New()
			table.MaxColWidth = 60
			table.Separator = "  "
			table.AddRow("PROVIDER", "KEY VARIABLE", "KEY")
			for _, info := range infos {
				id := info.ID
				if info.Default {
					id += " *"
				}
				status := "missing"
				if info.KeySet {
					status = "set"
				}
				table.AddRow(id, info.APIKeyEnv, status)
			}
			_, err = fmt.Fprintln(a.stdout, table)
			return err
		},
	}
}
