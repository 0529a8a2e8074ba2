package commands

import (
	"context"
	"io"

	"github.com/fivetwenty-io/timeback/internal/client"
	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/spf13/cobra"
)

// ServiceInfo describes one registered service.
type ServiceInfo struct {
	Name    string `json:"name"     yaml:"name"`
	BaseURL string `json:"base_url" yaml:"base_url"`
}

// NewServicesCommand creates the services command.
func NewServicesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "services",
		Short: "List the API services",
		Long:  "List the services the client registry exposes and the base URL each one calls",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(_ context.Context, tb timeback.Client) error {
				infos := describeServices(tb)

				return renderOutput(cmd.OutOrStdout(), infos, func(w io.Writer) error {
					rows := make([][]string, 0, len(infos))
					for _, info := range infos {
						rows = append(rows, []string{titleCase(info.Name), formatValue(info.BaseURL)})
					}

					return renderTable(w, "services", []string{"Service", "Base URL"}, rows)
				})
			})
		},
	}
}

func describeServices(tb timeback.Client) []ServiceInfo {
	concrete, _ := tb.(*client.Client)

	names := tb.Services()
	infos := make([]ServiceInfo, 0, len(names))

	for _, name := range names {
		info := ServiceInfo{Name: name}
		if concrete != nil {
			info.BaseURL = concrete.ServiceBaseURL(name)
		}

		infos = append(infos, info)
	}

	return infos
}
