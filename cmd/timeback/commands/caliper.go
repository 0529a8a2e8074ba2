package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fivetwenty-io/timeback/pkg/timeback"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewCaliperCommand creates the Caliper command group.
func NewCaliperCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "caliper",
		Short: "Send Caliper time spent events",
		Long:  "Send or validate a Caliper envelope of time spent events read from a JSON or YAML file",
	}

	cmd.AddCommand(newCaliperSendCommand("send", "Send events", false))
	cmd.AddCommand(newCaliperSendCommand("validate", "Validate events without storing them", true))

	return cmd
}

func newCaliperSendCommand(use, short string, validateOnly bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " FILE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			envelope, err := readCaliperEnvelope(args[0])
			if err != nil {
				return err
			}

			return withClient(cmd, func(ctx context.Context, client timeback.Client) error {
				send := client.Caliper().SendEvents
				if validateOnly {
					send = client.Caliper().ValidateEvents
				}

				result, err := send(ctx, envelope)
				if err != nil {
					return wrapErr(use+" caliper events", err)
				}

				return renderOutput(cmd.OutOrStdout(), result, func(w io.Writer) error {
					return renderDetails(w, [][2]string{
						{"Status", result.Status},
						{"Message", result.Message},
						{"Events", strconv.Itoa(len(envelope.Data))},
						{"Errors", strconv.Itoa(len(result.Errors))},
					})
				})
			})
		},
	}
}

// readCaliperEnvelope decodes YAML files by extension and everything else as JSON.
func readCaliperEnvelope(path string) (*timeback.CaliperEnvelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading envelope: %w", err)
	}

	var envelope timeback.CaliperEnvelope

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &envelope)
	default:
		err = json.Unmarshal(data, &envelope)
	}

	if err != nil {
		return nil, fmt.Errorf("parsing envelope %s: %w", path, err)
	}

	return &envelope, nil
}
