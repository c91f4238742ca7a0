package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/joestump/bytevault/internal/remote"
)

func newExportCmd() *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export every saved link",
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("--format must be json or yaml")
			}
			app, err := openClient(cmd, clientOptions{})
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			body, err := app.api.Export(cmd.Context())
			if err != nil {
				fmt.Fprintln(cmd.ErrOrStderr(), "error: Export failed")
				return err
			}
			if format == "yaml" {
				if body, err = jsonToYAML(body); err != nil {
					return err
				}
			}

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			if _, err := w.Write(body); err != nil {
				return err
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "Export complete!")
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "json or yaml")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

func jsonToYAML(body []byte) ([]byte, error) {
	var doc remote.ExportDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("decode export: %w", err)
	}
	return yaml.Marshal(doc)
}
