package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the whole dictionary to stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.close()

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				return a.dict.ExportJSON(cmd.Context(), out)
			case "csv":
				return a.dict.ExportCSV(cmd.Context(), out)
			}
			return fmt.Errorf("unknown export format %q", format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "export format: json or csv")
	return cmd
}
