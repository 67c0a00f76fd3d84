package cmd

import (
	"github.com/spf13/cobra"

	"github.com/kilianp07/blendplan/pkg/problemio"
)

func newConvertCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "convert",
		Short: "Convert a problem file between json, yaml and toml",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			prob, err := problemio.Load(in)
			if err != nil {
				return err
			}
			if err := problemio.Save(out, prob); err != nil {
				return err
			}
			cmd.Printf("wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "file", "f", "", "input problem file")
	cmd.Flags().StringVarP(&out, "output", "o", "", "output problem file, format from extension")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("output")
	return cmd
}
