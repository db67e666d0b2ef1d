package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/BrianJOC/formdialog/pkg/formdialog"
	"github.com/BrianJOC/formdialog/utils/formspec"
)

var runProperties map[string]string

var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Show a dialog described by a YAML form definition",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := formspec.Load(args[0])
		if err != nil {
			return fmt.Errorf("failed to load form: %w", err)
		}
		res, err := runDialog(cmd.Context(),
			formdialog.WithDocument(doc),
			formdialog.WithProperties(runProperties),
		)
		if err != nil {
			return err
		}
		return emit(cmd.OutOrStdout(), newOutput(res))
	},
}

func init() {
	runCmd.Flags().StringToStringVar(&runProperties, "set", nil, "start value of a field, as id=value")
}
