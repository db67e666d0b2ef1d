package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/BrianJOC/formdialog/pkg/formdialog"
	"github.com/BrianJOC/formdialog/pkg/formdialog/bundles/deleteresource"
)

var deleteFlags struct {
	request        string
	siblings       int
	folder         bool
	deleteSiblings bool
}

var deleteCmd = &cobra.Command{
	Use:   "delete [PATH...]",
	Short: "Confirm the deletion of resources",
	Long: `Shows the delete confirmation dialog for the given resources and prints the
decision. Resources come from the arguments or from a YAML list given with --request.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildDeleteRequest(args)
		if err != nil {
			return fmt.Errorf("failed to read request: %w", err)
		}
		defs, err := deleteresource.Fields(req)
		if err != nil {
			return fmt.Errorf("nothing to delete: %w", err)
		}
		res, err := runDialog(cmd.Context(),
			formdialog.WithTitle(deleteresource.Title(req)),
			formdialog.WithFields(defs...),
		)
		if err != nil {
			return err
		}

		out := newOutput(res)
		if res.Submitted {
			decision := deleteresource.ParseRequest(res.Values)
			out.Decision = &decision
		}
		return emit(cmd.OutOrStdout(), out)
	},
}

func init() {
	f := deleteCmd.Flags()
	f.StringVar(&deleteFlags.request, "request", "", "YAML file with the resources to delete")
	f.IntVar(&deleteFlags.siblings, "siblings", 0, "number of siblings of each resource given as argument")
	f.BoolVar(&deleteFlags.folder, "folder", false, "the resource given as argument is a folder")
	f.BoolVar(&deleteFlags.deleteSiblings, "delete-siblings", false, "preselect deleting all siblings")
}

func buildDeleteRequest(paths []string) (deleteresource.Request, error) {
	req := deleteresource.Request{
		DeleteSiblings: deleteFlags.deleteSiblings,
		Locale:         flags.locale,
	}
	if deleteFlags.request != "" {
		data, err := os.ReadFile(deleteFlags.request)
		if err != nil {
			return req, err
		}
		if err := yaml.Unmarshal(data, &req.Resources); err != nil {
			return req, err
		}
	}
	for _, p := range paths {
		req.Resources = append(req.Resources, deleteresource.Resource{
			Path:     p,
			Folder:   deleteFlags.folder,
			Siblings: deleteFlags.siblings,
		})
	}
	return req, nil
}
