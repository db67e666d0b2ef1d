package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/BrianJOC/formdialog/pkg/formdialog"
	"github.com/BrianJOC/formdialog/pkg/formdialog/bundles/containerprops"
	"github.com/BrianJOC/formdialog/utils/containerpage"
)

var containerFlags struct {
	data string
	name string
}

var containerCmd = &cobra.Command{
	Use:   "container",
	Short: "Edit the settings of a page container",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(containerFlags.data)
		if err != nil {
			return fmt.Errorf("failed to read container data: %w", err)
		}
		containers, err := containerpage.Unmarshal(raw)
		if err != nil {
			return fmt.Errorf("failed to decode container data: %w", err)
		}
		target, ok := containerpage.Find(containers, containerFlags.name)
		if !ok {
			return fmt.Errorf("container %q not found", containerFlags.name)
		}

		res, err := runDialog(cmd.Context(),
			formdialog.WithTitle(containerprops.Title(target, flags.locale)),
			formdialog.WithBundle(containerprops.Bundle(target, flags.locale)),
		)
		if err != nil {
			return err
		}
		out := newOutput(res)
		if res.Submitted {
			updated, err := containerprops.Apply(target, res.Values)
			if err != nil {
				return fmt.Errorf("invalid container settings: %w", err)
			}
			out.Containers = map[string][]containerpage.Container{
				containerpage.KeyContainerData: replaceContainer(containers, target.Name, updated),
			}
		}
		return emit(cmd.OutOrStdout(), out)
	},
}

func init() {
	f := containerCmd.Flags()
	f.StringVar(&containerFlags.data, "data", "", "JSON file with the page containers")
	f.StringVar(&containerFlags.name, "name", "", "name of the container to edit")
	_ = containerCmd.MarkFlagRequired("data")
	_ = containerCmd.MarkFlagRequired("name")
}

func replaceContainer(containers []containerpage.Container, name string, updated containerpage.Container) []containerpage.Container {
	out := make([]containerpage.Container, len(containers))
	copy(out, containers)
	for i := range out {
		if out[i].Name == name {
			out[i] = updated
		}
	}
	return out
}
