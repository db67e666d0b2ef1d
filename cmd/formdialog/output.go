package main

import (
	"fmt"
	"io"

	"github.com/bytedance/sonic"
	"gopkg.in/yaml.v3"

	"github.com/BrianJOC/formdialog/pkg/formdialog"
	"github.com/BrianJOC/formdialog/pkg/formdialog/bundles/deleteresource"
	"github.com/BrianJOC/formdialog/utils/containerpage"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

type output struct {
	Submitted  bool                                 `json:"submitted" yaml:"submitted"`
	Cancelled  bool                                 `json:"cancelled,omitempty" yaml:"cancelled,omitempty"`
	Values     map[string]string                    `json:"values,omitempty" yaml:"values,omitempty"`
	Decision   *deleteresource.Decision             `json:"decision,omitempty" yaml:"decision,omitempty"`
	Containers map[string][]containerpage.Container `json:"containers,omitempty" yaml:"containers,omitempty"`
}

func newOutput(res formdialog.Result) output {
	return output{
		Submitted: res.Submitted,
		Cancelled: res.Cancelled,
		Values:    res.Values,
	}
}

func writeOutput(w io.Writer, format string, v any) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case formatJSON:
		data, err = sonic.ConfigStd.MarshalIndent(v, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case formatYAML:
		data, err = yaml.Marshal(v)
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}
