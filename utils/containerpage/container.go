// Package containerpage holds the container data exchanged between the page
// editor and its dialogs.
package containerpage

import (
	"strconv"
	"strings"

	"github.com/bytedance/sonic"

	"github.com/BrianJOC/formdialog/utils/cmserror"
	"github.com/BrianJOC/formdialog/utils/formspec"
	"github.com/BrianJOC/formdialog/utils/messages"
)

// KeyContainerData is the key under which serialized containers are stored.
const KeyContainerData = "org_opencms_ade_containerpage_containers"

// Field ids used by Fields and FromValues.
const (
	FieldName        = "name"
	FieldType        = "type"
	FieldWidth       = "width"
	FieldMaxElements = "maxElements"
)

// Element is a content element placed in a container.
type Element struct {
	ID       string `json:"id"`
	SitePath string `json:"sitePath,omitempty"`
}

// Container is a named area of a page holding elements.
type Container struct {
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Width       int       `json:"width"`
	MaxElements int       `json:"maxElements"`
	Elements    []Element `json:"elements,omitempty"`
}

// Marshal encodes containers as JSON.
func Marshal(containers ...Container) ([]byte, error) {
	return sonic.Marshal(containers)
}

// Unmarshal decodes a JSON list of containers.
func Unmarshal(data []byte) ([]Container, error) {
	var out []Container
	if err := sonic.Unmarshal(data, &out); err != nil {
		return nil, cmserror.Wrap(err, messages.ErrorContainerDecode)
	}
	return out, nil
}

// Find returns the container with the given name.
func Find(containers []Container, name string) (Container, bool) {
	for _, c := range containers {
		if c.Name == name {
			return c, true
		}
	}
	return Container{}, false
}

// Fields describes the settings dialog of c in the given locale.
func Fields(c Container, locale string) []formspec.FieldDefinition {
	tag := messages.Resolve(locale)
	text := func(key string, args ...any) string {
		return messages.Key(tag, key, args...)
	}
	return []formspec.FieldDefinition{
		{ID: FieldName, Label: text(messages.GuiContainerName), Kind: formspec.KindText, Default: c.Name, Required: true,
			Rules: []formspec.RuleDefinition{{Type: "trim"}}},
		{ID: FieldType, Label: text(messages.GuiContainerType), Kind: formspec.KindText, Default: c.Type, Required: true,
			Rules: []formspec.RuleDefinition{{Type: "trim"}, {Type: "lower"}}},
		{ID: FieldWidth, Label: text(messages.GuiContainerWidth), Kind: formspec.KindText, Default: itoa(c.Width),
			Rules: []formspec.RuleDefinition{{Type: "trim"}, {Type: "numeric"}}},
		{ID: FieldMaxElements, Label: text(messages.GuiContainerMaxElements), Kind: formspec.KindText, Default: itoa(c.MaxElements),
			Rules: []formspec.RuleDefinition{{Type: "trim"}, {Type: "numeric"}}},
		{Kind: formspec.KindLabel, Label: text(messages.GuiContainerElements, len(c.Elements))},
	}
}

// FromValues applies submitted dialog values to base. Elements are kept.
func FromValues(base Container, values map[string]string) (Container, error) {
	out := base
	if v, ok := values[FieldName]; ok {
		out.Name = strings.TrimSpace(v)
	}
	if v, ok := values[FieldType]; ok {
		out.Type = strings.TrimSpace(v)
	}
	var err error
	if out.Width, err = atoi(values, FieldWidth, base.Width); err != nil {
		return Container{}, err
	}
	if out.MaxElements, err = atoi(values, FieldMaxElements, base.MaxElements); err != nil {
		return Container{}, err
	}
	return out, nil
}

func atoi(values map[string]string, key string, fallback int) (int, error) {
	raw, ok := values[key]
	if !ok {
		return fallback, nil
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, cmserror.Wrap(err, messages.ErrorContainerNumber, raw, key)
	}
	return n, nil
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
