// Package containerprops builds the settings dialog of a page container.
package containerprops

import (
	"github.com/BrianJOC/formdialog/utils/containerpage"
	"github.com/BrianJOC/formdialog/utils/formspec"
	"github.com/BrianJOC/formdialog/utils/messages"
)

// Title returns the dialog title for c.
func Title(c containerpage.Container, locale string) string {
	return messages.Key(messages.Resolve(locale), messages.GuiContainerTitle, c.Name)
}

// Bundle returns the rows of the settings dialog of c.
func Bundle(c containerpage.Container, locale string) func() []formspec.FieldDefinition {
	return func() []formspec.FieldDefinition {
		return containerpage.Fields(c, locale)
	}
}

// Apply merges submitted values into c.
func Apply(c containerpage.Container, values map[string]string) (containerpage.Container, error) {
	return containerpage.FromValues(c, values)
}
