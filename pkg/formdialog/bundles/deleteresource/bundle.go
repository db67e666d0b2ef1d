// Package deleteresource builds the confirmation dialog shown before resources
// are deleted. Deleting is left to the caller.
package deleteresource

import (
	"sort"
	"strconv"

	"github.com/BrianJOC/formdialog/utils/cmserror"
	"github.com/BrianJOC/formdialog/utils/formspec"
	"github.com/BrianJOC/formdialog/utils/messages"
)

// FieldDeleteSiblings is the id of the sibling mode select.
const FieldDeleteSiblings = "deletesiblings"

// Relation is a link from another resource that breaks when the target is deleted.
type Relation struct {
	SourcePath string `json:"sourcePath" yaml:"sourcePath"`
	// Site is empty when the source lives in the same site.
	Site string `json:"site,omitempty" yaml:"site,omitempty"`
}

// Resource is one resource selected for deletion.
type Resource struct {
	Path      string     `json:"path" yaml:"path"`
	Folder    bool       `json:"folder,omitempty" yaml:"folder,omitempty"`
	Siblings  int        `json:"siblings,omitempty" yaml:"siblings,omitempty"`
	Relations []Relation `json:"relations,omitempty" yaml:"relations,omitempty"`
}

// Request describes what should be deleted.
type Request struct {
	Resources      []Resource
	DeleteSiblings bool
	Locale         string
}

// Decision is the choice submitted through the dialog.
type Decision struct {
	DeleteSiblings bool `json:"deleteSiblings" yaml:"deleteSiblings"`
}

func (r Request) multi() bool {
	return len(r.Resources) > 1
}

func (r Request) folder() bool {
	return len(r.Resources) == 1 && r.Resources[0].Folder
}

func (r Request) hasSiblings() bool {
	for _, res := range r.Resources {
		if res.Siblings > 0 {
			return true
		}
	}
	return false
}

// showSiblingMode reports whether the user has to choose what happens to siblings.
func (r Request) showSiblingMode() bool {
	return r.multi() || r.folder() || r.hasSiblings()
}

// Title returns the dialog title.
func Title(req Request) string {
	tag := messages.Resolve(req.Locale)
	if req.multi() {
		return messages.Key(tag, messages.GuiDeleteMulti, len(req.Resources))
	}
	if len(req.Resources) == 1 {
		return messages.Key(tag, messages.GuiDeleteResource, req.Resources[0].Path)
	}
	return ""
}

// Fields builds the dialog rows for req.
func Fields(req Request) ([]formspec.FieldDefinition, error) {
	if len(req.Resources) == 0 {
		return nil, cmserror.New(messages.ErrorDeleteNoResources)
	}
	tag := messages.Resolve(req.Locale)
	text := func(key string, args ...any) string {
		return messages.Key(tag, key, args...)
	}

	confirmation := messages.GuiDeleteConfirmation
	if req.showSiblingMode() {
		confirmation = messages.GuiDeleteMultiConfirmation
	}
	defs := []formspec.FieldDefinition{
		{Kind: formspec.KindLabel, Label: text(confirmation)},
	}

	if req.showSiblingMode() {
		if !req.multi() && !req.folder() {
			defs = append(defs, formspec.FieldDefinition{Kind: formspec.KindLabel, Label: text(messages.GuiDeleteWarningSiblings)})
		}
		defs = append(defs, formspec.FieldDefinition{
			ID:      FieldDeleteSiblings,
			Label:   text(messages.GuiDeleteSiblings),
			Kind:    formspec.KindSelect,
			Default: strconv.FormatBool(req.DeleteSiblings),
			Options: []formspec.Option{
				{Value: "false", Label: text(messages.GuiDeletePreserveSiblings)},
				{Value: "true", Label: text(messages.GuiDeleteAllSiblings)},
			},
		})
	}

	broken := make([]Resource, 0, len(req.Resources))
	for _, res := range req.Resources {
		if len(res.Relations) > 0 {
			broken = append(broken, res)
		}
	}
	sort.Slice(broken, func(i, j int) bool { return broken[i].Path < broken[j].Path })
	if len(broken) > 0 {
		defs = append(defs, formspec.FieldDefinition{Kind: formspec.KindSeparator})
	}
	for _, res := range broken {
		defs = append(defs, formspec.FieldDefinition{Kind: formspec.KindLabel, Label: text(messages.GuiDeleteRelations, res.Path)})
		for _, rel := range res.Relations {
			name := rel.SourcePath
			if rel.Site != "" {
				name = text(messages.GuiDeleteSiteRelation, rel.SourcePath, rel.Site)
			}
			defs = append(defs, formspec.FieldDefinition{Kind: formspec.KindLabel, Label: "  • " + name})
		}
	}
	return defs, nil
}

// Bundle returns a constructor for the rows of req, for use with formdialog.MustBundle.
func Bundle(req Request) func() ([]formspec.FieldDefinition, error) {
	return func() ([]formspec.FieldDefinition, error) {
		return Fields(req)
	}
}

// ParseRequest reads the decision from submitted values. Without a sibling
// mode select siblings are preserved.
func ParseRequest(values map[string]string) Decision {
	deleteSiblings, _ := strconv.ParseBool(values[FieldDeleteSiblings])
	return Decision{DeleteSiblings: deleteSiblings}
}
