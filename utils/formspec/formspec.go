// Package formspec describes form dialogs as data and loads those
// descriptions from YAML documents.
package formspec

import (
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/BrianJOC/formdialog/utils/cmserror"
	"github.com/BrianJOC/formdialog/utils/messages"
)

// Kind identifies how an entry should be rendered.
type Kind string

const (
	KindText      Kind = "text"
	KindSecret    Kind = "secret"
	KindSelect    Kind = "select"
	KindLabel     Kind = "label"
	KindSeparator Kind = "separator"
)

// IsInput reports whether entries of this kind hold a value.
func (k Kind) IsInput() bool {
	switch k {
	case KindText, KindSecret, KindSelect:
		return true
	default:
		return false
	}
}

// Option is a selectable value.
type Option struct {
	Value       string `yaml:"value"`
	Label       string `yaml:"label"`
	Description string `yaml:"description,omitempty"`
}

// RuleDefinition configures one validation rule.
type RuleDefinition struct {
	Type    string `yaml:"type"`
	Value   string `yaml:"value,omitempty"`
	Message string `yaml:"message,omitempty"`
}

// FieldDefinition describes one entry of a form.
type FieldDefinition struct {
	ID          string           `yaml:"id"`
	Label       string           `yaml:"label"`
	Description string           `yaml:"description,omitempty"`
	Kind        Kind             `yaml:"kind,omitempty"`
	Default     string           `yaml:"default,omitempty"`
	Placeholder string           `yaml:"placeholder,omitempty"`
	Required    bool             `yaml:"required,omitempty"`
	Options     []Option         `yaml:"options,omitempty"`
	Rules       []RuleDefinition `yaml:"rules,omitempty"`
}

// Document is a complete form description.
type Document struct {
	Title             string            `yaml:"title"`
	Locale            string            `yaml:"locale,omitempty"`
	InitialValidation bool              `yaml:"initialValidation,omitempty"`
	Fields            []FieldDefinition `yaml:"fields"`
}

// Load reads and parses the document at path.
func Load(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, cmserror.Wrap(err, messages.ErrorFormdefRead, path)
	}
	doc, err := Parse(data)
	if err != nil {
		return Document{}, cmserror.Wrap(err, messages.ErrorFormdefParse, path)
	}
	return doc, nil
}

// Parse decodes a YAML document and validates its fields.
func Parse(data []byte) (Document, error) {
	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Document{}, err
	}
	if err := Normalize(doc.Fields); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Normalize fills in default kinds and rejects empty or duplicate ids.
func Normalize(defs []FieldDefinition) error {
	seen := make(map[string]struct{}, len(defs))
	for i := range defs {
		def := &defs[i]
		def.ID = strings.TrimSpace(def.ID)
		if def.Kind == "" {
			def.Kind = KindText
		}
		switch def.Kind {
		case KindText, KindSecret, KindSelect, KindLabel, KindSeparator:
		default:
			return DefinitionError{ID: def.ID, Reason: "unknown kind " + string(def.Kind)}
		}
		if !def.Kind.IsInput() {
			continue
		}
		if def.ID == "" {
			return DefinitionError{Index: i, Reason: "field id must not be empty"}
		}
		if _, exists := seen[def.ID]; exists {
			return DuplicateFieldError{ID: def.ID}
		}
		seen[def.ID] = struct{}{}
		if def.Kind == KindSelect && len(def.Options) == 0 {
			return DefinitionError{ID: def.ID, Reason: "select field needs at least one option"}
		}
	}
	return nil
}

// Marshal encodes a document as YAML.
func Marshal(doc Document) ([]byte, error) {
	return yaml.Marshal(doc)
}
