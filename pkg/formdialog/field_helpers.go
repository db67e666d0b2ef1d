package formdialog

import (
	"fmt"

	"github.com/BrianJOC/formdialog/utils/formspec"
)

// FieldOpt customizes definitions produced by the helper constructors.
type FieldOpt func(*formspec.FieldDefinition)

// WithDescription sets the help text shown below the label.
func WithDescription(desc string) FieldOpt {
	return func(def *formspec.FieldDefinition) {
		if def != nil {
			def.Description = desc
		}
	}
}

// WithDefault sets the start value used when no property overrides it.
func WithDefault(value string) FieldOpt {
	return func(def *formspec.FieldDefinition) {
		if def != nil {
			def.Default = value
		}
	}
}

// WithPlaceholder sets the hint shown in an empty text box.
func WithPlaceholder(text string) FieldOpt {
	return func(def *formspec.FieldDefinition) {
		if def != nil {
			def.Placeholder = text
		}
	}
}

// WithRule appends a declarative validation rule.
func WithRule(ruleType, value, message string) FieldOpt {
	return func(def *formspec.FieldDefinition) {
		if def != nil {
			def.Rules = append(def.Rules, formspec.RuleDefinition{Type: ruleType, Value: value, Message: message})
		}
	}
}

// Required marks the field as mandatory.
func Required() FieldOpt {
	return func(def *formspec.FieldDefinition) {
		if def != nil {
			def.Required = true
		}
	}
}

// Optional clears the required flag for clarity at call sites.
func Optional() FieldOpt {
	return func(def *formspec.FieldDefinition) {
		if def != nil {
			def.Required = false
		}
	}
}

// TextField builds a text input definition.
func TextField(id, label string, opts ...FieldOpt) formspec.FieldDefinition {
	def := formspec.FieldDefinition{
		ID:    id,
		Label: label,
		Kind:  formspec.KindText,
	}
	applyFieldOpts(&def, opts...)
	return def
}

// SecretField builds a masked input definition.
func SecretField(id, label string, opts ...FieldOpt) formspec.FieldDefinition {
	def := formspec.FieldDefinition{
		ID:    id,
		Label: label,
		Kind:  formspec.KindSecret,
	}
	applyFieldOpts(&def, opts...)
	return def
}

// SelectField builds a select definition with the provided options.
func SelectField(id, label string, options []formspec.Option, opts ...FieldOpt) formspec.FieldDefinition {
	def := formspec.FieldDefinition{
		ID:      id,
		Label:   label,
		Kind:    formspec.KindSelect,
		Options: append([]formspec.Option{}, options...),
	}
	applyFieldOpts(&def, opts...)
	return def
}

// Label builds a free text row.
func Label(text string) formspec.FieldDefinition {
	return formspec.FieldDefinition{Label: text, Kind: formspec.KindLabel}
}

// Separator builds a separator row.
func Separator() formspec.FieldDefinition {
	return formspec.FieldDefinition{Kind: formspec.KindSeparator}
}

// WithBundle appends all rows from the provided bundle function.
func WithBundle(bundle func() []formspec.FieldDefinition) Option {
	return func(cfg *Config) {
		if cfg == nil || bundle == nil {
			return
		}
		cfg.Fields = append(cfg.Fields, bundle()...)
	}
}

// MustBundle builds rows from a bundle constructor, panicking on errors.
func MustBundle(builder func() ([]formspec.FieldDefinition, error)) []formspec.FieldDefinition {
	defs, err := builder()
	if err != nil {
		panic(fmt.Sprintf("formdialog: bundle failed: %v", err))
	}
	return defs
}

func applyFieldOpts(def *formspec.FieldDefinition, opts ...FieldOpt) {
	for _, opt := range opts {
		if opt != nil {
			opt(def)
		}
	}
}
