package validation

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/BrianJOC/formdialog/utils/cmserror"
	"github.com/BrianJOC/formdialog/utils/formspec"
	"github.com/BrianJOC/formdialog/utils/messages"
)

// FromDefinition builds the chain described by def. Required fields start with
// a Required rule and select fields end with a OneOf rule over their options.
func FromDefinition(def formspec.FieldDefinition) (Chain, error) {
	var chain Chain
	if def.Required {
		chain = append(chain, Required())
	}
	for _, rd := range def.Rules {
		rule, err := ruleFromDefinition(rd)
		if err != nil {
			return nil, err
		}
		chain = append(chain, WithMessage(rule, rd.Message))
	}
	if def.Kind == formspec.KindSelect && len(def.Options) > 0 {
		allowed := make([]string, 0, len(def.Options))
		for _, opt := range def.Options {
			allowed = append(allowed, opt.Value)
		}
		chain = append(chain, OneOf(allowed...))
	}
	return chain, nil
}

// RegisterDefinitions registers the chains of all input definitions.
func (s *Service) RegisterDefinitions(defs []formspec.FieldDefinition) error {
	for _, def := range defs {
		if !def.Kind.IsInput() {
			continue
		}
		chain, err := FromDefinition(def)
		if err != nil {
			return err
		}
		if len(chain) > 0 {
			s.Register(def.ID, chain...)
		}
	}
	return nil
}

func ruleFromDefinition(rd formspec.RuleDefinition) (Rule, error) {
	invalidValue := func() error {
		return cmserror.New(messages.ErrorInvalidRule, rd.Value, rd.Type)
	}
	atoi := func() (int, error) {
		n, err := strconv.Atoi(strings.TrimSpace(rd.Value))
		if err != nil {
			return 0, invalidValue()
		}
		return n, nil
	}

	switch strings.ToLower(rd.Type) {
	case "required":
		return Required(), nil
	case "minlength":
		n, err := atoi()
		if err != nil {
			return nil, err
		}
		return MinLength(n), nil
	case "maxlength":
		n, err := atoi()
		if err != nil {
			return nil, err
		}
		return MaxLength(n), nil
	case "pattern":
		re, err := regexp.Compile(rd.Value)
		if err != nil {
			return nil, invalidValue()
		}
		return Pattern(re), nil
	case "email":
		return Email(), nil
	case "numeric":
		return Numeric(), nil
	case "range":
		lo, hi, ok := strings.Cut(rd.Value, "..")
		if !ok {
			return nil, invalidValue()
		}
		minimum, errLo := strconv.Atoi(strings.TrimSpace(lo))
		maximum, errHi := strconv.Atoi(strings.TrimSpace(hi))
		if errLo != nil || errHi != nil || minimum > maximum {
			return nil, invalidValue()
		}
		return IntRange(minimum, maximum), nil
	case "oneof":
		parts := strings.Split(rd.Value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return OneOf(parts...), nil
	case "trim":
		return Trim(), nil
	case "lower":
		return Lower(), nil
	case "remote":
		if strings.TrimSpace(rd.Value) == "" {
			return nil, invalidValue()
		}
		return Remote(rd.Value), nil
	default:
		return nil, cmserror.New(messages.ErrorUnknownRule, rd.Type)
	}
}
