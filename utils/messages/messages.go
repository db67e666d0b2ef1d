// Package messages is the registry of localized message keys. The trailing
// digit of a key value is the number of arguments its message expects.
package messages

import (
	"fmt"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

const (
	GuiOK     = "GUI_OK_0"
	GuiCancel = "GUI_CANCEL_0"
	GuiReset  = "GUI_RESET_0"

	GuiFormValidating = "GUI_FORM_VALIDATING_0"
	GuiFormReady      = "GUI_FORM_READY_0"
	GuiFormResetDone  = "GUI_FORM_RESET_DONE_0"
	GuiFormOKDisabled = "GUI_FORM_OK_DISABLED_0"
	GuiFormInvalid    = "GUI_FORM_INVALID_0"
	GuiFormCopied     = "GUI_FORM_COPIED_0"
	GuiFormCopyFailed = "GUI_FORM_COPY_FAILED_0"
	GuiFormNoError    = "GUI_FORM_NO_ERROR_0"
	GuiFormHelp       = "GUI_FORM_HELP_0"
	GuiFormStatus     = "GUI_FORM_STATUS_1"
	GuiFormNoOptions  = "GUI_FORM_NO_OPTIONS_0"
	GuiFormSelectHint = "GUI_FORM_SELECT_HINT_0"

	GuiDeleteResource          = "GUI_DELETE_RESOURCE_1"
	GuiDeleteMulti             = "GUI_DELETE_MULTI_1"
	GuiDeleteConfirmation      = "GUI_DELETE_CONFIRMATION_0"
	GuiDeleteMultiConfirmation = "GUI_DELETE_MULTI_CONFIRMATION_0"
	GuiDeleteWarningSiblings   = "GUI_DELETE_WARNING_SIBLINGS_0"
	GuiDeleteSiblings          = "GUI_DELETE_SIBLINGS_0"
	GuiDeletePreserveSiblings  = "GUI_DELETE_PRESERVE_SIBLINGS_0"
	GuiDeleteAllSiblings       = "GUI_DELETE_ALL_SIBLINGS_0"
	GuiDeleteRelations         = "GUI_DELETE_RELATIONS_1"
	GuiDeleteSiteRelation      = "GUI_DELETE_SITE_RELATION_2"

	GuiContainerTitle       = "GUI_CONTAINER_TITLE_1"
	GuiContainerName        = "GUI_CONTAINER_NAME_0"
	GuiContainerType        = "GUI_CONTAINER_TYPE_0"
	GuiContainerWidth       = "GUI_CONTAINER_WIDTH_0"
	GuiContainerMaxElements = "GUI_CONTAINER_MAX_ELEMENTS_0"
	GuiContainerElements    = "GUI_CONTAINER_ELEMENTS_1"

	GuiValidationRequired  = "GUI_VALIDATION_REQUIRED_0"
	GuiValidationMinLength = "GUI_VALIDATION_MIN_LENGTH_1"
	GuiValidationMaxLength = "GUI_VALIDATION_MAX_LENGTH_1"
	GuiValidationPattern   = "GUI_VALIDATION_PATTERN_0"
	GuiValidationEmail     = "GUI_VALIDATION_EMAIL_0"
	GuiValidationNumeric   = "GUI_VALIDATION_NUMERIC_0"
	GuiValidationRange     = "GUI_VALIDATION_RANGE_2"
	GuiValidationOneOf     = "GUI_VALIDATION_ONE_OF_0"

	ErrorValidationUnavailable = "ERR_VALIDATION_UNAVAILABLE_0"
	ErrorRemoteStatus          = "ERR_REMOTE_STATUS_2"
	ErrorUnknownRule           = "ERR_UNKNOWN_RULE_1"
	ErrorInvalidRule           = "ERR_INVALID_RULE_2"
	ErrorFormdefRead           = "ERR_FORMDEF_READ_1"
	ErrorFormdefParse          = "ERR_FORMDEF_PARSE_1"
	ErrorContainerNumber       = "ERR_CONTAINER_NUMBER_2"
	ErrorContainerDecode       = "ERR_CONTAINER_DECODE_0"
	ErrorDeleteNoResources     = "ERR_DELETE_NO_RESOURCES_0"
)

var bundles = map[language.Tag]map[string]string{
	language.English: {
		GuiOK:     "OK",
		GuiCancel: "Cancel",
		GuiReset:  "Reset",

		GuiFormValidating: "Validating…",
		GuiFormReady:      "Ready",
		GuiFormResetDone:  "Form reset",
		GuiFormOKDisabled: "OK is disabled until all fields are valid",
		GuiFormInvalid:    "Some fields are invalid",
		GuiFormCopied:     "Error copied to clipboard",
		GuiFormCopyFailed: "Failed to copy error",
		GuiFormNoError:    "No error to copy",
		GuiFormHelp:       "Tab/Shift+Tab move • Enter submit/press • Ctrl+R reset • Ctrl+Y copy error • Esc cancel",
		GuiFormStatus:     "Status: %s",
		GuiFormNoOptions:  "No options available",
		GuiFormSelectHint: "↑/↓ or j/k to choose",

		GuiDeleteResource:          "Delete %s",
		GuiDeleteMulti:             "Delete %d resources",
		GuiDeleteConfirmation:      "Do you really want to delete this resource?",
		GuiDeleteMultiConfirmation: "Do you really want to delete these resources?",
		GuiDeleteWarningSiblings:   "Some of the selected resources have siblings.",
		GuiDeleteSiblings:          "Siblings",
		GuiDeletePreserveSiblings:  "Delete only the selected resources, preserve siblings",
		GuiDeleteAllSiblings:       "Delete the selected resources and all their siblings",
		GuiDeleteRelations:         "Deleting will break links from %s",
		GuiDeleteSiteRelation:      "%s (site %s)",

		GuiContainerTitle:       "Container %s",
		GuiContainerName:        "Name",
		GuiContainerType:        "Type",
		GuiContainerWidth:       "Width",
		GuiContainerMaxElements: "Maximum elements",
		GuiContainerElements:    "The container currently holds %d elements.",

		GuiValidationRequired:  "This field is required",
		GuiValidationMinLength: "Must be at least %d characters",
		GuiValidationMaxLength: "Must be at most %d characters",
		GuiValidationPattern:   "Invalid format",
		GuiValidationEmail:     "Invalid email address",
		GuiValidationNumeric:   "Must be a number",
		GuiValidationRange:     "Must be between %d and %d",
		GuiValidationOneOf:     "Not an allowed value",

		ErrorValidationUnavailable: "Validation is currently unavailable",
		ErrorRemoteStatus:          "Remote validator %s answered with status %d",
		ErrorUnknownRule:           "Unknown validation rule %q",
		ErrorInvalidRule:           "Invalid value %q for validation rule %s",
		ErrorFormdefRead:           "Cannot read form definition %s",
		ErrorFormdefParse:          "Cannot parse form definition %s",
		ErrorContainerNumber:       "Invalid number %q for %s",
		ErrorContainerDecode:       "Cannot decode container data",
		ErrorDeleteNoResources:     "No resources selected for deletion",
	},
	language.German: {
		GuiOK:     "OK",
		GuiCancel: "Abbrechen",
		GuiReset:  "Zurücksetzen",

		GuiFormValidating: "Prüfe…",
		GuiFormReady:      "Bereit",
		GuiFormResetDone:  "Formular zurückgesetzt",
		GuiFormOKDisabled: "OK ist deaktiviert, solange Felder ungültig sind",
		GuiFormInvalid:    "Einige Felder sind ungültig",
		GuiFormCopied:     "Fehler in die Zwischenablage kopiert",
		GuiFormCopyFailed: "Fehler konnte nicht kopiert werden",
		GuiFormNoError:    "Kein Fehler zum Kopieren",
		GuiFormHelp:       "Tab/Umschalt+Tab wechseln • Enter absenden • Strg+R zurücksetzen • Strg+Y Fehler kopieren • Esc abbrechen",
		GuiFormStatus:     "Status: %s",
		GuiFormNoOptions:  "Keine Optionen verfügbar",
		GuiFormSelectHint: "↑/↓ oder j/k zum Auswählen",

		GuiDeleteResource:          "%s löschen",
		GuiDeleteMulti:             "%d Ressourcen löschen",
		GuiDeleteConfirmation:      "Wollen Sie diese Ressource wirklich löschen?",
		GuiDeleteMultiConfirmation: "Wollen Sie diese Ressourcen wirklich löschen?",
		GuiDeleteWarningSiblings:   "Einige der ausgewählten Ressourcen haben Geschwister.",
		GuiDeleteSiblings:          "Geschwister",
		GuiDeletePreserveSiblings:  "Nur die ausgewählten Ressourcen löschen, Geschwister erhalten",
		GuiDeleteAllSiblings:       "Die ausgewählten Ressourcen und alle Geschwister löschen",
		GuiDeleteRelations:         "Das Löschen zerstört Verweise von %s",
		GuiDeleteSiteRelation:      "%s (Site %s)",

		GuiContainerTitle:       "Container %s",
		GuiContainerName:        "Name",
		GuiContainerType:        "Typ",
		GuiContainerWidth:       "Breite",
		GuiContainerMaxElements: "Maximale Elementanzahl",
		GuiContainerElements:    "Der Container enthält derzeit %d Elemente.",

		GuiValidationRequired:  "Dieses Feld ist ein Pflichtfeld",
		GuiValidationMinLength: "Mindestens %d Zeichen erforderlich",
		GuiValidationMaxLength: "Höchstens %d Zeichen erlaubt",
		GuiValidationPattern:   "Ungültiges Format",
		GuiValidationEmail:     "Ungültige E-Mail-Adresse",
		GuiValidationNumeric:   "Muss eine Zahl sein",
		GuiValidationRange:     "Muss zwischen %d und %d liegen",
		GuiValidationOneOf:     "Kein erlaubter Wert",

		ErrorValidationUnavailable: "Die Prüfung ist derzeit nicht verfügbar",
		ErrorRemoteStatus:          "Entfernte Prüfung %s antwortete mit Status %d",
		ErrorUnknownRule:           "Unbekannte Prüfregel %q",
		ErrorInvalidRule:           "Ungültiger Wert %q für Prüfregel %s",
		ErrorFormdefRead:           "Formulardefinition %s kann nicht gelesen werden",
		ErrorFormdefParse:          "Formulardefinition %s kann nicht verarbeitet werden",
		ErrorContainerNumber:       "Ungültige Zahl %q für %s",
		ErrorContainerDecode:       "Containerdaten können nicht gelesen werden",
		ErrorDeleteNoResources:     "Keine Ressourcen zum Löschen ausgewählt",
	},
}

var (
	cat       catalog.Catalog
	matcher   language.Matcher
	supported []language.Tag

	mu            sync.RWMutex
	defaultLocale = language.English
)

func init() {
	builder := catalog.NewBuilder(catalog.Fallback(language.English))
	tags := make([]language.Tag, 0, len(bundles))
	tags = append(tags, language.English)
	for tag, entries := range bundles {
		if tag != language.English {
			tags = append(tags, tag)
		}
		for key, msg := range entries {
			if err := builder.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("messages: register %s/%s: %v", tag, key, err))
			}
		}
	}
	cat = builder
	supported = tags
	matcher = language.NewMatcher(tags)
}

// Supported returns the locales with a message bundle.
func Supported() []language.Tag {
	out := make([]language.Tag, len(supported))
	copy(out, supported)
	return out
}

// Resolve maps a locale string such as "de-AT" to the closest supported locale.
// Unparseable or empty input resolves to English.
func Resolve(locale string) language.Tag {
	if locale == "" {
		return language.English
	}
	desired, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(desired) == 0 {
		return language.English
	}
	_, idx, _ := matcher.Match(desired...)
	return supported[idx]
}

// DefaultLocale returns the locale used when none is given.
func DefaultLocale() language.Tag {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLocale
}

// SetDefaultLocale changes the locale used when none is given.
func SetDefaultLocale(tag language.Tag) {
	mu.Lock()
	defer mu.Unlock()
	defaultLocale = tag
}

// Printer returns a printer resolving keys in the closest supported locale.
func Printer(tag language.Tag) *message.Printer {
	_, idx, _ := matcher.Match(tag)
	return message.NewPrinter(supported[idx], message.Catalog(cat))
}

// Key renders key with args in the given locale. Unknown keys are formatted as-is.
func Key(tag language.Tag, key string, args ...any) string {
	return Printer(tag).Sprintf(key, args...)
}

// Has reports whether key is registered for the English fallback bundle.
func Has(key string) bool {
	_, ok := bundles[language.English][key]
	return ok
}

// Container is a message key with its arguments, rendered lazily in a locale.
type Container struct {
	Key  string
	Args []any
}

// NewContainer creates a Container.
func NewContainer(key string, args ...any) Container {
	return Container{Key: key, Args: args}
}

// Localize renders the message in tag.
func (c Container) Localize(tag language.Tag) string {
	return Key(tag, c.Key, c.Args...)
}

func (c Container) String() string {
	return c.Localize(DefaultLocale())
}
