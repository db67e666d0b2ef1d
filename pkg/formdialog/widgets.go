package formdialog

import (
	"fmt"
	"strings"

	textinput "github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/text/language"

	"github.com/BrianJOC/formdialog/form"
	"github.com/BrianJOC/formdialog/utils/formspec"
	"github.com/BrianJOC/formdialog/utils/messages"
)

// interactiveWidget is a form widget the dialog can focus and feed keys to.
type interactiveWidget interface {
	form.Widget
	Focus() tea.Cmd
	Blur()
	Focused() bool
	ErrorMessage() string
	HandleKey(msg tea.KeyMsg) tea.Cmd
	View(focused bool) string
}

type widgetHandlers struct {
	change []func(string)
	keys   []func(form.Key)
}

func (h *widgetHandlers) AddValueChangeHandler(fn func(string)) {
	if fn != nil {
		h.change = append(h.change, fn)
	}
}

func (h *widgetHandlers) AddKeyPressHandler(fn func(form.Key)) {
	if fn != nil {
		h.keys = append(h.keys, fn)
	}
}

func (h *widgetHandlers) fireChange(value string) {
	for _, fn := range h.change {
		fn(value)
	}
}

func (h *widgetHandlers) fireKey(key form.Key) {
	for _, fn := range h.keys {
		fn(key)
	}
}

func keyFromMsg(msg tea.KeyMsg) form.Key {
	if msg.Type == tea.KeyEnter {
		return form.KeyEnter
	}
	return form.Key(msg.String())
}

// TextWidget is a single line text box. Edits are committed, and reported as a
// value change, when the widget loses focus.
type TextWidget struct {
	widgetHandlers

	input     textinput.Model
	committed string
	errMsg    string
}

// NewTextWidget creates a text box. Secret boxes mask their content.
func NewTextWidget(placeholder string, secret bool) *TextWidget {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '•'
	}
	ti.Blur()
	return &TextWidget{input: ti}
}

// FormValue returns the text currently in the box.
func (w *TextWidget) FormValue() string {
	return w.input.Value()
}

// SetFormValue replaces the text without reporting a change.
func (w *TextWidget) SetFormValue(value string) {
	w.input.SetValue(value)
	w.input.CursorEnd()
	w.committed = value
}

func (w *TextWidget) SetErrorMessage(msg string) {
	w.errMsg = msg
}

func (w *TextWidget) ErrorMessage() string {
	return w.errMsg
}

func (w *TextWidget) Focus() tea.Cmd {
	return w.input.Focus()
}

func (w *TextWidget) Focused() bool {
	return w.input.Focused()
}

// Blur removes focus and commits pending edits.
func (w *TextWidget) Blur() {
	w.input.Blur()
	if value := w.input.Value(); value != w.committed {
		w.committed = value
		w.fireChange(value)
	}
}

// HandleKey reports the key press to listeners before the text box sees it.
func (w *TextWidget) HandleKey(msg tea.KeyMsg) tea.Cmd {
	w.fireKey(keyFromMsg(msg))
	if msg.Type == tea.KeyEnter {
		return nil
	}
	var cmd tea.Cmd
	w.input, cmd = w.input.Update(msg)
	return cmd
}

func (w *TextWidget) View(bool) string {
	return w.input.View()
}

// SelectWidget chooses one of a fixed list of options. Every selection change
// is reported immediately.
type SelectWidget struct {
	widgetHandlers

	options []formspec.Option
	index   int
	focused bool
	errMsg  string

	emptyText string
	hint      string
}

// NewSelectWidget creates a select box with the first option chosen.
func NewSelectWidget(options []formspec.Option) *SelectWidget {
	w := &SelectWidget{options: append([]formspec.Option(nil), options...)}
	if len(w.options) == 0 {
		w.index = -1
	}
	w.SetLocale(messages.DefaultLocale())
	return w
}

// SetLocale sets the language of the help texts.
func (w *SelectWidget) SetLocale(tag language.Tag) {
	w.emptyText = messages.Key(tag, messages.GuiFormNoOptions)
	w.hint = messages.Key(tag, messages.GuiFormSelectHint)
}

// FormValue returns the chosen option value, or "" when nothing is chosen.
func (w *SelectWidget) FormValue() string {
	if w.index < 0 || w.index >= len(w.options) {
		return ""
	}
	return w.options[w.index].Value
}

// SetFormValue chooses the option with the given value. Unknown values clear
// the selection.
func (w *SelectWidget) SetFormValue(value string) {
	w.index = w.indexOf(value)
}

func (w *SelectWidget) SetErrorMessage(msg string) {
	w.errMsg = msg
}

func (w *SelectWidget) ErrorMessage() string {
	return w.errMsg
}

func (w *SelectWidget) Focus() tea.Cmd {
	w.focused = true
	return nil
}

func (w *SelectWidget) Focused() bool {
	return w.focused
}

func (w *SelectWidget) Blur() {
	w.focused = false
}

// Move shifts the selection by delta, wrapping around.
func (w *SelectWidget) Move(delta int) {
	count := len(w.options)
	if count == 0 {
		return
	}
	next := w.index
	if next < 0 {
		next = 0
	} else {
		next = ((next+delta)%count + count) % count
	}
	if next == w.index {
		return
	}
	w.index = next
	w.fireChange(w.FormValue())
}

func (w *SelectWidget) HandleKey(msg tea.KeyMsg) tea.Cmd {
	w.fireKey(keyFromMsg(msg))
	switch msg.Type {
	case tea.KeyUp:
		w.Move(-1)
	case tea.KeyDown:
		w.Move(1)
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return nil
		}
		switch r := msg.Runes[0]; {
		case r == 'k':
			w.Move(-1)
		case r == 'j':
			w.Move(1)
		case r >= '1' && r <= '9':
			if idx := int(r - '1'); idx < len(w.options) && idx != w.index {
				w.index = idx
				w.fireChange(w.FormValue())
			}
		}
	}
	return nil
}

func (w *SelectWidget) View(focused bool) string {
	if len(w.options) == 0 {
		return descriptionStyle.Render(w.emptyText)
	}
	lines := make([]string, 0, len(w.options)+1)
	for idx, opt := range w.options {
		cursor := " "
		if idx == w.index {
			cursor = ">"
		}
		label := opt.Label
		if label == "" {
			label = opt.Value
		}
		line := fmt.Sprintf("%s %d. %s", cursor, idx+1, label)
		if opt.Description != "" {
			line = fmt.Sprintf("%s (%s)", line, opt.Description)
		}
		if idx == w.index && focused {
			line = selectedOptionStyle.Render(line)
		}
		lines = append(lines, line)
	}
	if focused {
		lines = append(lines, descriptionStyle.Render(w.hint))
	}
	return strings.Join(lines, "\n")
}

func (w *SelectWidget) indexOf(value string) int {
	for idx, opt := range w.options {
		if opt.Value == value {
			return idx
		}
	}
	return -1
}

func newWidget(def formspec.FieldDefinition, locale language.Tag) interactiveWidget {
	switch def.Kind {
	case formspec.KindSecret:
		return NewTextWidget(def.Placeholder, true)
	case formspec.KindSelect:
		w := NewSelectWidget(def.Options)
		w.SetLocale(locale)
		return w
	default:
		placeholder := def.Placeholder
		if placeholder == "" {
			placeholder = def.Label
		}
		return NewTextWidget(placeholder, false)
	}
}
