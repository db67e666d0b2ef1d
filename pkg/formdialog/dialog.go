package formdialog

import (
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/BrianJOC/formdialog/form"
	"github.com/BrianJOC/formdialog/utils/formspec"
	"github.com/BrianJOC/formdialog/utils/messages"
)

type button int

const (
	buttonCancel button = iota
	buttonReset
	buttonOK
)

var buttonOrder = []button{buttonCancel, buttonReset, buttonOK}

func (b button) key() string {
	switch b {
	case buttonCancel:
		return messages.GuiCancel
	case buttonReset:
		return messages.GuiReset
	default:
		return messages.GuiOK
	}
}

// Result is the outcome of a dialog session.
type Result struct {
	Submitted bool
	Cancelled bool
	Values    map[string]string
}

// Dialog hosts one form in a Bubble Tea program. It renders the form rows
// followed by the Cancel, Reset and OK buttons.
type Dialog struct {
	form   *form.Form
	queue  *form.Queue
	title  string
	locale language.Tag

	widgets map[string]interactiveWidget
	focus   int

	okEnabled bool
	okDown    bool

	initialValidation bool
	closed            bool
	result            Result

	spinner   spinner.Model
	statusMsg string
	titleCase cases.Caser
	copyText  func(string) error

	width int
}

// NewDialog creates a dialog for f. Tasks deferred on queue run after the
// message that caused them has been handled.
func NewDialog(title string, f *form.Form, queue *form.Queue, locale language.Tag) *Dialog {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	d := &Dialog{
		form:      f,
		queue:     queue,
		title:     title,
		locale:    locale,
		widgets:   make(map[string]interactiveWidget),
		okEnabled: true,
		spinner:   sp,
		titleCase: cases.Title(locale),
		copyText:  clipboard.WriteAll,
	}
	d.statusMsg = d.text(messages.GuiFormReady)
	f.SetDialog(d)
	f.SetSubmitHandler(form.SubmitHandlerFunc(d.recordSubmit))
	return d
}

// AddDefinition adds the row described by def. Input rows start with value.
func (d *Dialog) AddDefinition(def formspec.FieldDefinition, value string) error {
	switch def.Kind {
	case formspec.KindLabel:
		d.form.AddLabel(def.Label)
		return nil
	case formspec.KindSeparator:
		d.form.AddSeparator()
		return nil
	}
	widget := newWidget(def, d.locale)
	field := form.NewField(def.ID, def.Label, def.Description, widget)
	if err := d.form.AddFieldWithValue(field, value); err != nil {
		return err
	}
	d.widgets[def.ID] = widget
	return nil
}

// Form returns the hosted form.
func (d *Dialog) Form() *form.Form {
	return d.form
}

// Result returns the outcome once the dialog has been closed.
func (d *Dialog) Result() Result {
	return d.result
}

// Closed reports whether the dialog has been closed.
func (d *Dialog) Closed() bool {
	return d.closed
}

// OkEnabled reports whether the OK button can be pressed.
func (d *Dialog) OkEnabled() bool {
	return d.okEnabled
}

// CloseDialog implements form.Dialog.
func (d *Dialog) CloseDialog() {
	d.closed = true
}

// SetOkButtonEnabled implements form.Dialog. The change is applied after the
// current message and also releases a pressed OK button.
func (d *Dialog) SetOkButtonEnabled(enabled bool) {
	d.queue.Defer(func() {
		d.okEnabled = enabled
		d.okDown = false
	})
}

func (d *Dialog) recordSubmit(values map[string]string) {
	d.result.Submitted = true
	d.result.Values = values
}

func (d *Dialog) Init() tea.Cmd {
	cmds := []tea.Cmd{waitTasksCmd(d.queue), d.spinner.Tick}
	if d.initialValidation {
		d.form.DoInitialValidation()
	}
	if widget, ok := d.focusedWidget(); ok {
		cmds = append(cmds, widget.Focus())
	}
	d.queue.Drain()
	return tea.Batch(cmds...)
}

func (d *Dialog) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		d.width = msg.Width
		return d, nil
	case tea.KeyMsg:
		cmd := d.handleKey(msg)
		return d, d.afterEvent(cmd)
	case tasksReadyMsg:
		return d, d.afterEvent(waitTasksCmd(d.queue))
	case spinner.TickMsg:
		var cmd tea.Cmd
		d.spinner, cmd = d.spinner.Update(msg)
		return d, cmd
	}
	return d, nil
}

// afterEvent runs the tasks deferred while handling the last message.
func (d *Dialog) afterEvent(cmd tea.Cmd) tea.Cmd {
	d.queue.Drain()
	if d.closed {
		return tea.Quit
	}
	return cmd
}

func (d *Dialog) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyCtrlC:
		d.cancel()
		return nil
	case tea.KeyEsc:
		d.click(buttonCancel)
		return nil
	case tea.KeyTab:
		return d.moveFocus(1)
	case tea.KeyShiftTab:
		return d.moveFocus(-1)
	case tea.KeyCtrlR:
		d.click(buttonReset)
		return nil
	case tea.KeyCtrlY:
		d.copyFocusedError()
		return nil
	}

	if b, ok := d.focusedButton(); ok {
		if msg.Type == tea.KeyEnter {
			d.click(b)
		}
		return nil
	}
	widget, ok := d.focusedWidget()
	if !ok {
		return nil
	}
	var cmds []tea.Cmd
	if !widget.Focused() && msg.Type != tea.KeyEnter {
		cmds = append(cmds, widget.Focus())
	}
	cmds = append(cmds, widget.HandleKey(msg))
	return tea.Batch(cmds...)
}

func (d *Dialog) click(b button) {
	switch b {
	case buttonCancel:
		d.cancel()
	case buttonReset:
		d.form.Reset()
		d.setStatus(d.text(messages.GuiFormResetDone))
	case buttonOK:
		if d.closed || d.okDown {
			return
		}
		if d.form.Validating() {
			d.setStatus(d.text(messages.GuiFormValidating))
			return
		}
		if !d.okEnabled {
			d.setStatus(d.text(messages.GuiFormOKDisabled))
			return
		}
		d.okDown = true
		d.form.ValidateAndSubmit()
		if !d.closed && !d.form.Validating() {
			d.setStatus(d.text(messages.GuiFormInvalid))
		}
	}
}

func (d *Dialog) cancel() {
	d.result = Result{Cancelled: true}
	d.closed = true
}

func (d *Dialog) copyFocusedError() {
	widget, ok := d.focusedWidget()
	if !ok || widget.ErrorMessage() == "" {
		d.setStatus(d.text(messages.GuiFormNoError))
		return
	}
	if err := d.copyText(widget.ErrorMessage()); err != nil {
		d.setStatus(d.text(messages.GuiFormCopyFailed))
		return
	}
	d.setStatus(d.text(messages.GuiFormCopied))
}

// focusTargets lists the ids of focusable fields. The buttons follow them in
// focus order.
func (d *Dialog) focusTargets() []string {
	var targets []string
	for _, field := range d.form.Fields() {
		if _, ok := d.widgets[field.ID()]; ok {
			targets = append(targets, field.ID())
		}
	}
	return targets
}

func (d *Dialog) focusCount() int {
	return len(d.focusTargets()) + len(buttonOrder)
}

func (d *Dialog) focusedWidget() (interactiveWidget, bool) {
	targets := d.focusTargets()
	if d.focus < 0 || d.focus >= len(targets) {
		return nil, false
	}
	widget, ok := d.widgets[targets[d.focus]]
	return widget, ok
}

func (d *Dialog) focusedButton() (button, bool) {
	idx := d.focus - len(d.focusTargets())
	if idx < 0 || idx >= len(buttonOrder) {
		return 0, false
	}
	return buttonOrder[idx], true
}

func (d *Dialog) moveFocus(delta int) tea.Cmd {
	if widget, ok := d.focusedWidget(); ok {
		widget.Blur()
	}
	count := d.focusCount()
	d.focus = ((d.focus+delta)%count + count) % count
	if widget, ok := d.focusedWidget(); ok {
		return widget.Focus()
	}
	return nil
}

func (d *Dialog) setStatus(msg string) {
	d.statusMsg = msg
}

func (d *Dialog) text(key string, args ...any) string {
	return messages.Key(d.locale, key, args...)
}

func (d *Dialog) View() string {
	sections := []string{titleStyle.Render(d.title)}

	focusedID := ""
	if targets := d.focusTargets(); d.focus < len(targets) {
		focusedID = targets[d.focus]
	}
	for _, row := range d.form.Rows() {
		switch row.Kind {
		case form.RowLabel:
			sections = append(sections, infoTextStyle.Render(row.Text))
		case form.RowSeparator:
			sections = append(sections, separatorStyle.Render(strings.Repeat("─", d.contentWidth())))
		case form.RowField:
			sections = append(sections, d.renderField(row.FieldID, row.FieldID == focusedID))
		}
	}

	sections = append(sections, d.renderButtons(), d.renderStatus(), footerStyle.Render(d.text(messages.GuiFormHelp)))
	view := lipgloss.JoinVertical(lipgloss.Left, sections...)
	return panelStyle.Render(view)
}

func (d *Dialog) renderField(id string, focused bool) string {
	field, ok := d.form.Field(id)
	if !ok {
		return ""
	}
	widget, ok := d.widgets[id]
	if !ok {
		return ""
	}

	label := labelStyle.Render(field.Label())
	if focused {
		label = focusedLabelStyle.Render(field.Label())
	}
	lines := []string{label}
	if desc := field.Description(); desc != "" {
		lines = append(lines, descriptionStyle.Render(desc))
	}
	lines = append(lines, widget.View(focused))
	if msg := widget.ErrorMessage(); msg != "" {
		lines = append(lines, errorTextStyle.Render(msg))
	}
	if focused {
		status := d.titleCase.String(field.ValidationStatus().String())
		lines = append(lines, descriptionStyle.Render(d.text(messages.GuiFormStatus, status)))
	}
	return strings.Join(lines, "\n")
}

func (d *Dialog) renderButtons() string {
	focused, hasFocus := d.focusedButton()
	rendered := make([]string, 0, len(buttonOrder))
	for _, b := range buttonOrder {
		style := buttonStyle
		switch {
		case b == buttonOK && !d.okEnabled:
			style = disabledButtonStyle
		case b == buttonOK && d.okDown:
			style = pressedButtonStyle
		case hasFocus && b == focused:
			style = focusedButtonStyle
		}
		rendered = append(rendered, style.Render(d.text(b.key())))
	}
	return buttonRowStyle.Render(lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
}

func (d *Dialog) renderStatus() string {
	if d.form.Validating() {
		return statusBarStyle.Render(fmt.Sprintf("%s %s", d.spinner.View(), d.text(messages.GuiFormValidating)))
	}
	return statusBarStyle.Render(d.statusMsg)
}

func (d *Dialog) contentWidth() int {
	if d.width > 10 {
		return d.width - 6
	}
	return 40
}

type tasksReadyMsg struct{}

func waitTasksCmd(queue *form.Queue) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-queue.Ready():
			return tasksReadyMsg{}
		case <-queue.Done():
			return nil
		}
	}
}

var (
	panelStyle          = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#4C566A")).Padding(0, 1)
	titleStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E0AAFF")).MarginBottom(1)
	labelStyle          = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#CBD5F5"))
	focusedLabelStyle   = lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color("#A78BFA"))
	descriptionStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8"))
	infoTextStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#CBD5F5"))
	errorTextStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#F87171"))
	separatorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#4C566A"))
	selectedOptionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#A78BFA"))
	buttonRowStyle      = lipgloss.NewStyle().MarginTop(1)
	buttonStyle         = lipgloss.NewStyle().Padding(0, 2).MarginRight(1).Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#4C566A"))
	focusedButtonStyle  = buttonStyle.Copy().BorderForeground(lipgloss.Color("#A78BFA")).Bold(true)
	pressedButtonStyle  = buttonStyle.Copy().Background(lipgloss.Color("#312E81"))
	disabledButtonStyle = buttonStyle.Copy().Foreground(lipgloss.Color("#475569"))
	statusBarStyle      = lipgloss.NewStyle().Bold(true).Padding(0, 1).MarginTop(1).Background(lipgloss.Color("#312E81")).Foreground(lipgloss.Color("#E0E7FF"))
	footerStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("#94A3B8")).Padding(0, 1)
)
