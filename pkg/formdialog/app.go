// Package formdialog runs form dialogs in the terminal. It wires a form.Form,
// the rule based validation service and a Bubble Tea program behind a small
// lifecycle API.
package formdialog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/BrianJOC/formdialog/form"
	"github.com/BrianJOC/formdialog/form/validation"
	"github.com/BrianJOC/formdialog/utils/formspec"
	"github.com/BrianJOC/formdialog/utils/messages"
)

var (
	// ErrNoFields indicates that no row was supplied when constructing an App.
	ErrNoFields = errors.New("formdialog: at least one row must be defined")
	// ErrProgramRunning reports that Run was invoked while the program is already running.
	ErrProgramRunning = errors.New("formdialog: program already running")
)

// Config controls how an App should be assembled.
type Config struct {
	Title             string
	Fields            []formspec.FieldDefinition
	Properties        map[string]string
	Rules             map[string][]validation.Rule
	SubmitHandlers    []form.SubmitHandler
	ResetObservers    []form.ResetObserver
	Locale            string
	Logger            *slog.Logger
	InitialValidation bool
	ProgramOptions    []tea.ProgramOption
}

// Option mutates Config during construction.
type Option func(*Config)

// WithTitle sets the dialog title.
func WithTitle(title string) Option {
	return func(cfg *Config) {
		if cfg == nil {
			return
		}
		cfg.Title = title
	}
}

// WithFields appends rows in display order.
func WithFields(defs ...formspec.FieldDefinition) Option {
	return func(cfg *Config) {
		if cfg == nil {
			return
		}
		cfg.Fields = append(cfg.Fields, defs...)
	}
}

// WithDocument applies the title, locale, initial validation flag and rows of doc.
func WithDocument(doc formspec.Document) Option {
	return func(cfg *Config) {
		if cfg == nil {
			return
		}
		cfg.Title = doc.Title
		if doc.Locale != "" {
			cfg.Locale = doc.Locale
		}
		cfg.InitialValidation = cfg.InitialValidation || doc.InitialValidation
		cfg.Fields = append(cfg.Fields, doc.Fields...)
	}
}

// WithProperties sets start values by field id. They take precedence over defaults.
func WithProperties(props map[string]string) Option {
	return func(cfg *Config) {
		if cfg == nil {
			return
		}
		if cfg.Properties == nil {
			cfg.Properties = make(map[string]string, len(props))
		}
		for k, v := range props {
			cfg.Properties[k] = v
		}
	}
}

// WithRules appends validation rules for a field, after the rules of its definition.
func WithRules(id string, rules ...validation.Rule) Option {
	return func(cfg *Config) {
		if cfg == nil {
			return
		}
		if cfg.Rules == nil {
			cfg.Rules = make(map[string][]validation.Rule)
		}
		cfg.Rules[id] = append(cfg.Rules[id], rules...)
	}
}

// WithSubmitHandler adds a handler receiving the submitted values.
func WithSubmitHandler(h form.SubmitHandler) Option {
	return func(cfg *Config) {
		if cfg == nil || h == nil {
			return
		}
		cfg.SubmitHandlers = append(cfg.SubmitHandlers, h)
	}
}

// WithResetObserver adds an observer notified after the form was reset.
func WithResetObserver(obs form.ResetObserver) Option {
	return func(cfg *Config) {
		if cfg == nil || obs == nil {
			return
		}
		cfg.ResetObservers = append(cfg.ResetObservers, obs)
	}
}

// WithLocale sets the locale, e.g. "de" or "en-GB".
func WithLocale(locale string) Option {
	return func(cfg *Config) {
		if cfg == nil {
			return
		}
		cfg.Locale = locale
	}
}

// WithLogger sets the logger used by the form and the validation service.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *Config) {
		if cfg == nil {
			return
		}
		cfg.Logger = logger
	}
}

// WithInitialValidation validates all fields when the dialog opens.
func WithInitialValidation(enabled bool) Option {
	return func(cfg *Config) {
		if cfg == nil {
			return
		}
		cfg.InitialValidation = enabled
	}
}

// WithProgramOptions appends tea.Program options.
func WithProgramOptions(opts ...tea.ProgramOption) Option {
	return func(cfg *Config) {
		if cfg == nil {
			return
		}
		cfg.ProgramOptions = append(cfg.ProgramOptions, opts...)
	}
}

// App hosts the Bubble Tea driven form dialog.
type App struct {
	cfg      Config
	mu       sync.Mutex
	program  *tea.Program
	inFlight bool
}

// New constructs an App from the provided options.
func New(opts ...Option) (*App, error) {
	cfg := Config{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if err := formspec.Normalize(cfg.Fields); err != nil {
		return nil, err
	}
	if len(cfg.Fields) == 0 {
		return nil, ErrNoFields
	}
	for _, def := range cfg.Fields {
		if !def.Kind.IsInput() {
			continue
		}
		if _, err := validation.FromDefinition(def); err != nil {
			return nil, err
		}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &App{cfg: cfg}, nil
}

// Run shows the dialog until it is submitted, cancelled, stopped or ctx is done.
func (a *App) Run(ctx context.Context) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	queue := form.NewQueue()
	defer queue.Close()

	dialog, err := a.buildDialog(ctx, queue)
	if err != nil {
		return Result{}, err
	}
	program := tea.NewProgram(dialog, a.cfg.ProgramOptions...)

	a.mu.Lock()
	if a.inFlight {
		a.mu.Unlock()
		return Result{}, ErrProgramRunning
	}
	a.program = program
	a.inFlight = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.program = nil
		a.inFlight = false
		a.mu.Unlock()
	}()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			program.Quit()
		case <-done:
		}
	}()

	if _, err := program.Run(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil && !dialog.Closed() {
		return Result{}, err
	}
	return dialog.Result(), nil
}

// Stop signals the running program (if any) to exit.
func (a *App) Stop() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.program == nil {
		return nil
	}
	a.program.Quit()
	return nil
}

func (a *App) buildDialog(ctx context.Context, queue *form.Queue) (*Dialog, error) {
	locale := messages.Resolve(a.cfg.Locale)

	svc := validation.NewService(
		validation.WithScheduler(queue),
		validation.WithServiceLocale(locale),
		validation.WithLogger(a.cfg.Logger),
		validation.WithContext(ctx),
	)
	if err := svc.RegisterDefinitions(a.cfg.Fields); err != nil {
		return nil, err
	}
	for id, rules := range a.cfg.Rules {
		chain, _ := svc.Chain(id)
		svc.Register(id, append(chain, rules...)...)
	}

	f := form.New(
		form.WithValidator(svc),
		form.WithScheduler(queue),
		form.WithLogger(a.cfg.Logger),
	)
	dialog := NewDialog(a.cfg.Title, f, queue, locale)
	dialog.initialValidation = a.cfg.InitialValidation

	for _, def := range a.cfg.Fields {
		if err := dialog.AddDefinition(def, a.startValue(def)); err != nil {
			return nil, err
		}
	}
	for _, obs := range a.cfg.ResetObservers {
		f.AddResetObserver(obs)
	}
	if len(a.cfg.SubmitHandlers) > 0 {
		handlers := a.cfg.SubmitHandlers
		f.SetSubmitHandler(form.SubmitHandlerFunc(func(values map[string]string) {
			dialog.recordSubmit(values)
			for _, h := range handlers {
				h.OnSubmitForm(values)
			}
		}))
	}
	return dialog, nil
}

func (a *App) startValue(def formspec.FieldDefinition) string {
	if value, ok := a.cfg.Properties[def.ID]; ok {
		return value
	}
	if def.Default == "" && def.Kind == formspec.KindSelect && len(def.Options) > 0 {
		return def.Options[0].Value
	}
	return def.Default
}
