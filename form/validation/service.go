// Package validation implements form.Validator on top of per-field rule chains.
// Chains that contain blocking rules run off the form's goroutine and report
// back through the form's scheduler.
package validation

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"golang.org/x/text/language"

	"github.com/BrianJOC/formdialog/form"
	"github.com/BrianJOC/formdialog/utils/cmserror"
	"github.com/BrianJOC/formdialog/utils/messages"
)

// Chain is an ordered list of rules applied to one field.
type Chain []Rule

// Blocking reports whether any rule of the chain blocks.
func (c Chain) Blocking() bool {
	for _, r := range c {
		if IsBlocking(r) {
			return true
		}
	}
	return false
}

// Run applies the rules in order. Replacement values feed into the following
// rules and the first error message ends the chain.
func (c Chain) Run(ctx context.Context, value string) (form.ValidationResult, error) {
	current := value
	var out form.ValidationResult
	for _, rule := range c {
		res, err := rule.Apply(ctx, current)
		if err != nil {
			return out, err
		}
		if res.HasNewValue {
			current = res.NewValue
			out.NewValue = current
			out.HasNewValue = current != value
		}
		if !res.IsValid() {
			out.ErrorMessage = res.ErrorMessage
			return out, nil
		}
	}
	return out, nil
}

// Option configures a Service.
type Option func(*Service)

// WithScheduler sets where results of blocking chains are delivered.
func WithScheduler(s form.Scheduler) Option {
	return func(svc *Service) {
		svc.scheduler = s
	}
}

// WithRules registers a chain for the field id.
func WithRules(id string, rules ...Rule) Option {
	return func(svc *Service) {
		svc.chains[id] = Chain(rules)
	}
}

// WithServiceLocale sets the locale used for rule messages.
func WithServiceLocale(tag language.Tag) Option {
	return func(svc *Service) {
		svc.locale = tag
	}
}

// WithLogger sets the logger receiving rule failures.
func WithLogger(logger *slog.Logger) Option {
	return func(svc *Service) {
		if logger != nil {
			svc.logger = logger
		}
	}
}

// WithContext sets the parent context of every rule invocation.
func WithContext(ctx context.Context) Option {
	return func(svc *Service) {
		if ctx != nil {
			svc.ctx = ctx
		}
	}
}

// Service validates fields with the chains registered for their ids. Fields
// without a chain are valid.
type Service struct {
	mu        sync.RWMutex
	chains    map[string]Chain
	scheduler form.Scheduler
	locale    language.Tag
	logger    *slog.Logger
	ctx       context.Context
	wg        sync.WaitGroup
}

// NewService creates a Service.
func NewService(opts ...Option) *Service {
	svc := &Service{
		chains: make(map[string]Chain),
		locale: messages.DefaultLocale(),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		ctx:    context.Background(),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Register replaces the chain for the field id.
func (s *Service) Register(id string, rules ...Rule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chains[id] = Chain(rules)
}

// Chain returns the rules registered for the field id.
func (s *Service) Chain(id string) (Chain, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.chains[id]
	return c, ok
}

// SetScheduler changes where results of blocking chains are delivered.
func (s *Service) SetScheduler(scheduler form.Scheduler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduler = scheduler
}

// Wait blocks until all blocking chains started so far have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

type pending struct {
	id    string
	value string
	chain Chain
}

type outcome struct {
	id  string
	res form.ValidationResult
}

// Validate implements form.Validator.
func (s *Service) Validate(fields []form.Field, handler form.ValidationHandler) {
	ok := true
	var deferred []pending
	for _, field := range fields {
		id := field.ID()
		value := field.Widget().FormValue()
		chain, _ := s.Chain(id)
		if chain.Blocking() {
			deferred = append(deferred, pending{id: id, value: value, chain: chain})
			continue
		}
		res := s.run(id, value, chain)
		ok = ok && res.IsValid()
		handler.OnValidationResult(id, res)
	}

	if len(deferred) == 0 {
		handler.OnValidationFinished(ok)
		return
	}

	s.mu.RLock()
	scheduler := s.scheduler
	s.mu.RUnlock()

	if scheduler == nil {
		for _, p := range deferred {
			res := s.run(p.id, p.value, p.chain)
			ok = ok && res.IsValid()
			handler.OnValidationResult(p.id, res)
		}
		handler.OnValidationFinished(ok)
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		results := make([]outcome, 0, len(deferred))
		for _, p := range deferred {
			results = append(results, outcome{id: p.id, res: s.run(p.id, p.value, p.chain)})
		}
		scheduler.Defer(func() {
			allValid := ok
			for _, r := range results {
				allValid = allValid && r.res.IsValid()
				handler.OnValidationResult(r.id, r.res)
			}
			handler.OnValidationFinished(allValid)
		})
	}()
}

func (s *Service) run(id, value string, chain Chain) form.ValidationResult {
	if len(chain) == 0 {
		return form.Valid()
	}
	ctx := WithFieldID(WithLocale(s.ctx, s.locale), id)
	res, err := chain.Run(ctx, value)
	if err != nil {
		cmsErr := cmserror.Wrap(err, messages.ErrorValidationUnavailable)
		s.logger.Error("validation rule failed",
			"field", id,
			"error", cmsErr.Localized(language.English),
			"trace", cmserror.StackTrace(cmsErr),
		)
		return form.Invalid(cmsErr.Message.Localize(s.locale))
	}
	return res
}
