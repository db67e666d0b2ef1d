package validation

import (
	"context"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"golang.org/x/text/language"

	"github.com/BrianJOC/formdialog/form"
	"github.com/BrianJOC/formdialog/utils/cmserror"
	"github.com/BrianJOC/formdialog/utils/messages"
)

// Rule checks or rewrites a single value. A returned error means the rule
// could not decide, not that the value is invalid.
type Rule interface {
	Apply(ctx context.Context, value string) (form.ValidationResult, error)
}

// RuleFunc adapts a function into a Rule.
type RuleFunc func(ctx context.Context, value string) (form.ValidationResult, error)

// Apply implements Rule.
func (f RuleFunc) Apply(ctx context.Context, value string) (form.ValidationResult, error) {
	return f(ctx, value)
}

// Blocker is implemented by rules that must not run on the form's goroutine.
type Blocker interface {
	Blocking() bool
}

// IsBlocking reports whether r blocks.
func IsBlocking(r Rule) bool {
	b, ok := r.(Blocker)
	return ok && b.Blocking()
}

type ctxKey int

const (
	localeKey ctxKey = iota
	fieldKey
)

// WithLocale attaches the locale rule messages are rendered in.
func WithLocale(ctx context.Context, tag language.Tag) context.Context {
	return context.WithValue(ctx, localeKey, tag)
}

// LocaleFrom returns the locale attached to ctx, or the default locale.
func LocaleFrom(ctx context.Context) language.Tag {
	if tag, ok := ctx.Value(localeKey).(language.Tag); ok {
		return tag
	}
	return messages.DefaultLocale()
}

// WithFieldID attaches the id of the field being validated.
func WithFieldID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, fieldKey, id)
}

// FieldIDFrom returns the id of the field being validated.
func FieldIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(fieldKey).(string)
	return id
}

func invalid(ctx context.Context, key string, args ...any) form.ValidationResult {
	return form.Invalid(messages.Key(LocaleFrom(ctx), key, args...))
}

// check builds a rule that rejects values for which ok is false. Empty values
// pass so that Required alone decides about them.
func check(key string, ok func(string) bool, args ...any) Rule {
	return RuleFunc(func(ctx context.Context, value string) (form.ValidationResult, error) {
		if value == "" || ok(value) {
			return form.Valid(), nil
		}
		return invalid(ctx, key, args...), nil
	})
}

// Required rejects empty and whitespace-only values.
func Required() Rule {
	return RuleFunc(func(ctx context.Context, value string) (form.ValidationResult, error) {
		if strings.TrimSpace(value) == "" {
			return invalid(ctx, messages.GuiValidationRequired), nil
		}
		return form.Valid(), nil
	})
}

// MinLength rejects values shorter than n characters.
func MinLength(n int) Rule {
	return check(messages.GuiValidationMinLength, func(s string) bool {
		return len([]rune(s)) >= n
	}, n)
}

// MaxLength rejects values longer than n characters.
func MaxLength(n int) Rule {
	return check(messages.GuiValidationMaxLength, func(s string) bool {
		return len([]rune(s)) <= n
	}, n)
}

// Pattern rejects values not matching re.
func Pattern(re *regexp.Regexp) Rule {
	return check(messages.GuiValidationPattern, re.MatchString)
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Email rejects values that do not look like an email address.
func Email() Rule {
	return check(messages.GuiValidationEmail, emailPattern.MatchString)
}

// Numeric rejects values that are not integers.
func Numeric() Rule {
	return check(messages.GuiValidationNumeric, func(s string) bool {
		_, err := strconv.Atoi(strings.TrimSpace(s))
		return err == nil
	})
}

// IntRange rejects integers outside [minimum, maximum]. Non-numeric values are
// rejected as well.
func IntRange(minimum, maximum int) Rule {
	return RuleFunc(func(ctx context.Context, value string) (form.ValidationResult, error) {
		if value == "" {
			return form.Valid(), nil
		}
		n, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return invalid(ctx, messages.GuiValidationNumeric), nil
		}
		if n < minimum || n > maximum {
			return invalid(ctx, messages.GuiValidationRange, minimum, maximum), nil
		}
		return form.Valid(), nil
	})
}

// OneOf rejects values outside allowed.
func OneOf(allowed ...string) Rule {
	set := make(map[string]struct{}, len(allowed))
	for _, v := range allowed {
		set[v] = struct{}{}
	}
	return check(messages.GuiValidationOneOf, func(s string) bool {
		_, ok := set[s]
		return ok
	})
}

func rewrite(fn func(string) string) Rule {
	return RuleFunc(func(_ context.Context, value string) (form.ValidationResult, error) {
		if next := fn(value); next != value {
			return form.Replace(next), nil
		}
		return form.Valid(), nil
	})
}

// Trim replaces the value with its trimmed form.
func Trim() Rule {
	return rewrite(strings.TrimSpace)
}

// Lower replaces the value with its lower-case form.
func Lower() Rule {
	return rewrite(strings.ToLower)
}

// WithMessage overrides the error message of rule.
func WithMessage(rule Rule, msg string) Rule {
	if msg == "" {
		return rule
	}
	return messageRule{Rule: rule, msg: msg}
}

type messageRule struct {
	Rule
	msg string
}

func (r messageRule) Apply(ctx context.Context, value string) (form.ValidationResult, error) {
	res, err := r.Rule.Apply(ctx, value)
	if err == nil && !res.IsValid() {
		res.ErrorMessage = r.msg
	}
	return res, err
}

func (r messageRule) Blocking() bool {
	return IsBlocking(r.Rule)
}

// RemoteRule asks an HTTP endpoint to validate a value.
//
// The endpoint receives {"field": id, "value": value} and answers with
// {"error": msg, "newValue": replacement}; both members are optional.
type RemoteRule struct {
	URL     string
	Client  *http.Client
	Timeout time.Duration
	// MaxResponseBytes caps the size of the answer body.
	MaxResponseBytes int64
}

// DefaultMaxResponseBytes is the answer size limit of rules created by Remote.
const DefaultMaxResponseBytes = 1 << 20

// RemoteOpt customizes a RemoteRule.
type RemoteOpt func(*RemoteRule)

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(client *http.Client) RemoteOpt {
	return func(r *RemoteRule) {
		if client != nil {
			r.Client = client
		}
	}
}

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) RemoteOpt {
	return func(r *RemoteRule) {
		r.Timeout = d
	}
}

// WithMaxResponseBytes caps the answer body size; larger answers fail the rule.
func WithMaxResponseBytes(n int64) RemoteOpt {
	return func(r *RemoteRule) {
		if n > 0 {
			r.MaxResponseBytes = n
		}
	}
}

// Remote creates a RemoteRule posting to url.
func Remote(url string, opts ...RemoteOpt) *RemoteRule {
	r := &RemoteRule{
		URL:              url,
		Client:           http.DefaultClient,
		Timeout:          10 * time.Second,
		MaxResponseBytes: DefaultMaxResponseBytes,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Blocking implements Blocker.
func (r *RemoteRule) Blocking() bool { return true }

type remoteRequest struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type remoteResponse struct {
	Error    string  `json:"error"`
	NewValue *string `json:"newValue"`
}

// Apply implements Rule.
func (r *RemoteRule) Apply(ctx context.Context, value string) (form.ValidationResult, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	body, err := sonic.MarshalString(remoteRequest{Field: FieldIDFrom(ctx), Value: value})
	if err != nil {
		return form.ValidationResult{}, RemoteError{URL: r.URL, Reason: "encode request", Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.URL, strings.NewReader(body))
	if err != nil {
		return form.ValidationResult{}, RemoteError{URL: r.URL, Reason: "build request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return form.ValidationResult{}, RemoteError{URL: r.URL, Reason: "send request", Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return form.ValidationResult{}, cmserror.New(messages.ErrorRemoteStatus, r.URL, resp.StatusCode)
	}

	limit := r.MaxResponseBytes
	if limit <= 0 {
		limit = DefaultMaxResponseBytes
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return form.ValidationResult{}, RemoteError{URL: r.URL, Reason: "read response", Err: err}
	}
	if int64(len(data)) > limit {
		return form.ValidationResult{}, RemoteError{URL: r.URL, Reason: "read response", Err: ErrResponseTooLarge}
	}
	var out remoteResponse
	if err := sonic.Unmarshal(data, &out); err != nil {
		return form.ValidationResult{}, RemoteError{URL: r.URL, Reason: "decode response", Err: err}
	}

	res := form.ValidationResult{ErrorMessage: out.Error}
	if out.NewValue != nil && *out.NewValue != value {
		res.NewValue = *out.NewValue
		res.HasNewValue = true
	}
	return res, nil
}
