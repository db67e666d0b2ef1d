package validation

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/BrianJOC/formdialog/form"
	"github.com/BrianJOC/formdialog/utils/cmserror"
	"github.com/BrianJOC/formdialog/utils/formspec"
	"github.com/BrianJOC/formdialog/utils/messages"
)

func TestBuiltinRules(t *testing.T) {
	t.Parallel()

	ctx := WithLocale(context.Background(), language.English)
	tests := []struct {
		name    string
		rule    Rule
		value   string
		wantErr string
	}{
		{name: "required empty", rule: Required(), value: "  ", wantErr: "This field is required"},
		{name: "required set", rule: Required(), value: "x"},
		{name: "min length short", rule: MinLength(3), value: "ab", wantErr: "Must be at least 3 characters"},
		{name: "min length counts runes", rule: MinLength(3), value: "äöü"},
		{name: "min length skips empty", rule: MinLength(3), value: ""},
		{name: "max length long", rule: MaxLength(2), value: "abc", wantErr: "Must be at most 2 characters"},
		{name: "pattern", rule: Pattern(regexp.MustCompile(`^[a-z]+$`)), value: "A1", wantErr: "Invalid format"},
		{name: "email ok", rule: Email(), value: "editor@example.org"},
		{name: "email bad", rule: Email(), value: "editor@", wantErr: "Invalid email address"},
		{name: "numeric bad", rule: Numeric(), value: "12a", wantErr: "Must be a number"},
		{name: "range inside", rule: IntRange(1, 9), value: "9"},
		{name: "range outside", rule: IntRange(1, 9), value: "10", wantErr: "Must be between 1 and 9"},
		{name: "range not a number", rule: IntRange(1, 9), value: "x", wantErr: "Must be a number"},
		{name: "one of", rule: OneOf("a", "b"), value: "c", wantErr: "Not an allowed value"},
		{name: "custom message", rule: WithMessage(Required(), "Title missing"), value: "", wantErr: "Title missing"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res, err := tt.rule.Apply(ctx, tt.value)
			require.NoError(t, err)
			require.Equal(t, tt.wantErr, res.ErrorMessage)
			require.False(t, res.HasNewValue)
		})
	}
}

func TestRuleMessagesFollowLocale(t *testing.T) {
	t.Parallel()

	ctx := WithLocale(context.Background(), language.German)
	res, err := Required().Apply(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "Dieses Feld ist ein Pflichtfeld", res.ErrorMessage)
}

func TestChainFeedsReplacementsForward(t *testing.T) {
	t.Parallel()

	chain := Chain{Trim(), Lower(), OneOf("news", "blog")}
	res, err := chain.Run(context.Background(), "  NEWS ")
	require.NoError(t, err)
	require.True(t, res.IsValid())
	require.True(t, res.HasNewValue)
	require.Equal(t, "news", res.NewValue)

	res, err = chain.Run(context.Background(), "news")
	require.NoError(t, err)
	require.False(t, res.HasNewValue)
}

func TestChainStopsAtFirstError(t *testing.T) {
	t.Parallel()

	calls := 0
	counting := RuleFunc(func(context.Context, string) (form.ValidationResult, error) {
		calls++
		return form.Valid(), nil
	})
	chain := Chain{Trim(), Required(), counting}
	res, err := chain.Run(WithLocale(context.Background(), language.English), "   ")
	require.NoError(t, err)
	require.Equal(t, "This field is required", res.ErrorMessage)
	require.True(t, res.HasNewValue)
	require.Empty(t, res.NewValue)
	require.Zero(t, calls)
}

type stubWidget struct{ value string }

func (w *stubWidget) FormValue() string         { return w.value }
func (w *stubWidget) SetFormValue(value string) { w.value = value }
func (w *stubWidget) SetErrorMessage(string)    {}

func field(id, value string) form.Field {
	return form.NewField(id, id, "", &stubWidget{value: value})
}

type recordingHandler struct {
	mu       sync.Mutex
	results  map[string]form.ValidationResult
	order    []string
	finished []bool
}

func newRecordingHandler() *recordingHandler {
	return &recordingHandler{results: map[string]form.ValidationResult{}}
}

func (h *recordingHandler) OnValidationResult(id string, res form.ValidationResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results[id] = res
	h.order = append(h.order, id)
}

func (h *recordingHandler) OnValidationFinished(ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.finished = append(h.finished, ok)
}

func TestServiceValidatesSynchronousChainsInline(t *testing.T) {
	t.Parallel()

	svc := NewService(
		WithServiceLocale(language.English),
		WithRules("title", Required()),
	)
	handler := newRecordingHandler()
	svc.Validate([]form.Field{field("title", ""), field("free", "anything")}, handler)

	require.Equal(t, []string{"title", "free"}, handler.order)
	require.Equal(t, "This field is required", handler.results["title"].ErrorMessage)
	require.True(t, handler.results["free"].IsValid())
	require.Equal(t, []bool{false}, handler.finished)
}

func TestServiceReportsRuleFailuresAsUnavailable(t *testing.T) {
	t.Parallel()

	broken := RuleFunc(func(context.Context, string) (form.ValidationResult, error) {
		return form.ValidationResult{}, errors.New("backend down")
	})
	svc := NewService(WithServiceLocale(language.German), WithRules("name", broken))
	handler := newRecordingHandler()
	svc.Validate([]form.Field{field("name", "x")}, handler)

	require.Equal(t, "Die Prüfung ist derzeit nicht verfügbar", handler.results["name"].ErrorMessage)
	require.Equal(t, []bool{false}, handler.finished)
}

func remoteServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req remoteRequest
		body, _ := io.ReadAll(r.Body)
		if err := sonic.Unmarshal(body, &req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		switch req.Value {
		case "taken":
			_, _ = w.Write([]byte(`{"error":"Name ` + req.Field + ` already taken"}`))
		case "Mixed":
			_, _ = w.Write([]byte(`{"newValue":"mixed"}`))
		case "crash":
			w.WriteHeader(http.StatusInternalServerError)
		case "chatty":
			_, _ = w.Write([]byte(`{"error":"` + strings.Repeat("x", 256) + `"}`))
		default:
			_, _ = w.Write([]byte(`{}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRemoteRule(t *testing.T) {
	t.Parallel()

	srv := remoteServer(t)
	rule := Remote(srv.URL, WithHTTPClient(srv.Client()))
	require.True(t, IsBlocking(rule))
	require.True(t, IsBlocking(WithMessage(rule, "x")))

	ctx := WithFieldID(context.Background(), "name")

	res, err := rule.Apply(ctx, "taken")
	require.NoError(t, err)
	require.Equal(t, "Name name already taken", res.ErrorMessage)

	res, err = rule.Apply(ctx, "Mixed")
	require.NoError(t, err)
	require.True(t, res.HasNewValue)
	require.Equal(t, "mixed", res.NewValue)

	res, err = rule.Apply(ctx, "free")
	require.NoError(t, err)
	require.Equal(t, form.Valid(), res)

	_, err = rule.Apply(ctx, "crash")
	require.ErrorIs(t, err, cmserror.New(messages.ErrorRemoteStatus, "", 0))
}

func TestRemoteRuleLimitsResponseSize(t *testing.T) {
	t.Parallel()

	srv := remoteServer(t)
	require.Equal(t, int64(DefaultMaxResponseBytes), Remote(srv.URL).MaxResponseBytes)

	rule := Remote(srv.URL, WithHTTPClient(srv.Client()), WithMaxResponseBytes(64))
	ctx := WithFieldID(context.Background(), "name")

	_, err := rule.Apply(ctx, "chatty")
	require.ErrorIs(t, err, ErrResponseTooLarge)

	res, err := rule.Apply(ctx, "taken")
	require.NoError(t, err)
	require.Equal(t, "Name name already taken", res.ErrorMessage)
}

func TestServiceDeliversBlockingResultsThroughScheduler(t *testing.T) {
	t.Parallel()

	srv := remoteServer(t)
	queue := form.NewQueue()
	svc := NewService(
		WithScheduler(queue),
		WithServiceLocale(language.English),
		WithRules("title", Required()),
		WithRules("name", Remote(srv.URL, WithHTTPClient(srv.Client()))),
	)
	handler := newRecordingHandler()
	svc.Validate([]form.Field{field("title", "Home"), field("name", "taken")}, handler)

	require.Equal(t, []string{"title"}, handler.order)
	require.Empty(t, handler.finished)

	svc.Wait()
	require.Equal(t, 1, queue.Len())
	queue.Drain()

	require.Equal(t, []string{"title", "name"}, handler.order)
	require.Equal(t, "Name name already taken", handler.results["name"].ErrorMessage)
	require.Equal(t, []bool{false}, handler.finished)
}

func TestServiceRunsBlockingChainsInlineWithoutScheduler(t *testing.T) {
	t.Parallel()

	srv := remoteServer(t)
	svc := NewService(WithRules("name", Remote(srv.URL, WithHTTPClient(srv.Client()))))
	handler := newRecordingHandler()
	svc.Validate([]form.Field{field("name", "free")}, handler)

	require.Equal(t, []bool{true}, handler.finished)
}

func TestServiceIntegratesWithForm(t *testing.T) {
	t.Parallel()

	queue := form.NewQueue()
	svc := NewService(WithScheduler(queue), WithRules("slug", Trim(), Lower()))
	var submitted map[string]string
	f := form.New(
		form.WithValidator(svc),
		form.WithScheduler(queue),
		form.WithSubmitHandler(form.SubmitHandlerFunc(func(values map[string]string) {
			submitted = values
		})),
	)
	w := &stubWidget{}
	require.NoError(t, f.AddFieldWithValue(form.NewField("slug", "Slug", "", w), " About-Us "))

	f.ValidateAndSubmit()
	require.Equal(t, map[string]string{"slug": "about-us"}, submitted)
	require.Equal(t, "about-us", w.value)
}

func TestFromDefinition(t *testing.T) {
	t.Parallel()

	chain, err := FromDefinition(formspec.FieldDefinition{
		ID:       "width",
		Kind:     formspec.KindText,
		Required: true,
		Rules: []formspec.RuleDefinition{
			{Type: "trim"},
			{Type: "range", Value: "1..12", Message: "Between one and twelve"},
		},
	})
	require.NoError(t, err)
	require.Len(t, chain, 3)

	ctx := WithLocale(context.Background(), language.English)
	res, err := chain.Run(ctx, " 13 ")
	require.NoError(t, err)
	require.Equal(t, "Between one and twelve", res.ErrorMessage)

	res, err = chain.Run(ctx, "")
	require.NoError(t, err)
	require.Equal(t, "This field is required", res.ErrorMessage)

	chain, err = FromDefinition(formspec.FieldDefinition{
		ID:      "template",
		Kind:    formspec.KindSelect,
		Options: []formspec.Option{{Value: "a"}, {Value: "b"}},
	})
	require.NoError(t, err)
	res, err = chain.Run(ctx, "c")
	require.NoError(t, err)
	require.False(t, res.IsValid())
}

func TestFromDefinitionRejectsBadRules(t *testing.T) {
	t.Parallel()

	_, err := FromDefinition(formspec.FieldDefinition{
		ID:    "a",
		Rules: []formspec.RuleDefinition{{Type: "soundex"}},
	})
	require.ErrorIs(t, err, cmserror.New(messages.ErrorUnknownRule, ""))

	for _, rd := range []formspec.RuleDefinition{
		{Type: "minLength", Value: "many"},
		{Type: "range", Value: "9..1"},
		{Type: "pattern", Value: "("},
		{Type: "remote"},
	} {
		_, err := FromDefinition(formspec.FieldDefinition{ID: "a", Rules: []formspec.RuleDefinition{rd}})
		require.ErrorIsf(t, err, cmserror.New(messages.ErrorInvalidRule, "", ""), "rule %s", rd.Type)
	}
}

func TestRegisterDefinitionsSkipsDecorations(t *testing.T) {
	t.Parallel()

	svc := NewService()
	require.NoError(t, svc.RegisterDefinitions([]formspec.FieldDefinition{
		{ID: "title", Kind: formspec.KindText, Required: true},
		{Kind: formspec.KindSeparator},
		{ID: "note", Kind: formspec.KindText},
	}))

	_, ok := svc.Chain("title")
	require.True(t, ok)
	_, ok = svc.Chain("note")
	require.False(t, ok)
}
