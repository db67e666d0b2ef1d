package formdialog

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/BrianJOC/formdialog/utils/cmserror"
	"github.com/BrianJOC/formdialog/utils/formspec"
	"github.com/BrianJOC/formdialog/utils/messages"
)

func TestNewRequiresRows(t *testing.T) {
	t.Parallel()

	_, err := New()
	require.ErrorIs(t, err, ErrNoFields)

	_, err = New(WithFields(Label("Do you really want to delete this resource?")))
	require.NoError(t, err)
}

func TestNewRejectsDuplicateFields(t *testing.T) {
	t.Parallel()

	_, err := New(WithFields(TextField("title", "Title"), TextField("title", "Again")))
	var dup formspec.DuplicateFieldError
	require.ErrorAs(t, err, &dup)
	require.Equal(t, "title", dup.ID)
}

func TestNewRejectsUnknownRules(t *testing.T) {
	t.Parallel()

	_, err := New(WithFields(TextField("title", "Title", WithRule("soundex", "", ""))))
	require.ErrorIs(t, err, cmserror.New(messages.ErrorUnknownRule, ""))
}

func TestAppRunStopsOnRequest(t *testing.T) {
	t.Parallel()

	app := newTestApp(t,
		WithTitle("Page"),
		WithFields(TextField("title", "Title", WithDefault("Home"))),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resCh := runAppAsync(app, ctx)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, app.Stop())
	res := awaitResult(t, resCh)
	require.NoError(t, res.err)
	require.False(t, res.result.Submitted)
}

func TestAppRejectsConcurrentRun(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, WithFields(TextField("title", "Title")))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resCh := runAppAsync(app, ctx)
	time.Sleep(50 * time.Millisecond)

	_, err := app.Run(ctx)
	require.ErrorIs(t, err, ErrProgramRunning)

	require.NoError(t, app.Stop())
	require.NoError(t, awaitResult(t, resCh).err)
}

func TestAppRunReturnsWhenContextCancelled(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, WithFields(TextField("title", "Title")))

	ctx, cancel := context.WithCancel(context.Background())
	resCh := runAppAsync(app, ctx)
	cancel()

	res := awaitResult(t, resCh)
	if res.err != nil {
		require.ErrorIs(t, res.err, context.Canceled)
	}
}

func TestStopWithoutProgramIsNoop(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, WithFields(TextField("title", "Title")))
	require.NoError(t, app.Stop())
}

func TestStartValuePrefersProperties(t *testing.T) {
	t.Parallel()

	app := newTestApp(t,
		WithFields(
			TextField("title", "Title", WithDefault("Home")),
			SelectField("template", "Template", []formspec.Option{{Value: "a"}, {Value: "b"}}),
		),
		WithProperties(map[string]string{"title": "About"}),
	)

	require.Equal(t, "About", app.startValue(app.cfg.Fields[0]))
	require.Equal(t, "a", app.startValue(app.cfg.Fields[1]))
}

func TestWithDocumentAppliesSettings(t *testing.T) {
	t.Parallel()

	app := newTestApp(t, WithDocument(formspec.Document{
		Title:             "Container",
		Locale:            "de",
		InitialValidation: true,
		Fields:            []formspec.FieldDefinition{{ID: "name", Label: "Name"}},
	}))

	require.Equal(t, "Container", app.cfg.Title)
	require.Equal(t, "de", app.cfg.Locale)
	require.True(t, app.cfg.InitialValidation)
	require.Equal(t, formspec.KindText, app.cfg.Fields[0].Kind)
}

// --- helpers ---

func newTestApp(t *testing.T, opts ...Option) *App {
	t.Helper()
	headlessInput := bytes.NewBuffer(nil)
	opts = append(opts, WithProgramOptions(
		tea.WithoutRenderer(),
		tea.WithInput(headlessInput),
		tea.WithOutput(io.Discard),
	))
	app, err := New(opts...)
	require.NoError(t, err)
	return app
}

type runResult struct {
	result Result
	err    error
}

func runAppAsync(app *App, ctx context.Context) chan runResult {
	resCh := make(chan runResult, 1)
	go func() {
		res, err := app.Run(ctx)
		resCh <- runResult{result: res, err: err}
	}()
	return resCh
}

func awaitResult(t *testing.T, resCh <-chan runResult) runResult {
	t.Helper()
	select {
	case res := <-resCh:
		return res
	case <-time.After(time.Second):
		t.Fatal("app did not exit")
		return runResult{err: errors.New("timeout")}
	}
}
