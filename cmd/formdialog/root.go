package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/BrianJOC/formdialog/pkg/formdialog"
	"github.com/BrianJOC/formdialog/utils/cmserror"
	"github.com/BrianJOC/formdialog/utils/messages"
)

type globalFlags struct {
	locale            string
	logFile           string
	output            string
	initialValidation bool
}

var flags globalFlags

var rootCmd = &cobra.Command{
	Use:           "formdialog",
	Short:         "Terminal form dialogs",
	Long:          `formdialog shows validated form dialogs in the terminal and prints the submitted values.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch flags.output {
		case formatJSON, formatYAML:
		default:
			return fmt.Errorf("unsupported output format %q", flags.output)
		}
		messages.SetDefaultLocale(messages.Resolve(flags.locale))
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.locale, "locale", "", "dialog language, e.g. en or de")
	pf.StringVar(&flags.logFile, "log-file", "", "write debug logs to this file")
	pf.StringVarP(&flags.output, "output", "o", formatJSON, "output format: json or yaml")
	pf.BoolVar(&flags.initialValidation, "initial-validation", false, "validate all fields when the dialog opens")

	rootCmd.AddCommand(runCmd, deleteCmd, containerCmd)
}

// openLog is replaced in tests.
var openLog = openLogger

// openLogger routes logs to --log-file, or discards them.
func openLogger() (*slog.Logger, func(), error) {
	if flags.logFile == "" {
		return slog.New(slog.NewTextHandler(io.Discard, nil)), func() {}, nil
	}
	f, err := tea.LogToFile(flags.logFile, "formdialog")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	closeLog := func() {
		// tea.LogToFile also redirected the standard logger.
		log.SetOutput(os.Stderr)
		_ = f.Close()
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug})), closeLog, nil
}

// runDialog shows a dialog built from opts and returns its result. The log
// file is closed before it returns.
func runDialog(ctx context.Context, opts ...formdialog.Option) (formdialog.Result, error) {
	logger, closeLog, err := openLog()
	if err != nil {
		return formdialog.Result{}, err
	}
	defer closeLog()

	opts = append(opts, formdialog.WithLogger(logger))
	if flags.initialValidation {
		opts = append(opts, formdialog.WithInitialValidation(true))
	}
	if flags.locale != "" {
		opts = append(opts, formdialog.WithLocale(flags.locale))
	}
	app, err := formdialog.New(opts...)
	if err != nil {
		logger.Error("invalid dialog", "error", cmserror.StackTrace(err))
		return formdialog.Result{}, fmt.Errorf("failed to initialize dialog: %w", err)
	}
	res, err := app.Run(ctx)
	if err != nil {
		logger.Error("dialog failed", "error", cmserror.StackTrace(err))
		return formdialog.Result{}, fmt.Errorf("dialog exited with error: %w", err)
	}
	return res, nil
}

func emit(w io.Writer, v any) error {
	if err := writeOutput(w, flags.output, v); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
