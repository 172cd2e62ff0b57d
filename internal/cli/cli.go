package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/tmsalab/pathmodelfit/internal/app"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError wraps a bad-invocation problem as exit code 2.
func usageError(err error) error {
	return &ExitError{Code: 2, Message: err.Error()}
}

// options carries the writers and persistent flags shared by every
// subcommand.
type options struct {
	stdout    io.Writer
	stderr    io.Writer
	logLevel  string
	logFormat string
}

// logger builds the isolated logger the subcommand runs under. Logs go to
// stderr so rendered results on stdout stay machine-readable.
func (o *options) logger() *slog.Logger {
	return app.NewLogger(o.logLevel, o.logFormat, o.stderr)
}

// NewRootCommand builds the full pathmodelfit command tree.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	o := &options{stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "pathmodelfit",
		Short: "Structural fit indices for latent-variable SEMs",
		Long: `pathmodelfit computes supplemental fit indices for the structural (path)
portion of a fitted structural equation model: RMSEA-P with its one-sided
90% confidence bound, NSCI-P, and the four Hancock-Mueller measures on the
latent-variable-implied covariance structure.

Model estimation is delegated to an external engine over HTTP; configure
its endpoint in the engine block of the HCL config file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&o.logLevel, "log-level", "info", "Logging level: 'debug', 'info', 'warn', or 'error'.")
	root.PersistentFlags().StringVar(&o.logFormat, "log-format", "text", "Log output format: 'text' or 'json'.")

	root.AddCommand(
		newRunCommand(o),
		newValidateCommand(o),
		newHistoryCommand(o),
		newServeCommand(o),
		newVersionCommand(o),
	)
	return root
}
