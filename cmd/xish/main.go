package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/xish-project/xish/internal/config"
	"github.com/xish-project/xish/internal/executor"
	"github.com/xish-project/xish/internal/logging"
	"github.com/xish-project/xish/internal/ui"
)

var (
	// Version information - set at build time via -ldflags.
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
	GoVersion = "unknown"
)

func main() {
	// A re-exec'd child carries its work serialized in argv[2] rather than
	// through normal flags — intercept it before cobra ever sees argv, since
	// the payload is arbitrary base64 and must not be flag-parsed.
	if len(os.Args) >= 2 && os.Args[1] == executor.ReexecFlag {
		os.Exit(runReexecChild(os.Args[2:]))
	}

	var debug, noColor bool
	var command string

	rootCmd := &cobra.Command{
		Use:   "xish",
		Short: "xish is a small interactive Unix shell",
		Long: `xish is an interactive, POSIX-flavored Unix shell: pipes, redirections,
background and stopped jobs, and the cd/exit/pwd/jobs/fg/bg builtins.

It does not implement shell scripting, aliases, command history, line
editing, globbing, here-documents, command substitution, or arithmetic
expansion.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runShell(debug, noColor, command)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable structured debug logging to stderr")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colorized output")
	rootCmd.Flags().StringVarP(&command, "command", "c", "", "run a single command non-interactively and exit")

	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runReexecChild(argv []string) int {
	if len(argv) == 0 {
		fmt.Fprintln(os.Stderr, "xish: missing payload for", executor.ReexecFlag)
		return 1
	}
	cfg, err := config.Load()
	if err != nil {
		cfg = &config.Config{PromptFormat: config.DefaultPromptFormat}
	}
	logger := logging.New(cfg.Debug)
	defer logger.Sync()
	printer := ui.NewPrinter(!cfg.Color, logger)

	return executor.RunReexecChild(cfg, logger, printer, argv[0])
}
