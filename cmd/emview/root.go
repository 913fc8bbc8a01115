package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/emview/internal/classify"
	"github.com/kk-code-lab/emview/internal/config"
	"github.com/kk-code-lab/emview/internal/logging"
	"github.com/kk-code-lab/emview/internal/preview"
	"github.com/kk-code-lab/emview/internal/ui/render"
	"github.com/kk-code-lab/emview/internal/watch"
	"github.com/spf13/cobra"
)

// errPreviewFailed makes the process exit non-zero after the failure has
// already been printed by the writer.
var errPreviewFailed = errors.New("preview failed")

type options struct {
	configPath string
	firstLines int
	lastLines  int
	movieSize  int
	noColor    bool
	tui        bool
	watch      bool
	logLevel   string
}

// NewRootCmd builds the emview command tree.
func NewRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:     "emview <path>",
		Short:   "Preview electron microscopy data and text files in the terminal",
		Long:    `emview classifies a file and shows a summary of it: table shape, image or volume dimensions, or the first and last lines of a text file.`,
		Version: version,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			if opts.tui {
				return runScreen(cmd.Context(), cfg, opts, args[0])
			}
			return runWriter(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, opts, args[0])
		},
		SilenceUsage: true,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/emview/config.yaml)")
	flags.IntVar(&opts.firstLines, "first-lines", 0, "number of head lines shown for text files")
	flags.IntVar(&opts.lastLines, "last-lines", 0, "number of tail lines shown for text files")
	flags.IntVar(&opts.movieSize, "movie-size", 0, "image width above which a stack is shown as a movie")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colours and syntax highlighting")
	flags.BoolVar(&opts.tui, "tui", false, "show the preview in an interactive terminal screen")
	flags.BoolVar(&opts.watch, "watch", false, "refresh the preview when the file changes")
	flags.StringVar(&opts.logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newConfigCmd(opts))
	return rootCmd
}

// loadConfig reads the config file and applies the flags the user set.
func loadConfig(cmd *cobra.Command, opts *options) (config.Config, error) {
	path := opts.configPath
	if path == "" {
		path = config.Path()
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}

	flags := cmd.Flags()
	if flags.Changed("first-lines") {
		cfg.FirstLines = opts.firstLines
	}
	if flags.Changed("last-lines") {
		cfg.LastLines = opts.lastLines
	}
	if flags.Changed("movie-size") {
		cfg.MovieSize = opts.movieSize
	}
	if opts.noColor {
		cfg.Color = false
	}
	return cfg, cfg.Validate()
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runWriter(parent context.Context, out, errOut io.Writer, cfg config.Config, opts *options, path string) error {
	logger := logging.New(errOut, logging.ParseLevel(opts.logLevel))
	writer := render.NewWriter(out, errOut, cfg.TabWidth, cfg.Color)
	router := preview.NewRouter(cfg, classify.NewProbe(), writer, writer, writer, logger)

	show := func() preview.Result {
		writer.Begin(path)
		return router.ShowFile(path)
	}

	res := show()
	if err := writer.Err(); err != nil {
		return err
	}
	if !opts.watch {
		if res.Err != nil {
			return errPreviewFailed
		}
		return nil
	}

	ctx, cancel := signalContext(parent)
	defer cancel()
	w, err := watch.New(path, watch.DefaultDebounce, logger)
	if err != nil {
		return err
	}
	return w.Run(ctx, func() {
		fmt.Fprintln(out)
		show()
	})
}

func runScreen(parent context.Context, cfg config.Config, opts *options, path string) error {
	logger, closeLog, err := fileLogger(opts.logLevel)
	if err != nil {
		return err
	}
	defer closeLog()

	scr, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}
	if err := scr.Init(); err != nil {
		return fmt.Errorf("initialising screen: %w", err)
	}
	defer scr.Fini()

	screen := render.NewScreen(scr, cfg.TabWidth, cfg.Color)
	router := preview.NewRouter(cfg, classify.NewProbe(), screen, screen, screen, logger)
	show := func() {
		screen.Begin(path)
		router.ShowFile(path)
	}
	show()

	ctx, cancel := signalContext(parent)
	defer cancel()
	if !opts.watch {
		return screen.Run(ctx, show)
	}

	w, err := watch.New(path, watch.DefaultDebounce, logger)
	if err != nil {
		return err
	}
	watching := make(chan struct{})
	go func() {
		defer close(watching)
		if err := w.Run(ctx, screen.Refresh); err != nil {
			logger.Error("watch stopped", "error", err)
		}
	}()
	err = screen.Run(ctx, show)
	// the watcher posts to the screen, so it must stop before Fini
	cancel()
	<-watching
	return err
}

// fileLogger sends logs to the XDG state directory so they do not draw over
// the screen.
func fileLogger(level string) (*logging.Logger, func(), error) {
	path, err := xdg.StateFile(config.AppName + "/emview.log")
	if err != nil {
		return nil, nil, fmt.Errorf("resolving log file: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}
	return logging.New(f, logging.ParseLevel(level)), func() { _ = f.Close() }, nil
}

func newConfigCmd(opts *options) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect or create the configuration file",
	}
	configCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/emview/config.yaml)")

	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration file path",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), configPath(opts))
		},
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := configPath(opts)
			if _, err := os.Stat(path); err == nil {
				return fmt.Errorf("%s already exists", path)
			}
			if err := config.Default().Save(path); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})
	return configCmd
}

func configPath(opts *options) string {
	if opts.configPath != "" {
		return opts.configPath
	}
	return config.Path()
}
