// Command hackerstories is a terminal client for searching, sorting and
// curating Hacker News stories.
//
// Usage:
//
//	hackerstories                        Run the TUI
//	hackerstories --fake                 Run against the in-memory fake source
//	hackerstories --journal a.jsonl      Also record every committed action
//	hackerstories replay a.jsonl         Fold recorded actions and print the state
//	hackerstories version                Print the version
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/hackerstories/internal/config"
	"github.com/abelbrown/hackerstories/internal/coord"
	"github.com/abelbrown/hackerstories/internal/journal"
	"github.com/abelbrown/hackerstories/internal/logging"
	"github.com/abelbrown/hackerstories/internal/pager"
	"github.com/abelbrown/hackerstories/internal/source"
	"github.com/abelbrown/hackerstories/internal/stories"
	"github.com/abelbrown/hackerstories/internal/store"
	"github.com/abelbrown/hackerstories/internal/ui"
)

// dbFileName is the preferences database inside the data directory.
const dbFileName = "hackerstories.db"

type runOptions struct {
	fake    bool
	pager   string
	dataDir string
	debug   bool
	journal string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var opts runOptions

	rootCmd := &cobra.Command{
		Use:          "hackerstories",
		Short:        "Search, sort and curate Hacker News stories",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return run(ctx, opts)
		},
	}

	rootCmd.Flags().BoolVar(&opts.fake, "fake", false, "use the in-memory fake source instead of the live API")
	rootCmd.Flags().StringVar(&opts.pager, "pager", "", "pager mode: load-more-manual, load-more-auto or classic")
	rootCmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "data directory (default ~/.hackerstories)")
	rootCmd.Flags().BoolVar(&opts.debug, "debug", false, "log at debug level")
	rootCmd.Flags().StringVar(&opts.journal, "journal", "", "append committed actions as JSON lines to this file (readable by replay)")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), logging.Version)
		},
	}

	rootCmd.AddCommand(newReplayCmd(), versionCmd)
	return rootCmd
}

// loadConfig resolves the data directory and merges file, env and flags.
func loadConfig(opts runOptions) (string, *config.Config, error) {
	dataDir := opts.dataDir
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", nil, fmt.Errorf("create data directory: %w", err)
	}

	cfg, err := config.Load(config.Path(dataDir))
	if err != nil {
		return "", nil, err
	}
	if opts.fake {
		cfg.Source = config.SourceFake
	}
	if opts.pager != "" {
		cfg.UI.PagerMode = pager.Mode(opts.pager)
	}
	if opts.debug {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return "", nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return dataDir, cfg, nil
}

func run(ctx context.Context, opts runOptions) error {
	dataDir, cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	if err := logging.Init(dataDir, cfg.Log.Level); err != nil {
		return err
	}
	defer logging.Close()

	st, err := store.Open(filepath.Join(dataDir, dbFileName))
	if err != nil {
		return fmt.Errorf("open preferences: %w", err)
	}
	defer st.Close()

	search, err := st.SearchTerm(cfg.UI.DefaultSearch)
	if err != nil {
		logging.Warn("failed to read saved search term", "err", err)
		search = cfg.UI.DefaultSearch
	}
	// An explicit --pager wins over the saved mode.
	mode := cfg.UI.PagerMode
	if opts.pager == "" {
		if mode, err = st.PagerMode(cfg.UI.PagerMode); err != nil {
			logging.Warn("failed to read saved pager mode", "err", err)
			mode = cfg.UI.PagerMode
		}
	}

	live := source.NewAlgolia(source.AlgoliaOptions{
		BaseURL:   cfg.API.BaseURL,
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.Burst,
	})
	fake := source.NewFake(cfg.Fake.FetchDelay, cfg.Fake.MutateDelay)
	src := source.NewSwitch(live, fake, cfg.Source == config.SourceFake)
	logging.Info("starting", "source", src.Name(), "pager", mode, "search", search)

	g, gctx := errgroup.WithContext(ctx)

	d := coord.NewDispatcher(stories.NewState())
	if opts.journal != "" {
		f, err := os.OpenFile(opts.journal, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("open journal: %w", err)
		}
		defer f.Close()
		j := journal.New(f)
		defer j.Close()
		d.Record(j)
		logging.Info("journaling actions", "path", opts.journal, "session", j.Session())
	}
	c := coord.NewCoordinator(gctx, d, src, coord.Options{ErrorClearDelay: cfg.UI.ErrorClearDelay})
	defer c.Close()

	app := ui.NewApp(c, st, ui.Options{
		Search:    search,
		PagerMode: mode,
		PagerSize: cfg.UI.PagerSize,
	})
	program := tea.NewProgram(app, tea.WithAltScreen(), tea.WithContext(gctx))

	// The subscriber runs on the dispatcher goroutine; Send returns once the
	// program has stopped, so it never blocks shutdown.
	d.Subscribe(func(s stories.State) {
		program.Send(ui.StateChanged{State: s})
	})

	uiCtx, stopDispatcher := context.WithCancel(gctx)
	g.Go(func() error {
		return d.Run(uiCtx)
	})
	g.Go(func() error {
		defer stopDispatcher()
		if _, err := program.Run(); err != nil {
			if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("run ui: %w", err)
		}
		return nil
	})

	return g.Wait()
}
