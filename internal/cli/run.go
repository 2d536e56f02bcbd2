package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/birchlabs/folio/pkg/config"
	"github.com/birchlabs/folio/pkg/input"
	"github.com/birchlabs/folio/pkg/pdfread"
	"github.com/birchlabs/folio/pkg/session"
	"github.com/birchlabs/folio/pkg/tui"
)

const cmdExamples = `  # View a document:
  folio ./paper.pdf

  # Reload when the file changes on disk:
  folio ./paper.pdf --watch

  # Write the default configuration and exit:
  folio --write-config

  # Print the active configuration:
  folio --show-config`

type RunArgs struct {
	*RootArgs

	Path        string
	ConfigPath  string
	Watch       bool
	WriteConfig bool
	ShowConfig  bool
	ShowSchema  bool
}

func NewRunArgs(rootArgs *RootArgs) *RunArgs {
	return &RunArgs{
		RootArgs: rootArgs,
	}
}

func (ra *RunArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&ra.ConfigPath, "config", "", "Path to the folio configuration file")
	cmd.Flags().BoolVarP(&ra.Watch, "watch", "w", false, "Watch the document and reload on changes")
	cmd.Flags().BoolVar(&ra.WriteConfig, "write-config", false, "Write the default configuration file and exit")
	cmd.Flags().BoolVar(&ra.ShowConfig, "show-config", false, "Print the active configuration and exit")
	cmd.Flags().BoolVar(&ra.ShowSchema, "show-schema", false, "Print the configuration JSON schema and exit")

	err := cmd.MarkFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}
}

func NewRunCmd(ra *RunArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "run [path]",
		Short:             "Default command, opens the given document",
		Example:           cmdExamples,
		Args:              cobra.MaximumNArgs(1),
		ValidArgsFunction: runCompletion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				ra.Path = args[0]
			}

			return run(cmd, ra)
		},
	}
	ra.AddFlags(cmd)

	bindEnvVars(cmd)

	return cmd
}

func runCompletion(_ *cobra.Command, args []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return []cobra.Completion{"pdf"}, cobra.ShellCompDirectiveFilterFileExt
	}

	return nil, cobra.ShellCompDirectiveNoFileComp
}

func run(cmd *cobra.Command, rc *RunArgs) error {
	configPath := rc.ConfigPath
	if configPath == "" {
		configPath = config.GetPath()
	}

	err := config.NewConfig().Write(configPath)
	if err != nil {
		slog.Error("write default config", slog.Any("err", err))
	}

	if rc.WriteConfig {
		// Exit early after writing the default config. An earlier write
		// error is fatal here.
		return err
	}

	cfg, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("invalid config %q: %w", configPath, err)
	}

	if rc.ShowSchema {
		b, err := json.MarshalIndent(config.Schema(), "", "  ")
		if err != nil {
			return fmt.Errorf("marshal config schema: %w", err)
		}

		mustN(fmt.Fprintln(cmd.OutOrStdout(), string(b)))

		return nil
	}

	if rc.ShowConfig {
		slog.Info("active configuration", slog.String("path", configPath))

		b, err := cfg.MarshalYAML()
		if err != nil {
			return fmt.Errorf("marshal config yaml: %w", err)
		}

		mustN(fmt.Fprint(cmd.OutOrStdout(), string(b)))

		return nil
	}

	if rc.Path == "" {
		return fmt.Errorf("requires a document path, see '%s --help'", cmdName)
	}

	return runUI(cmd.Context(), cfg, rc)
}

// prefsStore exposes configured presentation defaults as stored navigation
// state, so documents without their own history pick them up.
type prefsStore struct {
	cfg *config.Config
}

func (s prefsStore) Load(_ string) (session.StoredState, bool) {
	scroll, spread := s.cfg.Viewer.Modes()

	st := session.NewStoredState()
	st.ScrollMode = scroll
	st.SpreadMode = spread

	return st, scroll.IsValid() || spread.IsValid()
}

// runUI assembles the session and starts the UI program.
func runUI(ctx context.Context, cfg *config.Config, rc *RunArgs) error {
	screen := tui.NewScreen()

	controller, err := session.NewController(pdfread.NewEngine(), screen,
		session.WithStateStore(prefsStore{cfg: cfg}),
		session.WithInitTimeout(cfg.Viewer.InitTimeoutDuration()),
	)
	if err != nil {
		return fmt.Errorf("create session controller: %w", err)
	}

	screen.SetBus(controller.Bus())

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if rc.Watch || *cfg.Viewer.Watch {
		watcher, err := session.NewWatcher(controller)
		if err != nil {
			return fmt.Errorf("create watcher: %w", err)
		}

		err = watcher.Watch(ctx, rc.Path)
		if err != nil {
			return fmt.Errorf("watch document: %w", err)
		}

		defer func() {
			err := watcher.Close()
			if err != nil {
				slog.Error("close watcher", slog.Any("err", err))
			}
		}()

		go watcher.Run(ctx)
	}

	p := tui.NewProgram(tui.Config{
		Controller:    controller,
		Screen:        screen,
		Dispatcher:    input.NewKeyCommandDispatcher(),
		Gestures:      input.NewGestureInterpreter(cfg.Input.GestureConfig()),
		Path:          rc.Path,
		CaretBrowsing: *cfg.Input.CaretBrowsing,
	})

	_, err = p.Run()
	if err != nil {
		return fmt.Errorf("tea: %w", err)
	}

	err = controller.Close(context.Background())
	if err != nil {
		return fmt.Errorf("close document: %w", err)
	}

	return nil
}

func mustN(_ int, err error) {
	if err != nil {
		panic(err)
	}
}
