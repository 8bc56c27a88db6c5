package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"meeting-board/internal/config"
	"meeting-board/internal/dictation"
	"meeting-board/internal/editor"
	"meeting-board/internal/format"
	"meeting-board/internal/logging"
	"meeting-board/internal/speech"
	"meeting-board/internal/store"
	"meeting-board/internal/tui"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type App struct {
	ConfigFile string
	PrettyJSON bool
	Format     string

	cfg *config.Config
	log *logrus.Logger

	logCloser io.Closer

	// now is replaced in tests to pin export file names.
	now func() time.Time
	// openKV is replaced in tests to observe store writes.
	openKV func(backend, dir string) (store.KV, error)
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{now: time.Now, openKV: store.Open})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:          "board",
		Short:        "Meeting notes outline board (TUI + CLI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive board
  board

  # Append a note from a script
  board add "Decide on launch date"

  # Write meeting-notes-<date>.md into ./notes
  board export --out notes
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) == 0 {
				return runTUI(app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.init(cmd)
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.logCloser != nil {
			return app.logCloser.Close()
		}
		return nil
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigFile, "config", "", "Config file (default: <config dir>/config.yaml)")
	pf.String("data-dir", "", "Directory holding the board store")
	pf.String("store", "", "Store backend (sqlite|file|memory)")
	pf.String("log-level", "", "Log level (debug|info|warn|error)")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print JSON output")
	pf.StringVar(&app.Format, "format", "json", "Output format (json|yaml)")

	cmd.AddCommand(newListCmd(app))
	cmd.AddCommand(newAddCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newSpeakCmd(app))
	cmd.AddCommand(newDictateCmd(app))
	cmd.AddCommand(newClearCmd(app))

	return cmd
}

// init resolves config (file < env < flags) and sets up logging.
func (app *App) init(cmd *cobra.Command) error {
	v, err := config.New()
	if err != nil {
		return err
	}
	flags := map[string]string{
		config.KeyDataDir:  "data-dir",
		config.KeyStore:    "store",
		config.KeyLogLevel: "log-level",
	}
	for key, name := range flags {
		if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return err
			}
		}
	}
	cfg, err := config.Load(v, app.ConfigFile)
	if err != nil {
		return err
	}

	interactive := !cmd.HasParent()
	logger, closer, err := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		File:        cfg.LogFile,
		Interactive: interactive,
	})
	if err != nil {
		return err
	}
	if !interactive && cfg.LogFile == "" {
		logger.SetOutput(cmd.ErrOrStderr())
	}

	app.cfg = cfg
	app.log = logger
	app.logCloser = closer
	app.log.WithFields(logrus.Fields{"store": cfg.Store, "data_dir": cfg.DataDir, "config": cfg.File}).Debug("config loaded")
	return nil
}

func (app *App) component(name string) *logrus.Entry {
	return logging.Component(app.log, name)
}

func (app *App) openStore() (store.KV, error) {
	open := app.openKV
	if open == nil {
		open = store.Open
	}
	kv, err := open(app.cfg.Store, app.cfg.DataDir)
	if err != nil {
		return nil, err
	}
	return kv, nil
}

// openBoard returns a controller over the saved outline and the bridge that
// writes it back. The bridge is not subscribed to the controller.
func (app *App) openBoard() (*editor.Controller, *store.Bridge, error) {
	kv, err := app.openStore()
	if err != nil {
		return nil, nil, err
	}
	o := store.LoadOutline(kv, app.component("persistence"))
	persist := store.NewBridge(kv, logrus.NewEntry(app.log))
	return editor.New(o), persist, nil
}

// loadBoard is openBoard with every controller change written back.
func (app *App) loadBoard() (*editor.Controller, *store.Bridge, error) {
	ctrl, persist, err := app.openBoard()
	if err != nil {
		return nil, nil, err
	}
	ctrl.OnChange(persist.Save)
	return ctrl, persist, nil
}

func runTUI(app *App) error {
	opt, err := app.tuiOptions()
	if err != nil {
		return err
	}
	return tui.Run(opt)
}

// tuiOptions wires the interactive board. The TUI subscribes Persist itself.
func (app *App) tuiOptions() (tui.Options, error) {
	ctrl, persist, err := app.openBoard()
	if err != nil {
		return tui.Options{}, err
	}

	var capture dictation.Capture
	if len(app.cfg.DictationCommand) > 0 {
		capture = dictation.NewCommandCapture(app.cfg.DictationCommand, logrus.NewEntry(app.log))
	}

	var player speech.Player
	p, playerErr := speech.NewCommandPlayer(app.cfg.SpeechCommand, logrus.NewEntry(app.log))
	if playerErr == nil {
		player = p
	} else {
		app.component("cli").WithError(playerErr).Info("read aloud disabled")
	}

	return tui.Options{
		Controller: ctrl,
		Capture:    capture,
		Player:     player,
		PlayerErr:  playerErr,
		Persist:    persist,
		ExportDir:  app.cfg.ExportDir,
		Preview:    app.cfg.Preview,
		Log:        logrus.NewEntry(app.log),
		Now:        app.now,
	}, nil
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
