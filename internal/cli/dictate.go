package cli

import (
	"bufio"
	"io"
	"os"

	"meeting-board/internal/dictation"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newDictateCmd(app *App) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "dictate",
		Short: "Feed recognized phrases (one per line) into the board",
		Long: `Reads recognizer output line by line from stdin (or --file) and applies it
the way live dictation does: consecutive phrases extend the same item, and a
blank last item is filled before a new one is started.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if file != "" {
				f, err := os.Open(file)
				if err != nil {
					return writeErr(cmd, err)
				}
				defer f.Close()
				r = f
			}

			ctrl, persist, err := app.loadBoard()
			if err != nil {
				return writeErr(cmd, err)
			}
			bridge := dictation.NewBridge(logrus.NewEntry(app.log))

			transcript := ""
			sc := bufio.NewScanner(r)
			for sc.Scan() {
				transcript = dictation.JoinPhrase(transcript, sc.Text())
				bridge.Consume(transcript, ctrl)
			}
			if err := sc.Err(); err != nil {
				return writeErr(cmd, err)
			}
			if err := persist.Err(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": ctrl.Outline().Items()})
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Read phrases from this file instead of stdin")
	return cmd
}
