package cli

import (
	"meeting-board/internal/speech"
	"meeting-board/internal/store"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newSpeakCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "speak",
		Short: "Read the board aloud",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kv, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			text := speech.ReadAloudText(store.LoadOutline(kv, app.component("persistence")))
			if text == "" {
				return writeErr(cmd, errNothingToRead)
			}
			p, err := speech.NewCommandPlayer(app.cfg.SpeechCommand, logrus.NewEntry(app.log))
			if err != nil {
				return writeErr(cmd, err)
			}
			if err := p.Speak(text); err != nil {
				return writeErr(cmd, err)
			}
			p.Wait()
			return nil
		},
	}
}
