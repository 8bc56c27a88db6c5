package cli

import (
	"strings"

	"meeting-board/internal/model"
	"meeting-board/internal/store"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
)

func newListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the board items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kv, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			o := store.LoadOutline(kv, app.component("persistence"))
			return writeOut(cmd, app, map[string]any{"data": o.Items()})
		},
	}
}

func newAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <text...>",
		Short: "Append text to the board (fills a blank last item)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.TrimSpace(strings.Join(args, " "))
			if text == "" {
				return writeErr(cmd, errEmptyText("add"))
			}
			ctrl, persist, err := app.loadBoard()
			if err != nil {
				return writeErr(cmd, err)
			}
			it := ctrl.AppendDictation(text)
			if err := persist.Err(); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{"data": it})
		},
	}
}

func newClearCmd(app *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Reset the board to a single empty item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				ok := false
				prompt := &survey.Confirm{
					Message: "Clear the board? All items will be removed.",
					Default: false,
				}
				if err := survey.AskOne(prompt, &ok); err != nil {
					return writeErr(cmd, err)
				}
				if !ok {
					return writeOut(cmd, app, map[string]any{"data": map[string]any{"cleared": false}})
				}
			}

			kv, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			o := model.New()
			if err := store.SaveOutline(kv, o); err != nil {
				return writeErr(cmd, err)
			}
			app.component("cli").Info("board cleared")
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"cleared": true, "items": o.Items()}})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}
