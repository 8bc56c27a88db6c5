package cli

import (
	"fmt"

	"meeting-board/internal/export"
	"meeting-board/internal/store"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var (
		out    string
		html   bool
		stdout bool
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the board as meeting-notes-<date>.md",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			kv, err := app.openStore()
			if err != nil {
				return writeErr(cmd, err)
			}
			o := store.LoadOutline(kv, app.component("persistence"))

			if stdout {
				doc := export.Markdown(o)
				if html {
					doc, err = export.HTML(o)
					if err != nil {
						return writeErr(cmd, err)
					}
				}
				_, err := fmt.Fprintln(cmd.OutOrStdout(), doc)
				return err
			}

			dir := out
			if dir == "" {
				dir = app.cfg.ExportDir
			}
			write := export.WriteFile
			if html {
				write = export.WriteHTMLFile
			}
			path, err := write(dir, o, app.now())
			if err != nil {
				return writeErr(cmd, err)
			}
			app.component("cli").WithField("path", path).Info("board exported")
			return writeOut(cmd, app, map[string]any{"data": map[string]any{"path": path, "items": o.Len()}})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output directory (default: export_dir)")
	cmd.Flags().BoolVar(&html, "html", false, "Render HTML instead of markdown")
	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print the document instead of writing a file")
	return cmd
}
