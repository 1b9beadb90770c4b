package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"smeta/internal/export"
	"smeta/internal/publish"
	"smeta/internal/tui"

	"github.com/spf13/cobra"
)

func newExportCmd(app *App) *cobra.Command {
	var out, sheet string
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the estimate to an .xlsx workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out = strings.TrimSpace(out)
			if out == "" {
				return writeErr(cmd, fmt.Errorf("missing --out"))
			}
			lang, err := app.lang()
			if err != nil {
				return writeErr(cmd, err)
			}
			conn, s, err := openSession(cmd.Context(), app, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer conn.Close()

			b, err := export.WriteXLSX(s.Tree(), sheet, lang)
			if err != nil {
				return writeErr(cmd, err)
			}
			out = filepath.Clean(out)
			if err := publish.WriteFile(out, b, overwrite); err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{"written": []string{out}, "rows": s.Tree().Len()},
			})
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output .xlsx path")
	cmd.Flags().StringVar(&sheet, "sheet", "", "Sheet name (default: Смета)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file")
	return cmd
}

func newReportCmd(app *App) *cobra.Command {
	var raw, refs, overwrite bool
	var title, out string
	var width int
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the estimate as a Markdown report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lang, err := app.lang()
			if err != nil {
				return writeErr(cmd, err)
			}
			conn, s, err := openSession(cmd.Context(), app, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer conn.Close()

			ro := publish.RenderOptions{Title: title, Lang: lang, IncludeRefs: refs}
			if strings.TrimSpace(out) != "" {
				res, err := publish.WriteReport(s.Tree(), out, publish.WriteOptions{Render: ro, Overwrite: overwrite})
				if err != nil {
					return writeErr(cmd, err)
				}
				return writeOut(cmd, app, map[string]any{"data": res})
			}

			md := publish.RenderMarkdown(s.Tree(), ro)
			if !raw {
				md = tui.RenderMarkdown(md, width) + "\n"
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), md)
			return err
		},
	}
	cmd.Flags().BoolVar(&raw, "raw", false, "Print Markdown source instead of rendering it")
	cmd.Flags().BoolVar(&refs, "refs", false, "Include kind:id references")
	cmd.Flags().StringVar(&title, "title", "", "Report title (default: Смета)")
	cmd.Flags().StringVar(&out, "out", "", "Write the Markdown to a file instead of stdout")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing file (with --out)")
	cmd.Flags().IntVar(&width, "width", 100, "Wrap width for rendered output")
	return cmd
}
