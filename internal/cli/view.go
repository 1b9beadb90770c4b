package cli

import (
	"smeta/internal/estimate"
	"smeta/internal/model"

	"github.com/spf13/cobra"
)

func newOutlineCmd(app *App) *cobra.Command {
	var tree bool
	var title string
	cmd := &cobra.Command{
		Use:   "outline",
		Short: "Print the estimate outline (chapters > works > resources)",
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

			if tree {
				if title == "" {
					title = conn.Params().Describe()
				}
				if err := estimate.RenderOutline(cmd.OutOrStdout(), s.Tree(), title, lang); err != nil {
					return writeErr(cmd, err)
				}
				return nil
			}
			lines := estimate.Outline(s.Tree(), lang)
			return writeOut(cmd, app, map[string]any{
				"data": lines,
				"meta": map[string]any{"count": len(lines), "orphans": s.Tree().Orphans},
			})
		},
	}
	cmd.Flags().BoolVar(&tree, "tree", false, "Draw the outline as a text tree instead of structured output")
	cmd.Flags().StringVar(&title, "title", "", "Root line for --tree (default: the connection target)")
	return cmd
}

func newLayoutCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Print the box diagram geometry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, s, err := openSession(cmd.Context(), app, false)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer conn.Close()

			d := estimate.Layout(s.Tree(), estimate.DefaultLayout())
			return writeOut(cmd, app, map[string]any{
				"data": d.Boxes,
				"meta": map[string]any{"count": len(d.Boxes)},
			})
		},
	}
	return cmd
}

func newShowCmd(app *App) *cobra.Command {
	var text bool
	cmd := &cobra.Command{
		Use:   "show <kind:id>",
		Short: "Show the properties of one node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := model.ParseNodeRef(args[0])
			if err != nil {
				return writeErr(cmd, err)
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

			t := s.Tree()
			n, ok := t.Lookup(ref)
			if !ok {
				return writeErr(cmd, errNotFound(ref.String(), string(ref.Kind)))
			}
			props := estimate.Inspect(t, n)
			if text {
				_, err := cmd.OutOrStdout().Write([]byte(props.Text(lang) + "\n"))
				return err
			}
			box, _ := estimate.Layout(t, estimate.DefaultLayout()).Box(ref)
			children := make([]string, 0, len(n.Children))
			for _, ch := range n.Children {
				children = append(children, t.Node(ch).Ref.String())
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"properties": props,
					"box":        box,
					"children":   children,
				},
			})
		},
	}
	cmd.Flags().BoolVar(&text, "text", false, "Print the properties panel text instead of structured output")
	return cmd
}
