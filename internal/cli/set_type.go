package cli

import (
	"smeta/internal/model"

	"github.com/spf13/cobra"
)

func newSetTypeCmd(app *App) *cobra.Command {
	var noPersist bool
	cmd := &cobra.Command{
		Use:   "set-type <kind:id> <chapter|work|resource>",
		Short: "Change the display type of a node (position in the tree is unchanged)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := model.ParseNodeRef(args[0])
			if err != nil {
				return writeErr(cmd, err)
			}
			persist := app.persistTypes() && !noPersist
			conn, s, err := openSession(cmd.Context(), app, persist)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer conn.Close()

			res, err := s.SetDisplayKind(cmd.Context(), ref, args[1])
			if err != nil {
				return writeErr(cmd, err)
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"ref":         ref,
					"level":       ref.Kind,
					"previous":    res.Previous,
					"displayKind": res.Node.DisplayKind,
					"changed":     res.Changed,
					"persisted":   persist && res.Changed,
				},
			})
		},
	}
	cmd.Flags().BoolVar(&noPersist, "no-persist", false, "Do not store the change in the database")
	return cmd
}
