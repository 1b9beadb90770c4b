package cli

import (
	"smeta/internal/store"

	"github.com/spf13/cobra"
)

func newConnectCmd(app *App) *cobra.Command {
	var noSave bool
	cmd := &cobra.Command{
		Use:   "connect",
		Short: "Test connection settings and save them",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := app.connect(cmd.Context())
			if err != nil {
				return writeErr(cmd, err)
			}
			p := conn.Params()
			_ = conn.Close()

			path := ""
			if !noSave {
				if err := app.saveParams(p); err != nil {
					return writeErr(cmd, err)
				}
				path, _ = store.ConfigPath()
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"target":     p.Describe(),
					"connection": p.Redacted(),
					"saved":      path,
				},
			})
		},
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "Only test the connection")
	return cmd
}

func newInitCmd(app *App) *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the chapters/works/resources tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			conn, err := app.connect(ctx)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer conn.Close()

			if err := conn.InitSchema(ctx); err != nil {
				return writeErr(cmd, err)
			}
			if demo {
				if err := conn.SeedRecords(ctx, store.DemoRecords()); err != nil {
					return writeErr(cmd, err)
				}
			}
			return writeOut(cmd, app, map[string]any{
				"data": map[string]any{
					"target": conn.Params().Describe(),
					"seeded": demo,
				},
			})
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "Insert a small sample estimate")
	return cmd
}
