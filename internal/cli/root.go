package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"smeta/internal/estimate"
	"smeta/internal/format"
	"smeta/internal/logging"
	"smeta/internal/store"
	"smeta/internal/tui"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type App struct {
	DBType   string
	Host     string
	Port     int
	User     string
	Password string
	DBName   string

	PrettyJSON bool
	Format     string
	Lang       string
	Orphans    string
	LogFile    string
	LogLevel   string

	settings *store.Settings
	log      *zap.Logger
}

func NewRootCmd() *cobra.Command {
	app := &App{}

	cmd := &cobra.Command{
		Use:          "smeta",
		Short:        "Construction estimate browser (CLI + TUI)",
		SilenceUsage: true,
		Example: strings.TrimSpace(`
  # Start the interactive TUI
  smeta

  # Save connection settings (tested before saving)
  smeta connect --db-type postgres --host db --user est --db-name smeta

  # Scriptable commands
  smeta outline --tree
  smeta layout --format yaml

  # Direct node lookup (shortcut for: smeta show work:10)
  smeta work:10
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if cmd.HasSubCommands() && len(args) == 0 {
				return runTUI(cmd, app)
			}
			return cmd.Help()
		},
	}

	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return app.setup()
	}
	cmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		if app.log != nil {
			_ = app.log.Sync()
		}
		return nil
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&app.DBType, "db-type", envOr("SMETA_DB_TYPE", ""), "Database type (sqlite|mysql|postgres; overrides saved settings)")
	pf.StringVar(&app.Host, "host", envOr("SMETA_HOST", ""), "Database host")
	pf.IntVar(&app.Port, "port", envOrInt("SMETA_PORT", 0), "Database port (default: 3306 mysql, 5432 postgres)")
	pf.StringVar(&app.User, "user", envOr("SMETA_USER", ""), "Database user")
	pf.StringVar(&app.Password, "password", envOr("SMETA_PASSWORD", ""), "Database password")
	pf.StringVar(&app.DBName, "db-name", envOr("SMETA_DB_NAME", ""), "Database name (file path for sqlite)")
	pf.BoolVar(&app.PrettyJSON, "pretty", false, "Pretty-print output")
	pf.StringVar(&app.Format, "format", envOr("SMETA_FORMAT", "json"), "Output format (json|edn|yaml)")
	pf.StringVar(&app.Lang, "lang", envOr("SMETA_LANG", ""), "Kind-word language (ru|en)")
	pf.StringVar(&app.Orphans, "orphans", envOr("SMETA_ORPHANS", ""), "Records with a missing parent: drop|warn|strict")
	pf.StringVar(&app.LogFile, "log-file", envOr("SMETA_LOG_FILE", ""), "Write JSON logs to this file")
	pf.StringVar(&app.LogLevel, "log-level", envOr("SMETA_LOG_LEVEL", "info"), "Log level (debug|info|warn|error)")

	cmd.AddCommand(newConnectCmd(app))
	cmd.AddCommand(newInitCmd(app))
	cmd.AddCommand(newOutlineCmd(app))
	cmd.AddCommand(newLayoutCmd(app))
	cmd.AddCommand(newShowCmd(app))
	cmd.AddCommand(newSetTypeCmd(app))
	cmd.AddCommand(newExportCmd(app))
	cmd.AddCommand(newReportCmd(app))
	cmd.AddCommand(newDocsCmd(app))

	return cmd
}

func (app *App) setup() error {
	cfg, err := store.LoadSettings()
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}
	app.settings = cfg

	logFile := app.LogFile
	if logFile == "" {
		logFile = cfg.LogFile
	}
	log, err := logging.New(logFile, app.LogLevel)
	if err != nil {
		return err
	}
	app.log = log
	return nil
}

func (app *App) logger() *zap.Logger {
	if app.log == nil {
		return zap.NewNop()
	}
	return app.log
}

// connParams layers flags/env over the saved connection. Picking a different
// db type starts from that type's defaults instead of the saved host/port.
func (app *App) connParams() (store.ConnParams, error) {
	p := store.DefaultConnParams()
	if app.settings != nil {
		p = app.settings.Connection
	}
	if strings.TrimSpace(app.DBType) != "" {
		t, err := store.ParseDBType(app.DBType)
		if err != nil {
			return store.ConnParams{}, err
		}
		if t != p.DBType {
			p = store.ConnParams{DBType: t}
			if t == store.DBTypeSQLite {
				p.DBName = store.DefaultConnParams().DBName
			}
		}
	}
	if app.Host != "" {
		p.Host = app.Host
	}
	if app.Port != 0 {
		p.Port = app.Port
	}
	if app.User != "" {
		p.User = app.User
	}
	if app.Password != "" {
		p.Password = app.Password
	}
	if app.DBName != "" {
		p.DBName = app.DBName
	}
	return p, nil
}

func (app *App) lang() (estimate.Lang, error) {
	v := app.Lang
	if v == "" && app.settings != nil {
		v = app.settings.Lang
	}
	return estimate.ParseLang(v)
}

func (app *App) buildOptions() (estimate.BuildOptions, error) {
	v := app.Orphans
	if v == "" && app.settings != nil {
		v = app.settings.Orphans
	}
	pol, err := estimate.ParseOrphanPolicy(v)
	if err != nil {
		return estimate.BuildOptions{}, err
	}
	return estimate.BuildOptions{Orphans: pol}, nil
}

func (app *App) persistTypes() bool {
	return app.settings == nil || app.settings.PersistTypesEnabled()
}

func (app *App) connect(ctx context.Context) (*store.Conn, error) {
	p, err := app.connParams()
	if err != nil {
		return nil, err
	}
	app.logger().Info("connecting", zap.String("target", p.Describe()))
	conn, err := store.Connect(ctx, p)
	if err != nil {
		app.logger().Warn("connect failed", zap.Error(err))
		return nil, err
	}
	return conn, nil
}

// openSession connects and performs the first load. The caller closes the conn.
func openSession(ctx context.Context, app *App, persist bool) (*store.Conn, *store.Session, error) {
	opt, err := app.buildOptions()
	if err != nil {
		return nil, nil, err
	}
	conn, err := app.connect(ctx)
	if err != nil {
		return nil, nil, err
	}
	s := store.NewSession(conn, conn, store.SessionOptions{
		Build:        opt,
		PersistKinds: persist,
		Logger:       app.logger(),
	})
	if _, err := s.Load(ctx); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, s, nil
}

func runTUI(cmd *cobra.Command, app *App) error {
	p, err := app.connParams()
	if err != nil {
		return writeErr(cmd, err)
	}
	opt, err := app.buildOptions()
	if err != nil {
		return writeErr(cmd, err)
	}
	lang, err := app.lang()
	if err != nil {
		return writeErr(cmd, err)
	}
	return tui.Run(tui.Options{
		Params:       p,
		Build:        opt,
		PersistKinds: app.persistTypes(),
		Lang:         lang,
		Logger:       app.logger(),
		SaveParams:   app.saveParams,
	})
}

func (app *App) saveParams(p store.ConnParams) error {
	cfg := app.settings
	if cfg == nil {
		cfg = &store.Settings{}
	}
	cfg.Connection = p
	return store.SaveSettings(cfg)
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envOrInt(k string, d int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Format, app.PrettyJSON)
}

func writeErr(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), err.Error())
	return err
}
