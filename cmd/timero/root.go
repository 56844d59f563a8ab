package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"
	"github.com/charmbracelet/log"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/benjamonnguyen/timero"
	"github.com/benjamonnguyen/timero/cmd/timero/ui"
	"github.com/benjamonnguyen/timero/sqlite"
)

const (
	envPrefix   = "TIMERO"
	initTimeout = 10 * time.Second
)

var (
	console *ui.UI
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "timero",
	Short: "Pomodoro timer for the terminal",
	Long: `timero runs focus and break intervals in your terminal.
It keeps preferences, daily statistics and a task list in a local database.

Running bare 'timero' is the same as 'timero run'.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	DisableAutoGenTag: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runTimer(cmd.Context())
	},
}

func Execute(version, commit, date string) {
	buildVersion = version
	buildCommit = commit
	buildDate = date

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig, initUI)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	rootCmd.PersistentFlags().String("config", "", "Config file (default ~/.config/timero/config.yaml)")
}

func initConfig() {
	timero.LoadEnv(os.Getenv("TIMERO_ENV") == "production")

	if cfgFile, _ := rootCmd.PersistentFlags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		dir, err := configDirFunc()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: cannot find home directory: %v\n", err)
			os.Exit(1)
		}
		viper.AddConfigPath(dir)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	dir, _ := configDirFunc()
	setConfigDefaults(dir)

	_ = viper.ReadInConfig()
}

func setConfigDefaults(dir string) {
	viper.SetDefault(timero.DatabaseURLKey, filepath.Join(dir, "timero.db"))
	viper.SetDefault(timero.LogLevelKey, "warn")
	viper.SetDefault(timero.TickIntervalKey, time.Second)
	viper.SetDefault(timero.AutoStartDelayKey, time.Second)
	viper.SetDefault(timero.AlarmBellKey, true)
}

func initUI() {
	console = ui.New()
	console.Verbose = verbose
}

func loadConfig() (timero.Config, error) {
	cfg := timero.Config{
		DatabaseURL:    viper.GetString(timero.DatabaseURLKey),
		LogLevel:       viper.GetString(timero.LogLevelKey),
		TickInterval:   viper.GetDuration(timero.TickIntervalKey),
		AutoStartDelay: viper.GetDuration(timero.AutoStartDelayKey),
		AlarmBell:      viper.GetBool(timero.AlarmBellKey),
	}
	if err := cfg.Validate(); err != nil {
		return timero.Config{}, err
	}
	return cfg, nil
}

func newLogger(cfg timero.Config) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "timero",
	})
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = log.WarnLevel
		l.Warn("unknown log level, using warn", "level", cfg.LogLevel)
	}
	if verbose {
		level = log.DebugLevel
		l.SetReportCaller(true)
	}
	l.SetLevel(level)
	return l
}

// app holds the stores shared by every command.
type app struct {
	cfg       timero.Config
	l         *log.Logger
	clock     clockwork.Clock
	db        *sqlite.DB
	persister *persister
	prefs     *preferencesProvider
	stats     *statsProvider
	tasks     *tasksProvider
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	l := newLogger(cfg)

	initCtx, cancel := context.WithTimeout(ctx, initTimeout)
	defer cancel()

	l.Debug("opening db", "path", cfg.DatabaseURL)
	db, err := sqlite.Open(cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.RunMigrations(initCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	tx, dbGetter := txStdLib.NewTransactor(
		db.DB(),
		txStdLib.NestedTransactionsSavepoints,
	)
	kv := sqlite.NewKVRepo(dbGetter, l.With("component", "kv"))
	history := sqlite.NewHistoryRepo(dbGetter, l.With("component", "history"))
	clock := clockwork.NewRealClock()
	p := NewPersister(tx, l.With("component", "persister"))

	a := &app{
		cfg:       cfg,
		l:         l,
		clock:     clock,
		db:        db,
		persister: p,
		prefs:     NewPreferencesProvider(kv, p, l.With("component", "preferences")),
		stats:     NewStatsProvider(kv, history, p, clock, l.With("component", "stats")),
		tasks:     NewTasksProvider(kv, p, clock, l.With("component", "tasks")),
	}
	if err := a.load(initCtx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) load(ctx context.Context) error {
	if err := a.prefs.Load(ctx); err != nil {
		return fmt.Errorf("load preferences: %w", err)
	}
	if err := a.stats.Load(ctx); err != nil {
		return fmt.Errorf("load stats: %w", err)
	}
	if err := a.tasks.Load(ctx); err != nil {
		return fmt.Errorf("load tasks: %w", err)
	}
	return nil
}

// Close waits for queued writes before closing the database.
func (a *app) Close() error {
	if err := a.persister.Close(); err != nil {
		a.l.Error("failed to drain persister", "err", err)
	}
	return a.db.Close()
}

func withApp(cmd *cobra.Command, fn func(context.Context, *app) error) error {
	ctx := cmd.Context()
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close() //nolint
	return fn(ctx, a)
}
