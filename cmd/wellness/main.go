package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/unrolled/secure"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pavelanni/wellness/internal/assessment"
	"github.com/pavelanni/wellness/internal/companion"
	"github.com/pavelanni/wellness/internal/handler"
	appI18n "github.com/pavelanni/wellness/internal/i18n"
	"github.com/pavelanni/wellness/internal/model"
	"github.com/pavelanni/wellness/internal/store"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "wellness",
		Short: "Student wellness portal with assessments and the Tara companion",
	}

	serve := serveCmd()
	root.AddCommand(serve, exportCmd(), validateCmd(), scoreCmd())

	// Make "serve" the default when no subcommand is given.
	root.RunE = serve.RunE
	root.Flags().AddFlagSet(serve.Flags())

	return root
}

func addLogFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("log-level", "info", "Log level (debug, info, warn, error)")
	f.String("log-format", "text", "Log format (text, json)")
	f.String("log-file", "", "Also write logs to this file, rotated by size")
}

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP portal server",
		RunE:  runServe,
	}
	f := cmd.Flags()
	f.StringP("addr", "a", ":8080", "HTTP listen address")
	f.String("db", "wellness.db", "SQLite database path")
	f.StringP("lang", "l", "en", "Default UI language (en, es)")
	f.String("questionnaires", "", "Directory of questionnaire YAML files (default: built-in)")
	f.String("portal-name", "Student Wellness Portal", "Portal name recorded in exports")
	f.Bool("demo", true, "Seed demo students, assessments and sessions into an empty database")
	f.String("demo-password", "demo123", "Password for every demo account")
	f.String("admin-email", "admin@wellness.edu", "Initial admin email when not seeding demo data")
	f.String("admin-password", "", "Initial admin password (or set WELLNESS_ADMIN_PASSWORD)")
	f.Bool("secure-cookies", true, "Set Secure flag on session cookies")
	f.Bool("simulate-typing", true, "Delay Tara replies by 1.5 to 2.5 seconds")
	f.Float64("chat-rate", 1, "Tara messages per second per student (0 = unlimited)")
	f.Int("chat-burst", 5, "Tara message burst per student")
	f.Float64("login-rate", 5, "Login attempts per second across all clients (0 = unlimited)")
	f.Int("login-burst", 10, "Login attempt burst")
	f.Duration("session-cleanup", time.Hour, "Interval between expired login session sweeps")
	addLogFlags(cmd)
	return cmd
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export assessment results as JSON",
		RunE:  runExport,
	}
	f := cmd.Flags()
	f.String("db", "wellness.db", "SQLite database path")
	f.StringP("output", "o", "-", "Output file path (- for stdout)")
	addLogFlags(cmd)
	return cmd
}

func validateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check questionnaire files for structural errors and max score drift",
		RunE:  runValidate,
	}
	f := cmd.Flags()
	f.String("questionnaires", "", "Directory of questionnaire YAML files (default: built-in)")
	addLogFlags(cmd)
	return cmd
}

func scoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score a JSON response file against a questionnaire",
		RunE:  runScore,
	}
	f := cmd.Flags()
	f.StringP("kind", "k", "", "Questionnaire kind (anxiety, peer-pressure, depression-anxiety)")
	f.StringP("file", "f", "-", "Responses file, {\"responses\": [...]} (- for stdin)")
	f.String("questionnaires", "", "Directory of questionnaire YAML files (default: built-in)")
	addLogFlags(cmd)
	_ = cmd.MarkFlagRequired("kind")
	return cmd
}

func setupLogging(cmd *cobra.Command) {
	v := viperForCmd(cmd)

	var logLevel slog.Level
	switch strings.ToLower(v.GetString("log-level")) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	var out io.Writer = os.Stderr
	if path := v.GetString("log-file"); path != "" {
		out = io.MultiWriter(os.Stderr, &lumberjack.Logger{
			Filename:   path,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     7, // days
			Compress:   true,
		})
	}

	handlerOpts := &slog.HandlerOptions{Level: logLevel}
	var logHandler slog.Handler
	switch strings.ToLower(v.GetString("log-format")) {
	case "json":
		logHandler = slog.NewJSONHandler(out, handlerOpts)
	default:
		logHandler = slog.NewTextHandler(out, handlerOpts)
	}
	slog.SetDefault(slog.New(logHandler))
}

// viperForCmd binds a command's flags and environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())

	v.SetEnvPrefix("WELLNESS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName("wellness")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.config/wellness")
	v.AddConfigPath("/etc/wellness")
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			slog.Warn("error reading config file", "error", err)
		}
	} else {
		slog.Debug("loaded config file", "path", v.ConfigFileUsed())
	}

	return v
}

// questionnaireFS returns dir as a file system, or the built-in files when
// dir is empty.
func questionnaireFS(dir string) fs.FS {
	if dir == "" {
		return assessment.Fixtures()
	}
	return os.DirFS(dir)
}

func printBanner() {
	figure.NewFigure("WELLNESS", "", true).Print()
	fmt.Println("======================================================")
}

func runServe(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)
	printBanner()

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if v.GetBool("demo") {
		if err := seedDemo(ctx, db, v.GetString("demo-password"), v.GetString("portal-name")); err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
	}
	if err := seedAdmin(db, v.GetString("admin-email"), v.GetString("admin-password")); err != nil {
		return fmt.Errorf("seed admin: %w", err)
	}

	catalog, err := assessment.LoadCatalog(questionnaireFS(v.GetString("questionnaires")), false)
	if err != nil {
		return fmt.Errorf("load questionnaires: %w", err)
	}

	lang := v.GetString("lang")
	if err := appI18n.Init(lang); err != nil {
		return fmt.Errorf("init i18n: %w", err)
	}

	cfg := model.ServerConfig{
		SecureCookies:  v.GetBool("secure-cookies"),
		SimulateTyping: v.GetBool("simulate-typing"),
		ChatRate:       v.GetFloat64("chat-rate"),
		ChatBurst:      v.GetInt("chat-burst"),
		LoginRate:      v.GetFloat64("login-rate"),
		LoginBurst:     v.GetInt("login-burst"),
	}
	h, err := handler.New(db, catalog, companion.New(companion.DefaultScript(), nil), cfg)
	if err != nil {
		return fmt.Errorf("create handler: %w", err)
	}

	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
	})

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(secureMiddleware.Handler)
	r.Use(appI18n.Middleware(lang))
	h.Routes(r)

	go sweepSessions(ctx, db, v.GetDuration("session-cleanup"))

	addr := v.GetString("addr")
	srv := &http.Server{Addr: addr, Handler: r}
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	slog.Info("starting server",
		"addr", addr,
		"lang", lang,
		"questionnaires", len(catalog.List()),
		"simulate_typing", cfg.SimulateTyping,
		"chat_rate", cfg.ChatRate,
	)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func sweepSessions(ctx context.Context, db *store.Store, every time.Duration) {
	if every <= 0 {
		return
	}
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := db.CleanupExpiredSessions()
			if err != nil {
				slog.Error("failed to clean up sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("removed expired login sessions", "count", n)
			}
		}
	}
}

func seedDemo(ctx context.Context, db *store.Store, password, portal string) error {
	if password == "" {
		return errors.New("demo password is required: set --demo-password or WELLNESS_DEMO_PASSWORD")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}
	seeded, err := db.Seed(ctx, string(hash), time.Now())
	if err != nil {
		return err
	}
	if !seeded {
		return nil
	}
	return db.SetMetadata(store.MetaPortal, portal)
}

func seedAdmin(db *store.Store, email, password string) error {
	count, err := db.UserCount()
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	if password == "" {
		return fmt.Errorf("admin password is required: set --admin-password flag or WELLNESS_ADMIN_PASSWORD env var")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	_, err = db.CreateUser(model.User{
		Email:        email,
		Name:         "Administrator",
		PasswordHash: string(hash),
		Role:         model.UserRoleAdmin,
		Active:       true,
	})
	if err != nil {
		return fmt.Errorf("create admin user: %w", err)
	}

	slog.Info("seeded default admin user", "email", email)
	return nil
}

func runExport(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	db, err := store.New(v.GetString("db"))
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	export, err := db.ExportAssessments(time.Now())
	if err != nil {
		return fmt.Errorf("export assessments: %w", err)
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	return writeOutput(v.GetString("output"), data)
}

func writeOutput(outPath string, data []byte) error {
	var w io.Writer
	if outPath == "" || outPath == "-" {
		w = os.Stdout
	} else {
		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("create output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	_, _ = fmt.Fprintln(w)
	return nil
}

func runValidate(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	catalog, err := assessment.LoadCatalog(questionnaireFS(v.GetString("questionnaires")), true)
	if err != nil {
		return err
	}
	for _, d := range catalog.List() {
		fmt.Printf("%-20s %2d questions  max score %d\n", d.Kind, len(d.Questions), d.MaxScore)
	}
	return nil
}

type scoreOutput struct {
	Kind assessment.Kind `json:"kind"`
	assessment.ScoredResult
	Percentage int  `json:"percentage"`
	Complete   bool `json:"complete"`
}

func runScore(cmd *cobra.Command, _ []string) error {
	setupLogging(cmd)
	v := viperForCmd(cmd)

	catalog, err := assessment.LoadCatalog(questionnaireFS(v.GetString("questionnaires")), false)
	if err != nil {
		return fmt.Errorf("load questionnaires: %w", err)
	}
	kind := assessment.Kind(v.GetString("kind"))
	def, ok := catalog.Get(kind)
	if !ok {
		return fmt.Errorf("unknown questionnaire %q", kind)
	}

	var data []byte
	if path := v.GetString("file"); path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("read responses: %w", err)
	}
	var in struct {
		Responses []assessment.Response `json:"responses"`
	}
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parse responses: %w", err)
	}

	res, err := assessment.Evaluate(def, in.Responses)
	if err != nil {
		return err
	}
	out, err := json.MarshalIndent(scoreOutput{
		Kind:         kind,
		ScoredResult: res,
		Percentage:   res.Percentage(),
		Complete:     assessment.Complete(def, in.Responses),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	return writeOutput("-", out)
}
