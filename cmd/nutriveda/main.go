// NutriVeda is a terminal recipe and nutrition assistant that keeps
// favorites, the shopping list and the profile in step with a remote store.
//
// Usage:
//
//	nutriveda [--store memory|sqlite|postgres] [--catalog file.yaml] [--verbose] [--quiet]
//	nutriveda token --user <id> --email <addr>
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/hammamikhairi/nutriveda/internal/catalog"
	"github.com/hammamikhairi/nutriveda/internal/clipboard"
	"github.com/hammamikhairi/nutriveda/internal/config"
	"github.com/hammamikhairi/nutriveda/internal/conversation"
	"github.com/hammamikhairi/nutriveda/internal/display"
	"github.com/hammamikhairi/nutriveda/internal/domain"
	"github.com/hammamikhairi/nutriveda/internal/gpt"
	"github.com/hammamikhairi/nutriveda/internal/identity"
	"github.com/hammamikhairi/nutriveda/internal/kitchen"
	"github.com/hammamikhairi/nutriveda/internal/logger"
	"github.com/hammamikhairi/nutriveda/internal/metrics"
	"github.com/hammamikhairi/nutriveda/internal/store/memory"
	"github.com/hammamikhairi/nutriveda/internal/store/postgres"
	"github.com/hammamikhairi/nutriveda/internal/store/sqlite"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cfg, loadErr := config.Load()

	cmd := &cobra.Command{
		Use:           "nutriveda",
		Short:         "NutriVeda - healthy Indian recipes, favorites and shopping list",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if loadErr != nil {
				return loadErr
			}
			return cfg.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return run(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}
	cfg.BindFlags(cmd.PersistentFlags())
	cmd.AddCommand(newTokenCommand(&cfg))
	return cmd
}

// newTokenCommand mints a signed session token for "login <token>" when a
// JWT secret is configured.
func newTokenCommand(cfg *config.Config) *cobra.Command {
	var userID, email string
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a signed session token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.JWTSecret == "" {
				return fmt.Errorf("set %s to issue tokens", config.EnvJWTSecret)
			}
			provider := identity.NewToken([]byte(cfg.JWTSecret), logger.New(logger.LevelOff, nil))
			raw, err := provider.Issue(userID, email, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), raw)
			return nil
		},
	}
	cmd.Flags().StringVar(&userID, "user", "", "user id (subject)")
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	cmd.MarkFlagRequired("user")
	return cmd
}

// run wires the dependencies and blocks in the prompt loop until the user
// quits, input ends or ctx is cancelled.
func run(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	level, err := cfg.Level()
	if err != nil {
		return err
	}

	// Direct logs to a file by default so the prompt stays clean.
	logOut, closeLog := openLog(cfg.LogFile)
	defer closeLog()

	// Third-party libraries that use the default log package go to the
	// same place.
	stdlog.SetOutput(logOut)
	stdlog.SetFlags(stdlog.Ltime)

	log := logger.New(level, logOut)

	store, closeStore, err := openStore(ctx, cfg, log.Named("store"))
	if err != nil {
		return err
	}
	defer closeStore()

	recipes, err := loadCatalog(ctx, cfg, log.Named("catalog"))
	if err != nil {
		return err
	}

	var rec metrics.Recorder = metrics.Nop{}
	if cfg.MetricsAddr != "" {
		prom := metrics.NewPrometheus(true)
		rec = prom
		stopMetrics := serveMetrics(cfg.MetricsAddr, prom.Handler(), log.Named("metrics"))
		defer stopMetrics()
	}

	printer := display.NewPrinter(out)

	app := &cliApp{
		parser: conversation.NewKeywordParser(log.Named("parser")),
		out:    printer,
		lines:  readLines(ctx.Done(), in),
		log:    log,
	}

	var provider domain.SessionProvider
	if cfg.JWTSecret != "" {
		app.tokens = identity.NewToken([]byte(cfg.JWTSecret), log.Named("identity"))
		provider = app.tokens
	} else {
		app.local = identity.NewLocal(log.Named("identity"))
		provider = app.local
	}

	opts := []kitchen.Option{
		kitchen.WithCatalog(recipes),
		kitchen.WithConfirmer(app.confirmer(ctx)),
		kitchen.WithMetrics(rec),
		kitchen.WithContext(context.WithoutCancel(ctx)),
	}

	// Build the AI recommender if GPT credentials are available.
	if cfg.AIEnabled() {
		var clientOpts []gpt.ClientOption
		if cfg.GPTModel != "" {
			clientOpts = append(clientOpts, gpt.WithModel(cfg.GPTModel), gpt.WithBearerAuth())
		}
		recipeClient := gpt.NewClient(cfg.GPTEndpoint, cfg.GPTKey, log.Named("gpt"), append(clientOpts, gpt.WithJSONMode())...)
		opts = append(opts, kitchen.WithRecommender(gpt.NewRecommender(recipeClient, log.Named("gpt"))))
		app.classifier = gpt.NewClassifier(recipeClient, log.Named("gpt"))
		log.Info("AI recommendations enabled")
	} else if !cfg.NoAI {
		log.Info("AI disabled: set %s and %s env vars to enable", config.EnvGPTKey, config.EnvGPTEndpoint)
	}

	app.clip = pickClipboard(log)

	ctl := kitchen.New(store, log.Named("kitchen"), opts...)
	defer ctl.Close()
	app.ctl = ctl

	notifier := conversation.NewSessionNotifier(log.Named("notifier"), printer.PrintHint)
	defer ctl.Subscribe(notifier.Observe)()
	defer ctl.Bind(ctx, provider)()

	printer.Print(display.RenderBanner())
	printer.Print(display.BannerStyle.Render("  Type 'help' for commands, 'quit' to exit."))
	printer.Println("")

	return app.run(ctx)
}

func openLog(path string) (io.Writer, func()) {
	if path == "" || path == "stderr" {
		return os.Stderr, func() {}
	}
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		os.MkdirAll(dir, 0o755)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not open log file %s: %v (falling back to stderr)\n", path, err)
		return os.Stderr, func() {}
	}
	return f, func() { f.Close() }
}

func openStore(ctx context.Context, cfg config.Config, log *logger.Logger) (domain.RemoteStore, func(), error) {
	switch cfg.StoreKind {
	case config.StoreMemory:
		log.Info("using in-memory store; records are lost on exit")
		return memory.NewStore(log), func() {}, nil
	case config.StoreSQLite:
		if dir := filepath.Dir(cfg.SQLitePath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("create %s: %w", dir, err)
			}
		}
		s, err := sqlite.Open(ctx, cfg.SQLitePath, log)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	case config.StorePostgres:
		s, err := postgres.Open(ctx, cfg.PostgresDSN, log)
		if err != nil {
			return nil, nil, err
		}
		return s, func() { s.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown store %q", cfg.StoreKind)
}

func loadCatalog(ctx context.Context, cfg config.Config, log *logger.Logger) ([]domain.Recipe, error) {
	switch {
	case cfg.CatalogPath != "":
		recipes, err := catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			return nil, err
		}
		log.Info("loaded %d recipes from %s", len(recipes), cfg.CatalogPath)
		return recipes, nil
	case cfg.CatalogBucket != "":
		loader, err := catalog.NewS3Loader(ctx, cfg.CatalogBucket, cfg.CatalogKey, catalog.S3Options{
			Region:   cfg.CatalogRegion,
			Endpoint: cfg.CatalogEndpoint,
		}, log)
		if err != nil {
			return nil, err
		}
		return loader.Load(ctx)
	}
	return catalog.Default(), nil
}

func serveMetrics(addr string, h http.Handler, log *logger.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", h)
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		log.Info("serving metrics on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server: %v", err)
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		srv.Shutdown(ctx)
	}
}

func pickClipboard(log *logger.Logger) domain.Clipboard {
	sys := clipboard.System{}
	if sys.Available() {
		return sys
	}
	log.Warn("no system clipboard found; 'copy' will print the list instead")
	return nil
}

// readLines feeds input lines to the returned channel until EOF or until
// done is closed. The prompt loop and the confirmer both receive from it.
func readLines(done <-chan struct{}, in io.Reader) <-chan string {
	ch := make(chan string)
	go func() {
		defer close(ch)
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case ch <- sc.Text():
			case <-done:
				return
			}
		}
	}()
	return ch
}

// confirmer asks a y/N question on the prompt's input. End of input and
// cancellation count as "no".
func (a *cliApp) confirmer(ctx context.Context) domain.Confirmer {
	return domain.ConfirmFunc(func(prompt string) bool {
		a.out.PrintChat(prompt + " [y/N]")
		select {
		case <-ctx.Done():
			return false
		case line, ok := <-a.lines:
			if !ok {
				return false
			}
			switch strings.ToLower(strings.TrimSpace(line)) {
			case "y", "yes":
				return true
			}
			return false
		}
	})
}
