package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"symtab/internal/core/config"
	"symtab/internal/core/watcher"
	"symtab/internal/data/queue"
	"symtab/internal/data/symbols"
	"symtab/internal/engine/builtin"
	"symtab/internal/engine/codebase"
	"symtab/internal/engine/fqsen"
	"symtab/internal/shared/observability"
)

const (
	watchDebounce       = 250 * time.Millisecond
	exportQueueCapacity = 4
)

func Run(args []string) int {
	return run(args, os.Stdout, os.Stderr)
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseOptions(args, stderr)
	if err != nil {
		return 2
	}

	if opts.version {
		fmt.Fprintf(stdout, "symtab v%s\n", versionString)
		return 0
	}

	configureLogging(opts.verbose, stderr)

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return 1
	}
	config.ApplyEnvOverrides(cfg)
	if errs := config.Validate(cfg); len(errs) > 0 {
		for _, e := range errs {
			slog.Error("invalid config", "error", e)
		}
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if endpoint := cfg.Observability.OTLPEndpoint; endpoint != "" {
		shutdown, err := observability.InitTracing(ctx, endpoint, cfg.Observability.ServiceName)
		if err != nil {
			slog.Warn("tracing disabled", "endpoint", endpoint, "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(shutdownCtx)
			}()
		}
	}

	cb, err := buildCodeBase(ctx, cfg)
	if err != nil {
		slog.Error("failed to build code base", "error", err)
		return 1
	}

	code := answerQueries(cb, opts, stdout, stderr)

	var store *symbols.SQLiteStore
	if opts.export || cfg.Export.Enabled {
		store, err = symbols.Open(cfg.Export.Path, symbols.Options{
			ProjectKey:  cfg.Export.ProjectKey,
			BusyTimeout: cfg.Export.BusyTimeout,
		})
		if err != nil {
			slog.Error("failed to open symbol inventory", "error", err)
			return 1
		}
		defer store.Close()

		if err := cb.Export(ctx, store); err != nil {
			slog.Error("export failed", "error", err)
			return 1
		}
		slog.Info("exported symbol inventory", "path", cfg.Export.Path, "elements", cb.TotalElementCount())
	}

	if !opts.longRunning() {
		if !opts.hasQuery() && !opts.export && !cfg.Export.Enabled {
			describeSummary(stdout, cb.Summary())
		}
		return code
	}

	s := newSession(cb)
	if store != nil {
		exports := queue.NewMemoryQueue(exportQueueCapacity)
		worker := queue.NewExportWorker(exports, store, 0, 0)
		worker.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := worker.Stop(stopCtx); err != nil {
				slog.Warn("export worker did not drain", "error", err)
			}
		}()
		s.exportTo(exports, worker)
	}

	if err := serve(ctx, cfg, opts, s); err != nil {
		slog.Error("serve failed", "error", err)
		return 1
	}
	return code
}

// buildCodeBase seeds a table from the configured catalog, then declares the
// catalog constants and every stub file.
func buildCodeBase(ctx context.Context, cfg *config.Config) (*codebase.CodeBase, error) {
	catalog, err := builtin.LoadCatalog(cfg.Builtins.Catalog, builtin.WithExclude(cfg.Builtins.Exclude))
	if err != nil {
		return nil, err
	}

	cb := codebase.New(ctx, catalog,
		codebase.WithDeadCodeDetection(cfg.Analysis.DeadCodeDetection),
		codebase.WithHydrateOnLookup(cfg.Analysis.HydrateOnLookupEnabled()),
		codebase.WithSignatureSource(catalog),
		codebase.WithLogger(slog.Default()),
	)
	for _, c := range catalog.Constants() {
		cb.AddGlobalConstant(c)
	}

	if len(cfg.Builtins.Stubs) > 0 {
		n, err := builtin.LoadStubs(ctx, cb, cfg.Builtins.Stubs)
		if err != nil {
			return nil, err
		}
		slog.Debug("loaded stubs", "files", len(cfg.Builtins.Stubs), "declarations", n)
	}

	cb.ReportMetrics()
	slog.Debug("code base ready", "table_id", cb.ID().String(), "elements", cb.TotalElementCount(), "catalog", catalog.Source())
	return cb, nil
}

// answerQueries prints every requested lookup. Any failed lookup makes the
// exit code 1; the remaining queries still run.
func answerQueries(cb *codebase.CodeBase, opts cliOptions, stdout, stderr io.Writer) int {
	code := 0
	fail := func(query string, err error) {
		fmt.Fprintf(stderr, "%s: %v\n", query, err)
		code = 1
	}

	if opts.function != "" {
		fq, err := fqsen.ParseFunction(opts.function)
		if err == nil {
			f, lookupErr := cb.GetFunctionByFQSEN(fq)
			if err = lookupErr; err == nil {
				describeFunction(stdout, f)
			}
		}
		if err != nil {
			fail(opts.function, err)
		}
	}

	if opts.class != "" {
		fq, err := fqsen.ParseClass(opts.class)
		if err == nil {
			c, lookupErr := cb.GetClassByFQSEN(fq)
			if err = lookupErr; err == nil {
				describeClass(stdout, c, cb.ClassMapFor(fq))
			}
		}
		if err != nil {
			fail(opts.class, err)
		}
	}

	if opts.method != "" {
		fq, err := fqsen.ParseMethod(opts.method)
		if err == nil {
			hydrateOwner(cb, fq.Class)
			m, lookupErr := cb.GetMethodByFQSEN(fq)
			if err = lookupErr; err == nil {
				describeMethod(stdout, m)
			}
		}
		if err != nil {
			fail(opts.method, err)
		}
	}

	if opts.property != "" {
		fq, err := fqsen.ParseProperty(opts.property)
		if err == nil {
			hydrateOwner(cb, fq.Class)
			p, lookupErr := cb.GetPropertyByFQSEN(fq)
			if err = lookupErr; err == nil {
				describeProperty(stdout, p)
			}
		}
		if err != nil {
			fail(opts.property, err)
		}
	}

	if opts.constant != "" {
		if err := describeConstant(cb, opts.constant, stdout); err != nil {
			fail(opts.constant, err)
		}
	}

	if opts.methodsNamed != "" {
		methods, err := cb.MethodSetByName(opts.methodsNamed)
		if err != nil {
			fail(opts.methodsNamed, err)
		}
		for _, m := range methods {
			describeMethod(stdout, m)
		}
	}

	if opts.file != "" {
		describeFQSENs(stdout, cb.DependencyListForFile(opts.file))
	}

	if opts.stats {
		describeSummary(stdout, cb.Summary())
	}
	return code
}

func describeConstant(cb *codebase.CodeBase, query string, w io.Writer) error {
	if strings.Contains(query, "::") {
		fq, err := fqsen.ParseClassConstant(query)
		if err != nil {
			return err
		}
		hydrateOwner(cb, fq.Class)
		c, err := cb.GetClassConstantByFQSEN(fq)
		if err != nil {
			return err
		}
		describeClassConstant(w, c)
		return nil
	}

	fq, err := fqsen.ParseGlobalConstant(query)
	if err != nil {
		return err
	}
	c, err := cb.GetGlobalConstantByFQSEN(fq)
	if err != nil {
		return err
	}
	describeGlobalConstant(w, c)
	return nil
}

// hydrateOwner makes inherited members visible before a member lookup.
// Member lookups never hydrate on their own.
func hydrateOwner(cb *codebase.CodeBase, class fqsen.Class) {
	if !cb.HydrateOnLookup() || !cb.HasClassWithFQSEN(class) {
		return
	}
	if err := cb.HydrateClass(class); err != nil {
		slog.Warn("hydration failed", "class", class.String(), "error", err)
	}
}

// serve blocks until ctx is cancelled, running the observability server
// and the stub watcher as requested.
func serve(ctx context.Context, cfg *config.Config, opts cliOptions, s *session) error {
	if opts.serve {
		addr := cfg.Observability.MetricsAddress
		if addr == "" {
			addr = defaultMetricsAddress
		}
		srv := NewObservabilityServer(addr, s.health)
		if err := srv.Start(ctx); err != nil {
			return err
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Stop(stopCtx)
		}()
	}

	if opts.watch {
		if len(cfg.Builtins.Stubs) == 0 {
			slog.Warn("watch requested but no stub files are configured")
		} else {
			w, err := watcher.NewWatcher(watchDebounce, cfg.Builtins.Stubs, func(paths []string) {
				s.reloadStubs(ctx, paths)
			})
			if err != nil {
				return err
			}
			defer w.Close()
			if err := w.Watch(); err != nil {
				return err
			}
			slog.Info("watching stubs", "files", len(cfg.Builtins.Stubs))
		}
	}

	<-ctx.Done()
	slog.Info("shutting down")
	return nil
}

func configureLogging(verbose bool, w io.Writer) {
	logLevel := slog.LevelInfo
	if verbose {
		logLevel = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(logger)
}

// loadConfig falls back to the built-in defaults only when the default path
// is missing; an explicit path must exist.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if path == defaultConfigPath && errors.Is(err, fs.ErrNotExist) {
		slog.Debug("no config file, using defaults", "path", path)
		return config.Default(), nil
	}
	return nil, err
}
