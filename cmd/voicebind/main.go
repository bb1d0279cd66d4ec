// Command voicebind resolves deterministic voice assignments for agents.
//
// Given a YAML config describing a voice catalog, a binding store, and a set
// of agent identifiers, it prints one "agentID voiceID" line per agent.
// Assignments are sticky: once persisted to the configured store, later runs
// return the same voice until it leaves the catalog or is explicitly cleared.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/voicebind/voicebind/internal/config"
	"github.com/voicebind/voicebind/pkg/observe"
	"github.com/voicebind/voicebind/pkg/voice"
	"github.com/voicebind/voicebind/pkg/voice/assign"
	"github.com/voicebind/voicebind/pkg/voice/configstore"
)

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "voicebind.yaml", "path to the YAML configuration file")
	agentID := flag.String("agent", "", "resolve a single agent instead of all configured agents")
	noPersist := flag.Bool("no-persist", false, "compute selections without writing them back to the store")
	clearAgent := flag.String("clear", "", "remove the persisted binding for the given agent and exit")
	flag.Parse()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "voicebind: config file %q not found\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "voicebind: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	shutdown, err := observe.InitProvider(ctx, observe.ProviderConfig{})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			slog.Warn("telemetry shutdown", "err", err)
		}
	}()

	// ── Binding store ─────────────────────────────────────────────────────────
	store, closeStore, err := buildStore(ctx, cfg.Store)
	if err != nil {
		slog.Error("failed to build binding store", "err", err)
		return 1
	}
	defer closeStore()

	assigner, err := assign.New(assign.Config{Store: store})
	if err != nil {
		slog.Error("failed to create assigner", "err", err)
		return 1
	}

	if *clearAgent != "" {
		if err := assigner.Clear(ctx, *clearAgent); err != nil {
			slog.Error("failed to clear binding", "agent", *clearAgent, "err", err)
			return 1
		}
		slog.Info("binding cleared", "agent", *clearAgent)
		return 0
	}

	agents := cfg.Agents
	if *agentID != "" {
		agents = []string{*agentID}
	}
	if len(agents) == 0 {
		fmt.Fprintln(os.Stderr, "voicebind: no agents configured and no -agent flag given")
		return 1
	}

	catalog := voice.NewCatalog(cfg.Voices())
	slog.Info("resolving assignments",
		"config", *configPath,
		"agents", len(agents),
		"voices", catalog.Len(),
		"store", cfg.Store.Backend,
	)

	results, err := resolveAll(ctx, assigner, agents, catalog, *noPersist)
	if err != nil {
		slog.Error("failed to resolve assignments", "err", err)
		return 1
	}

	for _, r := range results {
		if r.voiceID == "" {
			fmt.Printf("%s\t<no voice available>\n", r.agentID)
			continue
		}
		line := fmt.Sprintf("%s\t%s", r.agentID, r.voiceID)
		if v, ok := catalog.ByVoiceID(r.voiceID); ok && v.Name != "" {
			line += fmt.Sprintf("\t(%s, %s)", v.Name, v.Provider)
		}
		fmt.Println(line)
	}
	return 0
}

type assignment struct {
	agentID string
	voiceID string
}

// resolveAll resolves each agent concurrently and returns results sorted by
// agent ID for stable output.
func resolveAll(ctx context.Context, assigner *assign.Assigner, agents []string, catalog *voice.Catalog, noPersist bool) ([]assignment, error) {
	voices := catalog.Voices()

	var opts []assign.SelectOption
	if noPersist {
		opts = append(opts, assign.WithoutPersist())
	}

	var mu sync.Mutex
	results := make([]assignment, 0, len(agents))

	g, ctx := errgroup.WithContext(ctx)
	for _, agentID := range agents {
		g.Go(func() error {
			voiceID, err := assigner.SelectVoice(ctx, agentID, voices, opts...)
			if err != nil {
				return err
			}
			mu.Lock()
			results = append(results, assignment{agentID: agentID, voiceID: voiceID})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].agentID < results[j].agentID })
	return results, nil
}

// buildStore constructs the binding store selected by the config. The
// returned close function releases backend resources (a no-op for the memory
// and file backends).
func buildStore(ctx context.Context, cfg config.StoreConfig) (configstore.Store, func(), error) {
	switch cfg.Backend {
	case config.StoreFile:
		fs, err := configstore.NewFileStore(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil

	case config.StorePostgres:
		pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to postgres: %w", err)
		}
		ps := configstore.NewPostgresStore(pool)
		if err := ps.Migrate(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return ps, pool.Close, nil

	case config.StoreMemory, "":
		return configstore.NewMemStore(), func() {}, nil

	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
