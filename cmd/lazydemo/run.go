package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/jonwraymond/lazyops/config"
	"github.com/jonwraymond/lazyops/facet"
	"github.com/jonwraymond/lazyops/guard"
	"github.com/jonwraymond/lazyops/health"
	"github.com/jonwraymond/lazyops/internal/userdir"
	"github.com/jonwraymond/lazyops/loaders/pgloader"
	"github.com/jonwraymond/lazyops/loaders/redisloader"
	"github.com/jonwraymond/lazyops/observe"
	"github.com/jonwraymond/lazyops/pool"
)

type demoOptions struct {
	first   string
	last    string
	latency time.Duration
	repeat  int
}

func run(ctx context.Context, out io.Writer, opts demoOptions) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	cfg.Observe.Attributes = map[string]string{"lazyops.backend": cfg.Backend}
	cfg.Observe.Global = true
	obs, err := observe.NewObserver(ctx, cfg.Observe)
	if err != nil {
		return fmt.Errorf("observe: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = obs.Shutdown(shutdownCtx)
	}()

	tel, err := observe.NewTelemetry(obs)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	log := obs.Logger()

	breaker := guard.NewBreaker(guard.BreakerConfig{
		MaxFailures: cfg.Guard.BreakerFailures,
		OnStateChange: func(from, to guard.BreakerState) {
			log.Warn(context.Background(), "breaker state changed",
				observe.Field{Key: "from", Value: from.String()},
				observe.Field{Key: "to", Value: to.String()},
			)
		},
	})
	chain := guard.NewChain(
		guard.WithLimiter(guard.NewLimiter(guard.LimiterConfig{MaxConcurrent: 8, MaxWait: cfg.Guard.Deadline})),
		guard.WithBreaker(breaker),
		guard.WithRetry(guard.NewRetry(guard.RetryConfig{MaxAttempts: cfg.Guard.Attempts, Jitter: true})),
		guard.WithDeadline(cfg.Guard.Deadline),
	)
	chains := guard.LoaderChains{Construct: chain, Load: chain}

	regOpts := []facet.RegistryOption{
		facet.WithHandleOptions(facet.WithRecorder(tel)),
		facet.WithPoolOptions(
			pool.WithName("users"),
			pool.WithRecorder(tel),
			pool.WithPolicy(pool.Policy{TTL: cfg.Pool.TTL}),
		),
	}

	name := userdir.Name{First: opts.first, Last: opts.last}
	checks := health.NewAggregator(health.AggregatorConfig{Logger: log})
	checks.Register("breaker", health.NewBreakerChecker("breaker", breaker))

	log.Info(ctx, "starting demo",
		observe.Field{Key: "backend", Value: cfg.Backend},
		observe.Field{Key: "user", Value: name.String()},
	)

	switch cfg.Backend {
	case config.BackendPostgres:
		db, err := pgxpool.New(ctx, cfg.Postgres.DSN)
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer db.Close()

		loader := pgloader.New(pgloader.Config[userdir.Name]{
			Connect: pgloader.Shared(db),
			Args:    func(n userdir.Name) []any { return []any{n.First, n.Last} },
			Queries: map[string]pgloader.Query{
				userdir.FacetProfile: {
					SQL: "SELECT cpf, rg FROM users WHERE first_name = $1 AND last_name = $2",
					One: true,
				},
				userdir.FacetAddresses: {
					SQL: "SELECT a.street AS rua, a.number AS numero FROM addresses a " +
						"JOIN users u ON u.id = a.user_id WHERE u.first_name = $1 AND u.last_name = $2",
				},
			},
		})
		reg := facet.NewRegistry(guard.WrapLoader[userdir.Name, *pgloader.Session](loader, chains), regOpts...)
		if err := showFacets(ctx, out, reg, name, opts.repeat, checks); err != nil {
			return err
		}

	case config.BackendRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()

		loader := redisloader.New(redisloader.Config[userdir.Name]{
			Client: client,
			Prefix: cfg.Redis.Prefix,
			Key: func(n userdir.Name) string {
				return strings.ToLower(n.First + "." + n.Last)
			},
			Facets: map[string]redisloader.Kind{
				userdir.FacetProfile:   redisloader.KindHash,
				userdir.FacetAddresses: redisloader.KindJSON,
			},
		})
		reg := facet.NewRegistry(guard.WrapLoader[userdir.Name, *redisloader.Session](loader, chains), regOpts...)
		if err := showFacets(ctx, out, reg, name, opts.repeat, checks); err != nil {
			return err
		}

	default:
		dir := userdir.NewDirectory(opts.latency)
		reg := facet.NewRegistry(guard.WrapLoader[userdir.Name, *userdir.Record](dir, chains), regOpts...)
		if err := showFacets(ctx, out, reg, name, opts.repeat, checks); err != nil {
			return err
		}
	}

	book := userdir.NewAddresses(pool.WithRecorder(tel), pool.WithPolicy(pool.Policy{TTL: cfg.Pool.TTL}))
	if err := showAddresses(ctx, out, book); err != nil {
		return err
	}
	checks.Register("addresses", health.NewPoolChecker("addresses", book, health.PoolThresholds{Warn: 1000}))

	results := checks.CheckAll(ctx)
	for _, n := range checks.Names() {
		r := results[n]
		fmt.Fprintf(out, "health %-10s %-9s %s\n", n, r.Status, r.Message)
	}
	log.Info(ctx, "demo finished", observe.Field{Key: "health", Value: health.Overall(results).String()})
	return nil
}

// showFacets reads the profile, repeats it from cache, then reads the
// addresses, printing how long each step took.
func showFacets[R any](ctx context.Context, out io.Writer, reg *facet.Registry[userdir.Name, R], name userdir.Name, repeat int, checks *health.Aggregator) error {
	h, err := reg.Handle(ctx, name)
	if err != nil {
		return err
	}
	checks.Register("user", health.NewHandleChecker("user", h, health.HandleCheck{RequireMaterialized: true}))

	fmt.Fprintf(out, "user %s (materialized: %t)\n", name, h.IsMaterialized())

	if err := timed(out, "profile", func() (any, error) { return h.Get(ctx, userdir.FacetProfile) }); err != nil {
		return err
	}
	for range repeat {
		if err := timed(out, "profile (cached)", func() (any, error) { return h.Get(ctx, userdir.FacetProfile) }); err != nil {
			return err
		}
	}
	return timed(out, "addresses", func() (any, error) { return h.Get(ctx, userdir.FacetAddresses) })
}

func showAddresses(ctx context.Context, out io.Writer, book *userdir.Addresses) error {
	key := userdir.AddressKey{Street: "Av. Brasil", Neighborhood: "Centro", Zip: "11111-111"}

	a1, err := book.Get(ctx, key)
	if err != nil {
		return err
	}
	a2, err := book.Get(ctx, key)
	if err != nil {
		return err
	}

	gabriel := userdir.NewClient("Gabriel")
	gabriel.AddAddress(a1, "50", "Casa")
	joana := userdir.NewClient("Joana")
	joana.AddAddress(a2, "250A", "AP 555")

	for _, c := range []*userdir.Client{gabriel, joana} {
		for _, line := range c.Addresses() {
			fmt.Fprintf(out, "%s: %s\n", c.Name, line)
		}
	}
	fmt.Fprintf(out, "shared address: %t, distinct addresses: %d\n", a1 == a2, book.Size())
	return nil
}

func timed(out io.Writer, label string, fn func() (any, error)) error {
	start := time.Now()
	v, err := fn()
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	fmt.Fprintf(out, "%-18s %-10s %v\n", label, time.Since(start).Round(time.Millisecond), v)
	return nil
}
