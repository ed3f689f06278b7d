package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"github.com/fuzzwell/fuzzwell/pkg/chart"
	"github.com/fuzzwell/fuzzwell/pkg/wellness"
	"github.com/fuzzwell/fuzzwell/pkg/wellnessrpc"
	"github.com/fuzzwell/fuzzwell/server/internal/api"
	"github.com/fuzzwell/fuzzwell/server/internal/auth"
	"github.com/fuzzwell/fuzzwell/server/internal/config"
	"github.com/fuzzwell/fuzzwell/server/internal/metrics"
	"github.com/fuzzwell/fuzzwell/server/internal/rpc"
	"github.com/fuzzwell/fuzzwell/server/internal/store"
	"github.com/fuzzwell/fuzzwell/server/internal/ui"
	"github.com/fuzzwell/fuzzwell/server/internal/ws"
)

func main() {
	configPath := flag.String("config", "", "path to config file; empty runs on defaults")
	flag.Parse()

	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	slog.Info("fuzzwell-server starting", "config", *configPath)

	cfg := config.Defaults()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			slog.Error("failed to load config", "err", err)
			os.Exit(1)
		}
	}
	level.Set(cfg.Server.Level())

	slog.Info("config loaded",
		"grpc_port", cfg.Server.GRPCPort,
		"http_port", cfg.Server.HTTPPort,
		"auth_mode", cfg.Server.Auth.Mode,
		"no_rule_fired", cfg.Server.Inference.NoRuleFired,
		"history_ttl", cfg.Server.History.TTL,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Rule base, built once and shared read-only by every surface.
	sys, err := wellness.BuildDefaultSystem()
	if err != nil {
		slog.Error("failed to build wellness system", "err", err)
		os.Exit(1)
	}

	advisor, err := cfg.Server.Advisor()
	if err != nil {
		slog.Error("invalid recommendations", "err", err)
		os.Exit(1)
	}
	seed := cfg.Server.Sampling.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	eval, err := wellness.NewEvaluator(sys, wellness.Options{
		Advisor: advisor,
		Policy:  cfg.Server.Policy(),
		Sampler: wellness.NewSampler(rand.New(rand.NewSource(seed))),
	})
	if err != nil {
		slog.Error("failed to create evaluator", "err", err)
		os.Exit(1)
	}

	// Every surface runs through the instrumented evaluator so /metrics
	// counts all evaluations.
	reg := metrics.New()
	runner := metrics.Instrument(eval, reg)

	hub := ws.New(runner)
	go hub.Run(ctx)

	var history *store.Store
	if ttl := cfg.Server.History.TTL; ttl > 0 {
		if cfg.Server.Auth.Mode != auth.ModeAPIKey {
			slog.Warn("history enabled without auth: any client can list evaluations", "ttl", ttl)
		}
		history = store.New(ttl)
		runner.Subscribe(history.Put)
		go history.Run(ctx)
	}

	// Hot reload of log level, policy and recommendations.
	if *configPath != "" {
		go func() {
			err := config.Watch(ctx, *configPath, func(c *config.Config) {
				adv, err := c.Server.Advisor()
				if err != nil {
					slog.Warn("config: reload skipped", "err", err)
					return
				}
				level.Set(c.Server.Level())
				eval.SetPolicy(c.Server.Policy())
				eval.SetAdvisor(adv)
				slog.Info("config: reloaded",
					"log_level", c.Server.LogLevel,
					"no_rule_fired", c.Server.Inference.NoRuleFired,
					"recommendations", len(adv.Rules()),
				)
			})
			if err != nil {
				slog.Error("config watcher stopped", "err", err)
			}
		}()
	}

	// gRPC server with optional API key authentication interceptor.
	authCfg := cfg.Server.Auth
	interceptor := auth.APIKeyInterceptor(authCfg.Mode, authCfg.EffectiveHeader(), authCfg.Key())
	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(interceptor))
	wellnessrpc.RegisterWellnessServer(grpcSrv, rpc.New(runner))

	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.Server.GRPCPort))
	if err != nil {
		slog.Error("failed to listen on gRPC port",
			"port", cfg.Server.GRPCPort, "err", err)
		os.Exit(1)
	}

	go func() {
		slog.Info("gRPC service listening", "port", cfg.Server.GRPCPort)
		if err := grpcSrv.Serve(lis); err != nil {
			slog.Error("gRPC server stopped", "err", err)
		}
	}()

	plots := cfg.Server.Plots
	apiHandler, err := api.New(api.Options{
		System:        sys,
		Runner:        runner,
		PlotCacheSize: plots.CacheSize,
		PlotSize:      chart.Size{WidthIn: plots.WidthIn, HeightIn: plots.HeightIn, DPI: plots.DPI},
		History:       history,
	})
	if err != nil {
		slog.Error("failed to create API handler", "err", err)
		os.Exit(1)
	}

	httpSrv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.HTTPPort),
		Handler:           routes(authCfg, apiHandler, reg, hub, ui.New(runner)),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("HTTP server listening", "port", cfg.Server.HTTPPort)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("HTTP server stopped", "err", err)
		}
	}()

	<-ctx.Done()
	slog.Info("fuzzwell-server shutting down")
	grpcSrv.GracefulStop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	httpSrv.Shutdown(shutdownCtx) //nolint:errcheck
}

// routes is the combined HTTP surface: REST API, form, metrics and WebSocket
// on one port. In apikey mode the key guards /api/ and /ws/.
func routes(authCfg config.AuthConfig, apiHandler, metricsHandler, wsHandler, form http.Handler) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/api/", apiHandler)
	mux.Handle("/metrics", metricsHandler)
	mux.Handle("/ws/evaluate", wsHandler)
	mux.Handle("/", form)
	return auth.RequireAPIKey(authCfg.Mode, authCfg.EffectiveHeader(), authCfg.Key(), mux, "/api/", "/ws/")
}
