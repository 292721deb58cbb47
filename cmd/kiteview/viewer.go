package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"

	"github.com/phanxgames/kite"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

//go:embed assets/*.svg
var embedded embed.FS

type viewerOptions struct {
	configPath  string
	assetsDir   string
	sprites     []string
	scriptPath  string
	metricsAddr string
	logLevel    slog.Level
	debug       bool
}

func viewerOptionsFromFlags(cmd *cobra.Command) (viewerOptions, error) {
	var o viewerOptions
	o.configPath, _ = cmd.Flags().GetString("config")
	o.assetsDir, _ = cmd.Flags().GetString("assets")
	o.sprites, _ = cmd.Flags().GetStringSlice("sprite")
	o.scriptPath, _ = cmd.Flags().GetString("script")
	o.metricsAddr, _ = cmd.Flags().GetString("metrics-addr")
	o.debug, _ = cmd.Flags().GetBool("debug")

	level, _ := cmd.Flags().GetString("log-level")
	if err := o.logLevel.UnmarshalText([]byte(level)); err != nil {
		return o, fmt.Errorf("--log-level: %w", err)
	}
	if len(o.sprites) == 0 {
		return o, errors.New("--sprite: at least one sprite is required")
	}
	return o, nil
}

func (o viewerOptions) config() (kite.Config, error) {
	if o.configPath == "" {
		return kite.DefaultConfig(), nil
	}
	return kite.LoadConfig(o.configPath)
}

func (o viewerOptions) assets() (fs.FS, error) {
	if o.assetsDir != "" {
		return os.DirFS(o.assetsDir), nil
	}
	return fs.Sub(embedded, "assets")
}

func runViewer(ctx context.Context, o viewerOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}
	kite.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: o.logLevel})))

	cfg, err := o.config()
	if err != nil {
		return err
	}
	assets, err := o.assets()
	if err != nil {
		return fmt.Errorf("assets: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	metrics := kite.NewMetrics(reg)
	if o.metricsAddr != "" {
		go serveMetrics(o.metricsAddr, reg)
	}

	cache := kite.NewTextureCache(kite.FSFetcher{FS: assets}, kite.SVGDecoder{Scale: 1.5}, metrics)
	sprites := newPicker(o.sprites)
	subject := newShip(ctx, cache)

	engineOpts := []kite.Option{kite.WithMetrics(metrics)}
	var runner *kite.TestRunner
	if o.scriptPath != "" {
		data, err := os.ReadFile(o.scriptPath)
		if err != nil {
			return fmt.Errorf("--script: %w", err)
		}
		if runner, err = kite.LoadTestScript(data); err != nil {
			return fmt.Errorf("--script: %w", err)
		}
		engineOpts = append(engineOpts, kite.WithExitAfterScript())
	}

	engine := kite.NewEngine(cfg, subject, engineOpts...)
	engine.SetDebugMode(o.debug)
	if runner != nil {
		engine.SetTestRunner(runner)
	}
	subject.bind(engine, engine.Input(), sprites)
	engine.OnKeyPress("Tab", func(string) { sprites.Next() })
	engine.OnKeyPress("F3", func(string) { engine.SetDebugMode(!engine.DebugMode()) })
	engine.OnKeyPress("F12", func(string) { engine.Screenshot("manual") })

	return engine.Run()
}

func serveMetrics(addr string, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	kite.Logger().Info("serving metrics", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		kite.Logger().Warn("metrics server stopped", "addr", addr, "err", err)
	}
}
