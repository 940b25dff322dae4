// Command asr-gateway serves POST /api/v1/audio/transcribe, validating
// uploads and forwarding them to the configured ASR runtime.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/kbukum/asrgateway/bootstrap"
	"github.com/kbukum/asrgateway/gateway"
	"github.com/kbukum/asrgateway/logger"
	"github.com/kbukum/asrgateway/observability"
	"github.com/kbukum/asrgateway/server"
	"github.com/kbukum/asrgateway/transcription/asrruntime"
	"github.com/kbukum/asrgateway/transcription/mockasr"
	"github.com/kbukum/asrgateway/util"
)

func main() {
	configFile := flag.String("config", "", "path to config file (default: search cmd/asr-gateway/config.yml and friends)")
	envFile := flag.String("env", "", "path to .env file")
	flag.Parse()

	cfg, err := loadConfig(*configFile, *envFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	app, _, err := newApp(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize %s: %v\n", serviceName, err)
		os.Exit(1)
	}

	if err := app.Run(context.Background()); err != nil {
		app.Logger.Error("Service stopped with error", logger.Fields(logger.FieldError, err.Error()))
		os.Exit(1)
	}
}

// newApp wires every component. The returned server is not started.
func newApp(cfg *AppConfig, opts ...bootstrap.Option) (*bootstrap.App[*AppConfig], *server.Server, error) {
	app, err := bootstrap.NewApp(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	log := app.Logger

	obs := observability.NewComponent(cfg.Observability, app.Name, app.Version, cfg.Environment)
	if err := app.RegisterComponent(obs); err != nil {
		return nil, nil, err
	}

	asr, err := asrruntime.New(cfg.AI.Runtime)
	if err != nil {
		return nil, nil, err
	}
	if err := app.RegisterComponent(asrruntime.NewComponent(asr)); err != nil {
		return nil, nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// Instruments bind to the global meter provider once observability starts.
	opMetrics, err := observability.NewMetrics(observability.Meter(app.Name))
	if err != nil {
		return nil, nil, err
	}

	rules := cfg.UploadRules()
	gw := gateway.New(rules, asr,
		gateway.WithServiceName(app.Name),
		gateway.WithLogger(log),
		gateway.WithMetrics(gateway.NewMetrics(registry)),
		gateway.WithOperationMetrics(opMetrics),
	)

	srv := server.New(cfg.Server, log)
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints(app.Name, app.Components.HealthAll, registry)
	gateway.NewHandler(gw).Register(srv.GinEngine())
	if cfg.App.Mock.Enabled {
		mockasr.New().Register(srv.GinEngine())
		log.Warn("Mock ASR routes enabled", logger.Fields("path", mockasr.BasePath))
	}
	if err := app.RegisterComponent(server.NewComponent(srv)); err != nil {
		return nil, nil, err
	}

	apiKey := "<open>"
	if !rules.OpenMode() {
		apiKey = util.MaskSecret(rules.APIKey, 2)
	}
	log.Info("Gateway configured", logger.Fields(
		"max_bytes", rules.MaxBytes,
		"allowed_types", rules.AllowedContentTypes,
		"api_key", apiKey,
		"asr_base_url", cfg.AI.Runtime.BaseURL,
		"max_body_size", cfg.Server.MaxBodySize,
	))

	return app, srv, nil
}
