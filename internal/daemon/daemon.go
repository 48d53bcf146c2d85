// Copyright 2025 Tom Barlow
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/tombee/podium/internal/config"
	"github.com/tombee/podium/internal/daemon/api"
	"github.com/tombee/podium/internal/daemon/auth"
	"github.com/tombee/podium/internal/identity"
	internallog "github.com/tombee/podium/internal/log"
	"github.com/tombee/podium/internal/secrets"
	"github.com/tombee/podium/internal/tracing"
	"github.com/tombee/podium/pkg/dynamic"
	"github.com/tombee/podium/pkg/httpclient"
)

// Options contains daemon options set at build time.
type Options struct {
	Version   string
	Commit    string
	BuildDate string
}

// Daemon is the podiumd resolution daemon. It serves the dynamic-values
// and dynamic-schema API over HTTP and rebuilds the resolution service
// when the config file changes on disk.
type Daemon struct {
	cfg      *config.Config
	cfgPath  string
	opts     Options
	logger   *slog.Logger
	server   *http.Server
	ln       net.Listener
	watcher  *fsnotify.Watcher
	provider *tracing.Provider

	// service is swapped atomically on config reload; handlers read it
	// per request through the router's provider func.
	service atomic.Pointer[dynamic.Service]

	mu      sync.Mutex
	started bool
}

// New creates a daemon from a loaded configuration. cfgPath is the file
// the configuration was loaded from; empty disables config watching.
func New(cfg *config.Config, cfgPath string, opts Options) (*Daemon, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logCfg := internallog.FromEnv()
	if cfg.Log.Level != "" {
		logCfg.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" {
		logCfg.Format = internallog.Format(cfg.Log.Format)
	}
	logger := internallog.WithComponent(internallog.New(logCfg), "daemon")

	d := &Daemon{
		cfg:     cfg,
		cfgPath: cfgPath,
		opts:    opts,
		logger:  logger,
	}

	service, err := d.buildService(context.Background(), cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to build resolution service: %w", err)
	}
	d.service.Store(service)

	return d, nil
}

// buildService assembles a resolution service from a configuration:
// secret resolution, token source, outbound client, and the allow-list.
func (d *Daemon) buildService(ctx context.Context, cfg *config.Config) (*dynamic.Service, error) {
	resolver := secrets.NewResolver()

	tokenSource, err := identity.TokenSource(ctx, cfg.Identity, resolver)
	if err != nil {
		return nil, fmt.Errorf("failed to configure identity: %w", err)
	}

	client, err := httpclient.New(httpclient.Config{
		Timeout:      cfg.HTTP.Timeout,
		UserAgent:    cfg.HTTP.UserAgent,
		TokenSource:  tokenSource,
		AllowedHosts: cfg.HTTP.AllowedHosts,
		BlockedHosts: cfg.HTTP.BlockedHosts,
		RateLimit:    cfg.HTTP.RateLimit,
		RateBurst:    cfg.HTTP.RateBurst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	supported := make([]dynamic.OperationInfo, len(cfg.Operations))
	for i, op := range cfg.Operations {
		supported[i] = dynamic.OperationInfo{
			ConnectorID: op.Connector,
			OperationID: op.Operation,
		}
	}

	return dynamic.NewService(dynamic.Config{
		APIVersion:          cfg.Designer.APIVersion,
		BaseURL:             cfg.Designer.BaseURL,
		HTTPClient:          client,
		SupportedOperations: supported,
		ValueClients:        map[string]dynamic.ValueResolver{},
		SchemaClients:       map[string]dynamic.SchemaResolver{},
		APIHub: &dynamic.APIHubDetails{
			BaseURL:    cfg.APIHub.BaseURL,
			APIVersion: cfg.APIHub.APIVersion,
		},
		ManagedIdentityAPIVersion: cfg.Designer.ManagedIdentityAPIVersion,
		Logger:                    d.logger,
	})
}

// buildAuth resolves the JWT secret and returns the router's auth
// configuration, or nil when authentication is disabled.
func (d *Daemon) buildAuth(ctx context.Context, cfg *config.Config) (*auth.JWTConfig, error) {
	if !cfg.Daemon.Auth.Enabled {
		return nil, nil
	}

	resolver := secrets.NewResolver()
	secret, err := resolver.Resolve(ctx, cfg.Daemon.Auth.JWTSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve JWT secret: %w", err)
	}

	return &auth.JWTConfig{
		Secret:   []byte(secret),
		Issuer:   cfg.Daemon.Auth.Issuer,
		Audience: cfg.Daemon.Auth.Audience,
	}, nil
}

// Start starts the daemon and blocks until the context is cancelled or
// the server fails.
func (d *Daemon) Start(ctx context.Context) error {
	d.mu.Lock()
	if d.started {
		d.mu.Unlock()
		return fmt.Errorf("daemon already started")
	}
	d.started = true
	d.mu.Unlock()

	authCfg, err := d.buildAuth(ctx, d.cfg)
	if err != nil {
		return err
	}

	router := api.NewRouter(api.RouterConfig{
		Version:   d.opts.Version,
		Commit:    d.opts.Commit,
		BuildDate: d.opts.BuildDate,
		Auth:      authCfg,
	}, d.service.Load, d.logger)

	provider, err := tracing.NewProvider(ctx, tracing.Config{
		ServiceName:    "podiumd",
		ServiceVersion: d.opts.Version,
		Exporter:       tracing.Exporter(d.cfg.Daemon.Tracing.Exporter),
		Endpoint:       d.cfg.Daemon.Tracing.Endpoint,
	})
	if err != nil {
		d.logger.Warn("failed to initialize telemetry provider",
			internallog.Error(err))
	} else {
		d.provider = provider
		router.SetMetrics(provider.Metrics())
		if d.cfg.Daemon.Metrics == nil || *d.cfg.Daemon.Metrics {
			router.SetMetricsHandler(provider.MetricsHandler())
		}
	}

	ln, err := net.Listen("tcp", d.cfg.Daemon.Listen)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", d.cfg.Daemon.Listen, err)
	}
	d.ln = ln

	d.server = &http.Server{
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	watch := d.cfg.Daemon.WatchConfig == nil || *d.cfg.Daemon.WatchConfig
	if watch && d.cfgPath != "" {
		if err := d.watchConfig(ctx); err != nil {
			d.logger.Warn("config watching unavailable",
				internallog.Error(err))
		}
	}

	d.logger.Info("podiumd starting",
		slog.String("version", d.opts.Version),
		slog.String("listen_addr", ln.Addr().String()),
		slog.Int("operations", len(d.cfg.Operations)))

	errCh := make(chan error, 1)
	go func() {
		if err := d.server.Serve(ln); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		return nil
	case err := <-errCh:
		return err
	}
}

// watchConfig watches the config file's directory and swaps in a freshly
// built service when the file changes. The directory is watched rather
// than the file because saves go through a temp-file rename, which
// replaces the watched inode.
func (d *Daemon) watchConfig(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(d.cfgPath)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}
	d.watcher = watcher

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if filepath.Clean(event.Name) != filepath.Clean(d.cfgPath) {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				d.reload(ctx)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				d.logger.Warn("config watcher error", internallog.Error(err))
			}
		}
	}()

	d.logger.Info("watching config file", slog.String("path", d.cfgPath))
	return nil
}

// reload rebuilds the resolution service from the config file and swaps
// it in. A config that fails to load or validate leaves the running
// service untouched.
func (d *Daemon) reload(ctx context.Context) {
	cfg, err := config.Load(d.cfgPath)
	if err != nil {
		d.logger.Error("config reload failed, keeping current service",
			internallog.Error(err))
		return
	}
	if err := cfg.Validate(); err != nil {
		d.logger.Error("reloaded config is invalid, keeping current service",
			internallog.Error(err))
		return
	}

	service, err := d.buildService(ctx, cfg)
	if err != nil {
		d.logger.Error("service rebuild failed, keeping current service",
			internallog.Error(err))
		return
	}

	d.service.Store(service)
	d.logger.Info("config reloaded",
		slog.Int("operations", len(cfg.Operations)))
}

// Shutdown gracefully shuts down the daemon.
func (d *Daemon) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return nil
	}

	d.logger.Info("graceful shutdown initiated")

	if d.watcher != nil {
		if err := d.watcher.Close(); err != nil {
			d.logger.Warn("config watcher close error", internallog.Error(err))
		}
	}

	if d.server != nil {
		d.server.SetKeepAlivesEnabled(false)

		shutdownCtx, cancel := context.WithTimeout(ctx, d.cfg.Daemon.ShutdownTimeout)
		defer cancel()
		if err := d.server.Shutdown(shutdownCtx); err != nil {
			d.logger.Error("HTTP server shutdown error", internallog.Error(err))
		}
	}

	if d.provider != nil {
		shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := d.provider.Shutdown(shutdownCtx); err != nil {
			d.logger.Error("telemetry shutdown error", internallog.Error(err))
		}
	}

	d.started = false
	d.logger.Info("daemon stopped")
	return nil
}
