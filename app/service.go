package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/kilianp07/blendplan/api/plans"
	"github.com/kilianp07/blendplan/config"
	"github.com/kilianp07/blendplan/core/events"
	coremetrics "github.com/kilianp07/blendplan/core/metrics"
	coremon "github.com/kilianp07/blendplan/core/monitoring"
	coremqtt "github.com/kilianp07/blendplan/core/mqtt"
	"github.com/kilianp07/blendplan/core/planner"
	"github.com/kilianp07/blendplan/core/runlog"
	"github.com/kilianp07/blendplan/infra/logger"
	"github.com/kilianp07/blendplan/infra/metrics"
	"github.com/kilianp07/blendplan/infra/monitoring"
	"github.com/kilianp07/blendplan/infra/mqtt"
	"github.com/kilianp07/blendplan/internal/eventbus"
)

// newPublisher is replaced in tests to avoid a broker.
var newPublisher = func(cfg mqtt.Config) (coremqtt.Publisher, error) {
	pub, err := mqtt.NewPlanPublisher(cfg)
	if err != nil {
		return nil, err
	}
	return pub, nil
}

// Service wires the planner to its run log, metrics, MQTT publication and
// HTTP API.
type Service struct {
	Planner *planner.Planner

	cfg       *config.Config
	store     runlog.Store
	sink      coremetrics.MetricsSink
	bus       *eventbus.TypedBus[events.PlanEvent]
	publisher coremqtt.Publisher
	handler   http.Handler
	log       logger.Logger

	mu   sync.Mutex
	addr string
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logger.Configure(cfg.Logging.Level, cfg.Logging.Format)
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	store, err := runlog.Open(cfg.RunLog)
	if err != nil {
		return nil, fmt.Errorf("run log: %w", err)
	}
	bus := eventbus.NewTyped[events.PlanEvent]()
	p, err := planner.FromConfig(cfg.Solver, sink, bus, logger.New("planner"))
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("planner: %w", err)
	}
	p.SetRunStore(store)

	svc := &Service{
		Planner: p,
		cfg:     cfg,
		store:   store,
		sink:    sink,
		bus:     bus,
		log:     logg,
	}
	if cfg.MQTT.Enabled {
		pub, err := newPublisher(cfg.MQTT)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.publisher = pub
	}

	mux := http.NewServeMux()
	plans.Register(mux, p, store, cfg.API.Token, cfg.API.MaxBodyBytes)
	mux.Handle("/metrics", metrics.Handler(nil))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	svc.handler = mux
	return svc, nil
}

// Handler returns the HTTP handler serving the API, /metrics and /healthz.
func (s *Service) Handler() http.Handler { return s.handler }

// Addr returns the address the API listens on once Run has started.
func (s *Service) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addr
}

// Run serves the API and forwards plans to MQTT until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	fwdDone := mqtt.StartPlanForwarder(ctx, s.bus, s.publisher, logger.New("plan_forwarder"))
	defer func() {
		cancel()
		<-fwdDone
	}()

	if port := s.cfg.Metrics.PrometheusPort; port != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, port); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}

	ln, err := net.Listen("tcp", s.cfg.API.Address)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.API.Address, err)
	}
	s.mu.Lock()
	s.addr = ln.Addr().String()
	s.mu.Unlock()

	srv := &http.Server{Handler: s.handler, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		defer coremon.Recover()
		s.log.Infof("serving API on %s", ln.Addr())
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
	shutdownCtx, stop := context.WithTimeout(context.Background(), s.cfg.API.ShutdownTimeout)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.log.Errorf("api shutdown: %v", err)
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.bus.Close()
	if d, ok := s.publisher.(interface{ Disconnect() }); ok {
		d.Disconnect()
	}
	if c, ok := s.sink.(interface{ Close() }); ok {
		c.Close()
	}
	coremon.Flush(2 * time.Second)
	return s.store.Close()
}
