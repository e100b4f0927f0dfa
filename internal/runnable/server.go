package runnable

import (
	"boxdiff/internal/env"
	"boxdiff/internal/myhttp"
	"boxdiff/internal/pipeline"
	"boxdiff/internal/resize"
	"boxdiff/internal/routes"
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	pyroscopepprof "github.com/grafana/pyroscope-go/http/pprof"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otelprometheus "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"golang.org/x/net/netutil"
	"golang.org/x/xerrors"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
)

const applicationName = "boxdiff"

type Server struct {
	address                string
	terminationGracePeriod time.Duration
	lameduck               time.Duration
	keepAlive              bool
	maxConnections         int

	pipeline      *pipeline.Pipeline
	resizer       *resize.Service
	dynamicClient dynamic.Interface
	clientset     kubernetes.Interface
}

type Option func(*Server)

// WithKubernetes mounts the BoxDiff resource routes and the worker callback.
func WithKubernetes(dynamicClient dynamic.Interface, clientset kubernetes.Interface) Option {
	return func(s *Server) {
		s.dynamicClient = dynamicClient
		s.clientset = clientset
	}
}

// WithDefaultAddress changes the listen address used when ADDRESS is unset.
func WithDefaultAddress(address string) Option {
	return func(s *Server) {
		s.address = env.OrDefault("ADDRESS", address)
	}
}

func NewServer(p *pipeline.Pipeline, opts ...Option) *Server {
	s := &Server{
		address:                env.OrDefault("ADDRESS", "0.0.0.0:8082"),
		terminationGracePeriod: env.OrDefault("TERMINATION_GRACE_PERIOD", 10*time.Second),
		lameduck:               env.OrDefault("LAMEDUCK", 1*time.Second),
		keepAlive:              env.OrDefault("HTTP_KEEPALIVE", true),
		maxConnections:         env.OrDefault("MAX_CONNECTIONS", 65532),
		pipeline:               p,
		resizer:                &resize.Service{Loader: p.Loader, Storage: p.Storage},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var Debug = false

func NewLogger() (*slog.Logger, error) {
	logLevel := slog.LevelInfo
	if v, ok := os.LookupEnv("GO_LOG"); ok {
		if err := logLevel.UnmarshalText([]byte(v)); err != nil {
			return nil, xerrors.Errorf("failed to parse log level: %w", err)
		}
	}
	handlerOpts := &slog.HandlerOptions{
		Level: logLevel,
		// https://opentelemetry.io/docs/specs/otel/logs/data-model/
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			switch a.Key {
			case slog.LevelKey:
				a.Key = "severitytext"
			case slog.MessageKey:
				a.Key = "body"
			}
			return a
		},
	}
	if Debug {
		return slog.New(slog.NewTextHandler(os.Stderr, handlerOpts)), nil
	}
	return slog.New(slog.NewJSONHandler(os.Stderr, handlerOpts)), nil
}

// Handler builds the HTTP routes on top of the given logger and meter.
func (s *Server) Handler(logger *slog.Logger, meter metric.Meter) (http.Handler, error) {
	httpRequestsDurationMicroSeconds, err := meter.Int64Histogram("http_requests_duration_micro_seconds")
	if err != nil {
		return nil, xerrors.Errorf("failed to create histogram: %w", err)
	}
	boxesPerDiff, err := meter.Int64Histogram(
		"boxdiff_boxes",
		metric.WithDescription("Number of bounding boxes returned per diff"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 5, 10, 20, 50, 100),
	)
	if err != nil {
		return nil, xerrors.Errorf("failed to create histogram: %w", err)
	}

	mux := myhttp.NewServerMux(logger, httpRequestsDurationMicroSeconds)

	mux.HandleFuncWithMiddleware("POST /api/diff-bounding-box", routes.DiffBoundingBox(s.pipeline, boxesPerDiff))
	mux.HandleFuncWithMiddleware("POST /api/resize", routes.Resize(s.resizer))
	mux.HandleFuncWithMiddleware("POST /api/merge-halves", routes.MergeHalves(s.pipeline))

	if s.dynamicClient != nil {
		mux.HandleFuncWithMiddleware("GET /api/{namespace}/{kind}", routes.ListResources(s.dynamicClient))
		mux.HandleFuncWithMiddleware("GET /api/{namespace}/{kind}/{name}", routes.GetResource(s.dynamicClient))
		mux.HandleFuncWithMiddleware("PATCH /api/{namespace}/boxdiffs/{name}/result", routes.UpdateResult(s.dynamicClient))
	}
	if s.clientset != nil {
		mux.HandleFuncWithMiddleware("GET /api/{$}", routes.ListNamespaces(s.clientset))
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(http.StatusText(http.StatusOK)))
	})

	mux.Handle("GET /metrics", promhttp.InstrumentMetricHandler(
		prometheus.DefaultRegisterer, promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{
			EnableOpenMetrics: true,
		}),
	))

	if Debug {
		mux.HandleFunc("GET /debug/pprof/", pprof.Index)
		mux.HandleFunc("GET /debug/pprof/cmdline", pprof.Cmdline)
		mux.HandleFunc("GET /debug/pprof/symbol", pprof.Symbol)
		mux.HandleFunc("GET /debug/pprof/trace", pprof.Trace)
		mux.HandleFunc("GET /debug/pprof/profile", pyroscopepprof.Profile)
	}

	return mux, nil
}

// Start serves until ctx is canceled or SIGTERM arrives, then drains connections.
func (s *Server) Start(ctx context.Context) error {
	runtime.SetMutexProfileFraction(1)
	runtime.SetBlockProfileRate(1)

	profiler, err := pyroscope.Start(pyroscope.Config{
		ApplicationName: applicationName,
		ServerAddress:   os.Getenv("PYROSCOPE_ENDPOINT"),
		UploadRate:      60 * time.Second,
		ProfileTypes: []pyroscope.ProfileType{
			pyroscope.ProfileCPU,
			pyroscope.ProfileAllocObjects,
			pyroscope.ProfileAllocSpace,
			pyroscope.ProfileInuseObjects,
			pyroscope.ProfileInuseSpace,
			pyroscope.ProfileGoroutines,
			pyroscope.ProfileMutexCount,
			pyroscope.ProfileMutexDuration,
			pyroscope.ProfileBlockCount,
			pyroscope.ProfileBlockDuration,
		},
	})
	if err != nil {
		return xerrors.Errorf("failed to create profiler: %w", err)
	}

	otel.SetTextMapPropagator(propagation.TraceContext{})

	r, err := sdkresource.Merge(
		sdkresource.Default(),
		sdkresource.NewWithAttributes(semconv.SchemaURL, semconv.ServiceName(applicationName)),
	)
	if err != nil {
		return xerrors.Errorf("failed to create resource: %w", err)
	}
	traceExporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return xerrors.Errorf("failed to create trace exporter: %w", err)
	}
	traceProvider := sdktrace.NewTracerProvider(
		sdktrace.WithResource(r),
		sdktrace.WithBatcher(traceExporter),
	)
	otel.SetTracerProvider(otelpyroscope.NewTracerProvider(traceProvider))

	exporter, err := otelprometheus.New()
	if err != nil {
		return xerrors.Errorf("failed to create exporter: %w", err)
	}
	// NOTE: Gauge(UpDownCounter), Summary or Untyped does not support exemplars
	// https://github.com/prometheus/client_golang/blob/v1.20.4/prometheus/metric.go#L200
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)).Meter(applicationName)

	logger, err := NewLogger()
	if err != nil {
		return err
	}

	handler, err := s.Handler(logger, meter)
	if err != nil {
		return err
	}

	listener, err := net.Listen("tcp", s.address)
	if err != nil {
		return xerrors.Errorf("failed to listen on address %s: %w", s.address, err)
	}

	server := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}
	server.SetKeepAlivesEnabled(s.keepAlive)

	go func() {
		if err := server.Serve(netutil.LimitListener(listener, s.maxConnections)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to serve HTTP", "error", err)
		}
	}()
	logger.Info("serving HTTP", "address", s.address)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM)
	defer signal.Stop(quit)
	select {
	case <-quit:
	case <-ctx.Done():
	}
	time.Sleep(s.lameduck)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.terminationGracePeriod)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return xerrors.Errorf("failed to shutdown server: %w", err)
	}

	if err := traceProvider.Shutdown(shutdownCtx); err != nil {
		return xerrors.Errorf("failed to shutdown trace provider: %w", err)
	}

	if err := profiler.Stop(); err != nil {
		return xerrors.Errorf("failed to shutdown profiler: %w", err)
	}

	return nil
}
