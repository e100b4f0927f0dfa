package main

import (
	ssV1 "boxdiff/api/v1"
	"boxdiff/internal/capture"
	"boxdiff/internal/controllers"
	"boxdiff/internal/env"
	"boxdiff/internal/imageio"
	"boxdiff/internal/pipeline"
	"boxdiff/internal/runnable"
	"boxdiff/internal/storage"
	"context"
	"crypto/tls"
	"flag"
	"os"
	"time"

	// Import all Kubernetes client auth plugins (e.g. Azure, GCP, OIDC, etc.)
	// to ensure that exec-entrypoint and run can make use of them.
	_ "k8s.io/client-go/plugin/pkg/client/auth"

	"k8s.io/apimachinery/pkg/runtime"
	utilruntime "k8s.io/apimachinery/pkg/util/runtime"
	"k8s.io/client-go/dynamic"
	"k8s.io/client-go/kubernetes"
	clientgoscheme "k8s.io/client-go/kubernetes/scheme"
	"k8s.io/klog/v2"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/healthz"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"
	metricsserver "sigs.k8s.io/controller-runtime/pkg/metrics/server"
	"sigs.k8s.io/controller-runtime/pkg/webhook"
	// +kubebuilder:scaffold:imports
)

var (
	scheme = runtime.NewScheme()
)

func init() {
	utilruntime.Must(clientgoscheme.AddToScheme(scheme))
	utilruntime.Must(ssV1.AddToScheme(scheme))
}

func main() {
	if err := env.Load(); err != nil {
		klog.ErrorS(err, "unable to load .env")
		os.Exit(1)
	}

	var metricsAddr string
	var secureMetrics bool
	var enableHTTP2 bool
	var probeAddr string
	var enableLeaderElection bool

	var distributed bool
	var distributedCallbackHost string
	var distributedWorkerImage string
	var storageBackend string

	flag.StringVar(&metricsAddr, "metrics-bind-address", env.OrDefault("METRICS_BIND_ADDRESS", "0.0.0.0:8080"), "The address the metric endpoint binds to.")
	flag.BoolVar(&secureMetrics, "metrics-secure", env.OrDefault("METRICS_SECURE", false), "If set the metrics endpoint is served securely")
	flag.BoolVar(&enableHTTP2, "enable-http2", env.OrDefault("ENABLE_HTTP2", false), "If set, HTTP/2 will be enabled for the metrics and webhook servers")
	flag.StringVar(&probeAddr, "health-probe-bind-address", env.OrDefault("HEALTH_PROBE_BIND_ADDRESS", "0.0.0.0:8081"), "The address the probe endpoint binds to.")
	flag.BoolVar(&enableLeaderElection, "enable-leader-election", env.OrDefault("ENABLE_LEADER_ELECTION", false),
		"Enable leader election for controller manager.")

	flag.BoolVar(&distributed, "distributed", env.OrDefault("DISTRIBUTED", false), "Run BoxDiffs as Jobs that report back through the callback route")
	flag.StringVar(&distributedCallbackHost, "distributed-callback-host", env.OrDefault("DISTRIBUTED_CALLBACK_HOST", "boxdiff.boxdiff.svc.cluster.local:8082"), "Host the worker jobs report results to")
	flag.StringVar(&distributedWorkerImage, "distributed-worker-image", env.OrDefault("DISTRIBUTED_WORKER_IMAGE", "ghcr.io/kaidotdev/boxdiff/boxdiff-worker:main"), "The image to use for the distributed worker jobs")
	flag.StringVar(&storageBackend, "storage-backend", env.OrDefault("STORAGE_BACKEND", "s3"), "Where captures and annotations are stored (file or s3)")
	opts := zap.Options{}
	opts.BindFlags(flag.CommandLine)
	klog.InitFlags(flag.CommandLine)
	flag.Parse()

	zapLogger := zap.New(zap.UseFlagOptions(&opts))
	klog.SetLogger(zapLogger)
	ctrl.SetLogger(zapLogger)

	entrypointLogger := ctrl.Log.WithName("entrypoint")

	// if the enable-http2 flag is false (the default), http/2 should be disabled
	// due to its vulnerabilities. More specifically, disabling http/2 will
	// prevent from being vulnerable to the HTTP/2 Stream Cancelation and
	// Rapid Reset CVEs. For more information see:
	// - https://github.com/advisories/GHSA-qppj-fm5r-hxr3
	// - https://github.com/advisories/GHSA-4374-p667-p6c8
	disableHTTP2 := func(c *tls.Config) {
		entrypointLogger.Info("disabling http/2")
		c.NextProtos = []string{"http/1.1"}
	}

	tlsOpts := []func(*tls.Config){}
	if !enableHTTP2 {
		tlsOpts = append(tlsOpts, disableHTTP2)
	}

	m, err := ctrl.NewManager(ctrl.GetConfigOrDie(), ctrl.Options{
		Scheme: scheme,
		Metrics: metricsserver.Options{
			BindAddress:   metricsAddr,
			SecureServing: secureMetrics,
			TLSOpts:       tlsOpts,
		},
		HealthProbeBindAddress: probeAddr,
		WebhookServer: webhook.NewServer(webhook.Options{
			TLSOpts: tlsOpts,
		}),
		LeaderElection:   enableLeaderElection,
		LeaderElectionID: "boxdiff-controller",
	})
	if err != nil {
		entrypointLogger.Error(err, "unable to create manager")
		os.Exit(1)
	}

	ctx := context.Background()

	config := capture.DefaultPlaywrightConfig()
	config.ChromeDevtoolsProtocolURL = os.Getenv("CHROME_DEVTOOLS_PROTOCOL_URL")

	capturer, err := capture.NewPlaywrightCapturer(ctx, config)
	if err != nil {
		entrypointLogger.Error(err, "unable to create screenshot capturer")
		os.Exit(1)
	}

	s, err := storage.New(ctx, storageBackend)
	if err != nil {
		entrypointLogger.Error(err, "unable to create storage backend", "backend", storageBackend)
		os.Exit(1)
	}

	p := &pipeline.Pipeline{
		Capturer:         capturer,
		Loader:           &imageio.Loader{Client: imageio.NewHTTPClient(30 * time.Second), Storage: s},
		Storage:          s,
		CaptureExtension: config.Extension(),
	}

	if err := (&controllers.BoxDiffReconciler{
		Client:                  m.GetClient(),
		Scheme:                  m.GetScheme(),
		Log:                     ctrl.Log.WithName("controllers").WithName("boxdiff"),
		Recorder:                m.GetEventRecorderFor("boxdiff-controller"),
		Pipeline:                p,
		Distributed:             distributed,
		DistributedCallbackHost: distributedCallbackHost,
		DistributedWorkerImage:  distributedWorkerImage,
	}).SetupWithManager(m); err != nil {
		entrypointLogger.Error(err, "unable to create controller", "controller", "BoxDiff")
		os.Exit(1)
	}

	if err := (&controllers.ScheduledBoxDiffReconciler{
		Client:   m.GetClient(),
		Scheme:   m.GetScheme(),
		Log:      ctrl.Log.WithName("controllers").WithName("scheduledboxdiff"),
		Recorder: m.GetEventRecorderFor("scheduledboxdiff-controller"),
		Pipeline: p,
	}).SetupWithManager(m); err != nil {
		entrypointLogger.Error(err, "unable to create controller", "controller", "ScheduledBoxDiff")
		os.Exit(1)
	}

	dynamicClient, err := dynamic.NewForConfig(m.GetConfig())
	if err != nil {
		entrypointLogger.Error(err, "unable to create dynamic client")
		os.Exit(1)
	}
	clientset, err := kubernetes.NewForConfig(m.GetConfig())
	if err != nil {
		entrypointLogger.Error(err, "unable to create clientset")
		os.Exit(1)
	}

	if err := m.Add(runnable.NewServer(p, runnable.WithKubernetes(dynamicClient, clientset))); err != nil {
		entrypointLogger.Error(err, "unable to add Server runnable")
		os.Exit(1)
	}

	if err := m.AddHealthzCheck("healthz", healthz.Ping); err != nil {
		entrypointLogger.Error(err, "unable to set up health check")
		os.Exit(1)
	}
	if err := m.AddReadyzCheck("readyz", healthz.Ping); err != nil {
		entrypointLogger.Error(err, "unable to set up ready check")
		os.Exit(1)
	}

	entrypointLogger.Info("starting manager")
	if err := m.Start(ctx); err != nil {
		entrypointLogger.Error(err, "problem running manager")
		os.Exit(1)
	}
}
