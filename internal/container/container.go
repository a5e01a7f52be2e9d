package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go-pose-estimator/internal/config"
	"go-pose-estimator/internal/factory"
	"go-pose-estimator/internal/hoststats"
	"go-pose-estimator/internal/logger"
	"go-pose-estimator/internal/observer"
	"go-pose-estimator/internal/pose"
	"go-pose-estimator/internal/repository"
	"go-pose-estimator/internal/service"
	"go-pose-estimator/internal/storage"
	"go-pose-estimator/internal/transport"
	"go-pose-estimator/pkg/validation"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

// Container holds all application dependencies
type Container struct {
	config      *config.Config
	modelLoader *pose.ModelLoader
	resultStore storage.ResultStore
	registry    *prometheus.Registry
	publisher   *observer.EventPublisher
	poseService service.PoseService
	handler     http.Handler
}

// NewContainer creates a new dependency injection container
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logger.Configure(cfg.LogLevel, nil)

	if cfg.ModelArtifactBaseURL != "" {
		if err := validation.NewURLValidator().ValidateArtifactURL(cfg.ModelArtifactBaseURL); err != nil {
			return nil, fmt.Errorf("invalid MODEL_ARTIFACT_BASE_URL: %w", err)
		}
	}

	// Build dependency graph
	modelRepository := repository.NewFileModelRepository(cfg.ModelDir, storage.NewHTTPArtifactFetcher())
	modelLoader := pose.NewModelLoader(newONNXOpener(cfg, modelRepository))

	resultStore, err := factory.NewStorageFactory(cfg).CreateStorage(ctx, factory.StorageType(cfg.StoreBackend))
	if err != nil {
		return nil, fmt.Errorf("failed to create result store: %w", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	publisher, err := newPublisher(ctx, cfg, registry)
	if err != nil {
		return nil, err
	}

	poseService := service.NewPoseService(modelLoader, resultStore, hoststats.NewSampler(), publisher)
	handler := transport.NewHandler(poseService, cfg, registry)

	return &Container{
		config:      cfg,
		modelLoader: modelLoader,
		resultStore: resultStore,
		registry:    registry,
		publisher:   publisher,
		poseService: poseService,
		handler:     handler,
	}, nil
}

func newPublisher(ctx context.Context, cfg *config.Config, registry prometheus.Registerer) (*observer.EventPublisher, error) {
	publisher := observer.NewEventPublisher(logger.Logger)
	publisher.Subscribe(observer.NewLoggingObserver(logger.Logger))

	promObserver, err := observer.NewPrometheusObserver(registry)
	if err != nil {
		return nil, fmt.Errorf("failed to register metrics: %w", err)
	}
	publisher.Subscribe(promObserver)

	if cfg.CloudMetricsEnabled {
		client, err := factory.NewCloudWatchClient(ctx, factory.DefaultAWSConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create cloud metrics client: %w", err)
		}
		publisher.Subscribe(observer.NewCloudWatchObserver(client, cfg.CloudMetricsNamespace, cfg.Env, logger.Logger))
	}
	return publisher, nil
}

// newONNXOpener resolves <variant>.onnx from the model directory, downloading
// it from MODEL_ARTIFACT_BASE_URL when configured, and opens an ONNX session.
func newONNXOpener(cfg *config.Config, repo repository.ModelRepository) pose.Opener {
	return func(ctx context.Context, spec pose.VariantSpec) (pose.Model, error) {
		name := string(spec.Variant)
		artifactURL := ""
		if cfg.ModelArtifactBaseURL != "" {
			artifactURL = cfg.ModelArtifactBaseURL + "/" + name + ".onnx"
		}

		path, err := repo.Resolve(ctx, name, artifactURL)
		if err != nil {
			return nil, err
		}
		if err := pose.InitRuntime(cfg.ONNXRuntimeLib); err != nil {
			return nil, err
		}

		start := time.Now()
		model, err := pose.NewONNXModel(path, spec)
		if err != nil {
			return nil, err
		}
		logger.WithFields(logrus.Fields{
			"variant":      name,
			"handle":       spec.Handle,
			"artifact":     path,
			"load_time_ms": time.Since(start).Milliseconds(),
		}).Info("Model loaded")
		return model, nil
	}
}

// Handler returns the HTTP handler
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Config returns the configuration
func (c *Container) Config() *config.Config {
	return c.config
}

// PoseService returns the prediction service
func (c *Container) PoseService() service.PoseService {
	return c.poseService
}

// Close releases loaded models and the inference runtime
func (c *Container) Close() error {
	return errors.Join(c.modelLoader.Close(), pose.ShutdownRuntime())
}
