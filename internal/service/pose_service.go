package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	apperrors "go-pose-estimator/internal/errors"
	"go-pose-estimator/internal/hoststats"
	"go-pose-estimator/internal/logger"
	"go-pose-estimator/internal/observer"
	"go-pose-estimator/internal/pose"
	"go-pose-estimator/internal/storage"
	"go-pose-estimator/internal/strategy"
	"go-pose-estimator/pkg/models"
	"go-pose-estimator/pkg/validation"

	"github.com/sirupsen/logrus"
)

// PoseService runs predictions and persists results
type PoseService interface {
	// Predict runs the full pipeline for one image. When storing fails the
	// completed result is returned together with a storage error.
	Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error)

	// Store persists a JSON object exactly as given and returns its location
	Store(ctx context.Context, payload []byte) (string, error)
}

// ModelProvider hands out loaded models by variant
type ModelProvider interface {
	Load(ctx context.Context, v pose.Variant) (pose.Model, error)
}

// poseService implements PoseService
type poseService struct {
	models  ModelProvider
	store   storage.ResultStore
	sampler hoststats.Sampler
	events  observer.Subject
	now     func() time.Time
}

// NewPoseService creates a new pose service
func NewPoseService(
	modelProvider ModelProvider,
	resultStore storage.ResultStore,
	sampler hoststats.Sampler,
	events observer.Subject,
) PoseService {
	return &poseService{
		models:  modelProvider,
		store:   resultStore,
		sampler: sampler,
		events:  events,
		now:     time.Now,
	}
}

// Predict performs load, preprocess, inference and decode, then enriches the result
func (s *poseService) Predict(ctx context.Context, req models.PredictionRequest) (*models.PredictionResult, error) {
	start := s.now()

	variant, err := pose.ParseVariant(req.Variant)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid variant", err)
	}
	spec, err := pose.Lookup(variant)
	if err != nil {
		return nil, apperrors.NewValidationError("invalid variant", err)
	}
	if err := validation.ValidateImageUpload(req.Image); err != nil {
		return nil, err
	}

	result, err := s.infer(ctx, spec, req.Image)
	if err != nil {
		s.events.NotifyObservers(ctx, observer.PredictionEvent{
			EventType:    observer.PredictionFailed,
			Variant:      string(variant),
			ErrorMessage: err.Error(),
		})
		return nil, err
	}

	s.attachHostStats(ctx, result)
	result.InferenceTimeMsTotal = pose.RoundMillis(s.now().Sub(start))

	s.events.NotifyObservers(ctx, observer.PredictionEvent{
		EventType:   observer.PredictionCompleted,
		Variant:     string(variant),
		InferenceMs: result.InferenceTimeMsModel,
		TotalMs:     result.InferenceTimeMsTotal,
		Success:     true,
	})

	if !req.Store {
		return result, nil
	}

	payload, err := json.Marshal(result)
	if err != nil {
		return result, apperrors.NewStorageError(err)
	}
	location, err := s.persist(ctx, payload)
	if err != nil {
		return result, err
	}
	result.StoredAt = location
	return result, nil
}

// Store validates that payload is a JSON object and persists it unchanged
func (s *poseService) Store(ctx context.Context, payload []byte) (string, error) {
	if err := validation.ValidateJSONObject(payload); err != nil {
		return "", err
	}
	return s.persist(ctx, payload)
}

func (s *poseService) infer(ctx context.Context, spec pose.VariantSpec, image []byte) (*models.PredictionResult, error) {
	model, err := s.models.Load(ctx, spec.Variant)
	if err != nil {
		return nil, apperrors.NewInferenceError("model load failed", err)
	}

	input, err := pose.Preprocess(image, spec.Width, spec.Height)
	if err != nil {
		if errors.Is(err, pose.ErrDecode) {
			return nil, apperrors.NewDecodeError("invalid image", err)
		}
		return nil, apperrors.NewInternalError("preprocess failed", err)
	}

	inference, err := pose.Run(model, input)
	if err != nil {
		return nil, apperrors.NewInferenceError("inference failed", err)
	}

	decoder, err := strategy.ForSpec(spec)
	if err != nil {
		return nil, apperrors.NewInternalError("no decoder for variant", err)
	}
	decoded, err := decoder.Decode(inference.Outputs)
	if err != nil {
		return nil, apperrors.NewInferenceError("decode model output failed", err)
	}

	return &models.PredictionResult{
		PoseOutput:           decoded,
		ModelVariant:         string(spec.Variant),
		ModelHandle:          spec.Handle,
		InferenceTimeMsModel: inference.ElapsedMs,
		Timestamp:            isoTimestamp(s.now()),
	}, nil
}

// attachHostStats is best-effort: a failed sample leaves the fields unset.
func (s *poseService) attachHostStats(ctx context.Context, result *models.PredictionResult) {
	if s.sampler == nil {
		return
	}
	stats, err := s.sampler.Sample(ctx, 0)
	if err != nil {
		logger.WithError(err).Warn("Host stats unavailable")
		return
	}
	cpu, mem := stats.CPUPercent, stats.MemPercent
	result.HostCPUPercent = &cpu
	result.HostMemPercent = &mem
}

func (s *poseService) persist(ctx context.Context, payload []byte) (string, error) {
	location, err := s.store.Put(ctx, payload)
	if err != nil {
		s.events.NotifyObservers(ctx, observer.PredictionEvent{
			EventType:    observer.StoreFailed,
			Backend:      s.store.Backend(),
			ErrorMessage: err.Error(),
		})
		return "", apperrors.NewStorageError(err)
	}

	s.events.NotifyObservers(ctx, observer.PredictionEvent{
		EventType: observer.ResultStored,
		Backend:   s.store.Backend(),
		Success:   true,
		Metadata:  map[string]interface{}{"location": location, "bytes": len(payload)},
	})
	logger.WithFields(logrus.Fields{
		"backend":  s.store.Backend(),
		"location": location,
	}).Debug("Result persisted")
	return location, nil
}

// isoTimestamp renders t as ISO-8601 UTC with microseconds and a trailing Z.
func isoTimestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000000") + "Z"
}
