package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// PredictionEvent represents a side effect of serving a request
type PredictionEvent struct {
	EventType    EventType              `json:"event_type"`
	Timestamp    time.Time              `json:"timestamp"`
	Variant      string                 `json:"variant,omitempty"`
	Backend      string                 `json:"backend,omitempty"`
	InferenceMs  float64                `json:"inference_ms,omitempty"`
	TotalMs      float64                `json:"total_ms,omitempty"`
	Success      bool                   `json:"success"`
	ErrorMessage string                 `json:"error_message,omitempty"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of prediction event
type EventType string

const (
	// PredictionCompleted when inference and decoding succeed
	PredictionCompleted EventType = "prediction_completed"
	// PredictionFailed when load, decode or inference fails
	PredictionFailed EventType = "prediction_failed"
	// ResultStored when a result is persisted
	ResultStored EventType = "result_stored"
	// StoreFailed when persisting a result fails
	StoreFailed EventType = "store_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event PredictionEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event PredictionEvent)
}

// LoggingObserver logs prediction events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles prediction events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event PredictionEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"success":    event.Success,
	}
	if event.Variant != "" {
		fields["variant"] = event.Variant
	}
	if event.Backend != "" {
		fields["backend"] = event.Backend
	}
	if event.InferenceMs > 0 {
		fields["inference_ms"] = event.InferenceMs
	}
	if event.TotalMs > 0 {
		fields["total_ms"] = event.TotalMs
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	switch event.EventType {
	case PredictionCompleted:
		o.logger.WithFields(fields).Info("Prediction completed")
	case PredictionFailed:
		o.logger.WithFields(fields).Error("Prediction failed")
	case ResultStored:
		o.logger.WithFields(fields).Info("Result stored")
	case StoreFailed:
		o.logger.WithFields(fields).Error("Result store failed")
	default:
		o.logger.WithFields(fields).Info("Prediction event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
	log       *logrus.Logger
}

// NewEventPublisher creates a new event publisher; panics inside observers are logged to log
func NewEventPublisher(log *logrus.Logger) *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
		log:       log,
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers fans the event out concurrently and returns once every
// observer has finished. Observer failures never reach the caller.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event PredictionEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	var wg sync.WaitGroup
	for _, observer := range observers {
		wg.Add(1)
		go func(obs Observer) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					p.log.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
	wg.Wait()
}
