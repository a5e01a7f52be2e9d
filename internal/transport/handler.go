package transport

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"go-pose-estimator/internal/config"
	apperrors "go-pose-estimator/internal/errors"
	"go-pose-estimator/internal/logger"
	"go-pose-estimator/internal/service"
	"go-pose-estimator/pkg/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	uploadField     = "file"
)

// NewHandler builds the HTTP API. gatherer may be nil, in which case /metrics is not mounted.
func NewHandler(svc service.PoseService, cfg *config.Config, gatherer prometheus.Gatherer) http.Handler {
	r := gin.New()

	r.Use(
		gin.Recovery(),
		requestID(),
		accessLog(),
		cors.New(corsConfig(cfg)),
		requestSizeLimiter(cfg.MaxRequestBodySize),
	)

	r.GET("/healthz", healthCheck(cfg))
	r.POST("/predict", predict(svc, cfg))
	r.POST("/store", store(svc, cfg))
	if gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	return r
}

func predict(svc service.PoseService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query models.PredictQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			respondError(c, apperrors.NewValidationError("invalid query parameters", err))
			return
		}

		header, err := c.FormFile(uploadField)
		if err != nil {
			respondError(c, bodyError(err, "multipart field \"file\" is required"))
			return
		}
		image, err := readUpload(header)
		if err != nil {
			respondError(c, bodyError(err, "could not read uploaded file"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		result, err := svc.Predict(ctx, models.PredictionRequest{
			Image:   image,
			Variant: query.Variant,
			Store:   query.Store,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		logger.WithFields(logrus.Fields{
			"request_id":              c.GetString(requestIDKey),
			"variant":                 result.ModelVariant,
			"filename":                header.Filename,
			"inference_time_ms_model": result.InferenceTimeMsModel,
			"inference_time_ms_total": result.InferenceTimeMsTotal,
			"stored":                  result.StoredAt != "",
		}).Info("Prediction served")

		c.JSON(http.StatusOK, result)
	}
}

func store(svc service.PoseService, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, err := c.GetRawData()
		if err != nil {
			respondError(c, bodyError(err, "could not read request body"))
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), cfg.RequestTimeout)
		defer cancel()

		location, err := svc.Store(ctx, payload)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.StoreResponse{StoredAt: location})
	}
}

func healthCheck(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, models.HealthResponse{Status: "ok", Env: cfg.Env})
	}
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// bodyError maps a failure to read the request body onto the error taxonomy.
func bodyError(err error, message string) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &apperrors.AppError{
			Type:       apperrors.ErrorTypeValidation,
			Message:    "request body too large",
			StatusCode: http.StatusRequestEntityTooLarge,
			Cause:      err,
		}
	}
	return apperrors.NewValidationError(message, err)
}

// Middleware and helper functions
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(requestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"status":     c.Writer.Status(),
			"latency_ms": time.Since(start).Milliseconds(),
			"ip":         c.ClientIP(),
			"user_agent": c.Request.UserAgent(),
		}).Info("Request handled")
	}
}

func corsConfig(cfg *config.Config) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders: []string{requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if cfg.AllowAllOrigins() {
		cc.AllowAllOrigins = true
	} else {
		cc.AllowOrigins = cfg.CORSOrigins
	}
	return cc
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func respondError(c *gin.Context, err error) {
	code := apperrors.GetStatusCode(err)

	var appErr *apperrors.AppError
	message := err.Error()
	if errors.As(err, &appErr) {
		message = appErr.Message
	}

	entry := logger.WithError(err).WithFields(logrus.Fields{
		"request_id":  c.GetString(requestIDKey),
		"status_code": code,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	})
	if code >= http.StatusInternalServerError {
		entry.Error("Request failed")
	} else {
		entry.Warn("Request rejected")
	}

	// Storage failures surface the store_failed message as the error itself.
	if apperrors.IsType(err, apperrors.ErrorTypeStorage) {
		c.AbortWithStatusJSON(code, models.ErrorResponse{Error: message})
		return
	}
	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: message,
	})
}
