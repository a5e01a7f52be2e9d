package observer

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/sirupsen/logrus"
)

// PutMetricDataAPI is the slice of the CloudWatch client the observer needs
type PutMetricDataAPI interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// CloudWatchObserver sends one latency data point per completed prediction.
// Delivery is best-effort: failures are logged and dropped.
type CloudWatchObserver struct {
	client    PutMetricDataAPI
	namespace string
	env       string
	logger    *logrus.Logger
	timeout   time.Duration
}

// NewCloudWatchObserver creates a cloud metrics observer
func NewCloudWatchObserver(client PutMetricDataAPI, namespace, env string, logger *logrus.Logger) *CloudWatchObserver {
	return &CloudWatchObserver{
		client:    client,
		namespace: namespace,
		env:       env,
		logger:    logger,
		timeout:   2 * time.Second,
	}
}

// OnEvent publishes the request latency for completed predictions
func (o *CloudWatchObserver) OnEvent(ctx context.Context, event PredictionEvent) {
	if event.EventType != PredictionCompleted {
		return
	}

	// Detached from request cancellation.
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), o.timeout)
	defer cancel()

	_, err := o.client.PutMetricData(sendCtx, &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(o.namespace),
		MetricData: []types.MetricDatum{
			{
				MetricName: aws.String("InferenceLatency"),
				Unit:       types.StandardUnitMilliseconds,
				Value:      aws.Float64(event.TotalMs),
				Timestamp:  aws.Time(event.Timestamp),
				Dimensions: []types.Dimension{
					{Name: aws.String("Variant"), Value: aws.String(event.Variant)},
					{Name: aws.String("Environment"), Value: aws.String(o.env)},
				},
			},
		},
	})
	if err != nil {
		o.logger.WithError(err).WithField("variant", event.Variant).Warn("Cloud metric not sent")
	}
}

// GetObserverName returns the observer name
func (o *CloudWatchObserver) GetObserverName() string {
	return "cloudwatch_observer"
}
