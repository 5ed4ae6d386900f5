// Package observability provides the CloudWatch-backed metrics collector for
// the API chassis, plus a no-op collector for environments where metric
// emission is disabled.
package observability

import (
	"context"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"soilsafe/internal/core"
)

// CloudWatchClient abstracts the CloudWatch PutMetricData operation for testability.
type CloudWatchClient interface {
	PutMetricData(ctx context.Context, params *cloudwatch.PutMetricDataInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.PutMetricDataOutput, error)
}

// Compile-time assertion that CloudWatchMetrics implements core.MetricsCollector.
var _ core.MetricsCollector = (*CloudWatchMetrics)(nil)

// CloudWatchMetrics emits request metrics to AWS CloudWatch.
//
// Metrics emitted:
//   - RequestCount:   Dims {Method, Endpoint, Status} -- on every request
//   - RequestLatency: Dims {Method, Endpoint} -- handler wall time in ms
type CloudWatchMetrics struct {
	client    CloudWatchClient
	namespace string
	logger    *slog.Logger
}

// NewCloudWatchMetrics creates a collector that publishes to the given
// CloudWatch namespace.
func NewCloudWatchMetrics(client CloudWatchClient, namespace string, logger *slog.Logger) *CloudWatchMetrics {
	return &CloudWatchMetrics{
		client:    client,
		namespace: namespace,
		logger:    logger,
	}
}

// RecordRequest emits one count datum and one latency datum for a completed
// request. Emission happens in the request path; failures are logged and
// never surfaced to the caller.
func (m *CloudWatchMetrics) RecordRequest(method, endpoint, status string, duration time.Duration) {
	ctx := context.Background()

	input := &cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []cwtypes.MetricDatum{
			{
				MetricName: aws.String("RequestCount"),
				Value:      aws.Float64(1),
				Unit:       cwtypes.StandardUnitCount,
				Dimensions: []cwtypes.Dimension{
					{Name: aws.String("Method"), Value: aws.String(method)},
					{Name: aws.String("Endpoint"), Value: aws.String(endpoint)},
					{Name: aws.String("Status"), Value: aws.String(status)},
				},
			},
			{
				MetricName: aws.String("RequestLatency"),
				Value:      aws.Float64(float64(duration.Milliseconds())),
				Unit:       cwtypes.StandardUnitMilliseconds,
				Dimensions: []cwtypes.Dimension{
					{Name: aws.String("Method"), Value: aws.String(method)},
					{Name: aws.String("Endpoint"), Value: aws.String(endpoint)},
				},
			},
		},
	}

	if _, err := m.client.PutMetricData(ctx, input); err != nil {
		m.logger.Error("failed to record request metric",
			slog.String("error", err.Error()),
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.String("status", status),
		)
	}
}

// Compile-time assertion that NoopMetrics implements core.MetricsCollector.
var _ core.MetricsCollector = (*NoopMetrics)(nil)

// NoopMetrics discards all metrics. Used when metric emission is disabled.
type NoopMetrics struct{}

// NewNoopMetrics returns a collector that drops everything.
func NewNoopMetrics() *NoopMetrics {
	return &NoopMetrics{}
}

// RecordRequest is a no-op.
func (m *NoopMetrics) RecordRequest(method, endpoint, status string, duration time.Duration) {}
