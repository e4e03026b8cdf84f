// File: services/metrics.go
package services

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"

	"church-site/logger"
	"church-site/models"
)

// MetricsPublisher records site activity. Implementations never fail the caller.
type MetricsPublisher interface {
	PublishUpload(ctx context.Context, area Area)
	PublishDeletion(ctx context.Context, kind string)
	PublishContactMessage(ctx context.Context, urgency models.Urgency)
	PublishAcknowledgementFailure(ctx context.Context)
}

// NoopMetrics discards everything. Used when CloudWatch is disabled.
type NoopMetrics struct{}

func (NoopMetrics) PublishUpload(context.Context, Area)                   {}
func (NoopMetrics) PublishDeletion(context.Context, string)               {}
func (NoopMetrics) PublishContactMessage(context.Context, models.Urgency) {}
func (NoopMetrics) PublishAcknowledgementFailure(context.Context)         {}

const metricTimeout = 3 * time.Second

// CloudWatchMetrics pushes one datum per call to CloudWatch.
type CloudWatchMetrics struct {
	client    cloudwatchiface.CloudWatchAPI
	namespace string
}

// NewCloudWatchMetrics publishes under namespace through client.
func NewCloudWatchMetrics(client cloudwatchiface.CloudWatchAPI, namespace string) *CloudWatchMetrics {
	return &CloudWatchMetrics{client: client, namespace: namespace}
}

// PublishUpload counts a stored upload per area.
func (m *CloudWatchMetrics) PublishUpload(ctx context.Context, area Area) {
	m.putMetric(ctx, "Uploads", 1, cloudwatch.StandardUnitCount, "Area", string(area))
}

// PublishDeletion counts admin deletions per kind (sermon, poster, leader, message).
func (m *CloudWatchMetrics) PublishDeletion(ctx context.Context, kind string) {
	m.putMetric(ctx, "Deletions", 1, cloudwatch.StandardUnitCount, "Kind", kind)
}

// PublishContactMessage counts contact submissions per urgency.
func (m *CloudWatchMetrics) PublishContactMessage(ctx context.Context, urgency models.Urgency) {
	m.putMetric(ctx, "ContactMessages", 1, cloudwatch.StandardUnitCount, "Urgency", string(urgency))
}

// PublishAcknowledgementFailure counts acknowledgement mails that could not be sent.
func (m *CloudWatchMetrics) PublishAcknowledgementFailure(ctx context.Context) {
	m.putMetric(ctx, "AcknowledgementFailures", 1, cloudwatch.StandardUnitCount, "", "")
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func (m *CloudWatchMetrics) putMetric(ctx context.Context, name string, value float64, unit, dimName, dimValue string) {
	ctx, cancel := context.WithTimeout(ctx, metricTimeout)
	defer cancel()

	datum := &cloudwatch.MetricDatum{
		MetricName: aws.String(name),
		Timestamp:  aws.Time(time.Now()),
		Value:      aws.Float64(value),
		Unit:       aws.String(unit),
	}
	if dimName != "" {
		datum.Dimensions = []*cloudwatch.Dimension{{Name: aws.String(dimName), Value: aws.String(dimValue)}}
	}

	_, err := m.client.PutMetricDataWithContext(ctx, &cloudwatch.PutMetricDataInput{
		Namespace:  aws.String(m.namespace),
		MetricData: []*cloudwatch.MetricDatum{datum},
	})
	if err != nil {
		logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", name, err)
	}
}
