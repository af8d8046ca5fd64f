// File: services/metrics.go
package services

import (
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/cloudwatch"
	"github.com/aws/aws-sdk-go/service/cloudwatch/cloudwatchiface"

	"footy-stadia/logger"
)

// Metric names published by the controllers.
const (
	MetricStadiumCreated  = "StadiumCreated"
	MetricStadiumDeleted  = "StadiumDeleted"
	MetricCommentCreated  = "CommentCreated"
	MetricGeocodeFailures = "GeocodeFailures"
	MetricUserRegistered  = "UserRegistered"
)

// Metrics counts application events.
type Metrics interface {
	RecordEvent(name string)
}

// NoopMetrics drops every event; used when METRICS_ENABLED is false.
type NoopMetrics struct{}

func (NoopMetrics) RecordEvent(string) {}

// CloudWatchMetrics publishes each event as a Count of 1.
type CloudWatchMetrics struct {
	client      cloudwatchiface.CloudWatchAPI
	namespace   string
	environment string
}

// NewCloudWatchMetrics reuses a single CloudWatch client for all metrics calls.
func NewCloudWatchMetrics(sess *session.Session, namespace, environment string) *CloudWatchMetrics {
	return NewCloudWatchMetricsWithClient(cloudwatch.New(sess), namespace, environment)
}

// NewCloudWatchMetricsWithClient is NewCloudWatchMetrics with an explicit client.
func NewCloudWatchMetricsWithClient(client cloudwatchiface.CloudWatchAPI, namespace, environment string) *CloudWatchMetrics {
	return &CloudWatchMetrics{client: client, namespace: namespace, environment: environment}
}

// RecordEvent pushes name as a single count. Failures are logged, never returned.
func (m *CloudWatchMetrics) RecordEvent(name string) {
	m.putMetric(name, 1, cloudwatch.StandardUnitCount)
}

// -----------------------------------------------------------
// internal helper function to package up CloudWatch calls
// -----------------------------------------------------------
func (m *CloudWatchMetrics) putMetric(metricName string, value float64, unit string) {
	_, err := m.client.PutMetricData(&cloudwatch.PutMetricDataInput{
		Namespace: aws.String(m.namespace),
		MetricData: []*cloudwatch.MetricDatum{
			{
				MetricName: aws.String(metricName),
				Dimensions: []*cloudwatch.Dimension{
					{
						Name:  aws.String("Environment"),
						Value: aws.String(m.environment),
					},
				},
				Timestamp: aws.Time(time.Now()),
				Value:     aws.Float64(value),
				Unit:      aws.String(unit),
			},
		},
	})

	if err != nil {
		logger.Error.Printf("[putMetric] CloudWatch metric failed (%s): %v", metricName, err)
	}
}
