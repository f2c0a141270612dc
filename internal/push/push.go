// internal/push/push.go

// Package push delivers best-effort push notifications through SNS platform
// endpoints. Push is additive, never load-bearing: every failure path here
// terminates in a logged Result, not an error.
package push

import (
	"context"

	"notify-fanout/internal/common/errors"
	"notify-fanout/internal/common/logger"
	"notify-fanout/internal/common/metrics"
	"notify-fanout/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
)

// Result is the terminal outcome of one push attempt.
type Result string

const (
	ResultSent    Result = "sent"
	ResultSkipped Result = "skipped"
	ResultFailed  Result = "failed"
)

// SNSAPI is the slice of the SNS client the dispatcher uses, for mocking.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Dispatcher struct {
	client SNSAPI
	logger logger.Logger
}

func NewDispatcher(client SNSAPI, log logger.Logger) *Dispatcher {
	return &Dispatcher{
		client: client,
		logger: log.WithFields(map[string]interface{}{"component": "push"}),
	}
}

// Disabled stands in for the dispatcher when the push channel is turned off.
// Every dispatch is a skip; the in-app channel is unaffected.
type Disabled struct{}

func (Disabled) Dispatch(_ context.Context, _ *models.UserProfile, _ models.NotificationContent) Result {
	metrics.PushResults.WithLabelValues(string(ResultSkipped)).Inc()
	return ResultSkipped
}

// Dispatch sends content to the recipient's registered device. A missing
// profile or push token yields ResultSkipped, the expected path for devices
// without push capability. Gateway errors yield ResultFailed and are never
// escalated: the in-app record already satisfies the delivery guarantee.
func (d *Dispatcher) Dispatch(ctx context.Context, profile *models.UserProfile, content models.NotificationContent) Result {
	if profile == nil || profile.PushToken == "" {
		metrics.PushResults.WithLabelValues(string(ResultSkipped)).Inc()
		return ResultSkipped
	}

	message, err := buildMessage(content)
	if err != nil {
		d.logger.Error("push payload build failed", map[string]interface{}{
			"userId": profile.ID,
			"error":  err.Error(),
		})
		metrics.PushResults.WithLabelValues(string(ResultFailed)).Inc()
		return ResultFailed
	}

	_, err = d.client.Publish(ctx, &sns.PublishInput{
		TargetArn:        aws.String(profile.PushToken),
		MessageStructure: aws.String("json"),
		Message:          aws.String(message),
	})
	if err != nil {
		se := errors.NewPushSendFailedError(profile.ID, err)
		d.logger.Warn("push send failed, in-app record is the fallback", map[string]interface{}{
			"userId": profile.ID,
			"code":   string(se.Code),
			"error":  err.Error(),
		})
		metrics.PushResults.WithLabelValues(string(ResultFailed)).Inc()
		return ResultFailed
	}

	metrics.PushResults.WithLabelValues(string(ResultSent)).Inc()
	return ResultSent
}
