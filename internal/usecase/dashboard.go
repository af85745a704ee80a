// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"errors"

	"github.com/naka-gawa/jobapp-metrics/internal/domain"
	"github.com/naka-gawa/jobapp-metrics/internal/gateway"
	"github.com/sirupsen/logrus"
)

// Dashboard is the use case behind the metrics view. It turns the outcome of
// one fetch into the view state the renderer understands.
type Dashboard struct {
	fetcher gateway.MetricsFetcher
	logger  logrus.FieldLogger
}

// NewDashboard creates a new Dashboard instance.
func NewDashboard(fetcher gateway.MetricsFetcher, logger logrus.FieldLogger) *Dashboard {
	return &Dashboard{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Load fetches the metrics once and returns Ready or Failed. Every failure
// cause maps to the same user-facing message; the cause is only logged.
func (d *Dashboard) Load(ctx context.Context, baseURL string) domain.ViewState {
	payload, err := d.fetcher.FetchMetrics(ctx, baseURL)
	if err != nil {
		entry := d.logger.WithError(err).WithField("base_url", baseURL)
		if errors.Is(err, context.Canceled) {
			entry.Debug("Metrics fetch cancelled.")
		} else {
			entry.Error("Error fetching metrics")
		}
		return domain.Failed{Message: domain.FailedToLoadMessage}
	}
	return domain.Ready{Payload: payload}
}
