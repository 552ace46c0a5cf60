package internal

import (
	"testing"

	"github.com/lclasicoaj/Fitness-app-project-1/internal/auth"
	"github.com/lclasicoaj/Fitness-app-project-1/internal/telemetry/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestConsumeSessionEvents(t *testing.T) {
	metricsManager := metrics.NewTestManager()

	events := make(chan auth.SessionEvent, 4)
	events <- auth.SessionEvent{UserID: 1, SignedIn: true}
	events <- auth.SessionEvent{UserID: 2, SignedIn: true}
	events <- auth.SessionEvent{UserID: 1, SignedIn: false}
	close(events)

	consumeSessionEvents(events, metricsManager)

	assert.Equal(t, float64(2), testutil.ToFloat64(metricsManager.CounterSessionsStarted))
	assert.Equal(t, float64(1), testutil.ToFloat64(metricsManager.CounterSessionsEnded))
}
