package service_test

import (
	"github.com/roomvista/decor-services/visualizer/internal/metrics"
)

// promauto registers collectors globally, so the whole package shares one
// instance.
var testMetrics = metrics.NewMetrics()
