package whiteboard

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/Carmen-Shannon/oxy-classroom/engine/whiteboard"

func meter() metric.Meter {
	return otel.Meter(instrumentationName)
}
