package bookstore

import (
	"fmt"
	"io"
	"time"

	"github.com/VictoriaMetrics/metrics"
)

var operationMetrics = metrics.NewSet()

// observe records one store operation. It is meant to be deferred with a
// pointer to the named error result.
func observe(op string, start time.Time, err *error) {
	operationMetrics.GetOrCreateCounter(fmt.Sprintf(`bookstore_operations_total{op=%q}`, op)).Inc()
	if err != nil && *err != nil {
		operationMetrics.GetOrCreateCounter(fmt.Sprintf(`bookstore_operation_errors_total{op=%q}`, op)).Inc()
	}
	operationMetrics.GetOrCreateSummary(fmt.Sprintf(`bookstore_operation_duration_seconds{op=%q}`, op)).UpdateDuration(start)
}

// WriteMetrics writes the operation metrics in Prometheus text format.
func WriteMetrics(w io.Writer) {
	operationMetrics.WritePrometheus(w)
}
