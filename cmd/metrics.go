package cmd

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/push"
)

// pushMetrics sends the default registry to a Prometheus Pushgateway,
// grouped by run so that consecutive runs do not overwrite each other.
func pushMetrics(url, job, runID string) error {
	err := push.New(url, job).
		Grouping("run_id", runID).
		Gatherer(prometheus.DefaultGatherer).
		Push()
	if err != nil {
		return fmt.Errorf("push metrics to %s: %w", url, err)
	}
	return nil
}
