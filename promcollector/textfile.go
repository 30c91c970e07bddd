package promcollector

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile gathers g and writes it atomically to path in the text
// exposition format read by the node_exporter textfile collector.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	if err := prometheus.WriteToTextfile(path, g); err != nil {
		return fmt.Errorf("write metrics textfile %s: %w", path, err)
	}
	return nil
}
