package metrics

import coremetrics "github.com/haulware/routeopt/core/metrics"

// MultiSink fans batch results out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordBatch forwards the record to all sinks, returning the first error
// encountered.
func (m *MultiSink) RecordBatch(res coremetrics.BatchResult) error {
	for _, s := range m.Sinks {
		if err := s.RecordBatch(res); err != nil {
			return err
		}
	}
	return nil
}
