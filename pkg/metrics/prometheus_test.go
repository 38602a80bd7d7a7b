package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecorder(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewWithRegisterer(reg)

	r.RecordAnalysis("research", "hurst", 0.2)
	r.RecordAnalysis("research", "hurst", 0.4)
	r.RecordError("analyse", "data_too_short")
	r.RecordCache("hit")
	r.RecordCache("miss")
	r.RecordCache("hit")

	assert.Equal(t, 2.0, testutil.ToFloat64(r.analysisTotal.WithLabelValues("research", "hurst")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.errorsTotal.WithLabelValues("analyse", "data_too_short")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.cacheTotal.WithLabelValues("hit")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.duration))
}
