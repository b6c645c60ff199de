// ABOUTME: Tests for Prometheus instruments
// ABOUTME: Checks counters move when observed
package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestTransformsTotal(t *testing.T) {
	before := testutil.ToFloat64(TransformsTotal.WithLabelValues("shrink"))
	TransformsTotal.WithLabelValues("shrink").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(TransformsTotal.WithLabelValues("shrink")))
}

func TestFramesCounters(t *testing.T) {
	before := testutil.ToFloat64(FramesProcessedTotal)
	FramesProcessedTotal.Add(480)
	assert.Equal(t, before+480, testutil.ToFloat64(FramesProcessedTotal))
}
