package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_ObserveOperation(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("soa_test", reg)

	c.ObserveOperation("parquet", "save", 2*time.Millisecond, nil)
	c.ObserveOperation("parquet", "save", time.Millisecond, nil)
	c.ObserveOperation("parquet", "load", time.Millisecond, errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(c.operations.WithLabelValues("parquet", "save", StatusSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("parquet", "load", StatusFailure)))
	assert.Equal(t, 0.0, testutil.ToFloat64(c.operations.WithLabelValues("memory", "save", StatusSuccess)))

	count, err := testutil.GatherAndCount(reg, "soa_test_persistence_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestCollector_Gauges(t *testing.T) {
	c := NewCollector("soa_test", prometheus.NewRegistry())

	c.SetRows("memory", 10)
	c.SetRows("memory", 4)
	c.SetBytes("memory", 4096)

	assert.Equal(t, 4.0, testutil.ToFloat64(c.rows.WithLabelValues("memory")))
	assert.Equal(t, 4096.0, testutil.ToFloat64(c.bytes.WithLabelValues("memory")))
}

func TestCollector_Nil(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveOperation("memory", "save", time.Second, nil)
		c.SetRows("memory", 1)
		c.SetBytes("memory", 1)
	})
}

func TestCollector_UnregisteredRegistry(t *testing.T) {
	c := NewCollector("soa_test", nil)
	c.ObserveOperation("memory", "count", time.Microsecond, nil)
	assert.Equal(t, 1.0, testutil.ToFloat64(c.operations.WithLabelValues("memory", "count", StatusSuccess)))
}

func TestTimer(t *testing.T) {
	timer := NewTimer("op")
	time.Sleep(time.Millisecond)
	first := timer.Stop()
	assert.GreaterOrEqual(t, first, time.Millisecond)
	assert.GreaterOrEqual(t, timer.Stop(), first)
	assert.Equal(t, "op", timer.Name())
}
