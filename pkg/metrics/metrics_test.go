package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordCompile(t *testing.T) {
	r := NewRegistry(DefaultConfig())

	r.RecordCompile(nil)
	r.RecordCompile(nil)
	r.RecordCompile(errors.New("bad query"))

	assert.Equal(t, 2.0, testutil.ToFloat64(r.compilesTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.compilesTotal.WithLabelValues("error")))
}

func TestRecordEvaluation(t *testing.T) {
	r := NewRegistry(DefaultConfig())

	r.RecordEvaluation(true, nil, 10*time.Microsecond)
	r.RecordEvaluation(false, nil, 10*time.Microsecond)
	r.RecordEvaluation(false, errors.New("script failed"), time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.evaluationsTotal.WithLabelValues("match")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.evaluationsTotal.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.evaluationsTotal.WithLabelValues("error")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.evalDuration))
}

func TestRecordWhere(t *testing.T) {
	r := NewRegistry(DefaultConfig())

	r.RecordWhere(nil)
	r.RecordWhere(errors.New("boom"))

	assert.Equal(t, 1.0, testutil.ToFloat64(r.whereEvalsTotal.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.whereEvalsTotal.WithLabelValues("error")))
}

func TestNamespaceOverride(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Namespace = "custom"
	r := NewRegistry(cfg)

	r.RecordCompile(nil)
	families, err := r.PrometheusRegistry().Gather()
	require.NoError(t, err)
	require.NotEmpty(t, families)
	assert.Contains(t, families[0].GetName(), "custom_query_")
}

func TestGlobal(t *testing.T) {
	assert.Same(t, Global(), Global())
}
