package promcollector

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector_Record(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	c.RecordStage("split", 10, 2*time.Millisecond, nil)
	c.RecordStage("split", 5, time.Millisecond, nil)
	c.RecordShard("user", 3, 7, 120, time.Millisecond, nil)
	c.RecordShard("user", 0, 0, 0, time.Millisecond, errors.New("disk full"))
	c.RecordRepairs(1, 2, 0, 1)

	assert.InDelta(t, 15, testutil.ToFloat64(c.stageItems.WithLabelValues("split")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.shards.WithLabelValues("user", "success")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.shards.WithLabelValues("user", "error")), 0)
	assert.InDelta(t, 120, testutil.ToFloat64(c.shardBytes.WithLabelValues("user")), 0)
	assert.InDelta(t, 7, testutil.ToFloat64(c.shardValues.WithLabelValues("user")), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(c.repairs.WithLabelValues("item")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.repairs.WithLabelValues("skipped")), 0)

	assert.Equal(t, 1, testutil.CollectAndCount(c.stageDuration))
}

func TestCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)

	_, err = New(reg)
	var are prometheus.AlreadyRegisteredError
	assert.ErrorAs(t, err, &are)
}

func TestCollector_NilRegisterer(t *testing.T) {
	c, err := New(nil)
	require.NoError(t, err)
	c.RecordRepairs(0, 0, 1, 0)
	assert.InDelta(t, 1, testutil.ToFloat64(c.repairs.WithLabelValues("word")), 0)
}

func TestWriteTextfile(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)
	c.RecordShard("word", 4, 9, 200, time.Millisecond, nil)

	path := filepath.Join(t.TempDir(), "bagtensor.prom")
	require.NoError(t, WriteTextfile(path, reg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), `bagtensor_shard_values_total{mode="word"} 9`))

	err = WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom"), reg)
	assert.Error(t, err)
}
