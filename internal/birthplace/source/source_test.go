package source

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nidgate/internal/birthplace"
	"nidgate/internal/birthplace/metrics"
	"nidgate/pkg/platform/sentinel"
)

type stubSource struct {
	entries []birthplace.Entry
	err     error
}

func (s stubSource) Name() string { return "stub" }

func (s stubSource) Load(context.Context) ([]birthplace.Entry, error) {
	return s.entries, s.err
}

func newTestLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestLoadDegradesToEmptyDataset(t *testing.T) {
	logger, buf := newTestLogger()
	m := metrics.New(prometheus.NewRegistry())

	dataset := Load(context.Background(), stubSource{err: errors.New("disk on fire")}, logger, m)

	require.NotNil(t, dataset)
	assert.True(t, dataset.IsEmpty())
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "disk on fire")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DatasetLoadFailures.WithLabelValues("stub")))
}

func TestLoadWarnsAboutShadowedPrefixes(t *testing.T) {
	logger, buf := newTestLogger()
	m := metrics.New(prometheus.NewRegistry())
	src := stubSource{entries: []birthplace.Entry{
		{Prefix: "031", Province: "Alborz", City: "Karaj"},
		{Prefix: "031", Province: "Tehran", City: "Shemiranat"},
	}}

	dataset := Load(context.Background(), src, logger, m)

	loc, ok := dataset.Resolve("031")
	require.True(t, ok)
	assert.Equal(t, "Karaj", loc.City)
	assert.Contains(t, buf.String(), "level=WARN")
	assert.Contains(t, buf.String(), "duplicate birthplace prefix ignored")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.DatasetEntries.WithLabelValues("stub")))
}

func TestFileSource(t *testing.T) {
	dir := t.TempDir()

	t.Run("reads two-level document", func(t *testing.T) {
		path := filepath.Join(dir, "codes.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"تهران": {"001": "تهران مرکزی"}, "قم": {"037": "قم"}}`), 0o600))

		entries, err := NewFileSource(path).Load(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []birthplace.Entry{
			{Prefix: "001", Province: "تهران", City: "تهران مرکزی"},
			{Prefix: "037", Province: "قم", City: "قم"},
		}, entries)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := NewFileSource(filepath.Join(dir, "absent.json")).Load(context.Background())
		assert.ErrorIs(t, err, sentinel.ErrNotFound)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"001": [1, 2]}`), 0o600))
		_, err := NewFileSource(path).Load(context.Background())
		assert.ErrorIs(t, err, sentinel.ErrMalformed)
	})

	t.Run("missing file degrades through Load", func(t *testing.T) {
		logger, _ := newTestLogger()
		dataset := Load(context.Background(), NewFileSource(filepath.Join(dir, "absent.json")), logger, nil)
		assert.True(t, dataset.IsEmpty())
	})
}

func TestBundledDatasetParses(t *testing.T) {
	entries, err := NewFileSource(filepath.Join("..", "..", "..", "data", "national_codes.json")).Load(context.Background())
	require.NoError(t, err)

	dataset := birthplace.NewDataset(entries)
	assert.True(t, dataset.HasProvinces())
	assert.Empty(t, dataset.Shadowed())
	loc, ok := dataset.Resolve("001")
	require.True(t, ok)
	assert.Equal(t, "تهران", loc.Province)
}
