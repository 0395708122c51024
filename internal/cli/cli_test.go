package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDocument = `{
  "تهران": {"001": "تهران مرکزی", "049": "شمیرانات"},
  "037": "قم",
  "قم": {"037": "قم جدید"}
}`

func writeDataset(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "codes.json")
	require.NoError(t, os.WriteFile(path, []byte(testDocument), 0o600))
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("BIRTHPLACE_CONFIG", "")
	t.Setenv("BIRTHPLACE_DATASET__SOURCE", "")

	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--dataset-source", "file", "--dataset-path", writeDataset(t)}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), err
}

func TestValidateJSON(t *testing.T) {
	out, err := run(t, "-o", "json", "validate", "0012345679", "0012345678", "9990000001", "12345")
	require.NoError(t, err)

	var rows []validateRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 4)

	assert.True(t, rows[0].IsValid)
	assert.Equal(t, "001", rows[0].Prefix)
	assert.Equal(t, "تهران مرکزی", rows[0].Birthplace)
	assert.Equal(t, "تهران", rows[0].Province)

	assert.False(t, rows[1].IsValid)
	assert.Equal(t, "invalid_checksum", rows[1].Outcome)
	assert.Contains(t, rows[1].Detail, "Expected control digit: 9.")

	assert.Equal(t, "prefix_not_found", rows[2].Outcome)
	assert.Equal(t, "Birthplace Code Not Found", rows[2].Status)

	assert.Equal(t, "Malformed Input", rows[3].Status)
	assert.Equal(t, "The national code must be exactly 10 digits long.", rows[3].Detail)
}

func TestValidatePersianDigits(t *testing.T) {
	out, err := run(t, "-o", "json", "validate", "۰۰۱۲۳۴۵۶۷۹")
	require.NoError(t, err)

	var rows []validateRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.True(t, rows[0].IsValid)
	assert.Equal(t, "0012345679", rows[0].NationalCode)
}

func TestValidateStrict(t *testing.T) {
	_, err := run(t, "validate", "--strict", "0012345679")
	require.NoError(t, err)

	_, err = run(t, "validate", "--strict", "0012345679", "0012345678")
	assert.ErrorIs(t, err, ErrInvalidCodes)
}

func TestValidateTable(t *testing.T) {
	out, err := run(t, "validate", "0012345679")
	require.NoError(t, err)
	assert.Contains(t, out, "National Code is Valid")
	assert.Contains(t, out, "تهران مرکزی")
}

func TestLookup(t *testing.T) {
	out, err := run(t, "-o", "json", "lookup", "049")
	require.NoError(t, err)

	var row lookupRow
	require.NoError(t, json.Unmarshal([]byte(out), &row))
	assert.Equal(t, lookupRow{Prefix: "049", Birthplace: "شمیرانات", Province: "تهران"}, row)

	_, err = run(t, "lookup", "999")
	assert.ErrorContains(t, err, "not found")

	_, err = run(t, "lookup", "01")
	assert.ErrorContains(t, err, "must be 3 digits")
}

func TestLookupFirstOccurrenceWins(t *testing.T) {
	out, err := run(t, "-o", "json", "lookup", "037")
	require.NoError(t, err)

	var row lookupRow
	require.NoError(t, json.Unmarshal([]byte(out), &row))
	assert.Equal(t, "قم", row.Birthplace)
	assert.Empty(t, row.Province)
}

func TestDatasetTableMarksShadowed(t *testing.T) {
	out, err := run(t, "dataset")
	require.NoError(t, err)
	assert.Contains(t, out, "shadowed")
	// go-pretty upper-cases footers
	assert.Contains(t, strings.ToLower(out), "4 entries")
}

func TestDatasetJSONIsDocumentForm(t *testing.T) {
	out, err := run(t, "-o", "json", "dataset")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "قم", doc["037"])
	assert.Equal(t, map[string]any{"001": "تهران مرکزی", "049": "شمیرانات"}, doc["تهران"])
}

func TestDatasetPushNeedsRedis(t *testing.T) {
	t.Setenv("BIRTHPLACE_REDIS__URL", "")
	_, err := run(t, "dataset", "push")
	assert.ErrorContains(t, err, "redis.url is not configured")
}

func TestInvalidOutput(t *testing.T) {
	_, err := run(t, "-o", "yaml", "validate", "0012345679")
	assert.ErrorContains(t, err, "invalid --output")
}

func TestVersion(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "nidctl v"+Version+"\n", out)
}
