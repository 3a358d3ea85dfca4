package wiremodel_test

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wm "github.com/reoring/wiremodel"
)

func TestSlogDiagnostics(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))
	m, err := wm.NewMapper(fixtureRegistry(t), wm.WithDiagnostics(wm.SlogDiagnostics(logger)))
	require.NoError(t, err)

	_, err = m.Decode(map[string]any{"databaseType": "LEGACY"}, "Connection")
	require.NoError(t, err)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "WARN", rec["level"])
	assert.Equal(t, "enum_substituted", rec["event"])
	assert.Equal(t, "Connection", rec["schema"])
	assert.Equal(t, "database_type", rec["field"])
	assert.Equal(t, "/databaseType", rec["path"])
	assert.Equal(t, "LEGACY", rec["value"])
}

func TestDiagnosticsFunc(t *testing.T) {
	var kinds []wm.EventKind
	m, err := wm.NewMapper(fixtureRegistry(t), wm.WithDiagnostics(wm.DiagnosticsFunc(func(e wm.Event) {
		kinds = append(kinds, e.Kind)
	})))
	require.NoError(t, err)
	_, err = m.Decode(map[string]any{"kind": "?"}, "Rule")
	require.NoError(t, err)
	assert.Equal(t, []wm.EventKind{wm.EventDiscriminatorFallback}, kinds)
	assert.Equal(t, "discriminator_fallback", kinds[0].String())
}

func TestMapper_ConcurrentUse(t *testing.T) {
	m, diag := fixtureMapper(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				x, err := m.Decode(map[string]any{"databaseType": "NEW", "port": j}, "Connection")
				if !assert.NoError(t, err) {
					return
				}
				_, err = m.Serialize(x)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 8*50, diag.Len())
}

func TestWithDiagnosticsNil(t *testing.T) {
	m, err := wm.NewMapper(fixtureRegistry(t), wm.WithDiagnostics(nil))
	require.NoError(t, err)
	_, err = m.Decode(map[string]any{"databaseType": "LEGACY"}, "Connection")
	assert.NoError(t, err)
}
