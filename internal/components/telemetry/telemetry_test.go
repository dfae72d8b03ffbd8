package telemetry

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestScopedAPI(t *testing.T) {
	tel := NewTestAPI()
	scoped := NewScopedAPI("jkanime_scraper", tel)

	scoped.ReportBroken("client.get-recent", "fetch failed")
	scoped.ReportWarning("client.get-episode-streams", 2)
	scoped.ReportCount("client.get-episode-streams.skipped", 3)

	require.Len(t, tel.Broken, 1)
	require.Equal(t, "jkanime_scraper: client.get-recent", tel.Broken[0].Id)
	require.Equal(t, []any{"fetch failed"}, tel.Broken[0].Params)

	require.Len(t, tel.WarningsWithSuffix("client.get-episode-streams"), 1)
	require.Equal(t, int64(3), tel.Counts["jkanime_scraper: client.get-episode-streams.skipped"])
}

func TestMultiAPI(t *testing.T) {
	a := NewTestAPI()
	b := NewTestAPI()
	multi := MultiAPI{a, b}

	multi.ReportBroken("x")
	multi.ReportDebug("y", 1)

	require.Len(t, a.Broken, 1)
	require.Len(t, b.Broken, 1)
	require.Len(t, a.Debug, 1)
	require.Len(t, b.Debug, 1)
}

type memoryOutput struct {
	mutex    sync.Mutex
	messages map[string]string
}

func (m *memoryOutput) Write(id string, contents string) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.messages[id] = contents
}

func TestInstrumentResty(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("<html>ok</html>"))
	}))
	defer server.Close()

	tel := NewTestAPI()
	out := &memoryOutput{messages: map[string]string{}}

	client := resty.New()
	InstrumentResty(client, tel, out)

	res, err := client.R().Get(server.URL + "/")
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, res.StatusCode())

	res, err = client.R().Get(server.URL + "/missing")
	require.NoError(t, err)
	require.Equal(t, http.StatusNotFound, res.StatusCode())

	require.Len(t, out.messages, 2)
	require.True(t, strings.Contains(out.messages["1"], "<html>ok</html>"))
	require.True(t, strings.Contains(out.messages["2"], "404"))

	var requests int
	for _, r := range tel.Debug {
		if r.Id == report_resty_request {
			requests++
		}
	}
	require.Equal(t, 2, requests)
	require.Empty(t, tel.Broken)
}

func TestInstrumentRestyTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	tel := NewTestAPI()
	client := resty.New()
	InstrumentResty(client, tel, nil)

	_, err := client.R().Get(url)
	require.Error(t, err)
	require.Len(t, tel.BrokenWithSuffix(report_resty_response), 1)
}

func TestOtelAPI(t *testing.T) {
	reader := metric.NewManualReader()
	otel.SetMeterProvider(metric.NewMeterProvider(metric.WithReader(reader)))

	api, err := NewOtelAPI("telemetry_test")
	require.NoError(t, err)

	api.ReportBroken("client.search", errors.New("boom"))
	api.ReportBroken("client.search")
	api.ReportWarning("client.get-episode-streams")
	api.ReportCount("client.get-episode-streams.skipped-frames", 3)
	api.ReportDebug("ignored")

	var collected metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &collected))

	found := map[string]metricdata.Aggregation{}
	for _, scope := range collected.ScopeMetrics {
		for _, m := range scope.Metrics {
			found[m.Name] = m.Data
		}
	}

	broken, ok := found["broken_components"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, broken.DataPoints, 1)
	require.Equal(t, int64(2), broken.DataPoints[0].Value)

	warnings, ok := found["warnings"].(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, warnings.DataPoints, 1)
	require.Equal(t, int64(1), warnings.DataPoints[0].Value)

	counts, ok := found["counts"].(metricdata.Gauge[int64])
	require.True(t, ok)
	require.Len(t, counts.DataPoints, 1)
	require.Equal(t, int64(3), counts.DataPoints[0].Value)
}
