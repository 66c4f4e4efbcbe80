package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statline/nginx-exporter/internal/status"
	"github.com/statline/nginx-exporter/internal/upstream"
)

type fakeFetcher struct {
	body string
	err  error
}

func (f *fakeFetcher) Fetch(ctx context.Context) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.body, nil
}

const stubStatusBody = "Active connections: 5 \n5 120 120 \nReading: 0 Writing: 1 Waiting: 4 \n"

func newTable(t *testing.T) *status.Table {
	t.Helper()
	table, err := status.NewTable(status.DefaultDescriptors())
	require.NoError(t, err)
	return table
}

func scrape(t *testing.T, h *MetricsHandler) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Scrape(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec
}

// familyOrder extracts metric family names from TYPE comment lines.
func familyOrder(body string) []string {
	var names []string
	for _, line := range strings.Split(body, "\n") {
		if name, ok := strings.CutPrefix(line, "# TYPE "); ok {
			names = append(names, strings.Fields(name)[0])
		}
	}
	return names
}

func TestMetricsHandlerScrape(t *testing.T) {
	t.Run("Should serve encoded snapshot with exposition content type", func(t *testing.T) {
		h := NewMetricsHandler(&fakeFetcher{body: stubStatusBody}, newTable(t), false)
		rec := scrape(t, h)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, status.ContentType, rec.Header().Get("Content-Type"))
		assert.Contains(t, rec.Body.String(), "nginx_connections_active 5\n")
		assert.Contains(t, rec.Body.String(), "nginx_http_requests_total 120\n")
	})

	t.Run("Should emit families in descriptor declaration order", func(t *testing.T) {
		table := newTable(t)
		h := NewMetricsHandler(&fakeFetcher{body: stubStatusBody}, table, false)
		rec := scrape(t, h)

		require.Equal(t, http.StatusOK, rec.Code)

		var want []string
		for _, d := range table.Descriptors() {
			want = append(want, d.Name)
		}
		assert.Equal(t, want, familyOrder(rec.Body.String()))
	})

	t.Run("Should append exporter telemetry after the nginx families", func(t *testing.T) {
		h := NewMetricsHandler(&fakeFetcher{body: stubStatusBody}, newTable(t), true)
		rec := scrape(t, h)

		require.Equal(t, http.StatusOK, rec.Code)
		body := rec.Body.String()
		assert.Contains(t, body, "nginx_exporter_scrapes_total")
		assert.Less(t,
			strings.Index(body, "nginx_connections_waiting"),
			strings.Index(body, "nginx_exporter_scrapes_total"))
	})

	t.Run("Should return 502 when the upstream times out", func(t *testing.T) {
		h := NewMetricsHandler(&fakeFetcher{err: upstream.ErrTimeout}, newTable(t), false)
		rec := scrape(t, h)

		require.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "timeout")
	})

	t.Run("Should return 502 when the upstream is unreachable", func(t *testing.T) {
		h := NewMetricsHandler(&fakeFetcher{err: upstream.ErrUnreachable}, newTable(t), false)
		rec := scrape(t, h)

		require.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("Should return 502 on malformed upstream payload", func(t *testing.T) {
		h := NewMetricsHandler(&fakeFetcher{body: "<html>not a status page</html>"}, newTable(t), false)
		rec := scrape(t, h)

		require.Equal(t, http.StatusBadGateway, rec.Code)
		assert.Contains(t, rec.Body.String(), "malformed")
	})

	t.Run("Should return 502 on empty upstream payload", func(t *testing.T) {
		h := NewMetricsHandler(&fakeFetcher{body: ""}, newTable(t), false)
		rec := scrape(t, h)

		require.Equal(t, http.StatusBadGateway, rec.Code)
	})

	t.Run("Should keep concurrent scrapes independent and ordered", func(t *testing.T) {
		table := newTable(t)
		h := NewMetricsHandler(&fakeFetcher{body: stubStatusBody}, table, false)

		var want []string
		for _, d := range table.Descriptors() {
			want = append(want, d.Name)
		}

		var wg sync.WaitGroup
		results := make([]*httptest.ResponseRecorder, 8)
		for i := range results {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				rec := httptest.NewRecorder()
				h.Scrape(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
				results[i] = rec
			}(i)
		}
		wg.Wait()

		for _, rec := range results {
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, want, familyOrder(rec.Body.String()))
		}
	})

	t.Run("Should recover after a failed scrape", func(t *testing.T) {
		f := &fakeFetcher{err: upstream.ErrUnreachable}
		h := NewMetricsHandler(f, newTable(t), false)

		require.Equal(t, http.StatusBadGateway, scrape(t, h).Code)

		f.err = nil
		f.body = stubStatusBody
		require.Equal(t, http.StatusOK, scrape(t, h).Code)
	})
}
