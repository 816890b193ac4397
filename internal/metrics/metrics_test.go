package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHandlerExposesRecordedSeries(t *testing.T) {
	RecordStoreOp("memory", "save", nil)
	RecordStoreOp("memory", "load", errors.New("boom"))
	RecordEnrichment("ok", 120*time.Millisecond)
	RecordHTTPRequest(http.MethodGet, "/api/apps", http.StatusOK, time.Millisecond)
	RecordPersistFailure()

	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	body, _ := io.ReadAll(rec.Body)
	for _, want := range []string{
		`vibestation_store_operations_total{backend="memory",op="save",result="ok"}`,
		`vibestation_store_operations_total{backend="memory",op="load",result="error"}`,
		`vibestation_enrich_calls_total{result="ok"}`,
		`vibestation_http_requests_total{method="GET",route="/api/apps",status="200"}`,
		`vibestation_catalog_persist_failures_total`,
	} {
		if !strings.Contains(string(body), want) {
			t.Fatalf("expected metrics output to contain %s", want)
		}
	}
}
