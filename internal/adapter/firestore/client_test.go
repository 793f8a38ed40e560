package firestore

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onetapcall/emergency-resolver/internal/domain"
	"github.com/onetapcall/emergency-resolver/internal/observability"
)

func testClient(baseURL string) *Client {
	return &Client{
		project:    "onetap-test",
		database:   "(default)",
		collection: "emergencyNumbers",
		apiKey:     "test-key",
		httpClient: &http.Client{Timeout: 5 * time.Second},
		baseURL:    baseURL,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:    observability.NewMetricsForTesting(),
	}
}

func usDocument() document {
	rec := domain.CountryRecord{
		Country:     "United States",
		CountryCode: "US",
		Unified:     "911",
		Services:    domain.ServiceNumbers{Police: "911", Fire: "911", Medical: "911"},
	}
	return document{Fields: fromRecord(rec)}
}

func TestGetByCountry_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Contains(t, r.URL.Path, "/projects/onetap-test/databases/(default)/documents/emergencyNumbers/US")
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))

		require.NoError(t, json.NewEncoder(w).Encode(usDocument()))
	}))
	defer srv.Close()

	rec, err := testClient(srv.URL).GetByCountry(context.Background(), "US")
	require.NoError(t, err)

	assert.Equal(t, "United States", rec.Country)
	assert.Equal(t, "US", rec.CountryCode)
	assert.Equal(t, "911", rec.Unified)
	assert.Equal(t, "911", rec.Services.Medical)
}

func TestGetByCountry_NotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":404,"status":"NOT_FOUND"}}`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetByCountry(context.Background(), "ZZ")
	require.ErrorIs(t, err, domain.ErrRecordNotFound)
}

func TestGetByCountry_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetByCountry(context.Background(), "US")
	require.ErrorIs(t, err, domain.ErrRemoteUnreachable)
}

func TestGetByCountry_MalformedJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"fields": [`))
	}))
	defer srv.Close()

	_, err := testClient(srv.URL).GetByCountry(context.Background(), "US")
	require.ErrorIs(t, err, domain.ErrRemoteUnreachable)
}

func TestGetByCountry_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {}))
	srv.Close() // refuse from the start

	_, err := testClient(srv.URL).GetByCountry(context.Background(), "US")
	require.ErrorIs(t, err, domain.ErrRemoteUnreachable)
}

func TestGetAll_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "300", r.URL.Query().Get("pageSize"))
		require.NoError(t, json.NewEncoder(w).Encode(listResponse{
			Documents: []document{usDocument()},
		}))
	}))
	defer srv.Close()

	records, err := testClient(srv.URL).GetAll(context.Background())
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "US", records[0].CountryCode)
}

func TestGetAll_EmptyCollection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	records, err := testClient(srv.URL).GetAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestPutAll_WritesEachRecord(t *testing.T) {
	var patched []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		patched = append(patched, r.URL.Path)

		var doc document
		require.NoError(t, json.NewDecoder(r.Body).Decode(&doc))
		assert.NotEmpty(t, doc.Fields.CountryCode.StringValue)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	records := []domain.CountryRecord{
		{Country: "United States", CountryCode: "US", Unified: "911",
			Services: domain.ServiceNumbers{Police: "911", Fire: "911", Medical: "911"}},
		{Country: "China", CountryCode: "CN",
			Services: domain.ServiceNumbers{Police: "110", Fire: "119", Medical: "120"}},
	}

	n, err := testClient(srv.URL).PutAll(context.Background(), records)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	require.Len(t, patched, 2)
	assert.Contains(t, patched[0], "/US")
	assert.Contains(t, patched[1], "/CN")
}

func TestPutAll_StopsAtFirstFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls > 1 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	records := []domain.CountryRecord{
		{Country: "A", CountryCode: "AA", Services: domain.ServiceNumbers{Police: "1", Fire: "1", Medical: "1"}},
		{Country: "B", CountryCode: "BB", Services: domain.ServiceNumbers{Police: "2", Fire: "2", Medical: "2"}},
		{Country: "C", CountryCode: "CC", Services: domain.ServiceNumbers{Police: "3", Fire: "3", Medical: "3"}},
	}

	n, err := testClient(srv.URL).PutAll(context.Background(), records)
	require.Error(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, err.Error(), "BB")
}

func TestRecordFieldsRoundTrip(t *testing.T) {
	tests := []domain.CountryRecord{
		{Country: "United States", CountryCode: "US", Unified: "911",
			Services: domain.ServiceNumbers{Police: "911", Fire: "911", Medical: "911"}},
		{Country: "China", CountryCode: "CN",
			Services: domain.ServiceNumbers{Police: "110", Fire: "119", Medical: "120"}},
	}
	for _, want := range tests {
		got := fromRecord(want).toRecord()
		assert.Empty(t, cmp.Diff(want, got))
	}
}
