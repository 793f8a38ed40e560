// Package firestore implements domain.NumberStore against the Firestore
// REST documents API. Records live in one collection keyed by country code.
package firestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/onetapcall/emergency-resolver/internal/domain"
	"github.com/onetapcall/emergency-resolver/internal/observability"
)

// listPageSize comfortably covers the full directory in one page.
const listPageSize = 300

// Client is a Firestore REST number store.
type Client struct {
	project    string
	database   string
	collection string
	apiKey     string
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a Firestore number store client. The API key is optional
// and only needed when the database rules require one.
func NewClient(project, database, collection, apiKey string, timeout time.Duration, logger *slog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		project:    project,
		database:   database,
		collection: collection,
		apiKey:     apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://firestore.googleapis.com/v1",
		logger:  logger,
		metrics: metrics,
	}
}

// GetAll returns every record in the collection.
func (c *Client) GetAll(ctx context.Context) ([]domain.CountryRecord, error) {
	var listResp listResponse
	err := c.do(ctx, "get_all", http.MethodGet, c.collectionURL()+"?pageSize="+fmt.Sprint(listPageSize), nil, &listResp)
	if err != nil {
		return nil, err
	}

	records := make([]domain.CountryRecord, 0, len(listResp.Documents))
	for _, doc := range listResp.Documents {
		records = append(records, doc.Fields.toRecord())
	}
	return records, nil
}

// GetByCountry returns one country's record, or ErrRecordNotFound.
func (c *Client) GetByCountry(ctx context.Context, countryCode string) (domain.CountryRecord, error) {
	var doc document
	err := c.do(ctx, "get_by_country", http.MethodGet, c.documentURL(countryCode), nil, &doc)
	if err != nil {
		return domain.CountryRecord{}, err
	}
	return doc.Fields.toRecord(), nil
}

// PutAll upserts records one document per country and returns how many were
// written before the first failure.
func (c *Client) PutAll(ctx context.Context, records []domain.CountryRecord) (int, error) {
	for i, rec := range records {
		body, err := json.Marshal(document{Fields: fromRecord(rec)})
		if err != nil {
			return i, fmt.Errorf("encode record %s: %w", rec.CountryCode, err)
		}
		if err := c.do(ctx, "put_all", http.MethodPatch, c.documentURL(rec.CountryCode), body, nil); err != nil {
			return i, fmt.Errorf("seed %s: %w", rec.CountryCode, err)
		}
	}
	return len(records), nil
}

func (c *Client) collectionURL() string {
	return fmt.Sprintf("%s/projects/%s/databases/%s/documents/%s",
		c.baseURL, c.project, url.PathEscape(c.database), url.PathEscape(c.collection))
}

func (c *Client) documentURL(docID string) string {
	return c.collectionURL() + "/" + url.PathEscape(docID)
}

func (c *Client) do(ctx context.Context, op, method, fullURL string, body []byte, out any) error {
	if c.apiKey != "" {
		sep := "?"
		if strings.Contains(fullURL, "?") {
			sep = "&"
		}
		fullURL += sep + "key=" + url.QueryEscape(c.apiKey)
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RemoteDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.RemoteRequests.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("%w: %s: %v", domain.ErrRemoteUnreachable, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		c.metrics.RemoteRequests.WithLabelValues(op, "not_found").Inc()
		return domain.ErrRecordNotFound
	}
	if resp.StatusCode != http.StatusOK {
		c.metrics.RemoteRequests.WithLabelValues(op, "error").Inc()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%w: %s: status %d: %s", domain.ErrRemoteUnreachable, op, resp.StatusCode, msg)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			c.metrics.RemoteRequests.WithLabelValues(op, "error").Inc()
			return fmt.Errorf("%w: %s: decode response: %v", domain.ErrRemoteUnreachable, op, err)
		}
	}

	c.metrics.RemoteRequests.WithLabelValues(op, "success").Inc()
	return nil
}

// Firestore REST document types. Firestore wraps every field in a typed
// value object.

type listResponse struct {
	Documents []document `json:"documents"`
}

type document struct {
	Name   string       `json:"name,omitempty"`
	Fields recordFields `json:"fields"`
}

type recordFields struct {
	Country     stringValue  `json:"country"`
	CountryCode stringValue  `json:"countryCode"`
	Services    mapValue     `json:"services"`
	Unified     *stringValue `json:"unified,omitempty"`
}

type stringValue struct {
	StringValue string `json:"stringValue"`
}

type mapValue struct {
	MapValue struct {
		Fields serviceFields `json:"fields"`
	} `json:"mapValue"`
}

type serviceFields struct {
	Police  stringValue `json:"police"`
	Fire    stringValue `json:"fire"`
	Medical stringValue `json:"medical"`
}

func (f recordFields) toRecord() domain.CountryRecord {
	rec := domain.CountryRecord{
		Country:     f.Country.StringValue,
		CountryCode: f.CountryCode.StringValue,
		Services: domain.ServiceNumbers{
			Police:  f.Services.MapValue.Fields.Police.StringValue,
			Fire:    f.Services.MapValue.Fields.Fire.StringValue,
			Medical: f.Services.MapValue.Fields.Medical.StringValue,
		},
	}
	if f.Unified != nil {
		rec.Unified = f.Unified.StringValue
	}
	return rec
}

func fromRecord(rec domain.CountryRecord) recordFields {
	f := recordFields{
		Country:     stringValue{rec.Country},
		CountryCode: stringValue{rec.CountryCode},
	}
	f.Services.MapValue.Fields = serviceFields{
		Police:  stringValue{rec.Services.Police},
		Fire:    stringValue{rec.Services.Fire},
		Medical: stringValue{rec.Services.Medical},
	}
	if rec.Unified != "" {
		f.Unified = &stringValue{rec.Unified}
	}
	return f
}
