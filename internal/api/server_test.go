package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v5"

	"github.com/samcharles93/flowfairy/internal/fcstest"
)

func newTestEcho(cfg Config) *echo.Echo {
	server := NewServer(NewDatasetStore(), cfg)
	e := echo.New()
	server.Register(e)
	return e
}

func do(t *testing.T, e *echo.Echo, method, path string, body []byte) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set(echo.HeaderContentType, "application/octet-stream")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func sampleUpload(t *testing.T) []byte {
	t.Helper()
	im := fcstest.Float(t, []string{"FSC-A", "SSC-A"}, [][]float64{
		{1, 2, 3, 4, 5},
		{10, 20, 30, 40, 50},
	})
	return im.Bytes()
}

func TestDatasetLifecycle(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{})
	upload := sampleUpload(t)

	createRec := do(t, e, http.MethodPost, "/v1/datasets?name=tube1.fcs", upload)
	if createRec.Code != http.StatusCreated {
		t.Fatalf("create status: got %d body=%s", createRec.Code, createRec.Body.String())
	}
	created := decodeBody[Dataset](t, createRec)
	if !strings.HasPrefix(created.ID, "ds_") {
		t.Fatalf("unexpected id %q", created.ID)
	}
	if created.Name != "tube1.fcs" || created.Events != 5 || created.Version != "FCS3.1" || created.Bytes != len(upload) {
		t.Fatalf("unexpected dataset: %+v", created)
	}
	if len(created.Parameters) != 2 || created.Parameters[1].ID != "SSC-A" || created.Parameters[1].Stats.Mean != 30 {
		t.Fatalf("unexpected parameters: %+v", created.Parameters)
	}
	if created.Header == nil || created.Header.TextStart != 64 {
		t.Fatalf("unexpected header: %+v", created.Header)
	}

	getRec := do(t, e, http.MethodGet, "/v1/datasets/"+created.ID, nil)
	if getRec.Code != http.StatusOK {
		t.Fatalf("get status: got %d", getRec.Code)
	}
	if got := decodeBody[Dataset](t, getRec); got.ID != created.ID {
		t.Fatalf("get returned %q", got.ID)
	}

	listRec := do(t, e, http.MethodGet, "/v1/datasets", nil)
	list := decodeBody[DatasetList](t, listRec)
	if len(list.Data) != 1 || list.Data[0].ID != created.ID {
		t.Fatalf("unexpected list: %+v", list)
	}

	delRec := do(t, e, http.MethodDelete, "/v1/datasets/"+created.ID, nil)
	if delRec.Code != http.StatusOK {
		t.Fatalf("delete status: got %d", delRec.Code)
	}
	if got := decodeBody[DeleteDatasetResp](t, delRec); !got.Deleted {
		t.Fatalf("delete response: %+v", got)
	}

	if rec := do(t, e, http.MethodGet, "/v1/datasets/"+created.ID, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("get after delete: got %d", rec.Code)
	}
	if rec := do(t, e, http.MethodDelete, "/v1/datasets/"+created.ID, nil); rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: got %d", rec.Code)
	}
}

func TestKeywordsEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{})
	created := decodeBody[Dataset](t, do(t, e, http.MethodPost, "/v1/datasets", sampleUpload(t)))

	rec := do(t, e, http.MethodGet, "/v1/datasets/"+created.ID+"/keywords?prefix=$P2", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	got := decodeBody[KeywordList](t, rec)
	if len(got.Data) != 5 {
		t.Fatalf("expected five $P2 keywords, got %+v", got.Data)
	}
	if got.Data[0].Key != "$P2N" || got.Data[0].Value != "SSC-A" {
		t.Fatalf("unexpected first keyword: %+v", got.Data[0])
	}
}

func TestEventsEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{})
	created := decodeBody[Dataset](t, do(t, e, http.MethodPost, "/v1/datasets", sampleUpload(t)))
	base := "/v1/datasets/" + created.ID + "/parameters/"

	tests := []struct {
		name   string
		path   string
		status int
		events []float64
	}{
		{"all", base + "2/events", http.StatusOK, []float64{10, 20, 30, 40, 50}},
		{"page", base + "1/events?offset=1&limit=2", http.StatusOK, []float64{2, 3}},
		{"past end", base + "1/events?offset=9", http.StatusOK, []float64{}},
		{"bad limit", base + "1/events?limit=-1", http.StatusBadRequest, nil},
		{"bad offset", base + "1/events?offset=x", http.StatusBadRequest, nil},
		{"index zero", base + "0/events", http.StatusNotFound, nil},
		{"index too large", base + "3/events", http.StatusNotFound, nil},
		{"unknown dataset", "/v1/datasets/ds_missing/parameters/1/events", http.StatusNotFound, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := do(t, e, http.MethodGet, tt.path, nil)
			if rec.Code != tt.status {
				t.Fatalf("status: got %d want %d body=%s", rec.Code, tt.status, rec.Body.String())
			}
			if tt.status != http.StatusOK {
				return
			}
			got := decodeBody[EventPage](t, rec)
			if got.Total != 5 {
				t.Fatalf("total: got %d", got.Total)
			}
			if len(got.Events) != len(tt.events) {
				t.Fatalf("events: got %v want %v", got.Events, tt.events)
			}
			for i := range tt.events {
				if got.Events[i] != tt.events[i] {
					t.Fatalf("events: got %v want %v", got.Events, tt.events)
				}
			}
		})
	}
}

func TestNonFiniteEvents(t *testing.T) {
	t.Parallel()

	e := newTestEcho(Config{})
	im := fcstest.Float(t, []string{"FSC-A", "SSC-A"}, [][]float64{
		{1, math.Inf(1), 3},
		{1, math.NaN(), 3},
	})

	rec := do(t, e, http.MethodPost, "/v1/datasets?name=odd.fcs", im.Bytes())
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status: got %d body=%s", rec.Code, rec.Body.String())
	}
	type rawDataset struct {
		ID         string `json:"id"`
		Parameters []struct {
			Summary map[string]any `json:"summary"`
		} `json:"parameters"`
	}
	created := decodeBody[rawDataset](t, rec)
	fsc, ssc := created.Parameters[0].Summary, created.Parameters[1].Summary
	if fsc["min"] != 1.0 || fsc["max"] != nil || fsc["mean"] != nil {
		t.Fatalf("FSC-A summary: %v", fsc)
	}
	if ssc["nan"] != 1.0 || ssc["mean"] != 2.0 || ssc["stddev"] != 1.0 {
		t.Fatalf("SSC-A summary: %v", ssc)
	}

	if rec := do(t, e, http.MethodGet, "/v1/datasets", nil); rec.Code != http.StatusOK {
		t.Fatalf("list status: got %d body=%s", rec.Code, rec.Body.String())
	}

	for index, want := range map[string][]any{"1": {1.0, nil, 3.0}, "2": {1.0, nil, 3.0}} {
		rec := do(t, e, http.MethodGet, "/v1/datasets/"+created.ID+"/parameters/"+index+"/events", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("events %s status: got %d body=%s", index, rec.Code, rec.Body.String())
		}
		page := decodeBody[struct {
			Events []any `json:"events"`
		}](t, rec)
		if len(page.Events) != len(want) {
			t.Fatalf("events %s: got %v want %v", index, page.Events, want)
		}
		for i := range want {
			if page.Events[i] != want[i] {
				t.Fatalf("events %s: got %v want %v", index, page.Events, want)
			}
		}
	}
}

func TestCreateDatasetErrors(t *testing.T) {
	t.Parallel()

	good := fcstest.Float(t, []string{"FSC-A"}, [][]float64{{1, 2}})
	unknown := good
	unknown.Keywords = fcstest.Set(good.Keywords, "$FOO", "bar")
	missing := good
	missing.Keywords = fcstest.Drop(good.Keywords, "$MODE")

	tests := []struct {
		name    string
		body    []byte
		status  int
		errType string
		keyword string
	}{
		{"empty body", nil, http.StatusBadRequest, errTypeInvalidRequest, ""},
		{"old version", []byte("FCS2.0    " + strings.Repeat(" ", 48)), http.StatusUnprocessableEntity, errTypeFormat, ""},
		{"unknown keyword", unknown.Bytes(), http.StatusUnprocessableEntity, errTypeValidation, "$FOO"},
		{"missing keyword", missing.Bytes(), http.StatusUnprocessableEntity, errTypeValidation, "$MODE"},
		{"truncated data", good.Bytes()[:len(good.Bytes())-3], http.StatusUnprocessableEntity, errTypeFormat, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			e := newTestEcho(Config{})
			rec := do(t, e, http.MethodPost, "/v1/datasets", tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status: got %d want %d body=%s", rec.Code, tt.status, rec.Body.String())
			}
			body := decodeBody[struct {
				Error ErrorBody `json:"error"`
			}](t, rec)
			if body.Error.Type != tt.errType || body.Error.Keyword != tt.keyword {
				t.Fatalf("unexpected error body: %+v", body.Error)
			}
		})
	}
}

func TestCreateDatasetLenient(t *testing.T) {
	t.Parallel()

	im := fcstest.Float(t, []string{"FSC-A"}, [][]float64{{1}})
	im.Keywords = fcstest.Set(im.Keywords, "BD$WAVENUMBER", "488")

	strict := newTestEcho(Config{})
	if rec := do(t, strict, http.MethodPost, "/v1/datasets", im.Bytes()); rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("strict: got %d", rec.Code)
	}
	lenient := newTestEcho(Config{LenientKeywords: true})
	if rec := do(t, lenient, http.MethodPost, "/v1/datasets", im.Bytes()); rec.Code != http.StatusCreated {
		t.Fatalf("lenient: got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestUploadTooLarge(t *testing.T) {
	t.Parallel()

	upload := sampleUpload(t)
	e := newTestEcho(Config{MaxUploadBytes: int64(len(upload) - 1)})
	rec := do(t, e, http.MethodPost, "/v1/datasets", upload)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status: got %d", rec.Code)
	}
}

func TestUploadRateLimited(t *testing.T) {
	t.Parallel()

	// One token that refills far slower than the test runs.
	e := newTestEcho(Config{UploadRate: 0.001, UploadBurst: 1})
	upload := sampleUpload(t)

	if rec := do(t, e, http.MethodPost, "/v1/datasets", upload); rec.Code != http.StatusCreated {
		t.Fatalf("first upload: got %d", rec.Code)
	}
	rec := do(t, e, http.MethodPost, "/v1/datasets", upload)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second upload: got %d", rec.Code)
	}
	if rec := do(t, e, http.MethodGet, "/v1/datasets", nil); rec.Code != http.StatusOK {
		t.Fatalf("reads are not limited: got %d", rec.Code)
	}
}

func TestPage(t *testing.T) {
	t.Parallel()

	events := []float64{1, 2, 3}
	if got := page(events, 0, 10); len(got) != 3 {
		t.Fatalf("full page: %v", got)
	}
	if got := page(events, 2, 10); len(got) != 1 || got[0] != 3 {
		t.Fatalf("tail page: %v", got)
	}
	if got := page(events, 3, 1); len(got) != 0 {
		t.Fatalf("empty page: %v", got)
	}
	if got := page(events, 1, 0); len(got) != 0 {
		t.Fatalf("zero limit: %v", got)
	}
}
