package notion

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/jadwal_sync/internal/apperrors"
	"github.com/Freeeeeet/jadwal_sync/internal/model"
)

var wib = time.FixedZone("WIB", 7*60*60)

func testInterval() model.ParsedInterval {
	return model.ParsedInterval{
		Start: time.Date(2025, 7, 14, 14, 0, 0, 0, wib),
		End:   time.Date(2025, 7, 14, 16, 30, 0, 0, wib),
	}
}

func testOptions(baseURL string) Options {
	return Options{
		BaseURL:       baseURL,
		APIKey:        "secret_abc",
		DatabaseID:    "db123",
		Version:       "2022-06-28",
		TitleProperty: "Nama Mata Kuliah",
		DateProperty:  "Tanggal",
		TimeZone:      "Asia/Jakarta",
		Timeout:       5 * time.Second,
	}
}

func TestClient_CreatePage(t *testing.T) {
	var got map[string]interface{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/pages", r.URL.Path)
		assert.Equal(t, "Bearer secret_abc", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-06-28", r.Header.Get("Notion-Version"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"page","id":"page-1"}`))
	}))
	defer srv.Close()

	client := NewClient(testOptions(srv.URL+"/"), zap.NewNop())

	id, err := client.CreatePage(context.Background(), "Akuntansi Keuangan - G-301", testInterval())
	require.NoError(t, err)
	assert.Equal(t, "page-1", id)

	want := map[string]interface{}{
		"parent": map[string]interface{}{"database_id": "db123"},
		"properties": map[string]interface{}{
			"Nama Mata Kuliah": map[string]interface{}{
				"title": []interface{}{
					map[string]interface{}{"text": map[string]interface{}{"content": "Akuntansi Keuangan - G-301"}},
				},
			},
			"Tanggal": map[string]interface{}{
				"date": map[string]interface{}{
					"start":     "2025-07-14T14:00:00",
					"end":       "2025-07-14T16:30:00",
					"time_zone": "Asia/Jakarta",
				},
			},
		},
	}
	assert.Equal(t, want, got)
}

func TestClient_CreatePage_KeepsBearerPrefix(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret_abc", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"id":"page-2"}`))
	}))
	defer srv.Close()

	opts := testOptions(srv.URL)
	opts.APIKey = "Bearer secret_abc"

	id, err := NewClient(opts, zap.NewNop()).CreatePage(context.Background(), "x", testInterval())
	require.NoError(t, err)
	assert.Equal(t, "page-2", id)
}

func TestClient_CreatePage_APIError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "json message",
			status:  http.StatusBadRequest,
			body:    `{"object":"error","status":400,"code":"validation_error","message":"Tanggal is not a property that exists."}`,
			wantMsg: "Error dari Notion API: Tanggal is not a property that exists.",
		},
		{
			name:    "plain body",
			status:  http.StatusBadGateway,
			body:    "bad gateway",
			wantMsg: "Error dari Notion API: bad gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(testOptions(srv.URL), zap.NewNop()).CreatePage(context.Background(), "x", testInterval())
			require.Error(t, err)
			assert.True(t, apperrors.Is(err, apperrors.CodeUpstream))
			assert.Equal(t, tt.wantMsg, err.Error())
		})
	}
}

func TestClient_CreatePage_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(testOptions(url), zap.NewNop()).CreatePage(context.Background(), "x", testInterval())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.CodeServiceUnavailable))
}
