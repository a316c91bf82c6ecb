package source

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ethpandaops/codebook/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPSource_Load(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/data/overview.json", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(testutil.CohortRecordsJSON))
	})
	mux.HandleFunc("/export", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		_, _ = w.Write([]byte(testutil.CohortRecordsCSV))
	})
	mux.HandleFunc("/broken", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	tests := []struct {
		name    string
		path    string
		wantErr error
	}{
		{name: "json payload", path: "/data/overview.json"},
		{name: "csv by content type", path: "/export"},
		{name: "server error", path: "/broken", wantErr: ErrUnexpectedStatus},
		{name: "not found", path: "/missing", wantErr: ErrUnexpectedStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := NewHTTPSource(server.URL+tt.path, FormatAuto, 5*time.Second)

			got, err := src.Load(context.Background())
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, testutil.CohortRecords(), got)
		})
	}
}

func TestHTTPSource_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	src := NewHTTPSource(url+"/overview.json", FormatAuto, time.Second)
	_, err := src.Load(context.Background())
	require.Error(t, err)
	assert.Equal(t, "http:"+url+"/overview.json", src.Name())
}

func TestHTTPSource_WithClient(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	src := NewHTTPSource(server.URL, FormatJSON, 0).WithClient(server.Client())

	got, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, got)
}
