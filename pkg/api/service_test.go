package api

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethpandaops/codebook/internal/testutil"
	"github.com/ethpandaops/codebook/pkg/engine"
	"github.com/ethpandaops/codebook/pkg/records"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSource struct{}

func (stubSource) Name() string { return "stub" }

func (stubSource) Load(_ context.Context) ([]records.Record, error) {
	return testutil.CohortRecords(), nil
}

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, (&Config{Enabled: true, Addr: ":8080"}).Validate())
	assert.NoError(t, (&Config{Enabled: false}).Validate())
	assert.ErrorIs(t, (&Config{Enabled: true}).Validate(), ErrAPIAddrRequired)
}

func TestNewApp_Routing(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	eng := engine.New(log)
	require.NoError(t, eng.Load(context.Background(), stubSource{}))

	frontend := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("frontend"))
	})

	app := NewApp(eng, frontend, log)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantBody   string
	}{
		{name: "api route", target: "/api/v1/options", wantStatus: http.StatusOK, wantBody: "all data types"},
		{name: "unknown api route", target: "/api/v1/nope", wantStatus: http.StatusNotFound, wantBody: `"code":404`},
		{name: "frontend fallback", target: "/measures", wantStatus: http.StatusOK, wantBody: "frontend"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest("GET", tt.target, http.NoBody))
			require.NoError(t, err)
			defer resp.Body.Close()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Contains(t, string(body), tt.wantBody)
			assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
		})
	}
}

func TestService_Disabled(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)

	svc := NewService(&Config{Enabled: false}, engine.New(log), nil, log)
	require.NoError(t, svc.Start(context.Background()))
	require.NoError(t, svc.Stop())
}
