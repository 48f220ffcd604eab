package flowater

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T, measurementBody string) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /users/auth", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"token":"tok_123"}`)
	})
	mux.HandleFunc("GET /locations/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "tok_123" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `[{"location_id":"loc_1","devices":[{"device_id":"icd_1"},{"device_id":"icd_2"}]}]`)
	})
	mux.HandleFunc("GET /waterflow/measurement/icd/icd_1/last_day", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, measurementBody)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func connectedClient(t *testing.T, srv *httptest.Server) *Client {
	client, err := NewClient(srv.URL, "user@example.com", "hunter2", 5*time.Second)
	require.NoError(t, err)
	require.False(t, client.IsConnected())
	require.NoError(t, client.Connect(context.Background()))
	require.True(t, client.IsConnected())
	return client
}

func TestConnectAndLocationLookup(t *testing.T) {
	srv := testServer(t, "[]")
	client := connectedClient(t, srv)

	loc, err := client.Location(context.Background(), "loc_1")
	require.NoError(t, err)
	require.NotNil(t, loc)
	assert.Equal(t, "loc_1", loc.Id)
	assert.Len(t, loc.Devices, 2)
	assert.Equal(t, "icd_1", loc.Devices[0].Id)
}

func TestLocationLookupUnknown(t *testing.T) {
	srv := testServer(t, "[]")
	client := connectedClient(t, srv)

	loc, err := client.Location(context.Background(), "loc_nope")
	require.NoError(t, err)
	assert.Nil(t, loc)
}

func TestWaterflowMeasurementLatestSample(t *testing.T) {
	srv := testServer(t, `[
		{"average_flowrate":0.1,"total_flow":10.0,"average_temperature":60.0,"average_pressure":50.0,"time":"t0"},
		{"average_flowrate":3.25,"total_flow":12.34,"average_temperature":68.6,"average_pressure":55.05,"time":"t1"}
	]`)
	client := connectedClient(t, srv)

	m, err := client.WaterflowMeasurement(context.Background(), "icd_1")
	require.NoError(t, err)
	assert.Equal(t, 3.25, m.AverageFlowRate)
	assert.Equal(t, 12.34, m.TotalFlow)
	assert.Equal(t, 68.6, m.AverageTemperature)
	assert.Equal(t, 55.05, m.AveragePressure)
	assert.Equal(t, "t1", m.Time)
}

func TestWaterflowMeasurementMissingField(t *testing.T) {
	srv := testServer(t, `[{"total_flow":12.34,"average_temperature":68.6,"average_pressure":55.05,"time":"t1"}]`)
	client := connectedClient(t, srv)

	_, err := client.WaterflowMeasurement(context.Background(), "icd_1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedResponse))
	assert.Contains(t, err.Error(), "average_flowrate")
}

func TestGetRequiresConnection(t *testing.T) {
	client, err := NewClient("http://localhost:1", "user@example.com", "hunter2", time.Second)
	require.NoError(t, err)

	_, err = client.Get(context.Background(), "/icdalarmnotificationdeliveryrules/scan")
	require.Error(t, err)
}

func TestValidMode(t *testing.T) {
	assert.True(t, ValidMode(ModeHome))
	assert.True(t, ValidMode(ModeAway))
	assert.True(t, ValidMode(ModeSleep))
	assert.False(t, ValidMode("vacation"))
	assert.False(t, ValidMode(""))
}
