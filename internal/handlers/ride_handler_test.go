package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openride/rideshare-backend/internal/services"
)

func setupEstimateRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewRideHandler(nil, services.NewPricingService(30), nil, nil)

	router := gin.New()
	router.GET("/rides/estimate", handler.Estimate)
	return router
}

func TestRideEstimate(t *testing.T) {
	router := setupEstimateRouter()

	// Colombo to Kandy, two seats
	req := httptest.NewRequest("GET", "/rides/estimate?from_lat=6.9271&from_lng=79.8612&to_lat=7.2906&to_lng=80.6337&seats=2", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Success bool `json:"success"`
		Data    struct {
			DistanceKm    float64 `json:"distance_km"`
			EstimatedFare float64 `json:"estimated_fare"`
			ETAMinutes    int     `json:"eta_minutes"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.InDelta(t, 94.0, body.Data.DistanceKm, 2.0)
	// Fare is per seat per kilometre, so two seats doubles it
	assert.InDelta(t, body.Data.DistanceKm*10*2, body.Data.EstimatedFare, 0.001)
	// Roughly three hours at the 30 km/h default
	assert.Greater(t, body.Data.ETAMinutes, 150)
	assert.Less(t, body.Data.ETAMinutes, 230)
}

func TestRideEstimateDefaults(t *testing.T) {
	router := setupEstimateRouter()

	req := httptest.NewRequest("GET", "/rides/estimate?from_lat=6.9271&from_lng=79.8612&to_lat=6.9271&to_lng=79.8612", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			DistanceKm    float64 `json:"distance_km"`
			EstimatedFare float64 `json:"estimated_fare"`
			ETAMinutes    int     `json:"eta_minutes"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))

	// Zero distance still reports a one minute floor
	assert.InDelta(t, 0, body.Data.DistanceKm, 0.001)
	assert.InDelta(t, 0, body.Data.EstimatedFare, 0.001)
	assert.Equal(t, 1, body.Data.ETAMinutes)
}

func TestRideEstimateValidation(t *testing.T) {
	router := setupEstimateRouter()

	tests := []struct {
		name  string
		query string
	}{
		{"Missing coordinates", "from_lat=6.9"},
		{"Bad latitude", "from_lat=abc&from_lng=79.8&to_lat=7.2&to_lng=80.6"},
		{"Bad seats", "from_lat=6.9&from_lng=79.8&to_lat=7.2&to_lng=80.6&seats=0"},
		{"Bad speed", "from_lat=6.9&from_lng=79.8&to_lat=7.2&to_lng=80.6&speed_kmh=fast"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/rides/estimate?"+tt.query, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), `"success":false`)
		})
	}
}
