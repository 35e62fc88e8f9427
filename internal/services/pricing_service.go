package services

import (
	"math"

	"github.com/openride/rideshare-backend/internal/models"
)

const earthRadiusKm = 6371.0

// PricingService computes fares, distances and ETAs
type PricingService struct {
	defaultSpeedKmh float64
}

// NewPricingService creates a new PricingService
func NewPricingService(defaultSpeedKmh float64) *PricingService {
	if defaultSpeedKmh <= 0 {
		defaultSpeedKmh = 30
	}
	return &PricingService{defaultSpeedKmh: defaultSpeedKmh}
}

// Haversine returns the great-circle distance in kilometres between two
// coordinates
func Haversine(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

// EstimateFare returns the total fare for the given distance and seat count
func (s *PricingService) EstimateFare(distanceKm float64, seats int) float64 {
	return models.FarePerKm * distanceKm * float64(seats)
}

// EstimateETA returns the travel time in whole minutes for the distance at
// the given speed. A non-positive speed falls back to the configured default.
// The result is rounded up and never below one minute.
func (s *PricingService) EstimateETA(distanceKm, speedKmh float64) int {
	if speedKmh <= 0 {
		speedKmh = s.defaultSpeedKmh
	}
	minutes := int(math.Ceil(distanceKm / speedKmh * 60))
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}
