package services

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"
)

// NoEstimate is the sentinel shown when no delivery estimate could be
// computed. Order creation proceeds regardless; the ETA is advisory.
const NoEstimate = "--:--"

const (
	earthRadiusKm    = 6371.0
	deliverySpeedKmh = 40.0
	prepBuffer       = 5 * time.Minute
)

// Store origin: 227 Nguyễn Văn Cừ, Phường Chợ Quán, TP.HCM.
const (
	storeLat = 10.762622
	storeLon = 106.682028
)

// ETAService turns an address into an estimated wall-clock delivery time:
// geocode, great-circle distance from the store, minutes at a fixed
// average speed plus a preparation buffer, formatted HH:MM. Computed once
// per order and persisted immutably.
type ETAService struct {
	geocoder Geocoder
	logger   *zap.Logger
	now      func() time.Time
}

func NewETAService(geocoder Geocoder, logger *zap.Logger) *ETAService {
	return &ETAService{geocoder: geocoder, logger: logger, now: time.Now}
}

func (s *ETAService) Estimate(ctx context.Context, address string) string {
	coords, err := s.geocoder.Geocode(ctx, address)
	if err != nil {
		s.logger.Warn("geocoding failed, no delivery estimate",
			zap.String("address", address), zap.Error(err))
		return NoEstimate
	}

	distKm := haversineKm(storeLat, storeLon, coords.Lat, coords.Lon)
	travelMinutes := math.Ceil(distKm / deliverySpeedKmh * 60)
	eta := s.now().Add(time.Duration(travelMinutes)*time.Minute + prepBuffer)

	return eta.Format("15:04")
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
