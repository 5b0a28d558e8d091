package services

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"recordstore/models"
)

// AddressInterpreter extracts the administrative district from a free-text
// shipping address. It is a pluggable heuristic: the current implementation
// does substring matching, but the order pipeline only sees this interface.
type AddressInterpreter interface {
	District(address string) (string, bool)
}

// VNAddressInterpreter tokenizes by comma and picks the first segment that
// starts with a Vietnamese administrative-unit marker (ward, commune,
// district, county).
type VNAddressInterpreter struct{}

var districtMarkers = []string{"Phường", "Xã", "Quận", "Huyện"}

func (VNAddressInterpreter) District(address string) (string, bool) {
	for _, segment := range strings.Split(address, ",") {
		segment = strings.TrimSpace(segment)
		for _, marker := range districtMarkers {
			if strings.HasPrefix(segment, marker) {
				return segment, true
			}
		}
	}
	return "", false
}

// DeliveryFeeService maps a shipping address to a flat fee. It is a
// best-effort heuristic, not a validated postal lookup: every failure mode
// resolves to fee 0 with a log line, because checkout must not block on an
// unparsed address.
type DeliveryFeeService struct {
	fees   FeeStore
	interp AddressInterpreter
	logger *zap.Logger
}

func NewDeliveryFeeService(fees FeeStore, interp AddressInterpreter, logger *zap.Logger) *DeliveryFeeService {
	return &DeliveryFeeService{fees: fees, interp: interp, logger: logger}
}

func (s *DeliveryFeeService) ResolveFee(ctx context.Context, address string) models.Money {
	district, ok := s.interp.District(address)
	if !ok {
		s.logger.Warn("no administrative unit found in address", zap.String("address", address))
		return 0
	}

	fee, err := s.fees.GetByDistrict(ctx, district)
	if err != nil {
		s.logger.Warn("delivery fee lookup failed, charging zero",
			zap.String("district", district), zap.Error(err))
		return 0
	}
	return fee.Fee
}

func (s *DeliveryFeeService) GetFeeByDistrict(ctx context.Context, district string) (*models.DeliveryFee, error) {
	return s.fees.GetByDistrict(ctx, district)
}

func (s *DeliveryFeeService) ListFees(ctx context.Context) ([]models.DeliveryFee, error) {
	return s.fees.List(ctx)
}
