package bike

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	domainBike "hopon-backend/internal/domain/bike"
	"hopon-backend/internal/logger"
	"hopon-backend/pkg/utils"

	"go.uber.org/zap"
)

// GenerateFleet builds size fresh bikes at location with randomized wear history.
func GenerateFleet(size int, location domainBike.Location, rng *rand.Rand, now time.Time) []*domainBike.Bike {
	bikes := make([]*domainBike.Bike, 0, size)
	for i := 1; i <= size; i++ {
		bikes = append(bikes, &domainBike.Bike{
			ID:              utils.BikeID(i),
			Number:          i,
			Location:        location,
			IsAvailable:     true,
			Condition:       randomCondition(rng),
			LastMaintenance: now.AddDate(0, 0, -rng.IntN(31)),
			BatteryLevel:    100,
			TotalRides:      rng.IntN(50),
			Rating:          math.Round((3+rng.Float64()*2)*10) / 10,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
	}
	return bikes
}

// Excellent 40%, Good 50%, Fair 10%.
func randomCondition(rng *rand.Rand) domainBike.Condition {
	switch p := rng.Float64(); {
	case p < 0.4:
		return domainBike.ConditionExcellent
	case p < 0.9:
		return domainBike.ConditionGood
	default:
		return domainBike.ConditionFair
	}
}

// SeedFleet creates the fleet once, when no bikes exist yet. It returns the
// number of bikes created.
func (s *Service) SeedFleet(ctx context.Context, size int, rawLocation string, rng *rand.Rand) (int, error) {
	location, err := ValidateLocation(rawLocation)
	if err != nil {
		return 0, err
	}

	count, err := s.bikeRepo.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Debug("Fleet already present, skipping seed", zap.Int64("bikes", count))
		return 0, nil
	}

	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	fleet := GenerateFleet(size, location, rng, s.now())
	if err := s.bikeRepo.CreateBatch(ctx, fleet); err != nil {
		return 0, err
	}

	logger.Info("Fleet seeded",
		zap.Int("bikes", len(fleet)),
		zap.String("location", string(location)),
		zap.String("event", "fleet_seeded"),
	)
	return len(fleet), nil
}
