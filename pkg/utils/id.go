package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

func NewUserID(now time.Time) string {
	return fmt.Sprintf("USER_%d_%s", now.UnixMilli(), randomSuffix(9))
}

func NewRideID(now time.Time) string {
	return fmt.Sprintf("RIDE_%d_%s", now.UnixMilli(), randomSuffix(6))
}

// BikeID formats fleet numbers as BIKE001, BIKE002, ...
func BikeID(number int) string {
	return fmt.Sprintf("BIKE%03d", number)
}

func randomSuffix(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
