package port

import (
	"context"

	"flo2mqtt/pkg/flowater"
)

// FloService is the device-facing handle injected into the sensor platform.
// *flowater.Client satisfies it, as does flowater.TestFloService.
type FloService interface {
	IsConnected() bool
	Location(ctx context.Context, locationID string) (*flowater.Location, error)
	WaterflowMeasurement(ctx context.Context, deviceID string) (*flowater.WaterflowMeasurement, error)
	Get(ctx context.Context, path string) ([]byte, error)
}

// ensure interface compliance
var _ FloService = (*flowater.Client)(nil)
var _ FloService = (*flowater.TestFloService)(nil)
