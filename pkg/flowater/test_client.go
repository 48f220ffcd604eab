package flowater

import "context"

// TestFloService is a canned in-memory stand-in for the Flo cloud service.
type TestFloService struct {
	Connected        bool
	Locations        []Location
	MeasurementError error
	RawResponse      []byte

	LocationCalls    int
	MeasurementCalls int
	GetCalls         []string
}

func NewTestFloService() *TestFloService {
	return &TestFloService{
		Connected: true,
		Locations: []Location{
			{
				Id:       "loc_1",
				Address:  "1 Main St",
				City:     "Springfield",
				Timezone: "America/New_York",
				Devices: []Device{
					{
						Id:           "icd_1",
						Nickname:     "Main supply",
						FirmwareVer:  "3.6.1",
						DeviceType:   "flo_device_075_v2",
						SerialNumber: "FD-075-0001",
					},
				},
			},
		},
		RawResponse: []byte(`{"scan":"ok"}`),
	}
}

func (s *TestFloService) IsConnected() bool {
	return s.Connected
}

func (s *TestFloService) Location(ctx context.Context, locationID string) (*Location, error) {
	s.LocationCalls++
	for i := range s.Locations {
		if s.Locations[i].Id == locationID {
			return &s.Locations[i], nil
		}
	}
	return nil, nil
}

func (s *TestFloService) WaterflowMeasurement(ctx context.Context, deviceID string) (*WaterflowMeasurement, error) {
	s.MeasurementCalls++
	if s.MeasurementError != nil {
		return nil, s.MeasurementError
	}
	return &WaterflowMeasurement{
		AverageFlowRate:    3.25,
		TotalFlow:          12.34,
		AverageTemperature: 68.6,
		AveragePressure:    55.05,
		Time:               "2024-05-01T12:00:00Z",
	}, nil
}

func (s *TestFloService) Get(ctx context.Context, path string) ([]byte, error) {
	s.GetCalls = append(s.GetCalls, path)
	return s.RawResponse, nil
}
