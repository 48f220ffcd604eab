package util

import (
	"flo2mqtt/internal/config"

	"go.uber.org/zap"
)

func LoadTestConfig() config.Config {
	return config.Config{
		LogLevel: zap.DebugLevel,
		Flo: config.FloConfig{
			ApiPrefix:  "http://localhost:9099/api/v1",
			Username:   "user@example.com",
			Password:   "secret",
			LocationId: "loc_1",
		},
		MQTT: config.MQTTConfig{
			Host:      "localhost",
			Port:      1883,
			BaseTopic: "flo2mqtt",
		},
		MonitorConfig: config.MonitorConfig{
			PollIntervalMillis: 5000,
		},
		Port: 8080,
	}
}
