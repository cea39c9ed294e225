package api

import "github.com/wonny/autovault/pkg/config"

func testConfig() *config.Config {
	return &config.Config{
		Port:      "18089",
		Env:       "development",
		LogLevel:  "error",
		LogFormat: "json",
	}
}
