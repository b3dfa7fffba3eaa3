package config

import (
	"encoding/json"
	"os"

	"github.com/Lg0ma/MessagesVS/internal/flagx"
)

// JsonConfig is the DTO for reading JSON configuration files. Its values are
// copied into the runtime Config after unmarshalling.
type JsonConfig struct {
	Addr           string   `json:"addr"`
	DatabaseDSN    string   `json:"database_dsn"`
	SecretKey      string   `json:"secret_key"`
	AllowedOrigins []string `json:"allowed_origins"`
}

// parseJson overlays configuration values from a JSON file, if one was named
// with the -c or -config flags. Missing flag means nothing is loaded; an
// unreadable or invalid file panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.Addr != "" {
		config.Addr = c.Addr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
}
