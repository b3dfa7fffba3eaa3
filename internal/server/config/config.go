// Package config handles configuration for the server component,
// including defaults, JSON overlay, and command-line flags.
package config

// Config holds runtime settings for the MessagesVS server.
//
// Fields:
//   - Addr: bind address for the HTTP/WebSocket endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). An empty DSN selects the in-memory
//     user registry, which is useful for development and tests.
//   - SecretKey: HMAC secret for signing session tokens (HS256). Do not use
//     the test default in production.
//   - AllowedOrigins: origins accepted on WebSocket upgrade requests.
type Config struct {
	Addr           string
	DatabaseDSN    string
	SecretKey      string
	AllowedOrigins []string
}

// LoadDefaults populates Config with development defaults.
// NOTE: insecure for production, override them.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AllowedOrigins = []string{"http://localhost:8080", "http://localhost:3000"}
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
