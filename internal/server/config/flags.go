package config

import (
	"flag"
	"os"
	"strings"

	"github.com/Lg0ma/MessagesVS/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN (empty selects the in-memory registry)
//	-s string   JWT HMAC secret key
//	-o string   comma-separated allowed WebSocket origins
//
// Args are filtered with flagx.FilterArgs first so flags owned by other
// components do not collide.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-s", "-o"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.Addr, "a", config.Addr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	origins := fs.String("o", strings.Join(config.AllowedOrigins, ","), "allowed websocket origins (comma-separated)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AllowedOrigins = splitOrigins(*origins)
}

func splitOrigins(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
