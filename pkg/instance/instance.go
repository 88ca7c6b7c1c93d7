package instance

import (
	"os"

	"github.com/angelmondragon/karaoke-backend/pkg/env"
)

// GetID returns the process instance identifier used in logs.
// KARAOKE_INSTANCE_ID wins, then the platform's DYNO name, then the hostname.
func GetID() string {
	if id := env.First("KARAOKE_INSTANCE_ID", "DYNO"); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return "local"
}
