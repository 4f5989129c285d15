package gateway

import (
	"time"

	"github.com/spf13/viper"
)

// Config holds the gateway's own runtime tuning, loaded from environment
// variables rather than cmd/server's flag+YAML file — grounded on the
// teacher's pkg/marketmaker/config.go, which gives its satellite service
// the same Viper+env split alongside the core server's flag+YAML config.
type Config struct {
	// PublishAsync sends each execution report to the messaging.Sender on
	// its own goroutine instead of blocking the client's response path on
	// a Kafka round trip.
	PublishAsync bool
	// PublishTimeout is how long a publish (async or inline) may run before
	// the gateway logs it as slow; the publish itself is not interrupted.
	PublishTimeout time.Duration
}

// LoadConfig reads MATCHCORE_GATEWAY_PUBLISH_ASYNC and
// MATCHCORE_GATEWAY_PUBLISH_TIMEOUT from the environment.
func LoadConfig() Config {
	v := viper.New()
	v.SetEnvPrefix("MATCHCORE_GATEWAY")
	v.AutomaticEnv()
	v.SetDefault("publish_async", false)
	v.SetDefault("publish_timeout", "2s")

	timeout, err := time.ParseDuration(v.GetString("publish_timeout"))
	if err != nil {
		timeout = 2 * time.Second
	}

	return Config{
		PublishAsync:   v.GetBool("publish_async"),
		PublishTimeout: timeout,
	}
}
