package config

import "time"

const (
	DefaultHTTPPort        = "8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultEventQueue      = 16
	DefaultPGMaxConns      = 2
	DefaultPGMinConns      = 1
	DefaultRetryMaxElapsed = 3 * time.Second
)
