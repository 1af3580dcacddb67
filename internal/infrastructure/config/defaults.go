package config

import "time"

const (
	DefaultHTTPPort        = "8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultRequestTimeout  = 10 * time.Second
	DefaultReadTimeout     = 15 * time.Second
	// DefaultFloorYear bounds the trading-day walk back.
	DefaultFloorYear = 2000
	// DefaultCachePrefix namespaces Redis keys.
	DefaultCachePrefix = "stockval:"
)
