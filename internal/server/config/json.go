package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/postsets/internal/flagx"
	"github.com/dmitrijs2005/postsets/internal/timex"
)

// JsonConfig mirrors Config for JSON files. Durations accept "5m" or integer
// nanoseconds. Absent keys leave the current value untouched.
type JsonConfig struct {
	EndpointAddrGRPC *string         `json:"endpoint_addr_grpc"`
	DatabaseDSN      *string         `json:"database_dsn"`
	SecretKey        *string         `json:"secret_key"`
	MetricsAddr      *string         `json:"metrics_addr"`
	SetCacheSize     *int            `json:"set_cache_size"`
	SetCacheTTL      *timex.Duration `json:"set_cache_ttl"`
	TxRetries        *int            `json:"tx_retries"`
	LogLevel         *string         `json:"log_level"`
}

// parseJson overlays the file named by -c / -config onto config. Without
// either flag nothing is loaded. An unreadable or malformed file panics.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigPath(args)
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	set(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	set(&config.DatabaseDSN, c.DatabaseDSN)
	set(&config.SecretKey, c.SecretKey)
	set(&config.MetricsAddr, c.MetricsAddr)
	set(&config.SetCacheSize, c.SetCacheSize)
	set(&config.TxRetries, c.TxRetries)
	set(&config.LogLevel, c.LogLevel)
	if c.SetCacheTTL != nil {
		config.SetCacheTTL = c.SetCacheTTL.Duration
	}
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}
