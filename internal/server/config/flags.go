package config

import (
	"flag"

	"github.com/dmitrijs2005/postsets/internal/flagx"
)

// parseFlags overlays command-line flags onto config.
//
// Supported flags:
//
//	-a string     gRPC bind address (e.g. ":50051")
//	-d string     PostgreSQL DSN
//	-s string     JWT HMAC secret key
//	-m string     metrics bind address ("" disables)
//	-n int        set cache capacity
//	-t duration   set cache record lifetime (e.g. "5m")
//	-r int        transaction retries
//	-l string     log level
//
// Arguments not in this list are filtered out first, so -c and flags of
// other components do not fail the parse. A malformed value panics.
func parseFlags(config *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-d", "-s", "-m", "-n", "-t", "-r", "-l"})

	fs := flag.NewFlagSet("server", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")
	fs.StringVar(&config.MetricsAddr, "m", config.MetricsAddr, "metrics address")
	fs.IntVar(&config.SetCacheSize, "n", config.SetCacheSize, "set cache size")
	fs.DurationVar(&config.SetCacheTTL, "t", config.SetCacheTTL, "set cache ttl")
	fs.IntVar(&config.TxRetries, "r", config.TxRetries, "transaction retries")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
