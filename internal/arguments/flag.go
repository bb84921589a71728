package arguments

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type ServerEnvConfig struct {
	PostgresDSN        string `env:"POSTGRES_DSN"`
	NatsURL            string `env:"NATS_URL"`
	NatsSubject        string `env:"NATS_SUBJECT"`
	HPServer           string `env:"HTTP_URL"`
	CacheSize          int    `env:"CACHE_SIZE"`
	CacheTimeLimitSecs int    `env:"CACHE_LIMIT_SECS"`
	LogLevel           string `env:"LOG_LEVEL"`
}

// Config is the resolved server configuration. Env values win over flags
// when they are set.
type Config struct {
	PostgresDSN    string
	NatsURL        string
	NatsSubject    string
	HPServer       string
	CacheSize      int
	CacheTimeLimit time.Duration
	LogLevel       string
}

func ParseArgsServer(args []string) (*Config, error) {
	var cfg ServerEnvConfig
	err := env.Parse(&cfg)
	if err != nil {
		return nil, fmt.Errorf("Problem with parsing of env variables: %w", err)
	}
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	d := fs.String("d", "", "Postgres DSN, in-memory store when empty")
	n := fs.String("n", "", "Nats <host>:<port> to connect, disabled when empty")
	ns := fs.String("ns", "fees.configuration", "Nats subject with fee configuration")
	cs := fs.Int("cs", 128, "Cache max capacity")
	ctl := fs.Int("ctl", 30, "Cache time limit on value in the table")
	s := fs.String("s", "0.0.0.0:8000", "Http <host>:<port> to listen")
	l := fs.String("l", "info", "Log level")
	err = fs.Parse(args)
	if err != nil {
		return nil, fmt.Errorf("Problem with parsing of flags: %w", err)
	}
	res := &Config{
		PostgresDSN: *d,
		NatsURL:     *n,
		NatsSubject: *ns,
		HPServer:    *s,
		CacheSize:   *cs,
		LogLevel:    *l,
	}
	secs := *ctl
	if cfg.PostgresDSN != "" {
		res.PostgresDSN = cfg.PostgresDSN
	}
	if cfg.NatsURL != "" {
		res.NatsURL = cfg.NatsURL
	}
	if cfg.NatsSubject != "" {
		res.NatsSubject = cfg.NatsSubject
	}
	if cfg.HPServer != "" {
		res.HPServer = cfg.HPServer
	}
	if cfg.CacheSize != 0 {
		res.CacheSize = cfg.CacheSize
	}
	if cfg.CacheTimeLimitSecs != 0 {
		secs = cfg.CacheTimeLimitSecs
	}
	if cfg.LogLevel != "" {
		res.LogLevel = cfg.LogLevel
	}
	if res.CacheSize <= 0 {
		return nil, fmt.Errorf("Cache size must be positive, got %d", res.CacheSize)
	}
	if secs <= 0 {
		return nil, fmt.Errorf("Cache time limit must be positive, got %d", secs)
	}
	res.CacheTimeLimit = time.Duration(secs) * time.Second
	return res, nil
}
