package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL,required"`

	JWTSecret            string `env:"JWT_SECRET,required"`
	JWTAccessTTLMinutes  int    `env:"JWT_ACCESS_TTL_MINUTES" envDefault:"15"`
	JWTRefreshTTLMinutes int    `env:"JWT_REFRESH_TTL_MINUTES" envDefault:"43200"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	// Parámetros del matching por rasgos.
	MatchThreshold      float64 `env:"MATCH_THRESHOLD" envDefault:"70"`
	MatchSeedLimit      int     `env:"MATCH_SEED_LIMIT" envDefault:"8"`
	SessionCacheTTLMins int     `env:"SESSION_CACHE_TTL_MINUTES" envDefault:"60"`

	// Alpha de la media móvil de confiabilidad; 0.2 = historial dominante.
	ReliabilitySmoothing float64 `env:"RELIABILITY_SMOOTHING" envDefault:"0.2"`

	// Descartar grupos que no cumplan la mezcla de energía social.
	EnforceGroupBalance bool `env:"ENFORCE_GROUP_BALANCE" envDefault:"false"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
