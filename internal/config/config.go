package config

import (
	"log"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Env     string `env:"APP_ENV" env-default:"local"`
	Port    string `env:"PORT" env-default:"8080"`
	GinMode string `env:"GIN_MODE" env-default:"debug"`

	StoreBackend string `env:"STORE_BACKEND" env-default:"file"`
	DataDir      string `env:"DATA_DIR" env-default:"./data"`

	Postgres Postgres

	MarketBaseURL string `env:"MARKET_BASE_URL" env-default:"https://query1.finance.yahoo.com"`
	MarketTimeout int    `env:"MARKET_TIMEOUT_SECONDS" env-default:"8"`

	JWTSecret     string  `env:"JWT_SECRET" env-default:"dev-secret-change-me"`
	NumWorkers    int     `env:"NUM_WORKERS" env-default:"1"`
	TutorialAward float64 `env:"TUTORIAL_AWARD" env-default:"100000"`
}

type Postgres struct {
	Host string `env:"DB_HOST" env-default:"localhost"`
	Port string `env:"DB_PORT" env-default:"5433"`
	User string `env:"DB_USER" env-default:"trader"`
	Pass string `env:"DB_PASSWORD" env-default:"trading123"`
	Db   string `env:"DB_NAME" env-default:"trading_db"`
}

// MustLoad reads .env if present, then the process environment.
func MustLoad() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults or environment variables")
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		panic("Failed to read config: " + err.Error())
	}

	return &cfg
}
