package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds every tunable the service reads from the environment.
// Cache TTLs are deliberately split per entity class: cart state changes
// on every mutation, catalog data only when the scraper runs.
type Config struct {
	Port      string `envconfig:"PORT" default:"8080"`
	MongoURI  string `envconfig:"MONGO_URI" required:"true"`
	DBName    string `envconfig:"DB_NAME" required:"true"`
	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`
	JWTSecret string `envconfig:"JWT_SECRET" required:"true"`

	NominatimURL   string        `envconfig:"NOMINATIM_URL" default:"https://nominatim.openstreetmap.org"`
	GeocodeTimeout time.Duration `envconfig:"GEOCODE_TIMEOUT" default:"5s"`

	CartTTL    time.Duration `envconfig:"CART_CACHE_TTL" default:"5m"`
	CatalogTTL time.Duration `envconfig:"CATALOG_CACHE_TTL" default:"1h"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
