package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type HTTPServer struct {
	Host string
	Port string
}

type RedisCache struct {
	Host     string
	Port     string
	Password string
}

type Postgres struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Catalog describes the upstream movie catalog (TMDB) and how long its
// answers may be served from cache.
type Catalog struct {
	APIKey       string
	BaseURL      string
	ImageBaseURL string
	PageTTL      time.Duration
	GenresTTL    time.Duration
	HTTPTimeout  time.Duration
}

type Auth struct {
	RedirectURL     string
	SessionTTL      time.Duration
	ConfirmationTTL time.Duration
}

// Deck controls how long swipe decks of dead sessions stay in memory.
type Deck struct {
	SweepInterval time.Duration
}

type Limiter struct {
	Enabled bool
	RPS     float64
	Burst   int
}

type Config struct {
	HTTP     HTTPServer
	Redis    RedisCache
	Postgres Postgres
	Catalog  Catalog
	Auth     Auth
	Deck     Deck
	Limiter  Limiter
}

const logtag = "[config]"

func Load() *Config {
	configPath := flag.String("config", "", "path env file")
	flag.Parse()

	if *configPath != "" {
		if err := godotenv.Load(*configPath); err != nil {
			log.Fatalf("%s err loading env from file : %v", logtag, err)
		}
		log.Printf("%s using env from : %s", logtag, *configPath)
	} else {
		log.Printf("%s using env from .env", logtag)
		_ = godotenv.Load()
	}

	return FromEnv()
}

// FromEnv builds the config from the current process environment only.
func FromEnv() *Config {
	return &Config{
		HTTP:     *newHTTP(),
		Redis:    *newRedis(),
		Postgres: *newPostgres(),
		Catalog:  *newCatalog(),
		Auth:     *newAuth(),
		Deck:     *newDeck(),
		Limiter:  *newLimiter(),
	}
}

func newHTTP() *HTTPServer {
	return &HTTPServer{
		Port: getenv("HTTP_PORT", "8080"),
		Host: getenv("HTTP_HOST", "localhost"),
	}
}

func newRedis() *RedisCache {
	return &RedisCache{
		Port:     getenv("REDIS_PORT", "6379"),
		Host:     getenv("REDIS_HOST", "redis"),
		Password: getsecret("REDIS_PASSWORD", "shared"),
	}
}

func newPostgres() *Postgres {
	return &Postgres{
		Host:     getenv("DB_HOST", "localhost"),
		Port:     getenv("DB_PORT", "5432"),
		User:     getenv("DB_USER", "admin"),
		Password: getsecret("DB_PASSWORD", "shared"),
		DBName:   getenv("DB_NAME", "moviemingle"),
		SSLMode:  getenv("DB_SSLMODE", "disable"),
	}
}

func newCatalog() *Catalog {
	return &Catalog{
		APIKey:       getsecret("TMDB_API_KEY", ""),
		BaseURL:      getenv("TMDB_BASE_URL", "https://api.themoviedb.org/3"),
		ImageBaseURL: getenv("TMDB_IMAGE_BASE_URL", "https://image.tmdb.org/t/p/w500"),
		PageTTL:      getduration("CATALOG_PAGE_TTL", time.Hour),
		GenresTTL:    getduration("CATALOG_GENRES_TTL", 24*time.Hour),
		HTTPTimeout:  getduration("CATALOG_HTTP_TIMEOUT", 10*time.Second),
	}
}

func newAuth() *Auth {
	return &Auth{
		RedirectURL:     getenv("AUTH_REDIRECT_URL", "http://localhost:8080"),
		SessionTTL:      getduration("AUTH_SESSION_TTL", 7*24*time.Hour),
		ConfirmationTTL: getduration("AUTH_CONFIRMATION_TTL", 24*time.Hour),
	}
}

func newDeck() *Deck {
	return &Deck{
		SweepInterval: getduration("DECK_SWEEP_INTERVAL", 10*time.Minute),
	}
}

func newLimiter() *Limiter {
	enabled, err := strconv.ParseBool(getenv("LIMITER_ENABLED", "true"))
	if err != nil {
		enabled = true
	}
	rps, err := strconv.ParseFloat(getenv("LIMITER_RPS", "10"), 64)
	if err != nil || rps <= 0 {
		rps = 10
	}
	burst, err := strconv.Atoi(getenv("LIMITER_BURST", "20"))
	if err != nil || burst <= 0 {
		burst = 20
	}
	return &Limiter{
		Enabled: enabled,
		RPS:     rps,
		Burst:   burst,
	}
}

func getenv(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined. Using default value %s\n", logtag, key, defaultValue)
		return defaultValue
	}
	fmt.Printf("%s %s = %s\n", logtag, key, val)
	return val
}

// getsecret is getenv that never prints the value.
func getsecret(key, defaultValue string) string {
	val := os.Getenv(key)
	if val == "" {
		fmt.Printf("%s %s undefined\n", logtag, key)
		return defaultValue
	}
	fmt.Printf("%s %s = ***\n", logtag, key)
	return val
}

func getduration(key string, defaultValue time.Duration) time.Duration {
	raw := getenv(key, defaultValue.String())
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		fmt.Printf("%s %s = %q is not a duration. Using default value %s\n", logtag, key, raw, defaultValue)
		return defaultValue
	}
	return d
}
