package main

import (
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

type Config struct {
	location     string
	max_distance float64
	max_pages    int
	base_url     string
	db_driver    string
	db_conn      string
	now          time.Time // zero unless MTP_NOW is set
	log_level    log.Level
}

func load_config() Config {
	// .env is optional
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn("Cannot read .env file", "err", err)
	}

	cfg := Config{
		location:     os.Getenv("MTP_LOCATION"),
		max_distance: atof(os.Getenv("MTP_MAX_DISTANCE"), 10),
		max_pages:    atoi(os.Getenv("MTP_MAX_PAGES"), 20),
		base_url:     getenv("MTP_BASE_URL", "https://www.moviefone.com"),
		db_driver:    getenv("MTP_DB_DRIVER", "sqlite3"),
		db_conn:      getenv("MTP_DB_CONN", "movietime.db"),
		log_level:    log.InfoLevel,
	}

	if v := os.Getenv("MTP_LOG_LEVEL"); v != "" {
		lvl, err := log.ParseLevel(v)
		if err != nil {
			log.Warn("Ignoring MTP_LOG_LEVEL", "value", v, "err", err)
		} else {
			cfg.log_level = lvl
		}
	}

	if v := os.Getenv("MTP_NOW"); v != "" {
		t, err := time.ParseInLocation("2006-01-02T15:04", v, time.Local)
		if err != nil {
			log.Warn("Ignoring MTP_NOW", "value", v, "err", err)
		} else {
			cfg.now = t
		}
	}
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atof(s string, def float64) float64 {
	x, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return def
	}
	return x
}
