package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	DataSource     string // csv|mysql
	HotelsCSV      string
	ReviewsCSV     string
	TestCSV        string
	ModelPath      string
	VectorizerPath string
	MySQLDSN       string
	ImportWorkers  int
	ImportBatch    int
	TrendStart     time.Time
	TopHotels      int
	TopWords       int
	CloudWords     int
	SampleReviews  int
	RateLimitRPS   int
	RequestTimeout time.Duration
}

// Load reads the process environment, after merging a .env file if present.
// Variables already set in the environment win over the file.
func Load() Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg(".env not loaded")
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer, using default")
		}
		return def
	}
	c := Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    os.Getenv("METRICS_ADDR"),
		DataSource:     env("DATA_SOURCE", "csv"),
		HotelsCSV:      env("HOTELS_CSV", "hotel_profiles.csv"),
		ReviewsCSV:     env("REVIEWS_CSV", "data_final.csv"),
		TestCSV:        env("TEST_CSV", "test_data.csv"),
		ModelPath:      env("MODEL_PATH", "logistic_regression_model.json"),
		VectorizerPath: env("VECTORIZER_PATH", "count_vectorizer.json"),
		MySQLDSN:       env("MYSQL_DSN", "root:root@tcp(localhost:3306)/insight?parseTime=true&charset=utf8mb4&loc=UTC"),
		ImportWorkers:  atoi("IMPORT_WORKERS", 8),
		ImportBatch:    atoi("IMPORT_BATCH", 500),
		TrendStart:     date("TREND_START", time.Date(2022, time.January, 1, 0, 0, 0, 0, time.UTC)),
		TopHotels:      atoi("TOP_HOTELS", 10),
		TopWords:       atoi("TOP_WORDS", 10),
		CloudWords:     atoi("CLOUD_WORDS", 50),
		SampleReviews:  atoi("SAMPLE_REVIEWS", 5),
		RateLimitRPS:   atoi("RATE_LIMIT_RPS", 50),
		RequestTimeout: time.Duration(atoi("REQUEST_TIMEOUT_SECONDS", 15)) * time.Second,
	}
	if c.DataSource != "csv" && c.DataSource != "mysql" {
		log.Warn().Str("DATA_SOURCE", c.DataSource).Msg("unknown data source, using csv")
		c.DataSource = "csv"
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func date(k string, def time.Time) time.Time {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		log.Warn().Str("key", k).Str("value", v).Msg("not a YYYY-MM-DD date, using default")
		return def
	}
	return t
}
