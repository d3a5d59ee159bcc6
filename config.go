package main

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port string
	Env  string

	StoreDriver       string // memory, redis or mongo
	RedisURL          string
	MongoURI          string
	MongoDB           string
	MongoPollInterval time.Duration

	KafkaBrokers []string
	KafkaTopic   string

	S3Bucket    string
	S3BaseURL   string
	S3Region    string
	S3Endpoint  string
	S3AccessKey string
	S3Secret    string

	RatePerSecond float64
	RateBurst     int
}

func LoadConfig() Config {
	return Config{
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("APP_ENV", "development"),
		StoreDriver:       getEnv("STORE_DRIVER", "redis"),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379"),
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:           getEnv("MONGO_DB", "lugamandu"),
		MongoPollInterval: getDuration("MONGO_POLL_INTERVAL", 500*time.Millisecond),
		KafkaBrokers:      splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:        getEnv("KAFKA_TOPIC", "order.events"),
		S3Bucket:          os.Getenv("AWS_S3_BUCKET"),
		S3BaseURL:         os.Getenv("AWS_S3_BASE_URL"),
		S3Region:          getEnv("AWS_REGION", "us-east-1"),
		S3Endpoint:        os.Getenv("AWS_ENDPOINT"),
		S3AccessKey:       os.Getenv("AWS_ACCESS_KEY_ID"),
		S3Secret:          os.Getenv("AWS_SECRET_ACCESS_KEY"),
		RatePerSecond:     getFloat("RATE_LIMIT_PER_SECOND", 10),
		RateBurst:         getInt("RATE_LIMIT_BURST", 20),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return defaultVal
}

func splitList(val string) []string {
	if val == "" {
		return nil
	}
	parts := strings.Split(val, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
