package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all environment-driven settings. It is built once at startup
// and handed to handler constructors; nothing mutates it afterwards.
type Config struct {
	MongoURI string
	Database string
	Port     string
	Env      string

	JWTSecret        string
	JWTRefreshSecret string

	RazorpayKeyID     string
	RazorpayKeySecret string
	PaymentEnabled    bool

	ResendAPIKey   string
	SendGridAPIKey string
	EmailFrom      string
	EmailFromName  string

	BillPhotoEnabled bool
	UploadDir        string
	StorageDriver    string // "local" or "s3"
	AWSRegion        string
	AWSBucketName    string
}

// Load reads the .env file (if present) and environment variables into a Config.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		MongoURI:          getEnv("MONGODB_URI", "mongodb://localhost:27017/"),
		Database:          getEnv("MONGODB_DATABASE", "insurance"),
		Port:              getEnv("PORT", "8080"),
		Env:               getEnv("APP_ENV", "development"),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		JWTRefreshSecret:  os.Getenv("JWT_REFRESH_SECRET"),
		RazorpayKeyID:     os.Getenv("RAZORPAY_KEY_ID"),
		RazorpayKeySecret: os.Getenv("RAZORPAY_KEY_SECRET"),
		PaymentEnabled:    getBoolEnv("PAYMENT_ENABLED", true),
		ResendAPIKey:      os.Getenv("RESEND_API_KEY"),
		SendGridAPIKey:    os.Getenv("SENDGRID_API_KEY"),
		EmailFrom:         getEnv("EMAIL_FROM", "no-reply@vapeguard.in"),
		EmailFromName:     getEnv("EMAIL_FROM_NAME", "VapeGuard"),
		BillPhotoEnabled:  getBoolEnv("BILL_PHOTO_ENABLED", false),
		UploadDir:         getEnv("UPLOAD_DIR", "uploads"),
		StorageDriver:     getEnv("STORAGE_DRIVER", "local"),
		AWSRegion:         getEnv("AWS_REGION", "ap-south-1"),
		AWSBucketName:     os.Getenv("AWS_BUCKET_NAME"),
	}

	if cfg.JWTSecret == "" && cfg.IsProduction() {
		log.Fatal("JWT_SECRET must be set in production")
	}

	return cfg
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getBoolEnv(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid boolean for %s: %q, using default %v", key, v, fallback)
		return fallback
	}
	return b
}
