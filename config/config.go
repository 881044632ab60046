package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

// Config holds everything the backend reads from the environment.
type Config struct {
	Port            uint   `envconfig:"PORT" default:"3001"`
	MongoURI        string `envconfig:"MONGODB_URI"`
	MongoDatabase   string `envconfig:"MONGODB_DATABASE" default:"psetu"`
	RequestTimeout  uint   `envconfig:"REQUEST_TIMEOUT_SEC" default:"10"`
	ReadTimeoutSec  uint   `envconfig:"READ_TIMEOUT_SEC" default:"15"`
	WriteTimeoutSec uint   `envconfig:"WRITE_TIMEOUT_SEC" default:"30"`
	CORSOrigins     string `envconfig:"CORS_ORIGINS" default:"http://localhost:5173,https://setu-frontend.onrender.com"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	// eSewa
	MerchantID     string `envconfig:"MERCHANT_ID"`
	Secret         string `envconfig:"SECRET"`
	SuccessURL     string `envconfig:"SUCCESS_URL"`
	FailureURL     string `envconfig:"FAILURE_URL"`
	PaymentURL     string `envconfig:"ESEWAPAYMENT_URL"`
	StatusCheckURL string `envconfig:"ESEWAPAYMENT_STATUS_CHECK_URL"`

	// Pending transactions are re-checked on this cron schedule. Empty disables it.
	ReconcileSchedule  string `envconfig:"RECONCILE_SCHEDULE"`
	ReconcileMinAgeMin uint   `envconfig:"RECONCILE_MIN_AGE_MIN" default:"10"`

	InferenceURL string `envconfig:"ASL_INFERENCE_URL" default:"http://127.0.0.1:8000/predict"`

	JWTSecret     string `envconfig:"JWT_SECRET"`
	TokenTTLHours uint   `envconfig:"TOKEN_TTL_HOURS" default:"24"`

	// Google Cloud Storage for program images
	GCSBucket      string `envconfig:"GCS_BUCKET"`
	GCSCredentials string `envconfig:"GOOGLE_APPLICATION_CREDENTIALS"`

	// Contact form notifications
	SMTPHost        string `envconfig:"SMTP_HOST" default:"smtp.gmail.com"`
	SMTPPort        uint   `envconfig:"SMTP_PORT" default:"587"`
	EmailFrom       string `envconfig:"EMAIL_FROM"`
	EmailPass       string `envconfig:"EMAIL_PASS"`
	ContactNotifyTo string `envconfig:"CONTACT_NOTIFY_TO"`
}

// Load reads an optional .env file and then the process environment.
func Load(logger logrus.FieldLogger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.WithError(err).Warn("no .env file loaded, using process environment")
	}

	c := new(Config)
	if err := envconfig.Process("", c); err != nil {
		return nil, fmt.Errorf("process environment config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Config) Validate() error {
	if c.MongoURI == "" {
		return errors.New("set MONGODB_URI")
	}

	if c.Port == 0 {
		c.Port = 3001
	}

	if c.RequestTimeout == 0 {
		c.RequestTimeout = 10
	}

	return nil
}

func (c *Config) PaymentsEnabled() bool {
	return c.MerchantID != "" && c.Secret != "" && c.PaymentURL != ""
}

func (c *Config) MailEnabled() bool {
	return c.EmailFrom != "" && c.EmailPass != "" && c.ContactNotifyTo != ""
}

func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func (c *Config) ReconcileMinAge() time.Duration {
	return time.Duration(c.ReconcileMinAgeMin) * time.Minute
}

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	if strings.EqualFold(c.LogFormat, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		logger.WithError(err).Warnf("unknown log level %q, using info", c.LogLevel)
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	return logger
}
