package config

import (
	"testing"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/sirupsen/logrus"
)

func TestProcessDefaults(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MERCHANT_ID", "EPAYTEST")

	c := new(Config)
	if err := envconfig.Process("", c); err != nil {
		t.Fatalf("process: %v", err)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	if c.Port != 3001 {
		t.Fatalf("expected default port 3001 got %d", c.Port)
	}
	if c.MongoDatabase != "psetu" {
		t.Fatalf("expected default database psetu got %s", c.MongoDatabase)
	}
	if c.InferenceURL != "http://127.0.0.1:8000/predict" {
		t.Fatalf("unexpected inference url %s", c.InferenceURL)
	}
	if c.Timeout() != 10*time.Second {
		t.Fatalf("expected 10s timeout got %s", c.Timeout())
	}
	if c.PaymentsEnabled() {
		t.Fatalf("payments should be disabled without SECRET and ESEWAPAYMENT_URL")
	}
}

func TestValidateRequiresMongoURI(t *testing.T) {
	c := &Config{}
	if err := c.Validate(); err == nil {
		t.Fatalf("expected error when MONGODB_URI is empty")
	}
}

func TestOrigins(t *testing.T) {
	c := &Config{CORSOrigins: " http://a.test , ,http://b.test"}
	got := c.Origins()
	if len(got) != 2 || got[0] != "http://a.test" || got[1] != "http://b.test" {
		t.Fatalf("unexpected origins %v", got)
	}
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	c := &Config{LogLevel: "loud", LogFormat: "text"}
	logger := c.NewLogger()
	if logger.GetLevel() != logrus.InfoLevel {
		t.Fatalf("expected info level got %s", logger.GetLevel())
	}
	if _, ok := logger.Formatter.(*logrus.TextFormatter); !ok {
		t.Fatalf("expected text formatter got %T", logger.Formatter)
	}
}
