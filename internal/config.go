package internal

import (
	"fmt"
	"time"

	"space-chat/errors"
)

type Config struct {
	JWTSecret            string        `env:"JWT_SECRET,required=true"`
	JWTExpirationMs      int64         `env:"JWT_EXPIRATION_MS,required=true"`
	ChatEncryptionKey    string        `env:"CHAT_ENCRYPTION_KEY,required=true"`
	BadgerFilepath       string        `env:"BADGER_FILEPATH,required=true"`
	LogLevel             string        `env:"LOG_LEVEL,required=true"`
	Host                 string        `env:"HOST,default=localhost"`
	Port                 int           `env:"PORT,default=8080"`
	MaxContentLength     int           `env:"MAX_CONTENT_LENGTH,default=4000"`
	SubscriberBufferSize int           `env:"SUBSCRIBER_BUFFER_SIZE,default=64"`
	DeliveryTimeout      time.Duration `env:"DELIVERY_TIMEOUT,default=500ms"`
	// DebugPort enables the Badger inspector when LOG_LEVEL is DEBUG. 0 disables it.
	DebugPort int `env:"DEBUG_PORT,default=0"`
}

// TokenTTL converts the millisecond setting, rejecting non positive values.
func (c Config) TokenTTL() (time.Duration, error) {
	if c.JWTExpirationMs <= 0 {
		return 0, fmt.Errorf("%w: JWT_EXPIRATION_MS must be positive, got %d",
			errors.ErrConfig, c.JWTExpirationMs)
	}
	return time.Duration(c.JWTExpirationMs) * time.Millisecond, nil
}

// Validate checks the values go-env cannot express as tags.
func (c Config) Validate() error {
	if c.MaxContentLength <= 0 {
		return fmt.Errorf("%w: MAX_CONTENT_LENGTH must be positive", errors.ErrConfig)
	}
	if c.SubscriberBufferSize < 0 {
		return fmt.Errorf("%w: SUBSCRIBER_BUFFER_SIZE must not be negative", errors.ErrConfig)
	}
	if c.DeliveryTimeout <= 0 {
		return fmt.Errorf("%w: DELIVERY_TIMEOUT must be positive", errors.ErrConfig)
	}
	_, err := c.TokenTTL()
	return err
}
