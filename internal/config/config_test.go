package config_test

import (
	"testing"
	"time"

	"go-leave/internal/config"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	t.Run("defaults with env override", func(t *testing.T) {
		t.Setenv("DB_HOST", "db.internal")
		t.Setenv("SMTP_PORT", "2525")
		t.Setenv("NOTIFICATION_MODE", "outbox")

		cfg, err := config.Load("")

		assert.NoError(t, err)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, "5432", cfg.Database.Port)
		assert.Equal(t, 2525, cfg.Mail.Port)
		assert.Equal(t, config.NotificationModeOutbox, cfg.Notification.Mode)
		assert.Equal(t, 30*time.Second, cfg.Notification.DispatchLimit)
		assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	})
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *config.Config {
		return &config.Config{
			Server:       config.ServerConfig{Port: "3000"},
			Auth:         config.AuthConfig{JWTSecret: "0123456789abcdef"},
			Notification: config.NotificationConfig{Mode: config.NotificationModeInline},
		}
	}

	t.Run("success", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("negative short secret", func(t *testing.T) {
		cfg := valid()
		cfg.Auth.JWTSecret = "short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("negative outbox mode without broker", func(t *testing.T) {
		cfg := valid()
		cfg.Notification.Mode = config.NotificationModeOutbox
		assert.ErrorContains(t, cfg.Validate(), "kafka.broker")
	})

	t.Run("negative unknown mode", func(t *testing.T) {
		cfg := valid()
		cfg.Notification.Mode = "carrier-pigeon"
		assert.Error(t, cfg.Validate())
	})
}
