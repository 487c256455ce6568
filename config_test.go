package main

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ConfigTestSuite struct {
	suite.Suite
}

func (s *ConfigTestSuite) SetupTest() {
	logger = zap.NewNop()

	// Clear environment variables
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("LISTEN_ADDR")
	os.Unsetenv("CLERK_WEBHOOK_SECRET")
	os.Unsetenv("DATABASE_PATH")
	os.Unsetenv("SHUTDOWN_TIMEOUT")
}

func (s *ConfigTestSuite) TestBuildConfig_Defaults() {
	s.T().Setenv("CLERK_WEBHOOK_SECRET", "whsec_test")

	cfg := BuildConfig()

	s.Equal(":8080", cfg.ListenAddr)
	s.Equal("whsec_test", cfg.WebhookSecret)
	s.Equal("./users.db", cfg.DatabasePath)
	s.Equal(10*time.Second, cfg.ShutdownTimeout)
}

func (s *ConfigTestSuite) TestBuildConfig_CustomValues() {
	s.T().Setenv("LISTEN_ADDR", ":9090")
	s.T().Setenv("CLERK_WEBHOOK_SECRET", "whsec_custom")
	s.T().Setenv("DATABASE_PATH", "/tmp/test.db")
	s.T().Setenv("SHUTDOWN_TIMEOUT", "30s")

	cfg := BuildConfig()

	s.Equal(":9090", cfg.ListenAddr)
	s.Equal("whsec_custom", cfg.WebhookSecret)
	s.Equal("/tmp/test.db", cfg.DatabasePath)
	s.Equal(30*time.Second, cfg.ShutdownTimeout)
}

func (s *ConfigTestSuite) TestGetEnvOrDefault() {
	s.Equal("fallback", getEnvOrDefault("LISTEN_ADDR", "fallback"))

	s.T().Setenv("LISTEN_ADDR", ":1234")
	s.Equal(":1234", getEnvOrDefault("LISTEN_ADDR", "fallback"))
}

func (s *ConfigTestSuite) TestBuildConfig_MissingSecretIsFatal() {
	logger = zap.New(zapcore.NewNopCore(), zap.WithFatalHook(zapcore.WriteThenPanic))

	s.Panics(func() { BuildConfig() })
}

func TestConfigTestSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}
