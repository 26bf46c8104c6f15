// Command authstub runs the in-memory stand-in for the PustakGhar
// auth API. Issued OTP codes are written to the log.
package main

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/w3bpiyush/pustakghar/internal/config"
	"github.com/w3bpiyush/pustakghar/internal/httpapi"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load("config/config.yml")
	if err != nil {
		logger.Fatalf("config: %v", err)
	}
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	registry := httpapi.NewRegistry(httpapi.RegistryConfig{
		OTPTTL: cfg.StubOTPTTL,
	}, logger)
	tokens := httpapi.NewTokenService(cfg.StubJWTSecret, cfg.StubJWTIssuer, cfg.StubTokenTTL)
	router := httpapi.BuildRouter(httpapi.NewHandlers(registry, tokens), tokens)

	addr := fmt.Sprintf(":%d", cfg.StubPort)
	logger.WithField("addr", addr).Info("auth stub listening")
	if err := router.Run(addr); err != nil {
		logger.Fatalf("server: %v", err)
	}
}
