package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"paynow/internal/payments"
	"paynow/internal/ratelimiter"
)

type config struct {
	addr        string
	env         string
	paynow      paynowConfig
	auth        authConfig
	rateLimiter ratelimiter.Config
}

type paynowConfig struct {
	integrations []payments.Config
	returnURL    string
	resultURL    string
	timeout      time.Duration
	// pollHosts are the only hosts the poll endpoint forwards to.
	pollHosts []string
}

type authConfig struct {
	basic basicConfig
	token tokenConfig
}

type tokenConfig struct {
	secret string
	exp    time.Duration
	iss    string
}

type basicConfig struct {
	user string
	// passHash is a bcrypt hash of the basic auth password.
	passHash string
}

// loadConfig reads the service configuration from the environment.
func loadConfig() (config, error) {
	integrations, err := loadPaynowIntegrations()
	if err != nil {
		return config{}, err
	}

	return config{
		addr: getEnv("ADDR", ":8080"),
		env:  getEnv("ENV", "development"),
		paynow: paynowConfig{
			integrations: integrations,
			returnURL:    getEnv("PAYNOW_RETURN_URL", "http://localhost"),
			resultURL:    getEnv("PAYNOW_RESULT_URL", "http://localhost"),
			timeout:      getDurationEnv("PAYNOW_HTTP_TIMEOUT", 30*time.Second),
			pollHosts:    payments.DefaultEndpoints().Hosts(),
		},
		auth: authConfig{
			basic: basicConfig{
				user:     os.Getenv("AUTH_BASIC_USER"),
				passHash: os.Getenv("AUTH_BASIC_PASS_HASH"),
			},
			token: tokenConfig{
				secret: os.Getenv("AUTH_TOKEN_SECRET"),
				exp:    getDurationEnv("AUTH_TOKEN_EXP", 24*time.Hour),
				iss:    "paynow-api",
			},
		},
		rateLimiter: LoadRateLimiterConfig(),
	}, nil
}

// loadPaynowIntegrations builds one integration per code in PAYNOW_CURRENCIES
// from PAYNOW_<CUR>_INTEGRATION_ID and PAYNOW_<CUR>_INTEGRATION_KEY.
func loadPaynowIntegrations() ([]payments.Config, error) {
	var out []payments.Config
	for _, cur := range strings.Split(getEnv("PAYNOW_CURRENCIES", "USD"), ",") {
		cur = strings.ToUpper(strings.TrimSpace(cur))
		if cur == "" {
			continue
		}
		prefix := "PAYNOW_" + cur + "_"
		id, key := os.Getenv(prefix+"INTEGRATION_ID"), os.Getenv(prefix+"INTEGRATION_KEY")
		if id == "" || key == "" {
			return nil, fmt.Errorf("missing %sINTEGRATION_ID or %sINTEGRATION_KEY", prefix, prefix)
		}
		out = append(out, payments.Config{
			IntegrationID:  id,
			IntegrationKey: key,
			Currency:       cur,
			ReturnURL:      os.Getenv(prefix + "RETURN_URL"),
			ResultURL:      os.Getenv(prefix + "RESULT_URL"),
		})
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("PAYNOW_CURRENCIES lists no currencies")
	}
	return out, nil
}

// LoadRateLimiterConfig retrieves rate limiter settings from environment variables
func LoadRateLimiterConfig() ratelimiter.Config {
	return ratelimiter.Config{
		RequestsPerTimeFrame: getIntEnv("RATELIMITER_REQUESTS_COUNT", 200),
		TimeFrame:            getDurationEnv("RATELIMITER_TIME_FRAME", 5*time.Second),
		Enabled:              getBoolEnv("RATE_LIMITER_ENABLED", false),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
