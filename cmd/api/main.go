package main

import (
	"expvar"
	"fmt"
	"net/http"
	"os"
	"runtime"

	"paynow/internal/auth"
	"paynow/internal/payments"
	"paynow/internal/ratelimiter"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger creates a new zap logger with color.
func NewLogger(level zapcore.Level) *zap.SugaredLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder

	consoleEncoder := zapcore.NewConsoleEncoder(encoderCfg)
	core := zapcore.NewCore(consoleEncoder, zapcore.AddSync(os.Stdout), level)

	return zap.New(core).Sugar()
}

// logLevel enables debug logging, including raw gateway replies, in development.
func logLevel(env string) zapcore.Level {
	if env == "development" {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// bootstrapLogger loads the env files (.env by default) before building the
// logger, since they may set ENV.
func bootstrapLogger(envFiles ...string) *zap.SugaredLogger {
	envErr := godotenv.Load(envFiles...)

	logger := NewLogger(logLevel(os.Getenv("ENV")))
	if envErr != nil {
		logger.Infow("no .env file loaded, using process environment", "err", envErr)
	}
	return logger
}

var version = "1.0.0"

func main() {
	logger := bootstrapLogger()
	defer logger.Sync()

	cfg, err := loadConfig()
	if err != nil {
		logger.Fatal(err)
	}

	gateway, err := payments.New(cfg.paynow.integrations,
		payments.WithReturnURL(cfg.paynow.returnURL),
		payments.WithResultURL(cfg.paynow.resultURL),
		payments.WithHTTPClient(&http.Client{Timeout: cfg.paynow.timeout}),
		payments.WithLogger(logger.Named("paynow")),
	)
	if err != nil {
		logger.Fatal(err)
	}
	logger.Infow("paynow client ready", "currencies", gateway.Currencies())

	if cfg.auth.token.secret == "" {
		logger.Fatal(fmt.Errorf("AUTH_TOKEN_SECRET must be set"))
	}
	jwtAuthenticator := auth.NewJWTAuthenticator(
		cfg.auth.token.secret,
		cfg.auth.token.iss,
		cfg.auth.token.iss,
		cfg.auth.token.exp,
	)

	rateLimiter := ratelimiter.NewFixedWindowLimiter(
		cfg.rateLimiter.RequestsPerTimeFrame,
		cfg.rateLimiter.TimeFrame,
	)

	app := &application{
		config:        cfg,
		logger:        logger,
		payments:      gateway,
		authenticator: jwtAuthenticator,
		rateLimiter:   rateLimiter,
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	if err := app.run(mux); err != nil {
		logger.Fatal(err)
	}
}
