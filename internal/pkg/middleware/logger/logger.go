package logger

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// GetLogger builds a production sugared logger at the given level
// ("debug", "info", "warn", "error"). An empty level means info.
func GetLogger(level string) (*zap.SugaredLogger, error) {
	lvl := zapcore.InfoLevel
	if level != "" {
		err := lvl.UnmarshalText([]byte(level))
		if err != nil {
			return nil, fmt.Errorf("Problem with log level '%s': %w", level, err)
		}
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	log, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("Problem with building of logger: %w", err)
	}
	return log.Sugar(), nil
}

func WithLogging(h http.Handler, log *zap.SugaredLogger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		h.ServeHTTP(ww, r)
		log.Infow("http request",
			"method", r.Method,
			"uri", r.RequestURI,
			"status", ww.Status(),
			"size", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	}
}
