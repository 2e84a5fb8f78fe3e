package sandbox

import (
	"fmt"
	"math/rand"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// FailConfig describes injected failures: Rate is the fraction of requests
// answered with Code.
type FailConfig struct {
	Rate float64
	Code int
}

// ParseFailConfig parses "rate=<float>,code=<httpStatus>". An empty string
// disables failure injection.
func ParseFailConfig(raw string) (FailConfig, error) {
	cfg := FailConfig{}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return cfg, nil
	}
	for _, part := range strings.Split(raw, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 {
			return cfg, fmt.Errorf("invalid fail option %q", part)
		}
		switch strings.ToLower(kv[0]) {
		case "rate":
			v, err := strconv.ParseFloat(kv[1], 64)
			if err != nil {
				return cfg, fmt.Errorf("invalid fail rate: %w", err)
			}
			if v < 0 || v > 1 {
				return cfg, fmt.Errorf("fail rate %v out of range [0,1]", v)
			}
			cfg.Rate = v
		case "code":
			v, err := strconv.Atoi(kv[1])
			if err != nil {
				return cfg, fmt.Errorf("invalid fail code: %w", err)
			}
			if v < 400 || v > 599 {
				return cfg, fmt.Errorf("fail code %d is not an error status", v)
			}
			cfg.Code = v
		default:
			return cfg, fmt.Errorf("unknown fail option %q", kv[0])
		}
	}
	return cfg, nil
}

func latency(delay time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if delay <= 0 {
			c.Next()
			return
		}
		t := time.NewTimer(delay)
		defer t.Stop()
		select {
		case <-t.C:
			c.Next()
		case <-c.Request.Context().Done():
			c.Abort()
		}
	}
}

// failureInjection answers with a plain-text body, like a proxy in front of
// the vault would.
func (s *Server) failureInjection(cfg FailConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cfg.Rate > 0 && rand.Float64() < cfg.Rate {
			status := cfg.Code
			if status == 0 {
				status = http.StatusInternalServerError
			}
			s.logger.Warn(c.Request.Context(), "injecting failure", "path", c.Request.URL.Path, "status", status)
			c.String(status, "failure injected")
			c.Abort()
			return
		}
		c.Next()
	}
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Info(c.Request.Context(), "sandbox request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
