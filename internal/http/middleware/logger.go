package middleware

import (
	"errors"
	"io"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"workcompliance/internal/logger"
)

// Logger logs each HTTP request once it has been handled.
// Fields: request_id (from RequestID), method, path, status and latency in milliseconds.
func Logger(l *zap.Logger) fiber.Handler {
	l = l.With(zap.String("component", "http"))

	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		rid, _ := c.Locals(RequestIDLocalKey).(string)
		status := c.Response().StatusCode()
		var fe *fiber.Error
		if errors.As(err, &fe) {
			status = fe.Code
		} else if err != nil {
			status = fiber.StatusInternalServerError
		}

		fields := []zap.Field{
			zap.String("event", "request"),
			zap.String("request_id", rid),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Float64("latency", float64(time.Since(start).Microseconds())/1000),
		}
		if status >= fiber.StatusInternalServerError {
			l.Error("request completed", fields...)
		} else {
			l.Info("request completed", fields...)
		}
		return err
	}
}

// LoggerWithWriter is Logger with a JSON logger writing to w.
func LoggerWithWriter(w io.Writer) fiber.Handler {
	return Logger(logger.NewWithWriter(w))
}
