package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/invoice-api/pkg/logger"
)

// HTTPRecorder recibe un evento por petición atendida. Lo implementa *metrics.Collector.
type HTTPRecorder interface {
	HTTPRequest(method string, code int)
}

// RequestLogger escribe un evento zerolog por petición (método, ruta, status,
// latencia) y lo reporta a rec. rec puede ser nil.
func RequestLogger(log *logger.Logger, rec HTTPRecorder) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			status = fiber.StatusInternalServerError
			var fe *fiber.Error
			if errors.As(err, &fe) {
				status = fe.Code
			}
		}

		ev := log.Info()
		if status >= fiber.StatusInternalServerError {
			ev = log.Error().Err(err)
		}
		ev.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Str("request_id", c.GetRespHeader(fiber.HeaderXRequestID)).
			Msg("http")

		if rec != nil {
			rec.HTTPRequest(c.Method(), status)
		}
		return err
	}
}
