package middleware

import (
	"log"
	"time"

	"engilearn/backend/utils"

	"github.com/gofiber/fiber/v2"
)

func LoggingMiddleware(logger *log.Logger, colors bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		// Передаем управление следующему обработчику
		err := c.Next()

		status := c.Response().StatusCode()
		method := c.Method()

		var statusColor, methodColor, reset string
		if colors {
			statusColor, methodColor, reset = utils.StatusColor(status), utils.MethodColor(method), "\033[0m"
		}

		user := "-"
		if id, ok := UserID(c); ok {
			user = id.String()
		}

		logger.Printf("%s %s%s%s %s %s%d%s %v user=%s",
			c.IP(),
			methodColor, method, reset,
			c.Path(),
			statusColor, status, reset,
			time.Since(start),
			user,
		)

		return err
	}
}
