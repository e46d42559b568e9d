package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports process liveness. It intentionally touches no
// dependencies so load balancers get an answer even when MySQL or Redis
// are down.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
