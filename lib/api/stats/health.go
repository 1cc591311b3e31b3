package stats

import (
	"context"
	"time"

	"github.com/ether/uiflex-go/lib/db"
	"github.com/ether/uiflex-go/lib/ws"
	"github.com/gofiber/fiber/v2"
)

const pingTimeout = 2 * time.Second

type DBChecker struct {
	db db.DataStore
}

func NewDBChecker(store db.DataStore) DBChecker {
	return DBChecker{db: store}
}

func (d DBChecker) Name() string {
	return "database"
}

func (d DBChecker) Check() Check {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	err := d.db.Ping(ctx)

	if err != nil {
		return Check{
			Status: StatusFail,
			Output: err.Error(),
		}
	}

	return Check{
		Status:     StatusPass,
		Observed:   "ok",
		ObservedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

type NavigationChecker struct {
	hub *ws.Hub
}

func NewNavigationChecker(hub *ws.Hub) NavigationChecker {
	return NavigationChecker{hub: hub}
}

func (n NavigationChecker) Name() string {
	return "navigation"
}

func (n NavigationChecker) Check() Check {
	if n.hub == nil {
		return Check{
			Status: StatusWarn,
			Output: "navigation hub not running",
		}
	}
	stats := n.hub.Stats()
	return Check{
		Status:     StatusPass,
		Observed:   stats,
		ObservedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

// Handler godoc
// @Summary Health check endpoint
// @Description Returns the health status of the service (RFC Health Check Draft)
// @Tags Health
// @Produce json
// @Success 200 {object} HealthResponse "Service is healthy"
// @Failure 503 {object} HealthResponse "Service is unhealthy"
// @Router /health [get]
func Handler(
	version string,
	releaseID string,
	serviceID string,
	checkers []Checker,
) fiber.Handler {
	return func(c *fiber.Ctx) error {
		resp := HealthResponse{
			Status:    StatusPass,
			Version:   version,
			ReleaseID: releaseID,
			ServiceID: serviceID,
			Checks:    map[string][]Check{},
		}

		httpStatus := fiber.StatusOK

		for _, checker := range checkers {
			check := checker.Check()
			resp.Checks[checker.Name()] = []Check{check}

			switch check.Status {
			case StatusFail:
				resp.Status = StatusFail
				httpStatus = fiber.StatusServiceUnavailable
			case StatusWarn:
				if resp.Status != StatusFail {
					resp.Status = StatusWarn
				}
			}
		}

		return c.Status(httpStatus).JSON(resp)
	}
}
