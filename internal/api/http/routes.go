package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/weatherdesk/weatherdesk/internal/dashboard"
	"github.com/weatherdesk/weatherdesk/internal/weather"
)

var validate = validator.New()

// defaultHistoryLimit bounds the history query when the caller does not pass
// an explicit limit.
const defaultHistoryLimit = 200

// RegisterRoutes wires the HTTP handlers into the Fiber app. The dashboard
// is a pure consumer of these endpoints; no analytics happen client-side.
func RegisterRoutes(app *fiber.App, service *dashboard.Service) {
	v1 := app.Group("/api/v1")

	v1.Post("/analyze", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		analysis, err := service.Analyze(c.Context(), city)
		if err != nil {
			return mapDomainError(err)
		}
		return c.JSON(analysis)
	})

	v1.Get("/history", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		limit := c.QueryInt("limit", defaultHistoryLimit)
		if limit <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "limit must be positive")
		}

		points, err := service.History(city, limit)
		if err != nil {
			return mapDomainError(err)
		}
		return c.JSON(fiber.Map{
			"city":   city,
			"points": points,
		})
	})

	v1.Get("/forecast", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		window, err := service.CachedForecast(city)
		if err != nil {
			return mapDomainError(err)
		}
		return c.JSON(fiber.Map{
			"city": city,
			"days": window,
		})
	})

	v1.Get("/accuracy", func(c *fiber.Ctx) error {
		city, err := parseCityQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		report, err := service.Accuracy(city)
		if err != nil {
			return mapDomainError(err)
		}
		return c.JSON(report)
	})
}

// cityQuery holds the single query parameter shared by every endpoint.
type cityQuery struct {
	City string `validate:"required,min=2"`
}

func parseCityQuery(c *fiber.Ctx) (string, error) {
	q := cityQuery{City: c.Query("city")}
	if err := validate.Struct(q); err != nil {
		return "", err
	}
	return q.City, nil
}

// mapDomainError translates domain error kinds into HTTP statuses while
// keeping the underlying message for the dashboard to display.
func mapDomainError(err error) error {
	var upstream *weather.UpstreamError
	var storage *weather.StorageError

	switch {
	case errors.Is(err, weather.ErrInvalidCity):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, weather.ErrMissingCredential):
		return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
	case errors.Is(err, weather.ErrTimeout), errors.Is(err, weather.ErrForecastUnavailable):
		return fiber.NewError(fiber.StatusGatewayTimeout, err.Error())
	case errors.Is(err, weather.ErrNetwork), errors.As(err, &upstream):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	case errors.Is(err, weather.ErrMalformedPayload):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	case errors.As(err, &storage):
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
