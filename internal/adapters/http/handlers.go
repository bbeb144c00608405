package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/wienermonitor/internal/core/domain"
	"github.com/samirrijal/wienermonitor/internal/core/usecases"
)

// ListSensorsHandler returns all sensors, optionally filtered by stop or by
// distance from a point (closest first).
func ListSensorsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var states []domain.SensorState

		latStr, lonStr := c.Query("lat"), c.Query("lon")
		if latStr != "" || lonStr != "" {
			lat, errLat := strconv.ParseFloat(latStr, 64)
			lon, errLon := strconv.ParseFloat(lonStr, 64)
			if errLat != nil || errLon != nil {
				return errBadRequest(c, "lat and lon must both be numbers")
			}
			radius := c.QueryFloat("radius", 500)
			if radius <= 0 || radius > 10000 {
				return errBadRequest(c, "radius must be between 1 and 10000 meters")
			}
			states = deps.Sensors.Nearby(domain.GeoPoint{Lat: lat, Lon: lon}, radius)
		} else {
			states = deps.Sensors.List()
		}

		if raw := c.Query("stop_id"); raw != "" {
			stopID, err := strconv.Atoi(raw)
			if err != nil || stopID <= 0 {
				return errBadRequest(c, "stop_id must be a positive integer")
			}
			filtered := states[:0]
			for _, s := range states {
				if s.StopID == stopID {
					filtered = append(filtered, s)
				}
			}
			states = filtered
		}

		return c.JSON(paginate(c, states, 50, 200))
	}
}

// GetSensorHandler returns the current state of one sensor.
func GetSensorHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		state, err := deps.Sensors.Get(c.Params("id"))
		if errors.Is(err, usecases.ErrSensorNotFound) {
			return errNotFound(c, "sensor not found")
		}
		if err != nil {
			return errUnavailable(c, err.Error())
		}
		return c.JSON(state)
	}
}

// UpdateSensorHandler polls a sensor right away instead of waiting for the
// next scan interval.
func UpdateSensorHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		state, err := deps.Sensors.Refresh(c.UserContext(), id)
		if errors.Is(err, usecases.ErrSensorNotFound) {
			return errNotFound(c, "sensor not found")
		}
		if err != nil {
			return errUnavailable(c, err.Error())
		}

		LoggerFromCtx(c.UserContext()).Info("sensor updated on demand", "unique_id", id)
		c.Set("Cache-Control", "no-store")
		return c.JSON(state)
	}
}
