package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// pageParams extrae limit/offset con los topes de la API.
func pageParams(c *fiber.Ctx) (limit, offset int) {
	limit = c.QueryInt("limit", 20)
	offset = c.QueryInt("offset", 0)
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

// dateRangeParams extrae from/to (formato 2006-01-02); "to" es exclusivo al
// día siguiente para que el rango cubra el día completo.
func dateRangeParams(c *fiber.Ctx) (from, to *time.Time) {
	if s := c.Query("from"); s != "" {
		if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
			from = &t
		}
	}
	if s := c.Query("to"); s != "" {
		if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
			next := t.AddDate(0, 0, 1)
			to = &next
		}
	}
	return from, to
}
