package admin

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// Values of the "created" date filter.
const (
	CreatedToday     = "today"
	CreatedPast7Days = "past_7_days"
	CreatedThisMonth = "this_month"
	CreatedThisYear  = "this_year"
)

// createdSince maps a "created" filter value to its lower bound.
// An empty value means no bound.
func createdSince(value string, now time.Time) (*time.Time, error) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	var since time.Time
	switch value {
	case "":
		return nil, nil
	case CreatedToday:
		since = today
	case CreatedPast7Days:
		since = today.AddDate(0, 0, -7)
	case CreatedThisMonth:
		since = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	case CreatedThisYear:
		since = time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
	default:
		return nil, fmt.Errorf("invalid created filter %q", value)
	}
	return &since, nil
}

func queryBool(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid %s filter %q", name, raw)
	}
	return &v, nil
}

func queryID(c *gin.Context, name string) (*uint, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s filter %q", name, raw)
	}
	id := uint(v)
	return &id, nil
}
