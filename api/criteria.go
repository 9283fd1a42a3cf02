package api

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"sales_insights/internal/sales"
)

var errInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

// criteriaFromQuery reads filter constraints from the query string.
// region, retailer and state may repeat or hold comma separated values.
// start and end are calendar days, both included; date selects one day.
func criteriaFromQuery(c *gin.Context) (sales.Criteria, error) {
	criteria := sales.Criteria{}.
		WithRegions(listParam(c, "region")...).
		WithRetailers(listParam(c, "retailer")...).
		WithStates(listParam(c, "state")...)

	if day := c.Query("date"); day != "" {
		d, err := parseDay("date", day)
		if err != nil {
			return sales.Criteria{}, err
		}
		return criteria.WithDay(d), nil
	}

	start, err := parseDay("start", c.Query("start"))
	if err != nil {
		return sales.Criteria{}, err
	}
	end, err := parseDay("end", c.Query("end"))
	if err != nil {
		return sales.Criteria{}, err
	}

	switch {
	case !start.IsZero() && !end.IsZero():
		if end.Before(start) {
			return sales.Criteria{}, fmt.Errorf("end %s is before start %s", c.Query("end"), c.Query("start"))
		}
		criteria = criteria.WithDateRange(start, end)
	case !start.IsZero():
		criteria.From = start
	case !end.IsZero():
		criteria.To = end.AddDate(0, 0, 1)
	}
	return criteria, nil
}

func listParam(c *gin.Context, key string) []string {
	var out []string
	for _, raw := range c.QueryArray(key) {
		for _, v := range strings.Split(raw, ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func parseDay(key, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s=%q", errInvalidDate, key, value)
	}
	return d, nil
}
