package api

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contextFor(target string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestCriteriaFromQuery_Lists(t *testing.T) {
	c, err := criteriaFromQuery(contextFor("/?region=West&region=East,South&retailer=+Amazon+&state="))
	require.NoError(t, err)

	assert.Len(t, c.Regions, 3)
	assert.Contains(t, c.Regions, "South")
	assert.Len(t, c.Retailers, 1)
	assert.Contains(t, c.Retailers, "Amazon")
	assert.Empty(t, c.States, "Expected an empty value to mean no restriction")
}

func TestCriteriaFromQuery_DateRange(t *testing.T) {
	c, err := criteriaFromQuery(contextFor("/?start=2023-01-01&end=2023-01-31"))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), c.From)
	assert.Equal(t, time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), c.To, "Expected the end day to be included")
}

func TestCriteriaFromQuery_OpenRanges(t *testing.T) {
	c, err := criteriaFromQuery(contextFor("/?start=2023-06-01"))
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), c.From)
	assert.True(t, c.To.IsZero())

	c, err = criteriaFromQuery(contextFor("/?end=2023-06-01"))
	require.NoError(t, err)
	assert.True(t, c.From.IsZero())
	assert.Equal(t, time.Date(2023, 6, 2, 0, 0, 0, 0, time.UTC), c.To)
}

func TestCriteriaFromQuery_SingleDay(t *testing.T) {
	c, err := criteriaFromQuery(contextFor("/?date=2024-02-29&start=1999-01-01"))
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), c.From)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), c.To)
}

func TestCriteriaFromQuery_Invalid(t *testing.T) {
	_, err := criteriaFromQuery(contextFor("/?date=yesterday"))
	assert.ErrorIs(t, err, errInvalidDate)

	_, err = criteriaFromQuery(contextFor("/?start=2023-02-01&end=2023-01-01"))
	assert.Error(t, err)
}
