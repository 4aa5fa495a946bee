package httputil

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ParsePagination parses offset (default 0) and limit (default 50, max 100).
func ParsePagination(c *gin.Context) (offset, limit int, err error) {
	offset, err = strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		return 0, 0, fmt.Errorf("invalid offset parameter: must be a non-negative integer")
	}

	limit, err = ParseBoundedInt(c, "limit", 50, 100)
	if err != nil {
		return 0, 0, err
	}
	return offset, limit, nil
}

// ParseBoundedInt parses query parameter key as an integer in [1, maxValue].
// A missing parameter yields defaultValue.
func ParseBoundedInt(c *gin.Context, key string, defaultValue, maxValue int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil || value < 1 || value > maxValue {
		return 0, fmt.Errorf("invalid %s parameter: must be between 1 and %d", key, maxValue)
	}
	return value, nil
}
