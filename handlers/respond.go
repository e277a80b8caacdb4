package handlers

import (
	"net/http"
	"strconv"

	"cityrace/apperr"
	"cityrace/models"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, err error) {
	c.JSON(apperr.StatusCode(err), gin.H{"error": err.Error()})
}

func currentUser(c *gin.Context) (string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return "", false
	}
	return userID, true
}

// coordinateFromQuery parses the lat/long query parameters used by the start
// and next-question operations.
func coordinateFromQuery(c *gin.Context) (models.Coordinate, error) {
	latStr := c.Query("lat")
	longStr := c.Query("long")
	if latStr == "" || longStr == "" {
		return models.Coordinate{}, apperr.BadRequest("missing lat/long query parameters")
	}

	latitude, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return models.Coordinate{}, apperr.BadRequest("invalid lat parameter: %s", latStr)
	}
	longitude, err := strconv.ParseFloat(longStr, 64)
	if err != nil {
		return models.Coordinate{}, apperr.BadRequest("invalid long parameter: %s", longStr)
	}
	return models.Coordinate{Latitude: latitude, Longitude: longitude}, nil
}
