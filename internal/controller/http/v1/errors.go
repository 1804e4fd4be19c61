package v1

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/stivencardonauniandes/anb-rising-stars-showcase/internal/domain/entity"
)

// abortWithError maps domain errors onto the HTTP taxonomy: validation and
// state conflicts are 400, ownership violations 403, missing or deleted
// videos 404, everything else a generic 500 so dependency details never leak.
func abortWithError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidTitle),
		errors.Is(err, entity.ErrInvalidFileType),
		errors.Is(err, entity.ErrInvalidVideoLength),
		errors.Is(err, entity.ErrInvalidID),
		errors.Is(err, entity.ErrAlreadyVoted),
		errors.Is(err, entity.ErrSelfVote),
		errors.Is(err, entity.ErrInvalidState):
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrForbidden):
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, entity.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
