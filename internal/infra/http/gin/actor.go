package ginserver

import (
	"errors"
	"net/http"
	"strings"
	"time"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/reservation"
	"staybook/internal/domain/shared/money"
	"staybook/internal/repo"
	"staybook/internal/store"
)

// The acting user is supplied explicitly on every request; there is no
// ambient session state in the core. Authentication itself happens in
// front of this service.
const actorHeader = "X-Actor-ID"

func requireActor(c *gin.Context) (string, bool) {
	actor := strings.TrimSpace(c.GetHeader(actorHeader))
	if actor == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + actorHeader + " header"})
		return "", false
	}
	return actor, true
}

// parseDay accepts calendar dates in YYYY-MM-DD form.
func parseDay(raw string) (time.Time, error) {
	return time.Parse(time.DateOnly, strings.TrimSpace(raw))
}

// respondError maps domain failures onto HTTP statuses so the
// presentation layer sees the specific rule that failed.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, listing.ErrNotFound), errors.Is(err, reservation.ErrNotFound), errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrDuplicateID):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repo.ErrDateConflict), errors.Is(err, reservation.ErrInvalidTransition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, repo.ErrInvalidRange), errors.Is(err, repo.ErrCapacityExceeded), errors.Is(err, repo.ErrPastCheckIn):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, reservation.ErrUnknownStatus), errors.Is(err, reservation.ErrInvalidGuests),
		errors.Is(err, reservation.ErrRequesterRequired):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, listing.ErrTitleRequired), errors.Is(err, listing.ErrMaxGuests),
		errors.Is(err, listing.ErrNightlyRate), errors.Is(err, listing.ErrLocation),
		errors.Is(err, listing.ErrOwnerRequired), errors.Is(err, money.ErrInvalidCurrency):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
