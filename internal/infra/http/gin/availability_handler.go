package ginserver

import (
	"net/http"
	"strconv"
	"time"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/domain/availability"
	"staybook/internal/domain/listing"
	"staybook/internal/repo"
)

type AvailabilityHandler struct {
	Listings     *repo.Listings
	Reservations *repo.Reservations
	Now          func() time.Time
}

func (h AvailabilityHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Quote returns the price breakdown for a candidate stay without
// touching the reservation collection.
func (h AvailabilityHandler) Quote(c *gin.Context) {
	unit, checkIn, checkOut, ok := h.stayParams(c)
	if !ok {
		return
	}
	quote, err := availability.PriceQuote(unit, checkIn, checkOut)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, quote)
}

// Check validates a candidate range against existing reservations and
// reports the verdict, so forms can surface the exact failing rule
// before submission.
func (h AvailabilityHandler) Check(c *gin.Context) {
	unit, checkIn, checkOut, ok := h.stayParams(c)
	if !ok {
		return
	}
	guests := 1
	if raw := c.Query("guests"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "guests must be an integer"})
			return
		}
		guests = n
	}
	existing, err := h.Reservations.ByUnit(c.Request.Context(), unit.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	verdict := availability.Validate(unit, existing, checkIn, checkOut, guests, h.now())
	c.JSON(http.StatusOK, gin.H{"available": verdict.OK, "reason": verdict.Reason})
}

func (h AvailabilityHandler) stayParams(c *gin.Context) (*listing.Unit, time.Time, time.Time, bool) {
	unit, err := h.Listings.ByID(c.Request.Context(), listing.UnitID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return nil, time.Time{}, time.Time{}, false
	}
	checkIn, err := parseDay(c.Query("check_in"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must be YYYY-MM-DD"})
		return nil, time.Time{}, time.Time{}, false
	}
	checkOut, err := parseDay(c.Query("check_out"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be YYYY-MM-DD"})
		return nil, time.Time{}, time.Time{}, false
	}
	return unit, checkIn, checkOut, true
}

var _ AvailabilityHTTP = AvailabilityHandler{}
