package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/reservation"
	"staybook/internal/repo"
)

type ReservationHandler struct {
	Reservations *repo.Reservations
	Listings     *repo.Listings
}

type createReservationRequest struct {
	UnitID   string `json:"unit_id"`
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
	Guests   int    `json:"guests"`
}

func (h ReservationHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	checkIn, err := parseDay(req.CheckIn)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_in must be YYYY-MM-DD"})
		return
	}
	checkOut, err := parseDay(req.CheckOut)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "check_out must be YYYY-MM-DD"})
		return
	}
	res, err := h.Reservations.Create(c.Request.Context(), repo.CreateParams{
		Unit:      listing.UnitID(req.UnitID),
		Requester: actor,
		CheckIn:   checkIn,
		CheckOut:  checkOut,
		Guests:    req.Guests,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toReservationResponse(res))
}

func (h ReservationHandler) Mine(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	out, err := h.Reservations.ByRequester(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": toReservationResponses(out)})
}

func (h ReservationHandler) ForOwner(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	out, err := h.Reservations.ByOwner(c.Request.Context(), listing.OwnerID(actor))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": toReservationResponses(out)})
}

func (h ReservationHandler) ForUnit(c *gin.Context) {
	out, err := h.Reservations.ByUnit(c.Request.Context(), listing.UnitID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reservations": toReservationResponses(out)})
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// SetStatus is the owner's decision endpoint: approve or decline a
// pending request, or cancel an active one on the guest's behalf.
func (h ReservationHandler) SetStatus(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req setStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	next, err := reservation.ParseStatus(req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	id := reservation.ReservationID(c.Param("id"))
	res, err := h.Reservations.ByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	unit, err := h.Listings.ByID(c.Request.Context(), res.Unit)
	if err != nil {
		respondError(c, err)
		return
	}
	if string(unit.Owner) != actor {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the unit owner may decide a reservation"})
		return
	}
	updated, err := h.Reservations.SetStatus(c.Request.Context(), id, next)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(updated))
}

func (h ReservationHandler) Cancel(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id := reservation.ReservationID(c.Param("id"))
	res, err := h.Reservations.ByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if res.Requester != actor {
		unit, err := h.Listings.ByID(c.Request.Context(), res.Unit)
		if err != nil {
			respondError(c, err)
			return
		}
		if string(unit.Owner) != actor {
			c.JSON(http.StatusForbidden, gin.H{"error": "only the requester or the unit owner may cancel"})
			return
		}
	}
	updated, err := h.Reservations.Cancel(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toReservationResponse(updated))
}

var _ ReservationHTTP = ReservationHandler{}
