package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"staybook/internal/domain/listing"
	"staybook/internal/domain/shared/money"
	"staybook/internal/repo"
)

type ListingHandler struct {
	Listings *repo.Listings
}

type locationPayload struct {
	City    string  `json:"city"`
	Country string  `json:"country"`
	Lat     float64 `json:"lat"`
	Lon     float64 `json:"lon"`
}

type createUnitRequest struct {
	Title            string          `json:"title"`
	Description      string          `json:"description"`
	NightlyRateCents int64           `json:"nightly_rate_cents"`
	Currency         string          `json:"currency"`
	MaxGuests        int             `json:"max_guests"`
	Location         locationPayload `json:"location"`
	Amenities        []string        `json:"amenities"`
}

type updateUnitRequest struct {
	Title            *string          `json:"title"`
	Description      *string          `json:"description"`
	NightlyRateCents *int64           `json:"nightly_rate_cents"`
	Currency         *string          `json:"currency"`
	MaxGuests        *int             `json:"max_guests"`
	Location         *locationPayload `json:"location"`
	Amenities        []string         `json:"amenities"`
}

func (h ListingHandler) List(c *gin.Context) {
	if owner := c.Query("owner"); owner != "" {
		units, err := h.Listings.ByOwner(c.Request.Context(), listing.OwnerID(owner))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"units": toUnitResponses(units)})
		return
	}
	units, err := h.Listings.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"units": toUnitResponses(units)})
}

func (h ListingHandler) Get(c *gin.Context) {
	unit, err := h.Listings.ByID(c.Request.Context(), listing.UnitID(c.Param("id")))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUnitResponse(unit))
}

func (h ListingHandler) Create(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req createUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	rate, err := money.New(req.NightlyRateCents, currency)
	if err != nil {
		respondError(c, err)
		return
	}
	unit, err := h.Listings.Create(c.Request.Context(), listing.CreateParams{
		Owner:       listing.OwnerID(actor),
		Title:       req.Title,
		Description: req.Description,
		NightlyRate: rate,
		MaxGuests:   req.MaxGuests,
		Location:    listing.Location(req.Location),
		Amenities:   req.Amenities,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUnitResponse(unit))
}

func (h ListingHandler) Update(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id := listing.UnitID(c.Param("id"))
	unit, err := h.Listings.ByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	// Only the owner may mutate a unit; enforced here, not in the
	// repository.
	if string(unit.Owner) != actor {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the owner may edit a unit"})
		return
	}
	var req updateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	update := listing.Update{
		Title:       req.Title,
		Description: req.Description,
		MaxGuests:   req.MaxGuests,
		Amenities:   req.Amenities,
	}
	if req.NightlyRateCents != nil {
		currency := unit.NightlyRate.Currency
		if req.Currency != nil {
			currency = *req.Currency
		}
		rate, err := money.New(*req.NightlyRateCents, currency)
		if err != nil {
			respondError(c, err)
			return
		}
		update.NightlyRate = &rate
	}
	if req.Location != nil {
		loc := listing.Location(*req.Location)
		update.Location = &loc
	}
	updated, err := h.Listings.Update(c.Request.Context(), id, update)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUnitResponse(updated))
}

func (h ListingHandler) Delete(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	id := listing.UnitID(c.Param("id"))
	unit, err := h.Listings.ByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	if string(unit.Owner) != actor {
		c.JSON(http.StatusForbidden, gin.H{"error": "only the owner may remove a unit"})
		return
	}
	if err := h.Listings.Remove(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

var _ ListingHTTP = ListingHandler{}
