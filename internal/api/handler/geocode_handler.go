package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/streetfare/booking-api/internal/infrastructure/geocode"
)

// GeocodeHandler proxies free-text location searches so browser clients
// never talk to the geocoding provider directly.
type GeocodeHandler struct {
	client *geocode.Client
}

func NewGeocodeHandler(client *geocode.Client) *GeocodeHandler {
	return &GeocodeHandler{client: client}
}

type geocodeResponse struct {
	Data []geocode.Candidate `json:"data"`
}

// Search handles GET /v1/geocode?q=...
//
// @Summary      Geocode a free-text location
// @Tags         geocode
// @Produce      json
// @Security     BearerAuth
// @Param        q  query  string  true  "Search text"
// @Success      200  {object}  geocodeResponse
// @Router       /v1/geocode [get]
func (h *GeocodeHandler) Search(c echo.Context) error {
	candidates, err := h.client.Search(c.Request().Context(), c.QueryParam("q"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, geocodeResponse{Data: candidates})
}
