package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/NagasuriRaviTeja/movie-magic/internal/catalog"
	"github.com/NagasuriRaviTeja/movie-magic/internal/session"
)

// PageHandler serves the static pages and the movie listing.
type PageHandler struct {
	flasher
	Catalog *catalog.Catalog
}

func NewPageHandler(cat *catalog.Catalog, sessions session.Store) *PageHandler {
	return &PageHandler{flasher: flasher{Sessions: sessions}, Catalog: cat}
}

func (h *PageHandler) Index(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"page": "index", "flash": h.popFlashes(c)})
}

func (h *PageHandler) About(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"page": "about", "flash": h.popFlashes(c)})
}

func (h *PageHandler) Services(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"page": "services", "flash": h.popFlashes(c)})
}

// Home lists the catalog for the authenticated user.
func (h *PageHandler) Home(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"movies": h.Catalog.Movies(),
		"flash":  h.popFlashes(c),
	})
}
