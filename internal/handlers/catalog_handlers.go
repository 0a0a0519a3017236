package handlers

import (
	"net/http"
	"strconv"

	"pay2u/internal/common"
	"pay2u/internal/services"

	"github.com/labstack/echo/v4"
)

// CatalogHandlers serves the public catalog of categories, services and terms
type CatalogHandlers struct {
	catalog services.CatalogService
}

func NewCatalogHandlers(catalog services.CatalogService) *CatalogHandlers {
	return &CatalogHandlers{catalog: catalog}
}

// ListCategories handles GET /v1/categories
func (h *CatalogHandlers) ListCategories(c echo.Context) error {
	categories, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"categories": categories,
	})
}

// ListServices handles GET /v1/services?category=&is_featured=&search=&limit=&offset=
func (h *CatalogHandlers) ListServices(c echo.Context) error {
	req := &services.ListServicesRequest{
		Category: c.QueryParam("category"),
		Search:   c.QueryParam("search"),
	}

	if raw := c.QueryParam("is_featured"); raw != "" {
		featured, err := strconv.ParseBool(raw)
		if err != nil {
			return common.SendValidationError(c, "is_featured", "must be true or false")
		}
		req.IsFeatured = &featured
	}

	limit, offset, err := parsePagination(c)
	if err != nil {
		return common.SendValidationError(c, "pagination", err.Error())
	}
	req.Limit, req.Offset = limit, offset

	list, err := h.catalog.ListServices(c.Request().Context(), req)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"services": list,
		"limit":    limit,
		"offset":   offset,
	})
}

// GetService handles GET /v1/services/:id and includes the service's terms
func (h *CatalogHandlers) GetService(c echo.Context) error {
	serviceID, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}

	service, err := h.catalog.GetService(c.Request().Context(), serviceID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, service)
}

// GetTerm handles GET /v1/services/:id/terms/:term_id
func (h *CatalogHandlers) GetTerm(c echo.Context) error {
	serviceID, ok, err := paramUUID(c, "id")
	if !ok {
		return err
	}
	termID, ok, err := paramUUID(c, "term_id")
	if !ok {
		return err
	}

	term, err := h.catalog.GetTerm(c.Request().Context(), serviceID, termID)
	if err != nil {
		return common.SendError(c, err)
	}
	return c.JSON(http.StatusOK, term)
}

func parsePagination(c echo.Context) (int, int, error) {
	limit, offset := 0, 0
	if raw := c.QueryParam("limit"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, err
		}
		limit = v
	}
	if raw := c.QueryParam("offset"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, err
		}
		offset = v
	}
	return common.ValidatePaginationParams(limit, offset)
}
