package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tastybite/food-ordering/internal/core/domain"
	"github.com/tastybite/food-ordering/internal/core/ports"
)

// FoodHandler serves the catalog.
type FoodHandler struct {
	service ports.FoodService
}

func NewFoodHandler(service ports.FoodService) *FoodHandler {
	return &FoodHandler{service: service}
}

// List handles GET /food-items.
//
// @Summary  List catalog items
// @Tags     catalog
// @Produce  json
// @Success  200  {array}  domain.FoodItem
// @Router   /food-items [get]
func (h *FoodHandler) List(c echo.Context) error {
	items, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /food-items.
//
// @Summary      Add a catalog item
// @Tags         catalog
// @Accept       mpfd
// @Produce      json
// @Param        name         formData  string  true  "Name"
// @Param        price        formData  number  true  "Price"
// @Param        description  formData  string  true  "Description"
// @Param        category     formData  string  true  "Category"
// @Param        image        formData  file    true  "Image"
// @Success      201          {object}  domain.FoodItem
// @Failure      400          {object}  errorResponse
// @Router       /food-items [post]
func (h *FoodHandler) Create(c echo.Context) error {
	price, err := strconv.ParseFloat(strings.TrimSpace(c.FormValue("price")), 64)
	if err != nil {
		return fmt.Errorf("%w: price must be a number", domain.ErrValidation)
	}

	in := ports.CreateFoodItemInput{
		Name:        c.FormValue("name"),
		Price:       price,
		Description: c.FormValue("description"),
		Category:    c.FormValue("category"),
	}

	fh, err := c.FormFile("image")
	switch {
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	case err != nil:
		return fmt.Errorf("%w: unreadable image", domain.ErrValidation)
	default:
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("open image: %w", err)
		}
		defer f.Close()
		in.Image = &ports.Upload{Filename: fh.Filename, Content: f}
	}

	item, err := h.service.Create(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, item)
}

// Delete handles DELETE /food-items/:id.
//
// @Summary  Remove a catalog item
// @Tags     catalog
// @Produce  json
// @Param    id   path      string  true  "Item id"
// @Success  200  {object}  domain.FoodItem
// @Failure  404  {object}  errorResponse
// @Router   /food-items/{id} [delete]
func (h *FoodHandler) Delete(c echo.Context) error {
	item, err := h.service.Delete(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, item)
}
