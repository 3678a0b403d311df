package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tastybite/food-ordering/internal/api/metrics"
	"github.com/tastybite/food-ordering/internal/core/domain"
	"github.com/tastybite/food-ordering/internal/core/ports"
)

// HeaderIdempotencyKey lets clients retry a placement without creating a second order.
const HeaderIdempotencyKey = "Idempotency-Key"

// OrderHandler handles HTTP requests for the order ledger.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Place handles POST /orders.
//
// @Summary      Place an order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header    string             false  "Key that makes retries return the first order"
// @Param        body             body      placeOrderRequest  true   "Order"
// @Success      201              {object}  orderResponse
// @Success      200              {object}  orderResponse  "Idempotent replay"
// @Failure      400              {object}  errorResponse
// @Failure      409              {object}  errorResponse
// @Failure      500              {object}  errorResponse
// @Router       /orders [post]
func (h *OrderHandler) Place(c echo.Context) error {
	var req placeOrderRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	result, err := h.service.Place(c.Request().Context(), toPlaceOrderInput(req, c.Request().Header.Get(HeaderIdempotencyKey)))
	if err != nil {
		return err
	}

	if result.AlreadyExisted {
		metrics.OrdersPlacedTotal.WithLabelValues("replayed").Inc()
		return c.JSON(http.StatusOK, toOrderResponse(result.Order))
	}
	metrics.OrdersPlacedTotal.WithLabelValues("created").Inc()
	return c.JSON(http.StatusCreated, toOrderResponse(result.Order))
}

// UpdateStatus handles PUT /orders/:id.
//
// @Summary      Change an order's status
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Order id"
// @Param        body  body      updateStatusRequest  true  "New status (Pending, Delivered, Rejected)"
// @Success      200   {object}  orderResponse
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /orders/{id} [put]
func (h *OrderHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrValidation)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	order, err := h.service.SetStatus(c.Request().Context(), c.Param("id"), req.Status)
	if err != nil {
		return err
	}
	metrics.OrderStatusTransitionsTotal.WithLabelValues(string(order.Status)).Inc()
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Remove handles DELETE /orders/:id.
//
// @Summary      Delete an order
// @Tags         orders
// @Produce      json
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      404  {object}  errorResponse
// @Router       /orders/{id} [delete]
func (h *OrderHandler) Remove(c echo.Context) error {
	order, err := h.service.Remove(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Mine handles GET /orders, the caller's own orders newest first.
//
// @Summary      List the caller's orders
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (max 100, 0 = all)"
// @Success      200    {array}   orderResponse
// @Failure      401    {object}  errorResponse
// @Failure      403    {object}  errorResponse
// @Failure      404    {object}  errorResponse
// @Router       /orders [get]
func (h *OrderHandler) Mine(c echo.Context) error {
	claim, err := ctxClaim(c)
	if err != nil {
		return err
	}
	filter, err := pageFilter(c)
	if err != nil {
		return err
	}
	if claim.Email == "" {
		return domain.ErrOrderNotFound
	}
	filter.Email = claim.Email

	orders, err := h.service.ListForIdentity(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	if len(orders) == 0 {
		return fmt.Errorf("%w: no orders for this account", domain.ErrOrderNotFound)
	}
	return c.JSON(http.StatusOK, toOrderResponses(orders))
}

// All handles GET /allorders.
//
// @Summary      List every order
// @Tags         orders
// @Produce      json
// @Param        page   query     int  false  "Page (1-based)"
// @Param        limit  query     int  false  "Page size (max 100, 0 = all)"
// @Success      200    {array}   orderResponse
// @Router       /allorders [get]
func (h *OrderHandler) All(c echo.Context) error {
	filter, err := pageFilter(c)
	if err != nil {
		return err
	}
	orders, err := h.service.ListAll(c.Request().Context(), filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrderResponses(orders))
}

func pageFilter(c echo.Context) (ports.ListOrdersFilter, error) {
	var f ports.ListOrdersFilter
	if err := echo.QueryParamsBinder(c).
		Int("page", &f.Page).
		Int("limit", &f.Limit).
		BindError(); err != nil {
		return f, fmt.Errorf("%w: page and limit must be integers", domain.ErrValidation)
	}
	return f, nil
}
