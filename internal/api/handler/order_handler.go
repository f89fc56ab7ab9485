package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/addisbites/ordering-system/internal/core/domain"
	"github.com/addisbites/ordering-system/internal/core/ports"
)

// OrderHandler handles HTTP requests for order operations, including the
// courier claim and release endpoints.
type OrderHandler struct {
	service ports.OrderService
}

func NewOrderHandler(service ports.OrderService) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /v1/orders.
//
// @Summary      Place a new order
// @Tags         orders
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createOrderRequest  true  "Order details"
// @Success      201   {object}  orderResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/orders [post]
func (h *OrderHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	items := make([]ports.OrderItemInput, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ports.OrderItemInput{
			Name:     it.Name,
			Quantity: it.Quantity,
			Price:    it.Price,
		})
	}

	order, err := h.service.CreateOrder(c.Request().Context(), ports.CreateOrderInput{
		CustomerID:   identity.TelegramID,
		CustomerName: identity.FirstName,
		Items:        items,
		Address:      req.Address,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toOrderResponse(order))
}

// Get handles GET /v1/orders/:id.
//
// @Summary      Get an order by id
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id (e.g. ORD-7A8B9C2D)"
// @Success      200  {object}  orderResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/orders/{id} [get]
func (h *OrderHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	order, err := h.service.GetOrder(c.Request().Context(), c.Param("id"), identity.TelegramID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// ListReady handles GET /v1/orders/ready — the claimable pool for couriers.
//
// @Summary      List orders ready for pickup
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listOrdersResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/orders/ready [get]
func (h *OrderHandler) ListReady(c echo.Context) error {
	orders, err := h.service.ListReady(c.Request().Context())
	if err != nil {
		return err
	}

	data := make([]orderSummaryResponse, 0, len(orders))
	for _, o := range orders {
		data = append(data, orderSummaryResponse{
			ID:           o.ID,
			CustomerName: o.CustomerName,
			Total:        o.Total,
			Status:       string(o.Status),
			Address:      o.Address,
			CreatedAt:    o.CreatedAt,
		})
	}

	return c.JSON(http.StatusOK, listOrdersResponse{Data: data, Count: len(data)})
}

// Claim handles POST /v1/orders/:id/claim — the exclusive assignment race.
// Exactly one of N concurrent couriers gets 200; the rest get 409.
//
// @Summary      Claim a ready order for delivery
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/orders/{id}/claim [post]
func (h *OrderHandler) Claim(c echo.Context) error {
	courierID, err := ctxCourierID(c)
	if err != nil {
		return err
	}

	order, err := h.service.Claim(c.Request().Context(), c.Param("id"), courierID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// Release handles POST /v1/orders/:id/release — hand the order back to the
// ready pool. Only the owning courier succeeds.
//
// @Summary      Release a claimed order
// @Tags         orders
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Order id"
// @Success      200  {object}  orderResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      409  {object}  errorResponse
// @Router       /v1/orders/{id}/release [post]
func (h *OrderHandler) Release(c echo.Context) error {
	courierID, err := ctxCourierID(c)
	if err != nil {
		return err
	}

	order, err := h.service.Release(c.Request().Context(), c.Param("id"), courierID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toOrderResponse(order))
}

// toOrderResponse maps the domain aggregate to the transport representation.
func toOrderResponse(o *domain.Order) orderResponse {
	items := make([]orderItemResponse, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, orderItemResponse{Name: it.Name, Quantity: it.Quantity, Price: it.Price})
	}

	history := make([]statusHistoryItemResponse, 0, len(o.StatusHistory))
	for _, h := range o.StatusHistory {
		history = append(history, statusHistoryItemResponse{
			Status:    string(h.Status),
			Timestamp: h.Timestamp,
			Notes:     h.Notes,
		})
	}

	return orderResponse{
		ID:            o.ID,
		CustomerID:    o.CustomerID,
		CustomerName:  o.CustomerName,
		Items:         items,
		Total:         o.Total,
		Status:        string(o.Status),
		PaymentStatus: string(o.PaymentStatus),
		CourierID:     o.CourierID,
		Address:       o.Address,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
		StatusHistory: history,
	}
}
