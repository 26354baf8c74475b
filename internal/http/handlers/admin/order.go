package admin

import (
	"strings"
	"time"

	handlershared "github.com/nilecart/internal/http/handlers/shared"
	"github.com/nilecart/internal/http/response"
	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/repository"

	"github.com/gin-gonic/gin"
)

// UpdateOrderStatusRequest 修改订单状态请求
type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UpdatePaymentStatusRequest 修改支付状态请求
type UpdatePaymentStatusRequest struct {
	PaymentStatus string `json:"payment_status" binding:"required"`
}

func parseDateQuery(raw string, endOfDay bool) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil
	}
	if endOfDay {
		parsed = parsed.Add(24*time.Hour - time.Nanosecond)
	}
	return &parsed
}

// GetOrders 后台订单列表
func (h *Handler) GetOrders(c *gin.Context) {
	page, pageSize := handlershared.PaginationFromQuery(c)
	filter := repository.OrderListFilter{
		Page:          page,
		PageSize:      pageSize,
		Status:        strings.ToLower(strings.TrimSpace(c.Query("status"))),
		PaymentStatus: strings.ToLower(strings.TrimSpace(c.Query("payment_status"))),
		OrderNumber:   strings.TrimSpace(c.Query("order_number")),
		Email:         strings.TrimSpace(c.Query("email")),
		CreatedFrom:   parseDateQuery(c.Query("created_from"), false),
		CreatedTo:     parseDateQuery(c.Query("created_to"), true),
	}
	orders, total, err := h.OrderService.ListForAdmin(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetOrder 后台订单详情
func (h *Handler) GetOrder(c *gin.Context) {
	id, ok := handlershared.ParseParamUint(c, "id")
	if !ok {
		return
	}
	order, err := h.OrderService.GetByID(id)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, order)
}

// UpdateOrderStatus 按状态机迁移订单状态
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, ok := handlershared.ParseParamUint(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.UpdateStatus(id, req.Status)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, order)
}

// UpdatePaymentStatus 修改支付状态
func (h *Handler) UpdatePaymentStatus(c *gin.Context) {
	id, ok := handlershared.ParseParamUint(c, "id")
	if !ok {
		return
	}
	var req UpdatePaymentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.UpdatePaymentStatus(id, req.PaymentStatus)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, order)
}
