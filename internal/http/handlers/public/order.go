package public

import (
	"strings"

	handlershared "github.com/nilecart/internal/http/handlers/shared"
	"github.com/nilecart/internal/http/response"
	"github.com/nilecart/internal/models"

	"github.com/gin-gonic/gin"
)

// GetGuestOrder 匿名订单凭访问令牌查询
func (h *Handler) GetGuestOrder(c *gin.Context) {
	token := strings.TrimSpace(c.Query("token"))
	if token == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	order, err := h.OrderService.GetForGuest(c.Param("order_number"), token)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, order)
}

// ListMyOrders 当前用户订单列表
func (h *Handler) ListMyOrders(c *gin.Context) {
	userID, ok := handlershared.RequireUserID(c)
	if !ok {
		return
	}
	page, pageSize := handlershared.PaginationFromQuery(c)
	orders, total, err := h.OrderService.ListForUser(userID, page, pageSize)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	response.SuccessWithPage(c, orders, response.BuildPagination(page, pageSize, total))
}

// GetMyOrder 当前用户订单详情
func (h *Handler) GetMyOrder(c *gin.Context) {
	userID, ok := handlershared.RequireUserID(c)
	if !ok {
		return
	}
	order, err := h.OrderService.GetForUser(c.Param("order_number"), userID)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, order)
}
