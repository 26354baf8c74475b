package admin

import (
	"strconv"
	"strings"
	"time"

	handlershared "github.com/nilecart/internal/http/handlers/shared"
	"github.com/nilecart/internal/http/response"
	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/repository"
	"github.com/nilecart/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// CreateCouponRequest 创建优惠券请求
type CreateCouponRequest struct {
	Code               string    `json:"code" binding:"required"`
	DiscountType       string    `json:"discount_type" binding:"required"`
	Value              string    `json:"value" binding:"required"`
	MinimumOrderAmount string    `json:"minimum_order_amount"`
	ValidFrom          time.Time `json:"valid_from" binding:"required"`
	ValidTo            time.Time `json:"valid_to" binding:"required"`
	UsageLimit         *int      `json:"usage_limit"`
	IsActive           *bool     `json:"is_active"`
}

// GetCoupons 优惠券列表
func (h *Handler) GetCoupons(c *gin.Context) {
	page, pageSize := handlershared.PaginationFromQuery(c)
	filter := repository.CouponListFilter{
		Page:     page,
		PageSize: pageSize,
		Code:     strings.TrimSpace(c.Query("code")),
	}
	if raw := strings.TrimSpace(c.Query("is_active")); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter.IsActive = &active
		}
	}
	coupons, total, err := h.CouponService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	if coupons == nil {
		coupons = []models.Coupon{}
	}
	response.SuccessWithPage(c, coupons, response.BuildPagination(page, pageSize, total))
}

// CreateCoupon 创建优惠券
func (h *Handler) CreateCoupon(c *gin.Context) {
	var req CreateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	value, err := decimal.NewFromString(strings.TrimSpace(req.Value))
	if err != nil {
		respondServiceError(c, &service.ValidationError{Code: service.ReasonInvalidCoupon, Field: "value"}, "error.internal")
		return
	}
	minimum := decimal.Zero
	if raw := strings.TrimSpace(req.MinimumOrderAmount); raw != "" {
		minimum, err = decimal.NewFromString(raw)
		if err != nil {
			respondServiceError(c, &service.ValidationError{Code: service.ReasonInvalidCoupon, Field: "minimum_order_amount"}, "error.internal")
			return
		}
	}
	coupon, err := h.CouponService.Create(service.CreateCouponInput{
		Code:               req.Code,
		DiscountType:       req.DiscountType,
		Value:              models.NewMoneyFromDecimal(value),
		MinimumOrderAmount: models.NewMoneyFromDecimal(minimum),
		ValidFrom:          req.ValidFrom,
		ValidTo:            req.ValidTo,
		UsageLimit:         req.UsageLimit,
		IsActive:           req.IsActive,
	})
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, coupon)
}
