package public

import (
	"strconv"

	handlershared "github.com/nilecart/internal/http/handlers/shared"
	"github.com/nilecart/internal/http/response"
	"github.com/nilecart/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListProducts 商品列表
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := handlershared.PaginationFromQuery(c)
	categoryID, _ := strconv.ParseUint(c.Query("category_id"), 10, 64)
	brandID, _ := strconv.ParseUint(c.Query("brand_id"), 10, 64)

	products, total, err := h.CatalogService.ListProducts(repository.ProductListFilter{
		Page:       page,
		PageSize:   pageSize,
		CategoryID: uint(categoryID),
		BrandID:    uint(brandID),
		Search:     c.Query("search"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.SuccessWithPage(c, products, response.BuildPagination(page, pageSize, total))
}

// GetProduct 商品详情（含规格）
func (h *Handler) GetProduct(c *gin.Context) {
	product, err := h.CatalogService.GetProduct(c.Param("slug"))
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, product)
}

// GetVariant 规格实时价格与库存
func (h *Handler) GetVariant(c *gin.Context) {
	id, ok := handlershared.ParseParamUint(c, "id")
	if !ok {
		return
	}
	availability, err := h.CatalogService.GetVariant(id)
	if err != nil {
		respondServiceError(c, err, "error.internal")
		return
	}
	response.Success(c, availability)
}

// ListCategories 分类与品牌
func (h *Handler) ListCategories(c *gin.Context) {
	categories, err := h.CatalogService.ListCategories()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	brands, err := h.CatalogService.ListBrands()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, gin.H{"categories": categories, "brands": brands})
}
