package service

import (
	"github.com/nilecart/internal/models"

	"github.com/shopspring/decimal"
)

// EffectivePrice 规格成交单价：促销价（低于原价时）或原价，加规格调整价，最低为 0
func EffectivePrice(product *models.Product, variant *models.ProductVariant) models.Money {
	base := decimal.Zero
	if product != nil {
		base = product.Price.Decimal
		sale := product.SalePrice.Decimal
		if product.IsOnSale && sale.GreaterThan(decimal.Zero) && sale.LessThan(base) {
			base = sale
		}
	}
	if variant != nil {
		base = base.Add(variant.PriceAdjustment.Decimal)
	}
	if base.LessThan(decimal.Zero) {
		base = decimal.Zero
	}
	return models.NewMoneyFromDecimal(base.Round(2))
}

// VariantPrice 使用规格自带的商品关联计算单价
func VariantPrice(variant *models.ProductVariant) models.Money {
	if variant == nil {
		return models.NewMoneyFromDecimal(decimal.Zero)
	}
	return EffectivePrice(variant.Product, variant)
}

// lineTotal 行小计
func lineTotal(unit models.Money, quantity int) decimal.Decimal {
	return unit.Decimal.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
