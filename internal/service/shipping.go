package service

import (
	"fmt"
	"strings"

	"github.com/nilecart/internal/config"
	"github.com/nilecart/internal/models"

	"github.com/shopspring/decimal"
)

// 运费提示码
const (
	ShippingMessageNone          = ""
	ShippingMessageNoItems       = "no_items"
	ShippingMessageFreeThreshold = "free_threshold_met"
	ShippingMessageEstimate      = "estimate"
)

// ShippingPolicy 运费规则
type ShippingPolicy struct {
	FreeThreshold     decimal.Decimal
	MetroRate         decimal.Decimal
	DomesticRate      decimal.Decimal
	InternationalRate decimal.Decimal
	DomesticCountry   string
	MetroCities       map[string]struct{}
}

// ShippingQuote 运费计算结果
type ShippingQuote struct {
	Cost    models.Money `json:"cost"`
	Message string       `json:"message"`
}

// NewShippingPolicy 从配置构建运费规则
func NewShippingPolicy(cfg config.ShippingConfig) (ShippingPolicy, error) {
	policy := ShippingPolicy{
		DomesticCountry: strings.ToUpper(strings.TrimSpace(cfg.DomesticCountry)),
		MetroCities:     make(map[string]struct{}, len(cfg.MetroCities)),
	}
	amounts := []struct {
		name   string
		raw    string
		target *decimal.Decimal
	}{
		{"free_threshold", cfg.FreeThreshold, &policy.FreeThreshold},
		{"metro_rate", cfg.MetroRate, &policy.MetroRate},
		{"domestic_rate", cfg.DomesticRate, &policy.DomesticRate},
		{"international_rate", cfg.InternationalRate, &policy.InternationalRate},
	}
	for _, item := range amounts {
		value, err := decimal.NewFromString(strings.TrimSpace(item.raw))
		if err != nil {
			return ShippingPolicy{}, fmt.Errorf("shop.shipping.%s invalid: %w", item.name, err)
		}
		if value.LessThan(decimal.Zero) {
			return ShippingPolicy{}, fmt.Errorf("shop.shipping.%s must not be negative", item.name)
		}
		*item.target = value
	}
	for _, city := range cfg.MetroCities {
		if key := normalizeCity(city); key != "" {
			policy.MetroCities[key] = struct{}{}
		}
	}
	return policy, nil
}

func normalizeCity(city string) string {
	return strings.ToLower(strings.TrimSpace(city))
}

// IsMetro 城市是否属于市内区域
func (p ShippingPolicy) IsMetro(city string) bool {
	_, ok := p.MetroCities[normalizeCity(city)]
	return ok
}

// IsDomestic 国家为空或等于本国视为国内
func (p ShippingPolicy) IsDomestic(country string) bool {
	country = strings.ToUpper(strings.TrimSpace(country))
	return country == "" || p.DomesticCountry == "" || country == p.DomesticCountry
}

// ShippingCost 按 (小计, 件数, 城市, 国家) 计算运费，纯函数
func ShippingCost(subtotal decimal.Decimal, totalItems int, city, country string, policy ShippingPolicy) ShippingQuote {
	zero := models.NewMoneyFromDecimal(decimal.Zero)
	if totalItems <= 0 {
		return ShippingQuote{Cost: zero, Message: ShippingMessageNoItems}
	}
	if subtotal.GreaterThanOrEqual(policy.FreeThreshold) {
		return ShippingQuote{Cost: zero, Message: ShippingMessageFreeThreshold}
	}
	if strings.TrimSpace(city) == "" && strings.TrimSpace(country) == "" {
		return ShippingQuote{Cost: models.NewMoneyFromDecimal(policy.MetroRate), Message: ShippingMessageEstimate}
	}

	rate := policy.InternationalRate
	if policy.IsDomestic(country) {
		rate = policy.DomesticRate
		if policy.IsMetro(city) {
			rate = policy.MetroRate
		}
	}
	return ShippingQuote{Cost: models.NewMoneyFromDecimal(rate), Message: ShippingMessageNone}
}
