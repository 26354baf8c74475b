package main

import (
	"errors"
	"time"

	"github.com/nilecart/internal/config"
	"github.com/nilecart/internal/constants"
	"github.com/nilecart/internal/logger"
	"github.com/nilecart/internal/models"

	"gorm.io/gorm"
)

type seedVariant struct {
	Color      string
	Size       string
	Adjustment string
	Stock      int
}

type seedProduct struct {
	Name      string
	Slug      string
	Category  string
	Brand     string
	Price     string
	SalePrice string
	Variants  []seedVariant
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	err := models.DB.Transaction(func(tx *gorm.DB) error {
		if err := seedLookups(tx); err != nil {
			return err
		}
		for _, product := range demoProducts() {
			if err := seedProductRow(tx, product); err != nil {
				return err
			}
		}
		return seedCoupons(tx)
	})
	if err != nil {
		stdLog.Fatalf("Seed failed: %v", err)
	}
	stdLog.Printf("Seed completed")
}

func demoProducts() []seedProduct {
	return []seedProduct{
		{
			Name: "Nile Cotton Tee", Slug: "nile-cotton-tee", Category: "tops", Brand: "delta",
			Price: "350", SalePrice: "299",
			Variants: []seedVariant{
				{Color: "White", Size: "M", Stock: 20},
				{Color: "White", Size: "L", Stock: 12},
				{Color: "Indigo", Size: "M", Adjustment: "25", Stock: 6},
			},
		},
		{
			Name: "Siwa Linen Shirt", Slug: "siwa-linen-shirt", Category: "tops", Brand: "oasis",
			Price: "780",
			Variants: []seedVariant{
				{Color: "Sand", Size: "M", Stock: 8},
				{Color: "Sand", Size: "XL", Adjustment: "40", Stock: 2},
			},
		},
		{
			Name: "Aswan Denim", Slug: "aswan-denim", Category: "bottoms", Brand: "delta",
			Price: "1150",
			Variants: []seedVariant{
				{Color: "Indigo", Size: "32", Stock: 5},
				{Color: "Indigo", Size: "34", Stock: 0},
			},
		},
	}
}

func seedLookups(tx *gorm.DB) error {
	categories := []models.Category{
		{Name: "Tops", Slug: "tops", SortOrder: 1},
		{Name: "Bottoms", Slug: "bottoms", SortOrder: 2},
	}
	for i := range categories {
		if err := tx.Where(models.Category{Slug: categories[i].Slug}).FirstOrCreate(&categories[i]).Error; err != nil {
			return err
		}
	}
	brands := []models.Brand{{Name: "Delta Wear", Slug: "delta"}, {Name: "Oasis", Slug: "oasis"}}
	for i := range brands {
		if err := tx.Where(models.Brand{Slug: brands[i].Slug}).FirstOrCreate(&brands[i]).Error; err != nil {
			return err
		}
	}
	colors := []models.Color{{Name: "White", HexCode: "#FFFFFF"}, {Name: "Indigo", HexCode: "#3F51B5"}, {Name: "Sand", HexCode: "#C2B280"}}
	for i := range colors {
		if err := tx.Where(models.Color{Name: colors[i].Name}).FirstOrCreate(&colors[i]).Error; err != nil {
			return err
		}
	}
	for i, name := range []string{"M", "L", "XL", "32", "34"} {
		size := models.Size{Name: name, SortOrder: i}
		if err := tx.Where(models.Size{Name: name}).FirstOrCreate(&size).Error; err != nil {
			return err
		}
	}
	return nil
}

func seedProductRow(tx *gorm.DB, item seedProduct) error {
	var existing models.Product
	err := tx.Where("slug = ?", item.Slug).First(&existing).Error
	if err == nil {
		logger.Infow("seed_product_exists", "slug", item.Slug)
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	var category models.Category
	if err := tx.Where("slug = ?", item.Category).First(&category).Error; err != nil {
		return err
	}
	var brand models.Brand
	if err := tx.Where("slug = ?", item.Brand).First(&brand).Error; err != nil {
		return err
	}
	product := models.Product{
		CategoryID: &category.ID,
		BrandID:    &brand.ID,
		Name:       item.Name,
		Slug:       item.Slug,
		Price:      models.MustMoney(item.Price),
		IsActive:   true,
	}
	if item.SalePrice != "" {
		product.SalePrice = models.MustMoney(item.SalePrice)
		product.IsOnSale = true
	}
	if err := tx.Create(&product).Error; err != nil {
		return err
	}

	for _, v := range item.Variants {
		var color models.Color
		if err := tx.Where("name = ?", v.Color).First(&color).Error; err != nil {
			return err
		}
		var size models.Size
		if err := tx.Where("name = ?", v.Size).First(&size).Error; err != nil {
			return err
		}
		adjustment := "0"
		if v.Adjustment != "" {
			adjustment = v.Adjustment
		}
		variant := models.ProductVariant{
			ProductID:       product.ID,
			ColorID:         &color.ID,
			SizeID:          &size.ID,
			SKU:             item.Slug + "-" + color.Name + "-" + size.Name,
			PriceAdjustment: models.MustMoney(adjustment),
			StockQuantity:   v.Stock,
		}
		if err := tx.Create(&variant).Error; err != nil {
			return err
		}
	}
	logger.Infow("seed_product_created", "slug", item.Slug, "variants", len(item.Variants))
	return nil
}

func seedCoupons(tx *gorm.DB) error {
	now := time.Now()
	limit := 100
	coupons := []models.Coupon{
		{
			Code:               "WELCOME10",
			DiscountType:       constants.DiscountTypePercentage,
			Value:              models.MustMoney("10"),
			MinimumOrderAmount: models.MustMoney("0"),
			ValidFrom:          now.Add(-24 * time.Hour),
			ValidTo:            now.AddDate(1, 0, 0),
			IsActive:           true,
		},
		{
			Code:               "EID150",
			DiscountType:       constants.DiscountTypeFixed,
			Value:              models.MustMoney("150"),
			MinimumOrderAmount: models.MustMoney("1000"),
			ValidFrom:          now.Add(-24 * time.Hour),
			ValidTo:            now.AddDate(0, 1, 0),
			UsageLimit:         &limit,
			IsActive:           true,
		},
	}
	for i := range coupons {
		if err := tx.Where(models.Coupon{Code: coupons[i].Code}).FirstOrCreate(&coupons[i]).Error; err != nil {
			return err
		}
	}
	return nil
}
