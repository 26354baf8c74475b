package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/nilecart/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupRepositoryTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:repository_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return db
}

func createTestVariant(t *testing.T, db *gorm.DB, slug string, price string, stock int) *models.ProductVariant {
	t.Helper()
	product := &models.Product{
		Name:     "Product " + slug,
		Slug:     slug,
		Price:    models.NewMoneyFromDecimal(decimal.RequireFromString(price)),
		IsActive: true,
	}
	if err := db.Create(product).Error; err != nil {
		t.Fatalf("create product failed: %v", err)
	}
	size := &models.Size{Name: "size-" + slug}
	if err := db.Create(size).Error; err != nil {
		t.Fatalf("create size failed: %v", err)
	}
	variant := &models.ProductVariant{
		ProductID:     product.ID,
		SizeID:        &size.ID,
		SKU:           "SKU-" + slug,
		StockQuantity: stock,
	}
	if err := db.Create(variant).Error; err != nil {
		t.Fatalf("create variant failed: %v", err)
	}
	return variant
}

func TestDecrementStockIsConditional(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	variant := createTestVariant(t, db, "tee", "100", 3)

	affected, err := repo.DecrementStock(variant.ID, 2)
	if err != nil {
		t.Fatalf("decrement stock failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("decrement affected want 1 got %d", affected)
	}

	affected, err = repo.DecrementStock(variant.ID, 2)
	if err != nil {
		t.Fatalf("second decrement failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("insufficient stock should affect 0 rows, got %d", affected)
	}

	reloaded, err := repo.GetVariant(variant.ID)
	if err != nil || reloaded == nil {
		t.Fatalf("reload variant failed: %v", err)
	}
	if reloaded.StockQuantity != 1 {
		t.Fatalf("stock want 1 got %d", reloaded.StockQuantity)
	}
	if reloaded.Product == nil || reloaded.Size == nil {
		t.Fatalf("variant detail should be preloaded")
	}
}

func TestLockVariantsReturnsAscendingOrder(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	first := createTestVariant(t, db, "first", "10", 1)
	second := createTestVariant(t, db, "second", "20", 1)

	variants, err := repo.LockVariants([]uint{second.ID, first.ID})
	if err != nil {
		t.Fatalf("lock variants failed: %v", err)
	}
	if len(variants) != 2 || variants[0].ID != first.ID || variants[1].ID != second.ID {
		t.Fatalf("variants should be sorted ascending, got %+v", variants)
	}
}

func TestProductListSearchAndActiveFilter(t *testing.T) {
	db := setupRepositoryTestDB(t)
	repo := NewProductRepository(db)
	createTestVariant(t, db, "linen-shirt", "300", 5)
	createTestVariant(t, db, "denim-jacket", "900", 5)
	if err := db.Model(&models.Product{}).Where("slug = ?", "denim-jacket").Update("is_active", false).Error; err != nil {
		t.Fatalf("deactivate product failed: %v", err)
	}

	rows, total, err := repo.List(ProductListFilter{Page: 1, PageSize: 20, Search: "shirt", OnlyActive: true})
	if err != nil {
		t.Fatalf("list products failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].Slug != "linen-shirt" {
		t.Fatalf("unexpected search result total=%d rows=%+v", total, rows)
	}

	if product, err := repo.GetBySlug("denim-jacket", true); err != nil || product != nil {
		t.Fatalf("inactive product should be hidden, got %+v err=%v", product, err)
	}
}
