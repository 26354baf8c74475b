package service

import (
	"context"
	"strings"

	"github.com/nilecart/internal/cache"
	"github.com/nilecart/internal/logger"
	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/repository"

	"gorm.io/gorm"
)

// WishlistService 收藏夹服务
type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

// NewWishlistService 创建收藏夹服务
func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) *WishlistService {
	return &WishlistService{
		wishlistRepo: wishlistRepo,
		productRepo:  productRepo,
	}
}

// Add 收藏商品，重复收藏为空操作
func (s *WishlistService) Add(identity Identity, productID uint) error {
	if err := identity.Validate(); err != nil {
		return err
	}
	product, err := s.productRepo.GetByID(productID)
	if err != nil {
		return err
	}
	if product == nil || !product.IsActive {
		return ErrProductNotFound
	}
	err = models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.wishlistRepo.WithTx(tx)
		wishlist, err := findWishlist(repo, identity, true)
		if err != nil {
			return err
		}
		if wishlist == nil {
			wishlist = newWishlist(identity)
			if err := repo.Create(wishlist); err != nil {
				return err
			}
		}
		return repo.AddItem(wishlist.ID, productID)
	})
	if err != nil {
		return err
	}
	invalidateIdentityCounts(identity)
	return nil
}

// Remove 取消收藏，不存在时为空操作
func (s *WishlistService) Remove(identity Identity, productID uint) error {
	if err := identity.Validate(); err != nil {
		return err
	}
	wishlist, err := findWishlist(s.wishlistRepo, identity, false)
	if err != nil || wishlist == nil {
		return err
	}
	if err := s.wishlistRepo.RemoveItem(wishlist.ID, productID); err != nil {
		return err
	}
	invalidateIdentityCounts(identity)
	return nil
}

// List 收藏列表
func (s *WishlistService) List(identity Identity) ([]models.WishlistItem, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	wishlist, err := findWishlist(s.wishlistRepo, identity, false)
	if err != nil {
		return nil, err
	}
	if wishlist == nil {
		return []models.WishlistItem{}, nil
	}
	return s.wishlistRepo.ListItems(wishlist.ID)
}

// MergeIntoUser 登录时合并匿名收藏夹，匿名收藏夹最后删除
func (s *WishlistService) MergeIntoUser(sessionToken string, userID uint) error {
	sessionToken = strings.TrimSpace(sessionToken)
	if sessionToken == "" || userID == 0 {
		return nil
	}
	merged := false
	err := models.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.wishlistRepo.WithTx(tx)
		source, err := repo.FindBySessionToken(sessionToken, true)
		if err != nil || source == nil {
			return err
		}
		target, err := repo.FindByUser(userID, true)
		if err != nil {
			return err
		}
		if target == nil {
			target = newWishlist(UserIdentity(userID))
			if err := repo.Create(target); err != nil {
				return err
			}
		}
		items, err := repo.ListItems(source.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := repo.AddItem(target.ID, item.ProductID); err != nil {
				return err
			}
		}
		merged = true
		return repo.Delete(source.ID)
	})
	if err != nil {
		return err
	}
	if merged {
		invalidateIdentityCounts(SessionIdentity(sessionToken), UserIdentity(userID))
		logger.Debugw("wishlist_merge_completed", "user_id", userID)
	}
	return nil
}

func newWishlist(identity Identity) *models.Wishlist {
	wishlist := &models.Wishlist{}
	if identity.UserID != 0 {
		userID := identity.UserID
		wishlist.UserID = &userID
	} else {
		token := identity.token()
		wishlist.SessionToken = &token
	}
	return wishlist
}

func findWishlist(repo repository.WishlistRepository, identity Identity, lock bool) (*models.Wishlist, error) {
	if identity.UserID != 0 {
		return repo.FindByUser(identity.UserID, lock)
	}
	return repo.FindBySessionToken(identity.token(), lock)
}

func invalidateIdentityCounts(identities ...Identity) {
	keys := make([]string, 0, len(identities))
	for _, identity := range identities {
		keys = append(keys, cache.CountsKey(identity.UserID, identity.token()))
	}
	if err := cache.InvalidateCounts(context.Background(), keys...); err != nil {
		logger.Debugw("counts_cache_invalidate_failed", "error", err)
	}
}
