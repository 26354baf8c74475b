package service

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/nilecart/internal/cache"
	"github.com/nilecart/internal/config"
	"github.com/nilecart/internal/constants"
	"github.com/nilecart/internal/logger"
	"github.com/nilecart/internal/models"
	"github.com/nilecart/internal/queue"
	"github.com/nilecart/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/hibiken/asynq"
	"golang.org/x/crypto/bcrypt"
)

// welcomeQueue 欢迎邮件入队端
type welcomeQueue interface {
	EnqueueUserWelcome(payload queue.UserWelcomePayload, opts ...asynq.Option) error
}

// UserAuthService 用户认证服务
type UserAuthService struct {
	cfg             *config.Config
	userRepo        repository.UserRepository
	cartService     *CartService
	wishlistService *WishlistService
	welcome         welcomeQueue
}

// NewUserAuthService 创建用户认证服务，queueClient 为 nil 时不发欢迎邮件
func NewUserAuthService(cfg *config.Config, userRepo repository.UserRepository, cartService *CartService, wishlistService *WishlistService, queueClient *queue.Client) *UserAuthService {
	s := &UserAuthService{
		cfg:             cfg,
		userRepo:        userRepo,
		cartService:     cartService,
		wishlistService: wishlistService,
	}
	if queueClient != nil {
		s.welcome = queueClient
	}
	return s
}

// UserJWTClaims 用户 JWT 声明
type UserJWTClaims struct {
	UserID       uint   `json:"user_id"`
	Email        string `json:"email"`
	IsStaff      bool   `json:"is_staff"`
	TokenVersion uint64 `json:"token_version"`
	jwt.RegisteredClaims
}

// LoginResult 登录结果
type LoginResult struct {
	User        *models.User
	Token       string
	ExpiresAt   time.Time
	Adjustments []QuantityAdjustment
}

// GenerateUserJWT 生成用户 JWT Token
func (s *UserAuthService) GenerateUserJWT(user *models.User) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(time.Duration(resolveUserJWTExpireHours(s.cfg.UserJWT)) * time.Hour)
	claims := UserJWTClaims{
		UserID:       user.ID,
		Email:        user.Email,
		IsStaff:      user.IsStaff,
		TokenVersion: user.TokenVersion,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.cfg.UserJWT.SecretKey))
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// ParseUserJWT 解析用户 JWT Token
func (s *UserAuthService) ParseUserJWT(tokenString string) (*UserJWTClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &UserJWTClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.UserJWT.SecretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.UserID == 0 {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// Register 注册新用户并签发 Token，提交后异步发送欢迎邮件
func (s *UserAuthService) Register(email, password, displayName, locale string) (*models.User, string, time.Time, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
		return nil, "", time.Time{}, err
	}
	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	if exist != nil {
		return nil, "", time.Time{}, ErrEmailExists
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = resolveNicknameFromEmail(normalized)
	}
	now := time.Now()
	user := &models.User{
		Email:        normalized,
		PasswordHash: string(hashed),
		DisplayName:  displayName,
		Status:       constants.UserStatusActive,
		LastLoginAt:  &now,
	}
	if err := s.userRepo.Create(user); err != nil {
		if isUniqueViolation(err) {
			return nil, "", time.Time{}, ErrEmailExists
		}
		return nil, "", time.Time{}, err
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	_ = cache.SetUserAuthState(context.Background(), cache.BuildUserAuthState(user))
	logger.Infow("user_registered", "user_id", user.ID)
	s.notifyRegistered(user.ID, locale)
	return user, token, expiresAt, nil
}

// notifyRegistered 入队失败只记录日志，不影响注册
func (s *UserAuthService) notifyRegistered(userID uint, locale string) {
	if s.welcome == nil {
		return
	}
	if err := s.welcome.EnqueueUserWelcome(queue.UserWelcomePayload{UserID: userID, Locale: locale}); err != nil {
		logger.Warnw("user_enqueue_welcome_failed", "user_id", userID, "error", err)
	}
}

// Login 校验密码并签发 Token，随后合并匿名购物车与收藏夹；合并失败不影响登录
func (s *UserAuthService) Login(ctx context.Context, email, password, sessionToken string) (*LoginResult, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if strings.ToLower(user.Status) != constants.UserStatusActive {
		return nil, ErrUserDisabled
	}

	token, expiresAt, err := s.GenerateUserJWT(user)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	if err := s.userRepo.TouchLastLogin(user.ID, now); err != nil {
		logger.Warnw("user_touch_last_login_failed", "user_id", user.ID, "error", err)
	}
	user.LastLoginAt = &now
	_ = cache.SetUserAuthState(ctx, cache.BuildUserAuthState(user))

	result := &LoginResult{User: user, Token: token, ExpiresAt: expiresAt}
	result.Adjustments = s.MergeOnLogin(ctx, sessionToken, user.ID)
	return result, nil
}

// MergeOnLogin 合并匿名购物车与收藏夹，错误只记录
func (s *UserAuthService) MergeOnLogin(ctx context.Context, sessionToken string, userID uint) []QuantityAdjustment {
	sessionToken = strings.TrimSpace(sessionToken)
	if sessionToken == "" || userID == 0 {
		return nil
	}
	var adjustments []QuantityAdjustment
	if s.cartService != nil {
		merged, err := s.cartService.MergeIntoUserCart(ctx, sessionToken, userID)
		if err != nil {
			logger.Warnw("login_cart_merge_failed", "user_id", userID, "error", err)
		}
		adjustments = merged
	}
	if s.wishlistService != nil {
		if err := s.wishlistService.MergeIntoUser(sessionToken, userID); err != nil {
			logger.Warnw("login_wishlist_merge_failed", "user_id", userID, "error", err)
		}
	}
	return adjustments
}

// ChangePassword 修改密码，旧 Token 随 token_version 递增失效
func (s *UserAuthService) ChangePassword(userID uint, oldPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(oldPassword)); err != nil {
		return ErrInvalidCredentials
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(userID, string(hashed)); err != nil {
		return err
	}
	if err := cache.DelUserAuthState(context.Background(), userID); err != nil {
		logger.Debugw("user_auth_state_invalidate_failed", "user_id", userID, "error", err)
	}
	return nil
}

// GetUserByID 获取用户
func (s *UserAuthService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}

func resolveUserJWTExpireHours(cfg config.JWTConfig) int {
	if cfg.ExpireHours <= 0 {
		return 24
	}
	return cfg.ExpireHours
}

func resolveNicknameFromEmail(email string) string {
	parts := strings.SplitN(email, "@", 2)
	if len(parts) == 2 && strings.TrimSpace(parts[0]) != "" {
		return strings.TrimSpace(parts[0])
	}
	return email
}
