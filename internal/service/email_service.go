package service

import (
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/nilecart/internal/config"
	"github.com/nilecart/internal/i18n"
	"github.com/nilecart/internal/models"

	gomail "gopkg.in/mail.v2"
)

const (
	smtpDialTimeout = 15 * time.Second
	defaultShopName = "NileCart"
)

// EmailService 邮件发送服务
type EmailService struct {
	cfg      *config.EmailConfig
	currency string
	send     func(message *gomail.Message) error
}

// NewEmailService 创建邮件服务
func NewEmailService(cfg *config.EmailConfig, currency string) *EmailService {
	s := &EmailService{cfg: cfg, currency: strings.ToUpper(strings.TrimSpace(currency))}
	s.send = s.dialAndSend
	return s
}

// Enabled 是否启用邮件
func (s *EmailService) Enabled() bool {
	return s != nil && s.cfg != nil && s.cfg.Enabled
}

// AdminAddress 新订单通知收件人
func (s *EmailService) AdminAddress() string {
	if s == nil || s.cfg == nil {
		return ""
	}
	return strings.TrimSpace(s.cfg.AdminAddress)
}

// SendOrderConfirmation 下单确认邮件
func (s *EmailService) SendOrderConfirmation(order *models.Order, locale string) error {
	subject, body := buildOrderConfirmationContent(order, s.currency, locale)
	return s.sendTextEmail(order.Email, subject, body)
}

// SendAdminNewOrder 新订单后台通知，固定使用默认语言
func (s *EmailService) SendAdminNewOrder(order *models.Order) error {
	to := s.AdminAddress()
	if to == "" {
		return ErrEmailServiceNotConfigured
	}
	subject, body := buildAdminNewOrderContent(order, s.currency)
	return s.sendTextEmail(to, subject, body)
}

// SendOrderStatusUpdate 订单状态变更邮件
func (s *EmailService) SendOrderStatusUpdate(order *models.Order, from, to, locale string) error {
	subject, body := buildOrderStatusContent(order, from, to, locale)
	return s.sendTextEmail(order.Email, subject, body)
}

// SendWelcome 注册欢迎邮件
func (s *EmailService) SendWelcome(user *models.User, locale string) error {
	subject, body := buildWelcomeContent(user, s.shopName(), locale)
	return s.sendTextEmail(user.Email, subject, body)
}

func (s *EmailService) shopName() string {
	if s == nil || s.cfg == nil || strings.TrimSpace(s.cfg.FromName) == "" {
		return defaultShopName
	}
	return strings.TrimSpace(s.cfg.FromName)
}

func (s *EmailService) sendTextEmail(toEmail, subject, body string) error {
	if !s.Enabled() {
		return ErrEmailServiceDisabled
	}
	if s.cfg.Host == "" || s.cfg.Port == 0 || s.cfg.From == "" {
		return ErrEmailServiceNotConfigured
	}
	if _, err := mail.ParseAddress(toEmail); err != nil {
		return ErrInvalidEmail
	}

	message := gomail.NewMessage(gomail.SetCharset("UTF-8"))
	message.SetAddressHeader("From", s.cfg.From, strings.TrimSpace(s.cfg.FromName))
	message.SetHeader("To", toEmail)
	message.SetHeader("Subject", subject)
	message.SetBody("text/plain", body)
	return normalizeEmailSendError(s.send(message))
}

func (s *EmailService) dialAndSend(message *gomail.Message) error {
	dialer := gomail.NewDialer(s.cfg.Host, s.cfg.Port, s.cfg.Username, s.cfg.Password)
	dialer.SSL = s.cfg.UseSSL
	dialer.Timeout = smtpDialTimeout
	if !s.cfg.UseSSL {
		dialer.StartTLSPolicy = gomail.OpportunisticStartTLS
	}
	return dialer.DialAndSend(message)
}

func formatAmount(amount models.Money, currency string) string {
	text := amount.StringFixed(2)
	if currency == "" {
		return text
	}
	return text + " " + currency
}

func orderItemLines(order *models.Order, currency string) string {
	var b strings.Builder
	for _, item := range order.Items {
		name := item.ProductName
		if item.VariantLabel != "" {
			name += " (" + item.VariantLabel + ")"
		}
		fmt.Fprintf(&b, "%d x %s  %s\n", item.Quantity, name, formatAmount(item.LineTotal, currency))
	}
	return b.String()
}

func orderTotalsBlock(order *models.Order, currency, locale string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n", i18n.T(locale, "email.label.subtotal"), formatAmount(order.Subtotal, currency))
	if order.DiscountAmount.IsPositive() {
		fmt.Fprintf(&b, "%s: -%s\n", i18n.T(locale, "email.label.discount"), formatAmount(order.DiscountAmount, currency))
	}
	fmt.Fprintf(&b, "%s: %s\n", i18n.T(locale, "email.label.shipping"), formatAmount(order.ShippingCost, currency))
	fmt.Fprintf(&b, "%s: %s", i18n.T(locale, "email.label.total"), formatAmount(order.GrandTotal, currency))
	return b.String()
}

func buildOrderConfirmationContent(order *models.Order, currency, locale string) (string, string) {
	locale = i18n.Match(locale)
	subject := i18n.Sprintf(locale, "email.order_confirmation.subject", order.OrderNumber)
	var b strings.Builder
	b.WriteString(i18n.Sprintf(locale, "email.order_confirmation.greeting", order.FirstName))
	b.WriteString("\n\n")
	b.WriteString(orderItemLines(order, currency))
	b.WriteString("\n")
	b.WriteString(orderTotalsBlock(order, currency, locale))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "%s\n%s, %s, %s", order.FullName(), order.AddressLine1, order.City, order.Country)
	return subject, b.String()
}

func buildAdminNewOrderContent(order *models.Order, currency string) (string, string) {
	locale := i18n.DefaultLocale
	subject := i18n.Sprintf(locale, "email.admin_new_order.subject", order.OrderNumber)
	var b strings.Builder
	b.WriteString(i18n.Sprintf(locale, "email.admin_new_order.body", order.OrderNumber, order.Email))
	b.WriteString("\n\n")
	b.WriteString(orderItemLines(order, currency))
	b.WriteString("\n")
	b.WriteString(orderTotalsBlock(order, currency, locale))
	fmt.Fprintf(&b, "\n\n%s / %s", order.PaymentMethod, order.Status)
	return subject, b.String()
}

func statusLabel(locale, status string) string {
	key := "order.status." + strings.ToLower(strings.TrimSpace(status))
	label := i18n.T(locale, key)
	if label == key {
		return status
	}
	return label
}

func buildOrderStatusContent(order *models.Order, from, to, locale string) (string, string) {
	locale = i18n.Match(locale)
	toLabel := statusLabel(locale, to)
	subject := i18n.Sprintf(locale, "email.status_update.subject", order.OrderNumber, toLabel)
	body := i18n.Sprintf(locale, "email.status_update.body", order.OrderNumber, statusLabel(locale, from), toLabel)
	return subject, body
}

// buildWelcomeContent 称呼优先用昵称，缺省取邮箱前缀
func buildWelcomeContent(user *models.User, shopName, locale string) (string, string) {
	locale = i18n.Match(locale)
	name := strings.TrimSpace(user.DisplayName)
	if name == "" {
		name = resolveNicknameFromEmail(user.Email)
	}
	return i18n.Sprintf(locale, "email.welcome.subject", shopName), i18n.Sprintf(locale, "email.welcome.body", name)
}

func normalizeEmailSendError(err error) error {
	if err == nil {
		return nil
	}
	if isEmailRecipientRejected(err) {
		return fmt.Errorf("%w: %v", ErrEmailRecipientRejected, err)
	}
	return err
}

func isEmailRecipientRejected(err error) bool {
	if err == nil {
		return false
	}
	message := strings.ToLower(strings.TrimSpace(err.Error()))
	if message == "" {
		return false
	}
	keywords := []string{
		"no such recipient",
		"no such user",
		"recipient address rejected",
		"invalid recipient",
		"user unknown",
		"unknown mailbox",
		"mailbox unavailable",
	}
	for _, keyword := range keywords {
		if strings.Contains(message, keyword) {
			return true
		}
	}
	if strings.Contains(message, "550") {
		for _, hint := range []string{"recipient", "mailbox", "rcpt"} {
			if strings.Contains(message, hint) {
				return true
			}
		}
	}
	return false
}
