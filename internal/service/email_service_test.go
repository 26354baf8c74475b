package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/nilecart/internal/config"
	"github.com/nilecart/internal/i18n"
	"github.com/nilecart/internal/models"

	gomail "gopkg.in/mail.v2"
)

func sampleEmailOrder() *models.Order {
	return &models.Order{
		OrderNumber:    "A1B2C3",
		Email:          "buyer@example.com",
		FirstName:      "Mona",
		LastName:       "Adel",
		AddressLine1:   "12 Nile St",
		City:           "Cairo",
		Country:        "EG",
		Subtotal:       models.MustMoney("600"),
		DiscountAmount: models.MustMoney("60"),
		ShippingCost:   models.MustMoney("50"),
		GrandTotal:     models.MustMoney("590"),
		PaymentMethod:  "cod",
		Status:         "processing",
		Items: []models.OrderItem{
			{ProductName: "Hoodie", VariantLabel: "Black / M", Quantity: 2, LineTotal: models.MustMoney("600")},
		},
	}
}

func TestBuildOrderConfirmationContent(t *testing.T) {
	subject, body := buildOrderConfirmationContent(sampleEmailOrder(), "EGP", "en")
	if subject != "Order A1B2C3 confirmed" {
		t.Fatalf("unexpected subject %q", subject)
	}
	for _, want := range []string{"Hi Mona", "2 x Hoodie (Black / M)  600.00 EGP", "Discount: -60.00 EGP", "Total: 590.00 EGP", "Mona Adel"} {
		if !strings.Contains(body, want) {
			t.Fatalf("body missing %q:\n%s", want, body)
		}
	}

	order := sampleEmailOrder()
	order.DiscountAmount = models.MustMoney("0")
	_, body = buildOrderConfirmationContent(order, "EGP", i18n.LocaleAR)
	if strings.Contains(body, i18n.T(i18n.LocaleAR, "email.label.discount")) {
		t.Fatalf("zero discount should be omitted:\n%s", body)
	}
}

func TestBuildOrderStatusContent(t *testing.T) {
	tests := []struct {
		name        string
		locale      string
		wantSubject string
		wantBody    string
	}{
		{name: "english", locale: "en-GB", wantSubject: "Order A1B2C3 is now Shipped", wantBody: "from Processing to Shipped"},
		{name: "arabic", locale: "ar", wantSubject: "تم الشحن", wantBody: "قيد التجهيز"},
		{name: "unknown_falls_back", locale: "fr", wantSubject: "Shipped", wantBody: "Processing"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			subject, body := buildOrderStatusContent(sampleEmailOrder(), "processing", "shipped", tt.locale)
			if !strings.Contains(subject, tt.wantSubject) {
				t.Fatalf("subject %q missing %q", subject, tt.wantSubject)
			}
			if !strings.Contains(body, tt.wantBody) {
				t.Fatalf("body %q missing %q", body, tt.wantBody)
			}
		})
	}
}

func TestSendTextEmailGuards(t *testing.T) {
	disabled := NewEmailService(&config.EmailConfig{Enabled: false}, "EGP")
	if err := disabled.SendOrderConfirmation(sampleEmailOrder(), "en"); !errors.Is(err, ErrEmailServiceDisabled) {
		t.Fatalf("disabled service want ErrEmailServiceDisabled, got %v", err)
	}

	unconfigured := NewEmailService(&config.EmailConfig{Enabled: true}, "EGP")
	if err := unconfigured.SendOrderConfirmation(sampleEmailOrder(), "en"); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("missing host want ErrEmailServiceNotConfigured, got %v", err)
	}
	if err := unconfigured.SendAdminNewOrder(sampleEmailOrder()); !errors.Is(err, ErrEmailServiceNotConfigured) {
		t.Fatalf("missing admin address want ErrEmailServiceNotConfigured, got %v", err)
	}

	cfg := &config.EmailConfig{Enabled: true, Host: "smtp.example.com", Port: 587, From: "shop@example.com", FromName: "Nile Shop"}
	svc := NewEmailService(cfg, "EGP")
	var sent []*gomail.Message
	svc.send = func(message *gomail.Message) error {
		sent = append(sent, message)
		return nil
	}
	order := sampleEmailOrder()
	order.Email = "not-an-email"
	if err := svc.SendOrderConfirmation(order, "en"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("bad recipient want ErrInvalidEmail, got %v", err)
	}
	if err := svc.SendOrderConfirmation(sampleEmailOrder(), "en"); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("want 1 message, got %d", len(sent))
	}
	if to := sent[0].GetHeader("To"); len(to) != 1 || to[0] != "buyer@example.com" {
		t.Fatalf("unexpected recipient %v", to)
	}
	var buf bytes.Buffer
	if _, err := sent[0].WriteTo(&buf); err != nil {
		t.Fatalf("render message failed: %v", err)
	}
	if !strings.Contains(buf.String(), "shop@example.com") {
		t.Fatalf("from header missing:\n%s", buf.String())
	}
}

func TestNormalizeEmailSendError(t *testing.T) {
	rejected := normalizeEmailSendError(errors.New("550 5.1.1 Recipient address rejected: user unknown"))
	if !errors.Is(rejected, ErrEmailRecipientRejected) {
		t.Fatalf("want recipient rejected, got %v", rejected)
	}
	other := errors.New("dial tcp: i/o timeout")
	if got := normalizeEmailSendError(other); got != other {
		t.Fatalf("unrelated error should pass through, got %v", got)
	}
	if normalizeEmailSendError(nil) != nil {
		t.Fatalf("nil should stay nil")
	}
}

func TestSendWelcome(t *testing.T) {
	user := &models.User{Email: "layla@example.com"}
	subject, body := buildWelcomeContent(user, "Nile Shop", "en")
	if subject != "Welcome to Nile Shop!" || !strings.Contains(body, "Hi layla,") {
		t.Fatalf("unexpected welcome content %q / %q", subject, body)
	}
	arSubject, _ := buildWelcomeContent(&models.User{Email: "x@example.com", DisplayName: "Layla"}, "Nile Shop", "ar-EG")
	if arSubject != i18n.Sprintf(i18n.LocaleAR, "email.welcome.subject", "Nile Shop") {
		t.Fatalf("arabic subject expected, got %q", arSubject)
	}

	svc := NewEmailService(&config.EmailConfig{Enabled: true, Host: "smtp.example.com", Port: 587, From: "shop@example.com"}, "EGP")
	var sent []*gomail.Message
	svc.send = func(message *gomail.Message) error {
		sent = append(sent, message)
		return nil
	}
	if err := svc.SendWelcome(user, ""); err != nil {
		t.Fatalf("send welcome failed: %v", err)
	}
	if len(sent) != 1 {
		t.Fatalf("want 1 message, got %d", len(sent))
	}
	if got := sent[0].GetHeader("Subject"); len(got) != 1 || got[0] != "Welcome to NileCart!" {
		t.Fatalf("missing from name should fall back to the shop default, got %v", got)
	}
}
