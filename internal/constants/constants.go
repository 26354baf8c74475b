package constants

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusProcessing = "processing"
	OrderStatusShipped    = "shipped"
	OrderStatusDelivered  = "delivered"
	OrderStatusCancelled  = "cancelled"
	OrderStatusRefunded   = "refunded"
)

// 支付状态常量
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusFailed   = "failed"
	PaymentStatusRefunded = "refunded"
)

// 支付方式常量
const (
	PaymentMethodCreditCard     = "credit_card"
	PaymentMethodPaypal         = "paypal"
	PaymentMethodBankTransfer   = "bank_transfer"
	PaymentMethodCashOnDelivery = "cash_on_delivery"
)

// 优惠券类型常量
const (
	DiscountTypePercentage = "percentage"
	DiscountTypeFixed      = "fixed"
)

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 角色常量
const (
	RoleStaff = "staff"
)

// 队列名称
const (
	QueueDefault  = "default"
	QueueCritical = "critical"
)

// 异步任务类型
const (
	TaskOrderConfirmation = "order:confirmation"
	TaskOrderAdminNew     = "order:admin_new"
	TaskOrderStatusUpdate = "order:status_update"
	TaskUserWelcome       = "user:welcome"
)

// 匿名购物车标识
const (
	CartTokenHeader = "X-Cart-Token"
	CartTokenCookie = "cart_token"
)
