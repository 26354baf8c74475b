package i18n

var catalog = map[string]map[string]string{
	LocaleEN: {
		"error.bad_request":                 "Invalid request.",
		"error.unauthorized":                "Please sign in.",
		"error.forbidden":                   "You do not have permission for this action.",
		"error.token_invalid":               "Session is invalid or expired.",
		"error.auth_header_invalid":         "Malformed Authorization header.",
		"error.jwt_secret_missing":          "Authentication is not configured.",
		"error.user_disabled":               "This account is disabled.",
		"error.rate_limited":                "Too many attempts, try again in %d seconds.",
		"error.rate_limit_unavailable":      "Service busy, try again later.",
		"error.internal":                    "Something went wrong.",
		"error.identity_invalid":            "Cart identity is missing.",
		"error.validation":                  "Some fields are invalid.",
		"error.invalid_quantity":            "Quantity must be at least 1.",
		"error.out_of_stock":                "Only %d left in stock.",
		"error.variant_not_found":           "This product option is not available.",
		"error.product_not_found":           "Product not found.",
		"error.item_not_found":              "Cart item not found.",
		"error.cart_empty":                  "Your cart is empty.",
		"error.coupon_not_found":            "Coupon not found.",
		"error.coupon_inactive":             "Coupon is not active.",
		"error.coupon_not_yet_valid":        "Coupon is not yet valid.",
		"error.coupon_expired":              "Coupon has expired.",
		"error.coupon_minimum_order":        "Minimum order amount of %s required.",
		"error.coupon_usage_limit":          "Coupon usage limit exceeded.",
		"error.coupon_invalid":              "Coupon is not valid.",
		"error.coupon_code_exists":          "Coupon code already exists.",
		"error.invalid_shipping":            "Shipping details are incomplete.",
		"error.invalid_payment":             "Unsupported payment method.",
		"error.concurrency_conflict":        "Your cart changed while processing, please retry.",
		"error.order_not_found":             "Order not found.",
		"error.order_status_invalid":        "This status change is not allowed.",
		"error.email_exists":                "An account with this email already exists.",
		"error.login_invalid":               "Invalid email or password.",
		"error.cart_fetch_failed":           "Could not load your cart.",
		"error.cart_update_failed":          "Could not update your cart.",
		"error.wishlist_update_failed":      "Could not update your wishlist.",
		"error.order_create_failed":         "Could not place your order.",
		"error.order_fetch_failed":          "Could not load orders.",
		"error.order_update_failed":         "Could not update the order.",
		"error.address_invalid":             "Address is incomplete.",
		"shipping.no_items":                 "Free (No Items)",
		"shipping.free_threshold_met":       "Free (Threshold Met)",
		"shipping.estimate":                 "Shipping (Estimate)",
		"error.weak_password":               "Password does not meet requirements.",
		"error.password_min_length":         "Password must be at least %d characters.",
		"error.password_require_upper":      "Password must contain an uppercase letter.",
		"error.password_require_lower":      "Password must contain a lowercase letter.",
		"error.password_require_number":     "Password must contain a number.",
		"error.password_require_special":    "Password must contain a special character.",
		"error.invalid_email":               "Email address is invalid.",
		"error.address_not_found":           "Address not found.",
		"error.user_not_found":              "Account not found.",
		"email.order_confirmation.subject":  "Order %s confirmed",
		"email.order_confirmation.greeting": "Hi %s, thank you for your order.",
		"email.admin_new_order.subject":     "New order %s",
		"email.admin_new_order.body":        "A new order %s was placed by %s.",
		"email.status_update.subject":       "Order %s is now %s",
		"email.status_update.body":          "Your order %s changed from %s to %s.",
		"email.label.subtotal":              "Subtotal",
		"email.label.discount":              "Discount",
		"email.label.shipping":              "Shipping",
		"email.label.total":                 "Total",
		"email.label.track":                 "Track your order",
		"email.welcome.subject":             "Welcome to %s!",
		"email.welcome.body":                "Hi %s, your account is ready. Happy shopping!",
		"order.status.pending":              "Pending",
		"order.status.processing":           "Processing",
		"order.status.shipped":              "Shipped",
		"order.status.delivered":            "Delivered",
		"order.status.cancelled":            "Cancelled",
		"order.status.refunded":             "Refunded",
		"cart.item_removed":                 "%s was removed because it is out of stock.",
		"cart.quantity_clamped":             "Only %d of %s available, quantity adjusted.",
	},
	LocaleAR: {
		"error.bad_request":                 "طلب غير صالح.",
		"error.unauthorized":                "يرجى تسجيل الدخول.",
		"error.forbidden":                   "ليست لديك صلاحية لهذا الإجراء.",
		"error.token_invalid":               "الجلسة غير صالحة أو منتهية.",
		"error.rate_limited":                "محاولات كثيرة، حاول مرة أخرى بعد %d ثانية.",
		"error.internal":                    "حدث خطأ ما.",
		"error.invalid_quantity":            "يجب أن تكون الكمية 1 على الأقل.",
		"error.out_of_stock":                "المتبقي في المخزون %d فقط.",
		"error.variant_not_found":           "هذا الخيار غير متوفر.",
		"error.item_not_found":              "العنصر غير موجود في السلة.",
		"error.cart_empty":                  "سلة التسوق فارغة.",
		"error.coupon_not_found":            "الكوبون غير موجود.",
		"error.coupon_inactive":             "الكوبون غير مفعل.",
		"error.coupon_not_yet_valid":        "الكوبون غير صالح بعد.",
		"error.coupon_expired":              "انتهت صلاحية الكوبون.",
		"error.coupon_minimum_order":        "الحد الأدنى للطلب %s.",
		"error.coupon_usage_limit":          "تم تجاوز حد استخدام الكوبون.",
		"error.invalid_shipping":            "بيانات الشحن غير مكتملة.",
		"error.invalid_payment":             "طريقة الدفع غير مدعومة.",
		"error.concurrency_conflict":        "تغيرت السلة أثناء المعالجة، حاول مرة أخرى.",
		"error.order_not_found":             "الطلب غير موجود.",
		"error.login_invalid":               "البريد الإلكتروني أو كلمة المرور غير صحيحة.",
		"error.order_create_failed":         "تعذر إتمام الطلب.",
		"shipping.no_items":                 "مجاني (لا توجد منتجات)",
		"shipping.free_threshold_met":       "مجاني (تم بلوغ الحد)",
		"shipping.estimate":                 "الشحن (تقديري)",
		"cart.item_removed":                 "تمت إزالة %s لنفاد المخزون.",
		"cart.quantity_clamped":             "المتوفر %d فقط من %s، تم تعديل الكمية.",
		"error.weak_password":               "كلمة المرور لا تستوفي الشروط.",
		"error.password_min_length":         "يجب ألا تقل كلمة المرور عن %d أحرف.",
		"email.order_confirmation.subject":  "تم تأكيد الطلب %s",
		"email.order_confirmation.greeting": "مرحباً %s، شكراً لطلبك.",
		"email.status_update.subject":       "الطلب %s أصبح %s",
		"email.status_update.body":          "تغيرت حالة طلبك %s من %s إلى %s.",
		"email.label.subtotal":              "المجموع الفرعي",
		"email.label.discount":              "الخصم",
		"email.label.shipping":              "الشحن",
		"email.label.total":                 "الإجمالي",
		"email.label.track":                 "تتبع طلبك",
		"email.welcome.subject":             "مرحباً بك في %s!",
		"email.welcome.body":                "مرحباً %s، تم إنشاء حسابك. تسوقاً ممتعاً!",
		"error.cart_update_failed":          "تعذر تحديث السلة.",
		"error.wishlist_update_failed":      "تعذر تحديث قائمة الأمنيات.",
		"order.status.pending":              "قيد الانتظار",
		"order.status.processing":           "قيد التجهيز",
		"order.status.shipped":              "تم الشحن",
		"order.status.delivered":            "تم التسليم",
		"order.status.cancelled":            "ملغي",
		"order.status.refunded":             "مسترد",
	},
}
