package domain

// Pricing constants, in whole rupees.
const (
	// FreeShippingThreshold is the subtotal at or above which shipping is free.
	FreeShippingThreshold int64 = 999

	// ShippingFee is charged on orders below the free-shipping threshold.
	ShippingFee int64 = 99

	// CODCharge is the flat surcharge for cash-on-delivery orders.
	CODCharge int64 = 10
)

// Quote is the priced breakdown of an order before it is persisted.
type Quote struct {
	Subtotal    int64 `json:"subtotal"`
	Discount    int64 `json:"discount"`
	ShippingFee int64 `json:"shipping_fee"`
	CODCharge   int64 `json:"cod_charge"`
	Total       int64 `json:"total"`
}

// PriceOrder computes the order totals from priced line items. Shipping is
// free at or above the threshold, a flat fee below it. Cash on delivery adds
// a flat surcharge. The discount is applied to the subtotal only and never
// reduces shipping or the COD charge.
func PriceOrder(items []OrderItem, paymentMethod string, discount int64) Quote {
	var subtotal int64
	for _, it := range items {
		subtotal += it.UnitPrice * int64(it.Quantity)
	}

	if discount < 0 {
		discount = 0
	}
	if discount > subtotal {
		discount = subtotal
	}

	var shipping int64
	if subtotal < FreeShippingThreshold {
		shipping = ShippingFee
	}

	var cod int64
	if paymentMethod == PaymentMethodCOD {
		cod = CODCharge
	}

	return Quote{
		Subtotal:    subtotal,
		Discount:    discount,
		ShippingFee: shipping,
		CODCharge:   cod,
		Total:       subtotal - discount + shipping + cod,
	}
}
