package domain

// Cart is a customer's shopping cart, stored in Redis keyed by user ID.
type Cart struct {
	UserID string     `json:"user_id"`
	Items  []CartItem `json:"items"`
}

// CartItem is an unpriced line in a cart. Prices are resolved from the
// catalog at checkout time, never trusted from the client.
type CartItem struct {
	ProductID string `json:"product_id"`
	Size      string `json:"size,omitempty"`
	Quantity  int    `json:"quantity"`
}

// Upsert adds the item to the cart, merging quantities when the same
// product and size is already present.
func (c *Cart) Upsert(item CartItem) {
	for i := range c.Items {
		if c.Items[i].ProductID == item.ProductID && c.Items[i].Size == item.Size {
			c.Items[i].Quantity += item.Quantity
			return
		}
	}
	c.Items = append(c.Items, item)
}

// Remove deletes the line matching product and size. It is a no-op when the
// line is absent.
func (c *Cart) Remove(productID, size string) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID && c.Items[i].Size == size {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return
		}
	}
}
