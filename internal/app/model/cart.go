package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartLineItem is one purchasable variant in a cart. Name, image and price
// are captured from the product when the line is first added.
type CartLineItem struct {
	ProductID uint            `json:"productId"`
	Name      string          `json:"name"`
	Image     string          `json:"image"`
	Price     decimal.Decimal `json:"price"`
	Color     string          `json:"color"`
	Size      string          `json:"size"`
	Quantity  int             `json:"quantity"`
}

// Matches reports whether the line is the (product, color, size) variant.
func (i CartLineItem) Matches(productID uint, color, size string) bool {
	return i.ProductID == productID && i.Color == color && i.Size == size
}

// Cart is owned by a user or by a guest key. The line items live in a JSON
// column, so a cart is read, changed in memory and saved as one document.
type Cart struct {
	ID         uint            `gorm:"primarykey" json:"id"`
	UserID     *uint           `gorm:"index" json:"user,omitempty"`
	GuestID    *string         `gorm:"index;type:varchar(64)" json:"guestId,omitempty"`
	Products   []CartLineItem  `gorm:"type:text;serializer:json" json:"products"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"totalPrice"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (Cart) TableName() string {
	return "carts"
}

// IndexOf returns the position of the matching line, or -1.
func (c *Cart) IndexOf(productID uint, color, size string) int {
	for i, item := range c.Products {
		if item.Matches(productID, color, size) {
			return i
		}
	}
	return -1
}

// AddLine increments the matching line or appends item as a new line.
func (c *Cart) AddLine(item CartLineItem) {
	if idx := c.IndexOf(item.ProductID, item.Color, item.Size); idx >= 0 {
		c.Products[idx].Quantity += item.Quantity
	} else {
		c.Products = append(c.Products, item)
	}
	c.Recalculate()
}

// RemoveAt drops the line at idx.
func (c *Cart) RemoveAt(idx int) {
	c.Products = append(c.Products[:idx], c.Products[idx+1:]...)
	c.Recalculate()
}

// SetQuantityAt overwrites the line quantity; zero or less removes the line.
func (c *Cart) SetQuantityAt(idx, quantity int) {
	if quantity <= 0 {
		c.RemoveAt(idx)
		return
	}
	c.Products[idx].Quantity = quantity
	c.Recalculate()
}

// Absorb folds every line of other into c.
func (c *Cart) Absorb(other *Cart) {
	for _, item := range other.Products {
		if idx := c.IndexOf(item.ProductID, item.Color, item.Size); idx >= 0 {
			c.Products[idx].Quantity += item.Quantity
		} else {
			c.Products = append(c.Products, item)
		}
	}
	c.Recalculate()
}

// AssignToUser turns a guest cart into the user's cart.
func (c *Cart) AssignToUser(userID uint) {
	c.UserID = &userID
	c.GuestID = nil
}

// Recalculate is the only writer of TotalPrice.
func (c *Cart) Recalculate() {
	total := decimal.Zero
	for _, item := range c.Products {
		total = total.Add(LineTotal(item.Price, item.Quantity))
	}
	c.TotalPrice = total
}

func (c *Cart) IsEmpty() bool {
	return len(c.Products) == 0
}
