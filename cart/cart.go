// Package cart aggregates products the user intends to buy.
package cart

import (
	"github.com/shopspring/decimal"

	"ivalid/domain"
)

// Line is one product and how many units of it are in the cart.
// Quantity is always >= 1 while the line exists.
type Line struct {
	Product  domain.Product
	Quantity int
}

// Subtotal is Quantity * Product.PriceNow.
func (l Line) Subtotal() decimal.Decimal {
	return decimal.NewFromFloat(l.Product.PriceNow).Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart holds at most one line per product id, in insertion order. Count and
// total are recomputed after every mutation. The zero value is an empty cart.
// Not safe for concurrent use.
type Cart struct {
	lines []Line
	index map[string]int

	count int
	total decimal.Decimal
}

func New() *Cart {
	return &Cart{index: make(map[string]int)}
}

// Add puts quantity units of product in the cart, merging with an existing
// line for the same id. Non-positive quantities are ignored.
func (c *Cart) Add(product domain.Product, quantity int) {
	if quantity <= 0 {
		return
	}
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[product.ID]; ok {
		c.lines[i].Quantity += quantity
	} else {
		c.index[product.ID] = len(c.lines)
		c.lines = append(c.lines, Line{Product: product, Quantity: quantity})
	}
	c.recalc()
}

// SetQuantity replaces the quantity of an existing line. A quantity <= 0
// removes the line; an id with no line is left alone.
func (c *Cart) SetQuantity(productID string, quantity int) {
	if quantity <= 0 {
		c.Remove(productID)
		return
	}
	i, ok := c.index[productID]
	if !ok {
		return
	}
	c.lines[i].Quantity = quantity
	c.recalc()
}

func (c *Cart) Remove(productID string) {
	i, ok := c.index[productID]
	if !ok {
		return
	}
	c.lines = append(c.lines[:i:i], c.lines[i+1:]...)
	c.reindex()
	c.recalc()
}

func (c *Cart) Clear() {
	c.lines = nil
	c.index = make(map[string]int)
	c.recalc()
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []Line {
	return append([]Line(nil), c.lines...)
}

// Line returns the line for productID, if any.
func (c *Cart) Line(productID string) (Line, bool) {
	i, ok := c.index[productID]
	if !ok {
		return Line{}, false
	}
	return c.lines[i], true
}

// Len is the number of distinct products.
func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

// Count is the sum of all line quantities.
func (c *Cart) Count() int { return c.count }

// Total is the sum of Quantity * PriceNow over all lines.
func (c *Cart) Total() float64 { return c.total.InexactFloat64() }

// TotalDecimal is Total without float rounding.
func (c *Cart) TotalDecimal() decimal.Decimal { return c.total }

func (c *Cart) reindex() {
	c.index = make(map[string]int, len(c.lines))
	for i, l := range c.lines {
		c.index[l.Product.ID] = i
	}
}

func (c *Cart) recalc() {
	count := 0
	total := decimal.Zero
	for _, l := range c.lines {
		count += l.Quantity
		total = total.Add(l.Subtotal())
	}
	c.count = count
	c.total = total
}
