package domain

import "time"

type Product struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Price         int64     `json:"price"`
	OriginalPrice int64     `json:"originalPrice,omitempty"`
	Stock         int       `json:"stock"`
	Image         string    `json:"image,omitempty"`
	Features      []string  `json:"features,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// RemoveStock takes qty units off the shelf, clamping at zero. Oversell
// is absorbed silently rather than rejected.
func (p *Product) RemoveStock(qty int) {
	p.Stock -= qty
	if p.Stock < 0 {
		p.Stock = 0
	}
}

// LowStock reports whether the product is below the restock threshold.
func (p *Product) LowStock() bool { return p.Stock < LowStockThreshold }

const (
	LowStockThreshold = 10
	RestockAmount     = 50
)
