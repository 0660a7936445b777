package domain

// Item is one line in the active cart. Price and Stock are snapshots
// taken when the product was added; later catalog edits do not touch them.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Image    string `json:"image,omitempty"`
	Quantity int    `json:"quantity"`
	Stock    int    `json:"stock"`
}

func (i Item) Subtotal() int64 { return i.Price * int64(i.Quantity) }

// Total sums price*quantity over all lines.
func Total(items []Item) int64 {
	var total int64
	for _, it := range items {
		total += it.Subtotal()
	}
	return total
}

// Count sums quantities over all lines.
func Count(items []Item) int {
	var n int
	for _, it := range items {
		n += it.Quantity
	}
	return n
}
