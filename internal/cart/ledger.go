package cart

import "falcon-storefront/internal/domain"

// Ledger holds the cart lines for a single session. It is a plain state
// container: callers own it exclusively and every mutation returns a fresh
// snapshot with total and itemCount recomputed. Mutations never fail.
type Ledger struct {
	lines []domain.CartLine
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{}
}

// FromLines rebuilds a ledger from previously stored lines.
func FromLines(lines []domain.CartLine) *Ledger {
	l := &Ledger{lines: make([]domain.CartLine, len(lines))}
	copy(l.lines, lines)
	return l
}

// Add puts one unit of the product with the chosen variant into the ledger.
// A line with the same (product id, color, size) is incremented; any other
// variant selection appends a new line with quantity 1.
func (l *Ledger) Add(p domain.Product, color, size *string) domain.CartSnapshot {
	for i := range l.lines {
		line := &l.lines[i]
		if line.ProductID == p.ID && sameVariant(line.SelectedColor, color) && sameVariant(line.SelectedSize, size) {
			line.Quantity++
			return l.Snapshot()
		}
	}
	l.lines = append(l.lines, domain.CartLine{
		ProductID:     p.ID,
		ProductName:   p.Name,
		ProductImage:  p.Image,
		Price:         p.Price,
		Quantity:      1,
		SelectedColor: color,
		SelectedSize:  size,
	})
	return l.Snapshot()
}

// Remove drops every line of the given product, regardless of variant.
func (l *Ledger) Remove(productID string) domain.CartSnapshot {
	kept := l.lines[:0]
	for _, line := range l.lines {
		if line.ProductID != productID {
			kept = append(kept, line)
		}
	}
	l.lines = kept
	return l.Snapshot()
}

// SetQuantity sets the quantity on every line of the product, clamped to
// zero; lines that end up at zero are deleted.
func (l *Ledger) SetQuantity(productID string, quantity int) domain.CartSnapshot {
	if quantity < 0 {
		quantity = 0
	}
	kept := l.lines[:0]
	for _, line := range l.lines {
		if line.ProductID == productID {
			line.Quantity = quantity
		}
		if line.Quantity > 0 {
			kept = append(kept, line)
		}
	}
	l.lines = kept
	return l.Snapshot()
}

// UpdateVariant overwrites the color and/or size on every line of the
// product. A nil or empty value keeps what the line already has.
func (l *Ledger) UpdateVariant(productID string, color, size *string) domain.CartSnapshot {
	for i := range l.lines {
		line := &l.lines[i]
		if line.ProductID != productID {
			continue
		}
		if v := variantValue(color); v != "" {
			line.SelectedColor = color
		}
		if v := variantValue(size); v != "" {
			line.SelectedSize = size
		}
	}
	return l.Snapshot()
}

// Clear empties the ledger.
func (l *Ledger) Clear() domain.CartSnapshot {
	l.lines = nil
	return l.Snapshot()
}

// Snapshot copies the current lines and derives total and itemCount.
func (l *Ledger) Snapshot() domain.CartSnapshot {
	snap := domain.CartSnapshot{
		Lines: make([]domain.CartLine, len(l.lines)),
	}
	copy(snap.Lines, l.lines)
	for _, line := range l.lines {
		snap.Total += line.Price * int64(line.Quantity)
		snap.ItemCount += line.Quantity
	}
	return snap
}

func sameVariant(a, b *string) bool {
	return variantValue(a) == variantValue(b)
}

func variantValue(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
