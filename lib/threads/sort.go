package threads

// Less orders nodes by date, then by subject. A missing date sorts before
// any date and a missing subject before any subject.
func Less(a, b *Node) bool {
	if a.HasDate() != b.HasDate() {
		return !a.HasDate()
	}
	if da, db := a.Date(), b.Date(); !da.Equal(db) {
		return da.Before(db)
	}
	sa, oka := a.Subject()
	sb, okb := b.Subject()
	if oka != okb {
		return !oka
	}
	return sa < sb
}

// Sort orders the whole graph with Less. Roots and siblings are rendered in
// this order.
func (g *Graph) Sort() {
	g.SortFunc(Less)
}
