package world

// landBox is an axis-aligned region of the normalized plane treated as
// land. The real product samples a decoded land-mask image; that
// collaborator is external, so this coarse continent sketch stands in
// as the default predicate.
type landBox struct {
	minX, minY, maxX, maxY float64
}

var continents = []landBox{
	{5, 12, 32, 48},  // north america
	{14, 50, 30, 88}, // south america
	{44, 14, 56, 40}, // europe
	{42, 42, 60, 82}, // africa
	{58, 12, 92, 52}, // asia
	{76, 60, 92, 78}, // australia
}

// OnLand reports whether the coordinate falls inside the continent
// sketch. Suitable as the Generate predicate.
func OnLand(x, y float64) bool {
	for _, b := range continents {
		if x >= b.minX && x <= b.maxX && y >= b.minY && y <= b.maxY {
			return true
		}
	}
	return false
}
