package fraud

// categoryCodes is the closed set of category labels the model was trained
// on. Codes are stable; reordering them would invalidate every artifact.
var categoryCodes = map[string]int{
	"Groceries":     1,
	"Rent":          2,
	"Utilities":     3,
	"Entertainment": 4,
	"Travel":        5,
	"Dining":        6,
	"Healthcare":    7,
	"Education":     8,
	"Shopping":      9,
	"Salary":        10,
}

// EncodeCategory maps a category label to its numeric feature code.
// Unknown labels encode to 0 so that unseen categories degrade to a
// neutral input instead of failing the scoring call.
func EncodeCategory(category string) int {
	return categoryCodes[category]
}
