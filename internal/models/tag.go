package models

// Tag represents a colored label that can be applied to tickets.
// Tags are scoped to a sub-account, so every pipeline of the sub-account shares them.
type Tag struct {
	ID           int
	Name         string
	Color        string // Hex color code (e.g., "#7D56F4")
	SubAccountID string
}
