package entity

import (
	"strings"
	"time"
)

// Content is a catalog entry. The ID is derived from Name and never changes
// once the entry is stored.
type Content struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description"`
	Price        float64   `json:"price"`
	Paywalled    bool      `json:"paywalled"`
	Filename     string    `json:"filename"`
	Image        string    `json:"image"`
	PreviewImage string    `json:"preview_image"`
	CreatedBy    string    `json:"created_by,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// NameToID derives the catalog key from a display name: lower-case, then
// every space becomes a hyphen. Nothing else is normalized.
func NameToID(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// IsPaywalled reports whether an entry at this price needs an ownership grant.
func IsPaywalled(price float64) bool {
	return price > 0
}
