package domain

import "strings"

// Category is the closed set of priority categories a credential can belong
// to. Unrecognized values collapse to CategoryOther at the deserialization
// boundary.
type Category string

const (
	CategoryEmail     Category = "email"
	CategoryBanking   Category = "banking"
	CategorySocial    Category = "social"
	CategoryDeveloper Category = "developer"
	CategoryOther     Category = "other"
)

// DefaultCategoryOrder is the priority order used when settings do not
// provide one.
var DefaultCategoryOrder = []Category{
	CategoryEmail,
	CategoryBanking,
	CategorySocial,
	CategoryDeveloper,
	CategoryOther,
}

// ParseCategory maps a stored category string onto the closed enumeration.
func ParseCategory(raw string) Category {
	switch Category(strings.ToLower(strings.TrimSpace(raw))) {
	case CategoryEmail:
		return CategoryEmail
	case CategoryBanking:
		return CategoryBanking
	case CategorySocial:
		return CategorySocial
	case CategoryDeveloper:
		return CategoryDeveloper
	default:
		return CategoryOther
	}
}

// String returns the storage form of the category.
func (c Category) String() string {
	return string(c)
}

// HighPriority reports whether stale credentials in this category carry the
// highest real-world exposure.
func (c Category) HighPriority() bool {
	return c == CategoryEmail || c == CategoryBanking
}
