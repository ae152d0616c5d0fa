package domain

// Category classifies a registered vendor for audit aggregation.
// The numbering is part of the external contract (dashboards key on it).
type Category uint8

const (
	CategoryNone    Category = 0 // sentinel: not a registered vendor
	CategoryFood    Category = 1
	CategoryMedical Category = 2
	CategoryOther   Category = 3
)

// Categories lists every registrable category, in contract order.
func Categories() []Category {
	return []Category{CategoryFood, CategoryMedical, CategoryOther}
}

// IsValid reports whether c is a registrable vendor category.
// CategoryNone is a query sentinel, never a valid registration value.
func (c Category) IsValid() bool {
	return c == CategoryFood || c == CategoryMedical || c == CategoryOther
}

func (c Category) String() string {
	switch c {
	case CategoryFood:
		return "FOOD"
	case CategoryMedical:
		return "MEDICAL"
	case CategoryOther:
		return "OTHER"
	case CategoryNone:
		return "NONE"
	}
	return "UNKNOWN"
}

// ParseCategory maps the wire name back to a Category.
// Returns CategoryNone for anything unrecognized.
func ParseCategory(s string) Category {
	switch s {
	case "FOOD":
		return CategoryFood
	case "MEDICAL":
		return CategoryMedical
	case "OTHER":
		return CategoryOther
	}
	return CategoryNone
}
