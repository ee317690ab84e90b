package core

import "strings"

const (
	CategoryHousing      Category = "Housing"
	CategoryUtilities    Category = "Utilities"
	CategorySubscription Category = "Subscription"
	CategoryFood         Category = "Food"
	CategoryTransport    Category = "Transport"
	CategoryCards        Category = "Cards"
	CategoryInvestments  Category = "Investments"
	CategoryFamily       Category = "Family"
	CategoryHealth       Category = "Health"
	CategoryLeisure      Category = "Leisure"

	// CategoryUnknown is the default fallback when an edited row carries an
	// icon glyph that maps to nothing. It displays the sentinel icon.
	CategoryUnknown Category = "Unknown"
)

// Category labels a record with one of a fixed closed set of spending
// categories. Values outside the set are tolerated and round-trip verbatim;
// they display the sentinel icon.
type Category string

// UnknownIcon is the sentinel glyph for categories outside the closed set.
const UnknownIcon = "❓"

var categoryIcons = map[Category]string{
	CategoryHousing:      "🏠",
	CategoryUtilities:    "⚡",
	CategorySubscription: "📺",
	CategoryFood:         "🛒",
	CategoryTransport:    "🚗",
	CategoryCards:        "💳",
	CategoryInvestments:  "📈",
	CategoryFamily:       "👪",
	CategoryHealth:       "🏥",
	CategoryLeisure:      "🎭",
}

// categoryAliases maps the original spreadsheet's Spanish labels onto the
// canonical set, so existing data loads without renaming columns by hand.
var categoryAliases = map[string]Category{
	"vivienda":    CategoryHousing,
	"servicios":   CategoryUtilities,
	"suscripcion": CategorySubscription,
	"suscripción": CategorySubscription,
	"alimentos":   CategoryFood,
	"transporte":  CategoryTransport,
	"tarjetas":    CategoryCards,
	"inversiones": CategoryInvestments,
	"familia":     CategoryFamily,
	"salud":       CategoryHealth,
	"ocio":        CategoryLeisure,
}

// Categories returns the closed canonical set in display order.
func Categories() []Category {
	return []Category{
		CategoryHousing, CategoryUtilities, CategorySubscription,
		CategoryFood, CategoryTransport, CategoryCards,
		CategoryInvestments, CategoryFamily, CategoryHealth, CategoryLeisure,
	}
}

// Icon returns the display glyph for the category. Categories outside the
// canonical set get UnknownIcon, never an error.
func (c Category) Icon() string {
	if icon, ok := categoryIcons[c]; ok {
		return icon
	}
	return UnknownIcon
}

// IsCanonical reports whether the category belongs to the closed set.
func (c Category) IsCanonical() bool {
	_, ok := categoryIcons[c]
	return ok
}

// CategoryFromLabel resolves a textual label (canonical name or Spanish
// alias, case-insensitive) to its canonical category.
func CategoryFromLabel(label string) (Category, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	for _, c := range Categories() {
		if l == strings.ToLower(string(c)) {
			return c, true
		}
	}
	if c, ok := categoryAliases[l]; ok {
		return c, true
	}
	return "", false
}

// CategoryFromIcon inverts the icon mapping. The inversion is deterministic:
// every canonical category has exactly one glyph.
func CategoryFromIcon(glyph string) (Category, bool) {
	glyph = strings.TrimSpace(glyph)
	for c, icon := range categoryIcons {
		if icon == glyph {
			return c, true
		}
	}
	return "", false
}
