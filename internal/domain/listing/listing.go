package listing

import (
	"fmt"

	"github.com/nestvec/nestvec/internal/domain/geo"
)

// Category classifies a listing.
type Category int

// Listing categories.
const (
	CategoryUnknown  Category = 0
	CategoryNewBuild Category = 1
	CategoryResale   Category = 2
	CategoryRental   Category = 3
)

// IsValid reports whether the category is one of the known values.
func (c Category) IsValid() bool {
	return c == CategoryNewBuild || c == CategoryResale || c == CategoryRental
}

// String returns the category name.
func (c Category) String() string {
	switch c {
	case CategoryNewBuild:
		return "new_build"
	case CategoryResale:
		return "resale"
	case CategoryRental:
		return "rental"
	default:
		return "unknown"
	}
}

// Listing is one indexed real-estate record. Numeric attributes that can
// vary across a grouped listing are stored as min/max pairs: a single
// record may describe a price or area band rather than one unit.
//
// Optional fields use pointers (or "" for strings); absence means
// "unknown", not "false" or zero.
type Listing struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`

	// Community names. A record can belong to several marketing names.
	Names []string `json:"names,omitempty"`

	Region    string  `json:"region,omitempty"`
	Address   string  `json:"address,omitempty"`
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`

	AreaMin       float64 `json:"area_min,omitempty"`
	AreaMax       float64 `json:"area_max,omitempty"`
	UnitPriceMin  float64 `json:"unit_price_min,omitempty"`
	UnitPriceMax  float64 `json:"unit_price_max,omitempty"`
	TotalPriceMin float64 `json:"total_price_min,omitempty"`
	TotalPriceMax float64 `json:"total_price_max,omitempty"`
	RentMin       float64 `json:"rent_min,omitempty"`
	RentMax       float64 `json:"rent_max,omitempty"`

	Orientation    string `json:"orientation,omitempty"`
	FloorLevel     string `json:"floor_level,omitempty"`
	Decoration     string `json:"decoration,omitempty"`
	DecorStyle     string `json:"decor_style,omitempty"`
	Elevator       string `json:"elevator,omitempty"`
	Parking        string `json:"parking,omitempty"`
	Utilities      string `json:"utilities,omitempty"`
	SchoolDistrict string `json:"school_district,omitempty"`
	Layout         string `json:"layout,omitempty"`
	LeaseTerm      string `json:"lease_term,omitempty"`
	PrefTags       string `json:"pref_tags,omitempty"`
	Highlights     string `json:"highlights,omitempty"`
	Surroundings   string `json:"surroundings,omitempty"`

	TenureYears *int     `json:"tenure_years,omitempty"`
	BuildingAge *int     `json:"building_age,omitempty"`
	GreenRatio  *float64 `json:"green_ratio,omitempty"`
	PlotRatio   *float64 `json:"plot_ratio,omitempty"`
	PropertyFee *float64 `json:"property_fee,omitempty"`

	// SemanticStr is the only source of semantic signal: it feeds both
	// the dense embedding and the lexical index. No other field is
	// concatenated into it implicitly.
	SemanticStr string `json:"semantic_str,omitempty"`

	// vector is derived from SemanticStr on insert. It is never supplied
	// by the caller and never serialized back out.
	vector []float32
}

// Validate checks the fields required for indexing.
func (l *Listing) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("listing id is required")
	}
	if !l.Category.IsValid() {
		return fmt.Errorf("listing %s: invalid category %d", l.ID, int(l.Category))
	}
	if !geo.ValidateCoordinates(l.Latitude, l.Longitude) {
		return fmt.Errorf("listing %s: invalid coordinates lat=%f lon=%f", l.ID, l.Latitude, l.Longitude)
	}
	if l.AreaMin > l.AreaMax {
		return fmt.Errorf("listing %s: area range inverted", l.ID)
	}
	return nil
}

// SetVector attaches the derived semantic vector.
func (l *Listing) SetVector(v []float32) { l.vector = v }

// Vector returns the derived semantic vector.
func (l *Listing) Vector() []float32 { return l.vector }
