package query

import (
	"encoding/json"

	"github.com/nestvec/nestvec/internal/domain/geo"
	"github.com/nestvec/nestvec/internal/domain/listing"
)

// Mode selects the retrieval strategy for a scored search.
type Mode string

// Retrieval modes.
const (
	ModeVector  Mode = "vector"
	ModeLexical Mode = "lexical"
	ModeHybrid  Mode = "hybrid"
)

// IsValid reports whether the mode is one of the known values.
func (m Mode) IsValid() bool {
	return m == ModeVector || m == ModeLexical || m == ModeHybrid
}

// Pagination limits.
const (
	DefaultLimit = 10
	MaxLimit     = 100
)

// StringList accepts either a single JSON string or an array of
// strings. A scalar means equality, a list means set membership, so a
// one-element list and a scalar are interchangeable.
type StringList []string

// UnmarshalJSON wraps a scalar into a one-element list.
func (l *StringList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] != '[' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = StringList{s}
		return nil
	}
	var vals []string
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	*l = vals
	return nil
}

// CategoryList accepts either a single JSON number or an array of
// numbers, mirroring StringList for the category enum.
type CategoryList []listing.Category

// UnmarshalJSON wraps a scalar into a one-element list.
func (l *CategoryList) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}
	if len(data) > 0 && data[0] != '[' {
		var c listing.Category
		if err := json.Unmarshal(data, &c); err != nil {
			return err
		}
		*l = CategoryList{c}
		return nil
	}
	var vals []listing.Category
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	*l = vals
	return nil
}

// RangeBound is a caller-supplied closed interval; either side may be open.
type RangeBound struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// IsZero reports whether the bound constrains anything. Safe on nil.
func (b *RangeBound) IsZero() bool {
	return b == nil || (b.Min == nil && b.Max == nil)
}

// Location carries either a circle (center + radius) or an axis-aligned
// rectangle, both optional edge by edge. Circle keys win when all three
// are present.
type Location struct {
	CenterLatitude  *float64 `json:"center_latitude,omitempty"`
	CenterLongitude *float64 `json:"center_longitude,omitempty"`
	RadiusKM        *float64 `json:"radius_km,omitempty"`

	MinLatitude  *float64 `json:"min_latitude,omitempty"`
	MaxLatitude  *float64 `json:"max_latitude,omitempty"`
	MinLongitude *float64 `json:"min_longitude,omitempty"`
	MaxLongitude *float64 `json:"max_longitude,omitempty"`
}

// Circle returns the circular constraint when all three circle keys are
// set. Safe on nil.
func (l *Location) Circle() (geo.Circle, bool) {
	if l == nil || l.CenterLatitude == nil || l.CenterLongitude == nil || l.RadiusKM == nil {
		return geo.Circle{}, false
	}
	return geo.Circle{
		CenterLatitude:  *l.CenterLatitude,
		CenterLongitude: *l.CenterLongitude,
		RadiusKM:        *l.RadiusKM,
	}, true
}

// Rect returns the rectangle edges when at least one is set and no
// circle is in effect. Safe on nil.
func (l *Location) Rect() (*Location, bool) {
	if l == nil {
		return nil, false
	}
	if _, ok := l.Circle(); ok {
		return nil, false
	}
	if l.MinLatitude == nil && l.MaxLatitude == nil && l.MinLongitude == nil && l.MaxLongitude == nil {
		return nil, false
	}
	return l, true
}

// HybridWeights balance the dense and sparse score contributions.
type HybridWeights struct {
	Dense  float64 `json:"dense"`
	Sparse float64 `json:"sparse"`
}

// Params is a normalized search request. Zero values mean "no
// constraint"; empty lists are identical to an absent field.
type Params struct {
	Names      StringList   `json:"names,omitempty"`
	Categories CategoryList `json:"categories,omitempty"`

	Region      string `json:"region,omitempty"`
	Orientation string `json:"orientation,omitempty"`
	FloorLevel  string `json:"floor_level,omitempty"`
	Decoration  string `json:"decoration,omitempty"`
	Elevator    string `json:"elevator,omitempty"`
	Parking     string `json:"parking,omitempty"`
	PrefTags    string `json:"pref_tags,omitempty"`

	Area       *RangeBound `json:"area,omitempty"`
	UnitPrice  *RangeBound `json:"unit_price,omitempty"`
	TotalPrice *RangeBound `json:"total_price,omitempty"`
	Rent       *RangeBound `json:"rent,omitempty"`
	Tenure     *RangeBound `json:"tenure,omitempty"`

	Location *Location `json:"location,omitempty"`

	// Query is the free-text semantic query. Without it the search
	// degrades to a pure attribute filter.
	Query string `json:"semantic_str,omitempty"`

	Mode       Mode           `json:"retrieval_type,omitempty"`
	Confidence float64        `json:"confidence,omitempty"`
	Weights    *HybridWeights `json:"hybrid_weights,omitempty"`

	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Normalize fills defaults and clamps pagination in place.
func (p *Params) Normalize() {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	if p.Mode == "" {
		p.Mode = ModeVector
	}
	if p.Weights == nil {
		p.Weights = &HybridWeights{Dense: 0.5, Sparse: 0.5}
	}
}

// HasQuery reports whether a semantic query is present.
func (p *Params) HasQuery() bool { return p.Query != "" }

// CircleRegion returns the circular geo constraint, if any.
func (p *Params) CircleRegion() (geo.Circle, bool) {
	return p.Location.Circle()
}
