package filter

import (
	"strconv"

	"github.com/nestvec/nestvec/internal/domain/geo"
	"github.com/nestvec/nestvec/internal/domain/listing"
	"github.com/nestvec/nestvec/internal/domain/search/query"
)

// Compile translates the structured filter fields of a search request
// into a single conjunctive predicate for the storage engine. Fields
// that are absent contribute nothing; malformed values are skipped
// rather than rejected, degrading to "no constraint on this field".
// The returned expression is empty when no filter field is set.
func Compile(p *query.Params) Expression {
	var expr Expression

	expr = compileMembership(expr, p)
	expr = compileExactMatches(expr, p)

	if p.PrefTags != "" {
		if c, err := NewContains(listing.FieldPrefTags, p.PrefTags); err == nil {
			expr = expr.And(c)
		}
	}

	expr = compileOverlap(expr, listing.FieldAreaMin, listing.FieldAreaMax, p.Area)
	expr = compileOverlap(expr, listing.FieldUnitPriceMin, listing.FieldUnitPriceMax, p.UnitPrice)
	expr = compileOverlap(expr, listing.FieldTotalPriceMin, listing.FieldTotalPriceMax, p.TotalPrice)
	expr = compileOverlap(expr, listing.FieldRentMin, listing.FieldRentMax, p.Rent)

	if !p.Tenure.IsZero() {
		if c, err := NewRange(listing.FieldTenureYears, p.Tenure.Min, p.Tenure.Max); err == nil {
			expr = expr.And(c)
		}
	}

	return compileLocation(expr, p.Location)
}

// compileMembership handles multi-value fields: a scalar compiles to
// equality, a list to set membership, and an empty list to no
// constraint at all (identical to the field being absent).
func compileMembership(expr Expression, p *query.Params) Expression {
	if len(p.Names) > 0 {
		if c, err := NewMatch(listing.FieldNames, p.Names...); err == nil {
			expr = expr.And(c)
		}
	}

	if len(p.Categories) > 0 {
		values := make([]string, 0, len(p.Categories))
		for _, cat := range p.Categories {
			if cat.IsValid() {
				values = append(values, strconv.Itoa(int(cat)))
			}
		}
		if len(values) > 0 {
			if c, err := NewMatch(listing.FieldCategory, values...); err == nil {
				expr = expr.And(c)
			}
		}
	}

	return expr
}

func compileExactMatches(expr Expression, p *query.Params) Expression {
	exact := []struct {
		key   string
		value string
	}{
		{listing.FieldRegion, p.Region},
		{listing.FieldOrientation, p.Orientation},
		{listing.FieldFloorLevel, p.FloorLevel},
		{listing.FieldDecoration, p.Decoration},
		{listing.FieldElevator, p.Elevator},
		{listing.FieldParking, p.Parking},
	}
	for _, f := range exact {
		if f.value == "" {
			continue
		}
		if c, err := NewMatch(f.key, f.value); err == nil {
			expr = expr.And(c)
		}
	}
	return expr
}

// compileOverlap emits the interval-intersection test for an attribute
// stored as a min/max pair: the listing qualifies when its range
// intersects the query's. That is `attr_max >= q.min AND attr_min <=
// q.max`, each half omitted independently when the corresponding query
// bound is open. Comparing a single column against both bounds would be
// wrong here: the stored attribute is itself a range.
func compileOverlap(expr Expression, minField, maxField string, b *query.RangeBound) Expression {
	if b.IsZero() {
		return expr
	}
	if b.Min != nil {
		if c, err := NewRange(maxField, b.Min, nil); err == nil {
			expr = expr.And(c)
		}
	}
	if b.Max != nil {
		if c, err := NewRange(minField, nil, b.Max); err == nil {
			expr = expr.And(c)
		}
	}
	return expr
}

// compileLocation reduces both geo shapes to rectangle conditions: the
// engine only supports axis-aligned numeric comparisons, so a circle is
// approximated by its bounding box and refined after retrieval.
func compileLocation(expr Expression, loc *query.Location) Expression {
	if circle, ok := loc.Circle(); ok {
		if !geo.ValidateCoordinates(circle.CenterLatitude, circle.CenterLongitude) || circle.RadiusKM <= 0 {
			return expr
		}
		box := geo.BoundingBox(circle)
		return appendRect(expr,
			&box.MinLongitude, &box.MaxLongitude,
			&box.MinLatitude, &box.MaxLatitude,
		)
	}

	if rect, ok := loc.Rect(); ok {
		return appendRect(expr,
			rect.MinLongitude, rect.MaxLongitude,
			rect.MinLatitude, rect.MaxLatitude,
		)
	}

	return expr
}

func appendRect(expr Expression, minLon, maxLon, minLat, maxLat *float64) Expression {
	if minLon != nil || maxLon != nil {
		if c, err := NewRange(listing.FieldLongitude, minLon, maxLon); err == nil {
			expr = expr.And(c)
		}
	}
	if minLat != nil || maxLat != nil {
		if c, err := NewRange(listing.FieldLatitude, minLat, maxLat); err == nil {
			expr = expr.And(c)
		}
	}
	return expr
}
