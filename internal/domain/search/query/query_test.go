package query

import (
	"encoding/json"
	"testing"

	"github.com/nestvec/nestvec/internal/domain/listing"
)

func TestNormalize_Defaults(t *testing.T) {
	p := &Params{}
	p.Normalize()

	if p.Limit != DefaultLimit {
		t.Errorf("limit = %d, want %d", p.Limit, DefaultLimit)
	}
	if p.Offset != 0 {
		t.Errorf("offset = %d, want 0", p.Offset)
	}
	if p.Mode != ModeVector {
		t.Errorf("mode = %q, want %q", p.Mode, ModeVector)
	}
	if p.Weights == nil || p.Weights.Dense != 0.5 || p.Weights.Sparse != 0.5 {
		t.Errorf("weights = %+v, want 0.5/0.5", p.Weights)
	}
}

func TestNormalize_Clamps(t *testing.T) {
	p := &Params{Limit: 500, Offset: -3}
	p.Normalize()

	if p.Limit != MaxLimit {
		t.Errorf("limit = %d, want %d", p.Limit, MaxLimit)
	}
	if p.Offset != 0 {
		t.Errorf("offset = %d, want 0", p.Offset)
	}
}

func TestNormalize_KeepsCallerWeights(t *testing.T) {
	p := &Params{Weights: &HybridWeights{Dense: 0.8, Sparse: 0.2}}
	p.Normalize()

	if p.Weights.Dense != 0.8 || p.Weights.Sparse != 0.2 {
		t.Errorf("weights = %+v, want 0.8/0.2", p.Weights)
	}
}

func TestMode_IsValid(t *testing.T) {
	for _, m := range []Mode{ModeVector, ModeLexical, ModeHybrid} {
		if !m.IsValid() {
			t.Errorf("%q should be valid", m)
		}
	}
	if Mode("fuzzy").IsValid() {
		t.Error("unknown mode should be invalid")
	}
	if Mode("").IsValid() {
		t.Error("empty mode should be invalid")
	}
}

func TestRangeBound_IsZero(t *testing.T) {
	var nilBound *RangeBound
	if !nilBound.IsZero() {
		t.Error("nil bound should be zero")
	}
	if !(&RangeBound{}).IsZero() {
		t.Error("empty bound should be zero")
	}
	v := 1.0
	if (&RangeBound{Min: &v}).IsZero() {
		t.Error("half-open bound should not be zero")
	}
}

func TestLocation_CircleNeedsAllKeys(t *testing.T) {
	lat, lon, r := 31.2, 121.5, 2.0

	if _, ok := (&Location{CenterLatitude: &lat, CenterLongitude: &lon}).Circle(); ok {
		t.Error("circle without radius should not resolve")
	}

	c, ok := (&Location{CenterLatitude: &lat, CenterLongitude: &lon, RadiusKM: &r}).Circle()
	if !ok {
		t.Fatal("expected circle")
	}
	if c.CenterLatitude != lat || c.CenterLongitude != lon || c.RadiusKM != r {
		t.Errorf("unexpected circle: %+v", c)
	}
}

func TestLocation_RectExcludesCircle(t *testing.T) {
	lat, lon, r := 31.2, 121.5, 2.0
	minLat := 30.0

	loc := &Location{
		CenterLatitude: &lat, CenterLongitude: &lon, RadiusKM: &r,
		MinLatitude: &minLat,
	}
	if _, ok := loc.Rect(); ok {
		t.Error("circle takes precedence over rectangle edges")
	}

	rect, ok := (&Location{MinLatitude: &minLat}).Rect()
	if !ok || rect.MinLatitude == nil {
		t.Error("single edge should resolve as rectangle")
	}
}

func TestLocation_NilSafe(t *testing.T) {
	var loc *Location
	if _, ok := loc.Circle(); ok {
		t.Error("nil location has no circle")
	}
	if _, ok := loc.Rect(); ok {
		t.Error("nil location has no rectangle")
	}
}

func TestHasQuery(t *testing.T) {
	if (&Params{}).HasQuery() {
		t.Error("empty query")
	}
	if !(&Params{Query: "garden"}).HasQuery() {
		t.Error("expected query")
	}
}

func TestParams_ScalarFilterValues(t *testing.T) {
	var p Params
	body := `{"names":"Riverside Garden","categories":2}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal scalar filters: %v", err)
	}
	if len(p.Names) != 1 || p.Names[0] != "Riverside Garden" {
		t.Errorf("names = %v, want one-element list", p.Names)
	}
	if len(p.Categories) != 1 || p.Categories[0] != listing.CategoryResale {
		t.Errorf("categories = %v, want [2]", p.Categories)
	}
}

func TestParams_ListFilterValues(t *testing.T) {
	var p Params
	body := `{"names":["Foo","Bar"],"categories":[1,3]}`
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal list filters: %v", err)
	}
	if len(p.Names) != 2 || p.Names[1] != "Bar" {
		t.Errorf("names = %v, want two-element list", p.Names)
	}
	if len(p.Categories) != 2 || p.Categories[1] != listing.CategoryRental {
		t.Errorf("categories = %v, want [1 3]", p.Categories)
	}
}

func TestParams_NullFilterValues(t *testing.T) {
	var p Params
	if err := json.Unmarshal([]byte(`{"names":null,"categories":null}`), &p); err != nil {
		t.Fatalf("unmarshal null filters: %v", err)
	}
	if len(p.Names) != 0 || len(p.Categories) != 0 {
		t.Errorf("null filters must stay empty, got names=%v categories=%v", p.Names, p.Categories)
	}
}

func TestParams_BadScalarType(t *testing.T) {
	var p Params
	if err := json.Unmarshal([]byte(`{"categories":"resale"}`), &p); err == nil {
		t.Fatal("expected error for a non-numeric category")
	}
}
