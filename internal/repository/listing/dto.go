package listing

import (
	"encoding/binary"
	"math"
	"strconv"
	"strings"

	domlisting "github.com/nestvec/nestvec/internal/domain/listing"
)

// namesSeparator joins community names into one TAG field value.
const namesSeparator = ","

// ListingFields converts a domain Listing into a flat map[string]string for HSET.
// Optional string attributes are omitted when empty, pointer attributes when nil.
// Range pairs and coordinates are always written so numeric filters see them.
func ListingFields(l *domlisting.Listing) map[string]string {
	m := map[string]string{
		domlisting.FieldID:       l.ID,
		domlisting.FieldCategory: strconv.Itoa(int(l.Category)),

		domlisting.FieldLongitude: formatFloat(l.Longitude),
		domlisting.FieldLatitude:  formatFloat(l.Latitude),

		domlisting.FieldAreaMin:       formatFloat(l.AreaMin),
		domlisting.FieldAreaMax:       formatFloat(l.AreaMax),
		domlisting.FieldUnitPriceMin:  formatFloat(l.UnitPriceMin),
		domlisting.FieldUnitPriceMax:  formatFloat(l.UnitPriceMax),
		domlisting.FieldTotalPriceMin: formatFloat(l.TotalPriceMin),
		domlisting.FieldTotalPriceMax: formatFloat(l.TotalPriceMax),
		domlisting.FieldRentMin:       formatFloat(l.RentMin),
		domlisting.FieldRentMax:       formatFloat(l.RentMax),
	}

	if len(l.Names) > 0 {
		m[domlisting.FieldNames] = strings.Join(l.Names, namesSeparator)
	}

	setString(m, domlisting.FieldRegion, l.Region)
	setString(m, domlisting.FieldAddress, l.Address)
	setString(m, domlisting.FieldOrientation, l.Orientation)
	setString(m, domlisting.FieldFloorLevel, l.FloorLevel)
	setString(m, domlisting.FieldDecoration, l.Decoration)
	setString(m, domlisting.FieldDecorStyle, l.DecorStyle)
	setString(m, domlisting.FieldElevator, l.Elevator)
	setString(m, domlisting.FieldParking, l.Parking)
	setString(m, domlisting.FieldUtilities, l.Utilities)
	setString(m, domlisting.FieldSchoolDistrict, l.SchoolDistrict)
	setString(m, domlisting.FieldLayout, l.Layout)
	setString(m, domlisting.FieldLeaseTerm, l.LeaseTerm)
	setString(m, domlisting.FieldPrefTags, l.PrefTags)
	setString(m, domlisting.FieldHighlights, l.Highlights)
	setString(m, domlisting.FieldSurroundings, l.Surroundings)
	setString(m, domlisting.FieldSemanticStr, l.SemanticStr)

	if l.TenureYears != nil {
		m[domlisting.FieldTenureYears] = strconv.Itoa(*l.TenureYears)
	}
	if l.BuildingAge != nil {
		m[domlisting.FieldBuildingAge] = strconv.Itoa(*l.BuildingAge)
	}
	if l.GreenRatio != nil {
		m[domlisting.FieldGreenRatio] = formatFloat(*l.GreenRatio)
	}
	if l.PlotRatio != nil {
		m[domlisting.FieldPlotRatio] = formatFloat(*l.PlotRatio)
	}
	if l.PropertyFee != nil {
		m[domlisting.FieldPropertyFee] = formatFloat(*l.PropertyFee)
	}

	if v := l.Vector(); len(v) > 0 {
		m[domlisting.FieldVector] = VectorToBytes(v)
	}

	return m
}

// MapListing converts a flat hash map back into a domain Listing.
// Unparseable numeric values are treated as absent.
func MapListing(id string, m map[string]string) domlisting.Listing {
	l := domlisting.Listing{ID: id}

	if v, ok := m[domlisting.FieldID]; ok && v != "" {
		l.ID = v
	}
	if v, ok := m[domlisting.FieldCategory]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			l.Category = domlisting.Category(n)
		}
	}
	if v := m[domlisting.FieldNames]; v != "" {
		l.Names = strings.Split(v, namesSeparator)
	}

	l.Region = m[domlisting.FieldRegion]
	l.Address = m[domlisting.FieldAddress]
	l.Longitude = parseFloat(m[domlisting.FieldLongitude])
	l.Latitude = parseFloat(m[domlisting.FieldLatitude])

	l.AreaMin = parseFloat(m[domlisting.FieldAreaMin])
	l.AreaMax = parseFloat(m[domlisting.FieldAreaMax])
	l.UnitPriceMin = parseFloat(m[domlisting.FieldUnitPriceMin])
	l.UnitPriceMax = parseFloat(m[domlisting.FieldUnitPriceMax])
	l.TotalPriceMin = parseFloat(m[domlisting.FieldTotalPriceMin])
	l.TotalPriceMax = parseFloat(m[domlisting.FieldTotalPriceMax])
	l.RentMin = parseFloat(m[domlisting.FieldRentMin])
	l.RentMax = parseFloat(m[domlisting.FieldRentMax])

	l.Orientation = m[domlisting.FieldOrientation]
	l.FloorLevel = m[domlisting.FieldFloorLevel]
	l.Decoration = m[domlisting.FieldDecoration]
	l.DecorStyle = m[domlisting.FieldDecorStyle]
	l.Elevator = m[domlisting.FieldElevator]
	l.Parking = m[domlisting.FieldParking]
	l.Utilities = m[domlisting.FieldUtilities]
	l.SchoolDistrict = m[domlisting.FieldSchoolDistrict]
	l.Layout = m[domlisting.FieldLayout]
	l.LeaseTerm = m[domlisting.FieldLeaseTerm]
	l.PrefTags = m[domlisting.FieldPrefTags]
	l.Highlights = m[domlisting.FieldHighlights]
	l.Surroundings = m[domlisting.FieldSurroundings]
	l.SemanticStr = m[domlisting.FieldSemanticStr]

	if v, ok := m[domlisting.FieldTenureYears]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			l.TenureYears = &n
		}
	}
	if v, ok := m[domlisting.FieldBuildingAge]; ok {
		if n, err := strconv.Atoi(v); err == nil {
			l.BuildingAge = &n
		}
	}
	if v, ok := m[domlisting.FieldGreenRatio]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			l.GreenRatio = &f
		}
	}
	if v, ok := m[domlisting.FieldPlotRatio]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			l.PlotRatio = &f
		}
	}
	if v, ok := m[domlisting.FieldPropertyFee]; ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			l.PropertyFee = &f
		}
	}

	if v := m[domlisting.FieldVector]; v != "" {
		l.SetVector(BytesToVector(v))
	}

	return l
}

func setString(m map[string]string, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(s, 64)
	return f
}

// VectorToBytes serializes []float32 to a binary string (4 bytes per float, little-endian).
func VectorToBytes(v []float32) string {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return string(buf)
}

// BytesToVector deserializes a binary string back to []float32.
func BytesToVector(s string) []float32 {
	b := []byte(s)
	if len(b)%4 != 0 {
		return nil
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v
}
