package listing

import (
	"fmt"

	"github.com/nestvec/nestvec/internal/db"
	"github.com/nestvec/nestvec/internal/domain"
	domlisting "github.com/nestvec/nestvec/internal/domain/listing"
)

// IndexName returns the search index name for the listing collection.
func IndexName() string {
	return fmt.Sprintf("%s%s:idx", domain.KeyPrefix, domain.ListingCollection)
}

// Key returns the storage key for a listing ID.
func Key(id string) string {
	return fmt.Sprintf("%s%s:%s", domain.KeyPrefix, domain.ListingCollection, id)
}

// keyPattern returns the SCAN glob covering all listing keys.
func keyPattern() string {
	return fmt.Sprintf("%s%s:*", domain.KeyPrefix, domain.ListingCollection)
}

// ReturnFields lists the hash fields fetched back from searches.
// The vector stays server-side.
func ReturnFields() []string {
	return []string{
		domlisting.FieldID,
		domlisting.FieldCategory,
		domlisting.FieldNames,
		domlisting.FieldRegion,
		domlisting.FieldAddress,
		domlisting.FieldLongitude,
		domlisting.FieldLatitude,
		domlisting.FieldAreaMin,
		domlisting.FieldAreaMax,
		domlisting.FieldUnitPriceMin,
		domlisting.FieldUnitPriceMax,
		domlisting.FieldTotalPriceMin,
		domlisting.FieldTotalPriceMax,
		domlisting.FieldRentMin,
		domlisting.FieldRentMax,
		domlisting.FieldOrientation,
		domlisting.FieldFloorLevel,
		domlisting.FieldDecoration,
		domlisting.FieldDecorStyle,
		domlisting.FieldElevator,
		domlisting.FieldParking,
		domlisting.FieldUtilities,
		domlisting.FieldSchoolDistrict,
		domlisting.FieldLayout,
		domlisting.FieldLeaseTerm,
		domlisting.FieldPrefTags,
		domlisting.FieldHighlights,
		domlisting.FieldSurroundings,
		domlisting.FieldTenureYears,
		domlisting.FieldBuildingAge,
		domlisting.FieldGreenRatio,
		domlisting.FieldPlotRatio,
		domlisting.FieldPropertyFee,
		domlisting.FieldSemanticStr,
	}
}

// indexDefinition builds the listing index schema. Attribute filters rely on
// TAG fields for exact and membership matches and NUMERIC for range overlap,
// so every filterable attribute appears here.
func indexDefinition(vectorDim int) *db.IndexDefinition {
	tag := func(name string) db.IndexField {
		return db.IndexField{Name: name, Type: db.IndexFieldTag}
	}
	numeric := func(name string) db.IndexField {
		return db.IndexField{Name: name, Type: db.IndexFieldNumeric}
	}

	return &db.IndexDefinition{
		Name:     IndexName(),
		Prefixes: []string{fmt.Sprintf("%s%s:", domain.KeyPrefix, domain.ListingCollection)},
		Fields: []db.IndexField{
			tag(domlisting.FieldID),
			tag(domlisting.FieldCategory),
			{Name: domlisting.FieldNames, Type: db.IndexFieldTag, TagSeparator: namesSeparator},
			tag(domlisting.FieldRegion),
			tag(domlisting.FieldOrientation),
			tag(domlisting.FieldFloorLevel),
			tag(domlisting.FieldDecoration),
			tag(domlisting.FieldDecorStyle),
			tag(domlisting.FieldElevator),
			tag(domlisting.FieldParking),
			tag(domlisting.FieldUtilities),
			tag(domlisting.FieldSchoolDistrict),
			tag(domlisting.FieldLayout),
			tag(domlisting.FieldLeaseTerm),
			tag(domlisting.FieldPrefTags),

			numeric(domlisting.FieldLongitude),
			numeric(domlisting.FieldLatitude),
			numeric(domlisting.FieldAreaMin),
			numeric(domlisting.FieldAreaMax),
			numeric(domlisting.FieldUnitPriceMin),
			numeric(domlisting.FieldUnitPriceMax),
			numeric(domlisting.FieldTotalPriceMin),
			numeric(domlisting.FieldTotalPriceMax),
			numeric(domlisting.FieldRentMin),
			numeric(domlisting.FieldRentMax),
			numeric(domlisting.FieldTenureYears),
			numeric(domlisting.FieldBuildingAge),
			numeric(domlisting.FieldGreenRatio),
			numeric(domlisting.FieldPlotRatio),
			numeric(domlisting.FieldPropertyFee),

			{Name: domlisting.FieldSemanticStr, Type: db.IndexFieldText},
			{
				Name:              domlisting.FieldVector,
				Type:              db.IndexFieldVector,
				VectorAlgo:        db.VectorHNSW,
				VectorDim:         vectorDim,
				VectorDistance:    db.DistanceCosine,
				VectorM:           16,
				VectorEFConstruct: 200,
			},
		},
	}
}
