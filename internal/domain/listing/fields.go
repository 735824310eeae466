package listing

// Canonical attribute names shared by the index schema, the stored hash
// fields, and compiled filter predicates.
const (
	FieldID             = "id"
	FieldCategory       = "category"
	FieldNames          = "names"
	FieldRegion         = "region"
	FieldAddress        = "address"
	FieldLongitude      = "longitude"
	FieldLatitude       = "latitude"
	FieldAreaMin        = "area_min"
	FieldAreaMax        = "area_max"
	FieldUnitPriceMin   = "unit_price_min"
	FieldUnitPriceMax   = "unit_price_max"
	FieldTotalPriceMin  = "total_price_min"
	FieldTotalPriceMax  = "total_price_max"
	FieldRentMin        = "rent_min"
	FieldRentMax        = "rent_max"
	FieldOrientation    = "orientation"
	FieldFloorLevel     = "floor_level"
	FieldDecoration     = "decoration"
	FieldDecorStyle     = "decor_style"
	FieldElevator       = "elevator"
	FieldParking        = "parking"
	FieldUtilities      = "utilities"
	FieldSchoolDistrict = "school_district"
	FieldLayout         = "layout"
	FieldLeaseTerm      = "lease_term"
	FieldPrefTags       = "pref_tags"
	FieldHighlights     = "highlights"
	FieldSurroundings   = "surroundings"
	FieldTenureYears    = "tenure_years"
	FieldBuildingAge    = "building_age"
	FieldGreenRatio     = "green_ratio"
	FieldPlotRatio      = "plot_ratio"
	FieldPropertyFee    = "property_fee"
	FieldSemanticStr    = "semantic_str"
	FieldVector         = "semantic_vector"
)
