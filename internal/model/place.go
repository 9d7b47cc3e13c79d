package model

// Place is one row of the gazetteer
type Place struct {
	GeonameID        int     `db:"geoname_id"`
	Seq              int     `db:"seq"`
	Name             string  `db:"name"`
	ASCIIName        string  `db:"-"`
	AlternateNames   string  `db:"-"`
	Latitude         float64 `db:"lat"`
	Longitude        float64 `db:"lon"`
	FeatureClass     string  `db:"-"`
	FeatureCode      string  `db:"-"`
	CountryCode      string  `db:"country_code"`
	CC2              string  `db:"-"`
	Admin1Code       string  `db:"admin1_code"`
	Admin2Code       string  `db:"-"`
	Admin3Code       string  `db:"-"`
	Admin4Code       string  `db:"-"`
	Population       int64   `db:"population"`
	Elevation        *int    `db:"-"`
	DEM              int     `db:"-"`
	Timezone         string  `db:"timezone"`
	ModificationDate string  `db:"-"`
}

// PlaceRow is the persisted form of a Place
type PlaceRow struct {
	Place
	// NameFolded is the lower-cased name used for prefix search
	NameFolded string `db:"name_folded"`
}

// Country represents a country in the reference data
type Country struct {
	Code string `db:"code"`
	Name string `db:"name"`
}
