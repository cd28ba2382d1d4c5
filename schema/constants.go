package schema

import "strings"

// Custom string types for type safety.
type (
	// Method represents a green cover measurement method.
	Method string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for history tracking.
	DatabaseBackend string

	// CoverageLabel represents a qualitative band of green coverage.
	CoverageLabel string
)

// All measurement methods supported. CNNMethod is the primary method.
const (
	CNNMethod   Method = "CNN"
	NDVIMethod  Method = "NDVI"
	GNDVIMethod Method = "GNDVI"
	EVIMethod   Method = "EVI"
	SAVIMethod  Method = "SAVI"
)

// All output modes supported.
const (
	CSVOut     OutputMode = "csv"
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All history backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none" // default
)

// Coverage labels, from most to least vegetated.
const (
	LushLabel   CoverageLabel = "Lush"
	GreenLabel  CoverageLabel = "Green"
	SparseLabel CoverageLabel = "Sparse"
	BarrenLabel CoverageLabel = "Barren"
)

// AllMethods lists every method in sample order. The first entry is the primary method.
var AllMethods = []Method{CNNMethod, NDVIMethod, GNDVIMethod, EVIMethod, SAVIMethod}

// ValidMethods lists all valid methods.
var ValidMethods = map[Method]struct{}{
	CNNMethod:   {},
	NDVIMethod:  {},
	GNDVIMethod: {},
	EVIMethod:   {},
	SAVIMethod:  {},
}

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	CSVOut:     {},
	TextOut:    {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid history backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// DefaultTehsil and DefaultDistrict describe the region of the built-in reference set.
const (
	DefaultTehsil   = "Kankavli"
	DefaultDistrict = "Sindhudurg"
)

// ParseMethod resolves a case-insensitive method name.
func ParseMethod(s string) (Method, bool) {
	for _, m := range AllMethods {
		if strings.EqualFold(string(m), s) {
			return m, true
		}
	}
	return "", false
}
