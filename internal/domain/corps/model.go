package corps

// CatalogEntry is one draftable corps from a past competitive season.
// The catalog is read-only reference data supplied per season.
type CatalogEntry struct {
	ID         string
	Name       string
	SourceYear int
	PointValue int64
}
