package game

// CatalogEntry models one pickup kind for the schema generator and client
// tooling. It carries the metadata half of an EffectDefinition; the handler
// functions stay server-side.
type CatalogEntry struct {
	Type       EffectType     `json:"type" jsonschema:"title=Pickup type,pattern=^[a-z0-9_]+$,description=Wire identifier for the pickup kind"`
	Category   EffectCategory `json:"category" jsonschema:"title=Category,enum=ball,enum=paddle,enum=field,enum=score,enum=cosmetic"`
	DurationMs int64          `json:"durationMs" jsonschema:"title=Duration,description=Effect lifetime in milliseconds,minimum=1"`
}

// CatalogDocument is the full pickup catalog in stable type order.
type CatalogDocument []CatalogEntry

// Catalog returns the catalog metadata sorted by type.
func Catalog() CatalogDocument {
	doc := make(CatalogDocument, 0, len(effectDefinitions))
	for _, typ := range sortedCatalogTypes() {
		def := effectDefinitions[typ]
		doc = append(doc, CatalogEntry{
			Type:       def.Type,
			Category:   def.Category,
			DurationMs: def.Duration.Milliseconds(),
		})
	}
	return doc
}
