package game

import "testing"

func TestCatalogMetadataMatchesDefinitions(t *testing.T) {
	doc := Catalog()
	if len(doc) != len(effectDefinitions) {
		t.Fatalf("catalog document has %d entries, definitions %d", len(doc), len(effectDefinitions))
	}
	for i, entry := range doc {
		if i > 0 && doc[i-1].Type >= entry.Type {
			t.Fatalf("document not sorted: %q before %q", doc[i-1].Type, entry.Type)
		}
		def, ok := effectDefinitions[entry.Type]
		if !ok {
			t.Fatalf("document entry %q not in definitions", entry.Type)
		}
		if entry.Category != def.Category {
			t.Errorf("%s category = %q, want %q", entry.Type, entry.Category, def.Category)
		}
		if entry.DurationMs != def.Duration.Milliseconds() {
			t.Errorf("%s duration = %d, want %d", entry.Type, entry.DurationMs, def.Duration.Milliseconds())
		}
	}
}
