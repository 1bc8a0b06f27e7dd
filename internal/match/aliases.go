package match

import (
	"encoding/json"
	"fmt"
	"os"

	"ledgerlink/internal/normalize"
)

// AliasTable maps party-name aliases to their canonical key. The table is
// loaded configuration: the matcher itself embeds no business-specific
// names, only the lookup.
type AliasTable struct {
	aliases map[string]string // normalized alias -> normalized canonical
}

func buildAliasSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"aliases": map[string]any{
				"type":                 "object",
				"additionalProperties": map[string]any{"type": "string", "minLength": 1},
			},
		},
		"required": []string{"aliases"},
	}
}

// LoadAliasTable reads and validates an alias configuration file of the form
// {"aliases": {"acme inc": "Acme Staffing"}}. An empty path yields an empty
// table.
func LoadAliasTable(path string) (*AliasTable, error) {
	if path == "" {
		return &AliasTable{aliases: map[string]string{}}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read alias table: %w", err)
	}
	if err := normalize.ValidateAgainstSchema(buildAliasSchema(), raw); err != nil {
		return nil, fmt.Errorf("alias table %s: %w", path, err)
	}
	var doc struct {
		Aliases map[string]string `json:"aliases"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode alias table: %w", err)
	}
	t := &AliasTable{aliases: make(map[string]string, len(doc.Aliases))}
	for alias, canonical := range doc.Aliases {
		t.aliases[normalize.NormalizeParty(alias)] = normalize.NormalizeParty(canonical)
	}
	return t, nil
}

// Canonical normalizes a party name and resolves it through the alias map.
func (t *AliasTable) Canonical(name string) string {
	n := normalize.NormalizeParty(name)
	if t == nil || t.aliases == nil {
		return n
	}
	if canonical, ok := t.aliases[n]; ok {
		return canonical
	}
	return n
}
