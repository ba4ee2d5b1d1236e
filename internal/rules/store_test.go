package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func writeModernRules(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, "modern", "archetypes", "burn.json"), `{
		"Name": "Burn",
		"Conditions": [{"Type": "OneOrMoreInMainboard", "Cards": ["Lightning Bolt", "Goblin Guide"]}],
		"Variants": [{"Name": "Mono-Red", "Conditions": [{"Type": "DoesNotContainMainboard", "Cards": ["Boros Charm"]}]}]
	}`)
	writeFile(t, filepath.Join(dir, "modern", "archetypes", "affinity.json"), `{
		"Name": "Affinity",
		"Conditions": [{"Type": "InMainboard", "Cards": ["Cranial Plating"]}]
	}`)
	writeFile(t, filepath.Join(dir, "modern", "fallbacks", "tron.json"), `{
		"Name": "Tron",
		"CommonCards": ["Urza's Tower", "Urza's Mine", "Urza's Power Plant", "Karn Liberated"]
	}`)
	writeFile(t, filepath.Join(dir, "modern", "color_overrides.json"), `{
		"Lands": [{"Name": "Steam Vents", "Color": "UR"}],
		"NonLands": [{"Name": "Lightning Bolt", "Color": "R"}]
	}`)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeModernRules(t, dir)

	store, err := Load(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	fr, ok := store.Format("modern")
	if !ok {
		t.Fatal("modern format not loaded")
	}
	if len(fr.Rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(fr.Rules))
	}

	// Equal priority sorts by name: Affinity before Burn.
	if fr.Rules[0].Name != "Affinity" || fr.Rules[1].Name != "Burn" {
		t.Errorf("rule order = [%s, %s], want [Affinity, Burn]", fr.Rules[0].Name, fr.Rules[1].Name)
	}

	burn := fr.Rules[1]
	if len(burn.Variants) != 1 || burn.Variants[0].Name != "Mono-Red" {
		t.Errorf("Burn variants = %+v, want one Mono-Red variant", burn.Variants)
	}
	if burn.Conditions[0].Kind != OneOrMoreInMainboard {
		t.Errorf("Burn condition kind = %v, want OneOrMoreInMainboard", burn.Conditions[0].Kind)
	}

	if len(fr.Fallbacks) != 1 || fr.Fallbacks[0].Name != "Tron" {
		t.Fatalf("fallbacks = %+v, want one Tron definition", fr.Fallbacks)
	}
	if _, ok := fr.Fallbacks[0].CommonCards["Karn Liberated"]; !ok {
		t.Error("Tron common cards missing Karn Liberated")
	}

	if fr.ColorOverrides["Steam Vents"] != "UR" {
		t.Errorf("Steam Vents override = %q, want UR", fr.ColorOverrides["Steam Vents"])
	}
}

func TestLoadOrdersByPriorityThenName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "modern", "archetypes", "zoo.json"), `{
		"Name": "Zoo", "Priority": -1,
		"Conditions": [{"Type": "InMainboard", "Cards": ["Wild Nacatl"]}]
	}`)
	writeFile(t, filepath.Join(dir, "modern", "archetypes", "burn.json"), `{
		"Name": "Burn",
		"Conditions": [{"Type": "InMainboard", "Cards": ["Lightning Bolt"]}]
	}`)
	writeFile(t, filepath.Join(dir, "modern", "archetypes", "affinity.json"), `{
		"Name": "Affinity",
		"Conditions": [{"Type": "InMainboard", "Cards": ["Cranial Plating"]}]
	}`)

	store, err := Load(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	fr, _ := store.Format("modern")
	var got []string
	for _, r := range fr.Rules {
		got = append(got, r.Name)
	}
	want := []string{"Zoo", "Affinity", "Burn"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("rule order = %v, want %v", got, want)
		}
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		path string
		body string
	}{
		{
			name: "unparsable rule file",
			path: filepath.Join("modern", "archetypes", "broken.json"),
			body: `{"Name": "Broken",`,
		},
		{
			name: "unknown condition type",
			path: filepath.Join("modern", "archetypes", "bad.json"),
			body: `{"Name": "Bad", "Conditions": [{"Type": "ThreeOrMoreInMainboard", "Cards": ["X"]}]}`,
		},
		{
			name: "rule without a name",
			path: filepath.Join("modern", "archetypes", "anon.json"),
			body: `{"Conditions": []}`,
		},
		{
			name: "fallback without cards",
			path: filepath.Join("modern", "fallbacks", "empty.json"),
			body: `{"Name": "Empty", "CommonCards": []}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, filepath.Join(dir, tt.path), tt.body)
			if _, err := Load(dir, zerolog.Nop()); err == nil {
				t.Error("Load() succeeded, want configuration error")
			}
		})
	}
}

func TestLoadRejectsDuplicateArchetypes(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "modern", "archetypes", "a.json"), `{"Name": "Burn", "Conditions": []}`)
	writeFile(t, filepath.Join(dir, "modern", "archetypes", "b.json"), `{"Name": "Burn", "Conditions": []}`)

	if _, err := Load(dir, zerolog.Nop()); err == nil {
		t.Error("Load() succeeded, want duplicate archetype error")
	}
}

func TestParseKindRoundTrip(t *testing.T) {
	kinds := []Kind{
		InMainboard, InSideboard, InMainOrSideboard,
		OneOrMoreInMainboard, OneOrMoreInSideboard, OneOrMoreInMainOrSideboard,
		TwoOrMoreInMainboard, TwoOrMoreInSideboard, TwoOrMoreInMainOrSideboard,
		DoesNotContain, DoesNotContainMainboard, DoesNotContainSideboard,
	}
	for _, k := range kinds {
		parsed, err := ParseKind(k.String())
		if err != nil {
			t.Errorf("ParseKind(%s) error = %v", k, err)
		}
		if parsed != k {
			t.Errorf("ParseKind(%s) = %v, want %v", k, parsed, k)
		}
	}

	if _, err := ParseKind("InGraveyard"); err == nil {
		t.Error("ParseKind accepted an unknown kind")
	}
}

func TestProviderReload(t *testing.T) {
	dir := t.TempDir()
	writeModernRules(t, dir)

	provider, err := NewProvider(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}

	before := provider.Snapshot()
	fr, _ := before.Format("modern")
	if len(fr.Rules) != 2 {
		t.Fatalf("initial snapshot has %d rules, want 2", len(fr.Rules))
	}

	writeFile(t, filepath.Join(dir, "modern", "archetypes", "tron.json"), `{
		"Name": "Tron",
		"Conditions": [{"Type": "InMainboard", "Cards": ["Urza's Tower"]}]
	}`)
	if err := provider.Reload(); err != nil {
		t.Fatalf("Reload() error = %v", err)
	}

	after := provider.Snapshot()
	if after == before {
		t.Fatal("Reload() did not swap the snapshot")
	}
	fr, _ = after.Format("modern")
	if len(fr.Rules) != 3 {
		t.Errorf("reloaded snapshot has %d rules, want 3", len(fr.Rules))
	}

	// Old snapshot stays intact for in-flight readers.
	fr, _ = before.Format("modern")
	if len(fr.Rules) != 2 {
		t.Errorf("old snapshot mutated: %d rules, want 2", len(fr.Rules))
	}
}

func TestProviderReloadKeepsSnapshotOnError(t *testing.T) {
	dir := t.TempDir()
	writeModernRules(t, dir)

	provider, err := NewProvider(dir, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewProvider() error = %v", err)
	}
	before := provider.Snapshot()

	writeFile(t, filepath.Join(dir, "modern", "archetypes", "broken.json"), `not json`)
	if err := provider.Reload(); err == nil {
		t.Fatal("Reload() succeeded on broken file, want error")
	}
	if provider.Snapshot() != before {
		t.Error("failed reload swapped the snapshot")
	}
}
