package tree

import (
	"testing"

	"github.com/matzehuels/opptree/pkg/core/key"
	"github.com/matzehuels/opptree/pkg/core/record"
)

func TestMaterialize_Precedence(t *testing.T) {
	tests := []struct {
		name      string
		base      record.Base
		patch     *record.Patch
		index     int
		wantTitle string
		wantStat  string
		wantOrder float64
	}{
		{
			name:      "defaults",
			base:      record.Base{ID: "s"},
			index:     3,
			wantTitle: "Untitled solution",
			wantStat:  DefaultStatus,
			wantOrder: 3,
		},
		{
			name:      "record fields",
			base:      record.Base{ID: "s", Title: "T", Status: "active", Position: record.Int(7)},
			index:     3,
			wantTitle: "T",
			wantStat:  "active",
			wantOrder: 7,
		},
		{
			name:      "order beats position",
			base:      record.Base{ID: "s", Order: record.Float(1.5), Position: record.Int(7)},
			wantTitle: "Untitled solution",
			wantStat:  DefaultStatus,
			wantOrder: 1.5,
		},
		{
			name:      "override beats record",
			base:      record.Base{ID: "s", Title: "T", Order: record.Float(1)},
			patch:     &record.Patch{Title: record.String("O"), Order: record.Float(9)},
			wantTitle: "O",
			wantStat:  DefaultStatus,
			wantOrder: 9,
		},
		{
			name:      "empty override title falls back to default",
			base:      record.Base{ID: "s", Title: "T"},
			patch:     &record.Patch{Title: record.String("")},
			wantTitle: "Untitled solution",
			wantStat:  DefaultStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &record.Solution{Base: tt.base}
			var overrides record.Overrides
			if tt.patch != nil {
				overrides = record.Overrides{"solution:s": *tt.patch}
			}
			n := Materialize(s, Placement{ParentKey: "opportunity:o", Index: tt.index}, overrides)

			if n.Key != "solution:s" || n.Kind != key.KindSolution || n.ParentKey != "opportunity:o" {
				t.Errorf("identity = %q %q %q", n.Key, n.Kind, n.ParentKey)
			}
			if n.Title != tt.wantTitle {
				t.Errorf("Title = %q, want %q", n.Title, tt.wantTitle)
			}
			if n.Status != tt.wantStat {
				t.Errorf("Status = %q, want %q", n.Status, tt.wantStat)
			}
			if n.Order != tt.wantOrder {
				t.Errorf("Order = %v, want %v", n.Order, tt.wantOrder)
			}
			if n.Raw != record.Record(s) {
				t.Error("Raw should point at the source record")
			}
		})
	}
}

func TestMaterialize_TypeSpecificFields(t *testing.T) {
	o := &record.Opportunity{Base: record.Base{ID: "o"}, Stage: "explore"}
	n := Materialize(o, Placement{Nested: true}, record.Overrides{"opportunity:o": {Stage: record.String("build")}})
	if n.Stage != "build" || !n.Nested {
		t.Errorf("opportunity = %+v", n)
	}
	if o.Stage != "explore" {
		t.Error("record mutated")
	}

	e := &record.Experiment{Base: record.Base{ID: "e"}, Hypothesis: "h", Result: "r"}
	n = Materialize(e, Placement{}, record.Overrides{"experiment:e": {Result: record.String("")}})
	if n.Hypothesis != "h" || n.Result != "" {
		t.Errorf("experiment = %+v", n)
	}
	if n.Title != "Untitled experiment" {
		t.Errorf("Title = %q", n.Title)
	}
}
