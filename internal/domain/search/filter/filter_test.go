package filter

import (
	"encoding/json"
	"testing"
)

// testDoc is a minimal document with a fixed property table.
type testDoc struct {
	name     string
	rating   int
	favorite bool
	labels   []string
}

func (d testDoc) Property(name string) (any, bool) {
	switch name {
	case "name":
		return d.name, true
	case "rating":
		return d.rating, true
	case "favorite":
		return d.favorite, true
	case "labels":
		return d.labels, true
	}
	return nil, false
}

func TestCondition_Matches(t *testing.T) {
	doc := testDoc{name: "night drive", rating: 4, favorite: true, labels: []string{"l1", "l2"}}

	tests := []struct {
		name string
		cond Condition
		want bool
	}{
		{"string equals", StringEquals("name", "night drive"), true},
		{"string differs", StringEquals("name", "day drive"), false},
		{"bool equals", BoolEquals("favorite", true), true},
		{"number greater", NumberGreater("rating", 3), true},
		{"number greater rejected", NumberGreater("rating", 4), false},
		{"number less", NumberLess("rating", 5), true},
		{"array contains", ArrayContains("labels", "l2"), true},
		{"array missing element", ArrayContains("labels", "l9"), false},
		{"unknown property", BoolEquals("ghost", true), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cond.Matches(doc); got != tt.want {
				t.Errorf("Matches = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNode_Groupings(t *testing.T) {
	doc := testDoc{rating: 4, favorite: false, labels: []string{"l1"}}

	and := And(Leaf(NumberGreater("rating", 3)), Leaf(ArrayContains("labels", "l1")))
	if !and.Matches(doc) {
		t.Error("AND of two satisfied leaves should match")
	}

	or := Or(Leaf(BoolEquals("favorite", true)), Leaf(ArrayContains("labels", "l1")))
	if !or.Matches(doc) {
		t.Error("OR with one satisfied leaf should match")
	}

	not := Not(Leaf(ArrayContains("labels", "l1")))
	if not.Matches(doc) {
		t.Error("NOT over a satisfied leaf should not match")
	}

	var zero Node
	if !zero.Matches(doc) {
		t.Error("zero node (empty AND) should match everything")
	}
}

func TestNode_IncludeExcludeShape(t *testing.T) {
	// include ids are ANDed; exclude ids are ANDed with each wrapped in NOT.
	doc := testDoc{labels: []string{"l1", "l2"}}

	include := And(Leaf(ArrayContains("labels", "l1")), Leaf(ArrayContains("labels", "l2")))
	if !include.Matches(doc) {
		t.Error("include grouping should match")
	}

	exclude := And(Not(Leaf(ArrayContains("labels", "l3"))))
	if !exclude.Matches(doc) {
		t.Error("exclude of an absent label should match")
	}

	exclude = And(Not(Leaf(ArrayContains("labels", "l2"))))
	if exclude.Matches(doc) {
		t.Error("exclude of a present label should not match")
	}
}

func TestNode_JSONRoundTrip(t *testing.T) {
	tree := And(
		Leaf(BoolEquals("favorite", true)),
		Or(
			Leaf(StringEquals("studio", "st1")),
			Leaf(StringEquals("studio", "st2")),
		),
		Not(Leaf(ArrayContains("labels", "l3"))),
		Leaf(NumberGreater("rating", 2)),
	)

	data, err := json.Marshal(tree)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var back Node
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	again, err := json.Marshal(back)
	if err != nil {
		t.Fatalf("re-marshal: %v", err)
	}
	if string(data) != string(again) {
		t.Errorf("round trip changed encoding:\n%s\n%s", data, again)
	}
}

func TestNode_WireShape(t *testing.T) {
	data, err := json.Marshal(Leaf(ArrayContains("labels", "l1")))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"condition":{"operation":"?","property":"labels","type":"array","value":"l1"}}`
	if string(data) != want {
		t.Errorf("leaf wire shape = %s, want %s", data, want)
	}

	data, err = json.Marshal(And())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want = `{"type":"AND","children":[]}`
	if string(data) != want {
		t.Errorf("empty AND wire shape = %s, want %s", data, want)
	}
}

func TestNode_UnmarshalUnknownGrouping(t *testing.T) {
	var n Node
	if err := json.Unmarshal([]byte(`{"type":"XOR","children":[]}`), &n); err == nil {
		t.Error("expected error for unknown grouping type")
	}
}
