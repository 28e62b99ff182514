// Package filter defines the boolean filter tree shared by every entity
// search module. A tree is built once per query and can either be
// evaluated in-process against search documents or serialized verbatim to
// an external engine speaking the same JSON shape.
package filter

import (
	"encoding/json"
	"fmt"
)

// Operator is a leaf comparison operator.
type Operator string

// Leaf operators. Contains tests array membership.
const (
	OpEquals   Operator = "="
	OpGreater  Operator = ">"
	OpLess     Operator = "<"
	OpContains Operator = "?"
)

// Kind is the value type of a leaf condition.
type Kind string

// Leaf value kinds.
const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindArray   Kind = "array"
)

// GroupType combines child nodes.
type GroupType string

// Grouping types. Not wraps a single child by convention.
const (
	GroupAnd GroupType = "AND"
	GroupOr  GroupType = "OR"
	GroupNot GroupType = "NOT"
)

// Document exposes a search document's filterable properties. Property
// returns false for names the document does not declare.
type Document interface {
	Property(name string) (any, bool)
}

// Condition is a single typed leaf comparison.
type Condition struct {
	property string
	op       Operator
	kind     Kind
	str      string
	num      float64
	boolean  bool
}

// StringEquals matches a string property exactly.
func StringEquals(property, value string) Condition {
	return Condition{property: property, op: OpEquals, kind: KindString, str: value}
}

// BoolEquals matches a boolean property.
func BoolEquals(property string, value bool) Condition {
	return Condition{property: property, op: OpEquals, kind: KindBoolean, boolean: value}
}

// NumberGreater matches numeric properties strictly greater than value.
func NumberGreater(property string, value float64) Condition {
	return Condition{property: property, op: OpGreater, kind: KindNumber, num: value}
}

// NumberLess matches numeric properties strictly less than value.
func NumberLess(property string, value float64) Condition {
	return Condition{property: property, op: OpLess, kind: KindNumber, num: value}
}

// ArrayContains matches string-array properties containing value.
func ArrayContains(property, value string) Condition {
	return Condition{property: property, op: OpContains, kind: KindArray, str: value}
}

// Property returns the document property the condition inspects.
func (c Condition) Property() string { return c.property }

// Op returns the comparison operator.
func (c Condition) Op() Operator { return c.op }

// ValueKind returns the declared value type.
func (c Condition) ValueKind() Kind { return c.kind }

// Matches evaluates the condition against a document. A property the
// document does not declare, or whose value has an unexpected dynamic
// type, never matches.
func (c Condition) Matches(doc Document) bool {
	v, ok := doc.Property(c.property)
	if !ok {
		return false
	}

	switch c.kind {
	case KindString:
		s, ok := v.(string)
		return ok && c.op == OpEquals && s == c.str
	case KindBoolean:
		b, ok := v.(bool)
		return ok && c.op == OpEquals && b == c.boolean
	case KindNumber:
		n, ok := asNumber(v)
		if !ok {
			return false
		}
		switch c.op {
		case OpEquals:
			return n == c.num
		case OpGreater:
			return n > c.num
		case OpLess:
			return n < c.num
		}
		return false
	case KindArray:
		arr, ok := v.([]string)
		if !ok || c.op != OpContains {
			return false
		}
		for _, s := range arr {
			if s == c.str {
				return true
			}
		}
		return false
	}
	return false
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Node is a filter tree node: either a grouping of children or a leaf
// condition. The zero Node is an empty AND grouping, which matches
// everything.
type Node struct {
	group     GroupType
	children  []Node
	condition *Condition
}

// And groups children conjunctively.
func And(children ...Node) Node {
	return Node{group: GroupAnd, children: children}
}

// Or groups children disjunctively.
func Or(children ...Node) Node {
	return Node{group: GroupOr, children: children}
}

// Not negates a single child subtree.
func Not(child Node) Node {
	return Node{group: GroupNot, children: []Node{child}}
}

// Leaf wraps a condition into a tree node.
func Leaf(c Condition) Node {
	return Node{condition: &c}
}

// IsLeaf reports whether the node is a leaf condition.
func (n Node) IsLeaf() bool { return n.condition != nil }

// Children returns the grouped child nodes.
func (n Node) Children() []Node { return n.children }

// Append adds children to a grouping node.
func (n *Node) Append(children ...Node) {
	n.children = append(n.children, children...)
}

// Matches evaluates the tree against a document. Evaluation is
// short-circuiting; order within a grouping does not affect the outcome.
func (n Node) Matches(doc Document) bool {
	if n.condition != nil {
		return n.condition.Matches(doc)
	}

	switch n.group {
	case GroupOr:
		for _, c := range n.children {
			if c.Matches(doc) {
				return true
			}
		}
		return false
	case GroupNot:
		for _, c := range n.children {
			if c.Matches(doc) {
				return false
			}
		}
		return true
	default: // AND, including the zero node
		for _, c := range n.children {
			if !c.Matches(doc) {
				return false
			}
		}
		return true
	}
}

// Predicate compiles the tree into a filter function over documents.
func (n Node) Predicate() func(Document) bool {
	return n.Matches
}

// wireCondition is the JSON leaf shape shared with external engines.
type wireCondition struct {
	Operation Operator `json:"operation"`
	Property  string   `json:"property"`
	Type      Kind     `json:"type"`
	Value     any      `json:"value"`
}

type wireLeaf struct {
	Condition wireCondition `json:"condition"`
}

type wireGroup struct {
	Type     GroupType `json:"type"`
	Children []Node    `json:"children"`
}

// MarshalJSON encodes the node in the external engine's wire shape:
// groupings as {"type":"AND","children":[...]}, leaves as
// {"condition":{"operation","property","type","value"}}.
func (n Node) MarshalJSON() ([]byte, error) {
	if n.condition != nil {
		c := n.condition
		var value any
		switch c.kind {
		case KindNumber:
			value = c.num
		case KindBoolean:
			value = c.boolean
		default:
			value = c.str
		}
		return json.Marshal(wireLeaf{Condition: wireCondition{
			Operation: c.op,
			Property:  c.property,
			Type:      c.kind,
			Value:     value,
		}})
	}
	group := n.group
	if group == "" {
		group = GroupAnd
	}
	children := n.children
	if children == nil {
		children = []Node{}
	}
	return json.Marshal(wireGroup{Type: group, Children: children})
}

// UnmarshalJSON decodes the wire shape produced by MarshalJSON.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w struct {
		Type      GroupType      `json:"type"`
		Children  []Node         `json:"children"`
		Condition *wireCondition `json:"condition"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("decode filter node: %w", err)
	}

	if w.Condition != nil {
		c, err := conditionFromWire(*w.Condition)
		if err != nil {
			return err
		}
		*n = Leaf(c)
		return nil
	}

	switch w.Type {
	case GroupAnd, GroupOr, GroupNot:
	default:
		return fmt.Errorf("decode filter node: unknown grouping %q", w.Type)
	}
	*n = Node{group: w.Type, children: w.Children}
	return nil
}

func conditionFromWire(w wireCondition) (Condition, error) {
	switch w.Type {
	case KindString:
		s, ok := w.Value.(string)
		if !ok {
			return Condition{}, fmt.Errorf("filter condition %q: string value expected", w.Property)
		}
		return Condition{property: w.Property, op: w.Operation, kind: w.Type, str: s}, nil
	case KindArray:
		s, ok := w.Value.(string)
		if !ok {
			return Condition{}, fmt.Errorf("filter condition %q: array element value expected", w.Property)
		}
		return Condition{property: w.Property, op: w.Operation, kind: w.Type, str: s}, nil
	case KindNumber:
		f, ok := w.Value.(float64)
		if !ok {
			return Condition{}, fmt.Errorf("filter condition %q: number value expected", w.Property)
		}
		return Condition{property: w.Property, op: w.Operation, kind: w.Type, num: f}, nil
	case KindBoolean:
		b, ok := w.Value.(bool)
		if !ok {
			return Condition{}, fmt.Errorf("filter condition %q: boolean value expected", w.Property)
		}
		return Condition{property: w.Property, op: w.Operation, kind: w.Type, boolean: b}, nil
	}
	return Condition{}, fmt.Errorf("filter condition %q: unknown value type %q", w.Property, w.Type)
}
