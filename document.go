package kdl

import (
	"fmt"

	kdlerrors "github.com/KimNorgaard/go-kdl/errors"
	"github.com/KimNorgaard/go-kdl/internal/number"
)

// Document is an ordered sequence of top-level nodes.
type Document struct {
	Nodes []*Node
}

// NewDocument returns a document holding nodes.
func NewDocument(nodes ...*Node) *Document {
	return &Document{Nodes: nodes}
}

// Len returns the number of top-level nodes.
func (d *Document) Len() int { return len(d.Nodes) }

// At returns the i'th top-level node.
func (d *Document) At(i int) *Node { return d.Nodes[i] }

// Append adds nodes to the end of the document.
func (d *Document) Append(nodes ...*Node) {
	d.Nodes = append(d.Nodes, nodes...)
}

// Equal reports whether d and o are structurally identical.
func (d *Document) Equal(o *Document) bool {
	if d == nil || o == nil {
		return d == o
	}
	return nodesEqual(d.Nodes, o.Nodes)
}

// String returns the document emitted with DefaultEmitterOptions.
func (d *Document) String() string {
	return Emit(d, DefaultEmitterOptions())
}

// Walk calls fn for every node in depth-first pre-order. Returning false
// from fn skips the node's children.
func (d *Document) Walk(fn func(n *Node, depth int) bool) {
	walk(d.Nodes, 0, fn)
}

func walk(nodes []*Node, depth int, fn func(*Node, int) bool) {
	for _, n := range nodes {
		if fn(n, depth) {
			walk(n.Children, depth+1, fn)
		}
	}
}

// Validate checks the invariants the parser guarantees: non-empty names
// and property keys, no nil or shared nodes, and annotated numbers within
// range.
func (d *Document) Validate() error {
	return validateNodes(d.Nodes, map[*Node]bool{})
}

// Property is a single key=value pair.
type Property struct {
	Key   string
	Value Value
}

// Properties is an ordered set of properties with unique keys.
type Properties []Property

// Get returns the value stored under key.
func (p Properties) Get(key string) (Value, bool) {
	for _, prop := range p {
		if prop.Key == key {
			return prop.Value, true
		}
	}
	return Value{}, false
}

// Set stores v under key. An existing key keeps its position and takes
// the new value.
func (p *Properties) Set(key string, v Value) {
	for i := range *p {
		if (*p)[i].Key == key {
			(*p)[i].Value = v
			return
		}
	}
	*p = append(*p, Property{Key: key, Value: v})
}

// Delete removes key and reports whether it was present.
func (p *Properties) Delete(key string) bool {
	for i := range *p {
		if (*p)[i].Key == key {
			*p = append((*p)[:i], (*p)[i+1:]...)
			return true
		}
	}
	return false
}

// Len returns the number of properties.
func (p Properties) Len() int { return len(p) }

// Keys returns the keys in stored order.
func (p Properties) Keys() []string {
	keys := make([]string, len(p))
	for i, prop := range p {
		keys[i] = prop.Key
	}
	return keys
}

// Equal compares p and o as mappings; order is ignored.
func (p Properties) Equal(o Properties) bool {
	if len(p) != len(o) {
		return false
	}
	for _, prop := range p {
		v, ok := o.Get(prop.Key)
		if !ok || !v.Equal(prop.Value) {
			return false
		}
	}
	return true
}

// Node is a single KDL node.
//
// A nil Children slice means the node has no children block; a non-nil
// empty slice means an explicit empty block, emitted as braces.
type Node struct {
	Type     string
	Name     string
	Args     []Value
	Props    Properties
	Children []*Node
}

// HasChildren reports whether n has a children block, possibly empty.
func (n *Node) HasChildren() bool { return n.Children != nil }

// Len returns the number of children.
func (n *Node) Len() int { return len(n.Children) }

// Child returns the i'th child.
func (n *Node) Child(i int) *Node { return n.Children[i] }

// AddChild appends children, creating the children block if needed.
func (n *Node) AddChild(children ...*Node) {
	if n.Children == nil {
		n.Children = make([]*Node, 0, len(children))
	}
	n.Children = append(n.Children, children...)
}

// Arg returns the i'th argument.
func (n *Node) Arg(i int) (Value, bool) {
	if i < 0 || i >= len(n.Args) {
		return Value{}, false
	}
	return n.Args[i], true
}

// Prop returns the value of property key.
func (n *Node) Prop(key string) (Value, bool) {
	return n.Props.Get(key)
}

// Equal reports whether n and o are structurally identical, including
// their descendants.
func (n *Node) Equal(o *Node) bool {
	if n == nil || o == nil {
		return n == o
	}
	if n.Type != o.Type || n.Name != o.Name || len(n.Args) != len(o.Args) {
		return false
	}
	for i := range n.Args {
		if !n.Args[i].Equal(o.Args[i]) {
			return false
		}
	}
	if !n.Props.Equal(o.Props) || n.HasChildren() != o.HasChildren() {
		return false
	}
	return nodesEqual(n.Children, o.Children)
}

// String returns the node emitted with DefaultEmitterOptions.
func (n *Node) String() string {
	return Emit(&Document{Nodes: []*Node{n}}, DefaultEmitterOptions())
}

func nodesEqual(a, b []*Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func validateNodes(nodes []*Node, seen map[*Node]bool) error {
	for i, n := range nodes {
		if n == nil {
			return &kdlerrors.BuildError{Reason: fmt.Sprintf("nil node at index %d", i)}
		}
		if seen[n] {
			return &kdlerrors.BuildError{Node: n.Name, Reason: "node appears more than once in the tree"}
		}
		seen[n] = true
		if err := validateNode(n); err != nil {
			return err
		}
		if err := validateNodes(n.Children, seen); err != nil {
			return err
		}
	}
	return nil
}

func validateNode(n *Node) error {
	if n.Name == "" {
		return &kdlerrors.BuildError{Reason: "empty node name"}
	}
	for i, v := range n.Args {
		if err := validateValue(v); err != nil {
			return &kdlerrors.BuildError{Node: n.Name, Reason: fmt.Sprintf("argument %d: %v", i, err)}
		}
	}
	keys := make(map[string]bool, len(n.Props))
	for _, prop := range n.Props {
		if prop.Key == "" {
			return &kdlerrors.BuildError{Node: n.Name, Reason: "empty property key"}
		}
		if keys[prop.Key] {
			return &kdlerrors.BuildError{Node: n.Name, Reason: fmt.Sprintf("duplicate property %q", prop.Key)}
		}
		keys[prop.Key] = true
		if err := validateValue(prop.Value); err != nil {
			return &kdlerrors.BuildError{Node: n.Name, Reason: fmt.Sprintf("property %q: %v", prop.Key, err)}
		}
	}
	return nil
}

func validateValue(v Value) error {
	if n, ok := v.number(); ok && v.typ != "" {
		return number.CheckRange(v.typ, n)
	}
	return nil
}
