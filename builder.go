package kdl

import (
	"slices"
)

// NodeBuilder assembles a Node and checks it before handing it out.
//
//	n, err := kdl.NewNode("server").
//		Type("http").
//		Args(kdl.String("localhost")).
//		Prop("port", kdl.Int(8080)).
//		Children(child).
//		Build()
type NodeBuilder struct {
	node *Node
}

// NewNode starts a node named name.
func NewNode(name string) *NodeBuilder {
	return &NodeBuilder{node: &Node{Name: name}}
}

// Type sets the node's type annotation.
func (b *NodeBuilder) Type(t string) *NodeBuilder {
	b.node.Type = t
	return b
}

// Args appends positional arguments.
func (b *NodeBuilder) Args(vs ...Value) *NodeBuilder {
	b.node.Args = append(b.node.Args, vs...)
	return b
}

// Prop sets a property. Setting the same key twice keeps the last value.
func (b *NodeBuilder) Prop(key string, v Value) *NodeBuilder {
	b.node.Props.Set(key, v)
	return b
}

// Children appends child nodes, creating the children block.
func (b *NodeBuilder) Children(nodes ...*Node) *NodeBuilder {
	b.node.AddChild(nodes...)
	return b
}

// EmptyChildren gives the node a children block even if no children are
// added.
func (b *NodeBuilder) EmptyChildren() *NodeBuilder {
	b.node.AddChild()
	return b
}

// Build validates and returns the node. The builder must not be reused.
func (b *NodeBuilder) Build() (*Node, error) {
	n := b.node
	if err := validateNodes([]*Node{n}, map[*Node]bool{}); err != nil {
		return nil, err
	}
	return n, nil
}

// NodeParams describes a node for BuildNode.
type NodeParams struct {
	Type  string
	Name  string
	Args  []Value
	Props Properties
	// Children are appended after Args and Props. HasChildren requests a
	// children block even when Children is empty.
	Children    []*Node
	HasChildren bool
}

// BuildNode builds a node from p. Slices in p are copied.
func BuildNode(p NodeParams) (*Node, error) {
	n := &Node{
		Type: p.Type,
		Name: p.Name,
		Args: slices.Clone(p.Args),
	}
	for _, prop := range p.Props {
		n.Props.Set(prop.Key, prop.Value)
	}
	if p.HasChildren || len(p.Children) > 0 {
		n.AddChild(p.Children...)
	}
	if err := validateNodes([]*Node{n}, map[*Node]bool{}); err != nil {
		return nil, err
	}
	return n, nil
}
