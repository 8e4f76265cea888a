// Package jsast holds the syntax tree model ubd analyzes: a parent-linked
// mirror of the tree-sitter CST with byte ranges and line/column points.
// The mirror is built once per file by internal/parser; nothing mutates it
// afterwards.
package jsast

// Point is a zero-based row/column position in the source.
type Point struct {
	Row    int `json:"row"`
	Column int `json:"column"`
}

// Node is one syntax tree element. Range holds the start byte (inclusive)
// and end byte (exclusive) of the node's span. Parent is nil only for the
// program root.
type Node struct {
	Type      string
	FieldName string // grammar field name under Parent, "" if none
	Range     [2]int
	Start     Point
	End       Point
	Parent    *Node
	Children  []*Node
	Named     bool
}

// ChildByField returns the first child carrying the given grammar field
// name, or nil.
func (n *Node) ChildByField(name string) *Node {
	if n == nil {
		return nil
	}
	for _, c := range n.Children {
		if c.FieldName == name {
			return c
		}
	}
	return nil
}

// NamedChildren returns the named (non-token) children in order.
func (n *Node) NamedChildren() []*Node {
	if n == nil {
		return nil
	}
	out := make([]*Node, 0, len(n.Children))
	for _, c := range n.Children {
		if c.Named {
			out = append(out, c)
		}
	}
	return out
}

// InRange reports whether location falls inside the node's byte span,
// inclusive at both ends. A nil node contains nothing.
func InRange(n *Node, location int) bool {
	return n != nil && n.Range[0] <= location && location <= n.Range[1]
}

// Tree couples a root node with the source it was parsed from.
type Tree struct {
	Path   string
	Source []byte
	Root   *Node
}

// Text returns the source text covered by the node.
func (t *Tree) Text(n *Node) string {
	if n == nil {
		return ""
	}
	start, end := n.Range[0], n.Range[1]
	if start < 0 || end > len(t.Source) || start > end {
		return ""
	}
	return string(t.Source[start:end])
}
