// Package tree defines the static troubleshooting decision tree.
package tree

import (
	"fmt"
	"strings"
)

// Node ids with engine-level meaning.
const (
	StartNodeID    = "start"
	ResolvedNodeID = "resolved"
	EscalateNodeID = "escalate"
)

// Option is a selectable choice on a node. Next is resolved server-side
// and never serialized to clients.
type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Next  string `json:"-"`
}

// Node is a single step in the decision tree.
type Node struct {
	ID            string   `json:"-"`
	Text          string   `json:"text"`
	Options       []Option `json:"options"`
	AllowFreeform bool     `json:"allowFreeform,omitempty"`
}

// Terminal reports whether the node has no outgoing options.
func (n *Node) Terminal() bool {
	return len(n.Options) == 0
}

// Option returns the option with the given id, if present on the node.
func (n *Node) Option(id string) (Option, bool) {
	for _, opt := range n.Options {
		if opt.ID == id {
			return opt, true
		}
	}
	return Option{}, false
}

// Tree is an immutable mapping of node ids to node definitions.
type Tree struct {
	nodes map[string]*Node
}

// New builds a Tree from node definitions and validates it. Validation
// failures are configuration bugs, so callers typically treat an error
// here as fatal at startup.
func New(nodes []*Node) (*Tree, error) {
	byID := make(map[string]*Node, len(nodes))
	for _, n := range nodes {
		if n.ID == "" {
			return nil, fmt.Errorf("node with empty id")
		}
		if _, dup := byID[n.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %q", n.ID)
		}
		byID[n.ID] = n
	}

	t := &Tree{nodes: byID}
	if err := t.validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Lookup resolves a node id to its definition. Unknown ids resolve to the
// start node. This is a deliberate default-resolution rule, not an
// accident: a session pointing at a retired node id restarts the walk
// instead of breaking the session.
func (t *Tree) Lookup(nodeID string) *Node {
	if n, ok := t.nodes[nodeID]; ok {
		return n
	}
	return t.nodes[StartNodeID]
}

// validate checks structural integrity: the start node exists, option ids
// are unique within each node, every next reference resolves, and every
// option path out of start can reach a terminal outcome.
func (t *Tree) validate() error {
	if _, ok := t.nodes[StartNodeID]; !ok {
		return fmt.Errorf("missing %q node", StartNodeID)
	}

	var problems []string
	for id, n := range t.nodes {
		seen := make(map[string]bool, len(n.Options))
		for _, opt := range n.Options {
			if seen[opt.ID] {
				problems = append(problems, fmt.Sprintf("node %q: duplicate option id %q", id, opt.ID))
			}
			seen[opt.ID] = true
			if _, ok := t.nodes[opt.Next]; !ok {
				problems = append(problems, fmt.Sprintf("node %q: option %q references unknown node %q", id, opt.ID, opt.Next))
			}
		}
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid tree:\n- %s", strings.Join(problems, "\n- "))
	}

	// Crawl from start; every reachable non-terminal node must reach
	// resolved or escalate along some option path, and no reachable node
	// may dead-end anywhere else.
	visited := make(map[string]bool)
	queue := []string{StartNodeID}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		if visited[id] {
			continue
		}
		visited[id] = true

		n := t.nodes[id]
		if n.Terminal() && id != ResolvedNodeID && id != EscalateNodeID {
			problems = append(problems, fmt.Sprintf("node %q is a dead end", id))
			continue
		}
		for _, opt := range n.Options {
			if !visited[opt.Next] {
				queue = append(queue, opt.Next)
			}
		}
	}
	if !visited[ResolvedNodeID] {
		problems = append(problems, fmt.Sprintf("%q is unreachable from %q", ResolvedNodeID, StartNodeID))
	}
	if !visited[EscalateNodeID] {
		problems = append(problems, fmt.Sprintf("%q is unreachable from %q", EscalateNodeID, StartNodeID))
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid tree:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
