package step

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// maxID bounds the dense id space to what fits in a uint16 (§3).
const maxID = 1<<16 - 1

// BuildTree parses a newline-delimited steps file (§6) and constructs the
// step tree in a single pass. Each line is a "/"-separated sequence of
// "::"-qualified segments; a line's depth is its segment count, the module
// of its leaf segment is the prefix before the final "::", and the name is
// the suffix.
//
// The file must be sorted so that every node's children appear contiguously
// after it (§6); construction relies on this to find each new node's parent
// in O(1) by walking back from the most recently added node, yielding
// overall O(n) construction.
func BuildTree(r io.Reader) (*Tree, error) {
	root := &Descriptor{ID: 0, Depth: 0, Module: "root", Name: "root", Path: "root"}
	tree := &Tree{
		root:   root,
		byID:   make(map[uint16]*Descriptor),
		byPath: map[string]*Descriptor{"root": root},
	}

	scanner := bufio.NewScanner(r)
	lastNode := root
	var id uint16
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			return nil, fmt.Errorf("step: line %d is empty, empty lines are rejected", lineNo)
		}
		if id == maxID {
			return nil, fmt.Errorf("step: steps file exceeds the %d-node limit of a 16-bit id space", maxID)
		}
		id++

		segments := strings.Split(line, "/")
		depth := uint8(len(segments))

		pathParts := make([]string, 0, len(segments))
		var module, name string
		for i, seg := range segments {
			module, name = splitModuleAndName(seg)
			pathParts = append(pathParts, name)
			if i == len(segments)-1 {
				break
			}
		}
		path := strings.Join(pathParts, "/")

		// Walk back from lastNode to the new node's parent. The number of
		// parent-hops needed is (lastNode.Depth - depth) + 1: zero hops when
		// descending into a child of lastNode, one hop for a sibling, more
		// when the file has returned to a shallower branch. This assumes
		// the file is sorted so siblings are contiguous (§6).
		hops := int(lastNode.Depth) - int(depth) + 1
		parent := lastNode
		for i := 0; i < hops; i++ {
			if parent.parent == nil {
				return nil, fmt.Errorf("step: line %d (%q) walked past the root looking for its parent; is the file sorted?", lineNo, line)
			}
			parent = parent.parent
		}
		if parent.Depth != depth-1 {
			return nil, fmt.Errorf("step: line %d (%q) parent has depth %d, expected %d; is the file sorted?", lineNo, line, parent.Depth, depth-1)
		}

		node := &Descriptor{
			ID:     id,
			Depth:  depth,
			Module: module,
			Name:   name,
			Path:   path,
			parent: parent,
		}
		parent.children = append(parent.children, node)

		if _, exists := tree.byPath[node.Path]; exists {
			return nil, fmt.Errorf("step: duplicate path %q at line %d", node.Path, lineNo)
		}
		tree.byID[node.ID] = node
		tree.byPath[node.Path] = node
		lastNode = node
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("step: reading steps file: %w", err)
	}
	if len(tree.byID) == 0 {
		return nil, fmt.Errorf("step: steps file contains no lines")
	}
	return tree, nil
}

// splitModuleAndName splits a single "::"-qualified segment into its module
// prefix and step name suffix, e.g. "s::S::A" -> ("s::S", "A").
func splitModuleAndName(segment string) (module, name string) {
	idx := strings.LastIndex(segment, "::")
	if idx < 0 {
		return "", segment
	}
	return segment[:idx], segment[idx+2:]
}
