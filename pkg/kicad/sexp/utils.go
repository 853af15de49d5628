// Package sexp provides navigation helpers over KiCad S-expressions.
// Export files are trees of (key value...) lists; these helpers find
// children by key and pull typed values out of them.
package sexp

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceVerilog/pkg/kicad/sexp/kicadsexp"
)

// SexpToSlice returns the members of a list, or nil for atoms.
func SexpToSlice(s kicadsexp.Sexp) []kicadsexp.Sexp {
	if s == nil || s.IsLeaf() {
		return nil
	}
	if l, ok := s.(*kicadsexp.List); ok {
		return l.Elements()
	}

	var items []kicadsexp.Sexp
	for s != nil && !s.IsLeaf() && s.LeafCount() > 0 {
		items = append(items, s.Head())
		s = s.Tail()
	}
	return items
}

// GetNodeName returns the key of a list, e.g. "comp" for (comp (ref R1)).
func GetNodeName(s kicadsexp.Sexp) (string, error) {
	if s == nil {
		return "", fmt.Errorf("nil expression")
	}
	if s.IsLeaf() {
		return string(s.(kicadsexp.Symbol)), nil
	}

	if sym, ok := s.Head().(kicadsexp.Symbol); ok {
		return string(sym), nil
	}

	return "", fmt.Errorf("expected symbol at head of list")
}

// FindNode searches for a child list with the given key.
// Example: FindNode(comp, "ref") finds (ref "R1") in a (comp ...) list
func FindNode(s kicadsexp.Sexp, key string) (kicadsexp.Sexp, bool) {
	for _, item := range GetListItems(s) {
		if item.IsLeaf() {
			continue
		}
		if name, err := GetNodeName(item); err == nil && name == key {
			return item, true
		}
	}
	return nil, false
}

// FindAllNodes finds all child lists with the given key, in file order.
func FindAllNodes(s kicadsexp.Sexp, key string) []kicadsexp.Sexp {
	var results []kicadsexp.Sexp
	for _, item := range GetListItems(s) {
		if item.IsLeaf() {
			continue
		}
		if name, err := GetNodeName(item); err == nil && name == key {
			results = append(results, item)
		}
	}
	return results
}

// GetListItems returns all items in a list (excluding the first symbol/key)
// Example: GetListItems((pins (pin ...) (pin ...))) returns both pins
func GetListItems(s kicadsexp.Sexp) []kicadsexp.Sexp {
	items := SexpToSlice(s)
	if len(items) <= 1 {
		return nil
	}
	return items[1:]
}

// GetString extracts a string value at the given index in a list.
// Index 0 is the key, 1 is first value, etc.
func GetString(s kicadsexp.Sexp, index int) (string, error) {
	if s == nil || s.IsLeaf() {
		return "", fmt.Errorf("expected list, got leaf")
	}

	items := SexpToSlice(s)
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("index %d out of bounds (length %d)", index, len(items))
	}

	if sym, ok := items[index].(kicadsexp.Symbol); ok {
		return string(sym), nil
	}

	return "", fmt.Errorf("expected symbol at index %d, got %T", index, items[index])
}

// GetValue returns the first value of the child list named key, so
// GetValue(comp, "ref") yields "R1" for (comp (ref "R1")).
func GetValue(s kicadsexp.Sexp, key string) (string, bool) {
	node, found := FindNode(s, key)
	if !found {
		return "", false
	}
	val, err := GetString(node, 1)
	if err != nil {
		return "", false
	}
	return val, true
}

// Line returns the source line of a parsed list, or 0 if unknown.
func Line(s kicadsexp.Sexp) int {
	if l, ok := s.(*kicadsexp.List); ok {
		return l.Line()
	}
	return 0
}
