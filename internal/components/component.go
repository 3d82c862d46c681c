// Package components implements the cascading component registry, its lazy
// accessor and the style/script side output collected while rendering.
package components

import "strings"

// RenderFunc renders a component with the given properties.
type RenderFunc func(props map[string]any) (string, error)

// Component is a named renderable unit. CSS and JS hold generated text that is
// emitted once per build when the component is first accessed.
type Component struct {
	Name   string
	Render RenderFunc
	CSS    string
	JS     string
}

// Node is a registry value: either a *Component or a nested Registry.
type Node interface {
	isNode()
}

func (*Component) isNode() {}
func (Registry) isNode()   {}

// Registry maps lowercase names to components or nested registries.
// Registries are treated as immutable once built.
type Registry map[string]Node

// Merge combines registries left to right. Later registries win per key,
// except that two nested registries at the same key merge recursively with the
// later one winning at every level. Inputs are never mutated.
func Merge(registries ...Registry) Registry {
	out := Registry{}
	for _, r := range registries {
		out = mergePair(out, r)
	}
	return out
}

func mergePair(prev, next Registry) Registry {
	out := make(Registry, len(prev)+len(next))
	for k, v := range prev {
		out[k] = v
	}
	for k, v := range next {
		k = strings.ToLower(k)
		nested, ok := v.(Registry)
		if !ok {
			out[k] = v
			continue
		}
		if existing, ok := out[k].(Registry); ok {
			out[k] = mergePair(existing, nested)
		} else {
			out[k] = mergePair(nil, nested)
		}
	}
	return out
}

// Len reports the number of leaf components in r, counting nested registries.
func (r Registry) Len() int {
	n := 0
	for _, v := range r {
		switch node := v.(type) {
		case *Component:
			n++
		case Registry:
			n += node.Len()
		}
	}
	return n
}
