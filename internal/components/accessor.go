package components

import (
	"fmt"
	"html/template"
	"strings"

	berrors "git.home.luguber.info/inful/sitebuilder/internal/build/errors"
	"git.home.luguber.info/inful/sitebuilder/internal/foundation/errors"
)

// Resolution is the result of an accessor lookup: exactly one of Render and
// Group is set.
type Resolution struct {
	Render RenderFunc
	Group  *Accessor
}

// IsGroup reports whether the resolution is a nested accessor.
func (r Resolution) IsGroup() bool { return r.Group != nil }

// Accessor is a lazy, memoizing read view over a merged Registry. Resolving a
// leaf records its CSS and JS into the shared SideOutput. An Accessor belongs
// to one build and is not safe for concurrent use.
type Accessor struct {
	registry Registry
	out      *SideOutput
	prefix   string
	cache    map[string]Resolution
}

// NewAccessor returns an accessor over reg recording into out.
func NewAccessor(reg Registry, out *SideOutput) *Accessor {
	return newAccessor(reg, out, "")
}

func newAccessor(reg Registry, out *SideOutput, prefix string) *Accessor {
	return &Accessor{registry: reg, out: out, prefix: prefix, cache: map[string]Resolution{}}
}

// Registry returns the registry the accessor reads from.
func (a *Accessor) Registry() Registry { return a.registry }

// Resolve looks name up (case-insensitively) and returns a render function for
// a component or a nested accessor for a registry.
func (a *Accessor) Resolve(name string) (Resolution, error) {
	key := strings.ToLower(name)
	if res, ok := a.cache[key]; ok {
		return res, nil
	}

	qualified := key
	if a.prefix != "" {
		qualified = a.prefix + "." + key
	}

	var res Resolution
	switch node := a.registry[key].(type) {
	case Registry:
		res = Resolution{Group: newAccessor(node, a.out, qualified)}
	case *Component:
		if a.out != nil {
			a.out.record(qualified, node)
		}
		render := node.Render
		res = Resolution{Render: func(props map[string]any) (string, error) {
			if render == nil {
				return "", nil
			}
			return render(props)
		}}
	default:
		return Resolution{}, errors.WrapError(berrors.ErrComponentNotFound, errors.CategoryComponent,
			fmt.Sprintf("component %q not found", qualified)).
			Fatal().
			WithContext("component", qualified).
			Build()
	}

	a.cache[key] = res
	return res, nil
}

// Call resolves a dotted name such as "ui.button" and renders it with props.
func (a *Accessor) Call(name string, props map[string]any) (string, error) {
	parts := strings.Split(name, ".")
	cur := a
	for i, part := range parts {
		res, err := cur.Resolve(part)
		if err != nil {
			return "", err
		}
		if i < len(parts)-1 {
			if !res.IsGroup() {
				return "", errors.WrapError(berrors.ErrComponentNotFound, errors.CategoryComponent,
					fmt.Sprintf("component %q not found", name)).
					Fatal().
					WithContext("component", name).
					Build()
			}
			cur = res.Group
			continue
		}
		if res.IsGroup() {
			return "", errors.NewError(errors.CategoryComponent,
				fmt.Sprintf("%q is a component group, not a component", name)).
				Fatal().
				WithContext("component", name).
				Build()
		}
		return res.Render(props)
	}
	return "", nil
}

// FuncMap exposes the accessor to html/template as
// {{ comp "ui.button" "label" "Go" }}.
func (a *Accessor) FuncMap() template.FuncMap {
	return template.FuncMap{
		"comp": func(name string, kv ...any) (template.HTML, error) {
			props, err := pairs(kv)
			if err != nil {
				return "", err
			}
			out, err := a.Call(name, props)
			// #nosec G203 -- component output is trusted template output
			return template.HTML(out), err
		},
	}
}

func pairs(kv []any) (map[string]any, error) {
	if len(kv) == 1 {
		if m, ok := kv[0].(map[string]any); ok {
			return m, nil
		}
	}
	if len(kv)%2 != 0 {
		return nil, fmt.Errorf("component properties need key/value pairs, got %d values", len(kv))
	}
	props := make(map[string]any, len(kv)/2)
	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			return nil, fmt.Errorf("component property key %v is not a string", kv[i])
		}
		props[k] = kv[i+1]
	}
	return props, nil
}
