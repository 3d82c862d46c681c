package components

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func leaf(name, out string) *Component {
	return &Component{Name: name, Render: func(map[string]any) (string, error) { return out, nil }}
}

func TestMerge_LaterRegistryWins(t *testing.T) {
	parent := Registry{"button": leaf("button", "parent"), "card": leaf("card", "card")}
	child := Registry{"button": leaf("button", "child")}

	merged := Merge(parent, child)

	require.Len(t, merged, 2)
	require.Same(t, child["button"], merged["button"])
	require.Same(t, parent["card"], merged["card"])
}

func TestMerge_NestedRegistriesMergeRecursively(t *testing.T) {
	parentButton := leaf("button", "parent")
	parent := Registry{"ui": Registry{"button": parentButton, "card": leaf("card", "card")}}
	childButton := leaf("button", "child")
	child := Registry{"ui": Registry{"button": childButton, "badge": leaf("badge", "badge")}}

	merged := Merge(parent, child)

	ui, ok := merged["ui"].(Registry)
	require.True(t, ok)
	require.Len(t, ui, 3)
	require.Same(t, childButton, ui["button"])
	require.Contains(t, ui, "card")
	require.Contains(t, ui, "badge")

	// Inputs are untouched.
	require.Len(t, parent["ui"].(Registry), 2)
	require.Same(t, parentButton, parent["ui"].(Registry)["button"])
}

func TestMerge_LeafReplacesRegistryAndViceVersa(t *testing.T) {
	merged := Merge(Registry{"ui": Registry{"a": leaf("a", "")}}, Registry{"ui": leaf("ui", "")})
	_, isLeaf := merged["ui"].(*Component)
	require.True(t, isLeaf)

	merged = Merge(Registry{"ui": leaf("ui", "")}, Registry{"ui": Registry{"a": leaf("a", "")}})
	_, isGroup := merged["ui"].(Registry)
	require.True(t, isGroup)
}

func TestMerge_NormalizesNames(t *testing.T) {
	merged := Merge(Registry{"Button": leaf("button", ""), "UI": Registry{"Card": leaf("card", "")}})

	require.Contains(t, merged, "button")
	require.Contains(t, merged["ui"].(Registry), "card")
	require.Equal(t, 2, merged.Len())
}

func TestMerge_Empty(t *testing.T) {
	require.Empty(t, Merge())
	require.Empty(t, Merge(nil, Registry{}))
}
