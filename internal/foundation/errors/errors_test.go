package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "config.yaml").
			Build()

		require.Equal(t, CategoryConfig, err.Category())
		require.Equal(t, SeverityFatal, err.Severity())
		require.Equal(t, "invalid configuration", err.Message())

		file, exists := err.Context().Get("file")
		require.True(t, exists)
		require.Equal(t, "config.yaml", file)
	})

	t.Run("Error detection through wrapping", func(t *testing.T) {
		err := fmt.Errorf("outer: %w", ConfigError("test error").Build())

		_, ok := AsClassified(err)
		require.True(t, ok)
		require.True(t, HasCategory(err, CategoryConfig))
		require.Equal(t, CategoryConfig, GetCategory(err))
		require.Equal(t, CategoryInternal, GetCategory(stderrors.New("plain")))
	})
}

func TestErrorBuilder_CauseChain(t *testing.T) {
	sentinel := stderrors.New("sentinel")
	err := WrapError(sentinel, CategoryData, "load failed").
		Fatal().
		Build()

	require.True(t, stderrors.Is(err, sentinel))
	require.Equal(t, CategoryData, err.Category())
	require.True(t, err.IsFatal())
	require.Contains(t, err.Error(), "sentinel")
}

func TestClassifiedError_WithContextDoesNotMutate(t *testing.T) {
	base := NewError(CategoryComponent, "missing").WithContext("a", 1).Build()
	derived := base.WithContext("b", 2)

	_, hasB := base.Context().Get("b")
	require.False(t, hasB)
	v, ok := derived.Context().Get("a")
	require.True(t, ok)
	require.Equal(t, 1, v)
}

func TestErrorBuilder_BuildSnapshots(t *testing.T) {
	b := NewError(CategoryGit, "lookup failed")
	first := b.Build()
	second := b.WithContext("path", "/a.md").Build()

	_, ok := first.Context().Get("path")
	require.False(t, ok)
	_, ok = second.Context().Get("path")
	require.True(t, ok)
	require.True(t, stderrors.Is(second, first))
}

func TestCLIErrorAdapter(t *testing.T) {
	a := NewCLIErrorAdapter(false, nil)

	require.Equal(t, 0, a.ExitCodeFor(nil))
	require.Equal(t, 1, a.ExitCodeFor(stderrors.New("x")))
	require.Equal(t, 7, a.ExitCodeFor(ConfigError("bad").Build()))
	require.Equal(t, 11, a.ExitCodeFor(NewError(CategoryComponent, "missing").Build()))

	msg := a.FormatError(NewError(CategoryBuild, "invalid url").
		WithContext("value", "x").
		WithContext("page", "/a.md").
		Build())
	require.Equal(t, "Error: invalid url page=/a.md value=x", msg)
}
