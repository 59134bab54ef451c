package wiring_test

import (
	"context"
	"testing"

	"github.com/grindlemire/graft"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sitepress/internal/app"
	_ "go.trai.ch/sitepress/internal/wiring"
)

// TestGraftDependencies resolves the whole node graph. graft.AssertDepsValid
// cannot be used since it infers dependency IDs from the package of Dep[T],
// and most nodes here provide interfaces from the shared ports package.
func TestGraftDependencies(t *testing.T) {
	components, _, err := graft.ExecuteFor[*app.Components](context.Background())
	require.NoError(t, err)
	require.NotNil(t, components.App)
	require.NotNil(t, components.Logger)
	require.NoError(t, components.App.Close())
}
