package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLnsUseWarmStartOnlyGlobalAndWorkerScoped(t *testing.T) {
	t.Run("global flag", func(t *testing.T) {
		res, err := ParseCLI([]string{"--lnsUseWarmStartOnly", "true"}, ParseOptions{})
		require.NoError(t, err)
		require.NotNil(t, res.Parameters.LnsUseWarmStartOnly)
		assert.True(t, *res.Parameters.LnsUseWarmStartOnly)
	})

	t.Run("worker-scoped flag", func(t *testing.T) {
		res, err := ParseCLI([]string{"--worker1.lnsUseWarmStartOnly=false"}, ParseOptions{})
		require.NoError(t, err)
		require.Len(t, res.Parameters.Workers, 2)
		require.NotNil(t, res.Parameters.Workers[1].LnsUseWarmStartOnly)
		assert.False(t, *res.Parameters.Workers[1].LnsUseWarmStartOnly)
		assert.Nil(t, res.Parameters.Workers[0].LnsUseWarmStartOnly)
	})

	t.Run("rejects non-boolean token", func(t *testing.T) {
		_, err := ParseCLI([]string{"--lnsUseWarmStartOnly", "maybe"}, ParseOptions{})
		assert.Error(t, err)
	})
}

// TestScenarioS5WarmStartWithLnsUseWarmStartOnly exercises the exact CLI
// surface spec.md's S5 scenario names: lnsUseWarmStartOnly=true and a
// short time limit. The warm start itself is not a CLI option and is not
// part of this test.
func TestScenarioS5WarmStartWithLnsUseWarmStartOnly(t *testing.T) {
	res, err := ParseCLI([]string{"--lnsUseWarmStartOnly=true", "--timeLimit", "0.1"}, ParseOptions{})
	require.NoError(t, err)

	require.NotNil(t, res.Parameters.LnsUseWarmStartOnly)
	assert.True(t, *res.Parameters.LnsUseWarmStartOnly)
	require.NotNil(t, res.Parameters.TimeLimit)
	assert.Equal(t, Number(0.1), *res.Parameters.TimeLimit)
}

func TestCatalogListsLnsUseWarmStartOnly(t *testing.T) {
	found := false
	for _, name := range Catalog() {
		if name == "lnsUseWarmStartOnly" {
			found = true
		}
	}
	assert.True(t, found, "Catalog() should list lnsUseWarmStartOnly")
}
