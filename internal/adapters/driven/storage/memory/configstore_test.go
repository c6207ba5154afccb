package memory

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigStore_SetThenGet(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.provider", "ollama"))

	v, ok := store.Get("llm.provider")
	assert.True(t, ok)
	assert.Equal(t, "ollama", v)
}

func TestConfigStore_SetOverwrites(t *testing.T) {
	store := NewConfigStore()

	require.NoError(t, store.Set("llm.model", "llama3.2"))
	require.NoError(t, store.Set("llm.model", "gpt-4o-mini"))

	assert.Equal(t, "gpt-4o-mini", store.GetString("llm.model"))
}

func TestConfigStore_Get_MissingKey(t *testing.T) {
	store := NewConfigStore()

	v, ok := store.Get("plan.daily_budget_eur")
	assert.False(t, ok)
	assert.Nil(t, v)
}

func TestConfigStore_TypedGetters(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("embedding.provider", "openai"))
	require.NoError(t, store.Set("plan.retrieval_k", 5))
	require.NoError(t, store.Set("plan.max_iterations", int64(3)))
	require.NoError(t, store.Set("plan.daily_budget_eur", 50.0))
	require.NoError(t, store.Set("plan.max_walking_km", float32(7.5)))
	require.NoError(t, store.Set("verbose", true))

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"string", store.GetString("embedding.provider"), "openai"},
		{"int", store.GetInt("plan.retrieval_k"), 5},
		{"int from int64", store.GetInt("plan.max_iterations"), 3},
		{"int truncates float", store.GetInt("plan.daily_budget_eur"), 50},
		{"float", store.GetFloat("plan.daily_budget_eur"), 50.0},
		{"float from float32", store.GetFloat("plan.max_walking_km"), 7.5},
		{"float from int", store.GetFloat("plan.retrieval_k"), 5.0},
		{"bool", store.GetBool("verbose"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualValues(t, tt.want, tt.got)
		})
	}
}

func TestConfigStore_TypedGetters_ZeroOnMissingOrMismatch(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("llm.provider", "anthropic"))
	require.NoError(t, store.Set("plan.retrieval_k", 5))

	assert.Empty(t, store.GetString("llm.api_key"))
	assert.Empty(t, store.GetString("plan.retrieval_k"))
	assert.Zero(t, store.GetInt("llm.provider"))
	assert.Zero(t, store.GetFloat("llm.provider"))
	assert.False(t, store.GetBool("llm.provider"))
	assert.False(t, store.GetBool("plan.retrieval_k"))
}

func TestConfigStore_GetStringSlice(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("typed", []string{"attraction", "food"}))
	require.NoError(t, store.Set("decoded", []any{"tip", 7, "itinerary"}))
	require.NoError(t, store.Set("scalar", "attraction"))

	assert.Equal(t, []string{"attraction", "food"}, store.GetStringSlice("typed"))
	// Non-string elements are dropped, not stringified.
	assert.Equal(t, []string{"tip", "itinerary"}, store.GetStringSlice("decoded"))
	assert.Nil(t, store.GetStringSlice("scalar"))
	assert.Nil(t, store.GetStringSlice("absent"))
}

func TestConfigStore_SaveAndLoadAreNoOps(t *testing.T) {
	store := NewConfigStore()
	require.NoError(t, store.Set("plan.retrieval_k", 5))

	require.NoError(t, store.Save())
	require.NoError(t, store.Load())

	// Load must not wipe what was set.
	assert.Equal(t, 5, store.GetInt("plan.retrieval_k"))
}

func TestConfigStore_Path(t *testing.T) {
	assert.Equal(t, ":memory:", NewConfigStore().Path())
}

func TestConfigStore_InstancesAreIndependent(t *testing.T) {
	a := NewConfigStore()
	b := NewConfigStore()

	require.NoError(t, a.Set("llm.provider", "ollama"))

	_, ok := b.Get("llm.provider")
	assert.False(t, ok)
}

func TestConfigStore_ConcurrentReadersAndWriters(t *testing.T) {
	store := NewConfigStore()
	for i := 0; i < 8; i++ {
		require.NoError(t, store.Set(fmt.Sprintf("key.%d", i), i))
	}

	var wg sync.WaitGroup
	for w := 0; w < 16; w++ {
		wg.Add(2)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = store.Set(fmt.Sprintf("key.%d", i%8), w*100+i)
			}
		}(w)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = store.GetInt(fmt.Sprintf("key.%d", i%8))
				_, _ = store.Get(fmt.Sprintf("key.%d", i%8))
			}
		}()
	}
	wg.Wait()

	for i := 0; i < 8; i++ {
		_, ok := store.Get(fmt.Sprintf("key.%d", i))
		assert.True(t, ok)
	}
}
