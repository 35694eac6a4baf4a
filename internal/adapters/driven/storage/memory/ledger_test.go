package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/postcraft/internal/core/domain"
)

func TestKeywordLedger_AppendThenContains(t *testing.T) {
	ctx := context.Background()
	ledger := NewKeywordLedger()

	found, err := ledger.Contains(ctx, "AI")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, ledger.Append(ctx, "  AI "))

	for _, kw := range []string{"ai", "AI", " Ai "} {
		found, err = ledger.Contains(ctx, kw)
		require.NoError(t, err)
		assert.True(t, found, kw)
	}
}

func TestKeywordLedger_List_InsertionOrderWithDuplicates(t *testing.T) {
	ctx := context.Background()
	ledger := NewKeywordLedger("Go")

	require.NoError(t, ledger.Append(ctx, "Cloud"))
	require.NoError(t, ledger.Append(ctx, "go"))

	entries, err := ledger.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "cloud", "go"}, entries)
}

func TestKeywordLedger_Append_Empty(t *testing.T) {
	err := NewKeywordLedger().Append(context.Background(), "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestKeywordLedger_List_ReturnsCopy(t *testing.T) {
	ctx := context.Background()
	ledger := NewKeywordLedger("ai")

	entries, _ := ledger.List(ctx)
	entries[0] = "changed"

	again, _ := ledger.List(ctx)
	assert.Equal(t, []string{"ai"}, again)
}

func TestKeywordLedger_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	ledger := NewKeywordLedger()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = ledger.Append(ctx, "ai")
			_, _ = ledger.Contains(ctx, "ai")
		}()
	}
	wg.Wait()

	entries, _ := ledger.List(ctx)
	assert.Len(t, entries, 20)
}
