package cart

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hwStore/entities"
)

func TestAddItem_NewEntryStartsAtOne(t *testing.T) {
	s := NewStore()
	s.AddItem(1, "Product 1", 300)

	state := s.GetState()
	require.Contains(t, state, 1)
	assert.Equal(t, entities.CartItem{Name: "Product 1", Price: 300, Count: 1}, state[1])
}

func TestAddItem_CountEqualsNumberOfCalls(t *testing.T) {
	s := NewStore()
	for i := 0; i < 7; i++ {
		s.AddItem(3, "Product 3", 1000)
	}
	assert.Equal(t, 7, s.GetState()[3].Count)

	s.Clear()
	s.AddItem(3, "Product 3", 1000)
	assert.Equal(t, 1, s.GetState()[3].Count)
}

func TestAddItem_SeededEntryIncrements(t *testing.T) {
	s := NewStore()
	s.SetState(entities.CartState{1: {Name: "Product 1", Price: 300, Count: 1}})
	s.AddItem(1, "Product 1", 300)
	assert.Equal(t, 2, s.GetState()[1].Count)
}

func TestRemoveItem(t *testing.T) {
	s := NewStore()
	s.SetState(entities.CartState{1: {Name: "a", Price: 1, Count: 2}})

	s.RemoveItem(1)
	assert.Equal(t, 1, s.GetState()[1].Count)

	s.RemoveItem(1)
	assert.NotContains(t, s.GetState(), 1, "entry must be deleted instead of kept at zero")

	s.RemoveItem(42)
	assert.Empty(t, s.GetState())
}

func TestDeleteItem(t *testing.T) {
	s := NewStore()
	s.SetState(entities.CartState{1: {Name: "a", Price: 1, Count: 5}, 2: {Name: "b", Price: 2, Count: 1}})
	s.DeleteItem(1)
	state := s.GetState()
	assert.NotContains(t, state, 1)
	assert.Contains(t, state, 2)
}

func TestClear(t *testing.T) {
	s := NewStore()
	s.SetState(entities.CartState{0: {Name: "a", Price: 500, Count: 3}, 1: {Name: "b", Price: 300, Count: 4}})
	s.Clear()
	assert.Empty(t, s.GetState())
}

func TestSetState_DropsNonPositiveCounts(t *testing.T) {
	s := NewStore()
	s.SetState(entities.CartState{1: {Name: "a", Count: 0}, 2: {Name: "b", Count: 1}})
	state := s.GetState()
	assert.Len(t, state, 1)
	assert.Contains(t, state, 2)
}

func TestGetState_ReturnsSnapshot(t *testing.T) {
	s := NewStore()
	s.AddItem(1, "a", 1)
	state := s.GetState()
	state[2] = entities.CartItem{Name: "b", Count: 1}
	delete(state, 1)

	assert.Contains(t, s.GetState(), 1)
	assert.NotContains(t, s.GetState(), 2)
}

func TestSubscribe_OneNotificationPerMutation(t *testing.T) {
	s := NewStore()
	var got []entities.CartState
	unsubscribe := s.Subscribe(func(state entities.CartState) {
		got = append(got, state)
	})

	s.AddItem(1, "a", 1)
	s.AddItem(1, "a", 1)
	s.RemoveItem(1)
	s.RemoveItem(99) // no-op
	s.Clear()
	require.Len(t, got, 4)
	assert.Equal(t, 1, got[0][1].Count)
	assert.Equal(t, 2, got[1][1].Count)
	assert.Equal(t, 1, got[2][1].Count)
	assert.Empty(t, got[3])

	unsubscribe()
	unsubscribe()
	s.AddItem(2, "b", 2)
	assert.Len(t, got, 4)
}

func TestSubscribe_ConcurrentAdds(t *testing.T) {
	s := NewStore()
	var mu sync.Mutex
	notifications := 0
	s.Subscribe(func(entities.CartState) {
		mu.Lock()
		notifications++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.AddItem(1, "a", 1)
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, s.GetState()[1].Count)
	assert.Equal(t, 50, notifications)
}

type memoryStorage struct {
	state   entities.CartState
	saves   int
	loadErr error
	saveErr error
}

func (m *memoryStorage) Load(context.Context) (entities.CartState, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.state.Clone(), nil
}

func (m *memoryStorage) Save(_ context.Context, state entities.CartState) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.state = state
	return nil
}

func TestRestoreAndPersist(t *testing.T) {
	ctx := context.Background()
	storage := &memoryStorage{state: entities.CartState{1: {Name: "Product 1", Price: 300, Count: 1}}}

	s := NewStore()
	require.NoError(t, Restore(ctx, s, storage))
	assert.Equal(t, 1, s.GetState()[1].Count)

	stop := Persist(ctx, s, storage)
	s.AddItem(1, "Product 1", 300)
	assert.Equal(t, 2, storage.state[1].Count)

	stop()
	s.Clear()
	assert.Equal(t, 2, storage.state[1].Count)
	assert.Equal(t, 1, storage.saves)
}

func TestRestore_LoadError(t *testing.T) {
	s := NewStore()
	err := Restore(context.Background(), s, &memoryStorage{loadErr: errors.New("boom")})
	assert.Error(t, err)
	assert.Empty(t, s.GetState())
}

func TestPersist_SaveErrorKeepsCart(t *testing.T) {
	s := NewStore()
	Persist(context.Background(), s, &memoryStorage{saveErr: errors.New("down")})
	s.AddItem(1, "a", 1)
	assert.Equal(t, 1, s.GetState()[1].Count)
}
