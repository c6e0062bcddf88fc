package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkboard/commstore/pkg/commstore"
	"github.com/talkboard/commstore/pkg/commstore/repo/memory"
)

func TestEntityIDsAreSequential(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		f := &commstore.Food{Name: "Food", Category: commstore.FoodSnack, CreatedAt: time.Now()}
		require.NoError(t, store.CreateFood(ctx, f))
		assert.Equal(t, int64(i), f.ID)
	}

	// Collections count independently.
	c := &commstore.Contact{Name: "Mom", Relationship: commstore.RelationshipFamily, Gender: commstore.GenderFemale}
	require.NoError(t, store.CreateContact(ctx, c))
	assert.Equal(t, int64(1), c.ID)
}

func TestGetReturnsACopy(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	e := &commstore.Emergency{
		Name:     "Head",
		Symptoms: []commstore.Symptom{{Name: "Headache"}},
	}
	require.NoError(t, store.CreateEmergency(ctx, e))

	got, err := store.GetEmergency(ctx, e.ID)
	require.NoError(t, err)
	got.Name = "Mutated"
	got.Symptoms[0].Name = "Mutated"

	again, err := store.GetEmergency(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "Head", again.Name)
	assert.Equal(t, "Headache", again.Symptoms[0].Name)
}

func TestNotFoundErrors(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	_, err := store.GetFood(ctx, 99)
	assert.True(t, errors.Is(err, commstore.ErrNotFound))

	err = store.UpdateFood(ctx, &commstore.Food{ID: 99, Name: "Ghost", Category: commstore.FoodSnack})
	assert.True(t, errors.Is(err, commstore.ErrNotFound))

	err = store.DeleteFood(ctx, 99)
	assert.True(t, errors.Is(err, commstore.ErrNotFound))
}

func TestListOrdering(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("foods newest first", func(t *testing.T) {
		older := &commstore.Food{Name: "Older", Category: commstore.FoodSnack, CreatedAt: base}
		newer := &commstore.Food{Name: "Newer", Category: commstore.FoodSnack, CreatedAt: base.Add(time.Hour)}
		require.NoError(t, store.CreateFood(ctx, older))
		require.NoError(t, store.CreateFood(ctx, newer))

		foods, err := store.ListFoods(ctx)
		require.NoError(t, err)
		require.Len(t, foods, 2)
		assert.Equal(t, "Newer", foods[0].Name)
	})

	t.Run("phrases most used first", func(t *testing.T) {
		quiet := &commstore.Phrase{Text: "Quiet", Category: commstore.PhraseCustom, UsageCount: 1}
		loud := &commstore.Phrase{Text: "Loud", Category: commstore.PhraseCustom, UsageCount: 5}
		require.NoError(t, store.CreatePhrase(ctx, quiet))
		require.NoError(t, store.CreatePhrase(ctx, loud))

		phrases, err := store.ListPhrases(ctx)
		require.NoError(t, err)
		require.Len(t, phrases, 2)
		assert.Equal(t, "Loud", phrases[0].Text)
	})

	t.Run("orders by order date", func(t *testing.T) {
		early := &commstore.Order{OrderNumber: "A", Status: commstore.OrderPending, OrderDate: base}
		late := &commstore.Order{OrderNumber: "B", Status: commstore.OrderPending, OrderDate: base.Add(48 * time.Hour)}
		require.NoError(t, store.CreateOrder(ctx, early))
		require.NoError(t, store.CreateOrder(ctx, late))

		orders, err := store.ListOrders(ctx)
		require.NoError(t, err)
		require.Len(t, orders, 2)
		assert.Equal(t, "B", orders[0].OrderNumber)
	})
}

func TestImportSnapshotPreservesIDsAndAdvancesCounters(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	snap := &commstore.Snapshot{
		Contacts: []*commstore.Contact{
			{ID: 10, Name: "Mom", Relationship: commstore.RelationshipFamily, Gender: commstore.GenderFemale},
		},
		Emergencies: []*commstore.Emergency{
			{ID: 4, Name: "Head", Symptoms: []commstore.Symptom{{ID: 7, Name: "Headache"}}},
		},
	}
	require.NoError(t, store.ImportSnapshot(ctx, snap))

	got, err := store.GetContact(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Mom", got.Name)

	// New records must not collide with imported ids.
	fresh := &commstore.Contact{Name: "Dad", Relationship: commstore.RelationshipFamily, Gender: commstore.GenderMale}
	require.NoError(t, store.CreateContact(ctx, fresh))
	assert.Equal(t, int64(11), fresh.ID)

	e := &commstore.Emergency{Name: "Arms", Symptoms: []commstore.Symptom{{Name: "Numbness"}}}
	require.NoError(t, store.CreateEmergency(ctx, e))
	assert.Greater(t, e.Symptoms[0].ID, int64(7))

	t.Run("nil records are rejected before any write", func(t *testing.T) {
		before, err := store.CountEntities(ctx)
		require.NoError(t, err)

		err = store.ImportSnapshot(ctx, &commstore.Snapshot{
			Foods: []*commstore.Food{{ID: 1, Name: "Tea", Category: commstore.FoodDrink}, nil},
		})
		require.Error(t, err)

		after, err := store.CountEntities(ctx)
		require.NoError(t, err)
		assert.Equal(t, before, after)
	})
}

func TestClearEntitiesResetsCounters(t *testing.T) {
	store := memory.New()
	ctx := context.Background()

	require.NoError(t, store.CreateFood(ctx, &commstore.Food{Name: "Tea", Category: commstore.FoodDrink}))
	require.NoError(t, store.ClearEntities(ctx))

	n, err := store.CountEntities(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	f := &commstore.Food{Name: "Coffee", Category: commstore.FoodDrink}
	require.NoError(t, store.CreateFood(ctx, f))
	assert.Equal(t, int64(1), f.ID, "a cleared store numbers from 1 again")
}

func TestImageOwnerIndex(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	now := time.Now()

	rec := &commstore.ImageRecord{ID: "contact_5_1_aaaaaaaa", Payload: "data:image/png;base64,x", UploadDate: now}
	rec.SetOwner(commstore.OwnerContact, 5)
	require.NoError(t, store.PutImage(ctx, rec))

	other := &commstore.ImageRecord{ID: "contact_5_2_bbbbbbbb", Payload: "data:image/png;base64,y", UploadDate: now.Add(time.Minute)}
	other.SetOwner(commstore.OwnerContact, 5)
	require.NoError(t, store.PutImage(ctx, other))

	t.Run("owner listing is newest first", func(t *testing.T) {
		images, err := store.ListImagesByOwner(ctx, commstore.OwnerContact, 5)
		require.NoError(t, err)
		require.Len(t, images, 2)
		assert.Equal(t, "contact_5_2_bbbbbbbb", images[0].ID)
	})

	t.Run("upsert with a new owner reindexes", func(t *testing.T) {
		moved := &commstore.ImageRecord{ID: rec.ID, Payload: rec.Payload, UploadDate: now}
		moved.SetOwner(commstore.OwnerContact, 6)
		require.NoError(t, store.PutImage(ctx, moved))

		oldOwner, err := store.ListImagesByOwner(ctx, commstore.OwnerContact, 5)
		require.NoError(t, err)
		assert.Len(t, oldOwner, 1)

		newOwner, err := store.ListImagesByOwner(ctx, commstore.OwnerContact, 6)
		require.NoError(t, err)
		require.Len(t, newOwner, 1)
		assert.Equal(t, rec.ID, newOwner[0].ID)
	})

	t.Run("delete drops the index entry", func(t *testing.T) {
		require.NoError(t, store.DeleteImage(ctx, other.ID))
		images, err := store.ListImagesByOwner(ctx, commstore.OwnerContact, 5)
		require.NoError(t, err)
		assert.Empty(t, images)
	})

	t.Run("missing image reads as nil", func(t *testing.T) {
		got, err := store.GetImage(ctx, "contact_5_9_ffffffff")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete of a missing id is a no-op", func(t *testing.T) {
		assert.NoError(t, store.DeleteImage(ctx, "contact_5_9_ffffffff"))
	})

	t.Run("clear images leaves entities alone", func(t *testing.T) {
		require.NoError(t, store.CreateFood(ctx, &commstore.Food{Name: "Tea", Category: commstore.FoodDrink}))
		require.NoError(t, store.ClearImages(ctx))

		images, err := store.ListImages(ctx)
		require.NoError(t, err)
		assert.Empty(t, images)

		n, err := store.CountEntities(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}
