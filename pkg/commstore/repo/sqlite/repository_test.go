package sqlite_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkboard/commstore/pkg/commstore"
	"github.com/talkboard/commstore/pkg/commstore/repo/sqlite"
)

func openTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "commstore.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestOpenBootstrapsSchema(t *testing.T) {
	store := openTestStore(t)

	n, err := store.CountEntities(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEmptyStoreExportsArrays(t *testing.T) {
	store := openTestStore(t)

	svc, err := commstore.New(
		commstore.WithRepository(store),
		commstore.WithBlobRepository(store),
	)
	require.NoError(t, err)

	snap, err := svc.ExportAll(context.Background())
	require.NoError(t, err)

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	// Every collection key must serialize as an array even when empty.
	out := string(data)
	assert.NotContains(t, out, "null")
	for _, key := range []string{"emergencies", "foods", "contacts", "phrases", "orders", "activities"} {
		assert.Contains(t, out, `"`+key+`":[]`)
	}
}

func TestDataSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commstore.db")
	ctx := context.Background()

	store, err := sqlite.Open(path)
	require.NoError(t, err)

	contact := &commstore.Contact{
		Name:         "Mom",
		Relationship: commstore.RelationshipFamily,
		Gender:       commstore.GenderFemale,
		PhoneNumber:  "555-0100",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	require.NoError(t, store.CreateContact(ctx, contact))
	require.Equal(t, int64(1), contact.ID)

	rec := &commstore.ImageRecord{
		ID:         "contact_1_1_aaaaaaaa",
		Payload:    "data:image/png;base64,x",
		SizeBytes:  22,
		UploadDate: time.Now().UTC(),
	}
	rec.SetOwner(commstore.OwnerContact, contact.ID)
	require.NoError(t, store.PutImage(ctx, rec))
	require.NoError(t, store.Close())

	reopened, err := sqlite.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.GetContact(ctx, contact.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mom", got.Name)
	assert.Equal(t, commstore.RelationshipFamily, got.Relationship)

	image, err := reopened.GetImage(ctx, rec.ID)
	require.NoError(t, err)
	require.NotNil(t, image)
	require.NotNil(t, image.ContactID)
	assert.Equal(t, contact.ID, *image.ContactID)
	assert.Nil(t, image.FoodID)
}

func TestEmergencySymptomsReplacedOnUpdate(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	e := &commstore.Emergency{
		Name:      "Head",
		CreatedAt: time.Now().UTC(),
		Symptoms: []commstore.Symptom{
			{Name: "Headache"},
			{Name: "Dizziness"},
		},
	}
	require.NoError(t, store.CreateEmergency(ctx, e))
	require.NotZero(t, e.Symptoms[0].ID)
	require.NotZero(t, e.Symptoms[1].ID)

	e.Symptoms = []commstore.Symptom{{Name: "Blurred vision"}}
	require.NoError(t, store.UpdateEmergency(ctx, e))

	got, err := store.GetEmergency(ctx, e.ID)
	require.NoError(t, err)
	require.Len(t, got.Symptoms, 1)
	assert.Equal(t, "Blurred vision", got.Symptoms[0].Name)

	t.Run("deleting the emergency removes its symptoms", func(t *testing.T) {
		require.NoError(t, store.DeleteEmergency(ctx, e.ID))
		_, err := store.GetEmergency(ctx, e.ID)
		assert.True(t, errors.Is(err, commstore.ErrNotFound))
	})
}

func TestNotFoundMapping(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	_, err := store.GetPhrase(ctx, 42)
	assert.True(t, errors.Is(err, commstore.ErrNotFound))

	err = store.UpdatePhrase(ctx, &commstore.Phrase{ID: 42, Text: "Ghost", Category: commstore.PhraseCustom})
	assert.True(t, errors.Is(err, commstore.ErrNotFound))

	err = store.DeleteActivity(ctx, 42)
	assert.True(t, errors.Is(err, commstore.ErrNotFound))
}

func TestListFiltersAndOrdering(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, store.CreateFood(ctx, &commstore.Food{
		Name: "Pancakes", Category: commstore.FoodBreakfast, IsFavorite: true, CreatedAt: base,
	}))
	require.NoError(t, store.CreateFood(ctx, &commstore.Food{
		Name: "Soup", Category: commstore.FoodLunch, CreatedAt: base.Add(time.Hour),
	}))

	foods, err := store.ListFoods(ctx)
	require.NoError(t, err)
	require.Len(t, foods, 2)
	assert.Equal(t, "Soup", foods[0].Name, "newest first")

	breakfast, err := store.ListFoodsByCategory(ctx, commstore.FoodBreakfast)
	require.NoError(t, err)
	require.Len(t, breakfast, 1)
	assert.Equal(t, "Pancakes", breakfast[0].Name)

	favorites, err := store.ListFavoriteFoods(ctx)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, "Pancakes", favorites[0].Name)

	t.Run("contacts rank by usage", func(t *testing.T) {
		require.NoError(t, store.CreateContact(ctx, &commstore.Contact{
			Name: "Alex", Relationship: commstore.RelationshipFriend, Gender: commstore.GenderOther,
			CreatedAt: base, UpdatedAt: base,
		}))
		require.NoError(t, store.CreateContact(ctx, &commstore.Contact{
			Name: "Mom", Relationship: commstore.RelationshipFamily, Gender: commstore.GenderFemale,
			UsageCount: 9, CreatedAt: base, UpdatedAt: base,
		}))

		contacts, err := store.ListContacts(ctx)
		require.NoError(t, err)
		require.Len(t, contacts, 2)
		assert.Equal(t, "Mom", contacts[0].Name)
	})
}

func TestImportSnapshotIsAtomic(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	snap := &commstore.Snapshot{
		Contacts: []*commstore.Contact{
			{ID: 10, Name: "Mom", Relationship: commstore.RelationshipFamily, Gender: commstore.GenderFemale, CreatedAt: now, UpdatedAt: now},
		},
		Emergencies: []*commstore.Emergency{
			{ID: 4, Name: "Head", CreatedAt: now, Symptoms: []commstore.Symptom{{ID: 7, Name: "Headache"}}},
		},
		Orders: []*commstore.Order{
			{ID: 2, OrderNumber: "ORD-2", Status: commstore.OrderDelivered, OrderDate: now, CreatedAt: now, UpdatedAt: now},
		},
	}
	require.NoError(t, store.ImportSnapshot(ctx, snap))

	contact, err := store.GetContact(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Mom", contact.Name)

	emergency, err := store.GetEmergency(ctx, 4)
	require.NoError(t, err)
	require.Len(t, emergency.Symptoms, 1)
	assert.Equal(t, int64(7), emergency.Symptoms[0].ID)

	t.Run("fresh creates do not collide with imported ids", func(t *testing.T) {
		c := &commstore.Contact{Name: "Dad", Relationship: commstore.RelationshipFamily, Gender: commstore.GenderMale, CreatedAt: now, UpdatedAt: now}
		require.NoError(t, store.CreateContact(ctx, c))
		assert.Greater(t, c.ID, int64(10))
	})

	t.Run("reimport over existing ids replaces them", func(t *testing.T) {
		snap.Contacts[0].Name = "Mum"
		require.NoError(t, store.ImportSnapshot(ctx, snap))

		got, err := store.GetContact(ctx, 10)
		require.NoError(t, err)
		assert.Equal(t, "Mum", got.Name)
	})
}

func TestClearEntitiesRestartsNumbering(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, store.CreatePhrase(ctx, &commstore.Phrase{
		Text: "Hello", Category: commstore.PhraseGreetings, CreatedAt: now, UpdatedAt: now,
	}))
	require.NoError(t, store.ClearEntities(ctx))

	n, err := store.CountEntities(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	p := &commstore.Phrase{Text: "Hi again", Category: commstore.PhraseGreetings, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, store.CreatePhrase(ctx, p))
	assert.Equal(t, int64(1), p.ID)
}

func TestImageOwnerQueries(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now().UTC()

	older := &commstore.ImageRecord{ID: "food_3_1_aaaaaaaa", Payload: "p1", UploadDate: now}
	older.SetOwner(commstore.OwnerFood, 3)
	require.NoError(t, store.PutImage(ctx, older))

	newer := &commstore.ImageRecord{ID: "food_3_2_bbbbbbbb", Payload: "p2", UploadDate: now.Add(time.Minute)}
	newer.SetOwner(commstore.OwnerFood, 3)
	require.NoError(t, store.PutImage(ctx, newer))

	unrelated := &commstore.ImageRecord{ID: "phrase_3_1_cccccccc", Payload: "p3", UploadDate: now}
	unrelated.SetOwner(commstore.OwnerPhrase, 3)
	require.NoError(t, store.PutImage(ctx, unrelated))

	images, err := store.ListImagesByOwner(ctx, commstore.OwnerFood, 3)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, "food_3_2_bbbbbbbb", images[0].ID, "newest first")

	all, err := store.ListImages(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	t.Run("upsert by id replaces the payload", func(t *testing.T) {
		replaced := &commstore.ImageRecord{ID: older.ID, Payload: "p1-v2", UploadDate: now}
		replaced.SetOwner(commstore.OwnerFood, 3)
		require.NoError(t, store.PutImage(ctx, replaced))

		got, err := store.GetImage(ctx, older.ID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "p1-v2", got.Payload)
	})

	t.Run("missing image reads as nil", func(t *testing.T) {
		got, err := store.GetImage(ctx, "food_9_9_ffffffff")
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		require.NoError(t, store.DeleteImage(ctx, newer.ID))
		require.NoError(t, store.DeleteImage(ctx, newer.ID))

		images, err := store.ListImagesByOwner(ctx, commstore.OwnerFood, 3)
		require.NoError(t, err)
		assert.Len(t, images, 1)
	})

	t.Run("clear images leaves entities alone", func(t *testing.T) {
		require.NoError(t, store.CreateFood(ctx, &commstore.Food{Name: "Tea", Category: commstore.FoodDrink, CreatedAt: now}))
		require.NoError(t, store.ClearImages(ctx))

		n, err := store.CountEntities(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)
	})
}
