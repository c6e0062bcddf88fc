package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/talkboard/commstore/pkg/commstore"
)

// Store implements commstore.Repository and commstore.BlobRepository using
// in-memory maps. One instance backs both the entity and blob collections,
// so a single engine serves the whole persistence layer.
type Store struct {
	mu sync.RWMutex

	emergencies map[int64]*commstore.Emergency
	foods       map[int64]*commstore.Food
	contacts    map[int64]*commstore.Contact
	phrases     map[int64]*commstore.Phrase
	orders      map[int64]*commstore.Order
	activities  map[int64]*commstore.Activity

	images        map[string]*commstore.ImageRecord
	imagesByOwner map[string][]string // "type:ownerID" -> []image_id

	nextID     map[string]int64 // collection -> next entity id
	nextSympID int64
}

// New creates a new in-memory store
func New() *Store {
	return &Store{
		emergencies:   make(map[int64]*commstore.Emergency),
		foods:         make(map[int64]*commstore.Food),
		contacts:      make(map[int64]*commstore.Contact),
		phrases:       make(map[int64]*commstore.Phrase),
		orders:        make(map[int64]*commstore.Order),
		activities:    make(map[int64]*commstore.Activity),
		images:        make(map[string]*commstore.ImageRecord),
		imagesByOwner: make(map[string][]string),
		nextID:        make(map[string]int64),
	}
}

func (s *Store) allocID(collection string) int64 {
	s.nextID[collection]++
	return s.nextID[collection]
}

// bump keeps the counter ahead of explicitly supplied ids (imports).
func (s *Store) bump(collection string, id int64) {
	if id > s.nextID[collection] {
		s.nextID[collection] = id
	}
}

func ownerKey(t commstore.OwnerType, id int64) string {
	return fmt.Sprintf("%s:%d", t, id)
}

func copyEmergency(e *commstore.Emergency) *commstore.Emergency {
	c := *e
	if e.Symptoms != nil {
		c.Symptoms = make([]commstore.Symptom, len(e.Symptoms))
		copy(c.Symptoms, e.Symptoms)
	}
	return &c
}

func copyImage(r *commstore.ImageRecord) *commstore.ImageRecord {
	c := *r
	clone := func(p *int64) *int64 {
		if p == nil {
			return nil
		}
		v := *p
		return &v
	}
	c.BodyPartID = clone(r.BodyPartID)
	c.SymptomID = clone(r.SymptomID)
	c.ContactID = clone(r.ContactID)
	c.FoodID = clone(r.FoodID)
	c.PhraseID = clone(r.PhraseID)
	return &c
}

// Emergency operations

func (s *Store) CreateEmergency(ctx context.Context, e *commstore.Emergency) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e.ID == 0 {
		e.ID = s.allocID(commstore.CollectionEmergencies)
	} else {
		s.bump(commstore.CollectionEmergencies, e.ID)
	}
	for i := range e.Symptoms {
		if e.Symptoms[i].ID == 0 {
			s.nextSympID++
			e.Symptoms[i].ID = s.nextSympID
		} else if e.Symptoms[i].ID > s.nextSympID {
			s.nextSympID = e.Symptoms[i].ID
		}
	}

	s.emergencies[e.ID] = copyEmergency(e)
	return nil
}

func (s *Store) GetEmergency(ctx context.Context, id int64) (*commstore.Emergency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, exists := s.emergencies[id]
	if !exists {
		return nil, commstore.ErrNotFound
	}
	return copyEmergency(e), nil
}

func (s *Store) UpdateEmergency(ctx context.Context, e *commstore.Emergency) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emergencies[e.ID]; !exists {
		return commstore.ErrNotFound
	}
	for i := range e.Symptoms {
		if e.Symptoms[i].ID == 0 {
			s.nextSympID++
			e.Symptoms[i].ID = s.nextSympID
		}
	}
	s.emergencies[e.ID] = copyEmergency(e)
	return nil
}

func (s *Store) DeleteEmergency(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.emergencies[id]; !exists {
		return commstore.ErrNotFound
	}
	delete(s.emergencies, id)
	return nil
}

func (s *Store) ListEmergencies(ctx context.Context) ([]*commstore.Emergency, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*commstore.Emergency, 0, len(s.emergencies))
	for _, e := range s.emergencies {
		result = append(result, copyEmergency(e))
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// Food operations

func (s *Store) CreateFood(ctx context.Context, f *commstore.Food) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if f.ID == 0 {
		f.ID = s.allocID(commstore.CollectionFoods)
	} else {
		s.bump(commstore.CollectionFoods, f.ID)
	}
	c := *f
	s.foods[f.ID] = &c
	return nil
}

func (s *Store) GetFood(ctx context.Context, id int64) (*commstore.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, exists := s.foods[id]
	if !exists {
		return nil, commstore.ErrNotFound
	}
	c := *f
	return &c, nil
}

func (s *Store) UpdateFood(ctx context.Context, f *commstore.Food) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.foods[f.ID]; !exists {
		return commstore.ErrNotFound
	}
	c := *f
	s.foods[f.ID] = &c
	return nil
}

func (s *Store) DeleteFood(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.foods[id]; !exists {
		return commstore.ErrNotFound
	}
	delete(s.foods, id)
	return nil
}

func (s *Store) ListFoods(ctx context.Context) ([]*commstore.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterFoods(func(*commstore.Food) bool { return true }), nil
}

func (s *Store) ListFoodsByCategory(ctx context.Context, category commstore.FoodCategory) ([]*commstore.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterFoods(func(f *commstore.Food) bool { return f.Category == category }), nil
}

func (s *Store) ListFavoriteFoods(ctx context.Context) ([]*commstore.Food, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterFoods(func(f *commstore.Food) bool { return f.IsFavorite }), nil
}

func (s *Store) filterFoods(keep func(*commstore.Food) bool) []*commstore.Food {
	result := make([]*commstore.Food, 0, len(s.foods))
	for _, f := range s.foods {
		if keep(f) {
			c := *f
			result = append(result, &c)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

// Contact operations

func (s *Store) CreateContact(ctx context.Context, c *commstore.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if c.ID == 0 {
		c.ID = s.allocID(commstore.CollectionContacts)
	} else {
		s.bump(commstore.CollectionContacts, c.ID)
	}
	cp := *c
	s.contacts[c.ID] = &cp
	return nil
}

func (s *Store) GetContact(ctx context.Context, id int64) (*commstore.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	c, exists := s.contacts[id]
	if !exists {
		return nil, commstore.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) UpdateContact(ctx context.Context, c *commstore.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contacts[c.ID]; !exists {
		return commstore.ErrNotFound
	}
	cp := *c
	s.contacts[c.ID] = &cp
	return nil
}

func (s *Store) DeleteContact(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.contacts[id]; !exists {
		return commstore.ErrNotFound
	}
	delete(s.contacts, id)
	return nil
}

func (s *Store) ListContacts(ctx context.Context) ([]*commstore.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterContacts(func(*commstore.Contact) bool { return true }), nil
}

func (s *Store) ListContactsByRelationship(ctx context.Context, rel commstore.Relationship) ([]*commstore.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterContacts(func(c *commstore.Contact) bool { return c.Relationship == rel }), nil
}

func (s *Store) filterContacts(keep func(*commstore.Contact) bool) []*commstore.Contact {
	result := make([]*commstore.Contact, 0, len(s.contacts))
	for _, c := range s.contacts {
		if keep(c) {
			cp := *c
			result = append(result, &cp)
		}
	}
	// Most-used first; ties resolve to the older record for stable ranking.
	sort.Slice(result, func(i, j int) bool {
		if result[i].UsageCount != result[j].UsageCount {
			return result[i].UsageCount > result[j].UsageCount
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Phrase operations

func (s *Store) CreatePhrase(ctx context.Context, p *commstore.Phrase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == 0 {
		p.ID = s.allocID(commstore.CollectionPhrases)
	} else {
		s.bump(commstore.CollectionPhrases, p.ID)
	}
	cp := *p
	s.phrases[p.ID] = &cp
	return nil
}

func (s *Store) GetPhrase(ctx context.Context, id int64) (*commstore.Phrase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	p, exists := s.phrases[id]
	if !exists {
		return nil, commstore.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *Store) UpdatePhrase(ctx context.Context, p *commstore.Phrase) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.phrases[p.ID]; !exists {
		return commstore.ErrNotFound
	}
	cp := *p
	s.phrases[p.ID] = &cp
	return nil
}

func (s *Store) DeletePhrase(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.phrases[id]; !exists {
		return commstore.ErrNotFound
	}
	delete(s.phrases, id)
	return nil
}

func (s *Store) ListPhrases(ctx context.Context) ([]*commstore.Phrase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterPhrases(func(*commstore.Phrase) bool { return true }), nil
}

func (s *Store) ListPhrasesByCategory(ctx context.Context, category commstore.PhraseCategory) ([]*commstore.Phrase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterPhrases(func(p *commstore.Phrase) bool { return p.Category == category }), nil
}

func (s *Store) filterPhrases(keep func(*commstore.Phrase) bool) []*commstore.Phrase {
	result := make([]*commstore.Phrase, 0, len(s.phrases))
	for _, p := range s.phrases {
		if keep(p) {
			cp := *p
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].UsageCount != result[j].UsageCount {
			return result[i].UsageCount > result[j].UsageCount
		}
		return result[i].ID < result[j].ID
	})
	return result
}

// Order operations

func (s *Store) CreateOrder(ctx context.Context, o *commstore.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if o.ID == 0 {
		o.ID = s.allocID(commstore.CollectionOrders)
	} else {
		s.bump(commstore.CollectionOrders, o.ID)
	}
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*commstore.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	o, exists := s.orders[id]
	if !exists {
		return nil, commstore.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (s *Store) UpdateOrder(ctx context.Context, o *commstore.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[o.ID]; !exists {
		return commstore.ErrNotFound
	}
	cp := *o
	s.orders[o.ID] = &cp
	return nil
}

func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[id]; !exists {
		return commstore.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *Store) ListOrders(ctx context.Context) ([]*commstore.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*commstore.Order, 0, len(s.orders))
	for _, o := range s.orders {
		cp := *o
		result = append(result, &cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].OrderDate.Equal(result[j].OrderDate) {
			return result[i].OrderDate.After(result[j].OrderDate)
		}
		return result[i].ID > result[j].ID
	})
	return result, nil
}

// Activity operations

func (s *Store) CreateActivity(ctx context.Context, a *commstore.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == 0 {
		a.ID = s.allocID(commstore.CollectionActivities)
	} else {
		s.bump(commstore.CollectionActivities, a.ID)
	}
	cp := *a
	s.activities[a.ID] = &cp
	return nil
}

func (s *Store) GetActivity(ctx context.Context, id int64) (*commstore.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.activities[id]
	if !exists {
		return nil, commstore.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *Store) UpdateActivity(ctx context.Context, a *commstore.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.activities[a.ID]; !exists {
		return commstore.ErrNotFound
	}
	cp := *a
	s.activities[a.ID] = &cp
	return nil
}

func (s *Store) DeleteActivity(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.activities[id]; !exists {
		return commstore.ErrNotFound
	}
	delete(s.activities, id)
	return nil
}

func (s *Store) ListActivities(ctx context.Context) ([]*commstore.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterActivities(func(*commstore.Activity) bool { return true }), nil
}

func (s *Store) ListActivitiesByCategory(ctx context.Context, category commstore.ActivityCategory) ([]*commstore.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterActivities(func(a *commstore.Activity) bool { return a.Category == category }), nil
}

func (s *Store) ListActiveActivities(ctx context.Context) ([]*commstore.Activity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filterActivities(func(a *commstore.Activity) bool { return a.IsActive }), nil
}

func (s *Store) filterActivities(keep func(*commstore.Activity) bool) []*commstore.Activity {
	result := make([]*commstore.Activity, 0, len(s.activities))
	for _, a := range s.activities {
		if keep(a) {
			cp := *a
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.After(result[j].CreatedAt)
		}
		return result[i].ID > result[j].ID
	})
	return result
}

// Bulk operations

func (s *Store) ImportSnapshot(ctx context.Context, snap *commstore.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Stage everything first so a failure leaves the store unchanged.
	for _, e := range snap.Emergencies {
		if e == nil {
			return fmt.Errorf("emergencies: nil record in snapshot")
		}
	}
	for _, f := range snap.Foods {
		if f == nil {
			return fmt.Errorf("foods: nil record in snapshot")
		}
	}
	for _, c := range snap.Contacts {
		if c == nil {
			return fmt.Errorf("contacts: nil record in snapshot")
		}
	}
	for _, p := range snap.Phrases {
		if p == nil {
			return fmt.Errorf("phrases: nil record in snapshot")
		}
	}
	for _, o := range snap.Orders {
		if o == nil {
			return fmt.Errorf("orders: nil record in snapshot")
		}
	}
	for _, a := range snap.Activities {
		if a == nil {
			return fmt.Errorf("activities: nil record in snapshot")
		}
	}

	for _, e := range snap.Emergencies {
		s.emergencies[e.ID] = copyEmergency(e)
		s.bump(commstore.CollectionEmergencies, e.ID)
		for _, sym := range e.Symptoms {
			if sym.ID > s.nextSympID {
				s.nextSympID = sym.ID
			}
		}
	}
	for _, f := range snap.Foods {
		cp := *f
		s.foods[f.ID] = &cp
		s.bump(commstore.CollectionFoods, f.ID)
	}
	for _, c := range snap.Contacts {
		cp := *c
		s.contacts[c.ID] = &cp
		s.bump(commstore.CollectionContacts, c.ID)
	}
	for _, p := range snap.Phrases {
		cp := *p
		s.phrases[p.ID] = &cp
		s.bump(commstore.CollectionPhrases, p.ID)
	}
	for _, o := range snap.Orders {
		cp := *o
		s.orders[o.ID] = &cp
		s.bump(commstore.CollectionOrders, o.ID)
	}
	for _, a := range snap.Activities {
		cp := *a
		s.activities[a.ID] = &cp
		s.bump(commstore.CollectionActivities, a.ID)
	}
	return nil
}

func (s *Store) ClearEntities(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.emergencies = make(map[int64]*commstore.Emergency)
	s.foods = make(map[int64]*commstore.Food)
	s.contacts = make(map[int64]*commstore.Contact)
	s.phrases = make(map[int64]*commstore.Phrase)
	s.orders = make(map[int64]*commstore.Order)
	s.activities = make(map[int64]*commstore.Activity)
	s.nextID = make(map[string]int64)
	s.nextSympID = 0
	return nil
}

func (s *Store) CountEntities(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.emergencies) + len(s.foods) + len(s.contacts) +
		len(s.phrases) + len(s.orders) + len(s.activities)
	return int64(total), nil
}

// Blob operations

func (s *Store) PutImage(ctx context.Context, rec *commstore.ImageRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if old, exists := s.images[rec.ID]; exists {
		s.dropOwnerIndex(old)
	}
	s.images[rec.ID] = copyImage(rec)
	if owner, ok := rec.Owner(); ok {
		key := ownerKey(rec.Type, owner)
		s.imagesByOwner[key] = append(s.imagesByOwner[key], rec.ID)
	}
	return nil
}

func (s *Store) GetImage(ctx context.Context, id string) (*commstore.ImageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, exists := s.images[id]
	if !exists {
		return nil, nil
	}
	return copyImage(rec), nil
}

func (s *Store) ListImagesByOwner(ctx context.Context, ownerType commstore.OwnerType, ownerID int64) ([]*commstore.ImageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.imagesByOwner[ownerKey(ownerType, ownerID)]
	result := make([]*commstore.ImageRecord, 0, len(ids))
	for _, id := range ids {
		if rec, exists := s.images[id]; exists {
			result = append(result, copyImage(rec))
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadDate.After(result[j].UploadDate)
	})
	return result, nil
}

func (s *Store) ListImages(ctx context.Context) ([]*commstore.ImageRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*commstore.ImageRecord, 0, len(s.images))
	for _, rec := range s.images {
		result = append(result, copyImage(rec))
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].UploadDate.After(result[j].UploadDate)
	})
	return result, nil
}

func (s *Store) DeleteImage(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, exists := s.images[id]
	if !exists {
		return nil
	}
	s.dropOwnerIndex(rec)
	delete(s.images, id)
	return nil
}

func (s *Store) ClearImages(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.images = make(map[string]*commstore.ImageRecord)
	s.imagesByOwner = make(map[string][]string)
	return nil
}

func (s *Store) dropOwnerIndex(rec *commstore.ImageRecord) {
	owner, ok := rec.Owner()
	if !ok {
		return
	}
	key := ownerKey(rec.Type, owner)
	ids := s.imagesByOwner[key]
	for i, id := range ids {
		if id == rec.ID {
			s.imagesByOwner[key] = append(ids[:i], ids[i+1:]...)
			break
		}
	}
	if len(s.imagesByOwner[key]) == 0 {
		delete(s.imagesByOwner, key)
	}
}
