package commstore

import "context"

// Repository defines entity persistence for the six record collections.
//
// List operations return records in the collection's display order:
// createdAt-descending for emergencies, foods and activities,
// usageCount-descending for contacts and phrases, orderDate-descending for
// orders. Filtered lists narrow the same orderings by category, relationship
// or flag; durable implementations back them with secondary indexes.
//
// Create assigns the record's id (and ids of any embedded symptoms with a
// zero id). Get and Update return ErrNotFound for unknown ids. Every
// successful mutation is immediately visible to subsequent reads.
type Repository interface {
	// Emergencies
	CreateEmergency(ctx context.Context, e *Emergency) error
	GetEmergency(ctx context.Context, id int64) (*Emergency, error)
	UpdateEmergency(ctx context.Context, e *Emergency) error
	DeleteEmergency(ctx context.Context, id int64) error
	ListEmergencies(ctx context.Context) ([]*Emergency, error)

	// Foods
	CreateFood(ctx context.Context, f *Food) error
	GetFood(ctx context.Context, id int64) (*Food, error)
	UpdateFood(ctx context.Context, f *Food) error
	DeleteFood(ctx context.Context, id int64) error
	ListFoods(ctx context.Context) ([]*Food, error)
	ListFoodsByCategory(ctx context.Context, category FoodCategory) ([]*Food, error)
	ListFavoriteFoods(ctx context.Context) ([]*Food, error)

	// Contacts
	CreateContact(ctx context.Context, c *Contact) error
	GetContact(ctx context.Context, id int64) (*Contact, error)
	UpdateContact(ctx context.Context, c *Contact) error
	DeleteContact(ctx context.Context, id int64) error
	ListContacts(ctx context.Context) ([]*Contact, error)
	ListContactsByRelationship(ctx context.Context, rel Relationship) ([]*Contact, error)

	// Phrases
	CreatePhrase(ctx context.Context, p *Phrase) error
	GetPhrase(ctx context.Context, id int64) (*Phrase, error)
	UpdatePhrase(ctx context.Context, p *Phrase) error
	DeletePhrase(ctx context.Context, id int64) error
	ListPhrases(ctx context.Context) ([]*Phrase, error)
	ListPhrasesByCategory(ctx context.Context, category PhraseCategory) ([]*Phrase, error)

	// Orders
	CreateOrder(ctx context.Context, o *Order) error
	GetOrder(ctx context.Context, id int64) (*Order, error)
	UpdateOrder(ctx context.Context, o *Order) error
	DeleteOrder(ctx context.Context, id int64) error
	ListOrders(ctx context.Context) ([]*Order, error)

	// Activities
	CreateActivity(ctx context.Context, a *Activity) error
	GetActivity(ctx context.Context, id int64) (*Activity, error)
	UpdateActivity(ctx context.Context, a *Activity) error
	DeleteActivity(ctx context.Context, id int64) error
	ListActivities(ctx context.Context) ([]*Activity, error)
	ListActivitiesByCategory(ctx context.Context, category ActivityCategory) ([]*Activity, error)
	ListActiveActivities(ctx context.Context) ([]*Activity, error)

	// Bulk operations. ImportSnapshot inserts records as-is (ids preserved)
	// atomically across all entity collections: any failure leaves the store
	// unchanged. Blob records are not part of the snapshot.
	ImportSnapshot(ctx context.Context, snap *Snapshot) error
	ClearEntities(ctx context.Context) error
	CountEntities(ctx context.Context) (int64, error)
}

// BlobRepository defines persistence for user-uploaded images, indexed by
// owner type and owner key.
type BlobRepository interface {
	// PutImage upserts a record by id.
	PutImage(ctx context.Context, rec *ImageRecord) error

	// GetImage returns the record, or (nil, nil) when the id is unknown.
	// Absence is a value here, not an error.
	GetImage(ctx context.Context, id string) (*ImageRecord, error)

	// ListImagesByOwner returns all records whose owner key for ownerType
	// equals ownerID, via the owner index.
	ListImagesByOwner(ctx context.Context, ownerType OwnerType, ownerID int64) ([]*ImageRecord, error)

	// ListImages returns every stored record.
	ListImages(ctx context.Context) ([]*ImageRecord, error)

	// DeleteImage removes a record; it is a no-op on a missing id.
	DeleteImage(ctx context.Context, id string) error

	// ClearImages removes everything.
	ClearImages(ctx context.Context) error
}

// EventSink receives lifecycle notifications. Sinks run after the triggering
// operation has committed; their errors are reported to the sink's own
// logging, never to the caller of the operation.
type EventSink interface {
	EntityCreated(ctx context.Context, collection string, id int64) error
	EntityUpdated(ctx context.Context, collection string, id int64) error
	EntityDeleted(ctx context.Context, collection string, id int64) error
	ImageStored(ctx context.Context, rec *ImageRecord) error
	ImageDeleted(ctx context.Context, id string) error
}
