package commstore

import "context"

// Service defines the main interface for the commstore library
type Service interface {
	// Emergency operations
	CreateEmergency(ctx context.Context, req CreateEmergencyRequest) (*Emergency, error)
	GetEmergency(ctx context.Context, id int64) (*Emergency, error)
	UpdateEmergency(ctx context.Context, req UpdateEmergencyRequest) (*Emergency, error)
	DeleteEmergency(ctx context.Context, id int64) error
	ListEmergencies(ctx context.Context) ([]*Emergency, error)

	// Food operations
	CreateFood(ctx context.Context, req CreateFoodRequest) (*Food, error)
	GetFood(ctx context.Context, id int64) (*Food, error)
	UpdateFood(ctx context.Context, req UpdateFoodRequest) (*Food, error)
	DeleteFood(ctx context.Context, id int64) error
	ListFoods(ctx context.Context) ([]*Food, error)
	ListFoodsByCategory(ctx context.Context, category FoodCategory) ([]*Food, error)
	ListFavoriteFoods(ctx context.Context) ([]*Food, error)
	ToggleFoodFavorite(ctx context.Context, id int64) (*Food, error)
	IncrementFoodUsage(ctx context.Context, id int64) (*Food, error)

	// Contact operations
	CreateContact(ctx context.Context, req CreateContactRequest) (*Contact, error)
	GetContact(ctx context.Context, id int64) (*Contact, error)
	UpdateContact(ctx context.Context, req UpdateContactRequest) (*Contact, error)
	DeleteContact(ctx context.Context, id int64) error
	ListContacts(ctx context.Context) ([]*Contact, error)
	ListContactsByRelationship(ctx context.Context, rel Relationship) ([]*Contact, error)
	IncrementContactUsage(ctx context.Context, id int64) (*Contact, error)

	// Phrase operations
	CreatePhrase(ctx context.Context, req CreatePhraseRequest) (*Phrase, error)
	GetPhrase(ctx context.Context, id int64) (*Phrase, error)
	UpdatePhrase(ctx context.Context, req UpdatePhraseRequest) (*Phrase, error)
	DeletePhrase(ctx context.Context, id int64) error
	ListPhrases(ctx context.Context) ([]*Phrase, error)
	ListPhrasesByCategory(ctx context.Context, category PhraseCategory) ([]*Phrase, error)
	IncrementPhraseUsage(ctx context.Context, id int64) (*Phrase, error)

	// Order operations
	CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error)
	GetOrder(ctx context.Context, id int64) (*Order, error)
	UpdateOrderStatus(ctx context.Context, id int64, status OrderStatus) (*Order, error)
	ToggleOrderUrgent(ctx context.Context, id int64) (*Order, error)
	DeleteOrder(ctx context.Context, id int64) error
	ListOrders(ctx context.Context) ([]*Order, error)

	// Activity operations
	CreateActivity(ctx context.Context, req CreateActivityRequest) (*Activity, error)
	GetActivity(ctx context.Context, id int64) (*Activity, error)
	UpdateActivity(ctx context.Context, req UpdateActivityRequest) (*Activity, error)
	DeleteActivity(ctx context.Context, id int64) error
	ListActivities(ctx context.Context) ([]*Activity, error)
	ListActivitiesByCategory(ctx context.Context, category ActivityCategory) ([]*Activity, error)
	ListActiveActivities(ctx context.Context) ([]*Activity, error)
	ToggleActivityActive(ctx context.Context, id int64) (*Activity, error)
	ToggleActivityRecurring(ctx context.Context, id int64) (*Activity, error)
	IncrementActivityUsage(ctx context.Context, id int64) (*Activity, error)

	// Image operations
	UploadImage(ctx context.Context, req UploadImageRequest) (*UploadResult, error)
	ResolveImage(ctx context.Context, ref string) string
	GetImage(ctx context.Context, id string) (*ImageRecord, error)
	ListImagesByOwner(ctx context.Context, ownerType OwnerType, ownerID int64) ([]*ImageRecord, error)
	DeleteImage(ctx context.Context, id string) error

	// Bulk operations
	ExportAll(ctx context.Context) (*Snapshot, error)
	ImportAll(ctx context.Context, snap *Snapshot) error
	ResetAll(ctx context.Context) error
	EnsureDefaultData(ctx context.Context) error
}
