package commstore

import "time"

// Request/Response DTOs

// CreateEmergencyRequest contains parameters for creating an emergency
// body-part group. Symptom ids are assigned on create.
type CreateEmergencyRequest struct {
	Name        string
	Description string
	Icon        string
	Image       string
	Symptoms    []Symptom
}

// UpdateEmergencyRequest is a partial patch; nil fields are left unchanged.
type UpdateEmergencyRequest struct {
	ID          int64
	Name        *string
	Description *string
	Icon        *string
	Image       *string
	Symptoms    *[]Symptom
}

// CreateFoodRequest contains parameters for creating a food card.
type CreateFoodRequest struct {
	Name     string
	Category FoodCategory
	Image    string
}

// UpdateFoodRequest is a partial patch; nil fields are left unchanged.
type UpdateFoodRequest struct {
	ID       int64
	Name     *string
	Category *FoodCategory
	Image    *string
}

// CreateContactRequest contains parameters for creating a contact.
type CreateContactRequest struct {
	Name         string
	Relationship Relationship
	Gender       Gender
	PhoneNumber  string
	Image        string
}

// UpdateContactRequest is a partial patch; nil fields are left unchanged.
type UpdateContactRequest struct {
	ID           int64
	Name         *string
	Relationship *Relationship
	Gender       *Gender
	PhoneNumber  *string
	Image        *string
}

// CreatePhraseRequest contains parameters for creating a phrase card.
type CreatePhraseRequest struct {
	Text     string
	Category PhraseCategory
	Image    string
}

// UpdatePhraseRequest is a partial patch; nil fields are left unchanged.
type UpdatePhraseRequest struct {
	ID       int64
	Text     *string
	Category *PhraseCategory
	Image    *string
}

// CreateOrderRequest contains parameters for creating an order. A zero
// OrderDate defaults to the creation time; an empty Status defaults to
// pending.
type CreateOrderRequest struct {
	OrderNumber string
	Status      OrderStatus
	TotalAmount float64
	IsUrgent    bool
	OrderDate   time.Time
}

// CreateActivityRequest contains parameters for creating an activity.
// Frequency is required only for recurring activities.
type CreateActivityRequest struct {
	Name        string
	Category    ActivityCategory
	IsRecurring bool
	Frequency   ActivityFrequency
	IsActive    bool
}

// UpdateActivityRequest is a partial patch; nil fields are left unchanged.
type UpdateActivityRequest struct {
	ID        int64
	Name      *string
	Category  *ActivityCategory
	Frequency *ActivityFrequency
}

// UploadImageRequest contains parameters for ingesting a user-uploaded image.
// MimeType may be empty; it is then sniffed from the data.
type UploadImageRequest struct {
	Type     OwnerType
	OwnerID  int64
	Data     []byte
	MimeType string
	FileName string
}

// UploadResult is the outcome of a successful image ingestion.
// CompressionRatio is the fraction of the original size saved by
// recompression; it is 0 when the image was stored as-is.
type UploadResult struct {
	ID               string
	Payload          string
	OriginalSize     int64
	CompressedSize   int64
	CompressionRatio float64
}
