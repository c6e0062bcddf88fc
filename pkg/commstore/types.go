package commstore

import "time"

// OwnerType identifies which entity collection an uploaded image belongs to.
type OwnerType string

// Owner type constants (typed).
const (
	OwnerBodyPart OwnerType = "bodypart"
	OwnerSymptom  OwnerType = "symptom"
	OwnerContact  OwnerType = "contact"
	OwnerFood     OwnerType = "food"
	OwnerPhrase   OwnerType = "phrase"
)

// IsValid reports whether t is one of the known owner types.
func (t OwnerType) IsValid() bool {
	switch t {
	case OwnerBodyPart, OwnerSymptom, OwnerContact, OwnerFood, OwnerPhrase:
		return true
	}
	return false
}

// Collection names, used for events and error context. Symptoms have no
// standalone collection; the name exists so deletion events can name the
// embedded symptoms removed with their emergency.
const (
	CollectionEmergencies = "emergencies"
	CollectionSymptoms    = "symptoms"
	CollectionFoods       = "foods"
	CollectionContacts    = "contacts"
	CollectionPhrases     = "phrases"
	CollectionOrders      = "orders"
	CollectionActivities  = "activities"
)

// FoodCategory is the enumerated category for food records.
type FoodCategory string

const (
	FoodBreakfast FoodCategory = "breakfast"
	FoodLunch     FoodCategory = "lunch"
	FoodDinner    FoodCategory = "dinner"
	FoodSnack     FoodCategory = "snack"
	FoodDrink     FoodCategory = "drink"
	FoodDessert   FoodCategory = "dessert"
)

func (c FoodCategory) IsValid() bool {
	switch c {
	case FoodBreakfast, FoodLunch, FoodDinner, FoodSnack, FoodDrink, FoodDessert:
		return true
	}
	return false
}

// Relationship is the enumerated relationship for contact records.
type Relationship string

const (
	RelationshipFamily    Relationship = "family"
	RelationshipFriend    Relationship = "friend"
	RelationshipCaregiver Relationship = "caregiver"
	RelationshipDoctor    Relationship = "doctor"
	RelationshipEmergency Relationship = "emergency"
)

func (r Relationship) IsValid() bool {
	switch r {
	case RelationshipFamily, RelationshipFriend, RelationshipCaregiver, RelationshipDoctor, RelationshipEmergency:
		return true
	}
	return false
}

// Gender is the enumerated gender for contact records.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// PhraseCategory is the enumerated category for phrase records.
type PhraseCategory string

const (
	PhraseGreetings PhraseCategory = "greetings"
	PhraseNeeds     PhraseCategory = "needs"
	PhraseFeelings  PhraseCategory = "feelings"
	PhraseQuestions PhraseCategory = "questions"
	PhraseResponses PhraseCategory = "responses"
	PhraseCustom    PhraseCategory = "custom"
)

func (c PhraseCategory) IsValid() bool {
	switch c {
	case PhraseGreetings, PhraseNeeds, PhraseFeelings, PhraseQuestions, PhraseResponses, PhraseCustom:
		return true
	}
	return false
}

// OrderStatus is the enumerated lifecycle status for order records.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// ActivityCategory is the enumerated category for activity records.
type ActivityCategory string

const (
	ActivityExercise ActivityCategory = "exercise"
	ActivityTherapy  ActivityCategory = "therapy"
	ActivitySocial   ActivityCategory = "social"
	ActivityLeisure  ActivityCategory = "leisure"
	ActivityRoutine  ActivityCategory = "routine"
)

func (c ActivityCategory) IsValid() bool {
	switch c {
	case ActivityExercise, ActivityTherapy, ActivitySocial, ActivityLeisure, ActivityRoutine:
		return true
	}
	return false
}

// ActivityFrequency is how often a recurring activity repeats.
type ActivityFrequency string

const (
	FrequencyDaily   ActivityFrequency = "daily"
	FrequencyWeekly  ActivityFrequency = "weekly"
	FrequencyMonthly ActivityFrequency = "monthly"
)

func (f ActivityFrequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

// Emergency is a body-part group shown on the emergency board, with its known
// symptoms embedded. Symptoms have no standalone collection; their ids exist
// so uploaded images can reference an individual symptom.
type Emergency struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Image       string    `json:"image,omitempty"`
	Symptoms    []Symptom `json:"symptoms,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Symptom is a descriptor nested under an Emergency.
type Symptom struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image,omitempty"`
}

// Food is a food or drink card.
type Food struct {
	ID         int64        `json:"id"`
	Name       string       `json:"name"`
	Category   FoodCategory `json:"category"`
	IsFavorite bool         `json:"isFavorite"`
	Image      string       `json:"image,omitempty"`
	UsageCount int64        `json:"usageCount"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// Contact is a person the user can call or show.
type Contact struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Relationship Relationship `json:"relationship"`
	Gender       Gender       `json:"gender"`
	PhoneNumber  string       `json:"phoneNumber,omitempty"`
	Image        string       `json:"image,omitempty"`
	UsageCount   int64        `json:"usageCount"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// Phrase is a spoken phrase card.
type Phrase struct {
	ID         int64          `json:"id"`
	Text       string         `json:"text"`
	Category   PhraseCategory `json:"category"`
	Image      string         `json:"image,omitempty"`
	UsageCount int64          `json:"usageCount"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// Order is a tracked purchase or delivery.
type Order struct {
	ID          int64       `json:"id"`
	OrderNumber string      `json:"orderNumber"`
	Status      OrderStatus `json:"status"`
	TotalAmount float64     `json:"totalAmount"`
	IsUrgent    bool        `json:"isUrgent"`
	OrderDate   time.Time   `json:"orderDate"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// Activity is a scheduled or recurring activity card.
type Activity struct {
	ID          int64             `json:"id"`
	Name        string            `json:"name"`
	Category    ActivityCategory  `json:"category"`
	IsRecurring bool              `json:"isRecurring"`
	Frequency   ActivityFrequency `json:"frequency,omitempty"`
	IsActive    bool              `json:"isActive"`
	UsageCount  int64             `json:"usageCount"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// ImageRecord is a stored user-uploaded image. Exactly one of the five owner
// keys is non-nil, matching Type. Payload is a base64 data URL ready for
// display; records never embed raw binary.
type ImageRecord struct {
	ID           string    `json:"id"`
	Type         OwnerType `json:"type"`
	Payload      string    `json:"payload"`
	OriginalName string    `json:"originalName,omitempty"`
	SizeBytes    int64     `json:"sizeBytes"`
	UploadDate   time.Time `json:"uploadDate"`
	BodyPartID   *int64    `json:"bodyPartId,omitempty"`
	SymptomID    *int64    `json:"symptomId,omitempty"`
	ContactID    *int64    `json:"contactId,omitempty"`
	FoodID       *int64    `json:"foodId,omitempty"`
	PhraseID     *int64    `json:"phraseId,omitempty"`
}

// SetOwner populates the owner key matching t and clears the other four.
func (r *ImageRecord) SetOwner(t OwnerType, ownerID int64) {
	r.Type = t
	r.BodyPartID = nil
	r.SymptomID = nil
	r.ContactID = nil
	r.FoodID = nil
	r.PhraseID = nil
	id := ownerID
	switch t {
	case OwnerBodyPart:
		r.BodyPartID = &id
	case OwnerSymptom:
		r.SymptomID = &id
	case OwnerContact:
		r.ContactID = &id
	case OwnerFood:
		r.FoodID = &id
	case OwnerPhrase:
		r.PhraseID = &id
	}
}

// Owner returns the populated owner key, or false if none is set.
func (r *ImageRecord) Owner() (int64, bool) {
	for _, p := range []*int64{r.BodyPartID, r.SymptomID, r.ContactID, r.FoodID, r.PhraseID} {
		if p != nil {
			return *p, true
		}
	}
	return 0, false
}
