package commstore

import (
	"context"
	"fmt"
	"time"
)

// service implements the Service interface
type service struct {
	repo    Repository
	blobs   BlobRepository
	events  EventSink
	imaging ImageProcessingOptions
	seed    []byte
	now     func() time.Time
}

// Option represents a functional option for configuring the service
type Option func(*service)

// WithRepository sets the entity repository for the service
func WithRepository(repo Repository) Option {
	return func(s *service) {
		s.repo = repo
	}
}

// WithBlobRepository sets the blob repository for the service
func WithBlobRepository(blobs BlobRepository) Option {
	return func(s *service) {
		s.blobs = blobs
	}
}

// WithEventSink sets the event sink for the service
func WithEventSink(sink EventSink) Option {
	return func(s *service) {
		s.events = sink
	}
}

// WithImageOptions overrides the image processing tunables
func WithImageOptions(opts ImageProcessingOptions) Option {
	return func(s *service) {
		s.imaging = opts
	}
}

// WithSeedData overrides the bundled seed dataset (JSON body-part catalog)
func WithSeedData(data []byte) Option {
	return func(s *service) {
		s.seed = data
	}
}

// WithClock overrides the time source. Used in tests.
func WithClock(now func() time.Time) Option {
	return func(s *service) {
		s.now = now
	}
}

// New creates a new service instance with the given options
func New(options ...Option) (Service, error) {
	s := &service{
		imaging: DefaultImageOptions(),
		seed:    defaultSeedData,
		now:     time.Now,
	}

	for _, option := range options {
		option(s)
	}

	if s.repo == nil {
		return nil, fmt.Errorf("repository is required")
	}
	if s.blobs == nil {
		return nil, fmt.Errorf("blob repository is required")
	}
	if s.events == nil {
		s.events = NewNoopEventSink()
	}
	s.imaging = s.imaging.normalized()

	return s, nil
}

func (s *service) stamp() time.Time {
	return s.now().UTC()
}

// Emergency operations

func (s *service) CreateEmergency(ctx context.Context, req CreateEmergencyRequest) (*Emergency, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}

	e := &Emergency{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Image:       req.Image,
		Symptoms:    req.Symptoms,
		CreatedAt:   s.stamp(),
	}

	if err := s.repo.CreateEmergency(ctx, e); err != nil {
		return nil, &EntityError{Collection: CollectionEmergencies, Op: "create", Err: err}
	}
	_ = s.events.EntityCreated(ctx, CollectionEmergencies, e.ID)
	return e, nil
}

func (s *service) GetEmergency(ctx context.Context, id int64) (*Emergency, error) {
	e, err := s.repo.GetEmergency(ctx, id)
	if err != nil {
		return nil, &EntityError{Collection: CollectionEmergencies, ID: id, Op: "get", Err: err}
	}
	return e, nil
}

func (s *service) UpdateEmergency(ctx context.Context, req UpdateEmergencyRequest) (*Emergency, error) {
	e, err := s.repo.GetEmergency(ctx, req.ID)
	if err != nil {
		return nil, &EntityError{Collection: CollectionEmergencies, ID: req.ID, Op: "update", Err: err}
	}

	if req.Name != nil {
		e.Name = *req.Name
	}
	if req.Description != nil {
		e.Description = *req.Description
	}
	if req.Icon != nil {
		e.Icon = *req.Icon
	}
	if req.Image != nil {
		e.Image = *req.Image
	}
	if req.Symptoms != nil {
		e.Symptoms = *req.Symptoms
	}

	if err := s.repo.UpdateEmergency(ctx, e); err != nil {
		return nil, &EntityError{Collection: CollectionEmergencies, ID: req.ID, Op: "update", Err: err}
	}
	_ = s.events.EntityUpdated(ctx, CollectionEmergencies, e.ID)
	return e, nil
}

// DeleteEmergency reads the record before removing it: the embedded symptom
// ids are gone after the delete, and sinks need them to clean up
// symptom-owned images.
func (s *service) DeleteEmergency(ctx context.Context, id int64) error {
	e, err := s.repo.GetEmergency(ctx, id)
	if err != nil {
		return &EntityError{Collection: CollectionEmergencies, ID: id, Op: "delete", Err: err}
	}
	if err := s.repo.DeleteEmergency(ctx, id); err != nil {
		return &EntityError{Collection: CollectionEmergencies, ID: id, Op: "delete", Err: err}
	}
	_ = s.events.EntityDeleted(ctx, CollectionEmergencies, id)
	for _, sym := range e.Symptoms {
		_ = s.events.EntityDeleted(ctx, CollectionSymptoms, sym.ID)
	}
	return nil
}

func (s *service) ListEmergencies(ctx context.Context) ([]*Emergency, error) {
	return s.repo.ListEmergencies(ctx)
}

// Food operations

func (s *service) CreateFood(ctx context.Context, req CreateFoodRequest) (*Food, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !req.Category.IsValid() {
		return nil, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown food category %q", req.Category)}
	}

	f := &Food{
		Name:      req.Name,
		Category:  req.Category,
		Image:     req.Image,
		CreatedAt: s.stamp(),
	}

	if err := s.repo.CreateFood(ctx, f); err != nil {
		return nil, &EntityError{Collection: CollectionFoods, Op: "create", Err: err}
	}
	_ = s.events.EntityCreated(ctx, CollectionFoods, f.ID)
	return f, nil
}

func (s *service) GetFood(ctx context.Context, id int64) (*Food, error) {
	f, err := s.repo.GetFood(ctx, id)
	if err != nil {
		return nil, &EntityError{Collection: CollectionFoods, ID: id, Op: "get", Err: err}
	}
	return f, nil
}

func (s *service) UpdateFood(ctx context.Context, req UpdateFoodRequest) (*Food, error) {
	if req.Category != nil && !req.Category.IsValid() {
		return nil, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown food category %q", *req.Category)}
	}

	f, err := s.repo.GetFood(ctx, req.ID)
	if err != nil {
		return nil, &EntityError{Collection: CollectionFoods, ID: req.ID, Op: "update", Err: err}
	}

	if req.Name != nil {
		f.Name = *req.Name
	}
	if req.Category != nil {
		f.Category = *req.Category
	}
	if req.Image != nil {
		f.Image = *req.Image
	}

	if err := s.repo.UpdateFood(ctx, f); err != nil {
		return nil, &EntityError{Collection: CollectionFoods, ID: req.ID, Op: "update", Err: err}
	}
	_ = s.events.EntityUpdated(ctx, CollectionFoods, f.ID)
	return f, nil
}

func (s *service) DeleteFood(ctx context.Context, id int64) error {
	if err := s.repo.DeleteFood(ctx, id); err != nil {
		return &EntityError{Collection: CollectionFoods, ID: id, Op: "delete", Err: err}
	}
	_ = s.events.EntityDeleted(ctx, CollectionFoods, id)
	return nil
}

func (s *service) ListFoods(ctx context.Context) ([]*Food, error) {
	return s.repo.ListFoods(ctx)
}

func (s *service) ListFoodsByCategory(ctx context.Context, category FoodCategory) ([]*Food, error) {
	if !category.IsValid() {
		return nil, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown food category %q", category)}
	}
	return s.repo.ListFoodsByCategory(ctx, category)
}

func (s *service) ListFavoriteFoods(ctx context.Context) ([]*Food, error) {
	return s.repo.ListFavoriteFoods(ctx)
}

// ToggleFoodFavorite flips the favorite flag. Like the usage counters this is
// a read-modify-write: overlapping calls on one id apply last-write-wins.
func (s *service) ToggleFoodFavorite(ctx context.Context, id int64) (*Food, error) {
	f, err := s.repo.GetFood(ctx, id)
	if err != nil {
		return nil, &EntityError{Collection: CollectionFoods, ID: id, Op: "toggle_favorite", Err: err}
	}
	f.IsFavorite = !f.IsFavorite
	if err := s.repo.UpdateFood(ctx, f); err != nil {
		return nil, &EntityError{Collection: CollectionFoods, ID: id, Op: "toggle_favorite", Err: err}
	}
	_ = s.events.EntityUpdated(ctx, CollectionFoods, id)
	return f, nil
}

func (s *service) IncrementFoodUsage(ctx context.Context, id int64) (*Food, error) {
	f, err := s.repo.GetFood(ctx, id)
	if err != nil {
		return nil, &EntityError{Collection: CollectionFoods, ID: id, Op: "increment_usage", Err: err}
	}
	f.UsageCount++
	if err := s.repo.UpdateFood(ctx, f); err != nil {
		return nil, &EntityError{Collection: CollectionFoods, ID: id, Op: "increment_usage", Err: err}
	}
	return f, nil
}

// Contact operations

func (s *service) CreateContact(ctx context.Context, req CreateContactRequest) (*Contact, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !req.Relationship.IsValid() {
		return nil, &ValidationError{Field: "relationship", Reason: fmt.Sprintf("unknown relationship %q", req.Relationship)}
	}
	if !req.Gender.IsValid() {
		return nil, &ValidationError{Field: "gender", Reason: fmt.Sprintf("unknown gender %q", req.Gender)}
	}

	now := s.stamp()
	c := &Contact{
		Name:         req.Name,
		Relationship: req.Relationship,
		Gender:       req.Gender,
		PhoneNumber:  req.PhoneNumber,
		Image:        req.Image,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateContact(ctx, c); err != nil {
		return nil, &EntityError{Collection: CollectionContacts, Op: "create", Err: err}
	}
	_ = s.events.EntityCreated(ctx, CollectionContacts, c.ID)
	return c, nil
}

func (s *service) GetContact(ctx context.Context, id int64) (*Contact, error) {
	c, err := s.repo.GetContact(ctx, id)
	if err != nil {
		return nil, &EntityError{Collection: CollectionContacts, ID: id, Op: "get", Err: err}
	}
	return c, nil
}

func (s *service) UpdateContact(ctx context.Context, req UpdateContactRequest) (*Contact, error) {
	if req.Relationship != nil && !req.Relationship.IsValid() {
		return nil, &ValidationError{Field: "relationship", Reason: fmt.Sprintf("unknown relationship %q", *req.Relationship)}
	}
	if req.Gender != nil && !req.Gender.IsValid() {
		return nil, &ValidationError{Field: "gender", Reason: fmt.Sprintf("unknown gender %q", *req.Gender)}
	}

	c, err := s.repo.GetContact(ctx, req.ID)
	if err != nil {
		return nil, &EntityError{Collection: CollectionContacts, ID: req.ID, Op: "update", Err: err}
	}

	if req.Name != nil {
		c.Name = *req.Name
	}
	if req.Relationship != nil {
		c.Relationship = *req.Relationship
	}
	if req.Gender != nil {
		c.Gender = *req.Gender
	}
	if req.PhoneNumber != nil {
		c.PhoneNumber = *req.PhoneNumber
	}
	if req.Image != nil {
		c.Image = *req.Image
	}
	c.UpdatedAt = s.stamp()

	if err := s.repo.UpdateContact(ctx, c); err != nil {
		return nil, &EntityError{Collection: CollectionContacts, ID: req.ID, Op: "update", Err: err}
	}
	_ = s.events.EntityUpdated(ctx, CollectionContacts, c.ID)
	return c, nil
}

func (s *service) DeleteContact(ctx context.Context, id int64) error {
	if err := s.repo.DeleteContact(ctx, id); err != nil {
		return &EntityError{Collection: CollectionContacts, ID: id, Op: "delete", Err: err}
	}
	_ = s.events.EntityDeleted(ctx, CollectionContacts, id)
	return nil
}

func (s *service) ListContacts(ctx context.Context) ([]*Contact, error) {
	return s.repo.ListContacts(ctx)
}

func (s *service) ListContactsByRelationship(ctx context.Context, rel Relationship) ([]*Contact, error) {
	if !rel.IsValid() {
		return nil, &ValidationError{Field: "relationship", Reason: fmt.Sprintf("unknown relationship %q", rel)}
	}
	return s.repo.ListContactsByRelationship(ctx, rel)
}

// IncrementContactUsage bumps the usage counter by one. The read and write
// are separate repository calls: two overlapping increments on the same id
// can race and lose an update (last write wins).
func (s *service) IncrementContactUsage(ctx context.Context, id int64) (*Contact, error) {
	c, err := s.repo.GetContact(ctx, id)
	if err != nil {
		return nil, &EntityError{Collection: CollectionContacts, ID: id, Op: "increment_usage", Err: err}
	}
	c.UsageCount++
	c.UpdatedAt = s.stamp()
	if err := s.repo.UpdateContact(ctx, c); err != nil {
		return nil, &EntityError{Collection: CollectionContacts, ID: id, Op: "increment_usage", Err: err}
	}
	return c, nil
}

// Phrase operations

func (s *service) CreatePhrase(ctx context.Context, req CreatePhraseRequest) (*Phrase, error) {
	if req.Text == "" {
		return nil, &ValidationError{Field: "text", Reason: "must not be empty"}
	}
	if !req.Category.IsValid() {
		return nil, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown phrase category %q", req.Category)}
	}

	now := s.stamp()
	p := &Phrase{
		Text:      req.Text,
		Category:  req.Category,
		Image:     req.Image,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreatePhrase(ctx, p); err != nil {
		return nil, &EntityError{Collection: CollectionPhrases, Op: "create", Err: err}
	}
	_ = s.events.EntityCreated(ctx, CollectionPhrases, p.ID)
	return p, nil
}

func (s *service) GetPhrase(ctx context.Context, id int64) (*Phrase, error) {
	p, err := s.repo.GetPhrase(ctx, id)
	if err != nil {
		return nil, &EntityError{Collection: CollectionPhrases, ID: id, Op: "get", Err: err}
	}
	return p, nil
}

func (s *service) UpdatePhrase(ctx context.Context, req UpdatePhraseRequest) (*Phrase, error) {
	if req.Category != nil && !req.Category.IsValid() {
		return nil, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown phrase category %q", *req.Category)}
	}

	p, err := s.repo.GetPhrase(ctx, req.ID)
	if err != nil {
		return nil, &EntityError{Collection: CollectionPhrases, ID: req.ID, Op: "update", Err: err}
	}

	if req.Text != nil {
		p.Text = *req.Text
	}
	if req.Category != nil {
		p.Category = *req.Category
	}
	if req.Image != nil {
		p.Image = *req.Image
	}
	p.UpdatedAt = s.stamp()

	if err := s.repo.UpdatePhrase(ctx, p); err != nil {
		return nil, &EntityError{Collection: CollectionPhrases, ID: req.ID, Op: "update", Err: err}
	}
	_ = s.events.EntityUpdated(ctx, CollectionPhrases, p.ID)
	return p, nil
}

func (s *service) DeletePhrase(ctx context.Context, id int64) error {
	if err := s.repo.DeletePhrase(ctx, id); err != nil {
		return &EntityError{Collection: CollectionPhrases, ID: id, Op: "delete", Err: err}
	}
	_ = s.events.EntityDeleted(ctx, CollectionPhrases, id)
	return nil
}

func (s *service) ListPhrases(ctx context.Context) ([]*Phrase, error) {
	return s.repo.ListPhrases(ctx)
}

func (s *service) ListPhrasesByCategory(ctx context.Context, category PhraseCategory) ([]*Phrase, error) {
	if !category.IsValid() {
		return nil, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown phrase category %q", category)}
	}
	return s.repo.ListPhrasesByCategory(ctx, category)
}

func (s *service) IncrementPhraseUsage(ctx context.Context, id int64) (*Phrase, error) {
	p, err := s.repo.GetPhrase(ctx, id)
	if err != nil {
		return nil, &EntityError{Collection: CollectionPhrases, ID: id, Op: "increment_usage", Err: err}
	}
	p.UsageCount++
	p.UpdatedAt = s.stamp()
	if err := s.repo.UpdatePhrase(ctx, p); err != nil {
		return nil, &EntityError{Collection: CollectionPhrases, ID: id, Op: "increment_usage", Err: err}
	}
	return p, nil
}

// Order operations

func (s *service) CreateOrder(ctx context.Context, req CreateOrderRequest) (*Order, error) {
	if req.OrderNumber == "" {
		return nil, &ValidationError{Field: "orderNumber", Reason: "must not be empty"}
	}
	status := req.Status
	if status == "" {
		status = OrderPending
	}
	if !status.IsValid() {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown order status %q", status)}
	}

	now := s.stamp()
	orderDate := req.OrderDate
	if orderDate.IsZero() {
		orderDate = now
	}

	o := &Order{
		OrderNumber: req.OrderNumber,
		Status:      status,
		TotalAmount: req.TotalAmount,
		IsUrgent:    req.IsUrgent,
		OrderDate:   orderDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.CreateOrder(ctx, o); err != nil {
		return nil, &EntityError{Collection: CollectionOrders, Op: "create", Err: err}
	}
	_ = s.events.EntityCreated(ctx, CollectionOrders, o.ID)
	return o, nil
}

func (s *service) GetOrder(ctx context.Context, id int64) (*Order, error) {
	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, &EntityError{Collection: CollectionOrders, ID: id, Op: "get", Err: err}
	}
	return o, nil
}

func (s *service) UpdateOrderStatus(ctx context.Context, id int64, status OrderStatus) (*Order, error) {
	if !status.IsValid() {
		return nil, &ValidationError{Field: "status", Reason: fmt.Sprintf("unknown order status %q", status)}
	}

	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, &EntityError{Collection: CollectionOrders, ID: id, Op: "update_status", Err: err}
	}
	o.Status = status
	o.UpdatedAt = s.stamp()
	if err := s.repo.UpdateOrder(ctx, o); err != nil {
		return nil, &EntityError{Collection: CollectionOrders, ID: id, Op: "update_status", Err: err}
	}
	_ = s.events.EntityUpdated(ctx, CollectionOrders, id)
	return o, nil
}

func (s *service) ToggleOrderUrgent(ctx context.Context, id int64) (*Order, error) {
	o, err := s.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, &EntityError{Collection: CollectionOrders, ID: id, Op: "toggle_urgent", Err: err}
	}
	o.IsUrgent = !o.IsUrgent
	o.UpdatedAt = s.stamp()
	if err := s.repo.UpdateOrder(ctx, o); err != nil {
		return nil, &EntityError{Collection: CollectionOrders, ID: id, Op: "toggle_urgent", Err: err}
	}
	_ = s.events.EntityUpdated(ctx, CollectionOrders, id)
	return o, nil
}

func (s *service) DeleteOrder(ctx context.Context, id int64) error {
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return &EntityError{Collection: CollectionOrders, ID: id, Op: "delete", Err: err}
	}
	_ = s.events.EntityDeleted(ctx, CollectionOrders, id)
	return nil
}

func (s *service) ListOrders(ctx context.Context) ([]*Order, error) {
	return s.repo.ListOrders(ctx)
}

// Activity operations

func (s *service) CreateActivity(ctx context.Context, req CreateActivityRequest) (*Activity, error) {
	if req.Name == "" {
		return nil, &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if !req.Category.IsValid() {
		return nil, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown activity category %q", req.Category)}
	}
	if req.IsRecurring && !req.Frequency.IsValid() {
		return nil, &ValidationError{Field: "frequency", Reason: fmt.Sprintf("unknown frequency %q", req.Frequency)}
	}

	a := &Activity{
		Name:        req.Name,
		Category:    req.Category,
		IsRecurring: req.IsRecurring,
		Frequency:   req.Frequency,
		IsActive:    req.IsActive,
		CreatedAt:   s.stamp(),
	}
	if !a.IsRecurring {
		a.Frequency = ""
	}

	if err := s.repo.CreateActivity(ctx, a); err != nil {
		return nil, &EntityError{Collection: CollectionActivities, Op: "create", Err: err}
	}
	_ = s.events.EntityCreated(ctx, CollectionActivities, a.ID)
	return a, nil
}

func (s *service) GetActivity(ctx context.Context, id int64) (*Activity, error) {
	a, err := s.repo.GetActivity(ctx, id)
	if err != nil {
		return nil, &EntityError{Collection: CollectionActivities, ID: id, Op: "get", Err: err}
	}
	return a, nil
}

func (s *service) UpdateActivity(ctx context.Context, req UpdateActivityRequest) (*Activity, error) {
	if req.Category != nil && !req.Category.IsValid() {
		return nil, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown activity category %q", *req.Category)}
	}
	if req.Frequency != nil && !req.Frequency.IsValid() {
		return nil, &ValidationError{Field: "frequency", Reason: fmt.Sprintf("unknown frequency %q", *req.Frequency)}
	}

	a, err := s.repo.GetActivity(ctx, req.ID)
	if err != nil {
		return nil, &EntityError{Collection: CollectionActivities, ID: req.ID, Op: "update", Err: err}
	}

	if req.Name != nil {
		a.Name = *req.Name
	}
	if req.Category != nil {
		a.Category = *req.Category
	}
	if req.Frequency != nil {
		a.Frequency = *req.Frequency
	}
	// Frequency only means something on a recurring activity.
	if !a.IsRecurring {
		a.Frequency = ""
	}

	if err := s.repo.UpdateActivity(ctx, a); err != nil {
		return nil, &EntityError{Collection: CollectionActivities, ID: req.ID, Op: "update", Err: err}
	}
	_ = s.events.EntityUpdated(ctx, CollectionActivities, a.ID)
	return a, nil
}

func (s *service) DeleteActivity(ctx context.Context, id int64) error {
	if err := s.repo.DeleteActivity(ctx, id); err != nil {
		return &EntityError{Collection: CollectionActivities, ID: id, Op: "delete", Err: err}
	}
	_ = s.events.EntityDeleted(ctx, CollectionActivities, id)
	return nil
}

func (s *service) ListActivities(ctx context.Context) ([]*Activity, error) {
	return s.repo.ListActivities(ctx)
}

func (s *service) ListActivitiesByCategory(ctx context.Context, category ActivityCategory) ([]*Activity, error) {
	if !category.IsValid() {
		return nil, &ValidationError{Field: "category", Reason: fmt.Sprintf("unknown activity category %q", category)}
	}
	return s.repo.ListActivitiesByCategory(ctx, category)
}

func (s *service) ListActiveActivities(ctx context.Context) ([]*Activity, error) {
	return s.repo.ListActiveActivities(ctx)
}

func (s *service) ToggleActivityActive(ctx context.Context, id int64) (*Activity, error) {
	a, err := s.repo.GetActivity(ctx, id)
	if err != nil {
		return nil, &EntityError{Collection: CollectionActivities, ID: id, Op: "toggle_active", Err: err}
	}
	a.IsActive = !a.IsActive
	if err := s.repo.UpdateActivity(ctx, a); err != nil {
		return nil, &EntityError{Collection: CollectionActivities, ID: id, Op: "toggle_active", Err: err}
	}
	_ = s.events.EntityUpdated(ctx, CollectionActivities, id)
	return a, nil
}

func (s *service) ToggleActivityRecurring(ctx context.Context, id int64) (*Activity, error) {
	a, err := s.repo.GetActivity(ctx, id)
	if err != nil {
		return nil, &EntityError{Collection: CollectionActivities, ID: id, Op: "toggle_recurring", Err: err}
	}
	a.IsRecurring = !a.IsRecurring
	if !a.IsRecurring {
		a.Frequency = ""
	}
	if err := s.repo.UpdateActivity(ctx, a); err != nil {
		return nil, &EntityError{Collection: CollectionActivities, ID: id, Op: "toggle_recurring", Err: err}
	}
	_ = s.events.EntityUpdated(ctx, CollectionActivities, id)
	return a, nil
}

func (s *service) IncrementActivityUsage(ctx context.Context, id int64) (*Activity, error) {
	a, err := s.repo.GetActivity(ctx, id)
	if err != nil {
		return nil, &EntityError{Collection: CollectionActivities, ID: id, Op: "increment_usage", Err: err}
	}
	a.UsageCount++
	if err := s.repo.UpdateActivity(ctx, a); err != nil {
		return nil, &EntityError{Collection: CollectionActivities, ID: id, Op: "increment_usage", Err: err}
	}
	return a, nil
}
