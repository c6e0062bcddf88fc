package commstore

import "context"

// SnapshotSchemaVersion is stamped on exports. The reference export format
// had no version field; readers treat a missing value as version 1.
const SnapshotSchemaVersion = 1

// Snapshot is the export/import file format: one JSON object with six
// array-valued collection keys. Uploaded images are not part of a snapshot;
// entity image-reference fields survive, and re-resolve once the referenced
// records exist again.
type Snapshot struct {
	SchemaVersion int          `json:"schemaVersion,omitempty"`
	Emergencies   []*Emergency `json:"emergencies"`
	Foods         []*Food      `json:"foods"`
	Contacts      []*Contact   `json:"contacts"`
	Phrases       []*Phrase    `json:"phrases"`
	Orders        []*Order     `json:"orders"`
	Activities    []*Activity  `json:"activities"`
}

// ExportAll reads every entity collection fully and returns an aggregate
// snapshot. It is pure: no mutation, O(total records).
func (s *service) ExportAll(ctx context.Context) (*Snapshot, error) {
	snap := &Snapshot{SchemaVersion: SnapshotSchemaVersion}

	var err error
	if snap.Emergencies, err = s.repo.ListEmergencies(ctx); err != nil {
		return nil, &EntityError{Collection: CollectionEmergencies, Op: "export", Err: err}
	}
	if snap.Foods, err = s.repo.ListFoods(ctx); err != nil {
		return nil, &EntityError{Collection: CollectionFoods, Op: "export", Err: err}
	}
	if snap.Contacts, err = s.repo.ListContacts(ctx); err != nil {
		return nil, &EntityError{Collection: CollectionContacts, Op: "export", Err: err}
	}
	if snap.Phrases, err = s.repo.ListPhrases(ctx); err != nil {
		return nil, &EntityError{Collection: CollectionPhrases, Op: "export", Err: err}
	}
	if snap.Orders, err = s.repo.ListOrders(ctx); err != nil {
		return nil, &EntityError{Collection: CollectionOrders, Op: "export", Err: err}
	}
	if snap.Activities, err = s.repo.ListActivities(ctx); err != nil {
		return nil, &EntityError{Collection: CollectionActivities, Op: "export", Err: err}
	}
	return snap, nil
}

// ImportAll bulk-inserts a snapshot's records as-is, ids preserved, inside
// one multi-collection transaction: any collection's failure rolls back the
// entire import. Atomicity covers the entity collections only; the blob
// store is independent and untouched.
func (s *service) ImportAll(ctx context.Context, snap *Snapshot) error {
	if snap == nil {
		return &ValidationError{Field: "snapshot", Reason: "must not be nil"}
	}
	return s.repo.ImportSnapshot(ctx, snap)
}

// ResetAll clears every entity collection, then reseeds from the bundled
// default dataset. Reseeding only fires into a completely empty store, so
// repeated calls with no intervening writes yield identical state.
func (s *service) ResetAll(ctx context.Context) error {
	if err := s.repo.ClearEntities(ctx); err != nil {
		return err
	}
	return s.EnsureDefaultData(ctx)
}

// EnsureDefaultData loads the seed dataset on a cold start. It does nothing
// when any entity records already exist. A missing or malformed seed dataset
// logs and continues; first-run absence of data is expected, not exceptional.
func (s *service) EnsureDefaultData(ctx context.Context) error {
	n, err := s.repo.CountEntities(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	s.seedDefaults(ctx)
	return nil
}
