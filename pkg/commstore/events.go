package commstore

import (
	"context"
	"log/slog"
)

// LogEventSink logs lifecycle events through slog.
type LogEventSink struct {
	logger *slog.Logger
}

// NewLogEventSink creates a sink logging to the given logger, or the default
// logger when nil.
func NewLogEventSink(logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogEventSink{logger: logger}
}

func (l *LogEventSink) EntityCreated(ctx context.Context, collection string, id int64) error {
	l.logger.InfoContext(ctx, "entity created", "collection", collection, "id", id)
	return nil
}

func (l *LogEventSink) EntityUpdated(ctx context.Context, collection string, id int64) error {
	l.logger.DebugContext(ctx, "entity updated", "collection", collection, "id", id)
	return nil
}

func (l *LogEventSink) EntityDeleted(ctx context.Context, collection string, id int64) error {
	l.logger.InfoContext(ctx, "entity deleted", "collection", collection, "id", id)
	return nil
}

func (l *LogEventSink) ImageStored(ctx context.Context, rec *ImageRecord) error {
	l.logger.InfoContext(ctx, "image stored", "id", rec.ID, "type", rec.Type, "sizeBytes", rec.SizeBytes)
	return nil
}

func (l *LogEventSink) ImageDeleted(ctx context.Context, id string) error {
	l.logger.InfoContext(ctx, "image deleted", "id", id)
	return nil
}

// CascadeSink deletes a removed entity's uploaded images. The entity store
// itself never cascades (deleting a record leaves its images behind);
// attaching this sink opts in to cleanup.
type CascadeSink struct {
	blobs  BlobRepository
	logger *slog.Logger
}

// NewCascadeSink creates a cascade sink over the given blob repository.
func NewCascadeSink(blobs BlobRepository, logger *slog.Logger) EventSink {
	if logger == nil {
		logger = slog.Default()
	}
	return &CascadeSink{blobs: blobs, logger: logger}
}

// ownerTypeForCollection maps an entity collection to the owner type its
// images carry. Orders and activities have no uploaded images. Deleting an
// emergency also emits one symptoms event per embedded symptom, so their
// images cascade here too.
func ownerTypeForCollection(collection string) (OwnerType, bool) {
	switch collection {
	case CollectionEmergencies:
		return OwnerBodyPart, true
	case CollectionSymptoms:
		return OwnerSymptom, true
	case CollectionContacts:
		return OwnerContact, true
	case CollectionFoods:
		return OwnerFood, true
	case CollectionPhrases:
		return OwnerPhrase, true
	}
	return "", false
}

func (c *CascadeSink) EntityDeleted(ctx context.Context, collection string, id int64) error {
	ownerType, ok := ownerTypeForCollection(collection)
	if !ok {
		return nil
	}
	recs, err := c.blobs.ListImagesByOwner(ctx, ownerType, id)
	if err != nil {
		c.logger.WarnContext(ctx, "cascade lookup failed", "collection", collection, "id", id, "error", err)
		return err
	}
	for _, rec := range recs {
		if err := c.blobs.DeleteImage(ctx, rec.ID); err != nil {
			c.logger.WarnContext(ctx, "cascade delete failed", "image", rec.ID, "error", err)
			return err
		}
	}
	return nil
}

func (c *CascadeSink) EntityCreated(ctx context.Context, collection string, id int64) error {
	return nil
}

func (c *CascadeSink) EntityUpdated(ctx context.Context, collection string, id int64) error {
	return nil
}

func (c *CascadeSink) ImageStored(ctx context.Context, rec *ImageRecord) error {
	return nil
}

func (c *CascadeSink) ImageDeleted(ctx context.Context, id string) error {
	return nil
}

// MultiSink fans events out to several sinks in order. The first error is
// returned after all sinks have run.
type MultiSink struct {
	sinks []EventSink
}

// NewMultiSink combines sinks into one.
func NewMultiSink(sinks ...EventSink) EventSink {
	return &MultiSink{sinks: sinks}
}

func (m *MultiSink) EntityCreated(ctx context.Context, collection string, id int64) error {
	var first error
	for _, s := range m.sinks {
		if err := s.EntityCreated(ctx, collection, id); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiSink) EntityUpdated(ctx context.Context, collection string, id int64) error {
	var first error
	for _, s := range m.sinks {
		if err := s.EntityUpdated(ctx, collection, id); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiSink) EntityDeleted(ctx context.Context, collection string, id int64) error {
	var first error
	for _, s := range m.sinks {
		if err := s.EntityDeleted(ctx, collection, id); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiSink) ImageStored(ctx context.Context, rec *ImageRecord) error {
	var first error
	for _, s := range m.sinks {
		if err := s.ImageStored(ctx, rec); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (m *MultiSink) ImageDeleted(ctx context.Context, id string) error {
	var first error
	for _, s := range m.sinks {
		if err := s.ImageDeleted(ctx, id); err != nil && first == nil {
			first = err
		}
	}
	return first
}
