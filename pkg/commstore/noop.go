package commstore

import "context"

// NoopEventSink is a no-operation implementation of EventSink.
// Used when no sink is configured.
type NoopEventSink struct{}

// NewNoopEventSink creates a new no-operation event sink
func NewNoopEventSink() EventSink {
	return &NoopEventSink{}
}

func (n *NoopEventSink) EntityCreated(ctx context.Context, collection string, id int64) error {
	return nil
}

func (n *NoopEventSink) EntityUpdated(ctx context.Context, collection string, id int64) error {
	return nil
}

func (n *NoopEventSink) EntityDeleted(ctx context.Context, collection string, id int64) error {
	return nil
}

func (n *NoopEventSink) ImageStored(ctx context.Context, rec *ImageRecord) error {
	return nil
}

func (n *NoopEventSink) ImageDeleted(ctx context.Context, id string) error {
	return nil
}
