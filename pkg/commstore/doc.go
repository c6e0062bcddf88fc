// Package commstore is an offline-first persistence layer for an assistive
// communication application. It stores structured records (contacts, phrases,
// foods, emergencies, orders, activities) and user-uploaded images entirely
// on-device, with no network dependency.
//
// It exposes a single Service interface that orchestrates entity CRUD with
// usage-count tracking, an image ingestion pipeline (validate, compress,
// encode, persist), reference resolution for entity image fields, and bulk
// export/import/reset. Implementations of the entity and blob repositories
// (memory, SQLite) are provided under subpackages.
//
// # Image references
//
// Entity records never embed binary data. Their Image field holds either a
// static asset path (stored as-is) or the id of an ImageRecord in the blob
// store. Service.ResolveImage turns either form into a displayable value, so
// callers render the field uniformly regardless of the backing store.
package commstore
