package commstore

import (
	"context"
	"regexp"
)

// ImageUnavailable is the sentinel ResolveImage returns when an upload
// reference has no backing record. Callers should render their fallback;
// this is not an error condition.
const ImageUnavailable = ""

var uploadRefPattern = regexp.MustCompile(`^(bodypart|symptom|contact|food|phrase)_\d+_\d+_[0-9a-f]{8}$`)

// IsUploadReference reports whether ref has the shape of a stored image id.
func IsUploadReference(ref string) bool {
	return uploadRefPattern.MatchString(ref)
}

// ResolveImage turns an entity image-reference into a displayable value.
// Upload-pattern references resolve through the blob store to the stored
// payload; anything else is treated as a static asset path and returned
// unchanged. It never fails: a missing or unreadable record yields
// ImageUnavailable.
func (s *service) ResolveImage(ctx context.Context, ref string) string {
	if !IsUploadReference(ref) {
		return ref
	}
	rec, err := s.blobs.GetImage(ctx, ref)
	if err != nil || rec == nil {
		return ImageUnavailable
	}
	return rec.Payload
}
