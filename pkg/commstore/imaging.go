package commstore

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/nfnt/resize"
)

// ImageProcessingOptions are the tunables of the ingestion pipeline.
type ImageProcessingOptions struct {
	// MaxUploadBytes is the hard upload limit. Larger files are rejected
	// before any processing. Default 5 MB.
	MaxUploadBytes int64

	// CompressionThreshold is the size above which an upload is recompressed.
	// Smaller files are stored as-is. Default 1 MB.
	CompressionThreshold int64

	// MaxDimension bounds the longer side of a recompressed image; aspect
	// ratio is preserved. Default 1024.
	MaxDimension uint

	// JPEGQuality is the re-encode quality, clamped to 80-85. Default 82.
	JPEGQuality int
}

// DefaultImageOptions returns the documented pipeline defaults. The 1 MB
// threshold and bounded dimensions trade fidelity for predictable on-device
// storage growth under generous but finite quotas.
func DefaultImageOptions() ImageProcessingOptions {
	return ImageProcessingOptions{
		MaxUploadBytes:       5 << 20,
		CompressionThreshold: 1 << 20,
		MaxDimension:         1024,
		JPEGQuality:          82,
	}
}

func (o ImageProcessingOptions) normalized() ImageProcessingOptions {
	def := DefaultImageOptions()
	if o.MaxUploadBytes <= 0 {
		o.MaxUploadBytes = def.MaxUploadBytes
	}
	if o.CompressionThreshold <= 0 {
		o.CompressionThreshold = def.CompressionThreshold
	}
	if o.MaxDimension == 0 {
		o.MaxDimension = def.MaxDimension
	}
	if o.JPEGQuality < 80 {
		o.JPEGQuality = 80
	}
	if o.JPEGQuality > 85 {
		o.JPEGQuality = 85
	}
	return o
}

// UploadImage runs the ingestion pipeline: validate, compress, encode,
// identify, persist. The pipeline is all-or-nothing: no partial ImageRecord
// survives a failed stage.
//
// Recompressed payloads are always re-encoded as image/jpeg; uploads below
// the compression threshold keep their original MIME type.
func (s *service) UploadImage(ctx context.Context, req UploadImageRequest) (*UploadResult, error) {
	if req.Type == "" {
		return nil, &ValidationError{Field: "type", Reason: "must not be empty"}
	}
	if !req.Type.IsValid() {
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown owner type %q", req.Type)}
	}
	if req.OwnerID <= 0 {
		return nil, &ValidationError{Field: "ownerId", Reason: "must be a positive id"}
	}

	mimeType := req.MimeType
	if mimeType == "" {
		mimeType = http.DetectContentType(req.Data)
	}
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, &ValidationError{Field: "mimeType", Reason: fmt.Sprintf("%q is not an image type", mimeType)}
	}
	originalSize := int64(len(req.Data))
	if originalSize == 0 {
		return nil, &ValidationError{Field: "data", Reason: "must not be empty"}
	}
	if originalSize > s.imaging.MaxUploadBytes {
		return nil, &ValidationError{
			Field:  "data",
			Reason: fmt.Sprintf("%d bytes exceeds the %d byte upload limit", originalSize, s.imaging.MaxUploadBytes),
		}
	}

	payloadBytes := req.Data
	payloadMime := mimeType
	if originalSize > s.imaging.CompressionThreshold {
		compressed, err := s.compress(req.Data)
		if err != nil {
			return nil, err
		}
		payloadBytes = compressed
		payloadMime = "image/jpeg"
	}

	payload := encodeDataURL(payloadMime, payloadBytes)
	now := s.now()

	rec := &ImageRecord{
		ID:           newImageID(req.Type, req.OwnerID, now.UnixMilli()),
		Payload:      payload,
		OriginalName: req.FileName,
		SizeBytes:    int64(len(payloadBytes)),
		UploadDate:   now.UTC(),
	}
	rec.SetOwner(req.Type, req.OwnerID)

	if err := s.blobs.PutImage(ctx, rec); err != nil {
		return nil, &BlobError{ID: rec.ID, Op: "put", Err: err}
	}
	_ = s.events.ImageStored(ctx, rec)

	compressedSize := int64(len(payloadBytes))
	var ratio float64
	if compressedSize < originalSize {
		ratio = 1 - float64(compressedSize)/float64(originalSize)
	}

	return &UploadResult{
		ID:               rec.ID,
		Payload:          payload,
		OriginalSize:     originalSize,
		CompressedSize:   compressedSize,
		CompressionRatio: ratio,
	}, nil
}

func (s *service) compress(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &ProcessingError{Stage: "decode", Err: err}
	}

	bounded := resize.Thumbnail(s.imaging.MaxDimension, s.imaging.MaxDimension, img, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, bounded, &jpeg.Options{Quality: s.imaging.JPEGQuality}); err != nil {
		return nil, &ProcessingError{Stage: "encode", Err: err}
	}
	return buf.Bytes(), nil
}

func encodeDataURL(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// newImageID builds a blob id carrying type, owner, time and a random
// component, so rapid repeat uploads for one owner never collide.
func newImageID(t OwnerType, ownerID, millis int64) string {
	return fmt.Sprintf("%s_%d_%d_%s", t, ownerID, millis, uuid.NewString()[:8])
}

// GetImage returns a stored image record, or (nil, nil) when the id is
// unknown.
func (s *service) GetImage(ctx context.Context, id string) (*ImageRecord, error) {
	return s.blobs.GetImage(ctx, id)
}

func (s *service) ListImagesByOwner(ctx context.Context, ownerType OwnerType, ownerID int64) ([]*ImageRecord, error) {
	if !ownerType.IsValid() {
		return nil, &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown owner type %q", ownerType)}
	}
	return s.blobs.ListImagesByOwner(ctx, ownerType, ownerID)
}

func (s *service) DeleteImage(ctx context.Context, id string) error {
	if err := s.blobs.DeleteImage(ctx, id); err != nil {
		return &BlobError{ID: id, Op: "delete", Err: err}
	}
	_ = s.events.ImageDeleted(ctx, id)
	return nil
}
