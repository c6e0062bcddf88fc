package commstore_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkboard/commstore/pkg/commstore"
)

// makeTestPNG renders a small gradient and encodes it as PNG.
func makeTestPNG(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 7), G: uint8(y * 13), B: uint8((x + y) * 3), A: 255})
		}
	}

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUploadImageStoresSmallUploadAsIs(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	data := makeTestPNG(t, 32, 32)
	result, err := svc.UploadImage(ctx, commstore.UploadImageRequest{
		Type:     commstore.OwnerFood,
		OwnerID:  7,
		Data:     data,
		FileName: "apple.png",
	})
	require.NoError(t, err)

	// Below the compression threshold the original bytes and MIME survive.
	assert.True(t, strings.HasPrefix(result.Payload, "data:image/png;base64,"), "payload: %.40s", result.Payload)
	assert.Equal(t, int64(len(data)), result.OriginalSize)
	assert.Equal(t, result.OriginalSize, result.CompressedSize)
	assert.Zero(t, result.CompressionRatio)
	assert.True(t, commstore.IsUploadReference(result.ID), "id %q should match the upload reference shape", result.ID)
	assert.True(t, strings.HasPrefix(result.ID, "food_7_"))

	rec, err := svc.GetImage(ctx, result.ID)
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, commstore.OwnerFood, rec.Type)
	assert.Equal(t, "apple.png", rec.OriginalName)
	require.NotNil(t, rec.FoodID)
	assert.Equal(t, int64(7), *rec.FoodID)
	assert.Nil(t, rec.ContactID)
}

func TestUploadImageRecompressesAboveThreshold(t *testing.T) {
	svc := setupTestService(t, commstore.WithImageOptions(commstore.ImageProcessingOptions{
		MaxUploadBytes:       5 << 20,
		CompressionThreshold: 64, // force the compression path with a small fixture
		MaxDimension:         16,
		JPEGQuality:          80,
	}))
	ctx := context.Background()

	data := makeTestPNG(t, 256, 128)
	result, err := svc.UploadImage(ctx, commstore.UploadImageRequest{
		Type:    commstore.OwnerContact,
		OwnerID: 1,
		Data:    data,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(result.Payload, "data:image/jpeg;base64,"), "recompressed payloads are always JPEG")
	assert.Less(t, result.CompressedSize, result.OriginalSize)
	assert.Greater(t, result.CompressionRatio, 0.0)
	assert.Less(t, result.CompressionRatio, 1.0)
}

func TestUploadImageValidation(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()
	valid := makeTestPNG(t, 8, 8)

	tests := []struct {
		name  string
		req   commstore.UploadImageRequest
		field string
	}{
		{
			name:  "missing type",
			req:   commstore.UploadImageRequest{OwnerID: 1, Data: valid},
			field: "type",
		},
		{
			name:  "unknown type",
			req:   commstore.UploadImageRequest{Type: "pet", OwnerID: 1, Data: valid},
			field: "type",
		},
		{
			name:  "zero owner id",
			req:   commstore.UploadImageRequest{Type: commstore.OwnerFood, Data: valid},
			field: "ownerId",
		},
		{
			name:  "empty data",
			req:   commstore.UploadImageRequest{Type: commstore.OwnerFood, OwnerID: 1, MimeType: "image/png"},
			field: "data",
		},
		{
			name:  "non-image payload",
			req:   commstore.UploadImageRequest{Type: commstore.OwnerFood, OwnerID: 1, Data: []byte("plain text")},
			field: "mimeType",
		},
		{
			name: "oversize upload",
			req: commstore.UploadImageRequest{
				Type:     commstore.OwnerFood,
				OwnerID:  1,
				Data:     make([]byte, 6<<20),
				MimeType: "image/png",
			},
			field: "data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.UploadImage(ctx, tt.req)
			require.Error(t, err)

			var valErr *commstore.ValidationError
			require.True(t, errors.As(err, &valErr), "expected a validation error, got %v", err)
			assert.Equal(t, tt.field, valErr.Field)
		})
	}

	t.Run("nothing was stored", func(t *testing.T) {
		images, err := svc.ListImagesByOwner(ctx, commstore.OwnerFood, 1)
		require.NoError(t, err)
		assert.Empty(t, images)
	})
}

func TestUploadImageUndecodableAboveThreshold(t *testing.T) {
	svc := setupTestService(t, commstore.WithImageOptions(commstore.ImageProcessingOptions{
		MaxUploadBytes:       5 << 20,
		CompressionThreshold: 16,
		MaxDimension:         64,
		JPEGQuality:          80,
	}))
	ctx := context.Background()

	// Declared as an image but not decodable; the compression stage fails
	// and nothing is persisted.
	junk := bytes.Repeat([]byte{0xde, 0xad}, 64)
	_, err := svc.UploadImage(ctx, commstore.UploadImageRequest{
		Type:     commstore.OwnerPhrase,
		OwnerID:  2,
		Data:     junk,
		MimeType: "image/png",
	})
	require.Error(t, err)

	var procErr *commstore.ProcessingError
	require.True(t, errors.As(err, &procErr))
	assert.Equal(t, "decode", procErr.Stage)

	images, err := svc.ListImagesByOwner(ctx, commstore.OwnerPhrase, 2)
	require.NoError(t, err)
	assert.Empty(t, images)
}

func TestUploadImageSniffsMissingMimeType(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	result, err := svc.UploadImage(ctx, commstore.UploadImageRequest{
		Type:    commstore.OwnerBodyPart,
		OwnerID: 3,
		Data:    makeTestPNG(t, 8, 8),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Payload, "data:image/png;base64,"))
}

func TestImageLookupAndDeletion(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	first, err := svc.UploadImage(ctx, commstore.UploadImageRequest{
		Type: commstore.OwnerSymptom, OwnerID: 4, Data: makeTestPNG(t, 8, 8),
	})
	require.NoError(t, err)
	second, err := svc.UploadImage(ctx, commstore.UploadImageRequest{
		Type: commstore.OwnerSymptom, OwnerID: 4, Data: makeTestPNG(t, 8, 8),
	})
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID, "rapid repeat uploads must not collide")

	t.Run("owner listing finds both", func(t *testing.T) {
		images, err := svc.ListImagesByOwner(ctx, commstore.OwnerSymptom, 4)
		require.NoError(t, err)
		assert.Len(t, images, 2)
	})

	t.Run("unknown id yields nil without error", func(t *testing.T) {
		rec, err := svc.GetImage(ctx, "symptom_4_0_00000000")
		require.NoError(t, err)
		assert.Nil(t, rec)
	})

	t.Run("delete removes and is idempotent", func(t *testing.T) {
		require.NoError(t, svc.DeleteImage(ctx, first.ID))
		require.NoError(t, svc.DeleteImage(ctx, first.ID))

		images, err := svc.ListImagesByOwner(ctx, commstore.OwnerSymptom, 4)
		require.NoError(t, err)
		assert.Len(t, images, 1)
	})

	t.Run("unknown owner type is rejected", func(t *testing.T) {
		_, err := svc.ListImagesByOwner(ctx, "pet", 4)
		var valErr *commstore.ValidationError
		require.True(t, errors.As(err, &valErr))
	})
}
