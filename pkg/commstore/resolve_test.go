package commstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkboard/commstore/pkg/commstore"
)

func TestIsUploadReference(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"contact_12_1718000000000_a1b2c3d4", true},
		{"food_1_1_00000000", true},
		{"bodypart_3_1718000000000_deadbeef", true},
		{"images/apple.png", false},
		{"", false},
		{"pet_1_1_a1b2c3d4", false},            // unknown owner type
		{"food_1_1_a1b2c3", false},             // short random suffix
		{"food_1_1_A1B2C3D4", false},           // uppercase hex
		{"food_x_1_a1b2c3d4", false},           // non-numeric owner
		{"contact_12_1718_a1b2c3d4_extra", false}, // trailing segment
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			assert.Equal(t, tt.want, commstore.IsUploadReference(tt.ref))
		})
	}
}

func TestResolveImage(t *testing.T) {
	svc := setupTestService(t)
	ctx := context.Background()

	t.Run("static asset paths pass through unchanged", func(t *testing.T) {
		assert.Equal(t, "images/banana.png", svc.ResolveImage(ctx, "images/banana.png"))
		assert.Equal(t, "", svc.ResolveImage(ctx, ""))
	})

	t.Run("upload references resolve to the stored payload", func(t *testing.T) {
		result, err := svc.UploadImage(ctx, commstore.UploadImageRequest{
			Type:    commstore.OwnerFood,
			OwnerID: 9,
			Data:    makeTestPNG(t, 8, 8),
		})
		require.NoError(t, err)

		assert.Equal(t, result.Payload, svc.ResolveImage(ctx, result.ID))
	})

	t.Run("missing records resolve to the unavailable sentinel", func(t *testing.T) {
		result, err := svc.UploadImage(ctx, commstore.UploadImageRequest{
			Type:    commstore.OwnerFood,
			OwnerID: 9,
			Data:    makeTestPNG(t, 8, 8),
		})
		require.NoError(t, err)
		require.NoError(t, svc.DeleteImage(ctx, result.ID))

		assert.Equal(t, commstore.ImageUnavailable, svc.ResolveImage(ctx, result.ID))
	})
}
