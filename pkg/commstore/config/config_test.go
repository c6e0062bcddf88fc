package config_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/talkboard/commstore/pkg/commstore"
	"github.com/talkboard/commstore/pkg/commstore/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.DatabaseType)
	assert.Equal(t, int64(5<<20), cfg.MaxUploadBytes)
	assert.Equal(t, int64(1<<20), cfg.CompressionThreshold)
	assert.True(t, cfg.EnableEventLogging)
	assert.True(t, cfg.EnableDefaultData)
	assert.False(t, cfg.EnableCascadeDelete)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		options []config.Option
	}{
		{
			name:    "unknown database type",
			options: []config.Option{config.WithDatabase("postgres", "")},
		},
		{
			name:    "sqlite without a path",
			options: []config.Option{config.WithDatabase("sqlite", "")},
		},
		{
			name: "threshold above upload limit",
			options: []config.Option{config.WithImageLimits(commstore.ImageProcessingOptions{
				MaxUploadBytes:       1 << 20,
				CompressionThreshold: 2 << 20,
				MaxDimension:         1024,
				JPEGQuality:          82,
			})},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.Load(tt.options...)
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("COMMSTORE_DATABASE_TYPE", "sqlite")
	t.Setenv("COMMSTORE_DATABASE_PATH", filepath.Join(t.TempDir(), "env.db"))
	t.Setenv("COMMSTORE_ENABLE_CASCADE_DELETE", "true")

	cfg, err := config.Load(config.WithEnv())
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DatabaseType)
	assert.NotEmpty(t, cfg.DatabasePath)
	assert.True(t, cfg.EnableCascadeDelete)
}

func TestBuildServiceMemory(t *testing.T) {
	cfg, err := config.Load(config.WithDefaultData(false))
	require.NoError(t, err)

	svc, err := cfg.BuildService()
	require.NoError(t, err)
	require.NotNil(t, svc)

	ctx := context.Background()
	contact, err := svc.CreateContact(ctx, commstore.CreateContactRequest{
		Name:         "Mom",
		Relationship: commstore.RelationshipFamily,
		Gender:       commstore.GenderFemale,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), contact.ID)
}

func TestBuildServiceSQLite(t *testing.T) {
	cfg, err := config.Load(
		config.WithDatabase("sqlite", filepath.Join(t.TempDir(), "commstore.db")),
		config.WithCascadeDelete(true),
	)
	require.NoError(t, err)

	svc, err := cfg.BuildService()
	require.NoError(t, err)

	ctx := context.Background()
	phrase, err := svc.CreatePhrase(ctx, commstore.CreatePhraseRequest{
		Text:     "I need help",
		Category: commstore.PhraseNeeds,
	})
	require.NoError(t, err)

	got, err := svc.GetPhrase(ctx, phrase.ID)
	require.NoError(t, err)
	assert.Equal(t, "I need help", got.Text)
}

func TestDefaultDataSeedsOnlyWhenEnabled(t *testing.T) {
	ctx := context.Background()

	seeded, err := config.Load()
	require.NoError(t, err)
	svcSeeded, err := seeded.BuildService()
	require.NoError(t, err)
	require.NoError(t, svcSeeded.EnsureDefaultData(ctx))

	emergencies, err := svcSeeded.ListEmergencies(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, emergencies)

	bare, err := config.Load(config.WithDefaultData(false))
	require.NoError(t, err)
	svcBare, err := bare.BuildService()
	require.NoError(t, err)
	require.NoError(t, svcBare.EnsureDefaultData(ctx))

	emergencies, err = svcBare.ListEmergencies(ctx)
	require.NoError(t, err)
	assert.Empty(t, emergencies)
}
