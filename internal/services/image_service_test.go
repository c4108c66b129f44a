package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"eventim/internal/models"
	"eventim/internal/repositories"
	"eventim/internal/services"
	"eventim/pkg/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type imageTable map[string]*models.Image

func (t imageTable) GetByID(_ context.Context, id string) (*models.Image, error) {
	img, ok := t[id]
	if !ok {
		return nil, fmt.Errorf("image with ID %s %w", id, repositories.ErrNotFound)
	}
	return img, nil
}

func TestImageService_Inline(t *testing.T) {
	ctx := context.Background()
	table := imageTable{}
	svc := services.NewImageService(table, nil, 1<<20, nil)

	img, release, err := svc.Prepare(ctx, "image", &services.Upload{Data: pngHeader})
	require.NoError(t, err)
	release()
	assert.Equal(t, "image/png", img.MimeType)
	assert.Equal(t, pngHeader, img.Data)
	assert.Empty(t, img.StorageKey)

	table[img.ID] = img
	got, data, err := svc.Open(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, "image/png", got.MimeType)
	assert.Equal(t, pngHeader, data)

	_, _, err = svc.Open(ctx, "missing")
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestImageService_BlobStore(t *testing.T) {
	ctx := context.Background()
	table := imageTable{}
	blobs := storage.NewMemoryStore()
	svc := services.NewImageService(table, blobs, 1<<20, nil)

	img, release, err := svc.Prepare(ctx, "image", &services.Upload{Data: pngHeader})
	require.NoError(t, err)
	assert.Nil(t, img.Data)
	assert.Equal(t, "images/"+img.ID, img.StorageKey)
	assert.Equal(t, 1, blobs.Len())

	table[img.ID] = img
	_, data, err := svc.Open(ctx, img.ID)
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	release()
	assert.Equal(t, 0, blobs.Len())
	_, _, err = svc.Open(ctx, img.ID)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestImageService_Rejects(t *testing.T) {
	svc := services.NewImageService(imageTable{}, nil, 64, nil)
	cases := map[string][]byte{
		"empty":     {},
		"too big":   append(append([]byte{}, pngHeader...), make([]byte, 64)...),
		"html page": []byte("<html><body>hi</body></html>"),
	}
	for name, data := range cases {
		t.Run(name, func(t *testing.T) {
			img, _, err := svc.Prepare(context.Background(), "image", &services.Upload{Data: data})
			assert.Nil(t, img)
			var verr *services.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, "image", verr.Field)
		})
	}

	img, release, err := svc.Prepare(context.Background(), "image", nil)
	require.NoError(t, err)
	assert.Nil(t, img)
	release()
}
