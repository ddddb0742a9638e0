package app

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"pdflingua/internal/ai"
	"pdflingua/internal/cache"
	"pdflingua/internal/model"
	"pdflingua/internal/repository"
)

func TestListDownloadAllUsesCache(t *testing.T) {
	db := newTestDB(t)
	mr := miniredis.RunT(t)
	client := redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	listCache := cache.NewTranslationListCache(client, time.Minute, time.Second)

	userRepo := repository.NewUserRepository(db)
	service := NewTranslationService(
		repository.NewFileRepository(db),
		repository.NewTranslationRepository(db),
		repository.NewPromptRepository(db),
		userRepo,
		&fakeExtractor{text: "text"},
		&fakeProvider{reply: "превод"},
		ai.ChatConfig{Model: "gpt-4o"},
		&capturingPublisher{},
		listCache,
	)

	user := &model.User{Username: "alice", Email: "alice@example.com", PasswordHash: "x"}
	require.NoError(t, userRepo.Create(user))
	file := &model.File{UserID: user.ID, Filename: "doc.pdf", ContentHash: "h", FilePath: "/tmp/doc.pdf", PageCount: 10, PageRange: "0-5"}
	require.NoError(t, db.Create(file).Error)

	_, err := service.Init(file.ID, user.ID)
	require.NoError(t, err)

	// Init marks the list dirty; wait out the marker so the first full
	// listing populates the cache.
	mr.FastForward(2 * time.Second)

	page, err := service.List(file.ID, user.ID, 0, 0, true)
	require.NoError(t, err)
	require.Len(t, page.Records, 2)

	cached, hit, err := listCache.GetRecords(context.Background(), file.ID)
	require.NoError(t, err)
	require.True(t, hit)
	require.Len(t, cached, 2)

	// A stage mutation invalidates the cached list.
	manual := "edited by hand"
	_, _, err = service.Update(page.Records[0].ID, user.ID, UpdateTranslationInput{ExtractedText: &manual})
	require.NoError(t, err)

	_, hit, err = listCache.GetRecords(context.Background(), file.ID)
	require.NoError(t, err)
	require.False(t, hit)

	mr.FastForward(2 * time.Second)
	page, err = service.List(file.ID, user.ID, 0, 0, true)
	require.NoError(t, err)
	require.Equal(t, manual, page.Records[0].ExtractedText)
}
