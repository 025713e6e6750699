package postgres

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/MemeBoard/board-service/internal/model"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newIntegrationRepo connects to TEST_DATABASE_URL and resets the schema.
// Tests using it are skipped when the variable is unset.
func newIntegrationRepo(t *testing.T) (*PostgresRepository, *pgxpool.Pool) {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, Migrate(ctx, pool))
	_, err = pool.Exec(ctx, "TRUNCATE posts RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	return New(pool, zap.NewNop()), pool
}

func createTestPost(t *testing.T, repo *PostgresRepository, authorIP string) *model.Post {
	t.Helper()

	post, err := repo.Post.Create(context.Background(), model.Post{
		Title:    "Hello",
		Author:   model.DefaultAuthor,
		AuthorIP: authorIP,
	})
	require.NoError(t, err)

	return post
}

func ledgerCount(t *testing.T, pool *pgxpool.Pool, postID int64) int64 {
	t.Helper()

	var count int64
	require.NoError(t, pool.QueryRow(context.Background(), "SELECT COUNT(*) FROM likes_log WHERE post_id = $1", postID).Scan(&count))

	return count
}

func TestIntegration_RoundTrip(t *testing.T) {
	repo, _ := newIntegrationRepo(t)
	ctx := context.Background()

	post := createTestPost(t, repo, "1.2.3.4")

	full, err := repo.Post.FindFullByID(ctx, post.ID, "1.2.3.4")
	require.NoError(t, err)
	assert.Equal(t, "Hello", full.Title)
	assert.Equal(t, int64(0), full.Likes)
	assert.Equal(t, int64(0), full.CommentsCount)
	assert.False(t, full.HasLiked)
}

func TestIntegration_ToggleScenario(t *testing.T) {
	repo, pool := newIntegrationRepo(t)
	ctx := context.Background()

	post := createTestPost(t, repo, "9.9.9.9")

	toggle, err := repo.Like.Toggle(ctx, post.ID, "A")
	require.NoError(t, err)
	assert.Equal(t, &model.LikeToggle{PostID: post.ID, Liked: true, Likes: 1}, toggle)

	toggle, err = repo.Like.Toggle(ctx, post.ID, "A")
	require.NoError(t, err)
	assert.Equal(t, &model.LikeToggle{PostID: post.ID, Liked: false, Likes: 0}, toggle)

	toggle, err = repo.Like.Toggle(ctx, post.ID, "B")
	require.NoError(t, err)
	assert.Equal(t, &model.LikeToggle{PostID: post.ID, Liked: true, Likes: 1}, toggle)

	asA, err := repo.Post.FindFullByID(ctx, post.ID, "A")
	require.NoError(t, err)
	assert.Equal(t, int64(1), asA.Likes)
	assert.False(t, asA.HasLiked)
	assert.Equal(t, int64(1), ledgerCount(t, pool, post.ID))

	_, err = repo.Like.Toggle(ctx, post.ID+1000, "A")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIntegration_ConcurrentDistinctVoters(t *testing.T) {
	repo, pool := newIntegrationRepo(t)
	ctx := context.Background()

	post := createTestPost(t, repo, "9.9.9.9")

	const voters = 40
	var wg sync.WaitGroup
	errs := make(chan error, voters)
	for i := 0; i < voters; i++ {
		wg.Add(1)
		go func(ip string) {
			defer wg.Done()
			if _, err := repo.Like.Toggle(ctx, post.ID, ip); err != nil {
				errs <- err
			}
		}(fmt.Sprintf("10.0.0.%d", i))
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	stored, err := repo.Post.FindByID(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(voters), stored.Likes)
	assert.Equal(t, stored.Likes, ledgerCount(t, pool, post.ID))
}

func TestIntegration_ConcurrentSameVoter(t *testing.T) {
	repo, pool := newIntegrationRepo(t)
	ctx := context.Background()

	post := createTestPost(t, repo, "9.9.9.9")

	const calls = 21
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		liked int
	)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			toggle, err := repo.Like.Toggle(ctx, post.ID, "1.2.3.4")
			if !assert.NoError(t, err) {
				return
			}
			if toggle.Liked {
				mu.Lock()
				liked++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	// Each call is one transition, so an odd number of calls ends liked
	// with one more like than unlike.
	assert.Equal(t, calls/2+1, liked)

	stored, err := repo.Post.FindFullByID(ctx, post.ID, "1.2.3.4")
	require.NoError(t, err)
	assert.True(t, stored.HasLiked)
	assert.Equal(t, int64(1), stored.Likes)
	assert.Equal(t, int64(1), ledgerCount(t, pool, post.ID))
}

func TestIntegration_DeleteCascades(t *testing.T) {
	repo, pool := newIntegrationRepo(t)
	ctx := context.Background()

	post := createTestPost(t, repo, "1.2.3.4")
	_, err := repo.Comment.Create(ctx, model.Comment{PostID: post.ID, AuthorIP: "5.6.7.8", Content: "lol"})
	require.NoError(t, err)
	_, err = repo.Like.Toggle(ctx, post.ID, "5.6.7.8")
	require.NoError(t, err)

	require.NoError(t, repo.Post.Delete(ctx, post.ID))

	total, err := repo.Comment.CountPostComments(ctx, post.ID)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Zero(t, ledgerCount(t, pool, post.ID))

	_, err = repo.Post.FindByID(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIntegration_CommentOnMissingPost(t *testing.T) {
	repo, _ := newIntegrationRepo(t)

	_, err := repo.Comment.Create(context.Background(), model.Comment{PostID: 424242, AuthorIP: "1.2.3.4", Content: "hi"})
	assert.ErrorIs(t, err, ErrNotFound)
}
