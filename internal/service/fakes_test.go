package service

import (
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/MemeBoard/board-service/internal/dto"
	"github.com/MemeBoard/board-service/internal/model"
	"github.com/MemeBoard/board-service/internal/repository"
	"github.com/MemeBoard/board-service/internal/repository/postgres"
	"github.com/MemeBoard/board-service/internal/repository/redisrepo"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var errStoreDown = errors.New("store is down")

// memDB is an in-memory stand-in for the postgres schema, including its cascades.
type memDB struct {
	mu       sync.Mutex
	seq      int64
	clock    time.Time
	posts    map[int64]*model.Post
	comments map[int64]*model.Comment
	likes    map[int64]map[string]bool
	err      error

	// afterTrendingRead runs once the trending rows are read, outside the lock.
	afterTrendingRead func()
}

func newMemDB() *memDB {
	return &memDB{
		clock:    time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		posts:    map[int64]*model.Post{},
		comments: map[int64]*model.Comment{},
		likes:    map[int64]map[string]bool{},
	}
}

func (db *memDB) next() (int64, time.Time) {
	db.seq++
	db.clock = db.clock.Add(time.Second)
	return db.seq, db.clock
}

func (db *memDB) commentsCount(postID int64) int64 {
	var count int64
	for _, c := range db.comments {
		if c.PostID == postID {
			count++
		}
	}
	return count
}

func (db *memDB) postComments(postID int64) []*model.Comment {
	comments := []*model.Comment{}
	for _, c := range db.comments {
		if c.PostID == postID {
			copied := *c
			comments = append(comments, &copied)
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].ID < comments[j].ID
		}
		return comments[i].CreatedAt.Before(comments[j].CreatedAt)
	})
	return comments
}

func (db *memDB) fullPost(p *model.Post, viewerIP string) *model.FullPost {
	return &model.FullPost{
		Post:          *p,
		CommentsCount: db.commentsCount(p.ID),
		HasLiked:      db.likes[p.ID][viewerIP],
	}
}

type fakePostRepo struct{ db *memDB }

func (r *fakePostRepo) Create(_ context.Context, post model.Post) (*model.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}

	post.ID, post.CreatedAt = r.db.next()
	post.Likes = 0
	stored := post
	r.db.posts[post.ID] = &stored
	return &post, nil
}

func (r *fakePostRepo) FindByID(_ context.Context, id int64) (*model.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}

	p, ok := r.db.posts[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *fakePostRepo) FindFullByID(_ context.Context, id int64, viewerIP string) (*model.FullPost, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}

	p, ok := r.db.posts[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	return r.db.fullPost(p, viewerIP), nil
}

func (r *fakePostRepo) FindAll(_ context.Context, viewerIP string) ([]*model.FullPost, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}

	posts := []*model.FullPost{}
	for _, p := range r.db.posts {
		posts = append(posts, r.db.fullPost(p, viewerIP))
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID < posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (r *fakePostRepo) FindTrending(_ context.Context, limit int) ([]*model.TrendingPost, error) {
	posts, err := r.findTrending(limit)
	if err == nil && r.db.afterTrendingRead != nil {
		r.db.afterTrendingRead()
	}
	return posts, err
}

func (r *fakePostRepo) findTrending(limit int) ([]*model.TrendingPost, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}

	posts := []*model.TrendingPost{}
	for _, p := range r.db.posts {
		posts = append(posts, &model.TrendingPost{
			ID:        p.ID,
			Title:     p.Title,
			Author:    p.Author,
			MediaURL:  p.MediaURL,
			MediaType: p.MediaType,
			Likes:     p.Likes,
		})
	}
	sort.Slice(posts, func(i, j int) bool {
		if posts[i].Likes == posts[j].Likes {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].Likes > posts[j].Likes
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

func (r *fakePostRepo) Update(_ context.Context, post model.Post) (*model.Post, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}

	stored, ok := r.db.posts[post.ID]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	stored.Title = post.Title
	stored.Description = post.Description
	stored.MediaURL = post.MediaURL
	stored.MediaType = post.MediaType
	copied := *stored
	return &copied, nil
}

func (r *fakePostRepo) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return r.db.err
	}

	if _, ok := r.db.posts[id]; !ok {
		return postgres.ErrNotFound
	}
	delete(r.db.posts, id)
	delete(r.db.likes, id)
	for cid, c := range r.db.comments {
		if c.PostID == id {
			delete(r.db.comments, cid)
		}
	}
	return nil
}

type fakeCommentRepo struct{ db *memDB }

func (r *fakeCommentRepo) Create(_ context.Context, comment model.Comment) (*model.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}

	if _, ok := r.db.posts[comment.PostID]; !ok {
		return nil, postgres.ErrNotFound
	}
	comment.ID, comment.CreatedAt = r.db.next()
	stored := comment
	r.db.comments[comment.ID] = &stored
	return &comment, nil
}

func (r *fakeCommentRepo) FindByID(_ context.Context, id int64) (*model.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}

	c, ok := r.db.comments[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *fakeCommentRepo) FindAllPostComments(_ context.Context, postID int64) ([]*model.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}

	return r.db.postComments(postID), nil
}

func (r *fakeCommentRepo) FindPostComments(_ context.Context, postID int64, limit int, offset int) ([]*model.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}

	comments := r.db.postComments(postID)
	if offset >= len(comments) {
		return []*model.Comment{}, nil
	}
	comments = comments[offset:]
	if len(comments) > limit {
		comments = comments[:limit]
	}
	return comments, nil
}

func (r *fakeCommentRepo) CountPostComments(_ context.Context, postID int64) (int64, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return 0, r.db.err
	}

	return r.db.commentsCount(postID), nil
}

func (r *fakeCommentRepo) UpdateContent(_ context.Context, id int64, content string) (*model.Comment, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}

	c, ok := r.db.comments[id]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	c.Content = content
	copied := *c
	return &copied, nil
}

func (r *fakeCommentRepo) Delete(_ context.Context, id int64) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return r.db.err
	}

	if _, ok := r.db.comments[id]; !ok {
		return postgres.ErrNotFound
	}
	delete(r.db.comments, id)
	return nil
}

type fakeLikeRepo struct{ db *memDB }

func (r *fakeLikeRepo) Toggle(_ context.Context, postID int64, ip string) (*model.LikeToggle, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return nil, r.db.err
	}

	p, ok := r.db.posts[postID]
	if !ok {
		return nil, postgres.ErrNotFound
	}
	if r.db.likes[postID] == nil {
		r.db.likes[postID] = map[string]bool{}
	}

	toggle := &model.LikeToggle{PostID: postID}
	if r.db.likes[postID][ip] {
		delete(r.db.likes[postID], ip)
		p.Likes--
	} else {
		r.db.likes[postID][ip] = true
		p.Likes++
		toggle.Liked = true
	}
	toggle.Likes = p.Likes
	return toggle, nil
}

func (r *fakeLikeRepo) IsLiked(_ context.Context, postID int64, ip string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if r.db.err != nil {
		return false, r.db.err
	}

	return r.db.likes[postID][ip], nil
}

type fakeStorage struct {
	mu        sync.Mutex
	saved     []string
	removed   []string
	saveErr   error
	removeErr error
}

func (s *fakeStorage) Save(_ context.Context, fileHeader *multipart.FileHeader, mediaType string, ext string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return "", s.saveErr
	}

	url := "/uploads/" + mediaType + "-" + fileHeader.Filename
	s.saved = append(s.saved, url)
	return url, nil
}

func (s *fakeStorage) Remove(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed = append(s.removed, url)
	return s.removeErr
}

type recordingPublisher struct {
	mu       sync.Mutex
	created  []dto.MQPostCreatedMsg
	deleted  []dto.MQPostDeletedMsg
	liked    []dto.MQPostLikedMsg
	comments []dto.MQCommentAddedMsg
}

func (p *recordingPublisher) PublishPostCreated(msg dto.MQPostCreatedMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.created = append(p.created, msg)
	return nil
}

func (p *recordingPublisher) PublishPostDeleted(msg dto.MQPostDeletedMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, msg)
	return nil
}

func (p *recordingPublisher) PublishPostLiked(msg dto.MQPostLikedMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.liked = append(p.liked, msg)
	return nil
}

func (p *recordingPublisher) PublishCommentAdded(msg dto.MQCommentAddedMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.comments = append(p.comments, msg)
	return nil
}

type testEnv struct {
	service   *Service
	db        *memDB
	storage   *fakeStorage
	publisher *recordingPublisher
	redis     *miniredis.Miniredis
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	db := newMemDB()
	repo := &repository.Repository{
		Postgres: &postgres.PostgresRepository{
			Post:    &fakePostRepo{db: db},
			Comment: &fakeCommentRepo{db: db},
			Like:    &fakeLikeRepo{db: db},
		},
		Redis: redisrepo.New(rdb),
	}

	env := &testEnv{
		db:        db,
		storage:   &fakeStorage{},
		publisher: &recordingPublisher{},
		redis:     mr,
	}
	env.service = New(zap.NewNop(), repo, env.storage, env.publisher, Config{TrendingCacheTTL: time.Minute})

	return env
}

func (e *testEnv) createPost(t *testing.T, authorIP string, title string) *model.Post {
	t.Helper()

	post, err := e.service.Post.Create(context.Background(), authorIP, dto.CreatePostRequest{Title: title})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return post
}

func fileHeader(filename string, contentType string, size int64) *multipart.FileHeader {
	return &multipart.FileHeader{
		Filename: filename,
		Header:   textproto.MIMEHeader{"Content-Type": {contentType}},
		Size:     size,
	}
}
