package content

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/agoraforge/agora/pkg/models"
)

type mockPostRepository struct{ mock.Mock }

func (m *mockPostRepository) Create(ctx context.Context, post *models.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *mockPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}

func (m *mockPostRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPostRepository) ListFeed(ctx context.Context, sort models.FeedSort, limit int, cursor string) ([]*models.Post, string, bool, error) {
	args := m.Called(ctx, sort, limit, cursor)
	return nil, "", false, args.Error(3)
}

func (m *mockPostRepository) ListByAuthor(ctx context.Context, authorID string, limit int, cursor string) ([]*models.Post, string, bool, error) {
	args := m.Called(ctx, authorID, limit, cursor)
	return nil, "", false, args.Error(3)
}

func (m *mockPostRepository) ListByFollowedAuthors(ctx context.Context, followerID string, limit int, cursor string) ([]*models.Post, string, bool, error) {
	args := m.Called(ctx, followerID, limit, cursor)
	return nil, "", false, args.Error(3)
}

type mockReplyRepository struct{ mock.Mock }

func (m *mockReplyRepository) Create(ctx context.Context, reply *models.Reply) error {
	args := m.Called(ctx, reply)
	return args.Error(0)
}

func (m *mockReplyRepository) GetByID(ctx context.Context, id string) (*models.Reply, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Reply), args.Error(1)
}

func (m *mockReplyRepository) SoftDelete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockReplyRepository) ListByPost(ctx context.Context, postID string, ordering models.ReplyOrdering, limit int, cursor string) ([]*models.Reply, string, bool, error) {
	args := m.Called(ctx, postID, ordering, limit, cursor)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Bool(2), args.Error(3)
	}
	return args.Get(0).([]*models.Reply), args.String(1), args.Bool(2), args.Error(3)
}

func (m *mockReplyRepository) ListChildren(ctx context.Context, parentReplyID string) ([]*models.Reply, error) {
	args := m.Called(ctx, parentReplyID)
	return nil, args.Error(1)
}

func (m *mockReplyRepository) ListDescendants(ctx context.Context, replyID string) ([]*models.Reply, error) {
	args := m.Called(ctx, replyID)
	return nil, args.Error(1)
}

func TestCreatePost_Success(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)

	posts.On("Create", ctx, mock.AnythingOfType("*models.Post")).Return(nil)

	svc := NewService(posts, replies)
	post, err := svc.CreatePost(ctx, "author-1", "A title", "some body text")

	assert.NoError(t, err)
	assert.NotEmpty(t, post.ID)
	assert.NotEmpty(t, post.AnalysisContentHash)
	posts.AssertExpectations(t)
}

func TestCreatePost_EmptyTitleRejected(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)

	svc := NewService(posts, replies)
	post, err := svc.CreatePost(ctx, "author-1", "", "body")

	assert.Error(t, err)
	assert.Nil(t, post)
	posts.AssertNotCalled(t, "Create")
}

func TestCreatePost_TitleTooLongRejected(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)

	svc := NewService(posts, replies)
	post, err := svc.CreatePost(ctx, "author-1", strings.Repeat("x", maxTitleLength+1), "body")

	assert.Error(t, err)
	assert.Nil(t, post)
}

func TestCreateReply_Success(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)

	posts.On("GetByID", ctx, "post-1").Return(&models.Post{ID: "post-1", AuthorID: "author-1"}, nil)
	replies.On("Create", ctx, mock.AnythingOfType("*models.Reply")).Return(nil)

	svc := NewService(posts, replies)
	reply, err := svc.CreateReply(ctx, "author-2", "post-1", nil, "a reply", nil, nil, nil)

	assert.NoError(t, err)
	assert.Equal(t, "post-1", reply.PostID)
	replies.AssertExpectations(t)
}

func TestCreateReply_PostNotFound(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)

	posts.On("GetByID", ctx, "missing").Return(nil, nil)

	svc := NewService(posts, replies)
	reply, err := svc.CreateReply(ctx, "author-2", "missing", nil, "a reply", nil, nil, nil)

	assert.ErrorIs(t, err, models.ErrPostNotFound)
	assert.Nil(t, reply)
}

func TestCreateReply_ParentFromDifferentPostRejected(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)

	parentID := "reply-parent"
	posts.On("GetByID", ctx, "post-1").Return(&models.Post{ID: "post-1", AuthorID: "author-1"}, nil)
	replies.On("GetByID", ctx, parentID).Return(&models.Reply{ID: parentID, PostID: "other-post"}, nil)

	svc := NewService(posts, replies)
	reply, err := svc.CreateReply(ctx, "author-2", "post-1", &parentID, "a reply", nil, nil, nil)

	assert.ErrorIs(t, err, models.ErrParentNotFound)
	assert.Nil(t, reply)
}

func TestCreateReply_PartialQuoteProvenanceRejected(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)

	posts.On("GetByID", ctx, "post-1").Return(&models.Post{ID: "post-1", AuthorID: "author-1"}, nil)

	quotedText := "a quote"
	svc := NewService(posts, replies)
	reply, err := svc.CreateReply(ctx, "author-2", "post-1", nil, "a reply", &quotedText, nil, nil)

	assert.Error(t, err)
	assert.Nil(t, reply)
	replies.AssertNotCalled(t, "Create")
}

func TestSoftDeletePost_ByAuthor(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)

	posts.On("GetByID", ctx, "post-1").Return(&models.Post{ID: "post-1", AuthorID: "author-1"}, nil)
	posts.On("SoftDelete", ctx, "post-1").Return(nil)

	svc := NewService(posts, replies)
	err := svc.SoftDeletePost(ctx, "post-1", "author-1", false)

	assert.NoError(t, err)
	posts.AssertExpectations(t)
}

func TestSoftDeletePost_ForbiddenForOtherUser(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)

	posts.On("GetByID", ctx, "post-1").Return(&models.Post{ID: "post-1", AuthorID: "author-1"}, nil)

	svc := NewService(posts, replies)
	err := svc.SoftDeletePost(ctx, "post-1", "someone-else", false)

	assert.ErrorIs(t, err, models.ErrForbidden)
	posts.AssertNotCalled(t, "SoftDelete")
}

func TestSoftDeletePost_SystemActorBypassesOwnership(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)

	posts.On("GetByID", ctx, "post-1").Return(&models.Post{ID: "post-1", AuthorID: "author-1"}, nil)
	posts.On("SoftDelete", ctx, "post-1").Return(nil)

	svc := NewService(posts, replies)
	err := svc.SoftDeletePost(ctx, "post-1", "system-user", true)

	assert.NoError(t, err)
}

func TestNormalizedHash_IgnoresCaseAndWhitespace(t *testing.T) {
	a := normalizedHash("  Hello   World ", "Some Content")
	b := normalizedHash("hello world", "some   content")
	assert.Equal(t, a, b)
}

func TestNormalizedHash_DiffersOnRealChange(t *testing.T) {
	a := normalizedHash("title one", "content")
	b := normalizedHash("title two", "content")
	assert.NotEqual(t, a, b)
}

func TestNormalizedHash_ExportedWrapperMatches(t *testing.T) {
	assert.Equal(t, normalizedHash("t", "c"), NormalizedHash("t", "c"))
}

func TestListReplies_DefaultsToPathOrdering(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)

	posts.On("GetByID", ctx, "post-1").Return(&models.Post{ID: "post-1"}, nil)
	replies.On("ListByPost", ctx, "post-1", models.ReplyOrderingPath, 20, "").Return(nil, "", false, nil)

	svc := NewService(posts, replies)
	_, _, _, err := svc.ListReplies(ctx, "post-1", "", 20, "")

	assert.NoError(t, err)
	replies.AssertExpectations(t)
}

func TestListReplies_BreadthOrderingPassedThrough(t *testing.T) {
	ctx := context.Background()
	posts := new(mockPostRepository)
	replies := new(mockReplyRepository)

	posts.On("GetByID", ctx, "post-1").Return(&models.Post{ID: "post-1"}, nil)
	replies.On("ListByPost", ctx, "post-1", models.ReplyOrderingBreadth, 20, "").Return(nil, "", false, nil)

	svc := NewService(posts, replies)
	_, _, _, err := svc.ListReplies(ctx, "post-1", models.ReplyOrderingBreadth, 20, "")

	assert.NoError(t, err)
	replies.AssertExpectations(t)
}
