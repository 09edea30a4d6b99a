package service

import (
	"context"

	"plume/internal/models"
	"plume/internal/repository"
)

// PageSize is the fixed number of posts per feed page.
const PageSize = 10

// FeedPage is one page of a feed listing. Out-of-range page numbers are
// clamped, never rejected, so every request lands on a valid page.
type FeedPage struct {
	Posts       []*models.Post `json:"posts"`
	Number      int            `json:"number"`
	TotalPages  int            `json:"total_pages"`
	HasPrevious bool           `json:"has_previous"`
	HasNext     bool           `json:"has_next"`
}

// GroupFeed is a group's page plus the group itself.
type GroupFeed struct {
	Group *models.Group `json:"group"`
	Page  *FeedPage     `json:"page"`
}

// ProfileFeed is an author's page plus profile context.
type ProfileFeed struct {
	Author     *models.User `json:"author"`
	Page       *FeedPage    `json:"page"`
	PostsCount int64        `json:"posts_count"`
	Following  bool         `json:"following"`
}

// PostDetail is a single post with its comments and profile context.
type PostDetail struct {
	Post       *models.Post     `json:"post"`
	Comments   []models.Comment `json:"comments"`
	PostsCount int64            `json:"posts_count"`
	Following  bool             `json:"following"`
}

// FeedService composes the read-only listing views. It never mutates
// anything; identity arrives as an explicit viewer id (0 = anonymous).
type FeedService struct {
	postRepo    repository.PostRepository
	groupRepo   repository.GroupRepository
	userRepo    repository.UserRepository
	followRepo  repository.FollowRepository
	commentRepo repository.CommentRepository
}

// NewFeedService returns a new FeedService.
func NewFeedService(
	postRepo repository.PostRepository,
	groupRepo repository.GroupRepository,
	userRepo repository.UserRepository,
	followRepo repository.FollowRepository,
	commentRepo repository.CommentRepository,
) *FeedService {
	return &FeedService{
		postRepo:    postRepo,
		groupRepo:   groupRepo,
		userRepo:    userRepo,
		followRepo:  followRepo,
		commentRepo: commentRepo,
	}
}

// Home returns the global feed page.
func (s *FeedService) Home(ctx context.Context, page int) (*FeedPage, error) {
	count, err := s.postRepo.CountAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.paginate(ctx, count, page, func(limit, offset int) ([]*models.Post, error) {
		return s.postRepo.ListAll(ctx, limit, offset)
	})
}

// Group returns the feed of posts filed under the slug's group.
func (s *FeedService) Group(ctx context.Context, slug string, page int) (*GroupFeed, error) {
	group, err := s.groupRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	count, err := s.postRepo.CountByGroup(ctx, group.ID)
	if err != nil {
		return nil, err
	}
	feedPage, err := s.paginate(ctx, count, page, func(limit, offset int) ([]*models.Post, error) {
		return s.postRepo.ListByGroup(ctx, group.ID, limit, offset)
	})
	if err != nil {
		return nil, err
	}

	return &GroupFeed{Group: group, Page: feedPage}, nil
}

// Profile returns an author's feed with their total post count and
// whether the viewer follows them (always false for anonymous viewers).
func (s *FeedService) Profile(ctx context.Context, username string, viewerID uint, page int) (*ProfileFeed, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	count, err := s.postRepo.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}
	feedPage, err := s.paginate(ctx, count, page, func(limit, offset int) ([]*models.Post, error) {
		return s.postRepo.ListByAuthor(ctx, author.ID, limit, offset)
	})
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != 0 {
		following, err = s.followRepo.Exists(ctx, viewerID, author.ID)
		if err != nil {
			return nil, err
		}
	}

	return &ProfileFeed{
		Author:     author,
		Page:       feedPage,
		PostsCount: count,
		Following:  following,
	}, nil
}

// Following returns the feed of posts by authors the viewer follows.
func (s *FeedService) Following(ctx context.Context, viewerID uint, page int) (*FeedPage, error) {
	count, err := s.postRepo.CountFollowed(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	return s.paginate(ctx, count, page, func(limit, offset int) ([]*models.Post, error) {
		return s.postRepo.ListFollowed(ctx, viewerID, limit, offset)
	})
}

// PostDetail returns a single post addressed as <username>/<post_id>
// with its comments (newest first) and the author's profile context.
func (s *FeedService) PostDetail(ctx context.Context, username string, postID uint, viewerID uint) (*PostDetail, error) {
	author, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	post, err := s.postRepo.GetByAuthorAndID(ctx, author.ID, postID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}

	count, err := s.postRepo.CountByAuthor(ctx, author.ID)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != 0 {
		following, err = s.followRepo.Exists(ctx, viewerID, author.ID)
		if err != nil {
			return nil, err
		}
	}

	return &PostDetail{
		Post:       post,
		Comments:   comments,
		PostsCount: count,
		Following:  following,
	}, nil
}

// paginate fetches one clamped page of posts.
func (s *FeedService) paginate(ctx context.Context, count int64, page int, fetch func(limit, offset int) ([]*models.Post, error)) (*FeedPage, error) {
	totalPages := int((count + PageSize - 1) / PageSize)
	if totalPages < 1 {
		totalPages = 1
	}

	// Forgiving pagination: anything out of range lands on the nearest
	// valid page instead of erroring.
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	posts, err := fetch(PageSize, (page-1)*PageSize)
	if err != nil {
		return nil, err
	}
	if posts == nil {
		posts = []*models.Post{}
	}

	return &FeedPage{
		Posts:       posts,
		Number:      page,
		TotalPages:  totalPages,
		HasPrevious: page > 1,
		HasNext:     page < totalPages,
	}, nil
}
