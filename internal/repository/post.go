package repository

import (
	"context"

	"gamerhub/internal/models"
	"gamerhub/internal/observability"

	"gorm.io/gorm"
)

// PostRepository defines the interface for post data operations
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id uint) (*models.Post, error)
	List(ctx context.Context) ([]*models.Post, error)
	ListByGame(ctx context.Context, game models.GameType) ([]*models.Post, error)
	ListByUser(ctx context.Context, userID uint) ([]*models.Post, error)
	ListFollowing(ctx context.Context, followerID uint) ([]*models.Post, error)
	Update(ctx context.Context, post *models.Post) error
	Delete(ctx context.Context, id uint) error
}

// postRepository implements PostRepository
type postRepository struct {
	db  *gorm.DB
	log *observability.RepoLogger
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db, log: observability.NewRepoLogger("posts")}
}

func (r *postRepository) Create(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("insert", "posts")()

	if err := r.db.WithContext(ctx).Omit("User", "GameRanking").Create(post).Error; err != nil {
		r.log.LogError(ctx, err, "create")
		return models.NewInternalError(err)
	}
	r.log.LogCreate(ctx, map[string]interface{}{"post_id": post.ID, "game_type": post.GameType})
	return nil
}

func (r *postRepository) GetByID(ctx context.Context, id uint) (*models.Post, error) {
	defer observability.TrackQuery("select", "posts")()

	var post models.Post
	if err := r.withDetails(r.db.WithContext(ctx)).First(&post, id).Error; err != nil {
		return nil, translate(err, "Post", id)
	}
	if err := r.attachRecentComments(ctx, []*models.Post{&post}); err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) List(ctx context.Context) ([]*models.Post, error) {
	return r.find(ctx, func(db *gorm.DB) *gorm.DB { return db })
}

func (r *postRepository) ListByGame(ctx context.Context, game models.GameType) ([]*models.Post, error) {
	return r.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.game_type = ?", game)
	})
}

func (r *postRepository) ListByUser(ctx context.Context, userID uint) ([]*models.Post, error) {
	return r.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.user_id = ?", userID)
	})
}

func (r *postRepository) ListFollowing(ctx context.Context, followerID uint) ([]*models.Post, error) {
	return r.find(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("posts.user_id IN (?)",
			r.db.Model(&models.Follow{}).Select("following_id").Where("follower_id = ?", followerID))
	})
}

func (r *postRepository) Update(ctx context.Context, post *models.Post) error {
	defer observability.TrackQuery("update", "posts")()

	err := r.db.WithContext(ctx).Model(&models.Post{ID: post.ID}).
		Updates(map[string]interface{}{"content": post.Content}).Error
	if err != nil {
		r.log.LogError(ctx, err, "update")
		return models.NewInternalError(err)
	}
	r.log.LogUpdate(ctx, map[string]interface{}{"post_id": post.ID})
	return nil
}

// Delete removes the post and its comments.
func (r *postRepository) Delete(ctx context.Context, id uint) error {
	defer observability.TrackQuery("delete", "posts")()

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		r.log.LogError(ctx, err, "delete")
		return translate(err, "Post", id)
	}
	r.log.LogDelete(ctx, map[string]interface{}{"post_id": id})
	return nil
}

func (r *postRepository) find(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*models.Post, error) {
	defer observability.TrackQuery("select", "posts")()

	posts := []*models.Post{}
	err := scope(r.withDetails(r.db.WithContext(ctx))).
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Find(&posts).Error
	if err != nil {
		r.log.LogError(ctx, err, "list")
		return nil, models.NewInternalError(err)
	}
	if err := r.attachRecentComments(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) withDetails(db *gorm.DB) *gorm.DB {
	return db.Model(&models.Post{}).
		Select("posts.*, (SELECT COUNT(*) FROM comments WHERE comments.post_id = posts.id AND comments.deleted_at IS NULL) AS comment_count").
		Preload("User").
		Preload("GameRanking")
}

// attachRecentComments fills RecentComments with up to RecentCommentLimit
// comments per post, newest first.
func (r *postRepository) attachRecentComments(ctx context.Context, posts []*models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uint, 0, len(posts))
	byID := make(map[uint]*models.Post, len(posts))
	for _, p := range posts {
		ids = append(ids, p.ID)
		byID[p.ID] = p
	}

	defer observability.TrackQuery("select_recent", "comments")()

	ranked := r.db.Model(&models.Comment{}).
		Select("comments.*, ROW_NUMBER() OVER (PARTITION BY comments.post_id ORDER BY comments.created_at DESC, comments.id DESC) AS recent_rank").
		Where("comments.post_id IN ?", ids)

	var comments []models.Comment
	err := r.db.WithContext(ctx).Table("(?) AS comments", ranked).
		Preload("User").
		Where("recent_rank <= ?", models.RecentCommentLimit).
		Order("post_id").
		Order("recent_rank").
		Find(&comments).Error
	if err != nil {
		r.log.LogError(ctx, err, "recent_comments")
		return models.NewInternalError(err)
	}
	for _, c := range comments {
		if p, ok := byID[c.PostID]; ok {
			p.RecentComments = append(p.RecentComments, c)
		}
	}
	return nil
}
