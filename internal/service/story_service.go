package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"village-go/internal/derive"
	"village-go/internal/model"
	"village-go/internal/repository"
	"village-go/pkg/log"
)

// ErrNotOwner 表示当前用户不是目标内容的作者。
var ErrNotOwner = errors.New("not the author of this content")

// ErrInvalidParent 表示评论的父级引用不合法（不属于同一故事，或嵌套超过一层）。
var ErrInvalidParent = errors.New("invalid parent comment reference")

// StoryService 定义了故事、评论与收藏的业务操作。
type StoryService interface {
	CreateStory(userID uint, title, content string, tags []string) (*model.Story, error)
	// ListStories 返回顶层故事的派生视图列表，可选按标签过滤。
	ListStories(tags []string) ([]model.Story, error)
	GetStory(id uint) (*model.Story, []model.CommentView, error)
	AddComment(userID, postID uint, parentCommentID *uint, content string) (*model.CommentView, error)
	UpdateComment(userID, commentID uint, content string) error
	DeleteComment(userID, commentID uint) error
	// ToggleFavorite 切换收藏状态，返回切换后的状态与最新收藏数。
	ToggleFavorite(userID, postID uint) (favorited bool, count int64, err error)
	ListFavorites(userID uint) ([]model.Story, error)
}

type storyService struct {
	postRepo     repository.PostRepository
	favoriteRepo repository.FavoriteRepository
}

// NewStoryService 创建一个新的 StoryService 实例。
func NewStoryService(postRepo repository.PostRepository, favoriteRepo repository.FavoriteRepository) StoryService {
	return &storyService{
		postRepo:     postRepo,
		favoriteRepo: favoriteRepo,
	}
}

// CreateStory 创建一条顶层故事并返回其派生视图。
func (s *storyService) CreateStory(userID uint, title, content string, tags []string) (*model.Story, error) {
	post := &model.Post{
		UserID:    userID,
		Title:     title,
		Content:   content,
		TopicTags: encodeTags(tags),
	}
	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("failed to create story: %w", err)
	}
	story := s.toStory(post, 0, 0)
	return &story, nil
}

// ListStories 查询故事列表并为每条故事计算派生字段与计数。
func (s *storyService) ListStories(tags []string) ([]model.Story, error) {
	posts, err := s.postRepo.FindStories(tags)
	if err != nil {
		return nil, fmt.Errorf("failed to list stories: %w", err)
	}
	stories := make([]model.Story, 0, len(posts))
	for i := range posts {
		commentCount, err := s.postRepo.CountComments(posts[i].ID)
		if err != nil {
			// 计数失败不应让整个列表不可用
			log.Warnf("failed to count comments for post %d: %v", posts[i].ID, err)
		}
		favoriteCount, err := s.favoriteRepo.CountForPost(posts[i].ID)
		if err != nil {
			log.Warnf("failed to count favorites for post %d: %v", posts[i].ID, err)
		}
		stories = append(stories, s.toStory(&posts[i], commentCount, favoriteCount))
	}
	return stories, nil
}

// GetStory 返回一条故事的派生视图与评论树（回复只有一层嵌套）。
func (s *storyService) GetStory(id uint) (*model.Story, []model.CommentView, error) {
	post, err := s.postRepo.FindByID(id)
	if err != nil {
		return nil, nil, err
	}
	if post.PostID != nil {
		// 评论行不是故事
		return nil, nil, gorm.ErrRecordNotFound
	}

	comments, err := s.postRepo.FindCommentsByPostID(post.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load comments: %w", err)
	}
	favoriteCount, err := s.favoriteRepo.CountForPost(post.ID)
	if err != nil {
		log.Warnf("failed to count favorites for post %d: %v", post.ID, err)
	}

	story := s.toStory(post, int64(len(comments)), favoriteCount)
	return &story, buildCommentTree(comments), nil
}

// AddComment 为一条故事创建评论或回复。
func (s *storyService) AddComment(userID, postID uint, parentCommentID *uint, content string) (*model.CommentView, error) {
	story, err := s.postRepo.FindByID(postID)
	if err != nil {
		return nil, err
	}
	if story.PostID != nil {
		return nil, gorm.ErrRecordNotFound
	}

	if parentCommentID != nil {
		parent, err := s.postRepo.FindByID(*parentCommentID)
		if err != nil {
			return nil, ErrInvalidParent
		}
		// 父级必须是同一故事下的评论，且自己不能再是回复（只允许一层嵌套）
		if parent.PostID == nil || *parent.PostID != postID || parent.ParentCommentID != nil {
			return nil, ErrInvalidParent
		}
	}

	comment := &model.Post{
		UserID:          userID,
		PostID:          &postID,
		ParentCommentID: parentCommentID,
		Content:         content,
	}
	if err := s.postRepo.Create(comment); err != nil {
		return nil, fmt.Errorf("failed to create comment: %w", err)
	}
	view := toCommentView(comment)
	return &view, nil
}

// UpdateComment 更新一条评论的内容，只有作者本人可以操作。
func (s *storyService) UpdateComment(userID, commentID uint, content string) error {
	comment, err := s.postRepo.FindByID(commentID)
	if err != nil {
		return err
	}
	if comment.PostID == nil {
		return gorm.ErrRecordNotFound
	}
	if comment.UserID != userID {
		return ErrNotOwner
	}
	comment.Content = content
	return s.postRepo.Update(comment)
}

// DeleteComment 删除一条评论及其回复，只有作者本人可以操作。
func (s *storyService) DeleteComment(userID, commentID uint) error {
	comment, err := s.postRepo.FindByID(commentID)
	if err != nil {
		return err
	}
	if comment.PostID == nil {
		return gorm.ErrRecordNotFound
	}
	if comment.UserID != userID {
		return ErrNotOwner
	}
	return s.postRepo.Delete(commentID)
}

// ToggleFavorite 切换用户对一条故事的收藏状态。
// 认证检查发生在进入本方法之前，未认证的请求不会产生任何状态变化。
func (s *storyService) ToggleFavorite(userID, postID uint) (bool, int64, error) {
	post, err := s.postRepo.FindByID(postID)
	if err != nil {
		return false, 0, err
	}
	if post.PostID != nil {
		return false, 0, gorm.ErrRecordNotFound
	}

	var favorited bool
	_, err = s.favoriteRepo.Find(userID, postID)
	switch {
	case err == nil:
		if err := s.favoriteRepo.Delete(userID, postID); err != nil {
			return false, 0, fmt.Errorf("failed to remove favorite: %w", err)
		}
		favorited = false
	case errors.Is(err, gorm.ErrRecordNotFound):
		favorite := &model.UserFavorite{UserID: userID, PostID: postID}
		if err := s.favoriteRepo.Create(favorite); err != nil {
			return false, 0, fmt.Errorf("failed to add favorite: %w", err)
		}
		favorited = true
	default:
		return false, 0, err
	}

	count, err := s.favoriteRepo.CountForPost(postID)
	if err != nil {
		return favorited, 0, fmt.Errorf("failed to count favorites: %w", err)
	}
	return favorited, count, nil
}

// ListFavorites 返回用户收藏的全部故事视图，最近收藏的在前。
func (s *storyService) ListFavorites(userID uint) ([]model.Story, error) {
	postIDs, err := s.favoriteRepo.FindPostIDsByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list favorites: %w", err)
	}
	stories := make([]model.Story, 0, len(postIDs))
	for _, postID := range postIDs {
		post, err := s.postRepo.FindByID(postID)
		if err != nil {
			// 故事可能已被删除，跳过悬挂的收藏记录
			continue
		}
		commentCount, _ := s.postRepo.CountComments(post.ID)
		favoriteCount, _ := s.favoriteRepo.CountForPost(post.ID)
		stories = append(stories, s.toStory(post, commentCount, favoriteCount))
	}
	return stories, nil
}

// toStory 从原始 posts 行计算派生视图。
func (s *storyService) toStory(post *model.Post, commentCount, favoriteCount int64) model.Story {
	tags := decodeTags(post.TopicTags)
	return model.Story{
		ID:            post.ID,
		Title:         derive.GenerateTitle(post.Content, post.Title),
		Author:        authorHandle(post.UserID),
		Excerpt:       derive.GenerateExcerpt(post.Content),
		Content:       post.Content,
		Tags:          tags,
		Themes:        derive.MapTopicTagsToThemes(tags),
		ReadTime:      derive.CalculateReadTime(post.Content),
		DatePosted:    post.CreatedAt,
		CommentCount:  commentCount,
		FavoriteCount: favoriteCount,
	}
}

// buildCommentTree 将扁平的评论行组装成一层嵌套的评论树。
func buildCommentTree(comments []model.Post) []model.CommentView {
	views := make([]model.CommentView, 0, len(comments))
	for i := range comments {
		if comments[i].ParentCommentID == nil {
			views = append(views, toCommentView(&comments[i]))
		}
	}
	for i := range comments {
		if comments[i].ParentCommentID == nil {
			continue
		}
		for j := range views {
			if views[j].ID == *comments[i].ParentCommentID {
				views[j].Replies = append(views[j].Replies, toCommentView(&comments[i]))
				break
			}
		}
	}
	return views
}

func toCommentView(comment *model.Post) model.CommentView {
	return model.CommentView{
		ID:        comment.ID,
		Author:    authorHandle(comment.UserID),
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
	}
}

// authorHandle 为一个用户 ID 派生对外展示的匿名笔名。
func authorHandle(userID uint) string {
	return derive.GenerateUsername(strconv.FormatUint(uint64(userID), 10))
}

// decodeTags 将 jsonb 列解码为字符串切片；空值或损坏的值按无标签处理。
func decodeTags(raw datatypes.JSON) []string {
	if len(raw) == 0 {
		return nil
	}
	var tags []string
	if err := json.Unmarshal(raw, &tags); err != nil {
		return nil
	}
	return tags
}

// encodeTags 将标签切片编码为 jsonb 列的值。
func encodeTags(tags []string) datatypes.JSON {
	if tags == nil {
		tags = []string{}
	}
	data, _ := json.Marshal(tags)
	return datatypes.JSON(data)
}
