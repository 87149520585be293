package repository

import (
	"gorm.io/gorm"

	"village-go/internal/model"
)

// PostRepository 定义了故事与评论（posts 自引用表）的持久化操作。
type PostRepository interface {
	Create(post *model.Post) error
	FindByID(id uint) (*model.Post, error)
	// FindStories 返回顶层故事（post_id 为 NULL 的行），最新的在前。
	// tags 非空时按标签重叠过滤：任一请求标签出现在故事的 topic_tags 中即命中。
	FindStories(tags []string) ([]model.Post, error)
	// FindCommentsByPostID 返回一条故事下的全部评论（含回复），按时间升序。
	FindCommentsByPostID(postID uint) ([]model.Post, error)
	CountComments(postID uint) (int64, error)
	Update(post *model.Post) error
	// Delete 删除一条评论及其直接回复（只有一层嵌套）。
	Delete(id uint) error
}

// postRepository 是 PostRepository 接口的 GORM 实现。
type postRepository struct {
	db *gorm.DB
}

// NewPostRepository 创建一个新的 PostRepository 实例。
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

// Create 在数据库中创建一条故事或评论记录。
func (r *postRepository) Create(post *model.Post) error {
	return r.db.Create(post).Error
}

// FindByID 根据主键查找一条记录。
func (r *postRepository) FindByID(id uint) (*model.Post, error) {
	var post model.Post
	err := r.db.First(&post, id).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindStories 查询顶层故事列表，可选地按标签重叠过滤。
func (r *postRepository) FindStories(tags []string) ([]model.Post, error) {
	query := r.db.Where("post_id IS NULL")
	if len(tags) > 0 {
		// topic_tags 是 jsonb 字符串数组，jsonb_exists 等价于 ? 运算符；
		// 用 OR 链表达 overlaps 语义，避免占位符与 jsonb 运算符的冲突。
		cond := r.db.Where("jsonb_exists(topic_tags, ?)", tags[0])
		for _, tag := range tags[1:] {
			cond = cond.Or("jsonb_exists(topic_tags, ?)", tag)
		}
		query = query.Where(cond)
	}
	var posts []model.Post
	err := query.Order("created_at DESC").Find(&posts).Error
	return posts, err
}

// FindCommentsByPostID 查询一条故事下的全部评论。
func (r *postRepository) FindCommentsByPostID(postID uint) ([]model.Post, error) {
	var comments []model.Post
	err := r.db.Where("post_id = ?", postID).Order("created_at ASC").Find(&comments).Error
	return comments, err
}

// CountComments 统计一条故事下的评论数量（含回复）。
func (r *postRepository) CountComments(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.Post{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// Update 更新一条已存在的记录。
func (r *postRepository) Update(post *model.Post) error {
	return r.db.Save(post).Error
}

// Delete 删除一条评论及其直接回复。
func (r *postRepository) Delete(id uint) error {
	return r.db.Where("id = ? OR parent_comment_id = ?", id, id).Delete(&model.Post{}).Error
}
