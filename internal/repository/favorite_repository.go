package repository

import (
	"gorm.io/gorm"

	"village-go/internal/model"
)

// FavoriteRepository 定义了用户收藏的持久化操作。
type FavoriteRepository interface {
	Find(userID, postID uint) (*model.UserFavorite, error)
	Create(favorite *model.UserFavorite) error
	Delete(userID, postID uint) error
	CountForPost(postID uint) (int64, error)
	// FindPostIDsByUser 返回用户收藏的故事 ID，最近收藏的在前。
	FindPostIDsByUser(userID uint) ([]uint, error)
}

// favoriteRepository 是 FavoriteRepository 接口的 GORM 实现。
type favoriteRepository struct {
	db *gorm.DB
}

// NewFavoriteRepository 创建一个新的 FavoriteRepository 实例。
func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Find 查找某个用户对某条故事的收藏记录。
func (r *favoriteRepository) Find(userID, postID uint) (*model.UserFavorite, error) {
	var favorite model.UserFavorite
	err := r.db.Where("user_id = ? AND post_id = ?", userID, postID).First(&favorite).Error
	if err != nil {
		return nil, err
	}
	return &favorite, nil
}

// Create 创建一条收藏记录。
func (r *favoriteRepository) Create(favorite *model.UserFavorite) error {
	return r.db.Create(favorite).Error
}

// Delete 删除一条收藏记录；记录不存在时不报错。
func (r *favoriteRepository) Delete(userID, postID uint) error {
	return r.db.Where("user_id = ? AND post_id = ?", userID, postID).Delete(&model.UserFavorite{}).Error
}

// CountForPost 统计一条故事的收藏数量。
func (r *favoriteRepository) CountForPost(postID uint) (int64, error) {
	var count int64
	err := r.db.Model(&model.UserFavorite{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

// FindPostIDsByUser 返回用户收藏的全部故事 ID。
func (r *favoriteRepository) FindPostIDsByUser(userID uint) ([]uint, error) {
	var postIDs []uint
	err := r.db.Model(&model.UserFavorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Pluck("post_id", &postIDs).Error
	return postIDs, err
}
