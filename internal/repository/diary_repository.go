package repository

import (
	"gorm.io/gorm"

	"village-go/internal/model"
)

// DiaryRepository 定义了私人日记的持久化操作。
type DiaryRepository interface {
	Create(entry *model.DiaryEntry) error
	FindByID(id uint) (*model.DiaryEntry, error)
	// FindByUserID 返回某个用户的全部日记，最新的在前。
	FindByUserID(userID uint) ([]model.DiaryEntry, error)
	Update(entry *model.DiaryEntry) error
	Delete(id uint) error
}

// diaryRepository 是 DiaryRepository 接口的 GORM 实现。
type diaryRepository struct {
	db *gorm.DB
}

// NewDiaryRepository 创建一个新的 DiaryRepository 实例。
func NewDiaryRepository(db *gorm.DB) DiaryRepository {
	return &diaryRepository{db: db}
}

// Create 创建一篇日记。
func (r *diaryRepository) Create(entry *model.DiaryEntry) error {
	return r.db.Create(entry).Error
}

// FindByID 根据主键查找一篇日记。
func (r *diaryRepository) FindByID(id uint) (*model.DiaryEntry, error) {
	var entry model.DiaryEntry
	err := r.db.First(&entry, id).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindByUserID 查询某个用户的全部日记。
func (r *diaryRepository) FindByUserID(userID uint) ([]model.DiaryEntry, error) {
	var entries []model.DiaryEntry
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&entries).Error
	return entries, err
}

// Update 更新一篇已存在的日记。
func (r *diaryRepository) Update(entry *model.DiaryEntry) error {
	return r.db.Save(entry).Error
}

// Delete 删除一篇日记。
func (r *diaryRepository) Delete(id uint) error {
	return r.db.Delete(&model.DiaryEntry{}, id).Error
}
