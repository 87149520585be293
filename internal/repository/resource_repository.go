package repository

import (
	"gorm.io/gorm"

	"village-go/internal/model"
)

// ResourceRepository 定义了支持资源目录的持久化操作。
type ResourceRepository interface {
	FindAll() ([]model.Resource, error)
	Count() (int64, error)
	Create(resource *model.Resource) error
}

// resourceRepository 是 ResourceRepository 接口的 GORM 实现。
type resourceRepository struct {
	db *gorm.DB
}

// NewResourceRepository 创建一个新的 ResourceRepository 实例。
func NewResourceRepository(db *gorm.DB) ResourceRepository {
	return &resourceRepository{db: db}
}

// FindAll 返回目录中的全部资源，按分类与名称排序。
func (r *resourceRepository) FindAll() ([]model.Resource, error) {
	var resources []model.Resource
	err := r.db.Order("category ASC, name ASC").Find(&resources).Error
	return resources, err
}

// Count 统计目录中的资源数量，用于启动播种时的幂等检查。
func (r *resourceRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&model.Resource{}).Count(&count).Error
	return count, err
}

// Create 创建一条资源记录。
func (r *resourceRepository) Create(resource *model.Resource) error {
	return r.db.Create(resource).Error
}
