// Package model 包含了应用的数据模型定义。
package model

import "time"

// User 对应于数据库中的 'profiles' 表，代表一个注册用户。
// 对外展示时使用派生的匿名笔名，而非用户名本身。
type User struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Username    string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"username"`
	Password    string    `gorm:"type:varchar(255);not null" json:"-"`
	DisplayName string    `gorm:"type:varchar(100)" json:"displayName"`
	Bio         string    `gorm:"type:text" json:"bio"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "profiles"
}
