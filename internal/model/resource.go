package model

import "time"

// Resource 对应于数据库中的 'resources' 表，是支持资源目录中的一条记录
// （危机热线、互助社区等）。目录为只读数据，服务启动时播种。
type Resource struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	URL         string    `gorm:"type:varchar(512)" json:"url"`
	Phone       string    `gorm:"type:varchar(50)" json:"phone"`
	Category    string    `gorm:"type:varchar(100)" json:"category"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

func (Resource) TableName() string {
	return "resources"
}
