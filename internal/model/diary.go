package model

import "time"

// DiaryEntry 对应于数据库中的 'diary_entries' 表，是用户的私人日记。
// 日记只对作者本人可见。
type DiaryEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Title     string    `gorm:"type:varchar(255)" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Mood      string    `gorm:"type:varchar(50)" json:"mood"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (DiaryEntry) TableName() string {
	return "diary_entries"
}
