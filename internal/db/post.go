package db

import "time"

// Post 对应 Posts 表，id 由编辑端指定。
type Post struct {
	ID              int64      `gorm:"column:id;primaryKey;autoIncrement:false"`
	Title           *string    `gorm:"column:Title"`
	Category        *string    `gorm:"column:Category"`
	MetaTitle       *string    `gorm:"column:MetaTitle"`
	MetaDescription *string    `gorm:"column:MetaDescription"`
	Permalink       *string    `gorm:"column:Permalink;size:255;uniqueIndex"`
	Keywords        *string    `gorm:"column:Keywords"`
	RelatedPosts    *string    `gorm:"column:RelatedPosts"`
	NumOfEntries    *int64     `gorm:"column:NumOfEntries"`
	PublishingDate  *time.Time `gorm:"column:PublishingDate"`
}

// TableName 保持与既有库一致的表名。
func (Post) TableName() string { return "Posts" }
