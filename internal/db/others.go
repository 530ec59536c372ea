package db

import "time"

// Other 保存关于、隐私政策、服务条款三个单页的段落。
type Other struct {
	ID          int64      `gorm:"column:id;primaryKey"`
	Title       string     `gorm:"column:Title;size:16;index"`
	SectionType *string    `gorm:"column:Section_type;size:32"`
	Content     *string    `gorm:"column:Content;type:text"`
	OrderNum    int64      `gorm:"column:OrderNum"`
	Updated     *time.Time `gorm:"column:UpdatedAt"`
}

func (Other) TableName() string { return "Others" }

// Script 是按分类注入前端的脚本片段。
type Script struct {
	ID             int64   `gorm:"column:id;primaryKey"`
	ScriptCategory string  `gorm:"column:ScriptCategory;size:64;index"`
	ScriptType     *string `gorm:"column:ScriptType"`
	ScriptContent  *string `gorm:"column:ScriptContent;type:text"`
}

func (Script) TableName() string { return "Scripts" }
