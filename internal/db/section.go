package db

// Section 是文章正文中的文字段落（para/head/anchor）。
type Section struct {
	ID          int64   `gorm:"column:id;primaryKey"`
	PostID      int64   `gorm:"column:Post_id;index"`
	SectionType *string `gorm:"column:SectionType;size:32"`
	AnchorLink  *string `gorm:"column:AnchorLink"`
	Content     *string `gorm:"column:Content;type:text"`
	OrderNumber *int64  `gorm:"column:OrderNumber"`
}

func (Section) TableName() string { return "Sections" }

// Image 同时保存封面图（Featuring_Image）与正文插图（Img）。
type Image struct {
	ID          int64   `gorm:"column:id;primaryKey"`
	PostID      int64   `gorm:"column:Post_id;index"`
	SectionType *string `gorm:"column:SectionType;size:32"`
	ImgPath     *string `gorm:"column:ImgPath"`
	ImgAlt      *string `gorm:"column:ImgAlt"`
	ImgOrderNum *int64  `gorm:"column:ImgOrderNum"`
}

func (Image) TableName() string { return "Images" }

// BlogTable 的表头以逗号拼接，行数据为 JSON。
type BlogTable struct {
	ID           int64   `gorm:"column:id;primaryKey"`
	PostID       int64   `gorm:"column:Post_id;index"`
	Headers      *string `gorm:"column:Headers"`
	TableContent *string `gorm:"column:Table_content;type:text"`
	OrderNum     *int64  `gorm:"column:OrderNum"`
}

func (BlogTable) TableName() string { return "BlogTables" }

// Qna 的 id 只在单篇文章内唯一。
type Qna struct {
	ID     int64   `gorm:"column:id;primaryKey;autoIncrement:false"`
	PostID int64   `gorm:"column:Post_id;primaryKey;autoIncrement:false"`
	Que    *string `gorm:"column:Que;type:text"`
	Ans    *string `gorm:"column:Ans;type:text"`
}

func (Qna) TableName() string { return "Qna" }
