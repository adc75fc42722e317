package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Image 是上传到图床后的图片引用。
type Image struct {
	URL      string `json:"url"`
	Alt      string `json:"alt,omitempty"`      // 原始文件名
	PublicID string `json:"publicId,omitempty"` // 图床侧的标识，删除时使用
}

// Post 表示一篇博客文章。
type Post struct {
	ID        string                     `gorm:"type:char(36);primaryKey" json:"id"`
	Title     string                     `gorm:"type:varchar(255);not null" json:"title"`
	Content   string                     `gorm:"type:text;not null" json:"content"`
	AuthorID  string                     `gorm:"type:char(36);index;not null" json:"authorId"` // 创建后不可修改
	Author    *User                      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Slug      string                     `gorm:"type:varchar(191);uniqueIndex:idx_slug;not null" json:"slug"`
	Published bool                       `gorm:"not null;default:false" json:"published"`
	Tags      datatypes.JSONSlice[string] `gorm:"type:json" json:"tags"`
	Images    datatypes.JSONSlice[Image]  `gorm:"type:json" json:"images"`
	CreatedAt time.Time                  `gorm:"autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time                  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// ImagePublicIDs 返回文章所有图片在图床上的标识。
func (p *Post) ImagePublicIDs() []string {
	return ImagePublicIDs(p.Images)
}

// ImagePublicIDs 收集图片的图床标识，跳过没有标识的图片。
func ImagePublicIDs(images []Image) []string {
	ids := make([]string, 0, len(images))
	for _, img := range images {
		if img.PublicID != "" {
			ids = append(ids, img.PublicID)
		}
	}
	return ids
}
