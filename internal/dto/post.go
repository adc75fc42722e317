package dto

import (
	"math"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	DefaultSort  = "-createdAt"
)

// sortableFields 把对外暴露的排序字段映射到数据库列名。
var sortableFields = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"title":     "title",
	"slug":      "slug",
}

// ListPostsQuery 是 GET /post 的原始查询参数，全部按字符串接收，由 Normalize 负责容错解析。
type ListPostsQuery struct {
	Page   string `form:"page"`
	Limit  string `form:"limit"`
	Q      string `form:"q"`
	Tag    string `form:"tag"`
	Author string `form:"author"`
	Sort   string `form:"sort"`
}

// SortField 是一个排序项。
type SortField struct {
	Column string
	Desc   bool
}

// PostFilter 是规范化后的文章列表查询条件。
type PostFilter struct {
	Page      int
	Limit     int
	Query     string
	Tag       string
	AuthorID  string
	Sort      []SortField
	Published *bool // nil 表示不过滤
}

// Offset 返回分页偏移量。
func (f PostFilter) Offset() int {
	return (f.Page - 1) * f.Limit
}

// Normalize 解析查询参数。published 单独传入，因为需要区分“未提供”和“提供了但为空”。
func (q ListPostsQuery) Normalize(published string, publishedSet bool) PostFilter {
	page, limit := NormalizePage(q.Page, q.Limit)
	f := PostFilter{
		Page:     page,
		Limit:    limit,
		Query:    strings.TrimSpace(q.Q),
		Tag:      strings.TrimSpace(q.Tag),
		AuthorID: strings.TrimSpace(q.Author),
		Sort:     ParseSort(q.Sort),
	}
	if publishedSet {
		v := published == "true"
		f.Published = &v
	}
	return f
}

// NormalizePage 解析 page/limit：page 默认 1 且不小于 1；limit 默认 10，限制在 [1,100]。
func NormalizePage(rawPage, rawLimit string) (int, int) {
	page, err := strconv.Atoi(strings.TrimSpace(rawPage))
	if err != nil || page == 0 {
		page = DefaultPage
	}
	if page < 1 {
		page = 1
	}

	limit, err := strconv.Atoi(strings.TrimSpace(rawLimit))
	if err != nil || limit == 0 {
		limit = DefaultLimit
	}
	if limit < 1 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// ParseSort 解析形如 "-createdAt,title" 的排序描述，忽略未知字段。
func ParseSort(raw string) []SortField {
	var fields []SortField
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		desc := strings.HasPrefix(part, "-")
		part = strings.TrimPrefix(part, "-")
		column, ok := sortableFields[part]
		if !ok {
			continue
		}
		fields = append(fields, SortField{Column: column, Desc: desc})
	}
	if len(fields) == 0 && raw != DefaultSort {
		return ParseSort(DefaultSort)
	}
	return fields
}

// Pagination 是列表响应中的分页信息。
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int   `json:"pages"`
}

// NewPagination 计算总页数 ceil(total/limit)。
func NewPagination(page, limit int, total int64) Pagination {
	pages := 0
	if limit > 0 {
		pages = int(math.Ceil(float64(total) / float64(limit)))
	}
	return Pagination{Page: page, Limit: limit, Total: total, Pages: pages}
}
