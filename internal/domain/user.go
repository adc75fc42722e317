// Package domain 定义了博客平台的核心实体 (同时也是数据库模型)。
package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Role 表示用户角色。
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid 判断角色是否为已知取值。
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User 表示平台用户。
type User struct {
	ID        string            `gorm:"type:char(36);primaryKey" json:"id"`
	Email     string            `gorm:"type:varchar(191);uniqueIndex:idx_email;not null" json:"email"`
	Username  string            `gorm:"type:varchar(100)" json:"username,omitempty"`
	Password  string            `gorm:"type:text;not null" json:"-"` // bcrypt 哈希，永不序列化
	Role      Role              `gorm:"type:varchar(20);not null;default:'user'" json:"role"`
	Profile   datatypes.JSONMap `gorm:"type:json" json:"profile,omitempty"` // 注册时附带的其他资料字段
	CreatedAt time.Time         `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time         `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Identity 是经过认证的调用方，由访问控制中间件从 token 中解析得到。
type Identity struct {
	UserID string
	Role   Role
}

// IsAdmin 判断调用方是否为管理员。
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// Owns 判断调用方是否为给定作者 ID 的所有者。
func (i Identity) Owns(authorID string) bool {
	return i.UserID != "" && i.UserID == authorID
}
