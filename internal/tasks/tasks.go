// Package tasks 定义后台任务的类型和 payload，以及投递任务的 Enqueuer。
package tasks

import (
	"encoding/json"
	"fmt"
)

// 定义任务类型常量
const (
	TypeImageCleanup = "image:cleanup" // 删除图床上不再被引用的图片
)

// ImageCleanupPayload 定义了图片清理任务的数据结构
type ImageCleanupPayload struct {
	PublicIDs []string `json:"publicIds"`
}

// NewImageCleanupPayload 序列化图片清理任务的 payload
func NewImageCleanupPayload(publicIDs []string) ([]byte, error) {
	if len(publicIDs) == 0 {
		return nil, fmt.Errorf("image cleanup payload needs at least one public id")
	}
	return json.Marshal(ImageCleanupPayload{PublicIDs: publicIDs})
}

// ParseImageCleanupPayload 反序列化图片清理任务的 payload
func ParseImageCleanupPayload(data []byte) (ImageCleanupPayload, error) {
	var payload ImageCleanupPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return payload, err
	}
	if len(payload.PublicIDs) == 0 {
		return payload, fmt.Errorf("image cleanup payload has no public ids")
	}
	return payload, nil
}
