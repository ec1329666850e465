// Package rebuild 消费预生成任务事件，重建热点 Feed 页面并写回缓存。
package rebuild

import (
	"encoding/json"
	"fmt"

	"github.com/bionicotaku/lingo-services-feed/internal/services"
)

// decoder 实现 inbox.Decoder 接口，解析 Outbox 发布的预生成事件。
type decoder struct{}

func newDecoder() *decoder {
	return &decoder{}
}

// Decode 解析事件载荷。
func (d *decoder) Decode(data []byte) (*services.RebuildEvent, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("rebuild: empty payload")
	}
	var evt services.RebuildEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("rebuild: unmarshal event: %w", err)
	}
	return &evt, nil
}
