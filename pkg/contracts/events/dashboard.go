package events

import "encoding/json"

// Payload publicado no canal "dashboard_updates_broadcast" e repassado ao WebSocket
type DashboardUpdate struct {
	UserID  string          `json:"userId"`
	Payload json.RawMessage `json:"payload"`
}
