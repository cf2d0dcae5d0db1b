package audit

import "time"

type Entry struct {
	ID        string    `json:"id"`
	EventType string    `json:"event_type"`
	EntityID  string    `json:"entity_id"`
	ActorID   string    `json:"actor_id,omitempty"`
	Payload   []byte    `json:"payload"`
	CreatedAt time.Time `json:"created_at"`
}
