package dto

import (
	"time"

	"github.com/google/uuid"
)

type NotificationResponse struct {
	ID          uuid.UUID `json:"id"`
	Kind        string    `json:"kind"`
	ReferenceID uuid.UUID `json:"reference_id"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	Unread        int                    `json:"unread"`
}

type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
