package dto

import "time"

type BroadcastRequest struct {
	Title string `json:"title" binding:"required"`
	Body  string `json:"body" binding:"required"`
}

type BroadcastResponse struct {
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Message string `json:"message"`
}

type UnreadResponse struct {
	UnreadCount int       `json:"unread_count"`
	LastUpdated time.Time `json:"last_updated"`
}
