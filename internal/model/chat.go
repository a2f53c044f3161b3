package model

import "time"

// RoomID uniquely identifies a chat room
type RoomID string

// Room is a group chat
type Room struct {
	ID        RoomID    `json:"id"`
	Name      string    `json:"name"`
	Private   bool      `json:"private"`
	CreatedBy UserID    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
}

// ChatMessage is a message sent to a room
type ChatMessage struct {
	ID       string    `json:"id"`
	RoomID   RoomID    `json:"room_id"`
	SenderID UserID    `json:"sender_id"`
	Content  string    `json:"content"`
	SentAt   time.Time `json:"sent_at"`
}

// PrivateMessage is a direct message between two users
type PrivateMessage struct {
	ID      string    `json:"id"`
	FromID  UserID    `json:"from_id"`
	ToID    UserID    `json:"to_id"`
	Content string    `json:"content"`
	SentAt  time.Time `json:"sent_at"`
}
