package models

import (
	"encoding/json"
	"time"
)

// Message types.
const (
	MessageTypeText  = "text"
	MessageTypePhoto = "photo"
)

// MessageDateLayout is the human-readable date recorded alongside the
// machine timestamp on every chat message.
const MessageDateLayout = "2006-01-02 15:04:05"

// Message is one entry in a pin's chat log. Messages are append-only: they
// are created by a user action and never mutated afterwards.
//
// Text messages carry Text; photo messages carry Path (storage-relative
// path of the copied photo), Filename and Caption.
type Message struct {
	Type         string `json:"type"`
	Text         string `json:"text,omitempty"`
	Path         string `json:"path,omitempty"`
	OriginalPath string `json:"original_path,omitempty"`
	Filename     string `json:"filename,omitempty"`
	Caption      string `json:"caption,omitempty"`
	Author       string `json:"author"`
	Timestamp    string `json:"timestamp"`
	Date         string `json:"date"`
}

// NewTextMessage builds a text message stamped with now.
func NewTextMessage(text, author string, now time.Time) Message {
	return Message{
		Type:      MessageTypeText,
		Text:      text,
		Author:    author,
		Timestamp: now.Format(time.RFC3339),
		Date:      now.Format(MessageDateLayout),
	}
}

// NewPhotoMessage builds a photo message stamped with now. path is the
// storage-relative location of the copied photo, originalPath the source the
// user attached.
func NewPhotoMessage(path, originalPath, filename, caption, author string, now time.Time) Message {
	return Message{
		Type:         MessageTypePhoto,
		Path:         path,
		OriginalPath: originalPath,
		Filename:     filename,
		Caption:      caption,
		Author:       author,
		Timestamp:    now.Format(time.RFC3339),
		Date:         now.Format(MessageDateLayout),
	}
}

// DecodeLegacyMessage interprets one element of a pin's inline chat list.
// Older projects stored either bare strings or full message objects; bare
// strings become text messages stamped with now.
func DecodeLegacyMessage(raw json.RawMessage, now time.Time) (Message, bool) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		m := NewTextMessage(s, "User", now)
		return m, true
	}
	var m Message
	if err := json.Unmarshal(raw, &m); err != nil {
		return Message{}, false
	}
	if m.Type == "" {
		m.Type = MessageTypeText
	}
	if m.Author == "" {
		m.Author = "User"
	}
	return m, true
}
