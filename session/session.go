package session

import (
	"fmt"
	"time"
)

// Session holds the server-side record for one logged-in client.
// This is the data stored in Redis under session:<session_id>.
type Session struct {
	SessionID string            `json:"session_id"`
	UserID    int64             `json:"user_id"`
	CreatedAt time.Time         `json:"created_at"`
	Data      map[string]string `json:"data,omitempty"`
}

func sessionKey(sessionID string) string {
	return fmt.Sprintf("session:%s", sessionID)
}

func indexKey(userID int64) string {
	return fmt.Sprintf("user_sessions:%d", userID)
}
