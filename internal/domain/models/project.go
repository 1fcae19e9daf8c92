package models

import (
	"time"

	"uigen/internal/domain/models/llm"
)

// Project is the persisted row shape. Messages and Data hold serialized JSON
// text: the empty transcript is "[]", the empty file-system snapshot is "{}".
type Project struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Name      string    `json:"name" db:"name"`
	Messages  string    `json:"messages" db:"messages"`
	Data      string    `json:"data" db:"data"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ProjectView is the structured read shape returned by Get. The owner id is
// intentionally omitted; ownership is enforced by the lookup itself.
type ProjectView struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Messages  []llm.Message          `json:"messages"`
	Data      map[string]interface{} `json:"data"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// ProjectSummary is the list shape. Messages and data are omitted for
// bandwidth.
type ProjectSummary struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
