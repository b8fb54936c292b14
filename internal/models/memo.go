package models

import "time"

// Memo はタスクに付く進捗メモです。作成後は変更されません。
// 作成者が削除された場合 UserID と UserName は nil になります。
type Memo struct {
	ID        int       `json:"id"`
	TaskID    int       `json:"task_id"`
	UserID    *int      `json:"user_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UserName  *string   `json:"user_name"`
}

type MemoCreateRequest struct {
	Content string `json:"content"`
}
