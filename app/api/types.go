package api

import (
	"context"

	"technews/app/database"
)

// ChatClient is the conversational side of the classification capability,
// used by the article chat endpoint.
type ChatClient interface {
	Chat(ctx context.Context, system, user string) (string, error)
	Enabled() bool
}

type Handler struct {
	articles  database.ArticleRepository
	users     database.UserRepository
	bookmarks database.BookmarkRepository
	chat      ChatClient
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

type bookmarkRequest struct {
	ArticleID string `json:"article_id" binding:"required"`
}
