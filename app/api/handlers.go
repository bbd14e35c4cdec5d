package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"technews/app/cfg"
	"technews/app/database"
)

const (
	trendingLimit       = 5
	recommendationLimit = 5
)

func NewHandler(articles database.ArticleRepository, users database.UserRepository,
	bookmarks database.BookmarkRepository, chat ChatClient) *Handler {
	return &Handler{
		articles:  articles,
		users:     users,
		bookmarks: bookmarks,
		chat:      chat,
	}
}

func (h *Handler) GetRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Tech News Aggregator API is running"})
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := gin.H{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"version":   cfg.GetVersion(),
	}

	if count, err := h.articles.GetArticleCount(c.Request.Context()); err == nil {
		health["articles"] = count
	}

	c.JSON(http.StatusOK, health)
}

// GetNews serves filtered article lists. An omitted or "All Categories"
// category means no category constraint.
func (h *Handler) GetNews(c *gin.Context) {
	filter := database.SearchFilter{
		Query:      c.Query("query"),
		Category:   c.Query("category"),
		DateFilter: c.Query("date_filter"),
	}
	if filter.Category == "All Categories" {
		filter.Category = ""
	}

	articles, err := h.articles.Search(c.Request.Context(), filter)
	if err != nil {
		slog.Error("Database error", "operation", "search_articles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if articles == nil {
		articles = []database.Article{}
	}
	c.JSON(http.StatusOK, articles)
}

func (h *Handler) GetTrending(c *gin.Context) {
	counts, err := h.articles.Trending(c.Request.Context(), trendingLimit)
	if err != nil {
		slog.Error("Database error", "operation", "trending", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, counts)
}

func (h *Handler) GetRecommendations(c *gin.Context) {
	article, ok := h.lookupArticle(c)
	if !ok {
		return
	}

	recommendations, err := h.articles.RecommendationsFor(c.Request.Context(), *article, recommendationLimit)
	if err != nil {
		slog.Error("Database error", "operation", "recommendations", "article_id", article.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if recommendations == nil {
		recommendations = []database.Article{}
	}
	c.JSON(http.StatusOK, recommendations)
}

// PostChat answers one user message grounded in the article's extracted
// content.
func (h *Handler) PostChat(c *gin.Context) {
	if !h.chat.Enabled() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "AI assistant is not available at this time"})
		return
	}

	article, ok := h.lookupArticle(c)
	if !ok {
		return
	}

	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing chat message"})
		return
	}

	system := fmt.Sprintf("You are a helpful and knowledgeable AI assistant. Your responses should be based "+
		"on the provided news article content. Be concise and conversational. "+
		"The article is titled '%s' and its content is:\n\n---\n%s\n---", article.Title, article.Content)

	response, err := h.chat.Chat(c.Request.Context(), system, req.Message)
	if err != nil {
		slog.Error("Chat request failed", "article_id", article.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "AI assistant error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"response": response})
}

func (h *Handler) PostSignup(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		slog.Error("Password hashing failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	_, err = h.users.Create(c.Request.Context(), req.Username, string(hash))
	if errors.Is(err, database.ErrUsernameTaken) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username already registered"})
		return
	}
	if err != nil {
		slog.Error("Database error", "operation", "create_user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User created successfully"})
}

func (h *Handler) PostLogin(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and password are required"})
		return
	}

	user, err := h.users.GetByUsername(c.Request.Context(), req.Username)
	if err != nil {
		slog.Error("Database error", "operation", "get_user", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Incorrect username or password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user_id": user.ID})
}

func (h *Handler) PostBookmark(c *gin.Context) {
	user := currentUser(c)

	var req bookmarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing article_id"})
		return
	}

	article, err := h.articles.GetByID(c.Request.Context(), req.ArticleID)
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return
	}

	if err := h.bookmarks.Add(c.Request.Context(), user.ID, article.ID); err != nil {
		slog.Error("Database error", "operation", "add_bookmark", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Article saved successfully"})
}

func (h *Handler) GetBookmarks(c *gin.Context) {
	user := currentUser(c)

	articles, err := h.bookmarks.ListForUser(c.Request.Context(), user.ID)
	if err != nil {
		slog.Error("Database error", "operation", "list_bookmarks", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if articles == nil {
		articles = []database.Article{}
	}
	c.JSON(http.StatusOK, articles)
}

func (h *Handler) lookupArticle(c *gin.Context) (*database.Article, bool) {
	id := c.Param("id")
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing article id"})
		return nil, false
	}

	article, err := h.articles.GetByID(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "get_article", "article_id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return nil, false
	}
	if article == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Article not found"})
		return nil, false
	}

	return article, true
}

func currentUser(c *gin.Context) *database.User {
	return c.MustGet("user").(*database.User)
}
