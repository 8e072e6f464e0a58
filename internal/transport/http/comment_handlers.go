package httptransport

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"blog-server-go/internal/domain/comment"
	"blog-server-go/internal/domain/model"
	"blog-server-go/internal/domain/post"
	"blog-server-go/internal/platform/logging"
)

const maxCommentLength = 1000

type CommentHandler struct {
	comments *comment.Repository
	posts    *post.Repository
	logger   *logging.Logger
}

func NewCommentHandler(comments *comment.Repository, posts *post.Repository, logger *logging.Logger) *CommentHandler {
	return &CommentHandler{
		comments: comments,
		posts:    posts,
		logger:   logger,
	}
}

func (h *CommentHandler) RegisterRoutes(router *Router, requireAuth gin.HandlerFunc) {
	router.API.POST("/comments", requireAuth, h.Create)
	router.API.GET("/posts/:id/comments", h.ListByPost)
}

type commentRequest struct {
	PostID  uint   `json:"postId"`
	Content string `json:"content"`
}

func (h *CommentHandler) Create(c *gin.Context) {
	authorID, _ := AccountID(c)

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if req.Content == "" || len(req.Content) > maxCommentLength {
		c.JSON(http.StatusBadRequest,
			gin.H{"message": "comment must be between 1 and 1000 characters"})
		return
	}

	p, err := h.posts.Get(c.Request.Context(), req.PostID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if p == nil {
		c.JSON(http.StatusNotFound, gin.H{"message": "post not found"})
		return
	}

	cm := &model.Comment{
		PostID:   req.PostID,
		Content:  req.Content,
		AuthorID: authorID,
	}
	if err := h.comments.Create(c.Request.Context(), cm); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, cm)
}

func (h *CommentHandler) ListByPost(c *gin.Context) {
	id, ok := paramUint(c, "id")
	if !ok {
		return
	}

	comments, err := h.comments.ListByPost(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}
