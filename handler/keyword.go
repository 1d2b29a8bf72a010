package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/AnTengye/lawassistant/model"
	"github.com/AnTengye/lawassistant/pkg/logger"
	"github.com/AnTengye/lawassistant/service"
	"github.com/gin-gonic/gin"
)

type KeywordStore interface {
	AddKeyword(ctx context.Context, keyword string) (*model.Keyword, error)
	ListKeywords(ctx context.Context) ([]model.Keyword, error)
	DeleteKeyword(ctx context.Context, id string) error
}

type KeywordHandler struct {
	store KeywordStore
}

func NewKeywordHandler(store KeywordStore) *KeywordHandler {
	return &KeywordHandler{store: store}
}

type KeywordRequest struct {
	Keyword string `json:"keyword" binding:"required"`
}

// Create adds a custom dangerous phrase
func (h *KeywordHandler) Create(c *gin.Context) {
	var req KeywordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Invalid request")
		return
	}

	kw, err := h.store.AddKeyword(c.Request.Context(), req.Keyword)
	if errors.Is(err, service.ErrEmptyKeyword) {
		respondError(c, http.StatusBadRequest, "Keyword must not be empty")
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to add keyword", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to save keyword")
		return
	}

	logger.Info(c.Request.Context(), "keyword added", "keyword_id", kw.ID)
	c.JSON(http.StatusOK, kw)
}

// List returns the custom phrases in insertion order
func (h *KeywordHandler) List(c *gin.Context) {
	keywords, err := h.store.ListKeywords(c.Request.Context())
	if err != nil {
		logger.Error(c.Request.Context(), "failed to list keywords", "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to load keywords")
		return
	}
	c.JSON(http.StatusOK, keywords)
}

func (h *KeywordHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	err := h.store.DeleteKeyword(c.Request.Context(), id)
	if errors.Is(err, service.ErrNotFound) {
		respondError(c, http.StatusNotFound, "Keyword not found")
		return
	}
	if err != nil {
		logger.Error(c.Request.Context(), "failed to delete keyword", "keyword_id", id, "error", err)
		respondError(c, http.StatusInternalServerError, "Failed to delete keyword")
		return
	}

	logger.Info(c.Request.Context(), "keyword deleted", "keyword_id", id)
	c.JSON(http.StatusOK, gin.H{"message": "Keyword deleted"})
}
