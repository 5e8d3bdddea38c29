package handler

import (
	"net/http"

	"campaign-app/brief-service/internal/services"
	"campaign-app/brief-service/internal/utils"

	"github.com/gin-gonic/gin"
)

type MessageHandler struct {
	service *services.MessageService
}

func NewMessageHandler(service *services.MessageService) *MessageHandler {
	return &MessageHandler{service: service}
}

type postMessageRequest struct {
	AuthorName  string `json:"author_name"`
	AuthorEmail string `json:"author_email"`
	Body        string `json:"body"`
	IsInternal  bool   `json:"is_internal"`
}

func (h *MessageHandler) PostMessage(c *gin.Context) {
	id, err := briefID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req postMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	// Внутренние заметки может оставлять только ревьювер
	isInternal := req.IsInternal && utils.IsReviewer(c)

	msg, err := h.service.PostMessage(c.Request.Context(), id, req.AuthorName, req.AuthorEmail, req.Body, isInternal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Message sent successfully!",
		"data":    msg,
	})
}

func (h *MessageHandler) GetMessages(c *gin.Context) {
	id, err := briefID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	includeInternal := utils.IsReviewer(c)

	messages, err := h.service.ListMessages(c.Request.Context(), id, includeInternal)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages})
}

func (h *MessageHandler) MarkAllRead(c *gin.Context) {
	id, err := briefID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.MarkAllRead(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Messages marked as read."})
}
