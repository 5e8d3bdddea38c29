package handler

import (
	"net/http"

	"campaign-app/brief-service/internal/models"
	"campaign-app/brief-service/internal/services"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BriefHandler struct {
	service services.BriefService
}

func NewBriefHandler(service services.BriefService) *BriefHandler {
	return &BriefHandler{service: service}
}

type briefRequest struct {
	Title        string              `json:"title"`
	ServiceLevel models.ServiceLevel `json:"service_level"`
	Fields       bson.M              `json:"fields"`
}

type acceptRequest struct {
	AcceptorName  string `json:"acceptor_name"`
	AcceptorEmail string `json:"acceptor_email"`
}

type statusRequest struct {
	Status models.WorkflowStatus `json:"status"`
}

func briefID(c *gin.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return primitive.NilObjectID, models.ErrInvalidID
	}
	return id, nil
}

func (h *BriefHandler) CreateBrief(c *gin.Context) {
	var req briefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	brief := &models.Brief{
		Title:        req.Title,
		ServiceLevel: req.ServiceLevel,
		Fields:       req.Fields,
	}
	if err := h.service.CreateBrief(c.Request.Context(), brief); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, brief)
}

func (h *BriefHandler) GetBrief(c *gin.Context) {
	id, err := briefID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	brief, err := h.service.GetBriefByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, brief)
}

func (h *BriefHandler) ListBriefs(c *gin.Context) {
	ctx := c.Request.Context()

	if status := c.Query("status"); status != "" {
		briefs, err := h.service.GetBriefsByStatus(ctx, models.WorkflowStatus(status))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, briefs)
		return
	}

	briefs, err := h.service.GetAllBriefs(ctx)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, briefs)
}

func (h *BriefHandler) UpdateBrief(c *gin.Context) {
	id, err := briefID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req briefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	updated := &models.Brief{
		Title:        req.Title,
		ServiceLevel: req.ServiceLevel,
		Fields:       req.Fields,
	}
	if err := h.service.UpdateBrief(c.Request.Context(), id, updated); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Brief updated."})
}

func (h *BriefHandler) DeleteBrief(c *gin.Context) {
	id, err := briefID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.DeleteBrief(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Brief deleted."})
}

func (h *BriefHandler) AcceptBrief(c *gin.Context) {
	id, err := briefID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req acceptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	brief, err := h.service.AcceptBrief(c.Request.Context(), id, req.AcceptorName, req.AcceptorEmail)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Brief accepted successfully!",
		"brief":   brief,
	})
}

func (h *BriefHandler) UnlockBrief(c *gin.Context) {
	id, err := briefID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.UnlockBrief(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Brief unlocked. You can now make changes."})
}

func (h *BriefHandler) ClearAcceptance(c *gin.Context) {
	id, err := briefID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.service.ClearAcceptance(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Acceptance cleared. The brief must be accepted again."})
}

func (h *BriefHandler) SetWorkflowStatus(c *gin.Context) {
	id, err := briefID(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	if err := h.service.SetWorkflowStatus(c.Request.Context(), id, req.Status); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Status updated."})
}
