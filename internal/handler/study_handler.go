package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/quizzy-api/internal/service"
)

// StudyHandler handles document and study session requests. Every route is
// behind the auth middleware, so user_id is always present.
type StudyHandler struct {
	studyService *service.StudyService
}

// NewStudyHandler creates a new study handler.
func NewStudyHandler(studyService *service.StudyService) *StudyHandler {
	return &StudyHandler{studyService: studyService}
}

// RegisterDocumentRequest is the document registration payload.
type RegisterDocumentRequest struct {
	Filename string `json:"filename" binding:"required,max=255"`
}

// UpdateDocumentStatusRequest moves a document through the pipeline.
type UpdateDocumentStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// CreateSessionRequest is the study session creation payload.
type CreateSessionRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// AttachDocumentRequest links a document into a session.
type AttachDocumentRequest struct {
	DocumentID uint `json:"document_id" binding:"required"`
}

// RegisterDocument records an uploaded document.
func (h *StudyHandler) RegisterDocument(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req RegisterDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.studyService.RegisterDocument(userID, req.Filename)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, doc)
}

// paginationParams reads page/page_size query parameters. Out-of-range
// values fall back to defaults in the service.
func paginationParams(c *gin.Context) (page, pageSize int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil {
		page = 1
	}
	pageSize, err = strconv.Atoi(c.DefaultQuery("page_size", "10"))
	if err != nil {
		pageSize = 10
	}
	return page, pageSize
}

// ListDocuments returns the user's documents.
func (h *StudyHandler) ListDocuments(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	page, pageSize := paginationParams(c)

	docs, err := h.studyService.ListDocuments(userID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}

// GetDocument returns a single document.
func (h *StudyHandler) GetDocument(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	documentID := c.MustGet("document_id").(uint)

	doc, err := h.studyService.GetDocument(userID, documentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, doc)
}

// UpdateDocumentStatus updates a document's pipeline status.
func (h *StudyHandler) UpdateDocumentStatus(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	documentID := c.MustGet("document_id").(uint)

	var req UpdateDocumentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.studyService.UpdateDocumentStatus(userID, documentID, req.Status); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ListOutputs returns generated outputs for a document.
func (h *StudyHandler) ListOutputs(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	documentID := c.MustGet("document_id").(uint)

	outputs, err := h.studyService.ListOutputs(userID, documentID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"outputs": outputs})
}

// CreateSession creates a study session.
func (h *StudyHandler) CreateSession(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)

	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := h.studyService.CreateSession(userID, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, session)
}

// ListSessions returns the user's study sessions.
func (h *StudyHandler) ListSessions(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	page, pageSize := paginationParams(c)

	sessions, err := h.studyService.ListSessions(userID, page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"sessions": sessions})
}

// GetSession returns a single study session.
func (h *StudyHandler) GetSession(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	sessionID := c.MustGet("session_id").(uint)

	session, err := h.studyService.GetSession(userID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, session)
}

// AttachDocument links a document into a study session.
func (h *StudyHandler) AttachDocument(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	sessionID := c.MustGet("session_id").(uint)

	var req AttachDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.studyService.AttachDocument(userID, sessionID, req.DocumentID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "success"})
}

// ListSessionDocuments returns the documents attached to a session.
func (h *StudyHandler) ListSessionDocuments(c *gin.Context) {
	userID := c.MustGet("user_id").(uint)
	sessionID := c.MustGet("session_id").(uint)

	docs, err := h.studyService.ListSessionDocuments(userID, sessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"documents": docs})
}
