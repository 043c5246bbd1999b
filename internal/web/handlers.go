package web

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/conorfennell/spacedrep/internal/domain"
	"github.com/conorfennell/spacedrep/internal/storage"
	"github.com/gin-gonic/gin"
)

// LabelRequest is the body of label create and update requests.
type LabelRequest struct {
	Name  string `json:"name" binding:"required"`
	Color string `json:"color"`
}

// ContentRequest is the body of content create and update requests.
type ContentRequest struct {
	Title   string `json:"title" binding:"required"`
	LabelID int64  `json:"label_id" binding:"required"`
}

// CompleteResponse is returned when a review is marked as completed.
type CompleteResponse struct {
	ContentID   int64             `json:"content_id"`
	Kind        domain.ReviewKind `json:"review_type"`
	CompletedAt string            `json:"completed_at"`
}

func (s *Server) createLabel(c *gin.Context) {
	var req LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	label, err := s.store.CreateLabel(c.Request.Context(), req.Name, req.Color)
	if err != nil {
		s.fail(c, err, "Failed to create label")
		return
	}
	c.JSON(http.StatusCreated, label)
}

func (s *Server) listLabels(c *gin.Context) {
	labels, err := s.store.ListLabels(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Failed to retrieve labels")
		return
	}
	c.JSON(http.StatusOK, labels)
}

func (s *Server) updateLabel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req LabelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := s.store.UpdateLabel(c.Request.Context(), id, req.Name, req.Color); err != nil {
		s.fail(c, err, "Failed to update label")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Label updated successfully"})
}

func (s *Server) deleteLabel(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteLabel(c.Request.Context(), id); err != nil {
		s.fail(c, err, "Failed to delete label")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Label deleted successfully"})
}

func (s *Server) createContent(c *gin.Context) {
	var req ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	content, err := s.store.CreateContent(c.Request.Context(), req.Title, req.LabelID)
	if err != nil {
		s.fail(c, err, "Failed to create content")
		return
	}
	c.JSON(http.StatusCreated, content)
}

func (s *Server) listContents(c *gin.Context) {
	views, err := s.store.ListContents(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Failed to retrieve contents")
		return
	}
	c.JSON(http.StatusOK, views)
}

func (s *Server) getContent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	view, err := s.store.GetContent(c.Request.Context(), id)
	if err != nil {
		s.fail(c, err, "Failed to retrieve content")
		return
	}
	if view == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Content not found"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (s *Server) updateContent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	var req ContentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	if err := s.store.UpdateContent(c.Request.Context(), id, req.Title, req.LabelID); err != nil {
		s.fail(c, err, "Failed to update content")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Content updated successfully"})
}

func (s *Server) deleteContent(c *gin.Context) {
	id, ok := paramID(c, "id")
	if !ok {
		return
	}
	if err := s.store.DeleteContent(c.Request.Context(), id); err != nil {
		s.fail(c, err, "Failed to delete content")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Content deleted successfully"})
}

// listReviews returns the reviews due on the date given by ?date=YYYY-MM-DD.
func (s *Server) listReviews(c *gin.Context) {
	on, err := domain.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}
	due, err := s.store.ListDueReviews(c.Request.Context(), on)
	if err != nil {
		s.fail(c, err, "Failed to retrieve reviews")
		return
	}
	c.JSON(http.StatusOK, due)
}

func (s *Server) reviewsToday(c *gin.Context) {
	due, err := s.store.DueToday(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Failed to retrieve reviews")
		return
	}
	c.JSON(http.StatusOK, due)
}

func (s *Server) completeReview(c *gin.Context) {
	contentID, ok := paramID(c, "content_id")
	if !ok {
		return
	}
	kind, err := domain.ParseReviewKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid review type"})
		return
	}

	completedAt, err := s.store.CompleteReview(c.Request.Context(), contentID, kind)
	if err != nil {
		s.fail(c, err, "Failed to complete review")
		return
	}
	c.JSON(http.StatusOK, CompleteResponse{
		ContentID:   contentID,
		Kind:        kind,
		CompletedAt: completedAt.Format(time.RFC3339),
	})
}

func (s *Server) statistics(c *gin.Context) {
	stats, err := s.store.Statistics(c.Request.Context())
	if err != nil {
		s.fail(c, err, "Failed to retrieve statistics")
		return
	}
	c.JSON(http.StatusOK, stats)
}

// fail maps a store error onto a status code. Unexpected errors are logged
// through the request logger and hidden behind msg.
func (s *Server) fail(c *gin.Context, err error, msg string) {
	var inUse *storage.LabelInUseError
	switch {
	case errors.As(err, &inUse):
		c.JSON(http.StatusConflict, gin.H{"error": inUse.Error(), "count": inUse.Count})
	case errors.Is(err, storage.ErrDuplicateName):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}

func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + name + " format"})
		return 0, false
	}
	return id, true
}
