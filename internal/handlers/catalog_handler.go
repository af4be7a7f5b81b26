package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobs-in-germany/internal/auth"
	"github.com/justsurfingit/jobs-in-germany/internal/models"
	"github.com/justsurfingit/jobs-in-germany/internal/services"
)

type CourseLister interface {
	Courses(ctx context.Context) ([]models.Course, error)
}

type ResumeLister interface {
	ListByUser(ctx context.Context, userID uint) ([]models.Resume, error)
}

type BannerSource interface {
	Banner(ctx context.Context) (*services.Banner, error)
}

// CatalogHandler serves the read-only pages: courses, the caller's resumes
// and the statistics banner.
type CatalogHandler struct {
	Courses CourseLister
	Resumes ResumeLister
	Stats   BannerSource
}

func NewCatalogHandler(courses CourseLister, resumes ResumeLister, stats BannerSource) *CatalogHandler {
	return &CatalogHandler{Courses: courses, Resumes: resumes, Stats: stats}
}

func (h *CatalogHandler) ListCourses(c *gin.Context) {
	courses, err := h.Courses.Courses(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, courses)
}

func (h *CatalogHandler) ListResumes(c *gin.Context) {
	resumes, err := h.Resumes.ListByUser(c.Request.Context(), auth.CurrentUser(c).UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, resumes)
}

func (h *CatalogHandler) Banner(c *gin.Context) {
	b, err := h.Stats.Banner(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, b)
}
