package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/jobs-in-germany/internal/auth"
	"github.com/justsurfingit/jobs-in-germany/internal/dtos"
	"github.com/justsurfingit/jobs-in-germany/internal/formflow"
	"github.com/justsurfingit/jobs-in-germany/internal/forms"
)

// maxUploadBytes bounds request bodies carrying files. It protects memory
// only; the forms themselves do not validate size.
const maxUploadBytes = 12 << 20

// FormHandler exposes mounted form instances over HTTP.
type FormHandler struct {
	Registry    *formflow.Registry
	Definitions []forms.Definition
	Logger      *slog.Logger
}

func NewFormHandler(registry *formflow.Registry, defs []forms.Definition, logger *slog.Logger) *FormHandler {
	return &FormHandler{Registry: registry, Definitions: defs, Logger: logger}
}

// ListForms is GET /forms.
func (h *FormHandler) ListForms(c *gin.Context) {
	c.JSON(http.StatusOK, h.Definitions)
}

// Mount is POST /forms/:form.
func (h *FormHandler) Mount(c *gin.Context) {
	name := c.Param("form")
	form, ok := h.Registry.Form(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": formflow.ErrUnknownForm.Error()})
		return
	}
	user := auth.CurrentUser(c)
	if form.Protected && user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "sign in to use this form"})
		return
	}
	a, err := h.Registry.Mount(name, user.OwnerID())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, formflow.Present(a.Snapshot(), nil))
}

// Get is GET /attempts/:id.
func (h *FormHandler) Get(c *gin.Context) {
	a, ok := h.attempt(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, formflow.Present(a.Snapshot(), nil))
}

// Input is PATCH /attempts/:id with text field values.
func (h *FormHandler) Input(c *gin.Context) {
	a, ok := h.attempt(c)
	if !ok {
		return
	}
	var req dtos.FieldInputRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid JSON format: " + err.Error()})
		return
	}
	if err := a.SetAll(textFields(req.Fields)); err != nil {
		h.conflict(c, a, err)
		return
	}
	c.JSON(http.StatusOK, formflow.Present(a.Snapshot(), nil))
}

// Upload is PUT /attempts/:id/files/:field with a multipart "file" part.
func (h *FormHandler) Upload(c *gin.Context) {
	a, ok := h.attempt(c)
	if !ok {
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
	header, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required: " + err.Error()})
		return
	}
	file, err := readUpload(header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := a.Set(c.Param("field"), formflow.Upload(file)); err != nil {
		h.conflict(c, a, err)
		return
	}
	c.JSON(http.StatusOK, formflow.Present(a.Snapshot(), nil))
}

// Submit is POST /attempts/:id/submit. Fields sent with the request are
// applied first. The response carries the resolved view.
func (h *FormHandler) Submit(c *gin.Context) {
	a, ok := h.attempt(c)
	if !ok {
		return
	}
	fields, err := submittedFields(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(fields) > 0 {
		if err := a.SetAll(fields); err != nil {
			h.conflict(c, a, err)
			return
		}
	}

	// A dropped connection must not abort a charge halfway; only the
	// form's own timeout bounds the call.
	snap, err := a.Submit(context.WithoutCancel(c.Request.Context()))
	view := formflow.Present(snap, err)
	switch {
	case err == nil:
		h.Logger.Info("form submitted", "form", snap.Form, "attempt", snap.ID)
		c.JSON(http.StatusOK, view)
	case errors.Is(err, formflow.ErrInFlight), errors.Is(err, formflow.ErrClosed):
		h.conflict(c, a, err)
	default:
		if _, ok := formflow.AsValidation(err); ok {
			c.JSON(http.StatusBadRequest, view)
			return
		}
		h.Logger.Warn("form submission failed", "form", snap.Form, "attempt", snap.ID, "error", err)
		c.JSON(http.StatusUnprocessableEntity, view)
	}
}

// Unmount is DELETE /attempts/:id.
func (h *FormHandler) Unmount(c *gin.Context) {
	a, ok := h.attempt(c)
	if !ok {
		return
	}
	h.Registry.Unmount(a.ID)
	c.Status(http.StatusNoContent)
}

// attempt loads the instance and hides instances owned by someone else.
func (h *FormHandler) attempt(c *gin.Context) (*formflow.Attempt, bool) {
	a, err := h.Registry.Get(c.Param("id"))
	if err == nil && a.Owner != "" && a.Owner != auth.CurrentUser(c).OwnerID() {
		err = formflow.ErrNotFound
	}
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return nil, false
	}
	return a, true
}

func (h *FormHandler) conflict(c *gin.Context, a *formflow.Attempt, err error) {
	c.JSON(http.StatusConflict, gin.H{
		"error": err.Error(),
		"view":  formflow.Present(a.Snapshot(), nil),
	})
}

func textFields(in map[string]string) formflow.Fields {
	out := make(formflow.Fields, len(in))
	for k, v := range in {
		out[k] = formflow.Text(v)
	}
	return out
}

// submittedFields reads optional fields from a JSON or multipart body.
func submittedFields(c *gin.Context) (formflow.Fields, error) {
	if c.Request.ContentLength == 0 {
		return nil, nil
	}
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)
		mf, err := c.MultipartForm()
		if err != nil {
			return nil, err
		}
		fields := formflow.Fields{}
		for k, vs := range mf.Value {
			if len(vs) > 0 {
				fields[k] = formflow.Text(vs[0])
			}
		}
		for k, hs := range mf.File {
			if len(hs) == 0 {
				continue
			}
			f, err := readUpload(hs[0])
			if err != nil {
				return nil, err
			}
			fields[k] = formflow.Upload(f)
		}
		return fields, nil
	}
	var req struct {
		Fields map[string]string `json:"fields"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}
	return textFields(req.Fields), nil
}

func readUpload(header *multipart.FileHeader) (*formflow.File, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return &formflow.File{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
