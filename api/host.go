package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/Domenick1991/staybook/internal/domain"
	"github.com/Domenick1991/staybook/internal/service/console"
	"github.com/gin-gonic/gin"
)

const maxUploadMemory = 32 << 20

type HostHandler struct {
	service console.HostUseCase
}

func NewHostHandler(service console.HostUseCase) *HostHandler {
	return &HostHandler{service: service}
}

func (h *HostHandler) Register(router *gin.RouterGroup) {
	router.GET("/stats", h.stats)
	router.GET("/properties", h.properties)
	router.POST("/properties", h.create)
	router.PUT("/properties/:id", h.update)
	router.DELETE("/properties/:id", h.delete)
}

func (h *HostHandler) stats(c *gin.Context) {
	stats, err := h.service.HostStats(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *HostHandler) properties(c *gin.Context) {
	list, err := h.service.MyProperties(c.Request.Context(), sessionFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	if list == nil {
		list = []domain.Listing{}
	}
	c.JSON(http.StatusOK, list)
}

func (h *HostHandler) create(c *gin.Context) {
	h.save(c, "", http.StatusCreated)
}

func (h *HostHandler) update(c *gin.Context) {
	h.save(c, c.Param("id"), http.StatusOK)
}

func (h *HostHandler) save(c *gin.Context, id string, status int) {
	form, err := parsePropertyForm(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.SaveProperty(c.Request.Context(), sessionFrom(c), id, form); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(status, gin.H{"message": "Property saved", "redirect": "/host-dashboard"})
}

func (h *HostHandler) delete(c *gin.Context) {
	if err := h.service.DeleteProperty(c.Request.Context(), sessionFrom(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func parsePropertyForm(c *gin.Context) (domain.PropertyForm, error) {
	if err := c.Request.ParseMultipartForm(maxUploadMemory); err != nil {
		return domain.PropertyForm{}, fmt.Errorf("invalid multipart form: %w", err)
	}

	form := domain.PropertyForm{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Location:    c.PostForm("location"),
		HouseType:   c.PostForm("houseType"),
		Amenities:   c.PostFormArray("amenities"),
	}

	var err error
	if form.Price, err = formInt64(c, "price"); err != nil {
		return form, err
	}
	limits := []struct {
		field string
		dst   *int
	}{
		{"adults", &form.Limits.Adults},
		{"children", &form.Limits.Children},
		{"infants", &form.Limits.Infants},
		{"pets", &form.Limits.Pets},
		{"maxGuests", &form.Limits.MaxGuests},
	}
	for _, l := range limits {
		n, err := formInt64(c, l.field)
		if err != nil {
			return form, err
		}
		*l.dst = int(n)
	}

	files := c.Request.MultipartForm.File
	if form.Interior, err = readUploads(files["interior"]); err != nil {
		return form, err
	}
	if form.Exterior, err = readUploads(files["exterior"]); err != nil {
		return form, err
	}
	return form, nil
}

func formInt64(c *gin.Context, field string) (int64, error) {
	raw := c.PostForm(field)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", field)
	}
	return n, nil
}

func readUploads(headers []*multipart.FileHeader) ([]domain.Upload, error) {
	uploads := make([]domain.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, err
		}
		uploads = append(uploads, domain.Upload{Filename: fh.Filename, Content: content})
	}
	return uploads, nil
}
