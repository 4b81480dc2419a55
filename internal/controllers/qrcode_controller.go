package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"shortly/internal/service"
)

const (
	defaultQRSize = 256
	maxQRSize     = 1024
)

type QRCodeController struct {
	links   service.LinkService
	baseURL string
}

func NewQRCodeController(links service.LinkService, baseURL string) *QRCodeController {
	return &QRCodeController{
		links:   links,
		baseURL: baseURL,
	}
}

// GenerateQRCode handles GET /qr/:slug - PNG QR code of an existing short link
func (qc *QRCodeController) GenerateQRCode(c *gin.Context) {
	slug := c.Param("slug")

	size := defaultQRSize
	if s := c.Query("size"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > maxQRSize {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "size must be between 1 and 1024",
			})
			return
		}
		size = n
	}

	// only existing links get a code; looking one up does not count as a visit
	link, err := qc.links.Get(c.Request.Context(), slug)
	if err != nil {
		respondError(c, err)
		return
	}

	pngData, err := qrcode.Encode(qc.baseURL+"/"+link.Slug, qrcode.Medium, size)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to generate QR code",
		})
		return
	}

	c.Header("Content-Disposition", "inline; filename="+link.Slug+".png")
	c.Data(http.StatusOK, "image/png", pngData)
}
