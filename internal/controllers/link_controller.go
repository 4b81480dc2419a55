package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shortly/internal/entities"
	"shortly/internal/export"
	"shortly/internal/models"
	"shortly/internal/service"
)

// ExportFilename is offered to clients downloading GET /dump?format=csv
const ExportFilename = "short-links.csv"

type LinkController struct {
	links        service.LinkService
	slugs        service.SlugService
	baseURL      string
	homeURL      string
	slugLength   int
	slugAttempts int
}

func NewLinkController(links service.LinkService, slugs service.SlugService, baseURL, homeURL string, slugLength, slugAttempts int) *LinkController {
	return &LinkController{
		links:        links,
		slugs:        slugs,
		baseURL:      baseURL,
		homeURL:      homeURL,
		slugLength:   slugLength,
		slugAttempts: slugAttempts,
	}
}

// Index handles GET / - sends visitors to the home page
func (lc *LinkController) Index(c *gin.Context) {
	c.Redirect(http.StatusFound, lc.homeURL)
}

// Redirect handles GET /:slug - counts the visit and redirects to the stored URL
func (lc *LinkController) Redirect(c *gin.Context) {
	url, err := lc.links.Resolve(c.Request.Context(), c.Param("slug"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.Redirect(http.StatusMovedPermanently, url)
}

// Make handles POST /make - creates a link from JSON or form fields
func (lc *LinkController) Make(c *gin.Context) {
	var req models.CreateLinkRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"details": err.Error(),
		})
		return
	}

	link, err := lc.links.Create(c.Request.Context(), service.CreateLinkInput{
		URL:   req.URL,
		Slug:  req.Slug,
		Title: req.Title,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, models.NewLinkResponse(link, lc.baseURL))
}

// Suggest handles GET /make and GET /slug - proposes an unused slug
func (lc *LinkController) Suggest(c *gin.Context) {
	length := lc.slugLength
	if s := c.Query("length"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 || n > entities.MaxSlugLength {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": fmt.Sprintf("length must be between 1 and %d", entities.MaxSlugLength),
			})
			return
		}
		length = n
	}

	slug, err := lc.slugs.Generate(c.Request.Context(), length, lc.slugAttempts)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SlugResponse{Slug: slug})
}

// SlugCheck handles GET /slug/:candidate
func (lc *LinkController) SlugCheck(c *gin.Context) {
	candidate := c.Param("candidate")

	available, err := lc.slugs.IsAvailable(c.Request.Context(), candidate)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SlugCheckResponse{
		Slug:      candidate,
		Available: available,
	})
}

// Recent handles GET /recent - newest links first
func (lc *LinkController) Recent(c *gin.Context) {
	links, err := lc.links.Recent(c.Request.Context(), 0)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewLinkResponses(links, lc.baseURL))
}

// Top handles GET /top - most visited links first
func (lc *LinkController) Top(c *gin.Context) {
	links, err := lc.links.Top(c.Request.Context(), 0)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewLinkResponses(links, lc.baseURL))
}

// Dump handles GET /dump - every link oldest first, as JSON or with ?format=csv as a download
func (lc *LinkController) Dump(c *gin.Context) {
	ctx := c.Request.Context()

	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv; charset=utf-8")
		c.Header("Content-Disposition", `attachment; filename="`+ExportFilename+`"`)
		c.Status(http.StatusOK)

		// headers are already sent, so a failure can only be logged
		if _, err := export.WriteCSV(ctx, c.Writer, lc.links); err != nil {
			_ = c.Error(err)
		}
		return
	}

	links := []*entities.Link{}
	err := lc.links.ForEach(ctx, func(link *entities.Link) error {
		links = append(links, link)
		return nil
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.NewLinkResponses(links, lc.baseURL))
}
