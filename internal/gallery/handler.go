package gallery

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PageHandler serves the gallery page that owns the rendering surface
type PageHandler struct {
	fetcher *Fetcher
	table   *Table
	title   string
	logger  *zap.SugaredLogger
}

// NewPageHandler creates a page handler rendering table and refreshing it through fetcher
func NewPageHandler(fetcher *Fetcher, table *Table, title string, logger *zap.SugaredLogger) *PageHandler {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &PageHandler{
		fetcher: fetcher,
		table:   table,
		title:   title,
		logger:  logger,
	}
}

// RegisterRoutes installs the page templates and routes on router
func (h *PageHandler) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(Templates())
	router.GET("/", h.Index)
	router.POST("/refresh", h.Refresh)
}

// Index renders every row appended so far
func (h *PageHandler) Index(c *gin.Context) {
	c.HTML(http.StatusOK, pageTemplateName, PageData{Title: h.title, Rows: h.table.Rows()})
}

// Refresh runs one fetch-and-render pass and sends the browser back to the page.
// The outcome is only visible through the table and the log.
func (h *PageHandler) Refresh(c *gin.Context) {
	res := h.fetcher.FetchAndRender(c.Request.Context())
	h.logger.Debugw("refresh finished",
		"request_id", c.GetString("request_id"),
		"appended", res.Appended,
		"failed", res.Err != nil,
	)
	c.Redirect(http.StatusSeeOther, "/")
}
