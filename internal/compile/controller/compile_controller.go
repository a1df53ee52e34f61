// Package controller exposes the compile and liveness endpoints.
package controller

import (
	"net/http"

	"runbox/internal/sandbox/profile"
	"runbox/internal/sandbox/runner"
	appErr "runbox/pkg/errors"
	"runbox/pkg/utils/logger"
	"runbox/pkg/utils/response"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CompileRequest is the body of the compile endpoint.
// Lang and Content must be present; Stdin defaults to empty.
type CompileRequest struct {
	Lang    *string `json:"lang" binding:"required"`
	Content *string `json:"content" binding:"required"`
	Stdin   string  `json:"stdin"`
}

// CompileController handles compile submissions.
type CompileController struct {
	registry   *profile.Registry
	dispatcher runner.Dispatcher
}

// NewCompileController creates a new controller.
func NewCompileController(registry *profile.Registry, dispatcher runner.Dispatcher) *CompileController {
	return &CompileController{registry: registry, dispatcher: dispatcher}
}

// Healthz reports service liveness.
func (h *CompileController) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "Ok"})
}

// Compile validates one submission and hands it to the dispatcher.
func (h *CompileController) Compile(c *gin.Context) {
	var req CompileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	lang := *req.Lang
	// Unknown tags are rejected here; the dispatcher never sees them and no
	// scratch space is touched.
	if !h.registry.Supported(lang) {
		response.Error(c, appErr.UnsupportedLanguage(lang))
		return
	}

	logger.Debug(c.Request.Context(), "compile request",
		zap.String("lang", lang),
		zap.Int("source_bytes", len(*req.Content)),
		zap.Int("stdin_bytes", len(req.Stdin)),
	)

	stdout, err := h.dispatcher.Execute(c.Request.Context(), runner.Submission{
		Lang:   lang,
		Source: *req.Content,
		Stdin:  req.Stdin,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, stdout)
}
