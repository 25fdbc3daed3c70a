package main

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ZanzyTHEbar/troupe-insights/internal/errors"
	"github.com/ZanzyTHEbar/troupe-insights/internal/importer"
	"github.com/ZanzyTHEbar/troupe-insights/internal/report"
	"github.com/ZanzyTHEbar/troupe-insights/internal/types"
)

const maxTopLimit = 100

// handleUpload godoc
// @Summary Upload an activity file
// @Description Parses a CSV or XLSX export and makes it the current dataset
// @Tags uploads
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "CSV or XLSX file"
// @Param description formData string false "Free text description"
// @Success 201 {object} types.UploadResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 413 {object} errors.ErrorResponse
// @Router /api/upload [post]
func (s *server) handleUpload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": "upload exceeds maximum size"})
			return
		}
		errors.Respond(c, errors.NewValidationError("No file provided"))
		return
	}

	f, err := file.Open()
	if err != nil {
		errors.Respond(c, errors.NewInternalError("Failed to read upload", err))
		return
	}
	defer f.Close()

	parsed, err := importer.Parse(file.Filename, f)
	if err != nil {
		errors.Respond(c, errors.NewValidationError("Failed to parse file", err.Error()))
		return
	}

	activities, err := s.validator.Prepare(parsed)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	upload, err := s.dash.Import(c.Request.Context(), file.Filename, c.PostForm("description"), activities)
	if err != nil {
		errors.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, types.UploadResponse{
		Message:         "Activities uploaded successfully",
		Upload:          upload,
		ActivitiesCount: len(activities),
	})
}

// handleListUploads godoc
// @Summary List uploads
// @Tags uploads
// @Produce json
// @Success 200 {object} types.UploadsResponse
// @Router /api/uploads [get]
func (s *server) handleListUploads(c *gin.Context) {
	uploads, err := s.dash.Uploads(c.Request.Context())
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, types.UploadsResponse{Uploads: uploads})
}

// handleDeleteUpload godoc
// @Summary Delete an upload
// @Description Removes the upload and its activities; the dashboard falls back to the previous upload
// @Tags uploads
// @Produce json
// @Param id path string true "Upload ID"
// @Success 200 {object} types.SuccessResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /api/uploads/{id} [delete]
func (s *server) handleDeleteUpload(c *gin.Context) {
	if err := s.dash.DeleteUpload(c.Request.Context(), c.Param("id")); err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, types.SuccessResponse{Success: true, Message: "Upload deleted successfully"})
}

// handleActivities godoc
// @Summary List activities
// @Description Activities of the latest upload, or of every upload with latest=false
// @Tags activities
// @Produce json
// @Param latest query bool false "Only the latest upload" default(true)
// @Success 200 {object} types.ActivitiesResponse
// @Router /api/activities [get]
func (s *server) handleActivities(c *gin.Context) {
	latest := true
	if v, ok := c.GetQuery("latest"); ok {
		if parsed, err := strconv.ParseBool(v); err == nil {
			latest = parsed
		}
	}

	activities, err := s.dash.Activities(c.Request.Context(), latest)
	if err != nil {
		errors.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, types.ActivitiesResponse{Activities: activities})
}

// handleSummary godoc
// @Summary Every analytics view
// @Tags analytics
// @Produce json
// @Success 200 {object} analysis.Summary
// @Router /api/analytics/summary [get]
func (s *server) handleSummary(c *gin.Context) {
	c.JSON(http.StatusOK, s.dash.Summary())
}

// handleTop godoc
// @Summary Top activities by score
// @Tags analytics
// @Produce json
// @Param limit query int false "Number of activities, 1 to 100"
// @Success 200 {object} map[string]interface{}
// @Router /api/analytics/top [get]
func (s *server) handleTop(c *gin.Context) {
	limit := s.dash.TopN()
	if v, err := strconv.Atoi(c.Query("limit")); err == nil {
		limit = min(max(v, 1), maxTopLimit)
	}
	c.JSON(http.StatusOK, gin.H{"activities": s.dash.Dataset().TopActivities(limit)})
}

// @Summary Per-category counts and average scores
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/analytics/categories [get]
func (s *server) handleCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categoryStats": s.dash.Summary().CategoryStats})
}

// @Summary Best activity of each category
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/analytics/leaders [get]
func (s *server) handleLeaders(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categoryLeaders": s.dash.Summary().CategoryLeaders})
}

// @Summary Vote totals
// @Tags analytics
// @Produce json
// @Success 200 {object} analysis.Totals
// @Router /api/analytics/totals [get]
func (s *server) handleTotals(c *gin.Context) {
	c.JSON(http.StatusOK, s.dash.Summary().Totals)
}

// @Summary Activities grouped by price tier
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/analytics/budget [get]
func (s *server) handleBudget(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"budgetAnalysis": s.dash.Summary().BudgetAnalysis})
}

// @Summary Consensus, controversial, polarizing and unanimous activities
// @Tags analytics
// @Produce json
// @Success 200 {object} analysis.GroupDynamics
// @Router /api/analytics/dynamics [get]
func (s *server) handleDynamics(c *gin.Context) {
	c.JSON(http.StatusOK, s.dash.Summary().GroupDynamics)
}

// @Summary Vote share and engagement
// @Tags analytics
// @Produce json
// @Success 200 {object} analysis.VotingPatterns
// @Router /api/analytics/patterns [get]
func (s *server) handlePatterns(c *gin.Context) {
	c.JSON(http.StatusOK, s.dash.Summary().VotingPatterns)
}

// @Summary Score histogram
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/analytics/distribution [get]
func (s *server) handleDistribution(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"scoreDistribution": s.dash.Summary().ScoreDistribution})
}

// @Summary Sorted distinct categories
// @Tags analytics
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /api/analytics/available-categories [get]
func (s *server) handleAvailableCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"categories": s.dash.Summary().AvailableCategories})
}

// handleExport godoc
// @Summary Download the analytics workbook
// @Tags analytics
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} binary
// @Router /api/analytics/export.xlsx [get]
func (s *server) handleExport(c *gin.Context) {
	var buf bytes.Buffer
	if err := report.Write(&buf, s.dash.Summary(), time.Now().UTC()); err != nil {
		errors.Respond(c, errors.NewInternalError("Failed to build report", err))
		return
	}

	name := fmt.Sprintf("troupe-insights-%d.xlsx", s.dash.Revision())
	c.Header("Content-Disposition", `attachment; filename="`+name+`"`)
	c.Data(http.StatusOK, report.ContentType, buf.Bytes())
}
