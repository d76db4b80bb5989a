package handler

import (
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"crimewatch/backend/internal/apperr"
	"crimewatch/backend/internal/auth"
	"crimewatch/backend/internal/models"
	"crimewatch/backend/internal/report"

	"github.com/gin-gonic/gin"
)

type createReportJSON struct {
	Location     string    `json:"location"`
	Time         time.Time `json:"time"`
	CrimeType    string    `json:"crime_type"`
	NumCriminals int       `json:"num_criminals"`
	VictimGender string    `json:"victim_gender"`
	Armed        string    `json:"armed"`
}

// CreateReport accepts either a JSON body or a multipart form with
// photo/video uploads. Authentication is optional: anonymous reports
// carry no reporter.
func (h *Handler) CreateReport(c *gin.Context) {
	in, err := h.bindReport(c)
	if err != nil {
		h.fail(c, err)
		return
	}

	if ident := auth.FromContext(c); ident != nil {
		in.ReporterID = &ident.ID
	}

	created, events, err := h.Reports.SubmitReport(*in)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Dispatcher.Drain(events)

	respond(c, http.StatusCreated, "Report submitted", gin.H{"id": created.ID})
}

func (h *Handler) bindReport(c *gin.Context) (*report.SubmitInput, error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		var body createReportJSON
		if err := c.ShouldBindJSON(&body); err != nil {
			return nil, apperr.Validation("invalid request body")
		}
		return &report.SubmitInput{
			Location:     body.Location,
			Time:         body.Time,
			CrimeType:    body.CrimeType,
			NumCriminals: body.NumCriminals,
			VictimGender: body.VictimGender,
			Armed:        body.Armed,
		}, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, apperr.Validation("invalid multipart form")
	}

	in := &report.SubmitInput{
		Location:     c.PostForm("location"),
		CrimeType:    c.PostForm("crime_type"),
		VictimGender: c.PostForm("victim_gender"),
		Armed:        c.PostForm("armed"),
	}
	if t := c.PostForm("time"); t != "" {
		parsed, err := time.Parse(time.RFC3339, t)
		if err != nil {
			return nil, apperr.Validation("time must be RFC3339", "time")
		}
		in.Time = parsed
	}
	if n := c.PostForm("num_criminals"); n != "" {
		v, err := strconv.Atoi(n)
		if err != nil {
			return nil, apperr.Validation("num_criminals must be an integer", "num_criminals")
		}
		in.NumCriminals = v
	}

	// Store uploads before the insert so the report only ever
	// references files confirmed written.
	if in.Photos, err = h.saveFiles(form.File["photos"]); err != nil {
		return nil, err
	}
	if in.Videos, err = h.saveFiles(form.File["videos"]); err != nil {
		return nil, err
	}
	return in, nil
}

func (h *Handler) saveFiles(files []*multipart.FileHeader) ([]string, error) {
	var paths []string
	for _, f := range files {
		p, err := h.Media.Save(f)
		if err != nil {
			return nil, apperr.Internal("failed to store upload", err)
		}
		paths = append(paths, p)
	}
	return paths, nil
}

func (h *Handler) GetReport(c *gin.Context) {
	detail, err := h.Reports.GetReport(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Report found", detail)
}

func (h *Handler) SearchReports(c *gin.Context) {
	f := models.ReportFilters{
		Location:  c.Query("location"),
		CrimeType: c.Query("crime_type"),
		Status:    c.Query("status"),
		Armed:     c.Query("armed"),
	}
	if since := c.Query("since"); since != "" {
		if t, err := time.Parse(time.RFC3339, since); err == nil {
			f.Since = &t
		}
	}
	if until := c.Query("until"); until != "" {
		if t, err := time.Parse(time.RFC3339, until); err == nil {
			f.Until = &t
		}
	}

	reports, err := h.Storage.SearchReports(f)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Reports found", reports)
}

func (h *Handler) GetNearbyReports(c *gin.Context) {
	location := c.Query("location")
	if location == "" {
		h.fail(c, apperr.Validation("location query parameter is required", "location"))
		return
	}
	reports, err := h.Storage.GetNearbyReports(location)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Reports found", reports)
}

func (h *Handler) GetMyReports(c *gin.Context) {
	ident := auth.FromContext(c)
	reports, err := h.Storage.GetReportsByUser(ident.ID)
	if err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Reports found", reports)
}

type validateBody struct {
	IsValid        *bool  `json:"is_valid"`
	Comment        string `json:"comment"`
	PointsOverride *int   `json:"points_override"`
}

// ValidateReport records the caller's authenticity vote.
func (h *Handler) ValidateReport(c *gin.Context) {
	ident := auth.FromContext(c)

	var body validateBody
	if err := c.ShouldBindJSON(&body); err != nil || body.IsValid == nil {
		h.fail(c, apperr.Validation("is_valid is required", "is_valid"))
		return
	}

	result, events, err := h.Reports.ValidateReport(report.ValidateInput{
		ReportID:       c.Param("id"),
		UserID:         ident.ID,
		Role:           ident.Role,
		IsValid:        *body.IsValid,
		Comment:        body.Comment,
		PointsOverride: body.PointsOverride,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Dispatcher.Drain(events)

	respond(c, http.StatusOK, result.Message, result)
}

// TakeCase claims a report for the calling officer.
func (h *Handler) TakeCase(c *gin.Context) {
	ident := auth.FromContext(c)
	officer, err := h.Storage.GetUserByID(ident.ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	result, events, err := h.Reports.TakeCase(c.Param("id"), officer)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Dispatcher.Drain(events)

	respond(c, http.StatusOK, "Case taken", result)
}

// ResolveReport marks a report resolved; police and admin only.
func (h *Handler) ResolveReport(c *gin.Context) {
	ident := auth.FromContext(c)
	if ident.Role == models.RolePublic {
		h.fail(c, apperr.Forbidden("only police or admins can resolve a report"))
		return
	}

	events, err := h.Reports.ResolveReport(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Dispatcher.Drain(events)

	respond(c, http.StatusOK, "Report resolved", nil)
}

// DeleteReport removes a report and its media; the owning reporter or
// an admin only.
func (h *Handler) DeleteReport(c *gin.Context) {
	ident := auth.FromContext(c)
	id := c.Param("id")

	target, err := h.Storage.GetReportRow(id)
	if err != nil {
		h.fail(c, err)
		return
	}
	if target == nil {
		h.fail(c, apperr.NotFound("report not found"))
		return
	}
	owner := target.ReporterID != nil && *target.ReporterID == ident.ID
	if !owner && ident.Role != models.RoleAdmin {
		h.fail(c, apperr.Forbidden("not allowed to delete this report"))
		return
	}

	if err := h.Reports.DeleteReport(id); err != nil {
		h.fail(c, err)
		return
	}
	respond(c, http.StatusOK, "Report deleted", nil)
}
