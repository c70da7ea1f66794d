package ui

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"sheetchat/domain/dataset"
	"sheetchat/internal/chat"
	"sheetchat/internal/errors"
	"sheetchat/ui/middleware"

	"github.com/gin-gonic/gin"
)

// PageData feeds index.html
type PageData struct {
	Title      string
	Model      string
	HasAPIKey  bool
	Ready      bool
	Error      string
	Preview    *dataset.Preview
	Transcript []chat.RenderedEntry
	Question   string
}

func (s *Server) pageData(session *chat.Session) PageData {
	snap := session.Snapshot()
	data := PageData{
		Title:      "Chat with your spreadsheet",
		Model:      s.options.Model,
		HasAPIKey:  s.options.HasAPIKey,
		Ready:      snap.State == chat.StateReady,
		Preview:    snap.Preview,
		Transcript: chat.RenderTranscript(snap.Transcript),
	}
	return data
}

// renderPage shows the page with an error banner when err is set
func (s *Server) renderPage(c *gin.Context, err error) {
	session := middleware.Session(c)
	data := s.pageData(session)
	status := http.StatusOK
	if err != nil {
		data.Error = userMessage(err)
		status = statusFor(err)
	}
	s.renderTemplate(c, status, "index.html", data)
}

func (s *Server) handleIndex(c *gin.Context) {
	s.renderPage(c, nil)
}

func (s *Server) handleUpload(c *gin.Context) {
	session := middleware.Session(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.options.MaxUploadBytes+1<<20)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			s.logger.Warn("upload body over %d bytes rejected", tooLarge.Limit)
			s.renderPage(c, errors.InvalidInput(fmt.Sprintf("file exceeds the %.0f MB limit",
				float64(s.options.MaxUploadBytes)/(1024*1024))))
			return
		}
		s.logger.Debug("upload without file: %v", err)
		s.renderPage(c, errors.InvalidInput("choose an .xlsx, .xls or .csv file to upload"))
		return
	}
	defer file.Close()

	ds, err := s.reader.ReadUpload(c.Request.Context(), header.Filename, file, header.Size)
	if err != nil {
		s.logger.Warn("upload %s rejected: %v", header.Filename, err)
		s.renderPage(c, err)
		return
	}
	if _, err := session.LoadDataset(ds); err != nil {
		s.renderPage(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleAsk(c *gin.Context) {
	session := middleware.Session(c)
	if _, err := session.Ask(c.Request.Context(), c.PostForm("question")); err != nil {
		s.renderPage(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (s *Server) handleReset(c *gin.Context) {
	session := middleware.Session(c)
	s.manager.Discard(session.ID())
	middleware.ClearSession(c, s.options.SecureCookie)
	c.Redirect(http.StatusSeeOther, "/")
}

type sessionView struct {
	SessionID  string               `json:"session_id"`
	State      string               `json:"state"`
	Dataset    string               `json:"dataset,omitempty"`
	Columns    []string             `json:"columns"`
	RowCount   int                  `json:"row_count"`
	Transcript []chat.RenderedEntry `json:"transcript"`
}

func (s *Server) handleSessionJSON(c *gin.Context) {
	snap := middleware.Session(c).Snapshot()
	view := sessionView{
		SessionID:  snap.ID.String(),
		State:      snap.State.String(),
		Columns:    []string{},
		Transcript: chat.RenderTranscript(snap.Transcript),
	}
	if snap.Dataset != nil {
		view.Dataset = snap.Dataset.Name()
		view.Columns = snap.Dataset.ColumnNames()
		view.RowCount = snap.Dataset.RowCount()
	}
	c.JSON(http.StatusOK, view)
}

type askRequest struct {
	Question string `json:"question"`
}

func (s *Server) handleAskJSON(c *gin.Context) {
	var req askRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.abortJSON(c, errors.InvalidInput("request body must be JSON with a question field"))
		return
	}
	answer, err := middleware.Session(c).Ask(c.Request.Context(), req.Question)
	if err != nil {
		s.abortJSON(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"route":  answer.Route.String(),
		"answer": answer.Text,
		"failed": answer.Failed,
	})
}

func (s *Server) abortJSON(c *gin.Context, err error) {
	c.AbortWithStatusJSON(statusFor(err), gin.H{
		"error": userMessage(err),
		"code":  errors.GetCode(err),
	})
}

func statusFor(err error) int {
	switch errors.GetCode(err) {
	case errors.CodeInvalidInput, errors.CodeParseFailed, errors.CodeNoDataset:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func userMessage(err error) string {
	if statusFor(err) == http.StatusBadRequest {
		return err.Error()
	}
	return "something went wrong; please try again"
}
