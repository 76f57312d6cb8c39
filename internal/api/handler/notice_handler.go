package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/nebsit/hr-gateway/internal/core/domain"
	"github.com/nebsit/hr-gateway/internal/core/ports"
	"github.com/nebsit/hr-gateway/internal/infrastructure/storage"
)

const (
	noticeCreatedMessage = "Notice created successfully"
	statusUpdatedMessage = "Notice status updated"
	noticeDeletedMessage = "Notice deleted"
)

// NoticeHandler handles HTTP requests for the notice board.
type NoticeHandler struct {
	service   ports.NoticeService
	maxUpload int64
}

func NewNoticeHandler(service ports.NoticeService, maxUpload int64) *NoticeHandler {
	return &NoticeHandler{service: service, maxUpload: maxUpload}
}

// List returns one page of notices. Changing any filter against the
// session's previous query sends the view back to page 1.
//
// @Summary      List notices
// @Tags         notices
// @Produce      json
// @Param        target       query     string  false  "Department, individual or all"
// @Param        search       query     string  false  "Employee id or name"
// @Param        status       query     string  false  "all, draft, published, unpublished"
// @Param        publishedOn  query     string  false  "YYYY-MM-DD"
// @Param        page         query     int     false  "Page number"
// @Param        limit        query     int     false  "Page size"
// @Success      200          {object}  noticeListResponse
// @Failure      422          {object}  errorResponse
// @Failure      502          {object}  errorResponse
// @Router       /dashboard/notices [get]
func (h *NoticeHandler) List(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req listNoticesRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.List(c.Request().Context(), s, toNoticeQuery(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoticeListResponse(res, ""))
}

// Get returns a single notice, freshly fetched.
//
// @Summary      Get a notice
// @Tags         notices
// @Produce      json
// @Param        id   path      string  true  "Notice id"
// @Success      200  {object}  noticeResponse
// @Failure      404  {object}  errorResponse
// @Router       /dashboard/notices/{id} [get]
func (h *NoticeHandler) Get(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req noticeIDRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	notice, err := h.service.Get(c.Request().Context(), s, req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoticeResponse(*notice))
}

// Attachment tells the client whether to render the attachment inline as an
// image, embed it as a PDF, or link to it.
//
// @Summary      Notice attachment
// @Tags         notices
// @Produce      json
// @Param        id   path      string  true  "Notice id"
// @Success      200  {object}  attachmentResponse
// @Failure      404  {object}  errorResponse
// @Router       /dashboard/notices/{id}/attachment [get]
func (h *NoticeHandler) Attachment(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req noticeIDRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	view, err := h.service.Attachment(c.Request().Context(), s, req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, attachmentResponse{URL: view.URL, Kind: string(view.Kind)})
}

// UpdateStatus changes the publication state, then returns the refreshed
// list for the session's current query.
//
// @Summary      Change notice status
// @Tags         notices
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Notice id"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  noticeListResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /dashboard/notices/{id}/status [patch]
func (h *NoticeHandler) UpdateStatus(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req updateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	res, err := h.service.UpdateStatus(c.Request().Context(), s, req.ID, domain.NoticeStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoticeListResponse(res, statusUpdatedMessage))
}

// Delete removes a notice, then returns the refreshed list.
//
// @Summary      Delete a notice
// @Tags         notices
// @Produce      json
// @Param        id   path      string  true  "Notice id"
// @Success      200  {object}  noticeListResponse
// @Failure      404  {object}  errorResponse
// @Router       /dashboard/notices/{id} [delete]
func (h *NoticeHandler) Delete(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req noticeIDRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	res, err := h.service.Delete(c.Request().Context(), s, req.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toNoticeListResponse(res, noticeDeletedMessage))
}

// Create submits a new notice. A multipart request may carry an
// "attachment" file (JPG, PNG or PDF) which is uploaded first.
//
// @Summary      Create a notice
// @Tags         notices
// @Accept       json,mpfd
// @Produce      json
// @Param        body        body      createNoticeRequest  true   "Notice fields"
// @Param        attachment  formData  file                 false  "JPG, PNG or PDF"
// @Success      201         {object}  createNoticeResponse
// @Failure      409         {object}  errorResponse
// @Failure      413         {object}  errorResponse
// @Failure      422         {object}  errorResponse
// @Failure      502         {object}  errorResponse
// @Router       /dashboard/notices [post]
func (h *NoticeHandler) Create(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req createNoticeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := ports.CreateNoticeInput{Draft: toNoticeDraft(req)}

	if isMultipart(c) {
		fh, err := c.FormFile("attachment")
		switch {
		case errors.Is(err, http.ErrMissingFile):
		case err != nil:
			return echo.NewHTTPError(http.StatusBadRequest, "invalid attachment")
		default:
			f, err := fh.Open()
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, "invalid attachment")
			}
			defer f.Close()

			att, err := storage.Prepare(fh.Filename, fh.Size, h.maxUpload, f)
			if err != nil {
				return err
			}
			in.Attachment = att
		}
	}

	notice, err := h.service.Create(c.Request().Context(), s, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, createNoticeResponse{
		Message: noticeCreatedMessage,
		Notice:  toNoticeResponse(*notice),
	})
}

// FormOptions returns the selector choices the creation form needs for a
// target. Only the individual target reaches the backend.
//
// @Summary      Notice form options
// @Tags         notices
// @Produce      json
// @Param        target  query     string  false  "individual, department or all"
// @Success      200     {object}  formOptionsResponse
// @Failure      422     {object}  errorResponse
// @Router       /dashboard/notices/form-options [get]
func (h *NoticeHandler) FormOptions(c echo.Context) error {
	s, err := ctxSession(c)
	if err != nil {
		return err
	}
	var req formOptionsRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	kind := domain.TargetKindAll
	if k, ok := domain.ParseTargetKind(req.Target); ok {
		kind = k
	}

	opts, err := h.service.FormOptions(c.Request().Context(), s, kind)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toFormOptionsResponse(opts))
}

func isMultipart(c echo.Context) bool {
	return strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm)
}
