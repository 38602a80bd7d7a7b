package api

import (
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"HurstLab/internal/domain/errs"
	"HurstLab/internal/domain/models"
	domrepo "HurstLab/internal/domain/repository"
	"HurstLab/internal/usecase"
	xhttp "HurstLab/pkg/http"
	xlogger "HurstLab/pkg/logger"
	xutil "HurstLab/pkg/util"
)

// AnalysisEchoHandler serves the analyse and research use cases.
type AnalysisEchoHandler struct {
	logger   *xlogger.Logger
	analyse  *usecase.Analyse
	research *usecase.Research
}

func NewAnalysisEchoHandler(logger *xlogger.Logger, analyse *usecase.Analyse, research *usecase.Research) *AnalysisEchoHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &AnalysisEchoHandler{logger: logger, analyse: analyse, research: research}
}

func (h *AnalysisEchoHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/analyse", h.Analyse)
	e.POST("/research", h.Research)
	e.GET("/wavelets", h.Wavelets)
	e.GET("/healthz", h.Health)
}

func (h *AnalysisEchoHandler) Analyse(c echo.Context) error {
	req := &AnalyseRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	start, end, appErr := dateRange(req.StartDate, req.EndDate)
	if appErr != nil {
		return xhttp.AppErrorResponse(c, appErr)
	}
	if appErr := h.checkWavelet(req.Wavelet); appErr != nil {
		return xhttp.AppErrorResponse(c, appErr)
	}

	res, err := h.analyse.Run(c.Request().Context(), usecase.AnalyseParams{
		Currency:  req.Currency,
		Frequency: domrepo.NormalizeFrequency(req.Frequency),
		Start:     start,
		End:       end,
		Wavelet:   req.Wavelet,
		Extended:  req.Extended,
	})
	if err != nil {
		h.logger.Error("analyse usecase error", xlogger.String("currency", req.Currency), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Research(c echo.Context) error {
	req := &ResearchRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	start, end, appErr := dateRange(req.StartDate, req.EndDate)
	if appErr != nil {
		return xhttp.AppErrorResponse(c, appErr)
	}
	if appErr := h.checkWavelet(req.Wavelet); appErr != nil {
		return xhttp.AppErrorResponse(c, appErr)
	}

	res, err := h.research.Run(c.Request().Context(), usecase.ResearchParams{
		Symbol:    req.Currency,
		Frequency: domrepo.NormalizeFrequency(req.Frequency),
		Start:     start,
		End:       end,
		Signal:    models.SignalKind(req.Signal),
		Wavelet:   req.Wavelet,
		Cepstrum:  req.Cepstrum,
	})
	if err != nil {
		h.logger.Error("research usecase error", xlogger.String("currency", req.Currency), xlogger.Error(err))
		return xhttp.AppErrorResponse(c, domainError(err))
	}
	return xhttp.SuccessResponse(c, res)
}

func (h *AnalysisEchoHandler) Wavelets(c echo.Context) error {
	c.Response().Header().Set(echo.HeaderCacheControl, "public, max-age=3600")
	return xhttp.SuccessResponse(c, h.research.Families())
}

func (h *AnalysisEchoHandler) Health(c echo.Context) error {
	return xhttp.SuccessResponse(c, map[string]string{"status": "ok"})
}

// checkWavelet rejects families the transform does not know. Empty means
// the configured default.
func (h *AnalysisEchoHandler) checkWavelet(family string) *xhttp.AppError {
	if family == "" {
		return nil
	}
	for _, f := range h.research.Families() {
		if strings.EqualFold(f, family) {
			return nil
		}
	}
	return xhttp.FieldError("ERR_ONEOF", "wavelet", "wavelet must be one of: "+strings.Join(h.research.Families(), ", ")).
		WithParam("options", h.research.Families())
}

func dateRange(from, to string) (time.Time, time.Time, *xhttp.AppError) {
	start, ok := xutil.ParseTime(from)
	if !ok {
		return time.Time{}, time.Time{}, xhttp.BadRequestErrorf("invalid startDate %q", from)
	}
	end, ok := xutil.ParseTime(to)
	if !ok {
		return time.Time{}, time.Time{}, xhttp.BadRequestErrorf("invalid endDate %q", to)
	}
	// dates are compared as written, in their own offsets
	start, end = xutil.TruncateDay(start), xutil.TruncateDay(end)
	if start.After(end) {
		return time.Time{}, time.Time{}, xhttp.FieldError("ERR_GTEFIELD", "endDate", "endDate must not be before startDate").
			WithParam("field", "startDate")
	}
	return start, end, nil
}

// domainError maps analysis errors to a 500 carrying a stable code. Errors
// outside the taxonomy pass through and are reported as ERR_INTERNAL.
func domainError(err error) error {
	var appErr *xhttp.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	kind := errs.Kind(err)
	if kind == "internal" {
		return err
	}
	return xhttp.ServerError("ERR_"+strings.ToUpper(kind), err)
}
