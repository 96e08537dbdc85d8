package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/export"
	"github.com/appdotbuilder/skripsi-bimbingan-online/internal/service"
)

const xlsxMIME = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ExportHandler streams administrative spreadsheets.
type ExportHandler struct {
	Theses *service.ThesisService
}

func NewExportHandler(t *service.ThesisService) *ExportHandler {
	return &ExportHandler{Theses: t}
}

func (h *ExportHandler) ThesesXLSX(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()
	rows, err := h.Theses.ExportRows(ctx)
	if err != nil {
		return err
	}
	wb, err := export.NewThesesWorkbook(rows)
	if err != nil {
		return err
	}
	defer wb.Close()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, xlsxMIME)
	res.Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+export.FileName(time.Now())+`"`)
	res.WriteHeader(http.StatusOK)
	_, err = wb.WriteTo(res)
	return err
}
