package handler

import (
	"errors"
	"net/http"

	"clinical-registry/internal/infrastructure/export"
	"clinical-registry/internal/usecase"
	"clinical-registry/pkg/response"

	"github.com/gorilla/mux"
)

type ExportHandler struct {
	exportUsecase usecase.ExportUsecase
}

func NewExportHandler(exportUsecase usecase.ExportUsecase) *ExportHandler {
	return &ExportHandler{
		exportUsecase: exportUsecase,
	}
}

// Download renders the current data on demand
// @Summary Download patient export
// @Tags Export
// @Produce octet-stream
// @Param format path string true "csv, xlsx or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Response
// @Router /export/{format} [get]
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	file, err := h.exportUsecase.Render(r.Context(), mux.Vars(r)["format"])
	if err != nil {
		if errors.Is(err, export.ErrUnsupportedFormat) {
			response.Error(w, http.StatusBadRequest, "Unsupported export format", nil)
			return
		}
		response.InternalServerError(w, "Failed to export patient records")
		return
	}

	response.Attachment(w, file.FileName, file.ContentType, file.Data)
}
