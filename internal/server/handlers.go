package server

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"shopifyfeed/internal/feed"
	"shopifyfeed/internal/model"
	"shopifyfeed/internal/repository"
	"shopifyfeed/internal/upload"
)

const (
	previewRows = 20
	formatJSON  = "json"
	// folga para cabeçalhos e boundaries do multipart
	multipartOverhead = 64 << 10
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

type UploadResponse struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Rows         int            `json:"rows"`
	Columns      []string       `json:"columns"`
	HasInventory bool           `json:"has_inventory"`
	Warnings     []feed.Warning `json:"warnings,omitempty"`
}

// ExportRequest traz os controles de filtro. Campos ausentes usam a config.
type ExportRequest struct {
	Domain             string `form:"domain" json:"domain" binding:"required"`
	MinQuantity        *int   `form:"min_quantity" json:"min_quantity" binding:"omitempty,min=0"`
	ActiveOnly         *bool  `form:"active_only" json:"active_only"`
	IncludeDescription *bool  `form:"include_description" json:"include_description"`
	Format             string `form:"format" json:"format" binding:"omitempty,oneof=csv xlsx json"`
}

type ExportPreview struct {
	FileName string            `json:"file_name"`
	Stats    feed.Stats        `json:"stats"`
	Warnings []feed.Warning    `json:"warnings,omitempty"`
	Rows     []model.ExportRow `json:"rows"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Success: false,
		Error:   ErrorBody{Code: code, Message: message},
	})
}

// CreateUpload guarda o export bruto e retorna um resumo do conteúdo
// POST /api/v1/uploads
func (h *Handler) CreateUpload(c *gin.Context) {
	limit := h.cfg.MaxUploadMB << 20
	tooLarge := fmt.Sprintf("limite de %d MB", h.cfg.MaxUploadMB)
	if c.Request.ContentLength > limit+multipartOverhead {
		respondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", tooLarge)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit+multipartOverhead)

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			respondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", tooLarge)
			return
		}
		respondError(c, http.StatusBadRequest, "FILE_REQUIRED", "Envie o CSV exportado do Shopify no campo 'file'")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, limit+1))
	if err != nil {
		respondError(c, http.StatusBadRequest, "READ_FAILED", err.Error())
		return
	}
	if int64(len(data)) > limit {
		respondError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", tooLarge)
		return
	}

	table, err := feed.Load(bytes.NewReader(data))
	if err != nil {
		h.log.WithError(err).Warn("Upload rejeitado")
		respondError(c, http.StatusUnprocessableEntity, errorCode(err), err.Error())
		return
	}

	u := upload.New(header.Filename, data)
	if err := h.store.Save(c.Request.Context(), u); err != nil {
		h.log.WithError(err).Error("Erro ao salvar upload")
		respondError(c, http.StatusInternalServerError, "STORE_FAILED", "não foi possível guardar o arquivo")
		return
	}

	resp := UploadResponse{
		ID:           u.ID,
		Name:         u.Name,
		Rows:         len(table.Rows),
		Columns:      table.Header,
		HasInventory: table.HasInventory,
	}
	if !table.HasInventory {
		resp.Warnings = append(resp.Warnings, feed.Warning{
			Kind:    feed.WarnMissingInventory,
			Message: fmt.Sprintf("NOTA: coluna %q não existe, o filtro de estoque mínimo não será aplicado", model.ColInventoryQty),
		})
	}
	h.log.WithFields(logrus.Fields{"upload_id": u.ID, "rows": resp.Rows}).Info("Arquivo importado")
	c.JSON(http.StatusCreated, resp)
}

var previewTmpl = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head><meta charset="utf-8"><title>{{.Name}}</title></head>
<body>
<h1>{{.Name}}</h1>
<p class="summary">Mostrando {{len .Records}} linhas</p>
<table id="products">
<thead><tr>{{range .Header}}<th>{{.}}</th>{{end}}</tr></thead>
<tbody>
{{range .Records}}<tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// PreviewUpload mostra as primeiras linhas do export guardado em uma tabela HTML
// GET /api/v1/uploads/:id/preview
func (h *Handler) PreviewUpload(c *gin.Context) {
	u, ok := h.getUpload(c)
	if !ok {
		return
	}

	hdr, records, err := feed.Preview(bytes.NewReader(u.Data), previewRows)
	if err != nil {
		respondError(c, http.StatusUnprocessableEntity, errorCode(err), err.Error())
		return
	}

	var buf bytes.Buffer
	err = previewTmpl.Execute(&buf, map[string]interface{}{
		"Name":    u.Name,
		"Header":  hdr,
		"Records": records,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "RENDER_FAILED", err.Error())
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// ExportUpload roda a conversão sobre os bytes guardados e retorna o feed
// POST /api/v1/uploads/:id/export
func (h *Handler) ExportUpload(c *gin.Context) {
	u, ok := h.getUpload(c)
	if !ok {
		return
	}

	var req ExportRequest
	if err := c.ShouldBind(&req); err != nil {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	opts := feed.Options{
		Domain:             strings.TrimSpace(req.Domain),
		MinQuantity:        h.cfg.MinQuantity,
		ActiveOnly:         h.cfg.ActiveOnly,
		IncludeDescription: h.cfg.IncludeDescription,
		Currency:           h.cfg.Currency,
		SkipInvalidRows:    h.cfg.SkipInvalidRows,
	}
	if req.MinQuantity != nil {
		opts.MinQuantity = *req.MinQuantity
	}
	if req.ActiveOnly != nil {
		opts.ActiveOnly = *req.ActiveOnly
	}
	if req.IncludeDescription != nil {
		opts.IncludeDescription = *req.IncludeDescription
	}
	format := req.Format
	if format == "" {
		format = feed.FormatCSV
	}

	res, err := feed.New(opts, h.log.Logger).Run(bytes.NewReader(u.Data))
	if err != nil {
		h.recordRun(c, u, opts.Domain, format, nil, err)
		status := http.StatusUnprocessableEntity
		if errors.Is(err, feed.ErrValidation) {
			status = http.StatusBadRequest
		}
		respondError(c, status, errorCode(err), err.Error())
		return
	}

	if format == formatJSON {
		h.recordRun(c, u, opts.Domain, format, res, nil)
		c.JSON(http.StatusOK, ExportPreview{
			FileName: res.FileName(h.now(), feed.FormatCSV),
			Stats:    res.Stats,
			Warnings: res.Warnings,
			Rows:     res.Rows,
		})
		return
	}

	var buf bytes.Buffer
	if err := res.Export(&buf, format); err != nil {
		h.recordRun(c, u, opts.Domain, format, nil, err)
		respondError(c, http.StatusInternalServerError, errorCode(err), err.Error())
		return
	}
	h.recordRun(c, u, opts.Domain, format, res, nil)

	fileName := res.FileName(h.now(), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Header("X-Feed-Rows", strconv.Itoa(len(res.Rows)))
	if len(res.Warnings) > 0 {
		c.Header("X-Feed-Warnings", strconv.Itoa(len(res.Warnings)))
	}
	c.Data(http.StatusOK, feed.ContentType(format), buf.Bytes())
}

// ListRuns lista as últimas execuções registradas
// GET /api/v1/runs
func (h *Handler) ListRuns(c *gin.Context) {
	if h.runs == nil {
		respondError(c, http.StatusNotImplemented, "HISTORY_DISABLED", "histórico desativado: DATABASE_URL não definido")
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 || limit > 200 {
		limit = 20
	}
	runs, err := h.runs.Recent(c.Request.Context(), limit)
	if err != nil {
		h.log.WithError(err).Error("Erro ao listar execuções")
		respondError(c, http.StatusInternalServerError, "HISTORY_FAILED", "não foi possível ler o histórico")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "runs": runs})
}

func (h *Handler) getUpload(c *gin.Context) (*upload.Upload, bool) {
	u, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, upload.ErrNotFound) {
		respondError(c, http.StatusNotFound, "UPLOAD_NOT_FOUND", err.Error())
		return nil, false
	}
	if err != nil {
		h.log.WithError(err).Error("Erro ao ler upload")
		respondError(c, http.StatusInternalServerError, "STORE_FAILED", "não foi possível ler o arquivo")
		return nil, false
	}
	return u, true
}

// recordRun grava a execução no histórico. Falhas apenas geram log.
func (h *Handler) recordRun(c *gin.Context, u *upload.Upload, domain, format string, res *feed.Result, runErr error) {
	if h.runs == nil {
		return
	}
	run := repository.Run{
		Domain:     domain,
		SourceName: u.Name,
		Format:     format,
		Status:     repository.RunStatusOK,
		CreatedAt:  h.now().UTC(),
	}
	if res != nil {
		run.RowsIn = res.Stats.RowsLoaded
		run.RowsOut = res.Stats.RowsExported
	}
	if runErr != nil {
		run.Status = repository.RunStatusFailed
		run.Error = runErr.Error()
	}
	if err := h.runs.Save(c.Request.Context(), run); err != nil {
		h.log.WithError(err).Warn("Erro ao registrar execução")
	}
}

func errorCode(err error) string {
	switch {
	case errors.Is(err, feed.ErrValidation):
		return "VALIDATION_ERROR"
	case errors.Is(err, feed.ErrParse):
		return "PARSE_ERROR"
	case errors.Is(err, feed.ErrSchema):
		return "SCHEMA_ERROR"
	default:
		return "RUNTIME_ERROR"
	}
}
