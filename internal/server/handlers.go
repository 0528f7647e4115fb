package server

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/amara-nwosu/lexvault/internal/common"
)

// handleUpload accepts a multipart upload and runs synchronous admission.
// Accepted documents return 201 with the queued job; rejections return 422
// with the reason, which is an expected outcome rather than a server error.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	ownerID := r.FormValue("owner_id")
	if ownerID == "" {
		ownerID = r.Header.Get("X-Owner-ID")
	}
	if ownerID == "" {
		s.respondError(w, http.StatusBadRequest, "owner_id is required")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "file is required")
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "read upload")
		return
	}

	ctx := common.WithOwnerID(r.Context(), ownerID)
	if reqID := middleware.GetReqID(r.Context()); reqID != "" {
		ctx = common.WithRequestID(ctx, reqID)
	}

	result, err := s.admitter.Admit(ctx, ownerID, header.Filename, content)
	if err != nil {
		s.logger.Error("upload failed", "owner_id", ownerID, "filename", header.Filename, "err", err)
		s.respondError(w, http.StatusInternalServerError, "admission failed")
		return
	}

	if !result.Accepted {
		s.respondJSON(w, http.StatusUnprocessableEntity, result)
		return
	}
	s.respondJSON(w, http.StatusCreated, result)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	doc, err := s.docs.GetByID(r.Context(), id)
	if err != nil {
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, doc)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid document id")
		return
	}
	resp, err := s.status.Status(r.Context(), id)
	if err != nil {
		s.respondError(w, statusForError(err), err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		s.respondError(w, http.StatusBadRequest, "owner_id is required")
		return
	}
	docs, err := s.docs.ListByOwner(r.Context(), ownerID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "list documents")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"documents": docs, "count": len(docs)})
}

func (s *Server) handleListRejections(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		s.respondError(w, http.StatusBadRequest, "owner_id is required")
		return
	}
	limit := int32(50)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = int32(n)
		}
	}
	rejections, err := s.admitter.ListRejected(r.Context(), ownerID, limit)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "list rejections")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"rejections": rejections, "count": len(rejections)})
}

func (s *Server) handleExportRegister(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		s.respondError(w, http.StatusBadRequest, "owner_id is required")
		return
	}
	data, err := s.exporter.ExportRegisterXLSX(r.Context(), ownerID)
	if err != nil {
		s.logger.Error("export failed", "owner_id", ownerID, "err", err)
		s.respondError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="documents.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	ownerID := r.URL.Query().Get("owner_id")
	if ownerID == "" {
		s.respondError(w, http.StatusBadRequest, "owner_id is required")
		return
	}
	stats, err := s.exporter.OwnerStats(r.Context(), ownerID)
	if err != nil {
		s.respondError(w, http.StatusInternalServerError, "stats failed")
		return
	}
	s.respondJSON(w, http.StatusOK, stats)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
