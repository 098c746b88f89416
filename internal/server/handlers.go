package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/mutarjim/translation-service/internal/domain"
	"github.com/mutarjim/translation-service/internal/lang"
	"github.com/mutarjim/translation-service/internal/task"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleTranslateText(w http.ResponseWriter, r *http.Request) {
	var req domain.TranslateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Text == nil {
		writeError(w, http.StatusBadRequest, "Invalid request. 'text' key is required.")
		return
	}

	direction, err := lang.Resolve(*req.Text, req.Direction)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	if s.requestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.requestTimeout)
		defer cancel()
	}

	result, err := s.translator.Translate(ctx, *req.Text, direction)
	if err != nil {
		s.logger.Error("text translation failed", "direction", direction, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleTranslatePDF(w http.ResponseWriter, r *http.Request) {
	file, header, err := r.FormFile("file")
	if err != nil {
		// A part named "file" with an empty filename parses as a plain
		// form value, which is how browsers submit an empty file input.
		if r.MultipartForm != nil && len(r.MultipartForm.Value["file"]) > 0 {
			writeError(w, http.StatusBadRequest, "No selected file.")
		} else {
			writeError(w, http.StatusBadRequest, "No file part in the request.")
		}
		return
	}
	defer file.Close()

	tmp, err := os.CreateTemp("", "mutarjim-upload-*.pdf")
	if err != nil {
		s.logger.Error("creating upload file", "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save the uploaded file.")
		return
	}
	if _, err := io.Copy(tmp, file); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		s.logger.Error("saving upload", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save the uploaded file.")
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		s.logger.Error("saving upload", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to save the uploaded file.")
		return
	}

	created, err := s.submitter.Submit(r.Context(), tmp.Name(), header.Filename, r.FormValue("direction"))
	if err != nil {
		os.Remove(tmp.Name())
		s.logger.Error("submitting translation job", "filename", header.Filename, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to start the translation.")
		return
	}

	writeJSON(w, http.StatusAccepted, domain.TaskAccepted{
		Message:   "Translation started.",
		TaskID:    created.ID,
		StatusURL: "/status/" + created.ID,
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("task_id")
	t, err := s.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, task.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Task not found.")
			return
		}
		s.logger.Error("loading task", "task", id, "error", err)
		writeError(w, http.StatusInternalServerError, "Failed to load the task.")
		return
	}

	status := domain.TaskStatus{TaskID: t.ID, Status: string(t.Status)}
	switch t.Status {
	case task.StatusCompleted:
		status.Result = t.Result
	case task.StatusFailed:
		status.Error = t.Error
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Status string `json:"status"`
		Engine string `json:"engine"`
	}{Status: "ok", Engine: s.engineName})
}
