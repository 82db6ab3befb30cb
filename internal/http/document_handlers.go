package httpapi

import (
	"net/http"
	"path/filepath"
	"time"

	"flightline-backend-go/internal/models"
	"flightline-backend-go/internal/services"

	"github.com/go-chi/chi/v5"
)

const maxDocumentBytes = 20 << 20

type DocumentResponse struct {
	ID           string    `json:"id"`
	DocumentType string    `json:"documentType"`
	Filename     *string   `json:"filename"`
	ContentType  string    `json:"contentType"`
	SizeBytes    int64     `json:"sizeBytes"`
	Sha256       *string   `json:"sha256,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func documentResponse(doc models.StudentDocument) DocumentResponse {
	return DocumentResponse{
		ID:           doc.ID,
		DocumentType: doc.DocumentType,
		Filename:     doc.Filename,
		ContentType:  doc.ContentType,
		SizeBytes:    doc.SizeBytes,
		Sha256:       doc.Sha256,
		CreatedAt:    doc.CreatedAt,
	}
}

func (s *Server) UploadDocument(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	if err := r.ParseMultipartForm(maxDocumentBytes); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		WriteError(w, http.StatusBadRequest, "Missing file")
		return
	}
	defer file.Close()
	documentType := r.FormValue("documentType")
	contentType := header.Header.Get("Content-Type")
	docID, err := services.SaveStudentDocument(s.DB, s.Config.DocumentStoragePath, documentType, contentType, header.Filename, userID, file)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	doc, err := services.GetStudentDocument(s.DB, docID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	WriteJSON(w, http.StatusCreated, documentResponse(*doc))
}

func (s *Server) ListDocuments(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	docs, err := services.ListStudentDocuments(s.DB, userID)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	items := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		items = append(items, documentResponse(doc))
	}
	WriteJSON(w, http.StatusOK, map[string][]DocumentResponse{"items": items})
}

func (s *Server) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	doc, err := services.GetStudentDocument(s.DB, chi.URLParam(r, "documentId"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if doc.OwnerUserID != userID && !hasRole(CurrentRoles(r), "INSTRUCTOR") && !hasRole(CurrentRoles(r), "ADMIN") {
		WriteError(w, http.StatusForbidden, "Not allowed")
		return
	}
	w.Header().Set("Content-Type", doc.ContentType)
	http.ServeFile(w, r, filepath.Join(s.Config.DocumentStoragePath, doc.StorageKey))
}

func (s *Server) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	userID := CurrentUserID(r)
	documentID := chi.URLParam(r, "documentId")
	doc, err := services.GetStudentDocument(s.DB, documentID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if doc.OwnerUserID != userID {
		WriteError(w, http.StatusForbidden, "Not allowed")
		return
	}
	if err := services.DeleteStudentDocument(s.DB, s.Config.DocumentStoragePath, documentID); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
