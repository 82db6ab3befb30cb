package services

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"flightline-backend-go/internal/models"
)

var documentTypes = []string{"MEDICAL_CERTIFICATE", "PHOTO_ID", "KNOWLEDGE_TEST", "ENDORSEMENT", "OTHER"}

func validDocumentType(documentType string) bool {
	for _, known := range documentTypes {
		if known == documentType {
			return true
		}
	}
	return false
}

func EnsureStoragePath(base string) (string, error) {
	if err := os.MkdirAll(base, 0755); err != nil {
		return "", err
	}
	return base, nil
}

// SaveStudentDocument streams an uploaded pilot document (medical, photo id,
// endorsement scan) to disk and records it with its sha256.
func SaveStudentDocument(db *sqlx.DB, basePath, documentType, contentType, filename, ownerID string, body io.Reader) (string, error) {
	documentType = strings.ToUpper(strings.TrimSpace(documentType))
	if !validDocumentType(documentType) {
		return "", ErrBadRequest("Unknown document type")
	}
	documentID := uuid.NewString()
	storageKey := documentID
	storagePath, err := EnsureStoragePath(basePath)
	if err != nil {
		return "", err
	}
	targetPath := filepath.Join(storagePath, storageKey)

	file, err := os.Create(targetPath)
	if err != nil {
		return "", err
	}
	hasher := sha256.New()
	writer := io.MultiWriter(file, hasher)
	size, err := io.Copy(writer, body)
	_ = file.Close()
	if err != nil {
		return "", err
	}
	if size == 0 {
		_ = os.Remove(targetPath)
		return "", ErrBadRequest("File is empty")
	}
	sha := hex.EncodeToString(hasher.Sum(nil))

	_, err = db.Exec(`
INSERT INTO student_documents (id, owner_user_id, document_type, storage_key, filename, content_type, size_bytes, sha256, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
`, documentID, ownerID, documentType, storageKey, filename, contentType, size, sha, time.Now().UTC())
	if err != nil {
		_ = os.Remove(targetPath)
		return "", err
	}
	return documentID, nil
}

func ListStudentDocuments(db *sqlx.DB, ownerID string) ([]models.StudentDocument, error) {
	items := []models.StudentDocument{}
	err := db.Select(&items, `
SELECT * FROM student_documents WHERE owner_user_id = $1 ORDER BY created_at DESC
`, ownerID)
	return items, err
}

func GetStudentDocument(db *sqlx.DB, documentID string) (*models.StudentDocument, error) {
	var item models.StudentDocument
	if err := db.Get(&item, `SELECT * FROM student_documents WHERE id = $1`, documentID); err != nil {
		return nil, err
	}
	return &item, nil
}

func DeleteStudentDocument(db *sqlx.DB, basePath, documentID string) error {
	item, err := GetStudentDocument(db, documentID)
	if err != nil {
		return nil
	}
	_, _ = db.Exec(`DELETE FROM student_documents WHERE id = $1`, documentID)
	_ = os.Remove(filepath.Join(basePath, item.StorageKey))
	return nil
}
