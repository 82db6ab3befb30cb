package services

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveStudentDocument(t *testing.T) {
	db := newTestDB(t)
	ownerID := seedUser(t, db, "student@flightline.test")
	dir := t.TempDir()

	docID, err := SaveStudentDocument(db, dir, "medical_certificate", "application/pdf", "medical.pdf", ownerID, strings.NewReader("pdf bytes"))
	require.NoError(t, err)

	doc, err := GetStudentDocument(db, docID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, doc.OwnerUserID)
	assert.Equal(t, "MEDICAL_CERTIFICATE", doc.DocumentType)
	assert.Equal(t, int64(len("pdf bytes")), doc.SizeBytes)
	require.NotNil(t, doc.Sha256)
	assert.Len(t, *doc.Sha256, 64)

	stored, err := os.ReadFile(filepath.Join(dir, doc.StorageKey))
	require.NoError(t, err)
	assert.Equal(t, "pdf bytes", string(stored))
}

func TestSaveStudentDocumentRejectsBadInput(t *testing.T) {
	db := newTestDB(t)
	ownerID := seedUser(t, db, "student@flightline.test")
	dir := t.TempDir()

	_, err := SaveStudentDocument(db, dir, "TAX_RETURN", "application/pdf", "x.pdf", ownerID, strings.NewReader("data"))
	require.Error(t, err)
	assert.Equal(t, 400, err.(ServiceError).Status)

	_, err = SaveStudentDocument(db, dir, "PHOTO_ID", "image/png", "id.png", ownerID, strings.NewReader(""))
	require.Error(t, err)
	assert.Equal(t, 400, err.(ServiceError).Status)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected uploads leave no files behind")
}

func TestDeleteStudentDocument(t *testing.T) {
	db := newTestDB(t)
	ownerID := seedUser(t, db, "student@flightline.test")
	dir := t.TempDir()

	docID, err := SaveStudentDocument(db, dir, "ENDORSEMENT", "image/jpeg", "solo.jpg", ownerID, strings.NewReader("jpeg"))
	require.NoError(t, err)
	doc, err := GetStudentDocument(db, docID)
	require.NoError(t, err)

	require.NoError(t, DeleteStudentDocument(db, dir, docID))

	_, err = GetStudentDocument(db, docID)
	assert.Error(t, err)
	_, err = os.Stat(filepath.Join(dir, doc.StorageKey))
	assert.True(t, os.IsNotExist(err))

	docs, err := ListStudentDocuments(db, ownerID)
	require.NoError(t, err)
	assert.Empty(t, docs)
}
