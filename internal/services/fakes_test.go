package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/bidsmith/tender-analyzer-api/internal/models"
)

// The fakes record every call into a shared log so tests can assert the
// strict step ordering of the pipelines.

type callLog struct {
	calls []string
}

func (l *callLog) add(format string, args ...any) {
	l.calls = append(l.calls, fmt.Sprintf(format, args...))
}

type fakeDocRepo struct {
	log  *callLog
	docs map[string]*models.Document

	createErr   error
	getErr      error
	statusErr   error
	saveTextErr error
	deleteErr   error
}

func newFakeDocRepo(log *callLog) *fakeDocRepo {
	return &fakeDocRepo{log: log, docs: map[string]*models.Document{}}
}

func (f *fakeDocRepo) Create(_ context.Context, doc *models.Document) error {
	f.log.add("docs.Create:%s", doc.ID)
	if f.createErr != nil {
		return f.createErr
	}
	copied := *doc
	f.docs[doc.ID] = &copied
	return nil
}

func (f *fakeDocRepo) GetByID(_ context.Context, id, userID string) (*models.Document, error) {
	f.log.add("docs.GetByID:%s", id)
	if f.getErr != nil {
		return nil, f.getErr
	}
	doc, ok := f.docs[id]
	if !ok || doc.UserID != userID {
		return nil, nil
	}
	copied := *doc
	return &copied, nil
}

func (f *fakeDocRepo) ListByUser(_ context.Context, userID string) ([]models.Document, error) {
	out := []models.Document{}
	for _, doc := range f.docs {
		if doc.UserID == userID {
			out = append(out, *doc)
		}
	}
	return out, nil
}

func (f *fakeDocRepo) UpdateStatus(_ context.Context, id string, status models.DocumentStatus) error {
	f.log.add("docs.UpdateStatus:%s", status)
	if f.statusErr != nil {
		return f.statusErr
	}
	if doc, ok := f.docs[id]; ok {
		doc.Status = status
	}
	return nil
}

func (f *fakeDocRepo) SaveExtractedText(_ context.Context, id, text string, status models.DocumentStatus) error {
	f.log.add("docs.SaveExtractedText:%s", status)
	if f.saveTextErr != nil {
		return f.saveTextErr
	}
	if doc, ok := f.docs[id]; ok {
		doc.ExtractedText = &text
		doc.Status = status
	}
	return nil
}

func (f *fakeDocRepo) Delete(_ context.Context, id, userID string) error {
	f.log.add("docs.Delete:%s", id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	doc, ok := f.docs[id]
	if !ok || doc.UserID != userID {
		return sql.ErrNoRows
	}
	delete(f.docs, id)
	return nil
}

type fakeAnalysisRepo struct {
	log      *callLog
	analyses map[string]*models.Analysis

	createErr error
	deleteErr error
}

func newFakeAnalysisRepo(log *callLog) *fakeAnalysisRepo {
	return &fakeAnalysisRepo{log: log, analyses: map[string]*models.Analysis{}}
}

func (f *fakeAnalysisRepo) Create(_ context.Context, analysis *models.Analysis) error {
	f.log.add("analyses.Create:%s", analysis.DocumentID)
	if f.createErr != nil {
		return f.createErr
	}
	copied := *analysis
	f.analyses[analysis.ID] = &copied
	return nil
}

func (f *fakeAnalysisRepo) GetByID(_ context.Context, id, userID string) (*models.Analysis, error) {
	a, ok := f.analyses[id]
	if !ok || a.UserID != userID {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAnalysisRepo) ListByUser(_ context.Context, userID string) ([]models.Analysis, error) {
	out := []models.Analysis{}
	for _, a := range f.analyses {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAnalysisRepo) AttachSignature(_ context.Context, id, userID, signatureData string, signedAt time.Time) error {
	a, ok := f.analyses[id]
	if !ok || a.UserID != userID || a.SignedAt != nil {
		return sql.ErrNoRows
	}
	a.SignedAt = &signedAt
	a.SignatureData = &signatureData
	return nil
}

func (f *fakeAnalysisRepo) Delete(_ context.Context, id, userID string) error {
	f.log.add("analyses.Delete:%s", id)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.analyses, id)
	return nil
}

type fakeStorage struct {
	log     *callLog
	objects map[string][]byte

	uploadErr   error
	downloadErr error
	deleteErr   error
}

func newFakeStorage(log *callLog) *fakeStorage {
	return &fakeStorage{log: log, objects: map[string][]byte{}}
}

func (f *fakeStorage) Upload(_ context.Context, path string, data []byte, _ string) error {
	f.log.add("storage.Upload:%s", path)
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.objects[path] = data
	return nil
}

func (f *fakeStorage) Download(_ context.Context, path string) ([]byte, error) {
	f.log.add("storage.Download:%s", path)
	if f.downloadErr != nil {
		return nil, f.downloadErr
	}
	data, ok := f.objects[path]
	if !ok {
		return nil, fmt.Errorf("object %s not found", path)
	}
	return data, nil
}

func (f *fakeStorage) Delete(_ context.Context, paths ...string) error {
	for _, path := range paths {
		f.log.add("storage.Delete:%s", path)
	}
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for _, path := range paths {
		delete(f.objects, path)
	}
	return nil
}

type fakeGateway struct {
	log *callLog

	extractedText string
	extractErr    error
	result        *models.AnalysisResult
	analyzeErr    error
}

func (f *fakeGateway) ExtractText(_ context.Context, _ []byte) (string, error) {
	f.log.add("gateway.ExtractText")
	return f.extractedText, f.extractErr
}

func (f *fakeGateway) Analyze(_ context.Context, text, _ string) (*models.AnalysisResult, error) {
	f.log.add("gateway.Analyze")
	if f.analyzeErr != nil {
		return nil, f.analyzeErr
	}
	if f.result != nil {
		return f.result, nil
	}
	result := &models.AnalysisResult{ComplianceScore: 75, Summary: "ok"}
	result.Normalize()
	return result, nil
}
