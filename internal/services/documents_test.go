package services

import (
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bidsmith/tender-analyzer-api/internal/kb"
	"github.com/bidsmith/tender-analyzer-api/internal/models"
	"github.com/bidsmith/tender-analyzer-api/internal/utils"
)

func newTestService(log *callLog, docs *fakeDocRepo, analyses *fakeAnalysisRepo, store *fakeStorage, gateway *fakeGateway) *DocumentService {
	svc := NewDocumentService(docs, analyses, store, gateway, &kb.KnowledgeBase{}, utils.NewLogger("error"))
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

// uploadFixture is not a real PDF on purpose: the local text-layer pass
// fails on it and the pipeline falls back to the gateway extraction.
var uploadFixture = []byte("%PDF-garbage that the local extractor cannot read")

func TestUploadPipelineOrder(t *testing.T) {
	log := &callLog{}
	docs := newFakeDocRepo(log)
	analyses := newFakeAnalysisRepo(log)
	store := newFakeStorage(log)
	gateway := &fakeGateway{log: log, extractedText: "extracted tender text"}

	svc := newTestService(log, docs, analyses, store, gateway)

	resp, err := svc.Upload(context.Background(), "U", &models.UploadRequest{
		File:     uploadFixture,
		FileName: "report.pdf",
		MimeType: "application/pdf",
	}, nil)
	require.NoError(t, err)
	require.NotNil(t, resp.Document)
	require.NotNil(t, resp.Analysis)

	// Storage write strictly precedes the record insert, which precedes
	// both remote calls, and extraction precedes analysis.
	idx := func(prefix string) int {
		for i, call := range log.calls {
			if strings.HasPrefix(call, prefix) {
				return i
			}
		}
		t.Fatalf("call %q not found in %v", prefix, log.calls)
		return -1
	}
	assert.Less(t, idx("storage.Upload"), idx("docs.Create"))
	assert.Less(t, idx("docs.Create"), idx("gateway.ExtractText"))
	assert.Less(t, idx("gateway.ExtractText"), idx("gateway.Analyze"))
	assert.Less(t, idx("gateway.Analyze"), idx("analyses.Create"))

	assert.Equal(t, models.StatusAnalyzed, resp.Document.Status)
	require.NotNil(t, resp.Document.ExtractedText)
	assert.Equal(t, "extracted tender text", *resp.Document.ExtractedText)

	assert.Equal(t, "U", resp.Analysis.UserID)
	assert.Equal(t, resp.Document.ID, resp.Analysis.DocumentID)
	assert.GreaterOrEqual(t, resp.Analysis.ComplianceScore, 0)
	assert.LessOrEqual(t, resp.Analysis.ComplianceScore, 100)
}

func TestUploadPathConvention(t *testing.T) {
	log := &callLog{}
	docs := newFakeDocRepo(log)
	analyses := newFakeAnalysisRepo(log)
	store := newFakeStorage(log)
	gateway := &fakeGateway{log: log, extractedText: "text"}

	svc := newTestService(log, docs, analyses, store, gateway)

	resp, err := svc.Upload(context.Background(), "U", &models.UploadRequest{
		File:     uploadFixture,
		FileName: "report.pdf",
		MimeType: "application/pdf",
	}, nil)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^U/\d+_report\.pdf$`), resp.Document.FilePath)
}

func TestUploadRejectsNonPDF(t *testing.T) {
	log := &callLog{}
	docs := newFakeDocRepo(log)
	analyses := newFakeAnalysisRepo(log)
	store := newFakeStorage(log)
	gateway := &fakeGateway{log: log}

	svc := newTestService(log, docs, analyses, store, gateway)

	_, err := svc.Upload(context.Background(), "U", &models.UploadRequest{
		File:     []byte("hello"),
		FileName: "notes.txt",
		MimeType: "text/plain",
	}, nil)

	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
	// Rejected before any side effect
	assert.Empty(t, log.calls)
}

func TestUploadSuffixOnlyHintAccepted(t *testing.T) {
	log := &callLog{}
	docs := newFakeDocRepo(log)
	analyses := newFakeAnalysisRepo(log)
	store := newFakeStorage(log)
	gateway := &fakeGateway{log: log, extractedText: "text"}

	svc := newTestService(log, docs, analyses, store, gateway)

	// Declared mime is wrong but the suffix matches; the hint-only check
	// lets it through.
	_, err := svc.Upload(context.Background(), "U", &models.UploadRequest{
		File:     uploadFixture,
		FileName: "mislabeled.PDF",
		MimeType: "application/octet-stream",
	}, nil)
	require.NoError(t, err)
}

func TestUploadExtractionFailureMarksError(t *testing.T) {
	log := &callLog{}
	docs := newFakeDocRepo(log)
	analyses := newFakeAnalysisRepo(log)
	store := newFakeStorage(log)
	gateway := &fakeGateway{log: log, extractErr: utils.NewRateLimitError("Rate limit exceeded. Please try again later.")}

	svc := newTestService(log, docs, analyses, store, gateway)

	_, err := svc.Upload(context.Background(), "U", &models.UploadRequest{
		File:     uploadFixture,
		FileName: "report.pdf",
		MimeType: "application/pdf",
	}, nil)

	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 429, appErr.StatusCode)

	// Document row survives in error status; no rollback, no analysis.
	require.Len(t, docs.docs, 1)
	for _, doc := range docs.docs {
		assert.Equal(t, models.StatusError, doc.Status)
	}
	assert.Empty(t, analyses.analyses)
	for _, call := range log.calls {
		assert.NotEqual(t, "gateway.Analyze", call)
	}
}

func TestUploadEmptyTextSkipsAnalysis(t *testing.T) {
	log := &callLog{}
	docs := newFakeDocRepo(log)
	analyses := newFakeAnalysisRepo(log)
	store := newFakeStorage(log)
	gateway := &fakeGateway{log: log, extractedText: "   "}

	svc := newTestService(log, docs, analyses, store, gateway)

	resp, err := svc.Upload(context.Background(), "U", &models.UploadRequest{
		File:     uploadFixture,
		FileName: "report.pdf",
		MimeType: "application/pdf",
	}, nil)
	require.NoError(t, err)
	assert.Nil(t, resp.Analysis)
	for _, call := range log.calls {
		assert.NotEqual(t, "gateway.Analyze", call)
	}
}

func TestUploadProgressMonotonic(t *testing.T) {
	log := &callLog{}
	docs := newFakeDocRepo(log)
	analyses := newFakeAnalysisRepo(log)
	store := newFakeStorage(log)
	gateway := &fakeGateway{log: log, extractedText: "text"}

	svc := newTestService(log, docs, analyses, store, gateway)

	var percents []int
	_, err := svc.Upload(context.Background(), "U", &models.UploadRequest{
		File:     uploadFixture,
		FileName: "report.pdf",
		MimeType: "application/pdf",
	}, func(percent int, _ string) {
		percents = append(percents, percent)
	})
	require.NoError(t, err)

	require.NotEmpty(t, percents)
	for i := 1; i < len(percents); i++ {
		assert.GreaterOrEqual(t, percents[i], percents[i-1])
	}
	assert.Equal(t, 100, percents[len(percents)-1])
}

func TestAnalyzeUsesStoredText(t *testing.T) {
	log := &callLog{}
	docs := newFakeDocRepo(log)
	analyses := newFakeAnalysisRepo(log)
	store := newFakeStorage(log)
	gateway := &fakeGateway{log: log}

	text := "stored extracted text"
	docs.docs["doc-1"] = &models.Document{
		ID:            "doc-1",
		UserID:        "U",
		FileName:      "report.pdf",
		Status:        models.StatusAnalyzed,
		ExtractedText: &text,
	}

	svc := newTestService(log, docs, analyses, store, gateway)

	analysis, err := svc.Analyze(context.Background(), "U", "doc-1", "")
	require.NoError(t, err)
	assert.Equal(t, "doc-1", analysis.DocumentID)
	assert.Len(t, analyses.analyses, 1)
}

func TestAnalyzeWithoutTextRejected(t *testing.T) {
	log := &callLog{}
	docs := newFakeDocRepo(log)
	analyses := newFakeAnalysisRepo(log)
	store := newFakeStorage(log)
	gateway := &fakeGateway{log: log}

	docs.docs["doc-1"] = &models.Document{
		ID:       "doc-1",
		UserID:   "U",
		FileName: "report.pdf",
		Status:   models.StatusPending,
	}

	svc := newTestService(log, docs, analyses, store, gateway)

	_, err := svc.Analyze(context.Background(), "U", "doc-1", "")
	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 400, appErr.StatusCode)
}

func TestPlainDeleteLeavesBlob(t *testing.T) {
	log := &callLog{}
	docs := newFakeDocRepo(log)
	analyses := newFakeAnalysisRepo(log)
	store := newFakeStorage(log)
	gateway := &fakeGateway{log: log}

	docs.docs["doc-1"] = &models.Document{ID: "doc-1", UserID: "U", FilePath: "U/1_report.pdf"}
	store.objects["U/1_report.pdf"] = []byte("bytes")

	svc := newTestService(log, docs, analyses, store, gateway)

	require.NoError(t, svc.Delete(context.Background(), "U", "doc-1"))

	assert.Empty(t, docs.docs)
	// The blob is orphaned on purpose; only the shredder removes it.
	assert.Contains(t, store.objects, "U/1_report.pdf")
}

func TestDeleteOtherUsersDocument(t *testing.T) {
	log := &callLog{}
	docs := newFakeDocRepo(log)
	analyses := newFakeAnalysisRepo(log)
	store := newFakeStorage(log)
	gateway := &fakeGateway{log: log}

	docs.docs["doc-1"] = &models.Document{ID: "doc-1", UserID: "someone-else"}

	svc := newTestService(log, docs, analyses, store, gateway)

	err := svc.Delete(context.Background(), "U", "doc-1")
	require.Error(t, err)
	appErr, ok := err.(*utils.AppError)
	require.True(t, ok)
	assert.Equal(t, 404, appErr.StatusCode)
}
