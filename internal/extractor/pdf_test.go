package extractor

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExtractPDFRejectsGarbage(t *testing.T) {
	_, err := ExtractPDF([]byte("not a pdf at all"))
	require.Error(t, err)
}

func TestExtractPDFRejectsEmptyInput(t *testing.T) {
	_, err := ExtractPDF(nil)
	require.Error(t, err)
}

func TestExtractPDFRejectsTruncatedHeader(t *testing.T) {
	// A bare header with no body or xref table. The upload pipeline
	// treats this error as "no text layer" and falls back to the gateway.
	_, err := ExtractPDF([]byte("%PDF-1.7\n"))
	require.Error(t, err)
}
