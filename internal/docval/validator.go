// Package docval validates uploaded applicant documents: an OCR
// model-serving endpoint extracts text and classifies the document, and a
// deterministic per-type keyword heuristic takes over whenever the endpoint
// is unreachable or returns garbage. Validation never fails a request
// outright — degraded results are still results.
package docval

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"
)

const httpTimeout = 15 * time.Second

// DocumentType names the expected kind of an uploaded document.
type DocumentType string

const (
	DocTranscript         DocumentType = "transcript"
	DocDiploma            DocumentType = "diploma"
	DocPassport           DocumentType = "passport"
	DocRecommendation     DocumentType = "recommendation-letter"
	DocFinancialStatement DocumentType = "financial-statement"
)

// ParseDocumentType converts a raw string to a DocumentType.
func ParseDocumentType(s string) (DocumentType, error) {
	dt := DocumentType(s)
	switch dt {
	case DocTranscript, DocDiploma, DocPassport, DocRecommendation, DocFinancialStatement:
		return dt, nil
	}
	return "", fmt.Errorf("unknown document type %q", s)
}

// Result is the outcome of one validation pass.
type Result struct {
	Valid      bool    `json:"valid"`
	Confidence float64 `json:"confidence"` // [0,1]; heuristic results cap at 0.5
	Source     string  `json:"source"`     // "ocr" | "heuristic"
	Reason     string  `json:"reason,omitempty"`
}

// Validator checks that an uploaded document's text matches its declared
// type. If Endpoint is empty every request uses the keyword fallback.
type Validator struct {
	Endpoint string
	APIKey   string
	client   *http.Client
}

// NewValidator constructs a Validator with a shared HTTP client.
func NewValidator(endpoint, apiKey string) *Validator {
	return &Validator{
		Endpoint: endpoint,
		APIKey:   apiKey,
		client:   &http.Client{Timeout: httpTimeout},
	}
}

// ocrRequest is the payload sent to the model-serving endpoint.
type ocrRequest struct {
	Text         string `json:"text"`
	DocumentType string `json:"documentType"`
}

// ocrResponse mirrors the endpoint's JSON response.
type ocrResponse struct {
	Valid      bool    `json:"valid"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

// Validate classifies the extracted text against the declared document type.
// Endpoint failures fall back to the keyword heuristic rather than erroring.
func (v *Validator) Validate(ctx context.Context, docType DocumentType, text string) Result {
	if v.Endpoint == "" {
		return heuristic(docType, text)
	}

	res, err := v.callEndpoint(ctx, docType, text)
	if err != nil {
		log.Printf("[docval] OCR endpoint failed, using keyword fallback: %v", err)
		return heuristic(docType, text)
	}
	return res
}

func (v *Validator) callEndpoint(ctx context.Context, docType DocumentType, text string) (Result, error) {
	payload, err := json.Marshal(ocrRequest{Text: text, DocumentType: string(docType)})
	if err != nil {
		return Result{}, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("Content-Type", "application/json")
	if v.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+v.APIKey)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("http POST: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{}, fmt.Errorf("read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return Result{}, fmt.Errorf("ocr endpoint returned %d: %s", resp.StatusCode, string(body))
	}

	var apiResp ocrResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return Result{}, fmt.Errorf("json unmarshal: %w", err)
	}

	return Result{
		Valid:      apiResp.Valid,
		Confidence: apiResp.Confidence,
		Source:     "ocr",
		Reason:     apiResp.Reason,
	}, nil
}

// ── Keyword fallback ───────────────────────────────────────────────────────

// docKeywords lists the per-type markers the fallback scans for. Matching is
// case-insensitive substring, any-of.
var docKeywords = map[DocumentType][]string{
	DocTranscript:         {"transcript", "gpa", "grade", "credit", "semester", "course"},
	DocDiploma:            {"diploma", "degree", "conferred", "graduat", "bachelor", "master"},
	DocPassport:           {"passport", "nationality", "date of birth", "place of birth"},
	DocRecommendation:     {"recommend", "on behalf of", "sincerely", "professor", "supervisor"},
	DocFinancialStatement: {"balance", "account", "statement", "funds", "bank"},
}

// heuristic is the deterministic fallback: the document is accepted when any
// type-specific keyword appears in the text.
func heuristic(docType DocumentType, text string) Result {
	keywords := docKeywords[docType]
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return Result{
				Valid:      true,
				Confidence: 0.5,
				Source:     "heuristic",
				Reason:     fmt.Sprintf("matched keyword %q", kw),
			}
		}
	}
	return Result{
		Valid:      false,
		Confidence: 0.5,
		Source:     "heuristic",
		Reason:     fmt.Sprintf("no %s keywords found", docType),
	}
}
