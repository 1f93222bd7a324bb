// Package resume handles resume intake: the supported-format gate, contact
// field extraction from raw text, and the missing-field computation that
// decides whether profile collection is needed before the interview.
package resume

import (
	"context"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/swipehq/interview-assistant/internal/models"
	"github.com/swipehq/interview-assistant/internal/utils"
)

// Extractor turns an uploaded document into raw text. Binary formats (PDF,
// DOCX) are decoded by an external collaborator; clients may also ship
// pre-extracted text with the upload, in which case no extractor runs.
type Extractor interface {
	Extract(ctx context.Context, fileName string, r io.Reader) (string, error)
}

// ExtractionResult is what the session state machine starts from.
type ExtractionResult struct {
	Text    string                 `json:"text"`
	Profile models.CandidateProfile `json:"profile"`
	Missing []models.RequiredField `json:"missing"`
	Summary string                 `json:"summary,omitempty"`
}

var (
	emailRe = regexp.MustCompile(`(?i)[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}`)
	phoneRe = regexp.MustCompile(`(\+?\d[\d\s().-]{7,}\d)`)
	nameRe  = regexp.MustCompile(`^[A-Za-z][A-Za-z'.-]*$`)
	namePre = regexp.MustCompile(`(?i)^name[:\-\s]*`)
)

// SupportedFile reports whether the upload is one of the two accepted formats.
func SupportedFile(fileName, mimeType string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(fileName), "."))
	isPDF := mimeType == "application/pdf" || ext == "pdf"
	isDocx := mimeType == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" || ext == "docx"
	return isPDF || isDocx
}

// CheckFile returns an actionable error for unsupported uploads.
func CheckFile(fileName, mimeType string) error {
	if !SupportedFile(fileName, mimeType) {
		return utils.E(utils.CodeInvalidArgument, "resume.CheckFile", "please upload a PDF or DOCX resume", nil)
	}
	return nil
}

func normalizePhone(input string) string {
	digits := strings.Map(func(r rune) rune {
		if r == '+' || (r >= '0' && r <= '9') {
			return r
		}
		return -1
	}, input)
	if len(digits) < 7 {
		return ""
	}
	return digits
}

func sanitizeLines(text string) []string {
	split := strings.FieldsFunc(text, func(r rune) bool { return r == '\n' || r == '\r' })
	var lines []string
	for _, raw := range split {
		for _, part := range strings.SplitAfter(raw, ".") {
			part = strings.TrimSpace(part)
			if part != "" {
				lines = append(lines, part)
			}
		}
	}
	return lines
}

// inferName takes the first line of 2-4 plain word tokens as the name.
func inferName(lines []string) string {
	for _, line := range lines {
		tokens := strings.Fields(line)
		if len(tokens) < 2 || len(tokens) > 4 {
			continue
		}
		ok := true
		for _, token := range tokens {
			if !nameRe.MatchString(token) {
				ok = false
				break
			}
		}
		if ok {
			return strings.TrimSpace(namePre.ReplaceAllString(line, ""))
		}
	}
	return ""
}

// ExtractProfile pulls name, email and phone out of raw resume text.
func ExtractProfile(text string) models.CandidateProfile {
	profile := models.CandidateProfile{
		Email: emailRe.FindString(text),
		Name:  inferName(sanitizeLines(text)),
	}
	if m := phoneRe.FindString(text); m != "" {
		profile.Phone = normalizePhone(m)
	}
	return profile
}

// MissingFields lists the required fields absent from the profile, in the
// fixed name, email, phone order.
func MissingFields(profile models.CandidateProfile) []models.RequiredField {
	missing := []models.RequiredField{}
	for _, f := range []models.RequiredField{models.FieldName, models.FieldEmail, models.FieldPhone} {
		if profile.Field(f) == "" {
			missing = append(missing, f)
		}
	}
	return missing
}

// Parse runs field extraction over already-extracted text.
func Parse(text string) ExtractionResult {
	profile := ExtractProfile(text)
	return ExtractionResult{
		Text:    text,
		Profile: profile,
		Missing: MissingFields(profile),
	}
}
