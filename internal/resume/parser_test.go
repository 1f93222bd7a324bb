package resume

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/swipehq/interview-assistant/internal/models"
	"github.com/swipehq/interview-assistant/internal/utils"
)

const fullResume = `Jane Doe
Senior Full-Stack Engineer
jane.doe@example.com
+1 (415) 555-0101
Built React dashboards and Node.js services at scale.`

func TestParseExtractsAllFields(t *testing.T) {
	got := Parse(fullResume)

	require.Equal(t, "Jane Doe", got.Profile.Name)
	require.Equal(t, "jane.doe@example.com", got.Profile.Email)
	require.Equal(t, "+14155550101", got.Profile.Phone)
	require.Empty(t, got.Missing)
}

func TestParseReportsMissingFieldsInOrder(t *testing.T) {
	got := Parse("Experienced engineer who has shipped many React and Node products")

	require.Equal(t, []models.RequiredField{models.FieldName, models.FieldEmail, models.FieldPhone}, got.Missing)
}

func TestParseMissingPhoneOnly(t *testing.T) {
	got := Parse("Jane Doe\njane.doe@example.com\nReact and Node.js work.")

	require.Equal(t, "Jane Doe", got.Profile.Name)
	require.Equal(t, "jane.doe@example.com", got.Profile.Email)
	require.Empty(t, got.Profile.Phone)
	require.Equal(t, []models.RequiredField{models.FieldPhone}, got.Missing)
}

func TestInferNameSkipsNonNameLines(t *testing.T) {
	// first 2-4 token line with plain word tokens wins
	got := ExtractProfile("Curriculum Vitae 2026 Edition Final\nJohn Smith\njohn@example.com")
	require.Equal(t, "John Smith", got.Name)
}

func TestNormalizePhone(t *testing.T) {
	require.Equal(t, "+14155550101", normalizePhone("+1 (415) 555-0101"))
	require.Equal(t, "0215550101", normalizePhone("021 555 0101"))
	require.Empty(t, normalizePhone("555-01"), "too few digits")
}

func TestSupportedFile(t *testing.T) {
	require.True(t, SupportedFile("resume.pdf", ""))
	require.True(t, SupportedFile("resume.PDF", ""))
	require.True(t, SupportedFile("resume.docx", ""))
	require.True(t, SupportedFile("upload.bin", "application/pdf"))
	require.False(t, SupportedFile("resume.txt", "text/plain"))
	require.False(t, SupportedFile("resume.doc", "application/msword"))
}

func TestCheckFileRejectsUnsupported(t *testing.T) {
	err := CheckFile("resume.txt", "text/plain")
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
	require.Contains(t, err.Error(), "please upload a PDF or DOCX resume")

	require.NoError(t, CheckFile("resume.pdf", "application/pdf"))
}
