package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/swipehq/interview-assistant/internal/models"
	"github.com/swipehq/interview-assistant/internal/utils"
)

func memoryCandidateService() CandidateService {
	return NewCandidateService(nil, nil, nil, nil)
}

func savedRecord(t *testing.T, svc CandidateService, id, name, email string, score int, completedAt time.Time) {
	t.Helper()
	require.NoError(t, svc.SaveRecord(context.Background(), models.CandidateRecord{
		ID:          id,
		Profile:     models.CandidateProfile{Name: name, Email: email, Phone: "+14155550101"},
		Score:       score,
		CompletedAt: completedAt,
	}))
}

func TestSaveRecordRequiresID(t *testing.T) {
	svc := memoryCandidateService()
	err := svc.SaveRecord(context.Background(), models.CandidateRecord{})
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.CodeInvalidArgument))
}

func TestListDefaultRankOrder(t *testing.T) {
	svc := memoryCandidateService()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	savedRecord(t, svc, "a", "Alice Ray", "alice@example.com", 60, base)
	savedRecord(t, svc, "b", "Bob Tan", "bob@example.com", 85, base.Add(time.Hour))
	savedRecord(t, svc, "c", "Cara Liu", "cara@example.com", 85, base.Add(2*time.Hour))

	records, err := svc.List(context.Background(), "", "")
	require.NoError(t, err)
	require.Len(t, records, 3)
	require.Equal(t, "c", records[0].ID, "tie broken by later completion")
	require.Equal(t, "b", records[1].ID)
	require.Equal(t, "a", records[2].ID)
}

func TestListSearchFiltersNameAndEmail(t *testing.T) {
	svc := memoryCandidateService()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	savedRecord(t, svc, "a", "Alice Ray", "alice@example.com", 60, base)
	savedRecord(t, svc, "b", "Bob Tan", "bob@corp.io", 85, base)

	records, err := svc.List(context.Background(), "ALICE", "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "a", records[0].ID)

	records, err = svc.List(context.Background(), "corp.io", "")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "b", records[0].ID)

	records, err = svc.List(context.Background(), "nobody", "")
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestListSortVariants(t *testing.T) {
	svc := memoryCandidateService()
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	savedRecord(t, svc, "a", "Zoe Park", "zoe@example.com", 90, base)
	savedRecord(t, svc, "b", "Ann Chu", "ann@example.com", 40, base.Add(time.Hour))

	byName, err := svc.List(context.Background(), "", SortByName)
	require.NoError(t, err)
	require.Equal(t, "b", byName[0].ID)

	byRecent, err := svc.List(context.Background(), "", SortByRecent)
	require.NoError(t, err)
	require.Equal(t, "b", byRecent[0].ID)

	byScore, err := svc.List(context.Background(), "", SortByScore)
	require.NoError(t, err)
	require.Equal(t, "a", byScore[0].ID)
}

func TestGetUnknownCandidate(t *testing.T) {
	svc := memoryCandidateService()
	_, err := svc.Get(context.Background(), "ghost")
	require.Error(t, err)
	require.True(t, utils.IsCode(err, utils.CodeNotFound))
}

func TestGetAfterSave(t *testing.T) {
	svc := memoryCandidateService()
	savedRecord(t, svc, "a", "Alice Ray", "alice@example.com", 60, time.Now())

	got, err := svc.Get(context.Background(), "a")
	require.NoError(t, err)
	require.Equal(t, "Alice Ray", got.Profile.Name)
}

func TestWipeAllEmptiesRegistry(t *testing.T) {
	svc := memoryCandidateService()
	savedRecord(t, svc, "a", "Alice Ray", "alice@example.com", 60, time.Now())

	require.NoError(t, svc.WipeAll(context.Background()))

	records, err := svc.List(context.Background(), "", "")
	require.NoError(t, err)
	require.Empty(t, records)
}
