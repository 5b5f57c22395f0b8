package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ehud-Guzman/customerfeedback/internal/models"
)

func sampleResponse() (*models.Response, []models.ResponseItem) {
	reason := "CROWDED"
	return &models.Response{
			ID:             "r1",
			OrgID:          "org-1",
			SurveyID:       "s1",
			Source:         models.SourceQR,
			SubmittedAt:    time.Now().UTC(),
			FastExitReason: &reason,
		}, []models.ResponseItem{
			{QuestionID: "q1", Value: "5"},
			{QuestionID: "q2", Value: "YES"},
		}
}

func TestCreateWithItems(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewResponseRepository(db)
	response, items := sampleResponse()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO responses").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO response_items").
		WithArgs(sqlmock.AnyArg(), "r1", "q1", "5").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO response_items").
		WithArgs(sqlmock.AnyArg(), "r1", "q2", "YES").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.CreateWithItems(context.Background(), response, items))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateWithItemsRollsBackOnItemFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewResponseRepository(db)
	response, items := sampleResponse()

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO responses").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO response_items").WillReturnError(assert.AnError)
	mock.ExpectRollback()

	err := repo.CreateWithItems(context.Background(), response, items)
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}
