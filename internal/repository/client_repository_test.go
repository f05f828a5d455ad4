package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/firmdesk/firmdesk-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func clientRows(clients ...models.Client) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name", "company", "email", "phone", "active", "created_at", "updated_at"})
	for _, c := range clients {
		rows.AddRow(c.ID, c.Name, c.Company, c.Email, c.Phone, c.Active, c.CreatedAt, c.UpdatedAt)
	}
	return rows
}

func TestClientRepositoryCreateAndGet(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewClientRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO clients")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	client := &models.Client{
		Name:    "Troy Business Services LLC",
		Company: "Troy Business Services",
		Email:   "gokhan@troy.com",
		Phone:   "555-0101",
		Active:  true,
	}
	require.NoError(t, repo.Create(context.Background(), client))
	require.NotEmpty(t, client.ID)

	now := time.Now()
	client.CreatedAt, client.UpdatedAt = now, now
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, company, email, phone, active, created_at, updated_at")).
		WithArgs(client.ID).
		WillReturnRows(clientRows(*client))

	found, err := repo.GetByID(context.Background(), client.ID)
	require.NoError(t, err)
	require.Equal(t, client.Name, found.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepositoryListWithSearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewClientRepository(db)
	now := time.Now()
	mock.ExpectQuery("SELECT id, name, company, email, phone, active, created_at, updated_at").
		WithArgs("%troy%").
		WillReturnRows(clientRows(models.Client{ID: "c1", Name: "Troy Business Services LLC", Email: "gokhan@troy.com", Active: true, CreatedAt: now, UpdatedAt: now}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM clients")).
		WithArgs("%troy%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	clients, total, err := repo.List(context.Background(), models.ClientFilter{Search: "troy", Page: 1, PageSize: 20})
	require.NoError(t, err)
	require.Len(t, clients, 1)
	require.Equal(t, 1, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepositoryListActiveFilter(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewClientRepository(db)
	mock.ExpectQuery("SELECT id, name, company, email, phone, active, created_at, updated_at").
		WithArgs(true).
		WillReturnRows(clientRows())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM clients")).
		WithArgs(true).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	active := true
	clients, total, err := repo.List(context.Background(), models.ClientFilter{Active: &active})
	require.NoError(t, err)
	require.Empty(t, clients)
	require.Equal(t, 0, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestClientRepositoryUpdate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewClientRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE clients SET")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	client := &models.Client{ID: "c1", Name: "Renamed LLC", Email: "ops@renamed.com", Active: true}
	require.NoError(t, repo.Update(context.Background(), client))
	require.NoError(t, mock.ExpectationsWereMet())
}
