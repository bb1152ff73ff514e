package keyword

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepositoryCreateErrorMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{name: "duplicate name in category", err: &pq.Error{Code: "23505", Constraint: "keywords_name_category_key"}, want: ErrKeywordExists},
		{name: "blank name", err: &pq.Error{Code: "23514", Constraint: "keywords_name_check"}, want: ErrEmptyName},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO keywords (name, category)`)).
				WithArgs("calm", "").
				WillReturnError(tc.err)

			repo := NewRepository(sqlx.NewDb(db, "postgres"))
			err = repo.Create(context.Background(), &Keyword{Name: "calm"})
			assert.ErrorIs(t, err, tc.want)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
