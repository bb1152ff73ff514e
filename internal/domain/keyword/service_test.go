package keyword

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pawpals/pawpals-api/internal/domain/relation"
	"github.com/pawpals/pawpals-api/internal/domain/resolver"
	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
)

type fakeRepo struct {
	keywords map[int64]*Keyword
	deleted  []int64
}

func newFakeRepo(keywords ...*Keyword) *fakeRepo {
	r := &fakeRepo{keywords: map[int64]*Keyword{}}
	for _, k := range keywords {
		r.keywords[k.ID] = k
	}
	return r
}

func (r *fakeRepo) Create(ctx context.Context, k *Keyword) error {
	for _, existing := range r.keywords {
		if existing.Name == k.Name && existing.Category == k.Category {
			return ErrKeywordExists
		}
	}
	k.ID = int64(len(r.keywords) + 1)
	k.CreatedAt = time.Now()
	r.keywords[k.ID] = k
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id int64) (*Keyword, error) {
	return r.keywords[id], nil
}

func (r *fakeRepo) List(ctx context.Context, category string) ([]*Keyword, error) {
	var out []*Keyword
	for _, k := range r.keywords {
		if category == "" || k.Category == category {
			out = append(out, k)
		}
	}
	return out, nil
}

func (r *fakeRepo) ListForTarget(ctx context.Context, target relation.Target) ([]*Keyword, error) {
	return nil, nil
}

func (r *fakeRepo) DeleteTx(ctx context.Context, tx *sqlx.Tx, id int64) (bool, error) {
	if _, ok := r.keywords[id]; !ok {
		return false, nil
	}
	delete(r.keywords, id)
	r.deleted = append(r.deleted, id)
	return true, nil
}

var existsResolver = resolver.Func(func(ctx context.Context, target relation.Target) (*resolver.Descriptor, error) {
	return &resolver.Descriptor{Type: target.Type, ID: target.ID}, nil
})

func newTestService(t *testing.T, repo Repository, res resolver.Resolver) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	sqlxDB := sqlx.NewDb(db, "postgres")
	return NewService(sqlxDB, repo, relation.NewStore(sqlxDB), res), mock
}

func TestCreateKeywordTrimsAndRejectsDuplicates(t *testing.T) {
	svc, _ := newTestService(t, newFakeRepo(), existsResolver)

	k, err := svc.CreateKeyword(context.Background(), &CreateKeywordRequest{Name: " playful ", Category: "temperament"})
	require.NoError(t, err)
	assert.Equal(t, "playful", k.Name)

	_, err = svc.CreateKeyword(context.Background(), &CreateKeywordRequest{Name: "playful", Category: "temperament"})
	assert.ErrorIs(t, err, domainerr.ErrDuplicateRelation)
	assert.ErrorIs(t, err, ErrKeywordExists)
}

func TestCreateKeywordRejectsBlankName(t *testing.T) {
	repo := newFakeRepo()
	svc, _ := newTestService(t, repo, existsResolver)

	for _, name := range []string{"   ", "\t\n"} {
		k, err := svc.CreateKeyword(context.Background(), &CreateKeywordRequest{Name: name, Category: "temperament"})
		assert.Nil(t, k)
		assert.ErrorIs(t, err, ErrEmptyName)
		assert.ErrorIs(t, err, domainerr.ErrValidation)
	}
	assert.Empty(t, repo.keywords)
}

func TestDeleteKeywordCascadesInOneTransaction(t *testing.T) {
	repo := newFakeRepo(&Keyword{ID: 7, Name: "calm"})
	svc, mock := newTestService(t, repo, existsResolver)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tag_assignments WHERE keyword_id = $1`)).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectCommit()

	require.NoError(t, svc.DeleteKeyword(context.Background(), 7))
	assert.Equal(t, []int64{7}, repo.deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteKeywordNotFoundRollsBack(t *testing.T) {
	svc, mock := newTestService(t, newFakeRepo(), existsResolver)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tag_assignments WHERE keyword_id = $1`)).
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := svc.DeleteKeyword(context.Background(), 9)
	assert.ErrorIs(t, err, domainerr.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAssign(t *testing.T) {
	repo := newFakeRepo(&Keyword{ID: 7, Name: "calm"})
	dog := relation.Target{Type: relation.TargetDog, ID: 3}

	t.Run("stores the assignment", func(t *testing.T) {
		svc, mock := newTestService(t, repo, existsResolver)
		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO tag_assignments (keyword_id, target_type, target_id) VALUES ($1, $2, $3) RETURNING *`)).
			WithArgs(int64(7), "DOG", int64(3)).
			WillReturnRows(sqlmock.NewRows([]string{"id", "keyword_id", "target_type", "target_id", "created_at"}).
				AddRow(int64(1), int64(7), "DOG", int64(3), time.Now()))

		ta, err := svc.Assign(context.Background(), 7, dog)
		require.NoError(t, err)
		assert.Equal(t, int64(1), ta.ID)
		assert.Equal(t, dog, ta.Target)
	})

	t.Run("duplicate", func(t *testing.T) {
		svc, mock := newTestService(t, repo, existsResolver)
		mock.ExpectQuery("INSERT INTO tag_assignments").
			WillReturnError(&pq.Error{Code: "23505", Constraint: "tag_assignments_keyword_target_key"})

		_, err := svc.Assign(context.Background(), 7, dog)
		assert.ErrorIs(t, err, domainerr.ErrDuplicateRelation)
	})

	t.Run("walks cannot be tagged", func(t *testing.T) {
		svc, mock := newTestService(t, repo, existsResolver)
		_, err := svc.Assign(context.Background(), 7, relation.Target{Type: relation.TargetWalk, ID: 3})
		assert.ErrorIs(t, err, domainerr.ErrInvalidTarget)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown keyword", func(t *testing.T) {
		svc, _ := newTestService(t, repo, existsResolver)
		_, err := svc.Assign(context.Background(), 99, dog)
		assert.ErrorIs(t, err, ErrKeywordNotFound)
	})

	t.Run("unresolvable target", func(t *testing.T) {
		missing := resolver.Func(func(ctx context.Context, target relation.Target) (*resolver.Descriptor, error) {
			return nil, domainerr.ErrNotFound
		})
		svc, mock := newTestService(t, repo, missing)
		_, err := svc.Assign(context.Background(), 7, dog)
		assert.ErrorIs(t, err, domainerr.ErrNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUnassignTwice(t *testing.T) {
	svc, mock := newTestService(t, newFakeRepo(), existsResolver)
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tag_assignments WHERE id = $1`)).
		WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tag_assignments WHERE id = $1`)).
		WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, svc.Unassign(context.Background(), 4))
	assert.ErrorIs(t, svc.Unassign(context.Background(), 4), ErrAssignmentNotFound)
}

func TestNewTagResponsesKeepsAssignmentOrder(t *testing.T) {
	keywords := []*Keyword{{ID: 2, Name: "b"}, {ID: 1, Name: "a"}}
	assignments := []*TagAssignment{
		{ID: 10, KeywordID: 1, Target: relation.Target{Type: relation.TargetDog, ID: 3}},
		{ID: 11, KeywordID: 2, Target: relation.Target{Type: relation.TargetDog, ID: 3}},
	}

	out := NewTagResponses(assignments, keywords)
	require.Len(t, out, 2)
	assert.Equal(t, "a", out[0].Keyword.Name)
	assert.Equal(t, "b", out[1].Keyword.Name)
	assert.Equal(t, "DOG", out[1].TargetType)
}
