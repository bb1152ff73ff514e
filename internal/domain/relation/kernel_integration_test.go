//go:build integration

package relation_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/pawpals/pawpals-api/internal/domain/comment"
	"github.com/pawpals/pawpals-api/internal/domain/keyword"
	"github.com/pawpals/pawpals-api/internal/domain/match"
	"github.com/pawpals/pawpals-api/internal/domain/membership"
	"github.com/pawpals/pawpals-api/internal/domain/moderation"
	"github.com/pawpals/pawpals-api/internal/domain/relation"
	"github.com/pawpals/pawpals-api/internal/domain/resolver"
	"github.com/pawpals/pawpals-api/internal/pkg/domainerr"
	"github.com/pawpals/pawpals-api/internal/pkg/notify"
	"github.com/pawpals/pawpals-api/internal/pkg/testutil/containers"
)

type KernelSuite struct {
	suite.Suite
	pg *containers.PostgresContainer

	relations   *relation.Store
	cascade     *relation.Cascade
	keywords    *keyword.Service
	comments    *comment.Service
	moderation  *moderation.Service
	memberships *membership.Service
	matches     *match.Service
}

func TestKernelSuite(t *testing.T) {
	suite.Run(t, new(KernelSuite))
}

func (s *KernelSuite) SetupSuite() {
	s.pg = containers.NewPostgresContainer(s.T())
	db := s.pg.DB

	res := resolver.NewSQLResolver(db, resolver.DefaultTables)
	// A notifier that always fails: kernel calls must succeed regardless.
	dispatcher := notify.NewDispatcher(notify.Func(func(ctx context.Context, e notify.Event) error {
		return errors.New("notification backend down")
	}), time.Second)

	s.relations = relation.NewStore(db)
	membershipRepo := membership.NewRepository(db)
	matchRepo := match.NewRepository(db)

	s.cascade = relation.NewCascade(db, s.relations, membershipRepo, matchRepo)
	s.keywords = keyword.NewService(db, keyword.NewRepository(db), s.relations, res)
	s.comments = comment.NewService(s.relations, res)
	s.moderation = moderation.NewService(s.relations, moderation.NewRepository(db), res, dispatcher)
	s.memberships = membership.NewService(db, membershipRepo, res, dispatcher)
	s.matches = match.NewService(db, matchRepo, res, dispatcher)
}

func (s *KernelSuite) SetupTest() {
	s.Require().NoError(s.pg.Truncate(context.Background()))
}

func (s *KernelSuite) target(tt relation.TargetType, id int64) relation.Target {
	return relation.Target{Type: tt, ID: id}
}

func (s *KernelSuite) TestConcurrentTagAssignmentsYieldOneRow() {
	ctx := context.Background()
	dog := s.target(relation.TargetDog, s.pg.InsertDog(s.T(), "Rex"))
	kw, err := s.keywords.CreateKeyword(ctx, &keyword.CreateKeywordRequest{Name: "calm"})
	s.Require().NoError(err)

	const workers = 8
	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		ok, dupErr int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.keywords.Assign(ctx, kw.ID, dog)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domainerr.ErrDuplicateRelation):
				dupErr++
			default:
				s.Failf("unexpected error", "%v", err)
			}
		}()
	}
	wg.Wait()

	s.Equal(1, ok)
	s.Equal(workers-1, dupErr)

	assignments, err := s.keywords.ListByTarget(ctx, dog)
	s.Require().NoError(err)
	s.Len(assignments, 1)
}

func (s *KernelSuite) TestTagAllowListIsEnforced() {
	ctx := context.Background()
	kw, err := s.keywords.CreateKeyword(ctx, &keyword.CreateKeywordRequest{Name: "sunny"})
	s.Require().NoError(err)

	_, err = s.keywords.Assign(ctx, kw.ID, s.target(relation.TargetWalk, 1))
	s.ErrorIs(err, domainerr.ErrInvalidTarget)

	_, err = s.keywords.Assign(ctx, kw.ID, s.target(relation.TargetDog, 999))
	s.ErrorIs(err, domainerr.ErrNotFound)
}

func (s *KernelSuite) TestDeleteKeywordRemovesAssignments() {
	ctx := context.Background()
	kw, err := s.keywords.CreateKeyword(ctx, &keyword.CreateKeywordRequest{Name: "playful"})
	s.Require().NoError(err)
	for _, name := range []string{"Rex", "Bella"} {
		_, err := s.keywords.Assign(ctx, kw.ID, s.target(relation.TargetDog, s.pg.InsertDog(s.T(), name)))
		s.Require().NoError(err)
	}

	s.Require().NoError(s.keywords.DeleteKeyword(ctx, kw.ID))

	var left int
	s.Require().NoError(s.pg.DB.GetContext(ctx, &left, `SELECT COUNT(*) FROM tag_assignments`))
	s.Zero(left)
	_, err = s.keywords.GetKeyword(ctx, kw.ID)
	s.ErrorIs(err, domainerr.ErrNotFound)
}

func (s *KernelSuite) TestListByTargetIsCreationOrderedAndRestartable() {
	ctx := context.Background()
	author := s.pg.InsertUser(s.T(), "Ann")
	walk := s.target(relation.TargetWalk, s.insertWalk("Morning loop"))

	var posted []int64
	for _, text := range []string{"first", "second", "third"} {
		c, err := s.comments.Post(ctx, author, walk, text)
		s.Require().NoError(err)
		posted = append(posted, c.ID)
	}

	for run := 0; run < 2; run++ {
		rows, err := s.relations.ListByTarget(ctx, relation.KindComment, walk)
		s.Require().NoError(err)
		s.Require().Len(rows, 3)
		for i, row := range rows {
			s.Equal(posted[i], row.ID)
			s.Equal(author, row.SubjectKey)
		}
	}
}

func (s *KernelSuite) insertWalk(title string) int64 {
	var id int64
	s.Require().NoError(s.pg.DB.QueryRowxContext(context.Background(),
		`INSERT INTO walks (title) VALUES ($1) RETURNING id`, title).Scan(&id))
	return id
}

func (s *KernelSuite) TestModerationReportLifecycle() {
	ctx := context.Background()
	actor := s.pg.InsertUser(s.T(), "Ann")
	admin := s.pg.InsertUser(s.T(), "Mod")
	dog := s.target(relation.TargetDog, s.pg.InsertDog(s.T(), "Rex"))

	report, err := s.moderation.File(ctx, actor, moderation.ActionReport, dog, "aggressive")
	s.Require().NoError(err)
	s.Equal(moderation.StatusPending, *report.Status)

	// Repeated reports are kept.
	_, err = s.moderation.File(ctx, actor, moderation.ActionReport, dog, "again")
	s.Require().NoError(err)

	resolved, err := s.moderation.Resolve(ctx, admin, report.ID, "warned owner")
	s.Require().NoError(err)
	s.Equal(moderation.StatusResolved, *resolved.Status)

	_, err = s.moderation.Reject(ctx, admin, report.ID, "")
	s.ErrorIs(err, domainerr.ErrInvalidTransition)

	block, err := s.moderation.File(ctx, actor, moderation.ActionBlock, s.target(relation.TargetUser, admin), "")
	s.Require().NoError(err)
	_, err = s.moderation.Resolve(ctx, admin, block.ID, "")
	s.ErrorIs(err, domainerr.ErrInvalidTransition)

	s.ErrorIs(s.moderation.Retract(ctx, admin, block.ID), domainerr.ErrForbidden)
	s.NoError(s.moderation.Retract(ctx, actor, block.ID))
}

func (s *KernelSuite) TestFoundingTwiceLeavesOneCreator() {
	ctx := context.Background()
	group := s.pg.InsertGroup(s.T(), "Park pack")
	first := s.pg.InsertUser(s.T(), "Ann")
	second := s.pg.InsertUser(s.T(), "Bob")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, user := range []int64{first, second} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.memberships.Found(ctx, group, user)
		}()
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			s.ErrorIs(err, domainerr.ErrDuplicateMembership)
			failures++
		}
	}
	s.Equal(1, failures)

	var creators int
	s.Require().NoError(s.pg.DB.GetContext(ctx, &creators,
		`SELECT COUNT(*) FROM group_memberships WHERE group_id = $1 AND role = 'CREATOR'`, group))
	s.Equal(1, creators)
}

func (s *KernelSuite) TestConcurrentAcceptsHaveOneWinner() {
	ctx := context.Background()
	group := s.pg.InsertGroup(s.T(), "Park pack")
	user := s.pg.InsertUser(s.T(), "Ann")

	m, err := s.memberships.RequestJoin(ctx, user, group)
	s.Require().NoError(err)

	const workers = 4
	var wg sync.WaitGroup
	errs := make([]error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = s.memberships.Accept(ctx, m.ID)
		}()
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		s.ErrorIs(err, domainerr.ErrInvalidTransition)
	}
	s.Equal(1, wins)

	current, err := s.memberships.Get(ctx, m.ID)
	s.Require().NoError(err)
	s.Equal(membership.StatusActive, current.Status)
	s.Require().NotNil(current.Role)
	s.Equal(membership.RoleMember, *current.Role)
}

func (s *KernelSuite) TestCreatorCannotBeBannedOrDemoted() {
	ctx := context.Background()
	group := s.pg.InsertGroup(s.T(), "Park pack")
	creator, err := s.memberships.Found(ctx, group, s.pg.InsertUser(s.T(), "Ann"))
	s.Require().NoError(err)

	_, err = s.memberships.Ban(ctx, creator.ID)
	s.ErrorIs(err, domainerr.ErrInvalidTransition)
	_, err = s.memberships.Promote(ctx, creator.ID, membership.RoleMember)
	s.ErrorIs(err, domainerr.ErrInvalidTransition)
}

func (s *KernelSuite) TestMutualMatchIsDetectedOnceUnderConcurrency() {
	ctx := context.Background()
	ann := s.pg.InsertUser(s.T(), "Ann")
	bob := s.pg.InsertUser(s.T(), "Bob")

	var wg sync.WaitGroup
	results := make([]*match.Result, 2)
	errs := make([]error, 2)
	for i, pair := range [][2]int64{{ann, bob}, {bob, ann}} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = s.matches.RecordAction(ctx, pair[0], pair[1], match.ActionLike, nil)
		}()
	}
	wg.Wait()

	s.Require().NoError(errs[0])
	s.Require().NoError(errs[1])
	s.True(results[0].IsMatch != results[1].IsMatch, "exactly one side observes the mutual match")

	mutuals, err := s.matches.Matches(ctx, ann)
	s.Require().NoError(err)
	s.Require().Len(mutuals, 1)
	s.Equal(bob, mutuals[0].TargetUserID)
	s.Equal("Bob", mutuals[0].User.Label)
}

func (s *KernelSuite) TestReActionUpdatesInPlace() {
	ctx := context.Background()
	ann := s.pg.InsertUser(s.T(), "Ann")
	bob := s.pg.InsertUser(s.T(), "Bob")

	_, err := s.matches.RecordAction(ctx, bob, ann, match.ActionLike, nil)
	s.Require().NoError(err)

	first, err := s.matches.RecordAction(ctx, ann, bob, match.ActionDislike, nil)
	s.Require().NoError(err)
	s.False(first.IsMatch, "a dislike never matches")

	score := 90
	second, err := s.matches.RecordAction(ctx, ann, bob, match.ActionLike, &score)
	s.Require().NoError(err)
	s.True(second.IsMatch)
	s.Equal(first.Match.ID, second.Match.ID)

	seen, err := s.matches.SeenTargets(ctx, ann)
	s.Require().NoError(err)
	s.Equal([]int64{bob}, seen)

	_, err = s.matches.RecordAction(ctx, ann, ann, match.ActionLike, nil)
	s.ErrorIs(err, domainerr.ErrInvalidTarget)
}

func (s *KernelSuite) TestDeleteUserAggregateKeepsFoundedGroupsCreator() {
	ctx := context.Background()
	ann := s.pg.InsertUser(s.T(), "Ann")
	bob := s.pg.InsertUser(s.T(), "Bob")
	dog := s.target(relation.TargetDog, s.pg.InsertDog(s.T(), "Rex"))
	group := s.pg.InsertGroup(s.T(), "Park pack")

	kw, err := s.keywords.CreateKeyword(ctx, &keyword.CreateKeywordRequest{Name: "friendly"})
	s.Require().NoError(err)
	_, err = s.keywords.Assign(ctx, kw.ID, s.target(relation.TargetUser, ann))
	s.Require().NoError(err)

	c, err := s.comments.Post(ctx, ann, dog, "good boy")
	s.Require().NoError(err)
	_, err = s.moderation.File(ctx, bob, moderation.ActionReport, s.target(relation.TargetComment, c.ID), "spam")
	s.Require().NoError(err)
	_, err = s.moderation.File(ctx, ann, moderation.ActionBlock, s.target(relation.TargetUser, bob), "")
	s.Require().NoError(err)
	_, err = s.memberships.Found(ctx, group, ann)
	s.Require().NoError(err)
	_, err = s.memberships.RequestJoin(ctx, ann, s.pg.InsertGroup(s.T(), "River walkers"))
	s.Require().NoError(err)
	_, err = s.matches.RecordAction(ctx, bob, ann, match.ActionLike, nil)
	s.Require().NoError(err)

	removed, err := s.cascade.DeleteAggregate(ctx, s.target(relation.TargetUser, ann), nil)
	s.Require().NoError(err)
	s.Equal(int64(6), removed)

	for table, query := range map[string]string{
		"tag_assignments":    `SELECT COUNT(*) FROM tag_assignments`,
		"comments":           `SELECT COUNT(*) FROM comments`,
		"moderation_actions": `SELECT COUNT(*) FROM moderation_actions`,
		"group_memberships":  `SELECT COUNT(*) FROM group_memberships WHERE role IS DISTINCT FROM 'CREATOR'`,
		"user_matches":       `SELECT COUNT(*) FROM user_matches`,
	} {
		var n int
		s.Require().NoError(s.pg.DB.GetContext(ctx, &n, query))
		s.Zero(n, table)
	}

	// The founded group keeps its creator until the group itself is purged.
	active, err := s.memberships.ActiveMembers(ctx, group)
	s.Require().NoError(err)
	s.Require().Len(active, 1)
	s.Equal(membership.RoleCreator, *active[0].Role)

	removed, err = s.cascade.DeleteAggregate(ctx, s.target(relation.TargetGroup, group), nil)
	s.Require().NoError(err)
	s.Equal(int64(1), removed)

	var n int
	s.Require().NoError(s.pg.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM group_memberships`))
	s.Zero(n)
}
