package repository

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestDB opens an in-memory database pinned to a single connection so
// every statement sees the same memory store.
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })
	return db
}

func newTestGroupRepo(t *testing.T) *GroupRepository {
	t.Helper()
	repo, err := NewGroupRepository(newTestDB(t))
	require.NoError(t, err)
	return repo
}

func TestGroupCreate_CreatorIsAdmin(t *testing.T) {
	repo := newTestGroupRepo(t)

	group, err := repo.Create("Morning Crew", "alice")
	require.NoError(t, err)

	assert.Equal(t, []string{"alice"}, group.Members)
	assert.Equal(t, []string{"alice"}, group.Admins)
}

func TestGroupJoin_Idempotent(t *testing.T) {
	repo := newTestGroupRepo(t)
	group, err := repo.Create("Morning Crew", "alice")
	require.NoError(t, err)

	require.NoError(t, repo.Join(group.ID, "bob"))
	require.NoError(t, repo.Join(group.ID, "bob"))

	group, err = repo.GetByID(group.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, group.Members)
	assert.Equal(t, []string{"alice"}, group.Admins, "joining never grants admin")
}

func TestGroupDemote_LastAdminRejected(t *testing.T) {
	repo := newTestGroupRepo(t)
	group, err := repo.Create("Morning Crew", "alice")
	require.NoError(t, err)
	require.NoError(t, repo.Join(group.ID, "bob"))

	err = repo.Demote(group.ID, "alice")

	assert.ErrorIs(t, err, ErrLastAdmin)
	group, err = repo.GetByID(group.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, group.Admins, "group state unchanged after rejection")
}

func TestGroupDemote_AllowedWithSecondAdmin(t *testing.T) {
	repo := newTestGroupRepo(t)
	group, err := repo.Create("Morning Crew", "alice")
	require.NoError(t, err)
	require.NoError(t, repo.Join(group.ID, "bob"))
	require.NoError(t, repo.Promote(group.ID, "bob"))

	require.NoError(t, repo.Demote(group.ID, "alice"))

	group, err = repo.GetByID(group.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, group.Admins)
}

func TestGroupLeave_LastAdminRejected(t *testing.T) {
	repo := newTestGroupRepo(t)
	group, err := repo.Create("Morning Crew", "alice")
	require.NoError(t, err)
	require.NoError(t, repo.Join(group.ID, "bob"))

	err = repo.Leave(group.ID, "alice")

	assert.ErrorIs(t, err, ErrLastAdmin)
}

func TestGroupRemoveMember_SoleAdminRejected(t *testing.T) {
	repo := newTestGroupRepo(t)
	group, err := repo.Create("Morning Crew", "alice")
	require.NoError(t, err)
	require.NoError(t, repo.Join(group.ID, "bob"))

	assert.ErrorIs(t, repo.RemoveMember(group.ID, "alice"), ErrLastAdmin)
	require.NoError(t, repo.RemoveMember(group.ID, "bob"))

	group, err = repo.GetByID(group.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice"}, group.Members)
}

func TestGroupPromote_NonMemberRejected(t *testing.T) {
	repo := newTestGroupRepo(t)
	group, err := repo.Create("Morning Crew", "alice")
	require.NoError(t, err)

	assert.ErrorIs(t, repo.Promote(group.ID, "mallory"), ErrNotMember)
}

func TestGroupGetByID_Missing(t *testing.T) {
	repo := newTestGroupRepo(t)

	group, err := repo.GetByID("nope")

	require.NoError(t, err)
	assert.Nil(t, group)
}
