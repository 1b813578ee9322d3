package clickhouse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderCreateRole(t *testing.T) {
	stmt, err := NewStatementRenderer().Render(CreateRole{Role: "reader"})
	require.NoError(t, err)
	assert.Equal(t, "CREATE ROLE IF NOT EXISTS reader", stmt)
}

func TestRenderCreateRoleOnCluster(t *testing.T) {
	stmt, err := NewClusterStatementRenderer("main").Render(CreateRole{Role: "reader"})
	require.NoError(t, err)
	assert.Equal(t, "CREATE ROLE IF NOT EXISTS reader on CLUSTER 'main'", stmt)
}

func TestRenderGrantRoles(t *testing.T) {
	stmt, err := NewStatementRenderer().Render(GrantRoles{Grantee: "developer", Roles: []string{"reader", "writer"}})
	require.NoError(t, err)
	assert.Equal(t, "GRANT reader, writer to 'developer'", stmt)
}

func TestRenderGrantRolesWithReplaceOption(t *testing.T) {
	stmt, err := NewStatementRenderer().Render(GrantRoles{Grantee: "developer", Roles: []string{"reader"}, Replace: true})
	require.NoError(t, err)
	assert.Equal(t, "GRANT reader to 'developer' WITH REPLACE OPTION", stmt)
}

func TestRenderGrantRolesOnCluster(t *testing.T) {
	stmt, err := NewClusterStatementRenderer("main").Render(GrantRoles{Grantee: "developer", Roles: []string{"reader"}})
	require.NoError(t, err)
	assert.Equal(t, "GRANT on CLUSTER 'main' reader to 'developer'", stmt)
}

func TestRenderRevokeRole(t *testing.T) {
	stmt, err := NewStatementRenderer().Render(RevokeRole{Grantee: "developer", Role: "reader"})
	require.NoError(t, err)
	assert.Equal(t, "REVOKE reader from 'developer'", stmt)
}

func TestRenderGrantPrivileges(t *testing.T) {
	stmt, err := NewStatementRenderer().Render(GrantPrivileges{
		Grantee:    "reader",
		Privileges: []string{"select", "insert"},
		Database:   "dictionaries",
		Table:      "statistics",
	})
	require.NoError(t, err)
	assert.Equal(t, "GRANT select, insert on dictionaries.statistics to 'reader'", stmt)
}

func TestRenderGrantPrivilegesWithReplaceOption(t *testing.T) {
	stmt, err := NewStatementRenderer().Render(GrantPrivileges{
		Grantee:    "reader",
		Privileges: []string{"select"},
		Database:   "d1",
		Table:      "*",
		Replace:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "GRANT select on d1.* to 'reader' WITH REPLACE OPTION", stmt)
}

func TestRenderRevokePrivilegesOnCluster(t *testing.T) {
	stmt, err := NewClusterStatementRenderer("main").Render(RevokePrivileges{
		Grantee:    "reader",
		Privileges: []string{"delete"},
		Database:   "d1",
		Table:      "t1",
	})
	require.NoError(t, err)
	assert.Equal(t, "REVOKE on CLUSTER 'main' delete on d1.t1 from 'reader'", stmt)
}

func TestRenderCreateUser(t *testing.T) {
	stmt, err := NewStatementRenderer().Render(CreateUser{Name: "test_user", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "CREATE USER test_user IDENTIFIED WITH sha256_password BY 'secret'", stmt)
}

func TestRenderDropUser(t *testing.T) {
	stmt, err := NewStatementRenderer().Render(DropUser{Name: "test_user"})
	require.NoError(t, err)
	assert.Equal(t, "DROP USER test_user", stmt)
}

func TestRenderAlterQuota(t *testing.T) {
	stmt, err := NewStatementRenderer().Render(AlterQuota{Quota: "test_quota", Members: []string{"u1", "u2", "test_user"}})
	require.NoError(t, err)
	assert.Equal(t, "ALTER QUOTA test_quota to u1, u2, test_user", stmt)
}

func TestRenderAlterProfile(t *testing.T) {
	stmt, err := NewStatementRenderer().Render(AlterProfile{User: "test_user", Profile: "test_profile"})
	require.NoError(t, err)
	assert.Equal(t, "ALTER USER test_user SETTINGS PROFILE test_profile", stmt)
}

func TestRenderUserStatementsIgnoreClusterQualification(t *testing.T) {
	// The user lifecycle has no distributed form; a cluster-qualified
	// renderer must not alter those statements.
	renderer := NewClusterStatementRenderer("main")

	stmt, err := renderer.Render(DropUser{Name: "test_user"})
	require.NoError(t, err)
	assert.Equal(t, "DROP USER test_user", stmt)
}

func TestRenderAllPreservesOrder(t *testing.T) {
	intents := []Intent{
		CreateRole{Role: "reader"},
		GrantRoles{Grantee: "developer", Roles: []string{"reader"}},
		RevokeRole{Grantee: "developer", Role: "writer"},
	}
	statements, err := NewStatementRenderer().RenderAll(intents)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"CREATE ROLE IF NOT EXISTS reader",
		"GRANT reader to 'developer'",
		"REVOKE writer from 'developer'",
	}, statements)
}
