package clickhouse

import (
	"testing"

	"github.com/amit7itz/goset"
	"github.com/clickhouse-ops/grants-operator/shared/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func roleObservation(held ...string) RoleObservation {
	return RoleObservation{Held: goset.NewSet[string](held...)}
}

func roleObservationWithAll(held ...string) RoleObservation {
	observation := roleObservation(held...)
	observation.HasAll = true
	return observation
}

func TestPlanRoleAssignmentsAdditiveGrant(t *testing.T) {
	intents := PlanRoleAssignments("developer", []string{"reader", "writer"}, roleObservation("reader"), ReconcileFlags{})

	require.Len(t, intents, 1)
	assert.Equal(t, GrantRoles{Grantee: "developer", Roles: []string{"reader", "writer"}}, intents[0])
}

func TestPlanRoleAssignmentsAlreadySatisfiedIsNoop(t *testing.T) {
	intents := PlanRoleAssignments("developer", []string{"reader"}, roleObservationWithAll("reader", "writer"), ReconcileFlags{})
	assert.Empty(t, intents)
}

func TestPlanRoleAssignmentsReplaceIsUnconditional(t *testing.T) {
	// Replace means "the held set becomes exactly the desired set";
	// it is emitted even when every desired role is already held.
	intents := PlanRoleAssignments("developer", []string{"reader"}, roleObservationWithAll("reader", "writer"), ReconcileFlags{Replace: true})

	require.Len(t, intents, 1)
	assert.Equal(t, GrantRoles{Grantee: "developer", Roles: []string{"reader"}, Replace: true}, intents[0])
}

func TestPlanRoleAssignmentsRevokeOnlyHeldRoles(t *testing.T) {
	intents := PlanRoleAssignments("developer", []string{"reader", "writer"}, roleObservation("writer"), ReconcileFlags{Revoke: true})

	require.Len(t, intents, 1)
	assert.Equal(t, RevokeRole{Grantee: "developer", Role: "writer"}, intents[0])
}

func TestPlanRoleAssignmentsRevokeNothingHeldIsNoop(t *testing.T) {
	intents := PlanRoleAssignments("developer", []string{"reader", "writer"}, roleObservation(), ReconcileFlags{Revoke: true})
	assert.Empty(t, intents)
}

func TestPlanRoleAssignmentsCreatesOnlyMissingRoles(t *testing.T) {
	intents := PlanRoleAssignments("developer", []string{"reader", "writer"}, roleObservation("reader"), ReconcileFlags{CreateMissingRoles: true})

	require.Len(t, intents, 2)
	assert.Equal(t, CreateRole{Role: "writer"}, intents[0])
	assert.Equal(t, GrantRoles{Grantee: "developer", Roles: []string{"reader", "writer"}}, intents[1])
}

func TestPlanRoleAssignmentsCreateSkippedWhenAllHeld(t *testing.T) {
	intents := PlanRoleAssignments("developer", []string{"reader"}, roleObservationWithAll("reader"), ReconcileFlags{CreateMissingRoles: true})
	assert.Empty(t, intents)
}

func TestPlanPrivilegeGrantsRowMajorCrossProduct(t *testing.T) {
	intents, err := PlanPrivilegeGrants("reader", []string{"select"}, []string{"d1", "d2"}, []string{"t1", "t2"}, ReconcileFlags{})
	require.NoError(t, err)

	require.Len(t, intents, 4)
	assert.Equal(t, GrantPrivileges{Grantee: "reader", Privileges: []string{"select"}, Database: "d1", Table: "t1"}, intents[0])
	assert.Equal(t, GrantPrivileges{Grantee: "reader", Privileges: []string{"select"}, Database: "d1", Table: "t2"}, intents[1])
	assert.Equal(t, GrantPrivileges{Grantee: "reader", Privileges: []string{"select"}, Database: "d2", Table: "t1"}, intents[2])
	assert.Equal(t, GrantPrivileges{Grantee: "reader", Privileges: []string{"select"}, Database: "d2", Table: "t2"}, intents[3])
}

func TestPlanPrivilegeGrantsReplaceOnFirstTargetOnly(t *testing.T) {
	intents, err := PlanPrivilegeGrants("reader", []string{"select"}, []string{"d1", "d2"}, []string{"t1", "t2"}, ReconcileFlags{Replace: true})
	require.NoError(t, err)

	require.Len(t, intents, 4)
	replaceCount := 0
	for i, intent := range intents {
		grant, ok := intent.(GrantPrivileges)
		require.True(t, ok)
		if grant.Replace {
			replaceCount++
			assert.Equal(t, 0, i)
		}
	}
	assert.Equal(t, 1, replaceCount)
}

func TestPlanPrivilegeGrantsRevokeIsUnconditionalPerTarget(t *testing.T) {
	intents, err := PlanPrivilegeGrants("reader", []string{"select", "insert"}, []string{"d1"}, []string{"t1", "t2"}, ReconcileFlags{Revoke: true})
	require.NoError(t, err)

	require.Len(t, intents, 2)
	assert.Equal(t, RevokePrivileges{Grantee: "reader", Privileges: []string{"select", "insert"}, Database: "d1", Table: "t1"}, intents[0])
	assert.Equal(t, RevokePrivileges{Grantee: "reader", Privileges: []string{"select", "insert"}, Database: "d1", Table: "t2"}, intents[1])
}

func TestPlanPrivilegeGrantsValidationAbortsBeforeScopeProcessing(t *testing.T) {
	intents, err := PlanPrivilegeGrants("reader", []string{"teleport"}, []string{"d1"}, []string{"t1"}, ReconcileFlags{})
	require.Error(t, err)
	assert.Empty(t, intents)

	unsupportedErr := &UnsupportedPrivilegeError{}
	assert.True(t, errors.As(err, &unsupportedErr))
}
