package clickhouse

import (
	"fmt"

	"github.com/clickhouse-ops/grants-operator/shared/databaseconfigurator/sqlutils"
	"github.com/clickhouse-ops/grants-operator/shared/errors"
)

const (
	createRoleStatement       sqlutils.SQLSprintfStatement = "CREATE ROLE IF NOT EXISTS %s%s"
	grantRolesStatement       sqlutils.SQLSprintfStatement = "GRANT%s %s to %s%s"
	revokeRoleStatement       sqlutils.SQLSprintfStatement = "REVOKE%s %s from %s"
	grantPrivilegesStatement  sqlutils.SQLSprintfStatement = "GRANT%s %s on %s.%s to %s%s"
	revokePrivilegesStatement sqlutils.SQLSprintfStatement = "REVOKE%s %s on %s.%s from %s"
	createUserStatement       sqlutils.SQLSprintfStatement = "CREATE USER %s IDENTIFIED WITH sha256_password BY %s"
	dropUserStatement         sqlutils.SQLSprintfStatement = "DROP USER %s"
	alterQuotaStatement       sqlutils.SQLSprintfStatement = "ALTER QUOTA %s to %s"
	alterProfileStatement     sqlutils.SQLSprintfStatement = "ALTER USER %s SETTINGS PROFILE %s"

	replaceOptionClause sqlutils.Clause = " WITH REPLACE OPTION"
)

// StatementRenderer turns intents into literal SQL statements. It
// preserves the order and multiplicity of the intents it is given;
// ordering is part of the contract with the planning functions.
type StatementRenderer struct {
	onCluster   bool
	clusterName string
}

func NewStatementRenderer() *StatementRenderer {
	return &StatementRenderer{}
}

// NewClusterStatementRenderer renders grant, revoke and role-creation
// statements as distributed statements on the named cluster.
func NewClusterStatementRenderer(clusterName string) *StatementRenderer {
	return &StatementRenderer{onCluster: true, clusterName: clusterName}
}

func (r *StatementRenderer) clusterClause() sqlutils.Clause {
	if !r.onCluster {
		return ""
	}
	return sqlutils.Clause(fmt.Sprintf(" on CLUSTER '%s'", sqlutils.Identifier(r.clusterName).Sanitize()))
}

func replaceClause(replace bool) sqlutils.Clause {
	if !replace {
		return ""
	}
	return replaceOptionClause
}

func (r *StatementRenderer) Render(intent Intent) (string, error) {
	switch it := intent.(type) {
	case CreateRole:
		return createRoleStatement.PrepareSanitized(
			sqlutils.Identifier(it.Role), r.clusterClause())
	case GrantRoles:
		return grantRolesStatement.PrepareSanitized(
			r.clusterClause(), sqlutils.NameList(it.Roles), sqlutils.QuotedName(it.Grantee), replaceClause(it.Replace))
	case RevokeRole:
		return revokeRoleStatement.PrepareSanitized(
			r.clusterClause(), sqlutils.Identifier(it.Role), sqlutils.QuotedName(it.Grantee))
	case GrantPrivileges:
		return grantPrivilegesStatement.PrepareSanitized(
			r.clusterClause(), sqlutils.NameList(it.Privileges),
			sqlutils.Identifier(it.Database), sqlutils.Identifier(it.Table),
			sqlutils.QuotedName(it.Grantee), replaceClause(it.Replace))
	case RevokePrivileges:
		return revokePrivilegesStatement.PrepareSanitized(
			r.clusterClause(), sqlutils.NameList(it.Privileges),
			sqlutils.Identifier(it.Database), sqlutils.Identifier(it.Table),
			sqlutils.QuotedName(it.Grantee))
	case CreateUser:
		return createUserStatement.PrepareSanitized(
			sqlutils.Identifier(it.Name), sqlutils.NonUserInputString(it.Password))
	case DropUser:
		return dropUserStatement.PrepareSanitized(sqlutils.Identifier(it.Name))
	case AlterQuota:
		return alterQuotaStatement.PrepareSanitized(
			sqlutils.Identifier(it.Quota), sqlutils.NameList(it.Members))
	case AlterProfile:
		return alterProfileStatement.PrepareSanitized(
			sqlutils.Identifier(it.User), sqlutils.Identifier(it.Profile))
	}

	return "", errors.Errorf("unknown intent type '%T'", intent)
}

// RenderAll renders intents in the order given.
func (r *StatementRenderer) RenderAll(intents []Intent) ([]string, error) {
	statements := make([]string, 0, len(intents))
	for _, intent := range intents {
		statement, err := r.Render(intent)
		if err != nil {
			return nil, errors.Wrap(err)
		}
		statements = append(statements, statement)
	}
	return statements, nil
}
