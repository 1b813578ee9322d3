package clickhouse

// ReconcileFlags select between the mutually exclusive grant postures.
// Revoke wins over Replace when both are set, matching the precedence
// of the planning rules below.
type ReconcileFlags struct {
	Revoke             bool
	Replace            bool
	CreateMissingRoles bool
}

// PlanRoleAssignments computes the ordered mutations that converge the
// principal's granted roles towards the desired set. Pure function of
// its inputs.
//
// Revoking a role that is not held is a no-op, never an error. A
// replace grant is emitted unconditionally: "replace" means the held
// set becomes exactly the desired set, which is not locally checkable
// from the observation alone (other roles may be held too).
func PlanRoleAssignments(grantee string, desired []string, observation RoleObservation, flags ReconcileFlags) []Intent {
	intents := make([]Intent, 0)

	if flags.Revoke {
		for _, role := range desired {
			if observation.Held.Contains(role) {
				intents = append(intents, RevokeRole{Grantee: grantee, Role: role})
			}
		}
		return intents
	}

	if flags.CreateMissingRoles && !observation.HasAll {
		for _, role := range desired {
			if !observation.Held.Contains(role) {
				intents = append(intents, CreateRole{Role: role})
			}
		}
	}

	if flags.Replace {
		intents = append(intents, GrantRoles{Grantee: grantee, Roles: desired, Replace: true})
		return intents
	}

	if !observation.HasAll {
		intents = append(intents, GrantRoles{Grantee: grantee, Roles: desired})
	}

	return intents
}

// PlanPrivilegeGrants computes the ordered mutations for a privilege
// set over the databases × tables cross product, row-major over
// databases then tables. The privileges are validated before any scope
// processing; an unknown privilege aborts with no intents.
//
// Grants carry the replace option on the first scope target only: the
// replace semantic is "this grantee's grants become exactly this set",
// and attaching it to every statement would wipe the preceding ones.
// Revocations are emitted unconditionally for every target; revoking
// grants that are not held is a no-op on the server.
func PlanPrivilegeGrants(grantee string, privileges []string, databases []string, tables []string, flags ReconcileFlags) ([]Intent, error) {
	if err := ValidatePrivileges(privileges); err != nil {
		return nil, err
	}

	intents := make([]Intent, 0, len(databases)*len(tables))
	for dbIdx, database := range databases {
		for tbIdx, table := range tables {
			if flags.Revoke {
				intents = append(intents, RevokePrivileges{
					Grantee:    grantee,
					Privileges: privileges,
					Database:   database,
					Table:      table,
				})
				continue
			}
			intents = append(intents, GrantPrivileges{
				Grantee:    grantee,
				Privileges: privileges,
				Database:   database,
				Table:      table,
				Replace:    flags.Replace && dbIdx == 0 && tbIdx == 0,
			})
		}
	}
	return intents, nil
}
