package clickhouse

import (
	"context"
	"fmt"

	"github.com/amit7itz/goset"
	"github.com/clickhouse-ops/grants-operator/shared/databaseconfigurator/sqlutils"
	"github.com/clickhouse-ops/grants-operator/shared/errors"
	"github.com/samber/lo"
)

const (
	selectUserExistsQuery        sqlutils.SQLSprintfStatement = "SELECT count() FROM system.users WHERE name = %s"
	selectGrantedRolesQuery      sqlutils.SQLSprintfStatement = "SELECT granted_role_name FROM system.role_grants WHERE user_name = %s"
	selectInheritedProfilesQuery sqlutils.SQLSprintfStatement = "SELECT inherit_profile FROM system.settings_profile_elements WHERE user_name = %s"
	selectQuotasForUserQuery     sqlutils.SQLSprintfStatement = "SELECT name FROM system.quotas WHERE has(apply_to_list, %s)"
	selectQuotaMembersQuery      sqlutils.SQLSprintfStatement = "SELECT apply_to_list FROM system.quotas WHERE name = %s"
)

// RoleObservation is the granted-role state of a principal relative to
// a desired role set.
type RoleObservation struct {
	Held   *goset.Set[string]
	HasAll bool
}

// ProfileObservation is the settings-profile state of a principal
// relative to one named profile.
type ProfileObservation struct {
	Profiles   []string
	HasProfile bool
}

// QuotaObservation is the quota-membership state of a principal
// relative to one named quota. Members is the quota's full apply-to
// list with the principal appended, in server order, ready for an
// ALTER QUOTA statement.
type QuotaObservation struct {
	Quotas   []string
	HasQuota bool
	Members  []string
}

// StateObserver reads the live authorization state of principals
// through the execution gateway. All methods are read-only.
type StateObserver struct {
	gateway Gateway
}

func NewStateObserver(gateway Gateway) *StateObserver {
	return &StateObserver{gateway: gateway}
}

func (o *StateObserver) PrincipalExists(ctx context.Context, principal string) (bool, error) {
	query, err := selectUserExistsQuery.PrepareSanitized(sqlutils.QuotedName(principal))
	if err != nil {
		return false, errors.Wrap(err)
	}
	rows, err := o.gateway.Query(ctx, query)
	if err != nil {
		return false, errors.Wrap(err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return false, errors.Errorf("existence query returned no rows for '%s'", principal)
	}
	count, err := cellAsCount(rows[0][0])
	if err != nil {
		return false, errors.Wrap(err)
	}
	return count > 0, nil
}

// ObserveGrantedRoles returns the roles currently granted to the
// principal, without requiring the principal to exist. A missing
// principal simply holds no roles.
func (o *StateObserver) ObserveGrantedRoles(ctx context.Context, principal string, desired []string) (RoleObservation, error) {
	query, err := selectGrantedRolesQuery.PrepareSanitized(sqlutils.QuotedName(principal))
	if err != nil {
		return RoleObservation{}, errors.Wrap(err)
	}
	rows, err := o.gateway.Query(ctx, query)
	if err != nil {
		return RoleObservation{}, errors.Wrap(err)
	}
	held := goset.FromSlice(firstColumnStrings(rows))
	hasAll := lo.EveryBy(desired, func(role string) bool {
		return held.Contains(role)
	})
	return RoleObservation{Held: held, HasAll: hasAll}, nil
}

// ObserveRoles is ObserveGrantedRoles gated on principal existence:
// asking whether a non-existent principal holds a non-empty desired
// set is an error, not a silent false.
func (o *StateObserver) ObserveRoles(ctx context.Context, principal string, desired []string) (RoleObservation, error) {
	if len(desired) > 0 {
		exists, err := o.PrincipalExists(ctx, principal)
		if err != nil {
			return RoleObservation{}, errors.Wrap(err)
		}
		if !exists {
			return RoleObservation{}, errors.Wrap(&PrincipalNotFoundError{Principal: principal})
		}
	}
	return o.ObserveGrantedRoles(ctx, principal, desired)
}

func (o *StateObserver) ObserveProfile(ctx context.Context, principal string, profile string) (ProfileObservation, error) {
	query, err := selectInheritedProfilesQuery.PrepareSanitized(sqlutils.QuotedName(principal))
	if err != nil {
		return ProfileObservation{}, errors.Wrap(err)
	}
	rows, err := o.gateway.Query(ctx, query)
	if err != nil {
		return ProfileObservation{}, errors.Wrap(err)
	}
	profiles := firstColumnStrings(rows)
	return ProfileObservation{
		Profiles:   profiles,
		HasProfile: lo.Contains(profiles, profile),
	}, nil
}

func (o *StateObserver) ObserveQuota(ctx context.Context, principal string, quota string) (QuotaObservation, error) {
	heldQuery, err := selectQuotasForUserQuery.PrepareSanitized(sqlutils.QuotedName(principal))
	if err != nil {
		return QuotaObservation{}, errors.Wrap(err)
	}
	heldRows, err := o.gateway.Query(ctx, heldQuery)
	if err != nil {
		return QuotaObservation{}, errors.Wrap(err)
	}
	quotas := firstColumnStrings(heldRows)

	membersQuery, err := selectQuotaMembersQuery.PrepareSanitized(sqlutils.QuotedName(quota))
	if err != nil {
		return QuotaObservation{}, errors.Wrap(err)
	}
	memberRows, err := o.gateway.Query(ctx, membersQuery)
	if err != nil {
		return QuotaObservation{}, errors.Wrap(err)
	}
	members := make([]string, 0)
	if len(memberRows) > 0 && len(memberRows[0]) > 0 {
		applyToList, ok := memberRows[0][0].([]string)
		if !ok {
			return QuotaObservation{}, errors.Errorf("quota members column had unexpected type '%T'", memberRows[0][0])
		}
		members = append(members, applyToList...)
	}
	// The ALTER QUOTA statement restates every member, so the
	// principal joins the list it will be applied with.
	members = append(members, principal)

	return QuotaObservation{
		Quotas:   quotas,
		HasQuota: lo.Contains(quotas, quota),
		Members:  members,
	}, nil
}

func firstColumnStrings(rows [][]any) []string {
	values := make([]string, 0, len(rows))
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		switch value := row[0].(type) {
		case string:
			values = append(values, value)
		case *string:
			// nullable columns such as inherit_profile scan as pointers
			if value != nil {
				values = append(values, *value)
			}
		}
	}
	return values
}

// cellAsCount widens the integer types ClickHouse count() may scan
// into.
func cellAsCount(cell any) (uint64, error) {
	switch v := cell.(type) {
	case uint64:
		return v, nil
	case int64:
		return uint64(v), nil
	case int:
		return uint64(v), nil
	}
	return 0, fmt.Errorf("count column had unexpected type '%T'", cell)
}
