package clickhouse

import (
	"context"

	"github.com/clickhouse-ops/grants-operator/prometheus"
	"github.com/clickhouse-ops/grants-operator/shared/databaseconfigurator"
	"github.com/clickhouse-ops/grants-operator/shared/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

const (
	// DefaultDatabase scopes privilege grants when no database is named.
	DefaultDatabase = "default"
	// WildcardTable scopes privilege grants when no table is named.
	WildcardTable = "*"
)

// Result is the outcome of one reconciliation call. Statements holds
// the statements that executed successfully, in execution order, also
// when the call fails partway. Changed is true iff at least one
// statement was executed.
type Result struct {
	Changed       bool
	Statements    []string
	ObservedState map[string]any
}

func newResult() *Result {
	return &Result{
		Statements:    make([]string, 0),
		ObservedState: make(map[string]any),
	}
}

// AccessRequest asks for the grantee's roles or privileges to be
// converged. Exactly one of Roles and Privileges must be non-empty.
type AccessRequest struct {
	Grantee            string
	Roles              []string
	Privileges         []string
	Databases          []string
	Tables             []string
	CreateMissingRoles bool
	Revoke             bool
	Replace            bool
	OnCluster          bool
	ClusterName        string
}

type UserState string

const (
	UserStatePresent UserState = "present"
	UserStateAbsent  UserState = "absent"
)

// UserRequest asks for a user to be created or dropped, and when
// present, for its quota, profile and role memberships to be
// converged. Each concern is gated independently on its own
// already-satisfied check.
type UserRequest struct {
	Name     string
	Password string
	Roles    []string
	Quota    string
	Profile  string
	State    UserState
}

// Reconciler converges declared authorization state against the live
// server. One call reconciles one principal end to end; statements are
// executed one at a time in emission order, failing fast.
type Reconciler struct {
	gateway  Gateway
	observer *StateObserver
	dryRun   bool
}

func NewReconciler(gateway Gateway) (*Reconciler, error) {
	if gateway == nil {
		return nil, errors.Wrap(&DependencyMissingError{Capability: "ClickHouse execution gateway"})
	}
	return &Reconciler{
		gateway:  gateway,
		observer: NewStateObserver(gateway),
	}, nil
}

// SetDryRun makes the reconciler plan and report statements without
// executing them. A dry run never reports a change.
func (r *Reconciler) SetDryRun(dryRun bool) {
	r.dryRun = dryRun
}

func (r *Reconciler) ReconcileAccess(ctx context.Context, request AccessRequest) (*Result, error) {
	result := newResult()

	hasRoles := len(request.Roles) > 0
	hasPrivileges := len(request.Privileges) > 0
	if hasRoles && hasPrivileges {
		return result, errors.Wrap(&ConfigurationError{Reason: "only one of roles or privileges may be requested"})
	}
	if !hasRoles && !hasPrivileges {
		return result, errors.Wrap(&ConfigurationError{Reason: "no roles or privileges were requested"})
	}
	if request.Grantee == "" {
		return result, errors.Wrap(&ConfigurationError{Reason: "a grantee name is required"})
	}
	prometheus.IncrementAccessReconciliations(1)

	renderer := NewStatementRenderer()
	if request.OnCluster {
		renderer = NewClusterStatementRenderer(request.ClusterName)
	}

	if hasRoles {
		return r.reconcileRoleAssignments(ctx, request, renderer, result)
	}
	return r.reconcilePrivilegeGrants(ctx, request, renderer, result)
}

func (r *Reconciler) reconcileRoleAssignments(ctx context.Context, request AccessRequest, renderer *StatementRenderer, result *Result) (*Result, error) {
	observation, err := r.observer.ObserveRoles(ctx, request.Grantee, request.Roles)
	if err != nil {
		return result, errors.Wrap(err)
	}
	heldRoles := observation.Held.Items()
	slices.Sort(heldRoles)
	result.ObservedState["user_roles"] = heldRoles
	result.ObservedState["user_has_roles"] = observation.HasAll
	logrus.WithField("grantee", request.Grantee).Debugf("Observed granted roles: %v", heldRoles)

	intents := PlanRoleAssignments(request.Grantee, request.Roles, observation, ReconcileFlags{
		Revoke:             request.Revoke,
		Replace:            request.Replace,
		CreateMissingRoles: request.CreateMissingRoles,
	})
	statements, err := renderer.RenderAll(intents)
	if err != nil {
		return result, errors.Wrap(err)
	}
	return result, r.execute(ctx, statements, result)
}

func (r *Reconciler) reconcilePrivilegeGrants(ctx context.Context, request AccessRequest, renderer *StatementRenderer, result *Result) (*Result, error) {
	databases := request.Databases
	if len(databases) == 0 {
		databases = []string{DefaultDatabase}
	}
	tables := request.Tables
	if len(tables) == 0 {
		tables = []string{WildcardTable}
	}

	intents, err := PlanPrivilegeGrants(request.Grantee, request.Privileges, databases, tables, ReconcileFlags{
		Revoke:  request.Revoke,
		Replace: request.Replace,
	})
	if err != nil {
		return result, errors.Wrap(err)
	}
	statements, err := renderer.RenderAll(intents)
	if err != nil {
		return result, errors.Wrap(err)
	}
	return result, r.execute(ctx, statements, result)
}

func (r *Reconciler) ReconcileUser(ctx context.Context, request UserRequest) (*Result, error) {
	result := newResult()

	if request.Name == "" {
		return result, errors.Wrap(&ConfigurationError{Reason: "a user name is required"})
	}
	if request.State != UserStatePresent && request.State != UserStateAbsent {
		return result, errors.Wrap(&ConfigurationError{Reason: "only present and absent user states are supported"})
	}
	prometheus.IncrementUserReconciliations(1)

	exists, err := r.observer.PrincipalExists(ctx, request.Name)
	if err != nil {
		return result, errors.Wrap(err)
	}
	result.ObservedState["user_exists"] = exists

	renderer := NewStatementRenderer()

	if request.State == UserStateAbsent {
		if !exists {
			return result, nil
		}
		statements, err := renderer.RenderAll([]Intent{DropUser{Name: request.Name}})
		if err != nil {
			return result, errors.Wrap(err)
		}
		if err := r.execute(ctx, statements, result); err != nil {
			return result, err
		}
		if !r.dryRun {
			prometheus.IncrementUsersDropped(1)
		}
		return result, nil
	}

	intents := make([]Intent, 0)
	created := false
	if !exists {
		password := request.Password
		if password == "" {
			password, err = databaseconfigurator.GenerateRandomPassword()
			if err != nil {
				return result, errors.Wrap(err)
			}
		}
		intents = append(intents, CreateUser{Name: request.Name, Password: password})
		created = true
	}

	if request.Quota != "" {
		quotaObservation, err := r.observer.ObserveQuota(ctx, request.Name, request.Quota)
		if err != nil {
			return result, errors.Wrap(err)
		}
		result.ObservedState["user_quotas"] = quotaObservation.Quotas
		result.ObservedState["user_has_quota"] = quotaObservation.HasQuota
		if !quotaObservation.HasQuota {
			intents = append(intents, AlterQuota{Quota: request.Quota, Members: quotaObservation.Members})
		}
	}

	if request.Profile != "" {
		profileObservation, err := r.observer.ObserveProfile(ctx, request.Name, request.Profile)
		if err != nil {
			return result, errors.Wrap(err)
		}
		result.ObservedState["user_profiles"] = profileObservation.Profiles
		result.ObservedState["user_has_profile"] = profileObservation.HasProfile
		if !profileObservation.HasProfile {
			intents = append(intents, AlterProfile{User: request.Name, Profile: request.Profile})
		}
	}

	if len(request.Roles) > 0 {
		roleObservation, err := r.observer.ObserveGrantedRoles(ctx, request.Name, request.Roles)
		if err != nil {
			return result, errors.Wrap(err)
		}
		heldRoles := roleObservation.Held.Items()
		slices.Sort(heldRoles)
		result.ObservedState["user_roles"] = heldRoles
		result.ObservedState["user_has_roles"] = roleObservation.HasAll
		intents = append(intents, PlanRoleAssignments(request.Name, request.Roles, roleObservation, ReconcileFlags{})...)
	}

	statements, err := renderer.RenderAll(intents)
	if err != nil {
		return result, errors.Wrap(err)
	}
	if err := r.execute(ctx, statements, result); err != nil {
		return result, err
	}
	if created && !r.dryRun {
		prometheus.IncrementUsersCreated(1)
	}
	return result, nil
}

// execute runs statements in order, fail-fast. Result.Statements only
// ever holds statements that completed, so partial convergence stays
// visible to the caller.
func (r *Reconciler) execute(ctx context.Context, statements []string, result *Result) error {
	for _, statement := range statements {
		if r.dryRun {
			logrus.WithField("statement", statement).Info("Dry run, statement not executed")
			result.Statements = append(result.Statements, statement)
			continue
		}
		logrus.WithField("statement", statement).Debug("Executing statement")
		if err := r.gateway.Exec(ctx, statement); err != nil {
			return errors.Wrap(err)
		}
		result.Statements = append(result.Statements, statement)
		result.Changed = true
		prometheus.IncrementStatementsExecuted(1)
	}
	return nil
}
