package clickhouse

// Intent is a single planned mutation. Intents are produced by the
// planning functions, rendered once, and never persisted. The variant
// set is closed: the renderer dispatches over it exhaustively.
type Intent interface {
	isIntent()
}

type CreateRole struct {
	Role string
}

type GrantRoles struct {
	Grantee string
	Roles   []string
	Replace bool
}

type RevokeRole struct {
	Grantee string
	Role    string
}

type GrantPrivileges struct {
	Grantee    string
	Privileges []string
	Database   string
	Table      string
	Replace    bool
}

type RevokePrivileges struct {
	Grantee    string
	Privileges []string
	Database   string
	Table      string
}

type CreateUser struct {
	Name     string
	Password string
}

type DropUser struct {
	Name string
}

type AlterQuota struct {
	Quota string
	// Members is the full apply-to list the quota ends up with; the
	// statement restates existing members alongside the new one.
	Members []string
}

type AlterProfile struct {
	User    string
	Profile string
}

func (CreateRole) isIntent()       {}
func (GrantRoles) isIntent()       {}
func (RevokeRole) isIntent()       {}
func (GrantPrivileges) isIntent()  {}
func (RevokePrivileges) isIntent() {}
func (CreateUser) isIntent()       {}
func (DropUser) isIntent()         {}
func (AlterQuota) isIntent()       {}
func (AlterProfile) isIntent()     {}
