package clickhouse

import (
	"fmt"
	"strings"
)

// ConfigurationError reports an invalid combination of requested
// inputs, detected before any server interaction.
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid reconciliation request: %s", e.Reason)
}

// UnsupportedPrivilegeError reports a privilege name outside the
// supported taxonomy.
type UnsupportedPrivilegeError struct {
	Privilege string
	Allowed   []string
}

func (e *UnsupportedPrivilegeError) Error() string {
	return fmt.Sprintf("%s not in applicable grants: %s", e.Privilege, strings.Join(e.Allowed, ", "))
}

// PrincipalNotFoundError reports an observation against a principal
// that does not exist on the server.
type PrincipalNotFoundError struct {
	Principal string
}

func (e *PrincipalNotFoundError) Error() string {
	return fmt.Sprintf("'%s' user does not exist", e.Principal)
}

// ServerExecutionError carries a structured server-side exception,
// classified once at the gateway boundary.
type ServerExecutionError struct {
	Code    int32
	Message string
}

func (e *ServerExecutionError) Error() string {
	return fmt.Sprintf("server exception code %d: %s", e.Code, e.Message)
}

// DependencyMissingError reports that a required client capability was
// not provided at construction time.
type DependencyMissingError struct {
	Capability string
}

func (e *DependencyMissingError) Error() string {
	return fmt.Sprintf("required capability is unavailable: %s", e.Capability)
}
