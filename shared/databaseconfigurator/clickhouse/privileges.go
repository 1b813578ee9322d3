package clickhouse

import (
	"strings"

	"golang.org/x/exp/slices"
)

// PrivilegeLevel is the object scope a privilege attaches to. Every
// supported privilege belongs to exactly one level.
type PrivilegeLevel string

const (
	PrivilegeLevelSystem   PrivilegeLevel = "system"
	PrivilegeLevelDatabase PrivilegeLevel = "database"
	PrivilegeLevelTable    PrivilegeLevel = "table"
)

// PrivilegeDictGet is the one privilege ClickHouse spells in mixed
// case; normalization must preserve it verbatim.
const PrivilegeDictGet = "dictGet"

var systemLevelPrivileges = []string{
	"CREATE FUNCTION",
	"DROP FUNCTION",
	"RELOAD DICTIONARY",
	"KILL QUERY",
	"MYSQL",
	"CLUSTER",
}

var databaseLevelPrivileges = []string{
	"CREATE DATABASE",
	"DROP DATABASE",
}

var tableLevelPrivileges = []string{
	"ALL",
	"SELECT",
	"SHOW",
	PrivilegeDictGet,
	"INSERT",
	"UPDATE",
	"DELETE",
	"ALTER",
	"ALTER TABLE",
	"ALTER COLUMN",
	"ALTER CONSTRAINT",
	"ALTER INDEX",
	"ALTER VIEW",
	"ALTER TTL",
	"CREATE",
	"CREATE TABLE",
	"CREATE VIEW",
	"CREATE DICTIONARY",
	"DROP",
	"DROP TABLE",
	"DROP VIEW",
	"DROP DICTIONARY",
	"TRUNCATE",
	"OPTIMIZE",
}

// NormalizePrivilege uppercases a requested privilege name for
// taxonomy lookup, preserving dictGet.
func NormalizePrivilege(name string) string {
	if name == PrivilegeDictGet {
		return name
	}
	return strings.ToUpper(name)
}

// PrivilegeLevelOf resolves a privilege name to its scope level.
func PrivilegeLevelOf(name string) (PrivilegeLevel, bool) {
	normalized := NormalizePrivilege(name)
	switch {
	case slices.Contains(systemLevelPrivileges, normalized):
		return PrivilegeLevelSystem, true
	case slices.Contains(databaseLevelPrivileges, normalized):
		return PrivilegeLevelDatabase, true
	case slices.Contains(tableLevelPrivileges, normalized):
		return PrivilegeLevelTable, true
	}
	return "", false
}

// SupportedPrivileges returns the full taxonomy, system level first,
// in declaration order.
func SupportedPrivileges() []string {
	supported := make([]string, 0, len(systemLevelPrivileges)+len(databaseLevelPrivileges)+len(tableLevelPrivileges))
	supported = append(supported, systemLevelPrivileges...)
	supported = append(supported, databaseLevelPrivileges...)
	supported = append(supported, tableLevelPrivileges...)
	return supported
}

// ValidatePrivileges checks every requested privilege against the
// taxonomy, failing on the first unknown name so the reported error is
// deterministic. No partial validation takes place.
func ValidatePrivileges(requested []string) error {
	for _, privilege := range requested {
		if _, ok := PrivilegeLevelOf(privilege); !ok {
			return &UnsupportedPrivilegeError{
				Privilege: NormalizePrivilege(privilege),
				Allowed:   SupportedPrivileges(),
			}
		}
	}
	return nil
}
