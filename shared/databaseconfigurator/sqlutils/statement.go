package sqlutils

import (
	"fmt"
	"strings"

	"github.com/clickhouse-ops/grants-operator/shared/errors"
	"github.com/samber/lo"
)

type SQLSprintfStatement string

// Identifier is a ClickHouse identifier such as a role, database,
// table or quota name. ClickHouse accepts them unquoted, so sanitizing
// strips the characters that would terminate or escape the statement.
type Identifier string

// QuotedName is a principal reference rendered inside single quotes,
// as GRANT and REVOKE expect for grantees.
type QuotedName string

// NameList is a comma-joined list of identifiers, used for multi-valued
// role and privilege clauses.
type NameList []string

// NonUserInputString was not received from user input and is rendered
// quoted but otherwise untouched.
type NonUserInputString string

// Clause is a statement fragment assembled by the renderer itself from
// already-sanitized parts, interpolated verbatim. Never construct one
// from user input.
type Clause string

func sanitizeIdentifier(s string) string {
	s = strings.ReplaceAll(s, string([]byte{0}), "")
	s = strings.ReplaceAll(s, "'", "")
	s = strings.ReplaceAll(s, "`", "")
	s = strings.ReplaceAll(s, ";", "")
	return s
}

func (i Identifier) Sanitize() string {
	return sanitizeIdentifier(string(i))
}

func (q QuotedName) Sanitize() string {
	return fmt.Sprintf("'%s'", sanitizeIdentifier(string(q)))
}

func (l NameList) Sanitize() string {
	return strings.Join(lo.Map(l, func(name string, _ int) string {
		return sanitizeIdentifier(name)
	}), ", ")
}

// PrepareSanitized interpolates the format inputs into the statement,
// sanitizing each according to its declared type. Plain strings are
// rejected so every input site states how it must be escaped.
func (s SQLSprintfStatement) PrepareSanitized(a ...any) (string, error) {
	sanitizedItems := make([]any, len(a))
	for i, formatInput := range a {
		sanitizedItem, err := sanitizeFormatInput(formatInput)
		if err != nil {
			return "", errors.Wrap(err)
		}
		sanitizedItems[i] = sanitizedItem
	}
	return fmt.Sprintf(string(s), sanitizedItems...), nil
}

func sanitizeFormatInput(formatInput any) (string, error) {
	switch input := formatInput.(type) {
	case Identifier:
		return input.Sanitize(), nil
	case QuotedName:
		return input.Sanitize(), nil
	case NameList:
		return input.Sanitize(), nil
	case NonUserInputString:
		return fmt.Sprintf("'%s'", input), nil
	case Clause:
		return string(input), nil
	}

	return "", errors.Errorf("received sanitize input '%v' with type '%T', which was not a sanitizable statement input", formatInput, formatInput)
}
