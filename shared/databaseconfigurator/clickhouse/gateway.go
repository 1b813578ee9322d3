package clickhouse

import (
	"context"
	"crypto/tls"
	"net"
	"reflect"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/clickhouse-ops/grants-operator/shared/errors"
)

//go:generate go run go.uber.org/mock/mockgen -source=gateway.go -destination=mocks/mock_gateway.go -package=mocks

// Gateway submits statements to the server. Exec runs exactly one
// statement per call; the orchestrator relies on statements being
// executed one at a time, in the order it issues them.
type Gateway interface {
	Query(ctx context.Context, query string) ([][]any, error)
	Exec(ctx context.Context, statement string) error
}

type GatewayConfig struct {
	Address  string
	Username string
	Password string
	Secure   bool
}

type clickhouseGateway struct {
	conn driver.Conn
}

// NewGateway connects to the server and verifies the connection with a
// ping before any reconciliation work starts.
func NewGateway(ctx context.Context, conf GatewayConfig) (Gateway, error) {
	options := &clickhouse.Options{
		Addr: []string{conf.Address},
		Auth: clickhouse.Auth{
			Username: conf.Username,
			Password: conf.Password,
		},
	}
	if conf.Secure {
		options.TLS = &tls.Config{InsecureSkipVerify: true}
	}

	conn, err := clickhouse.Open(options)
	if err != nil {
		return nil, translateServerError(err)
	}
	if err := conn.Ping(ctx); err != nil {
		return nil, translateServerError(err)
	}

	return &clickhouseGateway{conn: conn}, nil
}

func (g *clickhouseGateway) Query(ctx context.Context, query string) ([][]any, error) {
	rows, err := g.conn.Query(ctx, query)
	if err != nil {
		return nil, translateServerError(err)
	}
	defer rows.Close()

	columnTypes := rows.ColumnTypes()
	result := make([][]any, 0)
	for rows.Next() {
		scanTargets := make([]any, len(columnTypes))
		for i, columnType := range columnTypes {
			scanTargets[i] = reflect.New(columnType.ScanType()).Interface()
		}
		if err := rows.Scan(scanTargets...); err != nil {
			return nil, errors.Wrap(err)
		}
		row := make([]any, len(scanTargets))
		for i, target := range scanTargets {
			row[i] = reflect.ValueOf(target).Elem().Interface()
		}
		result = append(result, row)
	}
	if err := rows.Err(); err != nil {
		return nil, translateServerError(err)
	}
	return result, nil
}

func (g *clickhouseGateway) Exec(ctx context.Context, statement string) error {
	if err := g.conn.Exec(ctx, statement); err != nil {
		return translateServerError(err)
	}
	return nil
}

// translateServerError classifies driver errors once, at the gateway
// boundary. Server-side exceptions surface as ServerExecutionError
// with the server's own message; connection-level failures get a
// readable translation; anything else propagates wrapped.
func translateServerError(err error) error {
	exception := &clickhouse.Exception{}
	if errors.As(err, &exception) {
		return errors.Wrap(&ServerExecutionError{Code: exception.Code, Message: exception.Message})
	}

	if dnsErr := &(net.DNSError{}); errors.As(err, &dnsErr) {
		return errors.Errorf("can't resolve server hostname: %s", dnsErr.Name)
	}

	if opErr := &(net.OpError{}); errors.As(err, &opErr) || errors.Is(err, context.DeadlineExceeded) {
		return errors.Errorf("can't reach the server: %v", err)
	}

	return errors.Wrap(err)
}
