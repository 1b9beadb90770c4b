package store

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-sql-driver/mysql"
)

type DBType string

const (
	DBTypeSQLite   DBType = "sqlite"
	DBTypeMySQL    DBType = "mysql"
	DBTypePostgres DBType = "postgres"
)

// DBTypes is the cycle order used by pickers.
var DBTypes = []DBType{DBTypeSQLite, DBTypeMySQL, DBTypePostgres}

// ParseDBType accepts the canonical names, common aliases and the legacy Qt driver names.
func ParseDBType(s string) (DBType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sqlite", "sqlite3", "qsqlite":
		return DBTypeSQLite, nil
	case "mysql", "mariadb", "qmysql":
		return DBTypeMySQL, nil
	case "postgres", "postgresql", "pg", "pgx", "qpsql":
		return DBTypePostgres, nil
	default:
		return "", fmt.Errorf("unsupported database type: %s (sqlite|mysql|postgres)", s)
	}
}

// ConnParams are the connection settings collected by the connect form / flags.
type ConnParams struct {
	DBType   DBType `json:"dbType" yaml:"dbType" validate:"required,oneof=sqlite mysql postgres"`
	Host     string `json:"host,omitempty" yaml:"host,omitempty" validate:"required_unless=DBType sqlite"`
	Port     int    `json:"port,omitempty" yaml:"port,omitempty" validate:"required_unless=DBType sqlite,omitempty,gte=1,lte=65535"`
	User     string `json:"user,omitempty" yaml:"user,omitempty" validate:"required_unless=DBType sqlite"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	DBName   string `json:"dbName" yaml:"dbName" validate:"required"`
}

func DefaultConnParams() ConnParams {
	return ConnParams{DBType: DBTypeSQLite, DBName: "estimates.db"}
}

func DefaultPort(t DBType) int {
	switch t {
	case DBTypeMySQL:
		return 3306
	case DBTypePostgres:
		return 5432
	default:
		return 0
	}
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the parameters; for sqlite only the database name is required.
func (p ConnParams) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("invalid connection settings: %s", strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	name := map[string]string{
		"DBType":   "db type",
		"Host":     "host",
		"Port":     "port",
		"User":     "user",
		"Password": "password",
		"DBName":   "database name",
	}[fe.Field()]
	if name == "" {
		name = fe.Field()
	}
	switch fe.Tag() {
	case "required", "required_unless":
		return name + " is required"
	case "oneof":
		return name + " must be one of sqlite, mysql, postgres"
	case "gte", "lte":
		return name + " must be between 1 and 65535"
	default:
		return name + " is invalid (" + fe.Tag() + ")"
	}
}

// Redacted returns a copy safe for logs and error messages.
func (p ConnParams) Redacted() ConnParams {
	if p.Password != "" {
		p.Password = "***"
	}
	return p
}

// Describe is a short human-readable target, e.g. "postgres://user@db:5432/estimates".
func (p ConnParams) Describe() string {
	if p.DBType == DBTypeSQLite || p.DBType == "" {
		return "sqlite:" + p.DBName
	}
	u := url.URL{
		Scheme: string(p.DBType),
		Host:   net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
		Path:   "/" + p.DBName,
	}
	if p.User != "" {
		u.User = url.User(p.User)
	}
	return u.String()
}

func (p ConnParams) driverName() string {
	switch p.DBType {
	case DBTypeMySQL:
		return "mysql"
	case DBTypePostgres:
		return "pgx"
	default:
		return "sqlite"
	}
}

func (p ConnParams) dsn() string {
	switch p.DBType {
	case DBTypeMySQL:
		cfg := mysql.NewConfig()
		cfg.User = p.User
		cfg.Passwd = p.Password
		cfg.Net = "tcp"
		cfg.Addr = net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
		cfg.DBName = p.DBName
		return cfg.FormatDSN()
	case DBTypePostgres:
		u := url.URL{
			Scheme: "postgres",
			Host:   net.JoinHostPort(p.Host, strconv.Itoa(p.Port)),
			Path:   "/" + p.DBName,
		}
		if p.User != "" {
			u.User = url.UserPassword(p.User, p.Password)
		}
		return u.String()
	default:
		return p.DBName
	}
}
