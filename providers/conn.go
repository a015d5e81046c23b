package providers

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
)

const (
	// Namespace is the only schema whose objects are compared
	Namespace = "public"

	DefaultPort    = 5432
	DefaultSSLMode = "disable"
)

// ConnOptions identifies one PostgreSQL database
type ConnOptions struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// WithDefaults fills the port and sslmode when they are unset
func (o ConnOptions) WithDefaults() ConnOptions {
	if o.Port == 0 {
		o.Port = DefaultPort
	}
	if o.SSLMode == "" {
		o.SSLMode = DefaultSSLMode
	}
	return o
}

// Validate checks that every field needed to reach the database is present
func (o ConnOptions) Validate() error {
	var missing []string
	if o.Host == "" {
		missing = append(missing, "host")
	}
	if o.User == "" {
		missing = append(missing, "user")
	}
	if o.Database == "" {
		missing = append(missing, "database")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing connection settings: %s", strings.Join(missing, ", "))
	}
	if o.Port <= 0 || o.Port > 65535 {
		return fmt.Errorf("invalid port: %d", o.Port)
	}
	return nil
}

// ConnectionString returns a lib/pq connection URL
func (o ConnOptions) ConnectionString() string {
	o = o.WithDefaults()
	u := url.URL{
		Scheme: "postgres",
		Host:   net.JoinHostPort(o.Host, strconv.Itoa(o.Port)),
		Path:   "/" + o.Database,
	}
	if o.Password != "" {
		u.User = url.UserPassword(o.User, o.Password)
	} else {
		u.User = url.User(o.User)
	}
	q := url.Values{}
	q.Set("sslmode", o.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// String describes the database without its password
func (o ConnOptions) String() string {
	o = o.WithDefaults()
	return fmt.Sprintf("%s@%s:%d/%s", o.User, o.Host, o.Port, o.Database)
}

// ParseConnURL reads a postgres:// or postgresql:// URL
func ParseConnURL(raw string) (ConnOptions, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return ConnOptions{}, fmt.Errorf("failed to parse connection string: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return ConnOptions{}, fmt.Errorf("unsupported connection scheme: %q", u.Scheme)
	}

	opts := ConnOptions{
		Host:     u.Hostname(),
		Database: strings.TrimPrefix(u.Path, "/"),
		SSLMode:  u.Query().Get("sslmode"),
	}
	if u.User != nil {
		opts.User = u.User.Username()
		opts.Password, _ = u.User.Password()
	}
	if port := u.Port(); port != "" {
		opts.Port, err = strconv.Atoi(port)
		if err != nil {
			return ConnOptions{}, fmt.Errorf("invalid port %q: %w", port, err)
		}
	}
	opts = opts.WithDefaults()
	if err := opts.Validate(); err != nil {
		return ConnOptions{}, err
	}
	return opts, nil
}
