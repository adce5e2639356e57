// Package sqlite is an embedded, single-file implementation of storage.Common
// for installations without a postgres server.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/config"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/storage"
)

const schema = `
	CREATE TABLE IF NOT EXISTS rules (
		id            TEXT PRIMARY KEY,
		server_name   TEXT NOT NULL,
		listen_ports  TEXT NOT NULL DEFAULT '[]',
		ssl_cert_path TEXT NOT NULL DEFAULT '',
		ssl_key_path  TEXT NOT NULL DEFAULT '',
		locations     TEXT NOT NULL DEFAULT '[]',
		created_at    TEXT NOT NULL,
		updated_at    TEXT NOT NULL,
		deleted_at    TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_rules_server_name ON rules(server_name);

	CREATE TABLE IF NOT EXISTS certificates (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		domain            TEXT NOT NULL DEFAULT '',
		cert_path         TEXT NOT NULL DEFAULT '',
		key_path          TEXT NOT NULL DEFAULT '',
		expires_at        TEXT,
		source            TEXT NOT NULL DEFAULT 'upload',
		source_id         TEXT NOT NULL DEFAULT '',
		status            TEXT NOT NULL DEFAULT '',
		renewal_source_id TEXT NOT NULL DEFAULT '',
		created_at        TEXT NOT NULL,
		updated_at        TEXT NOT NULL,
		deleted_at        TEXT
	);
	CREATE INDEX IF NOT EXISTS idx_certificates_source ON certificates(source, source_id);
`

// Storage is a sqlite-based implementation of storage.Common.
type Storage struct {
	db     *sql.DB
	logger *zap.Logger
	now    func() time.Time
}

var _ storage.Common = (*Storage)(nil)

// New opens the database file, creating it and its directory when missing.
func New(ctx context.Context, logger *zap.Logger, conf *config.SQLite) (*Storage, error) {
	if dir := filepath.Dir(conf.Path); dir != "" {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("failed to create database dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", conf.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// A single connection serializes writers and keeps :memory: databases alive.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close() //nolint:errcheck,gosec
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &Storage{
		db:     db,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse stored time %q: %w", s, err)
	}
	return t, nil
}

type scanner interface {
	Scan(dest ...any) error
}

const ruleColumns = `id, server_name, listen_ports, ssl_cert_path, ssl_key_path, locations, created_at, updated_at`

func scanRule(row scanner) (entities.Rule, error) {
	var (
		rule             entities.Rule
		cols             storage.RuleColumns
		created, updated string
		ports, locations string
	)
	if err := row.Scan(
		&rule.ID,
		&rule.ServerName,
		&ports,
		&cols.CertPath,
		&cols.KeyPath,
		&locations,
		&created,
		&updated,
	); err != nil {
		return entities.Rule{}, err
	}

	cols.ListenPorts = []byte(ports)
	cols.Locations = []byte(locations)
	if err := cols.Decode(&rule); err != nil {
		return entities.Rule{}, err
	}

	var err error
	if rule.CreatedAt, err = parseTime(created); err != nil {
		return entities.Rule{}, err
	}
	if rule.UpdatedAt, err = parseTime(updated); err != nil {
		return entities.Rule{}, err
	}
	return rule, nil
}

// GetRules returns all active rules.
// Any error returned is internal.
func (s *Storage) GetRules(ctx context.Context) (entities.Rules, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+ruleColumns+`
		FROM rules
		WHERE deleted_at IS NULL
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rules: %w", err)
	}
	defer rows.Close()

	var rules entities.Rules
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rule: %w", err)
		}
		rules = append(rules, rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rule list: %w", err)
	}

	return rules, nil
}

// GetRule returns one active rule.
func (s *Storage) GetRule(ctx context.Context, id string) (entities.Rule, error) {
	rule, err := scanRule(s.db.QueryRowContext(ctx, `
		SELECT `+ruleColumns+`
		FROM rules
		WHERE id = ? AND deleted_at IS NULL
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Rule{}, fmt.Errorf("rule %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return entities.Rule{}, fmt.Errorf("failed to get rule %s: %w", id, err)
	}
	return rule, nil
}

// CreateRule stores a new rule and sets its timestamps.
func (s *Storage) CreateRule(ctx context.Context, rule *entities.Rule) error {
	cols, err := storage.EncodeRule(rule)
	if err != nil {
		return err
	}

	now := s.now()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO rules (id, server_name, listen_ports, ssl_cert_path, ssl_key_path, locations, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, rule.ID, rule.ServerName, string(cols.ListenPorts), cols.CertPath, cols.KeyPath, string(cols.Locations),
		formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("failed to insert rule: %w", err)
	}

	rule.CreatedAt, rule.UpdatedAt = now, now
	return nil
}

// UpdateRule replaces an active rule.
func (s *Storage) UpdateRule(ctx context.Context, rule *entities.Rule) error {
	cols, err := storage.EncodeRule(rule)
	if err != nil {
		return err
	}

	now := s.now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE rules
		SET server_name = ?, listen_ports = ?, ssl_cert_path = ?, ssl_key_path = ?, locations = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, rule.ServerName, string(cols.ListenPorts), cols.CertPath, cols.KeyPath, string(cols.Locations),
		formatTime(now), rule.ID)
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}
	if err := affected(res, "rule", rule.ID); err != nil {
		return err
	}

	rule.UpdatedAt = now
	return nil
}

// DeleteRule soft-deletes a rule.
func (s *Storage) DeleteRule(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE rules SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL
	`, formatTime(s.now()), id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	return affected(res, "rule", id)
}

// ServerNameTaken implements storage.Common.
func (s *Storage) ServerNameTaken(ctx context.Context, serverName, excludeID string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(1) FROM rules
		WHERE server_name = ? AND id <> ? AND deleted_at IS NULL
	`, serverName, excludeID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to check server name: %w", err)
	}
	return n > 0, nil
}

const certificateColumns = `id, name, domain, cert_path, key_path, expires_at, source, source_id, status,
	renewal_source_id, created_at, updated_at`

func scanCertificate(row scanner) (entities.Certificate, error) {
	var (
		cert             entities.Certificate
		source           string
		expires          sql.NullString
		created, updated string
	)
	if err := row.Scan(
		&cert.ID,
		&cert.Name,
		&cert.Domain,
		&cert.CertPath,
		&cert.KeyPath,
		&expires,
		&source,
		&cert.SourceID,
		&cert.Status,
		&cert.RenewalSourceID,
		&created,
		&updated,
	); err != nil {
		return entities.Certificate{}, err
	}

	cert.Source = entities.ParseOrigin(source)
	if expires.Valid && expires.String != "" {
		t, err := parseTime(expires.String)
		if err != nil {
			return entities.Certificate{}, err
		}
		cert.ExpiresAt = &t
	}

	var err error
	if cert.CreatedAt, err = parseTime(created); err != nil {
		return entities.Certificate{}, err
	}
	if cert.UpdatedAt, err = parseTime(updated); err != nil {
		return entities.Certificate{}, err
	}
	return cert, nil
}

func nullTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

// GetCertificates returns all active certificates.
// Any error returned is internal.
func (s *Storage) GetCertificates(ctx context.Context) (entities.Certificates, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+certificateColumns+`
		FROM certificates
		WHERE deleted_at IS NULL
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query certificates: %w", err)
	}
	defer rows.Close()

	var certs entities.Certificates
	for rows.Next() {
		cert, err := scanCertificate(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan certificate: %w", err)
		}
		certs = append(certs, cert)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read certificate list: %w", err)
	}

	return certs, nil
}

// GetCertificate returns one active certificate.
func (s *Storage) GetCertificate(ctx context.Context, id string) (entities.Certificate, error) {
	cert, err := scanCertificate(s.db.QueryRowContext(ctx, `
		SELECT `+certificateColumns+`
		FROM certificates
		WHERE id = ? AND deleted_at IS NULL
	`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Certificate{}, fmt.Errorf("certificate %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return entities.Certificate{}, fmt.Errorf("failed to get certificate %s: %w", id, err)
	}
	return cert, nil
}

// GetCertificateBySource implements storage.Common.
func (s *Storage) GetCertificateBySource(
	ctx context.Context,
	origin entities.Origin,
	sourceID string,
) (entities.Certificate, error) {
	cert, err := scanCertificate(s.db.QueryRowContext(ctx, `
		SELECT `+certificateColumns+`
		FROM certificates
		WHERE source = ? AND (source_id = ? OR renewal_source_id = ?) AND deleted_at IS NULL
		LIMIT 1
	`, string(origin), sourceID, sourceID))
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Certificate{}, fmt.Errorf("%s certificate %s: %w", origin, sourceID, errs.ErrNotFound)
	}
	if err != nil {
		return entities.Certificate{}, fmt.Errorf("failed to get certificate by source: %w", err)
	}
	return cert, nil
}

// CreateCertificate stores a new certificate and sets its timestamps.
func (s *Storage) CreateCertificate(ctx context.Context, cert *entities.Certificate) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO certificates (`+certificateColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, cert.ID, cert.Name, cert.Domain, cert.CertPath, cert.KeyPath, nullTime(cert.ExpiresAt),
		string(cert.Source), cert.SourceID, cert.Status, cert.RenewalSourceID, formatTime(now), formatTime(now))
	if err != nil {
		return fmt.Errorf("failed to insert certificate: %w", err)
	}

	cert.CreatedAt, cert.UpdatedAt = now, now
	return nil
}

// UpdateCertificate replaces an active certificate.
func (s *Storage) UpdateCertificate(ctx context.Context, cert *entities.Certificate) error {
	now := s.now()
	res, err := s.db.ExecContext(ctx, `
		UPDATE certificates
		SET name = ?, domain = ?, cert_path = ?, key_path = ?, expires_at = ?, source = ?, source_id = ?,
			status = ?, renewal_source_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`, cert.Name, cert.Domain, cert.CertPath, cert.KeyPath, nullTime(cert.ExpiresAt), string(cert.Source),
		cert.SourceID, cert.Status, cert.RenewalSourceID, formatTime(now), cert.ID)
	if err != nil {
		return fmt.Errorf("failed to update certificate: %w", err)
	}
	if err := affected(res, "certificate", cert.ID); err != nil {
		return err
	}

	cert.UpdatedAt = now
	return nil
}

// DeleteCertificate soft-deletes a certificate.
func (s *Storage) DeleteCertificate(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE certificates SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL
	`, formatTime(s.now()), id)
	if err != nil {
		return fmt.Errorf("failed to delete certificate: %w", err)
	}
	return affected(res, "certificate", id)
}

func affected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, errs.ErrNotFound)
	}
	return nil
}

// Close releases underlying db resources.
func (s *Storage) Close() error {
	return s.db.Close()
}
