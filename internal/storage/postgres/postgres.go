package postgres

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"go.uber.org/zap"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/config"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/errs"
	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/storage"
)

//go:embed schema.sql
var schema string

// Storage is a postgres-based implementation of storage.Common.
type Storage struct {
	mainDB  *pgxpool.Pool
	logger  *zap.Logger
	timeout time.Duration
}

var _ storage.Common = (*Storage)(nil)

// New connects to postgres and ensures the schema exists. The initial
// connection is retried with exponential backoff for conf.ConnectTimeout.
// Context is used during dial only, connString may contain pgx specific parameters.
func New(ctx context.Context, logger *zap.Logger, conf *config.Postgres) (*Storage, error) {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = conf.ConnectTimeout

	var mainDB *pgxpool.Pool
	err := backoff.RetryNotify(func() error {
		var err error
		mainDB, err = pgxpool.Connect(ctx, conf.MainDBConnectionString)
		return err
	}, backoff.WithContext(bo, ctx), func(err error, next time.Duration) {
		logger.Warn("postgres is not reachable yet", zap.Error(err), zap.Duration("retry_in", next))
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create mainDB pgx pool: %w", err)
	}

	if _, err := mainDB.Exec(ctx, schema); err != nil {
		mainDB.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Storage{
		mainDB:  mainDB,
		logger:  logger,
		timeout: conf.Timeout,
	}, nil
}

func (s *Storage) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

const ruleColumns = `
	id,
	server_name,
	listen_ports,
	ssl_cert_path,
	ssl_key_path,
	locations,
	created_at,
	updated_at`

func scanRule(row pgx.Row) (entities.Rule, error) {
	var (
		rule entities.Rule
		cols storage.RuleColumns
	)
	if err := row.Scan(
		&rule.ID,
		&rule.ServerName,
		&cols.ListenPorts,
		&cols.CertPath,
		&cols.KeyPath,
		&cols.Locations,
		&rule.CreatedAt,
		&rule.UpdatedAt,
	); err != nil {
		return entities.Rule{}, err
	}
	if err := cols.Decode(&rule); err != nil {
		return entities.Rule{}, err
	}
	return rule, nil
}

// GetRules returns all active rules.
// Any error returned is internal.
func (s *Storage) GetRules(ctx context.Context) (entities.Rules, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.mainDB.Query(ctx, `
		SELECT`+ruleColumns+`
		FROM
			proxy.rules
		WHERE
			deleted_at IS NULL
		ORDER BY
			created_at
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
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rule, err := scanRule(s.mainDB.QueryRow(ctx, `
		SELECT`+ruleColumns+`
		FROM
			proxy.rules
		WHERE
			id = $1
			AND deleted_at IS NULL
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
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

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err = s.mainDB.QueryRow(ctx, `
		INSERT INTO proxy.rules
			(id, server_name, listen_ports, ssl_cert_path, ssl_key_path, locations)
		VALUES
			($1, $2, $3, $4, $5, $6)
		RETURNING
			created_at, updated_at
	`, rule.ID, rule.ServerName, string(cols.ListenPorts), cols.CertPath, cols.KeyPath, string(cols.Locations)).
		Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert rule: %w", err)
	}
	return nil
}

// UpdateRule replaces an active rule.
func (s *Storage) UpdateRule(ctx context.Context, rule *entities.Rule) error {
	cols, err := storage.EncodeRule(rule)
	if err != nil {
		return err
	}

	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err = s.mainDB.QueryRow(ctx, `
		UPDATE
			proxy.rules
		SET
			server_name = $2,
			listen_ports = $3,
			ssl_cert_path = $4,
			ssl_key_path = $5,
			locations = $6,
			updated_at = now()
		WHERE
			id = $1
			AND deleted_at IS NULL
		RETURNING
			created_at, updated_at
	`, rule.ID, rule.ServerName, string(cols.ListenPorts), cols.CertPath, cols.KeyPath, string(cols.Locations)).
		Scan(&rule.CreatedAt, &rule.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("rule %s: %w", rule.ID, errs.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update rule: %w", err)
	}
	return nil
}

// DeleteRule soft-deletes a rule.
func (s *Storage) DeleteRule(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.mainDB.Exec(ctx, `
		UPDATE
			proxy.rules
		SET
			deleted_at = now()
		WHERE
			id = $1
			AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("rule %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

// ServerNameTaken implements storage.Common.
func (s *Storage) ServerNameTaken(ctx context.Context, serverName, excludeID string) (bool, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	var taken bool
	err := s.mainDB.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1
			FROM
				proxy.rules
			WHERE
				server_name = $1
				AND id <> $2
				AND deleted_at IS NULL
		)
	`, serverName, excludeID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("failed to check server name: %w", err)
	}
	return taken, nil
}

const certificateColumns = `
	id,
	name,
	domain,
	cert_path,
	key_path,
	expires_at,
	source,
	source_id,
	status,
	renewal_source_id,
	created_at,
	updated_at`

func scanCertificate(row pgx.Row) (entities.Certificate, error) {
	var (
		cert   entities.Certificate
		source string
	)
	if err := row.Scan(
		&cert.ID,
		&cert.Name,
		&cert.Domain,
		&cert.CertPath,
		&cert.KeyPath,
		&cert.ExpiresAt,
		&source,
		&cert.SourceID,
		&cert.Status,
		&cert.RenewalSourceID,
		&cert.CreatedAt,
		&cert.UpdatedAt,
	); err != nil {
		return entities.Certificate{}, err
	}
	cert.Source = entities.ParseOrigin(source)
	return cert, nil
}

// GetCertificates returns all active certificates.
// Any error returned is internal.
func (s *Storage) GetCertificates(ctx context.Context) (entities.Certificates, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	rows, err := s.mainDB.Query(ctx, `
		SELECT`+certificateColumns+`
		FROM
			proxy.certificates
		WHERE
			deleted_at IS NULL
		ORDER BY
			created_at
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
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cert, err := scanCertificate(s.mainDB.QueryRow(ctx, `
		SELECT`+certificateColumns+`
		FROM
			proxy.certificates
		WHERE
			id = $1
			AND deleted_at IS NULL
	`, id))
	if errors.Is(err, pgx.ErrNoRows) {
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
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	cert, err := scanCertificate(s.mainDB.QueryRow(ctx, `
		SELECT`+certificateColumns+`
		FROM
			proxy.certificates
		WHERE
			source = $1
			AND (source_id = $2 OR renewal_source_id = $2)
			AND deleted_at IS NULL
		LIMIT 1
	`, string(origin), sourceID))
	if errors.Is(err, pgx.ErrNoRows) {
		return entities.Certificate{}, fmt.Errorf("%s certificate %s: %w", origin, sourceID, errs.ErrNotFound)
	}
	if err != nil {
		return entities.Certificate{}, fmt.Errorf("failed to get certificate by source: %w", err)
	}
	return cert, nil
}

// CreateCertificate stores a new certificate and sets its timestamps.
func (s *Storage) CreateCertificate(ctx context.Context, cert *entities.Certificate) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.mainDB.QueryRow(ctx, `
		INSERT INTO proxy.certificates
			(id, name, domain, cert_path, key_path, expires_at, source, source_id, status, renewal_source_id)
		VALUES
			($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING
			created_at, updated_at
	`, cert.ID, cert.Name, cert.Domain, cert.CertPath, cert.KeyPath, cert.ExpiresAt,
		string(cert.Source), cert.SourceID, cert.Status, cert.RenewalSourceID).
		Scan(&cert.CreatedAt, &cert.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert certificate: %w", err)
	}
	return nil
}

// UpdateCertificate replaces an active certificate.
func (s *Storage) UpdateCertificate(ctx context.Context, cert *entities.Certificate) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	err := s.mainDB.QueryRow(ctx, `
		UPDATE
			proxy.certificates
		SET
			name = $2,
			domain = $3,
			cert_path = $4,
			key_path = $5,
			expires_at = $6,
			source = $7,
			source_id = $8,
			status = $9,
			renewal_source_id = $10,
			updated_at = now()
		WHERE
			id = $1
			AND deleted_at IS NULL
		RETURNING
			created_at, updated_at
	`, cert.ID, cert.Name, cert.Domain, cert.CertPath, cert.KeyPath, cert.ExpiresAt,
		string(cert.Source), cert.SourceID, cert.Status, cert.RenewalSourceID).
		Scan(&cert.CreatedAt, &cert.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("certificate %s: %w", cert.ID, errs.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to update certificate: %w", err)
	}
	return nil
}

// DeleteCertificate soft-deletes a certificate.
func (s *Storage) DeleteCertificate(ctx context.Context, id string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tag, err := s.mainDB.Exec(ctx, `
		UPDATE
			proxy.certificates
		SET
			deleted_at = now()
		WHERE
			id = $1
			AND deleted_at IS NULL
	`, id)
	if err != nil {
		return fmt.Errorf("failed to delete certificate: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("certificate %s: %w", id, errs.ErrNotFound)
	}
	return nil
}

// Close releases underlying db resources.
func (s *Storage) Close() error {
	s.mainDB.Close()
	return nil
}
