package storage

import (
	"encoding/json"
	"fmt"

	"gitlab.lucky-team.pro/luckyads/go.proxy-admin/internal/entities"
)

// RuleColumns is the column form of a rule shared by the SQL backends.
// Ports and locations are stored as JSON documents, TLS as two nullable paths.
type RuleColumns struct {
	ListenPorts []byte
	Locations   []byte
	CertPath    string
	KeyPath     string
}

// EncodeRule converts a rule into its column form.
func EncodeRule(r *entities.Rule) (RuleColumns, error) {
	ports, err := json.Marshal(r.ListenPorts)
	if err != nil {
		return RuleColumns{}, fmt.Errorf("failed to encode listen ports: %w", err)
	}
	locations, err := json.Marshal(r.Locations)
	if err != nil {
		return RuleColumns{}, fmt.Errorf("failed to encode locations: %w", err)
	}

	cols := RuleColumns{ListenPorts: ports, Locations: locations}
	if r.TLS != nil {
		cols.CertPath = r.TLS.CertPath
		cols.KeyPath = r.TLS.KeyPath
	}
	return cols, nil
}

// Decode fills the column-encoded fields of r.
func (c RuleColumns) Decode(r *entities.Rule) error {
	if len(c.ListenPorts) > 0 {
		if err := json.Unmarshal(c.ListenPorts, &r.ListenPorts); err != nil {
			return fmt.Errorf("failed to decode listen ports of rule %s: %w", r.ID, err)
		}
	}
	if len(c.Locations) > 0 {
		if err := json.Unmarshal(c.Locations, &r.Locations); err != nil {
			return fmt.Errorf("failed to decode locations of rule %s: %w", r.ID, err)
		}
	}
	if c.CertPath != "" || c.KeyPath != "" {
		r.TLS = &entities.TLSBinding{CertPath: c.CertPath, KeyPath: c.KeyPath}
	}
	return nil
}
