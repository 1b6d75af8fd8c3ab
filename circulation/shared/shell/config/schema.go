package config

import (
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/audit"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/policy"
	"github.com/AntonStoeckl/library-circulation-go/eventstore/postgresengine"
)

const (
	PolicySettingsTable = "policy_settings"
	AuditLogTable       = "audit_log"
)

// Schema returns all statements needed for a fresh database, in execution order.
func Schema(eventsTable string) []string {
	statements := postgresengine.EventsTableDDL(eventsTable)
	statements = append(statements,
		policy.SettingsTableDDL(PolicySettingsTable),
		audit.AuditTableDDL(AuditLogTable),
	)

	return statements
}
