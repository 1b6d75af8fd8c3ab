package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/audit"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/config"
	"github.com/AntonStoeckl/library-circulation-go/circulation/shared/shell/policy"
	"github.com/AntonStoeckl/library-circulation-go/eventstore/memoryengine"
	"github.com/AntonStoeckl/library-circulation-go/eventstore/postgresengine"
)

// infrastructure bundles the adapters the handlers run on.
type infrastructure struct {
	eventStore shell.EventStore
	policies   *policy.Store
	auditSink  audit.Sink
	closers    []func()
}

func (i *infrastructure) close() {
	for j := len(i.closers) - 1; j >= 0; j-- {
		i.closers[j]()
	}
}

func buildInfrastructure(
	ctx context.Context,
	cfg config.Config,
	initSchema bool,
	logger *slog.Logger,
	contextualLogger shell.ContextualLogger,
	metrics shell.MetricsCollector,
	tracing shell.TracingCollector,
) (*infrastructure, error) {

	infra := &infrastructure{}

	var db *sqlx.DB
	if cfg.NeedsDatabase() {
		var err error
		if db, err = cfg.NewSQLXDB(ctx, cfg.DSN); err != nil {
			return nil, err
		}

		infra.closers = append(infra.closers, func() { _ = db.Close() })

		if initSchema {
			if err = createSchema(ctx, db, cfg.EventsTable); err != nil {
				infra.close()
				return nil, err
			}
		}
	}

	eventStore, err := buildEventStore(ctx, cfg, db, infra, logger, contextualLogger, metrics, tracing)
	if err != nil {
		infra.close()
		return nil, err
	}

	infra.eventStore = eventStore
	infra.policies = policy.NewStore(buildPolicyProvider(cfg, db), policy.WithLogger(logger))
	infra.auditSink = buildAuditSink(db, contextualLogger)

	return infra, nil
}

func buildEventStore(
	ctx context.Context,
	cfg config.Config,
	db *sqlx.DB,
	infra *infrastructure,
	logger *slog.Logger,
	contextualLogger shell.ContextualLogger,
	metrics shell.MetricsCollector,
	tracing shell.TracingCollector,
) (shell.EventStore, error) {

	if cfg.StoreBackend == config.StoreBackendMemory {
		return memoryengine.NewEventStore(memoryengine.WithLogger(logger)), nil
	}

	options := []postgresengine.Option{
		postgresengine.WithTableName(cfg.EventsTable),
		postgresengine.WithLogger(logger),
		postgresengine.WithContextualLogger(contextualLogger),
		postgresengine.WithMetrics(metrics),
	}

	if tracing != nil {
		options = append(options, postgresengine.WithTracing(tracing))
	}

	switch cfg.Driver {
	case config.DriverSQLX:
		return postgresengine.NewEventStoreFromSQLX(db, options...)

	case config.DriverSQL:
		sqlDB, err := cfg.NewSQLDB(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}

		infra.closers = append(infra.closers, func() { _ = sqlDB.Close() })

		return postgresengine.NewEventStoreFromSQLDB(sqlDB, options...)

	default:
		primary, err := cfg.NewPGXPool(ctx, cfg.DSN)
		if err != nil {
			return nil, err
		}

		infra.closers = append(infra.closers, primary.Close)

		if cfg.ReplicaDSN == "" {
			return postgresengine.NewEventStoreFromPGXPool(primary, options...)
		}

		replica, err := cfg.NewPGXPool(ctx, cfg.ReplicaDSN)
		if err != nil {
			return nil, err
		}

		infra.closers = append(infra.closers, replica.Close)

		return postgresengine.NewEventStoreFromPGXPoolAndReplica(primary, replica, options...)
	}
}

func buildPolicyProvider(cfg config.Config, db *sqlx.DB) policy.Provider {
	switch cfg.PolicySource {
	case config.PolicySourceYAML:
		return policy.NewYAMLFileProvider(cfg.PolicyFile)
	case config.PolicySourcePostgres:
		return policy.NewPostgresProvider(db, policy.WithSettingsTableName(config.PolicySettingsTable))
	default:
		return policy.NewStaticProvider(nil)
	}
}

func buildAuditSink(db *sqlx.DB, contextualLogger shell.ContextualLogger) audit.Sink {
	logSink := audit.NewSlogSink(contextualLogger)

	if db == nil {
		return logSink
	}

	return audit.MultiSink{
		logSink,
		audit.NewPostgresSink(db, audit.WithAuditTableName(config.AuditLogTable)),
	}
}

var errCreatingSchemaFailed = errors.New("creating schema failed")

func createSchema(ctx context.Context, db *sqlx.DB, eventsTable string) error {
	for _, statement := range config.Schema(eventsTable) {
		if _, err := db.ExecContext(ctx, statement); err != nil {
			return errors.Join(errCreatingSchemaFailed, err)
		}
	}

	return nil
}
