package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/niva-data/ndbview/services/api/db"
	"github.com/niva-data/ndbview/services/api/reconcile"
	"github.com/niva-data/ndbview/services/exporter/internal/config"
	"github.com/niva-data/ndbview/services/exporter/internal/csvout"
)

// observationSource is the part of a db.Session the exporter needs.
type observationSource interface {
	FetchObservations(ctx context.Context, q db.ObservationQuery) ([]reconcile.Observation, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	logger := cfg.NewLogger()

	if err := run(cfg, logger); err != nil {
		logger.Fatalf("exporter failed: %v", err)
	}
}

func run(cfg config.Config, logger *logrus.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	store, err := db.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer store.Close()

	sess, err := store.Acquire(ctx)
	if err != nil {
		return err
	}
	defer sess.Release()

	return export(ctx, cfg, logger, sess)
}

// export fetches, reconciles and writes the CSV outputs.
func export(ctx context.Context, cfg config.Config, logger *logrus.Logger, src observationSource) error {
	records, err := src.FetchObservations(ctx, db.ObservationQuery{
		StationIDs:   cfg.StationIDs,
		ParameterIDs: cfg.ParameterIDs,
		Dates:        cfg.Dates,
	})
	if err != nil {
		return fmt.Errorf("fetch observations: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"stations":   len(cfg.StationIDs),
		"parameters": len(cfg.ParameterIDs),
		"records":    len(records),
	}).Info("fetched observations")

	result, err := reconcile.ReconcileAndPivot(records, cfg.Options)
	if err != nil {
		return err
	}

	disagreeing := reconcile.CountDisagreeing(result.Conflicts)
	entry := logger.WithFields(logrus.Fields{
		"rows":            len(result.Table.Rows),
		"columns":         len(result.Table.ParameterColumns),
		"records_kept":    result.Stats.Kept,
		"conflict_groups": len(result.Conflicts),
		"disagreeing":     disagreeing,
		"tie_break":       cfg.Options.TieBreak.String(),
	})
	if disagreeing > 0 {
		entry.Warn("conflicting values for some station-date-parameter combinations; the most recent values were kept")
	}

	if cfg.DryRun {
		entry.Info("dry-run: skipping CSV output")
		return nil
	}

	var g errgroup.Group
	g.Go(func() error {
		if err := csvout.WriteFile(cfg.Output, func(w io.Writer) error {
			return csvout.WriteTable(w, result.Table, cfg.Missing)
		}); err != nil {
			return err
		}
		entry.WithField("path", cfg.Output).Info("wrote wide table")
		return nil
	})
	if cfg.ConflictsOutput != "" && len(result.Conflicts) > 0 {
		g.Go(func() error {
			if err := csvout.WriteFile(cfg.ConflictsOutput, func(w io.Writer) error {
				return csvout.WriteConflicts(w, result.Conflicts)
			}); err != nil {
				return err
			}
			entry.WithField("path", cfg.ConflictsOutput).Info("wrote conflict report")
			return nil
		})
	}
	return g.Wait()
}
