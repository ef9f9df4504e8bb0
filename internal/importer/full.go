package importer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/albapepper/tennis-stats/internal/tennis"
)

const (
	msgPlayerStageFailed = "Player import failed"
	msgSkippedForPlayers = "Skipped due to player import failure"
	fullImportStageCount = 3
)

// ImportAllHistoricalData runs players, tournaments and rankings in that
// order. Rankings need players to exist, so a failed player stage stops the
// run before the other stages are attempted. progress may be nil.
func (im *Importer) ImportAllHistoricalData(
	ctx context.Context,
	association tennis.Association,
	startYear, endYear int,
	delay time.Duration,
	progress ProgressFunc,
) (res FullResult) {
	start := time.Now()
	res.RunID = uuid.NewString()
	logger := im.logger.With("run_id", res.RunID, "association", association)
	reporter := startProgress(progress, logger)

	// Held across all stages so status stays running between them.
	im.tracker.Begin()
	defer func() {
		if r := recover(); r != nil {
			msg := fmt.Sprintf("unexpected error: %v", r)
			logger.Error("Full import aborted by unexpected error", "panic", r)
			res.Success = false
			res.Error = msg
			res.Players = Result{EntityType: EntityPlayers, Error: msg}
			res.Tournaments = Result{EntityType: EntityTournaments, Error: msg}
			res.Rankings = Result{EntityType: EntityRankings, Error: msg}
		}
		im.tracker.Finish()
		res.TotalDuration = time.Since(start)
		reporter.close()
	}()

	logger.Info("Starting full historical import", "start_year", startYear, "end_year", endYear)

	stage := func(i int, entity, op string) {
		reporter.report(Progress{
			CurrentOperation: op,
			EntityType:       entity,
			Current:          i,
			Total:            fullImportStageCount,
			PercentComplete:  percent(i, fullImportStageCount),
		})
	}

	logger.Info("Phase 1/3: players")
	stage(0, EntityPlayers, fmt.Sprintf("Importing %s players", association))
	res.Players = im.ImportPlayers(ctx, association, DefaultMaxPages, delay)
	if !res.Players.Success {
		res.Tournaments = skippedResult(EntityTournaments, msgSkippedForPlayers)
		res.Rankings = skippedResult(EntityRankings, msgSkippedForPlayers)
		res.Error = msgPlayerStageFailed
		logger.Warn("Full import stopped after player stage", "error", res.Players.Error)
		return res
	}

	logger.Info("Phase 2/3: tournaments")
	stage(1, EntityTournaments, fmt.Sprintf("Importing %s tournaments %d-%d", association, startYear, endYear))
	res.Tournaments = im.ImportTournaments(ctx, association, startYear, endYear, delay)

	logger.Info("Phase 3/3: rankings")
	stage(2, EntityRankings, fmt.Sprintf("Importing %s rankings", association))
	res.Rankings = im.ImportRankings(ctx, association)

	res.Success = res.Players.Success && res.Tournaments.Success && res.Rankings.Success
	stage(fullImportStageCount, "", "Import complete")
	logger.Info("Full historical import finished", "duration", time.Since(start).Round(time.Second), "summary", res.Summary())
	return res
}
