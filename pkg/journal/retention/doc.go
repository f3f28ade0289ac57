// Package retention enforces retention policies on journal records.
//
// # Overview
//
// Decision records accumulate quickly on busy limiters, so the journal
// needs bounded growth. The Pruner deletes records in two phases:
//
//  1. Age-based: records older than RetentionDays are deleted.
//  2. Count-based: if the total record count exceeds MaxRecords, the
//     oldest records are deleted until the count fits.
//
// Either phase can be disabled by setting its limit to zero. The
// Scheduler runs the pruner on a cron schedule (default: daily at 3 AM)
// and stops cleanly when the surrounding context is cancelled.
//
// # Usage
//
//	pruner := retention.NewPruner(store, &retention.Config{
//		RetentionDays: 30,
//		MaxRecords:    100000,
//		Schedule:      "0 3 * * *",
//	})
//	if err := pruner.Start(ctx); err != nil {
//		return err
//	}
//	defer pruner.Stop()
package retention
