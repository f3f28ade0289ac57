// Package journal records admission decisions for audit and inspection.
//
// # Overview
//
// Every admission check made through the limits manager can be captured as a
// journal Record: which resource was checked, whether the call was admitted,
// and what the window looked like at that instant. Records are written
// asynchronously by the Recorder so the admission path never waits on
// storage.
//
// The journal is an audit trail, not limiter state. Nothing recorded here
// feeds back into admission decisions, and a restart simply starts a fresh
// journal with every window empty.
//
// # Architecture
//
// The package is organized into sub-packages:
//
//   - storage: Persistence backends (memory, SQLite)
//   - retention: Age- and count-based pruning on a cron schedule
//
// # Usage
//
//	store, err := storage.NewSQLiteStorage(&storage.SQLiteConfig{Path: "data/journal.db"})
//	if err != nil {
//	    return err
//	}
//
//	recorder := journal.NewRecorder(store, nil)
//	defer recorder.Close()
//
//	recorder.Record(ctx, &journal.Record{
//	    Resource: "payments-api",
//	    Decision: "admitted",
//	})
package journal
