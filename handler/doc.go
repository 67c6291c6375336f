// Package handler delivers batches of log records to their outputs.
//
// A BatchHandler receives the ordered records of one unit of work and
// writes them through a formatter.BatchFormatter. Single-record producers
// (loggers, log/slog, zap, logrus) feed a BufferHandler, which collects the
// records and hands them over as one batch on Flush or Close. A
// BatchHandler whose formatter cannot format single records panics with
// formatter.ErrWrongConfiguration when Handle is called.
//
// Built-in handlers:
//
//   - BufferHandler collects records up to an optional limit. When full it
//     flushes early or drops the oldest or newest record.
//   - FileHandler appends to a file under an advisory lock, with rotation
//     by size, age or interval, backup cleanup and optional gzip.
//   - WriterHandler writes to any io.Writer (default: stdout).
//   - MultiHandler fans out a batch to multiple handlers.
//   - SlogHandler, ZapCore and LogrusHook adapt log/slog, zap and logrus.
//
// FileHandler and WriterHandler can write asynchronously. Batches then go
// to a bounded channel drained by a background goroutine. When the queue
// is full, the OverflowPolicy of the batch's highest level applies:
// DropNewest (default up to Warning), DropOldest, or Block with a timeout
// (default from Error). Close drains the queue within DrainTimeout.
//
// Handlers count processed batches and records, dropped records per level
// and blocked callers in Stats, which can be queried at runtime.
package handler
