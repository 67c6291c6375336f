// Package logger is the record producer of EasyLog. Most programs only
// need this package and a call to Flush at the end of each unit of work.
//
// A Logger is immutable after construction. The handler, channel, level,
// default fields and processors are set once via the Builder, so a Logger
// is safe for concurrent use without locking on the read path.
//
// EasyLog renders whole batches, so a Logger normally writes to a
// handler.BufferHandler. Records collect in the buffer until Flush, which
// hands them to the output handler as one batch:
//
//	log, err := logger.FromConfig(cfg, nil)
//	...
//	log.Info("Matched route \"{route}\".", logger.String("route", "home"))
//	log.Channel("doctrine").Debug("SELECT * FROM users WHERE id = ?", logger.Any("params", []int{7}))
//	log.Flush()
//
// The package keeps a default Logger that buffers up to 1000 records and
// writes them to stderr. The package-level functions Info, Error, Debugf,
// etc. delegate to it.
//
// For custom configuration, use the Builder:
//
//	log := logger.NewBuilder().
//	    WithHandler(buffer).
//	    WithChannel("app").
//	    WithLevel(logger.DebugLevel).
//	    WithProcessor(logger.NewUIDProcessor(7)).
//	    WithCaller(true).
//	    Build()
//
// Child loggers are created via With (extra default context fields) and
// Channel (another channel, same handler).
//
// Level checks happen before any allocation, so filtered-out
// messages cost only a single integer comparison.
package logger
