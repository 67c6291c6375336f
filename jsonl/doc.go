// Package jsonl reads and writes log records as JSON lines, one record
// per line, in the shape produced by monolog's JsonFormatter.
//
// Reader groups the decoded records into batches. A blank line closes the
// current batch; optionally a change in the value at a dotted path such as
// "extra.uid" closes it as well. Lines that fail to decode are reported as
// *LineError without losing the batch read so far.
//
// Decoding uses a fastjson.ParserPool. Everything a record holds is copied
// out of the parser before it goes back to the pool.
//
// Encoder writes the same shape back, including errors in the normalized
// exception form, so that encoded batches decode to equivalent records.
package jsonl
