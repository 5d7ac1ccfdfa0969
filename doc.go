// Package kvasync is the asynchronous command-dispatch core of a key-value
// store client. It accepts batch-style requests, runs the blocking driver
// call on a bounded worker pool, and delivers each result back through a
// one-shot completion handle.
//
// # Command lifecycle
//
// Every command moves through three strictly sequential phases:
//
//   - Prepare, on the submitting goroutine: validate and extract request
//     parameters. A validation failure skips execution entirely.
//   - Execute, on a worker: run the blocking driver call, which streams
//     results into the command through a callback.
//   - Respond, on the dispatcher's completion goroutine: translate the owned
//     result set into the caller-visible form and fire the completion handle
//     exactly once.
//
// # Ownership
//
// Data handed out by driver callbacks is only valid during the callback, so
// the command deep-clones every key and record it keeps. Once the callback
// returns, the command's result set is the sole owner of the clones and the
// driver's originals are never touched again. Translated output is likewise
// independent of internal state: mutating it affects nothing inside the
// client.
//
// # Errors
//
// Three failure shapes exist and never mix:
//
//   - parameter errors fail the command before it reaches a worker;
//   - a failed driver call yields an empty result sequence, not an error;
//   - per-key failures travel inline in each entry's Status.
//
// A command therefore delivers exactly one of: a command-level error, or a
// result sequence (possibly empty).
//
// # Usage
//
//	client, err := kvasync.NewClient(driver, kvasync.Config{Workers: 8})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	cmd := client.BatchExists(keys, nil)
//	resp, err := cmd.Wait(ctx)
//
// Result entries follow the driver's return order, which is not guaranteed
// to match the order of the requested keys.
package kvasync
