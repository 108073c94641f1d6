// Package workers provides a bounded pool for running batches of background
// tasks, such as re-encrypting every blob in a user's vault after a
// credential change.
package workers
