// Package optimistic applies a local change before the authority confirms it
// and restores the last confirmed value if the authority rejects it.
//
// Each change is a two-phase operation: Begin records the prior value and
// exposes the new one immediately, then Commit makes it the confirmed value
// or Rollback restores the prior one. A Rollback from a superseded change is
// ignored so a late failure cannot clobber a newer value.
package optimistic
