// Package metrics turns raw cumulative OS counters into the point-in-time
// values the dashboard shows: CPU percentages, memory, swap and disk usage,
// byte rates, and human-readable byte sizes.
//
// Every function here is pure. Missing data is reported with the negative
// sentinels Unsupported and Unknown rather than with errors, and division by
// zero always resolves to 0 so callers never see NaN or Inf.
package metrics
