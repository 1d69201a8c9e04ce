package services

// ProgressFunc receives user-feedback progress for a multi-step
// sequence. Percentages are monotonically increasing within one run and
// carry no correctness guarantee; never synchronize on them.
type ProgressFunc func(percent int, stage string)

// NopProgress discards progress updates.
func NopProgress(int, string) {}
