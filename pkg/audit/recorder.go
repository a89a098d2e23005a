package audit

// Recorder receives run outcomes. RunHistory implements it on SQLite;
// Nop stands in when no audit database is configured, so callers never
// branch on whether auditing is enabled.
type Recorder interface {
	RecordRun(run RunRecord, rejections []RejectionRecord) (int64, error)
}

// Nop is a Recorder that discards everything.
type Nop struct{}

// RecordRun implements Recorder by doing nothing.
func (Nop) RecordRun(RunRecord, []RejectionRecord) (int64, error) {
	return 0, nil
}
