package testsupport

import "time"

// FileTimes is a fixed set of filesystem timestamps satisfying
// times.Timespec. A zero Birth or Change reads as "not reported by the
// platform".
type FileTimes struct {
	Access time.Time
	Birth  time.Time
	Change time.Time
	Mod    time.Time
}

func (f FileTimes) ModTime() time.Time    { return f.Mod }
func (f FileTimes) AccessTime() time.Time { return f.Access }
func (f FileTimes) ChangeTime() time.Time { return f.Change }
func (f FileTimes) BirthTime() time.Time  { return f.Birth }
func (f FileTimes) HasChangeTime() bool   { return !f.Change.IsZero() }
func (f FileTimes) HasBirthTime() bool    { return !f.Birth.IsZero() }
