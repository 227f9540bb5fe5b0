package common

import "time"

// Animator cycles through placeholder frames while a flag is raised, e.g.
// "Approving", "Approving .", "Approving ..". Frame selection is a pure
// function of elapsed time so callers stay testable.
type Animator struct {
	frames   []string
	interval time.Duration
	started  time.Time
}

func NewAnimator(frames []string, interval time.Duration, now time.Time) *Animator {
	return &Animator{frames: frames, interval: interval, started: now}
}

// Frame returns the frame for the given instant. When active is false the
// first frame is returned unanimated.
func (a *Animator) Frame(active bool, now time.Time) string {
	if len(a.frames) == 0 {
		return ""
	}
	if !active || a.interval <= 0 {
		return a.frames[0]
	}
	elapsed := now.Sub(a.started)
	if elapsed < 0 {
		elapsed = 0
	}
	idx := int(elapsed/a.interval) % len(a.frames)
	return a.frames[idx]
}

// ApprovingFrames is the placeholder shown while an allowance grant is
// outstanding.
func ApprovingFrames() []string {
	return []string{"Approving", "Approving .", "Approving ..", "Approving ..."}
}

// LoadingFrames is the placeholder shown while the yield estimate is
// unfetched.
func LoadingFrames() []string {
	return []string{"Loading", "Loading .", "Loading ..", "Loading ..."}
}
