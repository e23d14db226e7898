package world

import "fmt"

const secondsPerDay = 86400

// Calendar anchors the turn counter (one turn = one second) to a time of day
// and names the thresholds of the agents' daily routine, all in seconds
// since midnight.
type Calendar struct {
	Epoch   int64 // time of day at turn 0
	Wake    int64 // sleepers past this time get up
	Morning int64 // morning wander starts past this time
	Evening int64 // from this time agents head to bed
}

func DefaultCalendar() Calendar {
	return Calendar{
		Epoch:   8 * 3600,
		Wake:    6 * 3600,
		Morning: 25400,
		Evening: 19 * 3600,
	}
}

// TimeOfDay returns seconds since midnight after turns seconds.
func (c Calendar) TimeOfDay(turns int64) int64 {
	t := (c.Epoch + turns) % secondsPerDay
	if t < 0 {
		t += secondsPerDay
	}
	return t
}

// Clock formats the time of day after turns seconds as HH:MM:SS.
func (c Calendar) Clock(turns int64) string {
	t := c.TimeOfDay(turns)
	return fmt.Sprintf("%02d:%02d:%02d", t/3600, t%3600/60, t%60)
}

// UntilEvening returns the seconds from the given turn to the next evening
// threshold. Past the threshold it counts to tomorrow's.
func (c Calendar) UntilEvening(turns int64) int64 {
	d := c.Evening - c.TimeOfDay(turns)
	if d <= 0 {
		d += secondsPerDay
	}
	return d
}

// ParseClock turns "HH:MM" or "HH:MM:SS" into seconds since midnight.
func ParseClock(s string) (int64, error) {
	var h, m, sec int64
	n, err := fmt.Sscanf(s, "%d:%d:%d", &h, &m, &sec)
	if err != nil && n < 2 {
		return 0, fmt.Errorf("parse clock %q: %w", s, err)
	}
	if h < 0 || h > 23 || m < 0 || m > 59 || sec < 0 || sec > 59 {
		return 0, fmt.Errorf("parse clock %q: out of range", s)
	}
	return h*3600 + m*60 + sec, nil
}
