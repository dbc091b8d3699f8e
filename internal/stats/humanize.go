package stats

import "fmt"

// HumanizeMinutes renders a minute count for the dashboard, in the fixed
// display language used throughout. Non-positive values read as zero;
// durations of an hour or more are split into hours and minutes.
func HumanizeMinutes(minutes float64) string {
	if minutes <= 0 {
		return "0 Min."
	}
	m := int(minutes)
	h := m / 60
	r := m % 60
	if h > 0 {
		return fmt.Sprintf("%d Std. %d Min.", h, r)
	}
	return fmt.Sprintf("%d Min.", r)
}
