package optimizer

import "strings"

// Frequency is how many times a year a described purchase is expected to repeat.
type Frequency struct {
	Multiplier int    `json:"multiplier"`
	Label      string `json:"label"`
}

var OneOff = Frequency{Multiplier: 1, Label: "one-time"}

var frequencyRules = []struct {
	cues []string
	freq Frequency
}{
	{[]string{"every week", "weekly"}, Frequency{Multiplier: 52, Label: "weekly"}},
	{[]string{"every month", "monthly"}, Frequency{Multiplier: 12, Label: "monthly"}},
	{[]string{"every day", "daily"}, Frequency{Multiplier: 365, Label: "daily"}},
}

// InferFrequency scans the query for recurrence cues. Rules are checked in order
// weekly, monthly, daily and only the first match counts.
func InferFrequency(query string) Frequency {
	q := strings.ToLower(query)
	for _, rule := range frequencyRules {
		for _, cue := range rule.cues {
			if strings.Contains(q, cue) {
				return rule.freq
			}
		}
	}
	return OneOff
}

func (f Frequency) Recurring() bool {
	return f.Multiplier > 1
}
