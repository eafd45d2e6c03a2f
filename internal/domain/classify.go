package domain

import "strings"

type rule func(title, workflow string) bool

// Rules are matched case-insensitively against the lowered title and
// workflow name. Do not tidy these up; dashboards depend on the exact table.
var rules = map[Platform]rule{
	PlatformIOS: func(title, workflow string) bool {
		return strings.Contains(title, "ios") || strings.Contains(workflow, "ios")
	},
	PlatformAAB: func(title, _ string) bool {
		return strings.Contains(title, "aab") || strings.Contains(title, "google")
	},
	PlatformAmazon: func(title, _ string) bool {
		return strings.Contains(title, "amazon")
	},
	PlatformWindows: func(title, workflow string) bool {
		return strings.Contains(title, "windows") || strings.Contains(workflow, "windows")
	},
}

// Classify binds each platform slot to the first run, in input order, that
// satisfies the platform's rule. Runs are expected newest-first.
func Classify(app string, runs []RunRecord) AppSnapshot {
	snap := PendingSnapshot(app)
	for _, r := range runs {
		title := strings.ToLower(r.Title)
		workflow := strings.ToLower(r.WorkflowName)
		for _, p := range Platforms {
			slot := snap.Slot(p)
			if slot.Bound() || !rules[p](title, workflow) {
				continue
			}
			id := r.ID
			slot.Status = r.Effective()
			slot.RunID = &id
		}
	}
	return snap
}

func ParsePlatform(s string) (Platform, error) {
	for _, p := range Platforms {
		if string(p) == s {
			return p, nil
		}
	}
	return "", ErrUnknownPlatform
}
