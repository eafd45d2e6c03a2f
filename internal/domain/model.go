package domain

type RunStatus string

const (
	RunQueued     RunStatus = "queued"
	RunInProgress RunStatus = "in_progress"
	RunCompleted  RunStatus = "completed"
	RunOther      RunStatus = "other"
)

type Conclusion string

const (
	ConclusionSuccess   Conclusion = "success"
	ConclusionFailure   Conclusion = "failure"
	ConclusionCancelled Conclusion = "cancelled"
	ConclusionOther     Conclusion = "other"
)

// RunRecord is one workflow run as reported by the build-history query.
// Conclusion is only meaningful when Status is RunCompleted.
type RunRecord struct {
	ID           int64
	Status       RunStatus
	Conclusion   Conclusion
	Title        string
	WorkflowName string
}

// Effective is the status a platform slot takes when bound to this run.
func (r RunRecord) Effective() PlatformStatus {
	if r.Status == RunCompleted {
		return PlatformStatus(r.Conclusion)
	}
	return PlatformStatus(r.Status)
}

type PlatformStatus string

const (
	StatusPending    PlatformStatus = "pending"
	StatusQueued     PlatformStatus = "queued"
	StatusInProgress PlatformStatus = "in_progress"
	StatusSuccess    PlatformStatus = "success"
	StatusFailure    PlatformStatus = "failure"
	StatusCancelled  PlatformStatus = "cancelled"
	StatusOther      PlatformStatus = "other"
)

type Platform string

const (
	PlatformIOS     Platform = "ios"
	PlatformAAB     Platform = "aab"
	PlatformAmazon  Platform = "amazon"
	PlatformWindows Platform = "windows"
)

// Platforms is the fixed slot order used for classification and output.
var Platforms = []Platform{PlatformIOS, PlatformAAB, PlatformAmazon, PlatformWindows}

type Slot struct {
	Status PlatformStatus
	RunID  *int64
}

func (s Slot) Bound() bool { return s.RunID != nil }

type AppSnapshot struct {
	App     string
	IOS     Slot
	AAB     Slot
	Amazon  Slot
	Windows Slot
}

// PendingSnapshot is the all-pending snapshot with no bound runs.
func PendingSnapshot(app string) AppSnapshot {
	pending := Slot{Status: StatusPending}
	return AppSnapshot{App: app, IOS: pending, AAB: pending, Amazon: pending, Windows: pending}
}

func (s *AppSnapshot) Slot(p Platform) *Slot {
	switch p {
	case PlatformIOS:
		return &s.IOS
	case PlatformAAB:
		return &s.AAB
	case PlatformAmazon:
		return &s.Amazon
	case PlatformWindows:
		return &s.Windows
	}
	return nil
}

// AppStatus pairs an application with its snapshot inside a StatusSet.
type AppStatus struct {
	App      string
	Snapshot AppSnapshot
}

// StatusSet holds one snapshot per roster application, in roster order.
type StatusSet []AppStatus
