package order

// StageState is how a progress stage is drawn.
type StageState string

const (
	StageComplete  StageState = "complete"
	StageUpcoming  StageState = "upcoming"
	StageCancelled StageState = "cancelled"
)

// Stage is one step of the shipment tracker.
type Stage struct {
	Status Status
	Label  string
	Icon   string
	State  StageState
}

// Progress is the three-step tracker shown on the order detail screen.
type Progress struct {
	Stages    []Stage
	Cancelled bool
}

var trackedStages = []Stage{
	{Status: StatusPending, Label: "Confirmed Order", Icon: "clock"},
	{Status: StatusShipped, Label: "Processing Order", Icon: "truck"},
	{Status: StatusDelivered, Label: "Product Delivered", Icon: "check-circle"},
}

// Track derives the tracker from a stored status. Stages up to and including
// the current one are complete. A cancelled order draws every stage in the
// cancelled state, whatever it had reached, and swaps the first icon.
// Unknown statuses leave every stage upcoming.
func Track(status Status) Progress {
	p := Progress{Stages: make([]Stage, len(trackedStages)), Cancelled: status == StatusCancelled}
	current := -1
	for i, s := range trackedStages {
		if s.Status == status {
			current = i
		}
	}
	for i, s := range trackedStages {
		switch {
		case p.Cancelled:
			s.State = StageCancelled
			if i == 0 {
				s.Icon = "times-circle"
			}
		case i <= current:
			s.State = StageComplete
		default:
			s.State = StageUpcoming
		}
		p.Stages[i] = s
	}
	return p
}
