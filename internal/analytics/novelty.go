package analytics

import (
	"github.com/ritee123/loginsight/internal/activity"
)

// AttemptView is a login record annotated with novelty flags for the
// attempts feed.
type AttemptView struct {
	activity.LoginRecord
	IsNewDevice   bool `json:"isNewDevice"`
	IsNewLocation bool `json:"isNewLocation"`
}

// AnnotateNovelty flags each record as coming from a new device or a new
// location for its user. records must be ordered by timestamp ascending;
// history holds the users' records from strictly before the window start.
//
// A given (user, deviceType) or (user, country) value is flagged new at
// most once per call: after a record is evaluated, its values count as
// seen for the rest of the walk. Records without a user id get both flags
// false, and an empty country never counts as a new location.
func AnnotateNovelty(records, history []*activity.LoginRecord) []AttemptView {
	pastDevices := make(map[int64]map[string]bool)
	pastLocations := make(map[int64]map[string]bool)
	for _, rec := range history {
		if rec.UserID == 0 {
			continue
		}
		addSeen(pastDevices, rec.UserID, rec.DeviceType)
		if rec.Country != "" {
			addSeen(pastLocations, rec.UserID, rec.Country)
		}
	}

	todayDevices := make(map[int64]map[string]bool)
	todayLocations := make(map[int64]map[string]bool)

	out := make([]AttemptView, len(records))
	for i, rec := range records {
		view := AttemptView{LoginRecord: *rec}

		if rec.UserID != 0 {
			view.IsNewDevice = !pastDevices[rec.UserID][rec.DeviceType] &&
				!todayDevices[rec.UserID][rec.DeviceType]
			if rec.Country != "" {
				view.IsNewLocation = !pastLocations[rec.UserID][rec.Country] &&
					!todayLocations[rec.UserID][rec.Country]
				addSeen(todayLocations, rec.UserID, rec.Country)
			}
			addSeen(todayDevices, rec.UserID, rec.DeviceType)
		}

		out[i] = view
	}
	return out
}

func addSeen(m map[int64]map[string]bool, userID int64, value string) {
	set, ok := m[userID]
	if !ok {
		set = make(map[string]bool)
		m[userID] = set
	}
	set[value] = true
}
