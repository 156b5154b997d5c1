package ledger

import (
	"sync"

	"github.com/alwitt/fleetledger/models"
)

// Session state of one search and edit cycle
//
// It holds the last accepted search result and the persisted snapshot of every current
// version in it, which edits are compared against.
type Session struct {
	lock      sync.RWMutex
	current   []models.FleetRecord
	history   []models.FleetRecord
	snapshots map[string]models.FleetRecord
}

// NewSession define an empty session
func NewSession() *Session {
	return &Session{
		current:   []models.FleetRecord{},
		history:   []models.FleetRecord{},
		snapshots: map[string]models.FleetRecord{},
	}
}

// Load adopt a search result. A rejected search leaves the session unchanged.
func (s *Session) Load(result SearchResult) {
	if result.Rejected() {
		return
	}

	s.lock.Lock()
	defer s.lock.Unlock()

	s.current = append([]models.FleetRecord{}, result.Current...)
	s.history = append([]models.FleetRecord{}, result.All...)
	s.snapshots = make(map[string]models.FleetRecord, len(result.Current))
	for _, version := range result.Current {
		s.snapshots[version.ID] = version
	}
}

// Current the editable current versions
func (s *Session) Current() []models.FleetRecord {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return append([]models.FleetRecord{}, s.current...)
}

// History every version of the last search
func (s *Session) History() []models.FleetRecord {
	s.lock.RLock()
	defer s.lock.RUnlock()
	return append([]models.FleetRecord{}, s.history...)
}

// Snapshot the persisted form of one current version
func (s *Session) Snapshot(recordID string) (models.FleetRecord, bool) {
	s.lock.RLock()
	defer s.lock.RUnlock()
	snapshot, ok := s.snapshots[recordID]
	return snapshot, ok
}

// Forget drop every version of a fleet record, e.g. after it is deleted
func (s *Session) Forget(fleetNumber int64) {
	s.lock.Lock()
	defer s.lock.Unlock()

	keep := func(versions []models.FleetRecord) []models.FleetRecord {
		result := []models.FleetRecord{}
		for _, version := range versions {
			if version.FleetNumber != fleetNumber {
				result = append(result, version)
			}
		}
		return result
	}
	s.current = keep(s.current)
	s.history = keep(s.history)
	for recordID, snapshot := range s.snapshots {
		if snapshot.FleetNumber == fleetNumber {
			delete(s.snapshots, recordID)
		}
	}
}
