package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"focusos/internal/model"
	"focusos/internal/repository"
)

// InMemorySavedStore backs the /save routes when no Mongo URI is configured.
type InMemorySavedStore struct {
	plans      []*model.SavedPlan
	summaries  []*model.SavedSummary
	sessions   []*model.SavedLearningSession
	checklist  map[string]*model.ChecklistItem
	activities []*model.CalendarActivity
	mutex      sync.RWMutex
}

func NewInMemorySavedStore() *InMemorySavedStore {
	return &InMemorySavedStore{
		checklist: make(map[string]*model.ChecklistItem),
	}
}

func (s *InMemorySavedStore) SavePlan(ctx context.Context, plan *model.SavedPlan) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cp := *plan
	s.plans = append(s.plans, &cp)
	return nil
}

func (s *InMemorySavedStore) ListPlans(ctx context.Context, userID string) ([]*model.SavedPlan, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var plans []*model.SavedPlan
	for _, p := range s.plans {
		if p.UserID == userID {
			cp := *p
			plans = append(plans, &cp)
		}
	}
	sort.SliceStable(plans, func(i, j int) bool {
		return plans[i].CreatedAt.After(plans[j].CreatedAt)
	})
	return plans, nil
}

func (s *InMemorySavedStore) SaveSummary(ctx context.Context, summary *model.SavedSummary) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cp := *summary
	s.summaries = append(s.summaries, &cp)
	return nil
}

func (s *InMemorySavedStore) SaveLearningSession(ctx context.Context, session *model.SavedLearningSession) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cp := *session
	s.sessions = append(s.sessions, &cp)
	return nil
}

func (s *InMemorySavedStore) ListLearningSessions(ctx context.Context, userID string) ([]*model.SavedLearningSession, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var sessions []*model.SavedLearningSession
	for _, ls := range s.sessions {
		if ls.UserID == userID {
			cp := *ls
			sessions = append(sessions, &cp)
		}
	}
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].SavedAt.After(sessions[j].SavedAt)
	})
	return sessions, nil
}

func (s *InMemorySavedStore) ListChecklist(ctx context.Context, userID string) ([]*model.ChecklistItem, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var items []*model.ChecklistItem
	for _, item := range s.checklist {
		if item.UserID == userID {
			cp := *item
			items = append(items, &cp)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *InMemorySavedStore) AddChecklistItem(ctx context.Context, item *model.ChecklistItem) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, existing := range s.checklist {
		if existing.TaskID == item.TaskID {
			return repository.ErrDuplicate
		}
	}
	cp := *item
	s.checklist[item.ID] = &cp
	return nil
}

func (s *InMemorySavedStore) ClearChecklist(ctx context.Context, userID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for id, item := range s.checklist {
		if item.UserID == userID {
			delete(s.checklist, id)
		}
	}
	return nil
}

func (s *InMemorySavedStore) FindChecklistItem(ctx context.Context, userID, id string) (*model.ChecklistItem, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	if item, ok := s.checklist[id]; ok && item.UserID == userID {
		cp := *item
		return &cp, nil
	}
	for _, item := range s.checklist {
		if item.UserID == userID && item.TaskID == id {
			cp := *item
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *InMemorySavedStore) UpdateChecklistItem(ctx context.Context, item *model.ChecklistItem) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, ok := s.checklist[item.ID]; !ok {
		return repository.ErrNotFound
	}
	cp := *item
	s.checklist[item.ID] = &cp
	return nil
}

func (s *InMemorySavedStore) AddCalendarActivity(ctx context.Context, activity *model.CalendarActivity) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	cp := *activity
	s.activities = append(s.activities, &cp)
	return nil
}

func (s *InMemorySavedStore) ListActiveCalendarActivities(ctx context.Context, userID string, now time.Time) ([]*model.CalendarActivity, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var activities []*model.CalendarActivity
	for _, a := range s.activities {
		if a.UserID == userID && a.ExpiresAt.After(now) {
			cp := *a
			activities = append(activities, &cp)
		}
	}
	sort.SliceStable(activities, func(i, j int) bool {
		return activities[i].AddedAt.After(activities[j].AddedAt)
	})
	return activities, nil
}
