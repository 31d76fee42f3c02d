package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"focusos/internal/model"
	"focusos/internal/repository"
)

// New returns in-memory implementations of every relational repository.
func New() *repository.Repositories {
	return &repository.Repositories{
		Users:     NewInMemoryUserRepository(),
		Accounts:  NewInMemoryGoogleAccountRepository(),
		Emails:    NewInMemoryEmailRepository(),
		Events:    NewInMemoryCalendarEventRepository(),
		Docs:      NewInMemoryDocRepository(),
		Tasks:     NewInMemoryTaskRepository(),
		Plans:     NewInMemoryPlanRepository(),
		Triage:    NewInMemoryTriageRunRepository(),
		Materials: NewInMemoryLearningMaterialRepository(),
		Artifacts: NewInMemoryLearningArtifactRepository(),
	}
}

type InMemoryUserRepository struct {
	users map[string]*model.User
	mutex sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		users: make(map[string]*model.User),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *model.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *InMemoryUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *InMemoryUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for _, user := range r.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *InMemoryUserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var users []*model.User
	for _, user := range r.users {
		cp := *user
		users = append(users, &cp)
	}
	return users, nil
}

func (r *InMemoryUserRepository) Update(ctx context.Context, user *model.User) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.users[user.ID]; !exists {
		return repository.ErrNotFound
	}
	cp := *user
	cp.UpdatedAt = time.Now()
	r.users[user.ID] = &cp
	return nil
}

// Google account repository implementation, keyed by user id
type InMemoryGoogleAccountRepository struct {
	accounts map[string]*model.GoogleAccount
	mutex    sync.RWMutex
}

func NewInMemoryGoogleAccountRepository() *InMemoryGoogleAccountRepository {
	return &InMemoryGoogleAccountRepository{
		accounts: make(map[string]*model.GoogleAccount),
	}
}

func (r *InMemoryGoogleAccountRepository) FindByUserID(ctx context.Context, userID string) (*model.GoogleAccount, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	account, exists := r.accounts[userID]
	if !exists {
		return nil, repository.ErrNotFound
	}
	cp := *account
	cp.Scopes = append([]string(nil), account.Scopes...)
	return &cp, nil
}

func (r *InMemoryGoogleAccountRepository) Upsert(ctx context.Context, account *model.GoogleAccount) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	cp := *account
	cp.Scopes = append([]string(nil), account.Scopes...)
	if existing, exists := r.accounts[account.UserID]; exists {
		cp.ID = existing.ID
		cp.CreatedAt = existing.CreatedAt
	}
	cp.UpdatedAt = time.Now()
	r.accounts[account.UserID] = &cp
	return nil
}

// Email repository implementation, keyed by Gmail message id
type InMemoryEmailRepository struct {
	emails map[string]*model.EmailItem
	mutex  sync.RWMutex
}

func NewInMemoryEmailRepository() *InMemoryEmailRepository {
	return &InMemoryEmailRepository{
		emails: make(map[string]*model.EmailItem),
	}
}

func (r *InMemoryEmailRepository) Create(ctx context.Context, email *model.EmailItem) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	cp := *email
	r.emails[email.GmailID] = &cp
	return nil
}

func (r *InMemoryEmailRepository) FindByGmailID(ctx context.Context, gmailID string) (*model.EmailItem, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	email, exists := r.emails[gmailID]
	if !exists {
		return nil, repository.ErrNotFound
	}
	cp := *email
	return &cp, nil
}

func (r *InMemoryEmailRepository) FindUnreadSince(ctx context.Context, userID string, since time.Time, limit int) ([]*model.EmailItem, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var emails []*model.EmailItem
	for _, email := range r.emails {
		if email.UserID == userID && email.IsUnread && !email.ReceivedAt.Before(since) {
			cp := *email
			emails = append(emails, &cp)
		}
	}
	sort.Slice(emails, func(i, j int) bool {
		return emails[i].ReceivedAt.After(emails[j].ReceivedAt)
	})
	if limit > 0 && len(emails) > limit {
		emails = emails[:limit]
	}
	return emails, nil
}

func (r *InMemoryEmailRepository) Update(ctx context.Context, email *model.EmailItem) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.emails[email.GmailID]; !exists {
		return repository.ErrNotFound
	}
	cp := *email
	cp.UpdatedAt = time.Now()
	r.emails[email.GmailID] = &cp
	return nil
}

// Calendar event repository implementation, keyed by Google event id
type InMemoryCalendarEventRepository struct {
	events map[string]*model.CalendarEvent
	mutex  sync.RWMutex
}

func NewInMemoryCalendarEventRepository() *InMemoryCalendarEventRepository {
	return &InMemoryCalendarEventRepository{
		events: make(map[string]*model.CalendarEvent),
	}
}

func (r *InMemoryCalendarEventRepository) Create(ctx context.Context, event *model.CalendarEvent) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	cp := *event
	r.events[event.GcalID] = &cp
	return nil
}

func (r *InMemoryCalendarEventRepository) FindByGcalID(ctx context.Context, gcalID string) (*model.CalendarEvent, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	event, exists := r.events[gcalID]
	if !exists {
		return nil, repository.ErrNotFound
	}
	cp := *event
	return &cp, nil
}

func (r *InMemoryCalendarEventRepository) FindInRange(ctx context.Context, userID string, from, to time.Time) ([]*model.CalendarEvent, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var events []*model.CalendarEvent
	for _, event := range r.events {
		if event.UserID == userID && event.Overlaps(from, to) {
			cp := *event
			events = append(events, &cp)
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].Start.Before(events[j].Start)
	})
	return events, nil
}

func (r *InMemoryCalendarEventRepository) Update(ctx context.Context, event *model.CalendarEvent) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.events[event.GcalID]; !exists {
		return repository.ErrNotFound
	}
	cp := *event
	cp.UpdatedAt = time.Now()
	r.events[event.GcalID] = &cp
	return nil
}

func (r *InMemoryCalendarEventRepository) DeleteByGcalID(ctx context.Context, gcalID string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	delete(r.events, gcalID)
	return nil
}

// Doc repository implementation, keyed by Drive file id
type InMemoryDocRepository struct {
	docs  map[string]*model.DocItem
	mutex sync.RWMutex
}

func NewInMemoryDocRepository() *InMemoryDocRepository {
	return &InMemoryDocRepository{
		docs: make(map[string]*model.DocItem),
	}
}

func (r *InMemoryDocRepository) Create(ctx context.Context, doc *model.DocItem) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	cp := *doc
	r.docs[doc.FileID] = &cp
	return nil
}

func (r *InMemoryDocRepository) FindByFileID(ctx context.Context, fileID string) (*model.DocItem, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	doc, exists := r.docs[fileID]
	if !exists {
		return nil, repository.ErrNotFound
	}
	cp := *doc
	return &cp, nil
}

func (r *InMemoryDocRepository) Update(ctx context.Context, doc *model.DocItem) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if _, exists := r.docs[doc.FileID]; !exists {
		return repository.ErrNotFound
	}
	cp := *doc
	cp.UpdatedAt = time.Now()
	r.docs[doc.FileID] = &cp
	return nil
}

type InMemoryTaskRepository struct {
	tasks []*model.Task
	mutex sync.RWMutex
}

func NewInMemoryTaskRepository() *InMemoryTaskRepository {
	return &InMemoryTaskRepository{}
}

func (r *InMemoryTaskRepository) Create(ctx context.Context, task *model.Task) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	cp := *task
	r.tasks = append(r.tasks, &cp)
	return nil
}

func (r *InMemoryTaskRepository) FindByStatus(ctx context.Context, userID, status string) ([]*model.Task, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var tasks []*model.Task
	for _, task := range r.tasks {
		if task.UserID == userID && task.Status == status {
			cp := *task
			tasks = append(tasks, &cp)
		}
	}
	return tasks, nil
}

type InMemoryPlanRepository struct {
	plans []*model.PlanRecord
	mutex sync.RWMutex
}

func NewInMemoryPlanRepository() *InMemoryPlanRepository {
	return &InMemoryPlanRepository{}
}

func (r *InMemoryPlanRepository) Create(ctx context.Context, plan *model.PlanRecord) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	cp := *plan
	r.plans = append(r.plans, &cp)
	return nil
}

// FindByUserID returns the user's plans, newest first.
func (r *InMemoryPlanRepository) FindByUserID(ctx context.Context, userID string) ([]*model.PlanRecord, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var plans []*model.PlanRecord
	for i := len(r.plans) - 1; i >= 0; i-- {
		if r.plans[i].UserID == userID {
			cp := *r.plans[i]
			plans = append(plans, &cp)
		}
	}
	return plans, nil
}

type InMemoryTriageRunRepository struct {
	runs  []*model.TriageRun
	mutex sync.RWMutex
}

func NewInMemoryTriageRunRepository() *InMemoryTriageRunRepository {
	return &InMemoryTriageRunRepository{}
}

func (r *InMemoryTriageRunRepository) Create(ctx context.Context, run *model.TriageRun) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	cp := *run
	r.runs = append(r.runs, &cp)
	return nil
}

// FindByUserID returns the user's runs, newest first.
func (r *InMemoryTriageRunRepository) FindByUserID(ctx context.Context, userID string) ([]*model.TriageRun, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	var runs []*model.TriageRun
	for i := len(r.runs) - 1; i >= 0; i-- {
		if r.runs[i].UserID == userID {
			cp := *r.runs[i]
			runs = append(runs, &cp)
		}
	}
	return runs, nil
}

type InMemoryLearningMaterialRepository struct {
	materials map[string]*model.LearningMaterial
	mutex     sync.RWMutex
}

func NewInMemoryLearningMaterialRepository() *InMemoryLearningMaterialRepository {
	return &InMemoryLearningMaterialRepository{
		materials: make(map[string]*model.LearningMaterial),
	}
}

func (r *InMemoryLearningMaterialRepository) Create(ctx context.Context, material *model.LearningMaterial) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	cp := *material
	r.materials[material.ID] = &cp
	return nil
}

func (r *InMemoryLearningMaterialRepository) FindByID(ctx context.Context, id string) (*model.LearningMaterial, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	material, exists := r.materials[id]
	if !exists {
		return nil, repository.ErrNotFound
	}
	cp := *material
	return &cp, nil
}

type InMemoryLearningArtifactRepository struct {
	artifacts []*model.LearningArtifact
	mutex     sync.RWMutex
}

func NewInMemoryLearningArtifactRepository() *InMemoryLearningArtifactRepository {
	return &InMemoryLearningArtifactRepository{}
}

func (r *InMemoryLearningArtifactRepository) Create(ctx context.Context, artifact *model.LearningArtifact) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	cp := *artifact
	r.artifacts = append(r.artifacts, &cp)
	return nil
}

func (r *InMemoryLearningArtifactRepository) FindLatest(ctx context.Context, materialID, artifactType string) (*model.LearningArtifact, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	for i := len(r.artifacts) - 1; i >= 0; i-- {
		a := r.artifacts[i]
		if a.MaterialID == materialID && a.Type == artifactType {
			cp := *a
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}
