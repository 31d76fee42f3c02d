package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"focusos/internal/model"
	"focusos/internal/repository"

	"github.com/lib/pq"
)

// New returns Postgres implementations of every relational repository.
func New(db *sql.DB) *repository.Repositories {
	return &repository.Repositories{
		Users:     NewPostgresUserRepository(db),
		Accounts:  NewPostgresGoogleAccountRepository(db),
		Emails:    NewPostgresEmailRepository(db),
		Events:    NewPostgresCalendarEventRepository(db),
		Docs:      NewPostgresDocRepository(db),
		Tasks:     NewPostgresTaskRepository(db),
		Plans:     NewPostgresPlanRepository(db),
		Triage:    NewPostgresTriageRunRepository(db),
		Materials: NewPostgresLearningMaterialRepository(db),
		Artifacts: NewPostgresLearningArtifactRepository(db),
	}
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return repository.ErrNotFound
	}
	return err
}

type PostgresUserRepository struct {
	db *sql.DB
}

func NewPostgresUserRepository(db *sql.DB) *PostgresUserRepository {
	return &PostgresUserRepository{db: db}
}

const userColumns = `id, email, name, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return user, nil
}

func (r *PostgresUserRepository) Create(ctx context.Context, user *model.User) error {
	query := `
		INSERT INTO users (id, email, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Email, user.Name, user.CreatedAt, user.UpdatedAt)
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return repository.ErrDuplicate
	}
	return err
}

func (r *PostgresUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (r *PostgresUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (r *PostgresUserRepository) FindAll(ctx context.Context) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *PostgresUserRepository) Update(ctx context.Context, user *model.User) error {
	query := `UPDATE users SET email=$1, name=$2, updated_at=NOW() WHERE id=$3`
	_, err := r.db.ExecContext(ctx, query, user.Email, user.Name, user.ID)
	return err
}

// Postgres Google account repository implementation
type PostgresGoogleAccountRepository struct {
	db *sql.DB
}

func NewPostgresGoogleAccountRepository(db *sql.DB) *PostgresGoogleAccountRepository {
	return &PostgresGoogleAccountRepository{db: db}
}

func (r *PostgresGoogleAccountRepository) FindByUserID(ctx context.Context, userID string) (*model.GoogleAccount, error) {
	query := `
		SELECT id, user_id, google_sub, access_token_enc, refresh_token_enc, expiry, scopes, created_at, updated_at
		FROM google_accounts WHERE user_id = $1`
	account := &model.GoogleAccount{}
	var expiry sql.NullTime
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&account.ID, &account.UserID, &account.GoogleSub,
		&account.AccessTokenEnc, &account.RefreshTokenEnc, &expiry,
		pq.Array(&account.Scopes), &account.CreatedAt, &account.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	account.Expiry = expiry.Time
	return account, nil
}

func (r *PostgresGoogleAccountRepository) Upsert(ctx context.Context, account *model.GoogleAccount) error {
	query := `
		INSERT INTO google_accounts (id, user_id, google_sub, access_token_enc, refresh_token_enc, expiry, scopes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			google_sub = EXCLUDED.google_sub,
			access_token_enc = EXCLUDED.access_token_enc,
			refresh_token_enc = EXCLUDED.refresh_token_enc,
			expiry = EXCLUDED.expiry,
			scopes = EXCLUDED.scopes,
			updated_at = NOW()`
	var expiry sql.NullTime
	if !account.Expiry.IsZero() {
		expiry = sql.NullTime{Time: account.Expiry, Valid: true}
	}
	_, err := r.db.ExecContext(ctx, query,
		account.ID, account.UserID, account.GoogleSub,
		account.AccessTokenEnc, account.RefreshTokenEnc, expiry,
		pq.Array(account.Scopes), account.CreatedAt)
	return err
}

// Postgres Email repository implementation
type PostgresEmailRepository struct {
	db *sql.DB
}

func NewPostgresEmailRepository(db *sql.DB) *PostgresEmailRepository {
	return &PostgresEmailRepository{db: db}
}

const emailColumns = `id, user_id, gmail_id, thread_id, from_email, subject, snippet, received_at, is_unread, raw_json, created_at, updated_at`

func scanEmail(row interface{ Scan(...any) error }) (*model.EmailItem, error) {
	email := &model.EmailItem{}
	err := row.Scan(
		&email.ID, &email.UserID, &email.GmailID, &email.ThreadID, &email.From, &email.Subject,
		&email.Snippet, &email.ReceivedAt, &email.IsUnread, &email.RawJSON,
		&email.CreatedAt, &email.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return email, nil
}

func (r *PostgresEmailRepository) Create(ctx context.Context, email *model.EmailItem) error {
	query := `
		INSERT INTO email_items (` + emailColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (gmail_id) DO UPDATE SET
			is_unread = EXCLUDED.is_unread,
			updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query,
		email.ID, email.UserID, email.GmailID, email.ThreadID, email.From, email.Subject,
		email.Snippet, email.ReceivedAt, email.IsUnread, email.RawJSON,
		email.CreatedAt, email.UpdatedAt)
	return err
}

func (r *PostgresEmailRepository) FindByGmailID(ctx context.Context, gmailID string) (*model.EmailItem, error) {
	return scanEmail(r.db.QueryRowContext(ctx, `SELECT `+emailColumns+` FROM email_items WHERE gmail_id = $1`, gmailID))
}

func (r *PostgresEmailRepository) FindUnreadSince(ctx context.Context, userID string, since time.Time, limit int) ([]*model.EmailItem, error) {
	query := `
		SELECT ` + emailColumns + ` FROM email_items
		WHERE user_id = $1 AND is_unread AND received_at >= $2
		ORDER BY received_at DESC
		LIMIT $3`
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.db.QueryContext(ctx, query, userID, since, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []*model.EmailItem
	for rows.Next() {
		email, err := scanEmail(rows)
		if err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (r *PostgresEmailRepository) Update(ctx context.Context, email *model.EmailItem) error {
	query := `
		UPDATE email_items SET thread_id=$1, from_email=$2, subject=$3, snippet=$4, received_at=$5,
		is_unread=$6, raw_json=$7, updated_at=NOW() WHERE gmail_id=$8`
	_, err := r.db.ExecContext(ctx, query,
		email.ThreadID, email.From, email.Subject, email.Snippet, email.ReceivedAt,
		email.IsUnread, email.RawJSON, email.GmailID)
	return err
}

// Postgres calendar event repository implementation
type PostgresCalendarEventRepository struct {
	db *sql.DB
}

func NewPostgresCalendarEventRepository(db *sql.DB) *PostgresCalendarEventRepository {
	return &PostgresCalendarEventRepository{db: db}
}

const eventColumns = `id, user_id, gcal_id, title, start_at, end_at, location, raw_json, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*model.CalendarEvent, error) {
	event := &model.CalendarEvent{}
	err := row.Scan(
		&event.ID, &event.UserID, &event.GcalID, &event.Title, &event.Start, &event.End,
		&event.Location, &event.RawJSON, &event.CreatedAt, &event.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return event, nil
}

func (r *PostgresCalendarEventRepository) Create(ctx context.Context, event *model.CalendarEvent) error {
	query := `
		INSERT INTO calendar_events (` + eventColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (gcal_id) DO UPDATE SET
			title = EXCLUDED.title,
			start_at = EXCLUDED.start_at,
			end_at = EXCLUDED.end_at,
			location = EXCLUDED.location,
			raw_json = EXCLUDED.raw_json,
			updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query,
		event.ID, event.UserID, event.GcalID, event.Title, event.Start, event.End,
		event.Location, event.RawJSON, event.CreatedAt, event.UpdatedAt)
	return err
}

func (r *PostgresCalendarEventRepository) FindByGcalID(ctx context.Context, gcalID string) (*model.CalendarEvent, error) {
	return scanEvent(r.db.QueryRowContext(ctx, `SELECT `+eventColumns+` FROM calendar_events WHERE gcal_id = $1`, gcalID))
}

func (r *PostgresCalendarEventRepository) FindInRange(ctx context.Context, userID string, from, to time.Time) ([]*model.CalendarEvent, error) {
	query := `
		SELECT ` + eventColumns + ` FROM calendar_events
		WHERE user_id = $1 AND start_at < $3 AND end_at > $2
		ORDER BY start_at`
	rows, err := r.db.QueryContext(ctx, query, userID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*model.CalendarEvent
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

func (r *PostgresCalendarEventRepository) Update(ctx context.Context, event *model.CalendarEvent) error {
	query := `
		UPDATE calendar_events SET title=$1, start_at=$2, end_at=$3, location=$4, raw_json=$5, updated_at=NOW()
		WHERE gcal_id=$6`
	_, err := r.db.ExecContext(ctx, query,
		event.Title, event.Start, event.End, event.Location, event.RawJSON, event.GcalID)
	return err
}

func (r *PostgresCalendarEventRepository) DeleteByGcalID(ctx context.Context, gcalID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM calendar_events WHERE gcal_id = $1`, gcalID)
	return err
}

// Postgres doc repository implementation
type PostgresDocRepository struct {
	db *sql.DB
}

func NewPostgresDocRepository(db *sql.DB) *PostgresDocRepository {
	return &PostgresDocRepository{db: db}
}

const docColumns = `id, user_id, file_id, title, source_type, modified_time, extracted_text, raw_json, created_at, updated_at`

func (r *PostgresDocRepository) Create(ctx context.Context, doc *model.DocItem) error {
	query := `
		INSERT INTO doc_items (` + docColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (file_id) DO UPDATE SET
			title = EXCLUDED.title,
			modified_time = EXCLUDED.modified_time,
			extracted_text = EXCLUDED.extracted_text,
			raw_json = EXCLUDED.raw_json,
			updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, query,
		doc.ID, doc.UserID, doc.FileID, doc.Title, doc.SourceType, doc.ModifiedTime,
		doc.ExtractedText, doc.RawJSON, doc.CreatedAt, doc.UpdatedAt)
	return err
}

func (r *PostgresDocRepository) FindByFileID(ctx context.Context, fileID string) (*model.DocItem, error) {
	doc := &model.DocItem{}
	err := r.db.QueryRowContext(ctx, `SELECT `+docColumns+` FROM doc_items WHERE file_id = $1`, fileID).Scan(
		&doc.ID, &doc.UserID, &doc.FileID, &doc.Title, &doc.SourceType, &doc.ModifiedTime,
		&doc.ExtractedText, &doc.RawJSON, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return doc, nil
}

func (r *PostgresDocRepository) Update(ctx context.Context, doc *model.DocItem) error {
	query := `
		UPDATE doc_items SET title=$1, modified_time=$2, extracted_text=$3, raw_json=$4, updated_at=NOW()
		WHERE file_id=$5`
	_, err := r.db.ExecContext(ctx, query,
		doc.Title, doc.ModifiedTime, doc.ExtractedText, doc.RawJSON, doc.FileID)
	return err
}

// Postgres task repository implementation
type PostgresTaskRepository struct {
	db *sql.DB
}

func NewPostgresTaskRepository(db *sql.DB) *PostgresTaskRepository {
	return &PostgresTaskRepository{db: db}
}

func (r *PostgresTaskRepository) Create(ctx context.Context, task *model.Task) error {
	query := `
		INSERT INTO tasks (id, user_id, title, priority, status, est_mins, due_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.ExecContext(ctx, query,
		task.ID, task.UserID, task.Title, task.Priority, task.Status, task.EstMins,
		task.DueAt, task.CreatedAt, task.UpdatedAt)
	return err
}

func (r *PostgresTaskRepository) FindByStatus(ctx context.Context, userID, status string) ([]*model.Task, error) {
	query := `
		SELECT id, user_id, title, priority, status, est_mins, due_at, created_at, updated_at
		FROM tasks WHERE user_id = $1 AND status = $2 ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, userID, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []*model.Task
	for rows.Next() {
		task := &model.Task{}
		var due sql.NullTime
		if err := rows.Scan(
			&task.ID, &task.UserID, &task.Title, &task.Priority, &task.Status, &task.EstMins,
			&due, &task.CreatedAt, &task.UpdatedAt); err != nil {
			return nil, err
		}
		if due.Valid {
			task.DueAt = &due.Time
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Postgres plan repository implementation
type PostgresPlanRepository struct {
	db *sql.DB
}

func NewPostgresPlanRepository(db *sql.DB) *PostgresPlanRepository {
	return &PostgresPlanRepository{db: db}
}

func (r *PostgresPlanRepository) Create(ctx context.Context, plan *model.PlanRecord) error {
	query := `
		INSERT INTO plans (id, user_id, week_start_date, plan_json, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, plan.ID, plan.UserID, plan.WeekStartDate, plan.PlanJSON, plan.CreatedAt)
	return err
}

func (r *PostgresPlanRepository) FindByUserID(ctx context.Context, userID string) ([]*model.PlanRecord, error) {
	query := `
		SELECT id, user_id, week_start_date, plan_json, created_at
		FROM plans WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var plans []*model.PlanRecord
	for rows.Next() {
		plan := &model.PlanRecord{}
		if err := rows.Scan(&plan.ID, &plan.UserID, &plan.WeekStartDate, &plan.PlanJSON, &plan.CreatedAt); err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, rows.Err()
}

// Postgres triage run repository implementation
type PostgresTriageRunRepository struct {
	db *sql.DB
}

func NewPostgresTriageRunRepository(db *sql.DB) *PostgresTriageRunRepository {
	return &PostgresTriageRunRepository{db: db}
}

func (r *PostgresTriageRunRepository) Create(ctx context.Context, run *model.TriageRun) error {
	query := `INSERT INTO triage_runs (id, user_id, result_json, created_at) VALUES ($1, $2, $3, $4)`
	_, err := r.db.ExecContext(ctx, query, run.ID, run.UserID, run.ResultJSON, run.CreatedAt)
	return err
}

func (r *PostgresTriageRunRepository) FindByUserID(ctx context.Context, userID string) ([]*model.TriageRun, error) {
	query := `SELECT id, user_id, result_json, created_at FROM triage_runs WHERE user_id = $1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*model.TriageRun
	for rows.Next() {
		run := &model.TriageRun{}
		if err := rows.Scan(&run.ID, &run.UserID, &run.ResultJSON, &run.CreatedAt); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// Postgres learning material repository implementation
type PostgresLearningMaterialRepository struct {
	db *sql.DB
}

func NewPostgresLearningMaterialRepository(db *sql.DB) *PostgresLearningMaterialRepository {
	return &PostgresLearningMaterialRepository{db: db}
}

func (r *PostgresLearningMaterialRepository) Create(ctx context.Context, material *model.LearningMaterial) error {
	query := `
		INSERT INTO learning_materials (id, user_id, filename, file_type, extracted_text, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := r.db.ExecContext(ctx, query,
		material.ID, material.UserID, material.Filename, material.FileType,
		material.ExtractedText, material.CreatedAt)
	return err
}

func (r *PostgresLearningMaterialRepository) FindByID(ctx context.Context, id string) (*model.LearningMaterial, error) {
	query := `SELECT id, user_id, filename, file_type, extracted_text, created_at FROM learning_materials WHERE id = $1`
	material := &model.LearningMaterial{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&material.ID, &material.UserID, &material.Filename, &material.FileType,
		&material.ExtractedText, &material.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return material, nil
}

// Postgres learning artifact repository implementation
type PostgresLearningArtifactRepository struct {
	db *sql.DB
}

func NewPostgresLearningArtifactRepository(db *sql.DB) *PostgresLearningArtifactRepository {
	return &PostgresLearningArtifactRepository{db: db}
}

func (r *PostgresLearningArtifactRepository) Create(ctx context.Context, artifact *model.LearningArtifact) error {
	query := `
		INSERT INTO learning_artifacts (id, material_id, type, artifact_json, created_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query,
		artifact.ID, artifact.MaterialID, artifact.Type, artifact.ArtifactJSON, artifact.CreatedAt)
	return err
}

func (r *PostgresLearningArtifactRepository) FindLatest(ctx context.Context, materialID, artifactType string) (*model.LearningArtifact, error) {
	query := `
		SELECT id, material_id, type, artifact_json, created_at FROM learning_artifacts
		WHERE material_id = $1 AND type = $2
		ORDER BY created_at DESC LIMIT 1`
	artifact := &model.LearningArtifact{}
	err := r.db.QueryRowContext(ctx, query, materialID, artifactType).Scan(
		&artifact.ID, &artifact.MaterialID, &artifact.Type, &artifact.ArtifactJSON, &artifact.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return artifact, nil
}

// InitializeDatabase creates the necessary tables
func InitializeDatabase(db *sql.DB) error {
	tables := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(255) PRIMARY KEY,
			email VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS google_accounts (
			id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255) UNIQUE NOT NULL REFERENCES users(id),
			google_sub VARCHAR(255) NOT NULL,
			access_token_enc TEXT NOT NULL,
			refresh_token_enc TEXT NOT NULL DEFAULT '',
			expiry TIMESTAMPTZ,
			scopes TEXT[] NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS email_items (
			id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			gmail_id VARCHAR(255) UNIQUE NOT NULL,
			thread_id VARCHAR(255) NOT NULL DEFAULT '',
			from_email TEXT NOT NULL,
			subject TEXT NOT NULL,
			snippet TEXT NOT NULL DEFAULT '',
			received_at TIMESTAMPTZ NOT NULL,
			is_unread BOOLEAN NOT NULL DEFAULT TRUE,
			raw_json TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS email_items_user_received ON email_items (user_id, received_at)`,
		`CREATE TABLE IF NOT EXISTS calendar_events (
			id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			gcal_id VARCHAR(255) UNIQUE NOT NULL,
			title TEXT NOT NULL,
			start_at TIMESTAMPTZ NOT NULL,
			end_at TIMESTAMPTZ NOT NULL,
			location TEXT NOT NULL DEFAULT '',
			raw_json TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS calendar_events_user_start ON calendar_events (user_id, start_at)`,
		`CREATE TABLE IF NOT EXISTS doc_items (
			id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			file_id VARCHAR(255) UNIQUE NOT NULL,
			title TEXT NOT NULL,
			source_type VARCHAR(32) NOT NULL,
			modified_time TIMESTAMPTZ,
			extracted_text TEXT NOT NULL DEFAULT '',
			raw_json TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS tasks (
			id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			title TEXT NOT NULL,
			priority VARCHAR(16) NOT NULL,
			status VARCHAR(16) NOT NULL,
			est_mins INTEGER NOT NULL,
			due_at TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS plans (
			id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			week_start_date TIMESTAMPTZ NOT NULL,
			plan_json TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS triage_runs (
			id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			result_json TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS learning_materials (
			id VARCHAR(255) PRIMARY KEY,
			user_id VARCHAR(255) NOT NULL,
			filename TEXT NOT NULL,
			file_type VARCHAR(32) NOT NULL,
			extracted_text TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS learning_artifacts (
			id VARCHAR(255) PRIMARY KEY,
			material_id VARCHAR(255) NOT NULL REFERENCES learning_materials(id),
			type VARCHAR(16) NOT NULL,
			artifact_json TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, table := range tables {
		_, err := db.Exec(table)
		if err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}
