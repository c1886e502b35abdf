package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"lifeadmin/internal/core"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// SQLiteRepository persists the finance snapshot document and the workout
// and course collections.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// --- Finance snapshot ---

// GetOrCreateSnapshot returns the most-recently-updated snapshot row,
// lazily inserting a zeroed one when the table is empty. Callers must
// re-fetch per request; no reference is cached across requests.
func (r *SQLiteRepository) GetOrCreateSnapshot(ctx context.Context) (*core.FinanceSnapshot, error) {
	const query = `SELECT id, current_balance, monthly_income, monthly_expenses, savings, investments,
		expenses, transactions, budgets, updated_at
		FROM finance_snapshots ORDER BY updated_at DESC, id DESC LIMIT 1`

	var (
		snap                             core.FinanceSnapshot
		expensesJSON, txJSON, budgetJSON []byte
	)
	err := r.db.QueryRowContext(ctx, query).Scan(
		&snap.ID,
		&snap.Summary.CurrentBalance,
		&snap.Summary.MonthlyIncome,
		&snap.Summary.MonthlyExpenses,
		&snap.Summary.Savings,
		&snap.Summary.Investments,
		&expensesJSON,
		&txJSON,
		&budgetJSON,
		&snap.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return r.createSnapshot(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	if err := json.Unmarshal(expensesJSON, &snap.Expenses); err != nil {
		return nil, fmt.Errorf("decode snapshot expenses: %w", err)
	}
	if err := json.Unmarshal(txJSON, &snap.Transactions); err != nil {
		return nil, fmt.Errorf("decode snapshot transactions: %w", err)
	}
	if err := json.Unmarshal(budgetJSON, &snap.Budgets); err != nil {
		return nil, fmt.Errorf("decode snapshot budgets: %w", err)
	}
	return &snap, nil
}

func (r *SQLiteRepository) createSnapshot(ctx context.Context) (*core.FinanceSnapshot, error) {
	snap := core.NewSnapshot()
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO finance_snapshots (expenses, transactions, budgets, updated_at)
		VALUES ('[]', '[]', '[]', ?)`, snap.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create snapshot: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("snapshot insert id: %w", err)
	}
	snap.ID = id
	slog.InfoContext(ctx, "Created initial finance snapshot", "snapshot_id", id)
	return snap, nil
}

// SaveSnapshot writes the whole document back in a single UPDATE, so the
// mutation is atomic at the row level. There is no version check: between
// the read and this write another writer can interleave (last writer wins,
// accepted for a single-user deployment).
func (r *SQLiteRepository) SaveSnapshot(ctx context.Context, snap *core.FinanceSnapshot) error {
	expensesJSON, err := json.Marshal(snap.Expenses)
	if err != nil {
		return fmt.Errorf("encode snapshot expenses: %w", err)
	}
	txJSON, err := json.Marshal(snap.Transactions)
	if err != nil {
		return fmt.Errorf("encode snapshot transactions: %w", err)
	}
	budgetJSON, err := json.Marshal(snap.Budgets)
	if err != nil {
		return fmt.Errorf("encode snapshot budgets: %w", err)
	}

	snap.UpdatedAt = time.Now()
	_, err = r.db.ExecContext(ctx,
		`UPDATE finance_snapshots SET current_balance = ?, monthly_income = ?, monthly_expenses = ?,
		savings = ?, investments = ?, expenses = ?, transactions = ?, budgets = ?, updated_at = ?
		WHERE id = ?`,
		snap.Summary.CurrentBalance,
		snap.Summary.MonthlyIncome,
		snap.Summary.MonthlyExpenses,
		snap.Summary.Savings,
		snap.Summary.Investments,
		string(expensesJSON),
		string(txJSON),
		string(budgetJSON),
		snap.UpdatedAt,
		snap.ID,
	)
	if err != nil {
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}

// --- Workouts ---

func (r *SQLiteRepository) CreateWorkout(ctx context.Context, w *core.Workout) error {
	w.ID = uuid.NewString()
	w.CreatedAt = time.Now()

	var date any
	if !w.Date.IsZero() {
		date = w.Date
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO workouts (id, name, type, duration_minutes, date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		w.ID, w.Name, w.Type, w.DurationMinutes, date, w.CreatedAt)
	if err != nil {
		return fmt.Errorf("create workout: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateWorkout(ctx context.Context, w *core.Workout) error {
	var date any
	if !w.Date.IsZero() {
		date = w.Date
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE workouts SET name = ?, type = ?, duration_minutes = ?, date = ? WHERE id = ?`,
		w.Name, w.Type, w.DurationMinutes, date, w.ID)
	if err != nil {
		return fmt.Errorf("update workout: %w", err)
	}
	return requireRow(res, "workout", w.ID)
}

func (r *SQLiteRepository) DeleteWorkout(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM workouts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	return requireRow(res, "workout", id)
}

func (r *SQLiteRepository) ListWorkouts(ctx context.Context, limit, offset int) ([]core.Workout, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, duration_minutes, date, created_at
		FROM workouts ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	defer rows.Close()
	return scanWorkouts(rows)
}

func (r *SQLiteRepository) CountWorkouts(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM workouts`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count workouts: %w", err)
	}
	return n, nil
}

// CountWorkoutsBetween matches either date convention: the record's own
// date field or its creation time.
func (r *SQLiteRepository) CountWorkoutsBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM workouts
		WHERE (created_at BETWEEN ? AND ?) OR (date IS NOT NULL AND date BETWEEN ? AND ?)`,
		from, to, from, to).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count workouts between: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) RecentWorkouts(ctx context.Context, limit int) ([]core.Workout, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, type, duration_minutes, date, created_at
		FROM workouts ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent workouts: %w", err)
	}
	defer rows.Close()
	return scanWorkouts(rows)
}

func scanWorkouts(rows *sql.Rows) ([]core.Workout, error) {
	var workouts []core.Workout
	for rows.Next() {
		var (
			w    core.Workout
			date sql.NullTime
		)
		if err := rows.Scan(&w.ID, &w.Name, &w.Type, &w.DurationMinutes, &date, &w.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan workout: %w", err)
		}
		if date.Valid {
			w.Date = date.Time
		}
		workouts = append(workouts, w)
	}
	return workouts, rows.Err()
}

// --- Courses ---

func (r *SQLiteRepository) CreateCourse(ctx context.Context, c *core.Course) error {
	c.ID = uuid.NewString()
	now := time.Now()
	c.CreatedAt = now
	c.UpdatedAt = now

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO courses (id, title, platform, status, completed, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Title, c.Platform, c.Status, c.Completed, nullableTime(c.CompletedAt), c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create course: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateCourse(ctx context.Context, c *core.Course) error {
	c.UpdatedAt = time.Now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE courses SET title = ?, platform = ?, status = ?, completed = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`,
		c.Title, c.Platform, c.Status, c.Completed, nullableTime(c.CompletedAt), c.UpdatedAt, c.ID)
	if err != nil {
		return fmt.Errorf("update course: %w", err)
	}
	return requireRow(res, "course", c.ID)
}

func (r *SQLiteRepository) DeleteCourse(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete course: %w", err)
	}
	return requireRow(res, "course", id)
}

func (r *SQLiteRepository) ListCourses(ctx context.Context, limit, offset int) ([]core.Course, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, platform, status, completed, completed_at, created_at, updated_at
		FROM courses ORDER BY created_at DESC LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()
	return scanCourses(rows)
}

// CountCompletedCourses honors both completion conventions via OR.
func (r *SQLiteRepository) CountCompletedCourses(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM courses WHERE status = ? OR completed = 1`,
		core.CourseCompleted).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completed courses: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) CountCompletedCoursesBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM courses
		WHERE (status = ? OR completed = 1)
		AND COALESCE(completed_at, updated_at) BETWEEN ? AND ?`,
		core.CourseCompleted, from, to).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count completed courses between: %w", err)
	}
	return n, nil
}

func (r *SQLiteRepository) RecentCompletedCourses(ctx context.Context, limit int) ([]core.Course, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, title, platform, status, completed, completed_at, created_at, updated_at
		FROM courses WHERE status = ? OR completed = 1
		ORDER BY COALESCE(completed_at, updated_at) DESC LIMIT ?`,
		core.CourseCompleted, limit)
	if err != nil {
		return nil, fmt.Errorf("recent completed courses: %w", err)
	}
	defer rows.Close()
	return scanCourses(rows)
}

func scanCourses(rows *sql.Rows) ([]core.Course, error) {
	var courses []core.Course
	for rows.Next() {
		var (
			c           core.Course
			completedAt sql.NullTime
		)
		if err := rows.Scan(&c.ID, &c.Title, &c.Platform, &c.Status, &c.Completed, &completedAt, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan course: %w", err)
		}
		if completedAt.Valid {
			c.CompletedAt = completedAt.Time
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

// --- helpers ---

// NotFoundError reports a missing row for update/delete by id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

func requireRow(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return &NotFoundError{Kind: kind, ID: id}
	}
	return nil
}

func nullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t
}
