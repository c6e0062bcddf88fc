// Package sqlite persists commstore collections in a single on-device SQLite
// database. One Store implements both commstore.Repository and
// commstore.BlobRepository, so the entity and blob collections share one
// engine and one file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/talkboard/commstore/pkg/commstore"
)

const schema = `
CREATE TABLE IF NOT EXISTS emergencies (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	icon        TEXT NOT NULL DEFAULT '',
	image       TEXT NOT NULL DEFAULT '',
	created_at  TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS symptoms (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	emergency_id INTEGER NOT NULL REFERENCES emergencies(id) ON DELETE CASCADE,
	name         TEXT NOT NULL,
	description  TEXT NOT NULL DEFAULT '',
	image        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_symptoms_emergency ON symptoms(emergency_id);

CREATE TABLE IF NOT EXISTS foods (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	name        TEXT NOT NULL,
	category    TEXT NOT NULL,
	is_favorite INTEGER NOT NULL DEFAULT 0,
	image       TEXT NOT NULL DEFAULT '',
	usage_count INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_foods_category ON foods(category);
CREATE INDEX IF NOT EXISTS idx_foods_favorite ON foods(is_favorite);

CREATE TABLE IF NOT EXISTS contacts (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	name         TEXT NOT NULL,
	relationship TEXT NOT NULL,
	gender       TEXT NOT NULL,
	phone_number TEXT NOT NULL DEFAULT '',
	image        TEXT NOT NULL DEFAULT '',
	usage_count  INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMP NOT NULL,
	updated_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_contacts_relationship ON contacts(relationship);

CREATE TABLE IF NOT EXISTS phrases (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	text        TEXT NOT NULL,
	category    TEXT NOT NULL,
	image       TEXT NOT NULL DEFAULT '',
	usage_count INTEGER NOT NULL DEFAULT 0,
	created_at  TIMESTAMP NOT NULL,
	updated_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_phrases_category ON phrases(category);

CREATE TABLE IF NOT EXISTS orders (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	order_number TEXT NOT NULL,
	status       TEXT NOT NULL,
	total_amount REAL NOT NULL DEFAULT 0,
	is_urgent    INTEGER NOT NULL DEFAULT 0,
	order_date   TIMESTAMP NOT NULL,
	created_at   TIMESTAMP NOT NULL,
	updated_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_date ON orders(order_date);

CREATE TABLE IF NOT EXISTS activities (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	name         TEXT NOT NULL,
	category     TEXT NOT NULL,
	is_recurring INTEGER NOT NULL DEFAULT 0,
	frequency    TEXT NOT NULL DEFAULT '',
	is_active    INTEGER NOT NULL DEFAULT 0,
	usage_count  INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_activities_category ON activities(category);
CREATE INDEX IF NOT EXISTS idx_activities_active ON activities(is_active);

CREATE TABLE IF NOT EXISTS user_images (
	id            TEXT PRIMARY KEY,
	type          TEXT NOT NULL,
	payload       TEXT NOT NULL,
	original_name TEXT NOT NULL DEFAULT '',
	size_bytes    INTEGER NOT NULL DEFAULT 0,
	upload_date   TIMESTAMP NOT NULL,
	body_part_id  INTEGER,
	symptom_id    INTEGER,
	contact_id    INTEGER,
	food_id       INTEGER,
	phrase_id     INTEGER
);
CREATE INDEX IF NOT EXISTS idx_user_images_type ON user_images(type);
CREATE INDEX IF NOT EXISTS idx_user_images_body_part ON user_images(body_part_id);
CREATE INDEX IF NOT EXISTS idx_user_images_symptom ON user_images(symptom_id);
CREATE INDEX IF NOT EXISTS idx_user_images_contact ON user_images(contact_id);
CREATE INDEX IF NOT EXISTS idx_user_images_food ON user_images(food_id);
CREATE INDEX IF NOT EXISTS idx_user_images_phrase ON user_images(phrase_id);
CREATE INDEX IF NOT EXISTS idx_user_images_upload_date ON user_images(upload_date);
`

// Store is a SQLite implementation of the commstore repositories.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and bootstraps the schema.
// It is idempotent: reopening an existing database leaves its data alone.
// A failure to open or initialize wraps commstore.ErrStorageUnavailable.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", commstore.ErrStorageUnavailable, err)
	}
	// Single-writer by construction; one connection avoids SQLITE_BUSY
	// between the pool's writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", commstore.ErrStorageUnavailable, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to initialize schema: %v", commstore.ErrStorageUnavailable, err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// mapErr translates driver errors into the commstore taxonomy.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return commstore.ErrNotFound
	}
	if strings.Contains(err.Error(), "database or disk is full") {
		return fmt.Errorf("%w: %v", commstore.ErrQuotaExceeded, err)
	}
	return err
}

func nullable(p *int64) any {
	if p == nil {
		return nil
	}
	return *p
}

// Emergency operations

func (s *Store) CreateEmergency(ctx context.Context, e *commstore.Emergency) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO emergencies (name, description, icon, image, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.Name, e.Description, e.Icon, e.Image, e.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return mapErr(err)
	}
	e.ID = id

	for i := range e.Symptoms {
		if err := insertSymptom(ctx, tx, id, &e.Symptoms[i]); err != nil {
			return mapErr(err)
		}
	}
	return mapErr(tx.Commit())
}

func insertSymptom(ctx context.Context, tx *sql.Tx, emergencyID int64, sym *commstore.Symptom) error {
	if sym.ID != 0 {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO symptoms (id, emergency_id, name, description, image) VALUES (?, ?, ?, ?, ?)`,
			sym.ID, emergencyID, sym.Name, sym.Description, sym.Image)
		return err
	}
	res, err := tx.ExecContext(ctx,
		`INSERT INTO symptoms (emergency_id, name, description, image) VALUES (?, ?, ?, ?)`,
		emergencyID, sym.Name, sym.Description, sym.Image)
	if err != nil {
		return err
	}
	sym.ID, err = res.LastInsertId()
	return err
}

func (s *Store) GetEmergency(ctx context.Context, id int64) (*commstore.Emergency, error) {
	e := &commstore.Emergency{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, description, icon, image, created_at FROM emergencies WHERE id = ?`, id).
		Scan(&e.ID, &e.Name, &e.Description, &e.Icon, &e.Image, &e.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	if e.Symptoms, err = s.symptomsFor(ctx, e.ID); err != nil {
		return nil, mapErr(err)
	}
	return e, nil
}

func (s *Store) symptomsFor(ctx context.Context, emergencyID int64) ([]commstore.Symptom, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, image FROM symptoms WHERE emergency_id = ? ORDER BY id`, emergencyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var symptoms []commstore.Symptom
	for rows.Next() {
		var sym commstore.Symptom
		if err := rows.Scan(&sym.ID, &sym.Name, &sym.Description, &sym.Image); err != nil {
			return nil, err
		}
		symptoms = append(symptoms, sym)
	}
	return symptoms, rows.Err()
}

func (s *Store) UpdateEmergency(ctx context.Context, e *commstore.Emergency) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE emergencies SET name = ?, description = ?, icon = ?, image = ? WHERE id = ?`,
		e.Name, e.Description, e.Icon, e.Image, e.ID)
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapErr(err)
	}
	if n == 0 {
		return commstore.ErrNotFound
	}

	// Symptoms are replaced wholesale; the embedded list is the source of truth.
	if _, err := tx.ExecContext(ctx, `DELETE FROM symptoms WHERE emergency_id = ?`, e.ID); err != nil {
		return mapErr(err)
	}
	for i := range e.Symptoms {
		if err := insertSymptom(ctx, tx, e.ID, &e.Symptoms[i]); err != nil {
			return mapErr(err)
		}
	}
	return mapErr(tx.Commit())
}

func (s *Store) DeleteEmergency(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM emergencies WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapErr(err)
	}
	if n == 0 {
		return commstore.ErrNotFound
	}
	return nil
}

func (s *Store) ListEmergencies(ctx context.Context) ([]*commstore.Emergency, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, icon, image, created_at FROM emergencies ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	result := []*commstore.Emergency{}
	for rows.Next() {
		e := &commstore.Emergency{}
		if err := rows.Scan(&e.ID, &e.Name, &e.Description, &e.Icon, &e.Image, &e.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, mapErr(err)
	}
	for _, e := range result {
		if e.Symptoms, err = s.symptomsFor(ctx, e.ID); err != nil {
			return nil, mapErr(err)
		}
	}
	return result, nil
}

// Food operations

func (s *Store) CreateFood(ctx context.Context, f *commstore.Food) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO foods (name, category, is_favorite, image, usage_count, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		f.Name, string(f.Category), f.IsFavorite, f.Image, f.UsageCount, f.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	f.ID, err = res.LastInsertId()
	return mapErr(err)
}

func (s *Store) GetFood(ctx context.Context, id int64) (*commstore.Food, error) {
	f := &commstore.Food{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, category, is_favorite, image, usage_count, created_at FROM foods WHERE id = ?`, id).
		Scan(&f.ID, &f.Name, &f.Category, &f.IsFavorite, &f.Image, &f.UsageCount, &f.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return f, nil
}

func (s *Store) UpdateFood(ctx context.Context, f *commstore.Food) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE foods SET name = ?, category = ?, is_favorite = ?, image = ?, usage_count = ? WHERE id = ?`,
		f.Name, string(f.Category), f.IsFavorite, f.Image, f.UsageCount, f.ID)
	if err != nil {
		return mapErr(err)
	}
	return affected(res)
}

func (s *Store) DeleteFood(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM foods WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}
	return affected(res)
}

const foodColumns = `id, name, category, is_favorite, image, usage_count, created_at`

func (s *Store) scanFoods(rows *sql.Rows) ([]*commstore.Food, error) {
	defer rows.Close()
	result := []*commstore.Food{}
	for rows.Next() {
		f := &commstore.Food{}
		if err := rows.Scan(&f.ID, &f.Name, &f.Category, &f.IsFavorite, &f.Image, &f.UsageCount, &f.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		result = append(result, f)
	}
	return result, mapErr(rows.Err())
}

func (s *Store) ListFoods(ctx context.Context) ([]*commstore.Food, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+foodColumns+` FROM foods ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	return s.scanFoods(rows)
}

func (s *Store) ListFoodsByCategory(ctx context.Context, category commstore.FoodCategory) ([]*commstore.Food, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+foodColumns+` FROM foods WHERE category = ? ORDER BY created_at DESC, id DESC`, string(category))
	if err != nil {
		return nil, mapErr(err)
	}
	return s.scanFoods(rows)
}

func (s *Store) ListFavoriteFoods(ctx context.Context) ([]*commstore.Food, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+foodColumns+` FROM foods WHERE is_favorite = 1 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	return s.scanFoods(rows)
}

// Contact operations

func (s *Store) CreateContact(ctx context.Context, c *commstore.Contact) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO contacts (name, relationship, gender, phone_number, image, usage_count, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, string(c.Relationship), string(c.Gender), c.PhoneNumber, c.Image, c.UsageCount, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	c.ID, err = res.LastInsertId()
	return mapErr(err)
}

func (s *Store) GetContact(ctx context.Context, id int64) (*commstore.Contact, error) {
	c := &commstore.Contact{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, relationship, gender, phone_number, image, usage_count, created_at, updated_at
		 FROM contacts WHERE id = ?`, id).
		Scan(&c.ID, &c.Name, &c.Relationship, &c.Gender, &c.PhoneNumber, &c.Image, &c.UsageCount, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (s *Store) UpdateContact(ctx context.Context, c *commstore.Contact) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE contacts SET name = ?, relationship = ?, gender = ?, phone_number = ?, image = ?, usage_count = ?, updated_at = ?
		 WHERE id = ?`,
		c.Name, string(c.Relationship), string(c.Gender), c.PhoneNumber, c.Image, c.UsageCount, c.UpdatedAt, c.ID)
	if err != nil {
		return mapErr(err)
	}
	return affected(res)
}

func (s *Store) DeleteContact(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM contacts WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}
	return affected(res)
}

const contactColumns = `id, name, relationship, gender, phone_number, image, usage_count, created_at, updated_at`

func (s *Store) scanContacts(rows *sql.Rows) ([]*commstore.Contact, error) {
	defer rows.Close()
	result := []*commstore.Contact{}
	for rows.Next() {
		c := &commstore.Contact{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Relationship, &c.Gender, &c.PhoneNumber, &c.Image, &c.UsageCount, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, mapErr(err)
		}
		result = append(result, c)
	}
	return result, mapErr(rows.Err())
}

func (s *Store) ListContacts(ctx context.Context) ([]*commstore.Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts ORDER BY usage_count DESC, id ASC`)
	if err != nil {
		return nil, mapErr(err)
	}
	return s.scanContacts(rows)
}

func (s *Store) ListContactsByRelationship(ctx context.Context, rel commstore.Relationship) ([]*commstore.Contact, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+contactColumns+` FROM contacts WHERE relationship = ? ORDER BY usage_count DESC, id ASC`, string(rel))
	if err != nil {
		return nil, mapErr(err)
	}
	return s.scanContacts(rows)
}

// Phrase operations

func (s *Store) CreatePhrase(ctx context.Context, p *commstore.Phrase) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO phrases (text, category, image, usage_count, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		p.Text, string(p.Category), p.Image, p.UsageCount, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	p.ID, err = res.LastInsertId()
	return mapErr(err)
}

func (s *Store) GetPhrase(ctx context.Context, id int64) (*commstore.Phrase, error) {
	p := &commstore.Phrase{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, text, category, image, usage_count, created_at, updated_at FROM phrases WHERE id = ?`, id).
		Scan(&p.ID, &p.Text, &p.Category, &p.Image, &p.UsageCount, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (s *Store) UpdatePhrase(ctx context.Context, p *commstore.Phrase) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE phrases SET text = ?, category = ?, image = ?, usage_count = ?, updated_at = ? WHERE id = ?`,
		p.Text, string(p.Category), p.Image, p.UsageCount, p.UpdatedAt, p.ID)
	if err != nil {
		return mapErr(err)
	}
	return affected(res)
}

func (s *Store) DeletePhrase(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM phrases WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}
	return affected(res)
}

const phraseColumns = `id, text, category, image, usage_count, created_at, updated_at`

func (s *Store) scanPhrases(rows *sql.Rows) ([]*commstore.Phrase, error) {
	defer rows.Close()
	result := []*commstore.Phrase{}
	for rows.Next() {
		p := &commstore.Phrase{}
		if err := rows.Scan(&p.ID, &p.Text, &p.Category, &p.Image, &p.UsageCount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, mapErr(err)
		}
		result = append(result, p)
	}
	return result, mapErr(rows.Err())
}

func (s *Store) ListPhrases(ctx context.Context) ([]*commstore.Phrase, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+phraseColumns+` FROM phrases ORDER BY usage_count DESC, id ASC`)
	if err != nil {
		return nil, mapErr(err)
	}
	return s.scanPhrases(rows)
}

func (s *Store) ListPhrasesByCategory(ctx context.Context, category commstore.PhraseCategory) ([]*commstore.Phrase, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+phraseColumns+` FROM phrases WHERE category = ? ORDER BY usage_count DESC, id ASC`, string(category))
	if err != nil {
		return nil, mapErr(err)
	}
	return s.scanPhrases(rows)
}

// Order operations

func (s *Store) CreateOrder(ctx context.Context, o *commstore.Order) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO orders (order_number, status, total_amount, is_urgent, order_date, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		o.OrderNumber, string(o.Status), o.TotalAmount, o.IsUrgent, o.OrderDate, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return mapErr(err)
	}
	o.ID, err = res.LastInsertId()
	return mapErr(err)
}

func (s *Store) GetOrder(ctx context.Context, id int64) (*commstore.Order, error) {
	o := &commstore.Order{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, order_number, status, total_amount, is_urgent, order_date, created_at, updated_at
		 FROM orders WHERE id = ?`, id).
		Scan(&o.ID, &o.OrderNumber, &o.Status, &o.TotalAmount, &o.IsUrgent, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return o, nil
}

func (s *Store) UpdateOrder(ctx context.Context, o *commstore.Order) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET order_number = ?, status = ?, total_amount = ?, is_urgent = ?, order_date = ?, updated_at = ?
		 WHERE id = ?`,
		o.OrderNumber, string(o.Status), o.TotalAmount, o.IsUrgent, o.OrderDate, o.UpdatedAt, o.ID)
	if err != nil {
		return mapErr(err)
	}
	return affected(res)
}

func (s *Store) DeleteOrder(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}
	return affected(res)
}

func (s *Store) ListOrders(ctx context.Context) ([]*commstore.Order, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, order_number, status, total_amount, is_urgent, order_date, created_at, updated_at
		 FROM orders ORDER BY order_date DESC, id DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	result := []*commstore.Order{}
	for rows.Next() {
		o := &commstore.Order{}
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.Status, &o.TotalAmount, &o.IsUrgent, &o.OrderDate, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, mapErr(err)
		}
		result = append(result, o)
	}
	return result, mapErr(rows.Err())
}

// Activity operations

func (s *Store) CreateActivity(ctx context.Context, a *commstore.Activity) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO activities (name, category, is_recurring, frequency, is_active, usage_count, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.Name, string(a.Category), a.IsRecurring, string(a.Frequency), a.IsActive, a.UsageCount, a.CreatedAt)
	if err != nil {
		return mapErr(err)
	}
	a.ID, err = res.LastInsertId()
	return mapErr(err)
}

func (s *Store) GetActivity(ctx context.Context, id int64) (*commstore.Activity, error) {
	a := &commstore.Activity{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, category, is_recurring, frequency, is_active, usage_count, created_at
		 FROM activities WHERE id = ?`, id).
		Scan(&a.ID, &a.Name, &a.Category, &a.IsRecurring, &a.Frequency, &a.IsActive, &a.UsageCount, &a.CreatedAt)
	if err != nil {
		return nil, mapErr(err)
	}
	return a, nil
}

func (s *Store) UpdateActivity(ctx context.Context, a *commstore.Activity) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE activities SET name = ?, category = ?, is_recurring = ?, frequency = ?, is_active = ?, usage_count = ?
		 WHERE id = ?`,
		a.Name, string(a.Category), a.IsRecurring, string(a.Frequency), a.IsActive, a.UsageCount, a.ID)
	if err != nil {
		return mapErr(err)
	}
	return affected(res)
}

func (s *Store) DeleteActivity(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM activities WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}
	return affected(res)
}

const activityColumns = `id, name, category, is_recurring, frequency, is_active, usage_count, created_at`

func (s *Store) scanActivities(rows *sql.Rows) ([]*commstore.Activity, error) {
	defer rows.Close()
	result := []*commstore.Activity{}
	for rows.Next() {
		a := &commstore.Activity{}
		if err := rows.Scan(&a.ID, &a.Name, &a.Category, &a.IsRecurring, &a.Frequency, &a.IsActive, &a.UsageCount, &a.CreatedAt); err != nil {
			return nil, mapErr(err)
		}
		result = append(result, a)
	}
	return result, mapErr(rows.Err())
}

func (s *Store) ListActivities(ctx context.Context) ([]*commstore.Activity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+activityColumns+` FROM activities ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	return s.scanActivities(rows)
}

func (s *Store) ListActivitiesByCategory(ctx context.Context, category commstore.ActivityCategory) ([]*commstore.Activity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE category = ? ORDER BY created_at DESC, id DESC`, string(category))
	if err != nil {
		return nil, mapErr(err)
	}
	return s.scanActivities(rows)
}

func (s *Store) ListActiveActivities(ctx context.Context) ([]*commstore.Activity, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+activityColumns+` FROM activities WHERE is_active = 1 ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	return s.scanActivities(rows)
}

// Bulk operations

// ImportSnapshot inserts every record inside one transaction; any failure
// rolls the whole import back. Records keep their snapshot ids.
func (s *Store) ImportSnapshot(ctx context.Context, snap *commstore.Snapshot) error {
	if err := checkSnapshot(snap); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback()

	for _, e := range snap.Emergencies {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO emergencies (id, name, description, icon, image, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
			e.ID, e.Name, e.Description, e.Icon, e.Image, e.CreatedAt); err != nil {
			return mapErr(err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM symptoms WHERE emergency_id = ?`, e.ID); err != nil {
			return mapErr(err)
		}
		for i := range e.Symptoms {
			if err := insertSymptom(ctx, tx, e.ID, &e.Symptoms[i]); err != nil {
				return mapErr(err)
			}
		}
	}
	for _, f := range snap.Foods {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO foods (id, name, category, is_favorite, image, usage_count, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			f.ID, f.Name, string(f.Category), f.IsFavorite, f.Image, f.UsageCount, f.CreatedAt); err != nil {
			return mapErr(err)
		}
	}
	for _, c := range snap.Contacts {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO contacts (id, name, relationship, gender, phone_number, image, usage_count, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, c.Name, string(c.Relationship), string(c.Gender), c.PhoneNumber, c.Image, c.UsageCount, c.CreatedAt, c.UpdatedAt); err != nil {
			return mapErr(err)
		}
	}
	for _, p := range snap.Phrases {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO phrases (id, text, category, image, usage_count, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			p.ID, p.Text, string(p.Category), p.Image, p.UsageCount, p.CreatedAt, p.UpdatedAt); err != nil {
			return mapErr(err)
		}
	}
	for _, o := range snap.Orders {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO orders (id, order_number, status, total_amount, is_urgent, order_date, created_at, updated_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			o.ID, o.OrderNumber, string(o.Status), o.TotalAmount, o.IsUrgent, o.OrderDate, o.CreatedAt, o.UpdatedAt); err != nil {
			return mapErr(err)
		}
	}
	for _, a := range snap.Activities {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO activities (id, name, category, is_recurring, frequency, is_active, usage_count, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			a.ID, a.Name, string(a.Category), a.IsRecurring, string(a.Frequency), a.IsActive, a.UsageCount, a.CreatedAt); err != nil {
			return mapErr(err)
		}
	}
	return mapErr(tx.Commit())
}

func checkSnapshot(snap *commstore.Snapshot) error {
	for _, e := range snap.Emergencies {
		if e == nil {
			return fmt.Errorf("emergencies: nil record in snapshot")
		}
	}
	for _, f := range snap.Foods {
		if f == nil {
			return fmt.Errorf("foods: nil record in snapshot")
		}
	}
	for _, c := range snap.Contacts {
		if c == nil {
			return fmt.Errorf("contacts: nil record in snapshot")
		}
	}
	for _, p := range snap.Phrases {
		if p == nil {
			return fmt.Errorf("phrases: nil record in snapshot")
		}
	}
	for _, o := range snap.Orders {
		if o == nil {
			return fmt.Errorf("orders: nil record in snapshot")
		}
	}
	for _, a := range snap.Activities {
		if a == nil {
			return fmt.Errorf("activities: nil record in snapshot")
		}
	}
	return nil
}

func (s *Store) ClearEntities(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback()

	for _, table := range []string{"symptoms", "emergencies", "foods", "contacts", "phrases", "orders", "activities"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM `+table); err != nil {
			return mapErr(err)
		}
	}
	// Restart the id sequences so a reset store numbers from 1 again.
	if _, err := tx.ExecContext(ctx, `DELETE FROM sqlite_sequence`); err != nil && !strings.Contains(err.Error(), "no such table") {
		return mapErr(err)
	}
	return mapErr(tx.Commit())
}

func (s *Store) CountEntities(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM emergencies) + (SELECT COUNT(*) FROM foods) +
		        (SELECT COUNT(*) FROM contacts) + (SELECT COUNT(*) FROM phrases) +
		        (SELECT COUNT(*) FROM orders) + (SELECT COUNT(*) FROM activities)`).Scan(&n)
	return n, mapErr(err)
}

// Blob operations

func (s *Store) PutImage(ctx context.Context, rec *commstore.ImageRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO user_images (id, type, payload, original_name, size_bytes, upload_date,
		                          body_part_id, symptom_id, contact_id, food_id, phrase_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			type = excluded.type,
			payload = excluded.payload,
			original_name = excluded.original_name,
			size_bytes = excluded.size_bytes,
			upload_date = excluded.upload_date,
			body_part_id = excluded.body_part_id,
			symptom_id = excluded.symptom_id,
			contact_id = excluded.contact_id,
			food_id = excluded.food_id,
			phrase_id = excluded.phrase_id`,
		rec.ID, string(rec.Type), rec.Payload, rec.OriginalName, rec.SizeBytes, rec.UploadDate,
		nullable(rec.BodyPartID), nullable(rec.SymptomID), nullable(rec.ContactID), nullable(rec.FoodID), nullable(rec.PhraseID))
	return mapErr(err)
}

const imageColumns = `id, type, payload, original_name, size_bytes, upload_date, body_part_id, symptom_id, contact_id, food_id, phrase_id`

func scanImage(scan func(...any) error) (*commstore.ImageRecord, error) {
	rec := &commstore.ImageRecord{}
	var bodyPart, symptom, contact, food, phrase sql.NullInt64
	if err := scan(&rec.ID, &rec.Type, &rec.Payload, &rec.OriginalName, &rec.SizeBytes, &rec.UploadDate,
		&bodyPart, &symptom, &contact, &food, &phrase); err != nil {
		return nil, err
	}
	assign := func(n sql.NullInt64) *int64 {
		if !n.Valid {
			return nil
		}
		v := n.Int64
		return &v
	}
	rec.BodyPartID = assign(bodyPart)
	rec.SymptomID = assign(symptom)
	rec.ContactID = assign(contact)
	rec.FoodID = assign(food)
	rec.PhraseID = assign(phrase)
	return rec, nil
}

func (s *Store) GetImage(ctx context.Context, id string) (*commstore.ImageRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+imageColumns+` FROM user_images WHERE id = ?`, id)
	rec, err := scanImage(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, mapErr(err)
	}
	return rec, nil
}

func ownerColumn(t commstore.OwnerType) string {
	switch t {
	case commstore.OwnerBodyPart:
		return "body_part_id"
	case commstore.OwnerSymptom:
		return "symptom_id"
	case commstore.OwnerContact:
		return "contact_id"
	case commstore.OwnerFood:
		return "food_id"
	case commstore.OwnerPhrase:
		return "phrase_id"
	}
	return ""
}

func (s *Store) ListImagesByOwner(ctx context.Context, ownerType commstore.OwnerType, ownerID int64) ([]*commstore.ImageRecord, error) {
	col := ownerColumn(ownerType)
	if col == "" {
		return nil, &commstore.ValidationError{Field: "type", Reason: fmt.Sprintf("unknown owner type %q", ownerType)}
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+imageColumns+` FROM user_images WHERE `+col+` = ? ORDER BY upload_date DESC`, ownerID)
	if err != nil {
		return nil, mapErr(err)
	}
	return s.scanImages(rows)
}

func (s *Store) ListImages(ctx context.Context) ([]*commstore.ImageRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+imageColumns+` FROM user_images ORDER BY upload_date DESC`)
	if err != nil {
		return nil, mapErr(err)
	}
	return s.scanImages(rows)
}

func (s *Store) scanImages(rows *sql.Rows) ([]*commstore.ImageRecord, error) {
	defer rows.Close()
	result := []*commstore.ImageRecord{}
	for rows.Next() {
		rec, err := scanImage(rows.Scan)
		if err != nil {
			return nil, mapErr(err)
		}
		result = append(result, rec)
	}
	return result, mapErr(rows.Err())
}

func (s *Store) DeleteImage(ctx context.Context, id string) error {
	// Missing ids are a no-op by contract.
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_images WHERE id = ?`, id)
	return mapErr(err)
}

func (s *Store) ClearImages(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM user_images`)
	return mapErr(err)
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return mapErr(err)
	}
	if n == 0 {
		return commstore.ErrNotFound
	}
	return nil
}
