package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"mediremind/pkg/models"
)

// ErrUnavailable is returned when the database could not be brought up
// within the startup deadline. The app degrades to an empty medication list
// instead of blocking the UI.
var ErrUnavailable = errors.New("store: database unavailable")

const metaLastDate = "lastDate"

// Store provides SQLite-backed persistence for medications, daily adherence
// history and one-shot meta flags.
type Store struct {
	db *sql.DB
}

// New returns a Store bound to an existing database handle.
func New(db *sql.DB) (*Store, error) {
	if db == nil {
		return nil, fmt.Errorf("store: db is nil")
	}
	return &Store{db: db}, nil
}

// OpenWithTimeout opens the database at dbPath, giving up after d. A slow or
// wedged filesystem must not hang startup indefinitely.
func OpenWithTimeout(dbPath string, d time.Duration) (*Store, error) {
	type result struct {
		db  *sql.DB
		err error
	}
	ch := make(chan result, 1)

	go func() {
		db, err := Open(dbPath)
		ch <- result{db: db, err: err}
	}()

	select {
	case r := <-ch:
		if r.err != nil {
			return nil, r.err
		}
		return New(r.db)
	case <-time.After(d):
		// Leak the goroutine rather than block; it will close the handle if
		// it ever finishes.
		go func() {
			if r := <-ch; r.db != nil {
				_ = r.db.Close()
			}
		}()
		return nil, fmt.Errorf("store: open %s timed out after %s: %w", dbPath, d, ErrUnavailable)
	}
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// GetAllMedications returns every medication. As a side effect it applies
// the daily rollover: when the calendar date has changed since the last
// read, every taken flag is cleared before the list is returned. This is the
// only place taken is bulk-reset.
func (s *Store) GetAllMedications() ([]models.Medication, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("get medications: store is nil")
	}

	today := time.Now().Format(models.DateLayout)
	lastDate, err := s.MetaValue(metaLastDate)
	if err != nil {
		return nil, fmt.Errorf("get medications: read last date: %w", err)
	}

	if lastDate != today {
		if _, err := s.db.Exec(`UPDATE medications SET taken = 0, taken_date = NULL;`); err != nil {
			return nil, fmt.Errorf("get medications: rollover reset: %w", err)
		}
		if err := s.SetMetaValue(metaLastDate, today); err != nil {
			return nil, fmt.Errorf("get medications: store last date: %w", err)
		}
	}

	rows, err := s.db.Query(`
		SELECT id, name, dosage, time, frequency, selected_days, selected_dates,
		       color, icon, taken, notes
		FROM medications
		ORDER BY time, name;
	`)
	if err != nil {
		return nil, fmt.Errorf("get medications: query: %w", err)
	}
	defer rows.Close()

	meds := []models.Medication{}
	for rows.Next() {
		var m models.Medication
		var days, dates, notes sql.NullString
		var taken int

		err = rows.Scan(&m.ID, &m.Name, &m.Dosage, &m.Time, &m.Frequency,
			&days, &dates, &m.Color, &m.Icon, &taken, &notes)
		if err != nil {
			return nil, fmt.Errorf("get medications: scan: %w", err)
		}

		m.Taken = taken != 0
		m.Notes = notes.String
		if days.Valid && days.String != "" {
			if err := json.Unmarshal([]byte(days.String), &m.SelectedDays); err != nil {
				return nil, fmt.Errorf("get medications: decode selected days for %s: %w", m.ID, err)
			}
		}
		if dates.Valid && dates.String != "" {
			if err := json.Unmarshal([]byte(dates.String), &m.SelectedDates); err != nil {
				return nil, fmt.Errorf("get medications: decode selected dates for %s: %w", m.ID, err)
			}
		}

		meds = append(meds, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get medications: rows: %w", err)
	}
	return meds, nil
}

// AddMedication inserts a new medication.
func (s *Store) AddMedication(m *models.Medication) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("add medication: store is nil")
	}
	if m.ID == "" {
		return fmt.Errorf("add medication: empty id")
	}

	days, dates, err := encodeDaySets(m)
	if err != nil {
		return fmt.Errorf("add medication: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO medications (id, name, dosage, time, frequency, selected_days,
		                         selected_dates, color, icon, taken, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
	`, m.ID, m.Name, m.Dosage, m.Time, string(m.Frequency), days, dates,
		m.Color, m.Icon, boolToInt(m.Taken), nullableString(m.Notes))
	if err != nil {
		return fmt.Errorf("add medication: insert: %w", err)
	}
	return nil
}

// UpdateMedication rewrites every mutable attribute of a medication.
func (s *Store) UpdateMedication(m *models.Medication) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("update medication: store is nil")
	}

	days, dates, err := encodeDaySets(m)
	if err != nil {
		return fmt.Errorf("update medication: %w", err)
	}

	var takenDate any
	if m.Taken {
		takenDate = time.Now().Format(models.DateLayout)
	}

	res, err := s.db.Exec(`
		UPDATE medications
		SET name = ?, dosage = ?, time = ?, frequency = ?, selected_days = ?,
		    selected_dates = ?, color = ?, icon = ?, taken = ?, notes = ?, taken_date = ?
		WHERE id = ?;
	`, m.Name, m.Dosage, m.Time, string(m.Frequency), days, dates,
		m.Color, m.Icon, boolToInt(m.Taken), nullableString(m.Notes), takenDate, m.ID)
	if err != nil {
		return fmt.Errorf("update medication: exec: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("update medication: no medication with id %s", m.ID)
	}
	return nil
}

// DeleteMedication removes a medication permanently.
func (s *Store) DeleteMedication(id string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("delete medication: store is nil")
	}
	if _, err := s.db.Exec(`DELETE FROM medications WHERE id = ?;`, id); err != nil {
		return fmt.Errorf("delete medication: exec: %w", err)
	}
	return nil
}

// SetTaken flips a medication's per-day taken flag, recording the date it
// was taken on.
func (s *Store) SetTaken(id string, taken bool) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("set taken: store is nil")
	}

	var takenDate any
	if taken {
		takenDate = time.Now().Format(models.DateLayout)
	}

	res, err := s.db.Exec(`UPDATE medications SET taken = ?, taken_date = ? WHERE id = ?;`,
		boolToInt(taken), takenDate, id)
	if err != nil {
		return fmt.Errorf("set taken: exec: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("set taken: no medication with id %s", id)
	}
	return nil
}

// AllHistory returns daily snapshots, most recent first, bounded to the last
// 30 days.
func (s *Store) AllHistory() ([]models.DailyHistory, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("get history: store is nil")
	}

	rows, err := s.db.Query(`
		SELECT date, total_medications, taken_medications, medications
		FROM daily_history
		ORDER BY date DESC
		LIMIT 30;
	`)
	if err != nil {
		return nil, fmt.Errorf("get history: query: %w", err)
	}
	defer rows.Close()

	history := []models.DailyHistory{}
	for rows.Next() {
		var h models.DailyHistory
		var frozen string
		if err := rows.Scan(&h.Date, &h.TotalMedications, &h.TakenMedications, &frozen); err != nil {
			return nil, fmt.Errorf("get history: scan: %w", err)
		}
		if err := json.Unmarshal([]byte(frozen), &h.Medications); err != nil {
			return nil, fmt.Errorf("get history: decode snapshot for %s: %w", h.Date, err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("get history: rows: %w", err)
	}
	return history, nil
}

// SaveHistory upserts a daily snapshot keyed by its date.
func (s *Store) SaveHistory(h *models.DailyHistory) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("save history: store is nil")
	}
	if h.Date == "" {
		return fmt.Errorf("save history: empty date")
	}

	frozen, err := json.Marshal(h.Medications)
	if err != nil {
		return fmt.Errorf("save history: encode snapshot: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT OR REPLACE INTO daily_history (date, total_medications, taken_medications, medications)
		VALUES (?, ?, ?, ?);
	`, h.Date, h.TotalMedications, h.TakenMedications, string(frozen))
	if err != nil {
		return fmt.Errorf("save history: upsert: %w", err)
	}
	return nil
}

// MetaValue reads a meta key, returning "" when the key does not exist.
func (s *Store) MetaValue(key string) (string, error) {
	if s == nil || s.db == nil {
		return "", fmt.Errorf("meta value: store is nil")
	}

	var value string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = ?;`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("meta value: query %s: %w", key, err)
	}
	return value, nil
}

// SetMetaValue upserts a meta key.
func (s *Store) SetMetaValue(key, value string) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("set meta value: store is nil")
	}
	_, err := s.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES (?, ?);`, key, value)
	if err != nil {
		return fmt.Errorf("set meta value: upsert %s: %w", key, err)
	}
	return nil
}

func encodeDaySets(m *models.Medication) (days, dates any, err error) {
	if len(m.SelectedDays) > 0 {
		b, err := json.Marshal(m.SelectedDays)
		if err != nil {
			return nil, nil, fmt.Errorf("encode selected days: %w", err)
		}
		days = string(b)
	}
	if len(m.SelectedDates) > 0 {
		b, err := json.Marshal(m.SelectedDates)
		if err != nil {
			return nil, nil, fmt.Errorf("encode selected dates: %w", err)
		}
		dates = string(b)
	}
	return days, dates, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
