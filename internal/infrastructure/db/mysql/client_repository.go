package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/massage-portal/client-portal/internal/core/domain"
	"github.com/massage-portal/client-portal/internal/core/ports"
)

const clientColumns = `id, user_id, email, first_name, last_name, phone, address, city, state, zip_code,
	date_of_birth, emergency_contact_name, emergency_contact_phone, notes, created_at, updated_at`

type ClientRepository struct {
	db *sql.DB
}

func NewClientRepository(db *sql.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func scanClient(row rowScanner) (*domain.ClientProfile, error) {
	var (
		p      domain.ClientProfile
		userID sql.NullString
		dob    sql.NullTime
		notes  sql.NullString
	)
	if err := row.Scan(
		&p.ID, &userID, &p.Email, &p.FirstName, &p.LastName, &p.Phone,
		&p.Address, &p.City, &p.State, &p.ZipCode, &dob,
		&p.EmergencyContactName, &p.EmergencyContactPhone, &notes,
		&p.CreatedAt, &p.UpdatedAt,
	); err != nil {
		return nil, err
	}
	p.UserID = stringPtr(userID)
	if dob.Valid {
		d := dob.Time.UTC()
		p.DateOfBirth = &d
	}
	p.Notes = notes.String
	return &p, nil
}

func clientArgs(p *domain.ClientProfile) []any {
	var dob sql.NullTime
	if p.DateOfBirth != nil {
		dob = sql.NullTime{Time: *p.DateOfBirth, Valid: true}
	}
	return []any{
		nullString(p.UserID), p.Email, p.FirstName, p.LastName, p.Phone,
		p.Address, p.City, p.State, p.ZipCode, dob,
		p.EmergencyContactName, p.EmergencyContactPhone, p.Notes,
	}
}

// clientConflict maps a unique-key violation on clients to its domain error.
func clientConflict(err error) error {
	key, dup := duplicateKey(err)
	if !dup {
		return nil
	}
	if key == "uq_clients_user_id" {
		return domain.ErrDuplicateProfile
	}
	return domain.ErrDuplicateClientEmail
}

func (r *ClientRepository) Create(ctx context.Context, p *domain.ClientProfile) error {
	query := `INSERT INTO clients (` + clientColumns + `)
	          VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	args := append([]any{p.ID}, clientArgs(p)...)
	args = append(args, p.CreatedAt, p.UpdatedAt)

	_, err := r.db.ExecContext(ctx, query, args...)
	if conflict := clientConflict(err); conflict != nil {
		return conflict
	}
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

func (r *ClientRepository) FindByID(ctx context.Context, id string) (*domain.ClientProfile, error) {
	return r.findOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
}

func (r *ClientRepository) FindByUserID(ctx context.Context, userID string) (*domain.ClientProfile, error) {
	return r.findOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE user_id = ?`, userID)
}

func (r *ClientRepository) FindByEmail(ctx context.Context, email string) (*domain.ClientProfile, error) {
	return r.findOne(ctx, `SELECT `+clientColumns+` FROM clients WHERE email = ?`, email)
}

func (r *ClientRepository) findOne(ctx context.Context, query string, arg any) (*domain.ClientProfile, error) {
	p, err := scanClient(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrClientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find client: %w", err)
	}
	return p, nil
}

func (r *ClientRepository) Update(ctx context.Context, p *domain.ClientProfile) error {
	query := `UPDATE clients
	          SET user_id = ?, email = ?, first_name = ?, last_name = ?, phone = ?,
	              address = ?, city = ?, state = ?, zip_code = ?, date_of_birth = ?,
	              emergency_contact_name = ?, emergency_contact_phone = ?, notes = ?,
	              updated_at = ?
	          WHERE id = ?`
	args := append(clientArgs(p), p.UpdatedAt, p.ID)

	res, err := r.db.ExecContext(ctx, query, args...)
	if conflict := clientConflict(err); conflict != nil {
		return conflict
	}
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.FindByID(ctx, p.ID); err != nil {
			return err
		}
	}
	return nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM clients WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete client: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrClientNotFound
	}
	return nil
}

func (r *ClientRepository) List(ctx context.Context, f ports.ListClientsFilter) ([]*domain.ClientProfile, int64, error) {
	filter, args := searchClause(f.Search, "email", "first_name", "last_name")
	if filter != "" {
		filter = " WHERE " + filter
	}

	var total int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM clients`+filter, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	query := `SELECT ` + clientColumns + ` FROM clients` + filter + ` ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, f.Limit, offset(f.Page, f.Limit))...)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()

	profiles := make([]*domain.ClientProfile, 0, f.Limit)
	for rows.Next() {
		p, err := scanClient(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan client: %w", err)
		}
		profiles = append(profiles, p)
	}
	return profiles, total, rows.Err()
}
