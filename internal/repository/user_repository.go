package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/online-bookstore/internal/model"
	"github.com/iliyamo/online-bookstore/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user and returns its ID. The password is hashed
// here so a plain password never reaches a SQL statement.
func (r *UserRepo) Create(ctx context.Context, u model.User, password string, cost int) (uint64, error) {
	u.Username = strings.TrimSpace(u.Username)
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (username, password_hash, firstname, lastname, address, phone, mailid, usertype) VALUES (?,?,?,?,?,?,?,?)",
		u.Username, hash, u.FirstName, u.LastName, u.Address, u.Phone, u.MailID, u.Role.String())
	if err != nil {
		// MySQL duplicate-key error for the unique username index
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return 0, ErrUsernameExists
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// GetByUsername fetches a user including the password hash for
// credential verification.
func (r *UserRepo) GetByUsername(ctx context.Context, username string) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,firstname,lastname,address,phone,mailid,usertype FROM users WHERE username=? LIMIT 1",
		strings.TrimSpace(username)))
}

// GetByID fetches a user by id. Returns ErrNotFound when the row no
// longer exists, which the auth middleware maps to a rejected token.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT id,username,password_hash,firstname,lastname,address,phone,mailid,usertype FROM users WHERE id=? LIMIT 1",
		id))
}

func (r *UserRepo) scanOne(row *sql.Row) (model.User, error) {
	var (
		u        model.User
		roleName string
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.FirstName, &u.LastName,
		&u.Address, &u.Phone, &u.MailID, &roleName)
	if err == sql.ErrNoRows {
		return model.User{}, ErrNotFound
	}
	if err != nil {
		return model.User{}, err
	}
	role, err := model.ParseRole(roleName)
	if err != nil {
		// unknown usertype in storage degrades to the least privilege
		role = model.RoleUser
	}
	u.Role = role
	return u, nil
}

// ListAll returns every user without password hashes. Admin-only at
// the handler layer.
func (r *UserRepo) ListAll(ctx context.Context) ([]model.User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id,username,firstname,lastname,address,phone,mailid,usertype FROM users ORDER BY username")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.User{}
	for rows.Next() {
		var (
			u        model.User
			roleName string
		)
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName,
			&u.Address, &u.Phone, &u.MailID, &roleName); err != nil {
			return nil, err
		}
		if role, perr := model.ParseRole(roleName); perr == nil {
			u.Role = role
		} else {
			u.Role = model.RoleUser
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// ProfileUpdate carries the optional fields of a profile update.
// Nil pointers leave the column untouched.
type ProfileUpdate struct {
	FirstName *string
	LastName  *string
	Address   *string
	Phone     *string
	MailID    *string
	Role      *model.Role
}

// Update applies the non-nil fields of upd to the user row. Returns
// ErrNotFound when the user does not exist.
func (r *UserRepo) Update(ctx context.Context, id uint64, upd ProfileUpdate) error {
	sets := []string{}
	args := []any{}
	add := func(col string, v any) {
		sets = append(sets, col+"=?")
		args = append(args, v)
	}
	if upd.FirstName != nil {
		add("firstname", *upd.FirstName)
	}
	if upd.LastName != nil {
		add("lastname", *upd.LastName)
	}
	if upd.Address != nil {
		add("address", *upd.Address)
	}
	if upd.Phone != nil {
		add("phone", *upd.Phone)
	}
	if upd.MailID != nil {
		add("mailid", *upd.MailID)
	}
	if upd.Role != nil {
		add("usertype", upd.Role.String())
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx,
		"UPDATE users SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// distinguish "no such user" from "values already current"
		var exists int
		if err := r.DB.QueryRowContext(ctx,
			"SELECT 1 FROM users WHERE id=? LIMIT 1", id).Scan(&exists); err == sql.ErrNoRows {
			return ErrNotFound
		} else if err != nil {
			return err
		}
	}
	return nil
}
