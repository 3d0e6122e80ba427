package model

import (
	"database/sql"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Password  string    `json:"-"` // never serialized
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Session struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"user_id"`
	Token        string    `json:"token"`
	RefreshToken string    `json:"refresh_token"`
	UserAgent    string    `json:"user_agent"`
	ClientIP     string    `json:"client_ip"`
	IsBlocked    bool      `json:"is_blocked"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// HashPassword hashes the user's password using bcrypt.
func (u *User) HashPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword compares a given password with the user's hashed password.
func (u *User) CheckPassword(password string) error {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
}

// CreateUser inserts a new user into the database.
func (u *User) CreateUser(db *sql.DB) error {
	res, err := db.Exec(`INSERT INTO users (username, password) VALUES (?, ?)`, u.Username, u.Password)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

// GetUserByUsername retrieves a user from the database by their username.
func GetUserByUsername(db *sql.DB, username string) (*User, error) {
	row := db.QueryRow(`SELECT id, username, password FROM users WHERE username = ?`, username)
	var user User
	if err := row.Scan(&user.ID, &user.Username, &user.Password); err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("user not found")
		}
		return nil, err
	}
	return &user, nil
}

// CreateSession inserts a new session into the database.
func CreateSession(db *sql.DB, session *Session) error {
	session.CreatedAt = time.Now()
	_, err := db.Exec(`
		INSERT INTO sessions (user_id, token, refresh_token, user_agent, client_ip, is_blocked, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.UserID, session.Token, session.RefreshToken, session.UserAgent,
		session.ClientIP, session.IsBlocked, session.ExpiresAt, session.CreatedAt)
	return err
}

// GetSessionByToken retrieves an active, non-blocked session by its access token.
func GetSessionByToken(db *sql.DB, token string) (*Session, error) {
	row := db.QueryRow(`
		SELECT id, user_id, token, refresh_token, user_agent, client_ip, is_blocked, expires_at, created_at
		FROM sessions
		WHERE token = ? AND is_blocked = FALSE AND expires_at > ?`, token, time.Now())
	var session Session
	err := row.Scan(&session.ID, &session.UserID, &session.Token, &session.RefreshToken,
		&session.UserAgent, &session.ClientIP, &session.IsBlocked, &session.ExpiresAt, &session.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("session not found, expired, or blocked")
		}
		return nil, err
	}
	return &session, nil
}

// GetSessionByRefreshToken retrieves a session by its refresh token.
func GetSessionByRefreshToken(db *sql.DB, refreshToken string) (*Session, error) {
	row := db.QueryRow(`
		SELECT id, user_id, token, refresh_token, user_agent, client_ip, is_blocked, expires_at, created_at
		FROM sessions
		WHERE refresh_token = ? AND is_blocked = FALSE AND expires_at > ?`, refreshToken, time.Now())
	var session Session
	err := row.Scan(&session.ID, &session.UserID, &session.Token, &session.RefreshToken,
		&session.UserAgent, &session.ClientIP, &session.IsBlocked, &session.ExpiresAt, &session.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.New("session not found, expired, or blocked")
		}
		return nil, err
	}
	return &session, nil
}

// UpdateSessionToken replaces the access token of an existing session.
func UpdateSessionToken(db *sql.DB, sessionID int64, newToken string) error {
	_, err := db.Exec(`UPDATE sessions SET token = ? WHERE id = ?`, newToken, sessionID)
	return err
}

// DeleteSessionByToken removes a session from the database based on the
// access token. A missing session is not an error; it may simply have
// expired before logout.
func DeleteSessionByToken(db *sql.DB, token string) error {
	_, err := db.Exec(`DELETE FROM sessions WHERE token = ?`, token)
	return err
}
