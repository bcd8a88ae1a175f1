package user

import (
	"context"
	"errors"

	"github.com/jackc/pgconn"

	"github.com/wintutor/wintutor/internal/domain"
	"github.com/wintutor/wintutor/internal/infrastructure/driver"
	"github.com/wintutor/wintutor/internal/infrastructure/uuid"
)

type UserPG struct {
	Conn          driver.ITransactionalDB
	UUIDGenerator uuid.Generator
}

var _ domain.UserRepository = &UserPG{}

func NewUserRepository(Conn driver.ITransactionalDB, UUIDGenerator uuid.Generator) *UserPG {
	return &UserPG{Conn, UUIDGenerator}
}

// FindByCredential query user with provided credential
func (repo *UserPG) FindByCredential(ctx context.Context, post *domain.UserModel) (*domain.UserModel, error) {
	conn := repo.Conn
	username := post.Username
	row, err := conn.QueryContext(ctx, `SELECT id, username, password, email, login_retry, last_login
	FROM users WHERE username=$1 OR email=$2`, username, username)
	if err != nil {
		return nil, err
	}
	defer row.Close()

	if row.Next() {
		user := new(domain.UserModel)
		if err := row.Scan(&user.ID, &user.Username, &user.Password, &user.Email, &user.LoginRetry, &user.LastLogin); err != nil {
			return nil, err
		}
		return user, nil
	}
	return nil, nil
}

func (repo *UserPG) SaveUser(ctx context.Context, post *domain.UserModel) error {
	conn := repo.Conn
	// generate id
	UUIDGenerator := repo.UUIDGenerator
	if uuid, err := UUIDGenerator.Generate(); err == nil {
		post.ID = uuid
	} else {
		return err
	}

	_, err := conn.ExecContext(ctx, `INSERT INTO users(id, username, password, email, last_login)
	VALUES($1,$2,$3,$4,$5)`, post.ID, post.Username, post.Password, post.Email, post.LastLogin)

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return domain.ErrDuplicatedUser
	}
	return err
}

func (repo *UserPG) UpdateUser(ctx context.Context, post *domain.UserModel) error {
	conn := repo.Conn
	_, err := conn.ExecContext(ctx, `UPDATE users
	SET email=$1,
			login_retry=$2,
			last_login=$3
	WHERE id = $4`, post.Email, post.LoginRetry, post.LastLogin, post.ID)
	return err
}
