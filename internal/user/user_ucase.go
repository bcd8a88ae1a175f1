package user

import (
	"context"

	"go.elastic.co/apm"

	"github.com/wintutor/wintutor/internal/domain"
)

type UserUseCaseImpl struct {
	UserRepository domain.UserRepository
}

var _ domain.UserUseCase = &UserUseCaseImpl{}

func NewUserUseCase(
	UserRepository domain.UserRepository,
) *UserUseCaseImpl {
	return &UserUseCaseImpl{
		UserRepository: UserRepository,
	}
}

// SignUp create a user
func (uu *UserUseCaseImpl) SignUp(ctx context.Context, post *domain.UserModel) (*domain.UserModel, error) {
	apmSpan, _ := apm.StartSpan(ctx, "UserUseCaseImpl.SignUp", "service")
	defer apmSpan.End()

	ur := uu.UserRepository
	// search for existence
	if m, err := ur.FindByCredential(ctx, post); err != nil {
		return nil, err
	} else if m != nil {
		return nil, domain.ErrDuplicatedUser
	}

	// save user
	if err := ur.SaveUser(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Exists find if user exists in database
func (uu *UserUseCaseImpl) Exists(ctx context.Context, post *domain.UserModel) (bool, error) {
	apmSpan, _ := apm.StartSpan(ctx, "UserUseCaseImpl.Exists", "service")
	defer apmSpan.End()

	user, err := uu.UserRepository.FindByCredential(ctx, post)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return true, nil
}
