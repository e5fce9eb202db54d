package user_test

import (
	"context"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/jifunze/core"
	"github.com/trezcool/jifunze/core/profile"
	"github.com/trezcool/jifunze/core/user"
	emailsvc "github.com/trezcool/jifunze/services/email"
	inmemdb "github.com/trezcool/jifunze/storage/database/inmem"
	testutil "github.com/trezcool/jifunze/tests"
)

type fixture struct {
	svc        *user.Service
	profileSvc *profile.Service
	repo       user.Repository
	validate   *validator.Validate
	db         *inmemdb.DB
}

func setup(t *testing.T) fixture {
	conf := core.NewConfig()
	db := inmemdb.NewDB()
	repo := inmemdb.NewUserRepository(db)
	profileSvc := profile.NewService(inmemdb.NewProfileRepository(db))
	svc := user.NewService(repo, profileSvc, emailsvc.NewConsoleServiceMock(conf), conf)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	return fixture{svc: svc, profileSvc: profileSvc, repo: repo, validate: validate, db: db}
}

func TestService_Register(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	usr, err := f.svc.Register(ctx, user.NewUser{
		Name:            "Awe Sam",
		Username:        "awesam",
		Email:           "awe@test.cd",
		Password:        "LordMuntu#1",
		PasswordConfirm: "LordMuntu#1",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, usr.ID)
	assert.True(t, usr.IsActive)
	assert.False(t, usr.IsAdmin)
	assert.NoError(t, usr.CheckPassword("LordMuntu#1"))

	// registration provisions the learning profile right away
	prof, err := f.profileSvc.GetByUserID(ctx, usr.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, prof.XP)
	assert.Equal(t, 1, prof.Level)
}

func TestNewUser_Validate(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	existing := testutil.CreateUser(t, f.repo, "Taken", "takenuser", "taken@test.cd", "", false, true)

	tests := []struct {
		name    string
		data    user.NewUser
		wantErr bool
	}{
		{
			name: "valid",
			data: user.NewUser{Name: "New", Username: "newuser01", Email: "new@test.cd",
				Password: "LordMuntu#1", PasswordConfirm: "LordMuntu#1"},
		},
		{
			name: "username taken",
			data: user.NewUser{Name: "New", Username: existing.Username, Email: "new@test.cd",
				Password: "LordMuntu#1", PasswordConfirm: "LordMuntu#1"},
			wantErr: true,
		},
		{
			name: "email taken",
			data: user.NewUser{Name: "New", Username: "newuser01", Email: existing.Email,
				Password: "LordMuntu#1", PasswordConfirm: "LordMuntu#1"},
			wantErr: true,
		},
		{
			name: "password mismatch",
			data: user.NewUser{Name: "New", Username: "newuser01", Email: "new@test.cd",
				Password: "LordMuntu#1", PasswordConfirm: "LordMuntu#2"},
			wantErr: true,
		},
		{
			name: "password too short",
			data: user.NewUser{Name: "New", Username: "newuser01", Email: "new@test.cd",
				Password: "Lo#1", PasswordConfirm: "Lo#1"},
			wantErr: true,
		},
		{
			name: "password all numeric",
			data: user.NewUser{Name: "New", Username: "newuser01", Email: "new@test.cd",
				Password: "12345678", PasswordConfirm: "12345678"},
			wantErr: true,
		},
		{
			name: "password too simple",
			data: user.NewUser{Name: "New", Username: "newuser01", Email: "new@test.cd",
				Password: "lordmuntu", PasswordConfirm: "lordmuntu"},
			wantErr: true,
		},
		{
			name: "password similar to username",
			data: user.NewUser{Name: "New", Username: "lordmuntu1", Email: "new@test.cd",
				Password: "Lordmuntu#1", PasswordConfirm: "Lordmuntu#1"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate(ctx, f.validate, f.svc)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestService_GetByUsernameOrEmail(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	usr := testutil.CreateUser(t, f.repo, "Awe", "awesam", "awe@test.cd", "", false, true)

	got, err := f.svc.GetByUsernameOrEmail(ctx, "awesam")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	// lookup is case-insensitive on input
	got, err = f.svc.GetByUsernameOrEmail(ctx, "AWE@test.CD")
	require.NoError(t, err)
	assert.Equal(t, usr.ID, got.ID)

	_, err = f.svc.GetByUsernameOrEmail(ctx, "nobody")
	assert.Equal(t, user.ErrNotFound, errors.Cause(err))
}
