package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jomora1/proyvarchar/internal/core/apperror"
)

type memUserRepo struct {
	users map[string]*User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[string]*User)}
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, apperror.NewNotFound("user", email)
	}
	copied := *u
	return &copied, nil
}

func (r *memUserRepo) Upsert(ctx context.Context, u *User) error {
	copied := *u
	r.users[u.Email] = &copied
	return nil
}

func newAuthFixture(whitelist map[string]Role) (*Service, *memUserRepo) {
	repo := newMemUserRepo()
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	return NewService(repo, jwtService, DefaultServiceConfig(whitelist)), repo
}

func TestParseWhitelist(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want map[string]Role
	}{
		{"empty", "", map[string]Role{}},
		{"single with role", "owner@shop.com:admin", map[string]Role{"owner@shop.com": RoleAdmin}},
		{"role defaults to seller", "clerk@shop.com", map[string]Role{"clerk@shop.com": RoleSeller}},
		{"mixed with spaces", " Owner@Shop.com:admin , clerk@shop.com ", map[string]Role{
			"owner@shop.com": RoleAdmin,
			"clerk@shop.com": RoleSeller,
		}},
		{"empty role defaults", "clerk@shop.com:", map[string]Role{"clerk@shop.com": RoleSeller}},
		{"skips blank entries", ",,clerk@shop.com", map[string]Role{"clerk@shop.com": RoleSeller}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseWhitelist(tc.raw))
		})
	}
}

func TestRegister(t *testing.T) {
	svc, repo := newAuthFixture(map[string]Role{"owner@shop.com": RoleAdmin})
	ctx := context.Background()

	user, err := svc.Register(ctx, "Owner@Shop.com", "s3cret-pass", "The Owner")
	require.NoError(t, err)
	assert.Equal(t, "owner@shop.com", user.Email)
	assert.Equal(t, RoleAdmin, user.Role)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)
	assert.Contains(t, repo.users, "owner@shop.com")
}

func TestRegister_RejectsOffWhitelist(t *testing.T) {
	svc, _ := newAuthFixture(map[string]Role{"owner@shop.com": RoleAdmin})

	_, err := svc.Register(context.Background(), "stranger@shop.com", "s3cret-pass", "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeForbidden, appErr.Code)
}

func TestRegister_RejectsShortPassword(t *testing.T) {
	svc, _ := newAuthFixture(map[string]Role{"owner@shop.com": RoleAdmin})

	_, err := svc.Register(context.Background(), "owner@shop.com", "short", "")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestLogin(t *testing.T) {
	svc, _ := newAuthFixture(map[string]Role{"owner@shop.com": RoleAdmin})
	ctx := context.Background()

	_, err := svc.Register(ctx, "owner@shop.com", "s3cret-pass", "The Owner")
	require.NoError(t, err)

	pair, err := svc.Login(ctx, "owner@shop.com", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.Equal(t, RoleAdmin, pair.User.Role)

	// The issued token round-trips through validation.
	jwtService := NewJWTService(DefaultJWTConfig("test-secret"))
	userCtx, err := jwtService.ValidateToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "owner@shop.com", userCtx.Email)
	assert.Equal(t, "admin", userCtx.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(map[string]Role{"owner@shop.com": RoleAdmin})
	ctx := context.Background()

	_, err := svc.Register(ctx, "owner@shop.com", "s3cret-pass", "")
	require.NoError(t, err)

	_, err = svc.Login(ctx, "owner@shop.com", "wrong-pass")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestLogin_UnregisteredLooksLikeWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture(map[string]Role{"owner@shop.com": RoleAdmin})

	_, err := svc.Login(context.Background(), "owner@shop.com", "whatever-pass")
	require.Error(t, err)
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestLogin_WhitelistRoleIsAuthoritative(t *testing.T) {
	whitelist := map[string]Role{"clerk@shop.com": RoleSeller}
	svc, repo := newAuthFixture(whitelist)
	ctx := context.Background()

	_, err := svc.Register(ctx, "clerk@shop.com", "s3cret-pass", "")
	require.NoError(t, err)

	// Promote in the whitelist after registration.
	whitelist["clerk@shop.com"] = RoleAdmin
	repo.users["clerk@shop.com"].Role = RoleSeller

	pair, err := svc.Login(ctx, "clerk@shop.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, pair.User.Role)
}

func TestValidateToken_RejectsBadSecret(t *testing.T) {
	issuer := NewJWTService(DefaultJWTConfig("secret-a"))
	token, _, err := issuer.GenerateAccessToken(&User{ID: "u1", Email: "x@y.com", Role: RoleSeller})
	require.NoError(t, err)

	verifier := NewJWTService(DefaultJWTConfig("secret-b"))
	_, err = verifier.ValidateToken(token)
	require.Error(t, err)
}
