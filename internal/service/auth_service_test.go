package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"khawam-pro/models/khawam"
)

func newAuthTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&khawam.User{}))
	return db
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewAuthService(newAuthTestDB(t), []byte("test-secret"))
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "Lina", "lina@example.com", "0944000000", "s3cret-pass")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, khawam.RoleCustomer, user.Role)
	assert.NotEqual(t, "s3cret-pass", user.PasswordHash)

	loggedIn, token2, err := svc.Login(ctx, "lina@example.com", "s3cret-pass")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, token2)
}

func TestLoginWrongPassword(t *testing.T) {
	svc := NewAuthService(newAuthTestDB(t), []byte("test-secret"))
	ctx := context.Background()

	_, _, err := svc.Register(ctx, "Lina", "lina@example.com", "", "right-pass")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "lina@example.com", "wrong-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, "nobody@example.com", "right-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyToken(t *testing.T) {
	svc := NewAuthService(newAuthTestDB(t), []byte("test-secret"))
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "Admin", "admin@example.com", "", "admin-pass")
	require.NoError(t, err)

	claims, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, khawam.RoleCustomer, claims.Role)
	assert.Equal(t, "admin@example.com", claims.Subject)
}

func TestVerifyRejectsForeignToken(t *testing.T) {
	db := newAuthTestDB(t)
	issuer := NewAuthService(db, []byte("secret-a"))
	verifier := NewAuthService(db, []byte("secret-b"))
	ctx := context.Background()

	_, token, err := issuer.Register(ctx, "Lina", "lina@example.com", "", "pass-word")
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.Error(t, err)
}
