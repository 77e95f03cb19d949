package user

import (
	"context"
	"mime/multipart"
	"testing"
	"time"

	"NutriSnap-Backend/domain"
	"NutriSnap-Backend/entities"
	jwtlib "github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type fakeUserRepository struct {
	byEmail    map[string]*entities.User
	byID       map[string]*entities.User
	byTelegram map[string]*entities.User
	updated    *entities.User
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{
		byEmail:    make(map[string]*entities.User),
		byID:       make(map[string]*entities.User),
		byTelegram: make(map[string]*entities.User),
	}
}

func (f *fakeUserRepository) add(user *entities.User) {
	f.byEmail[user.Email] = user
	f.byID[user.ID.String()] = user
	if user.TelegramID != "" {
		f.byTelegram[user.TelegramID] = user
	}
}

func (f *fakeUserRepository) CreateUser(ctx context.Context, user *entities.User) error {
	f.add(user)
	return nil
}

func (f *fakeUserRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	if user, ok := f.byID[id]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) GetUserByEmail(ctx context.Context, email string) (*entities.User, error) {
	if user, ok := f.byEmail[email]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) GetUserByTelegramID(ctx context.Context, telegramID string) (*entities.User, error) {
	if user, ok := f.byTelegram[telegramID]; ok {
		return user, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepository) UpdateUser(ctx context.Context, user *entities.User) error {
	f.updated = user
	f.add(user)
	return nil
}

// fakeJWTService hands back canned tokens and claims so tests stay off the
// signing path.
type fakeJWTService struct {
	claims jwtlib.MapClaims
}

func (f *fakeJWTService) GenerateTokenUser(userId string, role string) string {
	return "user-token-" + userId
}

func (f *fakeJWTService) ValidateTokenUser(token string) (*jwtlib.Token, error) {
	return nil, domain.ErrTokenInvalid
}

func (f *fakeJWTService) GetUserIDByToken(token string) (string, string, error) {
	return "", "", domain.ErrTokenInvalid
}

func (f *fakeJWTService) GenerateActionToken(data map[string]any, duration time.Duration) (string, error) {
	return "action-token", nil
}

func (f *fakeJWTService) ValidateActionToken(token string) (jwtlib.MapClaims, error) {
	if f.claims == nil {
		return nil, domain.ErrTokenInvalid
	}
	return f.claims, nil
}

type fakeAvatarStorage struct{}

func (f *fakeAvatarStorage) UploadFile(fileName string, file *multipart.FileHeader, folder string, allowedTypes ...string) (string, error) {
	return folder + "/" + fileName + ".png", nil
}

func (f *fakeAvatarStorage) UpdateFile(objectKey string, file *multipart.FileHeader, allowedTypes ...string) (string, error) {
	return objectKey, nil
}

func (f *fakeAvatarStorage) DeleteFile(objectKey string) error { return nil }

func (f *fakeAvatarStorage) GetPublicLinkKey(objectKey string) string {
	return "https://cdn.example.com/" + objectKey
}

func (f *fakeAvatarStorage) GetObjectKeyFromLink(link string) string { return "" }

func registerRequest() domain.RegisterRequest {
	return domain.RegisterRequest{
		Name:          "Budi",
		Email:         "budi@example.com",
		Password:      "secret-password",
		Age:           25,
		Gender:        "male",
		Height:        172,
		Weight:        68,
		ActivityLevel: "moderate",
		Goal:          "maintain-weight",
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newFakeUserRepository()
	service := NewUserService(repo, &fakeJWTService{}, &fakeAvatarStorage{})

	resp, err := service.Register(context.Background(), registerRequest())
	require.NoError(t, err)
	assert.Equal(t, "budi@example.com", resp.Email)

	stored := repo.byEmail["budi@example.com"]
	require.NotNil(t, stored)
	assert.Equal(t, domain.RoleUser, stored.Role)
	assert.NotEqual(t, "secret-password", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret-password")))
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	repo := newFakeUserRepository()
	repo.add(&entities.User{ID: uuid.New(), Email: "budi@example.com"})
	service := NewUserService(repo, &fakeJWTService{}, &fakeAvatarStorage{})

	_, err := service.Register(context.Background(), registerRequest())
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)
}

func TestLogin(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := newFakeUserRepository()
	userID := uuid.New()
	repo.add(&entities.User{ID: userID, Email: "budi@example.com", Password: string(hashed), Role: domain.RoleUser})
	service := NewUserService(repo, &fakeJWTService{}, &fakeAvatarStorage{})

	resp, err := service.Login(context.Background(), domain.LoginRequest{
		Email:    "budi@example.com",
		Password: "secret-password",
	})
	require.NoError(t, err)
	assert.Equal(t, "user-token-"+userID.String(), resp.Token)
	assert.Equal(t, domain.RoleUser, resp.Role)
}

func TestLoginInvalidCredentials(t *testing.T) {
	hashed, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := newFakeUserRepository()
	repo.add(&entities.User{ID: uuid.New(), Email: "budi@example.com", Password: string(hashed)})
	service := NewUserService(repo, &fakeJWTService{}, &fakeAvatarStorage{})

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email:    "budi@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, err = service.Login(context.Background(), domain.LoginRequest{
		Email:    "nobody@example.com",
		Password: "secret-password",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestUpdateUserKeepsUnsetFields(t *testing.T) {
	repo := newFakeUserRepository()
	userID := uuid.New()
	repo.add(&entities.User{
		ID:     userID,
		Email:  "budi@example.com",
		Name:   "Budi",
		Age:    25,
		Weight: 68,
		Goal:   "maintain-weight",
	})
	service := NewUserService(repo, &fakeJWTService{}, &fakeAvatarStorage{})

	err := service.UpdateUser(context.Background(), domain.UpdateUserRequest{
		Weight: 70,
		Goal:   "build-muscle",
	}, userID.String())
	require.NoError(t, err)

	require.NotNil(t, repo.updated)
	assert.Equal(t, "Budi", repo.updated.Name)
	assert.Equal(t, 25, repo.updated.Age)
	assert.Equal(t, 70.0, repo.updated.Weight)
	assert.Equal(t, "build-muscle", repo.updated.Goal)
}

func TestGetTargets(t *testing.T) {
	repo := newFakeUserRepository()
	userID := uuid.New()
	repo.add(&entities.User{
		ID:            userID,
		Email:         "budi@example.com",
		Age:           30,
		Gender:        "male",
		Height:        180,
		Weight:        80,
		ActivityLevel: "moderate",
		Goal:          "maintain-weight",
	})
	service := NewUserService(repo, &fakeJWTService{}, &fakeAvatarStorage{})

	targets, err := service.GetTargets(context.Background(), userID.String())
	require.NoError(t, err)
	assert.Equal(t, 2759, targets.Calories)
	assert.Equal(t, 144, targets.Protein)
}

func TestSendVerificationEmailAlreadyVerified(t *testing.T) {
	repo := newFakeUserRepository()
	repo.add(&entities.User{ID: uuid.New(), Email: "budi@example.com", IsVerified: true})
	service := NewUserService(repo, &fakeJWTService{}, &fakeAvatarStorage{})

	err := service.SendVerificationEmail(context.Background(), "budi@example.com")
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyVerified)
}

func TestVerifyEmail(t *testing.T) {
	repo := newFakeUserRepository()
	userID := uuid.New()
	repo.add(&entities.User{ID: userID, Email: "budi@example.com"})
	service := NewUserService(repo, &fakeJWTService{
		claims: jwtlib.MapClaims{"user_id": userID.String(), "purpose": "verify_email"},
	}, &fakeAvatarStorage{})

	err := service.VerifyEmail(context.Background(), "action-token")
	require.NoError(t, err)
	assert.True(t, repo.updated.IsVerified)
}

func TestResetPassword(t *testing.T) {
	repo := newFakeUserRepository()
	userID := uuid.New()
	repo.add(&entities.User{ID: userID, Email: "budi@example.com", Password: "old-hash"})
	service := NewUserService(repo, &fakeJWTService{
		claims: jwtlib.MapClaims{"user_id": userID.String(), "purpose": "reset_password"},
	}, &fakeAvatarStorage{})

	err := service.ResetPassword(context.Background(), domain.ResetPasswordRequest{
		Token:    "action-token",
		Password: "new-password",
	})
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.updated.Password), []byte("new-password")))
}

func TestResetPasswordWrongPurpose(t *testing.T) {
	repo := newFakeUserRepository()
	userID := uuid.New()
	repo.add(&entities.User{ID: userID, Email: "budi@example.com"})
	service := NewUserService(repo, &fakeJWTService{
		claims: jwtlib.MapClaims{"user_id": userID.String(), "purpose": "verify_email"},
	}, &fakeAvatarStorage{})

	err := service.ResetPassword(context.Background(), domain.ResetPasswordRequest{
		Token:    "action-token",
		Password: "new-password",
	})
	assert.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestUploadAvatar(t *testing.T) {
	repo := newFakeUserRepository()
	userID := uuid.New()
	repo.add(&entities.User{ID: userID, Email: "budi@example.com"})
	service := NewUserService(repo, &fakeJWTService{}, &fakeAvatarStorage{})

	url, err := service.UploadAvatar(context.Background(), domain.UploadAvatarRequest{
		Avatar: &multipart.FileHeader{Filename: "me.png"},
	}, userID.String())
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/avatars/avatar-"+userID.String()+".png", url)
	assert.Equal(t, url, repo.updated.AvatarURL)
}

func TestGetUserByTelegramID(t *testing.T) {
	repo := newFakeUserRepository()
	userID := uuid.New()
	repo.add(&entities.User{ID: userID, Email: "budi@example.com", TelegramID: "12345"})
	service := NewUserService(repo, &fakeJWTService{}, &fakeAvatarStorage{})

	user, err := service.GetUserByTelegramID(context.Background(), "12345")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)

	_, err = service.GetUserByTelegramID(context.Background(), "99999")
	assert.ErrorIs(t, err, domain.ErrTelegramNotLinked)
}
