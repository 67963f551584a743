package password

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bentopay/auth-api/internal/domain"
	"github.com/bentopay/auth-api/internal/verify"
)

// --- mocks ---

type mockAccountStore struct{ mock.Mock }

func (m *mockAccountStore) Get(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAccountStore) GetByEmailOrPhone(ctx context.Context, username string) (*domain.Account, error) {
	args := m.Called(ctx, username)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAccountStore) Update(ctx context.Context, accountID string, updates map[string]interface{}) error {
	return m.Called(ctx, accountID, updates).Error(0)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) SendEmail(to, subject, body string) error {
	return m.Called(to, subject, body).Error(0)
}

type mockSMSSender struct{ mock.Mock }

func (m *mockSMSSender) SendSMS(ctx context.Context, to, msg string) error {
	return m.Called(ctx, to, msg).Error(0)
}

func newService(as *mockAccountStore, ml *mockMailer, sms *mockSMSSender) Service {
	return NewService(ServiceDeps{AccountRepo: as, Mailer: ml, SMSSender: sms})
}

func hashPassword(t *testing.T, pw string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

// --- Forgot ---

func TestForgot_NoIdentifier(t *testing.T) {
	svc := newService(nil, nil, nil)
	err := svc.Forgot(context.Background(), domain.ForgotPasswordRequest{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestForgot_UnknownUser(t *testing.T) {
	as := &mockAccountStore{}
	as.On("GetByEmailOrPhone", mock.Anything, "a@b.com").Return(nil, domain.ErrNotFound)

	svc := newService(as, nil, nil)
	err := svc.Forgot(context.Background(), domain.ForgotPasswordRequest{Email: "a@b.com"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestForgot_Email_StoresCodeAndMails(t *testing.T) {
	as := &mockAccountStore{}
	ml := &mockMailer{}

	acct := &domain.Account{AccountID: "acc1", Email: "a@b.com"}
	as.On("GetByEmailOrPhone", mock.Anything, "a@b.com").Return(acct, nil)
	as.On("Update", mock.Anything, "acc1", mock.MatchedBy(func(u map[string]interface{}) bool {
		codes, ok := u["verification_codes"].(map[string]domain.VerificationCode)
		return ok && len(codes[domain.ChannelResetPassword].Code) == 6
	})).Return(nil)
	ml.On("SendEmail", "a@b.com", mock.Anything, mock.Anything).Return(nil)

	svc := newService(as, ml, nil)
	err := svc.Forgot(context.Background(), domain.ForgotPasswordRequest{Email: "a@b.com"})

	require.NoError(t, err)
	as.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestForgot_Phone_SendsSMS(t *testing.T) {
	as := &mockAccountStore{}
	sms := &mockSMSSender{}

	acct := &domain.Account{AccountID: "acc1", PhoneNumber: "+2348012345678"}
	as.On("GetByEmailOrPhone", mock.Anything, "+2348012345678").Return(acct, nil)
	as.On("Update", mock.Anything, "acc1", mock.Anything).Return(nil)
	sms.On("SendSMS", mock.Anything, "+2348012345678", mock.Anything).Return(nil)

	svc := newService(as, nil, sms)
	err := svc.Forgot(context.Background(), domain.ForgotPasswordRequest{PhoneNumber: "+2348012345678"})

	require.NoError(t, err)
	sms.AssertExpectations(t)
}

func TestForgot_OverwritesPreviousCode(t *testing.T) {
	as := &mockAccountStore{}
	ml := &mockMailer{}

	acct := &domain.Account{
		AccountID: "acc1",
		Email:     "a@b.com",
		Codes: map[string]domain.VerificationCode{
			domain.ChannelResetPassword: {Code: "111111", ExpiresAt: time.Now().Add(time.Minute).Unix()},
		},
	}
	as.On("GetByEmailOrPhone", mock.Anything, "a@b.com").Return(acct, nil)
	as.On("Update", mock.Anything, "acc1", mock.MatchedBy(func(u map[string]interface{}) bool {
		codes := u["verification_codes"].(map[string]domain.VerificationCode)
		return codes[domain.ChannelResetPassword].Code != "111111"
	})).Return(nil)
	ml.On("SendEmail", "a@b.com", mock.Anything, mock.Anything).Return(nil)

	svc := newService(as, ml, nil)
	require.NoError(t, svc.Forgot(context.Background(), domain.ForgotPasswordRequest{Email: "a@b.com"}))
	as.AssertExpectations(t)
}

// --- Reset ---

func TestReset_WrongCode(t *testing.T) {
	as := &mockAccountStore{}
	acct := &domain.Account{
		AccountID: "acc1",
		Codes: map[string]domain.VerificationCode{
			domain.ChannelResetPassword: {Code: "123456", ExpiresAt: time.Now().Add(time.Minute).Unix()},
		},
	}
	as.On("GetByEmailOrPhone", mock.Anything, "a@b.com").Return(acct, nil)

	svc := newService(as, nil, nil)
	err := svc.Reset(context.Background(), domain.ResetPasswordRequest{
		Email: "a@b.com", VerificationCode: "654321", Password: "newpassword1",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
	assert.True(t, errors.Is(err, verify.ErrCodeMismatch))
}

func TestReset_ExpiredCode(t *testing.T) {
	as := &mockAccountStore{}
	acct := &domain.Account{
		AccountID: "acc1",
		Codes: map[string]domain.VerificationCode{
			domain.ChannelResetPassword: {Code: "123456", ExpiresAt: time.Now().Add(-time.Second).Unix()},
		},
	}
	as.On("GetByEmailOrPhone", mock.Anything, "a@b.com").Return(acct, nil)

	svc := newService(as, nil, nil)
	err := svc.Reset(context.Background(), domain.ResetPasswordRequest{
		Email: "a@b.com", VerificationCode: "123456", Password: "newpassword1",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, verify.ErrCodeExpired))
}

func TestReset_HappyPath_ClearsCodeAndRehashes(t *testing.T) {
	as := &mockAccountStore{}
	acct := &domain.Account{
		AccountID: "acc1",
		Codes: map[string]domain.VerificationCode{
			domain.ChannelResetPassword: {Code: "123456", ExpiresAt: time.Now().Add(time.Minute).Unix()},
		},
	}
	as.On("GetByEmailOrPhone", mock.Anything, "a@b.com").Return(acct, nil)
	as.On("Update", mock.Anything, "acc1", mock.MatchedBy(func(u map[string]interface{}) bool {
		hash, _ := u["password_hash"].(string)
		codes, _ := u["verification_codes"].(map[string]domain.VerificationCode)
		_, still := codes[domain.ChannelResetPassword]
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword1")) == nil && !still
	})).Return(nil)

	svc := newService(as, nil, nil)
	err := svc.Reset(context.Background(), domain.ResetPasswordRequest{
		Email: "a@b.com", VerificationCode: "123456", Password: "newpassword1",
	})

	require.NoError(t, err)
	as.AssertExpectations(t)
}

// --- Change ---

func TestChange_WrongCurrentPassword(t *testing.T) {
	as := &mockAccountStore{}
	acct := &domain.Account{AccountID: "acc1", PasswordHash: hashPassword(t, "oldpassword1")}
	as.On("Get", mock.Anything, "acc1").Return(acct, nil)

	svc := newService(as, nil, nil)
	err := svc.Change(context.Background(), "acc1", domain.ChangePasswordRequest{
		CurrentPassword: "notthepassword", Password: "newpassword1",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestChange_HappyPath(t *testing.T) {
	as := &mockAccountStore{}
	acct := &domain.Account{AccountID: "acc1", PasswordHash: hashPassword(t, "oldpassword1")}
	as.On("Get", mock.Anything, "acc1").Return(acct, nil)
	as.On("Update", mock.Anything, "acc1", mock.MatchedBy(func(u map[string]interface{}) bool {
		hash, _ := u["password_hash"].(string)
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte("newpassword1")) == nil
	})).Return(nil)

	svc := newService(as, nil, nil)
	err := svc.Change(context.Background(), "acc1", domain.ChangePasswordRequest{
		CurrentPassword: "oldpassword1", Password: "newpassword1",
	})

	require.NoError(t, err)
	as.AssertExpectations(t)
}
