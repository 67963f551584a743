package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

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
func (m *mockAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	args := m.Called(ctx, email)
	if a, _ := args.Get(0).(*domain.Account); a != nil {
		return a, args.Error(1)
	}
	return nil, args.Error(1)
}
func (m *mockAccountStore) GetByPhone(ctx context.Context, phoneNumber string) (*domain.Account, error) {
	args := m.Called(ctx, phoneNumber)
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

// --- Send ---

func TestSend_AlreadyVerified(t *testing.T) {
	as := &mockAccountStore{}
	acct := &domain.Account{
		AccountID:     "acc1",
		Verifications: map[string]bool{domain.ChannelEmail: true},
	}
	as.On("Get", mock.Anything, "acc1").Return(acct, nil)

	svc := newService(as, nil, nil)
	err := svc.Send(context.Background(), "acc1", domain.SendVerificationRequest{Type: "email"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSend_Email_IssuesAndMailsCode(t *testing.T) {
	as := &mockAccountStore{}
	ml := &mockMailer{}

	acct := &domain.Account{AccountID: "acc1", Email: "a@b.com"}
	as.On("Get", mock.Anything, "acc1").Return(acct, nil)
	as.On("Update", mock.Anything, "acc1", mock.MatchedBy(func(u map[string]interface{}) bool {
		codes, ok := u["verification_codes"].(map[string]domain.VerificationCode)
		return ok && len(codes[domain.ChannelEmail].Code) == 6
	})).Return(nil)
	ml.On("SendEmail", "a@b.com", mock.Anything, mock.Anything).Return(nil)

	svc := newService(as, ml, nil)
	require.NoError(t, svc.Send(context.Background(), "acc1", domain.SendVerificationRequest{Type: "email"}))
	as.AssertExpectations(t)
	ml.AssertExpectations(t)
}

func TestSend_Email_ReissueOverwrites(t *testing.T) {
	as := &mockAccountStore{}
	ml := &mockMailer{}

	acct := &domain.Account{
		AccountID: "acc1",
		Email:     "a@b.com",
		Codes: map[string]domain.VerificationCode{
			domain.ChannelEmail: {Code: "111111", ExpiresAt: time.Now().Add(time.Minute).Unix()},
		},
	}
	as.On("Get", mock.Anything, "acc1").Return(acct, nil)
	as.On("Update", mock.Anything, "acc1", mock.MatchedBy(func(u map[string]interface{}) bool {
		codes := u["verification_codes"].(map[string]domain.VerificationCode)
		// one pending code per channel, the old one is gone
		return len(codes) == 1 && codes[domain.ChannelEmail].Code != "111111"
	})).Return(nil)
	ml.On("SendEmail", "a@b.com", mock.Anything, mock.Anything).Return(nil)

	svc := newService(as, ml, nil)
	require.NoError(t, svc.Send(context.Background(), "acc1", domain.SendVerificationRequest{Type: "email"}))
	as.AssertExpectations(t)
}

func TestSend_Mobile_MissingNumber(t *testing.T) {
	as := &mockAccountStore{}
	as.On("Get", mock.Anything, "acc1").Return(&domain.Account{AccountID: "acc1"}, nil)

	svc := newService(as, nil, nil)
	err := svc.Send(context.Background(), "acc1", domain.SendVerificationRequest{Type: "mobile"})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrBadRequest))
}

func TestSend_Mobile_NumberHeldByAnotherAccount(t *testing.T) {
	as := &mockAccountStore{}
	as.On("Get", mock.Anything, "acc1").Return(&domain.Account{AccountID: "acc1"}, nil)
	as.On("GetByPhone", mock.Anything, "+2348012345678").Return(&domain.Account{AccountID: "acc2"}, nil)

	svc := newService(as, nil, nil)
	err := svc.Send(context.Background(), "acc1", domain.SendVerificationRequest{
		Type:   "mobile",
		Mobile: &domain.Mobile{PhoneNumber: "+2348012345678", ISOCode: "NG"},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrConflict))
}

func TestSend_Mobile_AdoptsNumberAndSendsSMS(t *testing.T) {
	as := &mockAccountStore{}
	sms := &mockSMSSender{}

	as.On("Get", mock.Anything, "acc1").Return(&domain.Account{AccountID: "acc1"}, nil)
	as.On("GetByPhone", mock.Anything, "+2348012345678").Return(nil, domain.ErrNotFound)
	as.On("Update", mock.Anything, "acc1", mock.MatchedBy(func(u map[string]interface{}) bool {
		_, hasMobile := u["mobile"]
		return hasMobile && u["phone_number"] == "+2348012345678"
	})).Return(nil)
	sms.On("SendSMS", mock.Anything, "+2348012345678", mock.Anything).Return(nil)

	svc := newService(as, nil, sms)
	err := svc.Send(context.Background(), "acc1", domain.SendVerificationRequest{
		Type:   "mobile",
		Mobile: &domain.Mobile{PhoneNumber: "+2348012345678", ISOCode: "NG"},
	})

	require.NoError(t, err)
	as.AssertExpectations(t)
	sms.AssertExpectations(t)
}

// --- VerifyEmail / VerifyMobile ---

func pendingEmailAccount(code string, expiresAt int64) *domain.Account {
	return &domain.Account{
		AccountID:     "acc1",
		Email:         "a@b.com",
		Stage:         verify.StageSignedUp,
		Verifications: map[string]bool{},
		Codes: map[string]domain.VerificationCode{
			domain.ChannelEmail: {Code: code, ExpiresAt: expiresAt},
		},
	}
}

func TestVerifyEmail_HappyPath_AdvancesStage(t *testing.T) {
	as := &mockAccountStore{}
	acct := pendingEmailAccount("123456", time.Now().Add(time.Minute).Unix())
	as.On("GetByEmail", mock.Anything, "a@b.com").Return(acct, nil)
	as.On("Update", mock.Anything, "acc1", mock.MatchedBy(func(u map[string]interface{}) bool {
		flags := u["verifications"].(map[string]bool)
		codes := u["verification_codes"].(map[string]domain.VerificationCode)
		_, still := codes[domain.ChannelEmail]
		return flags[domain.ChannelEmail] && !still && u["onboarding_stage"] == verify.StageVerification
	})).Return(nil)

	svc := newService(as, nil, nil)
	updated, err := svc.VerifyEmail(context.Background(), domain.VerifyEmailRequest{
		Email: "a@b.com", VerificationCode: "123456",
	})

	require.NoError(t, err)
	assert.True(t, updated.Verified(domain.ChannelEmail))
	assert.Equal(t, verify.StageVerification, updated.Stage)
	as.AssertExpectations(t)
}

func TestVerifyEmail_AlreadyVerified(t *testing.T) {
	as := &mockAccountStore{}
	acct := pendingEmailAccount("123456", time.Now().Add(time.Minute).Unix())
	acct.Verifications[domain.ChannelEmail] = true
	as.On("GetByEmail", mock.Anything, "a@b.com").Return(acct, nil)

	svc := newService(as, nil, nil)
	_, err := svc.VerifyEmail(context.Background(), domain.VerifyEmailRequest{
		Email: "a@b.com", VerificationCode: "123456",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, verify.ErrAlreadyVerified))
	assert.True(t, errors.Is(err, domain.ErrUnauthorized))
}

func TestVerifyEmail_ExpiredOneSecondPast(t *testing.T) {
	as := &mockAccountStore{}
	acct := pendingEmailAccount("123456", time.Now().Add(-time.Second).Unix())
	as.On("GetByEmail", mock.Anything, "a@b.com").Return(acct, nil)

	svc := newService(as, nil, nil)
	_, err := svc.VerifyEmail(context.Background(), domain.VerifyEmailRequest{
		Email: "a@b.com", VerificationCode: "123456",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, verify.ErrCodeExpired))
}

func TestVerifyEmail_WrongCode(t *testing.T) {
	as := &mockAccountStore{}
	acct := pendingEmailAccount("123456", time.Now().Add(time.Minute).Unix())
	as.On("GetByEmail", mock.Anything, "a@b.com").Return(acct, nil)

	svc := newService(as, nil, nil)
	_, err := svc.VerifyEmail(context.Background(), domain.VerifyEmailRequest{
		Email: "a@b.com", VerificationCode: "000000",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, verify.ErrCodeMismatch))
}

func TestVerifyMobile_HappyPath(t *testing.T) {
	as := &mockAccountStore{}
	acct := &domain.Account{
		AccountID:     "acc1",
		PhoneNumber:   "+2348012345678",
		Stage:         verify.StageVerification,
		Verifications: map[string]bool{domain.ChannelEmail: true},
		Codes: map[string]domain.VerificationCode{
			domain.ChannelMobile: {Code: "123456", ExpiresAt: time.Now().Add(time.Minute).Unix()},
		},
	}
	as.On("GetByPhone", mock.Anything, "+2348012345678").Return(acct, nil)
	as.On("Update", mock.Anything, "acc1", mock.MatchedBy(func(u map[string]interface{}) bool {
		flags := u["verifications"].(map[string]bool)
		// stage does not move past VERIFICATION here
		return flags[domain.ChannelMobile] && u["onboarding_stage"] == verify.StageVerification
	})).Return(nil)

	svc := newService(as, nil, nil)
	updated, err := svc.VerifyMobile(context.Background(), domain.VerifyMobileRequest{
		PhoneNumber: "+2348012345678", VerificationCode: "123456",
	})

	require.NoError(t, err)
	assert.True(t, updated.Verified(domain.ChannelMobile))
	as.AssertExpectations(t)
}

func TestVerifyMobile_UnknownNumber(t *testing.T) {
	as := &mockAccountStore{}
	as.On("GetByPhone", mock.Anything, "+2340000000000").Return(nil, domain.ErrNotFound)

	svc := newService(as, nil, nil)
	_, err := svc.VerifyMobile(context.Background(), domain.VerifyMobileRequest{
		PhoneNumber: "+2340000000000", VerificationCode: "123456",
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
