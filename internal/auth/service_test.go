package auth

import (
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"

	userDatamodel "github.com/frahmantamala/course-platform/internal/core/datamodel/user"
)

func TestAuth(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Auth Module Suite")
}

// Mock user repository backed by maps.
type mockUserRepository struct {
	usersByEmail  map[string]*userDatamodel.User
	usersByID     map[int64]*userDatamodel.User
	nextID        int64
	returnError   bool
	errorToReturn error
}

func newMockUserRepository() *mockUserRepository {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("correct_password"), bcrypt.MinCost)

	m := &mockUserRepository{
		usersByEmail: make(map[string]*userDatamodel.User),
		usersByID:    make(map[int64]*userDatamodel.User),
		nextID:       1,
	}

	m.add(&userDatamodel.User{
		Email:        "user@example.com",
		Phone:        "9876543210",
		FirstName:    "Regular",
		PasswordHash: string(hashedPassword),
		Role:         userDatamodel.RoleUser,
		IsActive:     true,
	})
	m.add(&userDatamodel.User{
		Email:        "admin@example.com",
		Phone:        "9876543211",
		FirstName:    "Admin",
		PasswordHash: string(hashedPassword),
		Role:         userDatamodel.RoleAdmin,
		IsActive:     true,
	})
	m.add(&userDatamodel.User{
		Email:        "inactive@example.com",
		Phone:        "9876543212",
		FirstName:    "Inactive",
		PasswordHash: string(hashedPassword),
		Role:         userDatamodel.RoleUser,
		IsActive:     false,
	})

	return m
}

func (m *mockUserRepository) add(u *userDatamodel.User) {
	u.ID = m.nextID
	m.nextID++
	m.usersByEmail[u.Email] = u
	m.usersByID[u.ID] = u
}

func (m *mockUserRepository) GetByEmail(email string) (*userDatamodel.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if u, ok := m.usersByEmail[email]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (m *mockUserRepository) GetByID(userID int64) (*userDatamodel.User, error) {
	if m.returnError {
		return nil, m.errorToReturn
	}
	if u, ok := m.usersByID[userID]; ok {
		return u, nil
	}
	return nil, errors.New("user not found")
}

func (m *mockUserRepository) Create(u *userDatamodel.User) error {
	if m.returnError {
		return m.errorToReturn
	}
	m.add(u)
	return nil
}

func (m *mockUserRepository) SetOTP(userID int64, otp string, generatedAt time.Time) error {
	if m.returnError {
		return m.errorToReturn
	}
	u := m.usersByID[userID]
	u.OTP = &otp
	u.OTPGeneratedAt = &generatedAt
	return nil
}

func (m *mockUserRepository) ClearOTP(userID int64) error {
	if m.returnError {
		return m.errorToReturn
	}
	u := m.usersByID[userID]
	u.OTP = nil
	u.OTPGeneratedAt = nil
	u.IsVerified = true
	return nil
}

type mockOTPSender struct {
	sentTo    []string
	sentCodes []string
	failWith  error
}

func (m *mockOTPSender) SendOTP(email, code string) error {
	if m.failWith != nil {
		return m.failWith
	}
	m.sentTo = append(m.sentTo, email)
	m.sentCodes = append(m.sentCodes, code)
	return nil
}

var _ = ginkgo.Describe("AuthService", func() {
	var (
		service   *Service
		mockRepo  *mockUserRepository
		sender    *mockOTPSender
		tokenGen  *JWTTokenGenerator
		testClock time.Time
	)

	ginkgo.BeforeEach(func() {
		mockRepo = newMockUserRepository()
		sender = &mockOTPSender{}
		tokenGen = NewJWTTokenGenerator(
			"test-access-secret-test-access-secret",
			"test-refresh-secret-test-refresh-sec",
			15*time.Minute,
			5*time.Minute,
		)
		lg := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = NewService(mockRepo, tokenGen, sender, bcrypt.MinCost, 5*time.Minute, lg)

		testClock = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
		service.now = func() time.Time { return testClock }
	})

	ginkgo.Describe("Register", func() {
		ginkgo.It("creates the user and sends a verification code", func() {
			u, err := service.Register(RegisterDTO{
				Email:     "new@example.com",
				Phone:     "9123456789",
				FirstName: "New",
				Password:  "secure_password",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(u.ID).ToNot(gomega.BeZero())
			gomega.Expect(u.Role).To(gomega.Equal(userDatamodel.RoleUser))
			gomega.Expect(sender.sentTo).To(gomega.ContainElement("new@example.com"))
		})

		ginkgo.It("rejects a duplicate email", func() {
			_, err := service.Register(RegisterDTO{
				Email:     "user@example.com",
				Phone:     "9123456789",
				FirstName: "Dup",
				Password:  "secure_password",
			})

			gomega.Expect(err).To(gomega.Equal(ErrEmailTaken))
		})

		ginkgo.It("rejects a short password", func() {
			_, err := service.Register(RegisterDTO{
				Email:     "short@example.com",
				Phone:     "9123456789",
				FirstName: "Short",
				Password:  "short",
			})

			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})

	ginkgo.Describe("Authenticate", func() {
		ginkgo.It("returns tokens for valid credentials", func() {
			tokens, err := service.Authenticate(LoginDTO{
				Email:    "user@example.com",
				Password: "correct_password",
			})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
			gomega.Expect(tokens.RefreshToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("rejects a wrong password", func() {
			_, err := service.Authenticate(LoginDTO{
				Email:    "user@example.com",
				Password: "wrong_password",
			})

			gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
		})

		ginkgo.It("rejects an unknown email with the same error as a bad password", func() {
			_, err := service.Authenticate(LoginDTO{
				Email:    "nobody@example.com",
				Password: "correct_password",
			})

			gomega.Expect(err).To(gomega.Equal(ErrInvalidCredentials))
		})

		ginkgo.It("rejects an inactive account", func() {
			_, err := service.Authenticate(LoginDTO{
				Email:    "inactive@example.com",
				Password: "correct_password",
			})

			gomega.Expect(err).To(gomega.Equal(ErrUserInactive))
		})
	})

	ginkgo.Describe("RefreshTokens", func() {
		ginkgo.It("issues a fresh pair from a valid refresh token", func() {
			tokens, err := service.Authenticate(LoginDTO{
				Email:    "user@example.com",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			refreshed, err := service.RefreshTokens(tokens.RefreshToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(refreshed.AccessToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("rejects garbage tokens", func() {
			_, err := service.RefreshTokens("not-a-token")
			gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
		})
	})

	ginkgo.Describe("SendOTP", func() {
		ginkgo.It("stores and delivers a 4-digit code", func() {
			err := service.SendOTP("user@example.com")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sender.sentCodes).To(gomega.HaveLen(1))
			gomega.Expect(sender.sentCodes[0]).To(gomega.MatchRegexp(`^[0-9]{4}$`))

			u := mockRepo.usersByEmail["user@example.com"]
			gomega.Expect(u.OTP).ToNot(gomega.BeNil())
			gomega.Expect(*u.OTPGeneratedAt).To(gomega.Equal(testClock))
		})

		ginkgo.It("does not reveal whether the account exists", func() {
			err := service.SendOTP("stranger@example.com")

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(sender.sentTo).To(gomega.BeEmpty())
		})

		ginkgo.It("replaces a previous code on resend", func() {
			gomega.Expect(service.SendOTP("user@example.com")).To(gomega.Succeed())
			first := *mockRepo.usersByEmail["user@example.com"].OTP

			// resend until the random code differs, bounded
			changed := false
			for i := 0; i < 50 && !changed; i++ {
				gomega.Expect(service.SendOTP("user@example.com")).To(gomega.Succeed())
				changed = *mockRepo.usersByEmail["user@example.com"].OTP != first
			}
			gomega.Expect(changed).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("VerifyOTP", func() {
		var code string

		ginkgo.BeforeEach(func() {
			gomega.Expect(service.SendOTP("user@example.com")).To(gomega.Succeed())
			code = *mockRepo.usersByEmail["user@example.com"].OTP
		})

		ginkgo.It("accepts the correct code inside the window and issues tokens", func() {
			testClock = testClock.Add(4*time.Minute + 59*time.Second)

			tokens, err := service.VerifyOTP(VerifyOTPDTO{Email: "user@example.com", OTP: code})

			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(tokens.AccessToken).ToNot(gomega.BeEmpty())
		})

		ginkgo.It("rejects the code at exactly the TTL boundary", func() {
			testClock = testClock.Add(5 * time.Minute)

			_, err := service.VerifyOTP(VerifyOTPDTO{Email: "user@example.com", OTP: code})

			gomega.Expect(err).To(gomega.Equal(ErrOTPExpired))
		})

		ginkgo.It("rejects the code after the TTL", func() {
			testClock = testClock.Add(5*time.Minute + 1*time.Second)

			_, err := service.VerifyOTP(VerifyOTPDTO{Email: "user@example.com", OTP: code})

			gomega.Expect(err).To(gomega.Equal(ErrOTPExpired))
		})

		ginkgo.It("rejects a wrong code", func() {
			wrong := "0000"
			if code == wrong {
				wrong = "1111"
			}

			_, err := service.VerifyOTP(VerifyOTPDTO{Email: "user@example.com", OTP: wrong})

			gomega.Expect(err).To(gomega.Equal(ErrInvalidOTP))
		})

		ginkgo.It("clears the code after successful use so it cannot be replayed", func() {
			_, err := service.VerifyOTP(VerifyOTPDTO{Email: "user@example.com", OTP: code})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.VerifyOTP(VerifyOTPDTO{Email: "user@example.com", OTP: code})
			gomega.Expect(err).To(gomega.Equal(ErrInvalidOTP))
		})

		ginkgo.It("marks the account verified on success", func() {
			_, err := service.VerifyOTP(VerifyOTPDTO{Email: "user@example.com", OTP: code})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(mockRepo.usersByEmail["user@example.com"].IsVerified).To(gomega.BeTrue())
		})
	})

	ginkgo.Describe("ValidateAccessToken", func() {
		ginkgo.It("returns claims with the user's role", func() {
			tokens, err := service.Authenticate(LoginDTO{
				Email:    "admin@example.com",
				Password: "correct_password",
			})
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			claims, err := service.ValidateAccessToken(tokens.AccessToken)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())
			gomega.Expect(claims.Role).To(gomega.Equal(userDatamodel.RoleAdmin))
			gomega.Expect(claims.Scope).To(gomega.Equal(ScopeSession))
		})

		ginkgo.It("rejects a short-scope token for session use", func() {
			short, err := tokenGen.GenerateShortToken("1", "user@example.com", userDatamodel.RoleUser)
			gomega.Expect(err).ToNot(gomega.HaveOccurred())

			_, err = service.ValidateAccessToken(short)
			gomega.Expect(err).To(gomega.Equal(ErrInvalidToken))
		})
	})
})
