package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/bank_ledger/internal/apperrors"
	"github.com/SscSPs/bank_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/bank_ledger/internal/core/ports/services"
	"github.com/SscSPs/bank_ledger/internal/core/services"
	"github.com/SscSPs/bank_ledger/internal/dto"
	"github.com/SscSPs/bank_ledger/internal/handlers"
	"github.com/SscSPs/bank_ledger/internal/middleware"
	"github.com/SscSPs/bank_ledger/internal/platform/config"
	"github.com/SscSPs/bank_ledger/internal/repositories/memory"
	"github.com/SscSPs/bank_ledger/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// LedgerAPITestSuite drives the full route table against the in-memory store.
type LedgerAPITestSuite struct {
	suite.Suite
	router *gin.Engine
	cfg    *config.Config
	store  *memory.Store
}

func TestLedgerAPITestSuite(t *testing.T) {
	suite.Run(t, new(LedgerAPITestSuite))
}

func (suite *LedgerAPITestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	suite.cfg = &config.Config{
		JWTSecret:         "test-secret-key-that-is-long-enough",
		JWTExpiryDuration: time.Hour,
		JWTIssuer:         "bank-ledger-test",
	}
	suite.store = memory.NewStore(200 * time.Millisecond)
	container := services.NewServiceContainer(suite.cfg, memory.NewRepositoryProvider(suite.store))

	suite.router = gin.New()
	suite.router.Use(middleware.StructuredLoggingMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil))))
	handlers.RegisterRoutes(suite.router, suite.cfg, container, handlers.RateLimiters{})
}

// generateTestToken creates a signed JWT for userID.
func (suite *LedgerAPITestSuite) generateTestToken(userID int64) string {
	claims := jwt.RegisteredClaims{
		Issuer:    "bank-ledger-test",
		Subject:   strconv.FormatInt(userID, 10),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(suite.cfg.JWTSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signed
}

func (suite *LedgerAPITestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			reader = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			suite.Require().NoError(err)
			reader = bytes.NewReader(raw)
		}
	}
	req, err := http.NewRequest(method, path, reader)
	suite.Require().NoError(err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *LedgerAPITestSuite) decode(w *httptest.ResponseRecorder, v any) {
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

func (suite *LedgerAPITestSuite) errorOf(w *httptest.ResponseRecorder) string {
	var resp handlers.ErrorResponse
	suite.decode(w, &resp)
	return resp.Error
}

// signUp registers and logs in a user, returning its id and bearer token.
func (suite *LedgerAPITestSuite) signUp(email string) (int64, string) {
	w := suite.do(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		FullName: "Test User",
		Email:    email,
		Password: "password123",
	})
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var user dto.UserResponse
	suite.decode(w, &user)

	w = suite.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: email, Password: "password123"})
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var login dto.LoginResponse
	suite.decode(w, &login)
	suite.Equal("bearer", login.TokenType)
	return user.UserID, login.AccessToken
}

func (suite *LedgerAPITestSuite) openAccount(token string) dto.AccountResponse {
	w := suite.do(http.MethodPost, "/api/v1/accounts", token, `{}`)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var acc dto.AccountResponse
	suite.decode(w, &acc)
	return acc
}

func (suite *LedgerAPITestSuite) deposit(token string, accountID int64, amount string) *httptest.ResponseRecorder {
	return suite.do(http.MethodPost, "/api/v1/transactions/deposit", token,
		fmt.Sprintf(`{"accountID": %d, "amount": %q}`, accountID, amount))
}

// --- Test Cases ---

func (suite *LedgerAPITestSuite) TestHealth() {
	w := suite.do(http.MethodGet, "/health", "", nil)
	suite.Equal(http.StatusOK, w.Code)
	suite.Equal("OK", w.Body.String())
}

func (suite *LedgerAPITestSuite) TestRegisterLoginAndMe() {
	userID, token := suite.signUp("Alice@Example.com")

	w := suite.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var me dto.UserResponse
	suite.decode(w, &me)
	suite.Equal(userID, me.UserID)
	suite.Equal("alice@example.com", me.Email)
	suite.True(me.IsActive)
	suite.NotContains(w.Body.String(), "password")
}

func (suite *LedgerAPITestSuite) TestRegister_DuplicateEmail() {
	suite.signUp("bob@example.com")
	w := suite.do(http.MethodPost, "/api/v1/auth/register", "", dto.RegisterRequest{
		FullName: "Bob Again", Email: "BOB@example.com", Password: "password123",
	})
	suite.Equal(http.StatusConflict, w.Code)
}

func (suite *LedgerAPITestSuite) TestRegister_InvalidBody() {
	w := suite.do(http.MethodPost, "/api/v1/auth/register", "", `{"fullName":"x","email":"not-an-email","password":"short"}`)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LedgerAPITestSuite) TestLogin_WrongPassword() {
	suite.signUp("carol@example.com")
	w := suite.do(http.MethodPost, "/api/v1/auth/login", "", dto.LoginRequest{Email: "carol@example.com", Password: "wrong-password"})
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal("Incorrect email or password", suite.errorOf(w))
}

func (suite *LedgerAPITestSuite) TestProtectedRoutesNeedToken() {
	w := suite.do(http.MethodGet, "/api/v1/accounts/me", "", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/accounts/me", "garbage", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *LedgerAPITestSuite) TestOpenAndListAccounts() {
	userID, token := suite.signUp("dave@example.com")

	acc := suite.openAccount(token)
	suite.Equal(domain.Savings, acc.AccountType)
	suite.Equal("0.00", acc.Balance)
	suite.Equal(userID, acc.OwnerID)
	suite.Len(acc.AccountNumber, 12)

	w := suite.do(http.MethodPost, "/api/v1/accounts", token, `{"accountType":"checking"}`)
	suite.Require().Equal(http.StatusCreated, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/accounts", token, `{"accountType":"brokerage"}`)
	suite.Equal(http.StatusBadRequest, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/accounts/me", token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var accounts []dto.AccountResponse
	suite.decode(w, &accounts)
	suite.Len(accounts, 2)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%d", acc.AccountID), token, nil)
	suite.Equal(http.StatusOK, w.Code)
}

func (suite *LedgerAPITestSuite) TestGetAccount_OwnershipAndMissing() {
	_, owner := suite.signUp("erin@example.com")
	_, other := suite.signUp("frank@example.com")
	acc := suite.openAccount(owner)

	w := suite.do(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%d", acc.AccountID), other, nil)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/accounts/999999", owner, nil)
	suite.Equal(http.StatusNotFound, w.Code)

	w = suite.do(http.MethodGet, "/api/v1/accounts/abc", owner, nil)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LedgerAPITestSuite) TestDepositWithdrawAndHistory() {
	_, token := suite.signUp("grace@example.com")
	acc := suite.openAccount(token)

	w := suite.deposit(token, acc.AccountID, "100.50")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var rec dto.TransactionResponse
	suite.decode(w, &rec)
	suite.Equal("100.50", rec.Amount)
	suite.Equal(domain.Deposit, rec.TransactionType)
	suite.Equal(domain.StatusCompleted, rec.Status)
	suite.Nil(rec.Description)

	w = suite.do(http.MethodPost, "/api/v1/transactions/withdraw", token,
		fmt.Sprintf(`{"accountID": %d, "amount": 0.5, "description": "atm"}`, acc.AccountID))
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.do(http.MethodPost, "/api/v1/transactions/withdraw", token,
		fmt.Sprintf(`{"accountID": %d, "amount": "100.01"}`, acc.AccountID))
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("insufficient funds", suite.errorOf(w))

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/v1/accounts/%d", acc.AccountID), token, nil)
	var got dto.AccountResponse
	suite.decode(w, &got)
	suite.Equal("100.00", got.Balance)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/v1/transactions/history/%d", acc.AccountID), token, nil)
	suite.Require().Equal(http.StatusOK, w.Code)
	var history []dto.TransactionResponse
	suite.decode(w, &history)
	suite.Require().Len(history, 2)
	suite.Equal(domain.Withdrawal, history[0].TransactionType)
	suite.Require().NotNil(history[0].Description)
	suite.Equal("atm", *history[0].Description)
	suite.Equal(domain.Deposit, history[1].TransactionType)
}

func (suite *LedgerAPITestSuite) TestDeposit_InvalidAmounts() {
	_, token := suite.signUp("heidi@example.com")
	acc := suite.openAccount(token)

	for _, amount := range []string{"0", "-5", "1.005"} {
		w := suite.deposit(token, acc.AccountID, amount)
		suite.Equal(http.StatusBadRequest, w.Code, amount)
		suite.Equal("amount must be greater than 0 with at most 2 decimal places", suite.errorOf(w), amount)
	}

	w := suite.do(http.MethodPost, "/api/v1/transactions/deposit", token, fmt.Sprintf(`{"accountID": %d}`, acc.AccountID))
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LedgerAPITestSuite) TestDeposit_NotFoundBeatsInvalidAmount() {
	_, token := suite.signUp("ivan@example.com")
	w := suite.deposit(token, 424242, "-1")
	suite.Equal(http.StatusNotFound, w.Code)
	suite.Equal("account not found", suite.errorOf(w))
}

func (suite *LedgerAPITestSuite) TestTransfer() {
	_, alice := suite.signUp("judy@example.com")
	_, bob := suite.signUp("mallory@example.com")
	from := suite.openAccount(alice)
	to := suite.openAccount(bob)
	suite.Require().Equal(http.StatusOK, suite.deposit(alice, from.AccountID, "50").Code)

	body := fmt.Sprintf(`{"fromAccountID": %d, "toAccountID": %d, "amount": "20.25", "description": "rent"}`, from.AccountID, to.AccountID)
	w := suite.do(http.MethodPost, "/api/v1/transactions/transfer", alice, body)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var rec dto.TransactionResponse
	suite.decode(w, &rec)
	suite.Equal(domain.Transfer, rec.TransactionType)
	suite.Equal(from.AccountID, rec.AccountID)
	suite.Require().NotNil(rec.Description)
	suite.Equal(fmt.Sprintf("Transfer to account %s: rent", to.AccountNumber), *rec.Description)

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/v1/transactions/history/%d", to.AccountID), bob, nil)
	var history []dto.TransactionResponse
	suite.decode(w, &history)
	suite.Require().Len(history, 1)
	suite.Equal(domain.Transfer, history[0].TransactionType)
	suite.Equal("20.25", history[0].Amount)
	suite.Require().NotNil(history[0].Description)
	suite.Equal(fmt.Sprintf("Transfer from account %s: rent", from.AccountNumber), *history[0].Description)

	// the receiver cannot move money out of the sender's account
	w = suite.do(http.MethodPost, "/api/v1/transactions/transfer", bob, body)
	suite.Equal(http.StatusForbidden, w.Code)

	w = suite.do(http.MethodPost, "/api/v1/transactions/transfer", alice,
		fmt.Sprintf(`{"fromAccountID": %d, "toAccountID": %d, "amount": "1"}`, from.AccountID, from.AccountID))
	suite.Equal(http.StatusBadRequest, w.Code)
	suite.Equal("cannot transfer to same account", suite.errorOf(w))

	w = suite.do(http.MethodGet, fmt.Sprintf("/api/v1/transactions/history/%d", from.AccountID), bob, nil)
	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *LedgerAPITestSuite) TestDescriptionTooLong() {
	_, token := suite.signUp("niaj@example.com")
	acc := suite.openAccount(token)
	body := fmt.Sprintf(`{"accountID": %d, "amount": "1", "description": %q}`, acc.AccountID, strings.Repeat("x", 201))
	w := suite.do(http.MethodPost, "/api/v1/transactions/deposit", token, body)
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LedgerAPITestSuite) TestTokenForUnknownUser() {
	w := suite.do(http.MethodGet, "/api/v1/auth/me", suite.generateTestToken(777), nil)
	suite.Equal(http.StatusNotFound, w.Code)
}

// --- Stubbed ledger for failure modes the store cannot easily produce ---

type stubLedger struct {
	portssvc.LedgerSvcFacade
	err error
}

func (s stubLedger) Withdraw(context.Context, int64, decimal.Decimal, string, int64) (*domain.Transaction, error) {
	return nil, s.err
}

func TestWithdraw_ContentionAndInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWTSecret: "test-secret-key-that-is-long-enough"}
	token, err := utils.GenerateJWT(1, cfg.JWTSecret, time.Hour, "bank-ledger-test")
	require.NoError(t, err)

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantError  string
		retryAfter string
	}{
		{"contention", fmt.Errorf("lock account 1: %w", apperrors.ErrContention), http.StatusConflict, "account is busy, please retry", "1"},
		{"infrastructure", errors.New("connection reset"), http.StatusInternalServerError, "Failed to withdraw", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			handlers.RegisterRoutes(router, cfg, &portssvc.ServiceContainer{Ledger: stubLedger{err: tt.err}}, handlers.RateLimiters{})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/transactions/withdraw", strings.NewReader(`{"accountID": 1, "amount": "5"}`))
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.retryAfter, w.Header().Get("Retry-After"))
			var resp handlers.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantError, resp.Error)
		})
	}
}

func TestLoginRateLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWTSecret: "test-secret-key-that-is-long-enough", JWTExpiryDuration: time.Hour}
	container := services.NewServiceContainer(cfg, memory.NewRepositoryProvider(memory.NewStore(time.Second)))
	loginLimiter, err := middleware.NewRateLimiter("2-M", "test-login", nil)
	require.NoError(t, err)

	router := gin.New()
	handlers.RegisterRoutes(router, cfg, container, handlers.RateLimiters{Login: loginLimiter})

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", strings.NewReader(`{"email":"nobody@example.com","password":"password123"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}
