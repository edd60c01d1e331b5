package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/lendbook/lendbook-backend/internal/domain"
	"github.com/lendbook/lendbook-backend/internal/service"
	"github.com/lendbook/lendbook-backend/internal/testutil"
)

type transactionHandlerFixture struct {
	e           *echo.Echo
	handler     *DebitCardTransactionHandler
	cardService *service.DebitCardService
	service     *service.DebitCardTransactionService
	userID      uuid.UUID
}

func newTransactionHandlerFixture() *transactionHandlerFixture {
	cardRepo := testutil.NewMockDebitCardRepository()
	cardService := service.NewDebitCardService(cardRepo)
	transactionService := service.NewDebitCardTransactionService(
		testutil.NewMockDebitCardTransactionRepository(),
		cardRepo,
	)
	return &transactionHandlerFixture{
		e:           echo.New(),
		handler:     NewDebitCardTransactionHandler(transactionService),
		cardService: cardService,
		service:     transactionService,
		userID:      uuid.New(),
	}
}

func (f *transactionHandlerFixture) request(t *testing.T, method, path, body string) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := f.e.NewContext(req, rec)
	setupAuthContextWithUser(c, "auth0|txns", "txns@example.com", "", f.userID)
	return rec, c
}

func (f *transactionHandlerFixture) createCard(t *testing.T) *domain.DebitCard {
	t.Helper()
	card, err := f.cardService.CreateCard(f.userID, domain.CardTypeVisa)
	if err != nil {
		t.Fatalf("CreateCard failed: %v", err)
	}
	return card
}

func TestCreateTransactionEndpoint(t *testing.T) {
	f := newTransactionHandlerFixture()
	card := f.createCard(t)

	body := fmt.Sprintf(`{"debitCardId": %d, "amount": 2500, "currencyCode": "VND"}`, card.ID)
	rec, c := f.request(t, http.MethodPost, "/api/v1/debit-card-transactions", body)

	if err := f.handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var response DebitCardTransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Amount != 2500 {
		t.Errorf("Expected amount 2500, got %d", response.Amount)
	}
	if response.DebitCardID != card.ID {
		t.Errorf("Expected card %d, got %d", card.ID, response.DebitCardID)
	}
}

func TestCreateTransactionEndpoint_DisabledCard(t *testing.T) {
	f := newTransactionHandlerFixture()
	card := f.createCard(t)
	if _, err := f.cardService.DisableCard(f.userID, card.ID); err != nil {
		t.Fatalf("DisableCard failed: %v", err)
	}

	body := fmt.Sprintf(`{"debitCardId": %d, "amount": 2500, "currencyCode": "VND"}`, card.ID)
	rec, c := f.request(t, http.MethodPost, "/api/v1/debit-card-transactions", body)

	if err := f.handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", rec.Code)
	}
}

func TestCreateTransactionEndpoint_Validation(t *testing.T) {
	f := newTransactionHandlerFixture()
	card := f.createCard(t)

	tests := []struct {
		name string
		body string
	}{
		{"zero amount", fmt.Sprintf(`{"debitCardId": %d, "amount": 0, "currencyCode": "VND"}`, card.ID)},
		{"negative amount", fmt.Sprintf(`{"debitCardId": %d, "amount": -100, "currencyCode": "VND"}`, card.ID)},
		{"bad currency", fmt.Sprintf(`{"debitCardId": %d, "amount": 100, "currencyCode": "USD"}`, card.ID)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, c := f.request(t, http.MethodPost, "/api/v1/debit-card-transactions", tt.body)
			if err := f.handler.CreateTransaction(c); err != nil {
				t.Fatalf("Expected no error, got %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Errorf("Expected status 400, got %d", rec.Code)
			}
		})
	}
}

func TestCreateTransactionEndpoint_UnknownCard(t *testing.T) {
	f := newTransactionHandlerFixture()

	rec, c := f.request(t, http.MethodPost, "/api/v1/debit-card-transactions",
		`{"debitCardId": 999, "amount": 100, "currencyCode": "VND"}`)

	if err := f.handler.CreateTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rec.Code)
	}
}

func TestGetTransactionEndpoint(t *testing.T) {
	f := newTransactionHandlerFixture()
	card := f.createCard(t)

	created, err := f.service.CreateTransaction(f.userID, service.CreateTransactionInput{
		DebitCardID:  card.ID,
		Amount:       750,
		CurrencyCode: domain.CurrencyVND,
	})
	if err != nil {
		t.Fatalf("CreateTransaction failed: %v", err)
	}

	rec, c := f.request(t, http.MethodGet, "/api/v1/debit-card-transactions/1", "")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", created.ID))

	if err := f.handler.GetTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response DebitCardTransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if response.Amount != 750 {
		t.Errorf("Expected amount 750, got %d", response.Amount)
	}

	// Another user cannot see the transaction
	req := httptest.NewRequest(http.MethodGet, "/api/v1/debit-card-transactions/1", nil)
	rec = httptest.NewRecorder()
	c = f.e.NewContext(req, rec)
	setupAuthContextWithUser(c, "auth0|other", "other@example.com", "", uuid.New())
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", created.ID))

	if err := f.handler.GetTransaction(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", rec.Code)
	}
}

func TestGetTransactionsEndpoint(t *testing.T) {
	f := newTransactionHandlerFixture()
	card := f.createCard(t)

	for _, amount := range []int64{100, 200} {
		if _, err := f.service.CreateTransaction(f.userID, service.CreateTransactionInput{
			DebitCardID:  card.ID,
			Amount:       amount,
			CurrencyCode: domain.CurrencyVND,
		}); err != nil {
			t.Fatalf("CreateTransaction failed: %v", err)
		}
	}

	rec, c := f.request(t, http.MethodGet, "/api/v1/debit-cards/1/transactions", "")
	c.SetParamNames("id")
	c.SetParamValues(fmt.Sprintf("%d", card.ID))

	if err := f.handler.GetTransactions(c); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rec.Code)
	}

	var response []DebitCardTransactionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("Failed to unmarshal response: %v", err)
	}
	if len(response) != 2 {
		t.Errorf("Expected 2 transactions, got %d", len(response))
	}
}
