package api

import (
	"net/http"
	"testing"

	"github.com/paylab/dwolla-dashboard/internal/domain"
)

const (
	testSourceURL = "https://api-sandbox.dwolla.com/funding-sources/src-1"
	testDestURL   = "https://api-sandbox.dwolla.com/funding-sources/dst-1"
)

func TestCreateTransferRejectsNonPositiveAmount(t *testing.T) {
	p := &providerStub{}
	env := newTestEnv(p, "")

	rec := env.do(t, http.MethodPost, "/api/transfers",
		`{"sourceFundingSourceUrl":"`+testSourceURL+`","destinationFundingSourceUrl":"`+testDestURL+`","amount":-5}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["error"] != "Amount must be greater than 0" {
		t.Errorf("unexpected error message %q", body["error"])
	}
	if p.callCount() != 0 {
		t.Errorf("expected no provider calls, got %d", p.callCount())
	}
}

func TestCreateTransferRequiresEndpoints(t *testing.T) {
	env := newTestEnv(&providerStub{}, "")

	rec := env.do(t, http.MethodPost, "/api/transfers", `{"amount":25}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	body := decodeBody(t, rec)
	if body["error"] != "Source and destination funding sources are required" {
		t.Errorf("unexpected error message %q", body["error"])
	}
}

func TestCreateTransferSuccess(t *testing.T) {
	p := &providerStub{
		getFn: func(pathOrURL string, target any) error {
			switch pathOrURL {
			case testSourceURL, testDestURL:
				fillTarget(t, target, domain.DwollaFundingSource{
					Links:  domain.Links{"self": {Href: pathOrURL}},
					Status: domain.FundingSourceStatusVerified,
					Name:   "Checking",
				})
				return nil
			default:
				t.Errorf("unexpected GET %q", pathOrURL)
				return nil
			}
		},
		postFollowFn: func(pathOrURL string, body, target any) error {
			if pathOrURL != "/transfers" {
				t.Errorf("unexpected path %q", pathOrURL)
			}
			payload, ok := body.(domain.CreateTransferPayload)
			if !ok {
				t.Fatalf("unexpected payload type %T", body)
			}
			if payload.Amount.Value != "25.00" || payload.Amount.Currency != "USD" {
				t.Errorf("unexpected amount %+v", payload.Amount)
			}
			fillTarget(t, target, domain.DwollaTransfer{
				Links: domain.Links{
					"self":        {Href: "https://api-sandbox.dwolla.com/transfers/tr-1"},
					"source":      {Href: testSourceURL},
					"destination": {Href: testDestURL},
				},
				ID:     "tr-1",
				Status: domain.TransferStatusPending,
				Amount: payload.Amount,
			})
			return nil
		},
	}
	env := newTestEnv(p, "")

	rec := env.do(t, http.MethodPost, "/api/transfers",
		`{"sourceFundingSourceUrl":"`+testSourceURL+`","destinationFundingSourceUrl":"`+testDestURL+`","amount":25}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	transfer, ok := body["transfer"].(map[string]any)
	if !ok {
		t.Fatalf("expected transfer object, got %v", body)
	}
	if transfer["id"] != "tr-1" || transfer["status"] != domain.TransferStatusPending {
		t.Errorf("unexpected transfer %v", transfer)
	}
	if _, ok := env.transfers.FindByID("tr-1"); !ok {
		t.Error("expected transfer in registry")
	}
}

func TestCreateTransferUnverifiedDestination(t *testing.T) {
	p := &providerStub{
		getFn: func(pathOrURL string, target any) error {
			status := domain.FundingSourceStatusVerified
			if pathOrURL == testDestURL {
				status = domain.FundingSourceStatusUnverified
			}
			fillTarget(t, target, domain.DwollaFundingSource{
				Links:  domain.Links{"self": {Href: pathOrURL}},
				Status: status,
			})
			return nil
		},
	}
	env := newTestEnv(p, "")

	rec := env.do(t, http.MethodPost, "/api/transfers",
		`{"sourceFundingSourceUrl":"`+testSourceURL+`","destinationFundingSourceUrl":"`+testDestURL+`","amount":10}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	body := decodeBody(t, rec)
	if body["error"] != "Destination funding source is not verified" {
		t.Errorf("unexpected error message %q", body["error"])
	}
}

func TestGetTransferNotFound(t *testing.T) {
	env := newTestEnv(&providerStub{}, "")

	rec := env.do(t, http.MethodGet, "/api/transfers/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}
