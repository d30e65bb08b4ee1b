package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"agency_estimate/internal/domain/entities"
	mock_interfaces "agency_estimate/internal/usecase/interfaces/mocks"

	"go.uber.org/mock/gomock"
)

func approvedEstimate() entities.Estimate {
	return entities.Estimate{ID: "est-1", UserID: "u-1", Status: entities.EstimateStatusApproved, Groups: sampleGroups()}
}

func TestPaymentUseCase_CreateForEstimate_Validations(t *testing.T) {
	t.Run("empty estimate id", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil, nil, PaymentOptions{})
		_, err := uc.CreateForEstimate(context.Background(), "u-1", " ", json.RawMessage(`{}`))
		if !errors.Is(err, ErrInvalidPaymentEstimateID) {
			t.Fatalf("expected ErrInvalidPaymentEstimateID, got %v", err)
		}
	})

	t.Run("empty payload", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil, nil, PaymentOptions{})
		_, err := uc.CreateForEstimate(context.Background(), "u-1", "est-1", nil)
		if !errors.Is(err, ErrInvalidPaymentPayload) {
			t.Fatalf("expected ErrInvalidPaymentPayload, got %v", err)
		}
	})

	t.Run("invalid json payload", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil, nil, PaymentOptions{})
		_, err := uc.CreateForEstimate(context.Background(), "u-1", "est-1", json.RawMessage(`{`))
		if !errors.Is(err, ErrInvalidPaymentPayload) {
			t.Fatalf("expected ErrInvalidPaymentPayload, got %v", err)
		}
	})

	t.Run("gateway not configured", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil, nil, PaymentOptions{})
		_, err := uc.CreateForEstimate(context.Background(), "u-1", "est-1", json.RawMessage(`{"payment_method_id":"pix"}`))
		if !errors.Is(err, ErrPaymentGatewayNotConfigured) {
			t.Fatalf("expected ErrPaymentGatewayNotConfigured, got %v", err)
		}
	})
}

func TestPaymentUseCase_CreateForEstimate_EstimateChecks(t *testing.T) {
	cases := []struct {
		name    string
		est     entities.Estimate
		repoErr error
		want    error
	}{
		{name: "not found", est: entities.Estimate{}, want: ErrEstimateNotFound},
		{name: "not approved", est: entities.Estimate{ID: "est-1", UserID: "u-1", Status: entities.EstimateStatusPending, Groups: sampleGroups()}, want: ErrEstimateNotApproved},
		{name: "owned by someone else", est: entities.Estimate{ID: "est-1", UserID: "u-2", Status: entities.EstimateStatusApproved, Groups: sampleGroups()}, want: ErrEstimateNotFound},
		{name: "zero total", est: entities.Estimate{ID: "est-1", UserID: "u-1", Status: entities.EstimateStatusApproved}, want: ErrNothingToCharge},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			estRepo := mock_interfaces.NewMockIEstimateRepository(ctrl)
			gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
			uc := NewPaymentUseCase(nil, estRepo, gateway, PaymentOptions{})

			estRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(tc.est, tc.repoErr)

			_, err := uc.CreateForEstimate(context.Background(), "u-1", "est-1", json.RawMessage(`{"payment_method_id":"pix"}`))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	t.Run("estimate repo returns error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		estRepo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(nil, estRepo, gateway, PaymentOptions{})

		estRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(entities.Estimate{}, errors.New("db"))

		_, err := uc.CreateForEstimate(context.Background(), "u-1", "est-1", json.RawMessage(`{"payment_method_id":"pix"}`))
		if err == nil || err.Error() != "db" {
			t.Fatalf("expected db error, got %v", err)
		}
	})
}

func TestPaymentUseCase_CreateForEstimate_PayloadValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload string
		opts    PaymentOptions
	}{
		{name: "missing payment_method_id", payload: `{"payer":{"email":"x@test.com"}}`},
		{name: "missing payer", payload: `{"payment_method_id":"pix"}`},
		{name: "json array", payload: `[1,2]`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			estRepo := mock_interfaces.NewMockIEstimateRepository(ctrl)
			gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
			uc := NewPaymentUseCase(nil, estRepo, gateway, tc.opts)

			estRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)

			_, err := uc.CreateForEstimate(context.Background(), "u-1", "est-1", json.RawMessage(tc.payload))
			if !errors.Is(err, ErrInvalidPaymentPayload) {
				t.Fatalf("expected ErrInvalidPaymentPayload, got %v", err)
			}
		})
	}
}

func TestPaymentUseCase_CreateForEstimate_GatewayErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want error
	}{
		{name: "customer not found", err: errors.New(`{"code":2002}`), want: ErrPaymentGatewayCustomerNotFound},
		{name: "invalid users", err: errors.New(`invalid users involved`), want: ErrPaymentGatewayInvalidUsers},
		{name: "unauthorized", err: errors.New(`{"error":"unauthorized"}`), want: ErrPaymentGatewayUnauthorized},
		{name: "bad request", err: errors.New(`{"status":400}`), want: ErrPaymentGatewayBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
			estRepo := mock_interfaces.NewMockIEstimateRepository(ctrl)
			gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
			uc := NewPaymentUseCase(repo, estRepo, gateway, PaymentOptions{})

			estRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)
			repo.EXPECT().ListByEstimateID(gomock.Any(), "est-1").Return(nil, nil)
			gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("", "", nil, tc.err)

			_, err := uc.CreateForEstimate(context.Background(), "u-1", "est-1", json.RawMessage(`{"payment_method_id":"pix","payer":{"email":"x@test.com"}}`))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	t.Run("unknown gateway error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		estRepo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, estRepo, gateway, PaymentOptions{})

		estRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)
		repo.EXPECT().ListByEstimateID(gomock.Any(), "est-1").Return(nil, nil)
		gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("", "", nil, errors.New("boom"))

		_, err := uc.CreateForEstimate(context.Background(), "u-1", "est-1", json.RawMessage(`{"payment_method_id":"pix","payer":{"email":"x@test.com"}}`))
		if err == nil || err.Error() != "boom" {
			t.Fatalf("expected boom, got %v", err)
		}
	})
}

func TestPaymentUseCase_CreateForEstimate_SuccessAndStatuses(t *testing.T) {
	cases := []struct {
		name           string
		providerStatus string
		want           entities.PaymentStatus
		providerResp   json.RawMessage
	}{
		{name: "approved", providerStatus: "approved", want: entities.PaymentStatusApproved, providerResp: json.RawMessage(`{"id":123}`)},
		{name: "rejected", providerStatus: "rejected", want: entities.PaymentStatusDenied, providerResp: json.RawMessage(`{"id":123}`)},
		{name: "pending default", providerStatus: "in_process", want: entities.PaymentStatusPending, providerResp: json.RawMessage(`{"id":123}`)},
		{name: "invalid provider response json", providerStatus: "approved", want: entities.PaymentStatusApproved, providerResp: json.RawMessage(`{`)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
			estRepo := mock_interfaces.NewMockIEstimateRepository(ctrl)
			gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
			uc := NewPaymentUseCase(repo, estRepo, gateway, PaymentOptions{SandboxPayerEmail: "sandbox@test.com"})

			estRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)
			repo.EXPECT().ListByEstimateID(gomock.Any(), "est-1").Return(nil, nil)
			gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).DoAndReturn(
				func(_ context.Context, payload json.RawMessage) (string, string, json.RawMessage, error) {
					var body map[string]any
					if err := json.Unmarshal(payload, &body); err != nil {
						t.Fatalf("payload should be valid json: %v", err)
					}
					if body["external_reference"] != "est-1" {
						t.Fatalf("external_reference not set")
					}
					if body["description"] != "Estimate est-1" {
						t.Fatalf("description not set")
					}
					// a=1000, b=2000, c removed
					if body["transaction_amount"] != float64(3000) {
						t.Fatalf("transaction_amount should be the recomputed total, got %v", body["transaction_amount"])
					}
					payer := body["payer"].(map[string]any)
					if payer["email"] != "sandbox@test.com" {
						t.Fatalf("expected sandbox payer email, got %v", payer["email"])
					}
					return "pay-1", tc.providerStatus, tc.providerResp, nil
				},
			)

			repo.EXPECT().Create(gomock.Any(), gomock.AssignableToTypeOf(entities.EstimatePayment{})).DoAndReturn(
				func(_ context.Context, p entities.EstimatePayment) (entities.EstimatePayment, error) {
					if p.ID != "pay-1" || p.EstimateID != "est-1" || p.Status != tc.want || p.Amount != 3000 {
						t.Fatalf("unexpected payment: %+v", p)
					}
					if p.Date.IsZero() {
						t.Fatalf("date must be set")
					}
					return p, nil
				},
			)

			res, err := uc.CreateForEstimate(context.Background(), "u-1", "est-1", json.RawMessage(`{"payment_method_id":"pix","transaction_amount":1}`))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if res.Status != tc.want {
				t.Fatalf("expected status %s, got %s", tc.want, res.Status)
			}
		})
	}

	t.Run("repository create error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		estRepo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
		uc := NewPaymentUseCase(repo, estRepo, gateway, PaymentOptions{})

		estRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)
		repo.EXPECT().ListByEstimateID(gomock.Any(), "est-1").Return(nil, nil)
		gateway.EXPECT().CreatePayment(gomock.Any(), gomock.Any()).Return("pay-1", "approved", json.RawMessage(`{"id":123}`), nil)
		repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(entities.EstimatePayment{}, errors.New("db-create"))

		_, err := uc.CreateForEstimate(context.Background(), "u-1", "est-1", json.RawMessage(`{"payment_method_id":"pix","payer":{"email":"x@test.com"}}`))
		if err == nil || err.Error() != "db-create" {
			t.Fatalf("expected db-create error, got %v", err)
		}
	})
}

func TestPaymentUseCase_CreateForEstimate_MockMode(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
	estRepo := mock_interfaces.NewMockIEstimateRepository(ctrl)
	uc := NewPaymentUseCase(repo, estRepo, nil, PaymentOptions{MockMode: true})

	estRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)
	repo.EXPECT().ListByEstimateID(gomock.Any(), "est-1").Return(nil, nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p entities.EstimatePayment) (entities.EstimatePayment, error) { return p, nil },
	)

	res, err := uc.CreateForEstimate(context.Background(), "u-1", "est-1", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != entities.PaymentStatusApproved || res.ID == "" {
		t.Fatalf("unexpected payment: %+v", res)
	}
	if res.ProviderPayload["external_reference"] != "est-1" || res.ProviderPayload["transaction_amount"] != float64(3000) {
		t.Fatalf("unexpected mock provider payload: %v", res.ProviderPayload)
	}
}

func TestPaymentUseCase_CreateForEstimate_AlreadyPaid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
	estRepo := mock_interfaces.NewMockIEstimateRepository(ctrl)
	gateway := mock_interfaces.NewMockIPaymentGateway(ctrl)
	uc := NewPaymentUseCase(repo, estRepo, gateway, PaymentOptions{})

	estRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)
	repo.EXPECT().ListByEstimateID(gomock.Any(), "est-1").Return([]entities.EstimatePayment{
		{ID: "p1", EstimateID: "est-1", Status: entities.PaymentStatusDenied},
		{ID: "p2", EstimateID: "est-1", Status: entities.PaymentStatusApproved},
	}, nil)
	// no gateway call: a second deposit must not be charged

	_, err := uc.CreateForEstimate(context.Background(), "u-1", "est-1", json.RawMessage(`{"payment_method_id":"pix","payer":{"email":"x@test.com"}}`))
	if !errors.Is(err, ErrEstimateAlreadyPaid) {
		t.Fatalf("expected ErrEstimateAlreadyPaid, got %v", err)
	}
}

func TestPaymentUseCase_CreateForEstimate_RetryAfterDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
	estRepo := mock_interfaces.NewMockIEstimateRepository(ctrl)
	uc := NewPaymentUseCase(repo, estRepo, nil, PaymentOptions{MockMode: true})

	estRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)
	repo.EXPECT().ListByEstimateID(gomock.Any(), "est-1").Return([]entities.EstimatePayment{
		{ID: "p1", EstimateID: "est-1", Status: entities.PaymentStatusDenied},
	}, nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, p entities.EstimatePayment) (entities.EstimatePayment, error) { return p, nil },
	)

	if _, err := uc.CreateForEstimate(context.Background(), "u-1", "est-1", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestPaymentUseCase_Getters(t *testing.T) {
	t.Run("GetByID invalid", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil, nil, PaymentOptions{})
		_, err := uc.GetByID(context.Background(), "")
		if !errors.Is(err, ErrInvalidPaymentID) {
			t.Fatalf("expected ErrInvalidPaymentID, got %v", err)
		}
	})

	t.Run("GetByID not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		uc := NewPaymentUseCase(repo, nil, nil, PaymentOptions{})
		repo.EXPECT().GetByID(gomock.Any(), "id-1").Return(entities.EstimatePayment{}, nil)

		_, err := uc.GetByID(context.Background(), "id-1")
		if !errors.Is(err, ErrPaymentNotFound) {
			t.Fatalf("expected ErrPaymentNotFound, got %v", err)
		}
	})

	t.Run("ListByEstimateID invalid", func(t *testing.T) {
		uc := NewPaymentUseCase(nil, nil, nil, PaymentOptions{})
		_, err := uc.ListByEstimateID(context.Background(), " ")
		if !errors.Is(err, ErrInvalidPaymentEstimateID) {
			t.Fatalf("expected ErrInvalidPaymentEstimateID, got %v", err)
		}
	})

	t.Run("LatestByEstimateID picks newest", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		estRepo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := NewPaymentUseCase(repo, estRepo, nil, PaymentOptions{})
		now := time.Now()
		estRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)
		repo.EXPECT().ListByEstimateID(gomock.Any(), "est-1").Return([]entities.EstimatePayment{
			{ID: "p1", Date: now.Add(-time.Hour)},
			{ID: "p2", Date: now},
		}, nil)

		res, err := uc.LatestByEstimateID(context.Background(), "u-1", " est-1 ")
		if err != nil || res.ID != "p2" {
			t.Fatalf("unexpected result err=%v res=%+v", err, res)
		}
	})

	t.Run("LatestByEstimateID of another user's estimate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		estRepo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := NewPaymentUseCase(nil, estRepo, nil, PaymentOptions{})
		estRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)

		_, err := uc.LatestByEstimateID(context.Background(), "u-2", "est-1")
		if !errors.Is(err, ErrEstimateNotFound) {
			t.Fatalf("expected ErrEstimateNotFound, got %v", err)
		}
	})

	t.Run("LatestByEstimateID none", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		repo := mock_interfaces.NewMockIPaymentRepository(ctrl)
		estRepo := mock_interfaces.NewMockIEstimateRepository(ctrl)
		uc := NewPaymentUseCase(repo, estRepo, nil, PaymentOptions{})
		estRepo.EXPECT().GetByID(gomock.Any(), "est-1").Return(approvedEstimate(), nil)
		repo.EXPECT().ListByEstimateID(gomock.Any(), "est-1").Return(nil, nil)

		_, err := uc.LatestByEstimateID(context.Background(), "u-1", "est-1")
		if !errors.Is(err, ErrPaymentNotFound) {
			t.Fatalf("expected ErrPaymentNotFound, got %v", err)
		}
	})
}

func TestPaymentUseCase_HelperFunctions(t *testing.T) {
	if hasNonEmptyString(map[string]any{"x": 1}, "x") || hasNonEmptyString(map[string]any{"x": " "}, "x") {
		t.Fatalf("expected false")
	}
	if !hasPayer(map[string]any{"payer": map[string]any{"id": 10}}) {
		t.Fatalf("expected true with id")
	}
	if hasPayerID(map[string]any{"id": nil}) {
		t.Fatalf("expected false for nil id")
	}

	m := map[string]any{}
	ensurePayerDefaults(m, "")
	payer := m["payer"].(map[string]any)
	if payer["type"] != "customer" || payer["email"] != nil {
		t.Fatalf("unexpected payer defaults: %v", payer)
	}
}
