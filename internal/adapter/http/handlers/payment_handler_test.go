package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agency_estimate/internal/adapter/http/handlers/mocks"
	"agency_estimate/internal/domain/entities"
	"agency_estimate/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

type failingReadCloser struct{}

func (failingReadCloser) Read(_ []byte) (int, error) { return 0, errors.New("read error") }
func (failingReadCloser) Close() error               { return nil }

func newPaymentRouter(h *PaymentHandler, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.POST("/v1/payments/:estimate_id", h.CreatePaymentByEstimateID)
	r.GET("/v1/payments/:estimate_id", h.GetPaymentByEstimateID)
	return r
}

func TestPaymentHandler_CreatePaymentByEstimateID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("invalid payload is handed to the use case as empty", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newPaymentRouter(NewPaymentHandler(uc), asUser("u-1"))

		uc.EXPECT().CreateForEstimate(gomock.Any(), "u-1", "est-1", gomock.Nil()).Return(entities.EstimatePayment{}, usecase.ErrInvalidPaymentPayload)

		w := doJSON(r, http.MethodPost, "/v1/payments/est-1", "{")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("usecase mapped error", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newPaymentRouter(NewPaymentHandler(uc), asUser("u-1"))

		uc.EXPECT().CreateForEstimate(gomock.Any(), "u-1", "est-1", gomock.Any()).Return(entities.EstimatePayment{}, usecase.ErrEstimateNotApproved)

		w := doJSON(r, http.MethodPost, "/v1/payments/est-1", `{"payment_method_id":"pix","payer":{"email":"x@test.com"}}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newPaymentRouter(NewPaymentHandler(uc), asUser("u-1"))

		uc.EXPECT().CreateForEstimate(gomock.Any(), "u-1", "est-1", json.RawMessage(`{"payment_method_id":"pix"}`)).Return(entities.EstimatePayment{
			ID:         "pay-1",
			EstimateID: "est-1",
			Amount:     3000,
			Date:       time.Now().UTC(),
			Status:     entities.PaymentStatusApproved,
		}, nil)

		w := doJSON(r, http.MethodPost, "/v1/payments/est-1", `{"mp_payload":{"payment_method_id":"pix"}}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var res map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &res)
		if res["payment_id"] != "pay-1" || res["status"] != "approved" || res["display"] != "3,000" {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})
}

func TestPaymentHandler_CreatePaymentByEstimateID_Ownership(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("without user", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newPaymentRouter(NewPaymentHandler(uc))

		w := doJSON(r, http.MethodPost, "/v1/payments/est-1", `{}`)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("expected 401, got %d", w.Code)
		}
	})

	t.Run("already paid", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newPaymentRouter(NewPaymentHandler(uc), asUser("u-1"))
		uc.EXPECT().CreateForEstimate(gomock.Any(), "u-1", "est-1", gomock.Any()).Return(entities.EstimatePayment{}, usecase.ErrEstimateAlreadyPaid)

		w := doJSON(r, http.MethodPost, "/v1/payments/est-1", `{}`)
		if w.Code != http.StatusConflict {
			t.Fatalf("expected 409, got %d", w.Code)
		}
	})
}

func TestPaymentHandler_GetPaymentByEstimateID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newPaymentRouter(NewPaymentHandler(uc), asUser("u-1"))
		uc.EXPECT().LatestByEstimateID(gomock.Any(), "u-1", "est-1").Return(entities.EstimatePayment{}, usecase.ErrPaymentNotFound)

		w := doJSON(r, http.MethodGet, "/v1/payments/est-1", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
	})

	t.Run("success", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockIPaymentUseCase(ctrl)
		r := newPaymentRouter(NewPaymentHandler(uc), asUser("u-1"))
		uc.EXPECT().LatestByEstimateID(gomock.Any(), "u-1", "est-1").Return(entities.EstimatePayment{ID: "p2", EstimateID: "est-1"}, nil)

		w := doJSON(r, http.MethodGet, "/v1/payments/est-1", "")
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestReadMPPayload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	makeCtx := func(raw string) *gin.Context {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodPost, "/", bytes.NewBufferString(raw))
		c.Request.Header.Set("Content-Type", "application/json")
		return c
	}

	ctxReadErr := makeCtx("{}")
	ctxReadErr.Request.Body = failingReadCloser{}
	if _, err := readMPPayload(ctxReadErr); err == nil {
		t.Fatalf("expected read body error")
	}

	if _, err := readMPPayload(makeCtx("{invalid")); err == nil {
		t.Fatalf("expected invalid json error")
	}

	payload, err := readMPPayload(makeCtx("   "))
	if err != nil || string(payload) != "{}" {
		t.Fatalf("expected {}, got payload=%s err=%v", string(payload), err)
	}

	if _, err := readMPPayload(makeCtx(`{"mp_payload":null}`)); err == nil {
		t.Fatalf("expected mp_payload empty error")
	}

	payload, err = readMPPayload(makeCtx(`{"mp_payload":{"a":1}}`))
	if err != nil || string(payload) != `{"a":1}` {
		t.Fatalf("expected wrapped payload, got %s err=%v", payload, err)
	}

	payload, err = readMPPayload(makeCtx(`{"payment_method_id":"pix"}`))
	if err != nil || string(payload) != `{"payment_method_id":"pix"}` {
		t.Fatalf("expected raw body payload, got %s err=%v", payload, err)
	}
}

func TestMapPaymentError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{usecase.ErrInvalidPaymentEstimateID, http.StatusBadRequest},
		{usecase.ErrInvalidPaymentPayload, http.StatusBadRequest},
		{usecase.ErrPaymentGatewayBadRequest, http.StatusBadRequest},
		{usecase.ErrPaymentGatewayCustomerNotFound, http.StatusBadRequest},
		{usecase.ErrPaymentGatewayInvalidUsers, http.StatusBadRequest},
		{usecase.ErrPaymentGatewayUnauthorized, http.StatusUnauthorized},
		{usecase.ErrPaymentGatewayNotConfigured, http.StatusServiceUnavailable},
		{usecase.ErrEstimateNotFound, http.StatusNotFound},
		{usecase.ErrEstimateNotApproved, http.StatusConflict},
		{usecase.ErrEstimateAlreadyPaid, http.StatusConflict},
		{usecase.ErrInvalidEstimateID, http.StatusBadRequest},
		{usecase.ErrInvalidUserID, http.StatusUnauthorized},
		{usecase.ErrNothingToCharge, http.StatusConflict},
		{usecase.ErrPaymentNotFound, http.StatusNotFound},
		{errors.New("other"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		got := mapPaymentError(tc.err)
		if got.HTTPStatus != tc.code {
			t.Fatalf("for err %v expected %d got %d", tc.err, tc.code, got.HTTPStatus)
		}
	}
}
