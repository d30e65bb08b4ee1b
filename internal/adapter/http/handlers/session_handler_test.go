package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"reflect"
	"strings"
	"testing"

	"agency_estimate/internal/adapter/http/handlers/mocks"
	"agency_estimate/internal/domain/entities"
	"agency_estimate/internal/usecase"

	"github.com/gin-gonic/gin"
	"go.uber.org/mock/gomock"
)

func newSessionRouter(h *SessionHandler) *gin.Engine {
	r := gin.New()
	r.POST("/v1/sessions", h.StartSession)
	r.GET("/v1/sessions/:session_id", h.GetSession)
	r.PUT("/v1/sessions/:session_id/step", h.SetCurrentStep)
	r.PUT("/v1/sessions/:session_id/selections/:step_id", h.UpdateSelection)
	r.POST("/v1/sessions/:session_id/reset", h.ResetFlow)
	r.PUT("/v1/sessions/:session_id/invoice", h.LoadInvoice)
	r.PATCH("/v1/sessions/:session_id/items/:item_id/toggle", h.ToggleItem)
	r.DELETE("/v1/sessions/:session_id", h.EndSession)
	return r
}

func TestSessionHandler_StartAndGet(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("start", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockISessionUseCase(ctrl)
		r := newSessionRouter(NewSessionHandler(uc))
		uc.EXPECT().Start(gomock.Any()).Return(entities.Session{ID: "s-1", Flow: entities.NewFlowState()}, nil)

		w := doJSON(r, http.MethodPost, "/v1/sessions", "")
		if w.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d", w.Code)
		}
		var res map[string]any
		_ = json.Unmarshal(w.Body.Bytes(), &res)
		if res["session_id"] != "s-1" || res["current_step"] != float64(0) {
			t.Fatalf("unexpected body: %s", w.Body.String())
		}
	})

	t.Run("get not found", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockISessionUseCase(ctrl)
		r := newSessionRouter(NewSessionHandler(uc))
		uc.EXPECT().Get(gomock.Any(), "s-1").Return(entities.Session{}, usecase.ErrSessionNotFound)

		w := doJSON(r, http.MethodGet, "/v1/sessions/s-1", "")
		if w.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", w.Code)
		}
		var res map[string]string
		_ = json.Unmarshal(w.Body.Bytes(), &res)
		if res["code"] != "SESSION_NOT_FOUND" {
			t.Fatalf("unexpected code: %v", res)
		}
	})
}

func TestSessionHandler_SetCurrentStep(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("missing step", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockISessionUseCase(ctrl)
		r := newSessionRouter(NewSessionHandler(uc))

		w := doJSON(r, http.MethodPut, "/v1/sessions/s-1/step", `{}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("step zero is accepted", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockISessionUseCase(ctrl)
		r := newSessionRouter(NewSessionHandler(uc))
		uc.EXPECT().SetCurrentStep(gomock.Any(), "s-1", 0).Return(entities.Session{ID: "s-1"}, nil)

		w := doJSON(r, http.MethodPut, "/v1/sessions/s-1/step", `{"step":0}`)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
	})
}

func TestSessionHandler_UpdateSelection(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockISessionUseCase(ctrl)
	r := newSessionRouter(NewSessionHandler(uc))

	uc.EXPECT().UpdateSelection(gomock.Any(), "s-1", "step1", []string{"optB", "optA"}).DoAndReturn(
		func(_ context.Context, id, step string, ids []string) (entities.Session, error) {
			f := entities.NewFlowState()
			f.UpdateSelection(step, ids)
			return entities.Session{ID: id, Flow: f}, nil
		},
	)

	w := doJSON(r, http.MethodPut, "/v1/sessions/s-1/selections/step1", `{"selectedIds":["optB","optA"]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var res struct {
		Selections map[string][]string `json:"selections"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &res)
	if !reflect.DeepEqual(res.Selections["step1"], []string{"optB", "optA"}) {
		t.Fatalf("order must be preserved: %v", res.Selections)
	}
}

func TestSessionHandler_LoadInvoice(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("duplicate ids", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockISessionUseCase(ctrl)
		r := newSessionRouter(NewSessionHandler(uc))
		uc.EXPECT().LoadInvoice(gomock.Any(), "s-1", gomock.Any(), gomock.Any()).Return(entities.Session{}, usecase.ErrDuplicateItemID)

		w := doJSON(r, http.MethodPut, "/v1/sessions/s-1/invoice", `{"groups":[{"items":[{"id":"a"},{"id":"a"}]}]}`)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("concrete scenario", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()
		uc := mocks.NewMockISessionUseCase(ctrl)
		r := newSessionRouter(NewSessionHandler(uc))
		uc.EXPECT().LoadInvoice(gomock.Any(), "s-1", gomock.Any(), gomock.Any()).DoAndReturn(
			func(_ context.Context, id string, groups []entities.InvoiceGroup, customer entities.Customer) (entities.Session, error) {
				return entities.Session{ID: id, Groups: groups, Customer: customer}, nil
			},
		)

		body := `{"groups":[{"category":"dev","items":[
			{"id":"a","amount":1000},
			{"id":"b","amount":"2,000"},
			{"id":"c","amount":500,"isDeleted":true}
		]}],"customer":{"name":"Kim"}}`
		w := doJSON(r, http.MethodPut, "/v1/sessions/s-1/invoice", body)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		var res struct {
			Invoice struct {
				Total struct {
					Amount  int64  `json:"amount"`
					Display string `json:"display"`
				} `json:"total"`
				Customer entities.Customer `json:"customer"`
			} `json:"invoice"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &res)
		if res.Invoice.Total.Amount != 3000 || res.Invoice.Total.Display != "3,000" || res.Invoice.Customer.Name != "Kim" {
			t.Fatalf("unexpected invoice: %s", w.Body.String())
		}
	})
}

func TestSessionHandler_ToggleResetEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockISessionUseCase(ctrl)
	r := newSessionRouter(NewSessionHandler(uc))

	uc.EXPECT().ToggleItem(gomock.Any(), "s-1", "zz").Return(entities.Session{}, usecase.ErrItemNotFound)
	uc.EXPECT().ResetFlow(gomock.Any(), "s-1").Return(entities.Session{ID: "s-1"}, nil)
	uc.EXPECT().End(gomock.Any(), "s-1").Return(nil)

	if w := doJSON(r, http.MethodPatch, "/v1/sessions/s-1/items/zz/toggle", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodPost, "/v1/sessions/s-1/reset", ""); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if w := doJSON(r, http.MethodDelete, "/v1/sessions/s-1", ""); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

func TestMapSessionError(t *testing.T) {
	cases := []struct {
		err  error
		code int
	}{
		{usecase.ErrInvalidSessionID, http.StatusBadRequest},
		{usecase.ErrInvalidStepID, http.StatusBadRequest},
		{usecase.ErrDuplicateItemID, http.StatusBadRequest},
		{usecase.ErrSessionNotFound, http.StatusNotFound},
		{usecase.ErrItemNotFound, http.StatusNotFound},
		{usecase.ErrSessionBusy, http.StatusConflict},
		{errors.New("redis"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := mapSessionError(tc.err); got.HTTPStatus != tc.code {
			t.Fatalf("for err %v expected %d got %d", tc.err, tc.code, got.HTTPStatus)
		}
	}
}

func TestWriteError_LogsServerCause(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewJSONHandler(&logs, nil)))
	t.Cleanup(func() { slog.SetDefault(prev) })

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()
	uc := mocks.NewMockISessionUseCase(ctrl)
	r := newSessionRouter(NewSessionHandler(uc))

	uc.EXPECT().Get(gomock.Any(), "s-1").Return(entities.Session{}, errors.New("redis: connection refused"))
	w := doJSON(r, http.MethodGet, "/v1/sessions/s-1", "")
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Fatalf("cause leaked to client: %s", w.Body.String())
	}
	if !strings.Contains(logs.String(), "redis: connection refused") || !strings.Contains(logs.String(), `"level":"ERROR"`) {
		t.Fatalf("expected cause in error log, got %s", logs.String())
	}

	logs.Reset()
	uc.EXPECT().Get(gomock.Any(), "s-2").Return(entities.Session{}, usecase.ErrSessionNotFound)
	if w := doJSON(r, http.MethodGet, "/v1/sessions/s-2", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
	if logs.Len() != 0 {
		t.Fatalf("expected no log for client errors, got %s", logs.String())
	}
}
