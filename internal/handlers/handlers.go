package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	customerrors "github.com/akashipov/feeservice/internal/errors"
	"github.com/akashipov/feeservice/internal/fee"
	"github.com/akashipov/feeservice/internal/feeconfig"
	"github.com/akashipov/feeservice/internal/metrics"
	"github.com/akashipov/feeservice/internal/pkg/middleware/compress"
	"github.com/akashipov/feeservice/internal/pkg/middleware/logger"
	"github.com/akashipov/feeservice/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	Store    storage.Store
	Resolver *fee.Resolver
	Log      *zap.SugaredLogger
}

func NewHandler(store storage.Store, log *zap.SugaredLogger) *Handler {
	return &Handler{
		Store:    store,
		Resolver: fee.NewResolver(store),
		Log:      log,
	}
}

// ServerRouter serves the API behind gzip; /metrics is mounted outside it
// since promhttp compresses on its own.
func ServerRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	r.Handle("/metrics", promhttp.Handler())

	api := chi.NewRouter()
	api.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})
	api.Post(
		"/fee",
		logger.WithLogging(http.HandlerFunc(h.PostFee), h.Log),
	)
	api.Patch(
		"/fee",
		logger.WithLogging(http.HandlerFunc(h.PatchFee), h.Log),
	)
	api.Post(
		"/compute-transaction-fee",
		logger.WithLogging(http.HandlerFunc(h.ComputeTransactionFee), h.Log),
	)
	r.Mount("/", compress.GzipHandle(api, h.Log))
	return r
}

type feeConfigurationRequest struct {
	FeeConfigurationSpec string `json:"FeeConfigurationSpec"`
}

type feeConfigurationResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// PostFee replaces the stored configuration.
func (h *Handler) PostFee(w http.ResponseWriter, request *http.Request) {
	h.applyFee(w, request, func(ctx context.Context, text string) (int, error) {
		return feeconfig.Apply(ctx, h.Store, text)
	})
}

// PatchFee adds specifications to the stored configuration.
func (h *Handler) PatchFee(w http.ResponseWriter, request *http.Request) {
	h.applyFee(w, request, func(ctx context.Context, text string) (int, error) {
		return feeconfig.Append(ctx, h.Store, text)
	})
}

func (h *Handler) applyFee(
	w http.ResponseWriter,
	request *http.Request,
	apply func(ctx context.Context, text string) (int, error),
) {
	var req feeConfigurationRequest
	err := json.NewDecoder(http.MaxBytesReader(w, request.Body, maxBodyBytes)).Decode(&req)
	if err != nil {
		metrics.ConfigurationUpdates.WithLabelValues("http", "rejected").Inc()
		h.report(w, &customerrors.CustomError{
			Message: "Problem with request body: " + err.Error(),
			Status:  http.StatusBadRequest,
			Err:     err,
		})
		return
	}
	n, err := apply(request.Context(), req.FeeConfigurationSpec)
	if err != nil {
		metrics.ConfigurationUpdates.WithLabelValues("http", "rejected").Inc()
		h.report(w, toCustomError(err))
		return
	}
	metrics.ConfigurationUpdates.WithLabelValues("http", "applied").Inc()
	h.Log.Infof("Fee configuration with %d specifications was applied", n)
	h.writeJSON(w, http.StatusOK, feeConfigurationResponse{Status: "ok", Count: n})
}

type computeResponse struct {
	Code             int     `json:"code"`
	Success          bool    `json:"success"`
	Message          string  `json:"message"`
	AppliedFeeID     string  `json:"AppliedFeeID"`
	AppliedFeeValue  float64 `json:"AppliedFeeValue"`
	ChargeAmount     float64 `json:"ChargeAmount"`
	SettlementAmount float64 `json:"SettlementAmount"`
}

func (h *Handler) ComputeTransactionFee(w http.ResponseWriter, request *http.Request) {
	start := time.Now()
	defer func() {
		metrics.ResolutionDuration.Observe(time.Since(start).Seconds())
	}()
	var req fee.TransactionRequest
	err := json.NewDecoder(http.MaxBytesReader(w, request.Body, maxBodyBytes)).Decode(&req)
	if err != nil {
		metrics.Resolutions.WithLabelValues(metrics.OutcomeInvalidRequest).Inc()
		h.report(w, &customerrors.CustomError{
			Message: "Problem with request body: " + err.Error(),
			Status:  http.StatusBadRequest,
			Err:     err,
		})
		return
	}
	res, err := h.Resolver.Resolve(request.Context(), req)
	if err != nil {
		metrics.Resolutions.WithLabelValues(outcome(err)).Inc()
		h.report(w, toCustomError(err))
		return
	}
	metrics.Resolutions.WithLabelValues(metrics.OutcomeApplied).Inc()
	metrics.AppliedFees.WithLabelValues(res.AppliedFeeID).Inc()
	h.writeJSON(w, http.StatusOK, computeResponse{
		Code:             http.StatusOK,
		Success:          true,
		Message:          "Successfully applied configuration fee",
		AppliedFeeID:     res.AppliedFeeID,
		AppliedFeeValue:  res.AppliedFeeValue.InexactFloat64(),
		ChargeAmount:     res.ChargeAmount.InexactFloat64(),
		SettlementAmount: res.SettlementAmount.InexactFloat64(),
	})
}

func toCustomError(err error) *customerrors.CustomError {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, fee.ErrInvalidRequest),
		errors.Is(err, fee.ErrConfigurationMissing),
		errors.Is(err, fee.ErrNoApplicableRule),
		errors.Is(err, feeconfig.ErrInvalidSpec):
		status = http.StatusBadRequest
	case errors.Is(err, storage.ErrDuplicateFeeID):
		status = http.StatusConflict
	}
	return &customerrors.CustomError{Message: err.Error(), Status: status, Err: err}
}

func outcome(err error) string {
	switch {
	case errors.Is(err, fee.ErrInvalidRequest):
		return metrics.OutcomeInvalidRequest
	case errors.Is(err, fee.ErrConfigurationMissing):
		return metrics.OutcomeConfigurationMissing
	case errors.Is(err, fee.ErrNoApplicableRule):
		return metrics.OutcomeNoApplicableRule
	}
	return metrics.OutcomeStoreFailure
}

func (h *Handler) report(w http.ResponseWriter, cErr *customerrors.CustomError) {
	if cErr.Status >= http.StatusInternalServerError {
		h.Log.Errorf("Request failed: %s", cErr.Error())
	} else {
		h.Log.Debugf("Request rejected: %s", cErr.Error())
	}
	err := cErr.ReportError(w)
	if err != nil {
		h.Log.Warnln(err.Error())
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		h.Log.Warnf("Problem with writing response: %s", err.Error())
	}
}
