package httpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"stockval/internal/application"
	"stockval/internal/domain"
	"stockval/internal/infrastructure/logx"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Server struct {
	svc  *application.ValuationService
	ping func(context.Context) error
}

func NewServer(svc *application.ValuationService) *Server { return &Server{svc: svc} }

// SetReadyCheck installs the probe behind /readyz.
func (s *Server) SetReadyCheck(fn func(context.Context) error) { s.ping = fn }

type valuationResp struct {
	Symbol       string          `json:"symbol"`
	Date         string          `json:"date"`
	TradingDay   string          `json:"trading_day"`
	Currency     string          `json:"currency"`
	Base         string          `json:"base"`
	Close        decimal.Decimal `json:"close"`
	Rate         decimal.Decimal `json:"rate"`
	Value        decimal.Decimal `json:"value"`
	Formatted    string          `json:"formatted"`
	RateFallback bool            `json:"rate_fallback,omitempty"`
}

func toValuationResp(v domain.Valuation) valuationResp {
	return valuationResp{
		Symbol:       v.Symbol,
		Date:         v.Date,
		TradingDay:   v.TradingDay,
		Currency:     string(v.Native),
		Base:         string(v.Base),
		Close:        v.Close,
		Rate:         v.Rate,
		Value:        v.Value,
		Formatted:    v.Base.Format(v.Value),
		RateFallback: v.RateFallback,
	}
}

type holdingReq struct {
	Symbol   string          `json:"symbol"`
	Quantity decimal.Decimal `json:"quantity"`
}

type portfolioReq struct {
	Date     string       `json:"date"`
	Base     string       `json:"base"`
	Holdings []holdingReq `json:"holdings"`
}

type lineResp struct {
	Quantity  decimal.Decimal `json:"quantity"`
	Valuation valuationResp   `json:"valuation"`
	Value     decimal.Decimal `json:"value"`
}

type portfolioResp struct {
	Date      string          `json:"date"`
	Base      string          `json:"base"`
	Lines     []lineResp      `json:"lines"`
	Total     decimal.Decimal `json:"total"`
	Formatted string          `json:"formatted"`
}

type changeResp struct {
	Symbol  string          `json:"symbol"`
	From    valuationResp   `json:"from"`
	To      valuationResp   `json:"to"`
	Percent decimal.Decimal `json:"percent"`
}

// GET /v1/valuations/{symbol}?date=&base=
func (s *Server) GetValuation(w http.ResponseWriter, r *http.Request) {
	base, ok := s.baseParam(w, r, r.URL.Query().Get("base"))
	if !ok {
		return
	}
	v, err := s.svc.CloseValue(r.Context(), chi.URLParam(r, "symbol"), r.URL.Query().Get("date"), base)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toValuationResp(v))
}

// POST /v1/portfolio/valuations
func (s *Server) ValuePortfolio(w http.ResponseWriter, r *http.Request) {
	var body portfolioReq
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	holdings := make([]domain.Holding, 0, len(body.Holdings))
	for i, h := range body.Holdings {
		if strings.TrimSpace(h.Symbol) == "" {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("holdings[%d]: symbol is required", i))
			return
		}
		if !h.Quantity.IsPositive() {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("holdings[%d]: quantity must be positive", i))
			return
		}
		holdings = append(holdings, domain.Holding{Symbol: h.Symbol, Quantity: h.Quantity})
	}
	base, ok := s.baseParam(w, r, body.Base)
	if !ok {
		return
	}

	pv, err := s.svc.PortfolioValue(r.Context(), holdings, body.Date, base)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	resp := portfolioResp{
		Date:      pv.Date,
		Base:      string(pv.Base),
		Lines:     make([]lineResp, 0, len(pv.Lines)),
		Total:     pv.Total,
		Formatted: pv.Base.Format(pv.Total),
	}
	for _, l := range pv.Lines {
		resp.Lines = append(resp.Lines, lineResp{
			Quantity:  l.Holding.Quantity,
			Valuation: toValuationResp(l.Valuation),
			Value:     l.Value,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

// GET /v1/changes/{symbol}?from=&to=&base=
func (s *Server) GetChange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("from") == "" || q.Get("to") == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}
	base, ok := s.baseParam(w, r, q.Get("base"))
	if !ok {
		return
	}
	ch, err := s.svc.PercentChange(r.Context(), chi.URLParam(r, "symbol"), q.Get("from"), q.Get("to"), base)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, changeResp{
		Symbol:  ch.Symbol,
		From:    toValuationResp(ch.Day1),
		To:      toValuationResp(ch.Day2),
		Percent: ch.Percent.Round(4),
	})
}

// GET /v1/currencies
func (s *Server) ListCurrencies(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.Currencies(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	codes := make([]string, len(list))
	for i, c := range list {
		codes[i] = string(c)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"default":    string(s.svc.DefaultBase()),
		"currencies": codes,
	})
}

// baseParam validates an explicit base currency; "" selects the default.
func (s *Server) baseParam(w http.ResponseWriter, r *http.Request, raw string) (domain.Currency, bool) {
	if raw == "" {
		return "", true
	}
	c, err := s.svc.CheckCurrency(r.Context(), raw)
	if err != nil {
		s.fail(w, r, err)
		return "", false
	}
	return c, true
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	fields := []zap.Field{
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.String("request_id", requestIDFrom(r.Context())),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logx.L().Error("request_failed", fields...)
	} else {
		logx.L().Warn("request_failed", fields...)
	}
	writeJSON(w, status, errorBodyFor(status, err))
}
