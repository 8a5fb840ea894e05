// Package main provides the interactive valuation server: clients push a
// parameter set over a WebSocket and receive the recomputed valuation in
// response. Recomputation only happens on demand; the server keeps no
// per-client model state.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/websocket"

	"token-dcf-lab/internal/decision"
	"token-dcf-lab/internal/domain"
	"token-dcf-lab/internal/observability"
	"token-dcf-lab/internal/valuation"
)

// ParamsMessage is one recompute request from a client.
type ParamsMessage struct {
	TimeHorizonYears    int     `json:"time_horizon_years"`
	PeriodsPerYear      int     `json:"periods_per_year"`
	AnnualDiscountRate  float64 `json:"annual_discount_rate"`
	StakerFeeShare      float64 `json:"staker_fee_share"`
	CurveMid            float64 `json:"curve_mid"`
	CurveSlope          float64 `json:"curve_slope"`
	CurveLimit          float64 `json:"curve_limit"`
	AvgTransactionValue float64 `json:"avg_transaction_value"`

	// Optional: enables the verdict in the response.
	MarketCap float64 `json:"market_cap,omitempty"`
}

// ResultMessage is the server's response to one recompute request.
type ResultMessage struct {
	OK     bool                    `json:"ok"`
	Error  string                  `json:"error,omitempty"`
	Result *domain.ValuationResult `json:"result,omitempty"`
	Run    *domain.ValuationRun    `json:"run,omitempty"`
}

// Server handles WebSocket valuation sessions.
type Server struct {
	engine    *valuation.Engine
	evaluator *decision.Evaluator
	metrics   *observability.Metrics
	upgrader  websocket.Upgrader
	logger    *log.Logger
}

func newServer(logger *log.Logger) *Server {
	return &Server{
		engine:    valuation.NewEngine(),
		evaluator: decision.NewEvaluator(),
		metrics:   observability.NewMetrics(""),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
		},
		logger: logger,
	}
}

// handleWS runs one client session: read a parameter message, recompute,
// reply, repeat until the client disconnects.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Printf("upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	s.metrics.WSClientsConnected.Inc()
	defer s.metrics.WSClientsConnected.Dec()

	for {
		var msg ParamsMessage
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				s.logger.Printf("read failed: %v", err)
			}
			return
		}

		resp := s.evaluate(msg)
		if err := conn.WriteJSON(resp); err != nil {
			s.logger.Printf("write failed: %v", err)
			return
		}
	}
}

// evaluate recomputes the valuation for one parameter message.
func (s *Server) evaluate(msg ParamsMessage) *ResultMessage {
	params := domain.Parameters{
		TimeHorizonYears:   msg.TimeHorizonYears,
		PeriodsPerYear:     msg.PeriodsPerYear,
		AnnualDiscountRate: msg.AnnualDiscountRate,
		StakerFeeShare:     msg.StakerFeeShare,
		Curve: domain.CurveParams{
			Mid:   msg.CurveMid,
			Slope: msg.CurveSlope,
			Limit: msg.CurveLimit,
		},
		AvgTransactionValue: msg.AvgTransactionValue,
	}

	start := time.Now()
	result, err := s.engine.Run(params)
	if err != nil {
		s.metrics.ValuationErrors.WithLabelValues("engine").Inc()
		s.metrics.WSMessageErrors.Inc()
		return &ResultMessage{OK: false, Error: err.Error()}
	}
	s.metrics.ValuationDuration.Observe(time.Since(start).Seconds())
	s.metrics.ValuationsComputed.Inc()
	s.metrics.WSMessagesHandled.Inc()

	run := valuation.RunRecord(result, time.Now().UnixMilli())

	if msg.MarketCap > 0 {
		verdict, err := s.evaluator.Evaluate(result, msg.MarketCap)
		if err != nil {
			s.metrics.ValuationErrors.WithLabelValues("verdict").Inc()
			s.metrics.WSMessageErrors.Inc()
			return &ResultMessage{OK: false, Error: err.Error()}
		}
		run.MarketCap = &verdict.MarketCap
		run.Verdict = &verdict.Verdict
	}

	return &ResultMessage{OK: true, Result: result, Run: run}
}

func main() {
	listenAddr := flag.String("listen", ":8080", "HTTP listen address")
	flag.Parse()

	logger := log.New(os.Stderr, "[server] ", log.LstdFlags)
	server := newServer(logger)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", server.handleWS)
	mux.Handle("/metrics", observability.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})

	httpServer := &http.Server{
		Addr:              *listenAddr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Printf("Received signal %v, shutting down...", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Printf("shutdown: %v", err)
		}
	}()

	logger.Printf("Listening on %s", *listenAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatalf("serve: %v", err)
	}
}
