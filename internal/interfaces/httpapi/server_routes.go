package httpapi

import "net/http"

func registerRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)

	mux.HandleFunc("GET /predictions/stats", handler.Stats)
	mux.HandleFunc("GET /predictions/matches", handler.Matches)
	mux.HandleFunc("GET /predictions/top-picks", handler.TopPicks)
	mux.HandleFunc("GET /predictions/best-multis", handler.BestMultis)
	mux.HandleFunc("GET /predictions/accuracy", handler.Accuracy)
	mux.HandleFunc("GET /predictions/accuracy/history", handler.AccuracyHistory)
	mux.HandleFunc("GET /predictions", handler.Predictions)
	mux.HandleFunc("GET /predictions/{matchId}", handler.PredictionsByMatch)

	mux.HandleFunc("GET /v1/dashboard", handler.Dashboard)
}
