package rest

import (
	"encoding/json"
	"net/http"

	"github.com/rocketscienceinc/mill-backend/internal/repository"
)

type statsResponse struct {
	WinsByColor map[string]int `json:"wins_by_color"`
}

// statsHandler serves aggregate win counts from the results archive.
func statsHandler(resultRepo repository.ResultRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		wins, err := resultRepo.CountWinsByColor(r.Context())
		if err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if err = json.NewEncoder(w).Encode(statsResponse{WinsByColor: wins}); err != nil {
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}
}
