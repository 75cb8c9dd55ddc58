package utils

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Response is the JSON envelope every endpoint returns.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondWithJSON(w http.ResponseWriter, code int, data interface{}) {
	write(w, code, Response{Success: true, Message: "OK", Data: data})
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	write(w, code, Response{Success: false, Message: message})
}

func write(w http.ResponseWriter, code int, resp Response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if code == http.StatusNoContent {
		return
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		zap.L().Error("failed to write response", zap.Error(err))
	}
}
