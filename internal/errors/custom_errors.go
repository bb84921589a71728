package customerrors

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type CustomError struct {
	Message string
	Status  int
	Err     error
}

func (e *CustomError) Error() string {
	return e.Message
}

func (e *CustomError) Unwrap() error {
	return e.Err
}

type body struct {
	Code    int    `json:"code"`
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ReportError writes the error as a JSON body with the error's status.
func (e *CustomError) ReportError(w http.ResponseWriter) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.Status)
	err := json.NewEncoder(w).Encode(body{Code: e.Status, Message: e.Message})
	if err != nil {
		return fmt.Errorf("Problem with writing to responser status is %d: %w", e.Status, err)
	}
	return nil
}
