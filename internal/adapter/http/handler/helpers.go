package handler

import (
	"encoding/json"
	"errors"
	"maps"
	"net/http"

	t "github.com/arlan-b/fleet-snapshot-system/internal/domain/types"
)

type envelope map[string]any

func writeJSON(w http.ResponseWriter, status int, data envelope, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return errors.New("failed to encode json")
	}

	js = append(js, '\n')

	maps.Copy(w.Header(), headers)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(js)

	return nil
}

func GetCode(err error) int {
	switch {
	case IsOneOf(err, t.ErrVehicleNotFound, t.ErrNotFound):
		return http.StatusNotFound
	case IsOneOf(err, t.ErrNoInventoryData):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func IsOneOf(err error, targets ...error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
