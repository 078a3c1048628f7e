package bridge

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/gattbridge/gattbridge/internal/attr"
	"github.com/gattbridge/gattbridge/internal/ble"
)

// NewRouter builds the attribute request surface from the descriptor
// table: one generic read handler per readable attribute, one generic
// write handler per writable one, plus a table listing at /attrs.
func NewRouter(b *Bridge, registry *attr.Registry, logger *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/attrs", listHandler(registry)).Methods(http.MethodGet)

	for _, d := range registry.All() {
		path := "/" + d.Name
		if d.Readable {
			r.HandleFunc(path, readHandler(b, d, logger)).Methods(http.MethodGet)
		}
		if d.Writable {
			r.HandleFunc(path, writeHandler(b, d, logger)).Methods(http.MethodPost)
		}
		logger.WithFields(logrus.Fields{
			"path":     path,
			"short_id": d.ShortID,
			"readable": d.Readable,
			"writable": d.Writable,
		}).Debug("Registered attribute route")
	}
	return r
}

// listHandler serves the descriptor table.
func listHandler(registry *attr.Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, registry.All())
	}
}

// readHandler reads the attribute's characteristic and decodes it into
// the typed quantity. Failed reads answer with a JSON null body and the
// mapped status code.
func readHandler(b *Bridge, d *attr.Descriptor, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := b.Read(d.ShortID)

		var payload any
		if err == nil {
			if d.Scaled() {
				payload, err = d.ScaledCodec().Decode(data)
			} else {
				payload, err = d.UintCodec().Decode(data)
			}
		}
		if err != nil {
			logger.WithFields(logrus.Fields{
				"attribute": d.Name,
				"error":     err,
			}).Warn("Attribute read failed")
			writeJSON(w, statusFor(err), nil)
			return
		}

		writeJSON(w, http.StatusOK, payload)
	}
}

// writeHandler decodes the request payload, runs it through the
// attribute's codec, and writes the produced bytes to the device. All
// validation happens before the device sees anything.
func writeHandler(b *Bridge, d *attr.Descriptor, logger *logrus.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := decodePayload(d, r)
		if err == nil {
			err = b.Write(d.ShortID, data)
		}
		if err != nil {
			logger.WithFields(logrus.Fields{
				"attribute": d.Name,
				"error":     err,
			}).Warn("Attribute write failed")
			writeJSON(w, statusFor(err), nil)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

// decodePayload parses the request body as the attribute's quantity
// type and encodes it to raw bytes.
func decodePayload(d *attr.Descriptor, r *http.Request) ([]byte, error) {
	if d.Scaled() {
		var q attr.ScaledQuantity
		if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
			return nil, errBadPayload
		}
		return d.ScaledCodec().Encode(q)
	}

	var q attr.UintQuantity
	if err := json.NewDecoder(r.Body).Decode(&q); err != nil {
		return nil, errBadPayload
	}
	return d.UintCodec().Encode(q)
}

// errBadPayload marks a request body that could not be parsed as the
// attribute's quantity shape.
var errBadPayload = errors.New("malformed request payload")

// statusFor maps the error taxonomy to the four externally visible
// outcomes: not-found, unavailable, bad-request, internal failure.
func statusFor(err error) int {
	switch {
	case errors.Is(err, ble.ErrCharacteristicNotFound),
		errors.Is(err, ble.ErrServiceNotFound):
		return http.StatusNotFound
	case errors.Is(err, attr.ErrUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, attr.ErrUnitMismatch),
		errors.Is(err, attr.ErrValueTooLarge),
		errors.Is(err, attr.ErrInvalidValue),
		errors.Is(err, errBadPayload):
		return http.StatusBadRequest
	default:
		// Length mismatches and transport failures are internal errors.
		return http.StatusInternalServerError
	}
}

// writeJSON writes a JSON response body; nil encodes as null.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
