package render

import (
	"bytes"
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

const (
	StatusSuccess = "success"
	StatusFail    = "fail"
)

// Message every malformed or invalid request body answers with
const InvalidPayloadMessage = "Invalid payload."

var validate = validator.New()

func init() {
	// Report on json tag name instead of struct field name
	// Look at documentation of 'RegisterTagNameFunc' for more details
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		// skip if tag key says it should be ignored
		if name == "-" {
			return ""
		}
		return name
	})
}

type failResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, data any) {
	JSONWithStatus(w, data, http.StatusOK)
}

// Fail renders the '{"status": "fail", "message": ...}' envelope
func Fail(w http.ResponseWriter, message string, code int) {
	JSONWithStatus(w, failResponse{Status: StatusFail, Message: message}, code)
}

// BindAndValidate decodes JSON request body into type T and validates it using struct tags.
// Every decode or validation failure is reported the same way: 400 with the
// invalid payload envelope. Callers should just return on error.
func BindAndValidate[T any](w http.ResponseWriter, r *http.Request) (T, error) {
	var value T

	err := json.NewDecoder(r.Body).Decode(&value)
	if err != nil {
		Fail(w, InvalidPayloadMessage, http.StatusBadRequest)
		return value, err
	}

	err = validate.Struct(value)
	if err != nil {
		Fail(w, InvalidPayloadMessage, http.StatusBadRequest)
		return value, err
	}

	return value, nil
}

// JSONWithStatus sends data as json and enforces status code
func JSONWithStatus(w http.ResponseWriter, data any, code int) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)

	if err := enc.Encode(data); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(buf.Bytes())
}
