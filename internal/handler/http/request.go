package http

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
)

// Upload limits for multipart bodies. The DTOs enforce per-file sizes.
const (
	maxPhotoUpload    = 10 << 20
	maxDocumentUpload = 6 << 20
	maxTaskUpload     = 5*(10<<20) + (1 << 20)
)

var errInvalidBody = errors.New("invalid request format")

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return errInvalidBody
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// decodeForm reads the JSON part of a multipart body from the "data" field.
// Without it, individual form values are left for the caller.
func decodeForm(r *http.Request, maxMemory int64, dst any) error {
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		return errInvalidBody
	}
	if data := r.FormValue("data"); data != "" {
		if err := json.Unmarshal([]byte(data), dst); err != nil {
			return errInvalidBody
		}
	}
	return nil
}

func queryString(r *http.Request, key string) *string {
	if v := r.URL.Query().Get(key); v != "" {
		return &v
	}
	return nil
}

func queryInt(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

func queryBool(r *http.Request, key string) *bool {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil
	}
	b := val == "true" || val == "1"
	return &b
}

func formString(r *http.Request, key string) *string {
	if v := r.FormValue(key); v != "" {
		return &v
	}
	return nil
}

func formFloat(r *http.Request, key string) *float64 {
	v := r.FormValue(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
