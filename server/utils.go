package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
)

func (g *GameServer) writeParseError(err error, w http.ResponseWriter, r *http.Request) {
	g.log.WithError(err).WithField("path", r.URL.Path).Info("could not parse request")
	w.Header().Add("Content-Type", "text/plain")

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.Is(err, io.EOF):
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Missing body"))
	case errors.As(err, &syntaxErr), errors.As(err, &typeErr), errors.Is(err, io.ErrUnexpectedEOF):
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte("Malformed body"))
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}
}
