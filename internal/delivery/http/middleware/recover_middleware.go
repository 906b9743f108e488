package middleware

import (
	"net/http"
	"runtime/debug"

	"alartmed/pkg/response"

	"github.com/sirupsen/logrus"
)

type RecoverMiddleware struct {
	log *logrus.Logger
}

func NewRecoverMiddleware(log *logrus.Logger) *RecoverMiddleware {
	return &RecoverMiddleware{log: log}
}

func (m *RecoverMiddleware) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				m.log.WithFields(logrus.Fields{
					"error":       err,
					"method":      r.Method,
					"url":         r.URL.String(),
					"remote_addr": r.RemoteAddr,
					"stack_trace": string(debug.Stack()),
				}).Error("internal server error")

				response.InternalServerError(w, "")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
