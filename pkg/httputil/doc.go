// Package httputil provides HTTP utilities for standardized request/response handling.
//
// # Response Helpers
//
//	httputil.WriteSuccess(w, metrics)
//	httputil.WriteNoContent(w)
//	httputil.WriteBadRequest(w, "category is required")
//	httputil.WriteInternalError(w, err)
//
// # Request Parsing and Validation
//
//	var categories []string
//	if !httputil.ParseJSONOrError(w, r, &categories) {
//		return // Error response already written
//	}
//	if !httputil.ValidateVarOrError(w, "categories", categories, "dive,required") {
//		return
//	}
//
// Struct validation uses go-playground/validator tags and reports fields by
// their json or query tag names.
//
// # Middleware
//
//	handler := httputil.Chain(
//		httputil.RequestIDMiddleware(logger),
//		httputil.LoggingMiddleware,
//		httputil.RecoveryMiddleware,
//		httputil.MaxBytesMiddleware(1<<20),
//	)(router)
package httputil
