package main

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"strconv"

	"github.com/gazebo-web/forum-server/bundles/auth"
	"github.com/gazebo-web/forum-server/bundles/generics"
	"github.com/gazebo-web/forum-server/permissions"
	"github.com/gazebo-web/gz-go/v7"
	"github.com/go-playground/form"
	"github.com/gorilla/mux"
	"github.com/jinzhu/gorm"
	"gopkg.in/go-playground/validator.v9"
)

// handlerFn is the signature of every route handler. Handlers run inside the
// request transaction.
type handlerFn func(tx *gorm.DB, w http.ResponseWriter, r *http.Request) (*generics.Result, *gz.ErrMsg)

// pagFn is a handler that returns a paginated listing.
type pagFn func(p *gz.PaginationRequest, tx *gorm.DB, w http.ResponseWriter,
	r *http.Request) (*generics.Result, *gz.PaginationResult, *gz.ErrMsg)

// JSONResult adapts a handlerFn into an http.Handler. It opens a transaction,
// rolls it back if the handler fails and commits it otherwise. The result
// envelope is written as JSON, using its status code as the HTTP status.
func (app *application) JSONResult(handler handlerFn) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		tx := app.db.Begin()
		if tx.Error != nil {
			writeFailure(w, r, gz.NewErrorMessageWithBase(gz.ErrorNoDatabase, tx.Error))
			return
		}

		result, em := handler(tx, w, r)
		if em != nil {
			tx.Rollback()
			writeFailure(w, r, em)
			return
		}
		if err := tx.Commit().Error; err != nil {
			writeFailure(w, r, gz.NewErrorMessageWithBase(gz.ErrorDbSave, err))
			return
		}
		if err := writeResult(w, result); err != nil {
			gz.LoggerFromContext(ctx).Error("Error writing response: ", err)
		}
	})
}

// PaginationHandler is a middleware handler that wraps a pagFn function and
// invokes it with a configured pagination request. It also writes the
// pagination headers into the HTTP response.
func PaginationHandler(handler pagFn) handlerFn {
	return func(tx *gorm.DB, w http.ResponseWriter, r *http.Request) (*generics.Result, *gz.ErrMsg) {
		pr, em := generics.NewPageRequest(r)
		if em != nil {
			return nil, em
		}

		result, pagination, em := handler(pr, tx, w, r)
		if em != nil {
			return nil, em
		}

		// Failed listings report no pagination. Pages beyond the last one
		// only carry the metadata in the body.
		if pagination != nil && pagination.PageFound {
			if err := gz.WritePaginationHeaders(*pagination, w, r); err != nil {
				return nil, gz.NewErrorMessageWithBase(gz.ErrorUnexpected, err)
			}
		}
		return result, nil
	}
}

func writeResult(w http.ResponseWriter, result *generics.Result) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(result.StatusCode)
	return json.NewEncoder(w).Encode(result)
}

// writeFailure logs the error and writes its envelope. The base error is only
// logged.
func writeFailure(w http.ResponseWriter, r *http.Request, em *gz.ErrMsg) {
	result := generics.Fail(em)
	logger := gz.LoggerFromContext(r.Context())
	if result.StatusCode >= http.StatusInternalServerError {
		logger.Error(fmt.Sprintf("%s %s failed: %s (%v)", r.Method, r.URL.Path, em.Msg, em.BaseError))
	} else {
		logger.Debug(fmt.Sprintf("%s %s rejected: %s", r.Method, r.URL.Path, result.Message))
	}
	if err := writeResult(w, result); err != nil {
		logger.Error("Error writing response: ", err)
	}
}

// acting returns the identity put in the request by the authentication
// middleware.
func acting(r *http.Request) permissions.Identity {
	id, _ := auth.IdentityFrom(r.Context())
	return id
}

// readUintVar reads a positive numeric path variable.
func readUintVar(r *http.Request, name string) (uint, *gz.ErrMsg) {
	str, ok := mux.Vars(r)[name]
	if !ok {
		return 0, gz.NewErrorMessage(gz.ErrorIDNotInRequest)
	}
	v, err := strconv.ParseUint(str, 10, 32)
	if err != nil || v == 0 {
		return 0, gz.NewErrorMessageWithArgs(gz.ErrorIDNotInRequest, err, []string{name})
	}
	return uint(v), nil
}

// readNameVar reads a string path variable.
func readNameVar(r *http.Request, name string) (string, *gz.ErrMsg) {
	str, ok := mux.Vars(r)[name]
	if !ok || str == "" {
		return "", gz.NewErrorMessageWithArgs(gz.ErrorNameWrongFormat, nil, []string{name})
	}
	return str, nil
}

// isForm returns true if the request body is url encoded or multipart.
func isForm(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return false
	}
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}

// ParseStruct reads the http request and decodes sent values into the given
// struct. Form values are decoded with the form decoder and any other body as
// JSON. It also calls validator to validate the struct fields.
func (app *application) ParseStruct(s interface{}, r *http.Request) *gz.ErrMsg {
	if isForm(r) {
		if err := r.ParseForm(); err != nil {
			return gz.NewErrorMessageWithBase(gz.ErrorForm, err)
		}
		if errs := app.formDecoder.Decode(s, r.Form); errs != nil {
			return gz.NewErrorMessageWithArgs(gz.ErrorFormInvalidValue, errs,
				getDecodeErrorsExtraInfo(errs))
		}
	} else {
		if err := json.NewDecoder(r.Body).Decode(s); err != nil {
			return gz.NewErrorMessageWithBase(gz.ErrorUnmarshalJSON, err)
		}
	}
	return app.ValidateStruct(s)
}

// ValidateStruct Validate struct values using golang validator.v9
func (app *application) ValidateStruct(s interface{}) *gz.ErrMsg {
	if errs := app.validate.Struct(s); errs != nil {
		return gz.NewErrorMessageWithArgs(gz.ErrorFormInvalidValue, errs,
			getValidationErrorsExtraInfo(errs))
	}
	return nil
}

// Builds the ErrMsg extra info from the given DecodeErrors
func getDecodeErrorsExtraInfo(err error) []string {
	errs, ok := err.(form.DecodeErrors)
	if !ok {
		return []string{err.Error()}
	}
	extra := make([]string, 0, len(errs))
	for field := range errs {
		extra = append(extra, fmt.Sprintf("Field: %s", field))
	}
	return extra
}

// Builds the ErrMsg extra info from the given ValidationErrors. Values are
// left out, they may be passwords.
func getValidationErrorsExtraInfo(err error) []string {
	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{err.Error()}
	}
	extra := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		extra = append(extra, fmt.Sprintf("%s:%s", fe.Field(), fe.Tag()))
	}
	return extra
}
