package main

import (
	"log"
	"regexp"
	"strings"

	"gopkg.in/go-playground/validator.v9"
)

// This module adds custom validators used by validator.v9

const (
	// Matches alphanum chars plus underscore, between 3 and 30 chars
	usernamePattern = "^[a-zA-Z0-9_]{3,30}$"
)

var usernameRegex = regexp.MustCompile(usernamePattern)

// InstallCustomValidators extends validator.v9 with custom validation functions
// and meta tags for fields.
func InstallCustomValidators(validate *validator.Validate) {
	err := validate.RegisterValidation("notblank", notBlank)
	if err != nil {
		log.Fatalln("Failed to install custom validator:", err)
	}
	err = validate.RegisterValidation("username", isUsername)
	if err != nil {
		log.Fatalln("Failed to install custom validator:", err)
	}
}

// notBlank is the validation function for validating that the current field's
// value has something other than white space.
func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// isUsername is the validation function for validating if the current
// field's value is a valid username.
func isUsername(fl validator.FieldLevel) bool {
	return usernameRegex.MatchString(fl.Field().String())
}
