package services

import (
	"godownhub/internal/common"
	"godownhub/pkg/database"
)

// notFound turns a missing row into the application not-found kind and passes
// every other error through.
func notFound(err error, resource string) error {
	if database.IsNotFound(err) {
		return common.NotFound(resource)
	}
	return err
}

// conflictOn turns a unique violation into a conflict with message.
func conflictOn(err error, message string) error {
	if database.IsUniqueViolation(err) {
		return common.Conflict("%s", message)
	}
	return err
}

