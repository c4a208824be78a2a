package employee

import (
	"errors"

	employeeerrors "go-leave/internal/employee/errors"

	"gorm.io/gorm"
)

func mapRepositoryError(err error, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}

func mapEmployeeError(err error) error {
	return mapRepositoryError(err, employeeerrors.ErrEmployeeNotFound)
}
