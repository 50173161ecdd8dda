package client

import "github.com/pkg/errors"

func newForeignTableError(property string) error {
	return errors.Errorf("client: property %q: object belongs to a different table", property)
}

func newNilObjectError(property string) error {
	return errors.Errorf("client: property %q: reference value must not be nil", property)
}
