// Package validator registers domain validations on gin's binding
// engine.
package validator

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/IagoLeal1/GestaoLibelle-sub000/internal/model"
)

var appointmentStatuses = map[string]struct{}{
	string(model.AppointmentStatusScheduled):  {},
	string(model.AppointmentStatusInProgress): {},
	string(model.AppointmentStatusCompleted):  {},
	string(model.AppointmentStatusNoShow):     {},
	string(model.AppointmentStatusCancelled):  {},
}

// appointmentStatus accepts only the persisted status tokens.
func appointmentStatus(fl validator.FieldLevel) bool {
	_, ok := appointmentStatuses[fl.Field().String()]
	return ok
}

// Register installs the custom validations. Call once at startup,
// before any request binding runs.
func Register() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("appointment_status", appointmentStatus)
}
