package validator

import (
	"reflect"

	"ctchen222/tictactoe-bot/internal/game"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	// Initialize validation
	validate = validator.New(validator.WithRequiredStructEnabled())

	// "mark" accepts a cell value: empty, X or O.
	if err := validate.RegisterValidation("mark", validateMark); err != nil {
		panic(err)
	}
}

func validateMark(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return game.IsValidMark(game.PlayerMark(field.String()))
}

func GetValidator() *validator.Validate {
	return validate
}
