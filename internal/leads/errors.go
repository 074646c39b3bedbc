package leads

import "errors"

var (
	// ErrMissingNome is returned when the name field is empty.
	ErrMissingNome = errors.New("leads: nome is required")

	// ErrMissingEmail is returned when the email field is empty.
	ErrMissingEmail = errors.New("leads: email is required")

	// ErrMissingTelefone is returned when the phone field is empty.
	ErrMissingTelefone = errors.New("leads: telefone is required")

	// ErrMissingServico is returned when the service field is empty.
	ErrMissingServico = errors.New("leads: servico is required")
)
